package session

import (
	"context"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Reactions is the fixed set offered by the surface.
var Reactions = []string{"🚀", "🔥", "🇮🇳", "🏳️‍🌈", "💀", "👍", "😂"}

type reactionMessage struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

func decodeReaction(payload []byte) (string, bool) {
	var msg reactionMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return "", false
	}
	if msg.Type != "reaction" || msg.Emoji == "" {
		return "", false
	}
	return msg.Emoji, true
}

// SendReaction broadcasts emoji to the room. Lossy, unordered, no delivery
// guarantee; duplicates and drops are acceptable. The local surface shows it
// immediately either way.
func (s *Session) SendReaction(ctx context.Context, emoji string) {
	s.surface.Notify(Notice{ID: uuid.NewString(), Kind: NoticeReaction, Emoji: emoji})

	payload, err := json.Marshal(reactionMessage{Type: "reaction", Emoji: emoji})
	if err != nil {
		return
	}
	if err := s.media.PublishData(ctx, payload); err != nil {
		log.Debug().Err(err).Str("module", "session").Str("sid", s.id).Msg("reaction publish dropped")
	}
}
