package session

import (
	"context"

	"github.com/pumpchat/pumpchat/internal/address"
	"github.com/pumpchat/pumpchat/internal/domain"
)

// Participant is a read-only roster entry mirrored from the media platform.
type Participant struct {
	Identity string `json:"identity"`
	Speaking bool   `json:"speaking"`
}

type EventKind int

const (
	EventParticipantJoined EventKind = iota
	EventParticipantLeft
	EventSpeakersChanged
	EventData
	EventDisconnected
)

// MediaEvent is pushed by the media connection. Payload is set for EventData
// only; Identity for participant events.
type MediaEvent struct {
	Kind     EventKind
	Identity string
	Payload  []byte
}

// MediaConn is a live connection to the hosted media platform. The platform
// SDK owns transport, roster and speaking detection; this is the surface the
// controller consumes.
//
// Close must be idempotent. Events is closed when the connection dies;
// EventDisconnected may or may not precede that.
type MediaConn interface {
	Events() <-chan MediaEvent
	Participants() []Participant
	Muted() bool
	SetMicEnabled(ctx context.Context, enabled bool) error
	PublishData(ctx context.Context, payload []byte) error
	Close()
}

// MediaDialer opens a media connection with a minted credential.
type MediaDialer interface {
	Dial(ctx context.Context, wsURL, token string) (MediaConn, error)
}

type NoticeKind int

const (
	NoticeJoin NoticeKind = iota
	NoticeLeave
	NoticeMute
	NoticeUnmute
	NoticeReaction
)

// Notice is a transient surface event (join/leave chime, floating reaction).
type Notice struct {
	ID       string
	Kind     NoticeKind
	Identity string
	Emoji    string
}

// View is the full render state pushed to the surface.
type View struct {
	RoomKey      domain.RoomKey
	TokenName    string
	TokenSymbol  string
	TokenImage   string
	Participants []Participant
	Muted        bool
}

// Surface is a presentation surface: a floating window or a fallback tab.
// Closed fires when the user or OS closes it outside our control; teardown
// driven from there must tolerate an already-closed Session.
type Surface interface {
	Render(View)
	Notify(Notice)
	Closed() <-chan struct{}
	Close()
}

// SurfaceOpener creates a surface. Opening may fail (platform support,
// popup blockers); the controller then tries its fallback opener.
type SurfaceOpener interface {
	Open(ctx context.Context) (Surface, error)
}

// API is the overlay's own HTTP surface, seen from the client side.
type API interface {
	Resolve(ctx context.Context, addr string) (address.Resolution, error)
	TokenInfo(ctx context.Context, addr string) (domain.TokenInfo, error)
	JoinToken(ctx context.Context, room, username string) (string, error)
}
