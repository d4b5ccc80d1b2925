package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pumpchat/pumpchat/internal/domain"
)

// Session is one live join: the room key, the media connection and the
// presentation surface it exclusively owns. In-memory only.
type Session struct {
	ctrl    *Controller
	id      string
	media   MediaConn
	surface Surface

	mu    sync.Mutex
	state State
	view  View
	room  domain.RoomKey

	closeOnce sync.Once
	done      chan struct{}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Room returns the canonical room key this session joined.
func (s *Session) Room() domain.RoomKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Session) snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view
	v.Participants = append([]Participant(nil), s.view.Participants...)
	return v
}

// run mirrors live room state onto the surface until the session ends:
// explicit leave, remote disconnect, or the surface being closed by the
// user/OS. All three funnel into Close.
func (s *Session) run() {
	// Mute is the one state the media client does not push reliably, so
	// it is polled as a backstop. Everything else stays event-driven; do
	// not generalize this loop.
	ticker := time.NewTicker(s.ctrl.mutePoll)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-s.surface.Closed():
			log.Info().Str("module", "session").Str("sid", s.id).Msg("surface closed externally")
			s.Close()
			return
		case ev, ok := <-s.media.Events():
			if !ok || ev.Kind == EventDisconnected {
				log.Info().Str("module", "session").Str("sid", s.id).Msg("media disconnected")
				s.Close()
				return
			}
			s.handleEvent(ev)
		case <-ticker.C:
			s.pollMute()
		}
	}
}

func (s *Session) handleEvent(ev MediaEvent) {
	switch ev.Kind {
	case EventParticipantJoined:
		s.surface.Notify(Notice{ID: uuid.NewString(), Kind: NoticeJoin, Identity: ev.Identity})
		s.refreshRoster()
	case EventParticipantLeft:
		s.surface.Notify(Notice{ID: uuid.NewString(), Kind: NoticeLeave, Identity: ev.Identity})
		s.refreshRoster()
	case EventSpeakersChanged:
		s.refreshRoster()
	case EventData:
		if emoji, ok := decodeReaction(ev.Payload); ok {
			s.surface.Notify(Notice{ID: uuid.NewString(), Kind: NoticeReaction, Identity: ev.Identity, Emoji: emoji})
		}
	}
}

func (s *Session) refreshRoster() {
	parts := s.media.Participants()
	s.mu.Lock()
	s.view.Participants = parts
	s.mu.Unlock()
	s.surface.Render(s.snapshot())
}

func (s *Session) pollMute() {
	muted := s.media.Muted()
	s.mu.Lock()
	changed := muted != s.view.Muted
	s.view.Muted = muted
	s.mu.Unlock()
	if !changed {
		return
	}
	kind := NoticeUnmute
	if muted {
		kind = NoticeMute
	}
	s.surface.Notify(Notice{ID: uuid.NewString(), Kind: kind})
	s.surface.Render(s.snapshot())
}

// ToggleMute flips the local publish state. The rendered mute state follows
// via the poll, not this call's return.
func (s *Session) ToggleMute(ctx context.Context) error {
	return s.media.SetMicEnabled(ctx, s.media.Muted())
}

// Close tears the session down: media connection, surface, controller slot.
// Idempotent, and safe from both the explicit-leave path and the
// surface-closed path.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.setState(StateClosing)
		close(s.done)
		// media and surface are assigned under s.mu by a Join that may
		// still be running on another goroutine; read them the same way.
		s.mu.Lock()
		media, surface := s.media, s.surface
		s.mu.Unlock()
		if media != nil {
			media.Close()
		}
		if surface != nil {
			surface.Close()
		}
		s.ctrl.release(s)
		s.setState(StateIdle)
		log.Info().Str("module", "session").Str("sid", s.id).Msg("session closed")
	})
}
