// Package session drives the client-side join lifecycle: extract an address,
// resolve it, fetch metadata and a credential, open a presentation surface
// and mirror the live room until something tears it down.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/pumpchat/pumpchat/internal/address"
	"github.com/pumpchat/pumpchat/internal/domain"
)

var (
	// ErrCredential covers issuance failure and platform rejection. Fatal
	// to the attempt; surfaced with a retry affordance.
	ErrCredential = errors.New("credential fetch failed")

	// ErrSuperseded means a newer join started while this one was in
	// flight. The stale attempt's results are discarded, never applied.
	ErrSuperseded = errors.New("join superseded by a newer session")

	// ErrSurface means neither the floating surface nor the fallback tab
	// could be opened.
	ErrSurface = errors.New("could not open a presentation surface")
)

const defaultMutePoll = 100 * time.Millisecond

// Controller owns at most one live Session. It replaces the legacy global
// injection sentinel: "already running" is a liveness check against the
// owned Session, nothing global.
type Controller struct {
	api      API
	dialer   MediaDialer
	opener   SurfaceOpener
	fallback SurfaceOpener
	wsURL    string
	mutePoll time.Duration

	mu      sync.Mutex
	current *Session
}

func NewController(api API, dialer MediaDialer, opener, fallback SurfaceOpener, wsURL string) *Controller {
	return &Controller{
		api:      api,
		dialer:   dialer,
		opener:   opener,
		fallback: fallback,
		wsURL:    wsURL,
		mutePoll: defaultMutePoll,
	}
}

// Current returns the live Session, or nil.
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Leave tears down the live Session, if any. Safe to call at any time.
func (c *Controller) Leave() {
	if s := c.Current(); s != nil {
		s.Close()
	}
}

func (c *Controller) live(s *Session) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current == s
}

func (c *Controller) release(s *Session) {
	c.mu.Lock()
	if c.current == s {
		c.current = nil
	}
	c.mu.Unlock()
}

// Join runs the full flow on rawText (page URL or pasted input). A prior
// Session is torn down first; the surface is exclusively owned.
//
// Metadata failure degrades to placeholders. Extraction and credential
// failures abort the attempt.
func (c *Controller) Join(ctx context.Context, rawText, username string) (*Session, error) {
	c.mu.Lock()
	prev := c.current
	c.current = nil
	c.mu.Unlock()
	if prev != nil {
		prev.Close()
	}

	s := &Session{
		ctrl:  c,
		id:    uuid.NewString(),
		state: StateExtracting,
		done:  make(chan struct{}),
	}
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()

	candidate, err := address.Extract(rawText)
	if err != nil {
		return nil, c.fail(s, err)
	}
	log.Info().Str("module", "session").Str("sid", s.id).Str("candidate", candidate).Msg("address extracted")

	s.setState(StateResolving)
	room := candidate
	if !address.IsCanonical(candidate) {
		// Errors are absorbed: best-effort canonical key.
		if res, err := c.api.Resolve(ctx, candidate); err == nil && res.RoomKey != "" {
			room = res.RoomKey
		} else if err != nil {
			log.Debug().Err(err).Str("module", "session").Str("sid", s.id).Msg("resolve failed, using candidate as-is")
		}
	}
	if !c.live(s) {
		return nil, ErrSuperseded
	}

	s.setState(StateFetchingCredential)
	var (
		info  domain.TokenInfo
		token string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ti, err := c.api.TokenInfo(gctx, room)
		if err != nil {
			log.Debug().Err(err).Str("module", "session").Str("sid", s.id).Msg("token info unavailable, using placeholders")
			ti = domain.Placeholder(room)
		}
		info = ti
		return nil
	})
	g.Go(func() error {
		t, err := c.api.JoinToken(gctx, room, username)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCredential, err)
		}
		token = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, c.fail(s, err)
	}
	if !c.live(s) {
		return nil, ErrSuperseded
	}

	s.setState(StateOpeningSurface)
	surface, err := c.opener.Open(ctx)
	if err != nil && c.fallback != nil {
		log.Warn().Err(err).Str("module", "session").Str("sid", s.id).Msg("floating surface unavailable, falling back to tab")
		surface, err = c.fallback.Open(ctx)
	}
	if err != nil {
		return nil, c.fail(s, fmt.Errorf("%w: %v", ErrSurface, err))
	}
	if !c.live(s) {
		surface.Close()
		return nil, ErrSuperseded
	}

	conn, err := c.dialer.Dial(ctx, c.wsURL, token)
	if err != nil {
		surface.Close()
		return nil, c.fail(s, fmt.Errorf("%w: %v", ErrCredential, err))
	}
	if !c.live(s) {
		conn.Close()
		surface.Close()
		return nil, ErrSuperseded
	}

	s.mu.Lock()
	s.room = domain.RoomKey(room)
	s.media = conn
	s.surface = surface
	s.view = View{
		RoomKey:      s.room,
		TokenName:    info.Name,
		TokenSymbol:  info.Symbol,
		TokenImage:   info.Image,
		Participants: conn.Participants(),
		Muted:        conn.Muted(),
	}
	s.state = StateActive
	s.mu.Unlock()

	// A superseding join may have closed this session while the fields
	// above were being set, before Close could see them. Release directly.
	if !c.live(s) {
		conn.Close()
		surface.Close()
		return nil, ErrSuperseded
	}

	surface.Render(s.snapshot())
	go s.run()

	log.Info().Str("module", "session").Str("sid", s.id).Str("room", room).Msg("session active")
	return s, nil
}

func (c *Controller) fail(s *Session, err error) error {
	s.setState(StateError)
	c.release(s)
	log.Warn().Err(err).Str("module", "session").Str("sid", s.id).Msg("join failed")
	return err
}
