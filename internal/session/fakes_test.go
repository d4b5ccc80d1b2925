package session

import (
	"context"
	"sync"
	"time"

	"github.com/pumpchat/pumpchat/internal/address"
	"github.com/pumpchat/pumpchat/internal/domain"
)

type fakeAPI struct {
	mu           sync.Mutex
	resolveRes   address.Resolution
	resolveErr   error
	resolveCalls int
	info         domain.TokenInfo
	infoErr      error
	token        string
	tokenErr     error
	tokenGate    chan struct{} // when set, JoinToken blocks until closed
	lastRoom     string
}

func (a *fakeAPI) Resolve(ctx context.Context, addr string) (address.Resolution, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resolveCalls++
	return a.resolveRes, a.resolveErr
}

func (a *fakeAPI) TokenInfo(ctx context.Context, addr string) (domain.TokenInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.info, a.infoErr
}

func (a *fakeAPI) JoinToken(ctx context.Context, room, username string) (string, error) {
	a.mu.Lock()
	gate := a.tokenGate
	a.mu.Unlock()
	if gate != nil {
		<-gate
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastRoom = room
	return a.token, a.tokenErr
}

type fakeConn struct {
	events chan MediaEvent

	mu        sync.Mutex
	muted     bool
	parts     []Participant
	published [][]byte

	closeOnce  sync.Once
	closeCalls int
}

func newFakeConn() *fakeConn {
	return &fakeConn{events: make(chan MediaEvent, 16), muted: true}
}

func (c *fakeConn) Events() <-chan MediaEvent { return c.events }

func (c *fakeConn) Participants() []Participant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Participant(nil), c.parts...)
}

func (c *fakeConn) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

func (c *fakeConn) setMuted(m bool) {
	c.mu.Lock()
	c.muted = m
	c.mu.Unlock()
}

func (c *fakeConn) SetMicEnabled(ctx context.Context, enabled bool) error {
	c.setMuted(!enabled)
	return nil
}

func (c *fakeConn) PublishData(ctx context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, payload)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closeCalls++
	c.mu.Unlock()
	c.closeOnce.Do(func() { close(c.events) })
}

func (c *fakeConn) closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeCalls > 0
}

type fakeDialer struct {
	mu        sync.Mutex
	conn      *fakeConn
	err       error
	lastToken string
}

func (d *fakeDialer) Dial(ctx context.Context, wsURL, token string) (MediaConn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	d.lastToken = token
	return d.conn, nil
}

type fakeSurface struct {
	mu       sync.Mutex
	renders  []View
	notices  []Notice
	closedCh chan struct{}

	closeOnce  sync.Once
	closeCalls int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{closedCh: make(chan struct{})}
}

func (s *fakeSurface) Render(v View) {
	s.mu.Lock()
	s.renders = append(s.renders, v)
	s.mu.Unlock()
}

func (s *fakeSurface) Notify(n Notice) {
	s.mu.Lock()
	s.notices = append(s.notices, n)
	s.mu.Unlock()
}

func (s *fakeSurface) Closed() <-chan struct{} { return s.closedCh }

func (s *fakeSurface) Close() {
	s.mu.Lock()
	s.closeCalls++
	s.mu.Unlock()
	s.closeOnce.Do(func() { close(s.closedCh) })
}

// simulate the user/OS closing the window outside the app's control
func (s *fakeSurface) closeExternally() {
	s.closeOnce.Do(func() { close(s.closedCh) })
}

func (s *fakeSurface) lastRender() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.renders) == 0 {
		return View{}, false
	}
	return s.renders[len(s.renders)-1], true
}

func (s *fakeSurface) noticeOfKind(kind NoticeKind) (Notice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notices {
		if n.Kind == kind {
			return n, true
		}
	}
	return Notice{}, false
}

func (s *fakeSurface) isClosed() bool {
	select {
	case <-s.closedCh:
		return true
	default:
		return false
	}
}

type fakeOpener struct {
	mu      sync.Mutex
	surface *fakeSurface
	err     error
	calls   int
}

func (o *fakeOpener) Open(ctx context.Context) (Surface, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	if o.err != nil {
		return nil, o.err
	}
	return o.surface, nil
}

func (o *fakeOpener) openCalls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

// mintingDialer and mintingOpener hand out a fresh conn/surface per call,
// for tests where overlapping joins must not share resources.
type mintingDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
}

func (d *mintingDialer) Dial(ctx context.Context, wsURL, token string) (MediaConn, error) {
	c := newFakeConn()
	d.mu.Lock()
	d.conns = append(d.conns, c)
	d.mu.Unlock()
	return c, nil
}

func (d *mintingDialer) all() []*fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*fakeConn(nil), d.conns...)
}

type mintingOpener struct {
	mu       sync.Mutex
	surfaces []*fakeSurface
}

func (o *mintingOpener) Open(ctx context.Context) (Surface, error) {
	s := newFakeSurface()
	o.mu.Lock()
	o.surfaces = append(o.surfaces, s)
	o.mu.Unlock()
	return s, nil
}

func (o *mintingOpener) all() []*fakeSurface {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*fakeSurface(nil), o.surfaces...)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}
