package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	router "github.com/pumpchat/pumpchat/internal/adapters/http"
	"github.com/pumpchat/pumpchat/internal/address"
	"github.com/pumpchat/pumpchat/internal/config"
	"github.com/pumpchat/pumpchat/internal/credential"
	"github.com/pumpchat/pumpchat/internal/metadata"
)

// spins up the real API surface backed by a fake pair source.
func newTestServer(t *testing.T, configured bool) *httptest.Server {
	t.Helper()

	dexSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pair":{"baseToken":{"address":"` + mintAddr + `","name":"Moon Coin","symbol":"MOON"},"quoteToken":{}}}`))
	}))
	pumpSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Moon Coin","symbol":"MOON","image_uri":"https://img.example/m.png"}`))
	}))
	t.Cleanup(dexSrv.Close)
	t.Cleanup(pumpSrv.Close)

	key, secret := "", ""
	if configured {
		key, secret = "APIkeyTest", "super-secret"
	}
	issuer := credential.NewIssuer(key, secret, 0)
	dex := metadata.NewDexScreenerClient(dexSrv.URL, time.Second)
	pump := metadata.NewPumpFunClient(pumpSrv.URL, time.Second)

	h := &router.Handlers{
		Resolver: address.NewResolver(dex, time.Minute),
		Metadata: metadata.NewService(pump, dex, time.Minute),
		Issuer:   issuer,
	}
	cfg := &config.Config{Mode: "release", Secret: "cookie-secret", StaticPath: t.TempDir()}
	srv := httptest.NewServer(router.SetupRouter(cfg, h))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRoundTrip(t *testing.T) {
	srv := newTestServer(t, true)
	c := NewClient(srv.URL, time.Second)
	ctx := context.Background()

	res, err := c.Resolve(ctx, poolAddr)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.RoomKey != mintAddr || !res.Resolved {
		t.Fatalf("Resolve = %+v", res)
	}

	info, err := c.TokenInfo(ctx, res.RoomKey)
	if err != nil {
		t.Fatalf("TokenInfo: %v", err)
	}
	if info.Name != "Moon Coin" {
		t.Fatalf("TokenInfo = %+v", info)
	}

	token, err := c.JoinToken(ctx, res.RoomKey, "whale_7")
	if err != nil {
		t.Fatalf("JoinToken: %v", err)
	}
	if token == "" {
		t.Fatal("empty credential")
	}
}

// Two independent clients starting from the same pool address must land on
// the same room key.
func TestCrossSessionResolutionConsistency(t *testing.T) {
	srv := newTestServer(t, true)
	ctx := context.Background()

	a, err := NewClient(srv.URL, time.Second).Resolve(ctx, poolAddr)
	if err != nil {
		t.Fatalf("first client: %v", err)
	}
	b, err := NewClient(srv.URL, time.Second).Resolve(ctx, poolAddr)
	if err != nil {
		t.Fatalf("second client: %v", err)
	}
	if a.RoomKey != b.RoomKey {
		t.Fatalf("sessions diverged: %q vs %q", a.RoomKey, b.RoomKey)
	}
}

func TestClientSurfacesServerError(t *testing.T) {
	srv := newTestServer(t, false)
	c := NewClient(srv.URL, time.Second)

	if _, err := c.JoinToken(context.Background(), mintAddr, ""); err == nil {
		t.Fatal("expected error from unconfigured server")
	}
}
