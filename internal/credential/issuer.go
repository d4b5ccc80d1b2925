// Package credential mints the short-lived signed tokens that grant access
// to a single voice room on the hosted media platform.
package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/pumpchat/pumpchat/internal/domain"
)

// ErrNotConfigured means the signing key or secret is absent. The HTTP layer
// maps it to a generic "server misconfigured" response; which value is
// missing stays in the logs.
var ErrNotConfigured = errors.New("credential signing material not configured")

const (
	DefaultTTL = 6 * time.Hour

	// Admin tokens only back a single room-listing call; keep them short.
	adminTTL = 10 * time.Minute
)

// VideoGrant is the capability set embedded in an access token, scoped to
// exactly one room. Field names follow the media platform's claim format.
type VideoGrant struct {
	Room           string `json:"room,omitempty"`
	RoomJoin       bool   `json:"roomJoin,omitempty"`
	RoomList       bool   `json:"roomList,omitempty"`
	CanPublish     bool   `json:"canPublish,omitempty"`
	CanSubscribe   bool   `json:"canSubscribe,omitempty"`
	CanPublishData bool   `json:"canPublishData,omitempty"`
}

// Issuer signs access tokens. Each call is a pure, stateless signing
// operation: nothing is persisted and nothing is reused across rooms or
// identities.
type Issuer struct {
	apiKey    string
	apiSecret string
	ttl       time.Duration
}

func NewIssuer(apiKey, apiSecret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{apiKey: apiKey, apiSecret: apiSecret, ttl: ttl}
}

// Configured reports whether signing material is present.
func (i *Issuer) Configured() bool {
	return i.apiKey != "" && i.apiSecret != ""
}

// JoinToken mints a credential granting join/publish/subscribe/publish-data
// rights scoped to room, valid for the issuer's TTL from now.
func (i *Issuer) JoinToken(room domain.RoomKey, identity domain.Identity) (string, error) {
	return i.sign(string(identity), VideoGrant{
		Room:           string(room),
		RoomJoin:       true,
		CanPublish:     true,
		CanSubscribe:   true,
		CanPublishData: true,
	}, i.ttl)
}

// ListToken mints a short-lived admin credential for the platform's
// room-listing API.
func (i *Issuer) ListToken() (string, error) {
	return i.sign(i.apiKey, VideoGrant{RoomList: true}, adminTTL)
}

func (i *Issuer) sign(subject string, grant VideoGrant, ttl time.Duration) (string, error) {
	if !i.Configured() {
		return "", ErrNotConfigured
	}

	now := time.Now()
	b := jwt.NewBuilder().
		Issuer(i.apiKey).
		Subject(subject).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(ttl))

	token, err := b.Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}
	if err := token.Set("video", grant); err != nil {
		return "", fmt.Errorf("set video grant: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, []byte(i.apiSecret)))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return string(signed), nil
}
