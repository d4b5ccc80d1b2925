// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	MaxIdentityLen = 32

	// AnonPrefix marks generated identities; uniqueness is best-effort only,
	// the media platform does not enforce it.
	AnonPrefix  = "anon-"
	anonSuffix  = 6
	anonRuneset = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var ErrIdentityEmpty = errors.New("identity empty")

// Identity is the participant name embedded in a credential and shown in the
// roster. Unique only by convention.
type Identity string

// NewIdentity sanitizes a caller-supplied display name to a restricted
// character set and bounded length. Empty input (before or after
// sanitation) is an error; callers wanting a fallback use AnonymousIdentity.
func NewIdentity(name string) (Identity, error) {
	cleaned := sanitizeIdentity(name)
	if cleaned == "" {
		return "", ErrIdentityEmpty
	}
	return Identity(cleaned), nil
}

// AnonymousIdentity generates a pseudo-random anonymous tag.
func AnonymousIdentity() Identity {
	suffix, err := gonanoid.Generate(anonRuneset, anonSuffix)
	if err != nil {
		// gonanoid only fails when the system randomness source does.
		suffix = "000000"
	}
	return Identity(AnonPrefix + suffix)
}

func sanitizeIdentity(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == ' ', r == '_', r == '.', r == '-':
		default:
			continue
		}
		b.WriteRune(r)
		if b.Len() >= MaxIdentityLen {
			break
		}
	}
	return strings.TrimSpace(b.String())
}
