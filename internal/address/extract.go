// Package address finds token addresses in free text and resolves them to
// the canonical contract address used as the room key.
package address

import (
	"errors"
	"regexp"
)

// ErrNoAddress means the input contained nothing address-shaped. Callers
// surface this to the user; it is never swallowed.
var ErrNoAddress = errors.New("no token address found")

// Solana addresses are Base58, 32-44 characters.
var addressPattern = regexp.MustCompile(`[1-9A-HJ-NP-Za-km-z]{32,44}`)

// Extract scans text (a page URL or pasted input) for the first
// address-shaped substring. The leftmost match always wins.
func Extract(text string) (string, error) {
	m := addressPattern.FindString(text)
	if m == "" {
		return "", ErrNoAddress
	}
	return m, nil
}
