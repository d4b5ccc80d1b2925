package domain

// Placeholder display values when every metadata provider misses.
const (
	UnknownTokenName   = "Unknown Token"
	UnknownTokenSymbol = "???"
)

// TokenInfo is display metadata for a token, best-effort by design: any field
// may hold its placeholder when the upstream providers had nothing.
type TokenInfo struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Image   string `json:"image,omitempty"`
}

// Placeholder returns the degraded TokenInfo shown when lookup misses.
func Placeholder(address string) TokenInfo {
	return TokenInfo{
		Address: address,
		Name:    UnknownTokenName,
		Symbol:  UnknownTokenSymbol,
	}
}
