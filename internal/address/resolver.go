package address

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pumpchat/pumpchat/internal/cache"
)

// Tokens minted on the primary launch platform carry this suffix in the
// contract address itself, so they are already canonical.
const canonicalSuffix = "pump"

// IsCanonical reports whether addr is already a token contract address from
// the primary launch platform, so resolution can skip the network entirely.
func IsCanonical(addr string) bool {
	return strings.HasSuffix(strings.ToLower(addr), canonicalSuffix)
}

// Pair is the slice of a trading-pair record the resolver relies on.
type Pair struct {
	BaseTokenAddress string
	BaseTokenName    string
	BaseTokenSymbol  string
}

// PairSource looks up the trading pair behind a pool address. Implemented by
// the DexScreener client; the resolver only sees this contract.
type PairSource interface {
	PairByPool(ctx context.Context, address string) (*Pair, error)
}

// Resolution is the outcome of resolving a candidate address. RoomKey always
// holds a usable value; Resolved reports whether a substitution happened.
type Resolution struct {
	RoomKey     string `json:"tokenCA"`
	Resolved    bool   `json:"resolved"`
	TokenName   string `json:"tokenName,omitempty"`
	TokenSymbol string `json:"tokenSymbol,omitempty"`
}

// Resolver maps candidate addresses (which may be pool addresses) to the
// canonical token contract address. It never fails outward: any upstream
// trouble collapses to "assume the candidate is already canonical".
type Resolver struct {
	pairs PairSource
	cache *cache.TTL[Resolution]
}

func NewResolver(pairs PairSource, cacheTTL time.Duration) *Resolver {
	if cacheTTL <= 0 {
		cacheTTL = 60 * time.Second
	}
	return &Resolver{
		pairs: pairs,
		cache: cache.New[Resolution](cacheTTL),
	}
}

// Resolve determines the canonical room key for candidate. Addresses ending
// in the launch-platform suffix short-circuit without any network call.
func (r *Resolver) Resolve(ctx context.Context, candidate string) Resolution {
	if IsCanonical(candidate) {
		return Resolution{RoomKey: candidate}
	}

	if res, ok := r.cache.Get(candidate); ok {
		return res
	}

	res := Resolution{RoomKey: candidate}
	pair, err := r.pairs.PairByPool(ctx, candidate)
	switch {
	case err != nil:
		// Known gap: "not found upstream" and "upstream down" both land
		// here, so two pool addresses of one token can stay unmerged
		// while the pair source is flaky.
		log.Debug().Err(err).Str("module", "address.resolver").Str("candidate", candidate).Msg("pair lookup failed, assuming canonical")
	case pair != nil && pair.BaseTokenAddress != "":
		res = Resolution{
			RoomKey:     pair.BaseTokenAddress,
			Resolved:    true,
			TokenName:   pair.BaseTokenName,
			TokenSymbol: pair.BaseTokenSymbol,
		}
	}

	r.cache.Set(candidate, res)
	return res
}
