package metadata

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pumpchat/pumpchat/internal/cache"
	"github.com/pumpchat/pumpchat/internal/domain"
)

// Service merges the two providers: pump.fun first, DexScreener on miss.
type Service struct {
	pump  *PumpFunClient
	dex   *DexScreenerClient
	cache *cache.TTL[domain.TokenInfo]
}

func NewService(pump *PumpFunClient, dex *DexScreenerClient, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{
		pump:  pump,
		dex:   dex,
		cache: cache.New[domain.TokenInfo](cacheTTL),
	}
}

// Lookup fetches display metadata for a token address. It never fails: a
// total provider miss returns (placeholder, false).
func (s *Service) Lookup(ctx context.Context, addr string) (domain.TokenInfo, bool) {
	if info, ok := s.cache.Get(addr); ok {
		return info, true
	}

	coin, err := s.pump.Coin(ctx, addr)
	if err == nil {
		info := domain.TokenInfo{
			Address: addr,
			Name:    coin.Name,
			Symbol:  coin.Symbol,
			Image:   coin.ImageURI,
		}
		s.cache.Set(addr, info)
		return info, true
	}
	log.Debug().Err(err).Str("module", "metadata").Str("address", addr).Msg("pump.fun miss, trying dexscreener")

	pairs, err := s.dex.TokenPairs(ctx, addr)
	if err != nil {
		log.Debug().Err(err).Str("module", "metadata").Str("address", addr).Msg("dexscreener miss")
		return domain.Placeholder(addr), false
	}
	side, image, ok := tokenSideFor(pairs, addr)
	if !ok {
		return domain.Placeholder(addr), false
	}

	symbol := side.Symbol
	if symbol == "" {
		symbol = domain.UnknownTokenSymbol
	}
	info := domain.TokenInfo{
		Address: addr,
		Name:    side.Name,
		Symbol:  symbol,
		Image:   image,
	}
	s.cache.Set(addr, info)
	return info, true
}
