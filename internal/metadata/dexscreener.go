package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pumpchat/pumpchat/internal/address"
)

const DefaultDexScreenerURL = "https://api.dexscreener.com"

// TokenSide is one leg of a trading pair.
type TokenSide struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type PairInfo struct {
	ImageURL string `json:"imageUrl"`
}

// Pair is a DexScreener trading-pair record.
type Pair struct {
	BaseToken  TokenSide `json:"baseToken"`
	QuoteToken TokenSide `json:"quoteToken"`
	Info       *PairInfo `json:"info"`
}

// DexScreenerClient queries DexScreener. It doubles as the fallback display
// metadata provider and as the pool-to-token pair source for the resolver.
type DexScreenerClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewDexScreenerClient(baseURL string, timeout time.Duration) *DexScreenerClient {
	if baseURL == "" {
		baseURL = DefaultDexScreenerURL
	}
	return &DexScreenerClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *DexScreenerClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dexscreener status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode dexscreener response: %w", err)
	}
	return nil
}

// TokenPairs lists trading pairs that involve the given token address.
func (c *DexScreenerClient) TokenPairs(ctx context.Context, addr string) ([]Pair, error) {
	var body struct {
		Pairs []Pair `json:"pairs"`
	}
	if err := c.getJSON(ctx, "/latest/dex/tokens/"+url.PathEscape(addr), &body); err != nil {
		return nil, err
	}
	return body.Pairs, nil
}

// PairByPool resolves a pool (pair) address to its trading pair. Implements
// address.PairSource; a pool DexScreener does not know yields (nil, nil).
func (c *DexScreenerClient) PairByPool(ctx context.Context, addr string) (*address.Pair, error) {
	var body struct {
		Pair *Pair `json:"pair"`
	}
	if err := c.getJSON(ctx, "/latest/dex/pairs/solana/"+url.PathEscape(addr), &body); err != nil {
		return nil, err
	}
	if body.Pair == nil {
		return nil, nil
	}
	return &address.Pair{
		BaseTokenAddress: body.Pair.BaseToken.Address,
		BaseTokenName:    body.Pair.BaseToken.Name,
		BaseTokenSymbol:  body.Pair.BaseToken.Symbol,
	}, nil
}

// tokenSideFor picks the leg of pairs that describes addr: the pair whose
// base token matches wins, else the first pair; within a pair the matching
// side wins, else the quote side.
func tokenSideFor(pairs []Pair, addr string) (TokenSide, string, bool) {
	if len(pairs) == 0 {
		return TokenSide{}, "", false
	}
	pair := pairs[0]
	for _, p := range pairs {
		if strings.EqualFold(p.BaseToken.Address, addr) {
			pair = p
			break
		}
	}
	side := pair.QuoteToken
	if strings.EqualFold(pair.BaseToken.Address, addr) {
		side = pair.BaseToken
	}
	if side.Name == "" {
		return TokenSide{}, "", false
	}
	image := ""
	if pair.Info != nil {
		image = pair.Info.ImageURL
	}
	return side, image, true
}
