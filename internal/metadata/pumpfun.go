// Package metadata fetches token display metadata from public providers.
// Everything here is best-effort: a miss degrades to placeholders upstream,
// it never becomes a user-facing error.
package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const DefaultPumpFunURL = "https://frontend-api-v3.pump.fun"

// Coin is the slice of the launch-platform coin record we rely on.
type Coin struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	ImageURI string `json:"image_uri"`
}

// PumpFunClient queries the launch platform's frontend API. It is the
// primary provider: better data for tokens minted there.
type PumpFunClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewPumpFunClient(baseURL string, timeout time.Duration) *PumpFunClient {
	if baseURL == "" {
		baseURL = DefaultPumpFunURL
	}
	return &PumpFunClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *PumpFunClient) Coin(ctx context.Context, address string) (*Coin, error) {
	u := c.BaseURL + "/coins/" + url.PathEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	// The endpoint refuses requests without a browser-looking origin.
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Origin", "https://pump.fun")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pump.fun status %d", resp.StatusCode)
	}

	var coin Coin
	if err := json.NewDecoder(resp.Body).Decode(&coin); err != nil {
		return nil, fmt.Errorf("decode pump.fun coin: %w", err)
	}
	if coin.Name == "" || coin.Symbol == "" {
		return nil, fmt.Errorf("pump.fun coin %s: incomplete record", address)
	}
	return &coin, nil
}
