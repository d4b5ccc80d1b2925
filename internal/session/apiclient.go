package session

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pumpchat/pumpchat/internal/address"
	"github.com/pumpchat/pumpchat/internal/domain"
)

// Client implements API over the overlay server's HTTP surface.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", path, apiErr.Error)
		}
		return fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) Resolve(ctx context.Context, addr string) (address.Resolution, error) {
	var res address.Resolution
	err := c.get(ctx, "/api/resolve", url.Values{"address": {addr}}, &res)
	return res, err
}

func (c *Client) TokenInfo(ctx context.Context, addr string) (domain.TokenInfo, error) {
	var info domain.TokenInfo
	err := c.get(ctx, "/api/token-info", url.Values{"address": {addr}}, &info)
	return info, err
}

func (c *Client) JoinToken(ctx context.Context, room, username string) (string, error) {
	q := url.Values{"room": {room}}
	if username != "" {
		q.Set("username", username)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.get(ctx, "/api/token", q, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}
