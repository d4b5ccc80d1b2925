// Package livekit is a thin server-side client for the hosted media
// platform's room service. Audio transport, membership and speaking
// detection live entirely on that platform; this only lists active rooms.
package livekit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/pumpchat/pumpchat/internal/credential"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Room is the slice of platform room state the lobby relies on.
type Room struct {
	Name            string `json:"name"`
	NumParticipants int    `json:"numParticipants"`
	// Unix seconds; the platform serializes int64 as a JSON string.
	CreationTime int64 `json:"creationTime,string"`
}

// RoomServiceClient calls the platform's twirp room service, authenticated
// with issuer-minted admin credentials.
type RoomServiceClient struct {
	baseURL string
	issuer  *credential.Issuer
	http    *http.Client
}

// NewRoomServiceClient derives the API endpoint from the websocket URL the
// clients connect to (wss:// becomes https://).
func NewRoomServiceClient(wsURL string, issuer *credential.Issuer, timeout time.Duration) *RoomServiceClient {
	base := wsURL
	base = strings.Replace(base, "wss://", "https://", 1)
	base = strings.Replace(base, "ws://", "http://", 1)
	return &RoomServiceClient{
		baseURL: strings.TrimSuffix(base, "/"),
		issuer:  issuer,
		http:    &http.Client{Timeout: timeout},
	}
}

// ListRooms returns the platform's active rooms.
func (c *RoomServiceClient) ListRooms(ctx context.Context) ([]Room, error) {
	token, err := c.issuer.ListToken()
	if err != nil {
		return nil, err
	}

	u := c.baseURL + "/twirp/livekit.RoomService/ListRooms"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("room service status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out struct {
		Rooms []Room `json:"rooms"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode room list: %w", err)
	}
	return out.Rooms, nil
}
