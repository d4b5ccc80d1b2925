package domain

// RoomKey identifies a voice room on the media platform. It equals the token
// contract address users resolved to, so every address variant of the same
// token lands in the same room.
type RoomKey string

// RoomListing is a read-only view for the lobby API (no transport fields).
type RoomListing struct {
	CA           string `json:"ca"`
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	Image        string `json:"image,omitempty"`
	Participants int    `json:"participants"`
	CreatedAt    int64  `json:"createdAt"`
}
