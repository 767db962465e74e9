package events

import "time"

// Event types.
const (
	TypeCubeCreated     = "cube:created"
	TypeDraftCreated    = "draft:created"
	TypeFormatsReloaded = "formats:reloaded"
)

// CubeCreatedEvent is the payload for cube:created events.
type CubeCreatedEvent struct {
	CubeID string `json:"cube_id"`
	Name   string `json:"name"`
	Owner  string `json:"owner"`
	Cards  int    `json:"cards"`
}

// DraftCreatedEvent is the payload for draft:created events.
type DraftCreatedEvent struct {
	DraftID     string    `json:"draft_id"`
	CubeID      string    `json:"cube_id"`
	Owner       string    `json:"owner"`
	FormatTitle string    `json:"format_title"`
	Seed        string    `json:"seed"`
	Seats       int       `json:"seats"`
	Cards       int       `json:"cards"`
	Date        time.Time `json:"date"`
}

// FormatsReloadedEvent is the payload for formats:reloaded events.
type FormatsReloadedEvent struct {
	Dir     string   `json:"dir"`
	Formats []string `json:"formats"`
}
