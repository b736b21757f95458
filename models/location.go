package models

import "time"

// TeamLocation is the latest known position of a team. Exactly one row per
// team; stale samples never overwrite a newer RecordedAt.
type TeamLocation struct {
	TeamID     int       `json:"team_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}

// TeamLocationSample is one row of the append-only movement audit log.
type TeamLocationSample struct {
	ID         int       `json:"id"`
	TeamID     int       `json:"team_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}
