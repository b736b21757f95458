package models

import "time"

// Checkpoint is a physical waypoint carrying a point value. Points may be
// zero (e.g. a start/finish marker).
type Checkpoint struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
}
