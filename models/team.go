package models

import "time"

// Team is a participant group. Teams log in with their TeamCode and accumulate
// TotalScore through checkins; the score column is only ever mutated through
// atomic increments, never read-modify-write.
type Team struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	TotalScore int       `json:"total_score"`
	TeamCode   string    `json:"team_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
