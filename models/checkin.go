package models

import "time"

// Checkin records a team's visit to a checkpoint. The (team_id, checkpoint_id)
// pair is unique at the storage layer, so a team can score each checkpoint at
// most once. Rows are immutable; a staff correction deletes them.
type Checkin struct {
	ID           int       `json:"id"`
	TeamID       int       `json:"team_id"`
	CheckpointID int       `json:"checkpoint_id"`
	CreatedAt    time.Time `json:"created_at"`
}
