package models

// DashboardStats is the admin overview aggregate.
type DashboardStats struct {
	TeamsTotal       int           `json:"teams_total"`
	CheckpointsTotal int           `json:"checkpoints_total"`
	CheckinsTotal    int           `json:"checkins_total"`
	Teams            []Team        `json:"teams"`
	Timer            TimerSnapshot `json:"timer"`
}
