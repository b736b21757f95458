package models

import "time"

type StaffRole string

const (
	RoleAdmin StaffRole = "admin"
	RoleStaff StaffRole = "staff"
)

// Staff is an operator with elevated rights over checkpoints, teams and the
// timer. CheckpointID, when set, is the checkpoint the member is stationed at.
type Staff struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         StaffRole `json:"role"`
	CheckpointID *int      `json:"checkpoint_id"`
	CreatedAt    time.Time `json:"created_at"`
}
