package models

import "time"

type TimerStatus string

const (
	TimerNotStarted TimerStatus = "not_started"
	TimerRunning    TimerStatus = "running"
	TimerFinished   TimerStatus = "finished"
)

// EventTimer is the single shared countdown record. EndTime is set only while
// the timer is running; every client derives remaining time from EndTime and
// its own wall clock. Version is an optimistic-concurrency token: a stale
// start/stop/reset loses instead of silently overwriting a newer write.
type EventTimer struct {
	ID              int         `json:"id"`
	Status          TimerStatus `json:"status"`
	EndTime         *time.Time  `json:"end_time"`
	DurationSeconds int         `json:"duration"`
	Version         int         `json:"-"`
}

// TimerSnapshot is what clients receive: the stored row plus the derived
// remaining seconds and the effective status (an expired running timer is
// reported as finished even before the row is rewritten).
type TimerSnapshot struct {
	Status           TimerStatus `json:"status"`
	EndTime          *time.Time  `json:"end_time"`
	DurationSeconds  int         `json:"duration"`
	RemainingSeconds int         `json:"remaining_seconds"`
}
