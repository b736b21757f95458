package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ippeitanaka/orienteering-sub000/models"
	"github.com/ippeitanaka/orienteering-sub000/realtime"
	"github.com/ippeitanaka/orienteering-sub000/repositories"
	"github.com/jonboulle/clockwork"
)

type TimerService interface {
	// Get derives the client-facing snapshot from the stored row and the
	// current wall clock. A running timer past its end is reported as
	// finished even before the row itself is rewritten.
	Get(ctx context.Context) (*models.TimerSnapshot, error)
	// Start begins a countdown of durationSeconds from now.
	Start(ctx context.Context, durationSeconds int) (*models.TimerSnapshot, error)
	// Stop aborts the countdown and returns to not_started. There is no
	// paused state: end_time is cleared so a later Start can never resume
	// from a stale deadline.
	Stop(ctx context.Context) (*models.TimerSnapshot, error)
	// Reset returns to not_started and clears end_time, from any state.
	Reset(ctx context.Context) (*models.TimerSnapshot, error)
	// FinalizeExpired rewrites a running-but-expired row to finished. Called
	// periodically; harmless when nothing expired.
	FinalizeExpired(ctx context.Context) error
}

type timerService struct {
	timerRepo repositories.TimerRepository
	notifier  Notifier
	clock     clockwork.Clock
}

func NewTimerService(timerRepo repositories.TimerRepository, notifier Notifier, clock clockwork.Clock) TimerService {
	return &timerService{
		timerRepo: timerRepo,
		notifier:  notifier,
		clock:     clock,
	}
}

// snapshot derives status and remaining seconds at time now.
func snapshot(timer *models.EventTimer, now time.Time) *models.TimerSnapshot {
	snap := &models.TimerSnapshot{
		Status:          timer.Status,
		EndTime:         timer.EndTime,
		DurationSeconds: timer.DurationSeconds,
	}

	if timer.Status == models.TimerRunning && timer.EndTime != nil {
		remaining := int(timer.EndTime.Sub(now) / time.Second)
		if remaining <= 0 {
			snap.Status = models.TimerFinished
			snap.RemainingSeconds = 0
		} else {
			snap.RemainingSeconds = remaining
		}
	}
	return snap
}

func (s *timerService) Get(ctx context.Context) (*models.TimerSnapshot, error) {
	timer, err := s.timerRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load timer: %w", err)
	}
	return snapshot(timer, s.clock.Now()), nil
}

func (s *timerService) Start(ctx context.Context, durationSeconds int) (*models.TimerSnapshot, error) {
	if durationSeconds <= 0 {
		return nil, ErrTimerDurationInvalid
	}

	timer, err := s.timerRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load timer: %w", err)
	}

	// The deadline is always computed from this call's clock, never from a
	// previous run's end_time.
	endTime := s.clock.Now().Add(time.Duration(durationSeconds) * time.Second).UTC()
	timer.Status = models.TimerRunning
	timer.EndTime = &endTime
	timer.DurationSeconds = durationSeconds

	return s.persist(ctx, timer)
}

func (s *timerService) Stop(ctx context.Context) (*models.TimerSnapshot, error) {
	timer, err := s.timerRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load timer: %w", err)
	}

	timer.Status = models.TimerNotStarted
	timer.EndTime = nil

	return s.persist(ctx, timer)
}

func (s *timerService) Reset(ctx context.Context) (*models.TimerSnapshot, error) {
	timer, err := s.timerRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load timer: %w", err)
	}

	timer.Status = models.TimerNotStarted
	timer.EndTime = nil
	timer.DurationSeconds = 0

	return s.persist(ctx, timer)
}

func (s *timerService) FinalizeExpired(ctx context.Context) error {
	timer, err := s.timerRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load timer: %w", err)
	}
	if timer.Status != models.TimerRunning || timer.EndTime == nil {
		return nil
	}
	if s.clock.Now().Before(*timer.EndTime) {
		return nil
	}

	timer.Status = models.TimerFinished
	if _, err := s.persist(ctx, timer); err != nil {
		// A concurrent staff action already rewrote the row; its intent wins.
		if errors.Is(err, ErrTimerConflict) {
			return nil
		}
		return err
	}
	return nil
}

func (s *timerService) persist(ctx context.Context, timer *models.EventTimer) (*models.TimerSnapshot, error) {
	if err := s.timerRepo.UpdateWithVersion(ctx, timer); err != nil {
		if errors.Is(err, repositories.ErrTimerConflict) {
			return nil, ErrTimerConflict
		}
		return nil, fmt.Errorf("failed to persist timer: %w", err)
	}

	snap := snapshot(timer, s.clock.Now())
	s.notifier.Publish(realtime.EventTimerUpdated, snap)
	return snap, nil
}
