package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ippeitanaka/orienteering-sub000/models"
	"github.com/ippeitanaka/orienteering-sub000/realtime"
	"github.com/ippeitanaka/orienteering-sub000/repositories"
)

// CheckinResult is the outcome of a checkin attempt. A duplicate visit is a
// normal business outcome (Accepted=false with a reason), not an error.
type CheckinResult struct {
	Accepted bool            `json:"accepted"`
	Reason   string          `json:"reason,omitempty"`
	Checkin  *models.Checkin `json:"checkin,omitempty"`
	Points   int             `json:"points"`
}

type CheckinService interface {
	// Attempt records a visit of teamID to checkpointID and credits the
	// checkpoint's points. At most one checkin per (team, checkpoint) pair;
	// the database unique constraint arbitrates concurrent duplicates.
	Attempt(ctx context.Context, teamID, checkpointID int) (*CheckinResult, error)
	ListByTeam(ctx context.Context, teamID int) ([]models.Checkin, error)
	// Revoke deletes a mistaken checkin and debits the points it credited.
	Revoke(ctx context.Context, checkinID int) error
}

type checkinService struct {
	checkinRepo    repositories.CheckinRepository
	checkpointRepo repositories.CheckpointRepository
	teamRepo       repositories.TeamRepository
	notifier       Notifier
	logger         *slog.Logger
}

func NewCheckinService(
	checkinRepo repositories.CheckinRepository,
	checkpointRepo repositories.CheckpointRepository,
	teamRepo repositories.TeamRepository,
	notifier Notifier,
	logger *slog.Logger,
) CheckinService {
	return &checkinService{
		checkinRepo:    checkinRepo,
		checkpointRepo: checkpointRepo,
		teamRepo:       teamRepo,
		notifier:       notifier,
		logger:         logger,
	}
}

const reasonAlreadyCheckedIn = "既にチェックイン済みです"

func (s *checkinService) Attempt(ctx context.Context, teamID, checkpointID int) (*CheckinResult, error) {
	// Friendly pre-check. Purely advisory: the insert below is what actually
	// guarantees uniqueness when two scans race.
	exists, err := s.checkinRepo.Exists(ctx, teamID, checkpointID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing checkin: %w", err)
	}
	if exists {
		return &CheckinResult{Accepted: false, Reason: reasonAlreadyCheckedIn}, nil
	}

	checkpoint, err := s.checkpointRepo.GetByID(ctx, checkpointID)
	if err != nil {
		if errors.Is(err, repositories.ErrCheckpointNotFound) {
			return nil, ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("failed to load checkpoint %d: %w", checkpointID, err)
	}

	checkin := &models.Checkin{TeamID: teamID, CheckpointID: checkpointID}
	if err := s.checkinRepo.Create(ctx, checkin); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCheckinDuplicate):
			// Lost the race to a concurrent scan of the same pair.
			return &CheckinResult{Accepted: false, Reason: reasonAlreadyCheckedIn}, nil
		case errors.Is(err, repositories.ErrCheckinInvalidRef):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to record checkin: %w", err)
	}

	total, err := s.teamRepo.AddPoints(ctx, teamID, checkpoint.Points)
	if err != nil {
		// The checkin row is already committed. There is no compensating
		// transaction; log loudly so operators can fix the score by hand.
		s.logger.Error("checkin recorded but score credit failed",
			slog.Int("team_id", teamID),
			slog.Int("checkpoint_id", checkpointID),
			slog.Int("checkin_id", checkin.ID),
			slog.Any("error", err))
		return nil, fmt.Errorf("checkin recorded but score update failed: %w", err)
	}

	s.notifier.Publish(realtime.EventCheckinRecorded, map[string]interface{}{
		"team_id":       teamID,
		"checkpoint_id": checkpointID,
		"points":        checkpoint.Points,
		"total_score":   total,
	})

	return &CheckinResult{
		Accepted: true,
		Checkin:  checkin,
		Points:   checkpoint.Points,
	}, nil
}

func (s *checkinService) ListByTeam(ctx context.Context, teamID int) ([]models.Checkin, error) {
	return s.checkinRepo.ListByTeam(ctx, teamID)
}

func (s *checkinService) Revoke(ctx context.Context, checkinID int) error {
	checkin, err := s.checkinRepo.GetByID(ctx, checkinID)
	if err != nil {
		if errors.Is(err, repositories.ErrCheckinNotFound) {
			return ErrCheckinNotFound
		}
		return err
	}

	checkpoint, err := s.checkpointRepo.GetByID(ctx, checkin.CheckpointID)
	if err != nil && !errors.Is(err, repositories.ErrCheckpointNotFound) {
		return fmt.Errorf("failed to load checkpoint %d: %w", checkin.CheckpointID, err)
	}

	if err := s.checkinRepo.Delete(ctx, checkinID); err != nil {
		if errors.Is(err, repositories.ErrCheckinNotFound) {
			return ErrCheckinNotFound
		}
		return err
	}

	// Debit only if the checkpoint still exists; a deleted checkpoint's
	// points were already removed from play.
	if checkpoint != nil && checkpoint.Points != 0 {
		if _, err := s.teamRepo.AddPoints(ctx, checkin.TeamID, -checkpoint.Points); err != nil {
			s.logger.Error("checkin revoked but score debit failed",
				slog.Int("team_id", checkin.TeamID),
				slog.Int("checkin_id", checkinID),
				slog.Any("error", err))
			return fmt.Errorf("checkin revoked but score update failed: %w", err)
		}
	}
	return nil
}
