package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ippeitanaka/orienteering-sub000/models"
	"github.com/ippeitanaka/orienteering-sub000/repositories"
	"github.com/ippeitanaka/orienteering-sub000/utils"
)

type CheckpointInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Points      int     `json:"points"`
}

// NearestCheckpoint pairs a checkpoint with the distance from the query point.
type NearestCheckpoint struct {
	Checkpoint     models.Checkpoint `json:"checkpoint"`
	DistanceMeters float64           `json:"distance_meters"`
}

type CheckpointService interface {
	Create(ctx context.Context, input CheckpointInput) (*models.Checkpoint, error)
	GetByID(ctx context.Context, id int) (*models.Checkpoint, error)
	List(ctx context.Context) ([]models.Checkpoint, error)
	Update(ctx context.Context, id int, input CheckpointInput) (*models.Checkpoint, error)
	Delete(ctx context.Context, id int) error
	// Nearest returns the checkpoint closest to the given position.
	Nearest(ctx context.Context, lat, lng float64) (*NearestCheckpoint, error)
}

type checkpointService struct {
	checkpointRepo repositories.CheckpointRepository
}

func NewCheckpointService(checkpointRepo repositories.CheckpointRepository) CheckpointService {
	return &checkpointService{checkpointRepo: checkpointRepo}
}

func validateCheckpointInput(input CheckpointInput) error {
	if input.Name == "" {
		return ErrCheckpointNameRequired
	}
	if !utils.ValidCoordinates(input.Latitude, input.Longitude) {
		return ErrCoordinatesOutOfRange
	}
	return nil
}

func (s *checkpointService) Create(ctx context.Context, input CheckpointInput) (*models.Checkpoint, error) {
	if err := validateCheckpointInput(input); err != nil {
		return nil, err
	}

	cp := &models.Checkpoint{
		Name:        input.Name,
		Description: input.Description,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Points:      input.Points,
	}
	if err := s.checkpointRepo.Create(ctx, cp); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint: %w", err)
	}
	return cp, nil
}

func (s *checkpointService) GetByID(ctx context.Context, id int) (*models.Checkpoint, error) {
	cp, err := s.checkpointRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCheckpointNotFound) {
			return nil, ErrCheckpointNotFound
		}
		return nil, err
	}
	return cp, nil
}

func (s *checkpointService) List(ctx context.Context) ([]models.Checkpoint, error) {
	return s.checkpointRepo.List(ctx)
}

func (s *checkpointService) Update(ctx context.Context, id int, input CheckpointInput) (*models.Checkpoint, error) {
	if err := validateCheckpointInput(input); err != nil {
		return nil, err
	}

	cp, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cp.Name = input.Name
	cp.Description = input.Description
	cp.Latitude = input.Latitude
	cp.Longitude = input.Longitude
	cp.Points = input.Points

	if err := s.checkpointRepo.Update(ctx, cp); err != nil {
		if errors.Is(err, repositories.ErrCheckpointNotFound) {
			return nil, ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("failed to update checkpoint %d: %w", id, err)
	}
	return cp, nil
}

func (s *checkpointService) Delete(ctx context.Context, id int) error {
	if err := s.checkpointRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrCheckpointNotFound) {
			return ErrCheckpointNotFound
		}
		return err
	}
	return nil
}

func (s *checkpointService) Nearest(ctx context.Context, lat, lng float64) (*NearestCheckpoint, error) {
	if !utils.ValidCoordinates(lat, lng) {
		return nil, ErrCoordinatesOutOfRange
	}

	checkpoints, err := s.checkpointRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(checkpoints) == 0 {
		return nil, ErrNoCheckpointsRegistered
	}

	best := NearestCheckpoint{
		Checkpoint:     checkpoints[0],
		DistanceMeters: utils.DistanceMeters(lat, lng, checkpoints[0].Latitude, checkpoints[0].Longitude),
	}
	for _, cp := range checkpoints[1:] {
		d := utils.DistanceMeters(lat, lng, cp.Latitude, cp.Longitude)
		if d < best.DistanceMeters {
			best = NearestCheckpoint{Checkpoint: cp, DistanceMeters: d}
		}
	}
	return &best, nil
}
