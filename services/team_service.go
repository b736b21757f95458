package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ippeitanaka/orienteering-sub000/models"
	"github.com/ippeitanaka/orienteering-sub000/realtime"
	"github.com/ippeitanaka/orienteering-sub000/repositories"
)

type CreateTeamInput struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	TeamCode string `json:"team_code"`
}

type UpdateTeamInput struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	TeamCode string `json:"team_code"`
}

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error)
	Delete(ctx context.Context, id int) error
	// AddPoints applies a signed staff adjustment to a team's score and
	// returns the new total. Negative totals are allowed.
	AddPoints(ctx context.Context, id int, delta int) (int, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	notifier Notifier
}

func NewTeamService(teamRepo repositories.TeamRepository, notifier Notifier) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		notifier: notifier,
	}
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrTeamNameRequired
	}
	if input.TeamCode == "" {
		return nil, ErrTeamCodeRequired
	}

	team := &models.Team{
		Name:     input.Name,
		Color:    input.Color,
		TeamCode: input.TeamCode,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamCodeConflict) {
			return nil, ErrTeamCodeConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]models.Team, error) {
	return s.teamRepo.List(ctx)
}

func (s *teamService) Update(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		team.Name = input.Name
	}
	if input.Color != "" {
		team.Color = input.Color
	}
	if input.TeamCode != "" {
		team.TeamCode = input.TeamCode
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamCodeConflict):
			return nil, ErrTeamCodeConflict
		}
		return nil, fmt.Errorf("failed to update team %d: %w", id, err)
	}
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}
	return nil
}

func (s *teamService) AddPoints(ctx context.Context, id int, delta int) (int, error) {
	total, err := s.teamRepo.AddPoints(ctx, id, delta)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return 0, ErrTeamNotFound
		}
		return 0, err
	}

	s.notifier.Publish(realtime.EventScoreAdjusted, map[string]interface{}{
		"team_id":     id,
		"delta":       delta,
		"total_score": total,
	})
	return total, nil
}
