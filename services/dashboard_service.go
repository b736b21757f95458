package services

import (
	"context"

	"github.com/ippeitanaka/orienteering-sub000/models"
	"github.com/ippeitanaka/orienteering-sub000/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetStats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardService struct {
	teamRepo       repositories.TeamRepository
	checkpointRepo repositories.CheckpointRepository
	checkinRepo    repositories.CheckinRepository
	timerService   TimerService
}

func NewDashboardService(
	teamRepo repositories.TeamRepository,
	checkpointRepo repositories.CheckpointRepository,
	checkinRepo repositories.CheckinRepository,
	timerService TimerService,
) DashboardService {
	return &dashboardService{
		teamRepo:       teamRepo,
		checkpointRepo: checkpointRepo,
		checkinRepo:    checkinRepo,
		timerService:   timerService,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		teams, err := s.teamRepo.List(gCtx)
		if err != nil {
			return err
		}
		stats.Teams = teams
		stats.TeamsTotal = len(teams)
		return nil
	})
	g.Go(func() error {
		count, err := s.checkpointRepo.Count(gCtx)
		if err != nil {
			return err
		}
		stats.CheckpointsTotal = count
		return nil
	})
	g.Go(func() error {
		count, err := s.checkinRepo.Count(gCtx)
		if err != nil {
			return err
		}
		stats.CheckinsTotal = count
		return nil
	})
	g.Go(func() error {
		snap, err := s.timerService.Get(gCtx)
		if err != nil {
			return err
		}
		stats.Timer = *snap
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
