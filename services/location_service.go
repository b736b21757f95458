package services

import (
	"context"
	"fmt"

	"github.com/ippeitanaka/orienteering-sub000/models"
	"github.com/ippeitanaka/orienteering-sub000/realtime"
	"github.com/ippeitanaka/orienteering-sub000/repositories"
	"github.com/ippeitanaka/orienteering-sub000/utils"
	"github.com/jonboulle/clockwork"
)

type LocationService interface {
	// Report stores a team's position sample: the latest-per-team row is
	// upserted (older samples lose) and the audit log gets an append.
	Report(ctx context.Context, teamID int, lat, lng float64) error
	// Current returns at most one position per team, the newest one.
	Current(ctx context.Context) ([]models.TeamLocation, error)
	// Reset wipes all location data for a fresh round.
	Reset(ctx context.Context) error
}

type locationService struct {
	locationRepo repositories.LocationRepository
	notifier     Notifier
	clock        clockwork.Clock
}

func NewLocationService(locationRepo repositories.LocationRepository, notifier Notifier, clock clockwork.Clock) LocationService {
	return &locationService{
		locationRepo: locationRepo,
		notifier:     notifier,
		clock:        clock,
	}
}

func (s *locationService) Report(ctx context.Context, teamID int, lat, lng float64) error {
	if !utils.ValidCoordinates(lat, lng) {
		return ErrCoordinatesOutOfRange
	}

	now := s.clock.Now().UTC()
	loc := &models.TeamLocation{
		TeamID:     teamID,
		Latitude:   lat,
		Longitude:  lng,
		RecordedAt: now,
	}
	if err := s.locationRepo.UpsertLatest(ctx, loc); err != nil {
		return fmt.Errorf("failed to store team location: %w", err)
	}

	sample := &models.TeamLocationSample{
		TeamID:     teamID,
		Latitude:   lat,
		Longitude:  lng,
		RecordedAt: now,
	}
	if err := s.locationRepo.AppendHistory(ctx, sample); err != nil {
		// The live map already has the fresh position; a hole in the audit
		// log is tolerable.
		return fmt.Errorf("location stored but history append failed: %w", err)
	}

	s.notifier.Publish(realtime.EventLocationUpdated, loc)
	return nil
}

func (s *locationService) Current(ctx context.Context) ([]models.TeamLocation, error) {
	return s.locationRepo.ListLatest(ctx)
}

func (s *locationService) Reset(ctx context.Context) error {
	if err := s.locationRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to reset team locations: %w", err)
	}
	s.notifier.Publish(realtime.EventLocationsReset, nil)
	return nil
}
