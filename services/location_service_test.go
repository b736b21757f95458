package services

import (
	"context"
	"testing"
	"time"

	"github.com/ippeitanaka/orienteering-sub000/models"
	"github.com/ippeitanaka/orienteering-sub000/realtime"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type locationFixture struct {
	repo     *fakeLocationRepo
	notifier *fakeNotifier
	clock    *clockwork.FakeClock
	service  LocationService
}

func newLocationFixture(t *testing.T) *locationFixture {
	t.Helper()
	f := &locationFixture{
		repo:     newFakeLocationRepo(),
		notifier: &fakeNotifier{},
		clock:    clockwork.NewFakeClock(),
	}
	f.service = NewLocationService(f.repo, f.notifier, f.clock)
	return f
}

func TestLocationReport_KeepsOneRowPerTeam(t *testing.T) {
	f := newLocationFixture(t)

	require.NoError(t, f.service.Report(context.Background(), 1, 35.6812, 139.7671))
	f.clock.Advance(30 * time.Second)
	require.NoError(t, f.service.Report(context.Background(), 1, 35.6813, 139.7672))
	require.NoError(t, f.service.Report(context.Background(), 2, 35.6900, 139.7000))

	current, err := f.service.Current(context.Background())
	require.NoError(t, err)
	require.Len(t, current, 2)

	byTeam := make(map[int]models.TeamLocation, len(current))
	for _, loc := range current {
		byTeam[loc.TeamID] = loc
	}
	assert.Equal(t, 35.6813, byTeam[1].Latitude, "newest sample wins")
	assert.Equal(t, 35.6900, byTeam[2].Latitude)
}

func TestLocationReport_AppendsHistory(t *testing.T) {
	f := newLocationFixture(t)

	require.NoError(t, f.service.Report(context.Background(), 1, 35.0, 139.0))
	f.clock.Advance(time.Minute)
	require.NoError(t, f.service.Report(context.Background(), 1, 35.1, 139.1))

	assert.Len(t, f.repo.history, 2, "every sample lands in the audit log")
	assert.Equal(t, []string{realtime.EventLocationUpdated, realtime.EventLocationUpdated}, f.notifier.published())
}

func TestLocationReport_RejectsOutOfRangeCoordinates(t *testing.T) {
	f := newLocationFixture(t)

	cases := []struct {
		name     string
		lat, lng float64
	}{
		{"latitude too high", 90.1, 0},
		{"latitude too low", -90.1, 0},
		{"longitude too high", 0, 180.1},
		{"longitude too low", 0, -180.1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.service.Report(context.Background(), 1, tc.lat, tc.lng)
			assert.ErrorIs(t, err, ErrCoordinatesOutOfRange)
		})
	}

	current, err := f.service.Current(context.Background())
	require.NoError(t, err)
	assert.Empty(t, current)
}

func TestLocationReset(t *testing.T) {
	f := newLocationFixture(t)

	require.NoError(t, f.service.Report(context.Background(), 1, 35.0, 139.0))
	require.NoError(t, f.service.Report(context.Background(), 2, 36.0, 140.0))

	require.NoError(t, f.service.Reset(context.Background()))

	current, err := f.service.Current(context.Background())
	require.NoError(t, err)
	assert.Empty(t, current)
	assert.Empty(t, f.repo.history)
	assert.Contains(t, f.notifier.published(), realtime.EventLocationsReset)
}
