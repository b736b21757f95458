package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckpointService(t *testing.T) (CheckpointService, *fakeCheckpointRepo) {
	t.Helper()
	repo := newFakeCheckpointRepo()
	return NewCheckpointService(repo), repo
}

func TestCheckpointCreate_Validation(t *testing.T) {
	service, _ := newCheckpointService(t)

	_, err := service.Create(context.Background(), CheckpointInput{Latitude: 35, Longitude: 139})
	assert.ErrorIs(t, err, ErrCheckpointNameRequired)

	_, err = service.Create(context.Background(), CheckpointInput{Name: "正門", Latitude: 91, Longitude: 139})
	assert.ErrorIs(t, err, ErrCoordinatesOutOfRange)
}

func TestCheckpointNearest(t *testing.T) {
	service, _ := newCheckpointService(t)

	// Tokyo station, Shinjuku station, Yokohama station.
	points := []CheckpointInput{
		{Name: "東京駅", Latitude: 35.6812, Longitude: 139.7671, Points: 10},
		{Name: "新宿駅", Latitude: 35.6896, Longitude: 139.7006, Points: 20},
		{Name: "横浜駅", Latitude: 35.4660, Longitude: 139.6220, Points: 30},
	}
	for _, input := range points {
		_, err := service.Create(context.Background(), input)
		require.NoError(t, err)
	}

	// Query from Shibuya: Shinjuku is the closest of the three.
	nearest, err := service.Nearest(context.Background(), 35.6580, 139.7016)
	require.NoError(t, err)
	assert.Equal(t, "新宿駅", nearest.Checkpoint.Name)
	assert.InDelta(t, 3500, nearest.DistanceMeters, 300)
}

func TestCheckpointNearest_NoCheckpoints(t *testing.T) {
	service, _ := newCheckpointService(t)

	_, err := service.Nearest(context.Background(), 35.0, 139.0)
	assert.ErrorIs(t, err, ErrNoCheckpointsRegistered)
}

func TestCheckpointNearest_InvalidQueryPoint(t *testing.T) {
	service, _ := newCheckpointService(t)

	_, err := service.Nearest(context.Background(), 95.0, 139.0)
	assert.ErrorIs(t, err, ErrCoordinatesOutOfRange)
}

func TestCheckpointUpdate_ReplacesAllFields(t *testing.T) {
	service, _ := newCheckpointService(t)

	cp, err := service.Create(context.Background(), CheckpointInput{
		Name: "図書館", Latitude: 35.0, Longitude: 139.0, Points: 10,
	})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), cp.ID, CheckpointInput{
		Name: "新図書館", Description: "移転先", Latitude: 35.1, Longitude: 139.1, Points: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, "新図書館", updated.Name)
	assert.Equal(t, 25, updated.Points)
}

func TestCheckpointDelete_Unknown(t *testing.T) {
	service, _ := newCheckpointService(t)
	assert.ErrorIs(t, service.Delete(context.Background(), 404), ErrCheckpointNotFound)
}
