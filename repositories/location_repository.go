package repositories

import (
	"context"
	"database/sql"

	"github.com/ippeitanaka/orienteering-sub000/models"
)

type LocationRepository interface {
	// UpsertLatest writes the team's current position. A sample older than
	// the stored row is dropped, so network reordering cannot move a team
	// backwards in time.
	UpsertLatest(ctx context.Context, loc *models.TeamLocation) error
	AppendHistory(ctx context.Context, sample *models.TeamLocationSample) error
	ListLatest(ctx context.Context) ([]models.TeamLocation, error)
	DeleteAll(ctx context.Context) error
}

type postgresLocationRepository struct {
	db *sql.DB
}

func NewPostgresLocationRepository(db *sql.DB) LocationRepository {
	return &postgresLocationRepository{db: db}
}

func (r *postgresLocationRepository) UpsertLatest(ctx context.Context, loc *models.TeamLocation) error {
	query := `
		INSERT INTO team_locations (team_id, latitude, longitude, recorded_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (team_id) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			recorded_at = EXCLUDED.recorded_at
		WHERE team_locations.recorded_at < EXCLUDED.recorded_at`

	_, err := r.db.ExecContext(ctx, query,
		loc.TeamID,
		loc.Latitude,
		loc.Longitude,
		loc.RecordedAt,
	)
	return err
}

func (r *postgresLocationRepository) AppendHistory(ctx context.Context, sample *models.TeamLocationSample) error {
	query := `
		INSERT INTO team_location_history (team_id, latitude, longitude, recorded_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		sample.TeamID,
		sample.Latitude,
		sample.Longitude,
		sample.RecordedAt,
	).Scan(&sample.ID)
}

func (r *postgresLocationRepository) ListLatest(ctx context.Context) ([]models.TeamLocation, error) {
	query := `
		SELECT team_id, latitude, longitude, recorded_at
		FROM team_locations
		ORDER BY team_id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := make([]models.TeamLocation, 0)
	for rows.Next() {
		var loc models.TeamLocation
		scanErr := rows.Scan(
			&loc.TeamID,
			&loc.Latitude,
			&loc.Longitude,
			&loc.RecordedAt,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		locations = append(locations, loc)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return locations, nil
}

// DeleteAll clears both the latest table and the audit log. Used by staff to
// start a new round; unconditional and irreversible.
func (r *postgresLocationRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM team_location_history`); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM team_locations`)
	return err
}
