package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ippeitanaka/orienteering-sub000/models"
	"github.com/lib/pq"
)

var (
	ErrCheckinNotFound = errors.New("checkin not found")
	// ErrCheckinDuplicate is raised by the unique constraint on
	// (team_id, checkpoint_id). It is what makes the duplicate guard safe
	// under concurrent requests: the database decides, not the application.
	ErrCheckinDuplicate  = errors.New("checkin already exists for this team and checkpoint")
	ErrCheckinInvalidRef = errors.New("checkin references a missing team or checkpoint")
)

type CheckinRepository interface {
	Create(ctx context.Context, checkin *models.Checkin) error
	GetByID(ctx context.Context, id int) (*models.Checkin, error)
	Exists(ctx context.Context, teamID, checkpointID int) (bool, error)
	ListByTeam(ctx context.Context, teamID int) ([]models.Checkin, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresCheckinRepository struct {
	db *sql.DB
}

func NewPostgresCheckinRepository(db *sql.DB) CheckinRepository {
	return &postgresCheckinRepository{db: db}
}

func (r *postgresCheckinRepository) Create(ctx context.Context, checkin *models.Checkin) error {
	query := `
		INSERT INTO checkins (team_id, checkpoint_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		checkin.TeamID,
		checkin.CheckpointID,
	).Scan(&checkin.ID, &checkin.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "checkins_team_id_checkpoint_id_key" {
					return ErrCheckinDuplicate
				}
			case "23503": // foreign_key_violation
				return ErrCheckinInvalidRef
			}
		}
		return err
	}
	return nil
}

func (r *postgresCheckinRepository) GetByID(ctx context.Context, id int) (*models.Checkin, error) {
	query := `
		SELECT id, team_id, checkpoint_id, created_at
		FROM checkins
		WHERE id = $1`

	checkin := &models.Checkin{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&checkin.ID,
		&checkin.TeamID,
		&checkin.CheckpointID,
		&checkin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCheckinNotFound
		}
		return nil, err
	}
	return checkin, nil
}

func (r *postgresCheckinRepository) Exists(ctx context.Context, teamID, checkpointID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM checkins WHERE team_id = $1 AND checkpoint_id = $2
		)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, teamID, checkpointID).Scan(&exists)
	return exists, err
}

func (r *postgresCheckinRepository) ListByTeam(ctx context.Context, teamID int) ([]models.Checkin, error) {
	query := `
		SELECT id, team_id, checkpoint_id, created_at
		FROM checkins
		WHERE team_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checkins := make([]models.Checkin, 0)
	for rows.Next() {
		var checkin models.Checkin
		scanErr := rows.Scan(
			&checkin.ID,
			&checkin.TeamID,
			&checkin.CheckpointID,
			&checkin.CreatedAt,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		checkins = append(checkins, checkin)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return checkins, nil
}

func (r *postgresCheckinRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM checkins WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCheckinNotFound)
}

func (r *postgresCheckinRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM checkins`).Scan(&count)
	return count, err
}
