package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ippeitanaka/orienteering-sub000/models"
)

var ErrCheckpointNotFound = errors.New("checkpoint not found")

type CheckpointRepository interface {
	Create(ctx context.Context, cp *models.Checkpoint) error
	GetByID(ctx context.Context, id int) (*models.Checkpoint, error)
	List(ctx context.Context) ([]models.Checkpoint, error)
	Update(ctx context.Context, cp *models.Checkpoint) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresCheckpointRepository struct {
	db *sql.DB
}

func NewPostgresCheckpointRepository(db *sql.DB) CheckpointRepository {
	return &postgresCheckpointRepository{db: db}
}

func (r *postgresCheckpointRepository) Create(ctx context.Context, cp *models.Checkpoint) error {
	query := `
		INSERT INTO checkpoints (name, description, latitude, longitude, points)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		cp.Name,
		cp.Description,
		cp.Latitude,
		cp.Longitude,
		cp.Points,
	).Scan(&cp.ID, &cp.CreatedAt)
}

func (r *postgresCheckpointRepository) GetByID(ctx context.Context, id int) (*models.Checkpoint, error) {
	query := `
		SELECT id, name, description, latitude, longitude, points, created_at
		FROM checkpoints
		WHERE id = $1`

	cp := &models.Checkpoint{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&cp.ID,
		&cp.Name,
		&cp.Description,
		&cp.Latitude,
		&cp.Longitude,
		&cp.Points,
		&cp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCheckpointNotFound
		}
		return nil, err
	}
	return cp, nil
}

func (r *postgresCheckpointRepository) List(ctx context.Context) ([]models.Checkpoint, error) {
	query := `
		SELECT id, name, description, latitude, longitude, points, created_at
		FROM checkpoints
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checkpoints := make([]models.Checkpoint, 0)
	for rows.Next() {
		var cp models.Checkpoint
		scanErr := rows.Scan(
			&cp.ID,
			&cp.Name,
			&cp.Description,
			&cp.Latitude,
			&cp.Longitude,
			&cp.Points,
			&cp.CreatedAt,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		checkpoints = append(checkpoints, cp)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return checkpoints, nil
}

func (r *postgresCheckpointRepository) Update(ctx context.Context, cp *models.Checkpoint) error {
	query := `
		UPDATE checkpoints SET
			name = $1,
			description = $2,
			latitude = $3,
			longitude = $4,
			points = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		cp.Name,
		cp.Description,
		cp.Latitude,
		cp.Longitude,
		cp.Points,
		cp.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCheckpointNotFound)
}

func (r *postgresCheckpointRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM checkpoints WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCheckpointNotFound)
}

func (r *postgresCheckpointRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM checkpoints`).Scan(&count)
	return count, err
}
