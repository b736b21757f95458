package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ippeitanaka/orienteering-sub000/models"
	"github.com/lib/pq"
)

var (
	ErrStaffNotFound     = errors.New("staff member not found")
	ErrStaffNameConflict = errors.New("staff name conflict")
)

type StaffRepository interface {
	Create(ctx context.Context, staff *models.Staff) error
	GetByID(ctx context.Context, id int) (*models.Staff, error)
	GetByName(ctx context.Context, name string) (*models.Staff, error)
	List(ctx context.Context) ([]models.Staff, error)
}

type postgresStaffRepository struct {
	db *sql.DB
}

func NewPostgresStaffRepository(db *sql.DB) StaffRepository {
	return &postgresStaffRepository{db: db}
}

func (r *postgresStaffRepository) Create(ctx context.Context, staff *models.Staff) error {
	query := `
		INSERT INTO staff (name, password_hash, role, checkpoint_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		staff.Name,
		staff.PasswordHash,
		staff.Role,
		staff.CheckpointID,
	).Scan(&staff.ID, &staff.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "staff_name_key" {
				return ErrStaffNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresStaffRepository) GetByID(ctx context.Context, id int) (*models.Staff, error) {
	query := `
		SELECT id, name, password_hash, role, checkpoint_id, created_at
		FROM staff
		WHERE id = $1`
	return r.scanStaff(ctx, query, id)
}

func (r *postgresStaffRepository) GetByName(ctx context.Context, name string) (*models.Staff, error) {
	query := `
		SELECT id, name, password_hash, role, checkpoint_id, created_at
		FROM staff
		WHERE name = $1`
	return r.scanStaff(ctx, query, name)
}

func (r *postgresStaffRepository) List(ctx context.Context) ([]models.Staff, error) {
	query := `
		SELECT id, name, password_hash, role, checkpoint_id, created_at
		FROM staff
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.Staff, 0)
	for rows.Next() {
		var staff models.Staff
		scanErr := rows.Scan(
			&staff.ID,
			&staff.Name,
			&staff.PasswordHash,
			&staff.Role,
			&staff.CheckpointID,
			&staff.CreatedAt,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		members = append(members, staff)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *postgresStaffRepository) scanStaff(ctx context.Context, query string, args ...interface{}) (*models.Staff, error) {
	staff := &models.Staff{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&staff.ID,
		&staff.Name,
		&staff.PasswordHash,
		&staff.Role,
		&staff.CheckpointID,
		&staff.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return staff, nil
}
