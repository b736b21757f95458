package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ippeitanaka/orienteering-sub000/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamCodeConflict = errors.New("team code conflict")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByCode(ctx context.Context, code string) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id int) error
	// AddPoints applies a signed delta as a single atomic UPDATE and returns
	// the resulting score. Negative deltas subtract; no floor at zero.
	AddPoints(ctx context.Context, id int, delta int) (int, error)
	Count(ctx context.Context) (int, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, color, total_score, team_code)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.Name,
		team.Color,
		team.TotalScore,
		team.TeamCode,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "teams_team_code_key" {
				return ErrTeamCodeConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, name, color, total_score, team_code, created_at
		FROM teams
		WHERE id = $1`
	return r.scanTeam(ctx, query, id)
}

func (r *postgresTeamRepository) GetByCode(ctx context.Context, code string) (*models.Team, error) {
	query := `
		SELECT id, name, color, total_score, team_code, created_at
		FROM teams
		WHERE team_code = $1`
	return r.scanTeam(ctx, query, code)
}

// List returns all teams ranked by score (the public leaderboard order).
func (r *postgresTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	query := `
		SELECT id, name, color, total_score, team_code, created_at
		FROM teams
		ORDER BY total_score DESC, name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		scanErr := rows.Scan(
			&team.ID,
			&team.Name,
			&team.Color,
			&team.TotalScore,
			&team.TeamCode,
			&team.CreatedAt,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			name = $1,
			color = $2,
			team_code = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query,
		team.Name,
		team.Color,
		team.TeamCode,
		team.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "teams_team_code_key" {
				return ErrTeamCodeConflict
			}
		}
		return err
	}

	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM teams WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AddPoints(ctx context.Context, id int, delta int) (int, error) {
	query := `
		UPDATE teams
		SET total_score = total_score + $1
		WHERE id = $2
		RETURNING total_score`

	var total int
	err := r.db.QueryRowContext(ctx, query, delta, id).Scan(&total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrTeamNotFound
		}
		return 0, fmt.Errorf("failed to add points to team %d: %w", id, err)
	}
	return total, nil
}

func (r *postgresTeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count)
	return count, err
}

func (r *postgresTeamRepository) scanTeam(ctx context.Context, query string, args ...interface{}) (*models.Team, error) {
	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&team.ID,
		&team.Name,
		&team.Color,
		&team.TotalScore,
		&team.TeamCode,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}
