package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ippeitanaka/orienteering-sub000/models"
)

const timerRowID = 1

var (
	// ErrTimerConflict means another writer updated the timer row between
	// this writer's read and its update. The caller's intent is stale and
	// must not silently overwrite the newer state.
	ErrTimerConflict = errors.New("timer was modified concurrently")
)

type TimerRepository interface {
	Get(ctx context.Context) (*models.EventTimer, error)
	// UpdateWithVersion persists the row only if timer.Version still matches
	// the stored version, then bumps it. Returns ErrTimerConflict otherwise.
	UpdateWithVersion(ctx context.Context, timer *models.EventTimer) error
}

type postgresTimerRepository struct {
	db *sql.DB
}

func NewPostgresTimerRepository(db *sql.DB) TimerRepository {
	return &postgresTimerRepository{db: db}
}

// Get returns the singleton timer row, creating it lazily on first use.
func (r *postgresTimerRepository) Get(ctx context.Context) (*models.EventTimer, error) {
	query := `
		SELECT id, status, end_time, duration_seconds, version
		FROM event_timer
		WHERE id = $1`

	timer := &models.EventTimer{}
	var endTime sql.NullTime
	err := r.db.QueryRowContext(ctx, query, timerRowID).Scan(
		&timer.ID,
		&timer.Status,
		&endTime,
		&timer.DurationSeconds,
		&timer.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.createDefault(ctx)
		}
		return nil, err
	}
	if endTime.Valid {
		timer.EndTime = &endTime.Time
	}
	return timer, nil
}

func (r *postgresTimerRepository) createDefault(ctx context.Context) (*models.EventTimer, error) {
	query := `
		INSERT INTO event_timer (id, status, end_time, duration_seconds, version)
		VALUES ($1, $2, NULL, 0, 1)
		ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, timerRowID, models.TimerNotStarted); err != nil {
		return nil, err
	}
	// Re-read: a concurrent creator may have won the insert.
	return r.Get(ctx)
}

func (r *postgresTimerRepository) UpdateWithVersion(ctx context.Context, timer *models.EventTimer) error {
	query := `
		UPDATE event_timer SET
			status = $1,
			end_time = $2,
			duration_seconds = $3,
			version = version + 1
		WHERE id = $4 AND version = $5`

	var endTime sql.NullTime
	if timer.EndTime != nil {
		endTime = sql.NullTime{Time: *timer.EndTime, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query,
		timer.Status,
		endTime,
		timer.DurationSeconds,
		timerRowID,
		timer.Version,
	)
	if err != nil {
		return err
	}
	if err := checkAffectedRows(result, ErrTimerConflict); err != nil {
		return err
	}
	timer.Version++
	return nil
}
