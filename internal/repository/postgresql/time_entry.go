package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shiftbook/shiftbook-backend/internal/domain/timeentry"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/database"
)

const timeEntryColumns = `id, user_id, date, start_time, end_time,
		lunch_break_minutes, total_hours, overtime_hours, created_at, updated_at`

type timeEntryRepositoryImpl struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) timeentry.Repository {
	return &timeEntryRepositoryImpl{db: db}
}

func scanTimeEntry(row pgx.Row) (timeentry.TimeEntry, error) {
	var e timeentry.TimeEntry
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Date,
		&e.StartTime,
		&e.EndTime,
		&e.LunchBreakMinutes,
		&e.TotalHours,
		&e.OvertimeHours,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

func (r *timeEntryRepositoryImpl) Create(ctx context.Context, entry timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_entries (
			id, user_id, date, start_time, end_time,
			lunch_break_minutes, total_hours, overtime_hours,
			created_at, updated_at
		) VALUES (
			gen_random_uuid(), $1, $2, $3, $4,
			$5, $6, $7,
			NOW(), NOW()
		) RETURNING ` + timeEntryColumns

	created, err := scanTimeEntry(q.QueryRow(ctx, query,
		entry.UserID, entry.Date, entry.StartTime, entry.EndTime,
		entry.LunchBreakMinutes, entry.TotalHours, entry.OvertimeHours,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return timeentry.TimeEntry{}, timeentry.ErrEntryExistsForDay
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to create time entry: %w", err)
	}

	return created, nil
}

func (r *timeEntryRepositoryImpl) GetByID(ctx context.Context, id string) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = $1`

	e, err := scanTimeEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to get time entry: %w", err)
	}

	return e, nil
}

func (r *timeEntryRepositoryImpl) GetByUserID(ctx context.Context, userID string, from, to *time.Time) ([]timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE user_id = $1`
	args := []interface{}{userID}
	argIdx := 2

	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *from)
		argIdx++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *to)
		argIdx++
	}

	query += " ORDER BY date DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []timeentry.TimeEntry
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

func (r *timeEntryRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE user_id = $1 AND date = $2`

	e, err := scanTimeEntry(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to get time entry by date: %w", err)
	}

	return e, nil
}

func (r *timeEntryRepositoryImpl) Update(ctx context.Context, entry timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	// Mutation scoped to the owning user as well as the id.
	query := `
		UPDATE time_entries
		SET start_time = $1, end_time = $2, lunch_break_minutes = $3,
			total_hours = $4, overtime_hours = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING ` + timeEntryColumns

	updated, err := scanTimeEntry(q.QueryRow(ctx, query,
		entry.StartTime, entry.EndTime, entry.LunchBreakMinutes,
		entry.TotalHours, entry.OvertimeHours,
		entry.ID, entry.UserID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to update time entry: %w", err)
	}

	return updated, nil
}

func (r *timeEntryRepositoryImpl) Delete(ctx context.Context, id, userID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM time_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return timeentry.ErrEntryNotFound
	}
	return nil
}
