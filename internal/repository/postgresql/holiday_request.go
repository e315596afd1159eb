package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftbook/shiftbook-backend/internal/domain/holiday"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/database"
)

const holidayRequestColumns = `hr.id, hr.user_id, hr.start_date, hr.end_date, hr.days_requested,
		hr.status, hr.reason, hr.admin_note, hr.decided_by, hr.decided_at,
		hr.created_at, hr.updated_at`

type holidayRequestRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRequestRepository(db *database.DB) holiday.Repository {
	return &holidayRequestRepositoryImpl{db: db}
}

func scanHolidayRequest(row pgx.Row, withEmployeeName bool) (holiday.Request, error) {
	var hr holiday.Request
	dest := []interface{}{
		&hr.ID,
		&hr.UserID,
		&hr.StartDate,
		&hr.EndDate,
		&hr.DaysRequested,
		&hr.Status,
		&hr.Reason,
		&hr.AdminNote,
		&hr.DecidedBy,
		&hr.DecidedAt,
		&hr.CreatedAt,
		&hr.UpdatedAt,
	}
	if withEmployeeName {
		dest = append(dest, &hr.EmployeeName)
	}
	err := row.Scan(dest...)
	return hr, err
}

func (r *holidayRequestRepositoryImpl) Create(ctx context.Context, req holiday.Request) (holiday.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holiday_requests AS hr (
			id, user_id, start_date, end_date, days_requested,
			status, reason, created_at, updated_at
		) VALUES (
			gen_random_uuid(), $1, $2, $3, $4,
			$5, $6, NOW(), NOW()
		) RETURNING ` + holidayRequestColumns

	created, err := scanHolidayRequest(q.QueryRow(ctx, query,
		req.UserID, req.StartDate, req.EndDate, req.DaysRequested,
		req.Status, req.Reason,
	), false)
	if err != nil {
		return holiday.Request{}, fmt.Errorf("failed to create holiday request: %w", err)
	}

	return created, nil
}

func (r *holidayRequestRepositoryImpl) GetByID(ctx context.Context, id string) (holiday.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + holidayRequestColumns + ` FROM holiday_requests hr WHERE hr.id = $1`

	hr, err := scanHolidayRequest(q.QueryRow(ctx, query, id), false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return holiday.Request{}, holiday.ErrRequestNotFound
		}
		return holiday.Request{}, fmt.Errorf("failed to get holiday request: %w", err)
	}

	return hr, nil
}

func (r *holidayRequestRepositoryImpl) GetByUserID(ctx context.Context, userID string, year *int) ([]holiday.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + holidayRequestColumns + ` FROM holiday_requests hr WHERE hr.user_id = $1`
	args := []interface{}{userID}

	if year != nil {
		query += ` AND EXTRACT(YEAR FROM hr.start_date) = $2`
		args = append(args, *year)
	}

	query += ` ORDER BY hr.start_date DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holiday requests: %w", err)
	}
	defer rows.Close()

	return collectHolidayRequests(rows, false)
}

func (r *holidayRequestRepositoryImpl) ListByStatus(ctx context.Context, status *holiday.Status) ([]holiday.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + holidayRequestColumns + `, u.full_name
		FROM holiday_requests hr
		JOIN users u ON u.id = hr.user_id`
	args := []interface{}{}

	if status != nil {
		query += ` WHERE hr.status = $1`
		args = append(args, *status)
	}

	query += ` ORDER BY hr.created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list holiday requests: %w", err)
	}
	defer rows.Close()

	return collectHolidayRequests(rows, true)
}

func collectHolidayRequests(rows pgx.Rows, withEmployeeName bool) ([]holiday.Request, error) {
	var requests []holiday.Request
	for rows.Next() {
		hr, err := scanHolidayRequest(rows, withEmployeeName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday request row: %w", err)
		}
		requests = append(requests, hr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return requests, nil
}

// UpdateStatus only transitions requests still in pending state. A request
// already decided surfaces as ErrAlreadyProcessed so the caller can report
// the conflict without a separate read.
func (r *holidayRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status holiday.Status, decidedBy *string, adminNote *string, decidedAt time.Time) (holiday.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE holiday_requests AS hr
		SET status = $1, decided_by = $2, admin_note = $3, decided_at = $4, updated_at = NOW()
		WHERE hr.id = $5 AND hr.status = 'pending'
		RETURNING ` + holidayRequestColumns

	updated, err := scanHolidayRequest(q.QueryRow(ctx, query,
		status, decidedBy, adminNote, decidedAt, id,
	), false)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Distinguish a missing row from one already decided.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return holiday.Request{}, getErr
			}
			return holiday.Request{}, holiday.ErrAlreadyProcessed
		}
		return holiday.Request{}, fmt.Errorf("failed to update holiday request status: %w", err)
	}

	return updated, nil
}

// Delete only removes requests still in pending state, so a request
// approved between the caller's status check and the delete survives.
func (r *holidayRequestRepositoryImpl) Delete(ctx context.Context, id, userID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx,
		`DELETE FROM holiday_requests WHERE id = $1 AND user_id = $2 AND status = 'pending'`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete holiday request: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		// Distinguish a missing row from one decided since the caller
		// last looked.
		existing, getErr := r.GetByID(ctx, id)
		if getErr != nil || existing.UserID != userID {
			return holiday.ErrRequestNotFound
		}
		return holiday.ErrOnlyPendingCancelable
	}
	return nil
}
