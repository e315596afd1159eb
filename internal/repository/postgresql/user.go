package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shiftbook/shiftbook-backend/internal/domain/user"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/database"
)

const userColumns = `id, email, password_hash, full_name, role,
		holiday_allowance, weekly_target_hours, working_days_per_week, overtime_balance,
		default_start_time, default_end_time, default_lunch_minutes,
		theme_preference, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.Repository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Role,
		&u.HolidayAllowance,
		&u.WeeklyTargetHours,
		&u.WorkingDaysPerWeek,
		&u.OvertimeBalance,
		&u.DefaultStartTime,
		&u.DefaultEndTime,
		&u.DefaultLunchMinutes,
		&u.ThemePreference,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			id, email, password_hash, full_name, role,
			holiday_allowance, weekly_target_hours, working_days_per_week, overtime_balance,
			default_start_time, default_end_time, default_lunch_minutes,
			created_at, updated_at
		) VALUES (
			gen_random_uuid(), $1, $2, $3, $4,
			$5, $6, $7, 0,
			$8, $9, $10,
			NOW(), NOW()
		) RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.Email, newUser.PasswordHash, newUser.FullName, newUser.Role,
		newUser.HolidayAllowance, newUser.WeeklyTargetHours, newUser.WorkingDaysPerWeek,
		newUser.DefaultStartTime, newUser.DefaultEndTime, newUser.DefaultLunchMinutes,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return u, nil
}

func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return u, nil
}

func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users ORDER BY full_name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return users, nil
}

func (r *userRepositoryImpl) ListAdminIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM users WHERE role = $1`, user.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan admin id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return ids, nil
}

func (r *userRepositoryImpl) UpdateSettings(ctx context.Context, req user.UpdateSettingsRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	if req.FullName != nil {
		updates = append(updates, fmt.Sprintf("full_name = $%d", argIdx))
		args = append(args, *req.FullName)
		argIdx++
	}
	if req.DefaultStartTime != nil {
		updates = append(updates, fmt.Sprintf("default_start_time = $%d", argIdx))
		args = append(args, *req.DefaultStartTime)
		argIdx++
	}
	if req.DefaultEndTime != nil {
		updates = append(updates, fmt.Sprintf("default_end_time = $%d", argIdx))
		args = append(args, *req.DefaultEndTime)
		argIdx++
	}
	if req.DefaultLunchMinutes != nil {
		updates = append(updates, fmt.Sprintf("default_lunch_minutes = $%d", argIdx))
		args = append(args, *req.DefaultLunchMinutes)
		argIdx++
	}
	if req.WeeklyTargetHours != nil {
		updates = append(updates, fmt.Sprintf("weekly_target_hours = $%d", argIdx))
		args = append(args, *req.WeeklyTargetHours)
		argIdx++
	}
	if req.WorkingDaysPerWeek != nil {
		updates = append(updates, fmt.Sprintf("working_days_per_week = $%d", argIdx))
		args = append(args, *req.WorkingDaysPerWeek)
		argIdx++
	}
	if req.HolidayAllowance != nil {
		updates = append(updates, fmt.Sprintf("holiday_allowance = $%d", argIdx))
		args = append(args, *req.HolidayAllowance)
		argIdx++
	}
	if req.ThemePreference != nil {
		updates = append(updates, fmt.Sprintf("theme_preference = $%d", argIdx))
		args = append(args, *req.ThemePreference)
		argIdx++
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for user settings update")
	}

	updates = append(updates, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now())
	argIdx++

	args = append(args, req.ID)

	sql := "UPDATE users SET " + strings.Join(updates, ", ") + fmt.Sprintf(" WHERE id = $%d RETURNING id", argIdx)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("failed to update settings for user %s: %w", req.ID, err)
	}
	return nil
}

func (r *userRepositoryImpl) UpdateOvertimeBalance(ctx context.Context, userID string, balance float64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET overtime_balance = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, balance, userID).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("failed to update overtime balance for user %s: %w", userID, err)
	}
	return nil
}
