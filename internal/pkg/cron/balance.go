package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftbook/shiftbook-backend/internal/domain/user"
	"github.com/shiftbook/shiftbook-backend/internal/service/overtime"
)

// BalanceJobs periodically recomputes every user's overtime balance from the
// full entry history. Concurrent entry writes can leave a stored balance one
// recalculation behind; this job repairs any such drift.
type BalanceJobs struct {
	userRepo    user.Repository
	overtimeSvc overtime.Service
	interval    time.Duration
}

func NewBalanceJobs(userRepo user.Repository, overtimeSvc overtime.Service, interval time.Duration) *BalanceJobs {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &BalanceJobs{
		userRepo:    userRepo,
		overtimeSvc: overtimeSvc,
		interval:    interval,
	}
}

func (j *BalanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("reconcile_overtime_balances", j.interval, j.ReconcileBalances)
}

func (j *BalanceJobs) ReconcileBalances(ctx context.Context) error {
	slog.Info("Cron: Starting overtime balance reconciliation")

	users, err := j.userRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users for balance reconciliation: %w", err)
	}

	failed := 0
	for _, u := range users {
		if _, err := j.overtimeSvc.Recalculate(ctx, u.ID); err != nil {
			slog.Error("Cron: balance reconciliation failed for user", "user_id", u.ID, "error", err)
			failed++
		}
	}

	slog.Info("Cron: Overtime balance reconciliation finished", "users", len(users), "failed", failed)

	if failed > 0 {
		return fmt.Errorf("balance reconciliation failed for %d of %d users", failed, len(users))
	}
	return nil
}
