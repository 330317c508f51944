package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/brandkit/api/internal/model"
)

// CreditWindow is the period after which free credits are refilled
const CreditWindow = 7 * 24 * time.Hour

// CreditGate decides generation eligibility from the users table
type CreditGate struct {
	db          *sql.DB
	weeklyLimit int
	now         func() time.Time
}

// NewCreditGate creates a CreditGate that refills free users to weeklyLimit
func NewCreditGate(db *sql.DB, weeklyLimit int) *CreditGate {
	return &CreditGate{db: db, weeklyLimit: weeklyLimit, now: time.Now}
}

// Check reports whether userID may start a generation. PRO users are
// always allowed. A free user whose last refill is older than the credit
// window is refilled and allowed; otherwise remaining credits decide.
// Users seen for the first time are provisioned on the free plan.
func (g *CreditGate) Check(ctx context.Context, userID string) (bool, error) {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin credit check: %w", err)
	}
	defer tx.Rollback()

	now := g.now().UTC()

	var (
		plan      model.Plan
		credits   int
		lastReset time.Time
	)
	err = tx.QueryRowContext(ctx,
		`SELECT plan, credits, last_credit_reset FROM users WHERE id = $1 FOR UPDATE`, userID,
	).Scan(&plan, &credits, &lastReset)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (id, plan, credits, last_credit_reset)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
		`, userID, string(model.PlanFree), g.weeklyLimit, now)
		if err != nil {
			return false, fmt.Errorf("provision user: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("commit credit check: %w", err)
		}
		return g.weeklyLimit > 0, nil
	case err != nil:
		return false, fmt.Errorf("load user credits: %w", err)
	}

	if plan == model.PlanPro {
		return true, nil
	}

	if now.Sub(lastReset) > CreditWindow {
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET credits = $1, last_credit_reset = $2 WHERE id = $3`,
			g.weeklyLimit, now, userID)
		if err != nil {
			return false, fmt.Errorf("reset credits: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("commit credit check: %w", err)
		}
		return true, nil
	}

	return credits > 0, nil
}

// AllowAllGate admits every caller. Used when no database is configured.
type AllowAllGate struct{}

// Check always returns true
func (AllowAllGate) Check(ctx context.Context, userID string) (bool, error) {
	return true, nil
}
