package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SafetyStateRepo owns per-user enforcement state. Rows are created lazily on
// the first action targeting a user; reads of absent rows return the active
// default. All mutations run inside the review transaction and keep two
// invariants in SQL: warning_count increments are atomic, and a banned
// account is never downgraded by a lesser action.
type SafetyStateRepo struct {
	pool *pgxpool.Pool
}

type SafetyStateRecord struct {
	UserID           int64
	AccountStatus    string
	SuspendedUntil   *time.Time
	WarningCount     int
	ProfileHidden    bool
	LastAction       *string
	LastActionReason *string
	LastActionAt     *time.Time
}

func NewSafetyStateRepo(pool *pgxpool.Pool) *SafetyStateRepo {
	return &SafetyStateRepo{pool: pool}
}

func (r *SafetyStateRepo) Get(ctx context.Context, userID int64) (SafetyStateRecord, error) {
	if r.pool == nil {
		return SafetyStateRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return SafetyStateRecord{}, fmt.Errorf("invalid user id")
	}

	rec := SafetyStateRecord{UserID: userID}
	err := r.pool.QueryRow(ctx, `
SELECT account_status, suspended_until, warning_count, profile_hidden,
	last_action, last_action_reason, last_action_at
FROM user_safety_states
WHERE user_id = $1
`, userID).Scan(
		&rec.AccountStatus,
		&rec.SuspendedUntil,
		&rec.WarningCount,
		&rec.ProfileHidden,
		&rec.LastAction,
		&rec.LastActionReason,
		&rec.LastActionAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SafetyStateRecord{UserID: userID, AccountStatus: "active"}, nil
		}
		return SafetyStateRecord{}, fmt.Errorf("get safety state: %w", err)
	}

	return rec, nil
}

func (r *SafetyStateRepo) IncrementWarnings(ctx context.Context, tx pgx.Tx, userID int64, action, reason string, at time.Time) error {
	if err := validateActionArgs(tx, userID, action); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO user_safety_states (
	user_id, account_status, warning_count, profile_hidden,
	last_action, last_action_reason, last_action_at, updated_at
) VALUES ($1, 'active', 1, FALSE, $2, NULLIF($3, ''), $4, $4)
ON CONFLICT (user_id) DO UPDATE SET
	warning_count = user_safety_states.warning_count + 1,
	last_action = EXCLUDED.last_action,
	last_action_reason = EXCLUDED.last_action_reason,
	last_action_at = EXCLUDED.last_action_at,
	updated_at = EXCLUDED.updated_at
`, userID, action, reason, at); err != nil {
		return fmt.Errorf("increment warnings: %w", err)
	}

	return nil
}

func (r *SafetyStateRepo) Suspend(ctx context.Context, tx pgx.Tx, userID int64, until time.Time, action, reason string, at time.Time) error {
	if err := validateActionArgs(tx, userID, action); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO user_safety_states (
	user_id, account_status, suspended_until, warning_count, profile_hidden,
	last_action, last_action_reason, last_action_at, updated_at
) VALUES ($1, 'suspended', $2, 0, FALSE, $3, NULLIF($4, ''), $5, $5)
ON CONFLICT (user_id) DO UPDATE SET
	account_status = CASE
		WHEN user_safety_states.account_status = 'banned' THEN 'banned'
		ELSE 'suspended'
	END,
	suspended_until = CASE
		WHEN user_safety_states.account_status = 'banned' THEN user_safety_states.suspended_until
		ELSE EXCLUDED.suspended_until
	END,
	last_action = EXCLUDED.last_action,
	last_action_reason = EXCLUDED.last_action_reason,
	last_action_at = EXCLUDED.last_action_at,
	updated_at = EXCLUDED.updated_at
`, userID, until, action, reason, at); err != nil {
		return fmt.Errorf("suspend user: %w", err)
	}

	return nil
}

func (r *SafetyStateRepo) Ban(ctx context.Context, tx pgx.Tx, userID int64, action, reason string, at time.Time) error {
	if err := validateActionArgs(tx, userID, action); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO user_safety_states (
	user_id, account_status, suspended_until, warning_count, profile_hidden,
	last_action, last_action_reason, last_action_at, updated_at
) VALUES ($1, 'banned', NULL, 0, FALSE, $2, NULLIF($3, ''), $4, $4)
ON CONFLICT (user_id) DO UPDATE SET
	account_status = 'banned',
	suspended_until = NULL,
	last_action = EXCLUDED.last_action,
	last_action_reason = EXCLUDED.last_action_reason,
	last_action_at = EXCLUDED.last_action_at,
	updated_at = EXCLUDED.updated_at
`, userID, action, reason, at); err != nil {
		return fmt.Errorf("ban user: %w", err)
	}

	return nil
}

func (r *SafetyStateRepo) HideProfile(ctx context.Context, tx pgx.Tx, userID int64, action, reason string, at time.Time) error {
	if err := validateActionArgs(tx, userID, action); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO user_safety_states (
	user_id, account_status, warning_count, profile_hidden,
	last_action, last_action_reason, last_action_at, updated_at
) VALUES ($1, 'active', 0, TRUE, $2, NULLIF($3, ''), $4, $4)
ON CONFLICT (user_id) DO UPDATE SET
	profile_hidden = TRUE,
	last_action = EXCLUDED.last_action,
	last_action_reason = EXCLUDED.last_action_reason,
	last_action_at = EXCLUDED.last_action_at,
	updated_at = EXCLUDED.updated_at
`, userID, action, reason, at); err != nil {
		return fmt.Errorf("hide profile: %w", err)
	}

	return nil
}

// RecordAction updates only the last-action audit fields, for actions whose
// effect lives outside this table (content removal).
func (r *SafetyStateRepo) RecordAction(ctx context.Context, tx pgx.Tx, userID int64, action, reason string, at time.Time) error {
	if err := validateActionArgs(tx, userID, action); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO user_safety_states (
	user_id, account_status, warning_count, profile_hidden,
	last_action, last_action_reason, last_action_at, updated_at
) VALUES ($1, 'active', 0, FALSE, $2, NULLIF($3, ''), $4, $4)
ON CONFLICT (user_id) DO UPDATE SET
	last_action = EXCLUDED.last_action,
	last_action_reason = EXCLUDED.last_action_reason,
	last_action_at = EXCLUDED.last_action_at,
	updated_at = EXCLUDED.updated_at
`, userID, action, reason, at); err != nil {
		return fmt.Errorf("record safety action: %w", err)
	}

	return nil
}

// Reinstate is the explicit reversal path: it clears a ban or suspension and
// unhides the profile. warning_count is history and stays.
func (r *SafetyStateRepo) Reinstate(ctx context.Context, userID int64, action, reason string, at time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO user_safety_states (
	user_id, account_status, suspended_until, warning_count, profile_hidden,
	last_action, last_action_reason, last_action_at, updated_at
) VALUES ($1, 'active', NULL, 0, FALSE, $2, NULLIF($3, ''), $4, $4)
ON CONFLICT (user_id) DO UPDATE SET
	account_status = 'active',
	suspended_until = NULL,
	profile_hidden = FALSE,
	last_action = EXCLUDED.last_action,
	last_action_reason = EXCLUDED.last_action_reason,
	last_action_at = EXCLUDED.last_action_at,
	updated_at = EXCLUDED.updated_at
`, userID, action, reason, at); err != nil {
		return fmt.Errorf("reinstate user: %w", err)
	}

	return nil
}

func validateActionArgs(tx pgx.Tx, userID int64, action string) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if action == "" {
		return fmt.Errorf("action is required")
	}
	return nil
}
