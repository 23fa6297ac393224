package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepo is the analytics sink. Writes are best-effort by contract: the
// caller logs failures and never fails the triggering operation on them.
type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Insert(ctx context.Context, name string, userID int64, props map[string]any) error {
	if r.pool == nil {
		return nil
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("event name is required")
	}

	payload, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshal event props: %w", err)
	}

	var uid any
	if userID > 0 {
		uid = userID
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO events (
	user_id,
	name,
	payload,
	occurred_at,
	created_at
) VALUES ($1, $2, $3::jsonb, $4, NOW())
`, uid, name, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}
