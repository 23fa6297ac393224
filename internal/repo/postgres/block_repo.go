package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BlockRepo struct {
	pool *pgxpool.Pool
}

func NewBlockRepo(pool *pgxpool.Pool) *BlockRepo {
	return &BlockRepo{pool: pool}
}

// Insert writes the directional block row. Re-blocking an existing pair is a
// no-op; the return value reports whether a new row was written.
func (r *BlockRepo) Insert(ctx context.Context, tx pgx.Tx, blockerID, blockedID int64, reason string) (bool, error) {
	if blockerID <= 0 || blockedID <= 0 || blockerID == blockedID {
		return false, fmt.Errorf("invalid block payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
INSERT INTO blocks (
	blocker_user_id,
	blocked_user_id,
	reason,
	created_at
) VALUES ($1, $2, NULLIF($3, ''), NOW())
ON CONFLICT (blocker_user_id, blocked_user_id) DO NOTHING
`, blockerID, blockedID, strings.TrimSpace(reason))
	if err != nil {
		return false, fmt.Errorf("insert block: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Delete removes only the (blocker, blocked) direction; the reverse row, if
// any, is untouched.
func (r *BlockRepo) Delete(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if blockerID <= 0 || blockedID <= 0 {
		return false, fmt.Errorf("invalid unblock payload")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM blocks
WHERE blocker_user_id = $1 AND blocked_user_id = $2
`, blockerID, blockedID)
	if err != nil {
		return false, fmt.Errorf("delete block: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ExistsEither checks both directions: visibility between two users is
// severed no matter who blocked whom.
func (r *BlockRepo) ExistsEither(ctx context.Context, userA, userB int64) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if userA <= 0 || userB <= 0 {
		return false, fmt.Errorf("invalid block lookup payload")
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1
	FROM blocks
	WHERE (blocker_user_id = $1 AND blocked_user_id = $2)
	   OR (blocker_user_id = $2 AND blocked_user_id = $1)
)
`, userA, userB).Scan(&exists); err != nil {
		return false, fmt.Errorf("check block: %w", err)
	}

	return exists, nil
}

func (r *BlockRepo) ListBlockedBy(ctx context.Context, blockerID int64) ([]int64, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if blockerID <= 0 {
		return nil, fmt.Errorf("invalid blocker id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT blocked_user_id
FROM blocks
WHERE blocker_user_id = $1
ORDER BY created_at DESC, blocked_user_id DESC
`, blockerID)
	if err != nil {
		return nil, fmt.Errorf("list blocked users: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 16)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan blocked user: %w", err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate blocked users: %w", rows.Err())
	}

	return ids, nil
}

func (r *BlockRepo) CountAll(ctx context.Context) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blocks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count blocks: %w", err)
	}

	return count, nil
}
