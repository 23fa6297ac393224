package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MatchRepo touches match rows owned by the matching subsystem. This service
// only ever deletes them, as the side effect of a block.
type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// DeleteBetween removes every match connecting the two users regardless of
// which slot each user occupies. Zero deletions is a valid outcome.
func (r *MatchRepo) DeleteBetween(ctx context.Context, tx pgx.Tx, userA, userB int64) (int64, error) {
	if userA <= 0 || userB <= 0 {
		return 0, fmt.Errorf("invalid match delete payload")
	}
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
DELETE FROM matches
WHERE (user_a_id = $1 AND user_b_id = $2)
   OR (user_a_id = $2 AND user_b_id = $1)
`, userA, userB)
	if err != nil {
		return 0, fmt.Errorf("delete matches: %w", err)
	}

	return result.RowsAffected(), nil
}
