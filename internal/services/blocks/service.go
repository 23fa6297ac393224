package blocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	analyticsvc "github.com/ivankudzin/heartbeat/backend/internal/services/analytics"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidArgument = errors.New("invalid argument")
)

type Store interface {
	Insert(ctx context.Context, tx pgx.Tx, blockerID, blockedID int64, reason string) (bool, error)
	Delete(ctx context.Context, blockerID, blockedID int64) (bool, error)
	ExistsEither(ctx context.Context, userA, userB int64) (bool, error)
	ListBlockedBy(ctx context.Context, blockerID int64) ([]int64, error)
}

type MatchStore interface {
	DeleteBetween(ctx context.Context, tx pgx.Tx, userA, userB int64) (int64, error)
}

type TxRunner interface {
	WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type Service struct {
	tx        TxRunner
	blocks    Store
	matches   MatchStore
	analytics *analyticsvc.Service
}

type Dependencies struct {
	Tx         TxRunner
	BlockStore Store
	MatchStore MatchStore
	Analytics  *analyticsvc.Service
}

func NewService(deps Dependencies) *Service {
	return &Service{
		tx:        deps.Tx,
		blocks:    deps.BlockStore,
		matches:   deps.MatchStore,
		analytics: deps.Analytics,
	}
}

// Block writes the block row and severs any match between the two users in a
// single transaction. The block write runs first: a crash mid-transaction
// rolls back both, never leaving matches alive next to a committed block.
// Re-blocking an existing pair succeeds without error, and re-runs the
// severance, which makes a client retry safe.
func (s *Service) Block(ctx context.Context, blockerID, blockedID int64, reason string) error {
	if blockerID <= 0 || blockedID <= 0 {
		return ErrValidation
	}
	if blockerID == blockedID {
		return ErrInvalidArgument
	}
	if s.tx == nil || s.blocks == nil || s.matches == nil {
		return fmt.Errorf("block dependencies are not configured")
	}

	var created bool
	var severed int64
	err := s.tx.WithTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		inserted, err := s.blocks.Insert(txCtx, tx, blockerID, blockedID, reason)
		if err != nil {
			return err
		}
		created = inserted

		count, err := s.matches.DeleteBetween(txCtx, tx, blockerID, blockedID)
		if err != nil {
			return err
		}
		severed = count
		return nil
	})
	if err != nil {
		return err
	}

	if created {
		s.analytics.Track(ctx, analyticsvc.EventUserBlocked, blockerID, map[string]any{
			"blocked_user_id": blockedID,
			"matches_severed": severed,
		})
	}

	return nil
}

// Unblock removes only the caller's own block row. Unblocking a pair that
// was never blocked is a no-op.
func (s *Service) Unblock(ctx context.Context, blockerID, blockedID int64) error {
	if blockerID <= 0 || blockedID <= 0 || blockerID == blockedID {
		return ErrValidation
	}
	if s.blocks == nil {
		return fmt.Errorf("block dependencies are not configured")
	}

	if _, err := s.blocks.Delete(ctx, blockerID, blockedID); err != nil {
		return err
	}
	return nil
}

func (s *Service) IsBlocked(ctx context.Context, userA, userB int64) (bool, error) {
	if userA <= 0 || userB <= 0 {
		return false, ErrValidation
	}
	if userA == userB {
		return false, nil
	}
	if s.blocks == nil {
		return false, fmt.Errorf("block dependencies are not configured")
	}

	return s.blocks.ExistsEither(ctx, userA, userB)
}

func (s *Service) ListBlocked(ctx context.Context, blockerID int64) ([]int64, error) {
	if blockerID <= 0 {
		return nil, ErrValidation
	}
	if s.blocks == nil {
		return nil, fmt.Errorf("block dependencies are not configured")
	}

	return s.blocks.ListBlockedBy(ctx, blockerID)
}
