package stats

import (
	"context"
	"fmt"

	pgrepo "github.com/ivankudzin/heartbeat/backend/internal/repo/postgres"
)

type Store interface {
	Snapshot(ctx context.Context) (pgrepo.StatsRecord, error)
}

type Stats struct {
	TotalReports      int64
	PendingReports    int64
	ResolvedReports   int64
	TotalBlocks       int64
	ReportsByCategory map[string]int64
	ReportsBySeverity map[string]int64
}

// Service is the read-side aggregation for the moderation dashboard. Report
// volume is modest, so every call recomputes from the store; there is no
// cache to invalidate.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Compute(ctx context.Context) (Stats, error) {
	if s.store == nil {
		return Stats{}, fmt.Errorf("stats store is nil")
	}

	rec, err := s.store.Snapshot(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalReports:      rec.TotalReports,
		PendingReports:    rec.PendingReports,
		ResolvedReports:   rec.ResolvedReports,
		TotalBlocks:       rec.TotalBlocks,
		ReportsByCategory: rec.ReportsByCategory,
		ReportsBySeverity: rec.ReportsBySeverity,
	}
	if stats.ReportsByCategory == nil {
		stats.ReportsByCategory = map[string]int64{}
	}
	if stats.ReportsBySeverity == nil {
		stats.ReportsBySeverity = map[string]int64{}
	}

	return stats, nil
}
