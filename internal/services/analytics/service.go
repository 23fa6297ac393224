package analytics

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const (
	EventReportSubmitted = "safety_report_submitted"
	EventUserBlocked     = "user_blocked"
)

// Sink receives safety analytics events. The postgres event repo implements
// it in production; absence of a sink disables tracking without affecting
// the operations that emit events.
type Sink interface {
	Insert(ctx context.Context, name string, userID int64, props map[string]any) error
}

type Service struct {
	sink   Sink
	logger *zap.Logger
}

func NewService(sink Sink, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		sink:   sink,
		logger: logger,
	}
}

// Track is fire-and-forget: a broken sink is logged and swallowed.
func (s *Service) Track(ctx context.Context, name string, userID int64, props map[string]any) {
	if s == nil || s.sink == nil {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	if err := s.sink.Insert(ctx, name, userID, cloneProps(props)); err != nil {
		s.logger.Warn("analytics event dropped",
			zap.String("event", name),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

func cloneProps(props map[string]any) map[string]any {
	if len(props) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(props))
	for key, value := range props {
		out[key] = value
	}
	return out
}
