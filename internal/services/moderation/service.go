package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ivankudzin/heartbeat/backend/internal/domain/enums"
	pgrepo "github.com/ivankudzin/heartbeat/backend/internal/repo/postgres"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("report not found")
	ErrInvalidTransition = errors.New("report is not pending")
)

type ReportStore interface {
	GetByID(ctx context.Context, reportID string) (pgrepo.ReportRecord, error)
	MarkReviewed(ctx context.Context, tx pgx.Tx, reportID string, actorID int64, status, action, reason string, reviewedAt time.Time) (bool, error)
}

type SafetyStateStore interface {
	Get(ctx context.Context, userID int64) (pgrepo.SafetyStateRecord, error)
	IncrementWarnings(ctx context.Context, tx pgx.Tx, userID int64, action, reason string, at time.Time) error
	Suspend(ctx context.Context, tx pgx.Tx, userID int64, until time.Time, action, reason string, at time.Time) error
	Ban(ctx context.Context, tx pgx.Tx, userID int64, action, reason string, at time.Time) error
	HideProfile(ctx context.Context, tx pgx.Tx, userID int64, action, reason string, at time.Time) error
	RecordAction(ctx context.Context, tx pgx.Tx, userID int64, action, reason string, at time.Time) error
	Reinstate(ctx context.Context, userID int64, action, reason string, at time.Time) error
}

type TxRunner interface {
	WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

// Notifier hands a safety notification to the out-of-band delivery
// collaborator. Enqueue failures never fail the review that produced them.
type Notifier interface {
	EnqueueSafetyNotification(ctx context.Context, n Notification) error
}

type Notification struct {
	UserID int64
	Action enums.SafetyAction
	Reason string
}

// Decision is a moderator's verdict on a pending report. Status must agree
// with the action: no_action dismisses (or resolves) the report, every
// punitive action closes it as action_taken.
type Decision struct {
	Status enums.ReportStatus
	Action enums.SafetyAction
	Reason string
}

type SafetyState struct {
	UserID           int64
	AccountStatus    enums.AccountStatus
	SuspendedUntil   *time.Time
	WarningCount     int
	ProfileHidden    bool
	LastAction       *enums.SafetyAction
	LastActionReason *string
	LastActionAt     *time.Time
}

type Service struct {
	tx       TxRunner
	reports  ReportStore
	safety   SafetyStateStore
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

type Dependencies struct {
	Tx          TxRunner
	ReportStore ReportStore
	SafetyStore SafetyStateStore
	Notifier    Notifier
	Logger      *zap.Logger
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		tx:       deps.Tx,
		reports:  deps.ReportStore,
		safety:   deps.SafetyStore,
		notifier: deps.Notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Review moves a pending report to the decision's terminal status and applies
// the decision's action to the reported user, as one transaction. The
// status write is a compare-and-set on pending: when two moderators race,
// exactly one succeeds and the other gets ErrInvalidTransition.
func (s *Service) Review(ctx context.Context, reportID string, actorID int64, decision Decision) error {
	if strings.TrimSpace(reportID) == "" || actorID <= 0 {
		return ErrValidation
	}
	if err := validateDecision(decision); err != nil {
		return err
	}
	if s.tx == nil || s.reports == nil || s.safety == nil {
		return fmt.Errorf("moderation dependencies are not configured")
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrReportNotFound) {
			return ErrNotFound
		}
		return err
	}
	if report.Status != string(enums.ReportStatusPending) {
		return ErrInvalidTransition
	}

	now := s.now().UTC()

	err = s.tx.WithTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		updated, err := s.reports.MarkReviewed(
			txCtx, tx, reportID, actorID,
			string(decision.Status), string(decision.Action), decision.Reason, now,
		)
		if err != nil {
			return err
		}
		if !updated {
			// Lost the race: someone reviewed it between the read and the CAS.
			return ErrInvalidTransition
		}

		return s.applyAction(txCtx, tx, report.ReportedUserID, decision, now)
	})
	if err != nil {
		return err
	}

	if decision.Action != enums.ActionNoAction {
		s.enqueueNotification(ctx, Notification{
			UserID: report.ReportedUserID,
			Action: decision.Action,
			Reason: decision.Reason,
		})
	}

	return nil
}

func (s *Service) GetSafetyState(ctx context.Context, userID int64) (SafetyState, error) {
	if userID <= 0 {
		return SafetyState{}, ErrValidation
	}
	if s.safety == nil {
		return SafetyState{}, fmt.Errorf("moderation dependencies are not configured")
	}

	rec, err := s.safety.Get(ctx, userID)
	if err != nil {
		return SafetyState{}, err
	}

	state := SafetyState{
		UserID:           rec.UserID,
		AccountStatus:    enums.AccountStatus(rec.AccountStatus),
		SuspendedUntil:   rec.SuspendedUntil,
		WarningCount:     rec.WarningCount,
		ProfileHidden:    rec.ProfileHidden,
		LastActionReason: rec.LastActionReason,
		LastActionAt:     rec.LastActionAt,
	}
	if rec.LastAction != nil {
		action := enums.SafetyAction(*rec.LastAction)
		state.LastAction = &action
	}

	return state, nil
}

// Reinstate is the explicit reversal for a ban or suspension. It is the only
// path out of accountStatus=banned.
func (s *Service) Reinstate(ctx context.Context, userID, actorID int64, reason string) error {
	if userID <= 0 || actorID <= 0 {
		return ErrValidation
	}
	if s.safety == nil {
		return fmt.Errorf("moderation dependencies are not configured")
	}

	now := s.now().UTC()
	if err := s.safety.Reinstate(ctx, userID, string(enums.ActionReinstated), strings.TrimSpace(reason), now); err != nil {
		return err
	}

	s.logger.Info("user reinstated",
		zap.Int64("user_id", userID),
		zap.Int64("actor_id", actorID),
	)

	s.enqueueNotification(ctx, Notification{
		UserID: userID,
		Action: enums.ActionReinstated,
		Reason: reason,
	})

	return nil
}

func (s *Service) applyAction(ctx context.Context, tx pgx.Tx, userID int64, decision Decision, now time.Time) error {
	action := string(decision.Action)
	reason := strings.TrimSpace(decision.Reason)

	switch decision.Action {
	case enums.ActionWarning:
		return s.safety.IncrementWarnings(ctx, tx, userID, action, reason, now)
	case enums.ActionSuspend24h, enums.ActionSuspend7d, enums.ActionSuspend30d:
		duration, _ := decision.Action.SuspensionDuration()
		return s.safety.Suspend(ctx, tx, userID, now.Add(duration), action, reason, now)
	case enums.ActionBanPermanent:
		return s.safety.Ban(ctx, tx, userID, action, reason, now)
	case enums.ActionProfileHidden:
		return s.safety.HideProfile(ctx, tx, userID, action, reason, now)
	case enums.ActionContentRemoved:
		// Removal itself belongs to the content collaborator; only the audit
		// trail lives here.
		return s.safety.RecordAction(ctx, tx, userID, action, reason, now)
	case enums.ActionNoAction:
		return nil
	default:
		return ErrValidation
	}
}

func (s *Service) enqueueNotification(ctx context.Context, n Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.EnqueueSafetyNotification(ctx, n); err != nil {
		s.logger.Warn("safety notification dropped",
			zap.Int64("user_id", n.UserID),
			zap.String("action", string(n.Action)),
			zap.Error(err),
		)
	}
}

func validateDecision(decision Decision) error {
	if _, ok := enums.ParseSafetyAction(string(decision.Action)); !ok {
		return ErrValidation
	}
	if _, ok := enums.ParseReportStatus(string(decision.Status)); !ok || !decision.Status.Terminal() {
		return ErrValidation
	}

	if decision.Action.Punitive() {
		if decision.Status != enums.ReportStatusActionTaken {
			return ErrValidation
		}
		return nil
	}

	// no_action never closes a report as action_taken or dismisses with a
	// punishment attached.
	if decision.Status == enums.ReportStatusActionTaken {
		return ErrValidation
	}
	return nil
}
