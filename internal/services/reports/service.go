package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ivankudzin/heartbeat/backend/internal/domain/enums"
	"github.com/ivankudzin/heartbeat/backend/internal/domain/taxonomy"
	pgrepo "github.com/ivankudzin/heartbeat/backend/internal/repo/postgres"
	analyticsvc "github.com/ivankudzin/heartbeat/backend/internal/services/analytics"
)

const (
	reportWindow        = 10 * time.Minute
	tempRetryAfterSec   = 10
	defaultListLimit    = 200
	maxDescriptionChars = 2000
)

type Store interface {
	Create(ctx context.Context, rec pgrepo.ReportRecord) error
	GetByID(ctx context.Context, reportID string) (pgrepo.ReportRecord, error)
	ListByStatus(ctx context.Context, status *string, limit int) ([]pgrepo.ReportRecord, error)
}

type RateStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type Report struct {
	ID             string
	ReporterID     int64
	ReportedUserID int64
	Category       string
	Severity       enums.Severity
	Description    string
	Evidence       map[string]string
	Status         enums.ReportStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ReviewedBy     *int64
	ReviewedAt     *time.Time
	AppliedAction  *enums.SafetyAction
	ActionReason   *string
}

type Config struct {
	MaxPerWindow int
	ListLimit    int
}

type Service struct {
	store     Store
	rateStore RateStore
	analytics *analyticsvc.Service
	cfg       Config
	now       func() time.Time
	newID     func() string
}

type Dependencies struct {
	Store     Store
	RateStore RateStore
	Analytics *analyticsvc.Service
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = defaultListLimit
	}

	return &Service{
		store:     deps.Store,
		rateStore: deps.RateStore,
		analytics: deps.Analytics,
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Submit validates and persists a new report in pending status. The severity
// is the category's severity at this moment; later catalog edits do not
// reach back into stored reports.
func (s *Service) Submit(
	ctx context.Context,
	reporterID, reportedUserID int64,
	categoryID, description string,
	evidence map[string]string,
) (string, error) {
	if reporterID <= 0 || reportedUserID <= 0 || reporterID == reportedUserID {
		return "", ErrInvalidArgument
	}

	category, ok := taxonomy.Lookup(categoryID)
	if !ok {
		return "", ErrUnknownCategory
	}

	description = strings.TrimSpace(description)
	if description == "" || len(description) > maxDescriptionChars {
		return "", ErrValidation
	}

	if s.store == nil {
		return "", fmt.Errorf("report store is nil")
	}

	if err := s.checkReportRate(ctx, reporterID); err != nil {
		return "", err
	}

	now := s.now().UTC()
	rec := pgrepo.ReportRecord{
		ID:             s.newID(),
		ReporterUserID: reporterID,
		ReportedUserID: reportedUserID,
		Category:       category.ID,
		Severity:       string(category.Severity),
		Description:    description,
		Evidence:       cloneEvidence(evidence),
		Status:         string(enums.ReportStatusPending),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Create(ctx, rec); err != nil {
		return "", err
	}

	s.analytics.Track(ctx, analyticsvc.EventReportSubmitted, reporterID, map[string]any{
		"report_id":        rec.ID,
		"reported_user_id": reportedUserID,
		"category":         category.ID,
		"severity":         string(category.Severity),
	})

	return rec.ID, nil
}

// ListByStatus returns reports most urgent first: severity rank, then
// created_at descending. A nil status returns all reports.
func (s *Service) ListByStatus(ctx context.Context, status *enums.ReportStatus) ([]Report, error) {
	if s.store == nil {
		return nil, fmt.Errorf("report store is nil")
	}

	var rawStatus *string
	if status != nil {
		parsed, ok := enums.ParseReportStatus(string(*status))
		if !ok {
			return nil, ErrValidation
		}
		value := string(parsed)
		rawStatus = &value
	}

	records, err := s.store.ListByStatus(ctx, rawStatus, s.cfg.ListLimit)
	if err != nil {
		return nil, err
	}

	items := make([]Report, 0, len(records))
	for _, rec := range records {
		items = append(items, fromRecord(rec))
	}

	return items, nil
}

func (s *Service) Get(ctx context.Context, reportID string) (Report, error) {
	if strings.TrimSpace(reportID) == "" {
		return Report{}, ErrValidation
	}
	if s.store == nil {
		return Report{}, fmt.Errorf("report store is nil")
	}

	rec, err := s.store.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrReportNotFound) {
			return Report{}, ErrNotFound
		}
		return Report{}, err
	}

	return fromRecord(rec), nil
}

func (s *Service) checkReportRate(ctx context.Context, reporterID int64) error {
	if s.rateStore == nil || s.cfg.MaxPerWindow <= 0 {
		return nil
	}

	key := fmt.Sprintf("reports:%d", reporterID)
	count, ttl, err := s.rateStore.IncrementWindow(ctx, key, reportWindow)
	if err != nil {
		return &TempUnavailableError{retryAfterSec: tempRetryAfterSec}
	}

	if count > int64(s.cfg.MaxPerWindow) {
		retryAfter := int64(ttl / time.Second)
		if retryAfter <= 0 {
			retryAfter = int64(reportWindow / time.Second)
		}
		return &TooManyReportsError{retryAfterSec: retryAfter}
	}

	return nil
}

func fromRecord(rec pgrepo.ReportRecord) Report {
	report := Report{
		ID:             rec.ID,
		ReporterID:     rec.ReporterUserID,
		ReportedUserID: rec.ReportedUserID,
		Category:       rec.Category,
		Severity:       enums.Severity(rec.Severity),
		Description:    rec.Description,
		Evidence:       rec.Evidence,
		Status:         enums.ReportStatus(rec.Status),
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
		ReviewedBy:     rec.ReviewedBy,
		ReviewedAt:     rec.ReviewedAt,
		ActionReason:   rec.ActionReason,
	}
	if rec.AppliedAction != nil {
		action := enums.SafetyAction(*rec.AppliedAction)
		report.AppliedAction = &action
	}
	return report
}

func cloneEvidence(evidence map[string]string) map[string]string {
	if len(evidence) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(evidence))
	for key, value := range evidence {
		out[key] = value
	}
	return out
}
