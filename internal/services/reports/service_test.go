package reports

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ivankudzin/heartbeat/backend/internal/domain/enums"
	pgrepo "github.com/ivankudzin/heartbeat/backend/internal/repo/postgres"
	redrepo "github.com/ivankudzin/heartbeat/backend/internal/repo/redis"
)

// fakeStore keeps records in memory and lists them with the repo's ordering
// contract: severity rank ascending, then created_at descending.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]pgrepo.ReportRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]pgrepo.ReportRecord{}}
}

func (f *fakeStore) Create(_ context.Context, rec pgrepo.ReportRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[rec.ID] = rec
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, reportID string) (pgrepo.ReportRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[reportID]
	if !ok {
		return pgrepo.ReportRecord{}, pgrepo.ErrReportNotFound
	}
	return rec, nil
}

func (f *fakeStore) ListByStatus(_ context.Context, status *string, _ int) ([]pgrepo.ReportRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := make([]pgrepo.ReportRecord, 0, len(f.records))
	for _, rec := range f.records {
		if status != nil && rec.Status != *status {
			continue
		}
		items = append(items, rec)
	}

	sort.Slice(items, func(i, j int) bool {
		ri := enums.Severity(items[i].Severity).Rank()
		rj := enums.Severity(items[j].Severity).Rank()
		if ri != rj {
			return ri < rj
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	return items, nil
}

func newTestService(store Store, rate RateStore, maxPerWindow int) *Service {
	return NewService(Dependencies{
		Store:     store,
		RateStore: rate,
	}, Config{MaxPerWindow: maxPerWindow})
}

func TestSubmitPersistsPendingWithCatalogSeverity(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, 0)

	id, err := svc.Submit(context.Background(), 1, 2, "underage", "profile says 16", map[string]string{"screenshot": "media/abc.jpg"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a report id")
	}

	report, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if report.Status != enums.ReportStatusPending {
		t.Fatalf("unexpected status: %s", report.Status)
	}
	if report.Severity != enums.SeverityCritical {
		t.Fatalf("severity must be copied from the catalog: %s", report.Severity)
	}
	if report.Evidence["screenshot"] != "media/abc.jpg" {
		t.Fatalf("evidence lost: %v", report.Evidence)
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name        string
		reporter    int64
		reported    int64
		category    string
		description string
		wantErr     error
	}{
		{name: "self report", reporter: 5, reported: 5, category: "spam", description: "x", wantErr: ErrInvalidArgument},
		{name: "zero reporter", reporter: 0, reported: 5, category: "spam", description: "x", wantErr: ErrInvalidArgument},
		{name: "unknown category", reporter: 1, reported: 2, category: "bad_vibes", description: "x", wantErr: ErrUnknownCategory},
		{name: "blank description", reporter: 1, reported: 2, category: "spam", description: "   ", wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newFakeStore(), nil, 0)
			_, err := svc.Submit(context.Background(), tt.reporter, tt.reported, tt.category, tt.description, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSubmitEvidenceIsCopied(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, 0)

	evidence := map[string]string{"chat": "msg-1"}
	id, err := svc.Submit(context.Background(), 1, 2, "spam", "link spam", evidence)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	evidence["chat"] = "mutated"

	report, _ := svc.Get(context.Background(), id)
	if report.Evidence["chat"] != "msg-1" {
		t.Fatalf("evidence must be copied at submit time: %v", report.Evidence)
	}
}

func TestListOrdersBySeverityThenRecency(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, 0)
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	seed := []struct {
		id       string
		severity enums.Severity
		at       time.Time
	}{
		{id: "r-low", severity: enums.SeverityLow, at: base.Add(1 * time.Hour)},
		{id: "r-critical", severity: enums.SeverityCritical, at: base.Add(2 * time.Hour)},
		{id: "r-high", severity: enums.SeverityHigh, at: base.Add(3 * time.Hour)},
		{id: "r-critical-old", severity: enums.SeverityCritical, at: base},
	}
	for _, item := range seed {
		if err := store.Create(context.Background(), pgrepo.ReportRecord{
			ID:             item.id,
			ReporterUserID: 1,
			ReportedUserID: 2,
			Category:       "other",
			Severity:       string(item.severity),
			Status:         "pending",
			CreatedAt:      item.at,
		}); err != nil {
			t.Fatalf("seed report: %v", err)
		}
	}

	items, err := svc.ListByStatus(context.Background(), nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	got := make([]string, 0, len(items))
	for _, item := range items {
		got = append(got, item.ID)
	}
	want := []string{"r-critical", "r-critical-old", "r-high", "r-low"}
	if len(got) != len(want) {
		t.Fatalf("unexpected item count: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got %v want %v", got, want)
		}
	}
}

func TestListFiltersByStatus(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, 0)

	for i, status := range []string{"pending", "dismissed", "pending"} {
		_ = store.Create(context.Background(), pgrepo.ReportRecord{
			ID:        string(rune('a' + i)),
			Severity:  "low",
			Status:    status,
			CreatedAt: time.Now(),
		})
	}

	pending := enums.ReportStatusPending
	items, err := svc.ListByStatus(context.Background(), &pending)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 pending reports, got %d", len(items))
	}
}

func TestGetUnknownReport(t *testing.T) {
	svc := newTestService(newFakeStore(), nil, 0)
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitRateLimitBlocksFourthReport(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	svc := newTestService(newFakeStore(), redrepo.NewRateRepo(client), 3)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := svc.Submit(ctx, 701, 9, "spam", "spam links", nil); err != nil {
			t.Fatalf("unexpected error on report %d: %v", i+1, err)
		}
	}

	_, err := svc.Submit(ctx, 701, 9, "spam", "spam links", nil)
	rl, ok := IsTooManyReports(err)
	if !ok {
		t.Fatalf("expected TooManyReportsError on 4th report, got %v", err)
	}
	if rl.RetryAfter() <= 0 {
		t.Fatalf("expected positive retry_after, got %d", rl.RetryAfter())
	}

	// A different reporter still has a fresh window.
	if _, err := svc.Submit(ctx, 702, 9, "spam", "spam links", nil); err != nil {
		t.Fatalf("window must be per reporter: %v", err)
	}
}

func TestSubmitFailsClosedOnRateStoreError(t *testing.T) {
	svc := newTestService(newFakeStore(), rateStoreErrStub{err: errors.New("redis unavailable")}, 3)

	_, err := svc.Submit(context.Background(), 701, 9, "spam", "spam links", nil)
	tu, ok := IsTempUnavailable(err)
	if !ok {
		t.Fatalf("expected TempUnavailableError, got %v", err)
	}
	if tu.RetryAfter() != 10 {
		t.Fatalf("unexpected retry_after: got %d want 10", tu.RetryAfter())
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}

type rateStoreErrStub struct {
	err error
}

func (s rateStoreErrStub) IncrementWindow(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, s.err
}
