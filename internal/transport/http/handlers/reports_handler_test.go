package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pgrepo "github.com/ivankudzin/heartbeat/backend/internal/repo/postgres"
	authsvc "github.com/ivankudzin/heartbeat/backend/internal/services/auth"
	reportsvc "github.com/ivankudzin/heartbeat/backend/internal/services/reports"
)

func newReportsService(store *reportStoreStub, rate reportsvc.RateStore) *reportsvc.Service {
	return reportsvc.NewService(reportsvc.Dependencies{
		Store:     store,
		RateStore: rate,
	}, reportsvc.Config{MaxPerWindow: 3})
}

func authedRequest(method, target string, body []byte, userID int64, role string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: userID,
		Role:   role,
	}))
}

func TestSubmitReportCreatesPendingReport(t *testing.T) {
	store := &reportStoreStub{}
	h := NewReportsHandler(newReportsService(store, rateStoreStub{count: 1}))

	body, err := json.Marshal(map[string]any{
		"reported_user_id": 202,
		"category":         "harassment",
		"description":      "sends abusive messages after unmatching",
		"evidence":         map[string]string{"message_id": "m-17"},
	})
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	rr := httptest.NewRecorder()
	h.Submit(rr, authedRequest(http.MethodPost, "/report", body, 101, authsvc.RoleUser))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusCreated)
	}

	var payload struct {
		ReportID string `json:"report_id"`
		Status   string `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.ReportID == "" {
		t.Fatal("expected a non-empty report id")
	}
	if payload.Status != "pending" {
		t.Fatalf("unexpected status: got %q want %q", payload.Status, "pending")
	}
	if len(store.records) != 1 {
		t.Fatalf("unexpected store size: got %d want 1", len(store.records))
	}
	if got := store.records[0].Severity; got != "high" {
		t.Fatalf("unexpected stored severity: got %q want %q", got, "high")
	}
}

func TestSubmitReportRejectsUnknownCategory(t *testing.T) {
	h := NewReportsHandler(newReportsService(&reportStoreStub{}, rateStoreStub{count: 1}))

	body, err := json.Marshal(map[string]any{
		"reported_user_id": 202,
		"category":         "bad_vibes",
		"description":      "something felt off",
	})
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	rr := httptest.NewRecorder()
	h.Submit(rr, authedRequest(http.MethodPost, "/report", body, 101, authsvc.RoleUser))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
	if code := errorCode(t, rr); code != "UNKNOWN_CATEGORY" {
		t.Fatalf("unexpected error code: got %q want %q", code, "UNKNOWN_CATEGORY")
	}
}

func TestSubmitReportRequiresAuthentication(t *testing.T) {
	h := NewReportsHandler(newReportsService(&reportStoreStub{}, rateStoreStub{count: 1}))

	req := httptest.NewRequest(http.MethodPost, "/report", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()
	h.Submit(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestSubmitReportReturnsTempUnavailableOnRateStoreError(t *testing.T) {
	h := NewReportsHandler(newReportsService(&reportStoreStub{}, rateStoreStub{err: errors.New("redis unavailable")}))

	body, err := json.Marshal(map[string]any{
		"reported_user_id": 202,
		"category":         "spam",
		"description":      "copy-pasted crypto links",
	})
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	rr := httptest.NewRecorder()
	h.Submit(rr, authedRequest(http.MethodPost, "/report", body, 101, authsvc.RoleUser))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusServiceUnavailable)
	}

	var payload struct {
		Code          string `json:"code"`
		RetryAfterSec int64  `json:"retry_after_sec"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "TEMP_UNAVAILABLE" {
		t.Fatalf("unexpected error code: got %q want %q", payload.Code, "TEMP_UNAVAILABLE")
	}
	if payload.RetryAfterSec != 10 {
		t.Fatalf("unexpected retry_after_sec: got %d want %d", payload.RetryAfterSec, 10)
	}
}

func TestCategoriesListsFullTaxonomy(t *testing.T) {
	h := NewReportsHandler(nil)

	rr := httptest.NewRecorder()
	h.Categories(rr, httptest.NewRequest(http.MethodGet, "/safety/categories", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload struct {
		Categories []struct {
			ID       string `json:"id"`
			Severity string `json:"severity"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Categories) != 8 {
		t.Fatalf("unexpected category count: got %d want 8", len(payload.Categories))
	}

	severities := map[string]string{}
	for _, c := range payload.Categories {
		severities[c.ID] = c.Severity
	}
	if severities["underage"] != "critical" {
		t.Fatalf("unexpected underage severity: got %q want %q", severities["underage"], "critical")
	}
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	return payload.Code
}

type reportStoreStub struct {
	records []pgrepo.ReportRecord
}

func (s *reportStoreStub) Create(_ context.Context, rec pgrepo.ReportRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func (s *reportStoreStub) GetByID(_ context.Context, reportID string) (pgrepo.ReportRecord, error) {
	for _, rec := range s.records {
		if rec.ID == reportID {
			return rec, nil
		}
	}
	return pgrepo.ReportRecord{}, pgrepo.ErrReportNotFound
}

func (s *reportStoreStub) ListByStatus(_ context.Context, status *string, limit int) ([]pgrepo.ReportRecord, error) {
	out := make([]pgrepo.ReportRecord, 0, len(s.records))
	for _, rec := range s.records {
		if status != nil && rec.Status != *status {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type rateStoreStub struct {
	count int64
	err   error
}

func (s rateStoreStub) IncrementWindow(context.Context, string, time.Duration) (int64, time.Duration, error) {
	if s.err != nil {
		return 0, 0, s.err
	}
	return s.count, time.Minute, nil
}
