package enums

import (
	"testing"
	"time"
)

func TestSeverityRankOrdersCriticalFirst(t *testing.T) {
	ordered := []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Fatalf("expected %s to rank before %s", ordered[i-1], ordered[i])
		}
	}
	if Severity("unknown").Rank() <= SeverityLow.Rank() {
		t.Fatalf("unknown severity must rank after low")
	}
}

func TestParseReportStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want ReportStatus
		ok   bool
	}{
		{raw: "pending", want: ReportStatusPending, ok: true},
		{raw: " ACTION_TAKEN ", want: ReportStatusActionTaken, ok: true},
		{raw: "Dismissed", want: ReportStatusDismissed, ok: true},
		{raw: "archived", ok: false},
		{raw: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseReportStatus(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ParseReportStatus(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTerminalStatuses(t *testing.T) {
	if ReportStatusPending.Terminal() {
		t.Fatalf("pending must not be terminal")
	}
	for _, status := range []ReportStatus{ReportStatusUnderReview, ReportStatusResolved, ReportStatusDismissed, ReportStatusActionTaken} {
		if !status.Terminal() {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
}

func TestSuspensionDuration(t *testing.T) {
	tests := []struct {
		action SafetyAction
		want   time.Duration
		ok     bool
	}{
		{action: ActionSuspend24h, want: 24 * time.Hour, ok: true},
		{action: ActionSuspend7d, want: 7 * 24 * time.Hour, ok: true},
		{action: ActionSuspend30d, want: 30 * 24 * time.Hour, ok: true},
		{action: ActionWarning, ok: false},
		{action: ActionBanPermanent, ok: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			got, ok := tt.action.SuspensionDuration()
			if ok != tt.ok || got != tt.want {
				t.Fatalf("unexpected duration for %s: got (%s, %v) want (%s, %v)", tt.action, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestReinstatedIsNotAReviewableAction(t *testing.T) {
	if _, ok := ParseSafetyAction("reinstated"); ok {
		t.Fatalf("reinstated must not parse as a review action")
	}
	if ActionNoAction.Punitive() {
		t.Fatalf("no_action must not be punitive")
	}
	if !ActionContentRemoved.Punitive() {
		t.Fatalf("content_removed closes a report as action_taken")
	}
}
