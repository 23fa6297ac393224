package redis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/ivankudzin/heartbeat/backend/internal/domain/enums"
	modsvc "github.com/ivankudzin/heartbeat/backend/internal/services/moderation"
)

func TestEnqueueSafetyNotification(t *testing.T) {
	mini := miniredis.RunT(t)
	repo := NewNotificationRepo(NewClient(mini.Addr(), "", 0))
	ctx := context.Background()

	err := repo.EnqueueSafetyNotification(ctx, modsvc.Notification{
		UserID: 202,
		Action: enums.ActionWarning,
		Reason: "first offense",
	})
	if err != nil {
		t.Fatalf("enqueue notification: %v", err)
	}

	length, err := repo.QueueLength(ctx)
	if err != nil {
		t.Fatalf("queue length: %v", err)
	}
	if length != 1 {
		t.Fatalf("unexpected queue length: got %d want 1", length)
	}

	raw, err := mini.Lpop(notifyQueueKey)
	if err != nil {
		t.Fatalf("pop queued notification: %v", err)
	}

	var payload struct {
		UserID int64  `json:"user_id"`
		Action string `json:"action"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("decode queued notification: %v", err)
	}
	if payload.UserID != 202 || payload.Action != "warning" || payload.Reason != "first offense" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestEnqueueSafetyNotificationRejectsInvalidPayload(t *testing.T) {
	mini := miniredis.RunT(t)
	repo := NewNotificationRepo(NewClient(mini.Addr(), "", 0))

	if err := repo.EnqueueSafetyNotification(context.Background(), modsvc.Notification{}); err == nil {
		t.Fatal("expected error for empty notification")
	}
}
