package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	modsvc "github.com/ivankudzin/heartbeat/backend/internal/services/moderation"
)

const notifyQueueKey = "notify:safety"

// NotificationRepo queues safety notifications for the out-of-band delivery
// worker. Delivery transport (push, email) is not this service's concern.
type NotificationRepo struct {
	client *goredis.Client
}

type notificationPayload struct {
	UserID    int64     `json:"user_id"`
	Action    string    `json:"action"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNotificationRepo(client *goredis.Client) *NotificationRepo {
	return &NotificationRepo{client: client}
}

func (r *NotificationRepo) EnqueueSafetyNotification(ctx context.Context, n modsvc.Notification) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if n.UserID <= 0 || n.Action == "" {
		return fmt.Errorf("invalid notification payload")
	}

	payload, err := json.Marshal(notificationPayload{
		UserID:    n.UserID,
		Action:    string(n.Action),
		Reason:    n.Reason,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := r.client.LPush(ctx, notifyQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}

	return nil
}

// QueueLength is used by tests and the ops dashboard.
func (r *NotificationRepo) QueueLength(ctx context.Context) (int64, error) {
	if r.client == nil {
		return 0, fmt.Errorf("redis client is nil")
	}

	length, err := r.client.LLen(ctx, notifyQueueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("read notification queue length: %w", err)
	}

	return length, nil
}
