package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"creatorpay/services/notification/internal/entity"

	"github.com/redis/go-redis/v9"
)

const (
	// MaxNotifications is the length each inbox is trimmed to.
	MaxNotifications = 100
	inboxTTL         = 30 * 24 * time.Hour
	processedTTL     = 24 * time.Hour
)

func InboxKey(address string) string {
	return fmt.Sprintf("notifications:%s", address)
}

func readAtKey(address string) string {
	return fmt.Sprintf("notifications:%s:read_at", address)
}

func processedKey(eventID string) string {
	return fmt.Sprintf("notifications:processed:%s", eventID)
}

// NotificationStore keeps per-address inboxes in Redis lists, newest first.
type NotificationStore interface {
	Push(ctx context.Context, n *entity.Notification) error
	List(ctx context.Context, address string, limit, offset int) ([]*entity.Notification, int64, error)
	ReadAt(ctx context.Context, address string) (time.Time, error)
	MarkAllRead(ctx context.Context, address string, at time.Time) error
	// MarkProcessed records an event or delivery ID and reports false when it was already recorded.
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
	Subscribe(ctx context.Context, address string) *redis.PubSub
}

type notificationStore struct {
	rdb *redis.Client
}

func NewNotificationStore(rdb *redis.Client) NotificationStore {
	return &notificationStore{rdb: rdb}
}

func (s *notificationStore) Push(ctx context.Context, n *entity.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := InboxKey(n.Recipient)
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, MaxNotifications-1)
	pipe.Expire(ctx, key, inboxTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	// Live listeners are optional; a failed publish leaves the stored copy.
	s.rdb.Publish(ctx, key, payload)
	return nil
}

func (s *notificationStore) List(ctx context.Context, address string, limit, offset int) ([]*entity.Notification, int64, error) {
	key := InboxKey(address)

	raw, err := s.rdb.LRange(ctx, key, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get notifications: %w", err)
	}

	notifications := make([]*entity.Notification, 0, len(raw))
	for _, item := range raw {
		var n entity.Notification
		if err := json.Unmarshal([]byte(item), &n); err == nil {
			notifications = append(notifications, &n)
		}
	}

	total, err := s.rdb.LLen(ctx, key).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return notifications, total, nil
}

func (s *notificationStore) ReadAt(ctx context.Context, address string) (time.Time, error) {
	v, err := s.rdb.Get(ctx, readAtKey(address)).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get read marker: %w", err)
	}
	nanos, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, nil
	}
	return time.Unix(0, nanos).UTC(), nil
}

func (s *notificationStore) MarkAllRead(ctx context.Context, address string, at time.Time) error {
	if err := s.rdb.Set(ctx, readAtKey(address), at.UnixNano(), inboxTTL).Err(); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *notificationStore) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, processedKey(eventID), 1, processedTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record event %s: %w", eventID, err)
	}
	return ok, nil
}

func (s *notificationStore) Forget(ctx context.Context, eventID string) error {
	return s.rdb.Del(ctx, processedKey(eventID)).Err()
}

func (s *notificationStore) Subscribe(ctx context.Context, address string) *redis.PubSub {
	return s.rdb.Subscribe(ctx, InboxKey(address))
}
