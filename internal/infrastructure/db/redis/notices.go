package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prospira/edi-portal/internal/core/domain"
)

const noticeKeyPrefix = "notice:"

// NoticeStore keeps one-time notices per browser in a redis list.
// Key format: notice:<browser_id>
type NoticeStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewNoticeStore creates a NoticeStore whose lists expire ttl after the
// last push.
func NewNoticeStore(client *redis.Client, ttl time.Duration) *NoticeStore {
	return &NoticeStore{client: client, ttl: ttl}
}

// Push appends a notice for the browser.
func (s *NoticeStore) Push(ctx context.Context, browserID string, n domain.Notice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	key := noticeKeyPrefix + browserID
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis push notice: %w", err)
	}
	return nil
}

// Pop returns and removes every pending notice of the browser, oldest first.
func (s *NoticeStore) Pop(ctx context.Context, browserID string) ([]domain.Notice, error) {
	key := noticeKeyPrefix + browserID

	var rng *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		rng = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis pop notices: %w", err)
	}

	raw := rng.Val()
	notices := make([]domain.Notice, 0, len(raw))
	for _, r := range raw {
		var n domain.Notice
		if err := json.Unmarshal([]byte(r), &n); err != nil {
			return nil, fmt.Errorf("unmarshal notice: %w", err)
		}
		notices = append(notices, n)
	}
	return notices, nil
}

// Ping reports whether redis answers.
func (s *NoticeStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
