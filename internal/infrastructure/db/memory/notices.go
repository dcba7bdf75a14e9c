// Package memory holds in-process stores used when no redis is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/prospira/edi-portal/internal/core/domain"
)

type pending struct {
	notices []domain.Notice
	expires time.Time
}

// NoticeStore keeps one-time notices per browser in process memory. Lists
// expire ttl after the last push; expired lists are dropped on access.
type NoticeStore struct {
	mu      sync.Mutex
	byID    map[string]*pending
	ttl     time.Duration
	nowFunc func() time.Time
}

// NewNoticeStore creates an empty store.
func NewNoticeStore(ttl time.Duration) *NoticeStore {
	return &NoticeStore{
		byID:    make(map[string]*pending),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

func (s *NoticeStore) Push(_ context.Context, browserID string, n domain.Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	s.sweepLocked(now)

	p, ok := s.byID[browserID]
	if !ok {
		p = &pending{}
		s.byID[browserID] = p
	}
	p.notices = append(p.notices, n)
	p.expires = now.Add(s.ttl)
	return nil
}

func (s *NoticeStore) Pop(_ context.Context, browserID string) ([]domain.Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(s.nowFunc())

	p, ok := s.byID[browserID]
	if !ok {
		return []domain.Notice{}, nil
	}
	delete(s.byID, browserID)
	return p.notices, nil
}

func (s *NoticeStore) sweepLocked(now time.Time) {
	for id, p := range s.byID {
		if now.After(p.expires) {
			delete(s.byID, id)
		}
	}
}
