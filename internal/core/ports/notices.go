package ports

import (
	"context"

	"github.com/prospira/edi-portal/internal/core/domain"
)

// NoticeStore queues one-time notices per browser until they are displayed.
type NoticeStore interface {
	Push(ctx context.Context, browserID string, n domain.Notice) error
	// Pop returns and removes every pending notice for the browser.
	Pop(ctx context.Context, browserID string) ([]domain.Notice, error)
}
