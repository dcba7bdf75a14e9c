package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospira/edi-portal/internal/core/domain"
)

func TestNoticeStore_PopOnce(t *testing.T) {
	s := NewNoticeStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Push(ctx, "b1", domain.UnauthorizedNotice))

	got, err := s.Pop(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Notice{domain.UnauthorizedNotice}, got)

	got, err = s.Pop(ctx, "b1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNoticeStore_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewNoticeStore(time.Minute)
	s.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Push(ctx, "b1", domain.UnauthorizedNotice))
	now = now.Add(2 * time.Minute)

	got, err := s.Pop(ctx, "b1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
