package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/core/domain"
)

type stubSummaries struct {
	calls     int
	summaryFn func(ctx context.Context, token, vendorCode string) ([]domain.SummaryItem, error)
}

func (s *stubSummaries) FlatSummary(ctx context.Context, token, vendorCode string) ([]domain.SummaryItem, error) {
	s.calls++
	return s.summaryFn(ctx, token, vendorCode)
}

func serveNotifications(t *testing.T, user *domain.User, summaries *stubSummaries, target string, token string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	profiles := &stubProfiles{fetchFn: func(context.Context, string) (*domain.User, error) {
		return user, nil
	}}
	ck := testCookies()
	h := NewNotificationHandler(summaries, ck, time.Second, "en", zerolog.Nop())
	e := newEcho()
	rec := httptest.NewRecorder()
	req := newRequest(http.MethodGet, target, "")
	if token != "" {
		req.AddCookie(tokenCookie(token))
	}
	c := e.NewContext(req, rec)
	return rec, withSession(profiles, ck, h.List)(c)
}

func TestNotificationHandler_List(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	summaries := &stubSummaries{summaryFn: func(_ context.Context, token, vendorCode string) ([]domain.SummaryItem, error) {
		if token != "tok" || vendorCode != "V1001" {
			t.Fatalf("unexpected args: %s %s", token, vendorCode)
		}
		return []domain.SummaryItem{
			{NumberForecast: "FC-1", StatusForecast: "New", CreatedAt: created},
			{NumberOrder: "PO-2", StatusOrder: "Pending", CreatedAt: created},
			{NumberInvoice: "INV-3", StatusInvoice: "Rejected", CreatedAt: created},
			{VendorCode: "V1001"},
		}, nil
	}}

	rec, err := serveNotifications(t, vendorUser(), summaries, "/api/notifications", "tok")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	mustStatus(t, rec, http.StatusOK)

	var resp notificationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.UnreadCount != 3 || len(resp.Items) != 3 {
		t.Fatalf("expected 3 items, got %+v", resp)
	}
	want := []notificationItem{
		{Type: domain.DocForecast, Number: "FC-1", Status: "New", CreatedAt: created, Link: "/en/forecast-form/FC-1"},
		{Type: domain.DocOrder, Number: "PO-2", Status: "Pending", CreatedAt: created, Link: "/en/order-form/PO-2"},
		{Type: domain.DocInvoice, Number: "INV-3", Status: "Rejected", CreatedAt: created, Link: "/en/invoice-form/INV-3"},
	}
	for i, it := range resp.Items {
		if !it.CreatedAt.Equal(want[i].CreatedAt) {
			t.Fatalf("item %d: unexpected created_at %v", i, it.CreatedAt)
		}
		it.CreatedAt = want[i].CreatedAt
		if it != want[i] {
			t.Fatalf("item %d: expected %+v, got %+v", i, want[i], it)
		}
	}
}

func TestNotificationHandler_UpstreamFailureYieldsEmptyList(t *testing.T) {
	summaries := &stubSummaries{summaryFn: func(context.Context, string, string) ([]domain.SummaryItem, error) {
		return nil, errors.New("connection refused")
	}}

	rec, err := serveNotifications(t, vendorUser(), summaries, "/api/notifications", "tok")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	mustStatus(t, rec, http.StatusOK)

	var resp notificationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Items == nil || len(resp.Items) != 0 || resp.UnreadCount != 0 {
		t.Fatalf("expected an empty list, got %+v", resp)
	}
}

func TestNotificationHandler_NoGroupSkipsFetch(t *testing.T) {
	summaries := &stubSummaries{summaryFn: func(context.Context, string, string) ([]domain.SummaryItem, error) {
		return nil, nil
	}}
	employee := &domain.User{Username: "jdoe", RoleName: domain.RoleAdmin, SourceSystem: domain.SourceEmployee}

	rec, err := serveNotifications(t, employee, summaries, "/api/notifications", "tok")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	mustStatus(t, rec, http.StatusOK)
	if summaries.calls != 0 {
		t.Fatalf("expected no summary call without a vendor group")
	}
}

func TestNotificationHandler_Anonymous(t *testing.T) {
	summaries := &stubSummaries{}

	_, err := serveNotifications(t, nil, summaries, "/api/notifications", "")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
