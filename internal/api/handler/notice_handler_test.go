package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prospira/edi-portal/internal/api/cookies"
	"github.com/prospira/edi-portal/internal/core/domain"
	"github.com/prospira/edi-portal/internal/infrastructure/db/memory"
)

func TestNoticeHandler_PopOnce(t *testing.T) {
	notices := memory.NewNoticeStore(time.Minute)
	if err := notices.Push(context.Background(), "browser-1", domain.UnauthorizedNotice); err != nil {
		t.Fatalf("push: %v", err)
	}
	h := NewNoticeHandler(notices, testCookies())
	e := newEcho()

	for i, want := range []int{1, 0} {
		rec := httptest.NewRecorder()
		c := e.NewContext(newRequest(http.MethodGet, "/api/notices", "", browserCookie("browser-1")), rec)
		if err := h.Pop(c); err != nil {
			t.Fatalf("call %d: handler error: %v", i, err)
		}
		var resp noticesResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if resp.Notices == nil || len(resp.Notices) != want {
			t.Fatalf("call %d: expected %d notices, got %v", i, want, resp.Notices)
		}
	}
}

func TestNoticeHandler_IssuesBrowserID(t *testing.T) {
	h := NewNoticeHandler(memory.NewNoticeStore(time.Minute), testCookies())
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(newRequest(http.MethodGet, "/api/notices", ""), rec)

	if err := h.Pop(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if ck := responseCookie(rec, cookies.BrowserCookie); ck == nil || ck.Value == "" {
		t.Fatalf("expected a browser cookie to be issued")
	}
}
