package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/api/cookies"
	"github.com/prospira/edi-portal/internal/core/domain"
	"github.com/prospira/edi-portal/internal/core/login"
	"github.com/prospira/edi-portal/internal/infrastructure/db/memory"
)

type loginFixture struct {
	handler  *LoginHandler
	registry *login.Registry
	notices  *memory.NoticeStore
	ck       *cookies.Manager
	// jar holds the cookies the browser would send back.
	jar map[string]*http.Cookie
}

func newLoginFixture(gw *stubGateway) *loginFixture {
	registry := login.NewRegistry(gw, zerolog.Nop(), time.Minute)
	notices := memory.NewNoticeStore(time.Minute)
	ck := testCookies()
	return &loginFixture{
		handler:  NewLoginHandler(registry, ck, notices, "en", zerolog.Nop()),
		registry: registry,
		notices:  notices,
		ck:       ck,
		jar:      map[string]*http.Cookie{cookies.BrowserCookie: browserCookie("browser-1")},
	}
}

func (f *loginFixture) call(t *testing.T, h func(*LoginHandler) echo.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	cks := make([]*http.Cookie, 0, len(f.jar))
	for _, ck := range f.jar {
		cks = append(cks, ck)
	}
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(newRequest(method, target, body, cks...), rec)

	err := h(f.handler)(c)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(f.jar, ck.Name)
			continue
		}
		f.jar[ck.Name] = ck
	}
	return rec, err
}

func decodeLogin(t *testing.T, rec *httptest.ResponseRecorder) loginResponse {
	t.Helper()
	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func codeSentGateway(verify func(code string) (*domain.LoginResult, error)) *stubGateway {
	return &stubGateway{
		startFn: func(_ context.Context, _ domain.LoginCategory, _, _ string) (*domain.LoginResult, error) {
			return &domain.LoginResult{Message: "OTP sent to your email"}, nil
		},
		verifyFn: func(_ context.Context, _ domain.LoginCategory, _, code string) (*domain.LoginResult, error) {
			return verify(code)
		},
	}
}

var (
	opStart  = func(h *LoginHandler) echo.HandlerFunc { return h.Start }
	opState  = func(h *LoginHandler) echo.HandlerFunc { return h.State }
	opCode   = func(h *LoginHandler) echo.HandlerFunc { return h.Code }
	opVerify = func(h *LoginHandler) echo.HandlerFunc { return h.Verify }
	opResend = func(h *LoginHandler) echo.HandlerFunc { return h.Resend }
	opBack   = func(h *LoginHandler) echo.HandlerFunc { return h.Back }
	opKey    = func(h *LoginHandler) echo.HandlerFunc { return h.Key }
)

func TestLoginHandler_State_OpensChallenge(t *testing.T) {
	f := newLoginFixture(codeSentGateway(nil))

	rec, err := f.call(t, opState, http.MethodGet, "/api/login", "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	mustStatus(t, rec, http.StatusOK)
	if resp := decodeLogin(t, rec); resp.Step != domain.StepCredentials {
		t.Fatalf("expected credentials step, got %s", resp.Step)
	}
	if f.jar[cookies.ChallengeCookie] == nil {
		t.Fatalf("expected challenge cookie to be set")
	}
	if f.registry.Len() != 1 {
		t.Fatalf("expected one challenge, got %d", f.registry.Len())
	}
}

func TestLoginHandler_OTPFlow(t *testing.T) {
	f := newLoginFixture(codeSentGateway(func(code string) (*domain.LoginResult, error) {
		if code != "123456" {
			t.Fatalf("unexpected code %q", code)
		}
		return &domain.LoginResult{Token: "tok-1"}, nil
	}))

	rec, err := f.call(t, opStart, http.MethodPost, "/api/login/start", `{"category":"vendor","identifier":"v@acme.test","password":"secret"}`)
	if err != nil {
		t.Fatalf("start error: %v", err)
	}
	resp := decodeLogin(t, rec)
	if resp.Step != domain.StepOTP || resp.ResendIn != login.ResendCooldown {
		t.Fatalf("expected otp step with full cooldown, got %+v", resp)
	}
	if resp.Message != "OTP sent to your email" {
		t.Fatalf("unexpected message %q", resp.Message)
	}

	rec, err = f.call(t, opCode, http.MethodPost, "/api/login/code?lang=th", `{"index":0,"value":"123456"}`)
	if err != nil {
		t.Fatalf("code error: %v", err)
	}
	resp = decodeLogin(t, rec)
	if !resp.Submitted || resp.Redirect != "/th/forecast" {
		t.Fatalf("expected submitted login with redirect, got %+v", resp)
	}
	if ck := responseCookie(rec, cookies.TokenCookie); ck == nil || ck.Value != "tok-1" {
		t.Fatalf("expected token cookie, got %v", ck)
	}
	if f.jar[cookies.ChallengeCookie] != nil {
		t.Fatalf("expected challenge cookie to be cleared")
	}
	if f.registry.Len() != 0 {
		t.Fatalf("expected challenge to be removed")
	}

	notices, _ := f.notices.Pop(context.Background(), "browser-1")
	if len(notices) != 1 || notices[0].Kind != domain.NoticeSuccess {
		t.Fatalf("expected a success notice, got %v", notices)
	}
}

func TestLoginHandler_Start_DirectToken(t *testing.T) {
	f := newLoginFixture(&stubGateway{
		startFn: func(_ context.Context, category domain.LoginCategory, identifier, _ string) (*domain.LoginResult, error) {
			if category != domain.CategoryEmployee || identifier != "jdoe" {
				t.Fatalf("unexpected args: %s %s", category, identifier)
			}
			return &domain.LoginResult{Token: "tok-direct"}, nil
		},
	})

	rec, err := f.call(t, opStart, http.MethodPost, "/api/login/start", `{"category":"employee","identifier":"jdoe","password":"secret"}`)
	if err != nil {
		t.Fatalf("start error: %v", err)
	}
	if resp := decodeLogin(t, rec); resp.Redirect != "/en/forecast" {
		t.Fatalf("expected redirect, got %+v", resp)
	}
	if ck := responseCookie(rec, cookies.TokenCookie); ck == nil || ck.Value != "tok-direct" {
		t.Fatalf("expected token cookie, got %v", ck)
	}
}

func TestLoginHandler_Start_Validation(t *testing.T) {
	f := newLoginFixture(codeSentGateway(nil))

	cases := []string{
		`{"category":"admin","identifier":"a","password":"b"}`,
		`{"category":"vendor","identifier":"","password":"b"}`,
		`{"category":"vendor","identifier":"a"}`,
	}
	for _, body := range cases {
		_, err := f.call(t, opStart, http.MethodPost, "/api/login/start", body)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", body, err)
		}
	}
}

func TestLoginHandler_Start_BadCredentials(t *testing.T) {
	f := newLoginFixture(&stubGateway{
		startFn: func(context.Context, domain.LoginCategory, string, string) (*domain.LoginResult, error) {
			return nil, &remoteErr{status: http.StatusUnauthorized, errMsg: "Invalid email or password"}
		},
	})

	_, err := f.call(t, opStart, http.MethodPost, "/api/login/start", `{"category":"vendor","identifier":"v@acme.test","password":"x"}`)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	var um interface{ UserMessage() string }
	if !errors.As(err, &um) || um.UserMessage() != "Invalid email or password" {
		t.Fatalf("expected the remote message to be shown, got %v", err)
	}
}

func TestLoginHandler_Code_WithoutChallenge(t *testing.T) {
	f := newLoginFixture(codeSentGateway(nil))

	_, err := f.call(t, opCode, http.MethodPost, "/api/login/code", `{"index":0,"value":"1"}`)
	if !errors.Is(err, domain.ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}

func TestLoginHandler_Code_Rejected(t *testing.T) {
	f := newLoginFixture(codeSentGateway(func(string) (*domain.LoginResult, error) {
		return nil, &remoteErr{status: http.StatusBadRequest, errMsg: "Invalid or expired OTP"}
	}))

	if _, err := f.call(t, opStart, http.MethodPost, "/api/login/start", `{"category":"vendor","identifier":"v@acme.test","password":"s"}`); err != nil {
		t.Fatalf("start error: %v", err)
	}
	_, err := f.call(t, opCode, http.MethodPost, "/api/login/code", `{"index":0,"value":"999999"}`)
	if !errors.Is(err, domain.ErrCodeRejected) {
		t.Fatalf("expected ErrCodeRejected, got %v", err)
	}

	rec, err := f.call(t, opState, http.MethodGet, "/api/login", "")
	if err != nil {
		t.Fatalf("state error: %v", err)
	}
	if resp := decodeLogin(t, rec); resp.Step != domain.StepOTP {
		t.Fatalf("expected to stay on the otp step, got %s", resp.Step)
	}
}

func TestLoginHandler_Verify_IncompleteCode(t *testing.T) {
	f := newLoginFixture(codeSentGateway(nil))

	if _, err := f.call(t, opStart, http.MethodPost, "/api/login/start", `{"category":"vendor","identifier":"v@acme.test","password":"s"}`); err != nil {
		t.Fatalf("start error: %v", err)
	}
	if _, err := f.call(t, opCode, http.MethodPost, "/api/login/code", `{"index":0,"value":"12"}`); err != nil {
		t.Fatalf("code error: %v", err)
	}
	_, err := f.call(t, opVerify, http.MethodPost, "/api/login/verify", "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLoginHandler_Resend_Throttled(t *testing.T) {
	var starts int
	gw := codeSentGateway(nil)
	inner := gw.startFn
	gw.startFn = func(ctx context.Context, c domain.LoginCategory, id, s string) (*domain.LoginResult, error) {
		starts++
		return inner(ctx, c, id, s)
	}
	f := newLoginFixture(gw)

	if _, err := f.call(t, opStart, http.MethodPost, "/api/login/start", `{"category":"vendor","identifier":"v@acme.test","password":"s"}`); err != nil {
		t.Fatalf("start error: %v", err)
	}
	_, err := f.call(t, opResend, http.MethodPost, "/api/login/resend", "")
	if !errors.Is(err, domain.ErrResendThrottled) {
		t.Fatalf("expected ErrResendThrottled, got %v", err)
	}
	if starts != 1 {
		t.Fatalf("expected no extra call to the EDI API, got %d", starts)
	}
}

func TestLoginHandler_KeyAndBack(t *testing.T) {
	f := newLoginFixture(codeSentGateway(nil))

	if _, err := f.call(t, opStart, http.MethodPost, "/api/login/start", `{"category":"vendor","identifier":"v@acme.test","password":"s"}`); err != nil {
		t.Fatalf("start error: %v", err)
	}
	if _, err := f.call(t, opCode, http.MethodPost, "/api/login/code", `{"index":0,"value":"1"}`); err != nil {
		t.Fatalf("code error: %v", err)
	}
	rec, err := f.call(t, opKey, http.MethodPost, "/api/login/key", `{"index":1,"key":"ArrowLeft"}`)
	if err != nil {
		t.Fatalf("key error: %v", err)
	}
	if resp := decodeLogin(t, rec); resp.Focus != 0 {
		t.Fatalf("expected focus on slot 0, got %d", resp.Focus)
	}

	rec, err = f.call(t, opBack, http.MethodPost, "/api/login/back", "")
	if err != nil {
		t.Fatalf("back error: %v", err)
	}
	resp := decodeLogin(t, rec)
	if resp.Step != domain.StepCredentials || resp.ResendIn != 0 {
		t.Fatalf("expected credentials step without cooldown, got %+v", resp)
	}
	for _, s := range resp.Slots {
		if s != "" {
			t.Fatalf("expected cleared slots, got %v", resp.Slots)
		}
	}
	if resp.Identifier != "v@acme.test" {
		t.Fatalf("expected identifier to be kept, got %q", resp.Identifier)
	}
}
