package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospira/edi-portal/internal/core/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, zerolog.Nop())
}

func TestFetchProfile_SendsBearerAndDecodesResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/user/get-by-profile", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"result":{"username":"acme","role_name":"VENDER","group":"V001","source_system":"APP_USER"}}`))
	})

	u, err := c.FetchProfile(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "acme", u.Username)
	assert.Equal(t, "V001", u.Group)
	assert.Equal(t, domain.SourceVendor, u.SourceSystem)
}

func TestFetchProfile_MissingResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.FetchProfile(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, "No user information found.", domain.MessageOf(err, "fallback"))
}

func TestCall_ErrorBodyPrecedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field wins", `{"error":"Token expired","message":"other"}`, "Token expired"},
		{"message field", `{"message":"Bad token"}`, "Bad token"},
		{"no json", `nope`, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.FetchProfile(context.Background(), "tok")
			require.Error(t, err)
			assert.Equal(t, tt.want, domain.MessageOf(err, "fallback"))
			assert.True(t, IsUnauthorized(err))
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}

func TestStartLogin_UsesCategoryEndpoint(t *testing.T) {
	tests := []struct {
		category domain.LoginCategory
		path     string
		field    string
	}{
		{domain.CategoryVendor, "/api/user/login/start", "email"},
		{domain.CategoryEmployee, "/api/employee/login/ldap", "username"},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "someone", body[tt.field])
				assert.Equal(t, "pw", body["password"])
				_, _ = w.Write([]byte(`{"message":"OTP sent"}`))
			})

			res, err := c.StartLogin(context.Background(), tt.category, "someone", "pw")
			require.NoError(t, err)
			assert.Empty(t, res.Token)
			assert.Equal(t, "OTP sent", res.Message)
		})
	}
}

func TestVerifyLogin_UsesCategoryEndpoint(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/employee/login/verify-code", r.URL.Path)
		var body codeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, codeRequest{Email: "jdoe", Code: "123456"}, body)
		_, _ = w.Write([]byte(`{"token":"jwt"}`))
	})

	res, err := c.VerifyLogin(context.Background(), domain.CategoryEmployee, "jdoe", "123456")
	require.NoError(t, err)
	assert.Equal(t, "jwt", res.Token)
}

func TestFlatSummary_EscapesVendorCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/summary-data/get-vendor-flat-summary", r.URL.Path)
		assert.Equal(t, "V 01&x", r.URL.Query().Get("vendorCode"))
		_, _ = w.Write([]byte(`[{"number_order":"PO-1","status_order":"NEW","read_order":false}]`))
	})

	items, err := c.FlatSummary(context.Background(), "tok", "V 01&x")
	require.NoError(t, err)
	require.Len(t, items, 1)
	docType, number := items[0].Document()
	assert.Equal(t, domain.DocOrder, docType)
	assert.Equal(t, "PO-1", number)
}

func TestResetPassword_SendsNewPassword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "reset-tok", body["token"])
		assert.Equal(t, "s3cretpass", body["new_password"])
		_, _ = w.Write([]byte(`{"message":"Password updated"}`))
	})

	msg, err := c.ResetPassword(context.Background(), "reset-tok", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, "Password updated", msg)
}

func TestBreaker_OpensOnServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		Breaker: BreakerConfig{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, FailureRatio: 0.5, MinRequests: 2},
	}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		_, err := c.FetchProfile(context.Background(), "tok")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstream)
	}

	_, err := c.FetchProfile(context.Background(), "tok")
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits), "open breaker short-circuits")
}

func TestBreaker_IgnoresClientErrors(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
	})

	for i := 0; i < 10; i++ {
		_, err := c.StartLogin(context.Background(), domain.CategoryVendor, "a@b.c", "pw")
		require.Error(t, err)
	}
	assert.Equal(t, int32(10), atomic.LoadInt32(&hits))
}
