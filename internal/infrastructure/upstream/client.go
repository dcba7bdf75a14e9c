// Package upstream talks to the remote EDI REST API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/prospira/edi-portal/internal/api/metrics"
	"github.com/prospira/edi-portal/internal/core/domain"
)

const maxBodyBytes = 1 << 20 // 1 MB

// ErrCircuitOpen is returned while the breaker rejects calls to the EDI API.
var ErrCircuitOpen = gobreaker.ErrOpenState

// Config holds the client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Breaker BreakerConfig
}

// BreakerConfig tunes the circuit breaker in front of the EDI API.
type BreakerConfig struct {
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32
	// Interval clears the failure counts while closed.
	Interval time.Duration
	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration
	// FailureRatio trips the breaker once MinRequests were seen.
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerConfig returns the breaker settings used by the portal.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

type rawResponse struct {
	status int
	body   []byte
}

// Client calls the EDI API. Calls are never retried: login and password
// endpoints have side effects (a code is emailed on every start call).
type Client struct {
	base    string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*rawResponse]
	log     zerolog.Logger
}

// New creates a client for the EDI API rooted at cfg.BaseURL.
func New(cfg Config, log zerolog.Logger) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	bc := cfg.Breaker
	if bc == (BreakerConfig{}) {
		bc = DefaultBreakerConfig()
	}
	settings := gobreaker.Settings{
		Name:        "edi-api",
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bc.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= bc.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.UpstreamBreakerState.Set(stateToFloat(to))
		},
	}
	metrics.UpstreamBreakerState.Set(0)

	return &Client{
		base:    cfg.BaseURL,
		http:    &http.Client{Transport: transport, Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[*rawResponse](settings),
		log:     log,
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// BaseURL returns the root of the EDI API.
func (c *Client) BaseURL() string { return c.base }

// State returns the current breaker state.
func (c *Client) State() gobreaker.State { return c.breaker.State() }

// call performs one request. A 2xx body is decoded into out when out is not
// nil; any other status becomes an *APIError. Transport failures and 5xx
// answers count against the breaker, 4xx answers do not.
func (c *Client) call(ctx context.Context, endpoint, method, path, token string, in, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.UpstreamRequestDuration.WithLabelValues(endpoint, outcome).Observe(time.Since(start).Seconds())
	}()

	var body io.Reader = http.NoBody
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			outcome = "transport_error"
			return fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		outcome = "transport_error"
		return fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	raw, err := c.breaker.Execute(func() (*rawResponse, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		raw := &rawResponse{status: resp.StatusCode, body: b}
		if resp.StatusCode >= 500 {
			return raw, parseAPIError(resp.StatusCode, b)
		}
		return raw, nil
	})
	if err != nil {
		var apiErr *APIError
		switch {
		case errors.As(err, &apiErr):
			outcome = "api_error"
			return apiErr
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			outcome = "circuit_open"
		default:
			outcome = "transport_error"
		}
		c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("edi api call failed")
		return fmt.Errorf("%w: %s: %w", domain.ErrUpstream, endpoint, err)
	}

	if raw.status < 200 || raw.status > 299 {
		outcome = "api_error"
		return parseAPIError(raw.status, raw.body)
	}
	if out == nil || len(bytes.TrimSpace(raw.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw.body, out); err != nil {
		outcome = "api_error"
		return fmt.Errorf("%w: decode %s response: %w", domain.ErrUpstream, endpoint, err)
	}
	return nil
}

type profileResponse struct {
	Result *domain.User `json:"result"`
}

// FetchProfile resolves the identity behind token.
func (c *Client) FetchProfile(ctx context.Context, token string) (*domain.User, error) {
	var resp profileResponse
	if err := c.call(ctx, "profile", http.MethodGet, "/api/user/get-by-profile", token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, &APIError{Status: http.StatusOK, Err: "No user information found."}
	}
	return resp.Result, nil
}

type vendorCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type employeeCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type codeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// StartLogin submits credentials through the endpoint of category.
func (c *Client) StartLogin(ctx context.Context, category domain.LoginCategory, identifier, secret string) (*domain.LoginResult, error) {
	var (
		path string
		in   any
	)
	switch category {
	case domain.CategoryEmployee:
		path, in = "/api/employee/login/ldap", employeeCredentials{Username: identifier, Password: secret}
	default:
		path, in = "/api/user/login/start", vendorCredentials{Email: identifier, Password: secret}
	}

	var res domain.LoginResult
	if err := c.call(ctx, "login_start", http.MethodPost, path, "", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// VerifyLogin submits a one-time code through the endpoint of category.
func (c *Client) VerifyLogin(ctx context.Context, category domain.LoginCategory, identifier, code string) (*domain.LoginResult, error) {
	path := "/api/user/login/verify"
	if category == domain.CategoryEmployee {
		path = "/api/employee/login/verify-code"
	}

	var res domain.LoginResult
	if err := c.call(ctx, "login_verify", http.MethodPost, path, "", codeRequest{Email: identifier, Code: code}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

// RequestPasswordReset asks the EDI API to email a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var res messageResponse
	in := map[string]string{"email": email}
	if err := c.call(ctx, "password_forgot", http.MethodPost, "/api/user/request-password-reset", "", in, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) (string, error) {
	var res messageResponse
	in := map[string]string{"token": token, "new_password": password}
	if err := c.call(ctx, "password_reset", http.MethodPost, "/api/user/reset-password", "", in, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// FlatSummary lists the documents of a vendor that have unread activity.
func (c *Client) FlatSummary(ctx context.Context, token, vendorCode string) ([]domain.SummaryItem, error) {
	path := "/api/summary-data/get-vendor-flat-summary?vendorCode=" + url.QueryEscape(vendorCode)
	var items []domain.SummaryItem
	if err := c.call(ctx, "flat_summary", http.MethodGet, path, token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Ping checks that the EDI API answers at all. Any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base+"/", http.NoBody)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("edi api unreachable: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}
