// Package session keeps track of who is logged in on a browser.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/core/domain"
	"github.com/prospira/edi-portal/internal/core/ports"
	"github.com/prospira/edi-portal/internal/pkg/flight"
)

const (
	msgProfileFallback = "Failed to load profile"
	fallbackInitial    = "U"
)

// State is a snapshot of a Store.
type State struct {
	User    *domain.User
	Loading bool
	Error   string
}

// Provider builds one Store per page load. Every store it builds shares the
// same flight group, so concurrent refreshes for one token reach the EDI API
// once.
type Provider struct {
	profiles ports.ProfileFetcher
	flights  *flight.Group[*domain.User]
	observer ports.RefreshObserver
	log      zerolog.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithObserver reports every refresh outcome to o.
func WithObserver(o ports.RefreshObserver) ProviderOption {
	return func(p *Provider) { p.observer = o }
}

func NewProvider(profiles ports.ProfileFetcher, log zerolog.Logger, opts ...ProviderOption) *Provider {
	p := &Provider{
		profiles: profiles,
		flights:  &flight.Group[*domain.User]{},
		observer: nopObserver{},
		log:      log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type nopObserver struct{}

func (nopObserver) RefreshResult(string) {}
func (nopObserver) RefreshShared()       {}

// New returns a Store reading its token from tokens. The store starts in the
// loading state until the first Refresh completes.
func (p *Provider) New(tokens ports.TokenStore) *Store {
	return &Store{
		tokens:   tokens,
		profiles: p.profiles,
		flights:  p.flights,
		observer: p.observer,
		log:      p.log,
		loading:  true,
	}
}

// Store is the single source of truth for the identity of one browser.
type Store struct {
	tokens   ports.TokenStore
	profiles ports.ProfileFetcher
	flights  *flight.Group[*domain.User]
	observer ports.RefreshObserver
	log      zerolog.Logger

	mu      sync.RWMutex
	user    *domain.User
	loading bool
	err     string
	// gen fences completions of refreshes that started before a Logout.
	gen uint64
}

// Refresh re-derives the identity from the persisted token. Without a token
// the store becomes unauthenticated and no request is made. Failures are
// kept as state and never returned.
//
// ctx bounds how long the caller waits. The profile fetch itself is shared
// with concurrent callers and still updates the store after ctx is done.
func (s *Store) Refresh(ctx context.Context) {
	gen := s.begin()

	token, ok := s.tokens.Token()
	if !ok {
		s.settle(gen, nil, nil)
		s.observer.RefreshResult("anonymous")
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		r := s.flights.Do(context.WithoutCancel(ctx), token, func(ctx context.Context) (*domain.User, error) {
			return s.fetch(ctx, token)
		})
		if r.Shared {
			s.observer.RefreshShared()
		}
		s.settle(gen, r.Val, r.Err)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.log.Debug().Err(ctx.Err()).Msg("stopped waiting for profile refresh")
	}
}

func (s *Store) fetch(ctx context.Context, token string) (*domain.User, error) {
	u, err := s.profiles.FetchProfile(ctx, token)
	if err != nil {
		s.observer.RefreshResult("error")
		return nil, err
	}
	if u == nil {
		s.observer.RefreshResult("error")
		return nil, errors.New("no user information found")
	}
	s.observer.RefreshResult("ok")
	return u, nil
}

func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.err = ""
	return s.gen
}

func (s *Store) settle(gen uint64, u *domain.User, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.log.Debug().Msg("discarding profile refresh that completed after logout")
		return
	}

	s.loading = false
	if err != nil {
		s.user = nil
		s.err = domain.MessageOf(err, msgProfileFallback)
		s.log.Warn().Err(err).Msg("profile refresh failed")
		return
	}
	s.user = u
	s.err = ""
}

// Logout deletes the persisted token and clears the identity. It does not
// call the EDI API.
func (s *Store) Logout() {
	s.tokens.DeleteToken()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.user = nil
	s.err = ""
	s.loading = false
}

// State returns a snapshot of the store.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{User: s.user, Loading: s.loading, Error: s.err}
}

// User returns the current identity, or nil when unauthenticated.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) HasRole(role string) bool {
	return s.User().HasRole(role)
}

// HasAnyRole is false when unauthenticated or when roles is empty.
func (s *Store) HasAnyRole(roles ...string) bool {
	return s.User().HasAnyRole(roles...)
}
