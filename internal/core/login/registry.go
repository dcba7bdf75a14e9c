package login

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/core/domain"
	"github.com/prospira/edi-portal/internal/core/ports"
)

type entry struct {
	challenge *Challenge
	lastSeen  time.Time
}

// Registry keeps the login challenge of each browser, keyed by an opaque id
// the browser holds in a cookie. Challenges idle for longer than ttl are
// evicted.
type Registry struct {
	gateway ports.LoginGateway
	log     zerolog.Logger
	opts    []Option
	ttl     time.Duration
	nowFunc func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry returns an empty registry. Call Run to start eviction.
func NewRegistry(gateway ports.LoginGateway, log zerolog.Logger, ttl time.Duration, opts ...Option) *Registry {
	return &Registry{
		gateway: gateway,
		log:     log,
		opts:    opts,
		ttl:     ttl,
		nowFunc: time.Now,
		entries: make(map[string]*entry),
	}
}

// Get returns the challenge stored under id.
func (r *Registry) Get(id string) (*Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrChallengeNotFound
	}
	e.lastSeen = r.nowFunc()
	return e.challenge, nil
}

// Open returns the challenge stored under id, creating a fresh one (and a
// new id) when there is none or the previous one already finished.
func (r *Registry) Open(id string) (string, *Challenge) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok && e.challenge.View().Step != domain.StepDone {
		e.lastSeen = r.nowFunc()
		return id, e.challenge
	}
	if e, ok := r.entries[id]; ok {
		e.challenge.Close()
		delete(r.entries, id)
	}

	id = uuid.NewString()
	c := NewChallenge(r.gateway, r.log, r.opts...)
	r.entries[id] = &entry{challenge: c, lastSeen: r.nowFunc()}
	return id, c
}

// Remove drops the challenge stored under id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		e.challenge.Close()
		delete(r.entries, id)
	}
}

// Len returns the number of tracked challenges.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Run evicts idle challenges every ttl until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.cleanup(); n > 0 {
				r.log.Debug().Int("evicted", n).Msg("idle login challenges evicted")
			}
		}
	}
}

func (r *Registry) cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	n := 0
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.ttl {
			e.challenge.Close()
			delete(r.entries, id)
			n++
		}
	}
	return n
}
