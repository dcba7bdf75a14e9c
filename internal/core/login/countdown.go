package login

import (
	"context"
	"sync"
	"time"
)

// Ticker is the tick source of a Countdown.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Countdown counts seconds down to zero, once per tick. Starting it again
// cancels the running tick source before creating a new one.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	cancel    context.CancelFunc
	newTicker func(time.Duration) Ticker
}

// NewCountdown returns a stopped countdown. newTicker may be nil.
func NewCountdown(newTicker func(time.Duration) Ticker) *Countdown {
	if newTicker == nil {
		newTicker = newTimeTicker
	}
	return &Countdown{newTicker: newTicker}
}

// Start restarts the countdown from seconds.
func (c *Countdown) Start(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	if seconds <= 0 {
		return
	}
	c.remaining = seconds

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.run(ctx, cancel, c.newTicker(time.Second))
}

func (c *Countdown) run(ctx context.Context, cancel context.CancelFunc, t Ticker) {
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			c.mu.Lock()
			if ctx.Err() != nil {
				c.mu.Unlock()
				return
			}
			if c.remaining > 0 {
				c.remaining--
			}
			if c.remaining == 0 {
				c.cancel = nil
				cancel()
				c.mu.Unlock()
				return
			}
			c.mu.Unlock()
		}
	}
}

// Stop cancels the running countdown and resets it to zero.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Countdown) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.remaining = 0
}

// Remaining returns the seconds left; zero means not running.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}
