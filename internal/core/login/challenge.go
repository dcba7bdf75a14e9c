// Package login drives the two-step login: credentials, then a one-time
// code with a resend cooldown.
package login

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/core/domain"
	"github.com/prospira/edi-portal/internal/core/ports"
)

// ResendCooldown is how long a new code cannot be requested, in seconds.
const ResendCooldown = 60

const (
	msgLoginSuccess    = "Login successful"
	msgCodeSent        = "We sent you a 6-digit code."
	msgCodeResent      = "A new code was sent to your email"
	msgBadCredentials  = "Invalid login credentials"
	msgBadCode         = "Invalid or expired code"
	msgResendFailed    = "Failed to resend code"
	msgIncompleteCode  = "Please enter the 6-digit code"
	msgMissingToken    = "Missing token"
	msgMissingIdentity = "Email or username and password are required"
)

var errMissingToken = errors.New("missing token")

// Error is a login failure with the message to show to the user.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage is the text shown to the user.
func (e *Error) UserMessage() string { return e.Message }

func fail(kind error, cause error, message string) *Error {
	if cause != nil {
		kind = fmt.Errorf("%w: %w", kind, cause)
	}
	return &Error{Message: message, Err: kind}
}

// Outcome is what a login operation produced.
type Outcome struct {
	Step    domain.LoginStep
	Message string
	// Token is set once the login succeeded.
	Token string
	// Submitted is true when entering a digit triggered verification.
	Submitted bool
}

// View is a snapshot of a challenge.
type View struct {
	Step       domain.LoginStep     `json:"step"`
	Category   domain.LoginCategory `json:"category"`
	Identifier string               `json:"identifier"`
	Slots      []string             `json:"slots"`
	Focus      int                  `json:"focus"`
	ResendIn   int                  `json:"resend_in"`
	Busy       bool                 `json:"busy"`
}

// Option configures a Challenge.
type Option func(*Challenge)

// WithTicker replaces the one-second tick source of the resend cooldown.
func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(c *Challenge) { c.cooldown = NewCountdown(newTicker) }
}

// WithAuditor sends every login outcome to a. It may be given more than once.
func WithAuditor(a ports.LoginAuditor) Option {
	return func(c *Challenge) { c.auditors = append(c.auditors, a) }
}

// Challenge is one in-progress login of one browser.
type Challenge struct {
	gateway  ports.LoginGateway
	auditors []ports.LoginAuditor
	log      zerolog.Logger

	mu         sync.Mutex
	step       domain.LoginStep
	category   domain.LoginCategory
	identifier string
	secret     string
	code       Code
	cooldown   *Countdown
	// busy is the request-in-progress guard shared by start, verify and resend.
	busy bool
}

// NewChallenge returns a challenge at the credentials step.
func NewChallenge(gateway ports.LoginGateway, log zerolog.Logger, opts ...Option) *Challenge {
	c := &Challenge{
		gateway:  gateway,
		log:      log,
		step:     domain.StepCredentials,
		category: domain.CategoryVendor,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cooldown == nil {
		c.cooldown = NewCountdown(nil)
	}
	return c
}

// View returns a snapshot of the challenge.
func (c *Challenge) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Challenge) viewLocked() View {
	return View{
		Step:       c.step,
		Category:   c.category,
		Identifier: c.identifier,
		Slots:      c.code.Slots(),
		Focus:      c.code.Focus(),
		ResendIn:   c.cooldown.Remaining(),
		Busy:       c.busy,
	}
}

// acquire takes the in-progress guard when the challenge is at step.
func (c *Challenge) acquire(step domain.LoginStep) error {
	if c.step != step {
		return fail(domain.ErrWrongStep, nil, "This action is not available right now")
	}
	if c.busy {
		return fail(domain.ErrBusy, nil, "Please wait for the current request")
	}
	c.busy = true
	return nil
}

func (c *Challenge) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// Start submits the credentials. The EDI API either logs the user in right
// away or acknowledges that a one-time code was sent, which moves the
// challenge to the otp step and starts the resend cooldown.
func (c *Challenge) Start(ctx context.Context, category domain.LoginCategory, identifier, secret string) (Outcome, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return Outcome{}, fail(domain.ErrInvalidInput, nil, msgMissingIdentity)
	}

	c.mu.Lock()
	if err := c.acquire(domain.StepCredentials); err != nil {
		c.mu.Unlock()
		return Outcome{}, err
	}
	c.category = category
	c.identifier = identifier
	c.mu.Unlock()
	defer c.release()

	res, err := c.gateway.StartLogin(ctx, category, identifier, secret)
	if err != nil {
		c.record("start", category, identifier, "rejected")
		c.log.Info().Err(err).Str("category", string(category)).Msg("login start rejected")
		return Outcome{}, fail(domain.ErrInvalidCredentials, err, domain.MessageOf(err, msgBadCredentials))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if res.Token != "" {
		c.record("start", category, identifier, "token")
		c.finishLocked()
		return Outcome{Step: domain.StepDone, Token: res.Token, Message: msgLoginSuccess}, nil
	}

	c.record("start", category, identifier, "code_sent")
	c.step = domain.StepOTP
	c.secret = secret
	c.code.Clear()
	c.cooldown.Start(ResendCooldown)
	return Outcome{Step: domain.StepOTP, Message: orDefault(res.Message, msgCodeSent)}, nil
}

// EnterCode applies typed or pasted input to slot idx. The moment the code
// becomes complete it is verified, once; input arriving while a verification
// is running only edits the slots.
func (c *Challenge) EnterCode(ctx context.Context, idx int, val string) (Outcome, error) {
	c.mu.Lock()
	if c.step != domain.StepOTP {
		c.mu.Unlock()
		return Outcome{}, fail(domain.ErrWrongStep, nil, "No code was requested")
	}
	wasComplete := c.code.Complete()
	if err := c.code.Input(idx, val); err != nil {
		c.mu.Unlock()
		return Outcome{}, fail(domain.ErrInvalidInput, err, "Invalid code slot")
	}
	if wasComplete || !c.code.Complete() || c.busy {
		c.mu.Unlock()
		return Outcome{Step: domain.StepOTP}, nil
	}
	c.busy = true
	code := c.code.String()
	c.mu.Unlock()

	out, err := c.verify(ctx, code)
	out.Submitted = true
	return out, err
}

// Key applies a navigation key pressed in slot idx.
func (c *Challenge) Key(idx int, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != domain.StepOTP {
		return fail(domain.ErrWrongStep, nil, "No code was requested")
	}
	if err := c.code.Key(idx, key); err != nil {
		return fail(domain.ErrInvalidInput, err, "Invalid code slot")
	}
	return nil
}

// Verify submits the entered code explicitly.
func (c *Challenge) Verify(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if err := c.acquire(domain.StepOTP); err != nil {
		c.mu.Unlock()
		return Outcome{}, err
	}
	if !c.code.Complete() {
		c.busy = false
		c.mu.Unlock()
		return Outcome{}, fail(domain.ErrInvalidInput, nil, msgIncompleteCode)
	}
	code := c.code.String()
	c.mu.Unlock()

	return c.verify(ctx, code)
}

// verify runs with the in-progress guard held and releases it.
func (c *Challenge) verify(ctx context.Context, code string) (Outcome, error) {
	defer c.release()

	c.mu.Lock()
	category, identifier := c.category, c.identifier
	c.mu.Unlock()

	res, err := c.gateway.VerifyLogin(ctx, category, identifier, code)
	if err != nil {
		c.record("verify", category, identifier, "rejected")
		c.log.Info().Err(err).Str("category", string(category)).Msg("login code rejected")
		return Outcome{Step: domain.StepOTP}, fail(domain.ErrCodeRejected, err, domain.MessageOf(err, msgBadCode))
	}
	if res.Token == "" {
		c.record("verify", category, identifier, "no_token")
		return Outcome{Step: domain.StepOTP}, fail(domain.ErrCodeRejected, errMissingToken, msgMissingToken)
	}

	c.record("verify", category, identifier, "token")
	c.mu.Lock()
	c.finishLocked()
	c.mu.Unlock()
	return Outcome{Step: domain.StepDone, Token: res.Token, Message: msgLoginSuccess}, nil
}

// Resend asks for a new code. It is refused without a network call while
// the cooldown is running.
func (c *Challenge) Resend(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.step != domain.StepOTP {
		c.mu.Unlock()
		return Outcome{}, fail(domain.ErrWrongStep, nil, "No code was requested")
	}
	if left := c.cooldown.Remaining(); left > 0 {
		category, identifier := c.category, c.identifier
		c.mu.Unlock()
		c.record("resend", category, identifier, "throttled")
		return Outcome{Step: domain.StepOTP}, fail(domain.ErrResendThrottled, nil, fmt.Sprintf("Please wait %ds", left))
	}
	if err := c.acquire(domain.StepOTP); err != nil {
		c.mu.Unlock()
		return Outcome{}, err
	}
	category, identifier, secret := c.category, c.identifier, c.secret
	c.mu.Unlock()
	defer c.release()

	res, err := c.gateway.StartLogin(ctx, category, identifier, secret)
	if err != nil {
		c.record("resend", category, identifier, "rejected")
		return Outcome{Step: domain.StepOTP}, fail(domain.ErrUpstream, err, domain.MessageOf(err, msgResendFailed))
	}

	c.record("resend", category, identifier, "code_sent")
	c.mu.Lock()
	defer c.mu.Unlock()
	c.code.Clear()
	c.cooldown.Start(ResendCooldown)
	return Outcome{Step: domain.StepOTP, Message: orDefault(res.Message, msgCodeResent)}, nil
}

// Back returns to the credentials step, dropping the entered digits and the
// cooldown. Identifier and category stay so the form can be prefilled.
func (c *Challenge) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = domain.StepCredentials
	c.secret = ""
	c.code.Clear()
	c.cooldown.Stop()
}

// Close releases the cooldown ticker.
func (c *Challenge) Close() {
	c.cooldown.Stop()
}

func (c *Challenge) finishLocked() {
	c.step = domain.StepDone
	c.secret = ""
	c.code.Clear()
	c.cooldown.Stop()
}

// record hands a login outcome to every auditor.
func (c *Challenge) record(op string, category domain.LoginCategory, identifier, result string) {
	if len(c.auditors) == 0 {
		return
	}
	e := domain.LoginEvent{
		Op:         op,
		Category:   category,
		Identifier: identifier,
		Result:     result,
		At:         time.Now().UTC(),
	}
	for _, a := range c.auditors {
		a.Record(e)
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
