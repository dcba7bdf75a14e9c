// Package mockapi is an in-memory stand-in for the remote EDI API, used to
// run the portal locally.
package mockapi

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/prospira/edi-portal/internal/core/domain"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrInvalidToken    = errors.New("invalid token")
)

const codeTTL = 10 * time.Minute

// Account is a user known to the mock together with its credentials.
type Account struct {
	User            domain.User
	PasswordHash    string
	LoginWithoutOTP bool
}

type pendingCode struct {
	code    string
	expires time.Time
}

// Service implements the login, profile, password and summary calls of the
// EDI API on top of in-memory maps.
type Service struct {
	mu        sync.Mutex
	accounts  map[string]*Account
	pending   map[string]pendingCode
	resets    map[string]string
	summaries map[string][]domain.SummaryItem

	jwtSecret string
	tokenTTL  time.Duration
	otpCode   string
	log       zerolog.Logger
	nowFunc   func() time.Time
}

// NewService creates an empty mock. An empty otpCode issues a random code
// per login.
func NewService(jwtSecret string, tokenTTL time.Duration, otpCode string, log zerolog.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		accounts:  make(map[string]*Account),
		pending:   make(map[string]pendingCode),
		resets:    make(map[string]string),
		summaries: make(map[string][]domain.SummaryItem),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		otpCode:   otpCode,
		log:       log,
		nowFunc:   time.Now,
	}
}

// accountKey indexes vendors by email and employees by username.
func accountKey(u domain.User) string {
	if u.SourceSystem == domain.SourceEmployee {
		return "employee:" + strings.ToLower(u.Username)
	}
	return "vendor:" + strings.ToLower(u.Email)
}

func loginKey(category domain.LoginCategory, identifier string) string {
	return string(category) + ":" + strings.ToLower(strings.TrimSpace(identifier))
}

// AddAccount registers a user with a bcrypt hash of password.
func (s *Service) AddAccount(user domain.User, password string, withoutOTP bool) error {
	if password == "" || (user.Email == "" && user.Username == "") {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if user.PrincipalID == "" {
		user.PrincipalID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := accountKey(user)
	if _, ok := s.accounts[key]; ok {
		return ErrAccountExists
	}
	s.accounts[key] = &Account{User: user, PasswordHash: string(hash), LoginWithoutOTP: withoutOTP}
	return nil
}

// AddSummary appends unread documents for a vendor code.
func (s *Service) AddSummary(vendorCode string, items ...domain.SummaryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[vendorCode] = append(s.summaries[vendorCode], items...)
}

// StartLogin checks credentials. Accounts flagged LoginWithoutOTP get a
// token right away; the rest get a one-time code.
func (s *Service) StartLogin(_ context.Context, category domain.LoginCategory, identifier, password string) (*domain.LoginResult, error) {
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := loginKey(category, identifier)
	acc, ok := s.accounts[key]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if acc.LoginWithoutOTP {
		token, err := s.generateToken(key)
		if err != nil {
			return nil, err
		}
		return &domain.LoginResult{Token: token, Message: "Login successful"}, nil
	}

	code, err := s.newCode()
	if err != nil {
		return nil, err
	}
	s.pending[key] = pendingCode{code: code, expires: s.nowFunc().Add(codeTTL)}
	s.log.Debug().Str("identifier", identifier).Str("code", code).Msg("one-time code issued")
	return &domain.LoginResult{Message: "OTP sent to your email"}, nil
}

// VerifyLogin exchanges a pending one-time code for a token. A code is
// single use.
func (s *Service) VerifyLogin(_ context.Context, category domain.LoginCategory, identifier, code string) (*domain.LoginResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := loginKey(category, identifier)
	p, ok := s.pending[key]
	if !ok || s.nowFunc().After(p.expires) || p.code != code {
		return nil, domain.ErrCodeRejected
	}
	delete(s.pending, key)

	token, err := s.generateToken(key)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResult{Token: token, Message: "Login successful"}, nil
}

// Profile resolves the account behind a token.
func (s *Service) Profile(_ context.Context, token string) (*domain.User, error) {
	key, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[key]
	if !ok {
		return nil, ErrAccountNotFound
	}
	u := acc.User
	return &u, nil
}

// Summary lists the unread documents of vendorCode.
func (s *Service) Summary(_ context.Context, vendorCode string) []domain.SummaryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.SummaryItem, len(s.summaries[vendorCode]))
	copy(items, s.summaries[vendorCode])
	return items
}

// RequestPasswordReset issues a reset token for a vendor email. Unknown
// emails get the same answer.
func (s *Service) RequestPasswordReset(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := loginKey(domain.CategoryVendor, email)
	if _, ok := s.accounts[key]; ok {
		token := uuid.NewString()
		s.resets[token] = key
		s.log.Debug().Str("email", email).Str("reset_token", token).Msg("password reset issued")
	}
	return "If the email exists, a reset link has been sent", nil
}

// ResetPassword replaces the password of the account a reset token was
// issued for.
func (s *Service) ResetPassword(_ context.Context, token, password string) (string, error) {
	if len(password) < 8 {
		return "", domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.resets[token]
	if !ok {
		return "", ErrInvalidToken
	}
	delete(s.resets, token)
	acc, ok := s.accounts[key]
	if !ok {
		return "", ErrAccountNotFound
	}
	acc.PasswordHash = string(hash)
	return "Password has been reset", nil
}

func (s *Service) newCode() (string, error) {
	if s.otpCode != "" {
		return s.otpCode, nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *Service) generateToken(key string) (string, error) {
	now := s.nowFunc()
	claims := jwt.MapClaims{
		"sub": key,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *Service) parseToken(raw string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.nowFunc))
	if err != nil || !tkn.Valid {
		return "", ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
