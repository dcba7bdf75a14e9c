package ports

import (
	"context"

	"github.com/prospira/edi-portal/internal/core/domain"
)

// ProfileFetcher resolves the identity behind a bearer token.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, token string) (*domain.User, error)
}

// LoginGateway carries the credential and one-time code steps of a login.
type LoginGateway interface {
	StartLogin(ctx context.Context, category domain.LoginCategory, identifier, secret string) (*domain.LoginResult, error)
	VerifyLogin(ctx context.Context, category domain.LoginCategory, identifier, code string) (*domain.LoginResult, error)
}

// PasswordGateway covers the forgot/reset password pages.
type PasswordGateway interface {
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password string) (string, error)
}

// SummaryFetcher loads the unread documents of a vendor for the notification badge.
type SummaryFetcher interface {
	FlatSummary(ctx context.Context, token, vendorCode string) ([]domain.SummaryItem, error)
}
