package domain

import "errors"

var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCodeRejected       = errors.New("code rejected")
	ErrResendThrottled    = errors.New("resend throttled")
	ErrChallengeNotFound  = errors.New("login challenge not found")
	ErrWrongStep          = errors.New("operation not allowed in current login step")
	ErrBusy               = errors.New("request already in progress")
	ErrUpstream           = errors.New("upstream api error")
)
