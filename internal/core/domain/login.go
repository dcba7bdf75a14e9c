package domain

import "fmt"

// LoginCategory selects which pair of EDI endpoints a login goes through.
type LoginCategory string

const (
	CategoryVendor   LoginCategory = "vendor"
	CategoryEmployee LoginCategory = "employee"
)

// ParseLoginCategory validates a category coming from a request.
func ParseLoginCategory(s string) (LoginCategory, error) {
	switch LoginCategory(s) {
	case CategoryVendor, CategoryEmployee:
		return LoginCategory(s), nil
	}
	return "", fmt.Errorf("%w: unknown login category %q", ErrInvalidInput, s)
}

// LoginStep is the position of a challenge in the two-step login.
type LoginStep string

const (
	StepCredentials LoginStep = "credentials"
	StepOTP         LoginStep = "otp"
	StepDone        LoginStep = "done"
)

// LoginResult is what the EDI API answers to a start or verify call.
// A non-empty Token means the user is logged in; otherwise Message
// acknowledges that a one-time code was sent.
type LoginResult struct {
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}
