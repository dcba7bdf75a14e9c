package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/prospira/edi-portal/internal/core/domain"
)

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name string
		req  any
		want string
	}{
		{"required", &startRequest{Category: "vendor", Password: "x"}, "identifier is required"},
		{"oneof", &startRequest{Category: "admin", Identifier: "a", Password: "x"}, "category must be one of: vendor employee"},
		{"email", &forgotRequest{Email: "nope"}, "email must be a valid email"},
		{"min", &resetRequest{Token: "t", Password: "short", Confirm: "short"}, "password must be at least 8 characters"},
		{"eqfield", &resetRequest{Token: "t", Password: "longenough", Confirm: "other"}, "confirm must match password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.req)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var um interface{ UserMessage() string }
			if !errors.As(err, &um) || !strings.Contains(um.UserMessage(), tc.want) {
				t.Fatalf("expected message %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidator_Valid(t *testing.T) {
	v := NewValidator()
	if err := v.Validate(&startRequest{Category: "employee", Identifier: "jdoe", Password: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
