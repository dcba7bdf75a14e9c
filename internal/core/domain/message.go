package domain

import (
	"errors"
	"strings"
)

// RemoteFault is implemented by errors that carry the error and message
// fields of a remote API error body.
type RemoteFault interface {
	error
	RemoteError() string
	RemoteMessage() string
}

// MessageOf extracts a displayable message from err with a fixed precedence:
// the remote error field, then the remote message field, then fallback.
func MessageOf(err error, fallback string) string {
	var rf RemoteFault
	if errors.As(err, &rf) {
		if m := strings.TrimSpace(rf.RemoteError()); m != "" {
			return m
		}
		if m := strings.TrimSpace(rf.RemoteMessage()); m != "" {
			return m
		}
	}
	return fallback
}
