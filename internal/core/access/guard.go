// Package access decides what a navigation target renders for the current
// identity.
package access

import (
	"github.com/prospira/edi-portal/internal/core/session"
)

// Decision is the outcome of the route guard.
type Decision int

const (
	// Wait renders a loading placeholder; the session is still resolving.
	Wait Decision = iota
	// Redirect sends the browser to the login page with an unauthorized notice.
	Redirect
	// Render shows the guarded content.
	Render
)

func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	}
	return "unknown"
}

// Decide is the route guard. An empty allow-list admits nobody.
func Decide(st session.State, allow []string) Decision {
	if st.Loading {
		return Wait
	}
	if st.User == nil || !st.User.HasAnyRole(allow...) {
		return Redirect
	}
	return Render
}
