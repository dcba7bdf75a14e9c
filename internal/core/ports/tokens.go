package ports

// TokenStore is the persisted, browser-scoped home of the session token.
// The token is opaque: presence alone decides whether a profile fetch is
// attempted.
type TokenStore interface {
	Token() (string, bool)
	SetToken(token string)
	DeleteToken()
}
