package driven

// TokenVerifier validates bearer tokens presented to protected endpoints.
// Returns domain.ErrTokenInvalid for malformed, mis-signed or expired tokens.
type TokenVerifier interface {
	Verify(token string) error
}
