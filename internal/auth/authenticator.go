package auth

import (
	"errors"
	"strings"
)

var (
	ErrMissingToken  = errors.New("missing bearer token")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrNotConfigured = errors.New("authentication not configured")
)

// Identity is the authenticated caller
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Authenticator verifies bearer tokens against the OIDC issuer first and
// falls back to HMAC tokens when a secret is configured
type Authenticator struct {
	verifier TokenVerifier
	secret   string
}

// NewAuthenticator creates an authenticator. Either argument may be empty.
func NewAuthenticator(verifier TokenVerifier, secret string) *Authenticator {
	return &Authenticator{
		verifier: verifier,
		secret:   secret,
	}
}

// Configured reports whether any verification method is available
func (a *Authenticator) Configured() bool {
	return a.verifier != nil || a.secret != ""
}

// AuthenticateHeader parses an Authorization header and verifies its token
func (a *Authenticator) AuthenticateHeader(header string) (*Identity, error) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, ErrMissingToken
	}
	return a.Authenticate(token)
}

// Authenticate verifies a raw token
func (a *Authenticator) Authenticate(token string) (*Identity, error) {
	if !a.Configured() {
		return nil, ErrNotConfigured
	}

	if a.verifier != nil {
		claims, err := a.verifier.Validate(token)
		if err == nil {
			return &Identity{UserID: claims.UserID, Email: claims.Email, Name: claims.Name}, nil
		}
		if a.secret == "" {
			return nil, ErrInvalidToken
		}
	}

	claims, err := ValidateLegacyToken(token, a.secret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
