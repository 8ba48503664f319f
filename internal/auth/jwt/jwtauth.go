// Package jwt mints and verifies admin session tokens.
package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

const (
	issuer    = "admin-manager"
	roleAdmin = "admin"
)

// NewAdminToken issues a session token for the admin username. The subject
// carries the username for audit logging.
func NewAdminToken(jwtAuth *jwtauth.JWTAuth, ttl time.Duration, username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("token subject is required")
	}
	now := time.Now()
	_, ts, err := jwtAuth.Encode(map[string]interface{}{
		"iss":  issuer,
		"sub":  username,
		"role": roleAdmin,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	return ts, err
}

// VerifyToken checks the signature, expiry and admin role, and returns the
// username the token was issued to.
func VerifyToken(jwtAuth *jwtauth.JWTAuth, token string) (string, error) {
	t, err := jwtauth.VerifyToken(jwtAuth, token)
	if err != nil {
		return "", err
	}
	if role, ok := t.Get("role"); !ok || role != roleAdmin {
		return "", fmt.Errorf("token is not an admin token")
	}
	if t.Subject() == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return t.Subject(), nil
}
