package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/auth/jwt"
	"github.com/raisehub/admin-manager/internal/auth/pwhash"
	"github.com/raisehub/admin-manager/internal/dependency"
)

// Auth implements admin authentication: login issues a JWT, account
// management is guarded by the master password.
type Auth struct {
	adminRepository dependency.Admin
	pwhash          *pwhash.PasswordHasher
	JwtAuth         *jwtauth.JWTAuth
	jwtTTL          time.Duration
	masterHash      string
}

// AuthConfig contains the configuration for the auth service.
type AuthConfig struct {
	JWTSecret                string `mapstructure:"jwt_secret"`
	MasterPassword           string `mapstructure:"master_password"`
	PasswordHasherSaltSize   int    `mapstructure:"password_hasher_salt_size"`
	PasswordHasherIterations int    `mapstructure:"password_hasher_iterations"`
	JWTTTL                   string `mapstructure:"jwt_ttl"`
}

func NewAuth(c *AuthConfig, ar dependency.Admin) (*Auth, error) {
	ph, err := pwhash.New(c.PasswordHasherSaltSize, c.PasswordHasherIterations)
	if err != nil {
		return nil, err
	}
	hash, err := ph.HashPassword(c.MasterPassword)
	if err != nil {
		return nil, err
	}
	if err := ph.Validate(c.MasterPassword, hash); err != nil {
		return nil, err
	}

	ttl, err := time.ParseDuration(c.JWTTTL)
	if err != nil {
		return nil, err
	}

	return &Auth{
		adminRepository: ar,
		pwhash:          ph,
		JwtAuth:         jwtauth.New("HS256", []byte(c.JWTSecret), nil),
		jwtTTL:          ttl,
		masterHash:      hash,
	}, nil
}

// Login returns an auth token for the provided username and password.
func (s *Auth) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.ToLower(username)

	pwHash, err := s.adminRepository.PasswordHashByUsername(ctx, username)
	if err != nil {
		return "", apperr.Unauthenticated("invalid credentials")
	}
	if err := s.pwhash.Validate(password, pwHash); err != nil {
		return "", apperr.Unauthenticated("invalid credentials")
	}

	token, err := jwt.NewAdminToken(s.JwtAuth, s.jwtTTL, username)
	if err != nil {
		return "", apperr.OperationFailed(err, "failed to issue token")
	}
	return token, nil
}

// CreateAdmin registers an admin account; the master password authorizes the
// operation.
func (s *Auth) CreateAdmin(ctx context.Context, masterPassword, username, password string) error {
	if err := s.pwhash.Validate(masterPassword, s.masterHash); err != nil {
		return apperr.Unauthenticated("wrong master password")
	}
	username = strings.ToLower(username)
	if strings.TrimSpace(username) == "" {
		return apperr.Validation("username is required")
	}
	if len(password) < 8 {
		return apperr.Validation("password must be at least 8 characters")
	}
	if _, err := s.adminRepository.PasswordHashByUsername(ctx, username); err == nil {
		return apperr.AlreadyExists("admin %q already exists", username)
	}

	hash, err := s.pwhash.HashPassword(password)
	if err != nil {
		return apperr.OperationFailed(err, "failed to hash password")
	}
	if err := s.adminRepository.AddAdmin(ctx, username, hash); err != nil {
		return apperr.OperationFailed(err, "failed to create admin")
	}
	return nil
}

// DeleteAdmin removes an admin account; the master password authorizes the
// operation.
func (s *Auth) DeleteAdmin(ctx context.Context, masterPassword, username string) error {
	if err := s.pwhash.Validate(masterPassword, s.masterHash); err != nil {
		return apperr.Unauthenticated("wrong master password")
	}
	if err := s.adminRepository.DeleteAdmin(ctx, strings.ToLower(username)); err != nil {
		return apperr.OperationFailed(err, "failed to delete admin")
	}
	return nil
}

// ChangePassword replaces an admin's password after validating the current
// one.
func (s *Auth) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	username = strings.ToLower(username)

	pwHash, err := s.adminRepository.PasswordHashByUsername(ctx, username)
	if err != nil {
		return apperr.Unauthenticated("invalid credentials")
	}
	if err := s.pwhash.Validate(currentPassword, pwHash); err != nil {
		return apperr.Unauthenticated("invalid credentials")
	}
	if len(newPassword) < 8 {
		return apperr.Validation("password must be at least 8 characters")
	}

	newHash, err := s.pwhash.HashPassword(newPassword)
	if err != nil {
		return apperr.OperationFailed(err, "failed to hash password")
	}
	if err := s.adminRepository.ChangePassword(ctx, username, newHash); err != nil {
		return apperr.OperationFailed(err, "failed to change password")
	}
	return nil
}
