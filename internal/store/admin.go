package store

import (
	"context"
	"fmt"

	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

type adminStore struct {
	*PGStore
}

// Admin returns an object implementing the Admin interface.
func (ps *PGStore) Admin() dependency.Admin {
	return &adminStore{
		PGStore: ps,
	}
}

func (as *adminStore) AddAdmin(ctx context.Context, un, pwHash string) error {
	err := ExecNamed(ctx, as.db, `INSERT INTO admins (username, password_hash) VALUES (:username, :passwordHash)`, map[string]any{
		"username":     un,
		"passwordHash": pwHash,
	})
	if err != nil {
		return fmt.Errorf("failed to add admin: %w", err)
	}
	return nil
}

func (as *adminStore) DeleteAdmin(ctx context.Context, username string) error {
	n, err := ExecNamedRows(ctx, as.db, `DELETE FROM admins WHERE username = :username`, map[string]any{
		"username": username,
	})
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("admin not found: %s", username)
	}
	return nil
}

func (as *adminStore) ChangePassword(ctx context.Context, un, newHash string) error {
	n, err := ExecNamedRows(ctx, as.db, `UPDATE admins SET password_hash = :passwordHash WHERE username = :username`, map[string]any{
		"username":     un,
		"passwordHash": newHash,
	})
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("admin not found: %s", un)
	}
	return nil
}

func (as *adminStore) PasswordHashByUsername(ctx context.Context, un string) (string, error) {
	admin, err := as.GetAdminByUsername(ctx, un)
	if err != nil {
		return "", err
	}
	return admin.PasswordHash, nil
}

func (as *adminStore) GetAdminByUsername(ctx context.Context, username string) (*entity.Admin, error) {
	admin, err := QueryNamedOne[entity.Admin](ctx, as.db, `SELECT id, username, password_hash, created_at FROM admins WHERE username = :username`, map[string]any{
		"username": username,
	})
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
