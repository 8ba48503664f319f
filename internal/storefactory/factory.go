// Package storefactory selects the repository backend at startup from the
// configured database type.
package storefactory

import (
	"context"
	"fmt"
	"strings"

	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/docstore"
	"github.com/raisehub/admin-manager/internal/store"
)

const (
	TypePostgres = "postgres"
	TypeMongoDB  = "mongodb"
)

type Config struct {
	// DatabaseType is either "postgres" or "mongodb"; anything else is a
	// startup error.
	DatabaseType string          `mapstructure:"database_type"`
	Postgres     store.Config    `mapstructure:"postgres"`
	Mongo        docstore.Config `mapstructure:"mongo"`
}

// New builds the repository for the configured backend.
func New(ctx context.Context, cfg Config) (dependency.Repository, error) {
	switch strings.ToLower(cfg.DatabaseType) {
	case TypePostgres:
		rep, err := store.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to init postgres store: %w", err)
		}
		return rep, nil
	case TypeMongoDB:
		rep, err := docstore.New(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("failed to init mongo store: %w", err)
		}
		return rep, nil
	default:
		return nil, fmt.Errorf("unknown database type %q, want %q or %q", cfg.DatabaseType, TypePostgres, TypeMongoDB)
	}
}
