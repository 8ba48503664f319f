// Package service holds the per-feature business rules. Services are written
// against the repository interfaces only and are backend-agnostic.
package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/raisehub/admin-manager/internal/dependency"
)

// Cache entity prefixes; invalidation clears every cached listing of the
// entity.
const (
	cacheLanguage     = "language"
	cacheCountry      = "country"
	cacheCurrency     = "currency"
	cacheDropdown     = "dropdown"
	cacheTemplate     = "email_template"
	cacheSubscription = "revenue_subscription"
)

// invalidate clears the given entity prefixes in parallel. Invalidation is
// best-effort; a writer racing a reader can leave a stale entry for one TTL
// window.
func invalidate(ctx context.Context, c dependency.Cache, entities ...string) {
	if c == nil {
		return
	}
	g, _ := errgroup.WithContext(ctx)
	for _, e := range entities {
		e := e
		g.Go(func() error {
			c.Invalidate(e)
			return nil
		})
	}
	_ = g.Wait()
}
