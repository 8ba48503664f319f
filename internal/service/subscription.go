package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

// Subscription implements the revenue-subscription module. Plans come in two
// kinds with mutually exclusive field sets: investor plans carry investment
// limits, sponsor plans carry project limits.
type Subscription struct {
	repo     dependency.Repository
	cache    dependency.Cache
	language *Language
}

func NewSubscription(repo dependency.Repository, c dependency.Cache, language *Language) *Subscription {
	return &Subscription{
		repo:     repo,
		cache:    c,
		language: language,
	}
}

func validateSubscription(sub entity.RevenueSubscription) error {
	switch sub.Kind {
	case entity.KindInvestor:
		if sub.MaxProjectCount != nil || sub.MaxProjectGoal != nil {
			return apperr.Validation("sponsor fields are not allowed on an investor subscription")
		}
	case entity.KindSponsor:
		if sub.MaxInvestmentAllowed != nil || sub.SecondaryMarketAccess != nil {
			return apperr.Validation("investor fields are not allowed on a sponsor subscription")
		}
	default:
		return apperr.Validation("kind must be %q or %q", entity.KindInvestor, entity.KindSponsor)
	}
	if sub.Amount.IsNegative() {
		return apperr.Validation("amount cannot be negative")
	}
	if sub.RefundDays < 0 || sub.CancelDays < 0 {
		return apperr.Validation("refund and cancel day counts cannot be negative")
	}
	if sub.RefundAllowed && sub.RefundDays == 0 {
		return apperr.Validation("refund day count is required when refunds are allowed")
	}
	if sub.CancelAllowed && sub.CancelDays == 0 {
		return apperr.Validation("cancel day count is required when cancellation is allowed")
	}
	return nil
}

// Create stores a subscription with its per-language content. Content
// language tokens are resolved per request; at least one content row is
// required.
func (ss *Subscription) Create(ctx context.Context, sub entity.RevenueSubscription, content []entity.SubscriptionContent) (*entity.RevenueSubscription, error) {
	if err := validateSubscription(sub); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, apperr.Validation("at least one content entry is required")
	}

	seen := make(map[string]bool, len(content))
	for i := range content {
		if strings.TrimSpace(content[i].Title) == "" {
			return nil, apperr.Validation("content title is required")
		}
		lang, err := ss.language.Resolve(ctx, content[i].LanguageId)
		if err != nil {
			return nil, err
		}
		if seen[lang.Id] {
			return nil, apperr.Validation("duplicate content for language %s", lang.FolderCode)
		}
		seen[lang.Id] = true
		content[i].LanguageId = lang.Id
	}

	sub.PublicId = uuid.NewString()
	created, err := ss.repo.Subscriptions().Insert(ctx, &sub, content)
	if err != nil {
		if ss.repo.IsErrUniqueViolation(err) {
			return nil, apperr.AlreadyExists("subscription content already exists for one of the languages")
		}
		return nil, apperr.OperationFailed(err, "failed to create subscription")
	}

	invalidate(ctx, ss.cache, cacheSubscription)
	return created, nil
}

// Get returns the subscription with content resolved for the caller's
// language; an empty token resolves to the default language.
func (ss *Subscription) Get(ctx context.Context, publicId, languageToken string) (*entity.RevenueSubscription, error) {
	lang, err := ss.language.Resolve(ctx, languageToken)
	if err != nil {
		return nil, err
	}

	sub, err := ss.repo.Subscriptions().GetByPublicId(ctx, publicId, lang.Id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("subscription %s not found", publicId)
		}
		return nil, apperr.OperationFailed(err, "failed to get subscription")
	}
	return sub, nil
}

// GetFull returns the subscription with every content row; used by admin
// editing.
func (ss *Subscription) GetFull(ctx context.Context, publicId string) (*entity.RevenueSubscription, error) {
	sub, err := ss.repo.Subscriptions().GetByPublicId(ctx, publicId, "")
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("subscription %s not found", publicId)
		}
		return nil, apperr.OperationFailed(err, "failed to get subscription")
	}
	return sub, nil
}

func (ss *Subscription) List(ctx context.Context, filter entity.SubscriptionFilter, opts entity.ListOptions, languageToken string) ([]entity.RevenueSubscription, entity.Pagination, error) {
	lang, err := ss.language.Resolve(ctx, languageToken)
	if err != nil {
		return nil, entity.Pagination{}, err
	}

	subs, pg, err := ss.repo.Subscriptions().List(ctx, filter, opts, lang.Id)
	if err != nil {
		return nil, entity.Pagination{}, apperr.OperationFailed(err, "failed to list subscriptions")
	}
	return subs, pg, nil
}

// Update mutates plan fields; the kind is immutable, and the update may only
// carry fields belonging to the subscription's kind.
func (ss *Subscription) Update(ctx context.Context, publicId string, upd entity.SubscriptionUpdate) (*entity.RevenueSubscription, error) {
	sub, err := ss.GetFull(ctx, publicId)
	if err != nil {
		return nil, err
	}
	switch sub.Kind {
	case entity.KindInvestor:
		if upd.MaxProjectCount != nil || upd.MaxProjectGoal != nil {
			return nil, apperr.Validation("sponsor fields are not allowed on an investor subscription")
		}
	case entity.KindSponsor:
		if upd.MaxInvestmentAllowed != nil || upd.SecondaryMarketAccess != nil {
			return nil, apperr.Validation("investor fields are not allowed on a sponsor subscription")
		}
	}
	if upd.Amount != nil && upd.Amount.IsNegative() {
		return nil, apperr.Validation("amount cannot be negative")
	}

	if err := ss.repo.Subscriptions().UpdateByPublicId(ctx, publicId, upd); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("subscription %s not found", publicId)
		}
		return nil, apperr.OperationFailed(err, "failed to update subscription")
	}

	invalidate(ctx, ss.cache, cacheSubscription)
	return ss.GetFull(ctx, publicId)
}

// UpsertContent adds or replaces one language's title/description of a
// subscription.
func (ss *Subscription) UpsertContent(ctx context.Context, publicId string, content entity.SubscriptionContent) (*entity.RevenueSubscription, error) {
	if strings.TrimSpace(content.Title) == "" {
		return nil, apperr.Validation("content title is required")
	}
	lang, err := ss.language.Resolve(ctx, content.LanguageId)
	if err != nil {
		return nil, err
	}
	content.LanguageId = lang.Id

	sub, err := ss.GetFull(ctx, publicId)
	if err != nil {
		return nil, err
	}
	if err := ss.repo.Subscriptions().UpsertContent(ctx, sub.Id, content); err != nil {
		return nil, apperr.OperationFailed(err, "failed to upsert subscription content")
	}

	invalidate(ctx, ss.cache, cacheSubscription)
	return ss.GetFull(ctx, publicId)
}

func (ss *Subscription) Delete(ctx context.Context, publicId string) error {
	sub, err := ss.GetFull(ctx, publicId)
	if err != nil {
		return err
	}
	if sub.UseCount > 0 {
		return apperr.InUse("subscription %s has %d active subscribers", publicId, sub.UseCount)
	}

	if err := ss.repo.Subscriptions().DeleteByPublicId(ctx, publicId); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("subscription %s not found", publicId)
		}
		return apperr.OperationFailed(err, "failed to delete subscription")
	}

	invalidate(ctx, ss.cache, cacheSubscription)
	return nil
}

func (ss *Subscription) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	res, err := ss.repo.Subscriptions().BulkUpdateStatus(ctx, publicIds, active)
	if err != nil {
		return entity.BulkResult{}, apperr.OperationFailed(err, "failed to bulk update subscriptions")
	}
	invalidate(ctx, ss.cache, cacheSubscription)
	return res, nil
}

func (ss *Subscription) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	res, err := ss.repo.Subscriptions().BulkDelete(ctx, publicIds)
	if err != nil {
		return entity.BulkResult{}, apperr.OperationFailed(err, "failed to bulk delete subscriptions")
	}
	if len(res.SkippedIds) > 0 {
		slog.Default().InfoContext(ctx, "bulk delete skipped subscriptions",
			slog.Any("skipped", res.SkippedIds),
		)
	}
	invalidate(ctx, ss.cache, cacheSubscription)
	return res, nil
}
