package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	v "github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

// Currency implements the currency module rules: unique uppercased 3-letter
// codes and use-count guarded deletion.
type Currency struct {
	repo  dependency.Repository
	cache dependency.Cache
}

func NewCurrency(repo dependency.Repository, c dependency.Cache) *Currency {
	return &Currency{
		repo:  repo,
		cache: c,
	}
}

func validateCurrency(c entity.Currency) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperr.Validation("currency name is required")
	}
	if len(c.Code) != 3 || !v.IsAlpha(c.Code) {
		return apperr.Validation("currency code must be 3 letters, got %q", c.Code)
	}
	return nil
}

func (cs *Currency) Create(ctx context.Context, c entity.Currency) (*entity.Currency, error) {
	if err := validateCurrency(c); err != nil {
		return nil, err
	}
	c.Code = strings.ToUpper(c.Code)
	c.PublicId = uuid.NewString()

	created, err := cs.repo.Currencies().Insert(ctx, &c)
	if err != nil {
		if cs.repo.IsErrUniqueViolation(err) {
			return nil, apperr.AlreadyExists("currency %s already exists", c.Code)
		}
		return nil, apperr.OperationFailed(err, "failed to create currency")
	}

	invalidate(ctx, cs.cache, cacheCurrency)
	return created, nil
}

func (cs *Currency) Get(ctx context.Context, publicId string) (*entity.Currency, error) {
	c, err := cs.repo.Currencies().GetByPublicId(ctx, publicId)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("currency %s not found", publicId)
		}
		return nil, apperr.OperationFailed(err, "failed to get currency")
	}
	return c, nil
}

func (cs *Currency) List(ctx context.Context, filter entity.CurrencyFilter, opts entity.ListOptions) ([]entity.Currency, entity.Pagination, error) {
	currencies, pg, err := cs.repo.Currencies().List(ctx, filter, opts)
	if err != nil {
		return nil, entity.Pagination{}, apperr.OperationFailed(err, "failed to list currencies")
	}
	return currencies, pg, nil
}

func (cs *Currency) Update(ctx context.Context, publicId string, upd entity.CurrencyUpdate) (*entity.Currency, error) {
	if upd.Code != nil {
		if len(*upd.Code) != 3 || !v.IsAlpha(*upd.Code) {
			return nil, apperr.Validation("currency code must be 3 letters, got %q", *upd.Code)
		}
		code := strings.ToUpper(*upd.Code)
		upd.Code = &code
	}

	if err := cs.repo.Currencies().UpdateByPublicId(ctx, publicId, upd); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("currency %s not found", publicId)
		}
		if cs.repo.IsErrUniqueViolation(err) {
			return nil, apperr.AlreadyExists("currency with the same code already exists")
		}
		return nil, apperr.OperationFailed(err, "failed to update currency")
	}

	invalidate(ctx, cs.cache, cacheCurrency)
	return cs.Get(ctx, publicId)
}

func (cs *Currency) Delete(ctx context.Context, publicId string) error {
	c, err := cs.Get(ctx, publicId)
	if err != nil {
		return err
	}
	if c.UseCount > 0 {
		return apperr.InUse("currency %s is referenced by %d records", publicId, c.UseCount)
	}

	if err := cs.repo.Currencies().DeleteByPublicId(ctx, publicId); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("currency %s not found", publicId)
		}
		return apperr.OperationFailed(err, "failed to delete currency")
	}

	invalidate(ctx, cs.cache, cacheCurrency)
	return nil
}

func (cs *Currency) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	res, err := cs.repo.Currencies().BulkUpdateStatus(ctx, publicIds, active)
	if err != nil {
		return entity.BulkResult{}, apperr.OperationFailed(err, "failed to bulk update currencies")
	}
	invalidate(ctx, cs.cache, cacheCurrency)
	return res, nil
}

func (cs *Currency) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	res, err := cs.repo.Currencies().BulkDelete(ctx, publicIds)
	if err != nil {
		return entity.BulkResult{}, apperr.OperationFailed(err, "failed to bulk delete currencies")
	}
	if len(res.SkippedIds) > 0 {
		slog.Default().InfoContext(ctx, "bulk delete skipped currencies",
			slog.Any("skipped", res.SkippedIds),
		)
	}
	invalidate(ctx, cs.cache, cacheCurrency)
	return res, nil
}
