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

// Country implements the country module rules: unique ISO codes, a single
// default country, and use-count guarded deletion.
type Country struct {
	repo   dependency.Repository
	cache  dependency.Cache
	bucket dependency.FileStore
}

func NewCountry(repo dependency.Repository, c dependency.Cache, b dependency.FileStore) *Country {
	return &Country{
		repo:   repo,
		cache:  c,
		bucket: b,
	}
}

func validateCountry(c entity.Country) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperr.Validation("country name is required")
	}
	if !v.IsISO3166Alpha2(strings.ToUpper(c.ISO2)) {
		return apperr.Validation("invalid ISO2 code %q", c.ISO2)
	}
	if len(c.ISO3) != 3 || !v.IsAlpha(c.ISO3) {
		return apperr.Validation("invalid ISO3 code %q", c.ISO3)
	}
	return nil
}

// Create stores a country; a base64-encoded flag image is uploaded to the
// file store first and replaced with its public path.
func (cs *Country) Create(ctx context.Context, c entity.Country, rawB64Flag string) (*entity.Country, error) {
	if err := validateCountry(c); err != nil {
		return nil, err
	}
	c.PublicId = uuid.NewString()

	if rawB64Flag != "" && cs.bucket != nil {
		path, err := cs.bucket.UploadFlagImage(ctx, rawB64Flag, "country", strings.ToLower(c.ISO2))
		if err != nil {
			return nil, apperr.OperationFailed(err, "failed to upload country flag")
		}
		c.FlagImage = path
	}

	var created *entity.Country
	err := cs.repo.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		if c.IsDefault {
			if err := rep.Countries().ClearDefault(ctx); err != nil {
				return err
			}
		}
		var err error
		created, err = rep.Countries().Insert(ctx, &c)
		return err
	})
	if err != nil {
		if cs.repo.IsErrUniqueViolation(err) {
			return nil, apperr.AlreadyExists("country with ISO codes %s/%s already exists", c.ISO2, c.ISO3)
		}
		return nil, apperr.OperationFailed(err, "failed to create country")
	}

	invalidate(ctx, cs.cache, cacheCountry)
	return created, nil
}

func (cs *Country) Get(ctx context.Context, publicId string) (*entity.Country, error) {
	c, err := cs.repo.Countries().GetByPublicId(ctx, publicId)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("country %s not found", publicId)
		}
		return nil, apperr.OperationFailed(err, "failed to get country")
	}
	return c, nil
}

func (cs *Country) List(ctx context.Context, filter entity.CountryFilter, opts entity.ListOptions) ([]entity.Country, entity.Pagination, error) {
	countries, pg, err := cs.repo.Countries().List(ctx, filter, opts)
	if err != nil {
		return nil, entity.Pagination{}, apperr.OperationFailed(err, "failed to list countries")
	}
	return countries, pg, nil
}

func (cs *Country) Update(ctx context.Context, publicId string, upd entity.CountryUpdate) (*entity.Country, error) {
	if upd.ISO2 != nil && !v.IsISO3166Alpha2(strings.ToUpper(*upd.ISO2)) {
		return nil, apperr.Validation("invalid ISO2 code %q", *upd.ISO2)
	}
	if upd.ISO3 != nil && (len(*upd.ISO3) != 3 || !v.IsAlpha(*upd.ISO3)) {
		return nil, apperr.Validation("invalid ISO3 code %q", *upd.ISO3)
	}

	err := cs.repo.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		if upd.IsDefault != nil && *upd.IsDefault {
			if err := rep.Countries().ClearDefault(ctx); err != nil {
				return err
			}
		}
		return rep.Countries().UpdateByPublicId(ctx, publicId, upd)
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("country %s not found", publicId)
		}
		if cs.repo.IsErrUniqueViolation(err) {
			return nil, apperr.AlreadyExists("country with the same ISO codes already exists")
		}
		return nil, apperr.OperationFailed(err, "failed to update country")
	}

	invalidate(ctx, cs.cache, cacheCountry)
	return cs.Get(ctx, publicId)
}

// Delete refuses to remove the default country or one still referenced by
// live records.
func (cs *Country) Delete(ctx context.Context, publicId string) error {
	c, err := cs.Get(ctx, publicId)
	if err != nil {
		return err
	}
	if c.IsDefault {
		return apperr.InUse("the default country cannot be deleted")
	}
	if c.UseCount > 0 {
		return apperr.InUse("country %s is referenced by %d records", publicId, c.UseCount)
	}

	if err := cs.repo.Countries().DeleteByPublicId(ctx, publicId); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("country %s not found", publicId)
		}
		return apperr.OperationFailed(err, "failed to delete country")
	}

	invalidate(ctx, cs.cache, cacheCountry)
	return nil
}

func (cs *Country) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	res, err := cs.repo.Countries().BulkUpdateStatus(ctx, publicIds, active)
	if err != nil {
		return entity.BulkResult{}, apperr.OperationFailed(err, "failed to bulk update countries")
	}
	invalidate(ctx, cs.cache, cacheCountry)
	return res, nil
}

// BulkDelete removes the listed countries, skipping the default and in-use
// ones and reporting them back.
func (cs *Country) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	res, err := cs.repo.Countries().BulkDelete(ctx, publicIds)
	if err != nil {
		return entity.BulkResult{}, apperr.OperationFailed(err, "failed to bulk delete countries")
	}
	if len(res.SkippedIds) > 0 {
		slog.Default().InfoContext(ctx, "bulk delete skipped countries",
			slog.Any("skipped", res.SkippedIds),
		)
	}
	invalidate(ctx, cs.cache, cacheCountry)
	return res, nil
}
