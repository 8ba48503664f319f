package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/cache"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

// Dropdown implements the dropdown-option module rules. A concept translated
// into N languages shares its unique code across those N rows, so the
// (uniqueCode, languageId) pair is unique.
type Dropdown struct {
	repo     dependency.Repository
	cache    dependency.Cache
	language *Language
}

func NewDropdown(repo dependency.Repository, c dependency.Cache, language *Language) *Dropdown {
	return &Dropdown{
		repo:     repo,
		cache:    c,
		language: language,
	}
}

// Create stores one translated option. languageToken is resolved per request
// against the active languages.
func (ds *Dropdown) Create(ctx context.Context, opt entity.DropdownOption, languageToken string) (*entity.DropdownOption, error) {
	if strings.TrimSpace(opt.Name) == "" {
		return nil, apperr.Validation("option name is required")
	}
	if strings.TrimSpace(opt.DropdownType) == "" {
		return nil, apperr.Validation("dropdown type is required")
	}
	if opt.UniqueCode <= 0 {
		return nil, apperr.Validation("unique code must be positive")
	}

	lang, err := ds.language.Resolve(ctx, languageToken)
	if err != nil {
		return nil, err
	}
	opt.LanguageId = lang.Id
	opt.PublicId = uuid.NewString()

	created, err := ds.repo.Dropdowns().Insert(ctx, &opt)
	if err != nil {
		if ds.repo.IsErrUniqueViolation(err) {
			return nil, apperr.AlreadyExists("option with code %d already exists for language %s", opt.UniqueCode, lang.FolderCode)
		}
		return nil, apperr.OperationFailed(err, "failed to create dropdown option")
	}

	invalidate(ctx, ds.cache, cacheDropdown)
	return created, nil
}

func (ds *Dropdown) Get(ctx context.Context, publicId string) (*entity.DropdownOption, error) {
	opt, err := ds.repo.Dropdowns().GetByPublicId(ctx, publicId)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("dropdown option %s not found", publicId)
		}
		return nil, apperr.OperationFailed(err, "failed to get dropdown option")
	}
	return opt, nil
}

// ListByType serves one dropdown type resolved for the caller's language,
// with default-language fallback for untranslated concepts. Results are
// cached per (type, language).
func (ds *Dropdown) ListByType(ctx context.Context, dropdownType, languageToken string) ([]entity.DropdownOption, error) {
	if strings.TrimSpace(dropdownType) == "" {
		return nil, apperr.Validation("dropdown type is required")
	}
	lang, err := ds.language.Resolve(ctx, languageToken)
	if err != nil {
		return nil, err
	}

	key := cache.Key(cacheDropdown, dropdownType, lang.Id)
	if ds.cache != nil {
		if cached, ok := ds.cache.Get(key); ok {
			if opts, ok := cached.([]entity.DropdownOption); ok {
				return opts, nil
			}
		}
	}

	opts, err := ds.repo.Dropdowns().ListByTypeForLanguage(ctx, dropdownType, lang.Id)
	if err != nil {
		return nil, apperr.OperationFailed(err, "failed to list dropdown options")
	}
	if ds.cache != nil {
		ds.cache.Set(key, opts)
	}
	return opts, nil
}

func (ds *Dropdown) List(ctx context.Context, filter entity.DropdownFilter, opts entity.ListOptions) ([]entity.DropdownOption, entity.Pagination, error) {
	options, pg, err := ds.repo.Dropdowns().List(ctx, filter, opts)
	if err != nil {
		return nil, entity.Pagination{}, apperr.OperationFailed(err, "failed to list dropdown options")
	}
	return options, pg, nil
}

func (ds *Dropdown) Update(ctx context.Context, publicId string, upd entity.DropdownUpdate) (*entity.DropdownOption, error) {
	if err := ds.repo.Dropdowns().UpdateByPublicId(ctx, publicId, upd); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("dropdown option %s not found", publicId)
		}
		return nil, apperr.OperationFailed(err, "failed to update dropdown option")
	}

	invalidate(ctx, ds.cache, cacheDropdown)
	return ds.Get(ctx, publicId)
}

func (ds *Dropdown) Delete(ctx context.Context, publicId string) error {
	opt, err := ds.Get(ctx, publicId)
	if err != nil {
		return err
	}
	if opt.UseCount > 0 {
		return apperr.InUse("dropdown option %s is referenced by %d records", publicId, opt.UseCount)
	}

	if err := ds.repo.Dropdowns().DeleteByPublicId(ctx, publicId); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("dropdown option %s not found", publicId)
		}
		return apperr.OperationFailed(err, "failed to delete dropdown option")
	}

	invalidate(ctx, ds.cache, cacheDropdown)
	return nil
}

func (ds *Dropdown) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	res, err := ds.repo.Dropdowns().BulkUpdateStatus(ctx, publicIds, active)
	if err != nil {
		return entity.BulkResult{}, apperr.OperationFailed(err, "failed to bulk update dropdown options")
	}
	invalidate(ctx, ds.cache, cacheDropdown)
	return res, nil
}

func (ds *Dropdown) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	res, err := ds.repo.Dropdowns().BulkDelete(ctx, publicIds)
	if err != nil {
		return entity.BulkResult{}, apperr.OperationFailed(err, "failed to bulk delete dropdown options")
	}
	if len(res.SkippedIds) > 0 {
		slog.Default().InfoContext(ctx, "bulk delete skipped dropdown options",
			slog.Any("skipped", res.SkippedIds),
		)
	}
	invalidate(ctx, ds.cache, cacheDropdown)
	return res, nil
}
