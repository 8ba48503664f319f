package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	v "github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/cache"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

// Language implements the language module rules: exactly one active default
// language, default languages refuse deletion, and the resolution of
// caller-supplied language tokens used by the other modules.
type Language struct {
	repo  dependency.Repository
	cache dependency.Cache
}

func NewLanguage(repo dependency.Repository, c dependency.Cache) *Language {
	return &Language{
		repo:  repo,
		cache: c,
	}
}

func validateLanguage(lang entity.Language) error {
	if strings.TrimSpace(lang.Name) == "" {
		return apperr.Validation("language name is required")
	}
	if strings.TrimSpace(lang.FolderCode) == "" {
		return apperr.Validation("folder code is required")
	}
	if !v.IsISO3166Alpha2(strings.ToUpper(lang.ISO2)) {
		return apperr.Validation("invalid ISO2 code %q", lang.ISO2)
	}
	if len(lang.ISO3) != 3 || !v.IsAlpha(lang.ISO3) {
		return apperr.Validation("invalid ISO3 code %q", lang.ISO3)
	}
	switch lang.Direction {
	case entity.DirectionLTR, entity.DirectionRTL:
	default:
		return apperr.Validation("direction must be %q or %q", entity.DirectionLTR, entity.DirectionRTL)
	}
	return nil
}

// Create stores a new language. Flagging it default clears the previous
// default first; a default language must be active.
func (ls *Language) Create(ctx context.Context, lang entity.Language) (*entity.Language, error) {
	if lang.Direction == "" {
		lang.Direction = entity.DirectionLTR
	}
	if err := validateLanguage(lang); err != nil {
		return nil, err
	}
	if lang.IsDefault && !lang.IsActive {
		return nil, apperr.Validation("the default language must be active")
	}
	lang.PublicId = uuid.NewString()

	var created *entity.Language
	err := ls.repo.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		if lang.IsDefault {
			if err := rep.Languages().ClearDefault(ctx); err != nil {
				return err
			}
		}
		var err error
		created, err = rep.Languages().Insert(ctx, &lang)
		return err
	})
	if err != nil {
		if ls.repo.IsErrUniqueViolation(err) {
			return nil, apperr.AlreadyExists("language with the same folder code or ISO codes already exists")
		}
		return nil, apperr.OperationFailed(err, "failed to create language")
	}

	invalidate(ctx, ls.cache, cacheLanguage)
	return created, nil
}

func (ls *Language) Get(ctx context.Context, publicId string) (*entity.Language, error) {
	lang, err := ls.repo.Languages().GetByPublicId(ctx, publicId)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("language %s not found", publicId)
		}
		return nil, apperr.OperationFailed(err, "failed to get language")
	}
	return lang, nil
}

func (ls *Language) List(ctx context.Context, filter entity.LanguageFilter, opts entity.ListOptions) ([]entity.Language, entity.Pagination, error) {
	langs, pg, err := ls.repo.Languages().List(ctx, filter, opts)
	if err != nil {
		return nil, entity.Pagination{}, apperr.OperationFailed(err, "failed to list languages")
	}
	return langs, pg, nil
}

// ListActive serves the public language listing through the cache.
func (ls *Language) ListActive(ctx context.Context) ([]entity.Language, error) {
	key := cache.Key(cacheLanguage, "active")
	if ls.cache != nil {
		if cached, ok := ls.cache.Get(key); ok {
			if langs, ok := cached.([]entity.Language); ok {
				return langs, nil
			}
		}
	}

	langs, err := ls.repo.Languages().ListActive(ctx)
	if err != nil {
		return nil, apperr.OperationFailed(err, "failed to list active languages")
	}
	if ls.cache != nil {
		ls.cache.Set(key, langs)
	}
	return langs, nil
}

// Update mutates a language. Setting the default flag clears the previous
// default inside the same transaction.
func (ls *Language) Update(ctx context.Context, publicId string, upd entity.LanguageUpdate) (*entity.Language, error) {
	if upd.ISO2 != nil && !v.IsISO3166Alpha2(strings.ToUpper(*upd.ISO2)) {
		return nil, apperr.Validation("invalid ISO2 code %q", *upd.ISO2)
	}
	if upd.ISO3 != nil && (len(*upd.ISO3) != 3 || !v.IsAlpha(*upd.ISO3)) {
		return nil, apperr.Validation("invalid ISO3 code %q", *upd.ISO3)
	}
	if upd.Direction != nil {
		switch *upd.Direction {
		case entity.DirectionLTR, entity.DirectionRTL:
		default:
			return nil, apperr.Validation("direction must be %q or %q", entity.DirectionLTR, entity.DirectionRTL)
		}
	}
	if upd.IsDefault != nil && *upd.IsDefault && upd.IsActive != nil && !*upd.IsActive {
		return nil, apperr.Validation("the default language must be active")
	}

	err := ls.repo.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		if upd.IsDefault != nil && *upd.IsDefault {
			if err := rep.Languages().ClearDefault(ctx); err != nil {
				return err
			}
		}
		return rep.Languages().UpdateByPublicId(ctx, publicId, upd)
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("language %s not found", publicId)
		}
		if ls.repo.IsErrUniqueViolation(err) {
			return nil, apperr.AlreadyExists("language with the same folder code or ISO codes already exists")
		}
		return nil, apperr.OperationFailed(err, "failed to update language")
	}

	invalidate(ctx, ls.cache, cacheLanguage, cacheDropdown, cacheSubscription)
	return ls.Get(ctx, publicId)
}

// Delete removes a language. The default language refuses deletion outright.
func (ls *Language) Delete(ctx context.Context, publicId string) error {
	lang, err := ls.Get(ctx, publicId)
	if err != nil {
		return err
	}
	if lang.IsDefault {
		return apperr.InUse("the default language cannot be deleted")
	}

	if err := ls.repo.Languages().DeleteByPublicId(ctx, publicId); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("language %s not found", publicId)
		}
		return apperr.OperationFailed(err, "failed to delete language")
	}

	invalidate(ctx, ls.cache, cacheLanguage, cacheDropdown, cacheSubscription)
	return nil
}

func (ls *Language) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	res, err := ls.repo.Languages().BulkUpdateStatus(ctx, publicIds, active)
	if err != nil {
		return entity.BulkResult{}, apperr.OperationFailed(err, "failed to bulk update languages")
	}
	invalidate(ctx, ls.cache, cacheLanguage, cacheDropdown, cacheSubscription)
	return res, nil
}

// BulkDelete removes the listed languages; the default language is skipped
// and reported.
func (ls *Language) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	res, err := ls.repo.Languages().BulkDelete(ctx, publicIds)
	if err != nil {
		return entity.BulkResult{}, apperr.OperationFailed(err, "failed to bulk delete languages")
	}
	if len(res.SkippedIds) > 0 {
		slog.Default().InfoContext(ctx, "bulk delete skipped languages",
			slog.Any("skipped", res.SkippedIds),
		)
	}
	invalidate(ctx, ls.cache, cacheLanguage, cacheDropdown, cacheSubscription)
	return res, nil
}

// Resolve maps an optional caller-supplied language token to a language
// using a fixed priority: no token resolves to the active default, then the
// token is tried as a public identifier and as a primary identifier, each
// requiring the language to be active. The result is never cached across
// requests because activation can change.
func (ls *Language) Resolve(ctx context.Context, token string) (*entity.Language, error) {
	if token == "" {
		lang, err := ls.repo.Languages().GetDefault(ctx)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, apperr.LanguageResolution("no default language configured")
			}
			return nil, apperr.OperationFailed(err, "failed to resolve default language")
		}
		if !lang.IsActive {
			return nil, apperr.LanguageResolution("the default language is not active")
		}
		return lang, nil
	}

	if lang, err := ls.repo.Languages().GetByPublicId(ctx, token); err == nil {
		if !lang.IsActive {
			return nil, apperr.LanguageResolution("language %s is not active", token)
		}
		return lang, nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.OperationFailed(err, "failed to resolve language")
	}

	if lang, err := ls.repo.Languages().GetById(ctx, token); err == nil {
		if !lang.IsActive {
			return nil, apperr.LanguageResolution("language %s is not active", token)
		}
		return lang, nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.OperationFailed(err, "failed to resolve language")
	}

	return nil, apperr.LanguageResolution("unknown language %q", token)
}
