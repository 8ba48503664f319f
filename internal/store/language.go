package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

type languageStore struct {
	*PGStore
}

// Languages returns an object implementing the Languages interface.
func (ps *PGStore) Languages() dependency.Languages {
	return &languageStore{
		PGStore: ps,
	}
}

const languageColumns = `id, public_id, name, folder_code, iso2, iso3, flag_image, direction, is_default, is_active, created_at, updated_at`

func (ls *languageStore) GetByPublicId(ctx context.Context, publicId string) (*entity.Language, error) {
	query := fmt.Sprintf(`SELECT %s FROM language WHERE public_id = :publicId`, languageColumns)
	lang, err := QueryNamedOne[entity.Language](ctx, ls.db, query, map[string]any{
		"publicId": publicId,
	})
	if err != nil {
		return nil, err
	}
	return &lang, nil
}

func (ls *languageStore) GetById(ctx context.Context, id string) (*entity.Language, error) {
	query := fmt.Sprintf(`SELECT %s FROM language WHERE id = :id`, languageColumns)
	lang, err := QueryNamedOne[entity.Language](ctx, ls.db, query, map[string]any{
		"id": id,
	})
	if err != nil {
		return nil, err
	}
	return &lang, nil
}

func (ls *languageStore) GetByFolderCode(ctx context.Context, folderCode string) (*entity.Language, error) {
	query := fmt.Sprintf(`SELECT %s FROM language WHERE folder_code = :folderCode`, languageColumns)
	lang, err := QueryNamedOne[entity.Language](ctx, ls.db, query, map[string]any{
		"folderCode": folderCode,
	})
	if err != nil {
		return nil, err
	}
	return &lang, nil
}

// GetDefault returns the language flagged as default.
func (ls *languageStore) GetDefault(ctx context.Context) (*entity.Language, error) {
	query := fmt.Sprintf(`SELECT %s FROM language WHERE is_default = TRUE LIMIT 1`, languageColumns)
	lang, err := QueryNamedOne[entity.Language](ctx, ls.db, query, map[string]any{})
	if err != nil {
		return nil, err
	}
	return &lang, nil
}

func (ls *languageStore) ListActive(ctx context.Context) ([]entity.Language, error) {
	query := fmt.Sprintf(`SELECT %s FROM language WHERE is_active = TRUE ORDER BY is_default DESC, name ASC`, languageColumns)
	langs, err := QueryListNamed[entity.Language](ctx, ls.db, query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to get active languages: %w", err)
	}
	return langs, nil
}

func languageWhere(f entity.LanguageFilter) (string, map[string]any) {
	conds := []string{"TRUE"}
	params := map[string]any{}
	if f.IsActive != nil {
		conds = append(conds, "is_active = :isActive")
		params["isActive"] = *f.IsActive
	}
	if f.IsDefault != nil {
		conds = append(conds, "is_default = :isDefault")
		params["isDefault"] = *f.IsDefault
	}
	if f.Search != "" {
		conds = append(conds, "(name ILIKE :search OR folder_code ILIKE :search OR iso2 ILIKE :search)")
		params["search"] = "%" + f.Search + "%"
	}
	return strings.Join(conds, " AND "), params
}

func (ls *languageStore) List(ctx context.Context, filter entity.LanguageFilter, opts entity.ListOptions) ([]entity.Language, entity.Pagination, error) {
	opts.Normalize()
	where, params := languageWhere(filter)

	total, err := QueryCountNamed(ctx, ls.db, `SELECT COUNT(*) FROM language WHERE `+where, params)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to count languages: %w", err)
	}

	params["limit"] = opts.Limit
	params["offset"] = opts.Offset
	query := fmt.Sprintf(`SELECT %s FROM language WHERE %s ORDER BY is_default DESC, name ASC LIMIT :limit OFFSET :offset`, languageColumns, where)
	langs, err := QueryListNamed[entity.Language](ctx, ls.db, query, params)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to list languages: %w", err)
	}

	return langs, entity.NewPagination(total, opts), nil
}

func (ls *languageStore) Insert(ctx context.Context, lang *entity.Language) (*entity.Language, error) {
	query := fmt.Sprintf(`INSERT INTO language (public_id, name, folder_code, iso2, iso3, flag_image, direction, is_default, is_active)
		VALUES (:publicId, :name, :folderCode, :iso2, :iso3, :flagImage, :direction, :isDefault, :isActive)
		RETURNING %s`, languageColumns)
	inserted, err := QueryNamedOne[entity.Language](ctx, ls.db, query, map[string]any{
		"publicId":   lang.PublicId,
		"name":       lang.Name,
		"folderCode": lang.FolderCode,
		"iso2":       lang.ISO2,
		"iso3":       lang.ISO3,
		"flagImage":  lang.FlagImage,
		"direction":  string(lang.Direction),
		"isDefault":  lang.IsDefault,
		"isActive":   lang.IsActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert language: %w", err)
	}
	return &inserted, nil
}

func (ls *languageStore) UpdateByPublicId(ctx context.Context, publicId string, upd entity.LanguageUpdate) error {
	sets := []string{"updated_at = now()"}
	params := map[string]any{"publicId": publicId}
	if upd.Name != nil {
		sets = append(sets, "name = :name")
		params["name"] = *upd.Name
	}
	if upd.FolderCode != nil {
		sets = append(sets, "folder_code = :folderCode")
		params["folderCode"] = *upd.FolderCode
	}
	if upd.ISO2 != nil {
		sets = append(sets, "iso2 = :iso2")
		params["iso2"] = *upd.ISO2
	}
	if upd.ISO3 != nil {
		sets = append(sets, "iso3 = :iso3")
		params["iso3"] = *upd.ISO3
	}
	if upd.FlagImage != nil {
		sets = append(sets, "flag_image = :flagImage")
		params["flagImage"] = *upd.FlagImage
	}
	if upd.Direction != nil {
		sets = append(sets, "direction = :direction")
		params["direction"] = string(*upd.Direction)
	}
	if upd.IsDefault != nil {
		sets = append(sets, "is_default = :isDefault")
		params["isDefault"] = *upd.IsDefault
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active = :isActive")
		params["isActive"] = *upd.IsActive
	}

	query := fmt.Sprintf(`UPDATE language SET %s WHERE public_id = :publicId`, strings.Join(sets, ", "))
	n, err := ExecNamedRows(ctx, ls.db, query, params)
	if err != nil {
		return fmt.Errorf("failed to update language: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ClearDefault drops the default flag from every language.
func (ls *languageStore) ClearDefault(ctx context.Context) error {
	err := ExecNamed(ctx, ls.db, `UPDATE language SET is_default = FALSE, updated_at = now() WHERE is_default = TRUE`, map[string]any{})
	if err != nil {
		return fmt.Errorf("failed to clear default language: %w", err)
	}
	return nil
}

func (ls *languageStore) DeleteByPublicId(ctx context.Context, publicId string) error {
	n, err := ExecNamedRows(ctx, ls.db, `DELETE FROM language WHERE public_id = :publicId`, map[string]any{
		"publicId": publicId,
	})
	if err != nil {
		return fmt.Errorf("failed to delete language: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (ls *languageStore) Count(ctx context.Context, filter entity.LanguageFilter) (int, error) {
	where, params := languageWhere(filter)
	return QueryCountNamed(ctx, ls.db, `SELECT COUNT(*) FROM language WHERE `+where, params)
}

func (ls *languageStore) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	n, err := ExecNamedRows(ctx, ls.db, `UPDATE language SET is_active = :isActive, updated_at = now() WHERE public_id IN (:publicIds)`, map[string]any{
		"isActive":  active,
		"publicIds": publicIds,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk update languages: %w", err)
	}
	return entity.BulkResult{Count: n}, nil
}

// BulkDelete removes the requested languages except the default one, which is
// reported in SkippedIds.
func (ls *languageStore) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	type skippedRow struct {
		PublicId string `db:"public_id"`
	}
	skipped, err := QueryListNamed[skippedRow](ctx, ls.db,
		`SELECT public_id FROM language WHERE public_id IN (:publicIds) AND is_default = TRUE`,
		map[string]any{"publicIds": publicIds})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to find protected languages: %w", err)
	}

	n, err := ExecNamedRows(ctx, ls.db, `DELETE FROM language WHERE public_id IN (:publicIds) AND is_default = FALSE`, map[string]any{
		"publicIds": publicIds,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk delete languages: %w", err)
	}

	res := entity.BulkResult{Count: n}
	for _, s := range skipped {
		res.SkippedIds = append(res.SkippedIds, s.PublicId)
	}
	return res, nil
}
