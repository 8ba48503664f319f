package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

type dropdownStore struct {
	*PGStore
}

// Dropdowns returns an object implementing the Dropdowns interface.
func (ps *PGStore) Dropdowns() dependency.Dropdowns {
	return &dropdownStore{
		PGStore: ps,
	}
}

const dropdownColumns = `id, public_id, name, unique_code, dropdown_type, language_id, is_active, use_count, created_at, updated_at`

func (ds *dropdownStore) GetByPublicId(ctx context.Context, publicId string) (*entity.DropdownOption, error) {
	query := fmt.Sprintf(`SELECT %s FROM dropdown_option WHERE public_id = :publicId`, dropdownColumns)
	opt, err := QueryNamedOne[entity.DropdownOption](ctx, ds.db, query, map[string]any{
		"publicId": publicId,
	})
	if err != nil {
		return nil, err
	}
	return &opt, nil
}

func (ds *dropdownStore) GetByCodeAndLanguage(ctx context.Context, uniqueCode int64, languageId string) (*entity.DropdownOption, error) {
	query := fmt.Sprintf(`SELECT %s FROM dropdown_option WHERE unique_code = :uniqueCode AND language_id = :languageId`, dropdownColumns)
	opt, err := QueryNamedOne[entity.DropdownOption](ctx, ds.db, query, map[string]any{
		"uniqueCode": uniqueCode,
		"languageId": languageId,
	})
	if err != nil {
		return nil, err
	}
	return &opt, nil
}

// ListByTypeForLanguage returns the active options of one dropdown type for
// the given language. Concepts that have no row in the requested language
// fall back to their default-language row.
func (ds *dropdownStore) ListByTypeForLanguage(ctx context.Context, dropdownType, languageId string) ([]entity.DropdownOption, error) {
	query := fmt.Sprintf(`SELECT %s FROM dropdown_option d
		WHERE d.dropdown_type = :dropdownType AND d.is_active = TRUE
		AND (d.language_id = :languageId
			OR (d.language_id = (SELECT id FROM language WHERE is_default = TRUE LIMIT 1)
				AND NOT EXISTS (
					SELECT 1 FROM dropdown_option d2
					WHERE d2.unique_code = d.unique_code
					AND d2.dropdown_type = d.dropdown_type
					AND d2.language_id = :languageId
				)))
		ORDER BY d.name ASC`, prefixColumns("d", dropdownColumns))
	opts, err := QueryListNamed[entity.DropdownOption](ctx, ds.db, query, map[string]any{
		"dropdownType": dropdownType,
		"languageId":   languageId,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list dropdown options: %w", err)
	}
	return opts, nil
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

func dropdownWhere(f entity.DropdownFilter) (string, map[string]any) {
	conds := []string{"TRUE"}
	params := map[string]any{}
	if f.DropdownType != "" {
		conds = append(conds, "dropdown_type = :dropdownType")
		params["dropdownType"] = f.DropdownType
	}
	if f.LanguageId != "" {
		conds = append(conds, "language_id = :languageId")
		params["languageId"] = f.LanguageId
	}
	if f.UniqueCode != nil {
		conds = append(conds, "unique_code = :uniqueCode")
		params["uniqueCode"] = *f.UniqueCode
	}
	if f.IsActive != nil {
		conds = append(conds, "is_active = :isActive")
		params["isActive"] = *f.IsActive
	}
	if f.Search != "" {
		conds = append(conds, "name ILIKE :search")
		params["search"] = "%" + f.Search + "%"
	}
	return strings.Join(conds, " AND "), params
}

func (ds *dropdownStore) List(ctx context.Context, filter entity.DropdownFilter, opts entity.ListOptions) ([]entity.DropdownOption, entity.Pagination, error) {
	opts.Normalize()
	where, params := dropdownWhere(filter)

	total, err := QueryCountNamed(ctx, ds.db, `SELECT COUNT(*) FROM dropdown_option WHERE `+where, params)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to count dropdown options: %w", err)
	}

	params["limit"] = opts.Limit
	params["offset"] = opts.Offset
	query := fmt.Sprintf(`SELECT %s FROM dropdown_option WHERE %s ORDER BY dropdown_type ASC, name ASC LIMIT :limit OFFSET :offset`, dropdownColumns, where)
	options, err := QueryListNamed[entity.DropdownOption](ctx, ds.db, query, params)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to list dropdown options: %w", err)
	}

	return options, entity.NewPagination(total, opts), nil
}

func (ds *dropdownStore) Insert(ctx context.Context, opt *entity.DropdownOption) (*entity.DropdownOption, error) {
	query := fmt.Sprintf(`INSERT INTO dropdown_option (public_id, name, unique_code, dropdown_type, language_id, is_active)
		VALUES (:publicId, :name, :uniqueCode, :dropdownType, :languageId, :isActive)
		RETURNING %s`, dropdownColumns)
	inserted, err := QueryNamedOne[entity.DropdownOption](ctx, ds.db, query, map[string]any{
		"publicId":     opt.PublicId,
		"name":         opt.Name,
		"uniqueCode":   opt.UniqueCode,
		"dropdownType": opt.DropdownType,
		"languageId":   opt.LanguageId,
		"isActive":     opt.IsActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert dropdown option: %w", err)
	}
	return &inserted, nil
}

func (ds *dropdownStore) UpdateByPublicId(ctx context.Context, publicId string, upd entity.DropdownUpdate) error {
	sets := []string{"updated_at = now()"}
	params := map[string]any{"publicId": publicId}
	if upd.Name != nil {
		sets = append(sets, "name = :name")
		params["name"] = *upd.Name
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active = :isActive")
		params["isActive"] = *upd.IsActive
	}

	query := fmt.Sprintf(`UPDATE dropdown_option SET %s WHERE public_id = :publicId`, strings.Join(sets, ", "))
	n, err := ExecNamedRows(ctx, ds.db, query, params)
	if err != nil {
		return fmt.Errorf("failed to update dropdown option: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (ds *dropdownStore) DeleteByPublicId(ctx context.Context, publicId string) error {
	n, err := ExecNamedRows(ctx, ds.db, `DELETE FROM dropdown_option WHERE public_id = :publicId`, map[string]any{
		"publicId": publicId,
	})
	if err != nil {
		return fmt.Errorf("failed to delete dropdown option: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (ds *dropdownStore) IncrementUseCount(ctx context.Context, publicId string, delta int) error {
	n, err := ExecNamedRows(ctx, ds.db, `UPDATE dropdown_option SET use_count = GREATEST(use_count + :delta, 0), updated_at = now() WHERE public_id = :publicId`, map[string]any{
		"publicId": publicId,
		"delta":    delta,
	})
	if err != nil {
		return fmt.Errorf("failed to update dropdown option use count: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (ds *dropdownStore) Count(ctx context.Context, filter entity.DropdownFilter) (int, error) {
	where, params := dropdownWhere(filter)
	return QueryCountNamed(ctx, ds.db, `SELECT COUNT(*) FROM dropdown_option WHERE `+where, params)
}

func (ds *dropdownStore) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	n, err := ExecNamedRows(ctx, ds.db, `UPDATE dropdown_option SET is_active = :isActive, updated_at = now() WHERE public_id IN (:publicIds)`, map[string]any{
		"isActive":  active,
		"publicIds": publicIds,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk update dropdown options: %w", err)
	}
	return entity.BulkResult{Count: n}, nil
}

func (ds *dropdownStore) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	type skippedRow struct {
		PublicId string `db:"public_id"`
	}
	skipped, err := QueryListNamed[skippedRow](ctx, ds.db,
		`SELECT public_id FROM dropdown_option WHERE public_id IN (:publicIds) AND use_count > 0`,
		map[string]any{"publicIds": publicIds})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to find in-use dropdown options: %w", err)
	}

	n, err := ExecNamedRows(ctx, ds.db, `DELETE FROM dropdown_option WHERE public_id IN (:publicIds) AND use_count = 0`, map[string]any{
		"publicIds": publicIds,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk delete dropdown options: %w", err)
	}

	res := entity.BulkResult{Count: n}
	for _, s := range skipped {
		res.SkippedIds = append(res.SkippedIds, s.PublicId)
	}
	return res, nil
}
