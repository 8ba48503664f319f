package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

type countryStore struct {
	*PGStore
}

// Countries returns an object implementing the Countries interface.
func (ps *PGStore) Countries() dependency.Countries {
	return &countryStore{
		PGStore: ps,
	}
}

const countryColumns = `id, public_id, name, iso2, iso3, flag_image, is_default, is_active, use_count, created_at, updated_at`

func (cs *countryStore) GetByPublicId(ctx context.Context, publicId string) (*entity.Country, error) {
	query := fmt.Sprintf(`SELECT %s FROM country WHERE public_id = :publicId`, countryColumns)
	c, err := QueryNamedOne[entity.Country](ctx, cs.db, query, map[string]any{
		"publicId": publicId,
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByISO matches either the ISO2 or ISO3 code, case-insensitively.
func (cs *countryStore) GetByISO(ctx context.Context, code string) (*entity.Country, error) {
	query := fmt.Sprintf(`SELECT %s FROM country WHERE UPPER(iso2) = :code OR UPPER(iso3) = :code`, countryColumns)
	c, err := QueryNamedOne[entity.Country](ctx, cs.db, query, map[string]any{
		"code": strings.ToUpper(code),
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func countryWhere(f entity.CountryFilter) (string, map[string]any) {
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
		conds = append(conds, "(name ILIKE :search OR iso2 ILIKE :search OR iso3 ILIKE :search)")
		params["search"] = "%" + f.Search + "%"
	}
	return strings.Join(conds, " AND "), params
}

func (cs *countryStore) List(ctx context.Context, filter entity.CountryFilter, opts entity.ListOptions) ([]entity.Country, entity.Pagination, error) {
	opts.Normalize()
	where, params := countryWhere(filter)

	total, err := QueryCountNamed(ctx, cs.db, `SELECT COUNT(*) FROM country WHERE `+where, params)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to count countries: %w", err)
	}

	params["limit"] = opts.Limit
	params["offset"] = opts.Offset
	query := fmt.Sprintf(`SELECT %s FROM country WHERE %s ORDER BY name ASC LIMIT :limit OFFSET :offset`, countryColumns, where)
	countries, err := QueryListNamed[entity.Country](ctx, cs.db, query, params)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to list countries: %w", err)
	}

	return countries, entity.NewPagination(total, opts), nil
}

func (cs *countryStore) Insert(ctx context.Context, c *entity.Country) (*entity.Country, error) {
	query := fmt.Sprintf(`INSERT INTO country (public_id, name, iso2, iso3, flag_image, is_default, is_active)
		VALUES (:publicId, :name, :iso2, :iso3, :flagImage, :isDefault, :isActive)
		RETURNING %s`, countryColumns)
	inserted, err := QueryNamedOne[entity.Country](ctx, cs.db, query, map[string]any{
		"publicId":  c.PublicId,
		"name":      c.Name,
		"iso2":      c.ISO2,
		"iso3":      c.ISO3,
		"flagImage": c.FlagImage,
		"isDefault": c.IsDefault,
		"isActive":  c.IsActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert country: %w", err)
	}
	return &inserted, nil
}

func (cs *countryStore) UpdateByPublicId(ctx context.Context, publicId string, upd entity.CountryUpdate) error {
	sets := []string{"updated_at = now()"}
	params := map[string]any{"publicId": publicId}
	if upd.Name != nil {
		sets = append(sets, "name = :name")
		params["name"] = *upd.Name
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
	if upd.IsDefault != nil {
		sets = append(sets, "is_default = :isDefault")
		params["isDefault"] = *upd.IsDefault
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active = :isActive")
		params["isActive"] = *upd.IsActive
	}

	query := fmt.Sprintf(`UPDATE country SET %s WHERE public_id = :publicId`, strings.Join(sets, ", "))
	n, err := ExecNamedRows(ctx, cs.db, query, params)
	if err != nil {
		return fmt.Errorf("failed to update country: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (cs *countryStore) ClearDefault(ctx context.Context) error {
	err := ExecNamed(ctx, cs.db, `UPDATE country SET is_default = FALSE, updated_at = now() WHERE is_default = TRUE`, map[string]any{})
	if err != nil {
		return fmt.Errorf("failed to clear default country: %w", err)
	}
	return nil
}

func (cs *countryStore) DeleteByPublicId(ctx context.Context, publicId string) error {
	n, err := ExecNamedRows(ctx, cs.db, `DELETE FROM country WHERE public_id = :publicId`, map[string]any{
		"publicId": publicId,
	})
	if err != nil {
		return fmt.Errorf("failed to delete country: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// IncrementUseCount adjusts the reference counter; the counter never drops
// below zero.
func (cs *countryStore) IncrementUseCount(ctx context.Context, publicId string, delta int) error {
	n, err := ExecNamedRows(ctx, cs.db, `UPDATE country SET use_count = GREATEST(use_count + :delta, 0), updated_at = now() WHERE public_id = :publicId`, map[string]any{
		"publicId": publicId,
		"delta":    delta,
	})
	if err != nil {
		return fmt.Errorf("failed to update country use count: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (cs *countryStore) Count(ctx context.Context, filter entity.CountryFilter) (int, error) {
	where, params := countryWhere(filter)
	return QueryCountNamed(ctx, cs.db, `SELECT COUNT(*) FROM country WHERE `+where, params)
}

func (cs *countryStore) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	n, err := ExecNamedRows(ctx, cs.db, `UPDATE country SET is_active = :isActive, updated_at = now() WHERE public_id IN (:publicIds)`, map[string]any{
		"isActive":  active,
		"publicIds": publicIds,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk update countries: %w", err)
	}
	return entity.BulkResult{Count: n}, nil
}

// BulkDelete removes the requested countries, skipping the default one and
// any with a non-zero use count.
func (cs *countryStore) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	type skippedRow struct {
		PublicId string `db:"public_id"`
	}
	skipped, err := QueryListNamed[skippedRow](ctx, cs.db,
		`SELECT public_id FROM country WHERE public_id IN (:publicIds) AND (is_default = TRUE OR use_count > 0)`,
		map[string]any{"publicIds": publicIds})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to find protected countries: %w", err)
	}

	n, err := ExecNamedRows(ctx, cs.db, `DELETE FROM country WHERE public_id IN (:publicIds) AND is_default = FALSE AND use_count = 0`, map[string]any{
		"publicIds": publicIds,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk delete countries: %w", err)
	}

	res := entity.BulkResult{Count: n}
	for _, s := range skipped {
		res.SkippedIds = append(res.SkippedIds, s.PublicId)
	}
	return res, nil
}
