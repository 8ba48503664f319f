package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

type currencyStore struct {
	*PGStore
}

// Currencies returns an object implementing the Currencies interface.
func (ps *PGStore) Currencies() dependency.Currencies {
	return &currencyStore{
		PGStore: ps,
	}
}

const currencyColumns = `id, public_id, name, code, symbol, is_active, use_count, created_at, updated_at`

func (cs *currencyStore) GetByPublicId(ctx context.Context, publicId string) (*entity.Currency, error) {
	query := fmt.Sprintf(`SELECT %s FROM currency WHERE public_id = :publicId`, currencyColumns)
	c, err := QueryNamedOne[entity.Currency](ctx, cs.db, query, map[string]any{
		"publicId": publicId,
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (cs *currencyStore) GetByCode(ctx context.Context, code string) (*entity.Currency, error) {
	query := fmt.Sprintf(`SELECT %s FROM currency WHERE code = :code`, currencyColumns)
	c, err := QueryNamedOne[entity.Currency](ctx, cs.db, query, map[string]any{
		"code": strings.ToUpper(code),
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func currencyWhere(f entity.CurrencyFilter) (string, map[string]any) {
	conds := []string{"TRUE"}
	params := map[string]any{}
	if f.IsActive != nil {
		conds = append(conds, "is_active = :isActive")
		params["isActive"] = *f.IsActive
	}
	if f.Search != "" {
		conds = append(conds, "(name ILIKE :search OR code ILIKE :search OR symbol ILIKE :search)")
		params["search"] = "%" + f.Search + "%"
	}
	return strings.Join(conds, " AND "), params
}

func (cs *currencyStore) List(ctx context.Context, filter entity.CurrencyFilter, opts entity.ListOptions) ([]entity.Currency, entity.Pagination, error) {
	opts.Normalize()
	where, params := currencyWhere(filter)

	total, err := QueryCountNamed(ctx, cs.db, `SELECT COUNT(*) FROM currency WHERE `+where, params)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to count currencies: %w", err)
	}

	params["limit"] = opts.Limit
	params["offset"] = opts.Offset
	query := fmt.Sprintf(`SELECT %s FROM currency WHERE %s ORDER BY code ASC LIMIT :limit OFFSET :offset`, currencyColumns, where)
	currencies, err := QueryListNamed[entity.Currency](ctx, cs.db, query, params)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to list currencies: %w", err)
	}

	return currencies, entity.NewPagination(total, opts), nil
}

func (cs *currencyStore) Insert(ctx context.Context, c *entity.Currency) (*entity.Currency, error) {
	query := fmt.Sprintf(`INSERT INTO currency (public_id, name, code, symbol, is_active)
		VALUES (:publicId, :name, :code, :symbol, :isActive)
		RETURNING %s`, currencyColumns)
	inserted, err := QueryNamedOne[entity.Currency](ctx, cs.db, query, map[string]any{
		"publicId": c.PublicId,
		"name":     c.Name,
		"code":     strings.ToUpper(c.Code),
		"symbol":   c.Symbol,
		"isActive": c.IsActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert currency: %w", err)
	}
	return &inserted, nil
}

func (cs *currencyStore) UpdateByPublicId(ctx context.Context, publicId string, upd entity.CurrencyUpdate) error {
	sets := []string{"updated_at = now()"}
	params := map[string]any{"publicId": publicId}
	if upd.Name != nil {
		sets = append(sets, "name = :name")
		params["name"] = *upd.Name
	}
	if upd.Code != nil {
		sets = append(sets, "code = :code")
		params["code"] = strings.ToUpper(*upd.Code)
	}
	if upd.Symbol != nil {
		sets = append(sets, "symbol = :symbol")
		params["symbol"] = *upd.Symbol
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active = :isActive")
		params["isActive"] = *upd.IsActive
	}

	query := fmt.Sprintf(`UPDATE currency SET %s WHERE public_id = :publicId`, strings.Join(sets, ", "))
	n, err := ExecNamedRows(ctx, cs.db, query, params)
	if err != nil {
		return fmt.Errorf("failed to update currency: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (cs *currencyStore) DeleteByPublicId(ctx context.Context, publicId string) error {
	n, err := ExecNamedRows(ctx, cs.db, `DELETE FROM currency WHERE public_id = :publicId`, map[string]any{
		"publicId": publicId,
	})
	if err != nil {
		return fmt.Errorf("failed to delete currency: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (cs *currencyStore) IncrementUseCount(ctx context.Context, publicId string, delta int) error {
	n, err := ExecNamedRows(ctx, cs.db, `UPDATE currency SET use_count = GREATEST(use_count + :delta, 0), updated_at = now() WHERE public_id = :publicId`, map[string]any{
		"publicId": publicId,
		"delta":    delta,
	})
	if err != nil {
		return fmt.Errorf("failed to update currency use count: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (cs *currencyStore) Count(ctx context.Context, filter entity.CurrencyFilter) (int, error) {
	where, params := currencyWhere(filter)
	return QueryCountNamed(ctx, cs.db, `SELECT COUNT(*) FROM currency WHERE `+where, params)
}

func (cs *currencyStore) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	n, err := ExecNamedRows(ctx, cs.db, `UPDATE currency SET is_active = :isActive, updated_at = now() WHERE public_id IN (:publicIds)`, map[string]any{
		"isActive":  active,
		"publicIds": publicIds,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk update currencies: %w", err)
	}
	return entity.BulkResult{Count: n}, nil
}

func (cs *currencyStore) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	type skippedRow struct {
		PublicId string `db:"public_id"`
	}
	skipped, err := QueryListNamed[skippedRow](ctx, cs.db,
		`SELECT public_id FROM currency WHERE public_id IN (:publicIds) AND use_count > 0`,
		map[string]any{"publicIds": publicIds})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to find in-use currencies: %w", err)
	}

	n, err := ExecNamedRows(ctx, cs.db, `DELETE FROM currency WHERE public_id IN (:publicIds) AND use_count = 0`, map[string]any{
		"publicIds": publicIds,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk delete currencies: %w", err)
	}

	res := entity.BulkResult{Count: n}
	for _, s := range skipped {
		res.SkippedIds = append(res.SkippedIds, s.PublicId)
	}
	return res, nil
}
