package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

type subscriptionStore struct {
	*PGStore
}

// Subscriptions returns an object implementing the Subscriptions interface.
func (ps *PGStore) Subscriptions() dependency.Subscriptions {
	return &subscriptionStore{
		PGStore: ps,
	}
}

const subscriptionColumns = `id, public_id, kind, amount, max_investment_allowed, secondary_market_access, max_project_count, max_project_goal, refund_allowed, refund_days, cancel_allowed, cancel_days, is_active, use_count, created_at, updated_at`

// subscriptionRow mirrors the revenue_subscription table; nullable columns
// are mapped back to the entity's pointer fields and decimals are coerced to
// plain numbers on read.
type subscriptionRow struct {
	Id                    string              `db:"id"`
	PublicId              string              `db:"public_id"`
	Kind                  string              `db:"kind"`
	Amount                decimal.Decimal     `db:"amount"`
	MaxInvestmentAllowed  decimal.NullDecimal `db:"max_investment_allowed"`
	SecondaryMarketAccess sql.NullBool        `db:"secondary_market_access"`
	MaxProjectCount       sql.NullInt32       `db:"max_project_count"`
	MaxProjectGoal        decimal.NullDecimal `db:"max_project_goal"`
	RefundAllowed         bool                `db:"refund_allowed"`
	RefundDays            int                 `db:"refund_days"`
	CancelAllowed         bool                `db:"cancel_allowed"`
	CancelDays            int                 `db:"cancel_days"`
	IsActive              bool                `db:"is_active"`
	UseCount              int                 `db:"use_count"`
	CreatedAt             sql.NullTime        `db:"created_at"`
	UpdatedAt             sql.NullTime        `db:"updated_at"`
}

func (r subscriptionRow) toEntity() entity.RevenueSubscription {
	sub := entity.RevenueSubscription{
		Id:            r.Id,
		PublicId:      r.PublicId,
		Kind:          entity.SubscriberKind(r.Kind),
		Amount:        r.Amount,
		RefundAllowed: r.RefundAllowed,
		RefundDays:    r.RefundDays,
		CancelAllowed: r.CancelAllowed,
		CancelDays:    r.CancelDays,
		IsActive:      r.IsActive,
		UseCount:      r.UseCount,
		CreatedAt:     r.CreatedAt.Time,
		UpdatedAt:     r.UpdatedAt.Time,
	}
	if r.MaxInvestmentAllowed.Valid {
		v := r.MaxInvestmentAllowed.Decimal
		sub.MaxInvestmentAllowed = &v
	}
	if r.SecondaryMarketAccess.Valid {
		v := r.SecondaryMarketAccess.Bool
		sub.SecondaryMarketAccess = &v
	}
	if r.MaxProjectCount.Valid {
		v := int(r.MaxProjectCount.Int32)
		sub.MaxProjectCount = &v
	}
	if r.MaxProjectGoal.Valid {
		v := r.MaxProjectGoal.Decimal
		sub.MaxProjectGoal = &v
	}
	return sub
}

// GetByPublicId returns the subscription with content resolved for
// languageId (falling back to the default language); when languageId is
// empty every content row is attached.
func (ss *subscriptionStore) GetByPublicId(ctx context.Context, publicId, languageId string) (*entity.RevenueSubscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM revenue_subscription WHERE public_id = :publicId`, subscriptionColumns)
	row, err := QueryNamedOne[subscriptionRow](ctx, ss.db, query, map[string]any{
		"publicId": publicId,
	})
	if err != nil {
		return nil, err
	}

	sub := row.toEntity()
	content, err := ss.contentForSubscriptions(ctx, []string{sub.Id}, languageId)
	if err != nil {
		return nil, err
	}
	sub.Content = content[sub.Id]
	return &sub, nil
}

// contentForSubscriptions fetches content rows for the given subscription
// ids. With a languageId the requested-language row is selected, joined
// against the default language as fallback for subscriptions that have no
// row in the requested one; with an empty languageId all rows are returned.
func (ss *subscriptionStore) contentForSubscriptions(ctx context.Context, subscriptionIds []string, languageId string) (map[string][]entity.SubscriptionContent, error) {
	if len(subscriptionIds) == 0 {
		return map[string][]entity.SubscriptionContent{}, nil
	}

	query := `SELECT c.id, c.subscription_id, c.language_id, c.title, c.description, c.created_at, c.updated_at
		FROM subscription_content c WHERE c.subscription_id IN (:subscriptionIds)`
	params := map[string]any{"subscriptionIds": subscriptionIds}

	if languageId != "" {
		query += ` AND (c.language_id = :languageId
			OR (c.language_id = (SELECT id FROM language WHERE is_default = TRUE LIMIT 1)
				AND NOT EXISTS (
					SELECT 1 FROM subscription_content c2
					WHERE c2.subscription_id = c.subscription_id AND c2.language_id = :languageId
				)))`
		params["languageId"] = languageId
	}

	rows, err := QueryListNamed[entity.SubscriptionContent](ctx, ss.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription content: %w", err)
	}

	byId := make(map[string][]entity.SubscriptionContent, len(subscriptionIds))
	for _, r := range rows {
		byId[r.SubscriptionId] = append(byId[r.SubscriptionId], r)
	}
	return byId, nil
}

func subscriptionWhere(f entity.SubscriptionFilter) (string, map[string]any) {
	conds := []string{"TRUE"}
	params := map[string]any{}
	if f.Kind != nil {
		conds = append(conds, "kind = :kind")
		params["kind"] = string(*f.Kind)
	}
	if f.IsActive != nil {
		conds = append(conds, "is_active = :isActive")
		params["isActive"] = *f.IsActive
	}
	if f.Search != "" {
		conds = append(conds, `id IN (SELECT subscription_id FROM subscription_content WHERE title ILIKE :search OR description ILIKE :search)`)
		params["search"] = "%" + f.Search + "%"
	}
	return strings.Join(conds, " AND "), params
}

func (ss *subscriptionStore) List(ctx context.Context, filter entity.SubscriptionFilter, opts entity.ListOptions, languageId string) ([]entity.RevenueSubscription, entity.Pagination, error) {
	opts.Normalize()
	where, params := subscriptionWhere(filter)

	total, err := QueryCountNamed(ctx, ss.db, `SELECT COUNT(*) FROM revenue_subscription WHERE `+where, params)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	params["limit"] = opts.Limit
	params["offset"] = opts.Offset
	query := fmt.Sprintf(`SELECT %s FROM revenue_subscription WHERE %s ORDER BY kind ASC, amount ASC LIMIT :limit OFFSET :offset`, subscriptionColumns, where)
	rows, err := QueryListNamed[subscriptionRow](ctx, ss.db, query, params)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	subs := make([]entity.RevenueSubscription, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, r.toEntity())
		ids = append(ids, r.Id)
	}

	content, err := ss.contentForSubscriptions(ctx, ids, languageId)
	if err != nil {
		return nil, entity.Pagination{}, err
	}
	for i := range subs {
		subs[i].Content = content[subs[i].Id]
	}

	return subs, entity.NewPagination(total, opts), nil
}

// Insert stores the subscription and its content rows inside one
// serializable transaction.
func (ss *subscriptionStore) Insert(ctx context.Context, sub *entity.RevenueSubscription, content []entity.SubscriptionContent) (*entity.RevenueSubscription, error) {
	var inserted entity.RevenueSubscription
	err := ss.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		txStore, ok := rep.(*PGStore)
		if !ok {
			return fmt.Errorf("unexpected repository type in transaction")
		}

		query := fmt.Sprintf(`INSERT INTO revenue_subscription
			(public_id, kind, amount, max_investment_allowed, secondary_market_access, max_project_count, max_project_goal, refund_allowed, refund_days, cancel_allowed, cancel_days, is_active)
			VALUES (:publicId, :kind, :amount, :maxInvestmentAllowed, :secondaryMarketAccess, :maxProjectCount, :maxProjectGoal, :refundAllowed, :refundDays, :cancelAllowed, :cancelDays, :isActive)
			RETURNING %s`, subscriptionColumns)
		row, err := QueryNamedOne[subscriptionRow](ctx, txStore.db, query, map[string]any{
			"publicId":              sub.PublicId,
			"kind":                  string(sub.Kind),
			"amount":                sub.Amount,
			"maxInvestmentAllowed":  nullableDecimal(sub.MaxInvestmentAllowed),
			"secondaryMarketAccess": nullableBool(sub.SecondaryMarketAccess),
			"maxProjectCount":       nullableInt(sub.MaxProjectCount),
			"maxProjectGoal":        nullableDecimal(sub.MaxProjectGoal),
			"refundAllowed":         sub.RefundAllowed,
			"refundDays":            sub.RefundDays,
			"cancelAllowed":         sub.CancelAllowed,
			"cancelDays":            sub.CancelDays,
			"isActive":              sub.IsActive,
		})
		if err != nil {
			return fmt.Errorf("failed to insert subscription: %w", err)
		}
		inserted = row.toEntity()

		for _, c := range content {
			err := ExecNamed(ctx, txStore.db, `INSERT INTO subscription_content (subscription_id, language_id, title, description)
				VALUES (:subscriptionId, :languageId, :title, :description)`, map[string]any{
				"subscriptionId": inserted.Id,
				"languageId":     c.LanguageId,
				"title":          c.Title,
				"description":    c.Description,
			})
			if err != nil {
				return fmt.Errorf("failed to insert subscription content: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	full, err := ss.GetByPublicId(ctx, inserted.PublicId, "")
	if err != nil {
		return nil, err
	}
	return full, nil
}

func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return *d
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func nullableInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func (ss *subscriptionStore) UpdateByPublicId(ctx context.Context, publicId string, upd entity.SubscriptionUpdate) error {
	sets := []string{"updated_at = now()"}
	params := map[string]any{"publicId": publicId}
	if upd.Amount != nil {
		sets = append(sets, "amount = :amount")
		params["amount"] = *upd.Amount
	}
	if upd.MaxInvestmentAllowed != nil {
		sets = append(sets, "max_investment_allowed = :maxInvestmentAllowed")
		params["maxInvestmentAllowed"] = *upd.MaxInvestmentAllowed
	}
	if upd.SecondaryMarketAccess != nil {
		sets = append(sets, "secondary_market_access = :secondaryMarketAccess")
		params["secondaryMarketAccess"] = *upd.SecondaryMarketAccess
	}
	if upd.MaxProjectCount != nil {
		sets = append(sets, "max_project_count = :maxProjectCount")
		params["maxProjectCount"] = *upd.MaxProjectCount
	}
	if upd.MaxProjectGoal != nil {
		sets = append(sets, "max_project_goal = :maxProjectGoal")
		params["maxProjectGoal"] = *upd.MaxProjectGoal
	}
	if upd.RefundAllowed != nil {
		sets = append(sets, "refund_allowed = :refundAllowed")
		params["refundAllowed"] = *upd.RefundAllowed
	}
	if upd.RefundDays != nil {
		sets = append(sets, "refund_days = :refundDays")
		params["refundDays"] = *upd.RefundDays
	}
	if upd.CancelAllowed != nil {
		sets = append(sets, "cancel_allowed = :cancelAllowed")
		params["cancelAllowed"] = *upd.CancelAllowed
	}
	if upd.CancelDays != nil {
		sets = append(sets, "cancel_days = :cancelDays")
		params["cancelDays"] = *upd.CancelDays
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active = :isActive")
		params["isActive"] = *upd.IsActive
	}

	query := fmt.Sprintf(`UPDATE revenue_subscription SET %s WHERE public_id = :publicId`, strings.Join(sets, ", "))
	n, err := ExecNamedRows(ctx, ss.db, query, params)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// UpsertContent inserts or replaces the title/description row for one
// language of a subscription.
func (ss *subscriptionStore) UpsertContent(ctx context.Context, subscriptionId string, content entity.SubscriptionContent) error {
	err := ExecNamed(ctx, ss.db, `INSERT INTO subscription_content (subscription_id, language_id, title, description)
		VALUES (:subscriptionId, :languageId, :title, :description)
		ON CONFLICT (subscription_id, language_id)
		DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description, updated_at = now()`, map[string]any{
		"subscriptionId": subscriptionId,
		"languageId":     content.LanguageId,
		"title":          content.Title,
		"description":    content.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert subscription content: %w", err)
	}
	return nil
}

func (ss *subscriptionStore) DeleteByPublicId(ctx context.Context, publicId string) error {
	n, err := ExecNamedRows(ctx, ss.db, `DELETE FROM revenue_subscription WHERE public_id = :publicId`, map[string]any{
		"publicId": publicId,
	})
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (ss *subscriptionStore) IncrementUseCount(ctx context.Context, publicId string, delta int) error {
	n, err := ExecNamedRows(ctx, ss.db, `UPDATE revenue_subscription SET use_count = GREATEST(use_count + :delta, 0), updated_at = now() WHERE public_id = :publicId`, map[string]any{
		"publicId": publicId,
		"delta":    delta,
	})
	if err != nil {
		return fmt.Errorf("failed to update subscription use count: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (ss *subscriptionStore) Count(ctx context.Context, filter entity.SubscriptionFilter) (int, error) {
	where, params := subscriptionWhere(filter)
	return QueryCountNamed(ctx, ss.db, `SELECT COUNT(*) FROM revenue_subscription WHERE `+where, params)
}

func (ss *subscriptionStore) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	n, err := ExecNamedRows(ctx, ss.db, `UPDATE revenue_subscription SET is_active = :isActive, updated_at = now() WHERE public_id IN (:publicIds)`, map[string]any{
		"isActive":  active,
		"publicIds": publicIds,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk update subscriptions: %w", err)
	}
	return entity.BulkResult{Count: n}, nil
}

func (ss *subscriptionStore) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	type skippedRow struct {
		PublicId string `db:"public_id"`
	}
	skipped, err := QueryListNamed[skippedRow](ctx, ss.db,
		`SELECT public_id FROM revenue_subscription WHERE public_id IN (:publicIds) AND use_count > 0`,
		map[string]any{"publicIds": publicIds})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to find in-use subscriptions: %w", err)
	}

	n, err := ExecNamedRows(ctx, ss.db, `DELETE FROM revenue_subscription WHERE public_id IN (:publicIds) AND use_count = 0`, map[string]any{
		"publicIds": publicIds,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk delete subscriptions: %w", err)
	}

	res := entity.BulkResult{Count: n}
	for _, s := range skipped {
		res.SkippedIds = append(res.SkippedIds, s.PublicId)
	}
	return res, nil
}
