package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

type subscriptionDocs struct {
	*MongoStore
}

// Subscriptions returns an object implementing the Subscriptions interface.
func (ms *MongoStore) Subscriptions() dependency.Subscriptions {
	return &subscriptionDocs{
		MongoStore: ms,
	}
}

// Decimal amounts are stored as strings so values survive the round trip
// without float drift.
type subscriptionDoc struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty"`
	PublicId              string             `bson:"public_id"`
	Kind                  string             `bson:"kind"`
	Amount                string             `bson:"amount"`
	MaxInvestmentAllowed  *string            `bson:"max_investment_allowed,omitempty"`
	SecondaryMarketAccess *bool              `bson:"secondary_market_access,omitempty"`
	MaxProjectCount       *int               `bson:"max_project_count,omitempty"`
	MaxProjectGoal        *string            `bson:"max_project_goal,omitempty"`
	RefundAllowed         bool               `bson:"refund_allowed"`
	RefundDays            int                `bson:"refund_days"`
	CancelAllowed         bool               `bson:"cancel_allowed"`
	CancelDays            int                `bson:"cancel_days"`
	IsActive              bool               `bson:"is_active"`
	UseCount              int                `bson:"use_count"`
	CreatedAt             time.Time          `bson:"created_at"`
	UpdatedAt             time.Time          `bson:"updated_at"`
}

type subscriptionContentDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	SubscriptionId string             `bson:"subscription_id"`
	LanguageId     string             `bson:"language_id"`
	Title          string             `bson:"title"`
	Description    string             `bson:"description"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (d subscriptionContentDoc) toEntity() entity.SubscriptionContent {
	return entity.SubscriptionContent{
		Id:             d.ID.Hex(),
		SubscriptionId: d.SubscriptionId,
		LanguageId:     d.LanguageId,
		Title:          d.Title,
		Description:    d.Description,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (d subscriptionDoc) toEntity() (entity.RevenueSubscription, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return entity.RevenueSubscription{}, fmt.Errorf("bad amount %q: %w", d.Amount, err)
	}
	sub := entity.RevenueSubscription{
		Id:            d.ID.Hex(),
		PublicId:      d.PublicId,
		Kind:          entity.SubscriberKind(d.Kind),
		Amount:        amount,
		RefundAllowed: d.RefundAllowed,
		RefundDays:    d.RefundDays,
		CancelAllowed: d.CancelAllowed,
		CancelDays:    d.CancelDays,
		IsActive:      d.IsActive,
		UseCount:      d.UseCount,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.MaxInvestmentAllowed != nil {
		v, err := decimal.NewFromString(*d.MaxInvestmentAllowed)
		if err != nil {
			return entity.RevenueSubscription{}, fmt.Errorf("bad max investment %q: %w", *d.MaxInvestmentAllowed, err)
		}
		sub.MaxInvestmentAllowed = &v
	}
	if d.SecondaryMarketAccess != nil {
		v := *d.SecondaryMarketAccess
		sub.SecondaryMarketAccess = &v
	}
	if d.MaxProjectCount != nil {
		v := *d.MaxProjectCount
		sub.MaxProjectCount = &v
	}
	if d.MaxProjectGoal != nil {
		v, err := decimal.NewFromString(*d.MaxProjectGoal)
		if err != nil {
			return entity.RevenueSubscription{}, fmt.Errorf("bad max project goal %q: %w", *d.MaxProjectGoal, err)
		}
		sub.MaxProjectGoal = &v
	}
	return sub, nil
}

func decimalStr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func (ss *subscriptionDocs) GetByPublicId(ctx context.Context, publicId, languageId string) (*entity.RevenueSubscription, error) {
	doc, err := findOne[subscriptionDoc](ctx, ss.col(collSubscriptions), bson.M{"public_id": publicId})
	if err != nil {
		return nil, err
	}
	sub, err := doc.toEntity()
	if err != nil {
		return nil, err
	}

	content, err := ss.contentForSubscriptions(ctx, []string{sub.Id}, languageId)
	if err != nil {
		return nil, err
	}
	sub.Content = content[sub.Id]
	return &sub, nil
}

// contentForSubscriptions loads content for the given subscription ids. With
// a languageId the requested-language rows come first, then default-language
// rows for subscriptions that had none; with an empty languageId all rows
// are returned.
func (ss *subscriptionDocs) contentForSubscriptions(ctx context.Context, subscriptionIds []string, languageId string) (map[string][]entity.SubscriptionContent, error) {
	byId := make(map[string][]entity.SubscriptionContent, len(subscriptionIds))
	if len(subscriptionIds) == 0 {
		return byId, nil
	}

	filter := bson.M{"subscription_id": bson.M{"$in": subscriptionIds}}
	if languageId != "" {
		filter["language_id"] = languageId
	}
	docs, err := findAll[subscriptionContentDoc](ctx, ss.col(collSubscriptionContent), filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription content: %w", err)
	}
	for _, d := range docs {
		byId[d.SubscriptionId] = append(byId[d.SubscriptionId], d.toEntity())
	}

	if languageId == "" {
		return byId, nil
	}

	var missing []string
	for _, id := range subscriptionIds {
		if len(byId[id]) == 0 {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return byId, nil
	}

	defaultLang, err := findOne[languageDoc](ctx, ss.col(collLanguages), bson.M{"is_default": true})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return byId, nil
		}
		return nil, err
	}
	fallback, err := findAll[subscriptionContentDoc](ctx, ss.col(collSubscriptionContent), bson.M{
		"subscription_id": bson.M{"$in": missing},
		"language_id":     defaultLang.ID.Hex(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get fallback subscription content: %w", err)
	}
	for _, d := range fallback {
		byId[d.SubscriptionId] = append(byId[d.SubscriptionId], d.toEntity())
	}
	return byId, nil
}

func subscriptionFilterDoc(f entity.SubscriptionFilter) bson.M {
	filter := bson.M{}
	if f.Kind != nil {
		filter["kind"] = string(*f.Kind)
	}
	if f.IsActive != nil {
		filter["is_active"] = *f.IsActive
	}
	return filter
}

func (ss *subscriptionDocs) List(ctx context.Context, filter entity.SubscriptionFilter, opts entity.ListOptions, languageId string) ([]entity.RevenueSubscription, entity.Pagination, error) {
	opts.Normalize()
	docFilter := subscriptionFilterDoc(filter)

	// Title/description search lives in the content collection, so resolve
	// the matching subscription ids first.
	if filter.Search != "" {
		contentMatches, err := findAll[subscriptionContentDoc](ctx, ss.col(collSubscriptionContent), bson.M{
			"$or": bson.A{
				bson.M{"title": containsRegex(filter.Search)},
				bson.M{"description": containsRegex(filter.Search)},
			},
		}, options.Find().SetProjection(bson.M{"subscription_id": 1}))
		if err != nil {
			return nil, entity.Pagination{}, fmt.Errorf("failed to search subscription content: %w", err)
		}
		ids := make([]string, 0, len(contentMatches))
		for _, c := range contentMatches {
			ids = append(ids, c.SubscriptionId)
		}
		oids := make([]primitive.ObjectID, 0, len(ids))
		for _, id := range ids {
			if oid, err := primitive.ObjectIDFromHex(id); err == nil {
				oids = append(oids, oid)
			}
		}
		docFilter["_id"] = bson.M{"$in": oids}
	}

	sort := bson.D{{Key: "kind", Value: 1}, {Key: "amount", Value: 1}}
	docs, total, err := findPage[subscriptionDoc](ctx, ss.col(collSubscriptions), docFilter, sort, opts)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	subs := make([]entity.RevenueSubscription, 0, len(docs))
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		sub, err := d.toEntity()
		if err != nil {
			return nil, entity.Pagination{}, err
		}
		subs = append(subs, sub)
		ids = append(ids, sub.Id)
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

// Insert writes the subscription document and then its content documents.
// Without multi-document transactions a failure between the writes leaves
// the subscription without part of its content.
func (ss *subscriptionDocs) Insert(ctx context.Context, sub *entity.RevenueSubscription, content []entity.SubscriptionContent) (*entity.RevenueSubscription, error) {
	now := ss.Now()
	doc := subscriptionDoc{
		PublicId:              sub.PublicId,
		Kind:                  string(sub.Kind),
		Amount:                sub.Amount.String(),
		MaxInvestmentAllowed:  decimalStr(sub.MaxInvestmentAllowed),
		SecondaryMarketAccess: sub.SecondaryMarketAccess,
		MaxProjectCount:       sub.MaxProjectCount,
		MaxProjectGoal:        decimalStr(sub.MaxProjectGoal),
		RefundAllowed:         sub.RefundAllowed,
		RefundDays:            sub.RefundDays,
		CancelAllowed:         sub.CancelAllowed,
		CancelDays:            sub.CancelDays,
		IsActive:              sub.IsActive,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	res, err := ss.col(collSubscriptions).InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert subscription: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)

	for _, c := range content {
		cDoc := subscriptionContentDoc{
			SubscriptionId: doc.ID.Hex(),
			LanguageId:     c.LanguageId,
			Title:          c.Title,
			Description:    c.Description,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if _, err := ss.col(collSubscriptionContent).InsertOne(ctx, cDoc); err != nil {
			return nil, fmt.Errorf("failed to insert subscription content: %w", err)
		}
	}

	return ss.GetByPublicId(ctx, sub.PublicId, "")
}

func (ss *subscriptionDocs) UpdateByPublicId(ctx context.Context, publicId string, upd entity.SubscriptionUpdate) error {
	set := bson.M{"updated_at": ss.Now()}
	if upd.Amount != nil {
		set["amount"] = upd.Amount.String()
	}
	if upd.MaxInvestmentAllowed != nil {
		set["max_investment_allowed"] = upd.MaxInvestmentAllowed.String()
	}
	if upd.SecondaryMarketAccess != nil {
		set["secondary_market_access"] = *upd.SecondaryMarketAccess
	}
	if upd.MaxProjectCount != nil {
		set["max_project_count"] = *upd.MaxProjectCount
	}
	if upd.MaxProjectGoal != nil {
		set["max_project_goal"] = upd.MaxProjectGoal.String()
	}
	if upd.RefundAllowed != nil {
		set["refund_allowed"] = *upd.RefundAllowed
	}
	if upd.RefundDays != nil {
		set["refund_days"] = *upd.RefundDays
	}
	if upd.CancelAllowed != nil {
		set["cancel_allowed"] = *upd.CancelAllowed
	}
	if upd.CancelDays != nil {
		set["cancel_days"] = *upd.CancelDays
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}
	return updateOneByPublicId(ctx, ss.col(collSubscriptions), publicId, set)
}

func (ss *subscriptionDocs) UpsertContent(ctx context.Context, subscriptionId string, content entity.SubscriptionContent) error {
	now := ss.Now()
	_, err := ss.col(collSubscriptionContent).UpdateOne(ctx,
		bson.M{"subscription_id": subscriptionId, "language_id": content.LanguageId},
		bson.M{
			"$set": bson.M{
				"title":       content.Title,
				"description": content.Description,
				"updated_at":  now,
			},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert subscription content: %w", err)
	}
	return nil
}

// DeleteByPublicId removes the subscription and its content documents; the
// content cleanup replaces the relational cascade.
func (ss *subscriptionDocs) DeleteByPublicId(ctx context.Context, publicId string) error {
	doc, err := findOne[subscriptionDoc](ctx, ss.col(collSubscriptions), bson.M{"public_id": publicId})
	if err != nil {
		return err
	}
	if err := deleteOneByPublicId(ctx, ss.col(collSubscriptions), publicId); err != nil {
		return err
	}
	if _, err := ss.col(collSubscriptionContent).DeleteMany(ctx, bson.M{"subscription_id": doc.ID.Hex()}); err != nil {
		return fmt.Errorf("failed to delete subscription content: %w", err)
	}
	return nil
}

func (ss *subscriptionDocs) IncrementUseCount(ctx context.Context, publicId string, delta int) error {
	return adjustUseCount(ctx, ss.col(collSubscriptions), publicId, delta, ss.Now())
}

func (ss *subscriptionDocs) Count(ctx context.Context, filter entity.SubscriptionFilter) (int, error) {
	total, err := ss.col(collSubscriptions).CountDocuments(ctx, subscriptionFilterDoc(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return int(total), nil
}

func (ss *subscriptionDocs) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	res, err := ss.col(collSubscriptions).UpdateMany(ctx,
		bson.M{"public_id": bson.M{"$in": publicIds}},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": ss.Now()}})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk update subscriptions: %w", err)
	}
	return entity.BulkResult{Count: int(res.ModifiedCount)}, nil
}

func (ss *subscriptionDocs) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	skipped, err := publicIdsOf(ctx, ss.col(collSubscriptions), bson.M{
		"public_id": bson.M{"$in": publicIds},
		"use_count": bson.M{"$gt": 0},
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to find in-use subscriptions: %w", err)
	}

	// Collect deletable ids first so content documents can be cleaned up.
	type idDoc struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	deletable, err := findAll[idDoc](ctx, ss.col(collSubscriptions), bson.M{
		"public_id": bson.M{"$in": publicIds},
		"use_count": 0,
	}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to find deletable subscriptions: %w", err)
	}

	res, err := ss.col(collSubscriptions).DeleteMany(ctx, bson.M{
		"public_id": bson.M{"$in": publicIds},
		"use_count": 0,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk delete subscriptions: %w", err)
	}

	if len(deletable) > 0 {
		subIds := make([]string, 0, len(deletable))
		for _, d := range deletable {
			subIds = append(subIds, d.ID.Hex())
		}
		if _, err := ss.col(collSubscriptionContent).DeleteMany(ctx, bson.M{"subscription_id": bson.M{"$in": subIds}}); err != nil {
			return entity.BulkResult{}, fmt.Errorf("failed to delete subscription content: %w", err)
		}
	}
	return entity.BulkResult{Count: int(res.DeletedCount), SkippedIds: skipped}, nil
}
