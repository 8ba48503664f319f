package docstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

type currencyDocs struct {
	*MongoStore
}

// Currencies returns an object implementing the Currencies interface.
func (ms *MongoStore) Currencies() dependency.Currencies {
	return &currencyDocs{
		MongoStore: ms,
	}
}

type currencyDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	PublicId  string             `bson:"public_id"`
	Name      string             `bson:"name"`
	Code      string             `bson:"code"`
	Symbol    string             `bson:"symbol"`
	IsActive  bool               `bson:"is_active"`
	UseCount  int                `bson:"use_count"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d currencyDoc) toEntity() entity.Currency {
	return entity.Currency{
		Id:        d.ID.Hex(),
		PublicId:  d.PublicId,
		Name:      d.Name,
		Code:      d.Code,
		Symbol:    d.Symbol,
		IsActive:  d.IsActive,
		UseCount:  d.UseCount,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (cs *currencyDocs) GetByPublicId(ctx context.Context, publicId string) (*entity.Currency, error) {
	doc, err := findOne[currencyDoc](ctx, cs.col(collCurrencies), bson.M{"public_id": publicId})
	if err != nil {
		return nil, err
	}
	c := doc.toEntity()
	return &c, nil
}

func (cs *currencyDocs) GetByCode(ctx context.Context, code string) (*entity.Currency, error) {
	doc, err := findOne[currencyDoc](ctx, cs.col(collCurrencies), bson.M{"code": strings.ToUpper(code)})
	if err != nil {
		return nil, err
	}
	c := doc.toEntity()
	return &c, nil
}

func currencyFilterDoc(f entity.CurrencyFilter) bson.M {
	filter := bson.M{}
	if f.IsActive != nil {
		filter["is_active"] = *f.IsActive
	}
	if f.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": containsRegex(f.Search)},
			bson.M{"code": containsRegex(f.Search)},
		}
	}
	return filter
}

func (cs *currencyDocs) List(ctx context.Context, filter entity.CurrencyFilter, opts entity.ListOptions) ([]entity.Currency, entity.Pagination, error) {
	opts.Normalize()
	sort := bson.D{{Key: "code", Value: 1}}
	docs, total, err := findPage[currencyDoc](ctx, cs.col(collCurrencies), currencyFilterDoc(filter), sort, opts)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to list currencies: %w", err)
	}

	currencies := make([]entity.Currency, 0, len(docs))
	for _, d := range docs {
		currencies = append(currencies, d.toEntity())
	}
	return currencies, entity.NewPagination(total, opts), nil
}

func (cs *currencyDocs) Insert(ctx context.Context, c *entity.Currency) (*entity.Currency, error) {
	now := cs.Now()
	doc := currencyDoc{
		PublicId:  c.PublicId,
		Name:      c.Name,
		Code:      strings.ToUpper(c.Code),
		Symbol:    c.Symbol,
		IsActive:  c.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := cs.col(collCurrencies).InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert currency: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	inserted := doc.toEntity()
	return &inserted, nil
}

func (cs *currencyDocs) UpdateByPublicId(ctx context.Context, publicId string, upd entity.CurrencyUpdate) error {
	set := bson.M{"updated_at": cs.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Code != nil {
		set["code"] = strings.ToUpper(*upd.Code)
	}
	if upd.Symbol != nil {
		set["symbol"] = *upd.Symbol
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}
	return updateOneByPublicId(ctx, cs.col(collCurrencies), publicId, set)
}

func (cs *currencyDocs) DeleteByPublicId(ctx context.Context, publicId string) error {
	return deleteOneByPublicId(ctx, cs.col(collCurrencies), publicId)
}

func (cs *currencyDocs) IncrementUseCount(ctx context.Context, publicId string, delta int) error {
	return adjustUseCount(ctx, cs.col(collCurrencies), publicId, delta, cs.Now())
}

func (cs *currencyDocs) Count(ctx context.Context, filter entity.CurrencyFilter) (int, error) {
	total, err := cs.col(collCurrencies).CountDocuments(ctx, currencyFilterDoc(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count currencies: %w", err)
	}
	return int(total), nil
}

func (cs *currencyDocs) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	res, err := cs.col(collCurrencies).UpdateMany(ctx,
		bson.M{"public_id": bson.M{"$in": publicIds}},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": cs.Now()}})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk update currencies: %w", err)
	}
	return entity.BulkResult{Count: int(res.ModifiedCount)}, nil
}

func (cs *currencyDocs) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	skipped, err := publicIdsOf(ctx, cs.col(collCurrencies), bson.M{
		"public_id": bson.M{"$in": publicIds},
		"use_count": bson.M{"$gt": 0},
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to find in-use currencies: %w", err)
	}

	res, err := cs.col(collCurrencies).DeleteMany(ctx, bson.M{
		"public_id": bson.M{"$in": publicIds},
		"use_count": 0,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk delete currencies: %w", err)
	}
	return entity.BulkResult{Count: int(res.DeletedCount), SkippedIds: skipped}, nil
}
