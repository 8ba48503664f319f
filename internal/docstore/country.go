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

type countryDocs struct {
	*MongoStore
}

// Countries returns an object implementing the Countries interface.
func (ms *MongoStore) Countries() dependency.Countries {
	return &countryDocs{
		MongoStore: ms,
	}
}

type countryDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	PublicId  string             `bson:"public_id"`
	Name      string             `bson:"name"`
	ISO2      string             `bson:"iso2"`
	ISO3      string             `bson:"iso3"`
	FlagImage string             `bson:"flag_image"`
	IsDefault bool               `bson:"is_default"`
	IsActive  bool               `bson:"is_active"`
	UseCount  int                `bson:"use_count"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d countryDoc) toEntity() entity.Country {
	return entity.Country{
		Id:        d.ID.Hex(),
		PublicId:  d.PublicId,
		Name:      d.Name,
		ISO2:      d.ISO2,
		ISO3:      d.ISO3,
		FlagImage: d.FlagImage,
		IsDefault: d.IsDefault,
		IsActive:  d.IsActive,
		UseCount:  d.UseCount,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (cs *countryDocs) GetByPublicId(ctx context.Context, publicId string) (*entity.Country, error) {
	doc, err := findOne[countryDoc](ctx, cs.col(collCountries), bson.M{"public_id": publicId})
	if err != nil {
		return nil, err
	}
	c := doc.toEntity()
	return &c, nil
}

func (cs *countryDocs) GetByISO(ctx context.Context, code string) (*entity.Country, error) {
	code = strings.ToUpper(code)
	doc, err := findOne[countryDoc](ctx, cs.col(collCountries), bson.M{
		"$or": bson.A{bson.M{"iso2": code}, bson.M{"iso3": code}},
	})
	if err != nil {
		return nil, err
	}
	c := doc.toEntity()
	return &c, nil
}

func countryFilterDoc(f entity.CountryFilter) bson.M {
	filter := bson.M{}
	if f.IsActive != nil {
		filter["is_active"] = *f.IsActive
	}
	if f.IsDefault != nil {
		filter["is_default"] = *f.IsDefault
	}
	if f.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": containsRegex(f.Search)},
			bson.M{"iso2": containsRegex(f.Search)},
			bson.M{"iso3": containsRegex(f.Search)},
		}
	}
	return filter
}

func (cs *countryDocs) List(ctx context.Context, filter entity.CountryFilter, opts entity.ListOptions) ([]entity.Country, entity.Pagination, error) {
	opts.Normalize()
	sort := bson.D{{Key: "is_default", Value: -1}, {Key: "name", Value: 1}}
	docs, total, err := findPage[countryDoc](ctx, cs.col(collCountries), countryFilterDoc(filter), sort, opts)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to list countries: %w", err)
	}

	countries := make([]entity.Country, 0, len(docs))
	for _, d := range docs {
		countries = append(countries, d.toEntity())
	}
	return countries, entity.NewPagination(total, opts), nil
}

func (cs *countryDocs) Insert(ctx context.Context, c *entity.Country) (*entity.Country, error) {
	now := cs.Now()
	doc := countryDoc{
		PublicId:  c.PublicId,
		Name:      c.Name,
		ISO2:      strings.ToUpper(c.ISO2),
		ISO3:      strings.ToUpper(c.ISO3),
		FlagImage: c.FlagImage,
		IsDefault: c.IsDefault,
		IsActive:  c.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := cs.col(collCountries).InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert country: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	inserted := doc.toEntity()
	return &inserted, nil
}

func (cs *countryDocs) UpdateByPublicId(ctx context.Context, publicId string, upd entity.CountryUpdate) error {
	set := bson.M{"updated_at": cs.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.ISO2 != nil {
		set["iso2"] = strings.ToUpper(*upd.ISO2)
	}
	if upd.ISO3 != nil {
		set["iso3"] = strings.ToUpper(*upd.ISO3)
	}
	if upd.FlagImage != nil {
		set["flag_image"] = *upd.FlagImage
	}
	if upd.IsDefault != nil {
		set["is_default"] = *upd.IsDefault
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}
	return updateOneByPublicId(ctx, cs.col(collCountries), publicId, set)
}

func (cs *countryDocs) ClearDefault(ctx context.Context) error {
	_, err := cs.col(collCountries).UpdateMany(ctx,
		bson.M{"is_default": true},
		bson.M{"$set": bson.M{"is_default": false, "updated_at": cs.Now()}})
	if err != nil {
		return fmt.Errorf("failed to clear default country: %w", err)
	}
	return nil
}

func (cs *countryDocs) DeleteByPublicId(ctx context.Context, publicId string) error {
	return deleteOneByPublicId(ctx, cs.col(collCountries), publicId)
}

func (cs *countryDocs) IncrementUseCount(ctx context.Context, publicId string, delta int) error {
	return adjustUseCount(ctx, cs.col(collCountries), publicId, delta, cs.Now())
}

func (cs *countryDocs) Count(ctx context.Context, filter entity.CountryFilter) (int, error) {
	total, err := cs.col(collCountries).CountDocuments(ctx, countryFilterDoc(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count countries: %w", err)
	}
	return int(total), nil
}

func (cs *countryDocs) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	res, err := cs.col(collCountries).UpdateMany(ctx,
		bson.M{"public_id": bson.M{"$in": publicIds}},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": cs.Now()}})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk update countries: %w", err)
	}
	return entity.BulkResult{Count: int(res.ModifiedCount)}, nil
}

// BulkDelete removes the listed countries, skipping the default and any
// in-use ones.
func (cs *countryDocs) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	skipped, err := publicIdsOf(ctx, cs.col(collCountries), bson.M{
		"public_id": bson.M{"$in": publicIds},
		"$or":       bson.A{bson.M{"is_default": true}, bson.M{"use_count": bson.M{"$gt": 0}}},
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to find blocked countries: %w", err)
	}

	res, err := cs.col(collCountries).DeleteMany(ctx, bson.M{
		"public_id":  bson.M{"$in": publicIds},
		"is_default": false,
		"use_count":  0,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk delete countries: %w", err)
	}
	return entity.BulkResult{Count: int(res.DeletedCount), SkippedIds: skipped}, nil
}
