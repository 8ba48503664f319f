package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

type dropdownDocs struct {
	*MongoStore
}

// Dropdowns returns an object implementing the Dropdowns interface.
func (ms *MongoStore) Dropdowns() dependency.Dropdowns {
	return &dropdownDocs{
		MongoStore: ms,
	}
}

type dropdownDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	PublicId     string             `bson:"public_id"`
	Name         string             `bson:"name"`
	UniqueCode   int64              `bson:"unique_code"`
	DropdownType string             `bson:"dropdown_type"`
	LanguageId   string             `bson:"language_id"`
	IsActive     bool               `bson:"is_active"`
	UseCount     int                `bson:"use_count"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d dropdownDoc) toEntity() entity.DropdownOption {
	return entity.DropdownOption{
		Id:           d.ID.Hex(),
		PublicId:     d.PublicId,
		Name:         d.Name,
		UniqueCode:   d.UniqueCode,
		DropdownType: d.DropdownType,
		LanguageId:   d.LanguageId,
		IsActive:     d.IsActive,
		UseCount:     d.UseCount,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (ds *dropdownDocs) GetByPublicId(ctx context.Context, publicId string) (*entity.DropdownOption, error) {
	doc, err := findOne[dropdownDoc](ctx, ds.col(collDropdowns), bson.M{"public_id": publicId})
	if err != nil {
		return nil, err
	}
	opt := doc.toEntity()
	return &opt, nil
}

func (ds *dropdownDocs) GetByCodeAndLanguage(ctx context.Context, uniqueCode int64, languageId string) (*entity.DropdownOption, error) {
	doc, err := findOne[dropdownDoc](ctx, ds.col(collDropdowns), bson.M{
		"unique_code": uniqueCode,
		"language_id": languageId,
	})
	if err != nil {
		return nil, err
	}
	opt := doc.toEntity()
	return &opt, nil
}

// ListByTypeForLanguage resolves the active options of one dropdown type in
// two steps: the requested-language rows first, then the default-language
// rows of concepts that had no requested-language row.
func (ds *dropdownDocs) ListByTypeForLanguage(ctx context.Context, dropdownType, languageId string) ([]entity.DropdownOption, error) {
	requested, err := findAll[dropdownDoc](ctx, ds.col(collDropdowns), bson.M{
		"dropdown_type": dropdownType,
		"language_id":   languageId,
		"is_active":     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list dropdown options: %w", err)
	}

	covered := make(map[int64]bool, len(requested))
	for _, d := range requested {
		covered[d.UniqueCode] = true
	}

	defaultLang, err := findOne[languageDoc](ctx, ds.col(collLanguages), bson.M{"is_default": true})
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if err == nil && defaultLang.ID.Hex() != languageId {
		fallback, err := findAll[dropdownDoc](ctx, ds.col(collDropdowns), bson.M{
			"dropdown_type": dropdownType,
			"language_id":   defaultLang.ID.Hex(),
			"is_active":     true,
			"unique_code":   bson.M{"$nin": codesOf(requested)},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list fallback dropdown options: %w", err)
		}
		requested = append(requested, fallback...)
	}

	opts := make([]entity.DropdownOption, 0, len(requested))
	for _, d := range requested {
		opts = append(opts, d.toEntity())
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Name < opts[j].Name })
	return opts, nil
}

func codesOf(docs []dropdownDoc) []int64 {
	codes := make([]int64, 0, len(docs))
	for _, d := range docs {
		codes = append(codes, d.UniqueCode)
	}
	return codes
}

func dropdownFilterDoc(f entity.DropdownFilter) bson.M {
	filter := bson.M{}
	if f.DropdownType != "" {
		filter["dropdown_type"] = f.DropdownType
	}
	if f.LanguageId != "" {
		filter["language_id"] = f.LanguageId
	}
	if f.UniqueCode != nil {
		filter["unique_code"] = *f.UniqueCode
	}
	if f.IsActive != nil {
		filter["is_active"] = *f.IsActive
	}
	if f.Search != "" {
		filter["name"] = containsRegex(f.Search)
	}
	return filter
}

func (ds *dropdownDocs) List(ctx context.Context, filter entity.DropdownFilter, opts entity.ListOptions) ([]entity.DropdownOption, entity.Pagination, error) {
	opts.Normalize()
	sortDoc := bson.D{{Key: "dropdown_type", Value: 1}, {Key: "name", Value: 1}}
	docs, total, err := findPage[dropdownDoc](ctx, ds.col(collDropdowns), dropdownFilterDoc(filter), sortDoc, opts)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to list dropdown options: %w", err)
	}

	result := make([]entity.DropdownOption, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.toEntity())
	}
	return result, entity.NewPagination(total, opts), nil
}

func (ds *dropdownDocs) Insert(ctx context.Context, opt *entity.DropdownOption) (*entity.DropdownOption, error) {
	now := ds.Now()
	doc := dropdownDoc{
		PublicId:     opt.PublicId,
		Name:         opt.Name,
		UniqueCode:   opt.UniqueCode,
		DropdownType: opt.DropdownType,
		LanguageId:   opt.LanguageId,
		IsActive:     opt.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	res, err := ds.col(collDropdowns).InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert dropdown option: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	inserted := doc.toEntity()
	return &inserted, nil
}

func (ds *dropdownDocs) UpdateByPublicId(ctx context.Context, publicId string, upd entity.DropdownUpdate) error {
	set := bson.M{"updated_at": ds.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}
	return updateOneByPublicId(ctx, ds.col(collDropdowns), publicId, set)
}

func (ds *dropdownDocs) DeleteByPublicId(ctx context.Context, publicId string) error {
	return deleteOneByPublicId(ctx, ds.col(collDropdowns), publicId)
}

func (ds *dropdownDocs) IncrementUseCount(ctx context.Context, publicId string, delta int) error {
	return adjustUseCount(ctx, ds.col(collDropdowns), publicId, delta, ds.Now())
}

func (ds *dropdownDocs) Count(ctx context.Context, filter entity.DropdownFilter) (int, error) {
	total, err := ds.col(collDropdowns).CountDocuments(ctx, dropdownFilterDoc(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count dropdown options: %w", err)
	}
	return int(total), nil
}

func (ds *dropdownDocs) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	res, err := ds.col(collDropdowns).UpdateMany(ctx,
		bson.M{"public_id": bson.M{"$in": publicIds}},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": ds.Now()}})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk update dropdown options: %w", err)
	}
	return entity.BulkResult{Count: int(res.ModifiedCount)}, nil
}

func (ds *dropdownDocs) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	skipped, err := publicIdsOf(ctx, ds.col(collDropdowns), bson.M{
		"public_id": bson.M{"$in": publicIds},
		"use_count": bson.M{"$gt": 0},
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to find in-use dropdown options: %w", err)
	}

	res, err := ds.col(collDropdowns).DeleteMany(ctx, bson.M{
		"public_id": bson.M{"$in": publicIds},
		"use_count": 0,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk delete dropdown options: %w", err)
	}
	return entity.BulkResult{Count: int(res.DeletedCount), SkippedIds: skipped}, nil
}
