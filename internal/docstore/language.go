package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

type languageDocs struct {
	*MongoStore
}

// Languages returns an object implementing the Languages interface.
func (ms *MongoStore) Languages() dependency.Languages {
	return &languageDocs{
		MongoStore: ms,
	}
}

type languageDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	PublicId   string             `bson:"public_id"`
	Name       string             `bson:"name"`
	FolderCode string             `bson:"folder_code"`
	ISO2       string             `bson:"iso2"`
	ISO3       string             `bson:"iso3"`
	FlagImage  string             `bson:"flag_image"`
	Direction  string             `bson:"direction"`
	IsDefault  bool               `bson:"is_default"`
	IsActive   bool               `bson:"is_active"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (d languageDoc) toEntity() entity.Language {
	return entity.Language{
		Id:         d.ID.Hex(),
		PublicId:   d.PublicId,
		Name:       d.Name,
		FolderCode: d.FolderCode,
		ISO2:       d.ISO2,
		ISO3:       d.ISO3,
		FlagImage:  d.FlagImage,
		Direction:  entity.TextDirection(d.Direction),
		IsDefault:  d.IsDefault,
		IsActive:   d.IsActive,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (ls *languageDocs) getOne(ctx context.Context, filter bson.M) (*entity.Language, error) {
	doc, err := findOne[languageDoc](ctx, ls.col(collLanguages), filter)
	if err != nil {
		return nil, err
	}
	lang := doc.toEntity()
	return &lang, nil
}

func (ls *languageDocs) GetByPublicId(ctx context.Context, publicId string) (*entity.Language, error) {
	return ls.getOne(ctx, bson.M{"public_id": publicId})
}

func (ls *languageDocs) GetById(ctx context.Context, id string) (*entity.Language, error) {
	oid, err := oidFromHex(id)
	if err != nil {
		return nil, err
	}
	return ls.getOne(ctx, bson.M{"_id": oid})
}

func (ls *languageDocs) GetByFolderCode(ctx context.Context, folderCode string) (*entity.Language, error) {
	return ls.getOne(ctx, bson.M{"folder_code": folderCode})
}

func (ls *languageDocs) GetDefault(ctx context.Context) (*entity.Language, error) {
	return ls.getOne(ctx, bson.M{"is_default": true})
}

func (ls *languageDocs) ListActive(ctx context.Context) ([]entity.Language, error) {
	docs, err := findAll[languageDoc](ctx, ls.col(collLanguages), bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list active languages: %w", err)
	}
	langs := make([]entity.Language, 0, len(docs))
	for _, d := range docs {
		langs = append(langs, d.toEntity())
	}
	return langs, nil
}

func languageFilterDoc(f entity.LanguageFilter) bson.M {
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
			bson.M{"folder_code": containsRegex(f.Search)},
		}
	}
	return filter
}

func (ls *languageDocs) List(ctx context.Context, filter entity.LanguageFilter, opts entity.ListOptions) ([]entity.Language, entity.Pagination, error) {
	opts.Normalize()
	sort := bson.D{{Key: "is_default", Value: -1}, {Key: "name", Value: 1}}
	docs, total, err := findPage[languageDoc](ctx, ls.col(collLanguages), languageFilterDoc(filter), sort, opts)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to list languages: %w", err)
	}

	langs := make([]entity.Language, 0, len(docs))
	for _, d := range docs {
		langs = append(langs, d.toEntity())
	}
	return langs, entity.NewPagination(total, opts), nil
}

func (ls *languageDocs) Insert(ctx context.Context, lang *entity.Language) (*entity.Language, error) {
	now := ls.Now()
	doc := languageDoc{
		PublicId:   lang.PublicId,
		Name:       lang.Name,
		FolderCode: lang.FolderCode,
		ISO2:       lang.ISO2,
		ISO3:       lang.ISO3,
		FlagImage:  lang.FlagImage,
		Direction:  string(lang.Direction),
		IsDefault:  lang.IsDefault,
		IsActive:   lang.IsActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	res, err := ls.col(collLanguages).InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert language: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	inserted := doc.toEntity()
	return &inserted, nil
}

func (ls *languageDocs) UpdateByPublicId(ctx context.Context, publicId string, upd entity.LanguageUpdate) error {
	set := bson.M{"updated_at": ls.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.FolderCode != nil {
		set["folder_code"] = *upd.FolderCode
	}
	if upd.ISO2 != nil {
		set["iso2"] = *upd.ISO2
	}
	if upd.ISO3 != nil {
		set["iso3"] = *upd.ISO3
	}
	if upd.FlagImage != nil {
		set["flag_image"] = *upd.FlagImage
	}
	if upd.Direction != nil {
		set["direction"] = string(*upd.Direction)
	}
	if upd.IsDefault != nil {
		set["is_default"] = *upd.IsDefault
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}
	return updateOneByPublicId(ctx, ls.col(collLanguages), publicId, set)
}

func (ls *languageDocs) ClearDefault(ctx context.Context) error {
	_, err := ls.col(collLanguages).UpdateMany(ctx,
		bson.M{"is_default": true},
		bson.M{"$set": bson.M{"is_default": false, "updated_at": ls.Now()}})
	if err != nil {
		return fmt.Errorf("failed to clear default language: %w", err)
	}
	return nil
}

func (ls *languageDocs) DeleteByPublicId(ctx context.Context, publicId string) error {
	return deleteOneByPublicId(ctx, ls.col(collLanguages), publicId)
}

func (ls *languageDocs) Count(ctx context.Context, filter entity.LanguageFilter) (int, error) {
	total, err := ls.col(collLanguages).CountDocuments(ctx, languageFilterDoc(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count languages: %w", err)
	}
	return int(total), nil
}

func (ls *languageDocs) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	res, err := ls.col(collLanguages).UpdateMany(ctx,
		bson.M{"public_id": bson.M{"$in": publicIds}},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": ls.Now()}})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk update languages: %w", err)
	}
	return entity.BulkResult{Count: int(res.ModifiedCount)}, nil
}

// BulkDelete removes the listed languages except the default one, which is
// reported back in SkippedIds.
func (ls *languageDocs) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	if len(publicIds) == 0 {
		return entity.BulkResult{}, nil
	}
	skipped, err := publicIdsOf(ctx, ls.col(collLanguages), bson.M{
		"public_id":  bson.M{"$in": publicIds},
		"is_default": true,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to find default languages: %w", err)
	}

	res, err := ls.col(collLanguages).DeleteMany(ctx, bson.M{
		"public_id":  bson.M{"$in": publicIds},
		"is_default": false,
	})
	if err != nil {
		return entity.BulkResult{}, fmt.Errorf("failed to bulk delete languages: %w", err)
	}
	return entity.BulkResult{Count: int(res.DeletedCount), SkippedIds: skipped}, nil
}
