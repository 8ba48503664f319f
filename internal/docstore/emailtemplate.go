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

type emailTemplateDocs struct {
	*MongoStore
}

// EmailTemplates returns an object implementing the EmailTemplates interface.
func (ms *MongoStore) EmailTemplates() dependency.EmailTemplates {
	return &emailTemplateDocs{
		MongoStore: ms,
	}
}

type emailTemplateDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	PublicId   string             `bson:"public_id"`
	Task       string             `bson:"task"`
	LanguageId string             `bson:"language_id"`
	FromEmail  string             `bson:"from_email"`
	ReplyTo    string             `bson:"reply_to"`
	FromName   string             `bson:"from_name"`
	Subject    string             `bson:"subject"`
	BodyHTML   string             `bson:"body_html"`
	IsActive   bool               `bson:"is_active"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (d emailTemplateDoc) toEntity() entity.EmailTemplate {
	return entity.EmailTemplate{
		Id:         d.ID.Hex(),
		PublicId:   d.PublicId,
		Task:       d.Task,
		LanguageId: d.LanguageId,
		FromEmail:  d.FromEmail,
		ReplyTo:    d.ReplyTo,
		FromName:   d.FromName,
		Subject:    d.Subject,
		BodyHTML:   d.BodyHTML,
		IsActive:   d.IsActive,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (es *emailTemplateDocs) GetByPublicId(ctx context.Context, publicId string) (*entity.EmailTemplate, error) {
	doc, err := findOne[emailTemplateDoc](ctx, es.col(collEmailTemplates), bson.M{"public_id": publicId})
	if err != nil {
		return nil, err
	}
	tpl := doc.toEntity()
	return &tpl, nil
}

func (es *emailTemplateDocs) GetByTaskAndLanguage(ctx context.Context, task, languageId string) (*entity.EmailTemplate, error) {
	doc, err := findOne[emailTemplateDoc](ctx, es.col(collEmailTemplates), bson.M{
		"task":        task,
		"language_id": languageId,
	})
	if err != nil {
		return nil, err
	}
	tpl := doc.toEntity()
	return &tpl, nil
}

func (es *emailTemplateDocs) ListByTask(ctx context.Context, task string) ([]entity.EmailTemplate, error) {
	docs, err := findAll[emailTemplateDoc](ctx, es.col(collEmailTemplates), bson.M{"task": task})
	if err != nil {
		return nil, fmt.Errorf("failed to list templates by task: %w", err)
	}
	tpls := make([]entity.EmailTemplate, 0, len(docs))
	for _, d := range docs {
		tpls = append(tpls, d.toEntity())
	}
	return tpls, nil
}

func emailTemplateFilterDoc(f entity.EmailTemplateFilter) bson.M {
	filter := bson.M{}
	if f.Task != "" {
		filter["task"] = f.Task
	}
	if f.LanguageId != "" {
		filter["language_id"] = f.LanguageId
	}
	if f.IsActive != nil {
		filter["is_active"] = *f.IsActive
	}
	if f.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"task": containsRegex(f.Search)},
			bson.M{"subject": containsRegex(f.Search)},
		}
	}
	return filter
}

func (es *emailTemplateDocs) List(ctx context.Context, filter entity.EmailTemplateFilter, opts entity.ListOptions) ([]entity.EmailTemplate, entity.Pagination, error) {
	opts.Normalize()
	sort := bson.D{{Key: "task", Value: 1}, {Key: "language_id", Value: 1}}
	docs, total, err := findPage[emailTemplateDoc](ctx, es.col(collEmailTemplates), emailTemplateFilterDoc(filter), sort, opts)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to list email templates: %w", err)
	}

	tpls := make([]entity.EmailTemplate, 0, len(docs))
	for _, d := range docs {
		tpls = append(tpls, d.toEntity())
	}
	return tpls, entity.NewPagination(total, opts), nil
}

func (es *emailTemplateDocs) Insert(ctx context.Context, tpl *entity.EmailTemplate) (*entity.EmailTemplate, error) {
	now := es.Now()
	doc := emailTemplateDoc{
		PublicId:   tpl.PublicId,
		Task:       tpl.Task,
		LanguageId: tpl.LanguageId,
		FromEmail:  tpl.FromEmail,
		ReplyTo:    tpl.ReplyTo,
		FromName:   tpl.FromName,
		Subject:    tpl.Subject,
		BodyHTML:   tpl.BodyHTML,
		IsActive:   tpl.IsActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	res, err := es.col(collEmailTemplates).InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert email template: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	inserted := doc.toEntity()
	return &inserted, nil
}

// InsertMany creates one document per template. Writes are sequential; a
// failure leaves earlier documents in place and returns the error.
func (es *emailTemplateDocs) InsertMany(ctx context.Context, tpls []entity.EmailTemplate) ([]entity.EmailTemplate, error) {
	inserted := make([]entity.EmailTemplate, 0, len(tpls))
	for i := range tpls {
		tpl, err := es.Insert(ctx, &tpls[i])
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, *tpl)
	}
	return inserted, nil
}

func (es *emailTemplateDocs) UpdateByPublicId(ctx context.Context, publicId string, upd entity.EmailTemplateUpdate) error {
	set := bson.M{"updated_at": es.Now()}
	if upd.FromEmail != nil {
		set["from_email"] = *upd.FromEmail
	}
	if upd.ReplyTo != nil {
		set["reply_to"] = *upd.ReplyTo
	}
	if upd.FromName != nil {
		set["from_name"] = *upd.FromName
	}
	if upd.Subject != nil {
		set["subject"] = *upd.Subject
	}
	if upd.BodyHTML != nil {
		set["body_html"] = *upd.BodyHTML
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}
	return updateOneByPublicId(ctx, es.col(collEmailTemplates), publicId, set)
}

// DeleteByTask removes every language variant sharing the task and returns
// the number removed.
func (es *emailTemplateDocs) DeleteByTask(ctx context.Context, task string) (int, error) {
	res, err := es.col(collEmailTemplates).DeleteMany(ctx, bson.M{"task": task})
	if err != nil {
		return 0, fmt.Errorf("failed to delete templates by task: %w", err)
	}
	return int(res.DeletedCount), nil
}

func (es *emailTemplateDocs) UpdateStatusByTask(ctx context.Context, task string, active bool) (int, error) {
	res, err := es.col(collEmailTemplates).UpdateMany(ctx,
		bson.M{"task": task},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": es.Now()}})
	if err != nil {
		return 0, fmt.Errorf("failed to update template status by task: %w", err)
	}
	return int(res.MatchedCount), nil
}

func (es *emailTemplateDocs) Count(ctx context.Context, filter entity.EmailTemplateFilter) (int, error) {
	total, err := es.col(collEmailTemplates).CountDocuments(ctx, emailTemplateFilterDoc(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count email templates: %w", err)
	}
	return int(total), nil
}
