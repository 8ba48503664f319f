// Package docstore implements the repository interfaces on MongoDB. It
// mirrors the postgres backend's semantics document-by-document; multi-row
// writes that the relational backend wraps in a transaction are performed as
// sequential writes here.
package docstore

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

type Config struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// MongoStore implements dependency.Repository on a mongo database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

const (
	collLanguages           = "language"
	collCountries           = "country"
	collCurrencies          = "currency"
	collDropdowns           = "dropdown_option"
	collEmailTemplates      = "email_template"
	collSubscriptions       = "revenue_subscription"
	collSubscriptionContent = "subscription_content"
	collAdmins              = "admins"
	collMailOutbox          = "mail_outbox"
)

const connectTimeout = 10 * time.Second

// New connects to mongo, pings the deployment and ensures the unique
// indexes the module relies on.
func New(ctx context.Context, cfg Config) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri is empty")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo database name is empty")
	}

	ctxConnect, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctxConnect, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctxConnect, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	ms := &MongoStore{
		client: client,
		db:     client.Database(cfg.Database),
	}
	if err := ms.ensureIndexes(ctxConnect); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}
	return ms, nil
}

func (ms *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		collLanguages: {
			{Keys: bson.D{{Key: "public_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "folder_code", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "iso2", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "iso3", Value: 1}}, Options: unique},
		},
		collCountries: {
			{Keys: bson.D{{Key: "public_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "iso2", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "iso3", Value: 1}}, Options: unique},
		},
		collCurrencies: {
			{Keys: bson.D{{Key: "public_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique},
		},
		collDropdowns: {
			{Keys: bson.D{{Key: "public_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "unique_code", Value: 1}, {Key: "language_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "dropdown_type", Value: 1}}},
		},
		collEmailTemplates: {
			{Keys: bson.D{{Key: "public_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "task", Value: 1}, {Key: "language_id", Value: 1}}, Options: unique},
		},
		collSubscriptions: {
			{Keys: bson.D{{Key: "public_id", Value: 1}}, Options: unique},
		},
		collSubscriptionContent: {
			{Keys: bson.D{{Key: "subscription_id", Value: 1}, {Key: "language_id", Value: 1}}, Options: unique},
		},
		collAdmins: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		},
	}
	for coll, models := range indexes {
		if _, err := ms.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("collection %s: %w", coll, err)
		}
	}
	return nil
}

func (ms *MongoStore) col(name string) *mongo.Collection {
	return ms.db.Collection(name)
}

// Tx runs the function against the same store. Mongo standalone deployments
// have no multi-document transactions, so grouped writes are sequential and
// a mid-sequence failure can leave a partial result.
func (ms *MongoStore) Tx(ctx context.Context, f func(context.Context, dependency.Repository) error) error {
	return f(ctx, ms)
}

func (ms *MongoStore) Now() time.Time {
	return time.Now()
}

func (ms *MongoStore) Ping(ctx context.Context) error {
	return ms.client.Ping(ctx, readpref.Primary())
}

func (ms *MongoStore) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	_ = ms.client.Disconnect(ctx)
}

func (ms *MongoStore) IsErrUniqueViolation(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// oidFromHex parses the hex form of a document id; an unparsable value can
// never match a stored id, so it maps to not found.
func oidFromHex(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.ErrNotFound
	}
	return oid, nil
}

// containsRegex builds a case-insensitive substring match.
func containsRegex(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

// findOne decodes a single document, translating the missing-document error
// into apperr.ErrNotFound.
func findOne[D any](ctx context.Context, coll *mongo.Collection, filter bson.M) (D, error) {
	var doc D
	err := coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return doc, apperr.ErrNotFound
		}
		return doc, fmt.Errorf("find one: %w", err)
	}
	return doc, nil
}

func findAll[D any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]D, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	defer cur.Close(ctx)

	var docs []D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cursor decode: %w", err)
	}
	return docs, nil
}

// findPage counts the filtered set and returns one page of it.
func findPage[D any](ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D, opts entity.ListOptions) ([]D, int, error) {
	opts.Normalize()

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	findOpts := options.Find().
		SetSort(sort).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit))
	docs, err := findAll[D](ctx, coll, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	return docs, int(total), nil
}

// updateOneByPublicId applies a $set update and maps a zero match count to
// not found.
func updateOneByPublicId(ctx context.Context, coll *mongo.Collection, publicId string, set bson.M) error {
	res, err := coll.UpdateOne(ctx, bson.M{"public_id": publicId}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update one: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func deleteOneByPublicId(ctx context.Context, coll *mongo.Collection, publicId string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"public_id": publicId})
	if err != nil {
		return fmt.Errorf("delete one: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// adjustUseCount applies a clamped-at-zero increment through a pipeline
// update.
func adjustUseCount(ctx context.Context, coll *mongo.Collection, publicId string, delta int, now time.Time) error {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"use_count":  bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{"$use_count", delta}}}},
			"updated_at": now,
		}}},
	}
	res, err := coll.UpdateOne(ctx, bson.M{"public_id": publicId}, pipeline)
	if err != nil {
		return fmt.Errorf("update use count: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// publicIdsOf collects public ids of documents matching the filter; used to
// report skipped members of bulk deletes.
func publicIdsOf(ctx context.Context, coll *mongo.Collection, filter bson.M) ([]string, error) {
	type idDoc struct {
		PublicId string `bson:"public_id"`
	}
	docs, err := findAll[idDoc](ctx, coll, filter, options.Find().SetProjection(bson.M{"public_id": 1}))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.PublicId)
	}
	return ids, nil
}
