package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

type mailDocs struct {
	*MongoStore
}

// Mail returns an object implementing the Mail interface.
func (ms *MongoStore) Mail() dependency.Mail {
	return &mailDocs{
		MongoStore: ms,
	}
}

type mailDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	To        string             `bson:"to_email"`
	FromEmail string             `bson:"from_email"`
	FromName  string             `bson:"from_name"`
	ReplyTo   string             `bson:"reply_to"`
	Subject   string             `bson:"subject"`
	BodyHTML  string             `bson:"body_html"`
	Sent      bool               `bson:"sent"`
	SentAt    *time.Time         `bson:"sent_at,omitempty"`
	ErrMsg    string             `bson:"err_msg"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d mailDoc) toEntity() entity.MailRecord {
	return entity.MailRecord{
		Id:        d.ID.Hex(),
		To:        d.To,
		FromEmail: d.FromEmail,
		FromName:  d.FromName,
		ReplyTo:   d.ReplyTo,
		Subject:   d.Subject,
		BodyHTML:  d.BodyHTML,
		Sent:      d.Sent,
		SentAt:    d.SentAt,
		ErrMsg:    d.ErrMsg,
		CreatedAt: d.CreatedAt,
	}
}

func (md *mailDocs) AddMail(ctx context.Context, rec *entity.MailRecord) (string, error) {
	res, err := md.col(collMailOutbox).InsertOne(ctx, mailDoc{
		To:        rec.To,
		FromEmail: rec.FromEmail,
		FromName:  rec.FromName,
		ReplyTo:   rec.ReplyTo,
		Subject:   rec.Subject,
		BodyHTML:  rec.BodyHTML,
		CreatedAt: md.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to add mail: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (md *mailDocs) GetAllUnsent(ctx context.Context, withError bool) ([]entity.MailRecord, error) {
	filter := bson.M{"sent": false}
	if !withError {
		filter["err_msg"] = ""
	}
	docs, err := findAll[mailDoc](ctx, md.col(collMailOutbox), filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get unsent mail: %w", err)
	}

	recs := make([]entity.MailRecord, 0, len(docs))
	for _, d := range docs {
		recs = append(recs, d.toEntity())
	}
	return recs, nil
}

func (md *mailDocs) UpdateSent(ctx context.Context, id string) error {
	oid, err := oidFromHex(id)
	if err != nil {
		return err
	}
	now := md.Now()
	res, err := md.col(collMailOutbox).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"sent": true, "sent_at": now, "err_msg": ""}})
	if err != nil {
		return fmt.Errorf("failed to mark mail sent: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("mail record not found: %s", id)
	}
	return nil
}

func (md *mailDocs) AddError(ctx context.Context, id string, errMsg string) error {
	oid, err := oidFromHex(id)
	if err != nil {
		return err
	}
	res, err := md.col(collMailOutbox).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"err_msg": errMsg}})
	if err != nil {
		return fmt.Errorf("failed to store mail error: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("mail record not found: %s", id)
	}
	return nil
}
