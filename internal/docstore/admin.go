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

type adminDocs struct {
	*MongoStore
}

// Admin returns an object implementing the Admin interface.
func (ms *MongoStore) Admin() dependency.Admin {
	return &adminDocs{
		MongoStore: ms,
	}
}

type adminDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (as *adminDocs) AddAdmin(ctx context.Context, un, pwHash string) error {
	_, err := as.col(collAdmins).InsertOne(ctx, adminDoc{
		Username:     un,
		PasswordHash: pwHash,
		CreatedAt:    as.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to add admin: %w", err)
	}
	return nil
}

func (as *adminDocs) DeleteAdmin(ctx context.Context, username string) error {
	res, err := as.col(collAdmins).DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("admin not found: %s", username)
	}
	return nil
}

func (as *adminDocs) ChangePassword(ctx context.Context, un, newHash string) error {
	res, err := as.col(collAdmins).UpdateOne(ctx,
		bson.M{"username": un},
		bson.M{"$set": bson.M{"password_hash": newHash}})
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("admin not found: %s", un)
	}
	return nil
}

func (as *adminDocs) PasswordHashByUsername(ctx context.Context, un string) (string, error) {
	admin, err := as.GetAdminByUsername(ctx, un)
	if err != nil {
		return "", err
	}
	return admin.PasswordHash, nil
}

func (as *adminDocs) GetAdminByUsername(ctx context.Context, username string) (*entity.Admin, error) {
	doc, err := findOne[adminDoc](ctx, as.col(collAdmins), bson.M{"username": username})
	if err != nil {
		return nil, err
	}
	return &entity.Admin{
		Id:           doc.ID.Hex(),
		Username:     doc.Username,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}, nil
}
