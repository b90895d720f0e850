package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
	apperrors "github.com/ori-platform/ori-auth/internal/errors"
	"github.com/ori-platform/ori-auth/internal/ports"
)

var _ ports.UserStore = (*UserStore)(nil)

// UserStore persists accounts in the users collection.
type UserStore struct {
	coll *mongo.Collection
}

// Create inserts acct; a duplicate email maps to a conflict error.
func (s *UserStore) Create(ctx context.Context, acct domainauth.Account) error {
	if _, err := s.coll.InsertOne(ctx, toUserDocument(acct)); err != nil {
		return apperrors.MapStoreError(err)
	}
	return nil
}

// FindByEmail looks up an account by its normalized email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (domainauth.Account, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

// FindByID looks up an account by ID.
func (s *UserStore) FindByID(ctx context.Context, id string) (domainauth.Account, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.D) (domainauth.Account, error) {
	var doc userDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return domainauth.Account{}, apperrors.MapStoreError(err)
	}
	return doc.account(), nil
}
