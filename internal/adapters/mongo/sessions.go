package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
	apperrors "github.com/ori-platform/ori-auth/internal/errors"
	"github.com/ori-platform/ori-auth/internal/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore persists sessions in the sessions collection. Expired
// documents are removed by the TTL index; Get also hides them in the
// window before the TTL monitor runs.
type SessionStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// Save inserts sess under its ID.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return apperrors.ValidationField("id", "session ID cannot be empty")
	}
	if _, err := s.coll.InsertOne(ctx, toSessionDocument(sess)); err != nil {
		return apperrors.MapStoreError(err)
	}
	return nil
}

// Get returns the session with the given ID, or a not-found error.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}
	var doc sessionDocument
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc); err != nil {
		return domainauth.Session{}, apperrors.MapStoreError(err)
	}
	return doc.session(), nil
}

// Delete removes the session with the given ID.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return apperrors.MapStoreError(err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry and returns how many were removed.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{{Key: "expiresAt", Value: bson.D{{Key: "$lte", Value: s.now()}}}})
	if err != nil {
		return 0, apperrors.MapStoreError(err)
	}
	return res.DeletedCount, nil
}
