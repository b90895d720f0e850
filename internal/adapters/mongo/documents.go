package mongo

import (
	"time"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
)

type userDocument struct {
	ID            string    `bson:"_id"`
	Email         string    `bson:"email"`
	Name          string    `bson:"name"`
	Role          string    `bson:"role"`
	EmailVerified bool      `bson:"emailVerified"`
	PasswordHash  string    `bson:"passwordHash"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func toUserDocument(acct domainauth.Account) userDocument {
	u := acct.User
	return userDocument{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role.String(),
		EmailVerified: u.EmailVerified,
		PasswordHash:  acct.PasswordHash,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (d userDocument) account() domainauth.Account {
	return domainauth.Account{
		User: domainauth.User{
			ID:            d.ID,
			Email:         d.Email,
			Name:          d.Name,
			Role:          domainauth.Role(d.Role),
			EmailVerified: d.EmailVerified,
			CreatedAt:     d.CreatedAt.UTC(),
			UpdatedAt:     d.UpdatedAt.UTC(),
		},
		PasswordHash: d.PasswordHash,
	}
}

type sessionDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	Token     string    `bson:"token"`
	ExpiresAt time.Time `bson:"expiresAt"`
	IPAddress string    `bson:"ipAddress,omitempty"`
	UserAgent string    `bson:"userAgent,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}

func toSessionDocument(s domainauth.Session) sessionDocument {
	return sessionDocument(s)
}

func (d sessionDocument) session() domainauth.Session {
	s := domainauth.Session(d)
	s.ExpiresAt = s.ExpiresAt.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return s
}
