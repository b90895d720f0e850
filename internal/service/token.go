package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
)

// errInvalidToken is returned for any token that fails signature or claim checks.
var errInvalidToken = errors.New("invalid session token")

// JWTSigner signs session tokens as HS256 JWTs whose subject is the session ID.
// The token carries no role claims; the session store stays authoritative.
type JWTSigner struct {
	secret []byte
	issuer string
}

// NewJWTSigner builds a signer from the shared auth secret.
func NewJWTSigner(secret, issuer string) (*JWTSigner, error) {
	if secret == "" {
		return nil, errors.New("token signer: secret is required")
	}
	return &JWTSigner{secret: []byte(secret), issuer: issuer}, nil
}

type sessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Sign returns the signed token for sess.
func (s *JWTSigner) Sign(sess domainauth.Session) (string, error) {
	claims := sessionClaims{
		UserID: sess.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   sess.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns the session ID it refers to.
func (s *JWTSigner) Parse(token string) (string, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithLeeway(5*time.Second))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", errInvalidToken
	}
	return claims.Subject, nil
}
