package httpx

import (
	"context"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
)

// userKey is an unexported context key type to avoid collisions across packages.
type userKey struct{}

// SetUserInContext returns a child context that carries the given user.
// If user is nil, the original ctx is returned unchanged.
func SetUserInContext(ctx context.Context, user *domainauth.User) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the attached user and whether one is present.
func UserFromContext(ctx context.Context) (*domainauth.User, bool) {
	if user, ok := ctx.Value(userKey{}).(*domainauth.User); ok && user != nil {
		return user, true
	}
	return nil, false
}

// CurrentUser returns the attached user or nil.
func CurrentUser(ctx context.Context) *domainauth.User {
	u, _ := UserFromContext(ctx)
	return u
}
