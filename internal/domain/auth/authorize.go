package auth

import (
	"sort"
	"strings"

	apperrors "github.com/ori-platform/ori-auth/internal/errors"
)

// Requirement is the set of roles a route admits.
//
// The zero value is undeclared: route registration refuses it, so every route
// has to state its access explicitly, either Public() or RequireRoles(...).
type Requirement struct {
	roles    map[Role]struct{}
	declared bool
}

// Public declares a route that needs no role.
func Public() Requirement {
	return Requirement{declared: true}
}

// RequireRoles declares a route that admits exactly the given roles.
// Membership is exact; there is no hierarchy between roles.
func RequireRoles(roles ...Role) Requirement {
	set := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return Requirement{roles: set, declared: true}
}

// Declared reports whether the requirement was built through Public or RequireRoles.
func (q Requirement) Declared() bool { return q.declared }

// IsPublic reports whether the requirement admits unauthenticated requests.
func (q Requirement) IsPublic() bool { return len(q.roles) == 0 }

// Allows reports whether role r is a member of the requirement.
func (q Requirement) Allows(r Role) bool {
	_, ok := q.roles[r]
	return ok
}

// Roles returns the admitted roles sorted for stable output.
func (q Requirement) Roles() []Role {
	out := make([]Role, 0, len(q.roles))
	for r := range q.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (q Requirement) String() string {
	if q.IsPublic() {
		return "public"
	}
	parts := make([]string, 0, len(q.roles))
	for _, r := range q.Roles() {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ",")
}

// Authorize decides whether user may reach a route guarded by q.
//
//  1. no roles required → allow
//  2. no user → Unauthenticated
//  3. user role in q → allow
//  4. otherwise → Forbidden
func Authorize(q Requirement, user *User) error {
	if q.IsPublic() {
		return nil
	}
	if user == nil {
		return apperrors.Unauthenticated("authentication required")
	}
	if q.Allows(user.Role) {
		return nil
	}
	return apperrors.Forbidden("insufficient permissions: this route requires one of roles [" + q.String() + "]")
}
