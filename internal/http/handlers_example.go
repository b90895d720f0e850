package httpx

import (
	"net/http"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
)

// exampleHandler echoes the caller and their permissions for a role-gated demo route.
func exampleHandler(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())
		body := map[string]any{"message": message, "user": user}
		if user != nil {
			body["permissions"] = user.Permissions()
		}
		WriteJSON(w, http.StatusOK, body)
	}
}

func exampleRoutes() []Route {
	return []Route{
		{
			Method:  http.MethodGet,
			Path:    "/example/admin-only",
			Require: domainauth.RequireRoles(domainauth.RoleOri),
			Handler: exampleHandler("This route is only accessible to Ori administrators"),
		},
		{
			Method:  http.MethodGet,
			Path:    "/example/brands-and-admin",
			Require: domainauth.RequireRoles(domainauth.RoleBrand, domainauth.RoleOri),
			Handler: exampleHandler("This route is accessible to brands and administrators"),
		},
		{
			Method:  http.MethodGet,
			Path:    "/example/influencers-and-admin",
			Require: domainauth.RequireRoles(domainauth.RoleInfluencer, domainauth.RoleOri),
			Handler: exampleHandler("This route is accessible to influencers and administrators"),
		},
		{
			Method:  http.MethodGet,
			Path:    "/example/all-users",
			Require: domainauth.RequireRoles(domainauth.AllRoles()...),
			Handler: exampleHandler("This route is accessible to all authenticated users"),
		},
	}
}
