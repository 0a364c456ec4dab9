package middleware

import (
	"net/http"

	"unihealth-admin/internal/domain/entity"
	"unihealth-admin/internal/service"
	"unihealth-admin/pkg/response"
)

// RequireCategory lets a request through only when the policy grants the
// caller's role the settings category
func RequireCategory(policy service.PolicyService, category entity.CategoryID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			if !policy.CanAccessCategory(role, category) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePolicy checks an arbitrary policy object, using the HTTP method as action
func RequirePolicy(policy service.PolicyService, object string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed, err := policy.Check(role, object, r.Method)
			if err != nil {
				response.InternalServerError(w, "Failed to evaluate permissions")
				return
			}
			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
