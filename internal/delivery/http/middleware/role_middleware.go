package middleware

import (
	"net/http"

	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/pkg/response"
)

// RequireRole creates a middleware that checks if the user has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoleIDs ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, ok := GetRoleIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			for _, allowedRoleID := range allowedRoleIDs {
				if roleID == allowedRoleID {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "You don't have permission to access this resource")
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin)(next)
}

// RequireStaff admits every hospital role; patient accounts are refused.
func RequireStaff(next http.Handler) http.Handler {
	return RequireRole(
		entity.RoleIDAdmin,
		entity.RoleIDReceptionist,
		entity.RoleIDLab,
		entity.RoleIDRadiology,
		entity.RoleIDDoctor,
		entity.RoleIDNurse,
	)(next)
}

// RequireFrontDesk is for billing, refunds and patient registration
func RequireFrontDesk(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin, entity.RoleIDReceptionist)(next)
}
