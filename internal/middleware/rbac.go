package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/collegetrack/collegetrack-api/internal/models"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
	"github.com/collegetrack/collegetrack-api/pkg/response"
)

// RequireRoles gates a route to the given roles. Resource-level
// ownership checks live in the service access guard; this only filters
// by role so a parent never reaches a student-only route at all.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "you do not have access to this resource"))
			c.Abort()
			return
		}
		c.Next()
	}
}
