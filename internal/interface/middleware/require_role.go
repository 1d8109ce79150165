package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platebook/platebook/internal/domain/entity"
	"github.com/platebook/platebook/pkg/response"
)

// RequireModerator gates moderation routes. It must run after Auth so the
// role claim is already in the context.
func RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		if entity.Role(c.GetString("userRole")) != entity.RoleModerator {
			response.Error[any](c, http.StatusForbidden, "moderator role required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
