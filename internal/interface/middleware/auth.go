package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/platebook/platebook/internal/application"
	"github.com/platebook/platebook/internal/domain/entity"
	"github.com/platebook/platebook/pkg/helpers"
	"github.com/platebook/platebook/pkg/response"
)

// Auth validates the access token and ensures an active session exists in
// Redis. It sets userID, userName, and userRole in the Gin context on
// success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}

		// The session hash must still exist and belong to this token.
		key := "user:session:" + claims.UserID
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}

		c.Set("userID", data["user_id"])
		c.Set("userName", data["username"])
		c.Set("userRole", data["role"])
		c.Next()
	}
}

// CallerIdentity rebuilds the authenticated identity the Auth middleware
// stored in the context.
func CallerIdentity(c *gin.Context) application.Identity {
	return application.Identity{
		UserID:   c.GetString("userID"),
		Username: c.GetString("userName"),
		Role:     entity.Role(c.GetString("userRole")),
	}
}
