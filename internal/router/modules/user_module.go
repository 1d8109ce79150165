package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platebook/platebook/internal/container"
	handlers "github.com/platebook/platebook/internal/interface/http"
	"github.com/platebook/platebook/internal/interface/middleware"
)

// UserModule wires profile and follow-graph routes. Everything here
// requires an authenticated session.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	user := rg.Group("/user")
	user.Use(middleware.Auth(rdb, container.GetJWT()))
	user.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		user.GET("/:username", m.Handler.GetUserData)
		user.PUT("/change-username", m.Handler.ChangeUsername)
		user.POST("/profile-pic", m.Handler.UploadProfilePic)
		user.POST("/follow/:target", m.Handler.Follow)
		user.POST("/unfollow/:target", m.Handler.Unfollow)
	}
}
