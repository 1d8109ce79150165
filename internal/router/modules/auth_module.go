package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platebook/platebook/internal/container"
	handlers "github.com/platebook/platebook/internal/interface/http"
	"github.com/platebook/platebook/internal/interface/middleware"
)

// AuthModule wires the account lifecycle routes.
// Public: POST /api/auth/register, /verify-email, /login, /refresh,
// /forgot-password, /reset-password/:token
// Protected: POST /api/auth/logout, PUT /api/auth/change-password
type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   *handlers.UserHandler
}

func NewAuthModule(h *handlers.AuthHandler, users *handlers.UserHandler) *AuthModule {
	return &AuthModule{Handler: h, Users: users}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)

	auth := rg.Group("/auth")
	auth.POST("/register", registerLimiter, m.Handler.Register)
	auth.POST("/verify-email", registerLimiter, m.Handler.VerifyEmail)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	auth.POST("/forgot-password", registerLimiter, m.Handler.ForgotPassword)
	auth.POST("/reset-password/:token", registerLimiter, m.Handler.ResetPassword)

	protected := auth.Group("/")
	protected.Use(middleware.Auth(rdb, container.GetJWT()))
	protected.POST("/logout", m.Handler.Logout)
	protected.PUT("/change-password", m.Users.ChangePassword)
}
