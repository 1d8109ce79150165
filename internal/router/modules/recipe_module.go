package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platebook/platebook/internal/container"
	handlers "github.com/platebook/platebook/internal/interface/http"
	"github.com/platebook/platebook/internal/interface/middleware"
)

// RecipeModule wires the recommendation proxy. The upstream recommender is
// comparatively expensive, so it gets its own tighter per-user budget.
type RecipeModule struct {
	Handler *handlers.RecipeHandler
}

func NewRecipeModule(h *handlers.RecipeHandler) *RecipeModule {
	return &RecipeModule{Handler: h}
}

func (m *RecipeModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	recipe := rg.Group("/recipe")
	recipe.Use(middleware.Auth(rdb, container.GetJWT()))
	recipe.POST("/recommendations",
		middleware.RateLimit(rdb, 20, time.Minute, middleware.KeyByUserID(), nil),
		m.Handler.Recommend,
	)
}
