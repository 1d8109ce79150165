package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platebook/platebook/internal/container"
	handlers "github.com/platebook/platebook/internal/interface/http"
	"github.com/platebook/platebook/internal/interface/middleware"
)

// PostModule wires post submission, engagement, the three feeds, search,
// and the moderation queue. The moderation routes stack RequireModerator
// on top of Auth; the services re-check the role claim anyway.
type PostModule struct {
	Posts      *handlers.PostHandler
	Moderation *handlers.ModerationHandler
}

func NewPostModule(posts *handlers.PostHandler, moderation *handlers.ModerationHandler) *PostModule {
	return &PostModule{Posts: posts, Moderation: moderation}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	posts := rg.Group("/posts")
	posts.Use(middleware.Auth(rdb, container.GetJWT()))
	posts.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		posts.POST("", m.Posts.CreatePost)
		posts.GET("/global", m.Posts.GlobalFeed)
		posts.GET("/following", m.Posts.FollowingFeed)
		posts.GET("/community", m.Posts.CommunityFeed)
		posts.GET("/search", m.Moderation.Search)
		posts.GET("/:id", m.Posts.GetPost)
		posts.POST("/:id/like", m.Posts.Like)
		posts.POST("/:id/unlike", m.Posts.Unlike)
	}

	mod := posts.Group("/")
	mod.Use(middleware.RequireModerator())
	{
		mod.GET("/pending", m.Moderation.ListPending)
		mod.PUT("/:id/accept", m.Moderation.Accept)
		mod.PUT("/:id/reject", m.Moderation.Reject)
	}
}
