package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/platebook/platebook/internal/application"
	"github.com/platebook/platebook/internal/interface/middleware"
	"github.com/platebook/platebook/pkg/response"
)

const maxDishImageBytes = 10 << 20

type PostHandler struct {
	Posts      *application.PostService
	Engagement *application.EngagementService
	Feeds      *application.FeedService
	Logger     *logrus.Logger
}

func NewPostHandler(posts *application.PostService, eng *application.EngagementService, feeds *application.FeedService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Posts: posts, Engagement: eng, Feeds: feeds, Logger: logger}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	return page, limit
}

// CreatePost accepts a multipart form: dish_name, ingredients, and an
// optional dish_image file. The new post starts in review.
func (h *PostHandler) CreatePost(c *gin.Context) {
	dishName := c.PostForm("dish_name")
	ingredients := c.PostForm("ingredients")
	if dishName == "" || ingredients == "" {
		response.Error[any](c, http.StatusBadRequest, "dish_name and ingredients are required", nil)
		return
	}

	in := application.CreatePostInput{DishName: dishName, Ingredients: ingredients}
	var file multipart.File
	if f, header, err := c.Request.FormFile("dish_image"); err == nil {
		if header.Size > maxDishImageBytes {
			_ = f.Close()
			response.Error[any](c, http.StatusBadRequest, "image too large", nil)
			return
		}
		file = f
		in.DishImage = f
		in.ImageName = header.Filename
		in.ImageType = header.Header.Get("Content-Type")
	}
	if file != nil {
		defer func() { _ = file.Close() }()
	}

	actor := middleware.CallerIdentity(c)
	view, err := h.Posts.CreatePost(c.Request.Context(), actor, in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view, "post submitted for review", nil)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	actor := middleware.CallerIdentity(c)
	view, err := h.Posts.GetPost(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "post", nil)
}

// Like records a heart and returns the updated count.
func (h *PostHandler) Like(c *gin.Context) {
	hearts, err := h.Engagement.Like(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"heart_count": hearts}, "post liked", nil)
}

func (h *PostHandler) Unlike(c *gin.Context) {
	hearts, err := h.Engagement.Unlike(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"heart_count": hearts}, "post unliked", nil)
}

// GlobalFeed: most-hearted accepted posts of the last day.
func (h *PostHandler) GlobalFeed(c *gin.Context) {
	page, limit := pageParams(c)
	out, err := h.Feeds.GlobalFeed(c.Request.Context(), page, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "global feed", nil)
}

// FollowingFeed: newest posts from followed users. An empty feed maps to
// 404 so clients can prompt the user to follow someone.
func (h *PostHandler) FollowingFeed(c *gin.Context) {
	page, limit := pageParams(c)
	out, err := h.Feeds.FollowingFeed(c.Request.Context(), c.GetString("userID"), page, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "following feed", nil)
}

// CommunityFeed: a random sample of the week's accepted posts.
func (h *PostHandler) CommunityFeed(c *gin.Context) {
	_, limit := pageParams(c)
	out, err := h.Feeds.CommunityFeed(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "community feed", nil)
}
