package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/platebook/platebook/internal/application"
	"github.com/platebook/platebook/internal/interface/middleware"
	"github.com/platebook/platebook/pkg/response"
	"github.com/platebook/platebook/pkg/validation"
)

const maxProfilePicBytes = 5 << 20

type UserHandler struct {
	Svc           *application.UserService
	Relationships *application.RelationshipService
	Logger        *logrus.Logger
}

func NewUserHandler(svc *application.UserService, rel *application.RelationshipService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Relationships: rel, Logger: logger}
}

type changeUsernameRequest struct {
	NewUsername string `json:"new_username" binding:"required,username"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
}

// GetUserData returns the public profile aggregate for :username.
func (h *UserHandler) GetUserData(c *gin.Context) {
	data, err := h.Svc.GetUserData(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, data, "user data", nil)
}

func (h *UserHandler) ChangeUsername(c *gin.Context) {
	var req changeUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	actor := middleware.CallerIdentity(c)
	if err := h.Svc.ChangeUsername(c.Request.Context(), actor, req.NewUsername); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"username": req.NewUsername}, "username changed, please log in again", nil)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	actor := middleware.CallerIdentity(c)
	if err := h.Svc.ChangePassword(c.Request.Context(), actor, req.CurrentPassword, req.NewPassword); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"changed": true}, "password changed", nil)
}

func (h *UserHandler) UploadProfilePic(c *gin.Context) {
	file, header, err := c.Request.FormFile("profile_pic")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "profile_pic file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()
	if header.Size > maxProfilePicBytes {
		response.Error[any](c, http.StatusBadRequest, "image too large", nil)
		return
	}

	url, err := h.Svc.UploadProfilePic(c.Request.Context(), c.GetString("userID"), file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"profile_pic": url}, "profile picture updated", nil)
}

// Follow makes the caller follow :target.
func (h *UserHandler) Follow(c *gin.Context) {
	actor := middleware.CallerIdentity(c)
	target := c.Param("target")
	if err := h.Relationships.Follow(c.Request.Context(), actor.Username, target); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"following": target}, "followed", nil)
}

// Unfollow removes a follow edge set up earlier by Follow.
func (h *UserHandler) Unfollow(c *gin.Context) {
	actor := middleware.CallerIdentity(c)
	target := c.Param("target")
	if err := h.Relationships.Unfollow(c.Request.Context(), actor.Username, target); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"unfollowed": target}, "unfollowed", nil)
}
