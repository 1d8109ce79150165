package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/platebook/platebook/internal/application"
	"github.com/platebook/platebook/internal/interface/middleware"
	"github.com/platebook/platebook/pkg/response"
)

type ModerationHandler struct {
	Svc    *application.ModerationService
	Logger *logrus.Logger
}

func NewModerationHandler(svc *application.ModerationService, logger *logrus.Logger) *ModerationHandler {
	return &ModerationHandler{Svc: svc, Logger: logger}
}

func (h *ModerationHandler) ListPending(c *gin.Context) {
	page, limit := pageParams(c)
	out, err := h.Svc.ListPending(c.Request.Context(), middleware.CallerIdentity(c), page, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "pending posts", nil)
}

func (h *ModerationHandler) Accept(c *gin.Context) {
	p, err := h.Svc.AcceptPost(c.Request.Context(), middleware.CallerIdentity(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": p.ID, "status": p.Status}, "post accepted", nil)
}

func (h *ModerationHandler) Reject(c *gin.Context) {
	p, err := h.Svc.RejectPost(c.Request.Context(), middleware.CallerIdentity(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": p.ID, "status": p.Status}, "post rejected", nil)
}

// Search queries the accepted-post index.
func (h *ModerationHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "0"))
	hits, err := h.Svc.SearchPosts(c.Request.Context(), q, size)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}
