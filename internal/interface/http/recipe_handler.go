package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/platebook/platebook/internal/application"
	"github.com/platebook/platebook/pkg/response"
	"github.com/platebook/platebook/pkg/validation"
)

type RecipeHandler struct {
	Svc    *application.RecipeService
	Logger *logrus.Logger
}

func NewRecipeHandler(svc *application.RecipeService, logger *logrus.Logger) *RecipeHandler {
	return &RecipeHandler{Svc: svc, Logger: logger}
}

type recommendRequest struct {
	Ingredients []string `json:"ingredients" binding:"required,min=1"`
}

func (h *RecipeHandler) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	recs, err := h.Svc.Recommend(c.Request.Context(), req.Ingredients)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, recs, "recommendations", nil)
}
