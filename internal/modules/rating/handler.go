package rating

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"playhouse/internal/pkg/response"
)

type Handler struct {
	provider Provider
}

func NewHandler(provider Provider) *Handler {
	return &Handler{provider: provider}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/rating", h.Get)
}

// Get answers with null data when no rating is known.
func (h *Handler) Get(c *gin.Context) {
	response.Success(c, http.StatusOK, h.provider.Fetch(c.Request.Context()))
}
