package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itemforge/catalog-api/internal/services"
)

type PriceHandler struct {
	tracker *services.PriceTracker
}

func NewPriceHandler(tracker *services.PriceTracker) *PriceHandler {
	return &PriceHandler{tracker: tracker}
}

// GetStatus handles GET /prices/status
func (h *PriceHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Status())
}
