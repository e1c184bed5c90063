package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/itemforge/catalog-api/internal/database"
	"github.com/itemforge/catalog-api/internal/models"
)

type SkinHandler struct {
	db *gorm.DB
}

func NewSkinHandler(db *gorm.DB) *SkinHandler {
	return &SkinHandler{db: db}
}

// Resolve handles GET /skins/resolve: the full cached skin index. An index
// that has not been built yet serves as empty.
func (h *SkinHandler) Resolve(c *gin.Context) {
	index := map[int][]int{}
	err := database.GetCache(h.db, models.CacheSkinsToItems, &index)
	if err != nil && !errors.Is(err, database.ErrCacheMiss) {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, index)
}

// Prices handles GET /skins/prices: the cached skin price map.
func (h *SkinHandler) Prices(c *gin.Context) {
	prices := map[int]int{}
	err := database.GetCache(h.db, models.CacheSkinPrices, &prices)
	if err != nil && !errors.Is(err, database.ErrCacheMiss) {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, prices)
}
