package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/itemforge/catalog-api/internal/models"
	"github.com/itemforge/catalog-api/internal/services"
)

type ItemHandler struct {
	query *services.ItemQuery
}

func NewItemHandler(query *services.ItemQuery) *ItemHandler {
	return &ItemHandler{query: query}
}

// ByID handles GET /item/:id
func (h *ItemHandler) ByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		invalidParameters(c)
		return
	}

	item, err := h.query.ByID(id, c.Query("lang"))
	if err != nil {
		internalError(c, err)
		return
	}
	if item == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ByIDs handles GET /items/:ids with a comma-separated id list.
func (h *ItemHandler) ByIDs(c *gin.Context) {
	ids, err := intListParameter(c.Param("ids"), ",")
	if err != nil || len(ids) == 0 {
		invalidParameters(c)
		return
	}

	items, err := h.query.ByIDs(ids, c.Query("lang"))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// All handles GET /items/all: every tradable item of the locale.
func (h *ItemHandler) All(c *gin.Context) {
	items, err := h.query.AllTradable(c.Query("lang"))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// AllPrices handles GET /items/all-prices
func (h *ItemHandler) AllPrices(c *gin.Context) {
	prices, err := h.query.AllPrices()
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, prices)
}

// Categories handles GET /items/categories
func (h *ItemHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, models.Categories)
}

// ByName handles GET /items/by-name with a comma-separated name list.
func (h *ItemHandler) ByName(c *gin.Context) {
	names := multiParameter(c.Query("names"), ",")
	if len(names) == 0 {
		invalidParameters(c)
		return
	}

	items, err := h.query.ByName(names, c.Query("lang"))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// BySkin handles GET /items/by-skin
func (h *ItemHandler) BySkin(c *gin.Context) {
	skinID, err := strconv.Atoi(c.Query("skin_id"))
	if err != nil || skinID == 0 {
		invalidParameters(c)
		return
	}

	ids, err := h.query.BySkin(skinID)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

// Autocomplete handles GET /items/autocomplete
func (h *ItemHandler) Autocomplete(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		invalidParameters(c)
		return
	}

	craftable := c.Query("craftable") == "1"

	items, err := h.query.Autocomplete(query, c.Query("lang"), craftable)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Query handles GET /items: the filtered query operation. The default
// output is the matching ids; output=prices returns buy/sell statistics.
func (h *ItemHandler) Query(c *gin.Context) {
	opts := services.QueryOptions{}

	categories, err := categoryPathsParameter(c.Query("categories"))
	if err != nil {
		invalidParameters(c)
		return
	}
	opts.Categories = categories

	rarities, err := intListParameter(c.Query("rarities"), ";")
	if err != nil {
		invalidParameters(c)
		return
	}
	opts.Rarities = rarities

	_, opts.Craftable = c.GetQuery("craftable")

	if exclude, ok := c.GetQuery("exclude_name"); ok {
		opts.ExcludeName = &exclude
	}
	if include, ok := c.GetQuery("include_name"); ok {
		opts.IncludeName = &include
	}

	items, err := h.query.Query(c.Query("lang"), opts)
	if err != nil {
		internalError(c, err)
		return
	}

	if c.Query("output") != "prices" {
		ids := make([]int, len(items))
		for i, item := range items {
			ids[i] = item.ID
		}
		c.JSON(http.StatusOK, ids)
		return
	}

	c.JSON(http.StatusOK, services.PriceSummary(items))
}
