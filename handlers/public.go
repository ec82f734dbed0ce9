package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campus-food-api/services"
	"campus-food-api/statemachine"
)

type PublicHandler struct {
	Catalog *services.CatalogService
}

func NewPublicHandler(catalog *services.CatalogService) *PublicHandler {
	return &PublicHandler{Catalog: catalog}
}

// ListColleges returns all colleges (public)
func (h *PublicHandler) ListColleges(c *gin.Context) {
	colleges, err := h.Catalog.ListColleges()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(colleges), "colleges": colleges})
}

// ListCanteens returns all canteens, optionally scoped by ?college_id=
func (h *PublicHandler) ListCanteens(c *gin.Context) {
	var collegeID uint
	if raw := c.Query("college_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid college_id"})
			return
		}
		collegeID = uint(id)
	}

	canteens, err := h.Catalog.ListCanteens(collegeID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(canteens), "canteens": canteens})
}

// GetCanteen returns a single canteen with its menu
func (h *PublicHandler) GetCanteen(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	canteen, err := h.Catalog.ResolveCanteen(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"canteen": canteen})
}

// GetMenu returns a canteen's menu items
func (h *PublicHandler) GetMenu(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	items, err := h.Catalog.Menu(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

// GetStateMachineInfo documents the order lifecycle
func (h *PublicHandler) GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.All()
	out := make([]gin.H, 0, len(transitions))
	for _, t := range transitions {
		out = append(out, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"states":      []string{"placed", "accepted", "delivered"},
		"initial":     "placed",
		"terminal":    "delivered",
		"transitions": out,
	})
}
