package handler

import (
	"net/http"
	"time"

	"paulinepos/internal/apierror"
	"paulinepos/internal/model"
	"paulinepos/internal/store"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	store *store.Store
	now   func() time.Time
}

func NewDashboardHandler(s *store.Store) *DashboardHandler {
	return &DashboardHandler{store: s, now: time.Now}
}

// Get godoc
// @Summary Tableau de bord d'un restaurant
// @Tags dashboard
// @Produce json
// @Param id path string true "Restaurant"
// @Param at query string false "Date de référence (RFC 3339), maintenant par défaut"
// @Success 200 {object} store.Dashboard
// @Router /v1/restaurants/{id}/dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	rid := model.RestaurantID(c.Param("id"))
	if _, ok := h.store.Restaurant(rid); !ok {
		notFound(c, "Restaurant")
		return
	}
	at := h.now()
	if raw := c.Query("at"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Paramètre at invalide (RFC 3339 attendu)"))
			return
		}
		at = t
	}
	c.JSON(http.StatusOK, h.store.Dashboard(rid, at))
}

// Integrity lists references left dangling by non-cascading deletes.
func (h *DashboardHandler) Integrity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"issues": h.store.Integrity()})
}
