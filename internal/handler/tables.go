package handler

import (
	"net/http"
	"strings"

	"paulinepos/internal/dto"
	"paulinepos/internal/model"
	"paulinepos/internal/store"

	"github.com/gin-gonic/gin"
)

type TablesHandler struct{ store *store.Store }

func NewTablesHandler(s *store.Store) *TablesHandler { return &TablesHandler{store: s} }

func (h *TablesHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.TablesByRestaurant(model.RestaurantID(c.Param("id"))))
}

// Create godoc
// @Summary Ajout d'une table
// @Tags tables
// @Accept json
// @Produce json
// @Param id path string true "Restaurant"
// @Param body body dto.CreateTableRequest true "Table"
// @Success 201 {object} model.Table
// @Router /v1/restaurants/{id}/tables [post]
func (h *TablesHandler) Create(c *gin.Context) {
	rid := model.RestaurantID(c.Param("id"))
	if _, ok := h.store.Restaurant(rid); !ok {
		notFound(c, "Restaurant")
		return
	}
	var req dto.CreateTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usable := true
	if req.IsUsable != nil {
		usable = *req.IsUsable
	}
	id := h.store.AddTable(model.Table{
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		Seats:        req.Seats,
		IsUsable:     usable,
		RestaurantID: rid,
	})
	t, _ := h.store.Table(id)
	c.JSON(http.StatusCreated, t)
}

func (h *TablesHandler) Get(c *gin.Context) {
	t, ok := h.store.Table(model.TableID(c.Param("id")))
	if !ok {
		notFound(c, "Table")
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TablesHandler) Update(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	var req dto.UpdateTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.store.UpdateTable(id, model.TablePatch{
		Name:        trimmed(req.Name),
		Description: trimmed(req.Description),
		Seats:       req.Seats,
		IsUsable:    req.IsUsable,
	})
	h.Get(c)
}

func (h *TablesHandler) Rename(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	var req dto.RenameTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.store.SetTableName(id, strings.TrimSpace(req.Name))
	h.Get(c)
}

// Delete keeps the orders of the table; they become orphans.
func (h *TablesHandler) Delete(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	h.store.DeleteTable(id)
	c.Status(http.StatusNoContent)
}

// Occupy marks a free table as seated. It has no effect while an order
// holds the table.
func (h *TablesHandler) Occupy(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	h.store.OccupyTable(id)
	h.Get(c)
}

// Free releases a table unless an active order still holds it.
func (h *TablesHandler) Free(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	h.store.FreeTable(id)
	h.Get(c)
}

// ActiveOrder returns the most recent non-served order of the table.
func (h *TablesHandler) ActiveOrder(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	o, found := h.store.ActiveOrderForTable(id)
	if !found {
		notFound(c, "Commande active")
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(o, o.Total(), h.store.GroupedItems(o.ID)))
}

func (h *TablesHandler) existing(c *gin.Context) (model.TableID, bool) {
	id := model.TableID(c.Param("id"))
	if _, ok := h.store.Table(id); !ok {
		notFound(c, "Table")
		return "", false
	}
	return id, true
}
