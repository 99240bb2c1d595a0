package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"paulinepos/internal/apierror"
	"paulinepos/internal/dto"
	"paulinepos/internal/middleware"
	"paulinepos/internal/model"
	"paulinepos/internal/service"
	"paulinepos/internal/store"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct {
	store    *store.Store
	receipts service.ReceiptService
}

func NewOrdersHandler(s *store.Store, receipts service.ReceiptService) *OrdersHandler {
	return &OrdersHandler{store: s, receipts: receipts}
}

// List returns the restaurant's orders, optionally filtered by ?status=.
func (h *OrdersHandler) List(c *gin.Context) {
	orders := h.store.OrdersByRestaurant(model.RestaurantID(c.Param("id")))
	if st := c.Query("status"); st != "" {
		status := model.OrderStatus(st)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, apierror.New("Statut inconnu"))
			return
		}
		kept := orders[:0]
		for _, o := range orders {
			if o.Status == status {
				kept = append(kept, o)
			}
		}
		orders = kept
	}
	resp := make([]dto.OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = dto.NewOrderResponse(o, o.Total(), h.store.GroupedItems(o.ID))
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Ouverture d'une commande
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Restaurant"
// @Param body body dto.CreateOrderRequest true "Table (vide ou \"takeaway\" pour à emporter)"
// @Success 201 {object} dto.OrderResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/restaurants/{id}/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	rid := model.RestaurantID(c.Param("id"))
	if _, ok := h.store.Restaurant(rid); !ok {
		notFound(c, "Restaurant")
		return
	}
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	// the waiter is whoever holds the token, not the last user to sign in
	waiter := middleware.GetClaims(c).UID()
	id, err := h.store.CreateOrderBy(rid, model.ParseTableRef(req.TableID), waiter)
	if err != nil {
		storeError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, id)
}

func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK, id)
}

// Delete cancels the order outright; its table is released.
func (h *OrdersHandler) Delete(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	h.store.DeleteOrder(id)
	c.Status(http.StatusNoContent)
}

// AddItem godoc
// @Summary Ajout d'un article
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Commande"
// @Param body body dto.AddItemRequest true "Article"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/orders/{id}/items [post]
func (h *OrdersHandler) AddItem(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	var req dto.AddItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	o, _ := h.store.Order(id)
	p, found := h.store.Product(model.ProductID(req.ProductID))
	if !found {
		notFound(c, "Produit")
		return
	}
	if p.RestaurantID != "" && o.RestaurantID != "" && p.RestaurantID != o.RestaurantID {
		c.JSON(http.StatusConflict, apierror.WithCode("product_restaurant_mismatch", "Ce produit n'est pas à la carte de ce restaurant"))
		return
	}
	if !p.IsAvailable {
		c.JSON(http.StatusConflict, apierror.WithCode("product_unavailable", "Produit indisponible"))
		return
	}
	if req.Note != "" {
		h.store.AddNotedItemToOrder(id, p.ID, req.Qty, req.Note)
	} else {
		h.store.AddItemToOrder(id, p.ID, req.Qty)
	}
	h.respond(c, http.StatusOK, id)
}

// UpdateItemQty sets a line's quantity; 0 removes the line.
func (h *OrdersHandler) UpdateItemQty(c *gin.Context) {
	id, item, ok := h.existingItem(c)
	if !ok {
		return
	}
	var req dto.UpdateItemQtyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.store.UpdateItemQty(id, item, req.Qty)
	h.respond(c, http.StatusOK, id)
}

func (h *OrdersHandler) RemoveItem(c *gin.Context) {
	id, item, ok := h.existingItem(c)
	if !ok {
		return
	}
	h.store.RemoveItemFromOrder(id, item)
	h.respond(c, http.StatusOK, id)
}

func (h *OrdersHandler) AddComment(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	var req dto.AddCommentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.store.AddOrderComment(id, model.Role(req.Role), req.Message)
	h.respond(c, http.StatusCreated, id)
}

// SetStatus moves the order through its lifecycle. Sending it to the
// kitchen puts its table EN_SERVICE; SERVIE releases the table.
func (h *OrdersHandler) SetStatus(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	var req dto.SetStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.store.SetOrderStatus(id, model.OrderStatus(req.Status))
	h.respond(c, http.StatusOK, id)
}

// Close marks the order served and paid.
func (h *OrdersHandler) Close(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	h.store.CloseOrder(id)
	h.respond(c, http.StatusOK, id)
}

func (h *OrdersHandler) SetPaid(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	var req dto.SetPaidRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.store.SetOrderPaid(id, *req.Paid)
	h.respond(c, http.StatusOK, id)
}

func (h *OrdersHandler) SetExpectedAt(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	var req dto.SetExpectedAtRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.store.SetOrderExpectedAt(id, req.ExpectedAt)
	h.respond(c, http.StatusOK, id)
}

// AssignActor records who took, cashed, prepared or supervised the order.
func (h *OrdersHandler) AssignActor(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	var req dto.AssignActorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	uid := model.UserID(req.UserID)
	if _, found := h.store.User(uid); !found {
		notFound(c, "Utilisateur")
		return
	}
	h.store.AssignOrderActor(id, model.Actor(req.Actor), uid)
	h.respond(c, http.StatusOK, id)
}

// Move rebinds the order to another table of its restaurant, or to
// takeaway. Both tables are recomputed.
func (h *OrdersHandler) Move(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	var req dto.MoveOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.store.MoveOrderToTable(id, model.ParseTableRef(req.TableID)); err != nil {
		storeError(c, err)
		return
	}
	h.respond(c, http.StatusOK, id)
}

// Receipt godoc
// @Summary Reçu PDF de la commande
// @Tags orders
// @Produce application/pdf
// @Param id path string true "Commande"
// @Success 200 {file} binary
// @Router /v1/orders/{id}/receipt [get]
func (h *OrdersHandler) Receipt(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.receipts.Render(c.Request.Context(), &buf, id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=recu_%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *OrdersHandler) respond(c *gin.Context, status int, id model.OrderID) {
	o, ok := h.store.Order(id)
	if !ok {
		notFound(c, "Commande")
		return
	}
	c.JSON(status, dto.NewOrderResponse(o, o.Total(), h.store.GroupedItems(id)))
}

func (h *OrdersHandler) existing(c *gin.Context) (model.OrderID, bool) {
	id := model.OrderID(c.Param("id"))
	if _, ok := h.store.Order(id); !ok {
		notFound(c, "Commande")
		return "", false
	}
	return id, true
}

func (h *OrdersHandler) existingItem(c *gin.Context) (model.OrderID, model.ItemID, bool) {
	id := model.OrderID(c.Param("id"))
	o, ok := h.store.Order(id)
	if !ok {
		notFound(c, "Commande")
		return "", "", false
	}
	item := model.ItemID(c.Param("itemId"))
	for _, it := range o.Items {
		if it.ID == item {
			return id, item, true
		}
	}
	notFound(c, "Article")
	return "", "", false
}
