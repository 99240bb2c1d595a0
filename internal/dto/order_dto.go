package dto

import (
	"time"

	"paulinepos/internal/model"
	"paulinepos/internal/store"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateOrderRequest opens an order. An empty tableId, or "takeaway", opens
// a takeaway order.
type CreateOrderRequest struct {
	TableID string `json:"tableId" validate:"max=64"`
}

type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int    `json:"qty"       validate:"required,min=1,max=999"`
	Note      string `json:"note"      validate:"max=255"`
}

type UpdateItemQtyRequest struct {
	// Qty 0 removes the line.
	Qty int `json:"qty" validate:"min=0,max=999"`
}

type AddCommentRequest struct {
	Role    string `json:"role"    validate:"required,oneof=SERVEUR CUISINE CAISSIER SUPERVISEUR"`
	Message string `json:"message" validate:"required,min=1,max=500"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT ATTENTE_PREPA EN_PREPA PRET_PARTIEL PRET_A_SERVIR SERVIE_PARTIEL SERVIE"`
}

type SetPaidRequest struct {
	Paid *bool `json:"paid" validate:"required"`
}

// SetExpectedAtRequest clears the expected time when ExpectedAt is null.
type SetExpectedAtRequest struct {
	ExpectedAt *time.Time `json:"expectedAt"`
}

type AssignActorRequest struct {
	Actor  string `json:"actor"  validate:"required,oneof=waiter cashier preparator supervisor"`
	UserID string `json:"userId" validate:"required"`
}

type MoveOrderRequest struct {
	TableID string `json:"tableId" validate:"max=64"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// OrderResponse is an order with its derived total and item groups.
type OrderResponse struct {
	model.Order
	Total  int64             `json:"total"`
	Groups []store.ItemGroup `json:"groups"`
}

func NewOrderResponse(o model.Order, total int64, groups []store.ItemGroup) OrderResponse {
	return OrderResponse{Order: o, Total: total, Groups: groups}
}
