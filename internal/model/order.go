package model

import "time"

// OrderStatus follows DRAFT → ATTENTE_PREPA → EN_PREPA →
// {PRET_PARTIEL | PRET_A_SERVIR} → SERVIE_PARTIEL → SERVIE.
// Backward moves are allowed; SERVIE is terminal for occupancy.
type OrderStatus string

const (
	StatusDraft         OrderStatus = "DRAFT"
	StatusAttentePrepa  OrderStatus = "ATTENTE_PREPA"
	StatusEnPrepa       OrderStatus = "EN_PREPA"
	StatusPretPartiel   OrderStatus = "PRET_PARTIEL"
	StatusPretAServir   OrderStatus = "PRET_A_SERVIR"
	StatusServiePartiel OrderStatus = "SERVIE_PARTIEL"
	StatusServie        OrderStatus = "SERVIE"
)

// OrderStatuses lists every status in forward order.
var OrderStatuses = []OrderStatus{
	StatusDraft,
	StatusAttentePrepa,
	StatusEnPrepa,
	StatusPretPartiel,
	StatusPretAServir,
	StatusServiePartiel,
	StatusServie,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Active reports whether the order still holds its table.
func (s OrderStatus) Active() bool { return s != StatusServie }

// KitchenVisible is every active status past DRAFT.
func (s OrderStatus) KitchenVisible() bool {
	return s.Active() && s != StatusDraft
}

// Role of the author of an order comment.
type Role string

const (
	RoleServeur     Role = "SERVEUR"
	RoleCuisine     Role = "CUISINE"
	RoleCaissier    Role = "CAISSIER"
	RoleSuperviseur Role = "SUPERVISEUR"
)

func (r Role) Valid() bool {
	switch r {
	case RoleServeur, RoleCuisine, RoleCaissier, RoleSuperviseur:
		return true
	}
	return false
}

// OrderItem is a line of an order. Name and Price are copied from the
// product when the line is created and never follow later product edits.
type OrderItem struct {
	ID        ItemID    `json:"id"`
	ProductID ProductID `json:"productId"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Qty       int       `json:"qty"`
	Note      string    `json:"note,omitempty"`
}

// Subtotal = Qty × Price
func (it OrderItem) Subtotal() int64 { return int64(it.Qty) * it.Price }

// Comment is an immutable audit entry. Comments are never edited or removed.
type Comment struct {
	ID      CommentID `json:"id"`
	Role    Role      `json:"role"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type Order struct {
	ID           OrderID      `json:"id"`
	Table        TableRef     `json:"tableId"`
	Status       OrderStatus  `json:"status"`
	Items        []OrderItem  `json:"items"`
	Comments     []Comment    `json:"comments"`
	RestaurantID RestaurantID `json:"restaurantId"`

	// Actor attribution; empty when unassigned.
	WaiterID     UserID `json:"waiterId,omitempty"`
	CashierID    UserID `json:"cashierId,omitempty"`
	PreparatorID UserID `json:"preparatorId,omitempty"`
	SupervisorID UserID `json:"supervisorId,omitempty"`

	CreatedAt  time.Time  `json:"createdAt"`
	ExpectedAt *time.Time `json:"expectedAt,omitempty"`
	IsPaid     bool       `json:"isPaid"`
}

// Total is always derived from the current items; it is never stored.
func (o Order) Total() int64 {
	var sum int64
	for _, it := range o.Items {
		sum += it.Subtotal()
	}
	return sum
}

// OnTable reports whether the order is a dine-in order on table id.
func (o Order) OnTable(id TableID) bool {
	tid, ok := o.Table.TableID()
	return ok && tid == id
}

// Clone deep-copies the slices so the copy can be handed to callers.
func (o Order) Clone() Order {
	c := o
	c.Items = make([]OrderItem, len(o.Items))
	copy(c.Items, o.Items)
	c.Comments = make([]Comment, len(o.Comments))
	copy(c.Comments, o.Comments)
	if o.ExpectedAt != nil {
		t := *o.ExpectedAt
		c.ExpectedAt = &t
	}
	return c
}

// Actor names an attribution slot of an order.
type Actor string

const (
	ActorWaiter     Actor = "waiter"
	ActorCashier    Actor = "cashier"
	ActorPreparator Actor = "preparator"
	ActorSupervisor Actor = "supervisor"
)
