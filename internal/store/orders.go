package store

import (
	"strings"
	"time"

	"paulinepos/internal/model"
)

// CreateOrder opens a DRAFT order for a restaurant, on a table or as a
// takeaway. The current user, if any, is recorded as the waiter. The
// table's status is left as is: a draft is not in the kitchen yet.
//
// Binding an order to a table that does not exist is a programming error
// and returns ErrUnknownTable.
func (s *Store) CreateOrder(rid model.RestaurantID, ref model.TableRef) (model.OrderID, error) {
	return s.createOrder("CreateOrder", rid, ref, nil)
}

// CreateOrderBy is CreateOrder with an explicit waiter. The API serves
// many signed-in users at once, so it credits the token's user instead of
// the device session pointer.
func (s *Store) CreateOrderBy(rid model.RestaurantID, ref model.TableRef, waiter model.UserID) (model.OrderID, error) {
	return s.createOrder("CreateOrderBy", rid, ref, &waiter)
}

func (s *Store) createOrder(op string, rid model.RestaurantID, ref model.TableRef, waiter *model.UserID) (model.OrderID, error) {
	var id model.OrderID
	err := s.mutateErr(op, func() (bool, error) {
		if tid, ok := ref.TableID(); ok {
			t, found := s.tables.get(tid)
			if !found {
				return false, ErrUnknownTable
			}
			if t.RestaurantID != "" && rid != "" && t.RestaurantID != rid {
				return false, ErrTableRestaurantMismatch
			}
		}
		o := model.Order{
			ID:           model.OrderID(s.newID(model.PrefixOrder)),
			Table:        ref,
			Status:       model.StatusDraft,
			Items:        []model.OrderItem{},
			Comments:     []model.Comment{},
			RestaurantID: rid,
			WaiterID:     s.currentUserID,
			CreatedAt:    s.stamp(),
		}
		if waiter != nil {
			o.WaiterID = *waiter
		}
		s.orders.put(o.ID, o)
		id = o.ID
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// updateOrder applies fn to a copy of the order and stores it when fn
// reports a change. The occupancy cascade only runs when the status or the
// table changed: payment, comments, items and attribution leave the table
// alone, including a manual OCCUPEE.
func (s *Store) updateOrder(op string, id model.OrderID, fn func(o *model.Order) bool) {
	s.mutate(op, func() bool {
		o, ok := s.orders.get(id)
		if !ok {
			return false
		}
		table, status := o.Table, o.Status
		o = o.Clone()
		if !fn(&o) {
			return false
		}
		s.orders.put(id, o)
		if o.Status != status || o.Table != table {
			s.recomputeFor(table)
			if o.Table != table {
				s.recomputeFor(o.Table)
			}
		}
		return true
	})
}

// AddItemToOrder adds qty units of a product. The un-noted line of the
// same product is incremented when it exists; otherwise a new line copies
// the product's current name and price. Missing order or product, or a
// non-positive qty, is a no-op.
func (s *Store) AddItemToOrder(oid model.OrderID, pid model.ProductID, qty int) {
	s.addItem("AddItemToOrder", oid, pid, qty, "")
}

// AddNotedItemToOrder always appends a new line carrying note ("sans
// piment"), so noted lines are never merged with plain ones.
func (s *Store) AddNotedItemToOrder(oid model.OrderID, pid model.ProductID, qty int, note string) {
	s.addItem("AddNotedItemToOrder", oid, pid, qty, strings.TrimSpace(note))
}

func (s *Store) addItem(op string, oid model.OrderID, pid model.ProductID, qty int, note string) {
	if qty <= 0 {
		return
	}
	s.mutate(op, func() bool {
		o, ok := s.orders.get(oid)
		if !ok {
			return false
		}
		p, ok := s.products.get(pid)
		if !ok {
			return false
		}
		o = o.Clone()
		merged := false
		if note == "" {
			for i := range o.Items {
				if o.Items[i].ProductID == pid && o.Items[i].Note == "" {
					o.Items[i].Qty += qty
					merged = true
					break
				}
			}
		}
		if !merged {
			o.Items = append(o.Items, model.OrderItem{
				ID:        model.ItemID(s.newID(model.PrefixItem)),
				ProductID: pid,
				Name:      p.Name,
				Price:     p.Price,
				Qty:       qty,
				Note:      note,
			})
		}
		s.orders.put(oid, o)
		return true
	})
}

// UpdateItemQty sets a line's quantity, clamped at 0. A line driven to 0
// is removed from the order.
func (s *Store) UpdateItemQty(oid model.OrderID, itemID model.ItemID, qty int) {
	if qty < 0 {
		qty = 0
	}
	s.updateOrder("UpdateItemQty", oid, func(o *model.Order) bool {
		for i := range o.Items {
			if o.Items[i].ID != itemID {
				continue
			}
			if qty == 0 {
				o.Items = append(o.Items[:i], o.Items[i+1:]...)
				return true
			}
			if o.Items[i].Qty == qty {
				return false
			}
			o.Items[i].Qty = qty
			return true
		}
		return false
	})
}

func (s *Store) RemoveItemFromOrder(oid model.OrderID, itemID model.ItemID) {
	s.updateOrder("RemoveItemFromOrder", oid, func(o *model.Order) bool {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				o.Items = append(o.Items[:i], o.Items[i+1:]...)
				return true
			}
		}
		return false
	})
}

// AddOrderComment appends to the order's audit trail. Blank messages are
// ignored.
func (s *Store) AddOrderComment(oid model.OrderID, role model.Role, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	s.updateOrder("AddOrderComment", oid, func(o *model.Order) bool {
		o.Comments = append(o.Comments, model.Comment{
			ID:      model.CommentID(s.newID(model.PrefixComment)),
			Role:    role,
			Message: message,
			At:      s.stamp(),
		})
		return true
	})
}

// SetOrderStatus moves the order to status. Entering a kitchen-visible
// status occupies the order's table (EN_SERVICE); reaching SERVIE may
// release it.
func (s *Store) SetOrderStatus(oid model.OrderID, status model.OrderStatus) {
	if !status.Valid() {
		return
	}
	s.updateOrder("SetOrderStatus", oid, func(o *model.Order) bool {
		if o.Status == status {
			return false
		}
		o.Status = status
		return true
	})
}

// CloseOrder serves and settles the order (SERVIE, paid). The table goes
// back to LIBRE when no other active order remains on it.
func (s *Store) CloseOrder(oid model.OrderID) {
	s.updateOrder("CloseOrder", oid, func(o *model.Order) bool {
		if o.Status == model.StatusServie && o.IsPaid {
			return false
		}
		o.Status = model.StatusServie
		o.IsPaid = true
		return true
	})
}

// DeleteOrder cancels an order outright and re-evaluates its table so a
// cancelled order never leaves it occupied.
func (s *Store) DeleteOrder(oid model.OrderID) {
	s.mutate("DeleteOrder", func() bool {
		o, ok := s.orders.get(oid)
		if !ok {
			return false
		}
		s.orders.remove(oid)
		s.recomputeFor(o.Table)
		return true
	})
}

// SetOrderPaid changes the payment flag only; status and table are kept.
func (s *Store) SetOrderPaid(oid model.OrderID, paid bool) {
	s.updateOrder("SetOrderPaid", oid, func(o *model.Order) bool {
		if o.IsPaid == paid {
			return false
		}
		o.IsPaid = paid
		return true
	})
}

// SetOrderExpectedAt sets or clears (nil) the planned service time.
func (s *Store) SetOrderExpectedAt(oid model.OrderID, at *time.Time) {
	s.updateOrder("SetOrderExpectedAt", oid, func(o *model.Order) bool {
		if at == nil {
			if o.ExpectedAt == nil {
				return false
			}
			o.ExpectedAt = nil
			return true
		}
		t := at.UTC()
		o.ExpectedAt = &t
		return true
	})
}

// AssignOrderActor records who took, prepared, cashed or supervised the
// order. An unknown actor slot is ignored.
func (s *Store) AssignOrderActor(oid model.OrderID, actor model.Actor, uid model.UserID) {
	s.updateOrder("AssignOrderActor", oid, func(o *model.Order) bool {
		var slot *model.UserID
		switch actor {
		case model.ActorWaiter:
			slot = &o.WaiterID
		case model.ActorCashier:
			slot = &o.CashierID
		case model.ActorPreparator:
			slot = &o.PreparatorID
		case model.ActorSupervisor:
			slot = &o.SupervisorID
		default:
			return false
		}
		if *slot == uid {
			return false
		}
		*slot = uid
		return true
	})
}

// MoveOrderToTable rebinds an order (to another table or to takeaway).
// Both the old and the new table are re-evaluated. A missing target table
// returns ErrUnknownTable; a missing order is a no-op.
func (s *Store) MoveOrderToTable(oid model.OrderID, to model.TableRef) error {
	return s.mutateErr("MoveOrderToTable", func() (bool, error) {
		o, ok := s.orders.get(oid)
		if !ok {
			return false, nil
		}
		if tid, isDine := to.TableID(); isDine {
			t, found := s.tables.get(tid)
			if !found {
				return false, ErrUnknownTable
			}
			if t.RestaurantID != "" && o.RestaurantID != "" && t.RestaurantID != o.RestaurantID {
				return false, ErrTableRestaurantMismatch
			}
		}
		if o.Table == to {
			return false, nil
		}
		from := o.Table
		o = o.Clone()
		o.Table = to
		s.orders.put(oid, o)
		s.recomputeFor(from)
		s.recomputeFor(to)
		return true, nil
	})
}
