package store

import "paulinepos/internal/model"

// hasActiveOrderLocked reports whether table id has an active order, and
// whether one of them is kitchen-visible.
func (s *Store) hasActiveOrderLocked(id model.TableID) (kitchen, active bool) {
	for _, o := range s.orders.values() {
		if !o.OnTable(id) || !o.Status.Active() {
			continue
		}
		active = true
		if o.Status.KitchenVisible() {
			return true, true
		}
	}
	return false, active
}

// recomputeTableOccupancy derives a table's status from its orders. It is
// called after an order's status or table changes, and after a delete:
//
//   - any kitchen-visible order (past DRAFT, before SERVIE) → EN_SERVICE
//   - no active order left → LIBRE
//   - only drafts → unchanged (a draft is not in the kitchen yet)
//
// Takeaway orders never reach this function.
func (s *Store) recomputeTableOccupancy(id model.TableID) {
	t, ok := s.tables.get(id)
	if !ok {
		return
	}
	kitchen, active := s.hasActiveOrderLocked(id)
	next := t.Status
	switch {
	case kitchen:
		next = model.TableEnService
	case !active:
		next = model.TableLibre
	}
	if next != t.Status {
		t.Status = next
		s.tables.put(id, t)
	}
}

// recomputeFor runs the cascade for the table of ref, if any.
func (s *Store) recomputeFor(ref model.TableRef) {
	if tid, ok := ref.TableID(); ok {
		s.recomputeTableOccupancy(tid)
	}
}
