package store

import "paulinepos/internal/model"

// fallbackGroup is the heading of lines whose product or category is gone.
const fallbackGroup = "Autres"

// Order returns a copy of the order.
func (s *Store) Order(id model.OrderID) (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders.get(id)
	if !ok {
		return model.Order{}, false
	}
	return o.Clone(), true
}

func (s *Store) Orders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrders(s.orders.values())
}

func (s *Store) OrdersByRestaurant(rid model.RestaurantID) []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrders(s.orders.filter(func(o model.Order) bool { return o.RestaurantID == rid }))
}

func cloneOrders(in []model.Order) []model.Order {
	for i := range in {
		in[i] = in[i].Clone()
	}
	return in
}

// OrderTotal is Σ qty×price over the order's current items, 0 for a
// missing order.
func (s *Store) OrderTotal(id model.OrderID) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders.get(id)
	if !ok {
		return 0
	}
	return o.Total()
}

// ActiveOrderForTable returns the most recently created order on the table
// that is not SERVIE. Orders created at the same instant resolve to the one
// inserted last.
func (s *Store) ActiveOrderForTable(id model.TableID) (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		best  model.Order
		found bool
	)
	for _, o := range s.orders.values() {
		if !o.OnTable(id) || !o.Status.Active() {
			continue
		}
		if !found || !o.CreatedAt.Before(best.CreatedAt) {
			best, found = o, true
		}
	}
	if !found {
		return model.Order{}, false
	}
	return best.Clone(), true
}

// ItemGroup is a block of order lines sharing a category heading.
type ItemGroup struct {
	Category string            `json:"category"`
	Items    []model.OrderItem `json:"items"`
}

// GroupedItems splits an order's lines by category name, in the order the
// categories first appear on the order. Lines whose product was deleted
// fall under "Autres".
func (s *Store) GroupedItems(id model.OrderID) []ItemGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groups := make([]ItemGroup, 0)
	o, ok := s.orders.get(id)
	if !ok {
		return groups
	}
	index := make(map[string]int)
	for _, it := range o.Items {
		name := fallbackGroup
		if p, ok := s.products.get(it.ProductID); ok {
			if c, ok := s.categories.get(p.CategoryID); ok {
				name = c.Name
			}
		}
		i, seen := index[name]
		if !seen {
			i = len(groups)
			index[name] = i
			groups = append(groups, ItemGroup{Category: name})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}
