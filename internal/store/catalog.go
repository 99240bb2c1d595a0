package store

import "paulinepos/internal/model"

func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories.values()
}

func (s *Store) Category(id model.CategoryID) (model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories.get(id)
}

func (s *Store) CategoryByCode(code model.CategoryCode) (model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categoryByCodeLocked(code)
}

func (s *Store) categoryByCodeLocked(code model.CategoryCode) (model.Category, bool) {
	for _, c := range s.categories.values() {
		if c.Code == code {
			return c, true
		}
	}
	return model.Category{}, false
}

func (s *Store) AddProduct(p model.Product) model.ProductID {
	s.mutate("AddProduct", func() bool {
		if p.ID == "" {
			p.ID = model.ProductID(s.newID(model.PrefixProduct))
		}
		s.products.put(p.ID, p)
		return true
	})
	return p.ID
}

// UpdateProduct never reaches existing order lines; they keep the name and
// price captured when they were added.
func (s *Store) UpdateProduct(id model.ProductID, p model.ProductPatch) {
	s.mutate("UpdateProduct", func() bool {
		pr, ok := s.products.get(id)
		if !ok {
			return false
		}
		p.Apply(&pr)
		s.products.put(id, pr)
		return true
	})
}

// DeleteProduct is a hard delete with no check against historical orders.
func (s *Store) DeleteProduct(id model.ProductID) {
	s.mutate("DeleteProduct", func() bool {
		return s.products.remove(id)
	})
}

// ToggleProductAvailability flips IsAvailable.
func (s *Store) ToggleProductAvailability(id model.ProductID) {
	s.mutate("ToggleProductAvailability", func() bool {
		pr, ok := s.products.get(id)
		if !ok {
			return false
		}
		pr.IsAvailable = !pr.IsAvailable
		s.products.put(id, pr)
		return true
	})
}

func (s *Store) Product(id model.ProductID) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.get(id)
}

func (s *Store) ProductsByRestaurant(rid model.RestaurantID) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.filter(func(p model.Product) bool { return p.RestaurantID == rid })
}

// AvailableProducts is what order builders show for a restaurant.
func (s *Store) AvailableProducts(rid model.RestaurantID) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.filter(func(p model.Product) bool {
		return p.RestaurantID == rid && p.IsAvailable
	})
}

func (s *Store) ProductsByCategory(cid model.CategoryID) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.filter(func(p model.Product) bool { return p.CategoryID == cid })
}

// ProductsByCategoryCode resolves code through the categories; an unknown
// code yields an empty list.
func (s *Store) ProductsByCategoryCode(code model.CategoryCode) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categoryByCodeLocked(code)
	if !ok {
		return []model.Product{}
	}
	return s.products.filter(func(p model.Product) bool { return p.CategoryID == c.ID })
}
