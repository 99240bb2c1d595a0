package store

import "paulinepos/internal/model"

func (s *Store) AddRestaurant(r model.Restaurant) model.RestaurantID {
	s.mutate("AddRestaurant", func() bool {
		if r.ID == "" {
			r.ID = model.RestaurantID(s.newID(model.PrefixRestaurant))
		}
		s.restaurants.put(r.ID, r)
		return true
	})
	return r.ID
}

func (s *Store) UpdateRestaurant(id model.RestaurantID, p model.RestaurantPatch) {
	s.mutate("UpdateRestaurant", func() bool {
		r, ok := s.restaurants.get(id)
		if !ok {
			return false
		}
		p.Apply(&r)
		s.restaurants.put(id, r)
		return true
	})
}

// DeleteRestaurant does not cascade: tables, products and orders of the
// restaurant stay and show up in Integrity.
func (s *Store) DeleteRestaurant(id model.RestaurantID) {
	s.mutate("DeleteRestaurant", func() bool {
		if !s.restaurants.remove(id) {
			return false
		}
		if s.currentRestaurantID == id {
			s.currentRestaurantID = ""
		}
		return true
	})
}

func (s *Store) Restaurant(id model.RestaurantID) (model.Restaurant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restaurants.get(id)
}

func (s *Store) Restaurants() []model.Restaurant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restaurants.values()
}

// RestaurantsByOwner lists the restaurants created by a user.
func (s *Store) RestaurantsByOwner(owner model.UserID) []model.Restaurant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restaurants.filter(func(r model.Restaurant) bool { return r.OwnerID == owner })
}

func (s *Store) SetCurrentRestaurant(id model.RestaurantID) {
	s.mutate("SetCurrentRestaurant", func() bool {
		if !s.restaurants.has(id) || s.currentRestaurantID == id {
			return false
		}
		s.currentRestaurantID = id
		return true
	})
}

func (s *Store) CurrentRestaurant() (model.Restaurant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentRestaurantID == "" {
		return model.Restaurant{}, false
	}
	return s.restaurants.get(s.currentRestaurantID)
}
