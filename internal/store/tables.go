package store

import "paulinepos/internal/model"

// AddTable inserts t. A table always starts LIBRE unless the caller set a
// valid status explicitly. The takeaway sentinel is not a usable table id
// (its orders would reload as takeaway), so it is replaced like an empty one.
func (s *Store) AddTable(t model.Table) model.TableID {
	s.mutate("AddTable", func() bool {
		if t.ID == "" || t.ID == model.TakeawaySentinel {
			t.ID = model.TableID(s.newID(model.PrefixTable))
		}
		if !t.Status.Valid() {
			t.Status = model.TableLibre
		}
		s.tables.put(t.ID, t)
		return true
	})
	return t.ID
}

func (s *Store) UpdateTable(id model.TableID, p model.TablePatch) {
	s.mutate("UpdateTable", func() bool {
		t, ok := s.tables.get(id)
		if !ok {
			return false
		}
		p.Apply(&t)
		s.tables.put(id, t)
		return true
	})
}

// DeleteTable does not touch orders referencing the table.
func (s *Store) DeleteTable(id model.TableID) {
	s.mutate("DeleteTable", func() bool {
		return s.tables.remove(id)
	})
}

func (s *Store) Table(id model.TableID) (model.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tables.get(id)
}

func (s *Store) TablesByRestaurant(rid model.RestaurantID) []model.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tables.filter(func(t model.Table) bool { return t.RestaurantID == rid })
}

// SetTableName renames a table.
func (s *Store) SetTableName(id model.TableID, name string) {
	s.UpdateTable(id, model.TablePatch{Name: &name})
}

// OccupyTable marks a table OCCUPEE by hand (walk-in seated before any
// order). A table already EN_SERVICE keeps its status.
func (s *Store) OccupyTable(id model.TableID) {
	s.mutate("OccupyTable", func() bool {
		t, ok := s.tables.get(id)
		if !ok || t.Status != model.TableLibre {
			return false
		}
		t.Status = model.TableOccupee
		s.tables.put(id, t)
		return true
	})
}

// FreeTable releases a table by hand. It is ignored while an active order
// still references the table, so the manual override can never break the
// occupancy invariant.
func (s *Store) FreeTable(id model.TableID) {
	s.mutate("FreeTable", func() bool {
		t, ok := s.tables.get(id)
		if !ok || t.Status == model.TableLibre {
			return false
		}
		if _, active := s.hasActiveOrderLocked(id); active {
			return false
		}
		t.Status = model.TableLibre
		s.tables.put(id, t)
		return true
	})
}
