package store

import (
	"context"
	"fmt"

	"paulinepos/internal/model"

	"github.com/rs/zerolog/log"
)

// SnapshotLoader reads the persisted snapshot. A nil snapshot with a nil
// error means nothing was persisted yet.
type SnapshotLoader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// LoaderFunc adapts a function to SnapshotLoader.
type LoaderFunc func(ctx context.Context) (*Snapshot, error)

func (f LoaderFunc) Load(ctx context.Context) (*Snapshot, error) { return f(ctx) }

// NoSnapshot hydrates a store with its seeded defaults.
var NoSnapshot SnapshotLoader = LoaderFunc(func(context.Context) (*Snapshot, error) { return nil, nil })

// Hydrate loads the persisted snapshot, migrates it, runs the integrity
// pass, and marks the store ready. State mutated before Hydrate is
// replaced by the persisted snapshot when there is one; nothing is
// published to subscribers before this point, so a default in-memory
// state can never overwrite a real persisted one.
func (s *Store) Hydrate(ctx context.Context, loader SnapshotLoader) error {
	snap, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("hydrate: %w", err)
	}

	s.mu.Lock()
	if s.hydrated {
		s.mu.Unlock()
		return ErrAlreadyHydrated
	}
	if snap != nil {
		s.loadLocked(Migrate(*snap, s.seed))
	}
	issues := s.integrityLocked()
	s.repairOccupancyLocked()
	s.hydrated = true
	s.revision++
	out := s.snapshotLocked()
	close(s.ready)
	s.mu.Unlock()

	for _, is := range issues {
		log.Warn().Str("kind", string(is.Kind)).Str("entity", is.EntityID).Str("ref", is.RefID).Msg("store: dangling reference")
	}
	log.Info().
		Bool("restored", snap != nil).
		Int("orders", len(out.Orders)).
		Int("tables", len(out.Tables)).
		Msg("store: hydrated")

	s.publish(out)
	return nil
}

// Hydrated reports whether Hydrate completed.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Ready is closed once the store is hydrated.
func (s *Store) Ready() <-chan struct{} { return s.ready }

// WaitReady blocks until the store is hydrated or ctx is done.
func (s *Store) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrNotHydrated, ctx.Err())
	}
}

// ResetAll drops every entity and the session pointers and restores the
// seeded categories.
func (s *Store) ResetAll() {
	s.mutate("ResetAll", func() bool {
		s.loadDefaults()
		return true
	})
}

// IssueKind names a class of dangling foreign key.
type IssueKind string

const (
	IssueOrderTable        IssueKind = "order_table"
	IssueOrderRestaurant   IssueKind = "order_restaurant"
	IssueTableRestaurant   IssueKind = "table_restaurant"
	IssueProductRestaurant IssueKind = "product_restaurant"
	IssueProductCategory   IssueKind = "product_category"
)

// Issue is one dangling reference found by Integrity.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	EntityID string    `json:"entityId"`
	RefID    string    `json:"refId"`
}

// Integrity lists foreign keys pointing at missing parents. Deletes do not
// cascade, so these accumulate by design; the report makes them visible.
func (s *Store) Integrity() []Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.integrityLocked()
}

func (s *Store) integrityLocked() []Issue {
	issues := make([]Issue, 0)
	for _, o := range s.orders.values() {
		if tid, ok := o.Table.TableID(); ok && !s.tables.has(tid) {
			issues = append(issues, Issue{IssueOrderTable, string(o.ID), string(tid)})
		}
		if o.RestaurantID != "" && !s.restaurants.has(o.RestaurantID) {
			issues = append(issues, Issue{IssueOrderRestaurant, string(o.ID), string(o.RestaurantID)})
		}
	}
	for _, t := range s.tables.values() {
		if t.RestaurantID != "" && !s.restaurants.has(t.RestaurantID) {
			issues = append(issues, Issue{IssueTableRestaurant, string(t.ID), string(t.RestaurantID)})
		}
	}
	for _, p := range s.products.values() {
		if p.RestaurantID != "" && !s.restaurants.has(p.RestaurantID) {
			issues = append(issues, Issue{IssueProductRestaurant, string(p.ID), string(p.RestaurantID)})
		}
		if !s.categories.has(p.CategoryID) {
			issues = append(issues, Issue{IssueProductCategory, string(p.ID), string(p.CategoryID)})
		}
	}
	return issues
}

// repairOccupancyLocked reconciles table statuses with the loaded orders.
// A kitchen-visible order promotes its table to EN_SERVICE, and an
// EN_SERVICE table without any active order goes back to LIBRE. A manual
// OCCUPEE is never freed, whatever the table's order history.
func (s *Store) repairOccupancyLocked() {
	for _, t := range s.tables.values() {
		kitchen, active := s.hasActiveOrderLocked(t.ID)
		next := t.Status
		switch {
		case kitchen:
			next = model.TableEnService
		case t.Status == model.TableEnService && !active:
			next = model.TableLibre
		}
		if next != t.Status {
			t.Status = next
			s.tables.put(t.ID, t)
		}
	}
}
