package store

import (
	"paulinepos/internal/model"
	"paulinepos/internal/seed"

	"github.com/rs/zerolog/log"
)

// CurrentVersion is the schema version written with every snapshot.
//
//	1: mobile app layout (tables without restaurant/seats/isUsable,
//	   legacy EN_ATTENTE / BROUILLON statuses)
//	2: restaurants, users, typed table references, actor attribution
const CurrentVersion = 2

// Snapshot is the complete value of the store at one point in time and the
// persisted layout. Slices are copies: callers may keep or modify them.
type Snapshot struct {
	Version             int                `json:"version"`
	Tables              []model.Table      `json:"tables"`
	Categories          []model.Category   `json:"categories"`
	Products            []model.Product    `json:"products"`
	Orders              []model.Order      `json:"orders"`
	Restaurants         []model.Restaurant `json:"restaurants"`
	Users               []model.User       `json:"users"`
	CurrentUserID       model.UserID       `json:"currentUserId,omitempty"`
	CurrentRestaurantID model.RestaurantID `json:"currentRestaurantId,omitempty"`

	// Revision orders snapshots of one process; it is not persisted.
	Revision uint64 `json:"-"`
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	orders := s.orders.values()
	for i := range orders {
		orders[i] = orders[i].Clone()
	}
	return Snapshot{
		Version:             CurrentVersion,
		Tables:              s.tables.values(),
		Categories:          s.categories.values(),
		Products:            s.products.values(),
		Orders:              orders,
		Restaurants:         s.restaurants.values(),
		Users:               s.users.values(),
		CurrentUserID:       s.currentUserID,
		CurrentRestaurantID: s.currentRestaurantID,
		Revision:            s.revision,
	}
}

// loadLocked replaces the whole state with snap.
func (s *Store) loadLocked(snap Snapshot) {
	s.users.reset(func(u model.User) model.UserID { return u.ID }, snap.Users)
	s.restaurants.reset(func(r model.Restaurant) model.RestaurantID { return r.ID }, snap.Restaurants)
	s.tables.reset(func(t model.Table) model.TableID { return t.ID }, snap.Tables)
	s.categories.reset(func(c model.Category) model.CategoryID { return c.ID }, snap.Categories)
	s.products.reset(func(p model.Product) model.ProductID { return p.ID }, snap.Products)

	orders := make([]model.Order, 0, len(snap.Orders))
	for _, o := range snap.Orders {
		orders = append(orders, o.Clone())
	}
	s.orders.reset(func(o model.Order) model.OrderID { return o.ID }, orders)

	s.currentUserID = snap.CurrentUserID
	s.currentRestaurantID = snap.CurrentRestaurantID
}

// legacyStatuses maps statuses written by older app builds.
var legacyStatuses = map[model.OrderStatus]model.OrderStatus{
	"EN_ATTENTE": model.StatusAttentePrepa,
	"BROUILLON":  model.StatusDraft,
}

// Migrate upgrades a persisted snapshot to CurrentVersion. It never fails:
// slices that cannot be trusted are reset from the seed instead.
func Migrate(snap Snapshot, d seed.Data) Snapshot {
	from := snap.Version
	switch {
	case from == CurrentVersion:
		return snap
	case from > CurrentVersion:
		log.Warn().Int("version", from).Int("current", CurrentVersion).
			Msg("store: snapshot written by a newer build, loading as-is")
		return snap
	}

	log.Info().Int("from", from).Int("to", CurrentVersion).Msg("store: migrating snapshot")

	if from < 2 {
		// the category catalog changed with v2 (BOISS added); reseed it
		snap.Categories = append([]model.Category(nil), d.Categories...)

		for i := range snap.Tables {
			// isUsable did not exist; every legacy table was in use
			snap.Tables[i].IsUsable = true
			if !snap.Tables[i].Status.Valid() {
				snap.Tables[i].Status = model.TableLibre
			}
		}
		for i := range snap.Orders {
			o := &snap.Orders[i]
			if to, ok := legacyStatuses[o.Status]; ok {
				o.Status = to
			}
			if !o.Status.Valid() {
				o.Status = model.StatusDraft
			}
		}
	}

	snap.Version = CurrentVersion
	return snap
}
