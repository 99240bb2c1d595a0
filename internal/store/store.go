// Package store is the order/table state container of the POS.
//
// A Store holds five normalized collections (users, restaurants, tables,
// products, orders) plus the static categories and two session pointers.
// Every exported mutation runs under a single lock and leaves the
// cross-entity invariants intact:
//
//   - an order's total is derived from its items, never stored;
//   - a table whose status is LIBRE has no order in a kitchen-visible status
//     (the occupancy cascade, see recomputeTableOccupancy).
//
// Mutations targeting an unknown id are silent no-ops. The only operations
// that return an error are structural preconditions, such as opening an
// order on a table that does not exist.
package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"paulinepos/internal/model"
	"paulinepos/internal/seed"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	// ErrUnknownTable is returned when an order is bound to a missing table.
	ErrUnknownTable = errors.New("table inconnue")
	// ErrTableRestaurantMismatch is returned when an order and its table
	// belong to different restaurants.
	ErrTableRestaurantMismatch = errors.New("la table n'appartient pas à ce restaurant")
	// ErrAlreadyHydrated is returned by a second Hydrate call.
	ErrAlreadyHydrated = errors.New("store déjà hydraté")
	// ErrNotHydrated is returned by WaitReady when the context ends first.
	ErrNotHydrated = errors.New("store en cours de chargement")
)

// Store is safe for concurrent use. Construct it with New and share the
// pointer; there is no package-level instance.
type Store struct {
	mu sync.RWMutex

	users       *collection[model.UserID, model.User]
	restaurants *collection[model.RestaurantID, model.Restaurant]
	tables      *collection[model.TableID, model.Table]
	categories  *collection[model.CategoryID, model.Category]
	products    *collection[model.ProductID, model.Product]
	orders      *collection[model.OrderID, model.Order]

	currentUserID       model.UserID
	currentRestaurantID model.RestaurantID

	// revision increases on every applied mutation
	revision uint64
	hydrated bool
	ready    chan struct{}

	seed  seed.Data
	now   func() time.Time
	newID func(prefix string) string
	loc   *time.Location

	subMu   sync.Mutex
	subs    map[uint64]func(Snapshot)
	nextSub uint64
}

// Option customizes a Store at construction.
type Option func(*Store)

// WithClock replaces time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the random id generator (tests).
func WithIDGenerator(gen func(prefix string) string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithSeed replaces the embedded reference data.
func WithSeed(d seed.Data) Option {
	return func(s *Store) { s.seed = d }
}

// WithLocation sets the time zone used for day/week/month boundaries.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// New returns a default-seeded store that is not hydrated yet.
func New(opts ...Option) *Store {
	s := &Store{
		users:       newCollection[model.UserID, model.User](),
		restaurants: newCollection[model.RestaurantID, model.Restaurant](),
		tables:      newCollection[model.TableID, model.Table](),
		categories:  newCollection[model.CategoryID, model.Category](),
		products:    newCollection[model.ProductID, model.Product](),
		orders:      newCollection[model.OrderID, model.Order](),
		ready:       make(chan struct{}),
		now:         time.Now,
		newID:       randomID,
		loc:         time.Local,
		subs:        make(map[uint64]func(Snapshot)),
	}
	s.seed = seed.Defaults()
	for _, o := range opts {
		o(s)
	}
	s.loadDefaults()
	return s
}

// randomID returns prefix + 10 lowercase alphanumerics.
func randomID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

func (s *Store) loadDefaults() {
	s.users.reset(func(u model.User) model.UserID { return u.ID }, nil)
	s.restaurants.reset(func(r model.Restaurant) model.RestaurantID { return r.ID }, nil)
	s.tables.reset(func(t model.Table) model.TableID { return t.ID }, nil)
	s.products.reset(func(p model.Product) model.ProductID { return p.ID }, nil)
	s.orders.reset(func(o model.Order) model.OrderID { return o.ID }, nil)
	s.categories.reset(func(c model.Category) model.CategoryID { return c.ID }, append([]model.Category(nil), s.seed.Categories...))
	s.currentUserID = ""
	s.currentRestaurantID = ""
}

// mutate runs fn under the write lock. fn reports whether it changed
// anything; subscribers are notified after the lock is released, and only
// once the store is hydrated.
func (s *Store) mutate(op string, fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		log.Debug().Str("op", op).Msg("store: no-op")
		return
	}
	s.revision++
	var snap Snapshot
	notify := s.hydrated
	if notify {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if notify {
		s.publish(snap)
	}
}

// mutateErr is mutate for operations with structural preconditions.
func (s *Store) mutateErr(op string, fn func() (bool, error)) error {
	var err error
	s.mutate(op, func() bool {
		var changed bool
		changed, err = fn()
		return changed
	})
	return err
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

// Subscribe registers fn to receive every snapshot published after a
// mutation. fn runs on the mutating goroutine and must not call back into
// mutations of the store. The returned func unregisters fn.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Select calls fn with sel(snapshot) immediately and again after every
// published mutation.
func Select[T any](s *Store, sel func(Snapshot) T, fn func(T)) (unsubscribe func()) {
	unsub := s.Subscribe(func(snap Snapshot) { fn(sel(snap)) })
	fn(sel(s.Snapshot()))
	return unsub
}

func (s *Store) publish(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
