package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"paulinepos/internal/model"
	"paulinepos/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

// fakeClock returns t and then advances it by step.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func (c *fakeClock) set(t time.Time) { c.t = t }

func seqIDs() func(prefix string) string {
	var mu sync.Mutex
	n := 0
	return func(prefix string) string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%04d", prefix, n)
	}
}

func newTestStore(t *testing.T) (*store.Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC), step: time.Second}
	s := store.New(
		store.WithClock(clock.Now),
		store.WithIDGenerator(seqIDs()),
		store.WithLocation(time.UTC),
	)
	require.NoError(t, s.Hydrate(context.Background(), store.NoSnapshot))
	return s, clock
}

// fixture is a restaurant with tables T1..T3 and products P1 (3500, Plats)
// and P2 (1000, Boissons).
type fixture struct {
	s     *store.Store
	clock *fakeClock
	rid   model.RestaurantID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	s, clock := newTestStore(t)
	rid := s.AddRestaurant(model.Restaurant{ID: "r1", Name: "Chez Pauline", Specialty: "Camerounaise"})
	for i := 1; i <= 3; i++ {
		s.AddTable(model.Table{
			ID:           model.TableID(fmt.Sprintf("T%d", i)),
			Name:         fmt.Sprintf("Table %d", i),
			Seats:        4,
			IsUsable:     true,
			RestaurantID: rid,
		})
	}
	s.AddProduct(model.Product{ID: "P1", Name: "Poulet DG", CategoryID: "cat-plat", RestaurantID: rid, Price: 3500, IsAvailable: true})
	s.AddProduct(model.Product{ID: "P2", Name: "Jus de bissap", CategoryID: "cat-boiss", RestaurantID: rid, Price: 1000, IsAvailable: true})
	return fixture{s: s, clock: clock, rid: rid}
}

func tableStatus(t *testing.T, s *store.Store, id model.TableID) model.TableStatus {
	t.Helper()
	tb, ok := s.Table(id)
	require.True(t, ok, "table %s", id)
	return tb.Status
}

// assertOccupancy checks that no LIBRE table carries a kitchen-visible order.
func assertOccupancy(t *testing.T, s *store.Store) {
	t.Helper()
	snap := s.Snapshot()
	for _, tb := range snap.Tables {
		if tb.Status != model.TableLibre {
			continue
		}
		for _, o := range snap.Orders {
			if o.OnTable(tb.ID) {
				assert.False(t, o.Status.KitchenVisible(),
					"table %s is LIBRE but order %s is %s", tb.ID, o.ID, o.Status)
			}
		}
	}
}

// ── Scenario ─────────────────────────────────────────────────────────────────

func TestOrderLifecycle_EndToEnd(t *testing.T) {
	f := newFixture(t)
	s := f.s

	id, err := s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)

	o, ok := s.Order(id)
	require.True(t, ok)
	assert.Equal(t, model.StatusDraft, o.Status)
	assert.False(t, o.IsPaid)
	assert.Empty(t, o.Items)
	assert.Empty(t, o.Comments)
	assert.Equal(t, model.TableLibre, tableStatus(t, s, "T1"))

	s.AddItemToOrder(id, "P1", 2)
	assert.Equal(t, int64(7000), s.OrderTotal(id))

	s.SetOrderStatus(id, model.StatusAttentePrepa)
	assert.Equal(t, model.TableEnService, tableStatus(t, s, "T1"))
	assertOccupancy(t, s)

	s.CloseOrder(id)
	o, _ = s.Order(id)
	assert.Equal(t, model.StatusServie, o.Status)
	assert.True(t, o.IsPaid)
	assert.Equal(t, model.TableLibre, tableStatus(t, s, "T1"))
	assertOccupancy(t, s)
}

func TestOccupancy_HoldsAcrossEveryStatus(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Dine("T2"))
	require.NoError(t, err)
	f.s.AddItemToOrder(id, "P2", 1)

	for _, st := range model.OrderStatuses {
		f.s.SetOrderStatus(id, st)
		assertOccupancy(t, f.s)
		want := model.TableEnService
		if !st.KitchenVisible() {
			want = model.TableLibre
		}
		assert.Equal(t, want, tableStatus(t, f.s, "T2"), "status %s", st)
	}

	// backward move out of SERVIE re-occupies the table
	f.s.SetOrderStatus(id, model.StatusEnPrepa)
	assert.Equal(t, model.TableEnService, tableStatus(t, f.s, "T2"))
}

// ── Subscription ─────────────────────────────────────────────────────────────

func TestSubscribe_NotifiedOnlyAfterHydration(t *testing.T) {
	s := store.New(store.WithIDGenerator(seqIDs()))
	var revisions []uint64
	unsub := s.Subscribe(func(snap store.Snapshot) { revisions = append(revisions, snap.Revision) })

	s.AddTable(model.Table{Name: "Terrasse"})
	assert.Empty(t, revisions, "no snapshot may leave the store before hydration")

	require.NoError(t, s.Hydrate(context.Background(), store.NoSnapshot))
	require.Len(t, revisions, 1)

	s.AddTable(model.Table{Name: "Salle"})
	require.Len(t, revisions, 2)
	assert.Greater(t, revisions[1], revisions[0])

	// referential miss: nothing published
	s.UpdateTable("missing", model.TablePatch{})
	assert.Len(t, revisions, 2)

	unsub()
	s.AddTable(model.Table{Name: "Bar"})
	assert.Len(t, revisions, 2)
}

func TestSelect_ReinvokedOnChange(t *testing.T) {
	f := newFixture(t)
	var counts []int
	unsub := store.Select(f.s,
		func(snap store.Snapshot) int { return len(snap.Orders) },
		func(n int) { counts = append(counts, n) })
	defer unsub()

	_, err := f.s.CreateOrder(f.rid, model.Takeaway())
	require.NoError(t, err)
	_, err = f.s.CreateOrder(f.rid, model.Takeaway())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, counts)
}

func TestSnapshot_IsACopy(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)
	f.s.AddItemToOrder(id, "P1", 1)

	snap := f.s.Snapshot()
	snap.Orders[0].Items[0].Qty = 99
	snap.Tables[0].Status = model.TableOccupee

	assert.Equal(t, int64(3500), f.s.OrderTotal(id))
	assert.Equal(t, model.TableLibre, tableStatus(t, f.s, "T1"))
}

func TestStore_ConcurrentMutations(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.s.AddItemToOrder(id, "P2", 1)
			_ = f.s.OrderTotal(id)
		}()
	}
	wg.Wait()

	o, _ := f.s.Order(id)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 50, o.Items[0].Qty)
	assert.Equal(t, int64(50_000), f.s.OrderTotal(id))
}

func TestResetAll(t *testing.T) {
	f := newFixture(t)
	uid := f.s.AddUser(model.User{Email: "a@b.cm"})
	f.s.SetCurrentUser(uid)
	_, err := f.s.CreateOrder(f.rid, model.Takeaway())
	require.NoError(t, err)

	f.s.ResetAll()

	snap := f.s.Snapshot()
	assert.Empty(t, snap.Orders)
	assert.Empty(t, snap.Tables)
	assert.Empty(t, snap.Users)
	assert.Empty(t, snap.CurrentUserID)
	assert.Len(t, snap.Categories, 6)
}
