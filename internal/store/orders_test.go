package store_test

import (
	"testing"
	"time"

	"paulinepos/internal/model"
	"paulinepos/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_UnknownTable(t *testing.T) {
	f := newFixture(t)
	_, err := f.s.CreateOrder(f.rid, model.Dine("nope"))
	assert.ErrorIs(t, err, store.ErrUnknownTable)
	assert.Empty(t, f.s.Orders())
}

func TestCreateOrder_TableOfAnotherRestaurant(t *testing.T) {
	f := newFixture(t)
	other := f.s.AddRestaurant(model.Restaurant{Name: "Le Wouri"})
	_, err := f.s.CreateOrder(other, model.Dine("T1"))
	assert.ErrorIs(t, err, store.ErrTableRestaurantMismatch)
}

func TestCreateOrder_RecordsWaiterAndTime(t *testing.T) {
	f := newFixture(t)
	uid := f.s.AddUser(model.User{Firstname: "Awa", Email: "awa@pauline.cm"})
	f.s.SetCurrentUser(uid)
	at := time.Date(2024, 5, 15, 19, 30, 0, 0, time.UTC)
	f.clock.set(at)

	id, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)

	o, _ := f.s.Order(id)
	assert.Equal(t, uid, o.WaiterID)
	assert.Equal(t, at, o.CreatedAt)
	assert.Equal(t, f.rid, o.RestaurantID)
	assert.Nil(t, o.ExpectedAt)
}

func TestAddItemToOrder_MergesSameProduct(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)

	f.s.AddItemToOrder(id, "P1", 1)
	f.s.AddItemToOrder(id, "P1", 2)

	o, _ := f.s.Order(id)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 3, o.Items[0].Qty)
	assert.Equal(t, int64(10_500), f.s.OrderTotal(id))
}

func TestAddItemToOrder_NoOps(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Takeaway())
	require.NoError(t, err)

	f.s.AddItemToOrder(id, "missing", 1)
	f.s.AddItemToOrder("missing", "P1", 1)
	f.s.AddItemToOrder(id, "P1", 0)
	f.s.AddItemToOrder(id, "P1", -3)

	o, _ := f.s.Order(id)
	assert.Empty(t, o.Items)
	assert.Zero(t, f.s.OrderTotal("missing"))
}

func TestAddNotedItemToOrder_NeverMerged(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Takeaway())
	require.NoError(t, err)

	f.s.AddItemToOrder(id, "P1", 1)
	f.s.AddNotedItemToOrder(id, "P1", 1, " sans piment ")
	f.s.AddItemToOrder(id, "P1", 1)

	o, _ := f.s.Order(id)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 2, o.Items[0].Qty)
	assert.Empty(t, o.Items[0].Note)
	assert.Equal(t, 1, o.Items[1].Qty)
	assert.Equal(t, "sans piment", o.Items[1].Note)
	assert.Equal(t, int64(10_500), f.s.OrderTotal(id))
}

func TestPriceSnapshotIsolation(t *testing.T) {
	f := newFixture(t)
	f.s.AddProduct(model.Product{ID: "P", Name: "Ndolè", CategoryID: "cat-plat", RestaurantID: f.rid, Price: 1000})

	first, err := f.s.CreateOrder(f.rid, model.Takeaway())
	require.NoError(t, err)
	f.s.AddItemToOrder(first, "P", 1)

	price := int64(2000)
	name := "Ndolè royal"
	f.s.UpdateProduct("P", model.ProductPatch{Price: &price, Name: &name})

	second, err := f.s.CreateOrder(f.rid, model.Takeaway())
	require.NoError(t, err)
	f.s.AddItemToOrder(second, "P", 1)

	o1, _ := f.s.Order(first)
	o2, _ := f.s.Order(second)
	assert.Equal(t, int64(1000), o1.Items[0].Price)
	assert.Equal(t, "Ndolè", o1.Items[0].Name)
	assert.Equal(t, int64(2000), o2.Items[0].Price)
	assert.Equal(t, "Ndolè royal", o2.Items[0].Name)
}

func TestUpdateItemQty_ClampAndRemove(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Takeaway())
	require.NoError(t, err)
	f.s.AddItemToOrder(id, "P1", 2)
	f.s.AddItemToOrder(id, "P2", 3)

	o, _ := f.s.Order(id)
	p1Line := o.Items[0].ID
	p2Line := o.Items[1].ID

	f.s.UpdateItemQty(id, p2Line, 5)
	assert.Equal(t, int64(7000+5000), f.s.OrderTotal(id))

	// negative clamps to 0, which removes the line
	f.s.UpdateItemQty(id, p1Line, -4)
	o, _ = f.s.Order(id)
	require.Len(t, o.Items, 1)
	assert.Equal(t, p2Line, o.Items[0].ID)
	assert.Equal(t, int64(5000), f.s.OrderTotal(id))

	// already gone: no-op
	f.s.UpdateItemQty(id, p1Line, 0)
	assert.Equal(t, int64(5000), f.s.OrderTotal(id))
}

func TestRemoveItemFromOrder(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Takeaway())
	require.NoError(t, err)
	f.s.AddItemToOrder(id, "P1", 1)
	f.s.AddItemToOrder(id, "P2", 1)

	o, _ := f.s.Order(id)
	f.s.RemoveItemFromOrder(id, o.Items[0].ID)
	f.s.RemoveItemFromOrder(id, "missing")

	o, _ = f.s.Order(id)
	require.Len(t, o.Items, 1)
	assert.Equal(t, model.ProductID("P2"), o.Items[0].ProductID)
	assert.Equal(t, o.Total(), f.s.OrderTotal(id))
}

func TestAddOrderComment_AppendOnly(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)

	f.s.AddOrderComment(id, model.RoleServeur, "client allergique aux arachides")
	f.s.AddOrderComment(id, model.RoleCuisine, "   ")
	f.s.AddOrderComment(id, model.RoleCuisine, "plus de plantain, remplacé par riz")

	o, _ := f.s.Order(id)
	require.Len(t, o.Comments, 2)
	assert.Equal(t, model.RoleServeur, o.Comments[0].Role)
	assert.Equal(t, model.RoleCuisine, o.Comments[1].Role)
	assert.True(t, o.Comments[0].At.Before(o.Comments[1].At))
}

func TestSetOrderStatus_InvalidIgnored(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)

	f.s.SetOrderStatus(id, "EN_ATTENTE")

	o, _ := f.s.Order(id)
	assert.Equal(t, model.StatusDraft, o.Status)
	assert.Equal(t, model.TableLibre, tableStatus(t, f.s, "T1"))
}

func TestCascade_ReleaseNeedsEveryOrderClosed(t *testing.T) {
	f := newFixture(t)
	a, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)
	b, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)
	f.s.SetOrderStatus(a, model.StatusAttentePrepa)
	f.s.SetOrderStatus(b, model.StatusEnPrepa)
	require.Equal(t, model.TableEnService, tableStatus(t, f.s, "T1"))

	f.s.CloseOrder(a)
	assert.Equal(t, model.TableEnService, tableStatus(t, f.s, "T1"))

	f.s.CloseOrder(b)
	assert.Equal(t, model.TableLibre, tableStatus(t, f.s, "T1"))
}

func TestCascade_DeleteReleasesTable(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Dine("T2"))
	require.NoError(t, err)
	f.s.SetOrderStatus(id, model.StatusAttentePrepa)
	require.Equal(t, model.TableEnService, tableStatus(t, f.s, "T2"))

	f.s.DeleteOrder(id)

	_, ok := f.s.Order(id)
	assert.False(t, ok)
	assert.Equal(t, model.TableLibre, tableStatus(t, f.s, "T2"))
}

func TestCascade_DraftLeftOnServedTable(t *testing.T) {
	f := newFixture(t)
	served, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)
	f.s.SetOrderStatus(served, model.StatusAttentePrepa)
	draft, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)

	f.s.CloseOrder(served)

	// the table still has an active order, so it is not released
	assert.Equal(t, model.TableEnService, tableStatus(t, f.s, "T1"))
	assertOccupancy(t, f.s)

	f.s.DeleteOrder(draft)
	assert.Equal(t, model.TableLibre, tableStatus(t, f.s, "T1"))
}

func TestTakeaway_NeverTouchesTables(t *testing.T) {
	f := newFixture(t)
	f.s.OccupyTable("T3")
	before := f.s.Snapshot().Tables

	id, err := f.s.CreateOrder(f.rid, model.Takeaway())
	require.NoError(t, err)
	f.s.AddItemToOrder(id, "P2", 2)
	for _, st := range model.OrderStatuses {
		f.s.SetOrderStatus(id, st)
	}
	f.s.SetOrderPaid(id, true)
	f.s.CloseOrder(id)
	f.s.DeleteOrder(id)

	assert.Equal(t, before, f.s.Snapshot().Tables)
}

func TestSetOrderPaid_NoTableEffect(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)
	f.s.SetOrderStatus(id, model.StatusEnPrepa)

	f.s.SetOrderPaid(id, true)

	o, _ := f.s.Order(id)
	assert.True(t, o.IsPaid)
	assert.Equal(t, model.StatusEnPrepa, o.Status)
	assert.Equal(t, model.TableEnService, tableStatus(t, f.s, "T1"))
}

func TestManualOccupancy_SurvivesOrderEdits(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)
	f.s.AddItemToOrder(id, "P1", 2)
	f.s.SetOrderStatus(id, model.StatusAttentePrepa)
	f.s.CloseOrder(id)
	require.Equal(t, model.TableLibre, tableStatus(t, f.s, "T1"))

	// walk-in seated before anyone orders
	f.s.OccupyTable("T1")

	o, _ := f.s.Order(id)
	item := o.Items[0].ID
	at := time.Date(2024, 5, 15, 20, 0, 0, 0, time.UTC)

	f.s.SetOrderPaid(id, false)
	f.s.AddOrderComment(id, model.RoleCaissier, "ticket réimprimé")
	f.s.SetOrderExpectedAt(id, &at)
	f.s.AssignOrderActor(id, model.ActorCashier, "u_cashier")
	f.s.UpdateItemQty(id, item, 3)
	f.s.AddItemToOrder(id, "P2", 1)
	f.s.RemoveItemFromOrder(id, item)

	assert.Equal(t, model.TableOccupee, tableStatus(t, f.s, "T1"))

	// a status change still runs the cascade
	next, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)
	assert.Equal(t, model.TableOccupee, tableStatus(t, f.s, "T1"), "a draft leaves the table alone")
	f.s.SetOrderStatus(next, model.StatusEnPrepa)
	assert.Equal(t, model.TableEnService, tableStatus(t, f.s, "T1"))
	f.s.CloseOrder(next)
	assert.Equal(t, model.TableLibre, tableStatus(t, f.s, "T1"))
}

func TestCreateOrderBy_CreditsGivenWaiter(t *testing.T) {
	f := newFixture(t)
	a := f.s.AddUser(model.User{Email: "awa@pauline.cm"})
	b := f.s.AddUser(model.User{Email: "binta@pauline.cm"})
	f.s.SetCurrentUser(b)

	id, err := f.s.CreateOrderBy(f.rid, model.Dine("T1"), a)
	require.NoError(t, err)
	o, _ := f.s.Order(id)
	assert.Equal(t, a, o.WaiterID)
	assert.Equal(t, model.TableLibre, tableStatus(t, f.s, "T1"))

	_, err = f.s.CreateOrderBy(f.rid, model.Dine("nope"), a)
	assert.ErrorIs(t, err, store.ErrUnknownTable)

	// the device flow still uses the session user
	id, err = f.s.CreateOrder(f.rid, model.Takeaway())
	require.NoError(t, err)
	o, _ = f.s.Order(id)
	assert.Equal(t, b, o.WaiterID)
}

func TestSetOrderExpectedAt(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Takeaway())
	require.NoError(t, err)

	at := time.Date(2024, 5, 15, 20, 0, 0, 0, time.FixedZone("WAT", 3600))
	f.s.SetOrderExpectedAt(id, &at)
	o, _ := f.s.Order(id)
	require.NotNil(t, o.ExpectedAt)
	assert.True(t, at.Equal(*o.ExpectedAt))

	f.s.SetOrderExpectedAt(id, nil)
	o, _ = f.s.Order(id)
	assert.Nil(t, o.ExpectedAt)
}

func TestAssignOrderActor(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Takeaway())
	require.NoError(t, err)

	f.s.AssignOrderActor(id, model.ActorPreparator, "u_chef")
	f.s.AssignOrderActor(id, model.ActorCashier, "u_caisse")
	f.s.AssignOrderActor(id, "plongeur", "u_x")

	o, _ := f.s.Order(id)
	assert.Equal(t, model.UserID("u_chef"), o.PreparatorID)
	assert.Equal(t, model.UserID("u_caisse"), o.CashierID)
	assert.Empty(t, o.SupervisorID)
}

func TestMoveOrderToTable(t *testing.T) {
	f := newFixture(t)
	id, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)
	f.s.SetOrderStatus(id, model.StatusAttentePrepa)

	require.NoError(t, f.s.MoveOrderToTable(id, model.Dine("T2")))
	assert.Equal(t, model.TableLibre, tableStatus(t, f.s, "T1"))
	assert.Equal(t, model.TableEnService, tableStatus(t, f.s, "T2"))

	require.NoError(t, f.s.MoveOrderToTable(id, model.Takeaway()))
	assert.Equal(t, model.TableLibre, tableStatus(t, f.s, "T2"))

	err = f.s.MoveOrderToTable(id, model.Dine("T9"))
	assert.ErrorIs(t, err, store.ErrUnknownTable)
	o, _ := f.s.Order(id)
	assert.True(t, o.Table.IsTakeaway())

	assert.NoError(t, f.s.MoveOrderToTable("missing", model.Dine("T1")))
	assertOccupancy(t, f.s)
}

func TestActiveOrderForTable(t *testing.T) {
	f := newFixture(t)
	older, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)
	newer, err := f.s.CreateOrder(f.rid, model.Dine("T1"))
	require.NoError(t, err)
	_, err = f.s.CreateOrder(f.rid, model.Dine("T2"))
	require.NoError(t, err)

	o, ok := f.s.ActiveOrderForTable("T1")
	require.True(t, ok)
	assert.Equal(t, newer, o.ID)

	f.s.CloseOrder(newer)
	o, ok = f.s.ActiveOrderForTable("T1")
	require.True(t, ok)
	assert.Equal(t, older, o.ID)

	f.s.CloseOrder(older)
	_, ok = f.s.ActiveOrderForTable("T1")
	assert.False(t, ok)
}

func TestActiveOrderForTable_SameInstantPicksLastInserted(t *testing.T) {
	f := newFixture(t)
	f.clock.step = 0
	_, err := f.s.CreateOrder(f.rid, model.Dine("T3"))
	require.NoError(t, err)
	last, err := f.s.CreateOrder(f.rid, model.Dine("T3"))
	require.NoError(t, err)

	o, ok := f.s.ActiveOrderForTable("T3")
	require.True(t, ok)
	assert.Equal(t, last, o.ID)
}

func TestGroupedItems(t *testing.T) {
	f := newFixture(t)
	f.s.AddProduct(model.Product{ID: "P3", Name: "Plat du jour", CategoryID: "cat-plat", RestaurantID: f.rid, Price: 2500})
	id, err := f.s.CreateOrder(f.rid, model.Takeaway())
	require.NoError(t, err)

	f.s.AddItemToOrder(id, "P2", 1)
	f.s.AddItemToOrder(id, "P1", 1)
	f.s.AddNotedItemToOrder(id, "P2", 1, "bien frais")
	f.s.AddItemToOrder(id, "P3", 1)
	f.s.DeleteProduct("P3")

	groups := f.s.GroupedItems(id)
	require.Len(t, groups, 3)
	assert.Equal(t, "Boissons", groups[0].Category)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, "Plats", groups[1].Category)
	assert.Len(t, groups[1].Items, 1)
	assert.Equal(t, "Autres", groups[2].Category)
	assert.Equal(t, "Plat du jour", groups[2].Items[0].Name)

	assert.Empty(t, f.s.GroupedItems("missing"))
}

func TestOrdersByRestaurant(t *testing.T) {
	f := newFixture(t)
	other := f.s.AddRestaurant(model.Restaurant{Name: "Le Wouri"})
	_, err := f.s.CreateOrder(f.rid, model.Takeaway())
	require.NoError(t, err)
	_, err = f.s.CreateOrder(other, model.Takeaway())
	require.NoError(t, err)

	assert.Len(t, f.s.OrdersByRestaurant(f.rid), 1)
	assert.Len(t, f.s.OrdersByRestaurant(other), 1)
	assert.Len(t, f.s.Orders(), 2)
}
