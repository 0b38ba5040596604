package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgiver/internal/domain"
	"foodgiver/internal/repository"
)

func TestPlaceSingleOrder_ExpressWithPromo(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	u := s.newUser(t)
	item, err := s.catalog.Add(ctx, domain.CatalogItem{Name: "Plain", Category: "Test", Price: dec("10.00"), Image: "https://example.com/p.png"})
	require.NoError(t, err)

	r, err := s.orders.PlaceSingleOrder(ctx, u.ID, SingleOrderRequest{
		FoodID: item.ID, Quantity: 2, DeliveryMethod: "express", PromoApplied: true, Shipping: shipping,
	})
	require.NoError(t, err)
	require.Len(t, r.Orders, 1)

	o := r.Orders[0]
	assert.True(t, o.Total.Equal(dec("19.20")), "total %s", o.Total)
	assert.Equal(t, domain.OrderStatusPending, o.Status)
	assert.Equal(t, "Plain", o.FoodName)
	assert.Equal(t, domain.DeliveryExpress, o.DeliveryMethod)
	assert.True(t, s.balance(t, u.ID).Equal(dec("480.80")))

	// user mirror kept in sync
	cur, err := s.session.Current(ctx)
	require.NoError(t, err)
	assert.True(t, cur.Credits.Equal(dec("480.80")))

	// novel address saved as default, notification prepended
	addrs, _ := s.profile.Addresses(ctx, u.ID)
	require.Len(t, addrs, 1)
	assert.True(t, addrs[0].Default)
	notes, _ := s.profile.Notifications(ctx, u.ID)
	require.NotEmpty(t, notes)
	assert.Equal(t, "Order Placed", notes[0].Title)
}

func TestPlaceSingleOrder_ExactCreditsAndOneCentShort(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	u := s.newUser(t)
	// Margherita Pizza 12.99
	s.setCredits(t, u.ID, "12.99")

	_, err := s.orders.PlaceSingleOrder(ctx, u.ID, SingleOrderRequest{FoodID: 1, Quantity: 1, DeliveryMethod: "standard", Shipping: shipping})
	require.NoError(t, err)
	assert.True(t, s.balance(t, u.ID).IsZero())

	s.setCredits(t, u.ID, "12.98")
	before, _ := s.state.Orders(ctx)
	_, err = s.orders.PlaceSingleOrder(ctx, u.ID, SingleOrderRequest{FoodID: 1, Quantity: 1, DeliveryMethod: "standard", Shipping: shipping})
	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.True(t, s.balance(t, u.ID).Equal(dec("12.98")))
	after, _ := s.state.Orders(ctx)
	assert.Equal(t, len(before), len(after))
}

func TestPlaceSingleOrder_LevelUpEveryFifthOrder(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	u := s.newUser(t)
	require.Equal(t, 1, u.Level)

	for i := 1; i <= 10; i++ {
		r, err := s.orders.PlaceSingleOrder(ctx, u.ID, SingleOrderRequest{FoodID: 4, Quantity: 1, DeliveryMethod: "standard", Shipping: shipping})
		require.NoError(t, err, "order %d", i)
		switch {
		case i < 5:
			assert.Equal(t, 1, r.Level, "order %d", i)
			assert.False(t, r.LevelUp)
		case i < 10:
			assert.Equal(t, 2, r.Level, "order %d", i)
			assert.Equal(t, i == 5, r.LevelUp)
		default:
			assert.Equal(t, 3, r.Level)
			assert.True(t, r.LevelUp)
		}
	}
	stored, err := s.state.User(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Level)
}

func TestPlaceSingleOrder_Validation(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	u := s.newUser(t)

	bad := []SingleOrderRequest{
		{FoodID: 1, Quantity: 0, DeliveryMethod: "standard", Shipping: shipping},
		{FoodID: 1, Quantity: 1, DeliveryMethod: "teleport", Shipping: shipping},
		{FoodID: 1, Quantity: 1, DeliveryMethod: "standard", Shipping: domain.ShippingInfo{Name: "J", Phone: "123", Address: "x"}},
		{FoodID: 1, Quantity: 1, DeliveryMethod: "standard", Shipping: domain.ShippingInfo{Phone: shipping.Phone, Address: "x"}},
		{FoodID: 1, Quantity: 1, DeliveryMethod: "standard", Shipping: domain.ShippingInfo{Name: "J", Phone: shipping.Phone}},
	}
	for i, req := range bad {
		_, err := s.orders.PlaceSingleOrder(ctx, u.ID, req)
		assert.ErrorIs(t, err, ErrInvalidInput, "case %d", i)
	}
	orders, _ := s.state.Orders(ctx)
	assert.Empty(t, orders)
	assert.True(t, s.balance(t, u.ID).Equal(StartingCredits))
}

func TestPlaceSingleOrder_ItemNotFoundLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	u := s.newUser(t)

	_, err := s.orders.PlaceSingleOrder(ctx, u.ID, SingleOrderRequest{FoodID: 999, Quantity: 1, DeliveryMethod: "standard", Shipping: shipping})
	assert.ErrorIs(t, err, ErrItemNotFound)
	orders, _ := s.state.Orders(ctx)
	assert.Empty(t, orders)
	addrs, _ := s.profile.Addresses(ctx, u.ID)
	assert.Empty(t, addrs)
	assert.True(t, s.balance(t, u.ID).Equal(StartingCredits))
}

func TestOrderSnapshotSurvivesCatalogDelete(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	u := s.newUser(t)

	r, err := s.orders.PlaceSingleOrder(ctx, u.ID, SingleOrderRequest{FoodID: 7, Quantity: 1, DeliveryMethod: "premium", Shipping: shipping})
	require.NoError(t, err)
	require.NoError(t, s.catalog.Delete(ctx, 7))

	o, err := s.orders.GetOrder(ctx, r.Orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Dragon Roll", o.FoodName)
	assert.True(t, o.Price.Equal(dec("16.99")))

	_, err = s.orders.Reorder(ctx, u.ID, o.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestPlaceCartOrder_TwoLines(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	u := s.newUser(t)

	_, err := s.cart.Add(ctx, u.ID, 1, 1) // 12.99
	require.NoError(t, err)
	_, err = s.cart.Add(ctx, u.ID, 2, 2) // 9.99 x2
	require.NoError(t, err)

	r, err := s.orders.PlaceCartOrder(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, r.Orders, 2)
	assert.True(t, r.Total.Equal(dec("32.97")))
	assert.True(t, s.balance(t, u.ID).Equal(dec("467.03")))
	assert.NotEqual(t, r.Orders[0].ID, r.Orders[1].ID)
	for _, o := range r.Orders {
		assert.Equal(t, DefaultAddress, o.Address)
		assert.Equal(t, domain.DeliveryStandard, o.DeliveryMethod)
		assert.Equal(t, "Jane", o.Name)
	}

	cart, err := s.cart.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)

	orders, _ := s.state.Orders(ctx)
	assert.Len(t, orders, 2)
	notes, _ := s.profile.Notifications(ctx, u.ID)
	assert.Equal(t, "Your cart items have been ordered successfully!", notes[0].Message)
}

func TestPlaceCartOrder_InsufficientCreditsIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	u := s.newUser(t)
	_, _ = s.cart.Add(ctx, u.ID, 1, 1)
	_, _ = s.cart.Add(ctx, u.ID, 2, 1)
	s.setCredits(t, u.ID, "20")

	_, err := s.orders.PlaceCartOrder(ctx, u.ID)
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	orders, _ := s.state.Orders(ctx)
	assert.Empty(t, orders)
	cart, _ := s.cart.Get(ctx, u.ID)
	assert.Len(t, cart.Lines, 2)
	assert.True(t, s.balance(t, u.ID).Equal(dec("20")))
}

func TestPlaceCartOrder_MissingCatalogItemIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	u := s.newUser(t)
	_, _ = s.cart.Add(ctx, u.ID, 1, 1)
	_, _ = s.cart.Add(ctx, u.ID, 2, 1)
	require.NoError(t, s.catalog.Delete(ctx, 2))

	_, err := s.orders.PlaceCartOrder(ctx, u.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	orders, _ := s.state.Orders(ctx)
	assert.Empty(t, orders)
	cart, _ := s.cart.Get(ctx, u.ID)
	assert.Len(t, cart.Lines, 2)
	assert.True(t, s.balance(t, u.ID).Equal(dec("500")))
}

func TestPlaceCartOrder_UsesFirstSavedAddress(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	u := s.newUser(t)
	_, _, err := s.profile.AddAddress(ctx, u.ID, "22 Baker St")
	require.NoError(t, err)
	_, _ = s.cart.Add(ctx, u.ID, 3, 1)

	r, err := s.orders.PlaceCartOrder(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "22 Baker St", r.Orders[0].Address)
}

func TestPlaceCartOrder_EmptyCart(t *testing.T) {
	s := setup(t)
	u := s.newUser(t)
	_, err := s.orders.PlaceCartOrder(context.Background(), u.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	u := s.newUser(t)
	r, err := s.orders.PlaceSingleOrder(ctx, u.ID, SingleOrderRequest{FoodID: 1, Quantity: 1, DeliveryMethod: "standard", Shipping: shipping})
	require.NoError(t, err)
	id := r.Orders[0].ID

	require.NoError(t, s.orders.UpdateOrderStatus(ctx, id, "completed"))
	o, _ := s.orders.GetOrder(ctx, id)
	assert.Equal(t, domain.OrderStatusCompleted, o.Status)

	// idempotent, absent id is a no-op
	require.NoError(t, s.orders.UpdateOrderStatus(ctx, id, domain.OrderStatusCompleted))
	require.NoError(t, s.orders.UpdateOrderStatus(ctx, 12345, domain.OrderStatusCompleted))
	assert.ErrorIs(t, s.orders.UpdateOrderStatus(ctx, id, "Shipped"), ErrInvalidInput)

	pending, err := s.orders.MyOrders(ctx, u.ID, "pending")
	require.NoError(t, err)
	assert.Empty(t, pending)
	done, err := s.orders.MyOrders(ctx, u.ID, "Completed")
	require.NoError(t, err)
	assert.Len(t, done, 1)

	require.NoError(t, s.orders.DeleteOrder(ctx, 999))
	orders, _ := s.state.Orders(ctx)
	assert.Len(t, orders, 1)

	require.NoError(t, s.orders.DeleteOrder(ctx, id))
	_, err = s.orders.GetOrder(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMyOrders_NewestFirstAndScopedToUser(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	u := s.newUser(t)
	for _, food := range []int64{1, 2, 3} {
		_, err := s.orders.PlaceSingleOrder(ctx, u.ID, SingleOrderRequest{FoodID: food, Quantity: 1, DeliveryMethod: "standard", Shipping: shipping})
		require.NoError(t, err)
	}
	other, err := s.session.QuickLogin(ctx, "demo")
	require.NoError(t, err)
	_, err = s.orders.PlaceSingleOrder(ctx, other.ID, SingleOrderRequest{FoodID: 4, Quantity: 1, DeliveryMethod: "standard", Shipping: shipping})
	require.NoError(t, err)

	mine, err := s.orders.MyOrders(ctx, u.ID, "all")
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, int64(3), mine[0].FoodID)
	assert.Equal(t, int64(1), mine[2].FoodID)
}

func TestDraftPromoLifecycle(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	u := s.newUser(t)
	_, _, _ = s.profile.AddAddress(ctx, u.ID, "5 Elm Rd")

	d, err := s.orders.OpenDraft(ctx, u.ID, 1)
	require.NoError(t, err)
	assert.False(t, d.PromoApplied)
	assert.Equal(t, "Jane", d.Shipping.Name)
	assert.Equal(t, "5 Elm Rd", d.Shipping.Address)

	res, err := s.orders.ApplyPromo(ctx, u.ID, "welcome")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	q1, err := s.orders.Quote(ctx, u.ID, 1, "standard")
	require.NoError(t, err)

	res, err = s.orders.ApplyPromo(ctx, u.ID, "WELCOME")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, PromoMessageAlreadyApplied, res.Message)
	q2, _ := s.orders.Quote(ctx, u.ID, 1, "standard")
	assert.True(t, q1.Equal(q2))
	assert.True(t, q1.Equal(dec("10.392")))

	// reopening resets promo state
	d, err = s.orders.OpenDraft(ctx, u.ID, 1)
	require.NoError(t, err)
	assert.False(t, d.PromoApplied)

	_, _ = s.orders.ApplyPromo(ctx, u.ID, "WELCOME")
	r, err := s.orders.PlaceDraftOrder(ctx, u.ID, 1, "standard", shipping)
	require.NoError(t, err)
	assert.True(t, r.Total.Equal(dec("10.392")))

	_, err = s.orders.Draft(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReorder_OpensDraftForCatalogItem(t *testing.T) {
	ctx := context.Background()
	s := setup(t)
	u := s.newUser(t)
	r, err := s.orders.PlaceSingleOrder(ctx, u.ID, SingleOrderRequest{FoodID: 5, Quantity: 2, DeliveryMethod: "express", PromoApplied: true, Shipping: shipping})
	require.NoError(t, err)

	d, err := s.orders.Reorder(ctx, u.ID, r.Orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), d.FoodID)
	assert.False(t, d.PromoApplied)

	_, err = s.orders.Reorder(ctx, u.ID, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
