package order

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/service/account"
	"github.com/sanchey92/pizzeria/internal/service/cart"
	"github.com/sanchey92/pizzeria/internal/service/catalog"
	"github.com/sanchey92/pizzeria/internal/service/settings"
	"github.com/sanchey92/pizzeria/internal/state"
	"github.com/sanchey92/pizzeria/internal/state/statetest"
	"github.com/sanchey92/pizzeria/internal/storage/memory"
)

type fixture struct {
	store    *state.Store
	backend  *memory.Storage
	orders   *Service
	cart     *cart.Service
	accounts *account.Service
	settings *settings.Service
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	backend, err := memory.New(statetest.Logger(), "")
	require.NoError(t, err)
	store := state.New(statetest.Logger(), backend, state.NewBroker(), statetest.Settings())
	require.NoError(t, catalog.NewCatalogService(statetest.Logger(), store).Seed(context.Background()))

	clock := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	orders := NewOrderService(statetest.Logger(), store, cfg)
	orders.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	return &fixture{
		store:    store,
		backend:  backend,
		orders:   orders,
		cart:     cart.NewCartService(statetest.Logger(), store),
		accounts: account.NewAccountService(statetest.Logger(), store, bcrypt.MinCost),
		settings: settings.NewSettingsService(statetest.Logger(), store),
	}
}

func (f *fixture) add(t *testing.T, productID string, cfg model.Configuration) {
	t.Helper()
	_, err := f.cart.AddProduct(context.Background(), productID, cfg)
	require.NoError(t, err)
}

func guest() model.CustomerInfo {
	return model.CustomerInfo{Name: "Ana", Phone: "11988887777", Address: "Rua A, 10 - Centro", PaymentMethod: model.PaymentPix}
}

func money(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestSubmit_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{EventTopic: "order-events"})
	f.add(t, "1", model.Configuration{Size: model.SizeL, Quantity: 2})

	info := guest()
	info.Coupon = "entrega"
	r, err := f.orders.Submit(ctx, info)
	require.NoError(t, err)

	o := r.Order
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, model.OrderReceived, o.Status)
	assert.Empty(t, o.CustomerID)
	require.Len(t, o.Items, 1)
	money(t, "90", o.Subtotal)
	money(t, "5", o.DeliveryFee)
	money(t, "5", o.Discount)
	money(t, "90", o.Total)
	assert.Equal(t, "ENTREGA", o.CouponCode)
	assert.Contains(t, r.Notification.Text, "*NOVO PEDIDO #"+o.ShortID()+"*")
	assert.Equal(t, "551140028922", r.Notification.Destination)

	view, err := f.cart.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	orders, err := f.orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, o.ID, orders[0].ID)

	events, err := f.backend.GetBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventOrderPlaced, events[0].EventType)
	assert.Equal(t, o.ID, events[0].Key)
	var ev model.OrderEvent
	require.NoError(t, json.Unmarshal(events[0].Payload, &ev))
	assert.Equal(t, model.OrderReceived, ev.Status)
}

func TestSubmit_ItemsAreIndependentOfCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})
	f.add(t, "1", model.Configuration{Size: model.SizeM, SecondFlavorID: "2", Extras: []string{"extra-bacon"}, Quantity: 1})

	r, err := f.orders.Submit(ctx, guest())
	require.NoError(t, err)

	f.add(t, "5", model.Configuration{Quantity: 1})
	got, err := f.orders.Get(ctx, r.Order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "1", got.Items[0].Product.ID)
	require.NotNil(t, got.Items[0].SecondFlavor)
	money(t, "46", got.Items[0].CalculatedPrice)
}

func TestSubmit_Preconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("closed store wins over empty cart", func(t *testing.T) {
		f := newFixture(t, Config{})
		_, err := f.settings.SetOpen(ctx, false)
		require.NoError(t, err)

		_, err = f.orders.Submit(ctx, model.CustomerInfo{})
		assert.ErrorIs(t, err, model.ErrStoreClosed)
	})

	t.Run("empty cart wins over missing info", func(t *testing.T) {
		f := newFixture(t, Config{})
		_, err := f.orders.Submit(ctx, model.CustomerInfo{})
		assert.ErrorIs(t, err, model.ErrEmptyCart)
	})

	t.Run("blank name", func(t *testing.T) {
		f := newFixture(t, Config{})
		f.add(t, "5", model.Configuration{Quantity: 1})
		info := guest()
		info.Name = "  "
		_, err := f.orders.Submit(ctx, info)
		assert.ErrorIs(t, err, model.ErrIncompleteCustomerInfo)
	})

	t.Run("unknown coupon", func(t *testing.T) {
		f := newFixture(t, Config{})
		f.add(t, "5", model.Configuration{Quantity: 1})
		info := guest()
		info.Coupon = "FREEPIZZA"
		_, err := f.orders.Submit(ctx, info)
		assert.ErrorIs(t, err, model.ErrInvalidCoupon)
	})
}

func TestSubmit_FailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{EventTopic: "order-events"})
	f.add(t, "5", model.Configuration{Quantity: 1})

	_, err := f.orders.Submit(ctx, model.CustomerInfo{Name: "Ana"})
	require.ErrorIs(t, err, model.ErrIncompleteCustomerInfo)

	orders, err := f.orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
	view, err := f.cart.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
	events, err := f.backend.GetBatch(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSubmit_FillsBlankFieldsFromSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})
	_, err := f.accounts.Register(ctx, account.Registration{
		Name:    "Bia",
		Phone:   "11977776666",
		Address: &model.Address{Street: "Rua B", Number: "2", Neighborhood: "Vila"},
	})
	require.NoError(t, err)
	f.add(t, "7", model.Configuration{Quantity: 1})

	r, err := f.orders.Submit(ctx, model.CustomerInfo{})
	require.NoError(t, err)
	assert.Equal(t, "Bia", r.Order.CustomerName)
	assert.Equal(t, "11977776666", r.Order.CustomerPhone)
	assert.Equal(t, "Rua B, 2 - Vila", r.Order.Address)
	assert.Equal(t, "11977776666", r.Order.CustomerID)
	assert.Equal(t, model.PaymentCreditCard, r.Order.PaymentMethod)
}

func TestSubmit_ConfirmDelayCancelled(t *testing.T) {
	f := newFixture(t, Config{ConfirmDelay: time.Hour})
	f.add(t, "5", model.Configuration{Quantity: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := f.orders.Submit(ctx, guest())
	require.ErrorIs(t, err, context.DeadlineExceeded)

	orders, err := f.orders.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
	view, err := f.cart.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
}

func TestSubmit_ConfirmDelayElapses(t *testing.T) {
	f := newFixture(t, Config{ConfirmDelay: 10 * time.Millisecond})
	f.add(t, "5", model.Configuration{Quantity: 1})

	_, err := f.orders.Submit(context.Background(), guest())
	require.NoError(t, err)
}

func TestSetStatus_PropagatesToHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{EventTopic: "order-events"})
	_, err := f.accounts.Login(ctx, "11988887777", "")
	require.NoError(t, err)
	f.add(t, "2", model.Configuration{Quantity: 1})
	r, err := f.orders.Submit(ctx, guest())
	require.NoError(t, err)

	updated, err := f.orders.SetStatus(ctx, r.Order.ID, model.OrderPreparing)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPreparing, updated.Status)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	history, err := f.orders.SessionHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.OrderPreparing, history[0].Status)

	events, err := f.backend.GetBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventOrderStatusChanged, events[1].EventType)
	var ev model.OrderEvent
	require.NoError(t, json.Unmarshal(events[1].Payload, &ev))
	assert.Equal(t, model.OrderReceived, ev.Previous)
	assert.Equal(t, model.OrderPreparing, ev.Status)
}

func TestSetStatus_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})
	f.add(t, "5", model.Configuration{Quantity: 1})
	r, err := f.orders.Submit(ctx, guest())
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, r.Order.ID, "Lost")
	assert.ErrorIs(t, err, model.ErrInvalidStatus)

	_, err = f.orders.SetStatus(ctx, "missing", model.OrderAccepted)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestSetStatus_PermissiveAllowsBackwards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})
	f.add(t, "5", model.Configuration{Quantity: 1})
	r, err := f.orders.Submit(ctx, guest())
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, r.Order.ID, model.OrderDelivered)
	require.NoError(t, err)
	o, err := f.orders.SetStatus(ctx, r.Order.ID, model.OrderPreparing)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPreparing, o.Status)
}

func TestSetStatus_Strict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{StrictTransitions: true})
	f.add(t, "5", model.Configuration{Quantity: 1})
	r, err := f.orders.Submit(ctx, guest())
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, r.Order.ID, model.OrderPreparing)
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, r.Order.ID, model.OrderAccepted)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = f.orders.SetStatus(ctx, r.Order.ID, model.OrderDelivered)
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, r.Order.ID, model.OrderDelivered)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestListHistoryAndTrack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})

	_, err := f.accounts.Login(ctx, "11911111111", "")
	require.NoError(t, err)
	f.add(t, "5", model.Configuration{Quantity: 1})
	first, err := f.orders.Submit(ctx, guest())
	require.NoError(t, err)

	_, err = f.accounts.Login(ctx, "11922222222", "")
	require.NoError(t, err)
	f.add(t, "6", model.Configuration{Quantity: 1})
	second, err := f.orders.Submit(ctx, guest())
	require.NoError(t, err)

	f.add(t, "7", model.Configuration{Quantity: 1})
	third, err := f.orders.Submit(ctx, guest())
	require.NoError(t, err)

	all, err := f.orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{third.Order.ID, second.Order.ID, first.Order.ID},
		[]string{all[0].ID, all[1].ID, all[2].ID})

	history, err := f.orders.History(ctx, "11922222222")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, third.Order.ID, history[0].ID)

	none, err := f.orders.History(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)

	active, err := f.orders.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, active)

	_, err = f.orders.SetStatus(ctx, first.Order.ID, model.OrderOutForDelivery)
	require.NoError(t, err)
	tr, err := f.orders.Track(ctx, first.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Step)
	assert.Equal(t, 75, tr.Progress)
	assert.Equal(t, "Saiu para Entrega", tr.Label)

	_, err = f.orders.Track(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestSessionHistory_RequiresLogin(t *testing.T) {
	f := newFixture(t, Config{})
	_, err := f.orders.SessionHistory(context.Background())
	assert.ErrorIs(t, err, model.ErrNotLoggedIn)
}
