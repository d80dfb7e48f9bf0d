package checkout

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cafeteria-labs/coffeeshop-backend/internal/cart"
	"github.com/cafeteria-labs/coffeeshop-backend/internal/coffees"
	"github.com/cafeteria-labs/coffeeshop-backend/internal/orders"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db/dbtest"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db/models"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/enums"
	pkgerrors "github.com/cafeteria-labs/coffeeshop-backend/pkg/errors"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/metrics"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/validation"
)

type fixture struct {
	svc    Service
	carts  cart.Service
	orders orders.Service
	reg    *prometheus.Registry
	db     *gorm.DB
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.Open(t)
	conn := client.DB()

	cartRepo := cart.NewRepository(conn)
	coffeeRepo := coffees.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)
	reg := prometheus.NewRegistry()

	svc, err := NewService(client, cartRepo, ordersRepo, coffeeRepo, metrics.NewCheckoutMetrics(reg), nil)
	require.NoError(t, err)
	carts, err := cart.NewService(cartRepo, client, coffeeRepo, nil)
	require.NoError(t, err)
	orderSvc, err := orders.NewService(ordersRepo)
	require.NoError(t, err)

	return fixture{svc: svc, carts: carts, orders: orderSvc, reg: reg, db: conn}
}

func (f fixture) coffee(t *testing.T, name, price string) uuid.UUID {
	t.Helper()
	coffee := &models.Coffee{
		Name:        name,
		Description: "a seeded coffee",
		Price:       decimal.RequireFromString(price),
		ImageURL:    "https://cdn.example.com/c.png",
	}
	require.NoError(t, f.db.Create(coffee).Error)
	return coffee.ID
}

func (f fixture) cartWith(t *testing.T, lines map[uuid.UUID]int) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	c, err := f.carts.GetOrCreateCart(ctx, nil)
	require.NoError(t, err)
	for coffeeID, qty := range lines {
		_, err := f.carts.AddItem(ctx, c.ID, cart.AddItemInput{CoffeeID: coffeeID, Quantity: qty})
		require.NoError(t, err)
	}
	return c.ID
}

func validInput(cartID uuid.UUID) CreateOrderInput {
	return CreateOrderInput{
		CartID:          cartID,
		DeliveryAddress: "12 Espresso Street",
		PaymentMethod:   "credit_card",
	}
}

func TestCreateOrderComputesTotals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cartID := f.cartWith(t, map[uuid.UUID]int{
		f.coffee(t, "Huila", "5.00"):   2,
		f.coffee(t, "Antigua", "3.50"): 1,
		f.coffee(t, "Santos", "2.00"):  3,
	})

	order, err := f.svc.CreateOrder(ctx, validInput(cartID))
	require.NoError(t, err)

	assert.Equal(t, cartID, order.CartID)
	assert.Equal(t, 6, order.TotalItems)
	assert.True(t, order.ItemsTotal.Equal(decimal.RequireFromString("19.50")), order.ItemsTotal.String())
	assert.True(t, order.ShippingFee.Equal(decimal.NewFromInt(10)))
	assert.True(t, order.Total.Equal(decimal.RequireFromString("29.50")), order.Total.String())
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, "12 Espresso Street", order.DeliveryAddress)
	assert.Equal(t, "credit_card", order.PaymentMethod)
	require.Len(t, order.Items, 3)

	sum := decimal.Zero
	for _, item := range order.Items {
		assert.NotEmpty(t, item.CoffeeName)
		sum = sum.Add(item.Subtotal)
	}
	assert.True(t, sum.Equal(order.ItemsTotal))

	mfs, err := f.reg.Gather()
	require.NoError(t, err)
	var created float64
	for _, mf := range mfs {
		if mf.GetName() == "checkout_orders_created_total" {
			created = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(1), created)
}

func TestOrderIsUnaffectedByLaterCartChanges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	coffeeID := f.coffee(t, "Kona", "12.00")
	cartID := f.cartWith(t, map[uuid.UUID]int{coffeeID: 1})

	placed, err := f.svc.CreateOrder(ctx, validInput(cartID))
	require.NoError(t, err)

	view, err := f.carts.GetCart(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	_, err = f.carts.UpdateItemQuantity(ctx, cartID, view.Items[0].ID, 4)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, cartID, cart.AddItemInput{CoffeeID: f.coffee(t, "Java", "6.00"), Quantity: 2})
	require.NoError(t, err)

	reloaded, err := f.orders.GetOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.TotalItems)
	assert.True(t, reloaded.Total.Equal(decimal.RequireFromString("22.00")))
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, "Kona", reloaded.Items[0].CoffeeName)
	assert.Equal(t, 1, reloaded.Items[0].Quantity)
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	f := newFixture(t)
	cartID := f.cartWith(t, nil)

	_, err := f.svc.CreateOrder(context.Background(), validInput(cartID))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrderUnknownCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateOrder(context.Background(), validInput(uuid.New()))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestCreateOrderValidatesInput(t *testing.T) {
	f := newFixture(t)
	cartID := f.cartWith(t, map[uuid.UUID]int{f.coffee(t, "Mocha", "4.00"): 1})

	cases := []struct {
		name       string
		input      CreateOrderInput
		field      string
		constraint string
	}{
		{"blank address", CreateOrderInput{CartID: cartID, DeliveryAddress: "   ", PaymentMethod: "pix"}, "delivery_address", "required"},
		{"long address", CreateOrderInput{CartID: cartID, DeliveryAddress: strings.Repeat("a", MaxDeliveryAddressLength+1), PaymentMethod: "pix"}, "delivery_address", "max_length"},
		{"blank payment", CreateOrderInput{CartID: cartID, DeliveryAddress: "1 Main St"}, "payment_method", "required"},
		{"long payment", CreateOrderInput{CartID: cartID, DeliveryAddress: "1 Main St", PaymentMethod: strings.Repeat("p", MaxPaymentMethodLength+1)}, "payment_method", "max_length"},
		{"missing cart", CreateOrderInput{DeliveryAddress: "1 Main St", PaymentMethod: "pix"}, "cart_id", "required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateOrder(context.Background(), tc.input)
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
			violations := validation.ViolationsOf(err)
			require.Len(t, violations, 1)
			assert.Equal(t, tc.field, violations[0].Field)
			assert.Equal(t, tc.constraint, violations[0].Constraint)
		})
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil, nil, nil, nil, nil)
	require.Error(t, err)
}
