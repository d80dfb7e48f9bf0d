package checkout

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafeteria-labs/coffeeshop-backend/internal/cart"
	"github.com/cafeteria-labs/coffeeshop-backend/internal/coffees"
	"github.com/cafeteria-labs/coffeeshop-backend/internal/orders"
	pricing "github.com/cafeteria-labs/coffeeshop-backend/pkg/checkout"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db/models"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/enums"
	pkgerrors "github.com/cafeteria-labs/coffeeshop-backend/pkg/errors"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/logger"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/metrics"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/validation"
)

const (
	MaxDeliveryAddressLength = 500
	MaxPaymentMethodLength   = 50
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service executes checkout orchestration.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*orders.OrderDTO, error)
}

// CreateOrderInput captures the shopper-provided checkout data.
type CreateOrderInput struct {
	CartID          uuid.UUID
	DeliveryAddress string
	PaymentMethod   string
}

type service struct {
	tx         txRunner
	cartRepo   cart.CartRepository
	ordersRepo orders.Repository
	catalog    *coffees.Repository
	metrics    *metrics.CheckoutMetrics
	logg       *logger.Logger
}

// NewService builds the checkout service. metrics and logg are optional.
func NewService(
	tx txRunner,
	cartRepo cart.CartRepository,
	ordersRepo orders.Repository,
	catalog *coffees.Repository,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("coffee repository required")
	}
	return &service{
		tx:         tx,
		cartRepo:   cartRepo,
		ordersRepo: ordersRepo,
		catalog:    catalog,
		metrics:    checkoutMetrics,
		logg:       logg,
	}, nil
}

// CreateOrder snapshots the cart into a pending order. Totals are recomputed
// from the stored line items; the cart itself is left untouched.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*orders.OrderDTO, error) {
	input.DeliveryAddress = strings.TrimSpace(input.DeliveryAddress)
	input.PaymentMethod = strings.TrimSpace(input.PaymentMethod)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var result *orders.OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		if _, err := cartRepo.FindCartByID(ctx, input.CartID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.Newf(pkgerrors.CodeNotFound, "cart %s not found", input.CartID)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		items, err := cartRepo.ListItems(ctx, input.CartID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart items")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
		}

		names, err := s.coffeeNames(ctx, tx, items)
		if err != nil {
			return err
		}

		lines := make([]pricing.Line, len(items))
		for i, item := range items {
			lines[i] = pricing.Line{Quantity: item.Quantity, UnitPrice: item.UnitPrice}
		}
		totals := pricing.ComputeTotals(lines)
		if err := pricing.ValidateOrderTotal(totals); err != nil {
			return err
		}

		order, err := ordersRepo.CreateOrder(ctx, &models.Order{
			CartID:          input.CartID,
			TotalItems:      totals.TotalItems,
			ItemsTotal:      totals.ItemsTotal,
			ShippingFee:     totals.ShippingFee,
			TotalAmount:     totals.Total,
			DeliveryAddress: input.DeliveryAddress,
			PaymentMethod:   input.PaymentMethod,
			Status:          enums.OrderStatusPending,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		orderItems := make([]models.OrderItem, len(items))
		for i, item := range items {
			coffeeID := item.CoffeeID
			orderItems[i] = models.OrderItem{
				OrderID:    order.ID,
				CoffeeID:   &coffeeID,
				CoffeeName: names[item.CoffeeID],
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
				Subtotal:   lines[i].Subtotal(),
			}
		}
		if err := ordersRepo.CreateOrderItems(ctx, orderItems); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		persisted, err := ordersRepo.FindOrderItems(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
		}
		dto := orders.NewOrderDTO(*order, persisted)
		result = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveOrder(result.Total)
	if s.logg != nil {
		logCtx := s.logg.WithOrderID(s.logg.WithCartID(ctx, input.CartID.String()), result.ID.String())
		s.logg.Info(s.logg.WithField(logCtx, "total", result.Total.StringFixed(2)), "order.created")
	}
	return result, nil
}

func (s *service) coffeeNames(ctx context.Context, tx *gorm.DB, items []models.CartItem) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.CoffeeID
	}
	rows, err := s.catalog.WithTx(tx).FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coffees")
	}
	names := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func validateInput(input CreateOrderInput) error {
	var v validation.Violations
	if input.CartID == uuid.Nil {
		v.Add("cart_id", "required", "is required")
	}
	checkText(&v, "delivery_address", input.DeliveryAddress, MaxDeliveryAddressLength)
	checkText(&v, "payment_method", input.PaymentMethod, MaxPaymentMethodLength)
	return v.Err()
}

func checkText(v *validation.Violations, field, value string, limit int) {
	switch {
	case value == "":
		v.Add(field, "required", "is required")
	case utf8.RuneCountInString(value) > limit:
		v.Add(field, "max_length", "must be at most %d characters", limit)
	}
}
