package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db/models"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/enums"
)

// OrderDTO is the persisted order snapshot as returned to clients.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	CartID          uuid.UUID         `json:"cart_id"`
	Items           []OrderItemDTO    `json:"items"`
	TotalItems      int               `json:"total_items"`
	ItemsTotal      decimal.Decimal   `json:"items_total"`
	ShippingFee     decimal.Decimal   `json:"shipping_fee"`
	Total           decimal.Decimal   `json:"total"`
	DeliveryAddress string            `json:"delivery_address"`
	PaymentMethod   string            `json:"payment_method"`
	Status          enums.OrderStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

type OrderItemDTO struct {
	ID         uuid.UUID       `json:"id"`
	CoffeeID   *uuid.UUID      `json:"coffee_id,omitempty"`
	CoffeeName string          `json:"coffee_name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// NewOrderDTO maps an order row and its lines into the response view.
func NewOrderDTO(order models.Order, items []models.OrderItem) OrderDTO {
	dto := OrderDTO{
		ID:              order.ID,
		CartID:          order.CartID,
		Items:           make([]OrderItemDTO, 0, len(items)),
		TotalItems:      order.TotalItems,
		ItemsTotal:      order.ItemsTotal,
		ShippingFee:     order.ShippingFee,
		Total:           order.TotalAmount,
		DeliveryAddress: order.DeliveryAddress,
		PaymentMethod:   order.PaymentMethod,
		Status:          order.Status,
		CreatedAt:       order.CreatedAt,
	}
	for _, item := range items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:         item.ID,
			CoffeeID:   item.CoffeeID,
			CoffeeName: item.CoffeeName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			Subtotal:   item.Subtotal,
		})
	}
	return dto
}
