package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cafeteria-labs/coffeeshop-backend/pkg/checkout"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db/models"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/enums"
)

// CartDTO is the computed cart view: stored lines plus derived totals.
type CartDTO struct {
	ID            uuid.UUID           `json:"id"`
	UserID        *uuid.UUID          `json:"user_id,omitempty"`
	Status        enums.CartStatus    `json:"status"`
	StatusPayment enums.PaymentStatus `json:"status_payment"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	Items         []CartItemDTO       `json:"items"`
	TotalItems    int                 `json:"total_items"`
	ItemsTotal    decimal.Decimal     `json:"items_total"`
	ShippingFee   decimal.Decimal     `json:"shipping_fee"`
	Total         decimal.Decimal     `json:"total"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type CartItemDTO struct {
	ID         uuid.UUID       `json:"id"`
	CartID     uuid.UUID       `json:"cart_id"`
	CoffeeID   uuid.UUID       `json:"coffee_id"`
	CoffeeName string          `json:"coffee_name"`
	ImageURL   string          `json:"image_url,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// RemoveItemResult acknowledges a deleted line item.
type RemoveItemResult struct {
	Success bool `json:"success"`
}

func newCartItemDTO(item models.CartItem, coffee *models.Coffee) CartItemDTO {
	dto := CartItemDTO{
		ID:        item.ID,
		CartID:    item.CartID,
		CoffeeID:  item.CoffeeID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		Subtotal:  checkout.Line{Quantity: item.Quantity, UnitPrice: item.UnitPrice}.Subtotal(),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if coffee != nil {
		dto.CoffeeName = coffee.Name
		dto.ImageURL = coffee.ImageURL
	}
	return dto
}

func newCartDTO(cart models.Cart, items []models.CartItem, coffees map[uuid.UUID]*models.Coffee) CartDTO {
	lines := make([]checkout.Line, 0, len(items))
	dto := CartDTO{
		ID:            cart.ID,
		UserID:        cart.UserID,
		Status:        cart.Status,
		StatusPayment: cart.StatusPayment,
		CompletedAt:   cart.CompletedAt,
		Items:         make([]CartItemDTO, 0, len(items)),
		CreatedAt:     cart.CreatedAt,
		UpdatedAt:     cart.UpdatedAt,
	}
	for _, item := range items {
		dto.Items = append(dto.Items, newCartItemDTO(item, coffees[item.CoffeeID]))
		lines = append(lines, checkout.Line{Quantity: item.Quantity, UnitPrice: item.UnitPrice})
	}
	totals := checkout.ComputeTotals(lines)
	dto.TotalItems = totals.TotalItems
	dto.ItemsTotal = totals.ItemsTotal
	dto.ShippingFee = totals.ShippingFee
	dto.Total = totals.Total
	return dto
}
