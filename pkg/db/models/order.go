package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cafeteria-labs/coffeeshop-backend/pkg/enums"
)

// Order is the immutable result of a checkout.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	CartID          uuid.UUID         `gorm:"column:cart_id;type:uuid;not null;index"`
	TotalItems      int               `gorm:"column:total_items;not null"`
	ItemsTotal      decimal.Decimal   `gorm:"column:items_total;type:decimal(10,2);not null"`
	ShippingFee     decimal.Decimal   `gorm:"column:shipping_fee;type:decimal(10,2);not null"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:decimal(10,2);not null"`
	DeliveryAddress string            `gorm:"column:delivery_address;not null"`
	PaymentMethod   string            `gorm:"column:payment_method;not null"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem snapshots one cart line at checkout. CoffeeID is cleared when the
// coffee is later removed from the catalog.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID    uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	CoffeeID   *uuid.UUID      `gorm:"column:coffee_id;type:uuid"`
	CoffeeName string          `gorm:"column:coffee_name;not null"`
	Quantity   int             `gorm:"column:quantity;not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:decimal(10,2);not null"`
	Subtotal   decimal.Decimal `gorm:"column:subtotal;type:decimal(10,2);not null"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
