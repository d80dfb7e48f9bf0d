package enums

import "database/sql/driver"

// OrderStatus is the fulfilment state of an order. New orders start pending.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusShipped,
	OrderStatusCancelled,
}

func (o OrderStatus) String() string { return string(o) }

func (o OrderStatus) IsValid() bool { return isKnown(orderStatuses, o) }

func ParseOrderStatus(value string) (OrderStatus, error) {
	return parseKnown(orderStatuses, "order status", value)
}

// Scan rejects values outside the known set so a bad row fails loudly.
func (o *OrderStatus) Scan(src any) error {
	raw, err := scanText("order status", src)
	if err != nil {
		return err
	}
	parsed, err := ParseOrderStatus(raw)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func (o OrderStatus) Value() (driver.Value, error) {
	return knownValue(orderStatuses, "order status", o)
}
