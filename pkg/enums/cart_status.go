package enums

import "database/sql/driver"

// CartStatus tracks whether a cart was left open or went through checkout.
type CartStatus string

const (
	CartStatusAbandoned CartStatus = "abandoned"
	CartStatusCompleted CartStatus = "completed"
)

var cartStatuses = []CartStatus{CartStatusAbandoned, CartStatusCompleted}

func (c CartStatus) String() string { return string(c) }

func (c CartStatus) IsValid() bool { return isKnown(cartStatuses, c) }

func ParseCartStatus(value string) (CartStatus, error) {
	return parseKnown(cartStatuses, "cart status", value)
}

// Scan rejects values outside the known set so a bad row fails loudly.
func (c *CartStatus) Scan(src any) error {
	raw, err := scanText("cart status", src)
	if err != nil {
		return err
	}
	parsed, err := ParseCartStatus(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c CartStatus) Value() (driver.Value, error) {
	return knownValue(cartStatuses, "cart status", c)
}
