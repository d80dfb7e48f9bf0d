package checkout

import (
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/cafeteria-labs/coffeeshop-backend/pkg/errors"
)

const (
	MinItemQuantity = 1
	MaxItemQuantity = 5
)

// QuantityViolationDetail is returned to callers when a line quantity falls
// outside the allowed range.
type QuantityViolationDetail struct {
	CoffeeID     *uuid.UUID `json:"coffee_id,omitempty"`
	Constraint   string     `json:"constraint"`
	MinQty       int        `json:"min_qty"`
	MaxQty       int        `json:"max_qty"`
	RequestedQty int        `json:"requested_qty"`
}

// ValidateQuantity checks a requested line quantity against the per-line
// bounds. coffeeID is optional and only echoed back in the error details.
func ValidateQuantity(coffeeID *uuid.UUID, quantity int) error {
	var constraint string
	switch {
	case quantity < MinItemQuantity:
		constraint = "min"
	case quantity > MaxItemQuantity:
		constraint = "max"
	default:
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be between %d and %d", MinItemQuantity, MaxItemQuantity)).WithDetails(QuantityViolationDetail{
		CoffeeID:     coffeeID,
		Constraint:   constraint,
		MinQty:       MinItemQuantity,
		MaxQty:       MaxItemQuantity,
		RequestedQty: quantity,
	})
}

// ValidateOrderTotal rejects orders whose total would not fit the money
// columns. It is a validation failure because retrying cannot succeed.
func ValidateOrderTotal(totals Totals) error {
	if totals.Total.GreaterThan(MaxAmount) {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "order total %s exceeds the maximum of %s", totals.Total.StringFixed(2), MaxAmount.StringFixed(2))
	}
	return nil
}
