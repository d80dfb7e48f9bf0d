package enums

import "database/sql/driver"

// PaymentStatus is the payment state recorded on a cart. Payment capture is
// out of scope, so checkout always leaves it pending.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

var paymentStatuses = []PaymentStatus{PaymentStatusPending, PaymentStatusPaid}

func (p PaymentStatus) String() string { return string(p) }

func (p PaymentStatus) IsValid() bool { return isKnown(paymentStatuses, p) }

func ParsePaymentStatus(value string) (PaymentStatus, error) {
	return parseKnown(paymentStatuses, "payment status", value)
}

// Scan rejects values outside the known set so a bad row fails loudly.
func (p *PaymentStatus) Scan(src any) error {
	raw, err := scanText("payment status", src)
	if err != nil {
		return err
	}
	parsed, err := ParsePaymentStatus(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p PaymentStatus) Value() (driver.Value, error) {
	return knownValue(paymentStatuses, "payment status", p)
}
