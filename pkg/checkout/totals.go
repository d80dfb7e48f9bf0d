package checkout

import "github.com/shopspring/decimal"

// ShippingFee is the flat delivery charge applied to every cart and order.
var ShippingFee = decimal.NewFromInt(10)

// Line is the pricing input for one cart or order line.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns quantity × unit price.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// MaxAmount is the largest value the numeric(10,2) money columns hold.
var MaxAmount = decimal.RequireFromString("99999999.99")

type Totals struct {
	TotalItems  int
	ItemsTotal  decimal.Decimal
	ShippingFee decimal.Decimal
	Total       decimal.Decimal
}

// ComputeTotals sums the lines and adds the flat shipping fee.
func ComputeTotals(lines []Line) Totals {
	itemsTotal := decimal.Zero
	count := 0
	for _, line := range lines {
		itemsTotal = itemsTotal.Add(line.Subtotal())
		count += line.Quantity
	}
	return Totals{
		TotalItems:  count,
		ItemsTotal:  itemsTotal,
		ShippingFee: ShippingFee,
		Total:       itemsTotal.Add(ShippingFee),
	}
}
