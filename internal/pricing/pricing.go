// Package pricing computes order line and order totals with exact decimal
// arithmetic. It has no I/O; callers resolve catalog prices first.
package pricing

import (
	"github.com/heencoffee/pos-api/internal/enum"
	"github.com/shopspring/decimal"
)

var (
	largeMultiplier = decimal.RequireFromString("1.3")
	hundred         = decimal.NewFromInt(100)
)

// Line is one order line before pricing.
type Line struct {
	BasePrice     decimal.Decimal
	Size          string
	ToppingPrices []decimal.Decimal
	Quantity      int32
}

// PricedLine is the computed snapshot stored on the order item.
type PricedLine struct {
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Discount is an order-level discount. An empty Type means no discount.
type Discount struct {
	Type  string
	Value decimal.Decimal
}

// Options tweaks order-level policy.
type Options struct {
	// ClampDiscount limits the discount to [0, subtotal] so the total
	// never goes negative.
	ClampDiscount bool
}

// Quote is the full pricing result for an order.
type Quote struct {
	Lines    []PricedLine
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// UnitPrice returns base price, times 1.3 for Large, plus every topping
// price, rounded to cents.
func UnitPrice(base decimal.Decimal, size string, toppings []decimal.Decimal) decimal.Decimal {
	unit := base
	if size == enum.SizeLarge {
		unit = unit.Mul(largeMultiplier)
	}
	for _, p := range toppings {
		unit = unit.Add(p)
	}
	return unit.Round(2)
}

// LineTotal is unit price times quantity.
func LineTotal(unit decimal.Decimal, quantity int32) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt32(quantity))
}

// DiscountAmount resolves a discount against a subtotal. Percentage
// discounts are rounded to cents; amount discounts are taken as given.
func DiscountAmount(subtotal decimal.Decimal, d Discount) decimal.Decimal {
	switch d.Type {
	case enum.DiscountTypePercentage:
		return subtotal.Mul(d.Value).Div(hundred).Round(2)
	case enum.DiscountTypeAmount:
		return d.Value
	}
	return decimal.Zero
}

// Price computes every line, the subtotal, the discount and the total.
func Price(lines []Line, d Discount, opts Options) Quote {
	q := Quote{
		Lines:    make([]PricedLine, len(lines)),
		Subtotal: decimal.Zero,
	}

	for i, l := range lines {
		unit := UnitPrice(l.BasePrice, l.Size, l.ToppingPrices)
		total := LineTotal(unit, l.Quantity)
		q.Lines[i] = PricedLine{UnitPrice: unit, LineTotal: total}
		q.Subtotal = q.Subtotal.Add(total)
	}

	q.Discount = DiscountAmount(q.Subtotal, d)
	if opts.ClampDiscount {
		if q.Discount.IsNegative() {
			q.Discount = decimal.Zero
		}
		if q.Discount.GreaterThan(q.Subtotal) {
			q.Discount = q.Subtotal
		}
	}

	q.Total = q.Subtotal.Sub(q.Discount)
	return q
}
