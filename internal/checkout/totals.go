package checkout

import "github.com/shopspring/decimal"

// LineTotal is price times quantity.
func LineTotal(item LineItem) decimal.Decimal {
	return item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Total is what the payer owes: sub total plus tax.
func Total(cart CartSnapshot) decimal.Decimal {
	return cart.SubTotal.Add(cart.Tax)
}

// Change is the cash returned to the payer, floored at zero.
//
// It is measured against the sub total alone while acceptance is measured
// against Total. Both screens and receipts rely on this figure, so keep the
// two in step if it is ever changed.
func Change(cash, subTotal decimal.Decimal) decimal.Decimal {
	diff := cash.Sub(subTotal)
	if diff.IsNegative() {
		return decimal.Zero
	}
	return diff
}

// SumLineTotals adds up LineTotal over every item.
func SumLineTotals(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(LineTotal(item))
	}
	return sum
}
