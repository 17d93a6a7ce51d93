package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	DefaultTaxRate     = decimal.RequireFromString("0.07")
	DefaultDeliveryFee = decimal.NewFromInt(30)
	DefaultCurrency    = currency.THB
)

// Pricing holds the per-tenant constants the ledger derives totals from.
type Pricing struct {
	TaxRate     decimal.Decimal
	DeliveryFee decimal.Decimal
	Currency    currency.Unit
}

func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:     DefaultTaxRate,
		DeliveryFee: DefaultDeliveryFee,
		Currency:    DefaultCurrency,
	}
}

func (p Pricing) Validate() error {
	if p.TaxRate.IsNegative() {
		return fmt.Errorf("tax rate[%s] is negative", p.TaxRate)
	}
	if p.DeliveryFee.IsNegative() {
		return fmt.Errorf("delivery fee[%s] is negative", p.DeliveryFee)
	}
	return nil
}
