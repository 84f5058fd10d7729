package cartstore

import (
	"github.com/shopspring/decimal"

	"github.com/kimhabork/storefront-backend/pkg/config"
	"github.com/kimhabork/storefront-backend/pkg/types"
)

// Totals is the derived cost breakdown. It is recomputed on every read
// and never persisted.
type Totals struct {
	Subtotal types.Money `json:"subtotal"`
	Shipping types.Money `json:"shipping"`
	Tax      types.Money `json:"tax"`
	Total    types.Money `json:"total"`
}

// computeTotals derives shipping and tax from the subtotal. Shipping is
// waived at or above the free-shipping threshold, otherwise the flat fee
// applies. Tax is the configured rate on the subtotal, rounded to cents.
func computeTotals(subtotal types.Money, cfg config.CartConfig) Totals {
	currency := subtotal.CurrencyCode
	if currency == "" {
		currency = cfg.Currency
	}

	shipping := decimal.Zero
	if subtotal.Amount.IsPositive() && subtotal.Amount.LessThan(cfg.FreeShippingThreshold) {
		shipping = cfg.FlatShippingFee
	}
	tax := subtotal.Amount.Mul(cfg.TaxRate).Round(2)
	total := subtotal.Amount.Add(shipping).Add(tax)

	return Totals{
		Subtotal: types.Money{Amount: subtotal.Amount, CurrencyCode: currency},
		Shipping: types.Money{Amount: shipping, CurrencyCode: currency},
		Tax:      types.Money{Amount: tax, CurrencyCode: currency},
		Total:    types.Money{Amount: total, CurrencyCode: currency},
	}
}
