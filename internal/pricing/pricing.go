// Package pricing derives the effective price of a product from its base
// and sale prices.
package pricing

import (
	"math"

	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Result struct {
	CurrentPrice       float64
	IsOnSale           bool
	DiscountPercentage int
}

// Normalize returns the sale price as the current price when it is a valid
// discount (0 <= sale < base). Anything else, including a sale price equal
// to or above base, falls back to the base price with no discount. A NaN
// or infinite base prices the item at zero; such a sale price is ignored.
func Normalize(base float64, sale *float64) Result {
	if !finite(base) {
		return Result{}
	}

	if sale == nil || !finite(*sale) || *sale < 0 || *sale >= base {
		return Result{CurrentPrice: base}
	}

	b := decimal.NewFromFloat(base)
	s := decimal.NewFromFloat(*sale)

	// Round is half away from zero
	pct := b.Sub(s).Div(b).Mul(hundred).Round(0)

	return Result{
		CurrentPrice:       *sale,
		IsOnSale:           true,
		DiscountPercentage: int(pct.IntPart()),
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Apply recomputes the derived price fields of p in place.
func Apply(p *models.Product) {
	r := Normalize(p.BasePrice, p.SalePrice)

	p.CurrentPrice = r.CurrentPrice
	p.IsOnSale = r.IsOnSale
	p.DiscountPercentage = r.DiscountPercentage
}

var vnd = accounting.Accounting{
	Symbol:    "₫",
	Precision: 0,
	Thousand:  ".",
	Decimal:   ",",
	Format:    "%v %s",
}

// Format renders a price label, e.g. "800.000 ₫".
func Format(amount float64) string {
	return vnd.FormatMoney(amount)
}
