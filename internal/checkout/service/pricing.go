package service

import (
	"strings"

	catalogdomain "github.com/mvcampos/papelaria-backend/internal/catalog/domain"
	"github.com/mvcampos/papelaria-backend/internal/checkout/domain"
	"github.com/shopspring/decimal"
)

// CouponStudent10 grants 10% off the subtotal. It is the only coupon the
// store honors; any other code silently applies no discount.
const CouponStudent10 = "ALUNO10"

var discountRate = decimal.New(1, -1) // 0.10

// priceCart computes subtotal, discount and final total in exact decimal
// arithmetic. Rounding is half-up to 2 decimals and happens at exactly
// three points: the summed subtotal, the discount, and the final total —
// never per line.
func priceCart(cart domain.Cart, products map[int64]catalogdomain.Product) domain.PricingResult {
	sum := decimal.Zero
	for _, line := range cart.Items {
		p := products[line.ProductID]
		sum = sum.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal := sum.Round(2)

	discount := decimal.Zero
	if strings.EqualFold(cart.Coupon, CouponStudent10) {
		discount = subtotal.Mul(discountRate).Round(2)
	}

	return domain.PricingResult{
		Subtotal:   subtotal,
		Discount:   discount,
		TotalFinal: subtotal.Sub(discount).Round(2),
	}
}
