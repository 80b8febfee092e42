package domain

import (
	"github.com/shopspring/decimal"
)

// CartLine is one client-submitted product/quantity pair. Never persisted.
type CartLine struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity"`
}

// Cart is the POST /cart/confirm request body. A null or absent coupon
// decodes to the empty string.
type Cart struct {
	Items  []CartLine `json:"items"`
	Coupon string     `json:"coupon"`
}

// PricingResult is derived per request and returned to the caller;
// it is never stored.
type PricingResult struct {
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	TotalFinal decimal.Decimal
}

type ConfirmCartResponse struct {
	OrderID     int64           `json:"order_id"`
	TotalBefore decimal.Decimal `json:"total_before"`
	Discount    decimal.Decimal `json:"discount"`
	TotalFinal  decimal.Decimal `json:"total_final"`
}
