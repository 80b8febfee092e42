package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is written exactly once by checkout and never updated after.
type Order struct {
	ID         int64           `json:"id"`
	TotalFinal decimal.Decimal `json:"total_final"`
	CreatedAt  time.Time       `json:"created_at"`
}

// StockDebit is one pending stock decrement inside the commit transaction.
type StockDebit struct {
	ProductID int64
	Quantity  int
}
