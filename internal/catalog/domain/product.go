package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	SKU         *string         `json:"sku,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductInput is the create/update request payload.
type ProductInput struct {
	Name        string          `json:"name" binding:"required,min=3,max=60"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"gte=0"`
	Category    string          `json:"category" binding:"required,max=40"`
	SKU         *string         `json:"sku"`
}

// ListFilter mirrors the query parameters of GET /products.
type ListFilter struct {
	Search   string // case-insensitive match on name
	Category string // exact match
	Sort     string // price_asc, price_desc or name; default newest first
	Limit    int
	Offset   int
}

const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)
