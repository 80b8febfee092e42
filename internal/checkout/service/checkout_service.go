package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mvcampos/papelaria-backend/internal/checkout/domain"
	"github.com/mvcampos/papelaria-backend/internal/checkout/repository"
	"github.com/mvcampos/papelaria-backend/internal/platform/logger"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrPersistence       = errors.New("failed to persist order")
)

type CheckoutService interface {
	ConfirmCart(ctx context.Context, cart domain.Cart) (*domain.ConfirmCartResponse, error)
}

type checkoutServiceImpl struct {
	repo repository.CheckoutRepository
}

func NewCheckoutService(repo repository.CheckoutRepository) CheckoutService {
	return &checkoutServiceImpl{repo: repo}
}

// ConfirmCart validates, prices and commits a cart. Validation order is
// fixed: empty cart, quantities, product resolution, stock. Nothing is
// written until every line has passed, and the commit itself is a single
// transaction in the repository.
func (s *checkoutServiceImpl) ConfirmCart(ctx context.Context, cart domain.Cart) (*domain.ConfirmCartResponse, error) {
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	for _, line := range cart.Items {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: product_id %d, quantity %d", ErrInvalidQuantity, line.ProductID, line.Quantity)
		}
	}

	products, err := s.repo.FindProductsByIDs(ctx, productIDs(cart.Items))
	if err != nil {
		logger.Error("ConfirmCart: product lookup failed", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// The whole cart is resolved before any stock check; the first
	// unresolved line in cart order is the one reported.
	for _, line := range cart.Items {
		if _, ok := products[line.ProductID]; !ok {
			return nil, fmt.Errorf("%w: product_id %d", ErrProductNotFound, line.ProductID)
		}
	}

	for _, line := range cart.Items {
		p := products[line.ProductID]
		if p.Stock < line.Quantity {
			return nil, fmt.Errorf("%w: %q (product_id %d), requested %d, available %d",
				ErrInsufficientStock, p.Name, p.ID, line.Quantity, p.Stock)
		}
	}

	pricing := priceCart(cart, products)

	debits := make([]domain.StockDebit, len(cart.Items))
	for i, line := range cart.Items {
		debits[i] = domain.StockDebit{ProductID: line.ProductID, Quantity: line.Quantity}
	}

	order, err := s.repo.DebitStockAndCreateOrder(ctx, debits, pricing.TotalFinal)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			// A concurrent confirmation won the race for the same stock.
			return nil, fmt.Errorf("%w: %v", ErrInsufficientStock, err)
		}
		logger.Error("ConfirmCart: commit failed", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &domain.ConfirmCartResponse{
		OrderID:     order.ID,
		TotalBefore: pricing.Subtotal,
		Discount:    pricing.Discount,
		TotalFinal:  pricing.TotalFinal,
	}, nil
}

func productIDs(items []domain.CartLine) []int64 {
	seen := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, line := range items {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	return ids
}
