package mocks

import (
	"context"

	catalogdomain "github.com/mvcampos/papelaria-backend/internal/catalog/domain"
	"github.com/mvcampos/papelaria-backend/internal/checkout/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockCheckoutRepository struct {
	mock.Mock
}

func (m *MockCheckoutRepository) FindProductsByIDs(ctx context.Context, ids []int64) (map[int64]catalogdomain.Product, error) {
	args := m.Called(ctx, ids)
	if p := args.Get(0); p != nil {
		return p.(map[int64]catalogdomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCheckoutRepository) DebitStockAndCreateOrder(ctx context.Context, debits []domain.StockDebit, totalFinal decimal.Decimal) (*domain.Order, error) {
	args := m.Called(ctx, debits, totalFinal)
	if o := args.Get(0); o != nil {
		return o.(*domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}
