package service

import (
	"context"
	"errors"
	"testing"
	"time"

	catalogdomain "github.com/mvcampos/papelaria-backend/internal/catalog/domain"
	"github.com/mvcampos/papelaria-backend/internal/checkout/domain"
	"github.com/mvcampos/papelaria-backend/internal/checkout/repository"
	"github.com/mvcampos/papelaria-backend/internal/checkout/service/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func storeProducts() map[int64]catalogdomain.Product {
	return map[int64]catalogdomain.Product{
		1: {ID: 1, Name: "Caderno Universitário", Price: decimal.RequireFromString("10.00"), Stock: 5},
		2: {ID: 2, Name: "Mochila Escolar", Price: decimal.RequireFromString("20.00"), Stock: 2},
	}
}

func totalEquals(expected string) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString(expected))
	})
}

func TestCheckoutService_ConfirmCart(t *testing.T) {
	ctx := context.TODO()

	t.Run("Successful confirmation with lowercase coupon", func(t *testing.T) {
		mockRepo := new(mocks.MockCheckoutRepository)
		checkoutService := NewCheckoutService(mockRepo)

		cart := domain.Cart{
			Items:  []domain.CartLine{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}},
			Coupon: "aluno10",
		}
		expectedDebits := []domain.StockDebit{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}}

		mockRepo.On("FindProductsByIDs", ctx, []int64{1, 2}).Return(storeProducts(), nil).Once()
		mockRepo.On("DebitStockAndCreateOrder", ctx, expectedDebits, totalEquals("36.00")).
			Return(&domain.Order{ID: 501, TotalFinal: decimal.RequireFromString("36.00"), CreatedAt: time.Now()}, nil).Once()

		resp, err := checkoutService.ConfirmCart(ctx, cart)

		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.Equal(t, int64(501), resp.OrderID)
		assert.Equal(t, "40.00", resp.TotalBefore.StringFixed(2))
		assert.Equal(t, "4.00", resp.Discount.StringFixed(2))
		assert.Equal(t, "36.00", resp.TotalFinal.StringFixed(2))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown coupon silently applies no discount", func(t *testing.T) {
		mockRepo := new(mocks.MockCheckoutRepository)
		checkoutService := NewCheckoutService(mockRepo)

		cart := domain.Cart{
			Items:  []domain.CartLine{{ProductID: 1, Quantity: 1}},
			Coupon: "NATAL20",
		}

		mockRepo.On("FindProductsByIDs", ctx, []int64{1}).Return(storeProducts(), nil).Once()
		mockRepo.On("DebitStockAndCreateOrder", ctx, []domain.StockDebit{{ProductID: 1, Quantity: 1}}, totalEquals("10.00")).
			Return(&domain.Order{ID: 502, TotalFinal: decimal.RequireFromString("10.00")}, nil).Once()

		resp, err := checkoutService.ConfirmCart(ctx, cart)

		assert.NoError(t, err)
		assert.Equal(t, "0.00", resp.Discount.StringFixed(2))
		assert.Equal(t, "10.00", resp.TotalFinal.StringFixed(2))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Empty cart fails before touching the store", func(t *testing.T) {
		mockRepo := new(mocks.MockCheckoutRepository)
		checkoutService := NewCheckoutService(mockRepo)

		resp, err := checkoutService.ConfirmCart(ctx, domain.Cart{})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrEmptyCart)
		mockRepo.AssertNotCalled(t, "FindProductsByIDs")
		mockRepo.AssertNotCalled(t, "DebitStockAndCreateOrder")
	})

	t.Run("Non-positive quantity fails before any lookup", func(t *testing.T) {
		mockRepo := new(mocks.MockCheckoutRepository)
		checkoutService := NewCheckoutService(mockRepo)

		cart := domain.Cart{Items: []domain.CartLine{{ProductID: 1, Quantity: 0}}}
		resp, err := checkoutService.ConfirmCart(ctx, cart)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assert.Contains(t, err.Error(), "product_id 1")
		mockRepo.AssertNotCalled(t, "FindProductsByIDs")
	})

	t.Run("Unknown product id fails with no debit", func(t *testing.T) {
		mockRepo := new(mocks.MockCheckoutRepository)
		checkoutService := NewCheckoutService(mockRepo)

		cart := domain.Cart{Items: []domain.CartLine{{ProductID: 999, Quantity: 1}}}
		mockRepo.On("FindProductsByIDs", ctx, []int64{999}).Return(map[int64]catalogdomain.Product{}, nil).Once()

		resp, err := checkoutService.ConfirmCart(ctx, cart)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.Contains(t, err.Error(), "product_id 999")
		mockRepo.AssertNotCalled(t, "DebitStockAndCreateOrder")
		mockRepo.AssertExpectations(t)
	})

	t.Run("First missing id in cart order is reported", func(t *testing.T) {
		mockRepo := new(mocks.MockCheckoutRepository)
		checkoutService := NewCheckoutService(mockRepo)

		cart := domain.Cart{Items: []domain.CartLine{
			{ProductID: 1, Quantity: 1},
			{ProductID: 888, Quantity: 1},
			{ProductID: 999, Quantity: 1},
		}}
		mockRepo.On("FindProductsByIDs", ctx, []int64{1, 888, 999}).Return(storeProducts(), nil).Once()

		_, err := checkoutService.ConfirmCart(ctx, cart)

		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.Contains(t, err.Error(), "product_id 888")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Insufficient stock fails with no debit", func(t *testing.T) {
		mockRepo := new(mocks.MockCheckoutRepository)
		checkoutService := NewCheckoutService(mockRepo)

		cart := domain.Cart{Items: []domain.CartLine{{ProductID: 2, Quantity: 3}}}
		mockRepo.On("FindProductsByIDs", ctx, []int64{2}).Return(storeProducts(), nil).Once()

		resp, err := checkoutService.ConfirmCart(ctx, cart)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Mochila Escolar")
		assert.Contains(t, err.Error(), "requested 3")
		assert.Contains(t, err.Error(), "available 2")
		mockRepo.AssertNotCalled(t, "DebitStockAndCreateOrder")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Commit race surfaces as insufficient stock", func(t *testing.T) {
		mockRepo := new(mocks.MockCheckoutRepository)
		checkoutService := NewCheckoutService(mockRepo)

		cart := domain.Cart{Items: []domain.CartLine{{ProductID: 2, Quantity: 2}}}
		mockRepo.On("FindProductsByIDs", ctx, []int64{2}).Return(storeProducts(), nil).Once()
		mockRepo.On("DebitStockAndCreateOrder", ctx, mock.Anything, mock.Anything).
			Return(nil, repository.ErrInsufficientStock).Once()

		resp, err := checkoutService.ConfirmCart(ctx, cart)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Persistence failure surfaces as internal error", func(t *testing.T) {
		mockRepo := new(mocks.MockCheckoutRepository)
		checkoutService := NewCheckoutService(mockRepo)

		cart := domain.Cart{Items: []domain.CartLine{{ProductID: 1, Quantity: 1}}}
		mockRepo.On("FindProductsByIDs", ctx, []int64{1}).Return(storeProducts(), nil).Once()
		mockRepo.On("DebitStockAndCreateOrder", ctx, mock.Anything, mock.Anything).
			Return(nil, errors.New("db connection lost")).Once()

		resp, err := checkoutService.ConfirmCart(ctx, cart)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrPersistence)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Repeating the same confirmation creates a second order", func(t *testing.T) {
		mockRepo := new(mocks.MockCheckoutRepository)
		checkoutService := NewCheckoutService(mockRepo)

		cart := domain.Cart{Items: []domain.CartLine{{ProductID: 1, Quantity: 1}}}
		mockRepo.On("FindProductsByIDs", ctx, []int64{1}).Return(storeProducts(), nil).Twice()
		mockRepo.On("DebitStockAndCreateOrder", ctx, mock.Anything, totalEquals("10.00")).
			Return(&domain.Order{ID: 601, TotalFinal: decimal.RequireFromString("10.00")}, nil).Once()
		mockRepo.On("DebitStockAndCreateOrder", ctx, mock.Anything, totalEquals("10.00")).
			Return(&domain.Order{ID: 602, TotalFinal: decimal.RequireFromString("10.00")}, nil).Once()

		first, err := checkoutService.ConfirmCart(ctx, cart)
		assert.NoError(t, err)
		second, err := checkoutService.ConfirmCart(ctx, cart)
		assert.NoError(t, err)

		assert.NotEqual(t, first.OrderID, second.OrderID)
		mockRepo.AssertExpectations(t)
	})
}
