package service

import (
	"context"
	"errors"

	"github.com/mvcampos/papelaria-backend/internal/catalog/domain"
	"github.com/mvcampos/papelaria-backend/internal/catalog/repository"
	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("price must be at least 0.01")

// minPrice is the smallest sellable unit.
var minPrice = decimal.New(1, -2) // 0.01

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type ProductService interface {
	CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, input domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type productServiceImpl struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productServiceImpl{repo: repo}
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	if input.Price.LessThan(minPrice) {
		return nil, ErrInvalidPrice
	}

	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
		SKU:         input.SKU,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *productServiceImpl) ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListProducts(ctx, filter)
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, id int64, input domain.ProductInput) (*domain.Product, error) {
	if input.Price.LessThan(minPrice) {
		return nil, ErrInvalidPrice
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock
	product.Category = input.Category
	product.SKU = input.SKU

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.DeleteProduct(ctx, id)
}
