package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq" // for pq.Error
	"github.com/mvcampos/papelaria-backend/internal/catalog/domain"
	"github.com/mvcampos/papelaria-backend/internal/platform/logger"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateSKU    = errors.New("a product with this sku already exists")
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	ListProductsBelowStock(ctx context.Context, threshold int) ([]domain.Product, error)
}

type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (name, description, price, stock, category, sku, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at, updated_at`

	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		product.Name, nullString(product.Description), product.Price, product.Stock,
		product.Category, nullString(product.SKU), product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return ErrDuplicateSKU
		}
		logger.Error("CreateProduct: failed to insert product", err)
		return err
	}
	return nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT id, name, description, price, stock, category, sku, created_at, updated_at
              FROM products WHERE id = $1`
	var p domain.Product
	var description, sku sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &description, &p.Price, &p.Stock, &p.Category, &sku, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: query failed", err)
		return nil, err
	}
	if description.Valid {
		p.Description = &description.String
	}
	if sku.Valid {
		p.SKU = &sku.String
	}
	return &p, nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	query := `SELECT id, name, description, price, stock, category, sku, created_at, updated_at FROM products`
	args := []interface{}{}

	where := ""
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" WHERE name ILIKE $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		if where == "" {
			where += fmt.Sprintf(" WHERE category = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND category = $%d", len(args))
		}
	}
	query += where

	switch filter.Sort {
	case domain.SortPriceAsc:
		query += " ORDER BY price ASC"
	case domain.SortPriceDesc:
		query += " ORDER BY price DESC"
	case domain.SortName:
		query += " ORDER BY name ASC"
	default:
		query += " ORDER BY created_at DESC"
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ListProducts: query failed", err)
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	query := `UPDATE products SET name = $1, description = $2, price = $3, stock = $4,
              category = $5, sku = $6, updated_at = $7
              WHERE id = $8 RETURNING updated_at`

	product.UpdatedAt = time.Now()
	err := r.db.QueryRowContext(ctx, query,
		product.Name, nullString(product.Description), product.Price, product.Stock,
		product.Category, nullString(product.SKU), product.UpdatedAt, product.ID,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return ErrDuplicateSKU
		}
		logger.Error("UpdateProduct: exec failed", err)
		return err
	}
	return nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		logger.Error("DeleteProduct: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresProductRepository) ListProductsBelowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	query := `SELECT id, name, description, price, stock, category, sku, created_at, updated_at
              FROM products WHERE stock < $1 ORDER BY stock ASC`
	rows, err := r.db.QueryContext(ctx, query, threshold)
	if err != nil {
		logger.Error("ListProductsBelowStock: query failed", err)
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		var description, sku sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &description, &p.Price, &p.Stock, &p.Category, &sku, &p.CreatedAt, &p.UpdatedAt); err != nil {
			logger.Error("scanProducts: scan failed", err)
			return nil, err
		}
		if description.Valid {
			p.Description = &description.String
		}
		if sku.Valid {
			p.SKU = &sku.String
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s != nil {
		return sql.NullString{String: *s, Valid: true}
	}
	return sql.NullString{}
}
