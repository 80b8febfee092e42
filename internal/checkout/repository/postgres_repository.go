package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq" // for pq.Error and pq.Array
	catalogdomain "github.com/mvcampos/papelaria-backend/internal/catalog/domain"
	"github.com/mvcampos/papelaria-backend/internal/checkout/domain"
	"github.com/mvcampos/papelaria-backend/internal/platform/logger"
	"github.com/shopspring/decimal"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// CheckoutRepository is the store contract the checkout engine consumes:
// a batched product lookup plus the single atomic commit primitive.
type CheckoutRepository interface {
	FindProductsByIDs(ctx context.Context, ids []int64) (map[int64]catalogdomain.Product, error)
	DebitStockAndCreateOrder(ctx context.Context, debits []domain.StockDebit, totalFinal decimal.Decimal) (*domain.Order, error)
}

type postgresCheckoutRepository struct {
	db *sql.DB
}

func NewPostgresCheckoutRepository(db *sql.DB) CheckoutRepository {
	return &postgresCheckoutRepository{db: db}
}

func (r *postgresCheckoutRepository) FindProductsByIDs(ctx context.Context, ids []int64) (map[int64]catalogdomain.Product, error) {
	query := `SELECT id, name, description, price, stock, category, sku, created_at, updated_at
              FROM products WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		logger.Error("FindProductsByIDs: query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := make(map[int64]catalogdomain.Product, len(ids))
	for rows.Next() {
		var p catalogdomain.Product
		var description, sku sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &description, &p.Price, &p.Stock, &p.Category, &sku, &p.CreatedAt, &p.UpdatedAt); err != nil {
			logger.Error("FindProductsByIDs: scan failed", err)
			return nil, err
		}
		if description.Valid {
			p.Description = &description.String
		}
		if sku.Valid {
			p.SKU = &sku.String
		}
		products[p.ID] = p
	}
	return products, rows.Err()
}

// DebitStockAndCreateOrder applies every stock debit and inserts the order
// row in one transaction. The guarded UPDATE re-validates stock under the
// row lock, so two overlapping confirmations cannot both debit past zero;
// the loser sees zero rows affected and the whole transaction rolls back.
func (r *postgresCheckoutRepository) DebitStockAndCreateOrder(ctx context.Context, debits []domain.StockDebit, totalFinal decimal.Decimal) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("DebitStockAndCreateOrder: failed to begin tx", err)
		return nil, err
	}
	defer tx.Rollback() // no-op after commit

	debitQuery := `UPDATE products SET stock = stock - $1, updated_at = NOW()
                   WHERE id = $2 AND stock >= $1`
	for _, d := range debits {
		res, err := tx.ExecContext(ctx, debitQuery, d.Quantity, d.ProductID)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" { // check_violation
				return nil, fmt.Errorf("%w: product_id %d", ErrInsufficientStock, d.ProductID)
			}
			logger.Error("DebitStockAndCreateOrder: stock debit failed", err)
			return nil, err
		}
		rowsAffected, _ := res.RowsAffected()
		if rowsAffected == 0 {
			// Row gone or stock dropped below the requested quantity since
			// the pre-check.
			return nil, fmt.Errorf("%w: product_id %d", ErrInsufficientStock, d.ProductID)
		}
	}

	order := &domain.Order{TotalFinal: totalFinal}
	orderQuery := `INSERT INTO orders (total_final, created_at) VALUES ($1, NOW())
                   RETURNING id, created_at`
	if err := tx.QueryRowContext(ctx, orderQuery, totalFinal).Scan(&order.ID, &order.CreatedAt); err != nil {
		logger.Error("DebitStockAndCreateOrder: failed to insert order", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("DebitStockAndCreateOrder: commit failed", err)
		return nil, err
	}
	return order, nil
}
