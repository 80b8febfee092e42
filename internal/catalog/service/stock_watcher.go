package service

import (
	"context"
	"fmt"

	"github.com/mvcampos/papelaria-backend/internal/catalog/repository"
	"github.com/mvcampos/papelaria-backend/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

// StockWatcher periodically logs products running low on stock so the
// store operator can restock before checkout starts rejecting carts.
type StockWatcher struct {
	repo      repository.ProductRepository
	threshold int
	scheduler *cron.Cron
}

func NewStockWatcher(repo repository.ProductRepository, threshold int) *StockWatcher {
	return &StockWatcher{
		repo:      repo,
		threshold: threshold,
		scheduler: cron.New(),
	}
}

func (w *StockWatcher) Start() {
	spec := "@every 10m"
	w.scheduler.AddFunc(spec, func() {
		w.ReportLowStock(context.Background())
	})
	w.scheduler.Start()
	logger.Info(fmt.Sprintf("Low-stock watcher started with spec '%s' and threshold %d", spec, w.threshold))
}

func (w *StockWatcher) Stop() {
	w.scheduler.Stop()
}

func (w *StockWatcher) ReportLowStock(ctx context.Context) {
	products, err := w.repo.ListProductsBelowStock(ctx, w.threshold)
	if err != nil {
		logger.Error("ReportLowStock: failed to list low-stock products", err)
		return
	}
	if len(products) == 0 {
		return
	}
	for _, p := range products {
		logger.Warn(fmt.Sprintf("Low stock: %q (id %d, sku %s) has %d units left", p.Name, p.ID, skuOrDash(p.SKU), p.Stock))
	}
}

func skuOrDash(sku *string) string {
	if sku != nil {
		return *sku
	}
	return "-"
}
