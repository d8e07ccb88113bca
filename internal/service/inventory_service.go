package service

import (
	"context"

	"store-service/internal/models"
	"store-service/internal/util"

	"go.uber.org/zap"
)

const lowStockThreshold = 10

// InventoryRepository is the read surface inventory reconstruction needs.
// *store.Store satisfies it.
type InventoryRepository interface {
	GetStoreByOwner(ctx context.Context, ownerID int64) (*models.Store, error)
	GetProducts(ctx context.Context, storeID int64) ([]models.Product, error)
	GetSoldQuantities(ctx context.Context, storeID int64) (map[int64]int, error)
}

// InventoryService derives per-product stock history from the live quantity
// and the full order history. Nothing is materialized: quantity_onhand is
// always available + sold, which assumes stock is never replenished after
// product creation.
type InventoryService struct {
	repo   InventoryRepository
	cache  ReportCache
	logger *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(repo InventoryRepository, cache ReportCache) *InventoryService {
	return &InventoryService{
		repo:   repo,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// Report builds the inventory valuation report for the principal's store.
func (s *InventoryService) Report(ctx context.Context, principal models.Principal) ([]models.InventoryLine, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Report")
	defer span.End()

	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.GetInventory(ctx, st.ID); ok {
		return cached, nil
	}

	products, err := s.repo.GetProducts(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	sold, err := s.repo.GetSoldQuantities(ctx, st.ID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.InventoryLine, len(products))
	for i, product := range products {
		quantitySold := sold[product.ID]
		onHand := product.Quantity + quantitySold

		lines[i] = models.InventoryLine{
			Product:        product.Name,
			Price:          product.Price,
			QuantityOnHand: onHand,
			QuantitySold:   quantitySold,
			InventoryValue: int64(onHand) * product.Price,
			SalesValue:     int64(quantitySold) * product.Price,
			AvailableStock: product.Quantity,
			Status:         stockStatus(product.Quantity),
		}
	}

	s.cache.SetInventory(ctx, st.ID, lines)
	s.logger.Debug("Inventory report computed",
		zap.Int64("store_id", st.ID),
		zap.Int("products", len(lines)))

	return lines, nil
}

func stockStatus(available int) string {
	switch {
	case available == 0:
		return models.StockStatusOut
	case available < lowStockThreshold:
		return models.StockStatusLow
	default:
		return models.StockStatusIn
	}
}
