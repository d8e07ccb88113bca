package service

import (
	"context"
	"fmt"

	"store-service/internal/models"
	"store-service/internal/util"

	"go.uber.org/zap"
)

// CatalogRepository is the storage surface product management needs.
// *store.Store satisfies it.
type CatalogRepository interface {
	GetStoreByOwner(ctx context.Context, ownerID int64) (*models.Store, error)
	GetProductByID(ctx context.Context, storeID, id int64) (*models.Product, error)
	GetProducts(ctx context.Context, storeID int64) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	SoftDeleteProduct(ctx context.Context, storeID, id int64) error
}

// CatalogService manages the product catalog. It sets initial stock at
// creation; afterwards quantity only moves through the order write path.
type CatalogService struct {
	repo   CatalogRepository
	cache  ReportCache
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo CatalogRepository, cache ReportCache) *CatalogService {
	return &CatalogService{
		repo:   repo,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// ProductRequest carries product fields for create and update.
type ProductRequest struct {
	Name     string `json:"product_name" binding:"required"`
	Image    string `json:"product_image"`
	Price    int64  `json:"price" binding:"required,min=1"`
	Quantity int    `json:"quantity"`
}

// CreateProduct adds a product with its initial stock.
func (s *CatalogService) CreateProduct(ctx context.Context, principal models.Principal, req *ProductRequest) (*models.Product, error) {
	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidRequest)
	}

	product := &models.Product{
		StoreID:  st.ID,
		Name:     req.Name,
		Image:    req.Image,
		Price:    req.Price,
		Quantity: req.Quantity,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.Int64("store_id", st.ID))
	s.cache.Invalidate(ctx, st.ID)
	return product, nil
}

// ListProducts retrieves all non-deleted products.
func (s *CatalogService) ListProducts(ctx context.Context, principal models.Principal) ([]models.Product, error) {
	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetProducts(ctx, st.ID)
}

// GetProduct retrieves one non-deleted product.
func (s *CatalogService) GetProduct(ctx context.Context, principal models.Principal, productID int64) (*models.Product, error) {
	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetProductByID(ctx, st.ID, productID)
}

// UpdateProduct rewrites name, image and price. Stock is untouched: there
// is no replenishment path.
func (s *CatalogService) UpdateProduct(ctx context.Context, principal models.Principal, productID int64, req *ProductRequest) error {
	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return err
	}

	product := &models.Product{
		ID:      productID,
		StoreID: st.ID,
		Name:    req.Name,
		Image:   req.Image,
		Price:   req.Price,
	}
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, st.ID)
	return nil
}

// DeleteProduct soft-deletes a product. Existing order history keeps its
// snapshotted name and price.
func (s *CatalogService) DeleteProduct(ctx context.Context, principal models.Principal, productID int64) error {
	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDeleteProduct(ctx, st.ID, productID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, st.ID)
	return nil
}
