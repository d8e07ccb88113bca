package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"store-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetStoreByOwner resolves the store bound to an owner principal.
func (s *Store) GetStoreByOwner(ctx context.Context, ownerID int64) (*models.Store, error) {
	var st models.Store
	err := s.db.GetContext(ctx, &st, "SELECT * FROM stores WHERE owner_id = $1", ownerID)
	if err == sql.ErrNoRows {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// GetProductByID retrieves a non-deleted product scoped to a store.
func (s *Store) GetProductByID(ctx context.Context, storeID, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT * FROM products WHERE id = $1 AND store_id = $2 AND is_delete = false", id, storeID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts retrieves all non-deleted products for a store.
func (s *Store) GetProducts(ctx context.Context, storeID int64) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE store_id = $1 AND is_delete = false ORDER BY id", storeID)
	return products, err
}

// GetProductsByIDs retrieves multiple non-deleted products by IDs.
func (s *Store) GetProductsByIDs(ctx context.Context, storeID int64, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In(
		"SELECT * FROM products WHERE store_id = ? AND is_delete = false AND id IN (?)", storeID, ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	err = s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// CreateProduct creates a new product.
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (store_id, name, image, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_delete, created_at, updated_at`

	return s.db.GetContext(ctx, product, query,
		product.StoreID, product.Name, product.Image, product.Price, product.Quantity)
}

// UpdateProduct updates product fields. Quantity is not touched here: stock
// only moves through the order write path.
func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET name = $1, image = $2, price = $3, updated_at = NOW() WHERE id = $4 AND store_id = $5 AND is_delete = false",
		product.Name, product.Image, product.Price, product.ID, product.StoreID)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Errorf("%w: %d", ErrProductNotFound, product.ID))
}

// SoftDeleteProduct hides a product from listings and ordering.
func (s *Store) SoftDeleteProduct(ctx context.Context, storeID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET is_delete = true, updated_at = NOW() WHERE id = $1 AND store_id = $2 AND is_delete = false",
		id, storeID)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Errorf("%w: %d", ErrProductNotFound, id))
}

// decrementStockTx applies one decrement-if-sufficient update inside tx.
// A conditional single-statement update closes the check-then-write race:
// two concurrent orders can never both pass against a stale read.
func decrementStockTx(ctx context.Context, tx *sqlx.Tx, storeID, productID int64, quantity int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE products
		 SET quantity = quantity - $1, updated_at = NOW()
		 WHERE id = $2 AND store_id = $3 AND is_delete = false AND quantity >= $1`,
		quantity, productID, storeID)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	// Zero rows: the product is missing or the stock is short.
	var exists bool
	err = tx.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND store_id = $2 AND is_delete = false)",
		productID, storeID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	return fmt.Errorf("%w: product %d", ErrInsufficientStock, productID)
}

func requireRow(res sql.Result, missing error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return missing
	}
	return nil
}
