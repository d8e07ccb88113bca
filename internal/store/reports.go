package store

import (
	"context"
	"time"

	"store-service/internal/models"
)

// ProductSales is one aggregated best-seller row for a reporting window.
type ProductSales struct {
	ProductID    int64  `db:"product_id"`
	ProductName  string `db:"product_name"`
	ProductImage string `db:"product_image"`
	TotalSold    int    `db:"total_sold"`
	TotalAmount  int64  `db:"total_amount"`
}

// SoldQuantity is the cumulative units sold for one product across all
// non-deleted orders.
type SoldQuantity struct {
	ProductID int64 `db:"product_id"`
	Sold      int   `db:"sold"`
}

// SumOrderTotalsInRange sums totals of non-deleted orders with an order
// date inside [start, end].
func (s *Store) SumOrderTotalsInRange(ctx context.Context, storeID int64, start, end time.Time) (int64, error) {
	var total int64
	err := s.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(total), 0) FROM orders
		WHERE store_id = $1 AND is_delete = false AND order_date BETWEEN $2 AND $3`,
		storeID, start, end)
	return total, err
}

// SumExpensesInRange sums prices of non-deleted expenses created inside
// [start, end].
func (s *Store) SumExpensesInRange(ctx context.Context, storeID int64, start, end time.Time) (int64, error) {
	var total int64
	err := s.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(price), 0) FROM expenses
		WHERE store_id = $1 AND is_delete = false AND created_at BETWEEN $2 AND $3`,
		storeID, start, end)
	return total, err
}

// GetOrdersInRange retrieves non-deleted orders with an order date inside
// [start, end], for time-bucketed chart aggregation.
func (s *Store) GetOrdersInRange(ctx context.Context, storeID int64, start, end time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, `
		SELECT * FROM orders
		WHERE store_id = $1 AND is_delete = false AND order_date BETWEEN $2 AND $3
		ORDER BY order_date`,
		storeID, start, end)
	return orders, err
}

// GetProductSalesInRange aggregates line items of in-range non-deleted
// orders per product, ranked by revenue.
func (s *Store) GetProductSalesInRange(ctx context.Context, storeID int64, start, end time.Time, limit int) ([]ProductSales, error) {
	var sales []ProductSales
	err := s.db.SelectContext(ctx, &sales, `
		SELECT oi.product_id,
		       MAX(oi.product_name)  AS product_name,
		       MAX(oi.product_image) AS product_image,
		       SUM(oi.quantity)            AS total_sold,
		       SUM(oi.quantity * oi.price) AS total_amount
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.store_id = $1 AND o.is_delete = false AND o.order_date BETWEEN $2 AND $3
		GROUP BY oi.product_id
		ORDER BY total_amount DESC
		LIMIT $4`,
		storeID, start, end, limit)
	return sales, err
}

// GetSoldQuantities returns, per product, the total quantity sold across all
// non-deleted orders of a store. One grouped query replaces the per-product
// order scan the report would otherwise need.
func (s *Store) GetSoldQuantities(ctx context.Context, storeID int64) (map[int64]int, error) {
	var rows []SoldQuantity
	err := s.db.SelectContext(ctx, &rows, `
		SELECT oi.product_id, SUM(oi.quantity) AS sold
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.store_id = $1 AND o.is_delete = false
		GROUP BY oi.product_id`,
		storeID)
	if err != nil {
		return nil, err
	}

	sold := make(map[int64]int, len(rows))
	for _, row := range rows {
		sold[row.ProductID] = row.Sold
	}
	return sold, nil
}
