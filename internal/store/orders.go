package store

import (
	"context"
	"database/sql"
	"fmt"

	"store-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateOrderWithLedger persists an order, its line items, the per-line
// stock decrements and the mirrored ledger entry in one database
// transaction. Either everything commits or nothing does, so an order can
// never exist without its ledger entry and stock can never go negative.
func (s *Store) CreateOrderWithLedger(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, item := range items {
		if err := decrementStockTx(ctx, tx, order.StoreID, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}

	err = tx.GetContext(ctx, order, `
		INSERT INTO orders (store_id, user_id, total, order_date, order_type,
			customer_name, customer_phone, customer_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_delete, created_at`,
		order.StoreID, order.UserID, order.Total, order.OrderDate, order.OrderType,
		order.CustomerName, order.CustomerPhone, order.CustomerAddress)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		err = tx.GetContext(ctx, &items[i].ID, `
			INSERT INTO order_items (order_id, product_id, quantity, price, product_name, product_image)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			items[i].OrderID, items[i].ProductID, items[i].Quantity,
			items[i].Price, items[i].ProductName, items[i].ProductImage)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	entry := models.LedgerEntry{
		StoreID:   order.StoreID,
		UserID:    order.UserID,
		SourceID:  order.ID,
		EntryType: order.OrderType,
		Total:     order.Total,
		EntryDate: order.OrderDate,
	}
	if err := insertLedgerEntryTx(ctx, tx, &entry, items); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteOrderWithLedger removes an order and its mirrored ledger entry as
// one unit. Both must exist up front; a missing half aborts with NotFound
// and leaves the other half untouched. Stock is not restored.
func (s *Store) DeleteOrderWithLedger(ctx context.Context, storeID, orderID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1 AND store_id = $2)", orderID, storeID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
	}

	var entryID int64
	err = tx.GetContext(ctx, &entryID,
		"SELECT id FROM ledger_entries WHERE source_id = $1 AND store_id = $2 AND entry_type <> $3",
		orderID, storeID, models.EntryTypeExpense)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: order %d", ErrLedgerEntryNotFound, orderID)
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM ledger_items WHERE entry_id = $1", entryID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM ledger_entries WHERE id = $1", entryID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", orderID); err != nil {
		return err
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order with its line items.
func (s *Store) GetOrderByID(ctx context.Context, storeID, id int64) (*models.Order, []models.OrderItem, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE id = $1 AND store_id = $2", id, storeID)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, nil, err
	}

	var items []models.OrderItem
	err = s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", id)
	if err != nil {
		return nil, nil, err
	}
	return &order, items, nil
}

// GetOrders retrieves all orders for a store, newest first.
func (s *Store) GetOrders(ctx context.Context, storeID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE store_id = $1 ORDER BY created_at DESC", storeID)
	return orders, err
}

// SumOrderTotals sums totals over all non-deleted orders for a store.
func (s *Store) SumOrderTotals(ctx context.Context, storeID int64) (int64, error) {
	var total int64
	err := s.db.GetContext(ctx, &total,
		"SELECT COALESCE(SUM(total), 0) FROM orders WHERE store_id = $1 AND is_delete = false", storeID)
	return total, err
}

// CreateExpenseWithLedger persists an expense and its mirrored ledger entry
// (one synthetic line: quantity 1 at the expense price) in one transaction.
func (s *Store) CreateExpenseWithLedger(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, expense, `
		INSERT INTO expenses (store_id, user_id, title, description, price, expense_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_delete, created_at`,
		expense.StoreID, expense.UserID, expense.Title, expense.Description,
		expense.Price, expense.ExpenseDate)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	entry := models.LedgerEntry{
		StoreID:   expense.StoreID,
		UserID:    expense.UserID,
		SourceID:  expense.ID,
		EntryType: models.EntryTypeExpense,
		Total:     expense.Price,
		EntryDate: expense.ExpenseDate,
	}
	line := []models.OrderItem{{
		ProductID:   expense.ID,
		Quantity:    1,
		Price:       expense.Price,
		ProductName: expense.Title,
	}}
	if err := insertLedgerEntryTx(ctx, tx, &entry, line); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateExpense updates an expense in place. Its ledger entry is not
// rewritten: the ledger records what was posted, not what was edited later.
func (s *Store) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses SET title = $1, description = $2, price = $3, expense_date = $4
		WHERE id = $5 AND store_id = $6 AND is_delete = false`,
		expense.Title, expense.Description, expense.Price, expense.ExpenseDate,
		expense.ID, expense.StoreID)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Errorf("%w: %d", ErrExpenseNotFound, expense.ID))
}

// SoftDeleteExpense hides an expense from listings and totals. The mirrored
// ledger entry stays in place so the ledger remains a complete audit record.
func (s *Store) SoftDeleteExpense(ctx context.Context, storeID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET is_delete = true WHERE id = $1 AND store_id = $2 AND is_delete = false",
		id, storeID)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Errorf("%w: %d", ErrExpenseNotFound, id))
}

// GetExpenseByID retrieves a non-deleted expense.
func (s *Store) GetExpenseByID(ctx context.Context, storeID, id int64) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.GetContext(ctx, &expense,
		"SELECT * FROM expenses WHERE id = $1 AND store_id = $2 AND is_delete = false", id, storeID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", ErrExpenseNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// GetExpenses retrieves all non-deleted expenses for a store.
func (s *Store) GetExpenses(ctx context.Context, storeID int64) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.db.SelectContext(ctx, &expenses,
		"SELECT * FROM expenses WHERE store_id = $1 AND is_delete = false ORDER BY created_at DESC", storeID)
	return expenses, err
}

// SumExpenses sums prices over all non-deleted expenses for a store.
func (s *Store) SumExpenses(ctx context.Context, storeID int64) (int64, error) {
	var total int64
	err := s.db.GetContext(ctx, &total,
		"SELECT COALESCE(SUM(price), 0) FROM expenses WHERE store_id = $1 AND is_delete = false", storeID)
	return total, err
}

// GetLedgerEntries retrieves the unified ledger for a store, newest first.
func (s *Store) GetLedgerEntries(ctx context.Context, storeID int64) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM ledger_entries WHERE store_id = $1 ORDER BY created_at DESC", storeID)
	return entries, err
}

// GetLedgerEntryForOrder retrieves the ledger entry mirroring an order.
func (s *Store) GetLedgerEntryForOrder(ctx context.Context, storeID, orderID int64) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := s.db.GetContext(ctx, &entry,
		"SELECT * FROM ledger_entries WHERE source_id = $1 AND store_id = $2 AND entry_type <> $3",
		orderID, storeID, models.EntryTypeExpense)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: order %d", ErrLedgerEntryNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func insertLedgerEntryTx(ctx context.Context, tx *sqlx.Tx, entry *models.LedgerEntry, items []models.OrderItem) error {
	err := tx.GetContext(ctx, entry, `
		INSERT INTO ledger_entries (store_id, user_id, source_id, entry_type, total, entry_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		entry.StoreID, entry.UserID, entry.SourceID, entry.EntryType, entry.Total, entry.EntryDate)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	for _, item := range items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ledger_items (entry_id, product_id, quantity, price, product_name, product_image)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			entry.ID, item.ProductID, item.Quantity, item.Price, item.ProductName, item.ProductImage)
		if err != nil {
			return fmt.Errorf("failed to insert ledger item: %w", err)
		}
	}
	return nil
}
