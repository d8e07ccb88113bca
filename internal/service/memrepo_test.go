package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"store-service/internal/models"
	"store-service/internal/store"
)

// memRepo is an in-memory stand-in for *store.Store with the same
// transactional semantics: all-or-nothing order writes, conditional stock
// decrements and paired ledger deletes.
type memRepo struct {
	mu         sync.Mutex
	stores     map[int64]*models.Store // keyed by owner id
	products   map[int64]*models.Product
	orders     map[int64]*models.Order
	orderItems map[int64][]models.OrderItem
	expenses   map[int64]*models.Expense
	entries    map[int64]*models.LedgerEntry
	entryItems map[int64][]models.LedgerItem
	nextID     int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		stores:     make(map[int64]*models.Store),
		products:   make(map[int64]*models.Product),
		orders:     make(map[int64]*models.Order),
		orderItems: make(map[int64][]models.OrderItem),
		expenses:   make(map[int64]*models.Expense),
		entries:    make(map[int64]*models.LedgerEntry),
		entryItems: make(map[int64][]models.LedgerItem),
	}
}

func (m *memRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memRepo) addStore(ownerID int64, name string) *models.Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := &models.Store{ID: m.id(), OwnerID: ownerID, Name: name, CreatedAt: time.Now()}
	m.stores[ownerID] = st
	return st
}

func (m *memRepo) addProduct(storeID int64, name string, price int64, quantity int) *models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.Product{ID: m.id(), StoreID: storeID, Name: name, Price: price, Quantity: quantity}
	m.products[p.ID] = p
	return p
}

func (m *memRepo) GetStoreByOwner(_ context.Context, ownerID int64) (*models.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stores[ownerID]
	if !ok {
		return nil, store.ErrStoreNotFound
	}
	return st, nil
}

func (m *memRepo) GetProductByID(_ context.Context, storeID, id int64) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || p.StoreID != storeID || p.IsDelete {
		return nil, fmt.Errorf("%w: %d", store.ErrProductNotFound, id)
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) GetProducts(_ context.Context, storeID int64) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		if p.StoreID == storeID && !p.IsDelete {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) GetProductsByIDs(_ context.Context, storeID int64, ids []int64) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok && p.StoreID == storeID && !p.IsDelete {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memRepo) CreateProduct(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product.ID = m.id()
	product.CreatedAt = time.Now()
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *memRepo) UpdateProduct(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[product.ID]
	if !ok || p.StoreID != product.StoreID || p.IsDelete {
		return fmt.Errorf("%w: %d", store.ErrProductNotFound, product.ID)
	}
	p.Name, p.Image, p.Price = product.Name, product.Image, product.Price
	return nil
}

func (m *memRepo) SoftDeleteProduct(_ context.Context, storeID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || p.StoreID != storeID || p.IsDelete {
		return fmt.Errorf("%w: %d", store.ErrProductNotFound, id)
	}
	p.IsDelete = true
	return nil
}

func (m *memRepo) CreateOrderWithLedger(_ context.Context, order *models.Order, items []models.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate every line before touching anything, mirroring the rollback
	// semantics of the SQL transaction.
	for _, item := range items {
		p, ok := m.products[item.ProductID]
		if !ok || p.StoreID != order.StoreID || p.IsDelete {
			return fmt.Errorf("%w: %d", store.ErrProductNotFound, item.ProductID)
		}
		if p.Quantity < item.Quantity {
			return fmt.Errorf("%w: product %d", store.ErrInsufficientStock, item.ProductID)
		}
	}

	for _, item := range items {
		m.products[item.ProductID].Quantity -= item.Quantity
	}

	order.ID = m.id()
	order.CreatedAt = time.Now()
	cp := *order
	m.orders[order.ID] = &cp

	stored := make([]models.OrderItem, len(items))
	for i, item := range items {
		item.ID = m.id()
		item.OrderID = order.ID
		stored[i] = item
	}
	m.orderItems[order.ID] = stored

	entry := &models.LedgerEntry{
		ID:        m.id(),
		StoreID:   order.StoreID,
		UserID:    order.UserID,
		SourceID:  order.ID,
		EntryType: order.OrderType,
		Total:     order.Total,
		EntryDate: order.OrderDate,
		CreatedAt: time.Now(),
	}
	m.entries[entry.ID] = entry
	for _, item := range stored {
		m.entryItems[entry.ID] = append(m.entryItems[entry.ID], models.LedgerItem{
			ID: m.id(), EntryID: entry.ID, ProductID: item.ProductID,
			Quantity: item.Quantity, Price: item.Price, ProductName: item.ProductName,
		})
	}
	return nil
}

func (m *memRepo) DeleteOrderWithLedger(_ context.Context, storeID, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok || order.StoreID != storeID {
		return fmt.Errorf("%w: %d", store.ErrOrderNotFound, orderID)
	}

	entry := m.ledgerEntryForOrder(storeID, orderID)
	if entry == nil {
		return fmt.Errorf("%w: order %d", store.ErrLedgerEntryNotFound, orderID)
	}

	delete(m.entryItems, entry.ID)
	delete(m.entries, entry.ID)
	delete(m.orderItems, orderID)
	delete(m.orders, orderID)
	return nil
}

func (m *memRepo) GetOrderByID(_ context.Context, storeID, id int64) (*models.Order, []models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok || order.StoreID != storeID {
		return nil, nil, fmt.Errorf("%w: %d", store.ErrOrderNotFound, id)
	}
	cp := *order
	return &cp, append([]models.OrderItem(nil), m.orderItems[id]...), nil
}

func (m *memRepo) GetOrders(_ context.Context, storeID int64) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.StoreID == storeID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) SumOrderTotals(_ context.Context, storeID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, o := range m.orders {
		if o.StoreID == storeID && !o.IsDelete {
			total += o.Total
		}
	}
	return total, nil
}

func (m *memRepo) CreateExpenseWithLedger(_ context.Context, expense *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expense.ID = m.id()
	expense.CreatedAt = time.Now()
	cp := *expense
	m.expenses[expense.ID] = &cp

	entry := &models.LedgerEntry{
		ID:        m.id(),
		StoreID:   expense.StoreID,
		UserID:    expense.UserID,
		SourceID:  expense.ID,
		EntryType: models.EntryTypeExpense,
		Total:     expense.Price,
		EntryDate: expense.ExpenseDate,
		CreatedAt: time.Now(),
	}
	m.entries[entry.ID] = entry
	m.entryItems[entry.ID] = []models.LedgerItem{{
		ID: m.id(), EntryID: entry.ID, ProductID: expense.ID,
		Quantity: 1, Price: expense.Price, ProductName: expense.Title,
	}}
	return nil
}

func (m *memRepo) UpdateExpense(_ context.Context, expense *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[expense.ID]
	if !ok || e.StoreID != expense.StoreID || e.IsDelete {
		return fmt.Errorf("%w: %d", store.ErrExpenseNotFound, expense.ID)
	}
	e.Title, e.Description, e.Price, e.ExpenseDate =
		expense.Title, expense.Description, expense.Price, expense.ExpenseDate
	return nil
}

func (m *memRepo) SoftDeleteExpense(_ context.Context, storeID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[id]
	if !ok || e.StoreID != storeID || e.IsDelete {
		return fmt.Errorf("%w: %d", store.ErrExpenseNotFound, id)
	}
	e.IsDelete = true
	return nil
}

func (m *memRepo) GetExpenseByID(_ context.Context, storeID, id int64) (*models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[id]
	if !ok || e.StoreID != storeID || e.IsDelete {
		return nil, fmt.Errorf("%w: %d", store.ErrExpenseNotFound, id)
	}
	cp := *e
	return &cp, nil
}

func (m *memRepo) GetExpenses(_ context.Context, storeID int64) ([]models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Expense
	for _, e := range m.expenses {
		if e.StoreID == storeID && !e.IsDelete {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) SumExpenses(_ context.Context, storeID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, e := range m.expenses {
		if e.StoreID == storeID && !e.IsDelete {
			total += e.Price
		}
	}
	return total, nil
}

func (m *memRepo) GetLedgerEntries(_ context.Context, storeID int64) ([]models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.LedgerEntry
	for _, e := range m.entries {
		if e.StoreID == storeID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) GetLedgerEntryForOrder(_ context.Context, storeID, orderID int64) (*models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := m.ledgerEntryForOrder(storeID, orderID)
	if entry == nil {
		return nil, fmt.Errorf("%w: order %d", store.ErrLedgerEntryNotFound, orderID)
	}
	cp := *entry
	return &cp, nil
}

func (m *memRepo) ledgerEntryForOrder(storeID, orderID int64) *models.LedgerEntry {
	for _, e := range m.entries {
		if e.StoreID == storeID && e.SourceID == orderID && e.EntryType != models.EntryTypeExpense {
			return e
		}
	}
	return nil
}

func (m *memRepo) SumOrderTotalsInRange(_ context.Context, storeID int64, start, end time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, o := range m.orders {
		if o.StoreID == storeID && !o.IsDelete && inRange(o.OrderDate, start, end) {
			total += o.Total
		}
	}
	return total, nil
}

func (m *memRepo) SumExpensesInRange(_ context.Context, storeID int64, start, end time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, e := range m.expenses {
		if e.StoreID == storeID && !e.IsDelete && inRange(e.CreatedAt, start, end) {
			total += e.Price
		}
	}
	return total, nil
}

func (m *memRepo) GetOrdersInRange(_ context.Context, storeID int64, start, end time.Time) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.StoreID == storeID && !o.IsDelete && inRange(o.OrderDate, start, end) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.Before(out[j].OrderDate) })
	return out, nil
}

func (m *memRepo) GetProductSalesInRange(_ context.Context, storeID int64, start, end time.Time, limit int) ([]store.ProductSales, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byProduct := make(map[int64]*store.ProductSales)
	for id, o := range m.orders {
		if o.StoreID != storeID || o.IsDelete || !inRange(o.OrderDate, start, end) {
			continue
		}
		for _, item := range m.orderItems[id] {
			row, ok := byProduct[item.ProductID]
			if !ok {
				row = &store.ProductSales{ProductID: item.ProductID, ProductName: item.ProductName, ProductImage: item.ProductImage}
				byProduct[item.ProductID] = row
			}
			row.TotalSold += item.Quantity
			row.TotalAmount += int64(item.Quantity) * item.Price
		}
	}

	out := make([]store.ProductSales, 0, len(byProduct))
	for _, row := range byProduct {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalAmount > out[j].TotalAmount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) GetSoldQuantities(_ context.Context, storeID int64) (map[int64]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sold := make(map[int64]int)
	for id, o := range m.orders {
		if o.StoreID != storeID || o.IsDelete {
			continue
		}
		for _, item := range m.orderItems[id] {
			sold[item.ProductID] += item.Quantity
		}
	}
	return sold, nil
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
