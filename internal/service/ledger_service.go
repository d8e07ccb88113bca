package service

import (
	"context"
	"fmt"
	"time"

	"store-service/internal/models"
	"store-service/internal/store"
	"store-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerRepository is the storage surface the ledger writer needs.
// *store.Store satisfies it.
type LedgerRepository interface {
	GetStoreByOwner(ctx context.Context, ownerID int64) (*models.Store, error)
	GetProductsByIDs(ctx context.Context, storeID int64, ids []int64) ([]models.Product, error)
	CreateOrderWithLedger(ctx context.Context, order *models.Order, items []models.OrderItem) error
	DeleteOrderWithLedger(ctx context.Context, storeID, orderID int64) error
	GetOrderByID(ctx context.Context, storeID, id int64) (*models.Order, []models.OrderItem, error)
	GetOrders(ctx context.Context, storeID int64) ([]models.Order, error)
	SumOrderTotals(ctx context.Context, storeID int64) (int64, error)
	CreateExpenseWithLedger(ctx context.Context, expense *models.Expense) error
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	SoftDeleteExpense(ctx context.Context, storeID, id int64) error
	GetExpenseByID(ctx context.Context, storeID, id int64) (*models.Expense, error)
	GetExpenses(ctx context.Context, storeID int64) ([]models.Expense, error)
	SumExpenses(ctx context.Context, storeID int64) (int64, error)
	GetLedgerEntries(ctx context.Context, storeID int64) ([]models.LedgerEntry, error)
}

// LedgerService writes orders and expenses together with their mirrored
// ledger entries.
type LedgerService struct {
	repo      LedgerRepository
	cache     ReportCache
	publisher EventPublisher
	logger    *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(repo LedgerRepository, cache ReportCache, publisher EventPublisher) *LedgerService {
	return &LedgerService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// OrderLineRequest represents one requested line in an order
type OrderLineRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// CustomerDetails carries the customer sub-record for online orders
type CustomerDetails struct {
	Name    string `json:"customer_name"`
	Phone   string `json:"customer_phone"`
	Address string `json:"customer_address"`
}

// PlaceOrderRequest represents a request to place an order
type PlaceOrderRequest struct {
	Items     []OrderLineRequest `json:"order_items" binding:"required,min=1"`
	Total     int64              `json:"order_total"`
	OrderType string             `json:"order_type" binding:"required"`
	Customer  *CustomerDetails   `json:"order_online_details,omitempty"`
}

// PlaceOrderResponse represents the response after placing an order
type PlaceOrderResponse struct {
	OrderID int64 `json:"order_id"`
	Total   int64 `json:"order_total"`
}

// PlaceOrder validates the requested lines, snapshots product name/image/
// price, decrements stock and persists the order plus its ledger entry in
// one storage transaction. On any failure nothing is persisted.
func (s *LedgerService) PlaceOrder(ctx context.Context, principal models.Principal, req *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "LedgerService.PlaceOrder")
	defer span.End()

	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	if req.OrderType != models.OrderTypeWalkIn && req.OrderType != models.OrderTypeOnline {
		return nil, fmt.Errorf("%w: unknown order type %q", ErrInvalidRequest, req.OrderType)
	}

	products, err := s.lookupProducts(ctx, st.ID, req.Items)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	var total int64
	for _, line := range req.Items {
		product := products[line.ProductID]
		items = append(items, models.OrderItem{
			ProductID:    product.ID,
			Quantity:     line.Quantity,
			Price:        product.Price,
			ProductName:  product.Name,
			ProductImage: product.Image,
		})
		total += product.Price * int64(line.Quantity)
	}

	if req.Total != 0 && req.Total != total {
		util.OrdersFailedTotal.WithLabelValues("total_mismatch").Inc()
		return nil, fmt.Errorf("%w: order total %d does not match line items (%d)",
			ErrInvalidRequest, req.Total, total)
	}

	order := &models.Order{
		StoreID:   st.ID,
		UserID:    principal.UserID,
		Total:     total,
		OrderDate: time.Now(),
		OrderType: req.OrderType,
	}
	if req.Customer != nil {
		order.CustomerName = req.Customer.Name
		order.CustomerPhone = req.Customer.Phone
		order.CustomerAddress = req.Customer.Address
	}

	if err := s.repo.CreateOrderWithLedger(ctx, order, items); err != nil {
		util.OrdersFailedTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("store_id", st.ID),
		zap.Int64("total", total))

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:   order.ID,
		StoreID:   st.ID,
		UserID:    principal.UserID,
		Total:     total,
		OrderType: req.OrderType,
		Items:     toEventItems(items),
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}

	s.cache.Invalidate(ctx, st.ID)

	return &PlaceOrderResponse{OrderID: order.ID, Total: total}, nil
}

// DeleteOrder removes an order and its ledger entry as one unit. If either
// half is missing the delete fails and nothing is removed.
func (s *LedgerService) DeleteOrder(ctx context.Context, principal models.Principal, orderID int64) error {
	ctx, span := util.StartSpan(ctx, "LedgerService.DeleteOrder")
	defer span.End()

	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteOrderWithLedger(ctx, st.ID, orderID); err != nil {
		return err
	}

	util.OrdersDeletedTotal.Inc()
	s.logger.Info("Order deleted", zap.Int64("order_id", orderID), zap.Int64("store_id", st.ID))

	event := &models.OrderDeletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderDeleted,
			Timestamp: time.Now(),
		},
		OrderID: orderID,
		StoreID: st.ID,
	}
	if err := s.publisher.PublishOrderDeleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderDeleted event", zap.Error(err))
	}

	s.cache.Invalidate(ctx, st.ID)
	return nil
}

// GetOrder retrieves one order with its line items.
func (s *LedgerService) GetOrder(ctx context.Context, principal models.Principal, orderID int64) (*models.Order, []models.OrderItem, error) {
	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, nil, err
	}
	return s.repo.GetOrderByID(ctx, st.ID, orderID)
}

// OrderList is the order listing payload with the running income total.
type OrderList struct {
	Orders          []models.Order `json:"orders"`
	TotalOrderPrice int64          `json:"totalOrderPrice"`
}

// ListOrders retrieves all orders plus the income total over non-deleted ones.
func (s *LedgerService) ListOrders(ctx context.Context, principal models.Principal) (*OrderList, error) {
	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.GetOrders(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.SumOrderTotals(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	return &OrderList{Orders: orders, TotalOrderPrice: total}, nil
}

// RecordExpenseRequest represents a request to record an expense
type RecordExpenseRequest struct {
	Title       string    `json:"expenses_title" binding:"required"`
	Description string    `json:"expenses_description"`
	Price       int64     `json:"expenses_price" binding:"required,min=1"`
	Date        time.Time `json:"expenses_date"`
}

// RecordExpense persists an expense and its mirrored ledger entry in one
// storage transaction.
func (s *LedgerService) RecordExpense(ctx context.Context, principal models.Principal, req *RecordExpenseRequest) (*models.Expense, error) {
	ctx, span := util.StartSpan(ctx, "LedgerService.RecordExpense")
	defer span.End()

	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	expense := &models.Expense{
		StoreID:     st.ID,
		UserID:      principal.UserID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ExpenseDate: date,
	}

	if err := s.repo.CreateExpenseWithLedger(ctx, expense); err != nil {
		return nil, err
	}

	util.ExpensesRecordedTotal.Inc()
	s.logger.Info("Expense recorded",
		zap.Int64("expense_id", expense.ID),
		zap.Int64("store_id", st.ID),
		zap.Int64("price", expense.Price))

	event := &models.ExpenseRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeExpenseRecorded,
			Timestamp: time.Now(),
		},
		ExpenseID: expense.ID,
		StoreID:   st.ID,
		UserID:    principal.UserID,
		Price:     expense.Price,
	}
	if err := s.publisher.PublishExpenseRecorded(ctx, event); err != nil {
		s.logger.Error("Failed to publish ExpenseRecorded event", zap.Error(err))
	}

	s.cache.Invalidate(ctx, st.ID)
	return expense, nil
}

// UpdateExpense rewrites an expense in place. The mirrored ledger entry is
// deliberately left as posted.
func (s *LedgerService) UpdateExpense(ctx context.Context, principal models.Principal, expenseID int64, req *RecordExpenseRequest) error {
	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return err
	}

	expense := &models.Expense{
		ID:          expenseID,
		StoreID:     st.ID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ExpenseDate: req.Date,
	}
	if expense.ExpenseDate.IsZero() {
		expense.ExpenseDate = time.Now()
	}

	if err := s.repo.UpdateExpense(ctx, expense); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, st.ID)
	return nil
}

// DeleteExpense soft-deletes an expense. Its ledger entry stays: expenses
// remain visible in the ledger for audit even after removal.
func (s *LedgerService) DeleteExpense(ctx context.Context, principal models.Principal, expenseID int64) error {
	ctx, span := util.StartSpan(ctx, "LedgerService.DeleteExpense")
	defer span.End()

	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDeleteExpense(ctx, st.ID, expenseID); err != nil {
		return err
	}

	s.logger.Info("Expense deleted", zap.Int64("expense_id", expenseID), zap.Int64("store_id", st.ID))

	event := &models.ExpenseDeletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeExpenseDeleted,
			Timestamp: time.Now(),
		},
		ExpenseID: expenseID,
		StoreID:   st.ID,
	}
	if err := s.publisher.PublishExpenseDeleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish ExpenseDeleted event", zap.Error(err))
	}

	s.cache.Invalidate(ctx, st.ID)
	return nil
}

// GetExpense retrieves one non-deleted expense.
func (s *LedgerService) GetExpense(ctx context.Context, principal models.Principal, expenseID int64) (*models.Expense, error) {
	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetExpenseByID(ctx, st.ID, expenseID)
}

// ExpenseList is the expense listing payload with the running total.
type ExpenseList struct {
	Expenses           []models.Expense `json:"expenses"`
	TotalExpensesPrice int64            `json:"totalExpensesPrice"`
}

// ListExpenses retrieves non-deleted expenses plus their total.
func (s *LedgerService) ListExpenses(ctx context.Context, principal models.Principal) (*ExpenseList, error) {
	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.repo.GetExpenses(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.SumExpenses(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	return &ExpenseList{Expenses: expenses, TotalExpensesPrice: total}, nil
}

// ListLedger retrieves the unified ledger for the principal's store.
func (s *LedgerService) ListLedger(ctx context.Context, principal models.Principal) ([]models.LedgerEntry, error) {
	st, err := s.repo.GetStoreByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetLedgerEntries(ctx, st.ID)
}

// lookupProducts resolves every requested product or fails with the first
// missing reference.
func (s *LedgerService) lookupProducts(ctx context.Context, storeID int64, lines []OrderLineRequest) (map[int64]models.Product, error) {
	ids := make([]int64, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}

	products, err := s.repo.GetProductsByIDs(ctx, storeID, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, line := range lines {
		if _, ok := byID[line.ProductID]; !ok {
			return nil, fmt.Errorf("%w: %d", store.ErrProductNotFound, line.ProductID)
		}
	}
	return byID, nil
}

func toEventItems(items []models.OrderItem) []models.OrderItemData {
	out := make([]models.OrderItemData, len(items))
	for i, item := range items {
		out[i] = models.OrderItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		}
	}
	return out
}
