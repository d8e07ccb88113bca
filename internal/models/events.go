package models

import "time"

// Event types
const (
	EventTypeOrderPlaced     = "ORDER_PLACED"
	EventTypeOrderDeleted    = "ORDER_DELETED"
	EventTypeExpenseRecorded = "EXPENSE_RECORDED"
	EventTypeExpenseDeleted  = "EXPENSE_DELETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published when an order and its ledger entry are committed
type OrderPlacedEvent struct {
	BaseEvent
	OrderID   int64           `json:"order_id"`
	StoreID   int64           `json:"store_id"`
	UserID    int64           `json:"user_id"`
	Total     int64           `json:"total"`
	OrderType string          `json:"order_type"`
	Items     []OrderItemData `json:"items"`
}

// OrderDeletedEvent published when an order and its ledger entry are removed
type OrderDeletedEvent struct {
	BaseEvent
	OrderID int64 `json:"order_id"`
	StoreID int64 `json:"store_id"`
}

// ExpenseRecordedEvent published when an expense and its ledger entry are committed
type ExpenseRecordedEvent struct {
	BaseEvent
	ExpenseID int64 `json:"expense_id"`
	StoreID   int64 `json:"store_id"`
	UserID    int64 `json:"user_id"`
	Price     int64 `json:"price"`
}

// ExpenseDeletedEvent published when an expense is soft-deleted. The mirrored
// ledger entry is kept, so consumers must not drop it.
type ExpenseDeletedEvent struct {
	BaseEvent
	ExpenseID int64 `json:"expense_id"`
	StoreID   int64 `json:"store_id"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}
