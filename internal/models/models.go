package models

import "time"

// Store represents a tenant store. Every other entity is scoped to one store.
type Store struct {
	ID        int64     `db:"id" json:"id"`
	OwnerID   int64     `db:"owner_id" json:"owner_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Product represents a sellable product. Quantity is the authoritative
// current stock and is decremented only by confirmed orders.
type Product struct {
	ID        int64     `db:"id" json:"id"`
	StoreID   int64     `db:"store_id" json:"store_id"`
	Name      string    `db:"name" json:"name"`
	Image     string    `db:"image" json:"image"`
	Price     int64     `db:"price" json:"price"`
	Quantity  int       `db:"quantity" json:"quantity"`
	IsDelete  bool      `db:"is_delete" json:"is_delete"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Order types
const (
	OrderTypeWalkIn = "walk-in"
	OrderTypeOnline = "online"
)

// Order represents a confirmed customer order. Line items are immutable
// after creation; name/image/price are snapshotted at order time.
type Order struct {
	ID              int64     `db:"id" json:"id"`
	StoreID         int64     `db:"store_id" json:"store_id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	Total           int64     `db:"total" json:"total"`
	OrderDate       time.Time `db:"order_date" json:"order_date"`
	OrderType       string    `db:"order_type" json:"order_type"`
	CustomerName    string    `db:"customer_name" json:"customer_name,omitempty"`
	CustomerPhone   string    `db:"customer_phone" json:"customer_phone,omitempty"`
	CustomerAddress string    `db:"customer_address" json:"customer_address,omitempty"`
	IsDelete        bool      `db:"is_delete" json:"is_delete"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// OrderItem represents one product line within an order.
type OrderItem struct {
	ID           int64  `db:"id" json:"id"`
	OrderID      int64  `db:"order_id" json:"order_id"`
	ProductID    int64  `db:"product_id" json:"product_id"`
	Quantity     int    `db:"quantity" json:"quantity"`
	Price        int64  `db:"price" json:"price"`
	ProductName  string `db:"product_name" json:"product_name"`
	ProductImage string `db:"product_image" json:"product_image"`
}

// Expense represents a recorded store expense.
type Expense struct {
	ID          int64     `db:"id" json:"id"`
	StoreID     int64     `db:"store_id" json:"store_id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Price       int64     `db:"price" json:"price"`
	ExpenseDate time.Time `db:"expense_date" json:"expense_date"`
	IsDelete    bool      `db:"is_delete" json:"is_delete"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Ledger entry types
const (
	EntryTypeWalkIn  = OrderTypeWalkIn
	EntryTypeOnline  = OrderTypeOnline
	EntryTypeExpense = "expense"
)

// LedgerEntry is the append-only mirror of an order or an expense. Exactly
// one entry exists per source record; entries are never edited in place.
type LedgerEntry struct {
	ID        int64     `db:"id" json:"id"`
	StoreID   int64     `db:"store_id" json:"store_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	SourceID  int64     `db:"source_id" json:"source_id"`
	EntryType string    `db:"entry_type" json:"entry_type"`
	Total     int64     `db:"total" json:"total"`
	EntryDate time.Time `db:"entry_date" json:"entry_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LedgerItem mirrors one order line (or the single synthetic expense line)
// inside a ledger entry.
type LedgerItem struct {
	ID           int64  `db:"id" json:"id"`
	EntryID      int64  `db:"entry_id" json:"entry_id"`
	ProductID    int64  `db:"product_id" json:"product_id"`
	Quantity     int    `db:"quantity" json:"quantity"`
	Price        int64  `db:"price" json:"price"`
	ProductName  string `db:"product_name" json:"product_name"`
	ProductImage string `db:"product_image" json:"product_image"`
}

// Stock status labels reported by the inventory reconstruction.
const (
	StockStatusOut = "Out of Stock"
	StockStatusLow = "Low Stock"
	StockStatusIn  = "In Stock"
)

// InventoryLine is one row of the inventory report: live stock plus the
// quantities derived from the order history.
type InventoryLine struct {
	Product        string `json:"product"`
	Price          int64  `json:"price"`
	QuantityOnHand int    `json:"quantity_onhand"`
	QuantitySold   int    `json:"quantity_sold"`
	InventoryValue int64  `json:"inventory_value"`
	SalesValue     int64  `json:"sales_value"`
	AvailableStock int    `json:"available_stock"`
	Status         string `json:"status"`
}

// ChartPoint is one fixed time bucket in the dashboard series.
type ChartPoint struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

// BestSeller is one row of the ranked best-seller list.
type BestSeller struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	TotalSold   int    `json:"totalSold"`
	TotalAmount int64  `json:"totalAmount"`
}

// Dashboard is the aggregated reporting payload for one timeframe.
type Dashboard struct {
	TotalIncome   int64        `json:"totalIncome"`
	TotalExpenses int64        `json:"totalExpenses"`
	TotalBalance  int64        `json:"totalBalance"`
	ChartData     []ChartPoint `json:"chartData"`
	TopBestSeller []BestSeller `json:"topBestSeller"`
}
