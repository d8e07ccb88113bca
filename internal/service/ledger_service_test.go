package service

import (
	"context"
	"testing"
	"time"

	"store-service/internal/models"
	"store-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerFixture(t *testing.T) (*LedgerService, *memRepo, models.Principal) {
	t.Helper()
	repo := newMemRepo()
	repo.addStore(1, "Main Store")
	svc := NewLedgerService(repo, NopCache{}, NopPublisher{})
	return svc, repo, models.Principal{UserID: 1, Role: models.RoleOwner}
}

func TestPlaceOrderDecrementsStockAndMirrorsLedger(t *testing.T) {
	svc, repo, owner := newLedgerFixture(t)
	st := repo.stores[1]
	product := repo.addProduct(st.ID, "Coffee Beans", 100, 20)

	ctx := context.Background()
	resp, err := svc.PlaceOrder(ctx, owner, &PlaceOrderRequest{
		Items:     []OrderLineRequest{{ProductID: product.ID, Quantity: 5}},
		OrderType: models.OrderTypeWalkIn,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(500), resp.Total)

	assert.Equal(t, 15, repo.products[product.ID].Quantity)

	order, items, err := repo.GetOrderByID(ctx, st.ID, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), order.Total)
	require.Len(t, items, 1)
	assert.Equal(t, "Coffee Beans", items[0].ProductName)
	assert.Equal(t, int64(100), items[0].Price)

	entry, err := repo.GetLedgerEntryForOrder(ctx, st.ID, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.Total, entry.Total)
	assert.Equal(t, models.OrderTypeWalkIn, entry.EntryType)
}

func TestPlaceOrderInsufficientStockLeavesNothingBehind(t *testing.T) {
	svc, repo, owner := newLedgerFixture(t)
	st := repo.stores[1]
	product := repo.addProduct(st.ID, "Coffee Beans", 100, 20)

	ctx := context.Background()
	_, err := svc.PlaceOrder(ctx, owner, &PlaceOrderRequest{
		Items:     []OrderLineRequest{{ProductID: product.ID, Quantity: 5}},
		OrderType: models.OrderTypeWalkIn,
	})
	require.NoError(t, err)

	_, err = svc.PlaceOrder(ctx, owner, &PlaceOrderRequest{
		Items:     []OrderLineRequest{{ProductID: product.ID, Quantity: 20}},
		OrderType: models.OrderTypeWalkIn,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrInsufficientStock)

	assert.Equal(t, 15, repo.products[product.ID].Quantity)
	assert.Len(t, repo.orders, 1)
	assert.Len(t, repo.entries, 1)
}

func TestPlaceOrderMultiLineAllOrNothing(t *testing.T) {
	svc, repo, owner := newLedgerFixture(t)
	st := repo.stores[1]
	plenty := repo.addProduct(st.ID, "Sugar", 50, 100)
	scarce := repo.addProduct(st.ID, "Milk", 80, 2)

	_, err := svc.PlaceOrder(context.Background(), owner, &PlaceOrderRequest{
		Items: []OrderLineRequest{
			{ProductID: plenty.ID, Quantity: 10},
			{ProductID: scarce.ID, Quantity: 5},
		},
		OrderType: models.OrderTypeWalkIn,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrInsufficientStock)

	assert.Equal(t, 100, repo.products[plenty.ID].Quantity)
	assert.Equal(t, 2, repo.products[scarce.ID].Quantity)
	assert.Empty(t, repo.orders)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	svc, _, owner := newLedgerFixture(t)

	_, err := svc.PlaceOrder(context.Background(), owner, &PlaceOrderRequest{
		Items:     []OrderLineRequest{{ProductID: 9999, Quantity: 1}},
		OrderType: models.OrderTypeWalkIn,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestPlaceOrderRejectsMismatchedTotal(t *testing.T) {
	svc, repo, owner := newLedgerFixture(t)
	product := repo.addProduct(repo.stores[1].ID, "Coffee Beans", 100, 20)

	_, err := svc.PlaceOrder(context.Background(), owner, &PlaceOrderRequest{
		Items:     []OrderLineRequest{{ProductID: product.ID, Quantity: 2}},
		Total:     999,
		OrderType: models.OrderTypeWalkIn,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, 20, repo.products[product.ID].Quantity)
}

func TestPlaceOrderRejectsUnknownOrderType(t *testing.T) {
	svc, repo, owner := newLedgerFixture(t)
	product := repo.addProduct(repo.stores[1].ID, "Coffee Beans", 100, 20)

	_, err := svc.PlaceOrder(context.Background(), owner, &PlaceOrderRequest{
		Items:     []OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
		OrderType: "drive-through",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestPlaceOrderOnlineKeepsCustomerDetails(t *testing.T) {
	svc, repo, owner := newLedgerFixture(t)
	st := repo.stores[1]
	product := repo.addProduct(st.ID, "Coffee Beans", 100, 20)

	ctx := context.Background()
	resp, err := svc.PlaceOrder(ctx, owner, &PlaceOrderRequest{
		Items:     []OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
		OrderType: models.OrderTypeOnline,
		Customer:  &CustomerDetails{Name: "Ana", Phone: "09171234567", Address: "12 Mango St"},
	})
	require.NoError(t, err)

	order, _, err := repo.GetOrderByID(ctx, st.ID, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", order.CustomerName)
	assert.Equal(t, models.OrderTypeOnline, order.OrderType)
}

func TestDeleteOrderRemovesLedgerEntry(t *testing.T) {
	svc, repo, owner := newLedgerFixture(t)
	st := repo.stores[1]
	product := repo.addProduct(st.ID, "Coffee Beans", 100, 20)

	ctx := context.Background()
	resp, err := svc.PlaceOrder(ctx, owner, &PlaceOrderRequest{
		Items:     []OrderLineRequest{{ProductID: product.ID, Quantity: 5}},
		OrderType: models.OrderTypeWalkIn,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, owner, resp.OrderID))

	_, _, err = repo.GetOrderByID(ctx, st.ID, resp.OrderID)
	assert.ErrorIs(t, err, store.ErrOrderNotFound)
	_, err = repo.GetLedgerEntryForOrder(ctx, st.ID, resp.OrderID)
	assert.ErrorIs(t, err, store.ErrLedgerEntryNotFound)

	// Deleting an order does not restore stock.
	assert.Equal(t, 15, repo.products[product.ID].Quantity)
}

func TestDeleteOrderWithMissingLedgerEntryFails(t *testing.T) {
	svc, repo, owner := newLedgerFixture(t)
	st := repo.stores[1]
	product := repo.addProduct(st.ID, "Coffee Beans", 100, 20)

	ctx := context.Background()
	resp, err := svc.PlaceOrder(ctx, owner, &PlaceOrderRequest{
		Items:     []OrderLineRequest{{ProductID: product.ID, Quantity: 5}},
		OrderType: models.OrderTypeWalkIn,
	})
	require.NoError(t, err)

	// Simulate a corrupted ledger: the mirrored entry vanished.
	entry := repo.ledgerEntryForOrder(st.ID, resp.OrderID)
	require.NotNil(t, entry)
	delete(repo.entries, entry.ID)

	err = svc.DeleteOrder(ctx, owner, resp.OrderID)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrLedgerEntryNotFound)

	// The order must stay untouched.
	_, _, err = repo.GetOrderByID(ctx, st.ID, resp.OrderID)
	assert.NoError(t, err)
}

func TestDeleteMissingOrder(t *testing.T) {
	svc, _, owner := newLedgerFixture(t)
	err := svc.DeleteOrder(context.Background(), owner, 4242)
	assert.ErrorIs(t, err, store.ErrOrderNotFound)
}

func TestRecordExpenseMirrorsLedger(t *testing.T) {
	svc, repo, owner := newLedgerFixture(t)
	st := repo.stores[1]

	ctx := context.Background()
	expense, err := svc.RecordExpense(ctx, owner, &RecordExpenseRequest{
		Title:       "Electricity",
		Description: "March bill",
		Price:       1200,
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotZero(t, expense.ID)

	entries, err := repo.GetLedgerEntries(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.EntryTypeExpense, entries[0].EntryType)
	assert.Equal(t, int64(1200), entries[0].Total)
	assert.Equal(t, expense.ID, entries[0].SourceID)

	items := repo.entryItems[entries[0].ID]
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "Electricity", items[0].ProductName)
}

func TestDeleteExpenseKeepsLedgerEntry(t *testing.T) {
	svc, repo, owner := newLedgerFixture(t)
	st := repo.stores[1]

	ctx := context.Background()
	expense, err := svc.RecordExpense(ctx, owner, &RecordExpenseRequest{
		Title: "Rent", Price: 5000,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExpense(ctx, owner, expense.ID))

	// The expense is hidden from listings and totals.
	list, err := svc.ListExpenses(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list.Expenses)
	assert.Zero(t, list.TotalExpensesPrice)

	// But the ledger keeps its record for audit.
	entries, err := repo.GetLedgerEntries(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, expense.ID, entries[0].SourceID)
}

func TestListOrdersIncludesIncomeTotal(t *testing.T) {
	svc, repo, owner := newLedgerFixture(t)
	product := repo.addProduct(repo.stores[1].ID, "Coffee Beans", 100, 50)

	ctx := context.Background()
	for _, qty := range []int{2, 3} {
		_, err := svc.PlaceOrder(ctx, owner, &PlaceOrderRequest{
			Items:     []OrderLineRequest{{ProductID: product.ID, Quantity: qty}},
			OrderType: models.OrderTypeWalkIn,
		})
		require.NoError(t, err)
	}

	list, err := svc.ListOrders(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list.Orders, 2)
	assert.Equal(t, int64(500), list.TotalOrderPrice)
}

func TestLedgerOperationsRequireStore(t *testing.T) {
	repo := newMemRepo()
	svc := NewLedgerService(repo, NopCache{}, NopPublisher{})
	nobody := models.Principal{UserID: 77, Role: models.RoleOwner}

	_, err := svc.PlaceOrder(context.Background(), nobody, &PlaceOrderRequest{
		Items:     []OrderLineRequest{{ProductID: 1, Quantity: 1}},
		OrderType: models.OrderTypeWalkIn,
	})
	assert.ErrorIs(t, err, store.ErrStoreNotFound)

	_, err = svc.ListLedger(context.Background(), nobody)
	assert.ErrorIs(t, err, store.ErrStoreNotFound)
}
