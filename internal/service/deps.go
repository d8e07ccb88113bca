package service

import (
	"context"

	"store-service/internal/models"
)

// EventPublisher publishes ledger events for downstream consumers.
// Satisfied by broker.EventPublisher.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error
	PublishExpenseRecorded(ctx context.Context, event *models.ExpenseRecordedEvent) error
	PublishExpenseDeleted(ctx context.Context, event *models.ExpenseDeletedEvent) error
}

// ReportCache caches derived report payloads per store. Implementations
// must treat every miss or backend failure as a cache miss, never an error.
// Satisfied by redisclient.Client.
type ReportCache interface {
	GetDashboard(ctx context.Context, storeID int64, timeframe string) (*models.Dashboard, bool)
	SetDashboard(ctx context.Context, storeID int64, timeframe string, d *models.Dashboard)
	GetInventory(ctx context.Context, storeID int64) ([]models.InventoryLine, bool)
	SetInventory(ctx context.Context, storeID int64, lines []models.InventoryLine)
	Invalidate(ctx context.Context, storeID int64)
}

// NopCache is a ReportCache that caches nothing. Used when Redis is not
// configured and in tests.
type NopCache struct{}

func (NopCache) GetDashboard(context.Context, int64, string) (*models.Dashboard, bool) {
	return nil, false
}
func (NopCache) SetDashboard(context.Context, int64, string, *models.Dashboard) {}
func (NopCache) GetInventory(context.Context, int64) ([]models.InventoryLine, bool) {
	return nil, false
}
func (NopCache) SetInventory(context.Context, int64, []models.InventoryLine) {}
func (NopCache) Invalidate(context.Context, int64)                           {}

// NopPublisher is an EventPublisher that drops every event. Used when Kafka
// is not configured and in tests.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, *models.OrderPlacedEvent) error   { return nil }
func (NopPublisher) PublishOrderDeleted(context.Context, *models.OrderDeletedEvent) error { return nil }
func (NopPublisher) PublishExpenseRecorded(context.Context, *models.ExpenseRecordedEvent) error {
	return nil
}
func (NopPublisher) PublishExpenseDeleted(context.Context, *models.ExpenseDeletedEvent) error {
	return nil
}
