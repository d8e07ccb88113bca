package worker

import (
	"context"
	"errors"
	"log"

	"store-service/internal/broker"
	"store-service/internal/models"
	"store-service/internal/store"
	"store-service/internal/util"

	"go.uber.org/zap"
)

// LedgerRepository is the read surface the audit needs.
type LedgerRepository interface {
	GetLedgerEntryForOrder(ctx context.Context, storeID, orderID int64) (*models.LedgerEntry, error)
}

// LedgerAuditWorker re-checks the order/ledger-entry pairing after every
// ledger event. The writes themselves are transactional, so a finding here
// means storage-level corruption; it is surfaced, never repaired silently.
type LedgerAuditWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	repo         LedgerRepository
	logger       *zap.Logger
}

// NewLedgerAuditWorker creates a new ledger audit worker
func NewLedgerAuditWorker(consumer *broker.Consumer, repo LedgerRepository) *LedgerAuditWorker {
	w := &LedgerAuditWorker{
		consumer: consumer,
		repo:     repo,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(w.auditOrderPlaced)
	eventHandler.OnOrderDeleted(w.auditOrderDeleted)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *LedgerAuditWorker) Start(ctx context.Context) error {
	log.Println("Starting ledger audit worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *LedgerAuditWorker) Stop() error {
	log.Println("Stopping ledger audit worker...")
	return w.consumer.Close()
}

// auditOrderPlaced verifies a placed order has exactly one ledger entry
// mirroring its total.
func (w *LedgerAuditWorker) auditOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	entry, err := w.repo.GetLedgerEntryForOrder(ctx, event.StoreID, event.OrderID)
	if errors.Is(err, store.ErrLedgerEntryNotFound) {
		w.reportInconsistency(event.StoreID, event.OrderID, "order has no ledger entry")
		return nil
	}
	if err != nil {
		return err
	}

	if entry.Total != event.Total {
		w.reportInconsistency(event.StoreID, event.OrderID, "ledger entry total does not match order total")
	}
	return nil
}

// auditOrderDeleted verifies the ledger entry went away with the order.
func (w *LedgerAuditWorker) auditOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error {
	_, err := w.repo.GetLedgerEntryForOrder(ctx, event.StoreID, event.OrderID)
	if err == nil {
		w.reportInconsistency(event.StoreID, event.OrderID, "ledger entry survived order deletion")
		return nil
	}
	if errors.Is(err, store.ErrLedgerEntryNotFound) {
		return nil
	}
	return err
}

func (w *LedgerAuditWorker) reportInconsistency(storeID, orderID int64, detail string) {
	util.LedgerInconsistenciesTotal.Inc()
	w.logger.Error("Ledger inconsistency detected",
		zap.Int64("store_id", storeID),
		zap.Int64("order_id", orderID),
		zap.String("detail", detail),
		zap.Error(store.ErrLedgerInconsistent))
}
