package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"store-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing ledger events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderPlaced publishes OrderPlaced event
func (ep *EventPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("order-%d", event.OrderID), event)
}

// PublishOrderDeleted publishes OrderDeleted event
func (ep *EventPublisher) PublishOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("order-%d", event.OrderID), event)
}

// PublishExpenseRecorded publishes ExpenseRecorded event
func (ep *EventPublisher) PublishExpenseRecorded(ctx context.Context, event *models.ExpenseRecordedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("expense-%d", event.ExpenseID), event)
}

// PublishExpenseDeleted publishes ExpenseDeleted event
func (ep *EventPublisher) PublishExpenseDeleted(ctx context.Context, event *models.ExpenseDeletedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("expense-%d", event.ExpenseID), event)
}

// EventHandler routes incoming ledger events to registered callbacks
type EventHandler struct {
	onOrderPlaced  func(context.Context, *models.OrderPlacedEvent) error
	onOrderDeleted func(context.Context, *models.OrderDeletedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderPlaced registers a handler for OrderPlaced events
func (eh *EventHandler) OnOrderPlaced(handler func(context.Context, *models.OrderPlacedEvent) error) {
	eh.onOrderPlaced = handler
}

// OnOrderDeleted registers a handler for OrderDeleted events
func (eh *EventHandler) OnOrderDeleted(handler func(context.Context, *models.OrderDeletedEvent) error) {
	eh.onOrderDeleted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeOrderPlaced:
		if eh.onOrderPlaced != nil {
			var event models.OrderPlacedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderPlaced event: %w", err)
			}
			return eh.onOrderPlaced(ctx, &event)
		}

	case models.EventTypeOrderDeleted:
		if eh.onOrderDeleted != nil {
			var event models.OrderDeletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderDeleted event: %w", err)
			}
			return eh.onOrderDeleted(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
