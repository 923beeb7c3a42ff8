package event

import (
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/google/uuid"
)

type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	CreatedAt   time.Time `json:"created_at"`
	EventType   EventType `json:"event_type"`
}

type EventType string

const (
	OrderPlacedEventName EventType = constants.OrderPlacedEventType
)

type Event interface {
	Type() EventType
	GetID() string
}

// OrderPlacedEvent 訂單成立後發布, 訊息 key 為訂單 id
type OrderPlacedEvent struct {
	BaseEvent
	Confirmation service.OrderConfirmation `json:"confirmation"`
}

func NewOrderPlacedEvent(c service.OrderConfirmation) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseEvent: BaseEvent{
			EventID:     uuid.NewString(),
			AggregateID: c.OrderID,
			CreatedAt:   time.Now().UTC(),
			EventType:   OrderPlacedEventName,
		},
		Confirmation: c,
	}
}

func (e *OrderPlacedEvent) Type() EventType {
	return e.EventType
}

func (e *OrderPlacedEvent) GetID() string {
	return e.EventID
}
