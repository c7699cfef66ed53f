package kafka

import "time"

// EventType определяет тип события магазина.
type EventType string

const (
	// EventTypeOrderPlaced — заказ создан, возможно частично исполненный.
	EventTypeOrderPlaced EventType = "order.placed"
	// EventTypeOrderRejected — ни одна позиция запроса не прошла.
	EventTypeOrderRejected EventType = "order.rejected"
	// EventTypeProductRestocked — пополнение остатка товара.
	EventTypeProductRestocked EventType = "product.restocked"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "storefront.order.events"
	TopicDeadLetterQueue = "storefront.dlq" // Dead Letter Queue для failed messages
)

// OrderLinePayload — позиция заказа в публикуемом событии.
type OrderLinePayload struct {
	ProductID  int64 `json:"product_id"`
	Qty        int64 `json:"qty"`
	PriceMinor int64 `json:"price_minor"`
}

// LineFailurePayload — отказ по позиции в публикуемом событии.
type LineFailurePayload struct {
	ProductID int64  `json:"product_id"`
	Reason    string `json:"reason"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available,omitempty"`
}

// OrderEvent представляет событие размещения заказа.
type OrderEvent struct {
	EventType  EventType            `json:"event_type"`
	OrderID    int64                `json:"order_id,omitempty"`
	CustomerID int64                `json:"customer_id"`
	TotalMinor int64                `json:"total_minor,omitempty"`
	Lines      []OrderLinePayload   `json:"lines,omitempty"`
	Failures   []LineFailurePayload `json:"failures,omitempty"`
	Timestamp  time.Time            `json:"timestamp"`
}
