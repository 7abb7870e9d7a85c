package domain

import "time"

const (
	TopicProductEvents = "product_events"
	TopicUserEvents    = "user_events"
	TopicOrderEvents   = "order_events"
)

const (
	EventProductCreated     = "ProductCreated"
	EventProductRemoved     = "ProductRemoved"
	EventUserRegistered     = "UserRegistered"
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// EventEnvelope is the JSON shape of every message published to Kafka.
// EventID is added by the outbox worker at publish time.
type EventEnvelope[T any] struct {
	Event   string `json:"event"`
	EventID string `json:"event_id,omitempty"`
	Payload T      `json:"payload"`
}

type ProductEvent struct {
	ProductID int64    `json:"product_id"`
	Title     string   `json:"title"`
	Category  Category `json:"category"`
}

type UserRegisteredEvent struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

type OrderCreatedEvent struct {
	OrderID string    `json:"order_id"`
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	Total   float64   `json:"total"`
	Items   int       `json:"items"`
	At      time.Time `json:"created_at"`
}

type OrderStatusChangedEvent struct {
	OrderID string      `json:"order_id"`
	UserID  string      `json:"user_id"`
	From    OrderStatus `json:"from"`
	To      OrderStatus `json:"to"`
	At      time.Time   `json:"changed_at"`
}
