package domain

import "time"

const TypeOrderStatus = "order_status"

// StatusMessage is one event on the order-status topic.
type StatusMessage struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	ETA       string    `json:"eta,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
