package domain

import (
	"context"
	"time"
)

// PurchaseConfirmed is emitted after the backend accepts a purchase.
type PurchaseConfirmed struct {
	ProductID      string    `json:"product_id"`
	Quantity       int       `json:"quantity"`
	Accessories    []string  `json:"accessories"`
	RemainingStock int       `json:"remaining_stock"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
}

// EventPublisher delivers store events to interested consumers.
type EventPublisher interface {
	PublishPurchaseConfirmed(ctx context.Context, event PurchaseConfirmed) error
}
