package events

import (
	"encoding/json"
	"time"
)

const (
	EventCartItemAdded = "CartItemAdded"
)

// Envelope wraps every event published by the shop.
type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the Event* consts
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"` // e.g. "parts-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // cart id
	Payload       json.RawMessage `json:"payload"`
}

type CartItemAddedPayload struct {
	CartID     string `json:"cart_id"`
	PartID     int    `json:"part_id"`
	PartNumber string `json:"part_number"`
	Price      string `json:"price"`      // decimal string
	ItemCount  int    `json:"item_count"` // entries after the add
	Total      string `json:"total"`      // decimal string
}
