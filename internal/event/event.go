package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	TopicCartCheckedOut = "orderup.cart.checked_out"
	TypeCartCheckedOut  = "cart.checked_out"

	aggregateType = "cart"
	source        = "orderup-cart"
)

// Event is the envelope every message on the cart topics carries.
type Event struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Version       int             `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	Source        string          `json:"source"`
	TenantID      string          `json:"tenant_id"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

func newEvent(eventType, tenantID, aggregateID string, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return &Event{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		Version:       1,
		Timestamp:     time.Now().UTC(),
		Source:        source,
		TenantID:      tenantID,
		Data:          raw,
	}, nil
}

// CheckedOutData is the payload of cart.checked_out. Amounts are decimal
// strings with two places.
type CheckedOutData struct {
	OrderID     string `json:"order_id"`
	SessionID   string `json:"session_id"`
	ItemCount   int    `json:"item_count"`
	Subtotal    string `json:"subtotal"`
	Tax         string `json:"tax"`
	DeliveryFee string `json:"delivery_fee"`
	Total       string `json:"total"`
	Currency    string `json:"currency"`
}
