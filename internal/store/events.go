package store

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventShippingQuoted = "ShippingQuoted"
)

const (
	TopicOrderCreated   = "order.created"
	TopicShippingQuoted = "order.shipping.quoted"
)

// Envelope wraps every event on the wire.
type Envelope struct {
	EventID      string          `json:"eventId"`
	EventType    string          `json:"eventType"`
	EventVersion int             `json:"eventVersion"`
	OccurredAt   time.Time       `json:"occurredAt"`
	Producer     string          `json:"producer"`
	TraceID      string          `json:"traceId,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID     int64       `json:"orderId"`
	ClientName  string      `json:"clientName"`
	ClientEmail string      `json:"clientEmail"`
	Items       []ItemInput `json:"items"`
	TotalAmount float64     `json:"totalAmount"`
}

type ShippingQuotedPayload struct {
	OrderID      int64   `json:"orderId"`
	DeliveryCost float64 `json:"deliveryCost"`
	DeliveryDays string  `json:"deliveryDays"`
	TariffName   string  `json:"tariffName"`
}

// PartitionKey keys messages by order id so all events for one order stay
// in order on the same partition.
func PartitionKey(orderID int64) []byte {
	return []byte(strconv.FormatInt(orderID, 10))
}
