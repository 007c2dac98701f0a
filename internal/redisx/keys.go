package redisx

import "time"

const (
	// Order status snapshot: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%d"

	// Shipping quote cached by the fulfillment worker:
	// order_shipping:{order_id} -> quote JSON
	KeyOrderShipping = "order_shipping:%d"

	// Consumer dedup: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache   = 5 * time.Minute
	TTLShippingQuote = 30 * time.Minute
	TTLDedup         = 48 * time.Hour
)
