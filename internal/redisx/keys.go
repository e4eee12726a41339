package redisx

import "time"

const (
	// Committed order summary: order:{order_id} -> order JSON
	KeyOrder = "order:%s"

	// Dedup for event consumers: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLOrderCache = 10 * time.Minute
	TTLDedup      = 48 * time.Hour
)
