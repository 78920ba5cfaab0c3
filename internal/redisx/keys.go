package redisx

import "time"

const (
	// idem:booking:create:{idempotency_key} -> booking_id
	KeyIdemBookingCreate = "idem:booking:create:%s"

	// dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// capped list of rendered notifications, newest first
	KeyNotifications = "notifications"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLDedup       = 48 * time.Hour
)
