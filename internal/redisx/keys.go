package redisx

import "time"

const (
	// Raw catalog document: catalog:raw -> JSON array
	KeyCatalogRaw = "catalog:raw"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Per-part add counters: hash cart:adds {part_id} -> count
	KeyCartAdds = "cart:adds"

	// All adds seen by the audit consumer
	KeyCartAddsTotal = "cart:adds:total"
)

var (
	TTLCatalog = 10 * time.Minute
	TTLDedup   = 48 * time.Hour
)
