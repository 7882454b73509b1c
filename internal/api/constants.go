package api

import "time"

// ratelimitWindow is the period AuthRateLimit is counted over.
const ratelimitWindow = time.Minute

// Cache-Control header values.
const (
	CacheOneDay  = "public, max-age=86400"
	CacheNoStore = "no-store"
)
