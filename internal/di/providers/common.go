package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// gcInterval is how often the session store reclaims value log space.
	gcInterval = time.Hour

	// gcDiscardRatio is the share of stale data a value log file needs before it is rewritten.
	gcDiscardRatio = 0.5
)
