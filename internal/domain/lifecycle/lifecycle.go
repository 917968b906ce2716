// Package lifecycle holds limits shared by startup and shutdown hooks.
package lifecycle

import "time"

// DefaultTimeout bounds a single start or stop hook, e.g. the DB ping or HTTP shutdown.
const DefaultTimeout = 10 * time.Second
