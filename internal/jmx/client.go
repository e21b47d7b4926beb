package jmx

import (
	"context"

	"github.com/jmxwatch/jmxwatch/internal/config"
)

// Client establishes management connections to JVM targets.
type Client interface {
	Connect(ctx context.Context, t config.Target) (Conn, error)
}

// Conn is one live management connection. A Conn belongs to exactly one
// poller and is never shared across goroutines.
type Conn interface {
	// Find returns the managed objects whose name matches pattern.
	// No match is an empty slice, not an error.
	Find(ctx context.Context, pattern string) ([]Object, error)

	Close() error
}

// Object is a handle on one managed object resolved from a name pattern.
type Object interface {
	// Identifier returns the canonical object name, "domain:key=value,...".
	Identifier() string

	// AttributeNames returns the names of every readable attribute the
	// object exposes.
	AttributeNames(ctx context.Context) ([]string, error)

	// Read retrieves one attribute's value. Numbers come back as float64,
	// composite values as map[string]any.
	Read(ctx context.Context, attribute string) (any, error)
}
