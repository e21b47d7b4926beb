package poller

import (
	"fmt"
	"strings"
)

// sample is one classified metric value, ready to become a sink.Event.
type sample struct {
	path     string
	isNumber bool
	number   float64
	text     string
}

// classify decides a raw value's wire representation: numbers pass through,
// booleans become 1/0 under a "_bool"-suffixed path, everything else is
// reported as its string form. The path is sanitized before any suffix is
// appended.
func classify(path string, v any) sample {
	path = sanitizePath(path)

	if n, ok := asFloat(v); ok {
		return sample{path: path, isNumber: true, number: n}
	}
	if b, ok := v.(bool); ok {
		n := 0.0
		if b {
			n = 1.0
		}
		return sample{path: path + "_bool", isNumber: true, number: n}
	}
	return sample{path: path, text: fmt.Sprint(v)}
}

// asFloat widens any numeric type to float64. Jolokia values arrive as
// float64 already; the other cases cover values from in-memory clients.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// sanitizePath makes a metric path safe for dotted-name consumers:
// spaces become underscores and double quotes are dropped. Idempotent.
func sanitizePath(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, `"`, "")
}
