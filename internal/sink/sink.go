package sink

// Event is one normalized metric sample ready for downstream delivery.
// Exactly one of Number and String is set; the other stays nil and is
// omitted from the JSON encoding.
type Event struct {
	// Host is the monitored endpoint's hostname, copied from the target config.
	Host string `json:"host"`

	// Path echoes the watched configuration directory for traceability.
	Path string `json:"path"`

	// Type is the event type label (default "jmx").
	Type string `json:"type"`

	// MetricPath is the dot-delimited metric name.
	MetricPath string `json:"metric_path"`

	Number *float64 `json:"metric_value_number,omitempty"`
	String *string  `json:"metric_value_string,omitempty"`
}

// Sink receives metric events from pollers. Implementations must be safe
// for concurrent use; every poller goroutine writes to the same Sink.
type Sink interface {
	Emit(ev Event)
}
