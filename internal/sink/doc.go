// Package sink defines the normalized metric event shape and the sinks that
// deliver it downstream.
//
// Event carries host, the watched configuration directory (path), a type
// label, the dot-delimited metric_path, and exactly one of
// metric_value_number / metric_value_string.
//
// Implementations: WriterSink (JSON lines to an io.Writer, the stdout
// default) and NATSSink (JSON publish on a NATS subject). Both swallow
// delivery errors with a warning — emitting is fire-and-forget from the
// pollers' point of view.
package sink
