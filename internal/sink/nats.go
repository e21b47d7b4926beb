package sink

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// NATSSink publishes events as JSON payloads on a NATS subject.
type NATSSink struct {
	nc      *nats.Conn
	subject string
}

// NewNATS connects to the NATS server at url and returns a sink publishing
// on subject. The connection retries forever in the background, so a broker
// outage delays delivery rather than failing pollers.
func NewNATS(url, subject string) (*NATSSink, error) {
	nc, err := nats.Connect(url,
		nats.Name("jmxwatch"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("sink: connect nats %s: %w", url, err)
	}
	return &NATSSink{nc: nc, subject: subject}, nil
}

// Emit publishes ev on the configured subject. Publish failures are logged
// and the event dropped; delivery success is not this agent's concern.
func (s *NATSSink) Emit(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("sink: encode failed", "metric_path", ev.MetricPath, "err", err)
		return
	}
	if err := s.nc.Publish(s.subject, payload); err != nil {
		slog.Warn("sink: publish failed", "subject", s.subject, "metric_path", ev.MetricPath, "err", err)
	}
}

// Close flushes pending publishes and closes the connection.
func (s *NATSSink) Close() {
	if err := s.nc.Flush(); err != nil {
		slog.Warn("sink: flush failed", "err", err)
	}
	s.nc.Close()
}
