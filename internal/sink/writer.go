package sink

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"
)

// WriterSink writes events as JSON lines to an io.Writer.
// This is the default sink: pointed at stdout it makes the agent usable
// standalone, piped into whatever consumes JSON lines.
type WriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter returns a WriterSink emitting to w.
func NewWriter(w io.Writer) *WriterSink {
	return &WriterSink{enc: json.NewEncoder(w)}
}

// Emit encodes ev as one JSON line. Encode failures are logged, not returned;
// a sink error must never disturb the emitting poller.
func (s *WriterSink) Emit(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(ev); err != nil {
		slog.Warn("sink: write failed", "metric_path", ev.MetricPath, "err", err)
	}
}
