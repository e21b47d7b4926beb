package poller

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/jmxwatch/jmxwatch/internal/config"
	"github.com/jmxwatch/jmxwatch/internal/jmx"
	"github.com/jmxwatch/jmxwatch/internal/sink"
)

// Options carries the agent-level settings shared by every poller.
type Options struct {
	// Interval is the pause between poll cycles.
	Interval time.Duration

	// ConfDir is echoed as the "path" field on every event.
	ConfDir string

	// TypeLabel is the "type" field on every event.
	TypeLabel string
}

// Poller owns one target's lifecycle: connect, poll until the context is
// cancelled, disconnect. Every failure below the connection level is scoped
// to a single query, object or attribute and never ends the loop.
type Poller struct {
	file   string
	target config.Target
	client jmx.Client
	out    sink.Sink
	opts   Options
}

// New returns a poller for the target parsed from file (a basename, used in
// log lines to tie output back to the directory entry).
func New(file string, target config.Target, client jmx.Client, out sink.Sink, opts Options) *Poller {
	return &Poller{file: file, target: target, client: client, out: out, opts: opts}
}

// Run connects and polls until ctx is cancelled, then closes the connection.
// A connect failure logs and returns without polling; anything unexpected
// escaping a cycle is recovered here so no poller can take down a sibling.
func (p *Poller) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("poller: unexpected failure", "file", p.file, "panic", r)
		}
	}()

	conn, err := p.client.Connect(ctx, p.target)
	if err != nil || conn == nil {
		slog.Error("poller: connect failed",
			"file", p.file, "host", p.target.Host, "port", p.target.Port, "err", err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Warn("poller: close failed", "file", p.file, "err", err)
		}
	}()

	slog.Info("poller: connected", "file", p.file, "host", p.target.Host, "port", p.target.Port)

	// A poller can be handed an already-cancelled context (file added
	// mid-shutdown), so the stop check comes before each cycle, not after.
	for ctx.Err() == nil {
		p.cycle(ctx, conn)
		select {
		case <-ctx.Done():
		case <-time.After(p.opts.Interval):
		}
	}
	slog.Info("poller: stopping", "file", p.file)
}

// cycle runs the queries once, in declared order.
func (p *Poller) cycle(ctx context.Context, conn jmx.Conn) {
	base := p.target.BasePath()
	for _, q := range p.target.Queries {
		objects, err := conn.Find(ctx, q.ObjectName)
		if err != nil {
			slog.Warn("poller: object search failed",
				"file", p.file, "pattern", q.ObjectName, "err", err)
			continue
		}
		if len(objects) == 0 {
			slog.Warn("poller: no objects match",
				"file", p.file, "pattern", q.ObjectName)
			continue
		}
		for _, obj := range objects {
			p.collectObject(ctx, base, q, obj)
		}
	}
}

// collectObject reads one matched object's attributes and emits samples.
// A failed alias resolution skips the whole object; a failed read skips
// only that attribute.
func (p *Poller) collectObject(ctx context.Context, base string, q config.Query, obj jmx.Object) {
	display := obj.Identifier()
	if q.ObjectAlias != "" {
		resolved, err := resolveAlias(q.ObjectAlias, obj.Identifier())
		if err != nil {
			slog.Warn("poller: alias resolution failed",
				"file", p.file, "object", obj.Identifier(), "err", err)
			return
		}
		display = resolved
	}

	attributes := q.Attributes
	if len(attributes) == 0 {
		names, err := obj.AttributeNames(ctx)
		if err != nil {
			slog.Warn("poller: attribute listing failed",
				"file", p.file, "object", obj.Identifier(), "err", err)
			return
		}
		attributes = names
	}

	for _, attr := range attributes {
		value, err := obj.Read(ctx, attr)
		if err != nil {
			slog.Warn("poller: attribute read failed",
				"file", p.file, "object", obj.Identifier(), "attribute", attr, "err", err)
			continue
		}

		path := base + "." + display + "." + attr
		if fields, ok := value.(map[string]any); ok {
			// Composite value: one sample per inner field, keys sorted so a
			// given configuration always emits in the same order.
			keys := make([]string, 0, len(fields))
			for k := range fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				p.emit(classify(path+"."+k, fields[k]))
			}
			continue
		}
		p.emit(classify(path, value))
	}
}

func (p *Poller) emit(s sample) {
	ev := sink.Event{
		Host:       p.target.Host,
		Path:       p.opts.ConfDir,
		Type:       p.opts.TypeLabel,
		MetricPath: s.path,
	}
	if s.isNumber {
		n := s.number
		ev.Number = &n
	} else {
		t := s.text
		ev.String = &t
	}
	p.out.Emit(ev)
}
