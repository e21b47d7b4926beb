package agent

import (
	"context"
	"log/slog"

	"github.com/jmxwatch/jmxwatch/internal/config"
	"github.com/jmxwatch/jmxwatch/internal/jmx"
	"github.com/jmxwatch/jmxwatch/internal/poller"
	"github.com/jmxwatch/jmxwatch/internal/reconcile"
	"github.com/jmxwatch/jmxwatch/internal/sink"
)

// Agent is the supervisor: it owns the reconciler and the registry of
// running pollers for one watched directory.
type Agent struct {
	cfg    *config.Config
	client jmx.Client
	out    sink.Sink
}

// New returns an Agent polling through client and emitting to out.
func New(cfg *config.Config, client jmx.Client, out sink.Sink) *Agent {
	return &Agent{cfg: cfg, client: client, out: out}
}

// Run starts the directory watcher and the initial scan as independent
// goroutines, then blocks until ctx is cancelled. Teardown is deferred so it
// runs no matter how the wait ends: the watcher is stopped and joined first
// (no new pollers can start), then every tracked poller is cancelled and
// joined. Nothing is leaked.
func (a *Agent) Run(ctx context.Context) {
	registry := reconcile.NewRegistry()
	rec := reconcile.New(a.cfg.ConfDir, registry, a.client, a.out, poller.Options{
		Interval:  a.cfg.Interval.Std(),
		ConfDir:   a.cfg.ConfDir,
		TypeLabel: a.cfg.TypeLabel,
	})

	watchCtx, stopWatch := context.WithCancel(ctx)
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		if err := rec.Watch(watchCtx); err != nil {
			slog.Error("agent: directory watcher stopped", "err", err)
		}
	}()

	scanDone := make(chan struct{})
	go func() {
		defer close(scanDone)
		if err := rec.Scan(ctx); err != nil {
			slog.Error("agent: initial scan failed", "err", err)
		}
	}()

	defer func() {
		stopWatch()
		<-watchDone
		<-scanDone
		registry.StopAll()
		slog.Info("agent: all pollers stopped")
	}()

	<-ctx.Done()
	slog.Info("agent: shutting down")
}
