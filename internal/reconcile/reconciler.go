package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/jmxwatch/jmxwatch/internal/config"
	"github.com/jmxwatch/jmxwatch/internal/jmx"
	"github.com/jmxwatch/jmxwatch/internal/poller"
	"github.com/jmxwatch/jmxwatch/internal/sink"
)

// Reconciler keeps the set of running pollers in step with the target files
// present in one directory: an initial full scan at startup, then fsnotify
// add/remove events at runtime.
type Reconciler struct {
	dir      string
	registry *Registry
	client   jmx.Client
	out      sink.Sink
	opts     poller.Options
}

// New returns a Reconciler for dir. Started pollers are tracked in registry,
// share client and out, and run with opts.
func New(dir string, registry *Registry, client jmx.Client, out sink.Sink, opts poller.Options) *Reconciler {
	return &Reconciler{dir: dir, registry: registry, client: client, out: out, opts: opts}
}

// Scan lists the directory once and starts a poller for every valid target
// file. Invalid files are logged and skipped, never fatal to the scan.
func (r *Reconciler) Scan(ctx context.Context) error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("reconcile: list %s: %w", r.dir, err)
	}
	for _, ent := range entries {
		if ent.IsDir() || !isTargetFile(ent.Name()) {
			continue
		}
		r.startTarget(ctx, ent.Name())
	}
	return nil
}

// Watch reacts to directory events until ctx is cancelled: create/write
// restarts the file's poller from the fresh content, remove/rename stops it.
func (r *Reconciler) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("reconcile: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return fmt.Errorf("reconcile: watch %s: %w", r.dir, err)
	}

	slog.Info("reconcile: watching directory", "dir", r.dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(event.Name)
			if !isTargetFile(name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				r.removeTarget(name)
			case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
				r.replaceTarget(ctx, name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("reconcile: watcher error", "err", err)
		}
	}
}

func isTargetFile(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yml" || ext == ".yaml"
}

// startTarget loads and validates one file and, on success, launches its
// poller goroutine registered under the basename.
func (r *Reconciler) startTarget(ctx context.Context, name string) {
	target, err := config.LoadTarget(filepath.Join(r.dir, name))
	if err != nil {
		slog.Warn("reconcile: skipping target file", "file", name, "err", err)
		return
	}

	pollCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p := poller.New(name, *target, r.client, r.out, r.opts)

	r.registry.Add(name, cancel, done)
	go func() {
		defer close(done)
		p.Run(pollCtx)
	}()

	slog.Info("reconcile: poller started", "file", name, "host", target.Host, "port", target.Port)
}

// removeTarget stops and unregisters the poller for name, waiting for its
// goroutine to finish before returning.
func (r *Reconciler) removeTarget(name string) {
	if r.registry.Stop(name) {
		slog.Info("reconcile: poller stopped", "file", name)
	}
}

// replaceTarget stops any poller running for name, then starts a fresh one
// from the file's current content.
func (r *Reconciler) replaceTarget(ctx context.Context, name string) {
	r.removeTarget(name)
	r.startTarget(ctx, name)
}
