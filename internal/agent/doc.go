// Package agent is the top-level run loop. Run wires the reconciler and
// poller registry together, waits for the process stop signal, and tears
// everything down in order: watcher first, then every poller, joining each
// before returning.
package agent
