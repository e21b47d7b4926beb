// Package reconcile keeps running pollers in step with a directory of
// target files.
//
// Registry is the synchronized filename → (cancel, done) map shared between
// the watcher goroutine, which mutates it on filesystem events, and the
// supervisor, which drains it at shutdown via StopAll.
//
// Reconciler.Scan starts a poller per valid *.yml/*.yaml file at startup;
// Reconciler.Watch then maps fsnotify events onto the same start/stop
// operations — create/write replaces the file's poller with one built from
// the fresh content, remove/rename stops it and waits for the goroutine to
// exit before dropping the entry. Files that fail validation are logged and
// skipped; they get another chance on their next write event.
package reconcile
