// Package config loads the agent configuration file and the per-target
// documents found in the watched directory.
//
// Two document kinds live here:
//   - Config — the agent's own settings (conf_dir, interval, type_label,
//     sink), loaded once at startup via Load with defaults applied.
//   - Target — one monitored JVM endpoint per file (host, port, optional
//     url/credentials/alias, queries []), loaded by LoadTarget each time the
//     reconciler picks a file up.
//
// Target documents are validated structurally before decoding:
// ValidateTarget walks the raw YAML mapping and reports every missing
// parameter and type mismatch as a plain string, so a broken file is skipped
// with all of its problems logged at once rather than one per reload.
package config
