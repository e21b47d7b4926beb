// Package poller runs the per-target poll loop.
//
// One Poller per target file: it connects through the jmx.Client capability,
// then repeats query → emit → interruptible sleep until its context is
// cancelled, and closes the connection on the way out. Within a cycle,
// failures are isolated at the narrowest possible scope — a query that
// matches nothing, an object whose alias template references a missing name
// property, or an attribute that fails to read each produce one warning and
// the cycle moves on.
//
// Attribute values are classified into the uniform event shape: numbers pass
// through, booleans become 1/0 under a "_bool" path suffix, composite values
// fan out into one sample per inner field, and anything else is reported as
// a string. Metric paths are built as
// <alias|host_port>.<object alias|object name>.<attribute>[.<field>] with
// spaces underscored and double quotes stripped.
package poller
