// Package jmx defines the management-client capability the pollers consume
// and its Jolokia implementation.
//
// The boundary is three small interfaces: Client connects to a target,
// Conn resolves object-name patterns to Objects, and Object exposes
// Identifier / AttributeNames / Read. Pollers depend only on these, so tests
// substitute in-memory fakes and alternative protocols can slot in without
// touching the poll loop.
//
// JolokiaClient talks JSON over HTTP to a Jolokia agent at
// http://<host>:<port>/jolokia (or the target's url override), mapping
// Find → search, AttributeNames → list, Read → read. Optional basic-auth
// credentials ride on every request via a wrapping RoundTripper, and each
// request carries a 10s client timeout.
package jmx
