// Package session provides Redis-backed persistence for the response-bound
// session pipeline stages write exchanged tokens into.
//
// # Architecture boundaries
//
// This package owns the Redis key layout and expiry policy. It does NOT
// interpret the values it stores or decide when a write happens — the
// pipeline guards every write with its own session-active check.
//
// # What this package must NOT do
//
//   - Start or identify sessions (the transport adapter supplies the ID).
//   - Import any authpipe sub-package.
//   - Store anything beyond the caller-supplied string fields.
package session
