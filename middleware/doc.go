// Package middleware adapts authpipe pipelines to net/http.
//
// # Components
//
//   - [Handler] — wraps a pipeline as standard http middleware: cookie
//     parsing, session attachment, context injection, halt flushing.
//   - [Unauthorized] — default error handler recording a 401 response.
//   - [TokenFromContext], [ClaimsFromContext] — handler-side accessors.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into pipeline requests. It does
// NOT implement authentication logic itself — all decisions are delegated
// to the pipeline stages.
//
// # What this package must NOT do
//
//   - Parse or exchange tokens directly.
//   - Touch Redis (session writes go through the injected store).
//   - Make authorization decisions beyond pass/halt from the pipeline.
package middleware
