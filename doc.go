// Package authpipe provides a composable authentication pipeline whose core
// stage opportunistically exchanges a long-lived refresh-class credential
// carried in a cookie for a short-lived access-class token, installing the
// result on the per-request context.
//
// The package is designed for concurrent server workloads: a [Pipeline] and
// its stages are safe to share across goroutines after construction; every
// invocation operates on one request's private [Request] state.
//
// # Architecture boundaries
//
// authpipe is the public surface. It exposes [Pipeline], [Request],
// [CookieExchange], the collaborator interfaces ([TokenExchanger],
// [ErrorHandler], [SessionWriter]), and value types (Claims, Outcome,
// MetricsSnapshot). Concrete collaborators live in sub-packages: jwt/
// implements token exchange, session/ implements Redis-backed session
// persistence, middleware/ adapts net/http.
//
// # What this package must NOT do
//
//   - Parse, sign, or verify tokens itself (delegates to [TokenExchanger]).
//   - Perform network or storage I/O outside the injected collaborators.
//   - Create sessions or cookies; it only writes into a session that an
//     upstream stage already started.
package authpipe
