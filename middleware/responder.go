package middleware

import (
	"context"
	"net/http"

	"github.com/authpipe/authpipe"
)

// Unauthorized is the default [authpipe.ErrorHandler] for HTTP pipelines.
// It records a 401 response on the request; [Handler] flushes it once the
// pipeline halts.
type Unauthorized struct{}

// HandleAuthError implements [authpipe.ErrorHandler].
func (Unauthorized) HandleAuthError(_ context.Context, req *authpipe.Request, _ *authpipe.AuthError) *authpipe.Request {
	return req.Respond(http.StatusUnauthorized, "unauthorized")
}
