package middleware

import (
	"context"
	"net/http"

	"github.com/authpipe/authpipe"
)

type tokenContextKey struct{}
type claimsContextKey struct{}

// TokenFromContext returns the access token a pipeline installed for the
// request, if any.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey{}).(string)
	return token, ok
}

// ClaimsFromContext returns the decoded claims a pipeline installed for the
// request, if any.
func ClaimsFromContext(ctx context.Context) (authpipe.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(authpipe.Claims)
	return claims, ok
}

// Config wires a pipeline into net/http.
type Config struct {
	// Pipeline runs against every inbound request.
	Pipeline *authpipe.Pipeline
	// Slot whose installed token and claims are injected into the request
	// context for downstream handlers. Defaults to [authpipe.DefaultSlot].
	Slot string
	// SessionCookie names the cookie carrying the session ID. When set and
	// present on the request, an initialized session handle backed by
	// Sessions is attached before the pipeline runs.
	SessionCookie string
	// Sessions persists session writes. Nil leaves requests sessionless.
	Sessions authpipe.SessionWriter
}

// Handler adapts a pipeline to standard http middleware. It parses the
// inbound cookies into the pipeline request, optionally attaches an active
// session, runs the pipeline, and either flushes the response an error
// handler recorded (halted request) or injects the installed token and
// claims into the request context and calls next.
func Handler(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Pipeline == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			slot := cfg.Slot
			if slot == "" {
				slot = authpipe.DefaultSlot
			}

			req := authpipe.NewRequest()
			req.PutCookies(cookieMap(r))
			if cfg.Sessions != nil && cfg.SessionCookie != "" {
				if c, err := r.Cookie(cfg.SessionCookie); err == nil && c.Value != "" {
					req.AttachSession(authpipe.NewSession(c.Value, cfg.Sessions))
				}
			}

			out := cfg.Pipeline.Run(r.Context(), req)
			if out.Halted() {
				status, body := out.Response()
				if status == 0 {
					status, body = http.StatusUnauthorized, "unauthorized"
				}
				http.Error(w, body, status)
				return
			}

			ctx := r.Context()
			if token, ok := out.CurrentToken(slot); ok {
				ctx = context.WithValue(ctx, tokenContextKey{}, token)
			}
			if claims, ok := out.CurrentClaims(slot); ok {
				ctx = context.WithValue(ctx, claimsContextKey{}, claims)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func cookieMap(r *http.Request) map[string]string {
	cookies := r.Cookies()
	out := make(map[string]string, len(cookies))
	for _, c := range cookies {
		out[c.Name] = c.Value
	}
	return out
}
