package authpipe

import (
	"context"
	"fmt"
	"io"
	"time"

	internalaudit "github.com/authpipe/authpipe/internal/audit"
)

// Claims is the decoded claim set carried alongside a token. Keys follow the
// JWT registered-claim names plus whatever custom claims the exchanger
// preserves.
type Claims map[string]any

// Subject returns the "sub" claim, or "" when absent.
func (c Claims) Subject() string {
	sub, _ := c["sub"].(string)
	return sub
}

// TokenType returns the "typ" claim, or "" when absent.
func (c Claims) TokenType() string {
	typ, _ := c["typ"].(string)
	return typ
}

// ExchangeOptions are the pass-through parameters for a single exchange
// call. A zero TTL means the implementation applies its configured default.
type ExchangeOptions struct {
	TTL time.Duration
}

// ExchangeResult is the success value of [TokenExchanger.Exchange]: the
// presented (old) token and the freshly issued (new) token, each with its
// decoded claims.
type ExchangeResult struct {
	OldToken  string
	OldClaims Claims
	NewToken  string
	NewClaims Claims
}

// TokenExchanger trades a valid token of one type for a newly issued token
// of another type without re-authenticating the underlying principal. The
// cryptographic verification and signing live entirely behind this
// interface.
type TokenExchanger interface {
	Exchange(ctx context.Context, token, fromType, toType string, opts ExchangeOptions) (*ExchangeResult, error)

	// DefaultTokenType is the token type minted when the caller does not
	// override the exchange target.
	DefaultTokenType() string
}

// AuthError classifies an authentication failure handed to an
// [ErrorHandler]. Type is always "invalid_token" for exchange failures;
// Reason carries the collaborator's underlying error.
type AuthError struct {
	Type   string
	Reason error
}

func (e *AuthError) Error() string {
	if e.Reason == nil {
		return e.Type
	}
	return fmt.Sprintf("%s: %v", e.Type, e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Reason }

// ErrorHandler is the caller-supplied failure hook. It receives the request
// and the classified failure, may mutate the request (typically recording a
// response), and returns it. The invoking stage halts the returned request;
// handlers do not halt themselves.
type ErrorHandler interface {
	HandleAuthError(ctx context.Context, req *Request, authErr *AuthError) *Request
}

// ErrorHandlerFunc adapts a function to the [ErrorHandler] interface.
type ErrorHandlerFunc func(ctx context.Context, req *Request, authErr *AuthError) *Request

// HandleAuthError calls f.
func (f ErrorHandlerFunc) HandleAuthError(ctx context.Context, req *Request, authErr *AuthError) *Request {
	return f(ctx, req, authErr)
}

// SessionWriter persists a value into a response-bound session, keyed by
// string and scoped to one session ID. Implementations own durability and
// expiry; callers never learn storage details.
type SessionWriter interface {
	Put(ctx context.Context, sessionID, key, value string) error
}

// AuditEvent is a structured audit record emitted by pipeline stages.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer], one object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// AuditConfig controls the asynchronous audit dispatcher attached to a
// stage.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}
