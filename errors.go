package authpipe

import "errors"

var (
	// ErrNoImplementation is returned by [NewCookieExchange] when no token
	// exchanger was configured. A missing implementation is a pipeline setup
	// error, never a recoverable per-request condition.
	ErrNoImplementation = errors.New("no token exchanger configured")
	// ErrNoErrorHandler is returned by [NewCookieExchange] when no error
	// handler was configured.
	ErrNoErrorHandler = errors.New("no error handler configured")
	// ErrInvalidToken classifies any exchange failure handed to the
	// configured [ErrorHandler].
	ErrInvalidToken = errors.New("invalid token")
	// ErrMalformedExchange is reported when a [TokenExchanger] returns a nil
	// result without an error. It is treated as an invalid-token failure
	// rather than a silent pass-through.
	ErrMalformedExchange = errors.New("malformed exchange result")
	// ErrSessionNotActive is returned by [Request.PutSession] when no
	// initialized session is attached to the request.
	ErrSessionNotActive = errors.New("session not active")
	// ErrSessionKeyNotFound is returned by session stores when the requested
	// field does not exist.
	ErrSessionKeyNotFound = errors.New("session key not found")
)
