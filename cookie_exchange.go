package authpipe

import (
	"context"
	"time"

	internalaudit "github.com/authpipe/authpipe/internal/audit"
)

// ExchangeFromDefault is the token type presented for exchange unless
// overridden: the long-lived refresh-class credential.
const ExchangeFromDefault = "refresh"

// AuthErrorTypeInvalidToken is the classification every exchange failure is
// reported under.
const AuthErrorTypeInvalidToken = "invalid_token"

// Outcome tags the terminal state of one [CookieExchange] invocation.
type Outcome uint8

const (
	// OutcomeUnchanged means no applicable condition: unfetched cookies, a
	// token already present for the slot, or no cookie found.
	OutcomeUnchanged Outcome = iota
	// OutcomeInstalled means the exchange succeeded and the new token and
	// claims were installed under the slot.
	OutcomeInstalled
	// OutcomeHalted means the exchange failed, the error handler ran, and
	// the request was halted.
	OutcomeHalted
)

// String returns the lowercase name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeInstalled:
		return "installed"
	case OutcomeHalted:
		return "halted"
	default:
		return "unchanged"
	}
}

// CookieExchangeConfig carries the stage's dependencies, resolved once at
// pipeline setup instead of through a shared mutable lookup. Implementation
// and ErrorHandler are required; everything else has a default.
type CookieExchangeConfig struct {
	// Implementation performs the actual token exchange.
	Implementation TokenExchanger
	// ErrorHandler is invoked on exchange failure, before the request is
	// halted.
	ErrorHandler ErrorHandler
	// Key selects the slot exchanged tokens are installed under. Defaults
	// to [DefaultSlot].
	Key string
	// ExchangeFrom is the token type presented for exchange. Defaults to
	// [ExchangeFromDefault].
	ExchangeFrom string
	// ExchangeTo is the token type requested from the exchange. Defaults to
	// the implementation's declared default type.
	ExchangeTo string
	// TTL overrides the issued token's lifetime. Zero defers to the
	// implementation's configured default.
	TTL time.Duration
	// Metrics receives stage counters. Nil disables metrics.
	Metrics *Metrics
	// Audit controls the asynchronous audit dispatcher; AuditSink receives
	// the events. Audit is off unless Audit.Enabled is set.
	Audit     AuditConfig
	AuditSink AuditSink
}

// CookieExchange is the pipeline stage that upgrades a refresh-class cookie
// into an access-class token. It never fails observably: every invocation
// terminates with the request unchanged, a token installed, or the request
// halted after the error handler ran.
//
// The stage at most attempts one exchange per invocation per slot, never
// overwrites a token an earlier stage already installed, and touches the
// session store only when a session is already active.
type CookieExchange struct {
	impl    TokenExchanger
	handler ErrorHandler
	slot    string
	from    string
	to      string
	ttl     time.Duration
	metrics *Metrics
	audit   *internalaudit.Dispatcher
}

// NewCookieExchange validates cfg and builds the stage. A missing
// implementation or error handler indicates a misconfigured pipeline and is
// rejected here rather than silently passing requests through later.
func NewCookieExchange(cfg CookieExchangeConfig) (*CookieExchange, error) {
	if cfg.Implementation == nil {
		return nil, ErrNoImplementation
	}
	if cfg.ErrorHandler == nil {
		return nil, ErrNoErrorHandler
	}

	slot := cfg.Key
	if slot == "" {
		slot = DefaultSlot
	}
	from := cfg.ExchangeFrom
	if from == "" {
		from = ExchangeFromDefault
	}
	to := cfg.ExchangeTo
	if to == "" {
		to = cfg.Implementation.DefaultTokenType()
	}

	return &CookieExchange{
		impl:    cfg.Implementation,
		handler: cfg.ErrorHandler,
		slot:    slot,
		from:    from,
		to:      to,
		ttl:     cfg.TTL,
		metrics: cfg.Metrics,
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, cfg.AuditSink),
	}, nil
}

// Name implements [Stage].
func (s *CookieExchange) Name() string { return "cookie_exchange" }

// Process implements [Stage] using the configuration resolved at
// construction. Use [CookieExchange.Run] for per-call overrides or to
// observe the outcome.
func (s *CookieExchange) Process(ctx context.Context, req *Request) *Request {
	out, _ := s.Run(ctx, req)
	return out
}

// Run executes the exchange decision procedure as an explicit ordered
// sequence of guards and returns the request together with its tagged
// outcome.
func (s *CookieExchange) Run(ctx context.Context, req *Request, opts ...Option) (*Request, Outcome) {
	if req == nil {
		req = NewRequest()
	}

	o := callOptions{slot: s.slot, from: s.from, to: s.to, ttl: s.ttl}
	for _, opt := range opts {
		opt(&o)
	}

	// Guard 1: cookies not parsed yet. Fetching them is an upstream
	// responsibility.
	cookies, fetched := req.Cookies()
	if !fetched {
		s.metrics.Inc(MetricSkipUnfetched)
		return req, OutcomeUnchanged
	}

	// Guard 2: a token already resolved upstream wins over re-exchange.
	if _, present := req.CurrentToken(o.slot); present {
		s.metrics.Inc(MetricSkipPresent)
		return req, OutcomeUnchanged
	}

	// Guard 3: no credential for the derived key is a normal, non-error
	// outcome (anonymous request).
	key := TokenKey(o.slot)
	raw, found := lookupToken(cookies, key)
	if !found {
		s.metrics.Inc(MetricCookieMissing)
		return req, OutcomeUnchanged
	}

	// Session activity is decided before the exchange call runs.
	sessionActive := req.SessionActive()

	result, err := s.impl.Exchange(ctx, raw, o.from, o.to, ExchangeOptions{TTL: o.ttl})
	if err == nil && (result == nil || result.NewToken == "") {
		// A nil result or empty token violates the exchanger contract.
		// Classify it as an invalid-token failure instead of passing the
		// request through with a credential nobody verified.
		err = ErrMalformedExchange
	}
	if err != nil {
		s.metrics.Inc(MetricExchangeFailure)
		s.emit(ctx, AuditEvent{
			EventType: "exchange_failure",
			Slot:      o.slot,
			TokenType: o.to,
			Error:     err.Error(),
		})

		authErr := &AuthError{Type: AuthErrorTypeInvalidToken, Reason: err}
		req.setAuthError(authErr)
		handled := s.handler.HandleAuthError(ctx, req, authErr)
		if handled == nil {
			handled = req
		}
		return handled.Halt(), OutcomeHalted
	}

	req.PutCurrentToken(result.NewToken, o.slot)
	req.PutCurrentClaims(result.NewClaims, o.slot)
	s.metrics.Inc(MetricExchangeSuccess)
	s.emit(ctx, AuditEvent{
		EventType: "exchange_success",
		Slot:      o.slot,
		TokenType: o.to,
		Subject:   result.NewClaims.Subject(),
		Success:   true,
	})

	if sessionActive {
		if err := req.PutSession(ctx, key, result.NewToken); err != nil {
			// The token install stands; losing the session copy only costs
			// a re-exchange on the next request.
			s.metrics.Inc(MetricSessionWriteFailure)
			s.emit(ctx, AuditEvent{
				EventType: "session_write_failure",
				Slot:      o.slot,
				TokenType: o.to,
				Subject:   result.NewClaims.Subject(),
				Error:     err.Error(),
			})
		} else {
			s.metrics.Inc(MetricSessionWrite)
		}
	}

	return req, OutcomeInstalled
}

func (s *CookieExchange) emit(ctx context.Context, event AuditEvent) {
	if s.audit == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	s.audit.Emit(ctx, event)
}

// MetricsSnapshot returns a point-in-time copy of the stage counters.
func (s *CookieExchange) MetricsSnapshot() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// AuditDropped reports audit events discarded under backpressure.
func (s *CookieExchange) AuditDropped() uint64 {
	return s.audit.Dropped()
}

// Close drains and stops the audit dispatcher. The stage must not be used
// after Close.
func (s *CookieExchange) Close() {
	s.audit.Close()
}
