package authpipe

import "time"

type callOptions struct {
	slot string
	from string
	to   string
	ttl  time.Duration
}

// Option overrides one exchange parameter for a single [CookieExchange.Run]
// call. Construction-time configuration supplies the defaults.
type Option func(*callOptions)

// WithKey overrides the slot the exchanged token is resolved into.
func WithKey(slot string) Option {
	return func(o *callOptions) {
		if slot != "" {
			o.slot = slot
		}
	}
}

// WithExchangeFrom overrides the token type presented for exchange.
func WithExchangeFrom(tokenType string) Option {
	return func(o *callOptions) {
		if tokenType != "" {
			o.from = tokenType
		}
	}
}

// WithExchangeTo overrides the token type requested from the exchange.
func WithExchangeTo(tokenType string) Option {
	return func(o *callOptions) {
		if tokenType != "" {
			o.to = tokenType
		}
	}
}

// WithTTL overrides the lifetime requested for the issued token. It is a
// pass-through parameter for the exchanger, not a deadline on the call.
func WithTTL(ttl time.Duration) Option {
	return func(o *callOptions) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}
