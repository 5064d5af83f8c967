package jwt

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/authpipe/authpipe"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SigningMethod selects the signature algorithm for issued tokens.
type SigningMethod string

const (
	// MethodEd25519 signs with EdDSA over Curve25519 (default).
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 signs with HMAC-SHA256 using a shared secret.
	MethodHS256 SigningMethod = "hs256"
)

var (
	// ErrTokenTypeMismatch is returned when the presented token's "typ"
	// claim does not match the requested exchange source type.
	ErrTokenTypeMismatch = errors.New("token type mismatch")
	// ErrMissingSubject is returned when the presented token carries no
	// "sub" claim to re-issue for.
	ErrMissingSubject = errors.New("token missing subject")
	// ErrUnknownTokenType is returned by Mint and Exchange for a target
	// type with no configured TTL and no default.
	ErrUnknownTokenType = errors.New("unknown token type")
)

// Registered claims that describe the old token's lifetime and identity.
// They are re-derived for the issued token, never copied.
var reservedClaims = map[string]struct{}{
	"exp": {}, "iat": {}, "nbf": {}, "jti": {}, "typ": {}, "iss": {}, "aud": {},
}

// Config for an [Exchanger].
type Config struct {
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	Leeway        time.Duration

	// DefaultType is the token type minted when the exchange target is not
	// overridden. "access" when empty.
	DefaultType string
	// TokenTTLs maps a token type to its issue lifetime. Types absent from
	// the map fall back to DefaultTTL.
	TokenTTLs map[string]time.Duration
	// DefaultTTL is the fallback issue lifetime. 15 minutes when zero.
	DefaultTTL time.Duration
}

// Exchanger verifies a presented token and mints a replacement of another
// type for the same subject, preserving custom claims. It implements
// [authpipe.TokenExchanger].
type Exchanger struct {
	config Config
}

// NewExchanger validates cfg and builds an [Exchanger].
func NewExchanger(cfg Config) (*Exchanger, error) {
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.DefaultType == "" {
		cfg.DefaultType = "access"
	}
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = 15 * time.Minute
	}
	if cfg.DefaultTTL < 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	for tokenType, ttl := range cfg.TokenTTLs {
		if tokenType == "" || ttl <= 0 {
			return nil, fmt.Errorf("invalid TTL for token type %q", tokenType)
		}
	}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
	case MethodEd25519:
		if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
			return nil, err
		}
		if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Exchanger{config: cfg}, nil
}

// DefaultTokenType implements [authpipe.TokenExchanger].
func (e *Exchanger) DefaultTokenType() string {
	return e.config.DefaultType
}

// Exchange verifies token as a fromType credential and issues a fresh
// toType token for the same subject. Custom claims carry over; lifetime and
// identity claims are re-derived. opts.TTL overrides the configured issue
// lifetime for toType.
func (e *Exchanger) Exchange(ctx context.Context, token, fromType, toType string, opts authpipe.ExchangeOptions) (*authpipe.ExchangeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	oldClaims, err := e.parse(token)
	if err != nil {
		return nil, err
	}
	if oldClaims.TokenType() != fromType {
		return nil, fmt.Errorf("%w: have %q, want %q", ErrTokenTypeMismatch, oldClaims.TokenType(), fromType)
	}
	subject := oldClaims.Subject()
	if subject == "" {
		return nil, ErrMissingSubject
	}

	custom := make(authpipe.Claims)
	for name, value := range oldClaims {
		if _, reserved := reservedClaims[name]; reserved {
			continue
		}
		custom[name] = value
	}

	newToken, newClaims, err := e.mint(toType, custom, opts.TTL)
	if err != nil {
		return nil, err
	}

	return &authpipe.ExchangeResult{
		OldToken:  token,
		OldClaims: oldClaims,
		NewToken:  newToken,
		NewClaims: newClaims,
	}, nil
}

// Mint issues a token of tokenType carrying the given custom claims.
// Callers supply at least a "sub" claim; lifetime and identity claims are
// filled in from config. It exists so integrations can issue the initial
// refresh-class credential with the same key material the exchange
// verifies against.
func (e *Exchanger) Mint(subject, tokenType string, custom authpipe.Claims) (string, error) {
	claims := make(authpipe.Claims, len(custom)+1)
	for name, value := range custom {
		claims[name] = value
	}
	claims["sub"] = subject

	token, _, err := e.mint(tokenType, claims, 0)
	return token, err
}

func (e *Exchanger) mint(tokenType string, custom authpipe.Claims, ttl time.Duration) (string, authpipe.Claims, error) {
	if tokenType == "" {
		return "", nil, ErrUnknownTokenType
	}
	if ttl <= 0 {
		ttl = e.config.TokenTTLs[tokenType]
	}
	if ttl <= 0 {
		ttl = e.config.DefaultTTL
	}

	now := time.Now()
	claims := jwt.MapClaims{}
	for name, value := range custom {
		if _, reserved := reservedClaims[name]; reserved {
			continue
		}
		claims[name] = value
	}
	claims["typ"] = tokenType
	claims["jti"] = uuid.NewString()
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(ttl))
	if e.config.Issuer != "" {
		claims["iss"] = e.config.Issuer
	}
	if e.config.Audience != "" {
		claims["aud"] = e.config.Audience
	}

	token := jwt.NewWithClaims(e.signingMethod(), claims)
	signKey, err := e.signKey()
	if err != nil {
		return "", nil, err
	}
	signed, err := token.SignedString(signKey)
	if err != nil {
		return "", nil, err
	}

	return signed, authpipe.Claims(claims), nil
}

func (e *Exchanger) parse(tokenStr string) (authpipe.Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{e.signingMethod().Alg()}),
		jwt.WithExpirationRequired(),
	}
	if e.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(e.config.Leeway))
	}
	if e.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(e.config.Issuer))
	}
	if e.config.Audience != "" {
		options = append(options, jwt.WithAudience(e.config.Audience))
	}

	parser := jwt.NewParser(options...)
	claims := jwt.MapClaims{}
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != e.signingMethod().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return e.verifyKey()
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return authpipe.Claims(claims), nil
}

func (e *Exchanger) signingMethod() jwt.SigningMethod {
	switch e.config.SigningMethod {
	case MethodHS256:
		return jwt.SigningMethodHS256
	default:
		return jwt.SigningMethodEdDSA
	}
}

func (e *Exchanger) signKey() (interface{}, error) {
	switch e.config.SigningMethod {
	case MethodHS256:
		return e.config.PrivateKey, nil
	default:
		return parseEdPrivateKey(e.config.PrivateKey)
	}
}

func (e *Exchanger) verifyKey() (interface{}, error) {
	switch e.config.SigningMethod {
	case MethodHS256:
		return e.config.PrivateKey, nil
	default:
		return parseEdPublicKey(e.config.PublicKey)
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
