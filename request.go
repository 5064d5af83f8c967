package authpipe

import "context"

// DefaultSlot is the slot used when no per-stage or per-call key override is
// supplied. Slots allow multiple simultaneous authentication contexts on one
// request ("user" vs "admin").
const DefaultSlot = "default"

type tokenPair struct {
	token  string
	claims Claims
}

// Request is the mutable per-request state shared by all pipeline stages.
// It is owned by exactly one pipeline execution for the lifetime of one
// inbound request and must not be shared across goroutines.
//
// The cookie set starts in an unfetched sentinel state, distinct from an
// empty set. Stages that need cookies must treat the sentinel as "not my
// job": parsing cookies is an upstream responsibility.
type Request struct {
	cookies        map[string]string
	cookiesFetched bool

	slots   map[string]tokenPair
	session *Session

	halted bool

	authErr        *AuthError
	responseStatus int
	responseBody   string
}

// NewRequest creates an empty request with unfetched cookies, no slots, and
// no session.
func NewRequest() *Request {
	return &Request{
		slots: make(map[string]tokenPair),
	}
}

// PutCookies installs the parsed cookie set and clears the unfetched
// sentinel. A nil map is valid and means "fetched, empty".
func (r *Request) PutCookies(cookies map[string]string) *Request {
	copied := make(map[string]string, len(cookies))
	for k, v := range cookies {
		copied[k] = v
	}
	r.cookies = copied
	r.cookiesFetched = true
	return r
}

// Cookies returns the parsed cookie set. fetched is false while the set is
// still in the unfetched sentinel state, in which case the map is nil.
func (r *Request) Cookies() (cookies map[string]string, fetched bool) {
	if !r.cookiesFetched {
		return nil, false
	}
	return r.cookies, true
}

// Cookie looks up a single cookie value. It reports false both for a
// missing cookie and for the unfetched sentinel.
func (r *Request) Cookie(name string) (string, bool) {
	if !r.cookiesFetched {
		return "", false
	}
	value, ok := r.cookies[name]
	return value, ok
}

// CurrentToken returns the token already resolved for slot by an earlier
// stage, if any.
func (r *Request) CurrentToken(slot string) (string, bool) {
	pair, ok := r.slots[slot]
	if !ok || pair.token == "" {
		return "", false
	}
	return pair.token, true
}

// CurrentClaims returns the claims already resolved for slot, if any.
func (r *Request) CurrentClaims(slot string) (Claims, bool) {
	pair, ok := r.slots[slot]
	if !ok || pair.claims == nil {
		return nil, false
	}
	return pair.claims, true
}

// PutCurrentToken records token under slot.
func (r *Request) PutCurrentToken(token, slot string) *Request {
	pair := r.slots[slot]
	pair.token = token
	r.slots[slot] = pair
	return r
}

// PutCurrentClaims records claims under slot.
func (r *Request) PutCurrentClaims(claims Claims, slot string) *Request {
	pair := r.slots[slot]
	pair.claims = claims
	r.slots[slot] = pair
	return r
}

// AttachSession binds an already-started session to the request. Stages
// never start sessions themselves; a request without an attached session
// simply skips all session writes.
func (r *Request) AttachSession(sess *Session) *Request {
	r.session = sess
	return r
}

// SessionActive reports whether a session mechanism is configured and
// initialized for this request. It is false both when no session middleware
// ran and when one ran but did not start a session.
func (r *Request) SessionActive() bool {
	return r.session != nil && r.session.id != "" && r.session.store != nil
}

// PutSession writes key=value into the attached session store. It returns
// [ErrSessionNotActive] when no initialized session is attached.
func (r *Request) PutSession(ctx context.Context, key, value string) error {
	if !r.SessionActive() {
		return ErrSessionNotActive
	}
	return r.session.store.Put(ctx, r.session.id, key, value)
}

// Halt marks the request so that downstream pipeline stages must not run.
func (r *Request) Halt() *Request {
	r.halted = true
	return r
}

// Halted reports whether a stage stopped the pipeline for this request.
func (r *Request) Halted() bool { return r.halted }

// Respond records the response an [ErrorHandler] wants the transport
// adapter to write. Stages themselves never produce user-visible output.
func (r *Request) Respond(status int, body string) *Request {
	r.responseStatus = status
	r.responseBody = body
	return r
}

// Response returns the status and body recorded by an error handler. status
// is zero when no handler responded.
func (r *Request) Response() (status int, body string) {
	return r.responseStatus, r.responseBody
}

// AuthError returns the failure recorded on this request, if any.
func (r *Request) AuthError() *AuthError { return r.authErr }

func (r *Request) setAuthError(authErr *AuthError) {
	r.authErr = authErr
}

// Session is a handle to an initialized, response-bound session: an ID plus
// the store that persists it.
type Session struct {
	id    string
	store SessionWriter
}

// NewSession creates a session handle for id backed by store.
func NewSession(id string, store SessionWriter) *Session {
	return &Session{id: id, store: store}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }
