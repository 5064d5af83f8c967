package authpipe

import (
	"context"
	"errors"
	"testing"
)

func TestCookiesSentinelVsEmpty(t *testing.T) {
	req := NewRequest()

	if _, fetched := req.Cookies(); fetched {
		t.Fatalf("fresh request must report unfetched cookies")
	}
	if _, ok := req.Cookie("any"); ok {
		t.Fatalf("unfetched cookie lookup must report absent")
	}

	req.PutCookies(nil)
	if _, fetched := req.Cookies(); !fetched {
		t.Fatalf("fetched-empty must be distinct from the sentinel")
	}
}

func TestPutCookiesCopiesInput(t *testing.T) {
	source := map[string]string{"a": "1"}
	req := NewRequest()
	req.PutCookies(source)

	source["a"] = "mutated"
	if value, _ := req.Cookie("a"); value != "1" {
		t.Fatalf("request cookies must be detached from the caller's map, got %q", value)
	}
}

func TestSlotIsolation(t *testing.T) {
	req := NewRequest()
	req.PutCurrentToken("user-token", "user")
	req.PutCurrentClaims(Claims{"sub": "u1"}, "user")
	req.PutCurrentToken("admin-token", "admin")

	if token, _ := req.CurrentToken("user"); token != "user-token" {
		t.Fatalf("user slot corrupted: %q", token)
	}
	if token, _ := req.CurrentToken("admin"); token != "admin-token" {
		t.Fatalf("admin slot corrupted: %q", token)
	}
	if _, ok := req.CurrentClaims("admin"); ok {
		t.Fatalf("admin slot must have no claims")
	}
}

func TestSessionActiveStates(t *testing.T) {
	req := NewRequest()
	if req.SessionActive() {
		t.Fatalf("no session middleware means inactive")
	}

	req.AttachSession(NewSession("", &spySessionStore{}))
	if req.SessionActive() {
		t.Fatalf("configured-but-empty session means inactive")
	}

	req.AttachSession(NewSession("sid", &spySessionStore{}))
	if !req.SessionActive() {
		t.Fatalf("initialized session means active")
	}
}

func TestPutSessionWithoutActiveSession(t *testing.T) {
	req := NewRequest()
	err := req.PutSession(context.Background(), "k", "v")
	if !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("expected ErrSessionNotActive, got %v", err)
	}
}

func TestHaltAndResponse(t *testing.T) {
	req := NewRequest()
	if req.Halted() {
		t.Fatalf("fresh request must not be halted")
	}

	req.Respond(401, "unauthorized").Halt()
	if !req.Halted() {
		t.Fatalf("Halt must mark the request")
	}
	if status, body := req.Response(); status != 401 || body != "unauthorized" {
		t.Fatalf("recorded response lost: %d %q", status, body)
	}
}
