//go:build integration
// +build integration

package test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/authpipe/authpipe"
	"github.com/authpipe/authpipe/middleware"
)

func TestEndToEndCookieExchange(t *testing.T) {
	exchanger := newIntegrationExchanger(t)
	store, _ := newIntegrationStore(t)

	stage, err := authpipe.NewCookieExchange(authpipe.CookieExchangeConfig{
		Implementation: exchanger,
		ErrorHandler:   middleware.Unauthorized{},
		Metrics:        authpipe.NewMetrics(true),
	})
	if err != nil {
		t.Fatalf("NewCookieExchange failed: %v", err)
	}
	pipeline := authpipe.NewPipeline(stage)

	refresh, err := exchanger.Mint("u1", "refresh", authpipe.Claims{"role": "member"})
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	var gotClaims authpipe.Claims
	handler := middleware.Handler(middleware.Config{
		Pipeline:      pipeline,
		SessionCookie: "_session_id",
		Sessions:      store,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = middleware.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "default_token", Value: refresh})
	req.AddCookie(&http.Cookie{Name: "_session_id", Value: "sid-1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotClaims.Subject() != "u1" || gotClaims.TokenType() != "access" {
		t.Fatalf("expected exchanged access claims for u1, got %v", gotClaims)
	}

	stored, err := store.Get(context.Background(), "sid-1", "default_token")
	if err != nil {
		t.Fatalf("session read failed: %v", err)
	}
	if stored == refresh || stored == "" {
		t.Fatalf("session must hold the freshly issued access token")
	}
	if snap := stage.MetricsSnapshot(); snap.Counters[authpipe.MetricSessionWrite] != 1 {
		t.Fatalf("expected one session write, got %d", snap.Counters[authpipe.MetricSessionWrite])
	}
}

func TestEndToEndExpiredRefreshHalts(t *testing.T) {
	exchanger := newIntegrationExchanger(t)

	stage, err := authpipe.NewCookieExchange(authpipe.CookieExchangeConfig{
		Implementation: exchanger,
		ErrorHandler:   middleware.Unauthorized{},
	})
	if err != nil {
		t.Fatalf("NewCookieExchange failed: %v", err)
	}

	handler := middleware.Handler(middleware.Config{
		Pipeline: authpipe.NewPipeline(stage),
	})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("protected handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "default_token", Value: "not-a-jwt"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
