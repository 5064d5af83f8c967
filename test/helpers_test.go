//go:build integration
// +build integration

package test

import (
	"testing"
	"time"

	authjwt "github.com/authpipe/authpipe/jwt"
	"github.com/authpipe/authpipe/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newIntegrationStore(t *testing.T) (*session.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return session.NewStore(rdb, "ap", time.Hour), mr
}

func newIntegrationExchanger(t *testing.T) *authjwt.Exchanger {
	t.Helper()

	exchanger, err := authjwt.NewExchanger(authjwt.Config{
		SigningMethod: authjwt.MethodHS256,
		PrivateKey:    []byte("integration-secret-32-bytes-min!"),
		Issuer:        "authpipe-integration",
		TokenTTLs: map[string]time.Duration{
			"access":  15 * time.Minute,
			"refresh": 720 * time.Hour,
		},
	})
	if err != nil {
		t.Fatalf("NewExchanger failed: %v", err)
	}
	return exchanger
}
