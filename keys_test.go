package authpipe

import "testing"

func TestTokenKeyDerivation(t *testing.T) {
	cases := []struct {
		slot string
		want string
	}{
		{"default", "default_token"},
		{"admin", "admin_token"},
		{"", "default_token"},
	}

	for _, tc := range cases {
		if got := TokenKey(tc.slot); got != tc.want {
			t.Fatalf("TokenKey(%q) = %q, want %q", tc.slot, got, tc.want)
		}
	}
}

func TestLookupTokenKeyForms(t *testing.T) {
	cookies := map[string]string{
		"raw_token":       "raw-value",
		":rendered_token": "rendered-value",
		"empty_token":     "",
	}

	if got, ok := lookupToken(cookies, "raw_token"); !ok || got != "raw-value" {
		t.Fatalf("raw key lookup failed: %q %v", got, ok)
	}
	if got, ok := lookupToken(cookies, "rendered_token"); !ok || got != "rendered-value" {
		t.Fatalf("rendered key lookup failed: %q %v", got, ok)
	}
	if _, ok := lookupToken(cookies, "missing_token"); ok {
		t.Fatalf("missing key must not be found")
	}
	if _, ok := lookupToken(cookies, "empty_token"); ok {
		t.Fatalf("empty value must count as absent")
	}
}
