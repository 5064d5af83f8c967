package authpipe

// TokenKey derives the cookie and session lookup key for a slot. The
// derivation is a pure function: the same slot always yields the same key,
// and the key is reused verbatim when re-storing an exchanged token into
// the session.
func TokenKey(slot string) string {
	if slot == "" {
		slot = DefaultSlot
	}
	return slot + "_token"
}

// lookupToken finds the raw token for key in the parsed cookie set. It
// tries the raw key first and then its transport-rendered form (a ":"
// prefix), tolerating clients that round-trip the key through a symbolic
// representation.
func lookupToken(cookies map[string]string, key string) (string, bool) {
	if value, ok := cookies[key]; ok && value != "" {
		return value, true
	}
	if value, ok := cookies[":"+key]; ok && value != "" {
		return value, true
	}
	return "", false
}
