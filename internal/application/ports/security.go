package ports

// PasswordHasher derives and verifies password digests (PBKDF2-HMAC-SHA-512).
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify never fails for a malformed digest; it reports false.
	Verify(password, digest string) bool
	// NeedsRehash reports whether a verified digest uses the legacy format
	// or an iteration count below the live target and should be replaced.
	NeedsRehash(digest string) bool
}
