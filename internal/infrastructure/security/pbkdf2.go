package security

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/pbkdf2"
)

const (
	algorithmTag = "pbkdf2_sha512"
	saltLength   = 16
	keyLength    = 64

	// DefaultIterations is the live derivation target. Digests produced
	// with fewer iterations still verify but are flagged by NeedsRehash.
	DefaultIterations = 600000

	// legacyIterations applies to the old "salt:hash" digest format.
	legacyIterations = 100000

	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var (
	ErrPasswordEmpty    = errors.New("password must be a non-empty string")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
)

// PBKDF2Hasher implements ports.PasswordHasher using PBKDF2-HMAC-SHA-512.
// Digest format: pbkdf2_sha512$<iterations>$<saltHex>$<hashHex>. The legacy
// "<saltHex>:<hashHex>" format (implicit 100000 iterations) still verifies
// so existing accounts keep working until their next login rehashes them.
type PBKDF2Hasher struct {
	iterations int
	log        zerolog.Logger
}

func NewPBKDF2Hasher(iterations int, log zerolog.Logger) *PBKDF2Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &PBKDF2Hasher{iterations: iterations, log: log}
}

func (h *PBKDF2Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrPasswordEmpty
	}
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(password), salt, h.iterations, keyLength, sha512.New)
	return fmt.Sprintf("%s$%d$%s$%s", algorithmTag, h.iterations,
		hex.EncodeToString(salt), hex.EncodeToString(key)), nil
}

// Verify dispatches on the digest format. A malformed but non-empty digest
// is logged and reported as a mismatch, never as an error.
func (h *PBKDF2Hasher) Verify(password, digest string) bool {
	if password == "" || digest == "" {
		return false
	}
	switch {
	case strings.HasPrefix(digest, algorithmTag+"$"):
		return h.verifyCurrent(password, digest)
	case strings.Count(digest, ":") == 1:
		return h.verifyLegacy(password, digest)
	default:
		h.log.Warn().Msg("password digest has unrecognized format")
		return false
	}
}

func (h *PBKDF2Hasher) verifyCurrent(password, digest string) bool {
	parts := strings.Split(digest, "$")
	if len(parts) != 4 {
		h.log.Warn().Int("fields", len(parts)).Msg("malformed pbkdf2 digest")
		return false
	}
	// The digest's own iteration count, not the live target: digests
	// produced under older targets must keep verifying.
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		h.log.Warn().Str("iterations", parts[1]).Msg("invalid iteration count in digest")
		return false
	}
	salt, err := hex.DecodeString(parts[2])
	if err != nil {
		h.log.Warn().Err(err).Msg("invalid salt encoding in digest")
		return false
	}
	derived := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha512.New)
	return constantTimeEqualHex(hex.EncodeToString(derived), parts[3])
}

func (h *PBKDF2Hasher) verifyLegacy(password, digest string) bool {
	parts := strings.SplitN(digest, ":", 2)
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		h.log.Warn().Err(err).Msg("invalid salt encoding in legacy digest")
		return false
	}
	derived := pbkdf2.Key([]byte(password), salt, legacyIterations, keyLength, sha512.New)
	return constantTimeEqualHex(hex.EncodeToString(derived), parts[1])
}

// NeedsRehash reports whether a digest should be replaced after a
// successful verification: empty, legacy format, truncated, or derived
// with fewer iterations than the live target. Unrecognized shapes are left
// alone; callers gate migration on Verify succeeding first.
func (h *PBKDF2Hasher) NeedsRehash(digest string) bool {
	if digest == "" {
		return true
	}
	if strings.HasPrefix(digest, algorithmTag+"$") {
		parts := strings.Split(digest, "$")
		if len(parts) < 4 {
			return true
		}
		iterations, err := strconv.Atoi(parts[1])
		if err != nil || iterations < h.iterations {
			return true
		}
		return false
	}
	if strings.Count(digest, ":") == 1 {
		return true
	}
	return false
}

// constantTimeEqualHex compares the derived and stored hex strings in
// constant time. A length mismatch still runs a same-length dummy
// comparison so rejection timing does not reveal the stored length.
func constantTimeEqualHex(derived, stored string) bool {
	if len(derived) != len(stored) {
		dummy := make([]byte, len(derived))
		subtle.ConstantTimeCompare([]byte(derived), dummy)
		return false
	}
	return subtle.ConstantTimeCompare([]byte(derived), []byte(stored)) == 1
}
