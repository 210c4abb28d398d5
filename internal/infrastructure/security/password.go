package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	digitChars     = "0123456789"
	symbolChars    = "!@#$%^&*()-_=+[]{}<>?"
)

var ErrLengthOutOfRange = fmt.Errorf("password length must be between %d and %d", MinPasswordLength, MaxPasswordLength)

// GeneratePassword returns a random password containing at least one
// uppercase letter, one lowercase letter, one digit and one symbol. The
// result is shuffled with a CSPRNG-driven Fisher-Yates pass so the
// guaranteed-class characters do not sit at predictable positions.
func GeneratePassword(length int) (string, error) {
	if length < MinPasswordLength || length > MaxPasswordLength {
		return "", ErrLengthOutOfRange
	}
	alphabet := uppercaseChars + lowercaseChars + digitChars + symbolChars
	buf := make([]byte, 0, length)
	for _, set := range []string{uppercaseChars, lowercaseChars, digitChars, symbolChars} {
		c, err := randomChar(set)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	for len(buf) < length {
		c, err := randomChar(alphabet)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	for i := len(buf) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return "", err
		}
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

func randomChar(set string) (byte, error) {
	i, err := randomInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randomInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// StrengthReport is the outcome of scoring a candidate password.
// Valid requires zero errors and a score of at least 2.
type StrengthReport struct {
	Valid       bool     `json:"valid"`
	Score       int      `json:"score"`
	Errors      []string `json:"errors"`
	Suggestions []string `json:"suggestions"`
}

var weakPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4,}`),
	regexp.MustCompile(`(?i)(password|senha|qwerty|abc123|admin|letmein|welcome)`),
}

// ScoreStrength scores a password on a 0-4 scale. Missing uppercase,
// lowercase or digits is a hard error; a missing symbol only costs a
// suggestion. Weak patterns (leading digit runs, dictionary words,
// repeated characters) subtract two points, floored at zero.
func ScoreStrength(password string) StrengthReport {
	r := StrengthReport{Errors: []string{}, Suggestions: []string{}}
	switch n := len(password); {
	case n < MinPasswordLength:
		r.Errors = append(r.Errors, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	case n < 12:
		r.Score = 1
		r.Suggestions = append(r.Suggestions, "use 12 or more characters for a stronger password")
	case n < 16:
		r.Score = 2
	default:
		r.Score = 3
	}

	hasUpper := strings.ContainsAny(password, uppercaseChars)
	hasLower := strings.ContainsAny(password, lowercaseChars)
	hasDigit := strings.ContainsAny(password, digitChars)
	hasSymbol := containsSymbol(password)
	if !hasUpper {
		r.Errors = append(r.Errors, "password must contain an uppercase letter")
	}
	if !hasLower {
		r.Errors = append(r.Errors, "password must contain a lowercase letter")
	}
	if !hasDigit {
		r.Errors = append(r.Errors, "password must contain a digit")
	}
	if !hasSymbol {
		r.Suggestions = append(r.Suggestions, "add a symbol to strengthen the password")
	}
	if hasUpper && hasLower && hasDigit && hasSymbol {
		r.Score++
	}

	if matchesWeakPattern(password) {
		r.Score -= 2
		if r.Score < 0 {
			r.Score = 0
		}
		r.Errors = append(r.Errors, "password contains a predictable pattern")
	}

	r.Valid = len(r.Errors) == 0 && r.Score >= 2
	return r
}

func containsSymbol(s string) bool {
	return strings.ContainsAny(s, symbolChars)
}

func matchesWeakPattern(password string) bool {
	for _, re := range weakPatterns {
		if re.MatchString(password) {
			return true
		}
	}
	return hasRepeatedRun(password, 3)
}

// hasRepeatedRun reports whether the same byte occurs n or more times in a
// row. Checked by hand: RE2 has no backreferences.
func hasRepeatedRun(s string, n int) bool {
	run := 1
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}
