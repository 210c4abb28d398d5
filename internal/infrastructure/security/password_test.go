package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePassword(t *testing.T) {
	t.Parallel()

	for _, length := range []int{8, 16, 64, 128} {
		p, err := GeneratePassword(length)
		require.NoError(t, err)
		assert.Len(t, p, length)
		assert.True(t, strings.ContainsAny(p, uppercaseChars), "missing uppercase in %q", p)
		assert.True(t, strings.ContainsAny(p, lowercaseChars), "missing lowercase in %q", p)
		assert.True(t, strings.ContainsAny(p, digitChars), "missing digit in %q", p)
		assert.True(t, strings.ContainsAny(p, symbolChars), "missing symbol in %q", p)
	}
}

func TestGeneratePasswordLengthBounds(t *testing.T) {
	t.Parallel()

	for _, length := range []int{0, 7, 129, -1} {
		_, err := GeneratePassword(length)
		assert.ErrorIs(t, err, ErrLengthOutOfRange, "length %d", length)
	}
}

func TestGeneratePasswordIsRandom(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		p, err := GeneratePassword(16)
		require.NoError(t, err)
		assert.False(t, seen[p], "duplicate generated password %q", p)
		seen[p] = true
	}
}

func TestScoreStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		password  string
		wantValid bool
		wantScore int
	}{
		{"too short", "Ab1!", false, 1},
		{"minimum length all classes", "Abcdef1!", true, 2},
		{"twelve chars all classes", "Abcdefghij1!", true, 3},
		{"sixteen chars all classes", "Abcdefghijklmn1!", true, 4},
		{"no symbol", "Abcdefghijklmn12", true, 3},
		{"missing digit", "Abcdefghijklmno!", false, 3},
		{"missing uppercase", "abcdefghijklmn1!", false, 3},
		{"dictionary word", "MyPassword123!xx", false, 2},
		{"repeated run", "Abcdefghijk111!!", false, 2},
		{"leading digit run", "12345Abcdefghi!x", false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ScoreStrength(tt.password)
			assert.Equal(t, tt.wantValid, r.Valid, "report: %+v", r)
			assert.Equal(t, tt.wantScore, r.Score, "report: %+v", r)
		})
	}
}

func TestScoreStrengthShortBandSuggestion(t *testing.T) {
	t.Parallel()

	r := ScoreStrength("Abcdef1!")
	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
	require.NotEmpty(t, r.Suggestions)
	assert.Contains(t, r.Suggestions[0], "12 or more")
}

func TestScoreStrengthMissingSymbolIsOnlySuggestion(t *testing.T) {
	t.Parallel()

	r := ScoreStrength("Abcdefghijklmn12")
	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
	assert.NotEmpty(t, r.Suggestions)
}
