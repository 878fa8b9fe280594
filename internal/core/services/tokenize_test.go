package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize_Basic(t *testing.T) {
	assert.Equal(t, []string{"hello", "world"}, Tokenize("Hello, World!"))
}

func TestTokenize_CaseFold(t *testing.T) {
	lower := Tokenize("section")
	upper := Tokenize("SECTION")
	mixed := Tokenize("SeCtiOn")
	assert.Equal(t, lower, upper)
	assert.Equal(t, lower, mixed)
}

func TestTokenize_CollapsesPunctuationRuns(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Tokenize("a---..._b"))
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   ...,,,   "))
}

func TestTokenize_NonASCIILettersAreSeparators(t *testing.T) {
	// café splits at the non-ASCII é, consistent across build and query.
	assert.Equal(t, []string{"caf"}, Tokenize("café"))
}

func TestTokenize_PreservesOrder(t *testing.T) {
	assert.Equal(t, []string{"one", "two", "three"}, Tokenize("one two three"))
}

func TestTokenize_Idempotent(t *testing.T) {
	inputs := []string{
		"The Quick Brown Fox.",
		"**bold** text with _underscores_",
		"Here's a contraction",
		"",
		"123 abc 456",
	}

	for _, in := range inputs {
		first := Tokenize(in)
		second := Tokenize(strings.Join(first, " "))
		assert.Equal(t, first, second, "tokenize should be idempotent for %q", in)
	}
}

func TestTokenSet(t *testing.T) {
	set := TokenSet("one two one three")
	assert.Len(t, set, 3)
	_, ok := set["one"]
	assert.True(t, ok)
}
