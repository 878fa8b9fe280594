package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText_ConvertsCRLFToLF(t *testing.T) {
	assert.Equal(t, "one\ntwo", normalizeText("one\r\ntwo"))
}

func TestNormalizeText_CollapsesRunsOfThreeOrMoreNewlines(t *testing.T) {
	assert.Equal(t, "one\n\ntwo", normalizeText("one\n\n\n\ntwo"))
}

func TestNormalizeText_PreservesExactlyTwoNewlines(t *testing.T) {
	assert.Equal(t, "one\n\ntwo", normalizeText("one\n\ntwo"))
}

func TestNormalizeText_TrimsLeadingAndTrailingWhitespace(t *testing.T) {
	assert.Equal(t, "hello", normalizeText("  \n hello \n  "))
}

func TestNormalizeText_NFCComposesCombiningCharacters(t *testing.T) {
	decomposed := "é" // "e" + combining acute accent
	composed := "é"    // "é"
	assert.Equal(t, composed, normalizeText(decomposed))
}
