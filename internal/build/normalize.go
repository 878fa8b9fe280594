package build

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var runOfNewlines = regexp.MustCompile(`\n{3,}`)

// normalizeText applies the three normalization rules a source file
// goes through before spans are derived: Unicode NFC, CRLF→LF, and
// collapsing any run of 3+ consecutive newlines down to exactly two,
// then trims leading/trailing whitespace from the whole document.
func normalizeText(raw string) string {
	text := norm.NFC.String(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = runOfNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
