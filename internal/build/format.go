package build

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

// Format is the set of source formats the pipeline reads. Markdown
// formats get heading detection; plain text does not.
type Format string

const (
	FormatMarkdown  Format = "markdown"
	FormatPlaintext Format = "plaintext"
)

var extensionFormats = map[string]Format{
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".txt":      FormatPlaintext,
}

// detectFormat derives the source format from the file extension,
// unless explicit overrides it. Returns the format and how it was
// determined.
func detectFormat(sourcePath string, explicit Format) (Format, domain.Detection, error) {
	if explicit != "" {
		return explicit, domain.DetectionFlag, nil
	}

	ext := strings.ToLower(filepath.Ext(sourcePath))
	format, ok := extensionFormats[ext]
	if !ok {
		return "", "", fmt.Errorf("unrecognized source extension %q: pass an explicit format", ext)
	}
	return format, domain.DetectionAuto, nil
}
