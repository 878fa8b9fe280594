package build

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

var runOfBlankLines = regexp.MustCompile(`\n{2,}`)

var headingPattern = regexp.MustCompile(`^(#{1,3})\s+(.+)`)

// spanID formats the 1-based, zero-padded identifier for the span at
// 0-based order.
func spanID(order int) string {
	return fmt.Sprintf("span:%06d", order+1)
}

func chapterID(n int) string {
	return fmt.Sprintf("chap:%06d", n)
}

func sectionID(n int) string {
	return fmt.Sprintf("sec:%06d", n)
}

// fragment is one blank-line-delimited piece of the normalized
// source, before a Span id/order is assigned.
type fragment struct {
	text    string
	heading bool
	level   int    // 1-3 when heading
	title   string // heading text with the "#" marker stripped, when heading
}

// splitFragments splits normalized text on runs of 2+ newlines,
// trimming each piece and dropping empties. When markdown is true,
// each fragment is classified as a heading (levels 1-3) or a plain
// paragraph.
func splitFragments(text string, markdown bool) []fragment {
	if text == "" {
		return nil
	}

	pieces := runOfBlankLines.Split(text, -1)
	fragments := make([]fragment, 0, len(pieces))

	for _, piece := range pieces {
		trimmed := strings.TrimSpace(piece)
		if trimmed == "" {
			continue
		}

		f := fragment{text: trimmed}
		if markdown {
			if m := headingPattern.FindStringSubmatch(trimmed); m != nil {
				f.heading = true
				f.level = len(m[1])
				f.title = strings.TrimSpace(m[2])
			}
		}
		fragments = append(fragments, f)
	}

	return fragments
}

// headingPathBuilder tracks the three-level ancestor heading stack as
// fragments are walked in order.
type headingPathBuilder struct {
	stack [3]string
}

// pathBefore returns the ancestor path for a heading fragment about
// to open at level, i.e. the already-established levels above it.
func (b *headingPathBuilder) pathBefore(level int) []string {
	return nonEmpty(b.stack[:level-1])
}

// current returns the full path in effect for a non-heading
// paragraph.
func (b *headingPathBuilder) current() []string {
	return nonEmpty(b.stack[:])
}

// open records that a heading of level has been entered with the
// given title, clearing any deeper levels.
func (b *headingPathBuilder) open(level int, title string) {
	b.stack[level-1] = title
	for i := level; i < len(b.stack); i++ {
		b.stack[i] = ""
	}
}

func nonEmpty(levels []string) []string {
	var out []string
	for _, v := range levels {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// buildResult is the product of walking a document's fragments: the
// ordered spans (without embeddings, attached later) and the node map
// describing their chapter/section structure.
type buildResult struct {
	spans   []domain.Span
	nodeMap *domain.NodeMap
	title   string
}

// buildSpansAndNodeMap assigns order, id, and headingPath to each
// fragment and derives the node map: a synthetic chapter and
// section hold everything when the document has no H1/H2; otherwise
// chapters are opened per H1 and sections per H2, with a synthetic
// section inserted whenever paragraphs precede the first H2 inside a
// chapter (including the H1 span that opened it).
func buildSpansAndNodeMap(fragments []fragment, bookID string) buildResult {
	spans := make([]domain.Span, 0, len(fragments))
	sections := make(map[string]domain.Section)
	chapters := make(map[string][]string)

	var path headingPathBuilder
	chapterCount, sectionCount := 0, 0
	currentChapter, currentSection := "", ""
	title := ""

	ensureChapter := func() {
		if currentChapter == "" {
			chapterCount++
			currentChapter = chapterID(chapterCount)
			chapters[currentChapter] = nil
			currentSection = ""
		}
	}

	openSection := func(heading string) {
		sectionCount++
		id := sectionID(sectionCount)
		sections[id] = domain.Section{Heading: heading}
		chapters[currentChapter] = append(chapters[currentChapter], id)
		currentSection = id
	}

	appendToSection := func(id string) {
		s := sections[currentSection]
		s.ParagraphIDs = append(s.ParagraphIDs, id)
		sections[currentSection] = s
	}

	for i, f := range fragments {
		id := spanID(i)

		var headingPath []string
		switch {
		case f.heading && f.level == 1:
			headingPath = path.pathBefore(1)
			if title == "" {
				title = f.title
			}
			chapterCount++
			currentChapter = chapterID(chapterCount)
			chapters[currentChapter] = nil
			openSection("")
			appendToSection(id)
			path.open(1, f.title)
		case f.heading && f.level == 2:
			headingPath = path.pathBefore(2)
			ensureChapter()
			openSection(f.text)
			appendToSection(id)
			path.open(2, f.title)
		case f.heading:
			headingPath = path.pathBefore(3)
			ensureChapter()
			if currentSection == "" {
				openSection("")
			}
			appendToSection(id)
			path.open(3, f.title)
		default:
			headingPath = path.current()
			ensureChapter()
			if currentSection == "" {
				openSection("")
			}
			appendToSection(id)
		}

		spans = append(spans, domain.Span{
			ID:          id,
			Text:        f.text,
			Order:       i,
			HeadingPath: headingPath,
		})
	}

	paragraphs := make(map[string]string)
	for secID, sec := range sections {
		for _, pid := range sec.ParagraphIDs {
			paragraphs[pid] = secID
		}
	}

	nodeMap := &domain.NodeMap{
		Book:       domain.Book{ID: bookID, Title: title},
		Chapters:   chapters,
		Sections:   sections,
		Paragraphs: paragraphs,
	}

	return buildResult{spans: spans, nodeMap: nodeMap, title: title}
}
