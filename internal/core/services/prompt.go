package services

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

// TokenCounter estimates the budget cost of a block of text. The
// default implementation counts characters; integrators that want
// real model-token accounting plug in their own (see the
// tiktokencounter package).
type TokenCounter interface {
	Count(text string) int
}

type charCountTokenCounter struct{}

func (charCountTokenCounter) Count(text string) int { return utf8.RuneCountInString(text) }

// DefaultTokenCounter is a character-count proxy, used when no
// tokenizer-backed counter has been configured.
var DefaultTokenCounter TokenCounter = charCountTokenCounter{}

const defaultHeadroomTokens = 300

const systemPromptQA = "You are a careful assistant answering questions using only the " +
	"provided context blocks. Ground every claim in the cited material using the " +
	"bracketed superscript markers shown with each block. If the context does not " +
	"determine an answer, say so explicitly instead of guessing."

const systemPromptSummarize = "You are a careful assistant summarizing the provided context " +
	"blocks. Produce a concise, citable summary using the bracketed superscript markers " +
	"shown with each block. Do not introduce information absent from the context."

var superscriptDigits = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
}

func superscript(n int) string {
	var b strings.Builder
	for _, d := range strconv.Itoa(n) {
		b.WriteRune(superscriptDigits[d])
	}
	return b.String()
}

func citationMarker(n int) string {
	return "[" + superscript(n) + "]"
}

// AssemblePrompt builds the system/user prompt pair and citation list
// for docId from opts. Packs are consumed in input order (retrieval is
// assumed to have already ranked them); the reader.go AssemblePrompt
// method injects docId from the Reader's manifest.
func AssemblePrompt(docID string, opts domain.AssembleOptions, counter TokenCounter) domain.AssembledPrompt {
	if counter == nil {
		counter = DefaultTokenCounter
	}

	style := opts.Style
	if style == "" {
		style = domain.PromptStyleQA
	}
	systemPrompt := systemPromptQA
	if style == domain.PromptStyleSummarize {
		systemPrompt = systemPromptSummarize
	}

	headroom := opts.HeadroomTokens
	if headroom == 0 {
		headroom = defaultHeadroomTokens
	}

	baseSize := counter.Count(opts.Question)
	totalChars := 0

	var blocks []string
	var citations []domain.Citation

	for i, pack := range opts.Packs {
		marker := citationMarker(i + 1)
		block := formatContextBlock(marker, docID, pack.Meta.HeadingPath, pack.Text)
		blockSize := counter.Count(block)

		if opts.MaxPromptTokens > 0 && baseSize+totalChars+blockSize > opts.MaxPromptTokens-headroom {
			break
		}

		blocks = append(blocks, block)
		totalChars += blockSize

		var spanOffsets []domain.PhraseRange
		for _, hit := range pack.Entry.Hits.Phrases {
			spanOffsets = append(spanOffsets, hit.Ranges...)
		}

		citations = append(citations, domain.Citation{
			Marker:      marker,
			PackID:      pack.PackID,
			DocID:       docID,
			HeadingPath: pack.Meta.HeadingPath,
			SpanOffsets: spanOffsets,
		})
	}

	user := assembleUserPrompt(opts.Question, blocks, len(citations))

	return domain.AssembledPrompt{
		Prompt:          domain.Prompt{System: systemPrompt, User: user},
		Citations:       citations,
		TokensEstimated: totalChars,
	}
}

func formatContextBlock(marker, docID string, headingPath []string, text string) string {
	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nDoc: ")
	b.WriteString(docID)
	if len(headingPath) > 0 {
		b.WriteString("\nPath: ")
		b.WriteString(strings.Join(headingPath, " > "))
	}
	b.WriteString("\n---\n")
	b.WriteString(text)
	return b.String()
}

func assembleUserPrompt(question string, blocks []string, citationCount int) string {
	var b strings.Builder
	b.WriteString(question)

	if citationCount > 0 {
		b.WriteString("\n\nYou may reference ")
		b.WriteString(citationMarker(1))
		b.WriteString("…")
		b.WriteString(citationMarker(citationCount))
		b.WriteString(".")
	}

	for _, block := range blocks {
		b.WriteString("\n\n")
		b.WriteString(block)
	}

	return b.String()
}
