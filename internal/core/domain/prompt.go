package domain

// PromptStyle selects the fixed system prompt used by the assembler.
type PromptStyle string

const (
	// PromptStyleQA requires grounded, citable answers and explicit
	// abstention when the question is underdetermined by the
	// supplied packs.
	PromptStyleQA PromptStyle = "qa"

	// PromptStyleSummarize requires a concise, citable summary that
	// adds no information beyond the supplied packs.
	PromptStyleSummarize PromptStyle = "summarize"
)

// CitationStyle selects how citation markers are rendered. Only
// numeric (superscript) markers are specified.
type CitationStyle string

// CitationStyleNumeric renders markers as "[¹]", "[²]", ...
const CitationStyleNumeric CitationStyle = "numeric"

// AssembleOptions configures Reader.AssemblePrompt.
type AssembleOptions struct {
	Question       string
	Packs          []RetrievalPack
	HeadroomTokens int // default 300
	Style          PromptStyle
	CitationStyle  CitationStyle

	// MaxPromptTokens is the external ceiling integrators may supply.
	// Zero means effectively unbounded.
	MaxPromptTokens int
}

// Citation identifies one accepted pack's marker and provenance.
type Citation struct {
	Marker      string
	PackID      string
	DocID       string
	HeadingPath []string

	// SpanOffsets is populated from the pack entry's phrase hit
	// ranges when present, nil otherwise.
	SpanOffsets []PhraseRange
}

// Prompt is the assembled system/user prompt pair.
type Prompt struct {
	System string
	User   string
}

// AssembledPrompt is the result of Reader.AssemblePrompt.
type AssembledPrompt struct {
	Prompt    Prompt
	Citations []Citation

	// TokensEstimated is the character-count proxy total across
	// accepted packs (see TokenCounter for a pluggable real-token
	// implementation).
	TokensEstimated int
}
