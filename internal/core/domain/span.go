package domain

// Span is one paragraph of the normalized source document. Spans are
// immutable after construction; order is dense and unique within a
// corpus, forming a permutation of 0..N-1.
type Span struct {
	// ID is the opaque, stable identifier, conventionally
	// "span:NNNNNN" (zero-padded, 1-based in the printed form but
	// 0-based in Order).
	ID string `json:"id"`

	// Text is the non-empty normalized span text. It may contain
	// internal newlines.
	Text string `json:"text"`

	// Order is the 0-based dense position of this span within the
	// corpus. Order values form a permutation of 0..N-1.
	Order int `json:"order"`

	// HeadingPath is the ordered sequence of ancestor heading texts.
	// Empty for a plain-text document or a span with no enclosing
	// heading.
	HeadingPath []string `json:"headingPath,omitempty"`

	// Embedding is the span's persisted 128-dim unit vector, or nil
	// when absent. A nil embedding means semantic scoring skips this
	// span with a MissingEmbedding warning.
	Embedding []float64 `json:"embedding,omitempty"`
}

// HasEmbedding reports whether this span carries a persisted
// embedding vector.
func (s Span) HasEmbedding() bool {
	return len(s.Embedding) > 0
}
