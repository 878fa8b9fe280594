package domain

// Warning is a non-fatal diagnostic emitted during artifact loading
// or query ranking, e.g. a span missing an embedding. ID
// correlates a warning across log lines; unlike span/corpus
// identifiers it carries no content-addressing meaning.
type Warning struct {
	ID      string
	Kind    string // e.g. "missing_embedding"
	SpanID  string
	Message string
}
