package domain

// Summary carries corpus-wide structural counts.
type Summary struct {
	SpanCount        int     `json:"spanCount"`
	ChapterCount     int     `json:"chapterCount"`
	SectionCount     int     `json:"sectionCount"`
	TotalChars       int     `json:"totalChars"`
	AverageChars     float64 `json:"averageChars"`
	MultiLineSpans   int     `json:"multiLineSpans"`
}

// LengthStats carries span-length percentiles computed by the
// nearest-rank method, plus the raw min/max.
type LengthStats struct {
	Min int `json:"min"`
	Max int `json:"max"`
	P10 int `json:"p10"`
	P50 int `json:"p50"`
	P90 int `json:"p90"`
}

// Thresholds names the fixed cutoffs used to classify short/long
// spans for the warnings summary.
type Thresholds struct {
	ShortSpanChars int `json:"shortSpanChars"` // 20
	LongSpanChars  int `json:"longSpanChars"`  // 2000
}

// Warnings counts spans flagged by quality heuristics.
type Warnings struct {
	ShortSpans      int `json:"shortSpans"`
	LongSpans       int `json:"longSpans"`
	DuplicateText   int `json:"duplicateText"`
}

// Sample is a truncated span text used to illustrate the shortest or
// longest spans found during build.
type Sample struct {
	SpanID string `json:"spanId"`
	Text   string `json:"text"` // truncated to 200 chars, "…" appended when cut
}

// Samples carries the build's shortest and longest span samples.
type Samples struct {
	Shortest []Sample `json:"shortest"`
	Longest  []Sample `json:"longest"`
}

// Provenance back-references the manifest fields a report was
// computed against.
type Provenance struct {
	ManifestID string `json:"manifestId"`
	SourceHash string `json:"sourceHash"`
}

// BuildReport carries quality metrics computed once, at build time.
type BuildReport struct {
	Summary     Summary     `json:"summary"`
	LengthStats LengthStats `json:"lengthStats"`
	Thresholds  Thresholds  `json:"thresholds"`
	Warnings    Warnings    `json:"warnings"`
	Samples     Samples     `json:"samples"`
	Provenance  Provenance  `json:"provenance"`
}

// DefaultThresholds returns the standard short/long span thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{ShortSpanChars: 20, LongSpanChars: 2000}
}
