package build

import (
	"sort"
	"unicode/utf8"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

const sampleCount = 3

// buildReport computes the quality-metrics record for a completed
// build: structural counts, length percentiles by the nearest-rank
// method, short/long/duplicate-text warnings, and shortest/longest
// text samples.
func buildReport(manifest domain.Manifest, spans []domain.Span, nodeMap *domain.NodeMap) domain.BuildReport {
	thresholds := domain.DefaultThresholds()

	lengths := make([]int, len(spans))
	totalChars := 0
	multiLine := 0
	seenText := make(map[string]int, len(spans))
	var short, long, duplicate int

	for i, s := range spans {
		n := utf8.RuneCountInString(s.Text)
		lengths[i] = n
		totalChars += n

		if containsNewline(s.Text) {
			multiLine++
		}
		if n < thresholds.ShortSpanChars {
			short++
		}
		if n > thresholds.LongSpanChars {
			long++
		}
		seenText[s.Text]++
	}
	for _, count := range seenText {
		if count > 1 {
			duplicate += count - 1
		}
	}

	average := 0.0
	if len(spans) > 0 {
		average = float64(totalChars) / float64(len(spans))
	}

	chapterCount, sectionCount := 0, 0
	if nodeMap != nil {
		chapterCount = len(nodeMap.Chapters)
		sectionCount = len(nodeMap.Sections)
	}

	return domain.BuildReport{
		Summary: domain.Summary{
			SpanCount:      len(spans),
			ChapterCount:   chapterCount,
			SectionCount:   sectionCount,
			TotalChars:     totalChars,
			AverageChars:   average,
			MultiLineSpans: multiLine,
		},
		LengthStats: lengthStats(lengths),
		Thresholds:  thresholds,
		Warnings: domain.Warnings{
			ShortSpans:    short,
			LongSpans:     long,
			DuplicateText: duplicate,
		},
		Samples: buildSamples(spans),
		Provenance: domain.Provenance{
			ManifestID: manifest.ID,
			SourceHash: manifest.SourceHash,
		},
	}
}

func containsNewline(s string) bool {
	for _, r := range s {
		if r == '\n' {
			return true
		}
	}
	return false
}

// lengthStats computes min/max and the 10th/50th/90th percentiles of
// span lengths by the nearest-rank method.
func lengthStats(lengths []int) domain.LengthStats {
	if len(lengths) == 0 {
		return domain.LengthStats{}
	}

	sorted := append([]int(nil), lengths...)
	sort.Ints(sorted)

	return domain.LengthStats{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		P10: nearestRank(sorted, 10),
		P50: nearestRank(sorted, 50),
		P90: nearestRank(sorted, 90),
	}
}

// nearestRank returns the percentile-th value of the sorted slice
// using the nearest-rank method: rank = ceil(percentile/100 * n),
// clamped to [1, n].
func nearestRank(sorted []int, percentile int) int {
	n := len(sorted)
	rank := (percentile*n + 99) / 100
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}

const sampleTextLimit = 200

func buildSamples(spans []domain.Span) domain.Samples {
	if len(spans) == 0 {
		return domain.Samples{}
	}

	byLength := append([]domain.Span(nil), spans...)
	sort.SliceStable(byLength, func(i, j int) bool {
		return utf8.RuneCountInString(byLength[i].Text) < utf8.RuneCountInString(byLength[j].Text)
	})

	n := sampleCount
	if n > len(byLength) {
		n = len(byLength)
	}

	shortest := make([]domain.Sample, 0, n)
	for _, s := range byLength[:n] {
		shortest = append(shortest, truncatedSample(s))
	}

	longest := make([]domain.Sample, 0, n)
	for i := len(byLength) - 1; i >= len(byLength)-n; i-- {
		longest = append(longest, truncatedSample(byLength[i]))
	}

	return domain.Samples{Shortest: shortest, Longest: longest}
}

func truncatedSample(s domain.Span) domain.Sample {
	runes := []rune(s.Text)
	if len(runes) <= sampleTextLimit {
		return domain.Sample{SpanID: s.ID, Text: s.Text}
	}
	return domain.Sample{SpanID: s.ID, Text: string(runes[:sampleTextLimit]) + "…"}
}
