package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRetrievalOptions(t *testing.T) {
	opts := DefaultRetrievalOptions()
	assert.Equal(t, 5, opts.Limit)
	assert.Equal(t, 1, opts.PerHitNeighbors)
	assert.Equal(t, ExpandNeighbors, opts.Expand)
	assert.Equal(t, RankTFIDF, opts.Rank)
	assert.Equal(t, 0, opts.MaxTokens)
}

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, 20, th.ShortSpanChars)
	assert.Equal(t, 2000, th.LongSpanChars)
}
