package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpan_HasEmbedding(t *testing.T) {
	withEmbedding := Span{ID: "span:000001", Embedding: []float64{0.1, 0.2}}
	assert.True(t, withEmbedding.HasEmbedding())

	without := Span{ID: "span:000002"}
	assert.False(t, without.HasEmbedding())

	empty := Span{ID: "span:000003", Embedding: []float64{}}
	assert.False(t, empty.HasEmbedding())
}
