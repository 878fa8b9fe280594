// Package tiktokencounter adapts github.com/pkoukk/tiktoken-go into a
// services.TokenCounter for integrators who want real model-token
// accounting in place of the default character-count proxy.
package tiktokencounter

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts tokens using a tiktoken encoding.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// New loads the named tiktoken encoding (e.g. "cl100k_base",
// "o200k_base") and returns a Counter that uses it.
func New(encoding string) (*Counter, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %q: %w", encoding, err)
	}
	return &Counter{enc: enc}, nil
}

// Count returns the number of tokens text encodes to.
func (c *Counter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}
