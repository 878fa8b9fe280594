package services

import (
	"github.com/google/uuid"

	"github.com/sercha-labs/docreader/internal/core/domain"
)

// NewWarning builds a non-fatal diagnostic, tagging it with a random
// correlation id so repeated occurrences of the same kind can be told
// apart in logs. Warning ids (these and the artifact loader's) are
// the only identifiers that are not content-addressed: warnings are
// ephemeral, per-invocation records, not persisted artifact data.
func NewWarning(kind, spanID, message string) domain.Warning {
	return domain.Warning{ID: uuid.New().String(), Kind: kind, SpanID: spanID, Message: message}
}
