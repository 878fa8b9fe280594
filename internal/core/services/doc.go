// Package services implements the driving port interfaces: the
// tokenizer, phrase matcher, fuzzy neighborhood, lexical index,
// mini-embedder, TF-IDF and hybrid rankers, retrieval-pack builder,
// prompt assembler, and the Reader that orchestrates them.
//
// Services are pure Go with no CGO. The only external dependencies
// are the bounded worker pool used to parallelize index construction
// over large corpora, uuid correlation ids on non-fatal warnings, and
// the optional tiktoken-backed token counter in the tiktokencounter
// subpackage.
package services
