// Package chunker splits lecture transcripts into retrievable chunks.
//
// Chunks fall within a target length band (1500-3000 characters by default)
// and align to paragraph boundaries where possible, falling back to sentence
// boundaries for oversized paragraphs. Consecutive chunks overlap by a small
// bounded window to preserve cross-boundary context. Chunking is a pure
// function: identical input and configuration always produce an identical
// chunk sequence, which is what makes re-ingestion idempotent and dry-run
// previews trustworthy.
package chunker
