// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): text extraction, chunking, embedding,
// vector storage and the processed-file ledger.
package driven
