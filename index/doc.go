// Package index builds and queries the in-memory vector index over resume
// documents.
//
// The package supports batched embedding with progress tracking and retry
// logic with exponential backoff, persistence of built indexes through the
// storage layer, and cosine similarity search over normalized vectors.
package index
