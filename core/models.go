package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is derived from content so that the same source always maps to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DigestFromContent computes a hex-encoded BLAKE2b-256 digest of text content.
// Used for directory manifests and document set fingerprints.
func DigestFromContent(text string) string {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(text))
	sum := h.Sum(nil)
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(sum)*2)
	for i, b := range sum {
		out[i*2] = hexdigits[b>>4]
		out[i*2+1] = hexdigits[b&0x0f]
	}
	return string(out)
}

// RawDocument is the output of text extraction before sanitization.
// The text may contain invalid byte sequences. RawDocuments exist only
// during loading and are never persisted.
type RawDocument struct {
	SourcePath string
	Text       string
	Metadata   map[string]string
}

// CleanDocument is a sanitized, validated document ready for indexing.
// Its ID is derived from the source path, so reprocessing the same file
// always overwrites rather than duplicates.
//
// Invariants: Text is valid UTF-8 with no surrogate code points, and its
// trimmed length exceeds the loader's minimum (10 characters by default).
type CleanDocument struct {
	Id       ID
	FileName string
	FilePath string
	Text     string
	Metadata map[string]string
}

// DocumentSet is the unit stored in the document cache: an ordered sequence
// of clean documents plus the manifest digest of the source directory at the
// time it was built. It is written and read wholesale, never partially updated.
type DocumentSet struct {
	Digest    string
	CreatedAt time.Time
	Documents []CleanDocument
}

// IndexMeta describes a persisted semantic index. The embedding model is
// recorded so that a query never runs against vectors from a different
// embedding space, and Fingerprint ties the index to the exact document set
// it was built from.
type IndexMeta struct {
	EmbeddingModel string
	Dimension      int
	Fingerprint    string
	DocumentCount  int
	BuiltAt        time.Time
}

// IndexedDocument pairs a clean document with its embedding vector.
type IndexedDocument struct {
	Document CleanDocument
	Vector   []float32
}

// IndexSnapshot is the persisted form of a semantic index.
type IndexSnapshot struct {
	Meta    IndexMeta
	Entries []IndexedDocument
}

// ScoredDocument is a retrieval hit: a document and its similarity score.
type ScoredDocument struct {
	Document *CleanDocument
	Score    float32
}

// QueryResult is the stable record handed to any presentation layer.
// Score is a similarity in [0,1], higher is better. Preview is a bounded
// single-line excerpt of FullText.
type QueryResult struct {
	Filename string
	FilePath string
	Score    float32
	Preview  string
	FullText string
}

// SearchResponse holds the ranked results for one query plus an optional
// synthesized answer. Answer is empty when synthesis was disabled or failed.
type SearchResponse struct {
	Results []QueryResult
	Answer  string
}
