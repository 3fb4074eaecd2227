// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package index

import (
	"sort"

	"github.com/poiesic/resumedex/core"
)

// Index is an in-memory vector index over a document collection.
// Vectors are stored normalized to unit length so similarity is a single
// dot product per document.
//
// An Index is immutable after construction and safe for concurrent reads.
type Index struct {
	meta    core.IndexMeta
	docs    []core.CleanDocument
	vectors [][]float32
}

// FromSnapshot builds an in-memory index from a persisted snapshot.
// Entry vectors are normalized; the snapshot's insertion order is preserved
// and determines tie ordering in TopK.
func FromSnapshot(snapshot *core.IndexSnapshot) *Index {
	idx := &Index{
		meta:    snapshot.Meta,
		docs:    make([]core.CleanDocument, len(snapshot.Entries)),
		vectors: make([][]float32, len(snapshot.Entries)),
	}
	for i, entry := range snapshot.Entries {
		idx.docs[i] = entry.Document
		idx.vectors[i] = NormalizeVector(entry.Vector)
	}
	return idx
}

// Meta returns the index metadata.
func (idx *Index) Meta() core.IndexMeta {
	return idx.meta
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	return len(idx.docs)
}

// TopK returns the k documents most similar to the query vector, ordered by
// descending score. Equal scores keep index insertion order. Scores are
// cosine similarity clipped to [0, 1].
//
// Returns fewer than k results when the index holds fewer documents, and an
// empty slice for an empty index.
func (idx *Index) TopK(queryVector []float32, k int) []core.ScoredDocument {
	if k <= 0 || len(idx.docs) == 0 {
		return []core.ScoredDocument{}
	}

	query := NormalizeVector(queryVector)

	scored := make([]core.ScoredDocument, len(idx.docs))
	for i := range idx.docs {
		var score float32
		if len(query) == len(idx.vectors[i]) {
			score = clampScore(dotProduct(query, idx.vectors[i]))
		}
		scored[i] = core.ScoredDocument{
			Document: &idx.docs[i],
			Score:    score,
		}
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}
