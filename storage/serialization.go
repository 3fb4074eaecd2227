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


package storage

import (
	"fmt"

	"github.com/poiesic/resumedex/core"
)

// MarshalDocumentSet serializes a DocumentSet to bytes.
func MarshalDocumentSet(set *core.DocumentSet) []byte {
	buf := make([]byte, core.DocumentSetMUS.Size(*set))
	core.DocumentSetMUS.Marshal(*set, buf)
	return buf
}

// UnmarshalDocumentSet deserializes a DocumentSet from bytes.
func UnmarshalDocumentSet(data []byte) (*core.DocumentSet, error) {
	set, _, err := core.DocumentSetMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &set, nil
}

// MarshalIndexMeta serializes an IndexMeta to bytes.
func MarshalIndexMeta(meta *core.IndexMeta) []byte {
	buf := make([]byte, core.IndexMetaMUS.Size(*meta))
	core.IndexMetaMUS.Marshal(*meta, buf)
	return buf
}

// UnmarshalIndexMeta deserializes an IndexMeta from bytes.
func UnmarshalIndexMeta(data []byte) (*core.IndexMeta, error) {
	meta, _, err := core.IndexMetaMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &meta, nil
}

// MarshalIndexedDocument serializes an IndexedDocument to bytes.
func MarshalIndexedDocument(entry *core.IndexedDocument) []byte {
	buf := make([]byte, core.IndexedDocumentMUS.Size(*entry))
	core.IndexedDocumentMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalIndexedDocument deserializes an IndexedDocument from bytes.
func UnmarshalIndexedDocument(data []byte) (*core.IndexedDocument, error) {
	entry, _, err := core.IndexedDocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &entry, nil
}
