/*
 * Copyright 2025 Poiesic Systems
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package badger

import (
	"github.com/poiesic/resumedex/storage"
)

// MemoryStores bundles in-memory repositories for testing.
type MemoryStores struct {
	Backend   *Backend
	Documents storage.DocumentCache
	Index     storage.IndexRepository
}

// NewMemoryStores creates a document cache and index repository backed by a
// single in-memory BadgerDB. Intended for tests.
func NewMemoryStores() (*MemoryStores, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	documents, err := NewDocumentCache(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	index, err := NewIndexRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &MemoryStores{
		Backend:   backend,
		Documents: documents,
		Index:     index,
	}, nil
}

// Close closes the shared backend.
func (m *MemoryStores) Close() error {
	return m.Backend.Close()
}
