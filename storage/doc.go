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


// Package storage provides the storage abstraction layer for resumedex.
//
// It defines the two repository interfaces the pipeline persists through:
//
//   - DocumentCache: clean document sets, keyed by source directory,
//     written and read wholesale
//   - IndexRepository: semantic index snapshots (document + vector pairs
//     plus metadata), at most one per repository
//
// Constructors in implementation packages (storage/badger) return these
// interfaces rather than concrete types, so the pipeline never couples to a
// particular backend and tests can swap in in-memory stores.
//
// Both artifacts have a single producer step and any number of read-only
// consumers. Writer-writer concurrency against the same paths is not
// supported; callers serialize pipeline runs externally.
package storage
