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

// Package search answers natural-language queries over an in-memory index.
//
// A query is embedded, matched against the index by cosine similarity, and
// the top hits are formatted into result records. When synthesis is enabled
// the hits are also passed to an LLM to produce a grounded natural-language
// answer; synthesis is best effort and never fails a query.
package search
