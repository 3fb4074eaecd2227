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


// Package extract pulls plain text out of resume files.
//
// Three formats are supported: PDF (via ledongthuc/pdf), Office Open XML
// .docx (zip + WordprocessingML), and legacy binary .doc (best-effort byte
// scan). Extraction is deliberately forgiving: a file that cannot be parsed
// yields an error for that file only, and the loader decides whether to skip
// it. Extracted text is raw — sanitization and length filtering happen in
// the loader.
package extract
