// Copyright 2025 Blink Labs Software
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

// Package serializer provides the byte-stream primitives used by the ledger wire codec.
//
// # Key Types
//
//   - ReadStream: bounds-checked read cursor over an immutable byte slice
//   - WriteStream: growable buffer whose writes never fail
//
// All integers are little-endian, independent of the host architecture.
//
// # Errors
//
// Every read checks the remaining length before touching the buffer and returns a
// *TruncatedInputError carrying the required and available byte counts. The remaining
// decode errors (type mismatch, unknown variant, ordering, counts, references) are defined
// here as well so that every package that decodes wire data reports them the same way.
// Use errors.Is with the Err* sentinels to classify them:
//
//	if errors.Is(err, serializer.ErrTruncatedInput) {
//	    // wait for more data
//	}
package serializer
