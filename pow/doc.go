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

// Package pow implements the proof of work used to issue blocks.
//
// A nonce is scored by encoding the Blake2b-256 digest of the block (without its nonce) and the
// little-endian nonce as balanced trits with the b1t6 encoding, hashing them with Curl-P-81 and
// counting the trailing zero trits of the result. The score of a block is 3^zeros divided by its
// length in bytes.
//
// PerformPow is a single goroutine scan. Worker splits the nonce space over several goroutines
// and stops them all as soon as one finds a nonce.
package pow
