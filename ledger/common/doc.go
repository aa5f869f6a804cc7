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

// Package common provides the types shared by every ledger entity.
//
// # Key Files by Purpose
//
//   - common.go: Blake2b-256 hash oracle and the identifier types built on it (block, transaction,
//     output, alias, NFT and foundry IDs), network ID derivation
//   - uint256.go: 256-bit unsigned token amounts with checked arithmetic
//   - bech32.go: bech32 encoding and the human readable parts of the known networks
//   - verify.go: Ed25519 signature oracle with public key checks
//   - verify_config.go: ValidationError and the count, length and amount checks used before encoding
//   - errors.go: error types and sentinels
//
// # Common Patterns
//
// Identifiers are fixed-size arrays so they can be compared and used as map keys. They render
// as 0x-prefixed hex in JSON, matching what nodes return.
//
// Validation failures are *ValidationError values that match ErrValidation:
//
//	if errors.Is(err, common.ErrValidation) {
//	    // the entity was rejected before anything was written
//	}
package common
