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

// Package ledger implements the wire entities of the tangle ledger and their binary codec.
//
// Each entity has an EncodeTo method writing its canonical bytes to a serializer.WriteStream and
// a DecodeX function reading it from a serializer.ReadStream. Polymorphic families (addresses,
// inputs, outputs, unlock conditions, feature blocks, signatures, unlock blocks and payloads) are
// dispatched on their leading type tag, and each container only accepts the variants that are
// permitted in its position.
//
// SerializeX functions validate an entity before encoding it and never return partial output.
// DeserializeX functions require the input to be consumed exactly.
//
// Stardust entities (basic, alias, foundry and NFT outputs, tagged data) and the legacy
// Chrysalis entities (signature locked outputs, indexation) share the same codec so that older
// data returned by a node can still be decoded.
package ledger
