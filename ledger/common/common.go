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

package common

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const (
	Blake2b256Size = 32

	BlockIdSize       = Blake2b256Size
	TransactionIdSize = Blake2b256Size
	MilestoneIdSize   = Blake2b256Size
	AliasIdSize       = Blake2b256Size
	NftIdSize         = Blake2b256Size
	// Transaction ID followed by the uint16 output index
	OutputIdSize = TransactionIdSize + 2
	// Alias address (type + alias ID), serial number, token scheme type
	FoundryIdSize = 1 + AliasIdSize + 4 + 1
	TokenIdSize   = FoundryIdSize
)

type Blake2b256 [Blake2b256Size]byte

func NewBlake2b256(data []byte) Blake2b256 {
	b := Blake2b256{}
	copy(b[:], data)
	return b
}

func (b Blake2b256) String() string {
	return hex.EncodeToString(b[:])
}

func (b Blake2b256) Bytes() []byte {
	return b[:]
}

func (b Blake2b256) IsZero() bool {
	return b == Blake2b256{}
}

func (b Blake2b256) MarshalJSON() ([]byte, error) {
	return marshalHexJSON(b[:])
}

func (b *Blake2b256) UnmarshalJSON(data []byte) error {
	return unmarshalHexJSON(b[:], data)
}

// Blake2b256Hash generates a Blake2b-256 hash from the provided data
func Blake2b256Hash(data []byte) Blake2b256 {
	return Blake2b256(blake2b.Sum256(data))
}

// Blake2b256HashMulti hashes the concatenation of the provided byte slices without copying them
func Blake2b256HashMulti(parts ...[]byte) Blake2b256 {
	tmpHash, err := blake2b.New256(nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error generating empty blake2b hash: %s",
				err,
			),
		)
	}
	for _, part := range parts {
		tmpHash.Write(part)
	}
	return Blake2b256(tmpHash.Sum(nil))
}

// BlockId identifies a block by the hash of its serialized bytes
type BlockId = Blake2b256

// TransactionId identifies a transaction payload by the hash of its serialized bytes
type TransactionId = Blake2b256

// MilestoneId identifies a milestone payload by the hash of its essence
type MilestoneId = Blake2b256

// AliasId is the unique identifier of an alias output chain
type AliasId = Blake2b256

// NftId is the unique identifier of an NFT output chain
type NftId = Blake2b256

// OutputId references an output by the transaction that created it and its index
type OutputId [OutputIdSize]byte

func NewOutputId(txId TransactionId, index uint16) OutputId {
	var ret OutputId
	copy(ret[:], txId[:])
	binary.LittleEndian.PutUint16(ret[TransactionIdSize:], index)
	return ret
}

func (o OutputId) TransactionId() TransactionId {
	return NewBlake2b256(o[:TransactionIdSize])
}

func (o OutputId) Index() uint16 {
	return binary.LittleEndian.Uint16(o[TransactionIdSize:])
}

func (o OutputId) String() string {
	return hex.EncodeToString(o[:])
}

func (o OutputId) MarshalJSON() ([]byte, error) {
	return marshalHexJSON(o[:])
}

func (o *OutputId) UnmarshalJSON(data []byte) error {
	return unmarshalHexJSON(o[:], data)
}

// AliasIdFromOutputId returns the ID assigned to a new alias chain created by the given output
func AliasIdFromOutputId(o OutputId) AliasId {
	return Blake2b256Hash(o[:])
}

// NftIdFromOutputId returns the ID assigned to a new NFT chain created by the given output
func NftIdFromOutputId(o OutputId) NftId {
	return Blake2b256Hash(o[:])
}

// FoundryId identifies a foundry and, equivalently, the native token it controls
type FoundryId [FoundryIdSize]byte

// TokenId identifies a native token by the foundry that minted it
type TokenId = FoundryId

func (f FoundryId) String() string {
	return hex.EncodeToString(f[:])
}

func (f FoundryId) Compare(other FoundryId) int {
	return bytes.Compare(f[:], other[:])
}

func (f FoundryId) MarshalJSON() ([]byte, error) {
	return marshalHexJSON(f[:])
}

func (f *FoundryId) UnmarshalJSON(data []byte) error {
	return unmarshalHexJSON(f[:], data)
}

// CompareBlake2b256 orders hashes lexically, which is the order required for block parents
func CompareBlake2b256(a, b Blake2b256) int {
	return bytes.Compare(a[:], b[:])
}

// NetworkIdFromName derives the numeric network ID used in transaction essences from the network name
func NetworkIdFromName(name string) uint64 {
	h := Blake2b256Hash([]byte(name))
	return binary.LittleEndian.Uint64(h[:8])
}

// Node APIs render binary values as 0x-prefixed hex strings
func marshalHexJSON(data []byte) ([]byte, error) {
	return json.Marshal("0x" + hex.EncodeToString(data))
}

func unmarshalHexJSON(dst []byte, data []byte) error {
	var tmp string
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	return DecodeHexInto(dst, tmp)
}

// DecodeHexInto decodes an optionally 0x-prefixed hex string into dst, which it must fill exactly
func DecodeHexInto(dst []byte, s string) error {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != hex.EncodedLen(len(dst)) {
		return fmt.Errorf(
			"invalid hex length: expected %d characters, got %d",
			hex.EncodedLen(len(dst)),
			len(s),
		)
	}
	if _, err := hex.Decode(dst, []byte(s)); err != nil {
		return fmt.Errorf("invalid hex string: %w", err)
	}
	return nil
}
