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

package ledger

import (
	"fmt"

	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
)

type UnlockBlockType uint8

const (
	UnlockBlockTypeSignature UnlockBlockType = 0
	UnlockBlockTypeReference UnlockBlockType = 1
	UnlockBlockTypeAlias     UnlockBlockType = 2
	UnlockBlockTypeNFT       UnlockBlockType = 3
)

const (
	SignatureUnlockBlockMinLength = 1 + Ed25519SignatureLength
	ReferenceUnlockBlockLength    = 1 + serializer.UInt16Size
)

func (t UnlockBlockType) String() string {
	switch t {
	case UnlockBlockTypeSignature:
		return "signature"
	case UnlockBlockTypeReference:
		return "reference"
	case UnlockBlockTypeAlias:
		return "alias"
	case UnlockBlockTypeNFT:
		return "nft"
	default:
		return fmt.Sprintf("unlockBlock(%d)", uint8(t))
	}
}

// UnlockBlock proves the right to spend the input at the same position in the transaction
type UnlockBlock interface {
	Encoder
	Type() UnlockBlockType
	isUnlockBlock()
}

type SignatureUnlockBlock struct {
	Signature Signature
}

// ReferenceUnlockBlock reuses the signature unlock block at index Reference
type ReferenceUnlockBlock struct {
	Reference uint16
}

// AliasUnlockBlock unlocks an input owned by the alias unlocked at index Reference
type AliasUnlockBlock struct {
	Reference uint16
}

// NFTUnlockBlock unlocks an input owned by the NFT unlocked at index Reference
type NFTUnlockBlock struct {
	Reference uint16
}

func (SignatureUnlockBlock) isUnlockBlock() {}
func (ReferenceUnlockBlock) isUnlockBlock() {}
func (AliasUnlockBlock) isUnlockBlock()     {}
func (NFTUnlockBlock) isUnlockBlock()       {}

func (SignatureUnlockBlock) Type() UnlockBlockType { return UnlockBlockTypeSignature }
func (ReferenceUnlockBlock) Type() UnlockBlockType { return UnlockBlockTypeReference }
func (AliasUnlockBlock) Type() UnlockBlockType     { return UnlockBlockTypeAlias }
func (NFTUnlockBlock) Type() UnlockBlockType       { return UnlockBlockTypeNFT }

func (u SignatureUnlockBlock) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(UnlockBlockTypeSignature))
	u.Signature.EncodeTo(w)
}

func (u ReferenceUnlockBlock) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(UnlockBlockTypeReference))
	w.WriteUint16(u.Reference)
}

func (u AliasUnlockBlock) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(UnlockBlockTypeAlias))
	w.WriteUint16(u.Reference)
}

func (u NFTUnlockBlock) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(UnlockBlockTypeNFT))
	w.WriteUint16(u.Reference)
}

// referenceOf returns the index referenced by an unlock block, if it is a referencing variant
func referenceOf(u UnlockBlock) (uint16, bool) {
	switch b := u.(type) {
	case ReferenceUnlockBlock:
		return b.Reference, true
	case AliasUnlockBlock:
		return b.Reference, true
	case NFTUnlockBlock:
		return b.Reference, true
	default:
		return 0, false
	}
}

// DecodeUnlockBlock reads the unlock block type tag and dispatches to the matching variant
func DecodeUnlockBlock(r *serializer.ReadStream, field string) (UnlockBlock, error) {
	tag, err := r.PeekUint8(field + ".type")
	if err != nil {
		return nil, err
	}
	switch UnlockBlockType(tag) {
	case UnlockBlockTypeSignature:
		return DecodeSignatureUnlockBlock(r, field)
	case UnlockBlockTypeReference:
		return DecodeReferenceUnlockBlock(r, field)
	case UnlockBlockTypeAlias:
		return DecodeAliasUnlockBlock(r, field)
	case UnlockBlockTypeNFT:
		return DecodeNFTUnlockBlock(r, field)
	default:
		return nil, &serializer.UnknownVariantError{
			Field: field + ".type",
			Tag:   uint32(tag),
		}
	}
}

func DecodeSignatureUnlockBlock(r *serializer.ReadStream, field string) (SignatureUnlockBlock, error) {
	if err := r.Require(field, SignatureUnlockBlockMinLength); err != nil {
		return SignatureUnlockBlock{}, err
	}
	if err := expectTag8(r, field, uint8(UnlockBlockTypeSignature)); err != nil {
		return SignatureUnlockBlock{}, err
	}
	sig, err := DecodeSignature(r, field+".signature")
	if err != nil {
		return SignatureUnlockBlock{}, err
	}
	return SignatureUnlockBlock{Signature: sig}, nil
}

func DecodeReferenceUnlockBlock(r *serializer.ReadStream, field string) (ReferenceUnlockBlock, error) {
	ref, err := decodeReferencingUnlockBlock(r, field, UnlockBlockTypeReference)
	if err != nil {
		return ReferenceUnlockBlock{}, err
	}
	return ReferenceUnlockBlock{Reference: ref}, nil
}

func DecodeAliasUnlockBlock(r *serializer.ReadStream, field string) (AliasUnlockBlock, error) {
	ref, err := decodeReferencingUnlockBlock(r, field, UnlockBlockTypeAlias)
	if err != nil {
		return AliasUnlockBlock{}, err
	}
	return AliasUnlockBlock{Reference: ref}, nil
}

func DecodeNFTUnlockBlock(r *serializer.ReadStream, field string) (NFTUnlockBlock, error) {
	ref, err := decodeReferencingUnlockBlock(r, field, UnlockBlockTypeNFT)
	if err != nil {
		return NFTUnlockBlock{}, err
	}
	return NFTUnlockBlock{Reference: ref}, nil
}

func decodeReferencingUnlockBlock(
	r *serializer.ReadStream,
	field string,
	blockType UnlockBlockType,
) (uint16, error) {
	if err := r.Require(field, ReferenceUnlockBlockLength); err != nil {
		return 0, err
	}
	if err := expectTag8(r, field, uint8(blockType)); err != nil {
		return 0, err
	}
	return r.ReadUint16(field + ".reference")
}

// UnlockBlocks is the unlock block list of a transaction, one per input
type UnlockBlocks []UnlockBlock

func (u UnlockBlocks) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint16(uint16(len(u)))
	for _, block := range u {
		block.EncodeTo(w)
	}
}

// Signature returns the signature that unlocks the input at index, following a reference unlock
// block to its target. Alias and NFT unlock blocks carry no signature and return nil.
func (u UnlockBlocks) Signature(index int) Signature {
	if index < 0 || index >= len(u) {
		return nil
	}
	switch b := u[index].(type) {
	case SignatureUnlockBlock:
		return b.Signature
	case ReferenceUnlockBlock:
		if int(b.Reference) < index {
			return u.Signature(int(b.Reference))
		}
	}
	return nil
}

func DecodeUnlockBlocks(r *serializer.ReadStream, field string) (UnlockBlocks, error) {
	count, err := readCount16(r, field, MinUnlockBlockCount, MaxUnlockBlockCount)
	if err != nil {
		return nil, err
	}
	ret := make(UnlockBlocks, 0, count)
	seenSigs := make(map[Signature]int)
	for i := range count {
		elemField := fmt.Sprintf("%s[%d]", field, i)
		block, err := DecodeUnlockBlock(r, elemField)
		if err != nil {
			return nil, err
		}
		if err := checkUnlockBlock(ret, block, i, elemField, seenSigs); err != nil {
			return nil, err
		}
		ret = append(ret, block)
	}
	return ret, nil
}

// checkUnlockBlock applies the back-reference and uniqueness rules to the block at position index
func checkUnlockBlock(
	prev UnlockBlocks,
	block UnlockBlock,
	index int,
	field string,
	seenSigs map[Signature]int,
) error {
	if sigBlock, ok := block.(SignatureUnlockBlock); ok {
		if _, dup := seenSigs[sigBlock.Signature]; dup {
			return &serializer.OrderingViolationError{Field: field, Index: index}
		}
		seenSigs[sigBlock.Signature] = index
		return nil
	}
	ref, ok := referenceOf(block)
	if !ok {
		return nil
	}
	if int(ref) >= index {
		return &serializer.InvalidReferenceError{
			Field:     field,
			Index:     index,
			Reference: int(ref),
		}
	}
	if block.Type() == UnlockBlockTypeReference && prev[ref].Type() != UnlockBlockTypeSignature {
		return &serializer.InvalidReferenceError{
			Field:     field,
			Index:     index,
			Reference: int(ref),
		}
	}
	return nil
}

func (u UnlockBlocks) Validate() error {
	if err := common.ValidateCount("unlockBlocks", len(u), MinUnlockBlockCount, MaxUnlockBlockCount); err != nil {
		return err
	}
	seenSigs := make(map[Signature]int)
	for i, block := range u {
		if block == nil {
			return common.NewValidationError(
				common.ValidationErrorTypeVariant,
				fmt.Sprintf("unlock block %d is nil", i),
				nil,
				nil,
			)
		}
		if sigBlock, ok := block.(SignatureUnlockBlock); ok && sigBlock.Signature == nil {
			return common.NewValidationError(
				common.ValidationErrorTypeSignature,
				fmt.Sprintf("signature unlock block %d has no signature", i),
				nil,
				nil,
			)
		}
		if err := checkUnlockBlock(u[:i], block, i, fmt.Sprintf("unlockBlocks[%d]", i), seenSigs); err != nil {
			return common.NewValidationError(
				common.ValidationErrorTypeReference,
				fmt.Sprintf("unlock block %d is invalid", i),
				map[string]any{"index": i},
				err,
			)
		}
	}
	return nil
}
