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
	"slices"

	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
)

const (
	BlockNonceSize = serializer.UInt64Size
	// Protocol version, one parent, empty payload frame and nonce
	BlockMinLength = serializer.UInt8Size + serializer.UInt8Size + common.BlockIdSize +
		serializer.UInt32Size + BlockNonceSize
)

// Block is the unit of data issued to the tangle. The nonce is always the final 8 bytes of its
// encoding and is the only field set after the rest of the block is built.
type Block struct {
	ProtocolVersion uint8
	// Parents must be sorted in strictly increasing order
	Parents []common.BlockId
	Payload Payload
	Nonce   uint64
}

// SortBlockIds sorts ids into the order required for block and milestone parents
func SortBlockIds(ids []common.BlockId) {
	slices.SortFunc(ids, common.CompareBlake2b256)
}

func encodeBlockIds(w *serializer.WriteStream, ids []common.BlockId) {
	w.WriteUint8(uint8(len(ids)))
	for _, id := range ids {
		w.WriteFixed(id[:])
	}
}

func decodeBlockIds(r *serializer.ReadStream, field string) ([]common.BlockId, error) {
	count, err := readCount8(r, field, MinParentCount, MaxParentCount)
	if err != nil {
		return nil, err
	}
	ret := make([]common.BlockId, count)
	for i := range count {
		if err := r.ReadInto(fmt.Sprintf("%s[%d]", field, i), ret[i][:]); err != nil {
			return nil, err
		}
		if i > 0 && common.CompareBlake2b256(ret[i], ret[i-1]) <= 0 {
			return nil, &serializer.OrderingViolationError{Field: field, Index: i}
		}
	}
	return ret, nil
}

func validateBlockIds(field string, ids []common.BlockId) error {
	if err := common.ValidateCount(field, len(ids), MinParentCount, MaxParentCount); err != nil {
		return err
	}
	for i := 1; i < len(ids); i++ {
		if common.CompareBlake2b256(ids[i], ids[i-1]) <= 0 {
			return common.NewOrderingError(field, i)
		}
	}
	return nil
}

func (b *Block) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(b.ProtocolVersion)
	encodeBlockIds(w, b.Parents)
	encodePayloadFrame(w, b.Payload)
	w.WriteUint64(b.Nonce)
}

func (b *Block) Validate() error {
	if b.ProtocolVersion != ProtocolVersion {
		return common.NewValidationError(
			common.ValidationErrorTypeVariant,
			fmt.Sprintf("unsupported protocol version %d", b.ProtocolVersion),
			nil,
			nil,
		)
	}
	if err := validateBlockIds("block.parents", b.Parents); err != nil {
		return err
	}
	if err := validatePayloadType("block.payload", b.Payload, blockPayloadTypes); err != nil {
		return err
	}
	if b.Payload != nil {
		return b.Payload.Validate()
	}
	return nil
}

// SerializeBlock validates the block and returns its canonical bytes
func SerializeBlock(b *Block) ([]byte, error) {
	data, err := Serialize(b)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateLength("block", len(data), BlockMinLength, MaxBlockSize); err != nil {
		return nil, err
	}
	return data, nil
}

// SerializeBlockWithoutNonce returns the block bytes that proof of work commits to
func SerializeBlockWithoutNonce(b *Block) ([]byte, error) {
	data, err := SerializeBlock(b)
	if err != nil {
		return nil, err
	}
	return data[:len(data)-BlockNonceSize], nil
}

// DeserializeBlock decodes a block that must consume all of data
func DeserializeBlock(data []byte) (*Block, error) {
	if len(data) > MaxBlockSize {
		return nil, &serializer.CountOutOfBoundsError{
			Field: "block.length",
			Count: len(data),
			Min:   BlockMinLength,
			Max:   MaxBlockSize,
		}
	}
	return deserialize(data, "block", DecodeBlock)
}

func DecodeBlock(r *serializer.ReadStream) (*Block, error) {
	if err := r.Require("block", BlockMinLength); err != nil {
		return nil, err
	}
	ret := &Block{}
	var err error
	if ret.ProtocolVersion, err = r.ReadUint8("block.protocolVersion"); err != nil {
		return nil, err
	}
	if ret.ProtocolVersion != ProtocolVersion {
		return nil, &serializer.InvalidValueError{
			Field: "block.protocolVersion",
			Value: uint64(ret.ProtocolVersion),
		}
	}
	if ret.Parents, err = decodeBlockIds(r, "block.parents"); err != nil {
		return nil, err
	}
	if ret.Payload, err = decodePayloadFrame(r, "block.payload", blockPayloadTypes); err != nil {
		return nil, wrapDecodeError("block", err)
	}
	if ret.Nonce, err = r.ReadUint64("block.nonce"); err != nil {
		return nil, err
	}
	return ret, nil
}

// Id returns the block ID, the Blake2b-256 hash of the serialized block
func (b *Block) Id() (common.BlockId, error) {
	data, err := SerializeBlock(b)
	if err != nil {
		return common.BlockId{}, err
	}
	return common.Blake2b256Hash(data), nil
}
