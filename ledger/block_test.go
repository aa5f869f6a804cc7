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

package ledger_test

import (
	"encoding/binary"
	"testing"

	"github.com/blinklabs-io/gostardust/ledger"
	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockEncoding(t *testing.T) {
	block := testBlock(nil)
	data, err := ledger.SerializeBlock(block)
	require.NoError(t, err)
	assert.Equal(t, uint8(ledger.ProtocolVersion), data[0])
	assert.Equal(t, uint8(3), data[1])
	// Parents, empty payload frame and nonce
	assert.Len(t, data, 2+3*common.BlockIdSize+4+8)
	assert.Equal(t, block.Nonce, binary.LittleEndian.Uint64(data[len(data)-8:]))
	withoutNonce, err := ledger.SerializeBlockWithoutNonce(block)
	require.NoError(t, err)
	assert.Equal(t, data[:len(data)-8], withoutNonce)
	blockId, err := block.Id()
	require.NoError(t, err)
	assert.Equal(t, common.Blake2b256Hash(data), blockId)
}

func TestBlockParentRules(t *testing.T) {
	testDefs := []struct {
		name    string
		parents []common.BlockId
		err     error
	}{
		{
			name:    "no parents",
			parents: nil,
			err:     serializer.ErrCountOutOfBounds,
		},
		{
			name:    "unsorted parents",
			parents: []common.BlockId{testHash(0x02), testHash(0x01)},
			err:     serializer.ErrOrderingViolation,
		},
		{
			name:    "duplicate parents",
			parents: []common.BlockId{testHash(0x01), testHash(0x01)},
			err:     serializer.ErrOrderingViolation,
		},
		{
			name: "too many parents",
			parents: []common.BlockId{
				testHash(0x01), testHash(0x02), testHash(0x03),
				testHash(0x04), testHash(0x05), testHash(0x06),
				testHash(0x07), testHash(0x08), testHash(0x09),
			},
			err: serializer.ErrCountOutOfBounds,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			block := testBlock(nil)
			block.Parents = testDef.parents
			_, err := ledger.SerializeBlock(block)
			assert.ErrorIs(t, err, common.ErrValidation)
			w := serializer.NewWriteStream()
			block.EncodeTo(w)
			// Pad so the minimum length check passes for short parent lists
			data := append(w.Bytes(), make([]byte, ledger.BlockMinLength)...)
			_, err = ledger.DecodeBlock(serializer.NewReadStream(data))
			assert.ErrorIs(t, err, testDef.err)
		})
	}
}

func TestSortBlockIds(t *testing.T) {
	ids := []common.BlockId{testHash(0x03), testHash(0x01), testHash(0x02)}
	ledger.SortBlockIds(ids)
	assert.Equal(t, []common.BlockId{testHash(0x01), testHash(0x02), testHash(0x03)}, ids)
}

func TestBlockProtocolVersion(t *testing.T) {
	block := testBlock(nil)
	block.ProtocolVersion = 1
	_, err := ledger.SerializeBlock(block)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = ledger.DeserializeBlock(encodeUnchecked(block))
	assert.ErrorIs(t, err, serializer.ErrInvalidValue)
}

func TestBlockPayloadRules(t *testing.T) {
	block := testBlock(testReceiptPayload())
	_, err := ledger.SerializeBlock(block)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = ledger.DeserializeBlock(encodeUnchecked(block))
	assert.ErrorIs(t, err, serializer.ErrUnknownVariant)
	for _, payload := range []ledger.Payload{
		(*ledger.TransactionPayload)(nil),
		(*ledger.MilestonePayload)(nil),
		(*ledger.TaggedDataPayload)(nil),
	} {
		assert.True(t, ledger.IsNilPayload(payload))
		_, err = ledger.SerializeBlock(testBlock(payload))
		assert.ErrorIs(t, err, common.ErrValidation)
	}
	assert.False(t, ledger.IsNilPayload(testReceiptPayload()))
}

func TestBlockPayloadFrameTrailingData(t *testing.T) {
	w := serializer.NewWriteStream()
	w.WriteUint8(ledger.ProtocolVersion)
	w.WriteUint8(1)
	parent := testHash(0x01)
	w.WriteFixed(parent[:])
	payload := encodeUnchecked(&ledger.TaggedDataPayload{Data: []byte("data")})
	// Frame length claims one byte more than the payload uses
	w.WriteUint32(uint32(len(payload) + 1))
	w.WriteFixed(payload)
	w.WriteUint8(0x00)
	w.WriteUint64(0)
	_, err := ledger.DeserializeBlock(w.Bytes())
	assert.ErrorIs(t, err, serializer.ErrTrailingData)
}

func TestBlockTooLarge(t *testing.T) {
	block := testBlock(&ledger.TaggedDataPayload{Data: make([]byte, ledger.MaxBlockSize)})
	_, err := ledger.SerializeBlock(block)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = ledger.DeserializeBlock(encodeUnchecked(block))
	assert.ErrorIs(t, err, serializer.ErrCountOutOfBounds)
}
