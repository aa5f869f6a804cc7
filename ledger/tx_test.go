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
	"encoding/hex"
	"testing"

	"github.com/blinklabs-io/gostardust/internal/test"
	"github.com/blinklabs-io/gostardust/ledger"
	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEssenceHex = "0101000000000000000100001111111111111111111111111111111111111111111111111111111111111111" +
		"0000222222222222222222222222222222222222222222222222222222222222222201000340420f000000000000" +
		"01000033333333333333333333333333333333333333333333333333333333333333330000000000"
	testEssenceHash = "c3717383caaff1e3427270ed45d2c4fdf5e1e5eb47762e83edf8d69f337a3045"
)

func TestTransactionEssenceGolden(t *testing.T) {
	data, err := ledger.SerializeTransactionEssence(testEssence())
	require.NoError(t, err)
	assert.Equal(t, test.DecodeHexString(testEssenceHex), data)
	hash, err := testEssence().Hash()
	require.NoError(t, err)
	assert.Equal(t, testEssenceHash, hash.String())
	decoded, err := ledger.DeserializeTransactionEssence(data)
	require.NoError(t, err)
	assert.Equal(t, testEssence(), decoded)
}

func TestInputsCommitment(t *testing.T) {
	consumed := []ledger.Output{
		testSimpleBasicOutput(1_000_000, testEd25519Address(0x33)),
	}
	assert.Equal(
		t,
		"2ed737d527c36f7e14994ba8724678059b34c628f993d3dcc854bcb48b31e91b",
		ledger.InputsCommitment(consumed).String(),
	)
	// Order of the consumed outputs is significant
	other := testSimpleBasicOutput(5, testEd25519Address(0x44))
	assert.NotEqual(
		t,
		ledger.InputsCommitment([]ledger.Output{consumed[0], other}),
		ledger.InputsCommitment([]ledger.Output{other, consumed[0]}),
	)
}

func TestTransactionEssenceValidate(t *testing.T) {
	testDefs := []struct {
		name    string
		modify  func(*ledger.TransactionEssence)
		errType common.ValidationErrorType
	}{
		{
			name: "no inputs",
			modify: func(e *ledger.TransactionEssence) {
				e.Inputs = nil
			},
			errType: common.ValidationErrorTypeCount,
		},
		{
			name: "duplicate input",
			modify: func(e *ledger.TransactionEssence) {
				e.Inputs = append(e.Inputs, e.Inputs[0])
			},
			errType: common.ValidationErrorTypeOrdering,
		},
		{
			name: "treasury input",
			modify: func(e *ledger.TransactionEssence) {
				e.Inputs = []ledger.Input{ledger.TreasuryInput{}}
			},
			errType: common.ValidationErrorTypeVariant,
		},
		{
			name: "treasury output",
			modify: func(e *ledger.TransactionEssence) {
				e.Outputs = []ledger.Output{&ledger.TreasuryOutput{Amount: 1}}
			},
			errType: common.ValidationErrorTypeVariant,
		},
		{
			name: "outputs exceed supply",
			modify: func(e *ledger.TransactionEssence) {
				e.Outputs = []ledger.Output{
					testSimpleBasicOutput(ledger.MaxTokenSupply, testEd25519Address(0x01)),
					testSimpleBasicOutput(1, testEd25519Address(0x02)),
				}
			},
			errType: common.ValidationErrorTypeAmount,
		},
		{
			name: "milestone payload",
			modify: func(e *ledger.TransactionEssence) {
				e.Payload = testMilestonePayload()
			},
			errType: common.ValidationErrorTypeVariant,
		},
		{
			name: "output index out of range",
			modify: func(e *ledger.TransactionEssence) {
				e.Inputs = []ledger.Input{
					ledger.UTXOInput{TransactionId: testHash(0x01), OutputIndex: 128},
				}
			},
			errType: common.ValidationErrorTypeReference,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			essence := testEssence()
			testDef.modify(essence)
			_, err := ledger.SerializeTransactionEssence(essence)
			require.ErrorIs(t, err, common.ErrValidation)
			var valErr *common.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, testDef.errType, valErr.Type)
		})
	}
}

func TestDecodeTransactionEssenceRules(t *testing.T) {
	testDefs := []struct {
		name   string
		modify func(*ledger.TransactionEssence)
		err    error
	}{
		{
			name: "duplicate input",
			modify: func(e *ledger.TransactionEssence) {
				e.Inputs = append(e.Inputs, e.Inputs[0])
			},
			err: serializer.ErrOrderingViolation,
		},
		{
			name: "outputs exceed supply",
			modify: func(e *ledger.TransactionEssence) {
				e.Outputs = []ledger.Output{
					testSimpleBasicOutput(ledger.MaxTokenSupply, testEd25519Address(0x01)),
					testSimpleBasicOutput(1, testEd25519Address(0x02)),
				}
			},
			err: serializer.ErrInvalidValue,
		},
		{
			name: "wrapping output amounts",
			modify: func(e *ledger.TransactionEssence) {
				e.Outputs = []ledger.Output{
					testSimpleBasicOutput(1<<63, testEd25519Address(0x01)),
					testSimpleBasicOutput(1<<63, testEd25519Address(0x02)),
				}
			},
			err: serializer.ErrInvalidValue,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			essence := testEssence()
			testDef.modify(essence)
			_, err := ledger.DeserializeTransactionEssence(encodeUnchecked(essence))
			assert.ErrorIs(t, err, testDef.err)
		})
	}
}

func TestDecodeTransactionEssenceRejectsTreasuryInput(t *testing.T) {
	w := serializer.NewWriteStream()
	w.WriteUint8(ledger.TransactionEssenceTypeNormal)
	w.WriteUint64(1)
	w.WriteUint16(1)
	ledger.TreasuryInput{MilestoneId: testHash(0x01)}.EncodeTo(w)
	w.WriteFixed(make([]byte, common.Blake2b256Size))
	w.WriteUint16(1)
	testSimpleBasicOutput(1, testEd25519Address(0x01)).EncodeTo(w)
	w.WriteUint32(0)
	_, err := ledger.DeserializeTransactionEssence(w.Bytes())
	assert.ErrorIs(t, err, serializer.ErrUnknownVariant)
}

func TestTransactionPayload(t *testing.T) {
	tx := testTransactionPayload()
	require.NoError(t, tx.VerifySignatures())
	txId, err := tx.Id()
	require.NoError(t, err)
	outputIds, err := tx.OutputIds()
	require.NoError(t, err)
	require.Len(t, outputIds, 3)
	for i, outputId := range outputIds {
		assert.Equal(t, txId, outputId.TransactionId())
		assert.Equal(t, uint16(i), outputId.Index())
	}
	// The reference unlock block resolves to the signature it points at
	assert.Equal(t, tx.UnlockBlocks.Signature(0), tx.UnlockBlocks.Signature(1))
	assert.Nil(t, tx.UnlockBlocks.Signature(2))
}

func TestTransactionPayloadBadSignature(t *testing.T) {
	tx := testTransactionPayload()
	tx.UnlockBlocks[0] = ledger.SignatureUnlockBlock{
		Signature: ledger.NewEd25519Signature(testPrivateKey(0x01), []byte("other")),
	}
	err := tx.VerifySignatures()
	require.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorIs(t, err, common.ErrSignatureInvalid)
}

func TestTransactionPayloadUnlockBlockCountMismatch(t *testing.T) {
	tx := testTransactionPayload()
	tx.UnlockBlocks = tx.UnlockBlocks[:2]
	_, err := ledger.Serialize(tx)
	require.ErrorIs(t, err, common.ErrValidation)
	// Encode without validation to check the decoder enforces the same rule
	w := serializer.NewWriteStream()
	tx.EncodeTo(w)
	_, err = ledger.NewPayloadFromBytes(w.Bytes())
	assert.ErrorIs(t, err, serializer.ErrCountOutOfBounds)
}

func TestUnlockBlockRules(t *testing.T) {
	sig1 := ledger.SignatureUnlockBlock{
		Signature: ledger.NewEd25519Signature(testPrivateKey(0x01), []byte("msg")),
	}
	sig2 := ledger.SignatureUnlockBlock{
		Signature: ledger.NewEd25519Signature(testPrivateKey(0x02), []byte("msg")),
	}
	testDefs := []struct {
		name   string
		blocks ledger.UnlockBlocks
		err    error
	}{
		{
			name:   "valid",
			blocks: ledger.UnlockBlocks{sig1, ledger.ReferenceUnlockBlock{Reference: 0}, sig2},
		},
		{
			name:   "self reference",
			blocks: ledger.UnlockBlocks{ledger.ReferenceUnlockBlock{Reference: 0}},
			err:    serializer.ErrInvalidReference,
		},
		{
			name:   "forward reference",
			blocks: ledger.UnlockBlocks{sig1, ledger.AliasUnlockBlock{Reference: 2}, sig2},
			err:    serializer.ErrInvalidReference,
		},
		{
			name: "reference to non-signature block",
			blocks: ledger.UnlockBlocks{
				sig1,
				ledger.NFTUnlockBlock{Reference: 0},
				ledger.ReferenceUnlockBlock{Reference: 1},
			},
			err: serializer.ErrInvalidReference,
		},
		{
			name:   "duplicate signature",
			blocks: ledger.UnlockBlocks{sig1, sig1},
			err:    serializer.ErrOrderingViolation,
		},
		{
			name:   "empty",
			blocks: ledger.UnlockBlocks{},
			err:    serializer.ErrCountOutOfBounds,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			w := serializer.NewWriteStream()
			testDef.blocks.EncodeTo(w)
			decoded, err := ledger.DecodeUnlockBlocks(
				serializer.NewReadStream(w.Bytes()),
				"unlockBlocks",
			)
			valErr := testDef.blocks.Validate()
			if testDef.err == nil {
				require.NoError(t, err)
				assert.Equal(t, testDef.blocks, decoded)
				assert.NoError(t, valErr)
				return
			}
			assert.ErrorIs(t, err, testDef.err)
			assert.ErrorIs(t, valErr, common.ErrValidation)
		})
	}
}

func TestTaggedDataLimits(t *testing.T) {
	_, err := ledger.Serialize(&ledger.TaggedDataPayload{
		Tag: make([]byte, ledger.MaxTagLength+1),
	})
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = ledger.Serialize(&ledger.IndexationPayload{})
	assert.ErrorIs(t, err, common.ErrValidation)
	// An empty tag and empty data are allowed and decode as nil
	data, err := ledger.Serialize(&ledger.TaggedDataPayload{})
	require.NoError(t, err)
	assert.Equal(t, "050000000000000000", hex.EncodeToString(data))
}
