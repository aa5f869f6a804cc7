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

package builder_test

import (
	"bytes"
	"testing"

	"github.com/blinklabs-io/gostardust/builder"
	"github.com/blinklabs-io/gostardust/keys"
	"github.com/blinklabs-io/gostardust/ledger"
	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyPair(t *testing.T, b byte) keys.KeyPair {
	t.Helper()
	keyPair, err := keys.NewKeyPairFromSeed(bytes.Repeat([]byte{b}, 32))
	require.NoError(t, err)
	return keyPair
}

func basicOutput(amount uint64, addr ledger.Address) *ledger.BasicOutput {
	return &ledger.BasicOutput{
		Amount: amount,
		UnlockConditions: ledger.UnlockConditions{
			ledger.AddressUnlockCondition{Address: addr},
		},
	}
}

func outputId(b byte, index uint16) common.OutputId {
	return common.NewOutputId(common.Blake2b256(bytes.Repeat([]byte{b}, 32)), index)
}

func TestBuildReusesSignatures(t *testing.T) {
	alice := testKeyPair(t, 0x01)
	bob := testKeyPair(t, 0x02)
	networkId := common.NetworkIdFromName("testnet")
	tx, err := builder.NewTransactionBuilder(builder.WithNetworkId(networkId)).
		AddInput(outputId(0x11, 0), basicOutput(1_000, alice.Address()), alice).
		AddInput(outputId(0x11, 1), basicOutput(2_000, alice.Address()), alice).
		AddInput(outputId(0x12, 0), basicOutput(3_000, bob.Address()), bob).
		AddOutput(basicOutput(6_000, bob.Address())).
		SetTaggedData([]byte("tag"), []byte("data")).
		Build()
	require.NoError(t, err)
	assert.Equal(t, networkId, tx.Essence.NetworkId)
	require.Len(t, tx.UnlockBlocks, 3)
	assert.IsType(t, ledger.SignatureUnlockBlock{}, tx.UnlockBlocks[0])
	assert.Equal(t, ledger.ReferenceUnlockBlock{Reference: 0}, tx.UnlockBlocks[1])
	assert.IsType(t, ledger.SignatureUnlockBlock{}, tx.UnlockBlocks[2])
	require.NoError(t, tx.VerifySignatures())
	assert.Equal(
		t,
		ledger.InputsCommitment([]ledger.Output{
			basicOutput(1_000, alice.Address()),
			basicOutput(2_000, alice.Address()),
			basicOutput(3_000, bob.Address()),
		}),
		tx.Essence.InputsCommitment,
	)
	data, err := ledger.Serialize(tx)
	require.NoError(t, err)
	decoded, err := ledger.NewPayloadFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, tx, decoded)
}

func TestBuildAliasOwnedInput(t *testing.T) {
	controller := testKeyPair(t, 0x01)
	aliasOutputId := outputId(0x21, 0)
	alias := &ledger.AliasOutput{
		Amount: 10_000,
		UnlockConditions: ledger.UnlockConditions{
			ledger.StateControllerAddressUnlockCondition{Address: controller.Address()},
			ledger.GovernorAddressUnlockCondition{Address: controller.Address()},
		},
	}
	aliasAddr := alias.AliasAddress(aliasOutputId)
	next := alias.WithNextState(aliasAddr.AliasId(), nil)
	tx, err := builder.NewTransactionBuilder().
		AddInput(aliasOutputId, alias, controller).
		AddInput(outputId(0x22, 3), basicOutput(5_000, aliasAddr), nil).
		AddOutput(next).
		AddOutput(basicOutput(5_000, controller.Address())).
		Build()
	require.NoError(t, err)
	assert.Equal(t, ledger.AliasUnlockBlock{Reference: 0}, tx.UnlockBlocks[1])
	assert.Equal(t, uint32(1), next.StateIndex)
	require.NoError(t, tx.VerifySignatures())
}

func TestBuildErrors(t *testing.T) {
	alice := testKeyPair(t, 0x01)
	bob := testKeyPair(t, 0x02)
	testDefs := []struct {
		name    string
		builder *builder.TransactionBuilder
		err     error
	}{
		{
			name:    "no inputs",
			builder: builder.NewTransactionBuilder(),
			err:     builder.ErrNoInputs,
		},
		{
			name: "missing signer",
			builder: builder.NewTransactionBuilder().
				AddInput(outputId(0x11, 0), basicOutput(1_000, alice.Address()), nil).
				AddOutput(basicOutput(1_000, alice.Address())),
			err: builder.ErrMissingSigner,
		},
		{
			name: "wrong signer",
			builder: builder.NewTransactionBuilder().
				AddInput(outputId(0x11, 0), basicOutput(1_000, alice.Address()), bob).
				AddOutput(basicOutput(1_000, alice.Address())),
			err: builder.ErrSignerMismatch,
		},
		{
			name: "unbalanced",
			builder: builder.NewTransactionBuilder().
				AddInput(outputId(0x11, 0), basicOutput(1_000, alice.Address()), alice).
				AddOutput(basicOutput(999, alice.Address())),
			err: builder.ErrUnbalanced,
		},
		{
			name: "consumed amounts above supply",
			builder: builder.NewTransactionBuilder().
				AddInput(outputId(0x11, 0), basicOutput(1<<63, alice.Address()), alice).
				AddInput(outputId(0x11, 1), basicOutput(1<<63, alice.Address()), alice).
				AddOutput(basicOutput(0, alice.Address())),
			err: common.ErrValidation,
		},
		{
			name: "output amounts wrap",
			builder: builder.NewTransactionBuilder().
				AddInput(outputId(0x11, 0), basicOutput(1_000, alice.Address()), alice).
				AddOutput(basicOutput(1<<63, alice.Address())).
				AddOutput(basicOutput(1<<63+1_000, alice.Address())),
			err: builder.ErrUnbalanced,
		},
		{
			name: "alias not unlocked",
			builder: builder.NewTransactionBuilder().
				AddInput(
					outputId(0x11, 0),
					basicOutput(1_000, ledger.AliasAddress(outputId(0x21, 0).TransactionId())),
					nil,
				).
				AddOutput(basicOutput(1_000, alice.Address())),
			err: builder.ErrUnresolvedOwner,
		},
		{
			name: "commitment mismatch",
			builder: builder.NewTransactionBuilder(
				builder.WithExpectedInputsCommitment(common.Blake2b256{0x01}),
			).
				AddInput(outputId(0x11, 0), basicOutput(1_000, alice.Address()), alice).
				AddOutput(basicOutput(1_000, alice.Address())),
			err: builder.ErrInputsCommitmentMismatch,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			tx, err := testDef.builder.Build()
			assert.ErrorIs(t, err, testDef.err)
			assert.Nil(t, tx)
		})
	}
}

func TestBuildMatchingCommitment(t *testing.T) {
	alice := testKeyPair(t, 0x01)
	consumed := basicOutput(1_000, alice.Address())
	tx, err := builder.NewTransactionBuilder(
		builder.WithExpectedInputsCommitment(ledger.InputsCommitment([]ledger.Output{consumed})),
	).
		AddInput(outputId(0x11, 0), consumed, alice).
		AddOutput(basicOutput(1_000, alice.Address())).
		Build()
	require.NoError(t, err)
	assert.Len(t, tx.UnlockBlocks, 1)
}
