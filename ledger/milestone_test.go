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
	"crypto/ed25519"
	"testing"

	"github.com/blinklabs-io/gostardust/ledger"
	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func milestoneKeys(b ...byte) [][ed25519.PublicKeySize]byte {
	ret := make([][ed25519.PublicKeySize]byte, 0, len(b))
	for _, v := range b {
		var key [ed25519.PublicKeySize]byte
		copy(key[:], testPrivateKey(v).Public().(ed25519.PublicKey))
		ret = append(ret, key)
	}
	return ret
}

func TestMilestoneSignatures(t *testing.T) {
	m := testMilestonePayload()
	require.NoError(t, m.VerifySignatures(2, milestoneKeys(0x01, 0x02, 0x03)))
	// Not enough signatures
	assert.ErrorIs(t, m.VerifySignatures(3, milestoneKeys(0x01, 0x02, 0x03)), common.ErrValidation)
	// Signature from a key that is not applicable
	assert.ErrorIs(t, m.VerifySignatures(1, milestoneKeys(0x01)), common.ErrValidation)
	// Changing the essence invalidates the signatures
	m.Index++
	assert.ErrorIs(t, m.VerifySignatures(2, milestoneKeys(0x01, 0x02)), common.ErrSignatureInvalid)
}

func TestMilestoneIdExcludesSignatures(t *testing.T) {
	m := testMilestonePayload()
	msId := m.Id()
	m.Signatures = m.Signatures[:1]
	assert.Equal(t, msId, m.Id())
	data, err := ledger.Serialize(m)
	require.NoError(t, err)
	// Essence starts after the type tag
	assert.Equal(t, m.Essence(), data[4:4+len(m.Essence())])
}

func TestMilestoneSignatureOrdering(t *testing.T) {
	m := testMilestonePayload()
	m.Signatures[0], m.Signatures[1] = m.Signatures[1], m.Signatures[0]
	_, err := ledger.Serialize(m)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = ledger.NewPayloadFromBytes(encodeUnchecked(m))
	assert.ErrorIs(t, err, serializer.ErrOrderingViolation)
}

func TestReceiptRules(t *testing.T) {
	receipt := testReceiptPayload()
	assert.Equal(t, uint64(3_000_000), receipt.Sum())
	receipt.Funds[0], receipt.Funds[1] = receipt.Funds[1], receipt.Funds[0]
	_, err := ledger.Serialize(receipt)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = ledger.NewPayloadFromBytes(encodeUnchecked(receipt))
	assert.ErrorIs(t, err, serializer.ErrOrderingViolation)
	receipt = testReceiptPayload()
	receipt.Funds[1].Deposit = ledger.MaxTokenSupply
	_, err = ledger.Serialize(receipt)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = ledger.NewPayloadFromBytes(encodeUnchecked(receipt))
	assert.ErrorIs(t, err, serializer.ErrInvalidValue)
	receipt = testReceiptPayload()
	receipt.Transaction = nil
	_, err = ledger.Serialize(receipt)
	assert.ErrorIs(t, err, common.ErrValidation)
}
