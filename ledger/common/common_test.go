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

package common_test

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"github.com/blinklabs-io/gostardust/internal/test"
	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlake2b256Hash(t *testing.T) {
	assert.Equal(
		t,
		"0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8",
		common.Blake2b256Hash(nil).String(),
	)
	assert.Equal(
		t,
		common.Blake2b256Hash([]byte("stardust")),
		common.Blake2b256HashMulti([]byte("star"), []byte("dust")),
	)
}

func TestOutputId(t *testing.T) {
	txId := common.NewBlake2b256(test.RandomBytes(32))
	outputId := common.NewOutputId(txId, 0x0102)
	assert.Equal(t, txId, outputId.TransactionId())
	assert.Equal(t, uint16(0x0102), outputId.Index())
	assert.Equal(t, []byte{0x02, 0x01}, outputId[32:])
	jsonData, err := json.Marshal(outputId)
	require.NoError(t, err)
	var decoded common.OutputId
	require.NoError(t, json.Unmarshal(jsonData, &decoded))
	assert.Equal(t, outputId, decoded)
}

func TestDecodeHexInto(t *testing.T) {
	var dst [4]byte
	require.NoError(t, common.DecodeHexInto(dst[:], "0x01020304"))
	assert.Equal(t, [4]byte{1, 2, 3, 4}, dst)
	assert.Error(t, common.DecodeHexInto(dst[:], "010203"))
	assert.Error(t, common.DecodeHexInto(dst[:], "zz020304"))
}

func TestUint256Arithmetic(t *testing.T) {
	maxValue, err := common.NewUint256FromBig(
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)),
	)
	require.NoError(t, err)
	_, err = maxValue.Add(common.NewUint256(1))
	assert.ErrorIs(t, err, common.ErrUint256Overflow)
	_, err = common.NewUint256(1).Sub(common.NewUint256(2))
	assert.ErrorIs(t, err, common.ErrUint256Underflow)
	// Carry across words
	sum, err := common.NewUint256(^uint64(0)).Add(common.NewUint256(1))
	require.NoError(t, err)
	assert.Equal(t, common.Uint256{0, 1, 0, 0}, sum)
	assert.Equal(t, "18446744073709551616", sum.String())
	diff, err := sum.Sub(common.NewUint256(1))
	require.NoError(t, err)
	assert.Equal(t, common.NewUint256(^uint64(0)), diff)
	assert.Equal(t, 1, sum.Cmp(diff))
	assert.Equal(t, -1, diff.Cmp(sum))
	assert.Equal(t, 0, sum.Cmp(sum))
}

func TestUint256FromBigRange(t *testing.T) {
	_, err := common.NewUint256FromBig(big.NewInt(-1))
	assert.ErrorIs(t, err, common.ErrUint256Underflow)
	_, err = common.NewUint256FromBig(new(big.Int).Lsh(big.NewInt(1), 256))
	assert.ErrorIs(t, err, common.ErrUint256Overflow)
	v, err := common.NewUint256FromString("0x10000000000000000")
	require.NoError(t, err)
	assert.Equal(t, common.Uint256{0, 1, 0, 0}, v)
	assert.Equal(t, 0, v.Big().Cmp(new(big.Int).Lsh(big.NewInt(1), 64)))
}

func TestUint256Codec(t *testing.T) {
	v := common.NewUint256(0x0102)
	w := serializer.NewWriteStream()
	v.EncodeTo(w)
	assert.Equal(
		t,
		"0201000000000000000000000000000000000000000000000000000000000000",
		w.Hex(),
	)
	r := serializer.NewReadStream(w.Bytes())
	decoded, err := common.DecodeUint256(r, "amount")
	require.NoError(t, err)
	assert.Equal(t, v, decoded)
	_, err = common.DecodeUint256(
		serializer.NewReadStream(make([]byte, 31)),
		"amount",
	)
	assert.ErrorIs(t, err, serializer.ErrTruncatedInput)
}

func TestUint256Json(t *testing.T) {
	jsonData, err := json.Marshal(common.NewUint256(255))
	require.NoError(t, err)
	assert.Equal(t, `"0xff"`, string(jsonData))
	var decoded common.Uint256
	require.NoError(t, json.Unmarshal(jsonData, &decoded))
	assert.Equal(t, common.NewUint256(255), decoded)
	assert.Error(t, json.Unmarshal([]byte(`"255"`), &decoded))
}

func TestVerifyEd25519Signature(t *testing.T) {
	pubKey, privKey, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	msg := []byte("essence hash")
	sig := ed25519.Sign(privKey, msg)
	require.NoError(t, common.VerifyEd25519Signature(pubKey, sig, msg))
	err = common.VerifyEd25519Signature(pubKey, sig, []byte("other message"))
	assert.ErrorIs(t, err, common.ErrSignatureInvalid)
}

func TestVerifyEd25519SignatureRejectsBadKeys(t *testing.T) {
	identity := make([]byte, 32)
	identity[0] = 0x01
	testDefs := []struct {
		name   string
		pubKey []byte
	}{
		{name: "short key", pubKey: make([]byte, 31)},
		{name: "small order identity point", pubKey: identity},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			err := common.VerifyEd25519Signature(
				testDef.pubKey,
				make([]byte, 64),
				[]byte("msg"),
			)
			assert.ErrorIs(t, err, common.ErrInvalidPublicKey)
		})
	}
}

func TestBech32RoundTrip(t *testing.T) {
	data := append([]byte{0x00}, test.RandomBytes(32)...)
	for _, hrp := range []string{
		common.HrpMainnet,
		common.HrpTestnet,
		common.HrpShimmerMainnet,
		common.HrpShimmerTestnet,
	} {
		encoded, err := common.Bech32Encode(hrp, data)
		require.NoError(t, err)
		decodedHrp, decoded, err := common.Bech32Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, hrp, decodedHrp)
		assert.Equal(t, data, decoded)
		assert.True(t, common.IsKnownHrp(decodedHrp))
	}
	_, _, err := common.Bech32Decode("iota1notvalid")
	assert.ErrorIs(t, err, common.ErrInvalidBech32Address)
}

func TestValidationError(t *testing.T) {
	err := common.ValidateCount("inputs", 0, 1, 128)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
	var valErr *common.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, common.ValidationErrorTypeCount, valErr.Type)
	assert.Equal(t, 0, valErr.Details["count"])
	assert.NoError(t, common.ValidateLength("tag", 64, 0, 64))
	assert.Error(t, common.ValidateAmount("amount", 2779530283277762, 2779530283277761))
}
