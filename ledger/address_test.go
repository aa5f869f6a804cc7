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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressBech32(t *testing.T) {
	testDefs := []struct {
		name string
		addr ledger.Address
	}{
		{name: "ed25519", addr: testEd25519Address(0x01)},
		{name: "alias", addr: ledger.AliasAddress(testHash(0x02))},
		{name: "nft", addr: ledger.NFTAddress(testHash(0x03))},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			encoded, err := ledger.AddressToBech32(common.HrpShimmerMainnet, testDef.addr)
			require.NoError(t, err)
			assert.Equal(t, "smr1", encoded[:4])
			hrp, decoded, err := ledger.ParseBech32Address(encoded)
			require.NoError(t, err)
			assert.Equal(t, common.HrpShimmerMainnet, hrp)
			assert.Equal(t, testDef.addr, decoded)
		})
	}
}

func TestParseBech32AddressErrors(t *testing.T) {
	unknownHrp, err := common.Bech32Encode("xyz", ledger.AddressBytes(testEd25519Address(0x01)))
	require.NoError(t, err)
	badAddress, err := common.Bech32Encode(common.HrpMainnet, []byte{0xee, 0x01})
	require.NoError(t, err)
	for _, s := range []string{unknownHrp, badAddress, "iota1qqqq"} {
		_, _, err := ledger.ParseBech32Address(s)
		assert.ErrorIs(t, err, common.ErrInvalidBech32Address, s)
	}
}

func TestEd25519AddressFromPublicKey(t *testing.T) {
	privKey := testPrivateKey(0x01)
	pubKey := privKey.Public().(ed25519.PublicKey)
	addr := ledger.NewEd25519AddressFromPublicKey(pubKey)
	assert.Equal(t, ledger.Ed25519Address(common.Blake2b256Hash(pubKey)), addr)
	sig := ledger.NewEd25519Signature(privKey, []byte("msg"))
	assert.Equal(t, addr, sig.Address())
	assert.Equal(t, ledger.AddressTypeEd25519, addr.Type())
	assert.Equal(t, "Ed25519", addr.Type().String())
}
