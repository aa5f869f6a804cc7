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

package gostardust_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	gostardust "github.com/blinklabs-io/gostardust"
	"github.com/blinklabs-io/gostardust/ledger"
	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/pow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeNodeAPI struct {
	info      *gostardust.NodeInfo
	tips      []common.BlockId
	tipsErr   error
	submitted []*ledger.Block
}

func (f *fakeNodeAPI) Info(ctx context.Context) (*gostardust.NodeInfo, error) {
	return f.info, nil
}

func (f *fakeNodeAPI) Tips(ctx context.Context) ([]common.BlockId, error) {
	return f.tips, f.tipsErr
}

func (f *fakeNodeAPI) SubmitBlock(
	ctx context.Context,
	block *ledger.Block,
) (common.BlockId, error) {
	f.submitted = append(f.submitted, block)
	return block.Id()
}

func tip(b byte) common.BlockId {
	return common.BlockId(bytes.Repeat([]byte{b}, common.BlockIdSize))
}

func taggedData() *ledger.TaggedDataPayload {
	return &ledger.TaggedDataPayload{Tag: []byte("client"), Data: []byte("hello")}
}

func TestNetworkLookup(t *testing.T) {
	assert.Equal(t, gostardust.NetworkShimmer, gostardust.NetworkByName("shimmer"))
	assert.Equal(t, gostardust.NetworkShimmer, gostardust.NetworkByHRP("smr"))
	assert.Equal(t, gostardust.NetworkIotaMainnet, gostardust.NetworkByHRP("iota"))
	assert.Equal(
		t,
		gostardust.NetworkShimmerTestnet,
		gostardust.NetworkById(common.NetworkIdFromName("testnet")),
	)
	assert.Equal(t, gostardust.NetworkInvalid, gostardust.NetworkByName("nope"))
	assert.Equal(t, gostardust.NetworkInvalid, gostardust.NetworkByHRP("nope"))
	assert.Equal(t, "shimmer", gostardust.NetworkShimmer.String())
	assert.Equal(t, uint8(ledger.ProtocolVersion), gostardust.NetworkShimmer.ProtocolVersion)
}

func TestNewRequiresNodeAPI(t *testing.T) {
	_, err := gostardust.New()
	assert.ErrorIs(t, err, gostardust.ErrNoNodeAPI)
}

func TestCheckNetwork(t *testing.T) {
	node := &fakeNodeAPI{
		info: &gostardust.NodeInfo{
			NetworkName:     "shimmer",
			Bech32HRP:       "smr",
			ProtocolVersion: ledger.ProtocolVersion,
		},
	}
	client, err := gostardust.New(
		gostardust.WithNodeAPI(node),
		gostardust.WithNetwork(gostardust.NetworkShimmer),
	)
	require.NoError(t, err)
	info, err := client.CheckNetwork(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "smr", info.Bech32HRP)
	client, err = gostardust.New(
		gostardust.WithNodeAPI(node),
		gostardust.WithNetwork(gostardust.NetworkIotaMainnet),
	)
	require.NoError(t, err)
	_, err = client.CheckNetwork(context.Background())
	assert.ErrorIs(t, err, gostardust.ErrNetworkMismatch)
}

func TestBuildBlockWithoutPow(t *testing.T) {
	node := &fakeNodeAPI{
		tips: []common.BlockId{tip(3), tip(1), tip(2), tip(1)},
	}
	client, err := gostardust.New(
		gostardust.WithNodeAPI(node),
		gostardust.WithMinPowScore(0),
	)
	require.NoError(t, err)
	block, err := client.BuildBlock(context.Background(), taggedData())
	require.NoError(t, err)
	assert.Equal(t, []common.BlockId{tip(1), tip(2), tip(3)}, block.Parents)
	assert.Equal(t, uint64(0), block.Nonce)
	assert.Equal(t, uint8(ledger.ProtocolVersion), block.ProtocolVersion)
	// The node's tip slice is left untouched
	assert.Equal(t, tip(3), node.tips[0])
}

func TestBuildBlockCapsParents(t *testing.T) {
	var tips []common.BlockId
	for i := 20; i > 0; i-- {
		tips = append(tips, tip(byte(i)))
	}
	client, err := gostardust.New(
		gostardust.WithNodeAPI(&fakeNodeAPI{tips: tips}),
		gostardust.WithMinPowScore(0),
	)
	require.NoError(t, err)
	block, err := client.BuildBlock(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, block.Parents, ledger.MaxParentCount)
	assert.Equal(t, tip(1), block.Parents[0])
	assert.Equal(t, tip(8), block.Parents[7])
}

func TestSubmitPayloadWithPow(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := &fakeNodeAPI{tips: []common.BlockId{tip(1)}}
	client, err := gostardust.New(
		gostardust.WithNodeAPI(node),
		gostardust.WithNetwork(gostardust.NetworkShimmer),
		gostardust.WithPowWorker(pow.NewWorker(pow.WithNumWorkers(2))),
		gostardust.WithMinPowScore(1),
	)
	require.NoError(t, err)
	blockId, err := client.SubmitPayload(context.Background(), taggedData())
	require.NoError(t, err)
	require.Len(t, node.submitted, 1)
	blockData, err := ledger.SerializeBlock(node.submitted[0])
	require.NoError(t, err)
	assert.Equal(t, common.Blake2b256Hash(blockData), blockId)
	assert.GreaterOrEqual(t, pow.Score(blockData), 1.0)
}

func TestBuildBlockErrors(t *testing.T) {
	tipsErr := errors.New("node unavailable")
	testDefs := []struct {
		name        string
		node        *fakeNodeAPI
		payload     ledger.Payload
		expectedErr error
	}{
		{
			name:        "no tips",
			node:        &fakeNodeAPI{},
			payload:     taggedData(),
			expectedErr: gostardust.ErrNoTips,
		},
		{
			name:        "tips error",
			node:        &fakeNodeAPI{tipsErr: tipsErr},
			payload:     taggedData(),
			expectedErr: tipsErr,
		},
		{
			name: "transaction for another network",
			node: &fakeNodeAPI{tips: []common.BlockId{tip(1)}},
			payload: &ledger.TransactionPayload{
				Essence: &ledger.TransactionEssence{NetworkId: 1},
			},
			expectedErr: gostardust.ErrNetworkMismatch,
		},
		{
			name:        "nil transaction payload",
			node:        &fakeNodeAPI{tips: []common.BlockId{tip(1)}},
			payload:     (*ledger.TransactionPayload)(nil),
			expectedErr: common.ErrValidation,
		},
		{
			name: "invalid payload",
			node: &fakeNodeAPI{tips: []common.BlockId{tip(1)}},
			payload: &ledger.TaggedDataPayload{
				Tag: bytes.Repeat([]byte{0x01}, ledger.MaxTagLength+1),
			},
			expectedErr: common.ErrValidation,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			client, err := gostardust.New(
				gostardust.WithNodeAPI(testDef.node),
				gostardust.WithMinPowScore(0),
			)
			require.NoError(t, err)
			_, err = client.BuildBlock(context.Background(), testDef.payload)
			assert.ErrorIs(t, err, testDef.expectedErr)
		})
	}
}

func TestBuildBlockPowCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)
	client, err := gostardust.New(
		gostardust.WithNodeAPI(&fakeNodeAPI{tips: []common.BlockId{tip(1)}}),
		gostardust.WithPowWorker(pow.NewWorker(pow.WithNumWorkers(2))),
		gostardust.WithMinPowScore(1e30),
	)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.BuildBlock(ctx, taggedData())
	assert.ErrorIs(t, err, gostardust.ErrPowAborted)
	assert.ErrorIs(t, err, context.Canceled)
}
