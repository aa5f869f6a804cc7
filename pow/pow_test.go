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

package pow_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/blinklabs-io/gostardust/internal/test"
	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/pow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var testDigest = bytes.Repeat([]byte{0x01}, pow.DigestSize)

func TestB1T6Encode(t *testing.T) {
	dst := make([]int8, pow.B1T6EncodedLen(3))
	n := pow.B1T6Encode(dst, []byte{0x01, 0x80, 0xff})
	assert.Equal(t, 18, n)
	assert.Equal(
		t,
		[]int8{
			1, 0, 0, 0, 0, 0,
			1, -1, 1, 1, 1, -1,
			-1, 0, 0, 0, 0, 0,
		},
		dst,
	)
}

func TestPerformPow(t *testing.T) {
	testDefs := []struct {
		targetZeros int
		start       uint64
		expected    uint64
	}{
		{targetZeros: 3, start: 0, expected: 86},
		{targetZeros: 8, start: 4900, expected: 4936},
	}
	for _, testDef := range testDefs {
		res := pow.PerformPow(
			context.Background(),
			testDigest,
			testDef.targetZeros,
			testDef.start,
		)
		require.True(t, res.Found)
		assert.Equal(t, testDef.expected, res.Nonce)
		assert.GreaterOrEqual(
			t,
			pow.TrailingZeros(testDigest, res.Nonce),
			testDef.targetZeros,
		)
		assert.True(t, pow.Verify(testDigest, res.Nonce, testDef.targetZeros))
	}
}

func TestPerformPowCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := pow.PerformPow(ctx, testDigest, pow.CurlHashLength, 0)
	assert.False(t, res.Found)
}

func TestPerformPowInvalidDigest(t *testing.T) {
	res := pow.PerformPow(context.Background(), []byte{0x01}, 0, 0)
	assert.False(t, res.Found)
	assert.Equal(t, 0, pow.TrailingZeros([]byte{0x01}, 0))
}

func TestTargetZeros(t *testing.T) {
	assert.Equal(t, 12, pow.TargetZeros(100, 4000))
	assert.Equal(t, 5, pow.TargetZeros(200, 1))
}

func TestScore(t *testing.T) {
	block := test.RandomBytes(64)
	nonce := binary.LittleEndian.Uint64(block[56:])
	digest := common.Blake2b256Hash(block[:56])
	zeros := pow.TrailingZeros(digest[:], nonce)
	assert.InDelta(t, math.Pow(3, float64(zeros))/64, pow.Score(block), 1e-9)
	assert.Zero(t, pow.Score([]byte{0x01}))
}

func TestWorkerSingleMatchesReference(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := pow.NewWorker(pow.WithNumWorkers(1))
	res, err := w.Mine(context.Background(), testDigest, 3, 0)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, uint64(86), res.Nonce)
}

func TestWorkerParallel(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := pow.NewWorker(pow.WithNumWorkers(4))
	assert.Equal(t, 4, w.NumWorkers())
	res, err := w.Mine(context.Background(), testDigest, 5, 0)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.True(t, pow.Verify(testDigest, res.Nonce, 5))
}

func TestWorkerNearEndOfNonceSpace(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := pow.NewWorker(pow.WithNumWorkers(8))
	// Fewer nonces remain than workers, so a single goroutine takes the whole range
	res, err := w.Mine(context.Background(), testDigest, 0, math.MaxUint64-2)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, uint64(math.MaxUint64-2), res.Nonce)
}

func TestWorkerCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := pow.NewWorker(pow.WithNumWorkers(2))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res, err := w.Mine(ctx, testDigest, pow.CurlHashLength, 0)
	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestWorkerInvalidArguments(t *testing.T) {
	w := pow.NewWorker(pow.WithNumWorkers(0))
	assert.Equal(t, 1, w.NumWorkers())
	_, err := w.Mine(context.Background(), []byte{0x01}, 1, 0)
	assert.ErrorIs(t, err, pow.ErrInvalidDigest)
	_, err = w.Mine(context.Background(), testDigest, pow.CurlHashLength+1, 0)
	assert.ErrorIs(t, err, pow.ErrInvalidTarget)
}

func TestDoBlockPow(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := pow.NewWorker(pow.WithNumWorkers(2))
	blockWithoutNonce := test.RandomBytes(50)
	res, err := pow.DoBlockPow(context.Background(), w, blockWithoutNonce, 1)
	require.NoError(t, err)
	require.True(t, res.Found)
	block := binary.LittleEndian.AppendUint64(
		bytes.Clone(blockWithoutNonce),
		res.Nonce,
	)
	assert.GreaterOrEqual(t, pow.Score(block), 1.0)
	_, err = pow.DoBlockPow(context.Background(), w, nil, 1)
	assert.ErrorIs(t, err, pow.ErrBlockTooShortForPow)
}
