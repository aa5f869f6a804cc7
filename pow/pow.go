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

package pow

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/blinklabs-io/gostardust/ledger/common"
)

const (
	DigestSize = common.Blake2b256Size
	NonceSize  = 8

	digestTrits = DigestSize * TritsPerByte
	nonceTrits  = NonceSize * TritsPerByte

	// How many nonces are tried between cancellation checks
	checkInterval = 1 << 10
)

// Result is the outcome of a nonce search. A search that was cancelled or exhausted its nonce
// range returns Found == false, which is not an error.
type Result struct {
	Found bool
	Nonce uint64
}

// searchBuffer holds the trits hashed for each candidate nonce. The digest trits are encoded
// once; only the nonce trits change between candidates.
type searchBuffer [CurlHashLength]int8

func newSearchBuffer(digest []byte) *searchBuffer {
	var buf searchBuffer
	B1T6Encode(buf[:digestTrits], digest)
	return &buf
}

func (b *searchBuffer) trailingZeros(nonce uint64) int {
	var nonceBytes [NonceSize]byte
	binary.LittleEndian.PutUint64(nonceBytes[:], nonce)
	B1T6Encode(b[digestTrits:digestTrits+nonceTrits], nonceBytes[:])
	hash := curlHash((*[CurlHashLength]int8)(b))
	zeros := 0
	for i := CurlHashLength - 1; i >= 0 && hash[i] == 0; i-- {
		zeros++
	}
	return zeros
}

// TrailingZeros returns the number of trailing zero trits in the Curl-P-81 hash of the digest
// followed by the little-endian nonce, both encoded as b1t6 trits. A digest of the wrong size
// has no trailing zeros.
func TrailingZeros(digest []byte, nonce uint64) int {
	if len(digest) != DigestSize {
		return 0
	}
	return newSearchBuffer(digest).trailingZeros(nonce)
}

// Verify reports whether nonce meets targetZeros for digest
func Verify(digest []byte, nonce uint64, targetZeros int) bool {
	return TrailingZeros(digest, nonce) >= targetZeros
}

// Score returns the proof of work score of a complete block: 3^zeros divided by the block length.
// The nonce is the final 8 bytes of the block and the digest is the Blake2b-256 hash of the rest.
func Score(block []byte) float64 {
	if len(block) < NonceSize {
		return 0
	}
	powData := block[:len(block)-NonceSize]
	nonce := binary.LittleEndian.Uint64(block[len(block)-NonceSize:])
	digest := common.Blake2b256Hash(powData)
	zeros := TrailingZeros(digest[:], nonce)
	return math.Pow(3, float64(zeros)) / float64(len(block))
}

// TargetZeros returns the number of trailing zero trits a block of the given length needs to
// reach targetScore
func TargetZeros(length int, targetScore float64) int {
	return int(math.Ceil(math.Log(float64(length)*targetScore) / math.Log(3)))
}

// PerformPow scans nonces upward from start and returns the first one whose hash has at least
// targetZeros trailing zero trits. It returns an empty Result if ctx is cancelled first.
func PerformPow(ctx context.Context, digest []byte, targetZeros int, start uint64) Result {
	if len(digest) != DigestSize {
		return Result{}
	}
	return searchRange(ctx, newSearchBuffer(digest), targetZeros, start, math.MaxUint64, nil)
}

// searchRange scans [from, to] in increasing order. It stops early when ctx is done or when
// stop reports true.
func searchRange(
	ctx context.Context,
	buf *searchBuffer,
	targetZeros int,
	from uint64,
	to uint64,
	stop func() bool,
) Result {
	nonce := from
	for i := 0; ; i++ {
		if i%checkInterval == 0 {
			if ctx.Err() != nil {
				return Result{}
			}
			if stop != nil && stop() {
				return Result{}
			}
		}
		if buf.trailingZeros(nonce) >= targetZeros {
			return Result{Found: true, Nonce: nonce}
		}
		if nonce == to {
			return Result{}
		}
		nonce++
	}
}
