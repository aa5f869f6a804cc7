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
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync"

	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/utils"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidDigest       = errors.New("invalid proof of work digest")
	ErrInvalidTarget       = errors.New("invalid proof of work target")
	ErrNonceVerification   = errors.New("nonce does not meet target")
	ErrBlockTooShortForPow = errors.New("block too short for proof of work")
)

// Worker searches for a nonce using multiple goroutines. Each goroutine scans a contiguous
// chunk of the nonce space and the first nonce found stops the others.
type Worker struct {
	numWorkers int
	logger     *slog.Logger
}

// WorkerOptionFunc is a type that represents functions that modify the Worker config
type WorkerOptionFunc func(*Worker)

// NewWorker returns a new Worker object with the specified options applied
func NewWorker(options ...WorkerOptionFunc) *Worker {
	w := &Worker{
		numWorkers: runtime.NumCPU(),
	}
	for _, option := range options {
		option(w)
	}
	if w.numWorkers < 1 {
		w.numWorkers = 1
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// WithNumWorkers specifies the number of goroutines used for the nonce search
func WithNumWorkers(numWorkers int) WorkerOptionFunc {
	return func(w *Worker) {
		w.numWorkers = numWorkers
	}
}

// WithLogger specifies the logger object to use
func WithLogger(logger *slog.Logger) WorkerOptionFunc {
	return func(w *Worker) {
		w.logger = logger
	}
}

// NumWorkers returns the number of goroutines used for the nonce search
func (w *Worker) NumWorkers() int {
	return w.numWorkers
}

// Mine searches [start, MaxUint64] for a nonce giving at least targetZeros trailing zero trits.
// A cancelled or exhausted search returns an empty Result and a nil error.
func (w *Worker) Mine(
	ctx context.Context,
	digest []byte,
	targetZeros int,
	start uint64,
) (Result, error) {
	if len(digest) != DigestSize {
		return Result{}, fmt.Errorf(
			"%w: length %d, expected %d",
			ErrInvalidDigest,
			len(digest),
			DigestSize,
		)
	}
	if targetZeros < 0 || targetZeros > CurlHashLength {
		return Result{}, fmt.Errorf("%w: %d trailing zeros", ErrInvalidTarget, targetZeros)
	}
	numWorkers := uint64(w.numWorkers)
	chunkSize := (math.MaxUint64 - start) / numWorkers
	if chunkSize == 0 {
		numWorkers = 1
	}
	var (
		resultMutex sync.Mutex
		result      Result
	)
	doneSignal := utils.NewDoneSignal()
	var eg errgroup.Group
	for i := range numWorkers {
		from := start + i*chunkSize
		to := from + chunkSize - 1
		if i == numWorkers-1 {
			to = math.MaxUint64
		}
		w.logger.Debug(
			fmt.Sprintf("pow worker %d: searching nonces %d to %d", i, from, to),
			"component", "pow",
		)
		eg.Go(func() error {
			// Each goroutine needs its own buffer since the nonce trits are rewritten in place
			buf := newSearchBuffer(digest)
			res := searchRange(ctx, buf, targetZeros, from, to, doneSignal.IsClosed)
			if !res.Found {
				return nil
			}
			resultMutex.Lock()
			if !result.Found {
				result = res
			}
			resultMutex.Unlock()
			doneSignal.Close()
			return nil
		})
	}
	_ = eg.Wait()
	if !result.Found {
		if ctx.Err() == nil {
			w.logger.Warn(
				"pow search exhausted nonce space without reaching target",
				"component", "pow",
				"target_zeros", targetZeros,
			)
		}
		return Result{}, nil
	}
	if !Verify(digest, result.Nonce, targetZeros) {
		return Result{}, fmt.Errorf("%w: nonce %d", ErrNonceVerification, result.Nonce)
	}
	w.logger.Debug(
		fmt.Sprintf("pow: found nonce %d", result.Nonce),
		"component", "pow",
		"target_zeros", targetZeros,
	)
	return result, nil
}

// DoBlockPow computes the nonce for a serialized block without its trailing nonce field. The
// target is derived from the length of the complete block, nonce included.
func DoBlockPow(
	ctx context.Context,
	w *Worker,
	blockWithoutNonce []byte,
	targetScore float64,
) (Result, error) {
	if len(blockWithoutNonce) == 0 {
		return Result{}, ErrBlockTooShortForPow
	}
	if targetScore <= 0 {
		return Result{}, fmt.Errorf("%w: score %f", ErrInvalidTarget, targetScore)
	}
	digest := common.Blake2b256Hash(blockWithoutNonce)
	targetZeros := TargetZeros(len(blockWithoutNonce)+NonceSize, targetScore)
	if targetZeros < 0 {
		targetZeros = 0
	}
	return w.Mine(ctx, digest[:], targetZeros, 0)
}
