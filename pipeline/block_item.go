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

package pipeline

import (
	"slices"
	"sync"
	"time"

	"github.com/blinklabs-io/gostardust/ledger"
	"github.com/blinklabs-io/gostardust/ledger/common"
)

// BlockItem represents a block as it moves through the pipeline.
// It is thread-safe and tracks the result of each stage.
type BlockItem struct {
	// Set at construction and never modified
	rawBlock       []byte
	sequenceNumber uint64
	receivedAt     time.Time

	mu sync.RWMutex

	// Decode stage results
	block          *ledger.Block
	blockId        common.BlockId
	decodeError    error
	decodeDuration time.Duration

	// Validate stage results
	valid            bool
	powScore         float64
	validationError  error
	validateDuration time.Duration

	// Apply stage results
	applied       bool
	applyError    error
	applyDuration time.Duration
}

// NewBlockItem creates a new BlockItem. The raw block is copied so the item owns its data.
func NewBlockItem(rawBlock []byte, seq uint64) *BlockItem {
	return &BlockItem{
		rawBlock:       slices.Clone(rawBlock),
		sequenceNumber: seq,
		receivedAt:     time.Now(),
	}
}

// RawBlock returns the raw block bytes. The returned slice should not be modified.
func (b *BlockItem) RawBlock() []byte {
	return b.rawBlock
}

func (b *BlockItem) SequenceNumber() uint64 {
	return b.sequenceNumber
}

func (b *BlockItem) ReceivedAt() time.Time {
	return b.receivedAt
}

// Block returns the decoded block, or nil if not yet decoded or decode failed.
func (b *BlockItem) Block() *ledger.Block {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.block
}

// BlockId returns the ID of the decoded block
func (b *BlockItem) BlockId() common.BlockId {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.blockId
}

// SetBlock sets the decoded block and clears any decode error.
func (b *BlockItem) SetBlock(block *ledger.Block, blockId common.BlockId, duration time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.block = block
	b.blockId = blockId
	b.decodeError = nil
	b.decodeDuration = duration
}

func (b *BlockItem) DecodeError() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.decodeError
}

// SetDecodeError sets the decode error and clears any decoded block.
func (b *BlockItem) SetDecodeError(err error, duration time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.block = nil
	b.blockId = common.BlockId{}
	b.decodeError = err
	b.decodeDuration = duration
}

func (b *BlockItem) DecodeDuration() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.decodeDuration
}

// IsDecoded returns true if the block has been successfully decoded.
func (b *BlockItem) IsDecoded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.block != nil
}

// Milestone returns the milestone carried by the block, if any
func (b *BlockItem) Milestone() (*ledger.MilestonePayload, bool) {
	block := b.Block()
	if block == nil {
		return nil, false
	}
	ms, ok := block.Payload.(*ledger.MilestonePayload)
	return ms, ok
}

// SetValidation sets the validation result and the PoW score computed for the block.
func (b *BlockItem) SetValidation(valid bool, powScore float64, err error, duration time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.valid = valid
	b.powScore = powScore
	b.validationError = err
	b.validateDuration = duration
}

func (b *BlockItem) IsValid() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.valid
}

func (b *BlockItem) ValidationError() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.validationError
}

func (b *BlockItem) ValidateDuration() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.validateDuration
}

// PowScore returns the PoW score computed during validation
func (b *BlockItem) PowScore() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.powScore
}

func (b *BlockItem) SetApplied(applied bool, err error, duration time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.applied = applied
	b.applyError = err
	b.applyDuration = duration
}

func (b *BlockItem) IsApplied() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.applied
}

func (b *BlockItem) ApplyError() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.applyError
}

func (b *BlockItem) ApplyDuration() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.applyDuration
}

// TotalDuration returns the time elapsed since the block was received.
func (b *BlockItem) TotalDuration() time.Duration {
	return time.Since(b.receivedAt)
}
