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

// Package pipeline provides a concurrent ingest pipeline for raw blocks fetched from a node.
// Blocks are decoded and validated in parallel and then applied in submission order.
package pipeline

import (
	"context"
	"time"
)

// Stage represents a processing stage in the block pipeline.
type Stage interface {
	// Name returns the name of the stage for metrics.
	Name() string
	// Process processes a single block item. Returns an error if processing fails.
	Process(ctx context.Context, item *BlockItem) error
}

// StageFunc is an adapter that allows using ordinary functions as Stage implementations.
type StageFunc struct {
	name string
	fn   func(ctx context.Context, item *BlockItem) error
}

// NewStageFunc creates a new StageFunc with the given name and processing function.
func NewStageFunc(name string, fn func(ctx context.Context, item *BlockItem) error) *StageFunc {
	return &StageFunc{
		name: name,
		fn:   fn,
	}
}

func (s *StageFunc) Name() string {
	return s.name
}

func (s *StageFunc) Process(ctx context.Context, item *BlockItem) error {
	return s.fn(ctx, item)
}

// Pipeline represents a block ingest pipeline.
type Pipeline interface {
	Start(ctx context.Context) error
	// Submit submits raw block bytes for processing. The context allows callers to give up
	// when the pipeline is full and applying backpressure.
	Submit(ctx context.Context, rawBlock []byte) error
	Results() <-chan *BlockItem
	Errors() <-chan error
	Stop() error
	WaitForDrain(ctx context.Context) error
	Stats() PipelineStats
}

// PipelineStats contains statistics about pipeline throughput.
type PipelineStats struct {
	BlocksSubmitted  uint64
	BlocksDecoded    uint64
	BlocksValidated  uint64
	BlocksApplied    uint64
	DecodeErrors     uint64
	ValidationErrors uint64
	ApplyErrors      uint64
	// MilestonesValidated counts blocks carrying a milestone whose signatures were verified
	MilestonesValidated uint64
	// BlocksBelowMinPow counts blocks skipped because their PoW score was below the minimum
	BlocksBelowMinPow uint64
	// LastMilestoneIndex is the index of the last milestone applied
	LastMilestoneIndex uint32

	// CurrentQueueDepth is the current number of blocks in the inter-stage channels.
	CurrentQueueDepth int
	// PeakQueueDepth is the maximum queue depth observed.
	PeakQueueDepth int

	// LastBlockTime is the time the last block was applied.
	LastBlockTime time.Time
	StartTime     time.Time
}
