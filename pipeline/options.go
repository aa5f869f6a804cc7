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
	"runtime"
)

// DefaultMaxPendingBlocks is the default limit for out-of-order blocks buffered in the apply
// stage
const DefaultMaxPendingBlocks = 1024

// PipelineConfig holds configuration for a BlockPipeline.
type PipelineConfig struct {
	DecodeWorkers int
	// ValidateWorkers of 0 disables the validate stage
	ValidateWorkers int
	// PrefetchBufferSize is the buffer size of the inter-stage channels.
	PrefetchBufferSize int
	// MaxPendingBlocks limits out-of-order blocks buffered in the apply stage.
	MaxPendingBlocks int
	// MinPowScore is the minimum PoW score checked by the validate stage. 0 disables the check
	MinPowScore float64
	// MilestoneKeyProvider supplies the keys used to verify milestone signatures
	MilestoneKeyProvider MilestoneKeyProvider
	// ConfirmedMilestoneIndex is the last milestone the caller has applied. Milestones at or
	// below it are not applied again
	ConfirmedMilestoneIndex uint32
	// ApplyFunc is called to apply blocks in order.
	ApplyFunc ApplyFunc
}

// DefaultPipelineConfig returns a PipelineConfig with sensible defaults. Validation is
// enabled with one worker per CPU.
func DefaultPipelineConfig() PipelineConfig {
	numCPU := runtime.NumCPU()
	return PipelineConfig{
		// Decoding is much cheaper than validation
		DecodeWorkers:      max(numCPU/4, 2),
		ValidateWorkers:    numCPU,
		PrefetchBufferSize: 256,
		MaxPendingBlocks:   DefaultMaxPendingBlocks,
	}
}

// PipelineOption is a functional option for configuring a BlockPipeline.
type PipelineOption func(*PipelineConfig)

// WithConfig replaces all values with config. Options applied after it still override it.
func WithConfig(config PipelineConfig) PipelineOption {
	return func(c *PipelineConfig) {
		*c = config
	}
}

func WithDecodeWorkers(n int) PipelineOption {
	return func(c *PipelineConfig) {
		if n > 0 {
			c.DecodeWorkers = n
		}
	}
}

// WithValidateWorkers sets the number of validate workers. 0 disables validation, which is only
// appropriate for blocks from a trusted node.
func WithValidateWorkers(n int) PipelineOption {
	return func(c *PipelineConfig) {
		if n >= 0 {
			c.ValidateWorkers = n
		}
	}
}

func WithPrefetchBufferSize(size int) PipelineOption {
	return func(c *PipelineConfig) {
		if size > 0 {
			c.PrefetchBufferSize = size
		}
	}
}

func WithMaxPendingBlocks(n int) PipelineOption {
	return func(c *PipelineConfig) {
		if n > 0 {
			c.MaxPendingBlocks = n
		}
	}
}

// WithApplyFunc sets the apply function. A nil function is ignored.
func WithApplyFunc(fn ApplyFunc) PipelineOption {
	return func(c *PipelineConfig) {
		if fn != nil {
			c.ApplyFunc = fn
		}
	}
}

// WithMinPowScore sets the minimum PoW score a block must reach to pass validation
func WithMinPowScore(score float64) PipelineOption {
	return func(c *PipelineConfig) {
		c.MinPowScore = score
	}
}

// WithMilestoneKeyProvider sets the provider of milestone key sets. Without one, every
// milestone block fails validation.
func WithMilestoneKeyProvider(provider MilestoneKeyProvider) PipelineOption {
	return func(c *PipelineConfig) {
		c.MilestoneKeyProvider = provider
	}
}

// WithConfirmedMilestoneIndex sets the last milestone index the caller has already applied
func WithConfirmedMilestoneIndex(index uint32) PipelineOption {
	return func(c *PipelineConfig) {
		c.ConfirmedMilestoneIndex = index
	}
}
