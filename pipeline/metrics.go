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
	"sync"
	"sync/atomic"
	"time"
)

// PipelineMetrics tracks counters for the entire pipeline.
type PipelineMetrics struct {
	blocksSubmitted     atomic.Uint64
	blocksDecoded       atomic.Uint64
	blocksValidated     atomic.Uint64
	blocksApplied       atomic.Uint64
	decodeErrors        atomic.Uint64
	validationErrors    atomic.Uint64
	applyErrors         atomic.Uint64
	milestonesValidated atomic.Uint64
	blocksBelowMinPow   atomic.Uint64
	lastMilestoneIndex  atomic.Uint32

	// Protects the fields below
	mu                sync.RWMutex
	currentQueueDepth int
	peakQueueDepth    int
	lastBlockTime     time.Time
	startTime         time.Time
}

func NewPipelineMetrics() *PipelineMetrics {
	return &PipelineMetrics{
		startTime: time.Now(),
	}
}

func (m *PipelineMetrics) RecordSubmit() {
	m.blocksSubmitted.Add(1)
}

func (m *PipelineMetrics) RecordDecode(duration time.Duration, err error) {
	if err != nil {
		m.decodeErrors.Add(1)
	} else {
		m.blocksDecoded.Add(1)
	}
}

func (m *PipelineMetrics) RecordValidate(duration time.Duration, err error) {
	if err != nil {
		m.validationErrors.Add(1)
	} else {
		m.blocksValidated.Add(1)
	}
}

func (m *PipelineMetrics) RecordMilestone() {
	m.milestonesValidated.Add(1)
}

// RecordInsufficientPow counts a block skipped for a PoW score below the minimum
func (m *PipelineMetrics) RecordInsufficientPow() {
	m.blocksBelowMinPow.Add(1)
}

func (m *PipelineMetrics) RecordMilestoneApplied(index uint32) {
	m.lastMilestoneIndex.Store(index)
}

func (m *PipelineMetrics) RecordApply(duration time.Duration, err error) {
	if err != nil {
		m.applyErrors.Add(1)
		return
	}
	m.blocksApplied.Add(1)
	m.mu.Lock()
	m.lastBlockTime = time.Now()
	m.mu.Unlock()
}

func (m *PipelineMetrics) UpdateQueueDepth(depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentQueueDepth = depth
	m.peakQueueDepth = max(m.peakQueueDepth, depth)
}

// Stats returns a snapshot of the current metrics.
func (m *PipelineMetrics) Stats() PipelineStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return PipelineStats{
		BlocksSubmitted:     m.blocksSubmitted.Load(),
		BlocksDecoded:       m.blocksDecoded.Load(),
		BlocksValidated:     m.blocksValidated.Load(),
		BlocksApplied:       m.blocksApplied.Load(),
		DecodeErrors:        m.decodeErrors.Load(),
		ValidationErrors:    m.validationErrors.Load(),
		ApplyErrors:         m.applyErrors.Load(),
		MilestonesValidated: m.milestonesValidated.Load(),
		BlocksBelowMinPow:   m.blocksBelowMinPow.Load(),
		LastMilestoneIndex:  m.lastMilestoneIndex.Load(),
		CurrentQueueDepth:   m.currentQueueDepth,
		PeakQueueDepth:      m.peakQueueDepth,
		LastBlockTime:       m.lastBlockTime,
		StartTime:           m.startTime,
	}
}
