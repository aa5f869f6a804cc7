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
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrPipelineStopped is returned when trying to submit to a stopped pipeline.
var ErrPipelineStopped = errors.New("pipeline is stopped")

// ErrPipelineNotStarted is returned when trying to use a pipeline that hasn't been started.
var ErrPipelineNotStarted = errors.New("pipeline not started")

// Returned by Results before Start so callers never block on a nil channel
var closedResultsChan = func() <-chan *BlockItem {
	ch := make(chan *BlockItem)
	close(ch)
	return ch
}()

// newNotStartedErrorsChan returns a fresh channel yielding ErrPipelineNotStarted once
func newNotStartedErrorsChan() <-chan error {
	ch := make(chan error, 1)
	ch <- ErrPipelineNotStarted
	close(ch)
	return ch
}

// BlockPipeline decodes and validates raw blocks in parallel and applies them in submission
// order.
type BlockPipeline struct {
	config PipelineConfig

	decodeStage   *DecodeStage
	validateStage *ValidateStage
	applyStage    *ApplyStage

	decodePool   *StageWorkerPool
	validatePool *StageWorkerPool
	applyRunner  *ApplyStageRunner

	submitChan    chan *BlockItem
	decodedChan   chan *BlockItem
	validatedChan chan *BlockItem
	resultsChan   chan *BlockItem
	errorsChan    chan error

	metrics *PipelineMetrics

	sequenceCounter uint64
	ctx             context.Context
	cancel          context.CancelFunc
	started         atomic.Bool
	stopped         atomic.Bool
	wg              sync.WaitGroup
	mu              sync.Mutex   // protects Start/Stop
	submitMu        sync.RWMutex // protects Submit against concurrent Stop
}

// NewBlockPipeline creates a new BlockPipeline using functional options.
//
// Example:
//
//	p := NewBlockPipeline(
//	    WithDecodeWorkers(4),
//	    WithMinPowScore(1500),
//	    WithApplyFunc(myApplyFunc),
//	)
func NewBlockPipeline(opts ...PipelineOption) *BlockPipeline {
	config := DefaultPipelineConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &BlockPipeline{
		config:  config,
		metrics: NewPipelineMetrics(),
	}
}

// Start starts the pipeline processing.
func (p *BlockPipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped.Load() {
		return ErrPipelineStopped
	}
	if p.started.Load() {
		return nil
	}
	p.ctx, p.cancel = context.WithCancel(ctx)

	bufSize := p.config.PrefetchBufferSize
	p.submitChan = make(chan *BlockItem, bufSize)
	p.decodedChan = make(chan *BlockItem, bufSize)
	p.resultsChan = make(chan *BlockItem, bufSize)
	p.errorsChan = make(chan error, bufSize)

	p.decodeStage = NewDecodeStage()
	p.applyStage = NewApplyStage(p.config.ApplyFunc, p.config.MaxPendingBlocks)
	p.applyStage.SetConfirmedMilestoneIndex(p.config.ConfirmedMilestoneIndex)
	p.decodePool = NewStageWorkerPool(StageWorkerPoolConfig{
		Stage:         p.decodeStage,
		NumWorkers:    p.config.DecodeWorkers,
		Input:         p.submitChan,
		Output:        p.decodedChan,
		Errors:        p.errorsChan,
		RecordMetrics: DecodeMetricsRecorder(p.metrics),
	})

	applyInput := p.decodedChan
	if p.config.ValidateWorkers > 0 {
		p.validatedChan = make(chan *BlockItem, bufSize)
		p.validateStage = NewValidateStage(ValidateStageConfig{
			MinPowScore:          p.config.MinPowScore,
			MilestoneKeyProvider: p.config.MilestoneKeyProvider,
		})
		p.validatePool = NewStageWorkerPool(StageWorkerPoolConfig{
			Stage:         p.validateStage,
			NumWorkers:    p.config.ValidateWorkers,
			Input:         p.decodedChan,
			Output:        p.validatedChan,
			Errors:        p.errorsChan,
			RecordMetrics: ValidateMetricsRecorder(p.metrics),
			ShouldRecord:  RecordIfDecoded,
		})
		applyInput = p.validatedChan
	}
	p.applyRunner = NewApplyStageRunner(
		p.applyStage,
		applyInput,
		p.resultsChan,
		p.errorsChan,
		p.metrics,
	)

	// p.ctx is derived from ctx above
	p.decodePool.Start(p.ctx) //nolint:contextcheck
	if p.validatePool != nil {
		p.validatePool.Start(p.ctx) //nolint:contextcheck
	}
	p.applyRunner.Start(p.ctx) //nolint:contextcheck

	p.wg.Add(1)
	go p.metricsCollector()

	p.started.Store(true)
	return nil
}

// Submit submits raw block bytes for processing. It is safe to call concurrently with Stop.
func (p *BlockPipeline) Submit(ctx context.Context, rawBlock []byte) error {
	if !p.started.Load() {
		return ErrPipelineNotStarted
	}
	// Stop closes submitChan under the write lock, so holding the read lock makes the send safe
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()
	if p.stopped.Load() {
		return ErrPipelineStopped
	}
	item := NewBlockItem(rawBlock, atomic.AddUint64(&p.sequenceCounter, 1)-1)
	select {
	case p.submitChan <- item:
		p.metrics.RecordSubmit()
		return nil
	case <-ctx.Done():
		// The sequence gap is acceptable since this only happens on shutdown
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPipelineStopped
	}
}

// Results returns a channel of processed block items, including items that failed a stage.
// Before Start it returns a closed channel.
func (p *BlockPipeline) Results() <-chan *BlockItem {
	if !p.started.Load() {
		return closedResultsChan
	}
	return p.resultsChan
}

// Errors returns a channel of processing errors. Before Start it returns a channel that yields
// ErrPipelineNotStarted once and then closes.
func (p *BlockPipeline) Errors() <-chan error {
	if !p.started.Load() {
		return newNotStartedErrorsChan()
	}
	return p.errorsChan
}

// Stop stops the pipeline and closes the results and errors channels.
func (p *BlockPipeline) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started.Load() || p.stopped.Load() {
		return nil
	}
	// Cancel first so that a Submit blocked on a full channel releases its read lock
	p.cancel()
	p.submitMu.Lock()
	p.stopped.Store(true)
	close(p.submitChan)
	p.submitMu.Unlock()

	p.decodePool.Stop()
	close(p.decodedChan)
	if p.validatePool != nil {
		p.validatePool.Stop()
		close(p.validatedChan)
	}
	p.applyRunner.Stop()

	close(p.resultsChan)
	close(p.errorsChan)
	p.wg.Wait()
	return nil
}

func (p *BlockPipeline) Stats() PipelineStats {
	return p.metrics.Stats()
}

// PendingCount returns the approximate number of items still being processed.
func (p *BlockPipeline) PendingCount() int {
	if !p.started.Load() {
		return 0
	}
	return p.queueDepth() + p.applyStage.PendingCount()
}

func (p *BlockPipeline) queueDepth() int {
	return len(p.submitChan) + len(p.decodedChan) + len(p.validatedChan)
}

// WaitForDrain blocks until all submitted items have been processed or ctx is cancelled.
func (p *BlockPipeline) WaitForDrain(ctx context.Context) error {
	if !p.started.Load() {
		return ErrPipelineNotStarted
	}
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if p.PendingCount() == 0 {
				return nil
			}
		}
	}
}

func (p *BlockPipeline) metricsCollector() {
	defer p.wg.Done()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.metrics.UpdateQueueDepth(p.queueDepth())
		}
	}
}
