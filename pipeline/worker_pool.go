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
)

// ErrNilStage is returned when a nil stage is passed to a worker pool.
var ErrNilStage = errors.New("pipeline: nil stage")

// MetricsRecorder records metrics for a processed block item and the error returned by the stage.
type MetricsRecorder func(item *BlockItem, err error)

// ShouldRecordMetrics decides whether metrics are recorded for an item. Stages that skip items
// (validation skipping decode failures) use it to avoid counting them twice.
type ShouldRecordMetrics func(item *BlockItem) bool

// StageWorkerPool runs multiple workers in parallel for a given stage.
type StageWorkerPool struct {
	stage         Stage
	numWorkers    int
	input         <-chan *BlockItem
	output        chan<- *BlockItem
	errors        chan<- error
	recordMetrics MetricsRecorder
	shouldRecord  ShouldRecordMetrics
	wg            sync.WaitGroup
	started       atomic.Bool
}

// StageWorkerPoolConfig holds configuration for creating a StageWorkerPool.
type StageWorkerPoolConfig struct {
	// Stage is required
	Stage Stage
	// NumWorkers defaults to 1 if <= 0
	NumWorkers int
	Input      <-chan *BlockItem
	Output     chan<- *BlockItem
	// Errors may be nil, in which case errors are dropped
	Errors        chan<- error
	RecordMetrics MetricsRecorder
	// ShouldRecord defaults to recording every item
	ShouldRecord ShouldRecordMetrics
}

// NewStageWorkerPool creates a new worker pool for the given stage. It panics on a nil stage.
func NewStageWorkerPool(config StageWorkerPoolConfig) *StageWorkerPool {
	if config.Stage == nil {
		panic(ErrNilStage)
	}
	return &StageWorkerPool{
		stage:         config.Stage,
		numWorkers:    max(config.NumWorkers, 1),
		input:         config.Input,
		output:        config.Output,
		errors:        config.Errors,
		recordMetrics: config.RecordMetrics,
		shouldRecord:  config.ShouldRecord,
	}
}

// NumWorkers returns the number of workers the pool runs
func (p *StageWorkerPool) NumWorkers() int {
	return p.numWorkers
}

// Start starts the worker pool. Calling it more than once has no effect.
func (p *StageWorkerPool) Start(ctx context.Context) {
	if p.started.Swap(true) {
		return
	}
	for range p.numWorkers {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

// Stop waits for all workers to complete. Workers exit when the input channel is closed or the
// context passed to Start is cancelled.
func (p *StageWorkerPool) Stop() {
	p.wg.Wait()
}

func (p *StageWorkerPool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-p.input:
			if !ok {
				return
			}
			err := p.stage.Process(ctx, item)
			cancelled := errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
			if p.recordMetrics != nil && !cancelled &&
				(p.shouldRecord == nil || p.shouldRecord(item)) {
				p.recordMetrics(item, err)
			}
			if err != nil && p.errors != nil {
				select {
				case p.errors <- err:
				case <-ctx.Done():
					return
				}
			}
			// Failed items are forwarded too so the apply stage sees every sequence number
			select {
			case p.output <- item:
			case <-ctx.Done():
				return
			}
		}
	}
}

// DecodeMetricsRecorder returns a MetricsRecorder for the decode stage.
func DecodeMetricsRecorder(metrics *PipelineMetrics) MetricsRecorder {
	if metrics == nil {
		return nil
	}
	return func(item *BlockItem, err error) {
		metrics.RecordDecode(item.DecodeDuration(), err)
	}
}

// ValidateMetricsRecorder returns a MetricsRecorder for the validate stage.
func ValidateMetricsRecorder(metrics *PipelineMetrics) MetricsRecorder {
	if metrics == nil {
		return nil
	}
	return func(item *BlockItem, err error) {
		metrics.RecordValidate(item.ValidateDuration(), err)
		if _, ok := item.Milestone(); ok && err == nil {
			metrics.RecordMilestone()
		}
	}
}

// RecordIfDecoded is a ShouldRecordMetrics that only records items that were decoded.
func RecordIfDecoded(item *BlockItem) bool {
	return item.IsDecoded()
}
