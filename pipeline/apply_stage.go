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
	"fmt"
	"sync"
	"time"
)

var (
	// ErrPendingLimitExceeded is returned when the apply stage's pending buffer is full.
	ErrPendingLimitExceeded = errors.New("pipeline: pending block limit exceeded")
	ErrStaleMilestone       = errors.New("pipeline: stale milestone")
)

// StaleMilestoneError is the apply error of a milestone whose index does not advance past the
// last confirmed milestone
type StaleMilestoneError struct {
	Index     uint32
	Confirmed uint32
}

func (e *StaleMilestoneError) Error() string {
	return fmt.Sprintf(
		"pipeline: milestone %d does not advance past confirmed milestone %d",
		e.Index,
		e.Confirmed,
	)
}

func (*StaleMilestoneError) Is(target error) bool {
	return target == ErrStaleMilestone
}

// ApplyFunc applies a block to some state. It is called in sequence order.
type ApplyFunc func(*BlockItem) error

// ApplyStage buffers checked blocks and applies them in sequence order. Blocks that failed a
// check are passed through unapplied, and a milestone is applied only if its index is above the
// last confirmed milestone.
// ProcessWithStatus must be called from a single goroutine for ApplyFunc calls to stay ordered;
// ApplyStageRunner provides that.
type ApplyStage struct {
	applyFunc  ApplyFunc
	maxPending int
	mu         sync.Mutex
	// Items that arrived ahead of nextSequence
	pending            map[uint64]*BlockItem
	nextSequence       uint64
	confirmedMilestone uint32
}

// NewApplyStage creates a new ApplyStage. maxPending limits the number of out-of-order blocks
// that can be buffered; 0 means no limit.
func NewApplyStage(applyFunc ApplyFunc, maxPending int) *ApplyStage {
	return &ApplyStage{
		applyFunc:  applyFunc,
		maxPending: maxPending,
		pending:    make(map[uint64]*BlockItem),
	}
}

func (s *ApplyStage) Name() string {
	return "apply"
}

// SetConfirmedMilestoneIndex sets the index of the last milestone already applied by the caller
func (s *ApplyStage) SetConfirmedMilestoneIndex(index uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmedMilestone = index
}

// ConfirmedMilestoneIndex returns the index of the last applied milestone
func (s *ApplyStage) ConfirmedMilestoneIndex() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmedMilestone
}

// Process buffers the item and applies any items that are now in order.
func (s *ApplyStage) Process(ctx context.Context, item *BlockItem) error {
	_, err := s.ProcessWithStatus(ctx, item)
	return err
}

// ProcessWithStatus returns every item that left the stage as a result of this call: the item
// itself followed by any buffered items it released. An item that arrives out of order is
// buffered and nil is returned. Items that failed decoding or validation advance the sequence
// without being applied.
func (s *ApplyStage) ProcessWithStatus(ctx context.Context, item *BlockItem) ([]*BlockItem, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	s.mu.Lock()
	if item.SequenceNumber() != s.nextSequence {
		// Buffered even past the limit so that no sequence number is lost
		s.pending[item.SequenceNumber()] = item
		pendingCount := len(s.pending)
		s.mu.Unlock()
		if s.maxPending > 0 && pendingCount > s.maxPending {
			return nil, ErrPendingLimitExceeded
		}
		return nil, nil
	}
	s.nextSequence++
	s.mu.Unlock()
	s.applyIfChecked(ctx, item)
	return append([]*BlockItem{item}, s.applyPending(ctx)...), nil
}

func (s *ApplyStage) applyIfChecked(ctx context.Context, item *BlockItem) {
	if item.DecodeError() != nil || item.ValidationError() != nil {
		return
	}
	select {
	case <-ctx.Done():
		item.SetApplied(false, ctx.Err(), 0)
		return
	default:
	}
	ms, isMilestone := item.Milestone()
	if isMilestone {
		confirmed := s.ConfirmedMilestoneIndex()
		if ms.Index <= confirmed {
			item.SetApplied(
				false,
				&StaleMilestoneError{Index: ms.Index, Confirmed: confirmed},
				0,
			)
			return
		}
	}
	start := time.Now()
	var err error
	if s.applyFunc != nil {
		err = s.applyFunc(item)
	}
	if err == nil && isMilestone {
		s.SetConfirmedMilestoneIndex(ms.Index)
	}
	item.SetApplied(err == nil, err, time.Since(start))
}

// applyPending applies buffered items that are now in order. The lock is not held while
// applyFunc runs.
func (s *ApplyStage) applyPending(ctx context.Context) []*BlockItem {
	var processed []*BlockItem
	for {
		select {
		case <-ctx.Done():
			return processed
		default:
		}
		s.mu.Lock()
		item, ok := s.pending[s.nextSequence]
		if !ok {
			s.mu.Unlock()
			return processed
		}
		delete(s.pending, s.nextSequence)
		s.nextSequence++
		s.mu.Unlock()
		s.applyIfChecked(ctx, item)
		processed = append(processed, item)
	}
}

// PendingCount returns the number of items waiting to be applied.
func (s *ApplyStage) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// ApplyStageRunner runs the apply stage in a single goroutine.
type ApplyStageRunner struct {
	stage   *ApplyStage
	input   <-chan *BlockItem
	output  chan<- *BlockItem
	errors  chan<- error
	metrics *PipelineMetrics
	done    chan struct{}
	running bool
	mu      sync.Mutex
}

func NewApplyStageRunner(
	stage *ApplyStage,
	input <-chan *BlockItem,
	output chan<- *BlockItem,
	errors chan<- error,
	metrics *PipelineMetrics,
) *ApplyStageRunner {
	return &ApplyStageRunner{
		stage:   stage,
		input:   input,
		output:  output,
		errors:  errors,
		metrics: metrics,
		done:    make(chan struct{}),
	}
}

func (r *ApplyStageRunner) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.done = make(chan struct{})
	r.mu.Unlock()
	go r.run(ctx)
}

// Stop waits for the runner to exit. The runner exits when the context passed to Start is
// cancelled or the input channel is closed; Stop does not signal it.
func (r *ApplyStageRunner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	done := r.done
	r.mu.Unlock()
	<-done
}

func (r *ApplyStageRunner) run(ctx context.Context) {
	defer func() {
		r.mu.Lock()
		r.running = false
		close(r.done)
		r.mu.Unlock()
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-r.input:
			if !ok {
				return
			}
			processed, err := r.stage.ProcessWithStatus(ctx, item)
			if err != nil {
				select {
				case r.errors <- err:
				case <-ctx.Done():
					return
				}
				continue
			}
			for _, p := range processed {
				if !r.forwardItem(ctx, p) {
					return
				}
			}
		}
	}
}

// forwardItem sends an item to output and reports its apply error. It returns false once the
// context is cancelled.
func (r *ApplyStageRunner) forwardItem(ctx context.Context, item *BlockItem) bool {
	if r.metrics != nil {
		switch {
		case errors.Is(item.ValidationError(), ErrInsufficientPow):
			r.metrics.RecordInsufficientPow()
		case item.DecodeError() == nil && item.ValidationError() == nil:
			r.metrics.RecordApply(item.ApplyDuration(), item.ApplyError())
			if ms, ok := item.Milestone(); ok && item.IsApplied() {
				r.metrics.RecordMilestoneApplied(ms.Index)
			}
		}
	}
	select {
	case r.output <- item:
	case <-ctx.Done():
		return false
	}
	if applyErr := item.ApplyError(); applyErr != nil {
		select {
		case r.errors <- applyErr:
		case <-ctx.Done():
			return false
		}
	}
	return true
}
