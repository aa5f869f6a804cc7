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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/blinklabs-io/gostardust/cmd/common"
	"github.com/blinklabs-io/gostardust/pipeline"
)

type blockCheckFlags struct {
	*common.GlobalFlags
	skipPow            bool
	workers            int
	confirmedMilestone uint
}

func main() {
	f := blockCheckFlags{
		GlobalFlags: common.NewGlobalFlags(),
	}
	f.Flagset.BoolVar(&f.skipPow, "skip-pow", false, "do not check the PoW score of blocks")
	f.Flagset.IntVar(&f.workers, "workers", 0, "number of validate workers (defaults to CPU count)")
	f.Flagset.UintVar(
		&f.confirmedMilestone,
		"confirmed-milestone",
		0,
		"index of the last confirmed milestone; milestones at or below it are reported as stale",
	)
	f.Parse()

	inputs, err := common.ReadHexInputs(f.Flagset.Args())
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	minPowScore := f.NetworkInfo.MinPowScore
	if f.skipPow {
		minPowScore = 0
	}
	opts := []pipeline.PipelineOption{
		pipeline.WithMinPowScore(minPowScore),
		pipeline.WithConfirmedMilestoneIndex(uint32(f.confirmedMilestone)),
		pipeline.WithApplyFunc(func(item *pipeline.BlockItem) error {
			block := item.Block()
			payloadType := "none"
			if block.Payload != nil {
				payloadType = block.Payload.Type().String()
			}
			fmt.Printf(
				"%d: block %s OK (parents: %d, payload: %s, pow score: %.1f)\n",
				item.SequenceNumber(),
				item.BlockId().String(),
				len(block.Parents),
				payloadType,
				item.PowScore(),
			)
			return nil
		}),
	}
	if f.workers > 0 {
		opts = append(opts, pipeline.WithValidateWorkers(f.workers))
	}
	p := pipeline.NewBlockPipeline(opts...)
	ctx := context.Background()
	if err := p.Start(ctx); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	// Failures are reported from the results
	go func() {
		for range p.Errors() {
		}
	}()
	go func() {
		for _, input := range inputs {
			if err := p.Submit(ctx, input); err != nil {
				fmt.Printf("ERROR: %s\n", err)
				os.Exit(1)
			}
		}
	}()
	failed := 0
	for range inputs {
		item := <-p.Results()
		if err := item.DecodeError(); err != nil {
			fmt.Printf("%d: decode failed: %s\n", item.SequenceNumber(), err)
			failed++
		} else if err := item.ValidationError(); err != nil {
			fmt.Printf("%d: validation failed: %s\n", item.SequenceNumber(), err)
			failed++
		} else if err := item.ApplyError(); err != nil {
			fmt.Printf("%d: not applied: %s\n", item.SequenceNumber(), err)
			failed++
		}
	}
	stats := p.Stats()
	fmt.Printf(
		"checked %d blocks: %d applied, %d below minimum PoW, last milestone %d\n",
		stats.BlocksSubmitted,
		stats.BlocksApplied,
		stats.BlocksBelowMinPow,
		stats.LastMilestoneIndex,
	)
	if err := p.Stop(); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
