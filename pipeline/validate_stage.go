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
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/blinklabs-io/gostardust/pow"
)

var (
	// ErrInsufficientPow is returned for blocks whose PoW score is below the configured minimum
	ErrInsufficientPow = errors.New("pipeline: insufficient proof of work")
	// ErrMissingMilestoneKeyProvider is returned for milestone blocks when no key provider is
	// configured
	ErrMissingMilestoneKeyProvider = errors.New("pipeline: milestone key provider not configured")
)

// MilestoneKeyProvider returns the signature threshold and the public keys applicable to the
// milestone with the given index. Key sets rotate over milestone ranges, so the provider is
// consulted for every milestone.
type MilestoneKeyProvider func(index uint32) (int, [][ed25519.PublicKeySize]byte, error)

// StaticMilestoneKeyProvider returns a MilestoneKeyProvider that always returns the same key set.
func StaticMilestoneKeyProvider(
	threshold int,
	keys [][ed25519.PublicKeySize]byte,
) MilestoneKeyProvider {
	return func(index uint32) (int, [][ed25519.PublicKeySize]byte, error) {
		return threshold, keys, nil
	}
}

// ValidateStageConfig holds configuration for the validate stage.
type ValidateStageConfig struct {
	// MinPowScore is the minimum PoW score a block must reach. 0 disables the check
	MinPowScore float64
	// MilestoneKeyProvider supplies the keys used to verify milestone signatures
	MilestoneKeyProvider MilestoneKeyProvider
}

// ValidateStage checks decoded blocks: structural rules, PoW score and milestone signatures.
type ValidateStage struct {
	config ValidateStageConfig
}

func NewValidateStage(config ValidateStageConfig) *ValidateStage {
	return &ValidateStage{
		config: config,
	}
}

func (s *ValidateStage) Name() string {
	return "validate"
}

// Process validates the block in the item.
func (s *ValidateStage) Process(ctx context.Context, item *BlockItem) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	// The decode stage already reported the error
	if !item.IsDecoded() {
		return nil
	}
	start := time.Now()
	score := pow.Score(item.RawBlock())
	if err := s.validate(item, score); err != nil {
		err = fmt.Errorf("block %s: %w", item.BlockId().String(), err)
		item.SetValidation(false, score, err, time.Since(start))
		return err
	}
	item.SetValidation(true, score, nil, time.Since(start))
	return nil
}

func (s *ValidateStage) validate(item *BlockItem, score float64) error {
	if err := item.Block().Validate(); err != nil {
		return err
	}
	if s.config.MinPowScore > 0 && score < s.config.MinPowScore {
		return fmt.Errorf(
			"%w: score %f below minimum %f",
			ErrInsufficientPow,
			score,
			s.config.MinPowScore,
		)
	}
	ms, ok := item.Milestone()
	if !ok {
		return nil
	}
	if s.config.MilestoneKeyProvider == nil {
		return ErrMissingMilestoneKeyProvider
	}
	threshold, keys, err := s.config.MilestoneKeyProvider(ms.Index)
	if err != nil {
		return fmt.Errorf("milestone key provider error for index %d: %w", ms.Index, err)
	}
	return ms.VerifySignatures(threshold, keys)
}
