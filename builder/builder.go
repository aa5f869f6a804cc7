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

// Package builder assembles signed transaction payloads
package builder

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/gostardust/ledger"
	"github.com/blinklabs-io/gostardust/ledger/common"
)

var (
	ErrNoInputs                 = errors.New("transaction has no inputs")
	ErrMissingSigner            = errors.New("input requires a signer")
	ErrSignerMismatch           = errors.New("signer does not own input")
	ErrUnresolvedOwner          = errors.New("input owner is not unlocked by an earlier input")
	ErrInputsCommitmentMismatch = errors.New("inputs commitment mismatch")
	ErrUnbalanced               = errors.New("input and output amounts differ")
)

// Signer signs the essence hash on behalf of an Ed25519 address
type Signer interface {
	Address() ledger.Ed25519Address
	Sign(msg []byte) ledger.Ed25519Signature
}

type builderInput struct {
	outputId common.OutputId
	consumed ledger.Output
	signer   Signer
}

// TransactionBuilder collects inputs and outputs and produces a signed transaction payload
type TransactionBuilder struct {
	networkId          uint64
	expectedCommitment *common.Blake2b256
	logger             *slog.Logger
	inputs             []builderInput
	outputs            []ledger.Output
	payload            ledger.Payload
}

// TransactionBuilderOptionFunc is a type that represents functions that modify the TransactionBuilder config
type TransactionBuilderOptionFunc func(*TransactionBuilder)

// NewTransactionBuilder returns a new TransactionBuilder object with the specified options applied
func NewTransactionBuilder(options ...TransactionBuilderOptionFunc) *TransactionBuilder {
	b := &TransactionBuilder{}
	for _, option := range options {
		option(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// WithNetworkId specifies the network the transaction is valid on
func WithNetworkId(networkId uint64) TransactionBuilderOptionFunc {
	return func(b *TransactionBuilder) {
		b.networkId = networkId
	}
}

// WithExpectedInputsCommitment specifies the inputs commitment the caller expects. Build refuses
// to sign if the consumed outputs produce a different commitment.
func WithExpectedInputsCommitment(commitment common.Blake2b256) TransactionBuilderOptionFunc {
	return func(b *TransactionBuilder) {
		b.expectedCommitment = &commitment
	}
}

// WithLogger specifies the logger object to use
func WithLogger(logger *slog.Logger) TransactionBuilderOptionFunc {
	return func(b *TransactionBuilder) {
		b.logger = logger
	}
}

// AddInput consumes the output identified by outputId. The signer may be nil for outputs owned
// by an alias or NFT that is unlocked by an earlier input.
func (b *TransactionBuilder) AddInput(
	outputId common.OutputId,
	consumed ledger.Output,
	signer Signer,
) *TransactionBuilder {
	b.inputs = append(b.inputs, builderInput{
		outputId: outputId,
		consumed: consumed,
		signer:   signer,
	})
	return b
}

func (b *TransactionBuilder) AddOutput(output ledger.Output) *TransactionBuilder {
	b.outputs = append(b.outputs, output)
	return b
}

// SetTaggedData attaches a tagged data payload to the essence
func (b *TransactionBuilder) SetTaggedData(tag []byte, data []byte) *TransactionBuilder {
	b.payload = &ledger.TaggedDataPayload{Tag: tag, Data: data}
	return b
}

// Build computes the inputs commitment and essence hash, signs once per distinct signer and
// returns the transaction payload
func (b *TransactionBuilder) Build() (*ledger.TransactionPayload, error) {
	if len(b.inputs) == 0 {
		return nil, ErrNoInputs
	}
	consumed := make([]ledger.Output, 0, len(b.inputs))
	inputs := make([]ledger.Input, 0, len(b.inputs))
	for i, input := range b.inputs {
		if input.consumed == nil {
			return nil, fmt.Errorf("%w: input %d has no consumed output", ErrUnresolvedOwner, i)
		}
		if err := input.consumed.Validate(); err != nil {
			return nil, fmt.Errorf("input %d (%s): %w", i, input.outputId, err)
		}
		consumed = append(consumed, input.consumed)
		inputs = append(inputs, ledger.NewUTXOInput(input.outputId))
	}
	inputTotal, err := sumDeposits("inputs", consumed)
	if err != nil {
		return nil, err
	}
	outputTotal, err := sumDeposits("outputs", b.outputs)
	if err != nil {
		return nil, err
	}
	if inputTotal != outputTotal {
		return nil, fmt.Errorf("%w: inputs %d, outputs %d", ErrUnbalanced, inputTotal, outputTotal)
	}
	commitment := ledger.InputsCommitment(consumed)
	if b.expectedCommitment != nil && *b.expectedCommitment != commitment {
		return nil, fmt.Errorf(
			"%w: expected %s, computed %s",
			ErrInputsCommitmentMismatch,
			b.expectedCommitment.String(),
			commitment.String(),
		)
	}
	essence := &ledger.TransactionEssence{
		NetworkId:        b.networkId,
		Inputs:           inputs,
		InputsCommitment: commitment,
		Outputs:          b.outputs,
		Payload:          b.payload,
	}
	essenceHash, err := essence.Hash()
	if err != nil {
		return nil, fmt.Errorf("build essence: %w", err)
	}
	unlockBlocks, err := b.unlockBlocks(essenceHash)
	if err != nil {
		return nil, err
	}
	tx := &ledger.TransactionPayload{
		Essence:      essence,
		UnlockBlocks: unlockBlocks,
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	b.logger.Debug(
		fmt.Sprintf("built transaction with essence hash %s", essenceHash.String()),
		"component", "builder",
		"inputs", len(inputs),
		"outputs", len(b.outputs),
	)
	return tx, nil
}

// sumDeposits totals the base token amounts of outputs, which must stay within the total supply
func sumDeposits(field string, outputs []ledger.Output) (uint64, error) {
	var total uint64
	for i, output := range outputs {
		if output == nil {
			return 0, fmt.Errorf("%s: output %d is nil", field, i)
		}
		amount := output.Deposit()
		if amount > ledger.MaxTokenSupply || total > ledger.MaxTokenSupply-amount {
			return 0, fmt.Errorf(
				"%w: %s total exceeds the token supply at output %d",
				ErrUnbalanced,
				field,
				i,
			)
		}
		total += amount
	}
	return total, nil
}

// unlockBlocks produces one unlock block per input. The first input owned by an Ed25519 address
// carries the signature and later inputs of the same owner reference it. Inputs owned by an alias
// or NFT reference the input that consumes that chain.
func (b *TransactionBuilder) unlockBlocks(essenceHash common.Blake2b256) (ledger.UnlockBlocks, error) {
	ret := make(ledger.UnlockBlocks, 0, len(b.inputs))
	signedAt := make(map[ledger.Ed25519Address]int)
	chainAt := make(map[ledger.Address]int)
	for i, input := range b.inputs {
		owner := ownerOf(input.consumed)
		switch addr := owner.(type) {
		case ledger.Ed25519Address:
			if input.signer == nil {
				return nil, fmt.Errorf("%w: input %d (%s)", ErrMissingSigner, i, input.outputId)
			}
			if input.signer.Address() != addr {
				return nil, fmt.Errorf("%w: input %d (%s)", ErrSignerMismatch, i, input.outputId)
			}
			if ref, ok := signedAt[addr]; ok {
				ret = append(ret, ledger.ReferenceUnlockBlock{Reference: uint16(ref)})
				break
			}
			ret = append(ret, ledger.SignatureUnlockBlock{Signature: input.signer.Sign(essenceHash[:])})
			signedAt[addr] = i
		case ledger.AliasAddress:
			ref, ok := chainAt[addr]
			if !ok {
				return nil, fmt.Errorf("%w: input %d owned by alias %s", ErrUnresolvedOwner, i, addr)
			}
			ret = append(ret, ledger.AliasUnlockBlock{Reference: uint16(ref)})
		case ledger.NFTAddress:
			ref, ok := chainAt[addr]
			if !ok {
				return nil, fmt.Errorf("%w: input %d owned by NFT %s", ErrUnresolvedOwner, i, addr)
			}
			ret = append(ret, ledger.NFTUnlockBlock{Reference: uint16(ref)})
		default:
			return nil, fmt.Errorf("%w: input %d has no supported owner", ErrUnresolvedOwner, i)
		}
		switch o := input.consumed.(type) {
		case *ledger.AliasOutput:
			chainAt[o.AliasAddress(input.outputId)] = i
		case *ledger.NFTOutput:
			chainAt[o.NFTAddress(input.outputId)] = i
		}
	}
	return ret, nil
}

// ownerOf returns the address that must unlock a consumed output
func ownerOf(output ledger.Output) ledger.Address {
	switch o := output.(type) {
	case *ledger.SigLockedSingleOutput:
		return o.Address
	case *ledger.SigLockedDustAllowanceOutput:
		return o.Address
	case *ledger.BasicOutput:
		return o.Address()
	case *ledger.NFTOutput:
		return o.Address()
	case *ledger.AliasOutput:
		return o.StateController()
	case *ledger.FoundryOutput:
		if cond := o.UnlockConditions.ImmutableAliasAddress(); cond != nil {
			return cond.Address
		}
	}
	return nil
}
