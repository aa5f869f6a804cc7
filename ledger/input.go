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

package ledger

import (
	"fmt"

	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
)

type InputType uint8

const (
	InputTypeUTXO     InputType = 0
	InputTypeTreasury InputType = 1
)

const (
	UTXOInputLength     = 1 + common.TransactionIdSize + serializer.UInt16Size
	TreasuryInputLength = 1 + common.MilestoneIdSize
)

// Input is one of UTXOInput or TreasuryInput
type Input interface {
	Encoder
	Type() InputType
	isInput()
}

// UTXOInput references an unspent output by the transaction that created it
type UTXOInput struct {
	TransactionId common.TransactionId
	OutputIndex   uint16
}

// TreasuryInput references the treasury output of a milestone
type TreasuryInput struct {
	MilestoneId common.MilestoneId
}

func NewUTXOInput(outputId common.OutputId) UTXOInput {
	return UTXOInput{
		TransactionId: outputId.TransactionId(),
		OutputIndex:   outputId.Index(),
	}
}

func (UTXOInput) isInput()     {}
func (TreasuryInput) isInput() {}

func (UTXOInput) Type() InputType     { return InputTypeUTXO }
func (TreasuryInput) Type() InputType { return InputTypeTreasury }

func (i UTXOInput) OutputId() common.OutputId {
	return common.NewOutputId(i.TransactionId, i.OutputIndex)
}

func (i UTXOInput) String() string {
	return fmt.Sprintf("%s#%d", i.TransactionId.String(), i.OutputIndex)
}

func (i UTXOInput) Validate() error {
	if i.OutputIndex > MaxOutputIndex {
		return common.NewValidationError(
			common.ValidationErrorTypeReference,
			fmt.Sprintf("output index %d exceeds %d", i.OutputIndex, MaxOutputIndex),
			map[string]any{"input": i.String()},
			nil,
		)
	}
	return nil
}

func (i UTXOInput) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(InputTypeUTXO))
	w.WriteFixed(i.TransactionId[:])
	w.WriteUint16(i.OutputIndex)
}

func (i TreasuryInput) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(InputTypeTreasury))
	w.WriteFixed(i.MilestoneId[:])
}

// DecodeInput reads the input type tag and dispatches to the matching variant
func DecodeInput(r *serializer.ReadStream, field string) (Input, error) {
	tag, err := r.PeekUint8(field + ".type")
	if err != nil {
		return nil, err
	}
	switch InputType(tag) {
	case InputTypeUTXO:
		return DecodeUTXOInput(r, field)
	case InputTypeTreasury:
		return DecodeTreasuryInput(r, field)
	default:
		return nil, &serializer.UnknownVariantError{
			Field: field + ".type",
			Tag:   uint32(tag),
		}
	}
}

func DecodeUTXOInput(r *serializer.ReadStream, field string) (UTXOInput, error) {
	var ret UTXOInput
	if err := r.Require(field, UTXOInputLength); err != nil {
		return ret, err
	}
	if err := expectTag8(r, field, uint8(InputTypeUTXO)); err != nil {
		return ret, err
	}
	if err := r.ReadInto(field+".transactionId", ret.TransactionId[:]); err != nil {
		return ret, err
	}
	index, err := r.ReadUint16(field + ".outputIndex")
	if err != nil {
		return ret, err
	}
	if index > MaxOutputIndex {
		return ret, &serializer.InvalidValueError{
			Field: field + ".outputIndex",
			Value: uint64(index),
		}
	}
	ret.OutputIndex = index
	return ret, nil
}

func DecodeTreasuryInput(r *serializer.ReadStream, field string) (TreasuryInput, error) {
	var ret TreasuryInput
	if err := r.Require(field, TreasuryInputLength); err != nil {
		return ret, err
	}
	if err := expectTag8(r, field, uint8(InputTypeTreasury)); err != nil {
		return ret, err
	}
	if err := r.ReadInto(field+".milestoneId", ret.MilestoneId[:]); err != nil {
		return ret, err
	}
	return ret, nil
}
