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

type OutputType uint8

const (
	OutputTypeSigLockedSingle        OutputType = 0
	OutputTypeSigLockedDustAllowance OutputType = 1
	OutputTypeTreasury               OutputType = 2
	OutputTypeBasic                  OutputType = 3
	OutputTypeAlias                  OutputType = 4
	OutputTypeFoundry                OutputType = 5
	OutputTypeNFT                    OutputType = 6
)

const (
	SigLockedOutputMinLength = 1 + AddressMinLength + serializer.UInt64Size
	TreasuryOutputLength     = 1 + serializer.UInt64Size
)

func (t OutputType) String() string {
	switch t {
	case OutputTypeSigLockedSingle:
		return "SigLockedSingle"
	case OutputTypeSigLockedDustAllowance:
		return "SigLockedDustAllowance"
	case OutputTypeTreasury:
		return "Treasury"
	case OutputTypeBasic:
		return "Basic"
	case OutputTypeAlias:
		return "Alias"
	case OutputTypeFoundry:
		return "Foundry"
	case OutputTypeNFT:
		return "NFT"
	default:
		return fmt.Sprintf("OutputType(%d)", uint8(t))
	}
}

// Output is one of the output variants. Outputs are treated as immutable once built.
type Output interface {
	Encoder
	Validator
	Type() OutputType
	// Deposit returns the amount of base tokens held by the output
	Deposit() uint64
	isOutput()
}

// SigLockedSingleOutput is a legacy output locked to a single address
type SigLockedSingleOutput struct {
	Address Address
	Amount  uint64
}

// SigLockedDustAllowanceOutput is a legacy output that allows the address to receive dust
type SigLockedDustAllowanceOutput struct {
	Address Address
	Amount  uint64
}

// TreasuryOutput holds the funds of the network treasury
type TreasuryOutput struct {
	Amount uint64
}

func (*SigLockedSingleOutput) isOutput()        {}
func (*SigLockedDustAllowanceOutput) isOutput() {}
func (*TreasuryOutput) isOutput()               {}

func (*SigLockedSingleOutput) Type() OutputType        { return OutputTypeSigLockedSingle }
func (*SigLockedDustAllowanceOutput) Type() OutputType { return OutputTypeSigLockedDustAllowance }
func (*TreasuryOutput) Type() OutputType               { return OutputTypeTreasury }

func (o *SigLockedSingleOutput) Deposit() uint64        { return o.Amount }
func (o *SigLockedDustAllowanceOutput) Deposit() uint64 { return o.Amount }
func (o *TreasuryOutput) Deposit() uint64               { return o.Amount }

func (o *SigLockedSingleOutput) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(OutputTypeSigLockedSingle))
	o.Address.EncodeTo(w)
	w.WriteUint64(o.Amount)
}

func (o *SigLockedDustAllowanceOutput) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(OutputTypeSigLockedDustAllowance))
	o.Address.EncodeTo(w)
	w.WriteUint64(o.Amount)
}

func (o *TreasuryOutput) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(OutputTypeTreasury))
	w.WriteUint64(o.Amount)
}

func (o *SigLockedSingleOutput) Validate() error {
	return validateSigLockedOutput("sigLockedSingleOutput", o.Address, o.Amount)
}

func (o *SigLockedDustAllowanceOutput) Validate() error {
	return validateSigLockedOutput("sigLockedDustAllowanceOutput", o.Address, o.Amount)
}

func (o *TreasuryOutput) Validate() error {
	return validateAmount("treasuryOutput.amount", o.Amount)
}

func validateSigLockedOutput(field string, addr Address, amount uint64) error {
	if addr == nil {
		return common.NewValidationError(
			common.ValidationErrorTypeVariant,
			field+" has no address",
			nil,
			nil,
		)
	}
	return validateAmount(field+".amount", amount)
}

// DecodeOutput reads the output type tag and dispatches to the matching variant
func DecodeOutput(r *serializer.ReadStream, field string) (Output, error) {
	tag, err := r.PeekUint8(field + ".type")
	if err != nil {
		return nil, err
	}
	switch OutputType(tag) {
	case OutputTypeSigLockedSingle:
		return DecodeSigLockedSingleOutput(r, field)
	case OutputTypeSigLockedDustAllowance:
		return DecodeSigLockedDustAllowanceOutput(r, field)
	case OutputTypeTreasury:
		return DecodeTreasuryOutput(r, field)
	case OutputTypeBasic:
		return DecodeBasicOutput(r, field)
	case OutputTypeAlias:
		return DecodeAliasOutput(r, field)
	case OutputTypeFoundry:
		return DecodeFoundryOutput(r, field)
	case OutputTypeNFT:
		return DecodeNFTOutput(r, field)
	default:
		return nil, &serializer.UnknownVariantError{
			Field: field + ".type",
			Tag:   uint32(tag),
		}
	}
}

// NewOutputFromBytes decodes a serialized output that must consume all of data
func NewOutputFromBytes(data []byte) (Output, error) {
	return deserialize(data, "output", func(r *serializer.ReadStream) (Output, error) {
		return DecodeOutput(r, "output")
	})
}

func decodeSigLockedOutput(
	r *serializer.ReadStream,
	field string,
	outputType OutputType,
) (Address, uint64, error) {
	if err := r.Require(field, SigLockedOutputMinLength); err != nil {
		return nil, 0, err
	}
	if err := expectTag8(r, field, uint8(outputType)); err != nil {
		return nil, 0, err
	}
	addr, err := DecodeAddress(r, field+".address")
	if err != nil {
		return nil, 0, err
	}
	amount, err := readAmount(r, field+".amount")
	if err != nil {
		return nil, 0, err
	}
	return addr, amount, nil
}

func DecodeSigLockedSingleOutput(r *serializer.ReadStream, field string) (*SigLockedSingleOutput, error) {
	addr, amount, err := decodeSigLockedOutput(r, field, OutputTypeSigLockedSingle)
	if err != nil {
		return nil, err
	}
	return &SigLockedSingleOutput{Address: addr, Amount: amount}, nil
}

func DecodeSigLockedDustAllowanceOutput(
	r *serializer.ReadStream,
	field string,
) (*SigLockedDustAllowanceOutput, error) {
	addr, amount, err := decodeSigLockedOutput(r, field, OutputTypeSigLockedDustAllowance)
	if err != nil {
		return nil, err
	}
	return &SigLockedDustAllowanceOutput{Address: addr, Amount: amount}, nil
}

func DecodeTreasuryOutput(r *serializer.ReadStream, field string) (*TreasuryOutput, error) {
	if err := r.Require(field, TreasuryOutputLength); err != nil {
		return nil, err
	}
	if err := expectTag8(r, field, uint8(OutputTypeTreasury)); err != nil {
		return nil, err
	}
	amount, err := readAmount(r, field+".amount")
	if err != nil {
		return nil, err
	}
	return &TreasuryOutput{Amount: amount}, nil
}

// Outputs that an essence may create
func isEssenceOutputType(t OutputType) bool {
	return t != OutputTypeTreasury
}
