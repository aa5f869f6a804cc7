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
	"encoding/binary"
	"errors"

	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
)

// Tag, amount, native tokens, serial number, simple token scheme and the three empty lists
const FoundryOutputMinLength = 1 + serializer.UInt64Size + serializer.UInt8Size +
	serializer.UInt32Size + SimpleTokenSchemeLength + 3*serializer.UInt8Size

// FoundryOutput controls the supply of a native token on behalf of an alias
type FoundryOutput struct {
	Amount                 uint64
	NativeTokens           NativeTokens
	SerialNumber           uint32
	TokenScheme            TokenScheme
	UnlockConditions       UnlockConditions
	FeatureBlocks          FeatureBlocks
	ImmutableFeatureBlocks FeatureBlocks
}

func (*FoundryOutput) isOutput() {}

func (*FoundryOutput) Type() OutputType { return OutputTypeFoundry }

func (o *FoundryOutput) Deposit() uint64 { return o.Amount }

// NewFoundryId builds a foundry ID from the controlling alias, serial number and token scheme type
func NewFoundryId(alias AliasAddress, serialNumber uint32, schemeType TokenSchemeType) common.FoundryId {
	var ret common.FoundryId
	ret[0] = uint8(AddressTypeAlias)
	copy(ret[1:], alias[:])
	binary.LittleEndian.PutUint32(ret[AliasAddressLength:], serialNumber)
	ret[AliasAddressLength+serializer.UInt32Size] = uint8(schemeType)
	return ret
}

// FoundryId returns the ID of the foundry, which is also the ID of the token it controls
func (o *FoundryOutput) FoundryId() (common.FoundryId, error) {
	cond := o.UnlockConditions.ImmutableAliasAddress()
	if cond == nil {
		return common.FoundryId{}, errors.New("foundry output has no immutable alias address unlock condition")
	}
	if o.TokenScheme == nil {
		return common.FoundryId{}, errors.New("foundry output has no token scheme")
	}
	return NewFoundryId(cond.Address, o.SerialNumber, o.TokenScheme.Type()), nil
}

func (o *FoundryOutput) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(OutputTypeFoundry))
	w.WriteUint64(o.Amount)
	o.NativeTokens.EncodeTo(w)
	w.WriteUint32(o.SerialNumber)
	o.TokenScheme.EncodeTo(w)
	o.UnlockConditions.EncodeTo(w)
	o.FeatureBlocks.EncodeTo(w)
	o.ImmutableFeatureBlocks.EncodeTo(w)
}

func (o *FoundryOutput) Validate() error {
	if err := validateAmount("foundryOutput.amount", o.Amount); err != nil {
		return err
	}
	if err := o.NativeTokens.Validate(); err != nil {
		return err
	}
	if o.TokenScheme == nil {
		return common.NewValidationError(
			common.ValidationErrorTypeVariant,
			"foundryOutput has no token scheme",
			nil,
			nil,
		)
	}
	if err := o.TokenScheme.Validate(); err != nil {
		return err
	}
	if err := o.UnlockConditions.validate("foundryOutput.unlockConditions", foundryUnlockConditionRules); err != nil {
		return err
	}
	if err := o.FeatureBlocks.validate("foundryOutput.featureBlocks", foundryFeatureBlocks); err != nil {
		return err
	}
	return o.ImmutableFeatureBlocks.validate("foundryOutput.immutableFeatureBlocks", foundryImmutableFeatureBlocks)
}

func DecodeFoundryOutput(r *serializer.ReadStream, field string) (*FoundryOutput, error) {
	if err := r.Require(field, FoundryOutputMinLength); err != nil {
		return nil, err
	}
	if err := expectTag8(r, field, uint8(OutputTypeFoundry)); err != nil {
		return nil, err
	}
	var err error
	ret := &FoundryOutput{}
	if ret.Amount, err = readAmount(r, field+".amount"); err != nil {
		return nil, err
	}
	if ret.NativeTokens, err = DecodeNativeTokens(r, field+".nativeTokens"); err != nil {
		return nil, err
	}
	if ret.SerialNumber, err = r.ReadUint32(field + ".serialNumber"); err != nil {
		return nil, err
	}
	if ret.TokenScheme, err = DecodeTokenScheme(r, field+".tokenScheme"); err != nil {
		return nil, err
	}
	if ret.UnlockConditions, err = decodeUnlockConditions(r, field+".unlockConditions", foundryUnlockConditionRules); err != nil {
		return nil, err
	}
	if ret.FeatureBlocks, err = decodeFeatureBlocks(r, field+".featureBlocks", foundryFeatureBlocks); err != nil {
		return nil, err
	}
	if ret.ImmutableFeatureBlocks, err = decodeFeatureBlocks(r, field+".immutableFeatureBlocks", foundryImmutableFeatureBlocks); err != nil {
		return nil, err
	}
	return ret, nil
}
