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
	"slices"

	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
)

// Tag, amount, native tokens, alias ID, state index, state metadata, foundry counter and the
// three empty condition and feature lists
const AliasOutputMinLength = 1 + serializer.UInt64Size + serializer.UInt8Size +
	common.AliasIdSize + serializer.UInt32Size + serializer.UInt16Size + serializer.UInt32Size +
	3*serializer.UInt8Size

// AliasOutput is the state of an alias chain. The alias ID is zero in the output that creates the chain.
type AliasOutput struct {
	Amount                 uint64
	NativeTokens           NativeTokens
	AliasId                common.AliasId
	StateIndex             uint32
	StateMetadata          []byte
	FoundryCounter         uint32
	UnlockConditions       UnlockConditions
	FeatureBlocks          FeatureBlocks
	ImmutableFeatureBlocks FeatureBlocks
}

func (*AliasOutput) isOutput() {}

func (*AliasOutput) Type() OutputType { return OutputTypeAlias }

func (o *AliasOutput) Deposit() uint64 { return o.Amount }

// ResolvedAliasId returns the alias ID, deriving it from outputId if this output created the chain
func (o *AliasOutput) ResolvedAliasId(outputId common.OutputId) common.AliasId {
	if o.AliasId.IsZero() {
		return common.AliasIdFromOutputId(outputId)
	}
	return o.AliasId
}

// AliasAddress returns the address of the alias chain this output belongs to
func (o *AliasOutput) AliasAddress(outputId common.OutputId) AliasAddress {
	return AliasAddress(o.ResolvedAliasId(outputId))
}

func (o *AliasOutput) StateController() Address {
	if cond := o.UnlockConditions.StateControllerAddress(); cond != nil {
		return cond.Address
	}
	return nil
}

func (o *AliasOutput) Governor() Address {
	if cond := o.UnlockConditions.GovernorAddress(); cond != nil {
		return cond.Address
	}
	return nil
}

// Clone returns a copy of the output with its own lists. List elements are immutable values
// and are shared.
func (o *AliasOutput) Clone() *AliasOutput {
	ret := *o
	ret.NativeTokens = slices.Clone(o.NativeTokens)
	ret.StateMetadata = slices.Clone(o.StateMetadata)
	ret.UnlockConditions = slices.Clone(o.UnlockConditions)
	ret.FeatureBlocks = slices.Clone(o.FeatureBlocks)
	ret.ImmutableFeatureBlocks = slices.Clone(o.ImmutableFeatureBlocks)
	return &ret
}

// WithNextState returns a copy of the output for the next state transition of its chain. The
// state index is incremented and the state metadata replaced; the receiver is left unchanged.
func (o *AliasOutput) WithNextState(aliasId common.AliasId, stateMetadata []byte) *AliasOutput {
	ret := o.Clone()
	if ret.AliasId.IsZero() {
		ret.AliasId = aliasId
	}
	ret.StateIndex++
	ret.StateMetadata = slices.Clone(stateMetadata)
	return ret
}

func (o *AliasOutput) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(OutputTypeAlias))
	w.WriteUint64(o.Amount)
	o.NativeTokens.EncodeTo(w)
	w.WriteFixed(o.AliasId[:])
	w.WriteUint32(o.StateIndex)
	w.WriteBytes16(o.StateMetadata)
	w.WriteUint32(o.FoundryCounter)
	o.UnlockConditions.EncodeTo(w)
	o.FeatureBlocks.EncodeTo(w)
	o.ImmutableFeatureBlocks.EncodeTo(w)
}

func (o *AliasOutput) Validate() error {
	if err := validateAmount("aliasOutput.amount", o.Amount); err != nil {
		return err
	}
	if err := o.NativeTokens.Validate(); err != nil {
		return err
	}
	if err := common.ValidateLength("aliasOutput.stateMetadata", len(o.StateMetadata), 0, MaxMetadataLength); err != nil {
		return err
	}
	if err := o.UnlockConditions.validate("aliasOutput.unlockConditions", aliasUnlockConditionRules); err != nil {
		return err
	}
	if err := o.FeatureBlocks.validate("aliasOutput.featureBlocks", aliasFeatureBlocks); err != nil {
		return err
	}
	return o.ImmutableFeatureBlocks.validate("aliasOutput.immutableFeatureBlocks", aliasImmutableFeatureBlocks)
}

func DecodeAliasOutput(r *serializer.ReadStream, field string) (*AliasOutput, error) {
	if err := r.Require(field, AliasOutputMinLength); err != nil {
		return nil, err
	}
	if err := expectTag8(r, field, uint8(OutputTypeAlias)); err != nil {
		return nil, err
	}
	var err error
	ret := &AliasOutput{}
	if ret.Amount, err = readAmount(r, field+".amount"); err != nil {
		return nil, err
	}
	if ret.NativeTokens, err = DecodeNativeTokens(r, field+".nativeTokens"); err != nil {
		return nil, err
	}
	if err = r.ReadInto(field+".aliasId", ret.AliasId[:]); err != nil {
		return nil, err
	}
	if ret.StateIndex, err = r.ReadUint32(field + ".stateIndex"); err != nil {
		return nil, err
	}
	if ret.StateMetadata, err = readBlob16(r, field+".stateMetadata", 0, MaxMetadataLength); err != nil {
		return nil, err
	}
	if ret.FoundryCounter, err = r.ReadUint32(field + ".foundryCounter"); err != nil {
		return nil, err
	}
	if ret.UnlockConditions, err = decodeUnlockConditions(r, field+".unlockConditions", aliasUnlockConditionRules); err != nil {
		return nil, err
	}
	if ret.FeatureBlocks, err = decodeFeatureBlocks(r, field+".featureBlocks", aliasFeatureBlocks); err != nil {
		return nil, err
	}
	if ret.ImmutableFeatureBlocks, err = decodeFeatureBlocks(r, field+".immutableFeatureBlocks", aliasImmutableFeatureBlocks); err != nil {
		return nil, err
	}
	return ret, nil
}
