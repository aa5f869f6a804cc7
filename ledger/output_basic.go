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
	"github.com/blinklabs-io/gostardust/serializer"
)

// Tag, amount and empty native token, unlock condition and feature block lists
const BasicOutputMinLength = 1 + serializer.UInt64Size + 3*serializer.UInt8Size

// BasicOutput holds base tokens and native tokens locked by an address
type BasicOutput struct {
	Amount           uint64
	NativeTokens     NativeTokens
	UnlockConditions UnlockConditions
	FeatureBlocks    FeatureBlocks
}

func (*BasicOutput) isOutput() {}

func (*BasicOutput) Type() OutputType { return OutputTypeBasic }

func (o *BasicOutput) Deposit() uint64 { return o.Amount }

// Address returns the address that unlocks the output, or nil if it has none
func (o *BasicOutput) Address() Address {
	if cond := o.UnlockConditions.Address(); cond != nil {
		return cond.Address
	}
	return nil
}

func (o *BasicOutput) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(OutputTypeBasic))
	w.WriteUint64(o.Amount)
	o.NativeTokens.EncodeTo(w)
	o.UnlockConditions.EncodeTo(w)
	o.FeatureBlocks.EncodeTo(w)
}

func (o *BasicOutput) Validate() error {
	if err := validateAmount("basicOutput.amount", o.Amount); err != nil {
		return err
	}
	if err := o.NativeTokens.Validate(); err != nil {
		return err
	}
	if err := o.UnlockConditions.validate("basicOutput.unlockConditions", basicUnlockConditionRules); err != nil {
		return err
	}
	return o.FeatureBlocks.validate("basicOutput.featureBlocks", basicFeatureBlocks)
}

func DecodeBasicOutput(r *serializer.ReadStream, field string) (*BasicOutput, error) {
	if err := r.Require(field, BasicOutputMinLength); err != nil {
		return nil, err
	}
	if err := expectTag8(r, field, uint8(OutputTypeBasic)); err != nil {
		return nil, err
	}
	var err error
	ret := &BasicOutput{}
	if ret.Amount, err = readAmount(r, field+".amount"); err != nil {
		return nil, err
	}
	if ret.NativeTokens, err = DecodeNativeTokens(r, field+".nativeTokens"); err != nil {
		return nil, err
	}
	if ret.UnlockConditions, err = decodeUnlockConditions(r, field+".unlockConditions", basicUnlockConditionRules); err != nil {
		return nil, err
	}
	if ret.FeatureBlocks, err = decodeFeatureBlocks(r, field+".featureBlocks", basicFeatureBlocks); err != nil {
		return nil, err
	}
	return ret, nil
}
