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
	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
)

// Tag, amount, native tokens, NFT ID and the three empty lists
const NFTOutputMinLength = 1 + serializer.UInt64Size + serializer.UInt8Size +
	common.NftIdSize + 3*serializer.UInt8Size

// NFTOutput is the state of an NFT chain. The NFT ID is zero in the output that mints it.
type NFTOutput struct {
	Amount                 uint64
	NativeTokens           NativeTokens
	NftId                  common.NftId
	UnlockConditions       UnlockConditions
	FeatureBlocks          FeatureBlocks
	ImmutableFeatureBlocks FeatureBlocks
}

func (*NFTOutput) isOutput() {}

func (*NFTOutput) Type() OutputType { return OutputTypeNFT }

func (o *NFTOutput) Deposit() uint64 { return o.Amount }

// ResolvedNftId returns the NFT ID, deriving it from outputId if this output minted the NFT
func (o *NFTOutput) ResolvedNftId(outputId common.OutputId) common.NftId {
	if o.NftId.IsZero() {
		return common.NftIdFromOutputId(outputId)
	}
	return o.NftId
}

// NFTAddress returns the address of the NFT chain this output belongs to
func (o *NFTOutput) NFTAddress(outputId common.OutputId) NFTAddress {
	return NFTAddress(o.ResolvedNftId(outputId))
}

func (o *NFTOutput) Address() Address {
	if cond := o.UnlockConditions.Address(); cond != nil {
		return cond.Address
	}
	return nil
}

func (o *NFTOutput) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(OutputTypeNFT))
	w.WriteUint64(o.Amount)
	o.NativeTokens.EncodeTo(w)
	w.WriteFixed(o.NftId[:])
	o.UnlockConditions.EncodeTo(w)
	o.FeatureBlocks.EncodeTo(w)
	o.ImmutableFeatureBlocks.EncodeTo(w)
}

func (o *NFTOutput) Validate() error {
	if err := validateAmount("nftOutput.amount", o.Amount); err != nil {
		return err
	}
	if err := o.NativeTokens.Validate(); err != nil {
		return err
	}
	if err := o.UnlockConditions.validate("nftOutput.unlockConditions", nftUnlockConditionRules); err != nil {
		return err
	}
	if err := o.FeatureBlocks.validate("nftOutput.featureBlocks", nftFeatureBlocks); err != nil {
		return err
	}
	return o.ImmutableFeatureBlocks.validate("nftOutput.immutableFeatureBlocks", nftImmutableFeatureBlocks)
}

func DecodeNFTOutput(r *serializer.ReadStream, field string) (*NFTOutput, error) {
	if err := r.Require(field, NFTOutputMinLength); err != nil {
		return nil, err
	}
	if err := expectTag8(r, field, uint8(OutputTypeNFT)); err != nil {
		return nil, err
	}
	var err error
	ret := &NFTOutput{}
	if ret.Amount, err = readAmount(r, field+".amount"); err != nil {
		return nil, err
	}
	if ret.NativeTokens, err = DecodeNativeTokens(r, field+".nativeTokens"); err != nil {
		return nil, err
	}
	if err = r.ReadInto(field+".nftId", ret.NftId[:]); err != nil {
		return nil, err
	}
	if ret.UnlockConditions, err = decodeUnlockConditions(r, field+".unlockConditions", nftUnlockConditionRules); err != nil {
		return nil, err
	}
	if ret.FeatureBlocks, err = decodeFeatureBlocks(r, field+".featureBlocks", nftFeatureBlocks); err != nil {
		return nil, err
	}
	if ret.ImmutableFeatureBlocks, err = decodeFeatureBlocks(r, field+".immutableFeatureBlocks", nftImmutableFeatureBlocks); err != nil {
		return nil, err
	}
	return ret, nil
}
