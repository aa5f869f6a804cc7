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
	"slices"

	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
)

type FeatureBlockType uint8

const (
	FeatureBlockTypeSender                   FeatureBlockType = 0
	FeatureBlockTypeIssuer                   FeatureBlockType = 1
	FeatureBlockTypeDustDepositReturn        FeatureBlockType = 2
	FeatureBlockTypeTimelockMilestoneIndex   FeatureBlockType = 3
	FeatureBlockTypeTimelockUnix             FeatureBlockType = 4
	FeatureBlockTypeExpirationMilestoneIndex FeatureBlockType = 5
	FeatureBlockTypeExpirationUnix           FeatureBlockType = 6
	FeatureBlockTypeMetadata                 FeatureBlockType = 7
	FeatureBlockTypeTag                      FeatureBlockType = 8
)

const (
	AddressFeatureBlockMinLength  = 1 + AddressMinLength
	AmountFeatureBlockLength      = 1 + serializer.UInt64Size
	Uint32FeatureBlockLength      = 1 + serializer.UInt32Size
	MetadataFeatureBlockMinLength = 1 + serializer.UInt16Size + 1
	TagFeatureBlockMinLength      = 1 + serializer.UInt8Size + 1
)

func (t FeatureBlockType) String() string {
	switch t {
	case FeatureBlockTypeSender:
		return "sender"
	case FeatureBlockTypeIssuer:
		return "issuer"
	case FeatureBlockTypeDustDepositReturn:
		return "dustDepositReturn"
	case FeatureBlockTypeTimelockMilestoneIndex:
		return "timelockMilestoneIndex"
	case FeatureBlockTypeTimelockUnix:
		return "timelockUnix"
	case FeatureBlockTypeExpirationMilestoneIndex:
		return "expirationMilestoneIndex"
	case FeatureBlockTypeExpirationUnix:
		return "expirationUnix"
	case FeatureBlockTypeMetadata:
		return "metadata"
	case FeatureBlockTypeTag:
		return "tag"
	default:
		return fmt.Sprintf("featureBlock(%d)", uint8(t))
	}
}

// FeatureBlock is optional data attached to an output
type FeatureBlock interface {
	Encoder
	Type() FeatureBlockType
	isFeatureBlock()
}

type SenderFeatureBlock struct {
	Address Address
}

type IssuerFeatureBlock struct {
	Address Address
}

type DustDepositReturnFeatureBlock struct {
	Amount uint64
}

type TimelockMilestoneIndexFeatureBlock struct {
	MilestoneIndex uint32
}

type TimelockUnixFeatureBlock struct {
	UnixTime uint32
}

type ExpirationMilestoneIndexFeatureBlock struct {
	MilestoneIndex uint32
}

type ExpirationUnixFeatureBlock struct {
	UnixTime uint32
}

type MetadataFeatureBlock struct {
	Data []byte
}

// TagFeatureBlock carries an indexation tag for the output
type TagFeatureBlock struct {
	Tag []byte
}

func (SenderFeatureBlock) isFeatureBlock()                   {}
func (IssuerFeatureBlock) isFeatureBlock()                   {}
func (DustDepositReturnFeatureBlock) isFeatureBlock()        {}
func (TimelockMilestoneIndexFeatureBlock) isFeatureBlock()   {}
func (TimelockUnixFeatureBlock) isFeatureBlock()             {}
func (ExpirationMilestoneIndexFeatureBlock) isFeatureBlock() {}
func (ExpirationUnixFeatureBlock) isFeatureBlock()           {}
func (MetadataFeatureBlock) isFeatureBlock()                 {}
func (TagFeatureBlock) isFeatureBlock()                      {}

func (SenderFeatureBlock) Type() FeatureBlockType { return FeatureBlockTypeSender }
func (IssuerFeatureBlock) Type() FeatureBlockType { return FeatureBlockTypeIssuer }
func (DustDepositReturnFeatureBlock) Type() FeatureBlockType {
	return FeatureBlockTypeDustDepositReturn
}

func (TimelockMilestoneIndexFeatureBlock) Type() FeatureBlockType {
	return FeatureBlockTypeTimelockMilestoneIndex
}

func (TimelockUnixFeatureBlock) Type() FeatureBlockType {
	return FeatureBlockTypeTimelockUnix
}

func (ExpirationMilestoneIndexFeatureBlock) Type() FeatureBlockType {
	return FeatureBlockTypeExpirationMilestoneIndex
}

func (ExpirationUnixFeatureBlock) Type() FeatureBlockType {
	return FeatureBlockTypeExpirationUnix
}

func (MetadataFeatureBlock) Type() FeatureBlockType { return FeatureBlockTypeMetadata }
func (TagFeatureBlock) Type() FeatureBlockType      { return FeatureBlockTypeTag }

func (f SenderFeatureBlock) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(FeatureBlockTypeSender))
	f.Address.EncodeTo(w)
}

func (f IssuerFeatureBlock) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(FeatureBlockTypeIssuer))
	f.Address.EncodeTo(w)
}

func (f DustDepositReturnFeatureBlock) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(FeatureBlockTypeDustDepositReturn))
	w.WriteUint64(f.Amount)
}

func (f TimelockMilestoneIndexFeatureBlock) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(FeatureBlockTypeTimelockMilestoneIndex))
	w.WriteUint32(f.MilestoneIndex)
}

func (f TimelockUnixFeatureBlock) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(FeatureBlockTypeTimelockUnix))
	w.WriteUint32(f.UnixTime)
}

func (f ExpirationMilestoneIndexFeatureBlock) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(FeatureBlockTypeExpirationMilestoneIndex))
	w.WriteUint32(f.MilestoneIndex)
}

func (f ExpirationUnixFeatureBlock) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(FeatureBlockTypeExpirationUnix))
	w.WriteUint32(f.UnixTime)
}

func (f MetadataFeatureBlock) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(FeatureBlockTypeMetadata))
	w.WriteBytes16(f.Data)
}

func (f TagFeatureBlock) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(FeatureBlockTypeTag))
	w.WriteBytes8(f.Tag)
}

// DecodeFeatureBlock reads the feature block type tag and dispatches to the matching variant
func DecodeFeatureBlock(r *serializer.ReadStream, field string) (FeatureBlock, error) {
	tag, err := r.PeekUint8(field + ".type")
	if err != nil {
		return nil, err
	}
	switch FeatureBlockType(tag) {
	case FeatureBlockTypeSender:
		return DecodeSenderFeatureBlock(r, field)
	case FeatureBlockTypeIssuer:
		return DecodeIssuerFeatureBlock(r, field)
	case FeatureBlockTypeDustDepositReturn:
		return DecodeDustDepositReturnFeatureBlock(r, field)
	case FeatureBlockTypeTimelockMilestoneIndex:
		return DecodeTimelockMilestoneIndexFeatureBlock(r, field)
	case FeatureBlockTypeTimelockUnix:
		return DecodeTimelockUnixFeatureBlock(r, field)
	case FeatureBlockTypeExpirationMilestoneIndex:
		return DecodeExpirationMilestoneIndexFeatureBlock(r, field)
	case FeatureBlockTypeExpirationUnix:
		return DecodeExpirationUnixFeatureBlock(r, field)
	case FeatureBlockTypeMetadata:
		return DecodeMetadataFeatureBlock(r, field)
	case FeatureBlockTypeTag:
		return DecodeTagFeatureBlock(r, field)
	default:
		return nil, &serializer.UnknownVariantError{
			Field: field + ".type",
			Tag:   uint32(tag),
		}
	}
}

func decodeAddressFeatureBlock(
	r *serializer.ReadStream,
	field string,
	blockType FeatureBlockType,
) (Address, error) {
	if err := r.Require(field, AddressFeatureBlockMinLength); err != nil {
		return nil, err
	}
	if err := expectTag8(r, field, uint8(blockType)); err != nil {
		return nil, err
	}
	return DecodeAddress(r, field+".address")
}

func decodeUint32FeatureBlock(
	r *serializer.ReadStream,
	field string,
	blockType FeatureBlockType,
) (uint32, error) {
	if err := r.Require(field, Uint32FeatureBlockLength); err != nil {
		return 0, err
	}
	if err := expectTag8(r, field, uint8(blockType)); err != nil {
		return 0, err
	}
	return r.ReadUint32(field + ".value")
}

func DecodeSenderFeatureBlock(r *serializer.ReadStream, field string) (SenderFeatureBlock, error) {
	addr, err := decodeAddressFeatureBlock(r, field, FeatureBlockTypeSender)
	if err != nil {
		return SenderFeatureBlock{}, err
	}
	return SenderFeatureBlock{Address: addr}, nil
}

func DecodeIssuerFeatureBlock(r *serializer.ReadStream, field string) (IssuerFeatureBlock, error) {
	addr, err := decodeAddressFeatureBlock(r, field, FeatureBlockTypeIssuer)
	if err != nil {
		return IssuerFeatureBlock{}, err
	}
	return IssuerFeatureBlock{Address: addr}, nil
}

func DecodeDustDepositReturnFeatureBlock(
	r *serializer.ReadStream,
	field string,
) (DustDepositReturnFeatureBlock, error) {
	var ret DustDepositReturnFeatureBlock
	if err := r.Require(field, AmountFeatureBlockLength); err != nil {
		return ret, err
	}
	if err := expectTag8(r, field, uint8(FeatureBlockTypeDustDepositReturn)); err != nil {
		return ret, err
	}
	amount, err := readAmount(r, field+".amount")
	if err != nil {
		return ret, err
	}
	ret.Amount = amount
	return ret, nil
}

func DecodeTimelockMilestoneIndexFeatureBlock(
	r *serializer.ReadStream,
	field string,
) (TimelockMilestoneIndexFeatureBlock, error) {
	v, err := decodeUint32FeatureBlock(r, field, FeatureBlockTypeTimelockMilestoneIndex)
	if err != nil {
		return TimelockMilestoneIndexFeatureBlock{}, err
	}
	return TimelockMilestoneIndexFeatureBlock{MilestoneIndex: v}, nil
}

func DecodeTimelockUnixFeatureBlock(r *serializer.ReadStream, field string) (TimelockUnixFeatureBlock, error) {
	v, err := decodeUint32FeatureBlock(r, field, FeatureBlockTypeTimelockUnix)
	if err != nil {
		return TimelockUnixFeatureBlock{}, err
	}
	return TimelockUnixFeatureBlock{UnixTime: v}, nil
}

func DecodeExpirationMilestoneIndexFeatureBlock(
	r *serializer.ReadStream,
	field string,
) (ExpirationMilestoneIndexFeatureBlock, error) {
	v, err := decodeUint32FeatureBlock(r, field, FeatureBlockTypeExpirationMilestoneIndex)
	if err != nil {
		return ExpirationMilestoneIndexFeatureBlock{}, err
	}
	return ExpirationMilestoneIndexFeatureBlock{MilestoneIndex: v}, nil
}

func DecodeExpirationUnixFeatureBlock(r *serializer.ReadStream, field string) (ExpirationUnixFeatureBlock, error) {
	v, err := decodeUint32FeatureBlock(r, field, FeatureBlockTypeExpirationUnix)
	if err != nil {
		return ExpirationUnixFeatureBlock{}, err
	}
	return ExpirationUnixFeatureBlock{UnixTime: v}, nil
}

func DecodeMetadataFeatureBlock(r *serializer.ReadStream, field string) (MetadataFeatureBlock, error) {
	var ret MetadataFeatureBlock
	if err := r.Require(field, MetadataFeatureBlockMinLength); err != nil {
		return ret, err
	}
	if err := expectTag8(r, field, uint8(FeatureBlockTypeMetadata)); err != nil {
		return ret, err
	}
	data, err := readBlob16(r, field+".data", 1, MaxMetadataLength)
	if err != nil {
		return ret, err
	}
	ret.Data = data
	return ret, nil
}

func DecodeTagFeatureBlock(r *serializer.ReadStream, field string) (TagFeatureBlock, error) {
	var ret TagFeatureBlock
	if err := r.Require(field, TagFeatureBlockMinLength); err != nil {
		return ret, err
	}
	if err := expectTag8(r, field, uint8(FeatureBlockTypeTag)); err != nil {
		return ret, err
	}
	tag, err := readBlob8(r, field+".tag", 1, MaxTagLength)
	if err != nil {
		return ret, err
	}
	ret.Tag = tag
	return ret, nil
}

// FeatureBlocks is a feature block list, sorted by strictly increasing type
type FeatureBlocks []FeatureBlock

// Get returns the feature block of the given type, or nil
func (f FeatureBlocks) Get(blockType FeatureBlockType) FeatureBlock {
	for _, block := range f {
		if block.Type() == blockType {
			return block
		}
	}
	return nil
}

func (f FeatureBlocks) Sender() Address {
	if block, ok := f.Get(FeatureBlockTypeSender).(SenderFeatureBlock); ok {
		return block.Address
	}
	return nil
}

func (f FeatureBlocks) Issuer() Address {
	if block, ok := f.Get(FeatureBlockTypeIssuer).(IssuerFeatureBlock); ok {
		return block.Address
	}
	return nil
}

func (f FeatureBlocks) Metadata() []byte {
	if block, ok := f.Get(FeatureBlockTypeMetadata).(MetadataFeatureBlock); ok {
		return block.Data
	}
	return nil
}

func (f FeatureBlocks) Tag() []byte {
	if block, ok := f.Get(FeatureBlockTypeTag).(TagFeatureBlock); ok {
		return block.Tag
	}
	return nil
}

func (f FeatureBlocks) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(len(f)))
	for _, block := range f {
		block.EncodeTo(w)
	}
}

// Permitted feature block sets per output variant
var (
	allButIssuerFeatureBlocks = []FeatureBlockType{
		FeatureBlockTypeSender,
		FeatureBlockTypeDustDepositReturn,
		FeatureBlockTypeTimelockMilestoneIndex,
		FeatureBlockTypeTimelockUnix,
		FeatureBlockTypeExpirationMilestoneIndex,
		FeatureBlockTypeExpirationUnix,
		FeatureBlockTypeMetadata,
		FeatureBlockTypeTag,
	}
	basicFeatureBlocks            = allButIssuerFeatureBlocks
	nftFeatureBlocks              = allButIssuerFeatureBlocks
	aliasFeatureBlocks            = []FeatureBlockType{FeatureBlockTypeSender, FeatureBlockTypeMetadata}
	foundryFeatureBlocks          = []FeatureBlockType{FeatureBlockTypeMetadata}
	issuerAndMetadataBlocks       = []FeatureBlockType{FeatureBlockTypeIssuer, FeatureBlockTypeMetadata}
	aliasImmutableFeatureBlocks   = issuerAndMetadataBlocks
	nftImmutableFeatureBlocks     = issuerAndMetadataBlocks
	foundryImmutableFeatureBlocks = []FeatureBlockType{FeatureBlockTypeMetadata}
)

func decodeFeatureBlocks(
	r *serializer.ReadStream,
	field string,
	permitted []FeatureBlockType,
) (FeatureBlocks, error) {
	count, err := readCount8(r, field, 0, len(permitted))
	if err != nil {
		return nil, err
	}
	var ret FeatureBlocks
	for i := range count {
		elemField := fmt.Sprintf("%s[%d]", field, i)
		tag, err := r.PeekUint8(elemField + ".type")
		if err != nil {
			return nil, err
		}
		if !slices.Contains(permitted, FeatureBlockType(tag)) {
			return nil, &serializer.UnknownVariantError{
				Field: elemField + ".type",
				Tag:   uint32(tag),
			}
		}
		if i > 0 && tag <= uint8(ret[i-1].Type()) {
			return nil, &serializer.OrderingViolationError{Field: field, Index: i}
		}
		block, err := DecodeFeatureBlock(r, elemField)
		if err != nil {
			return nil, err
		}
		ret = append(ret, block)
	}
	return ret, nil
}

func (f FeatureBlocks) validate(field string, permitted []FeatureBlockType) error {
	if err := common.ValidateCount(field, len(f), 0, len(permitted)); err != nil {
		return err
	}
	for i, block := range f {
		if block == nil {
			return common.NewValidationError(
				common.ValidationErrorTypeVariant,
				fmt.Sprintf("%s[%d] is nil", field, i),
				nil,
				nil,
			)
		}
		if !slices.Contains(permitted, block.Type()) {
			return common.NewValidationError(
				common.ValidationErrorTypeVariant,
				fmt.Sprintf("%s block not permitted in %s", block.Type(), field),
				map[string]any{"index": i},
				nil,
			)
		}
		if i > 0 && block.Type() <= f[i-1].Type() {
			return common.NewOrderingError(field, i)
		}
		if err := validateFeatureBlock(block); err != nil {
			return err
		}
	}
	return nil
}

func validateFeatureBlock(block FeatureBlock) error {
	switch b := block.(type) {
	case SenderFeatureBlock:
		if b.Address == nil {
			return common.NewValidationError(
				common.ValidationErrorTypeVariant,
				"sender block has no address",
				nil,
				nil,
			)
		}
	case IssuerFeatureBlock:
		if b.Address == nil {
			return common.NewValidationError(
				common.ValidationErrorTypeVariant,
				"issuer block has no address",
				nil,
				nil,
			)
		}
	case DustDepositReturnFeatureBlock:
		return validateAmount("dustDepositReturn.amount", b.Amount)
	case MetadataFeatureBlock:
		return common.ValidateLength("metadata", len(b.Data), 1, MaxMetadataLength)
	case TagFeatureBlock:
		return common.ValidateLength("tag", len(b.Tag), 1, MaxTagLength)
	}
	return nil
}
