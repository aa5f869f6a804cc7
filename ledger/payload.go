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
	"math"
	"slices"

	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
)

type PayloadType uint32

const (
	PayloadTypeIndexation          PayloadType = 2
	PayloadTypeReceipt             PayloadType = 3
	PayloadTypeTreasuryTransaction PayloadType = 4
	PayloadTypeTaggedData          PayloadType = 5
	PayloadTypeTransaction         PayloadType = 6
	PayloadTypeMilestone           PayloadType = 7
)

func (t PayloadType) String() string {
	switch t {
	case PayloadTypeIndexation:
		return "Indexation"
	case PayloadTypeReceipt:
		return "Receipt"
	case PayloadTypeTreasuryTransaction:
		return "TreasuryTransaction"
	case PayloadTypeTaggedData:
		return "TaggedData"
	case PayloadTypeTransaction:
		return "Transaction"
	case PayloadTypeMilestone:
		return "Milestone"
	default:
		return fmt.Sprintf("PayloadType(%d)", uint32(t))
	}
}

// Payload is the content of a block or the optional payload of a transaction essence
type Payload interface {
	Encoder
	Validator
	Type() PayloadType
	isPayload()
}

// Payload types allowed in each framing context
var (
	blockPayloadTypes = []PayloadType{
		PayloadTypeTransaction,
		PayloadTypeMilestone,
		PayloadTypeTaggedData,
		PayloadTypeIndexation,
	}
	essencePayloadTypes = []PayloadType{
		PayloadTypeTaggedData,
		PayloadTypeIndexation,
	}
	milestonePayloadTypes = []PayloadType{
		PayloadTypeReceipt,
	}
	receiptPayloadTypes = []PayloadType{
		PayloadTypeTreasuryTransaction,
	}
)

// DecodePayload reads the payload type tag and dispatches to the matching variant
func DecodePayload(r *serializer.ReadStream, field string) (Payload, error) {
	tag, err := r.PeekUint32(field + ".type")
	if err != nil {
		return nil, err
	}
	switch PayloadType(tag) {
	case PayloadTypeIndexation:
		return DecodeIndexationPayload(r, field)
	case PayloadTypeReceipt:
		return DecodeReceiptPayload(r, field)
	case PayloadTypeTreasuryTransaction:
		return DecodeTreasuryTransactionPayload(r, field)
	case PayloadTypeTaggedData:
		return DecodeTaggedDataPayload(r, field)
	case PayloadTypeTransaction:
		return DecodeTransactionPayload(r, field)
	case PayloadTypeMilestone:
		return DecodeMilestonePayload(r, field)
	default:
		return nil, &serializer.UnknownVariantError{
			Field: field + ".type",
			Tag:   tag,
		}
	}
}

// NewPayloadFromBytes decodes a serialized payload that must consume all of data
func NewPayloadFromBytes(data []byte) (Payload, error) {
	return deserialize(data, "payload", func(r *serializer.ReadStream) (Payload, error) {
		return DecodePayload(r, "payload")
	})
}

// encodePayloadFrame writes p prefixed by its uint32 byte length. A nil payload is written as
// a zero length.
func encodePayloadFrame(w *serializer.WriteStream, p Payload) {
	if p == nil {
		w.WriteUint32(0)
		return
	}
	offset := w.Reserve32()
	p.EncodeTo(w)
	w.Backfill32(offset)
}

// decodePayloadFrame reads a length-framed payload. The payload must be one of the permitted
// types and must consume exactly the framed length. A zero length yields a nil payload.
func decodePayloadFrame(
	r *serializer.ReadStream,
	field string,
	permitted []PayloadType,
) (Payload, error) {
	length, err := r.ReadUint32(field + ".length")
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, nil
	}
	if uint64(length) > uint64(r.Unused()) {
		return nil, &serializer.TruncatedInputError{
			Field:     field,
			Required:  int(min(uint64(length), math.MaxInt32)),
			Available: r.Unused(),
		}
	}
	frame, err := r.Sub(field, int(length))
	if err != nil {
		return nil, err
	}
	tag, err := frame.PeekUint32(field + ".type")
	if err != nil {
		return nil, err
	}
	if !slices.Contains(permitted, PayloadType(tag)) {
		return nil, &serializer.UnknownVariantError{
			Field: field + ".type",
			Tag:   tag,
		}
	}
	payload, err := DecodePayload(frame, field)
	if err != nil {
		return nil, err
	}
	if err := frame.ExpectEnd(field); err != nil {
		return nil, err
	}
	return payload, nil
}

func validatePayloadType(field string, p Payload, permitted []PayloadType) error {
	if p == nil {
		return nil
	}
	if IsNilPayload(p) {
		return common.NewValidationError(
			common.ValidationErrorTypeVariant,
			fmt.Sprintf("%s is a nil %s payload", field, p.Type()),
			nil,
			nil,
		)
	}
	if slices.Contains(permitted, p.Type()) {
		return nil
	}
	return common.NewValidationError(
		common.ValidationErrorTypeVariant,
		fmt.Sprintf("%s payload not permitted in %s", p.Type(), field),
		nil,
		nil,
	)
}

// IsNilPayload reports whether p is nil or holds a nil pointer to one of the payload types
func IsNilPayload(p Payload) bool {
	switch v := p.(type) {
	case nil:
		return true
	case *TransactionPayload:
		return v == nil
	case *MilestonePayload:
		return v == nil
	case *TaggedDataPayload:
		return v == nil
	case *IndexationPayload:
		return v == nil
	case *ReceiptPayload:
		return v == nil
	case *TreasuryTransactionPayload:
		return v == nil
	default:
		return false
	}
}
