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
	"bytes"
	"fmt"

	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
)

const (
	TreasuryTransactionPayloadLength = serializer.UInt32Size + TreasuryInputLength + TreasuryOutputLength

	// Legacy tail transaction hashes are 243 trits packed into 49 bytes
	LegacyTailTransactionHashSize = 49

	MigratedFundsEntryMinLength = LegacyTailTransactionHashSize + AddressMinLength + serializer.UInt64Size
	// Tag, migrated at, final flag, funds count, one entry and the treasury transaction frame
	ReceiptPayloadMinLength = serializer.UInt32Size + serializer.UInt32Size + serializer.UInt8Size +
		serializer.UInt16Size + MigratedFundsEntryMinLength + serializer.UInt32Size +
		TreasuryTransactionPayloadLength
)

// TreasuryTransactionPayload moves funds from the previous treasury output to a new one
type TreasuryTransactionPayload struct {
	Input  TreasuryInput
	Output TreasuryOutput
}

func (*TreasuryTransactionPayload) isPayload() {}

func (*TreasuryTransactionPayload) Type() PayloadType { return PayloadTypeTreasuryTransaction }

func (p *TreasuryTransactionPayload) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint32(uint32(PayloadTypeTreasuryTransaction))
	p.Input.EncodeTo(w)
	p.Output.EncodeTo(w)
}

func (p *TreasuryTransactionPayload) Validate() error {
	return p.Output.Validate()
}

func DecodeTreasuryTransactionPayload(
	r *serializer.ReadStream,
	field string,
) (*TreasuryTransactionPayload, error) {
	if err := r.Require(field, TreasuryTransactionPayloadLength); err != nil {
		return nil, err
	}
	if err := expectTag32(r, field, uint32(PayloadTypeTreasuryTransaction)); err != nil {
		return nil, err
	}
	input, err := DecodeTreasuryInput(r, field+".input")
	if err != nil {
		return nil, err
	}
	output, err := DecodeTreasuryOutput(r, field+".output")
	if err != nil {
		return nil, err
	}
	return &TreasuryTransactionPayload{
		Input:  input,
		Output: *output,
	}, nil
}

// MigratedFundsEntry credits funds migrated from a legacy bundle to an address
type MigratedFundsEntry struct {
	TailTransactionHash [LegacyTailTransactionHashSize]byte
	Address             Address
	Deposit             uint64
}

func (m MigratedFundsEntry) EncodeTo(w *serializer.WriteStream) {
	w.WriteFixed(m.TailTransactionHash[:])
	m.Address.EncodeTo(w)
	w.WriteUint64(m.Deposit)
}

func DecodeMigratedFundsEntry(r *serializer.ReadStream, field string) (MigratedFundsEntry, error) {
	var ret MigratedFundsEntry
	if err := r.Require(field, MigratedFundsEntryMinLength); err != nil {
		return ret, err
	}
	if err := r.ReadInto(field+".tailTransactionHash", ret.TailTransactionHash[:]); err != nil {
		return ret, err
	}
	addr, err := DecodeAddress(r, field+".address")
	if err != nil {
		return ret, err
	}
	deposit, err := readAmount(r, field+".deposit")
	if err != nil {
		return ret, err
	}
	ret.Address = addr
	ret.Deposit = deposit
	return ret, nil
}

// ReceiptPayload lists the funds migrated at a legacy milestone and the treasury transaction
// that pays for them
type ReceiptPayload struct {
	MigratedAt  uint32
	Final       bool
	Funds       []MigratedFundsEntry
	Transaction *TreasuryTransactionPayload
}

func (*ReceiptPayload) isPayload() {}

func (*ReceiptPayload) Type() PayloadType { return PayloadTypeReceipt }

func (p *ReceiptPayload) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint32(uint32(PayloadTypeReceipt))
	w.WriteUint32(p.MigratedAt)
	w.WriteBool(p.Final)
	w.WriteUint16(uint16(len(p.Funds)))
	for _, entry := range p.Funds {
		entry.EncodeTo(w)
	}
	if p.Transaction == nil {
		encodePayloadFrame(w, nil)
	} else {
		encodePayloadFrame(w, p.Transaction)
	}
}

// Sum returns the total deposit of the migrated funds
func (p *ReceiptPayload) Sum() uint64 {
	var ret uint64
	for _, entry := range p.Funds {
		ret += entry.Deposit
	}
	return ret
}

func (p *ReceiptPayload) Validate() error {
	if err := common.ValidateCount("receipt.funds", len(p.Funds), MinMigratedFunds, MaxMigratedFunds); err != nil {
		return err
	}
	var total uint64
	for i, entry := range p.Funds {
		if entry.Address == nil {
			return common.NewValidationError(
				common.ValidationErrorTypeVariant,
				fmt.Sprintf("migrated funds entry %d has no address", i),
				nil,
				nil,
			)
		}
		if i > 0 && bytes.Compare(entry.TailTransactionHash[:], p.Funds[i-1].TailTransactionHash[:]) <= 0 {
			return common.NewOrderingError("receipt.funds", i)
		}
		total += entry.Deposit
		if entry.Deposit > MaxTokenSupply || total > MaxTokenSupply {
			return common.NewValidationError(
				common.ValidationErrorTypeAmount,
				"receipt migrated funds exceed the total token supply",
				map[string]any{"index": i},
				nil,
			)
		}
	}
	if p.Transaction == nil {
		return common.NewValidationError(
			common.ValidationErrorTypeVariant,
			"receipt has no treasury transaction",
			nil,
			nil,
		)
	}
	return p.Transaction.Validate()
}

func DecodeReceiptPayload(r *serializer.ReadStream, field string) (*ReceiptPayload, error) {
	if err := r.Require(field, ReceiptPayloadMinLength); err != nil {
		return nil, err
	}
	if err := expectTag32(r, field, uint32(PayloadTypeReceipt)); err != nil {
		return nil, err
	}
	ret := &ReceiptPayload{}
	var err error
	if ret.MigratedAt, err = r.ReadUint32(field + ".migratedAt"); err != nil {
		return nil, err
	}
	if ret.Final, err = r.ReadBool(field + ".final"); err != nil {
		return nil, err
	}
	count, err := readCount16(r, field+".funds", MinMigratedFunds, MaxMigratedFunds)
	if err != nil {
		return nil, err
	}
	ret.Funds = make([]MigratedFundsEntry, 0, count)
	var total uint64
	for i := range count {
		entry, err := DecodeMigratedFundsEntry(r, fmt.Sprintf("%s.funds[%d]", field, i))
		if err != nil {
			return nil, err
		}
		if i > 0 && bytes.Compare(entry.TailTransactionHash[:], ret.Funds[i-1].TailTransactionHash[:]) <= 0 {
			return nil, &serializer.OrderingViolationError{Field: field + ".funds", Index: i}
		}
		total, err = addAmount(fmt.Sprintf("%s.funds[%d].deposit", field, i), total, entry.Deposit)
		if err != nil {
			return nil, err
		}
		ret.Funds = append(ret.Funds, entry)
	}
	payload, err := decodePayloadFrame(r, field+".transaction", receiptPayloadTypes)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, &serializer.CountOutOfBoundsError{
			Field: field + ".transaction.length",
			Count: 0,
			Min:   TreasuryTransactionPayloadLength,
			Max:   TreasuryTransactionPayloadLength,
		}
	}
	// The frame only admits treasury transactions
	ret.Transaction = payload.(*TreasuryTransactionPayload)
	return ret, nil
}
