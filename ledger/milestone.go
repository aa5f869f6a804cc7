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
	"crypto/ed25519"
	"fmt"
	"slices"

	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
)

// Tag, index, timestamp, protocol version, previous milestone ID, one parent, two merkle roots,
// empty metadata, empty receipt frame and one signature
const MilestonePayloadMinLength = serializer.UInt32Size + 2*serializer.UInt32Size +
	serializer.UInt8Size + common.MilestoneIdSize + serializer.UInt8Size + common.BlockIdSize +
	2*common.Blake2b256Size + serializer.UInt16Size + serializer.UInt32Size +
	serializer.UInt8Size + Ed25519SignatureLength

// MilestonePayload is issued by the coordinator to confirm a cone of blocks
type MilestonePayload struct {
	Index               uint32
	Timestamp           uint32
	ProtocolVersion     uint8
	PreviousMilestoneId common.MilestoneId
	// Parents must be sorted in strictly increasing order
	Parents             []common.BlockId
	InclusionMerkleRoot common.Blake2b256
	AppliedMerkleRoot   common.Blake2b256
	Metadata            []byte
	Receipt             *ReceiptPayload
	// Signatures must be sorted by strictly increasing public key
	Signatures []Ed25519Signature
}

func (*MilestonePayload) isPayload() {}

func (*MilestonePayload) Type() PayloadType { return PayloadTypeMilestone }

func (m *MilestonePayload) encodeEssenceTo(w *serializer.WriteStream) {
	w.WriteUint32(m.Index)
	w.WriteUint32(m.Timestamp)
	w.WriteUint8(m.ProtocolVersion)
	w.WriteFixed(m.PreviousMilestoneId[:])
	encodeBlockIds(w, m.Parents)
	w.WriteFixed(m.InclusionMerkleRoot[:])
	w.WriteFixed(m.AppliedMerkleRoot[:])
	w.WriteBytes16(m.Metadata)
	if m.Receipt == nil {
		encodePayloadFrame(w, nil)
	} else {
		encodePayloadFrame(w, m.Receipt)
	}
}

func (m *MilestonePayload) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint32(uint32(PayloadTypeMilestone))
	m.encodeEssenceTo(w)
	w.WriteUint8(uint8(len(m.Signatures)))
	for _, sig := range m.Signatures {
		sig.EncodeTo(w)
	}
}

// Essence returns the signed part of the milestone: every field after the type tag up to,
// but excluding, the signatures
func (m *MilestonePayload) Essence() []byte {
	w := serializer.NewWriteStream()
	m.encodeEssenceTo(w)
	return w.Bytes()
}

// Id returns the milestone ID, the Blake2b-256 hash of the milestone essence. It is also the
// message signed by the milestone signatures.
func (m *MilestonePayload) Id() common.MilestoneId {
	return common.Blake2b256Hash(m.Essence())
}

func (m *MilestonePayload) Validate() error {
	if err := validateBlockIds("milestone.parents", m.Parents); err != nil {
		return err
	}
	if err := common.ValidateLength("milestone.metadata", len(m.Metadata), 0, MaxMetadataLength); err != nil {
		return err
	}
	if m.Receipt != nil {
		if err := m.Receipt.Validate(); err != nil {
			return err
		}
	}
	if err := common.ValidateCount(
		"milestone.signatures",
		len(m.Signatures),
		MinMilestoneSigCount,
		MaxMilestoneSigCount,
	); err != nil {
		return err
	}
	for i := 1; i < len(m.Signatures); i++ {
		if bytes.Compare(m.Signatures[i].PublicKey[:], m.Signatures[i-1].PublicKey[:]) <= 0 {
			return common.NewOrderingError("milestone.signatures", i)
		}
	}
	return nil
}

// VerifySignatures checks that at least threshold signatures are present, that every signature
// was made by one of the applicable public keys and that each one signs the milestone ID
func (m *MilestonePayload) VerifySignatures(
	threshold int,
	applicableKeys [][ed25519.PublicKeySize]byte,
) error {
	if len(m.Signatures) < threshold {
		return common.NewValidationError(
			common.ValidationErrorTypeSignature,
			fmt.Sprintf(
				"milestone has %d signatures, %d required",
				len(m.Signatures),
				threshold,
			),
			nil,
			nil,
		)
	}
	msId := m.Id()
	for i, sig := range m.Signatures {
		if !slices.Contains(applicableKeys, sig.PublicKey) {
			return common.NewValidationError(
				common.ValidationErrorTypeSignature,
				fmt.Sprintf("milestone signature %d uses a key that is not applicable", i),
				map[string]any{"publicKey": sig.String()},
				nil,
			)
		}
		if err := sig.Verify(msId[:]); err != nil {
			return common.NewValidationError(
				common.ValidationErrorTypeSignature,
				fmt.Sprintf("invalid milestone signature %d", i),
				map[string]any{"publicKey": sig.String()},
				err,
			)
		}
	}
	return nil
}

func DecodeMilestonePayload(r *serializer.ReadStream, field string) (*MilestonePayload, error) {
	if err := r.Require(field, MilestonePayloadMinLength); err != nil {
		return nil, err
	}
	if err := expectTag32(r, field, uint32(PayloadTypeMilestone)); err != nil {
		return nil, err
	}
	ret := &MilestonePayload{}
	var err error
	if ret.Index, err = r.ReadUint32(field + ".index"); err != nil {
		return nil, err
	}
	if ret.Timestamp, err = r.ReadUint32(field + ".timestamp"); err != nil {
		return nil, err
	}
	if ret.ProtocolVersion, err = r.ReadUint8(field + ".protocolVersion"); err != nil {
		return nil, err
	}
	if err = r.ReadInto(field+".previousMilestoneId", ret.PreviousMilestoneId[:]); err != nil {
		return nil, err
	}
	if ret.Parents, err = decodeBlockIds(r, field+".parents"); err != nil {
		return nil, err
	}
	if err = r.ReadInto(field+".inclusionMerkleRoot", ret.InclusionMerkleRoot[:]); err != nil {
		return nil, err
	}
	if err = r.ReadInto(field+".appliedMerkleRoot", ret.AppliedMerkleRoot[:]); err != nil {
		return nil, err
	}
	if ret.Metadata, err = readBlob16(r, field+".metadata", 0, MaxMetadataLength); err != nil {
		return nil, err
	}
	receipt, err := decodePayloadFrame(r, field+".receipt", milestonePayloadTypes)
	if err != nil {
		return nil, err
	}
	if receipt != nil {
		// The frame only admits receipts
		ret.Receipt = receipt.(*ReceiptPayload)
	}
	count, err := readCount8(r, field+".signatures", MinMilestoneSigCount, MaxMilestoneSigCount)
	if err != nil {
		return nil, err
	}
	ret.Signatures = make([]Ed25519Signature, 0, count)
	for i := range count {
		sig, err := DecodeEd25519Signature(r, fmt.Sprintf("%s.signatures[%d]", field, i))
		if err != nil {
			return nil, err
		}
		if i > 0 && bytes.Compare(sig.PublicKey[:], ret.Signatures[i-1].PublicKey[:]) <= 0 {
			return nil, &serializer.OrderingViolationError{Field: field + ".signatures", Index: i}
		}
		ret.Signatures = append(ret.Signatures, sig)
	}
	return ret, nil
}
