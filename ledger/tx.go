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

const TransactionEssenceTypeNormal uint8 = 1

// Type, network ID, input count, inputs commitment, output count and empty payload frame
const TransactionEssenceMinLength = 1 + serializer.UInt64Size + serializer.UInt16Size +
	common.Blake2b256Size + serializer.UInt16Size + serializer.UInt32Size

// TransactionEssence is the signed part of a transaction
type TransactionEssence struct {
	NetworkId uint64
	// Inputs are written in the order given; they are never re-sorted
	Inputs           []Input
	InputsCommitment common.Blake2b256
	Outputs          []Output
	// Payload is optional and must be tagged data or an indexation
	Payload Payload
}

func (e *TransactionEssence) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(TransactionEssenceTypeNormal)
	w.WriteUint64(e.NetworkId)
	w.WriteUint16(uint16(len(e.Inputs)))
	for _, input := range e.Inputs {
		input.EncodeTo(w)
	}
	w.WriteFixed(e.InputsCommitment[:])
	w.WriteUint16(uint16(len(e.Outputs)))
	for _, output := range e.Outputs {
		output.EncodeTo(w)
	}
	encodePayloadFrame(w, e.Payload)
}

func (e *TransactionEssence) Validate() error {
	if err := common.ValidateCount("essence.inputs", len(e.Inputs), MinInputCount, MaxInputCount); err != nil {
		return err
	}
	seenInputs := make(map[common.OutputId]int, len(e.Inputs))
	for i, input := range e.Inputs {
		utxoInput, ok := input.(UTXOInput)
		if !ok {
			return common.NewValidationError(
				common.ValidationErrorTypeVariant,
				fmt.Sprintf("essence input %d is not a UTXO input", i),
				nil,
				nil,
			)
		}
		if err := utxoInput.Validate(); err != nil {
			return err
		}
		if _, dup := seenInputs[utxoInput.OutputId()]; dup {
			return common.NewOrderingError("essence.inputs", i)
		}
		seenInputs[utxoInput.OutputId()] = i
	}
	if err := common.ValidateCount("essence.outputs", len(e.Outputs), MinOutputCount, MaxOutputCount); err != nil {
		return err
	}
	var total uint64
	for i, output := range e.Outputs {
		if output == nil || !isEssenceOutputType(output.Type()) {
			return common.NewValidationError(
				common.ValidationErrorTypeVariant,
				fmt.Sprintf("essence output %d has an invalid type", i),
				nil,
				nil,
			)
		}
		if err := output.Validate(); err != nil {
			return fmt.Errorf("essence output %d: %w", i, err)
		}
		total += output.Deposit()
		if total > MaxTokenSupply {
			return common.NewValidationError(
				common.ValidationErrorTypeAmount,
				"essence outputs exceed the total token supply",
				map[string]any{"index": i},
				nil,
			)
		}
	}
	if err := validatePayloadType("essence.payload", e.Payload, essencePayloadTypes); err != nil {
		return err
	}
	if e.Payload != nil {
		return e.Payload.Validate()
	}
	return nil
}

// Hash returns the Blake2b-256 hash of the essence bytes, which is the message signed by each
// unlock block signature
func (e *TransactionEssence) Hash() (common.Blake2b256, error) {
	data, err := SerializeTransactionEssence(e)
	if err != nil {
		return common.Blake2b256{}, err
	}
	return common.Blake2b256Hash(data), nil
}

// SerializeTransactionEssence validates e and returns its canonical bytes
func SerializeTransactionEssence(e *TransactionEssence) ([]byte, error) {
	return Serialize(e)
}

func DeserializeTransactionEssence(data []byte) (*TransactionEssence, error) {
	return deserialize(data, "essence", func(r *serializer.ReadStream) (*TransactionEssence, error) {
		return DecodeTransactionEssence(r, "essence")
	})
}

func DecodeTransactionEssence(r *serializer.ReadStream, field string) (*TransactionEssence, error) {
	if err := r.Require(field, TransactionEssenceMinLength); err != nil {
		return nil, err
	}
	if err := expectTag8(r, field, TransactionEssenceTypeNormal); err != nil {
		return nil, err
	}
	ret := &TransactionEssence{}
	var err error
	if ret.NetworkId, err = r.ReadUint64(field + ".networkId"); err != nil {
		return nil, err
	}
	inputCount, err := readCount16(r, field+".inputs", MinInputCount, MaxInputCount)
	if err != nil {
		return nil, err
	}
	ret.Inputs = make([]Input, 0, inputCount)
	seenInputs := make(map[common.OutputId]struct{}, inputCount)
	for i := range inputCount {
		elemField := fmt.Sprintf("%s.inputs[%d]", field, i)
		tag, err := r.PeekUint8(elemField + ".type")
		if err != nil {
			return nil, err
		}
		if InputType(tag) != InputTypeUTXO {
			return nil, &serializer.UnknownVariantError{
				Field: elemField + ".type",
				Tag:   uint32(tag),
			}
		}
		input, err := DecodeUTXOInput(r, elemField)
		if err != nil {
			return nil, err
		}
		outputId := input.OutputId()
		if _, dup := seenInputs[outputId]; dup {
			return nil, &serializer.OrderingViolationError{Field: field + ".inputs", Index: i}
		}
		seenInputs[outputId] = struct{}{}
		ret.Inputs = append(ret.Inputs, input)
	}
	if err := r.ReadInto(field+".inputsCommitment", ret.InputsCommitment[:]); err != nil {
		return nil, err
	}
	outputCount, err := readCount16(r, field+".outputs", MinOutputCount, MaxOutputCount)
	if err != nil {
		return nil, err
	}
	ret.Outputs = make([]Output, 0, outputCount)
	var total uint64
	for i := range outputCount {
		elemField := fmt.Sprintf("%s.outputs[%d]", field, i)
		tag, err := r.PeekUint8(elemField + ".type")
		if err != nil {
			return nil, err
		}
		if !isEssenceOutputType(OutputType(tag)) {
			return nil, &serializer.UnknownVariantError{
				Field: elemField + ".type",
				Tag:   uint32(tag),
			}
		}
		output, err := DecodeOutput(r, elemField)
		if err != nil {
			return nil, err
		}
		if total, err = addAmount(elemField+".amount", total, output.Deposit()); err != nil {
			return nil, err
		}
		ret.Outputs = append(ret.Outputs, output)
	}
	if ret.Payload, err = decodePayloadFrame(r, field+".payload", essencePayloadTypes); err != nil {
		return nil, err
	}
	return ret, nil
}

// InputsCommitment binds an essence to the outputs it consumes: the Blake2b-256 hash of the
// concatenated Blake2b-256 hashes of each consumed output's encoding, in input order
func InputsCommitment(consumed []Output) common.Blake2b256 {
	hashes := make([][]byte, 0, len(consumed))
	for _, output := range consumed {
		h := encodingHash(output)
		hashes = append(hashes, h[:])
	}
	return common.Blake2b256HashMulti(hashes...)
}

// TransactionPayload is a transaction essence together with the unlock blocks for its inputs
type TransactionPayload struct {
	Essence      *TransactionEssence
	UnlockBlocks UnlockBlocks
}

func (*TransactionPayload) isPayload() {}

func (*TransactionPayload) Type() PayloadType { return PayloadTypeTransaction }

func (t *TransactionPayload) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint32(uint32(PayloadTypeTransaction))
	t.Essence.EncodeTo(w)
	t.UnlockBlocks.EncodeTo(w)
}

func (t *TransactionPayload) Validate() error {
	if t.Essence == nil {
		return common.NewValidationError(
			common.ValidationErrorTypeVariant,
			"transaction has no essence",
			nil,
			nil,
		)
	}
	if err := t.Essence.Validate(); err != nil {
		return err
	}
	if err := t.UnlockBlocks.Validate(); err != nil {
		return err
	}
	if len(t.UnlockBlocks) != len(t.Essence.Inputs) {
		return common.NewValidationError(
			common.ValidationErrorTypeCount,
			fmt.Sprintf(
				"transaction has %d unlock blocks for %d inputs",
				len(t.UnlockBlocks),
				len(t.Essence.Inputs),
			),
			nil,
			nil,
		)
	}
	return nil
}

// Id returns the transaction ID, the Blake2b-256 hash of the serialized payload
func (t *TransactionPayload) Id() (common.TransactionId, error) {
	data, err := Serialize(t)
	if err != nil {
		return common.TransactionId{}, err
	}
	return common.Blake2b256Hash(data), nil
}

// OutputIds returns the IDs of the outputs created by the transaction
func (t *TransactionPayload) OutputIds() ([]common.OutputId, error) {
	txId, err := t.Id()
	if err != nil {
		return nil, err
	}
	ret := make([]common.OutputId, len(t.Essence.Outputs))
	for i := range t.Essence.Outputs {
		ret[i] = common.NewOutputId(txId, uint16(i))
	}
	return ret, nil
}

// VerifySignatures checks every signature unlock block against the essence hash
func (t *TransactionPayload) VerifySignatures() error {
	essenceHash, err := t.Essence.Hash()
	if err != nil {
		return err
	}
	for i, block := range t.UnlockBlocks {
		sigBlock, ok := block.(SignatureUnlockBlock)
		if !ok {
			continue
		}
		if err := sigBlock.Signature.Verify(essenceHash[:]); err != nil {
			return common.NewValidationError(
				common.ValidationErrorTypeSignature,
				fmt.Sprintf("invalid signature in unlock block %d", i),
				map[string]any{"index": i},
				err,
			)
		}
	}
	return nil
}

func DecodeTransactionPayload(r *serializer.ReadStream, field string) (*TransactionPayload, error) {
	if err := r.Require(field, serializer.UInt32Size+TransactionEssenceMinLength); err != nil {
		return nil, err
	}
	if err := expectTag32(r, field, uint32(PayloadTypeTransaction)); err != nil {
		return nil, err
	}
	essence, err := DecodeTransactionEssence(r, field+".essence")
	if err != nil {
		return nil, wrapDecodeError("transaction", err)
	}
	unlockBlocks, err := DecodeUnlockBlocks(r, field+".unlockBlocks")
	if err != nil {
		return nil, wrapDecodeError("transaction", err)
	}
	if len(unlockBlocks) != len(essence.Inputs) {
		return nil, &serializer.CountOutOfBoundsError{
			Field: field + ".unlockBlocks.count",
			Count: len(unlockBlocks),
			Min:   len(essence.Inputs),
			Max:   len(essence.Inputs),
		}
	}
	return &TransactionPayload{
		Essence:      essence,
		UnlockBlocks: unlockBlocks,
	}, nil
}
