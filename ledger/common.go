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

	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
)

// Protocol limits
const (
	ProtocolVersion = 2

	MaxTokenSupply uint64 = 2_779_530_283_277_761
	MaxBlockSize          = 32_768

	MinInputCount        = 1
	MaxInputCount        = 128
	MinOutputCount       = 1
	MaxOutputCount       = 128
	MaxOutputIndex       = MaxOutputCount - 1
	MinParentCount       = 1
	MaxParentCount       = 8
	MaxNativeTokenCount  = 64
	MinUnlockBlockCount  = 1
	MaxUnlockBlockCount  = 128
	MaxMetadataLength    = 8_192
	MaxTagLength         = 64
	MaxIndexLength       = 64
	MinMigratedFunds     = 1
	MaxMigratedFunds     = 128
	MinMilestoneSigCount = 1
	MaxMilestoneSigCount = 255
)

// Encoder is implemented by every wire entity. Encoding never fails: values are validated
// before any bytes are written.
type Encoder interface {
	EncodeTo(w *serializer.WriteStream)
}

// Validator is implemented by entities that carry constraints the type system cannot express
type Validator interface {
	Validate() error
}

// Serialize validates v, if it supports validation, and returns its canonical encoding
func Serialize(v Encoder) ([]byte, error) {
	if val, ok := v.(Validator); ok {
		if err := val.Validate(); err != nil {
			return nil, err
		}
	}
	w := serializer.NewWriteStream()
	v.EncodeTo(w)
	return w.Bytes(), nil
}

// deserialize decodes a single entity that must consume all of data
func deserialize[T any](
	data []byte,
	field string,
	decodeFunc func(*serializer.ReadStream) (T, error),
) (T, error) {
	r := serializer.NewReadStream(data)
	ret, err := decodeFunc(r)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := r.ExpectEnd(field); err != nil {
		var zero T
		return zero, err
	}
	return ret, nil
}

// encodingHash returns the Blake2b-256 hash of the canonical encoding of v without validating it
func encodingHash(v Encoder) common.Blake2b256 {
	w := serializer.NewWriteStream()
	v.EncodeTo(w)
	return common.Blake2b256Hash(w.Bytes())
}

func expectTag8(r *serializer.ReadStream, field string, expected uint8) error {
	tag, err := r.ReadUint8(field + ".type")
	if err != nil {
		return err
	}
	if tag != expected {
		return &serializer.TypeMismatchError{
			Field:    field + ".type",
			Expected: uint32(expected),
			Actual:   uint32(tag),
		}
	}
	return nil
}

func expectTag32(r *serializer.ReadStream, field string, expected uint32) error {
	tag, err := r.ReadUint32(field + ".type")
	if err != nil {
		return err
	}
	if tag != expected {
		return &serializer.TypeMismatchError{
			Field:    field + ".type",
			Expected: expected,
			Actual:   tag,
		}
	}
	return nil
}

func checkCount(field string, count int, minCount int, maxCount int) error {
	if count < minCount || count > maxCount {
		return &serializer.CountOutOfBoundsError{
			Field: field,
			Count: count,
			Min:   minCount,
			Max:   maxCount,
		}
	}
	return nil
}

func readCount8(r *serializer.ReadStream, field string, minCount int, maxCount int) (int, error) {
	count, err := r.ReadUint8(field + ".count")
	if err != nil {
		return 0, err
	}
	if err := checkCount(field+".count", int(count), minCount, maxCount); err != nil {
		return 0, err
	}
	return int(count), nil
}

func readCount16(r *serializer.ReadStream, field string, minCount int, maxCount int) (int, error) {
	count, err := r.ReadUint16(field + ".count")
	if err != nil {
		return 0, err
	}
	if err := checkCount(field+".count", int(count), minCount, maxCount); err != nil {
		return 0, err
	}
	return int(count), nil
}

func readBlob8(r *serializer.ReadStream, field string, minLen int, maxLen int) ([]byte, error) {
	length, err := r.ReadUint8(field + ".length")
	if err != nil {
		return nil, err
	}
	if err := checkCount(field+".length", int(length), minLen, maxLen); err != nil {
		return nil, err
	}
	return r.ReadFixed(field, int(length))
}

func readBlob16(r *serializer.ReadStream, field string, minLen int, maxLen int) ([]byte, error) {
	length, err := r.ReadUint16(field + ".length")
	if err != nil {
		return nil, err
	}
	if err := checkCount(field+".length", int(length), minLen, maxLen); err != nil {
		return nil, err
	}
	return r.ReadFixed(field, int(length))
}

func readBlob32(r *serializer.ReadStream, field string, minLen int) ([]byte, error) {
	length, err := r.ReadUint32(field + ".length")
	if err != nil {
		return nil, err
	}
	if uint64(length) < uint64(minLen) {
		return nil, &serializer.CountOutOfBoundsError{
			Field: field + ".length",
			Count: int(length),
			Min:   minLen,
			Max:   math.MaxInt32,
		}
	}
	if uint64(length) > uint64(r.Unused()) {
		return nil, &serializer.TruncatedInputError{
			Field:     field,
			Required:  int(min(uint64(length), math.MaxInt32)),
			Available: r.Unused(),
		}
	}
	return r.ReadFixed(field, int(length))
}

// readAmount reads a base token amount and rejects values above the total supply
func readAmount(r *serializer.ReadStream, field string) (uint64, error) {
	amount, err := r.ReadUint64(field)
	if err != nil {
		return 0, err
	}
	if amount > MaxTokenSupply {
		return 0, &serializer.InvalidValueError{Field: field, Value: amount}
	}
	return amount, nil
}

// addAmount adds a decoded amount to a running total that must stay within the total supply
func addAmount(field string, total uint64, amount uint64) (uint64, error) {
	if amount > MaxTokenSupply || total > MaxTokenSupply-amount {
		return 0, &serializer.InvalidValueError{Field: field, Value: amount}
	}
	return total + amount, nil
}

func validateAmount(field string, amount uint64) error {
	return common.ValidateAmount(field, amount, MaxTokenSupply)
}

// wrapDecodeError prefixes a child decode error with the containing entity
func wrapDecodeError(entity string, err error) error {
	return fmt.Errorf("%s: %w", entity, err)
}
