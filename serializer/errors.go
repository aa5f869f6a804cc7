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

package serializer

import (
	"errors"
	"fmt"
)

// Sentinel errors so callers can classify decode failures with errors.Is
var (
	ErrTruncatedInput    = errors.New("truncated input")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrUnknownVariant    = errors.New("unknown variant")
	ErrOrderingViolation = errors.New("ordering violation")
	ErrCountOutOfBounds  = errors.New("count out of bounds")
	ErrInvalidReference  = errors.New("invalid reference")
	ErrTrailingData      = errors.New("trailing data")
	ErrInvalidValue      = errors.New("invalid value")
)

// TruncatedInputError indicates that fewer bytes remain than a field requires
type TruncatedInputError struct {
	Field     string
	Required  int
	Available int
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf(
		"%s: truncated input: need %d bytes, %d available",
		e.Field,
		e.Required,
		e.Available,
	)
}

func (*TruncatedInputError) Is(target error) bool {
	return target == ErrTruncatedInput
}

// TypeMismatchError indicates that a discriminant does not match the decoder that read it
type TypeMismatchError struct {
	Field    string
	Expected uint32
	Actual   uint32
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"%s: type mismatch: expected %d, got %d",
		e.Field,
		e.Expected,
		e.Actual,
	)
}

func (*TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// UnknownVariantError indicates a discriminant with no handler in the current context
type UnknownVariantError struct {
	Field string
	Tag   uint32
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("%s: unknown variant %d", e.Field, e.Tag)
}

func (*UnknownVariantError) Is(target error) bool {
	return target == ErrUnknownVariant
}

// OrderingViolationError indicates a collection entry that is out of order or duplicated
type OrderingViolationError struct {
	Field string
	Index int
}

func (e *OrderingViolationError) Error() string {
	return fmt.Sprintf(
		"%s: entry %d is not strictly ordered or is a duplicate",
		e.Field,
		e.Index,
	)
}

func (*OrderingViolationError) Is(target error) bool {
	return target == ErrOrderingViolation
}

// CountOutOfBoundsError indicates a collection size or byte length outside its permitted range
type CountOutOfBoundsError struct {
	Field string
	Count int
	Min   int
	Max   int
}

func (e *CountOutOfBoundsError) Error() string {
	return fmt.Sprintf(
		"%s: count %d outside of range [%d, %d]",
		e.Field,
		e.Count,
		e.Min,
		e.Max,
	)
}

func (*CountOutOfBoundsError) Is(target error) bool {
	return target == ErrCountOutOfBounds
}

// InvalidReferenceError indicates an unlock reference that does not point backward to a valid entry
type InvalidReferenceError struct {
	Field     string
	Index     int
	Reference int
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf(
		"%s: entry %d has invalid reference to %d",
		e.Field,
		e.Index,
		e.Reference,
	)
}

func (*InvalidReferenceError) Is(target error) bool {
	return target == ErrInvalidReference
}

// TrailingDataError indicates bytes left over after a framed or top-level object was decoded
type TrailingDataError struct {
	Field     string
	Remaining int
}

func (e *TrailingDataError) Error() string {
	return fmt.Sprintf("%s: %d unexpected trailing bytes", e.Field, e.Remaining)
}

func (*TrailingDataError) Is(target error) bool {
	return target == ErrTrailingData
}

// InvalidValueError indicates a field value that cannot be represented, such as a bool other than 0 or 1
type InvalidValueError struct {
	Field string
	Value uint64
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: invalid value %d", e.Field, e.Value)
}

func (*InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}
