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

package common

import (
	"errors"
	"fmt"
)

// ValidationError represents a structured validation error with additional context
type ValidationError struct {
	Type    ValidationErrorType
	Message string
	Details map[string]any
	Cause   error
}

type ValidationErrorType string

const (
	ValidationErrorTypeAmount     ValidationErrorType = "amount"
	ValidationErrorTypeCount      ValidationErrorType = "count"
	ValidationErrorTypeOrdering   ValidationErrorType = "ordering"
	ValidationErrorTypeLength     ValidationErrorType = "length"
	ValidationErrorTypeReference  ValidationErrorType = "reference"
	ValidationErrorTypeVariant    ValidationErrorType = "variant"
	ValidationErrorTypeSignature  ValidationErrorType = "signature"
	ValidationErrorTypeCommitment ValidationErrorType = "commitment"
)

// ErrValidation matches any *ValidationError via errors.Is
var ErrValidation = errors.New("validation failed")

func (e ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e ValidationError) Unwrap() error {
	return e.Cause
}

func (ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new structured validation error
func NewValidationError(
	errType ValidationErrorType,
	message string,
	details map[string]any,
	cause error,
) *ValidationError {
	return &ValidationError{
		Type:    errType,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// ValidateCount checks that count lies within [minCount, maxCount]
func ValidateCount(field string, count int, minCount int, maxCount int) error {
	if count < minCount || count > maxCount {
		return NewValidationError(
			ValidationErrorTypeCount,
			fmt.Sprintf(
				"%s count %d outside of range [%d, %d]",
				field,
				count,
				minCount,
				maxCount,
			),
			map[string]any{
				"field": field,
				"count": count,
				"min":   minCount,
				"max":   maxCount,
			},
			nil,
		)
	}
	return nil
}

// ValidateLength checks that a blob length lies within [minLength, maxLength]
func ValidateLength(field string, length int, minLength int, maxLength int) error {
	if length < minLength || length > maxLength {
		return NewValidationError(
			ValidationErrorTypeLength,
			fmt.Sprintf(
				"%s length %d outside of range [%d, %d]",
				field,
				length,
				minLength,
				maxLength,
			),
			map[string]any{
				"field":  field,
				"length": length,
				"min":    minLength,
				"max":    maxLength,
			},
			nil,
		)
	}
	return nil
}

// ValidateAmount checks that an IOTA amount does not exceed the total supply
func ValidateAmount(field string, amount uint64, maxSupply uint64) error {
	if amount > maxSupply {
		return NewValidationError(
			ValidationErrorTypeAmount,
			fmt.Sprintf("%s amount %d exceeds max supply %d", field, amount, maxSupply),
			map[string]any{
				"field":  field,
				"amount": amount,
				"max":    maxSupply,
			},
			nil,
		)
	}
	return nil
}

// NewOrderingError reports an element at index that is not strictly greater than its predecessor
func NewOrderingError(field string, index int) *ValidationError {
	return NewValidationError(
		ValidationErrorTypeOrdering,
		fmt.Sprintf("%s element %d is out of order or duplicated", field, index),
		map[string]any{
			"field": field,
			"index": index,
		},
		nil,
	)
}
