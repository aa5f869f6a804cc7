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

const NativeTokenLength = common.TokenIdSize + common.Uint256Size

// NativeToken is an amount of a token minted by a foundry
type NativeToken struct {
	Id     common.TokenId
	Amount common.Uint256
}

func (n NativeToken) EncodeTo(w *serializer.WriteStream) {
	w.WriteFixed(n.Id[:])
	n.Amount.EncodeTo(w)
}

func DecodeNativeToken(r *serializer.ReadStream, field string) (NativeToken, error) {
	var ret NativeToken
	if err := r.Require(field, NativeTokenLength); err != nil {
		return ret, err
	}
	if err := r.ReadInto(field+".id", ret.Id[:]); err != nil {
		return ret, err
	}
	amount, err := common.DecodeUint256(r, field+".amount")
	if err != nil {
		return ret, err
	}
	if amount.IsZero() {
		return ret, &serializer.InvalidValueError{Field: field + ".amount", Value: 0}
	}
	ret.Amount = amount
	return ret, nil
}

// NativeTokens is the token list of an output, sorted by strictly increasing token ID
type NativeTokens []NativeToken

func (n NativeTokens) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(len(n)))
	for _, token := range n {
		token.EncodeTo(w)
	}
}

// Amount returns the amount held of the given token
func (n NativeTokens) Amount(id common.TokenId) common.Uint256 {
	for _, token := range n {
		if token.Id == id {
			return token.Amount
		}
	}
	return common.Uint256{}
}

func DecodeNativeTokens(r *serializer.ReadStream, field string) (NativeTokens, error) {
	count, err := readCount8(r, field, 0, MaxNativeTokenCount)
	if err != nil {
		return nil, err
	}
	var ret NativeTokens
	for i := range count {
		token, err := DecodeNativeToken(r, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		if i > 0 && token.Id.Compare(ret[i-1].Id) <= 0 {
			return nil, &serializer.OrderingViolationError{Field: field, Index: i}
		}
		ret = append(ret, token)
	}
	return ret, nil
}

func (n NativeTokens) Validate() error {
	if err := common.ValidateCount("nativeTokens", len(n), 0, MaxNativeTokenCount); err != nil {
		return err
	}
	for i, token := range n {
		if token.Amount.IsZero() {
			return common.NewValidationError(
				common.ValidationErrorTypeAmount,
				fmt.Sprintf("native token %s has zero amount", token.Id),
				map[string]any{"index": i},
				nil,
			)
		}
		if i > 0 && token.Id.Compare(n[i-1].Id) <= 0 {
			return common.NewOrderingError("nativeTokens", i)
		}
	}
	return nil
}

type TokenSchemeType uint8

const TokenSchemeTypeSimple TokenSchemeType = 0

const SimpleTokenSchemeLength = 1 + 3*common.Uint256Size

// TokenScheme describes how a foundry controls the supply of its token
type TokenScheme interface {
	Encoder
	Validator
	Type() TokenSchemeType
	isTokenScheme()
}

// SimpleTokenScheme tracks minted and melted amounts against a fixed maximum supply
type SimpleTokenScheme struct {
	MintedTokens  common.Uint256
	MeltedTokens  common.Uint256
	MaximumSupply common.Uint256
}

func (SimpleTokenScheme) isTokenScheme() {}

func (SimpleTokenScheme) Type() TokenSchemeType { return TokenSchemeTypeSimple }

// CirculatingSupply returns minted minus melted tokens
func (s SimpleTokenScheme) CirculatingSupply() (common.Uint256, error) {
	return s.MintedTokens.Sub(s.MeltedTokens)
}

func (s SimpleTokenScheme) Validate() error {
	if s.MaximumSupply.IsZero() {
		return common.NewValidationError(
			common.ValidationErrorTypeAmount,
			"token scheme maximum supply is zero",
			nil,
			nil,
		)
	}
	circulating, err := s.CirculatingSupply()
	if err != nil {
		return common.NewValidationError(
			common.ValidationErrorTypeAmount,
			"token scheme melted more tokens than minted",
			map[string]any{
				"minted": s.MintedTokens.String(),
				"melted": s.MeltedTokens.String(),
			},
			err,
		)
	}
	if circulating.Cmp(s.MaximumSupply) > 0 {
		return common.NewValidationError(
			common.ValidationErrorTypeAmount,
			"token scheme circulating supply exceeds maximum supply",
			map[string]any{
				"circulating": circulating.String(),
				"max":         s.MaximumSupply.String(),
			},
			nil,
		)
	}
	return nil
}

func (s SimpleTokenScheme) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(TokenSchemeTypeSimple))
	s.MintedTokens.EncodeTo(w)
	s.MeltedTokens.EncodeTo(w)
	s.MaximumSupply.EncodeTo(w)
}

// DecodeTokenScheme reads the token scheme type tag and dispatches to the matching variant
func DecodeTokenScheme(r *serializer.ReadStream, field string) (TokenScheme, error) {
	tag, err := r.PeekUint8(field + ".type")
	if err != nil {
		return nil, err
	}
	switch TokenSchemeType(tag) {
	case TokenSchemeTypeSimple:
		return DecodeSimpleTokenScheme(r, field)
	default:
		return nil, &serializer.UnknownVariantError{
			Field: field + ".type",
			Tag:   uint32(tag),
		}
	}
}

func DecodeSimpleTokenScheme(r *serializer.ReadStream, field string) (SimpleTokenScheme, error) {
	var ret SimpleTokenScheme
	if err := r.Require(field, SimpleTokenSchemeLength); err != nil {
		return ret, err
	}
	if err := expectTag8(r, field, uint8(TokenSchemeTypeSimple)); err != nil {
		return ret, err
	}
	// Length was checked above
	ret.MintedTokens, _ = common.DecodeUint256(r, field+".mintedTokens")
	ret.MeltedTokens, _ = common.DecodeUint256(r, field+".meltedTokens")
	ret.MaximumSupply, _ = common.DecodeUint256(r, field+".maximumSupply")
	return ret, nil
}
