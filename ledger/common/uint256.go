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
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"math/bits"
	"strings"

	"github.com/blinklabs-io/gostardust/serializer"
)

const Uint256Size = 32

var (
	ErrUint256Overflow  = errors.New("uint256 overflow")
	ErrUint256Underflow = errors.New("uint256 underflow")
)

// Uint256 is an unsigned 256-bit integer stored as four little-endian 64-bit words.
// It is a comparable value type, so amounts never pass through floating point and
// can be compared with ==.
type Uint256 [4]uint64

func NewUint256(v uint64) Uint256 {
	return Uint256{v, 0, 0, 0}
}

// NewUint256FromBig converts v, rejecting negative values and values wider than 256 bits
func NewUint256FromBig(v *big.Int) (Uint256, error) {
	if v.Sign() < 0 {
		return Uint256{}, ErrUint256Underflow
	}
	if v.BitLen() > 256 {
		return Uint256{}, ErrUint256Overflow
	}
	var buf [Uint256Size]byte
	v.FillBytes(buf[:])
	var ret Uint256
	for i := range ret {
		ret[i] = binary.BigEndian.Uint64(buf[Uint256Size-8*(i+1):])
	}
	return ret, nil
}

// NewUint256FromString parses a decimal or 0x-prefixed hex string
func NewUint256FromString(s string) (Uint256, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return Uint256{}, fmt.Errorf("invalid uint256 value: %q", s)
	}
	return NewUint256FromBig(v)
}

func (u Uint256) IsZero() bool {
	return u == Uint256{}
}

// Cmp returns -1, 0 or +1 depending on whether u is less than, equal to or greater than v
func (u Uint256) Cmp(v Uint256) int {
	for i := len(u) - 1; i >= 0; i-- {
		if u[i] < v[i] {
			return -1
		} else if u[i] > v[i] {
			return 1
		}
	}
	return 0
}

// Add returns u+v or ErrUint256Overflow
func (u Uint256) Add(v Uint256) (Uint256, error) {
	var ret Uint256
	var carry uint64
	for i := range u {
		ret[i], carry = bits.Add64(u[i], v[i], carry)
	}
	if carry != 0 {
		return Uint256{}, ErrUint256Overflow
	}
	return ret, nil
}

// Sub returns u-v or ErrUint256Underflow
func (u Uint256) Sub(v Uint256) (Uint256, error) {
	var ret Uint256
	var borrow uint64
	for i := range u {
		ret[i], borrow = bits.Sub64(u[i], v[i], borrow)
	}
	if borrow != 0 {
		return Uint256{}, ErrUint256Underflow
	}
	return ret, nil
}

func (u Uint256) Big() *big.Int {
	var buf [Uint256Size]byte
	for i := range u {
		binary.BigEndian.PutUint64(buf[Uint256Size-8*(i+1):], u[i])
	}
	return new(big.Int).SetBytes(buf[:])
}

func (u Uint256) String() string {
	return u.Big().String()
}

// Node APIs render token amounts as 0x-prefixed hex strings
func (u Uint256) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + u.Big().Text(16))
}

func (u *Uint256) UnmarshalJSON(data []byte) error {
	var tmp string
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if !strings.HasPrefix(tmp, "0x") {
		return fmt.Errorf("uint256 JSON value must be 0x-prefixed hex: %q", tmp)
	}
	v, err := NewUint256FromString(tmp)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// EncodeTo writes u as 32 little-endian bytes
func (u Uint256) EncodeTo(w *serializer.WriteStream) {
	for i := range u {
		w.WriteUint64(u[i])
	}
}

// DecodeUint256 reads 32 little-endian bytes
func DecodeUint256(r *serializer.ReadStream, field string) (Uint256, error) {
	if err := r.Require(field, Uint256Size); err != nil {
		return Uint256{}, err
	}
	var ret Uint256
	for i := range ret {
		// Length was checked above
		ret[i], _ = r.ReadUint64(field)
	}
	return ret, nil
}
