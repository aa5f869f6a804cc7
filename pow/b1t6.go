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

package pow

// Balanced ternary encoding of binary data. Each byte is split into two trytes of three trits.
const (
	TritsPerTryte = 3
	TrytesPerByte = 2
	TritsPerByte  = TritsPerTryte * TrytesPerByte

	tryteRadix  = 27
	tryteOffset = 13
	// Shifts an int8 so that both trytes land in [-13, 13]
	byteOffset = 364
)

// B1T6EncodedLen returns the number of trits needed to encode n bytes
func B1T6EncodedLen(n int) int {
	return n * TritsPerByte
}

// B1T6Encode writes the trits of src into dst and returns the number of trits written. dst must
// hold at least B1T6EncodedLen(len(src)) trits.
func B1T6Encode(dst []int8, src []byte) int {
	for i, b := range src {
		v := int(int8(b)) + byteOffset
		quo, rem := v/tryteRadix, v%tryteRadix
		tryteToTrits(dst[i*TritsPerByte:], int8(rem-tryteOffset))
		tryteToTrits(dst[i*TritsPerByte+TritsPerTryte:], int8(quo-tryteOffset))
	}
	return B1T6EncodedLen(len(src))
}

// tryteToTrits writes the three little-endian balanced trits of a tryte value in [-13, 13]
func tryteToTrits(dst []int8, v int8) {
	for i := range TritsPerTryte {
		r := v % 3
		v /= 3
		switch r {
		case 2:
			r = -1
			v++
		case -2:
			r = 1
			v--
		}
		dst[i] = r
	}
}
