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

const (
	CurlHashLength  = 243
	CurlStateLength = 3 * CurlHashLength
	CurlRounds      = 81
)

// S-box indexed by a + 4*b + 5 for trits a and b
var curlTruthTable = [11]int8{1, 0, -1, 2, 1, -1, 0, 2, -1, 1, 0}

// curlState is the sponge state of the Curl-P hash function
type curlState [CurlStateLength]int8

// transform applies the Curl-P-81 permutation in place
func (s *curlState) transform() {
	var prev curlState
	for range CurlRounds {
		prev = *s
		idx := 0
		for i := range CurlStateLength {
			last := prev[idx]
			if idx < 365 {
				idx += 364
			} else {
				idx -= 365
			}
			s[i] = curlTruthTable[int(last)+(int(prev[idx])<<2)+5]
		}
	}
}

// curlHash absorbs a single 243-trit block and returns the first 243 trits of the state
func curlHash(block *[CurlHashLength]int8) [CurlHashLength]int8 {
	var s curlState
	copy(s[:], block[:])
	s.transform()
	var ret [CurlHashLength]int8
	copy(ret[:], s[:CurlHashLength])
	return ret
}
