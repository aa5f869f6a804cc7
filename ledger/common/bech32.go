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
	"fmt"
	"slices"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Human readable parts of the known networks
const (
	HrpMainnet        = "iota"
	HrpTestnet        = "atoi"
	HrpShimmerMainnet = "smr"
	HrpShimmerTestnet = "rms"
)

var knownHrps = []string{
	HrpMainnet,
	HrpTestnet,
	HrpShimmerMainnet,
	HrpShimmerTestnet,
}

// IsKnownHrp returns true if hrp belongs to one of the known networks
func IsKnownHrp(hrp string) bool {
	return slices.Contains(knownHrps, hrp)
}

// Bech32Encode encodes data (the serialized address) under hrp
func Bech32Encode(hrp string, data []byte) (string, error) {
	convData, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("unexpected error converting data to base32: %w", err)
	}
	encoded, err := bech32.Encode(hrp, convData)
	if err != nil {
		return "", fmt.Errorf("unexpected error encoding data as bech32: %w", err)
	}
	return encoded, nil
}

// Bech32Decode decodes a bech32 string into its human readable part and data bytes
func Bech32Decode(s string) (string, []byte, error) {
	if strings.ToLower(s) != s && strings.ToUpper(s) != s {
		return "", nil, Bech32AddressError{
			Address: s,
			Err:     fmt.Errorf("mixed case"),
		}
	}
	hrp, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return "", nil, Bech32AddressError{Address: s, Err: err}
	}
	decoded, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, Bech32AddressError{Address: s, Err: err}
	}
	return hrp, decoded, nil
}
