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

package keys

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// HardenedOffset is added to an index to select a hardened child
const HardenedOffset uint32 = 0x80000000

const (
	PurposeBip44 uint32 = 44

	CoinTypeIOTA    uint32 = 4218
	CoinTypeShimmer uint32 = 4219
)

var (
	ErrNonHardenedIndex = errors.New("only hardened derivation is supported for Ed25519")
	ErrInvalidPath      = errors.New("invalid derivation path")
)

var slip10Ed25519Key = []byte("ed25519 seed")

// ExtendedKey is a SLIP-0010 node: a private key seed and its chain code
type ExtendedKey struct {
	Key       [32]byte
	ChainCode [32]byte
}

// NewMasterKey returns the SLIP-0010 Ed25519 master node for seed
func NewMasterKey(seed []byte) (ExtendedKey, error) {
	if len(seed) < MinSeedSize || len(seed) > MaxSeedSize {
		return ExtendedKey{}, fmt.Errorf(
			"%w: length %d outside of range [%d, %d]",
			ErrInvalidSeed,
			len(seed),
			MinSeedSize,
			MaxSeedSize,
		)
	}
	return newExtendedKey(slip10Ed25519Key, seed), nil
}

func newExtendedKey(hmacKey []byte, data []byte) ExtendedKey {
	mac := hmac.New(sha512.New, hmacKey)
	mac.Write(data)
	sum := mac.Sum(nil)
	var ret ExtendedKey
	copy(ret.Key[:], sum[:32])
	copy(ret.ChainCode[:], sum[32:])
	return ret
}

// Child derives the hardened child at index, which must include HardenedOffset
func (k ExtendedKey) Child(index uint32) (ExtendedKey, error) {
	if index < HardenedOffset {
		return ExtendedKey{}, fmt.Errorf("%w: index %d", ErrNonHardenedIndex, index)
	}
	data := make([]byte, 0, 1+len(k.Key)+4)
	data = append(data, 0x00)
	data = append(data, k.Key[:]...)
	data = binary.BigEndian.AppendUint32(data, index)
	return newExtendedKey(k.ChainCode[:], data), nil
}

// KeyPair returns the Ed25519 key pair of the node
func (k ExtendedKey) KeyPair() KeyPair {
	// The key is always the right size
	ret, _ := NewKeyPairFromSeed(k.Key[:])
	return ret
}

// Path is a derivation path of child indexes, hardened offset included
type Path []uint32

// Bip44Path returns m/44'/coinType'/account'/change'/addressIndex' with every level hardened.
// The change level is 1 for internal addresses.
func Bip44Path(coinType uint32, account uint32, internal bool, addressIndex uint32) Path {
	var change uint32
	if internal {
		change = 1
	}
	return Path{
		PurposeBip44 | HardenedOffset,
		coinType | HardenedOffset,
		account | HardenedOffset,
		change | HardenedOffset,
		addressIndex | HardenedOffset,
	}
}

func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, index := range p {
		sb.WriteString("/")
		if index >= HardenedOffset {
			sb.WriteString(strconv.FormatUint(uint64(index-HardenedOffset), 10))
			sb.WriteString("'")
		} else {
			sb.WriteString(strconv.FormatUint(uint64(index), 10))
		}
	}
	return sb.String()
}

// ParsePath parses a path such as m/44'/4218'/0'/0'/0'. Both ' and H mark a hardened index.
func ParsePath(s string) (Path, error) {
	parts := strings.Split(s, "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, fmt.Errorf("%w: %q must start with m", ErrInvalidPath, s)
	}
	ret := make(Path, 0, len(parts)-1)
	for _, part := range parts[1:] {
		hardened := strings.HasSuffix(part, "'") || strings.HasSuffix(part, "H")
		if hardened {
			part = part[:len(part)-1]
		}
		index, err := strconv.ParseUint(part, 10, 31)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPath, s, err)
		}
		if hardened {
			index += uint64(HardenedOffset)
		}
		ret = append(ret, uint32(index))
	}
	return ret, nil
}

// DeriveSlip10 derives the node at path from seed
func DeriveSlip10(seed []byte, path Path) (ExtendedKey, error) {
	key, err := NewMasterKey(seed)
	if err != nil {
		return ExtendedKey{}, err
	}
	for _, index := range path {
		key, err = key.Child(index)
		if err != nil {
			return ExtendedKey{}, err
		}
	}
	return key, nil
}
