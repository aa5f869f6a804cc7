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
	"fmt"
	"math"

	"github.com/blinklabs-io/gostardust/ledger"
	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/jinzhu/copier"
)

// AddressGeneratorConfig selects which BIP44 addresses GenerateAddresses derives. Zero fields
// take their value from DefaultAddressGeneratorConfig.
type AddressGeneratorConfig struct {
	CoinType     uint32
	AccountIndex uint32
	StartIndex   uint32
	Count        uint32
	Internal     bool
	HRP          string
}

// DefaultAddressGeneratorConfig returns the first public IOTA mainnet address of account 0
func DefaultAddressGeneratorConfig() AddressGeneratorConfig {
	return AddressGeneratorConfig{
		CoinType:     CoinTypeIOTA,
		AccountIndex: 0,
		StartIndex:   0,
		Count:        1,
		Internal:     false,
		HRP:          common.HrpMainnet,
	}
}

// ResolveAddressGeneratorConfig merges the non-zero fields of cfg over the defaults
func ResolveAddressGeneratorConfig(cfg AddressGeneratorConfig) (AddressGeneratorConfig, error) {
	ret := DefaultAddressGeneratorConfig()
	if err := copier.CopyWithOption(&ret, &cfg, copier.Option{IgnoreEmpty: true}); err != nil {
		return AddressGeneratorConfig{}, fmt.Errorf("resolve address generator config: %w", err)
	}
	return ret, nil
}

// GeneratedAddress is a derived address together with the keys that control it
type GeneratedAddress struct {
	Index   uint32
	Path    Path
	KeyPair KeyPair
	Address ledger.Ed25519Address
	Bech32  string
}

// GenerateAddresses derives cfg.Count consecutive addresses starting at cfg.StartIndex
func GenerateAddresses(seed []byte, cfg AddressGeneratorConfig) ([]GeneratedAddress, error) {
	cfg, err := ResolveAddressGeneratorConfig(cfg)
	if err != nil {
		return nil, err
	}
	if uint64(cfg.StartIndex)+uint64(cfg.Count) > uint64(HardenedOffset) {
		return nil, fmt.Errorf(
			"%w: address indexes %d to %d exceed %d",
			ErrInvalidPath,
			cfg.StartIndex,
			uint64(cfg.StartIndex)+uint64(cfg.Count)-1,
			HardenedOffset-1,
		)
	}
	// Every address shares the account node, so derive it once
	accountPath := Bip44Path(cfg.CoinType, cfg.AccountIndex, cfg.Internal, 0)[:4]
	accountKey, err := DeriveSlip10(seed, accountPath)
	if err != nil {
		return nil, err
	}
	ret := make([]GeneratedAddress, 0, min(cfg.Count, math.MaxUint16))
	for i := range cfg.Count {
		index := cfg.StartIndex + i
		key, err := accountKey.Child(index | HardenedOffset)
		if err != nil {
			return nil, err
		}
		keyPair := key.KeyPair()
		addr := keyPair.Address()
		bech32, err := ledger.AddressToBech32(cfg.HRP, addr)
		if err != nil {
			return nil, err
		}
		ret = append(ret, GeneratedAddress{
			Index:   index,
			Path:    Bip44Path(cfg.CoinType, cfg.AccountIndex, cfg.Internal, index),
			KeyPair: keyPair,
			Address: addr,
			Bech32:  bech32,
		})
	}
	return ret, nil
}
