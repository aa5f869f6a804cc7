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

package main

import (
	"encoding/hex"
	"fmt"
	"os"

	gostardust "github.com/blinklabs-io/gostardust"
	"github.com/blinklabs-io/gostardust/cmd/common"
	"github.com/blinklabs-io/gostardust/keys"
)

type addressGenFlags struct {
	*common.GlobalFlags
	seed     string
	account  uint
	start    uint
	count    uint
	internal bool
}

func main() {
	f := addressGenFlags{
		GlobalFlags: common.NewGlobalFlags(),
	}
	f.Flagset.StringVar(&f.seed, "seed", "", "hex encoded seed (a new seed is generated if empty)")
	f.Flagset.UintVar(&f.account, "account", 0, "account index")
	f.Flagset.UintVar(&f.start, "start", 0, "first address index")
	f.Flagset.UintVar(&f.count, "count", 1, "number of addresses to generate")
	f.Flagset.BoolVar(&f.internal, "internal", false, "generate internal (change) addresses")
	f.Parse()

	var seed []byte
	if f.seed == "" {
		seed = keys.GenerateSeed()
		fmt.Printf("Generated seed: %s\n\n", hex.EncodeToString(seed))
	} else {
		var err error
		if seed, err = hex.DecodeString(f.seed); err != nil {
			fmt.Printf("ERROR: invalid seed: %s\n", err)
			os.Exit(1)
		}
	}
	coinType := keys.CoinTypeIOTA
	if f.NetworkInfo == gostardust.NetworkShimmer ||
		f.NetworkInfo == gostardust.NetworkShimmerTestnet {
		coinType = keys.CoinTypeShimmer
	}
	addrs, err := keys.GenerateAddresses(seed, keys.AddressGeneratorConfig{
		CoinType:     coinType,
		AccountIndex: uint32(f.account),
		StartIndex:   uint32(f.start),
		Count:        uint32(f.count),
		Internal:     f.internal,
		HRP:          f.NetworkInfo.Bech32HRP,
	})
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	for _, addr := range addrs {
		fmt.Printf("%s\t%s\n", addr.Path.String(), addr.Bech32)
	}
}
