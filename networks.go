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

package gostardust

import (
	"github.com/blinklabs-io/gostardust/ledger"
	"github.com/blinklabs-io/gostardust/ledger/common"
)

// Network represents a tangle network that blocks are issued to
type Network struct {
	// Id is the network ID carried in transaction essences, derived from Name
	Id              uint64
	Name            string
	Bech32HRP       string
	ProtocolVersion uint8
	MinPowScore     float64
}

func newNetwork(name string, hrp string, minPowScore float64) Network {
	return Network{
		Id:              common.NetworkIdFromName(name),
		Name:            name,
		Bech32HRP:       hrp,
		ProtocolVersion: ledger.ProtocolVersion,
		MinPowScore:     minPowScore,
	}
}

// Network definitions
var (
	NetworkIotaMainnet    = newNetwork("iota-mainnet", common.HrpMainnet, 1500)
	NetworkIotaTestnet    = newNetwork("iota-testnet", common.HrpTestnet, 1500)
	NetworkShimmer        = newNetwork("shimmer", common.HrpShimmerMainnet, 1500)
	NetworkShimmerTestnet = newNetwork("testnet", common.HrpShimmerTestnet, 1500)

	NetworkInvalid = Network{
		Name: "invalid",
	} // NetworkInvalid is used as a return value for lookup functions when a network isn't found
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkIotaMainnet,
	NetworkIotaTestnet,
	NetworkShimmer,
	NetworkShimmerTestnet,
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) Network {
	for _, network := range networks {
		if network.Name == name {
			return network
		}
	}
	return NetworkInvalid
}

// NetworkByHRP returns a predefined network by its bech32 human readable part
func NetworkByHRP(hrp string) Network {
	for _, network := range networks {
		if network.Bech32HRP == hrp {
			return network
		}
	}
	return NetworkInvalid
}

// NetworkById returns a predefined network by the network ID used in transaction essences
func NetworkById(id uint64) Network {
	for _, network := range networks {
		if network.Id == id {
			return network
		}
	}
	return NetworkInvalid
}

// String returns the network name
func (n Network) String() string {
	return n.Name
}
