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

// Package keys derives Ed25519 key pairs and addresses from a seed
package keys

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/blinklabs-io/gostardust/ledger"
	"lukechampine.com/frand"
)

const (
	// Size of the seeds produced by GenerateSeed
	SeedSize = 64

	MinSeedSize = 16
	MaxSeedSize = 64
)

var ErrInvalidSeed = errors.New("invalid seed")

// KeyPair is an Ed25519 key pair
type KeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// NewKeyPairFromSeed returns the key pair for a 32-byte Ed25519 private key seed
func NewKeyPairFromSeed(seed []byte) (KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return KeyPair{}, fmt.Errorf(
			"%w: key seed must be %d bytes, got %d",
			ErrInvalidSeed,
			ed25519.SeedSize,
			len(seed),
		)
	}
	privKey := ed25519.NewKeyFromSeed(seed)
	return KeyPair{
		PublicKey:  privKey.Public().(ed25519.PublicKey),
		PrivateKey: privKey,
	}, nil
}

// GenerateSeed returns a new random master seed
func GenerateSeed() []byte {
	return frand.Bytes(SeedSize)
}

// Address returns the Ed25519 address controlled by the key pair
func (k KeyPair) Address() ledger.Ed25519Address {
	return ledger.NewEd25519AddressFromPublicKey(k.PublicKey)
}

// Sign signs msg and returns the signature together with the public key
func (k KeyPair) Sign(msg []byte) ledger.Ed25519Signature {
	return ledger.NewEd25519Signature(k.PrivateKey, msg)
}
