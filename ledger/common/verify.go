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
	"crypto/ed25519"
	"fmt"

	"filippo.io/edwards25519"
)

// ValidateEd25519PublicKey rejects keys that are not valid curve points or that lie in the
// small-order subgroup
func ValidateEd25519PublicKey(pubKey []byte) error {
	if len(pubKey) != ed25519.PublicKeySize {
		return InvalidPublicKeyError{
			PublicKey: pubKey,
			Reason:    fmt.Sprintf("invalid size %d", len(pubKey)),
		}
	}
	point := &edwards25519.Point{}
	if _, err := point.SetBytes(pubKey); err != nil {
		return InvalidPublicKeyError{
			PublicKey: pubKey,
			Reason:    err.Error(),
		}
	}
	isSmallOrder := (&edwards25519.Point{}).MultByCofactor(point).
		Equal(edwards25519.NewIdentityPoint()) ==
		1
	if isSmallOrder {
		return InvalidPublicKeyError{
			PublicKey: pubKey,
			Reason:    "small order point",
		}
	}
	return nil
}

// VerifyEd25519Signature verifies an ed25519 signature against the provided public key and message
func VerifyEd25519Signature(pubKey, sig, msg []byte) error {
	if err := ValidateEd25519PublicKey(pubKey); err != nil {
		return err
	}
	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("invalid signature size: %d", len(sig))
	}
	if !ed25519.Verify(ed25519.PublicKey(pubKey), msg, sig) {
		return SignatureVerificationError{PublicKey: pubKey}
	}
	return nil
}
