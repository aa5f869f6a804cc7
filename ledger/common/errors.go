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
	"errors"
	"fmt"
)

// Sentinel errors so callers can use errors.Is
var (
	ErrInvalidPublicKey     = errors.New("invalid public key")
	ErrSignatureInvalid     = errors.New("signature verification failed")
	ErrInvalidBech32Address = errors.New("invalid bech32 address")
)

// InvalidPublicKeyError indicates a public key that is malformed or unsafe to verify against
type InvalidPublicKeyError struct {
	PublicKey []byte
	Reason    string
}

func (e InvalidPublicKeyError) Error() string {
	return fmt.Sprintf("invalid public key %x: %s", e.PublicKey, e.Reason)
}

func (InvalidPublicKeyError) Is(target error) bool {
	return target == ErrInvalidPublicKey
}

// SignatureVerificationError indicates an Ed25519 signature that does not match its message
type SignatureVerificationError struct {
	PublicKey []byte
}

func (e SignatureVerificationError) Error() string {
	return fmt.Sprintf("signature verification failed for public key %x", e.PublicKey)
}

func (SignatureVerificationError) Is(target error) bool {
	return target == ErrSignatureInvalid
}

// Bech32AddressError indicates a bech32 string that could not be decoded as an address
type Bech32AddressError struct {
	Address string
	Err     error
}

func (e Bech32AddressError) Error() string {
	return fmt.Sprintf("invalid bech32 address %q: %v", e.Address, e.Err)
}

func (e Bech32AddressError) Unwrap() error { return e.Err }

func (Bech32AddressError) Is(target error) bool {
	return target == ErrInvalidBech32Address
}
