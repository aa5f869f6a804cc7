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

package ledger

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
)

type SignatureType uint8

const SignatureTypeEd25519 SignatureType = 0

const Ed25519SignatureLength = 1 + ed25519.PublicKeySize + ed25519.SignatureSize

// Signature is a signature over a message together with the key that verifies it
type Signature interface {
	Encoder
	Type() SignatureType
	// Verify returns an error if the signature is not valid for msg
	Verify(msg []byte) error
	isSignature()
}

type Ed25519Signature struct {
	PublicKey [ed25519.PublicKeySize]byte
	Signature [ed25519.SignatureSize]byte
}

// NewEd25519Signature signs msg with the given private key
func NewEd25519Signature(privKey ed25519.PrivateKey, msg []byte) Ed25519Signature {
	var ret Ed25519Signature
	copy(ret.PublicKey[:], privKey.Public().(ed25519.PublicKey))
	copy(ret.Signature[:], ed25519.Sign(privKey, msg))
	return ret
}

func (Ed25519Signature) isSignature() {}

func (Ed25519Signature) Type() SignatureType { return SignatureTypeEd25519 }

// Address returns the Ed25519 address controlled by the signing key
func (s Ed25519Signature) Address() Ed25519Address {
	return NewEd25519AddressFromPublicKey(s.PublicKey[:])
}

func (s Ed25519Signature) Verify(msg []byte) error {
	return common.VerifyEd25519Signature(s.PublicKey[:], s.Signature[:], msg)
}

func (s Ed25519Signature) String() string {
	return hex.EncodeToString(s.PublicKey[:])
}

func (s Ed25519Signature) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(SignatureTypeEd25519))
	w.WriteFixed(s.PublicKey[:])
	w.WriteFixed(s.Signature[:])
}

// DecodeSignature reads the signature type tag and dispatches to the matching variant
func DecodeSignature(r *serializer.ReadStream, field string) (Signature, error) {
	tag, err := r.PeekUint8(field + ".type")
	if err != nil {
		return nil, err
	}
	switch SignatureType(tag) {
	case SignatureTypeEd25519:
		return DecodeEd25519Signature(r, field)
	default:
		return nil, &serializer.UnknownVariantError{
			Field: field + ".type",
			Tag:   uint32(tag),
		}
	}
}

func DecodeEd25519Signature(r *serializer.ReadStream, field string) (Ed25519Signature, error) {
	var ret Ed25519Signature
	if err := r.Require(field, Ed25519SignatureLength); err != nil {
		return ret, err
	}
	if err := expectTag8(r, field, uint8(SignatureTypeEd25519)); err != nil {
		return ret, err
	}
	// Length was checked above
	_ = r.ReadInto(field+".publicKey", ret.PublicKey[:])
	_ = r.ReadInto(field+".signature", ret.Signature[:])
	return ret, nil
}
