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
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
)

type AddressType uint8

const (
	AddressTypeEd25519 AddressType = 0
	AddressTypeBLS     AddressType = 1
	AddressTypeAlias   AddressType = 8
	AddressTypeNFT     AddressType = 16
)

const (
	Ed25519AddressBodySize = 32
	BLSAddressBodySize     = 49
	AliasAddressBodySize   = common.AliasIdSize
	NFTAddressBodySize     = common.NftIdSize

	Ed25519AddressLength = 1 + Ed25519AddressBodySize
	BLSAddressLength     = 1 + BLSAddressBodySize
	AliasAddressLength   = 1 + AliasAddressBodySize
	NFTAddressLength     = 1 + NFTAddressBodySize

	// The shortest address variant
	AddressMinLength = Ed25519AddressLength
)

func (t AddressType) String() string {
	switch t {
	case AddressTypeEd25519:
		return "Ed25519"
	case AddressTypeBLS:
		return "BLS"
	case AddressTypeAlias:
		return "Alias"
	case AddressTypeNFT:
		return "NFT"
	default:
		return fmt.Sprintf("AddressType(%d)", uint8(t))
	}
}

// Address is one of Ed25519Address, BLSAddress, AliasAddress or NFTAddress. All variants are
// fixed-size byte arrays, so addresses compare with ==.
type Address interface {
	Encoder
	Type() AddressType
	// Body returns the address bytes without the type tag
	Body() []byte
	String() string
	isAddress()
}

// Ed25519Address is the Blake2b-256 hash of an Ed25519 public key
type Ed25519Address [Ed25519AddressBodySize]byte

// BLSAddress is only found in legacy protocol versions
type BLSAddress [BLSAddressBodySize]byte

// AliasAddress is the ID of an alias chain
type AliasAddress [AliasAddressBodySize]byte

// NFTAddress is the ID of an NFT chain
type NFTAddress [NFTAddressBodySize]byte

// NewEd25519AddressFromPublicKey derives the address controlled by the given public key
func NewEd25519AddressFromPublicKey(pubKey []byte) Ed25519Address {
	return Ed25519Address(common.Blake2b256Hash(pubKey))
}

func (Ed25519Address) isAddress() {}
func (BLSAddress) isAddress()     {}
func (AliasAddress) isAddress()   {}
func (NFTAddress) isAddress()     {}

func (Ed25519Address) Type() AddressType { return AddressTypeEd25519 }
func (BLSAddress) Type() AddressType     { return AddressTypeBLS }
func (AliasAddress) Type() AddressType   { return AddressTypeAlias }
func (NFTAddress) Type() AddressType     { return AddressTypeNFT }

func (a Ed25519Address) Body() []byte { return a[:] }
func (a BLSAddress) Body() []byte     { return a[:] }
func (a AliasAddress) Body() []byte   { return a[:] }
func (a NFTAddress) Body() []byte     { return a[:] }

func (a Ed25519Address) String() string { return hex.EncodeToString(a[:]) }
func (a BLSAddress) String() string     { return hex.EncodeToString(a[:]) }
func (a AliasAddress) String() string   { return hex.EncodeToString(a[:]) }
func (a NFTAddress) String() string     { return hex.EncodeToString(a[:]) }

func (a Ed25519Address) EncodeTo(w *serializer.WriteStream) { encodeAddress(w, a) }
func (a BLSAddress) EncodeTo(w *serializer.WriteStream)     { encodeAddress(w, a) }
func (a AliasAddress) EncodeTo(w *serializer.WriteStream)   { encodeAddress(w, a) }
func (a NFTAddress) EncodeTo(w *serializer.WriteStream)     { encodeAddress(w, a) }

func (a AliasAddress) AliasId() common.AliasId { return common.AliasId(a) }
func (a NFTAddress) NftId() common.NftId       { return common.NftId(a) }

func encodeAddress(w *serializer.WriteStream, a Address) {
	w.WriteUint8(uint8(a.Type()))
	w.WriteFixed(a.Body())
}

// DecodeAddress reads the address type tag and dispatches to the matching variant
func DecodeAddress(r *serializer.ReadStream, field string) (Address, error) {
	tag, err := r.PeekUint8(field + ".type")
	if err != nil {
		return nil, err
	}
	switch AddressType(tag) {
	case AddressTypeEd25519:
		return DecodeEd25519Address(r, field)
	case AddressTypeBLS:
		return DecodeBLSAddress(r, field)
	case AddressTypeAlias:
		return DecodeAliasAddress(r, field)
	case AddressTypeNFT:
		return DecodeNFTAddress(r, field)
	default:
		return nil, &serializer.UnknownVariantError{
			Field: field + ".type",
			Tag:   uint32(tag),
		}
	}
}

func DecodeEd25519Address(r *serializer.ReadStream, field string) (Ed25519Address, error) {
	var ret Ed25519Address
	err := decodeAddressInto(r, field, AddressTypeEd25519, Ed25519AddressLength, ret[:])
	return ret, err
}

func DecodeBLSAddress(r *serializer.ReadStream, field string) (BLSAddress, error) {
	var ret BLSAddress
	err := decodeAddressInto(r, field, AddressTypeBLS, BLSAddressLength, ret[:])
	return ret, err
}

func DecodeAliasAddress(r *serializer.ReadStream, field string) (AliasAddress, error) {
	var ret AliasAddress
	err := decodeAddressInto(r, field, AddressTypeAlias, AliasAddressLength, ret[:])
	return ret, err
}

func DecodeNFTAddress(r *serializer.ReadStream, field string) (NFTAddress, error) {
	var ret NFTAddress
	err := decodeAddressInto(r, field, AddressTypeNFT, NFTAddressLength, ret[:])
	return ret, err
}

func decodeAddressInto(
	r *serializer.ReadStream,
	field string,
	addrType AddressType,
	length int,
	dst []byte,
) error {
	if err := r.Require(field, length); err != nil {
		return err
	}
	if err := expectTag8(r, field, uint8(addrType)); err != nil {
		return err
	}
	return r.ReadInto(field, dst)
}

// NewAddressFromBytes decodes a serialized address that must consume all of data
func NewAddressFromBytes(data []byte) (Address, error) {
	return deserialize(data, "address", func(r *serializer.ReadStream) (Address, error) {
		return DecodeAddress(r, "address")
	})
}

// AddressBytes returns the serialized form of the address, tag included
func AddressBytes(a Address) []byte {
	w := serializer.NewWriteStream()
	a.EncodeTo(w)
	return w.Bytes()
}

// AddressToBech32 renders the address for the network identified by hrp
func AddressToBech32(hrp string, a Address) (string, error) {
	return common.Bech32Encode(hrp, AddressBytes(a))
}

// ParseBech32Address decodes a bech32 address string into its human readable part and address
func ParseBech32Address(s string) (string, Address, error) {
	hrp, data, err := common.Bech32Decode(s)
	if err != nil {
		return "", nil, err
	}
	if !common.IsKnownHrp(hrp) {
		return "", nil, common.Bech32AddressError{
			Address: s,
			Err:     fmt.Errorf("unknown human readable part %q", hrp),
		}
	}
	addr, err := NewAddressFromBytes(data)
	if err != nil {
		return "", nil, common.Bech32AddressError{Address: s, Err: err}
	}
	return hrp, addr, nil
}
