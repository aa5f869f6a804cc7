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
	"fmt"
	"slices"

	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
)

type UnlockConditionType uint8

const (
	UnlockConditionTypeAddress                UnlockConditionType = 0
	UnlockConditionTypeStorageDepositReturn   UnlockConditionType = 1
	UnlockConditionTypeTimelock               UnlockConditionType = 2
	UnlockConditionTypeExpiration             UnlockConditionType = 3
	UnlockConditionTypeStateControllerAddress UnlockConditionType = 4
	UnlockConditionTypeGovernorAddress        UnlockConditionType = 5
	UnlockConditionTypeImmutableAliasAddress  UnlockConditionType = 6
)

const (
	AddressUnlockConditionMinLength              = 1 + AddressMinLength
	StorageDepositReturnUnlockConditionMinLength = 1 + AddressMinLength + serializer.UInt64Size
	TimelockUnlockConditionLength                = 1 + 2*serializer.UInt32Size
	ExpirationUnlockConditionMinLength           = 1 + AddressMinLength + 2*serializer.UInt32Size
	ImmutableAliasUnlockConditionLength          = 1 + AliasAddressLength
)

func (t UnlockConditionType) String() string {
	switch t {
	case UnlockConditionTypeAddress:
		return "address"
	case UnlockConditionTypeStorageDepositReturn:
		return "storageDepositReturn"
	case UnlockConditionTypeTimelock:
		return "timelock"
	case UnlockConditionTypeExpiration:
		return "expiration"
	case UnlockConditionTypeStateControllerAddress:
		return "stateControllerAddress"
	case UnlockConditionTypeGovernorAddress:
		return "governorAddress"
	case UnlockConditionTypeImmutableAliasAddress:
		return "immutableAliasAddress"
	default:
		return fmt.Sprintf("unlockCondition(%d)", uint8(t))
	}
}

// UnlockCondition is a condition that must be met to spend the output carrying it
type UnlockCondition interface {
	Encoder
	Type() UnlockConditionType
	isUnlockCondition()
}

type AddressUnlockCondition struct {
	Address Address
}

// StorageDepositReturnUnlockCondition requires the consuming transaction to return Amount to ReturnAddress
type StorageDepositReturnUnlockCondition struct {
	ReturnAddress Address
	Amount        uint64
}

// TimelockUnlockCondition prevents spending until a milestone index or unix time, whichever is non-zero
type TimelockUnlockCondition struct {
	MilestoneIndex uint32
	UnixTime       uint32
}

// ExpirationUnlockCondition hands control to ReturnAddress once the milestone index or unix time is reached
type ExpirationUnlockCondition struct {
	ReturnAddress  Address
	MilestoneIndex uint32
	UnixTime       uint32
}

type StateControllerAddressUnlockCondition struct {
	Address Address
}

type GovernorAddressUnlockCondition struct {
	Address Address
}

// ImmutableAliasAddressUnlockCondition binds a foundry to the alias that created it
type ImmutableAliasAddressUnlockCondition struct {
	Address AliasAddress
}

func (AddressUnlockCondition) isUnlockCondition()                {}
func (StorageDepositReturnUnlockCondition) isUnlockCondition()   {}
func (TimelockUnlockCondition) isUnlockCondition()               {}
func (ExpirationUnlockCondition) isUnlockCondition()             {}
func (StateControllerAddressUnlockCondition) isUnlockCondition() {}
func (GovernorAddressUnlockCondition) isUnlockCondition()        {}
func (ImmutableAliasAddressUnlockCondition) isUnlockCondition()  {}

func (AddressUnlockCondition) Type() UnlockConditionType {
	return UnlockConditionTypeAddress
}

func (StorageDepositReturnUnlockCondition) Type() UnlockConditionType {
	return UnlockConditionTypeStorageDepositReturn
}

func (TimelockUnlockCondition) Type() UnlockConditionType {
	return UnlockConditionTypeTimelock
}

func (ExpirationUnlockCondition) Type() UnlockConditionType {
	return UnlockConditionTypeExpiration
}

func (StateControllerAddressUnlockCondition) Type() UnlockConditionType {
	return UnlockConditionTypeStateControllerAddress
}

func (GovernorAddressUnlockCondition) Type() UnlockConditionType {
	return UnlockConditionTypeGovernorAddress
}

func (ImmutableAliasAddressUnlockCondition) Type() UnlockConditionType {
	return UnlockConditionTypeImmutableAliasAddress
}

func (u AddressUnlockCondition) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(UnlockConditionTypeAddress))
	u.Address.EncodeTo(w)
}

func (u StorageDepositReturnUnlockCondition) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(UnlockConditionTypeStorageDepositReturn))
	u.ReturnAddress.EncodeTo(w)
	w.WriteUint64(u.Amount)
}

func (u TimelockUnlockCondition) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(UnlockConditionTypeTimelock))
	w.WriteUint32(u.MilestoneIndex)
	w.WriteUint32(u.UnixTime)
}

func (u ExpirationUnlockCondition) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(UnlockConditionTypeExpiration))
	u.ReturnAddress.EncodeTo(w)
	w.WriteUint32(u.MilestoneIndex)
	w.WriteUint32(u.UnixTime)
}

func (u StateControllerAddressUnlockCondition) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(UnlockConditionTypeStateControllerAddress))
	u.Address.EncodeTo(w)
}

func (u GovernorAddressUnlockCondition) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(UnlockConditionTypeGovernorAddress))
	u.Address.EncodeTo(w)
}

func (u ImmutableAliasAddressUnlockCondition) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(UnlockConditionTypeImmutableAliasAddress))
	u.Address.EncodeTo(w)
}

// DecodeUnlockCondition reads the unlock condition type tag and dispatches to the matching variant
func DecodeUnlockCondition(r *serializer.ReadStream, field string) (UnlockCondition, error) {
	tag, err := r.PeekUint8(field + ".type")
	if err != nil {
		return nil, err
	}
	switch UnlockConditionType(tag) {
	case UnlockConditionTypeAddress:
		return DecodeAddressUnlockCondition(r, field)
	case UnlockConditionTypeStorageDepositReturn:
		return DecodeStorageDepositReturnUnlockCondition(r, field)
	case UnlockConditionTypeTimelock:
		return DecodeTimelockUnlockCondition(r, field)
	case UnlockConditionTypeExpiration:
		return DecodeExpirationUnlockCondition(r, field)
	case UnlockConditionTypeStateControllerAddress:
		return DecodeStateControllerAddressUnlockCondition(r, field)
	case UnlockConditionTypeGovernorAddress:
		return DecodeGovernorAddressUnlockCondition(r, field)
	case UnlockConditionTypeImmutableAliasAddress:
		return DecodeImmutableAliasAddressUnlockCondition(r, field)
	default:
		return nil, &serializer.UnknownVariantError{
			Field: field + ".type",
			Tag:   uint32(tag),
		}
	}
}

// decodeAddressCondition handles the variants that hold nothing but an address
func decodeAddressCondition(
	r *serializer.ReadStream,
	field string,
	condType UnlockConditionType,
) (Address, error) {
	if err := r.Require(field, AddressUnlockConditionMinLength); err != nil {
		return nil, err
	}
	if err := expectTag8(r, field, uint8(condType)); err != nil {
		return nil, err
	}
	return DecodeAddress(r, field+".address")
}

func DecodeAddressUnlockCondition(r *serializer.ReadStream, field string) (AddressUnlockCondition, error) {
	addr, err := decodeAddressCondition(r, field, UnlockConditionTypeAddress)
	if err != nil {
		return AddressUnlockCondition{}, err
	}
	return AddressUnlockCondition{Address: addr}, nil
}

func DecodeStateControllerAddressUnlockCondition(
	r *serializer.ReadStream,
	field string,
) (StateControllerAddressUnlockCondition, error) {
	addr, err := decodeAddressCondition(r, field, UnlockConditionTypeStateControllerAddress)
	if err != nil {
		return StateControllerAddressUnlockCondition{}, err
	}
	return StateControllerAddressUnlockCondition{Address: addr}, nil
}

func DecodeGovernorAddressUnlockCondition(
	r *serializer.ReadStream,
	field string,
) (GovernorAddressUnlockCondition, error) {
	addr, err := decodeAddressCondition(r, field, UnlockConditionTypeGovernorAddress)
	if err != nil {
		return GovernorAddressUnlockCondition{}, err
	}
	return GovernorAddressUnlockCondition{Address: addr}, nil
}

func DecodeStorageDepositReturnUnlockCondition(
	r *serializer.ReadStream,
	field string,
) (StorageDepositReturnUnlockCondition, error) {
	var ret StorageDepositReturnUnlockCondition
	if err := r.Require(field, StorageDepositReturnUnlockConditionMinLength); err != nil {
		return ret, err
	}
	if err := expectTag8(r, field, uint8(UnlockConditionTypeStorageDepositReturn)); err != nil {
		return ret, err
	}
	addr, err := DecodeAddress(r, field+".returnAddress")
	if err != nil {
		return ret, err
	}
	amount, err := readAmount(r, field+".amount")
	if err != nil {
		return ret, err
	}
	ret.ReturnAddress = addr
	ret.Amount = amount
	return ret, nil
}

func DecodeTimelockUnlockCondition(r *serializer.ReadStream, field string) (TimelockUnlockCondition, error) {
	var ret TimelockUnlockCondition
	if err := r.Require(field, TimelockUnlockConditionLength); err != nil {
		return ret, err
	}
	if err := expectTag8(r, field, uint8(UnlockConditionTypeTimelock)); err != nil {
		return ret, err
	}
	// Length was checked above
	ret.MilestoneIndex, _ = r.ReadUint32(field + ".milestoneIndex")
	ret.UnixTime, _ = r.ReadUint32(field + ".unixTime")
	return ret, nil
}

func DecodeExpirationUnlockCondition(r *serializer.ReadStream, field string) (ExpirationUnlockCondition, error) {
	var ret ExpirationUnlockCondition
	if err := r.Require(field, ExpirationUnlockConditionMinLength); err != nil {
		return ret, err
	}
	if err := expectTag8(r, field, uint8(UnlockConditionTypeExpiration)); err != nil {
		return ret, err
	}
	addr, err := DecodeAddress(r, field+".returnAddress")
	if err != nil {
		return ret, err
	}
	ret.ReturnAddress = addr
	if ret.MilestoneIndex, err = r.ReadUint32(field + ".milestoneIndex"); err != nil {
		return ret, err
	}
	if ret.UnixTime, err = r.ReadUint32(field + ".unixTime"); err != nil {
		return ret, err
	}
	return ret, nil
}

func DecodeImmutableAliasAddressUnlockCondition(
	r *serializer.ReadStream,
	field string,
) (ImmutableAliasAddressUnlockCondition, error) {
	var ret ImmutableAliasAddressUnlockCondition
	if err := r.Require(field, ImmutableAliasUnlockConditionLength); err != nil {
		return ret, err
	}
	if err := expectTag8(r, field, uint8(UnlockConditionTypeImmutableAliasAddress)); err != nil {
		return ret, err
	}
	addr, err := DecodeAliasAddress(r, field+".address")
	if err != nil {
		return ret, err
	}
	ret.Address = addr
	return ret, nil
}

// UnlockConditions is the unlock condition list of an output, sorted by strictly increasing type
type UnlockConditions []UnlockCondition

// Get returns the condition of the given type, or nil
func (u UnlockConditions) Get(condType UnlockConditionType) UnlockCondition {
	for _, cond := range u {
		if cond.Type() == condType {
			return cond
		}
	}
	return nil
}

// Address returns the address unlock condition, or nil
func (u UnlockConditions) Address() *AddressUnlockCondition {
	if cond, ok := u.Get(UnlockConditionTypeAddress).(AddressUnlockCondition); ok {
		return &cond
	}
	return nil
}

func (u UnlockConditions) StorageDepositReturn() *StorageDepositReturnUnlockCondition {
	if cond, ok := u.Get(UnlockConditionTypeStorageDepositReturn).(StorageDepositReturnUnlockCondition); ok {
		return &cond
	}
	return nil
}

func (u UnlockConditions) Timelock() *TimelockUnlockCondition {
	if cond, ok := u.Get(UnlockConditionTypeTimelock).(TimelockUnlockCondition); ok {
		return &cond
	}
	return nil
}

func (u UnlockConditions) Expiration() *ExpirationUnlockCondition {
	if cond, ok := u.Get(UnlockConditionTypeExpiration).(ExpirationUnlockCondition); ok {
		return &cond
	}
	return nil
}

func (u UnlockConditions) StateControllerAddress() *StateControllerAddressUnlockCondition {
	if cond, ok := u.Get(UnlockConditionTypeStateControllerAddress).(StateControllerAddressUnlockCondition); ok {
		return &cond
	}
	return nil
}

func (u UnlockConditions) GovernorAddress() *GovernorAddressUnlockCondition {
	if cond, ok := u.Get(UnlockConditionTypeGovernorAddress).(GovernorAddressUnlockCondition); ok {
		return &cond
	}
	return nil
}

func (u UnlockConditions) ImmutableAliasAddress() *ImmutableAliasAddressUnlockCondition {
	if cond, ok := u.Get(UnlockConditionTypeImmutableAliasAddress).(ImmutableAliasAddressUnlockCondition); ok {
		return &cond
	}
	return nil
}

func (u UnlockConditions) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint8(uint8(len(u)))
	for _, cond := range u {
		cond.EncodeTo(w)
	}
}

// unlockConditionRules describes which conditions an output variant permits and requires
type unlockConditionRules struct {
	permitted []UnlockConditionType
	required  []UnlockConditionType
}

var (
	basicUnlockConditionRules = unlockConditionRules{
		permitted: []UnlockConditionType{
			UnlockConditionTypeAddress,
			UnlockConditionTypeStorageDepositReturn,
			UnlockConditionTypeTimelock,
			UnlockConditionTypeExpiration,
		},
		required: []UnlockConditionType{
			UnlockConditionTypeAddress,
		},
	}
	nftUnlockConditionRules   = basicUnlockConditionRules
	aliasUnlockConditionRules = unlockConditionRules{
		permitted: []UnlockConditionType{
			UnlockConditionTypeStateControllerAddress,
			UnlockConditionTypeGovernorAddress,
		},
		required: []UnlockConditionType{
			UnlockConditionTypeStateControllerAddress,
			UnlockConditionTypeGovernorAddress,
		},
	}
	foundryUnlockConditionRules = unlockConditionRules{
		permitted: []UnlockConditionType{
			UnlockConditionTypeImmutableAliasAddress,
		},
		required: []UnlockConditionType{
			UnlockConditionTypeImmutableAliasAddress,
		},
	}
)

func decodeUnlockConditions(
	r *serializer.ReadStream,
	field string,
	rules unlockConditionRules,
) (UnlockConditions, error) {
	count, err := readCount8(r, field, 0, len(rules.permitted))
	if err != nil {
		return nil, err
	}
	var ret UnlockConditions
	for i := range count {
		elemField := fmt.Sprintf("%s[%d]", field, i)
		tag, err := r.PeekUint8(elemField + ".type")
		if err != nil {
			return nil, err
		}
		if !slices.Contains(rules.permitted, UnlockConditionType(tag)) {
			return nil, &serializer.UnknownVariantError{
				Field: elemField + ".type",
				Tag:   uint32(tag),
			}
		}
		if i > 0 && tag <= uint8(ret[i-1].Type()) {
			return nil, &serializer.OrderingViolationError{Field: field, Index: i}
		}
		cond, err := DecodeUnlockCondition(r, elemField)
		if err != nil {
			return nil, err
		}
		ret = append(ret, cond)
	}
	for _, condType := range rules.required {
		if ret.Get(condType) == nil {
			return nil, &serializer.CountOutOfBoundsError{
				Field: field + "." + condType.String(),
				Count: 0,
				Min:   1,
				Max:   1,
			}
		}
	}
	return ret, nil
}

func (u UnlockConditions) validate(field string, rules unlockConditionRules) error {
	if err := common.ValidateCount(field, len(u), 0, len(rules.permitted)); err != nil {
		return err
	}
	for i, cond := range u {
		if cond == nil {
			return common.NewValidationError(
				common.ValidationErrorTypeVariant,
				fmt.Sprintf("%s[%d] is nil", field, i),
				nil,
				nil,
			)
		}
		if !slices.Contains(rules.permitted, cond.Type()) {
			return common.NewValidationError(
				common.ValidationErrorTypeVariant,
				fmt.Sprintf("%s condition not permitted in %s", cond.Type(), field),
				map[string]any{"index": i},
				nil,
			)
		}
		if i > 0 && cond.Type() <= u[i-1].Type() {
			return common.NewOrderingError(field, i)
		}
		if err := validateUnlockCondition(cond); err != nil {
			return err
		}
	}
	for _, condType := range rules.required {
		if u.Get(condType) == nil {
			return common.NewValidationError(
				common.ValidationErrorTypeCount,
				fmt.Sprintf("%s is missing required %s condition", field, condType),
				nil,
				nil,
			)
		}
	}
	return nil
}

func validateUnlockCondition(cond UnlockCondition) error {
	var addrs []Address
	switch c := cond.(type) {
	case AddressUnlockCondition:
		addrs = append(addrs, c.Address)
	case StorageDepositReturnUnlockCondition:
		addrs = append(addrs, c.ReturnAddress)
		if err := validateAmount("storageDepositReturn.amount", c.Amount); err != nil {
			return err
		}
	case ExpirationUnlockCondition:
		addrs = append(addrs, c.ReturnAddress)
	case StateControllerAddressUnlockCondition:
		addrs = append(addrs, c.Address)
	case GovernorAddressUnlockCondition:
		addrs = append(addrs, c.Address)
	}
	for _, addr := range addrs {
		if addr == nil {
			return common.NewValidationError(
				common.ValidationErrorTypeVariant,
				fmt.Sprintf("%s condition has no address", cond.Type()),
				nil,
				nil,
			)
		}
	}
	return nil
}
