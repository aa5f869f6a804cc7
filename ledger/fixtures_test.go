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

package ledger_test

import (
	"bytes"
	"crypto/ed25519"

	"github.com/blinklabs-io/gostardust/ledger"
	"github.com/blinklabs-io/gostardust/ledger/common"
)

func testHash(b byte) common.Blake2b256 {
	return common.Blake2b256(bytes.Repeat([]byte{b}, common.Blake2b256Size))
}

func testEd25519Address(b byte) ledger.Ed25519Address {
	return ledger.Ed25519Address(testHash(b))
}

func testTokenId(b byte) common.TokenId {
	return ledger.NewFoundryId(ledger.AliasAddress(testHash(b)), 1, ledger.TokenSchemeTypeSimple)
}

func testPrivateKey(b byte) ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(bytes.Repeat([]byte{b}, ed25519.SeedSize))
}

func testBasicOutput() *ledger.BasicOutput {
	return &ledger.BasicOutput{
		Amount: 1_000_000,
		NativeTokens: ledger.NativeTokens{
			{Id: testTokenId(0x01), Amount: common.NewUint256(100)},
			{Id: testTokenId(0x02), Amount: common.NewUint256(200)},
		},
		UnlockConditions: ledger.UnlockConditions{
			ledger.AddressUnlockCondition{Address: testEd25519Address(0x33)},
			ledger.StorageDepositReturnUnlockCondition{
				ReturnAddress: testEd25519Address(0x44),
				Amount:        42_600,
			},
			ledger.TimelockUnlockCondition{MilestoneIndex: 10},
			ledger.ExpirationUnlockCondition{
				ReturnAddress: ledger.AliasAddress(testHash(0x55)),
				UnixTime:      1_700_000_000,
			},
		},
		FeatureBlocks: ledger.FeatureBlocks{
			ledger.SenderFeatureBlock{Address: testEd25519Address(0x33)},
			ledger.MetadataFeatureBlock{Data: []byte("metadata")},
			ledger.TagFeatureBlock{Tag: []byte("tag")},
		},
	}
}

func testSimpleBasicOutput(amount uint64, addr ledger.Address) *ledger.BasicOutput {
	return &ledger.BasicOutput{
		Amount: amount,
		UnlockConditions: ledger.UnlockConditions{
			ledger.AddressUnlockCondition{Address: addr},
		},
	}
}

func testAliasOutput() *ledger.AliasOutput {
	return &ledger.AliasOutput{
		Amount:         2_000_000,
		AliasId:        testHash(0x66),
		StateIndex:     3,
		StateMetadata:  []byte("state"),
		FoundryCounter: 1,
		UnlockConditions: ledger.UnlockConditions{
			ledger.StateControllerAddressUnlockCondition{Address: testEd25519Address(0x33)},
			ledger.GovernorAddressUnlockCondition{Address: testEd25519Address(0x44)},
		},
		FeatureBlocks: ledger.FeatureBlocks{
			ledger.SenderFeatureBlock{Address: testEd25519Address(0x33)},
		},
		ImmutableFeatureBlocks: ledger.FeatureBlocks{
			ledger.IssuerFeatureBlock{Address: testEd25519Address(0x44)},
			ledger.MetadataFeatureBlock{Data: []byte("immutable")},
		},
	}
}

func testFoundryOutput() *ledger.FoundryOutput {
	return &ledger.FoundryOutput{
		Amount:       500_000,
		SerialNumber: 1,
		TokenScheme: ledger.SimpleTokenScheme{
			MintedTokens:  common.NewUint256(1_000),
			MeltedTokens:  common.NewUint256(10),
			MaximumSupply: common.NewUint256(1_000_000),
		},
		UnlockConditions: ledger.UnlockConditions{
			ledger.ImmutableAliasAddressUnlockCondition{Address: ledger.AliasAddress(testHash(0x66))},
		},
		ImmutableFeatureBlocks: ledger.FeatureBlocks{
			ledger.MetadataFeatureBlock{Data: []byte("foundry")},
		},
	}
}

func testNFTOutput() *ledger.NFTOutput {
	return &ledger.NFTOutput{
		Amount: 300_000,
		NftId:  testHash(0x77),
		UnlockConditions: ledger.UnlockConditions{
			ledger.AddressUnlockCondition{Address: ledger.NFTAddress(testHash(0x78))},
		},
		FeatureBlocks: ledger.FeatureBlocks{
			ledger.DustDepositReturnFeatureBlock{Amount: 123_456},
			ledger.TimelockUnixFeatureBlock{UnixTime: 123_456},
		},
		ImmutableFeatureBlocks: ledger.FeatureBlocks{
			ledger.IssuerFeatureBlock{Address: testEd25519Address(0x79)},
		},
	}
}

// testEssence returns an essence with a single input and output whose encoding is fixed
func testEssence() *ledger.TransactionEssence {
	return &ledger.TransactionEssence{
		NetworkId: 1,
		Inputs: []ledger.Input{
			ledger.UTXOInput{TransactionId: testHash(0x11), OutputIndex: 0},
		},
		InputsCommitment: testHash(0x22),
		Outputs: []ledger.Output{
			testSimpleBasicOutput(1_000_000, testEd25519Address(0x33)),
		},
	}
}

func testTransactionPayload() *ledger.TransactionPayload {
	essence := &ledger.TransactionEssence{
		NetworkId: common.NetworkIdFromName("testnet"),
		Inputs: []ledger.Input{
			ledger.UTXOInput{TransactionId: testHash(0x11), OutputIndex: 0},
			ledger.UTXOInput{TransactionId: testHash(0x11), OutputIndex: 1},
			ledger.UTXOInput{TransactionId: testHash(0x12), OutputIndex: 5},
		},
		InputsCommitment: testHash(0x22),
		Outputs: []ledger.Output{
			testBasicOutput(),
			testAliasOutput(),
			testNFTOutput(),
		},
		Payload: &ledger.TaggedDataPayload{
			Tag:  []byte("tx"),
			Data: []byte("hello"),
		},
	}
	hash, err := essence.Hash()
	if err != nil {
		panic(err)
	}
	return &ledger.TransactionPayload{
		Essence: essence,
		UnlockBlocks: ledger.UnlockBlocks{
			ledger.SignatureUnlockBlock{
				Signature: ledger.NewEd25519Signature(testPrivateKey(0x01), hash[:]),
			},
			ledger.ReferenceUnlockBlock{Reference: 0},
			ledger.AliasUnlockBlock{Reference: 0},
		},
	}
}

func testReceiptPayload() *ledger.ReceiptPayload {
	var tail1, tail2 [ledger.LegacyTailTransactionHashSize]byte
	tail1[0] = 0x01
	tail2[0] = 0x02
	return &ledger.ReceiptPayload{
		MigratedAt: 1000,
		Final:      true,
		Funds: []ledger.MigratedFundsEntry{
			{TailTransactionHash: tail1, Address: testEd25519Address(0x01), Deposit: 1_000_000},
			{TailTransactionHash: tail2, Address: testEd25519Address(0x02), Deposit: 2_000_000},
		},
		Transaction: &ledger.TreasuryTransactionPayload{
			Input:  ledger.TreasuryInput{MilestoneId: testHash(0x0a)},
			Output: ledger.TreasuryOutput{Amount: 10_000_000},
		},
	}
}

func testMilestonePayload() *ledger.MilestonePayload {
	m := &ledger.MilestonePayload{
		Index:               42,
		Timestamp:           1_650_000_000,
		ProtocolVersion:     ledger.ProtocolVersion,
		PreviousMilestoneId: testHash(0x41),
		Parents:             []common.BlockId{testHash(0x01), testHash(0x02)},
		InclusionMerkleRoot: testHash(0x0c),
		AppliedMerkleRoot:   testHash(0x0d),
		Metadata:            []byte("milestone"),
		Receipt:             testReceiptPayload(),
	}
	msId := m.Id()
	sigs := []ledger.Ed25519Signature{
		ledger.NewEd25519Signature(testPrivateKey(0x01), msId[:]),
		ledger.NewEd25519Signature(testPrivateKey(0x02), msId[:]),
	}
	if bytes.Compare(sigs[0].PublicKey[:], sigs[1].PublicKey[:]) > 0 {
		sigs[0], sigs[1] = sigs[1], sigs[0]
	}
	m.Signatures = sigs
	return m
}

func testBlock(payload ledger.Payload) *ledger.Block {
	return &ledger.Block{
		ProtocolVersion: ledger.ProtocolVersion,
		Parents:         []common.BlockId{testHash(0x01), testHash(0x02), testHash(0x03)},
		Payload:         payload,
		Nonce:           0x0102030405060708,
	}
}
