package test

import (
	"encoding/hex"
	"fmt"
	"strings"

	"lukechampine.com/frand"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline. A leading 0x is accepted.
func DecodeHexString(hexData string) []byte {
	// Strip off any leading/trailing whitespace in hex string
	hexData = strings.TrimPrefix(strings.TrimSpace(hexData), "0x")
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// DecodeHash32 decodes a hex string that must hold exactly 32 bytes
func DecodeHash32(hexData string) [32]byte {
	decoded := DecodeHexString(hexData)
	if len(decoded) != 32 {
		panic(fmt.Sprintf("expected 32 bytes, got %d", len(decoded)))
	}
	var ret [32]byte
	copy(ret[:], decoded)
	return ret
}

// RandomBytes returns n random bytes for use as test fixtures
func RandomBytes(n int) []byte {
	return frand.Bytes(n)
}

// RandomHash32 returns a random 32-byte value such as an ID or public key hash
func RandomHash32() [32]byte {
	var ret [32]byte
	frand.Read(ret[:])
	return ret
}
