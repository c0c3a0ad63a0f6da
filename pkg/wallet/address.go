package wallet

import (
	"crypto/sha256"
	"strings"

	"github.com/mr-tron/base58"
)

const (
	// AddressPrefix is prepended to the base58 digest of every account
	// identifier.
	AddressPrefix = "oct"
	// MinAddressLength and MaxAddressLength bound the total length of a
	// well formed address, prefix included.
	MinAddressLength = 20
	MaxAddressLength = 50

	base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
)

// EncodeBase58 encodes the given bytes with the bitcoin base58 alphabet.
// Every leading zero byte maps to a leading '1'; empty input encodes to the
// empty string.
func EncodeBase58(data []byte) string {
	if len(data) <= 0 {
		return ""
	}
	return base58.Encode(data)
}

// NewAddress maps a public key to its account identifier
// "oct" + base58(SHA-256(pubkey)).
func NewAddress(pubkey []byte) (string, error) {
	if len(pubkey) <= 0 {
		return "", ErrNullPublicKey
	}
	hash := sha256.Sum256(pubkey)
	return AddressPrefix + EncodeBase58(hash[:]), nil
}

// IsValidAddressFormat returns whether the given string is a well formed
// account identifier: "oct" prefix, total length in [20, 50] and all
// remaining characters in the base58 alphabet.
func IsValidAddressFormat(address string) bool {
	if !strings.HasPrefix(address, AddressPrefix) {
		return false
	}
	if len(address) < MinAddressLength || len(address) > MaxAddressLength {
		return false
	}
	for _, char := range address[len(AddressPrefix):] {
		if !strings.ContainsRune(base58Alphabet, char) {
			return false
		}
	}
	return true
}
