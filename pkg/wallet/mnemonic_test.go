package wallet

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMnemonic(t *testing.T) {
	tests := []struct {
		entropySize int
		numWords    int
	}{
		{0, 12},
		{128, 12},
		{160, 15},
		{192, 18},
		{224, 21},
		{256, 24},
	}
	for _, tt := range tests {
		mnemonic, err := NewMnemonic(NewMnemonicOpts{EntropySize: tt.entropySize})
		require.NoError(t, err)
		assert.Len(t, mnemonic, tt.numWords)
		assert.True(t, IsMnemonicValid(mnemonic, DefaultWordlist()))
	}
}

func TestFailingNewMnemonic(t *testing.T) {
	tests := []int{-1, 127, 130, 257, 512}
	for _, tt := range tests {
		_, err := NewMnemonic(NewMnemonicOpts{EntropySize: tt})
		assert.Equal(t, ErrInvalidEntropySize, err)
	}
}

func TestEntropyToMnemonic(t *testing.T) {
	entropy := make([]byte, 16)
	mnemonic, err := EntropyToMnemonic(entropy, DefaultWordlist())
	require.NoError(t, err)
	assert.Equal(
		t,
		"abandon abandon abandon abandon abandon abandon abandon abandon "+
			"abandon abandon abandon about",
		strings.Join(mnemonic, " "),
	)

	roundTrip, err := EntropyFromMnemonic(mnemonic, DefaultWordlist())
	require.NoError(t, err)
	assert.Equal(t, entropy, roundTrip)
}

func TestEntropyToMnemonicChecksumRoundTrip(t *testing.T) {
	for _, strength := range []int{128, 160, 192, 224, 256} {
		entropy, err := NewEntropy(strength)
		require.NoError(t, err)

		mnemonic, err := EntropyToMnemonic(entropy, DefaultWordlist())
		require.NoError(t, err)
		assert.Len(t, mnemonic, (strength+strength/32)/11)

		roundTrip, err := EntropyFromMnemonic(mnemonic, DefaultWordlist())
		require.NoError(t, err)
		assert.Equal(t, entropy, roundTrip)
	}
}

func TestFailingEntropyToMnemonic(t *testing.T) {
	validEntropy := make([]byte, 16)

	_, err := EntropyToMnemonic(make([]byte, 15), DefaultWordlist())
	assert.Equal(t, ErrInvalidEntropySize, err)

	_, err = EntropyToMnemonic(validEntropy, []string{"abandon", "ability"})
	assert.Equal(t, ErrInvalidWordlist, err)
}

func TestIsMnemonicValid(t *testing.T) {
	tests := []struct {
		mnemonic string
		valid    bool
	}{
		{
			mnemonic: "abandon abandon abandon abandon abandon abandon abandon " +
				"abandon abandon abandon abandon about",
			valid: true,
		},
		{
			// bad checksum, last word swapped
			mnemonic: "abandon abandon abandon abandon abandon abandon abandon " +
				"abandon abandon abandon abandon abandon",
			valid: false,
		},
		{
			// unknown word
			mnemonic: "abandon abandon abandon abandon abandon abandon abandon " +
				"abandon abandon abandon abandon octopus2",
			valid: false,
		},
		{
			// wrong word count
			mnemonic: "abandon abandon abandon",
			valid:    false,
		},
	}
	for _, tt := range tests {
		valid := IsMnemonicValid(strings.Split(tt.mnemonic, " "), DefaultWordlist())
		assert.Equal(t, tt.valid, valid)
	}
}

func TestMnemonicToSeed(t *testing.T) {
	mnemonic := strings.Split(
		"abandon abandon abandon abandon abandon abandon abandon abandon "+
			"abandon abandon abandon about",
		" ",
	)

	seed := MnemonicToSeed(mnemonic, "")
	assert.Equal(
		t,
		"5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc1"+
			"9a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4",
		hex.EncodeToString(seed),
	)

	seedWithPassphrase := MnemonicToSeed(mnemonic, "TREZOR")
	assert.Equal(
		t,
		"c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e5349553"+
			"1f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04",
		hex.EncodeToString(seedWithPassphrase),
	)
}
