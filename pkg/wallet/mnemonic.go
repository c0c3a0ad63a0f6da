package wallet

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"math/big"
	"strings"

	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/crypto/pbkdf2"
)

const (
	wordlistSize    = 2048
	seedIterations  = 2048
	seedKeyLen      = 64
	bitsPerWord     = 11
	mnemonicSaltTag = "mnemonic"
)

var lastWordMask = big.NewInt(wordlistSize - 1)

// DefaultWordlist returns the standard english 2048-word vocabulary.
func DefaultWordlist() []string {
	return wordlists.English
}

// NewMnemonicOpts is the struct given to the NewMnemonic method
type NewMnemonicOpts struct {
	EntropySize int
}

func (o NewMnemonicOpts) validate() error {
	if o.EntropySize == 0 {
		return nil
	}
	return validateEntropySize(o.EntropySize)
}

// NewMnemonic returns a new mnemonic as a list of words
func NewMnemonic(opts NewMnemonicOpts) ([]string, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.EntropySize == 0 {
		opts.EntropySize = 128
	}

	entropy, err := NewEntropy(opts.EntropySize)
	if err != nil {
		return nil, err
	}
	return EntropyToMnemonic(entropy, DefaultWordlist())
}

// NewEntropy returns strengthBits/8 cryptographically secure random bytes.
// The strength must be one of 128, 160, 192, 224, 256.
func NewEntropy(strengthBits int) ([]byte, error) {
	if err := validateEntropySize(strengthBits); err != nil {
		return nil, err
	}
	entropy := make([]byte, strengthBits/8)
	if _, err := rand.Read(entropy); err != nil {
		return nil, err
	}
	return entropy, nil
}

// EntropyToMnemonic encodes the given entropy as a word sequence drawn from
// the given 2048-word vocabulary. The last entropyBits/32 bits of the encoded
// value hold a checksum taken from the top of SHA-256(entropy), so the word
// count is (entropyBits+entropyBits/32)/11.
func EntropyToMnemonic(entropy []byte, wordlist []string) ([]string, error) {
	if err := validateEntropySize(len(entropy) * 8); err != nil {
		return nil, err
	}
	if len(wordlist) != wordlistSize {
		return nil, ErrInvalidWordlist
	}

	entropyBits := len(entropy) * 8
	checksumBits := entropyBits / 32
	checksum := sha256.Sum256(entropy)

	combined := new(big.Int).SetBytes(entropy)
	combined.Lsh(combined, uint(checksumBits))
	combined.Or(combined, big.NewInt(int64(checksum[0]>>(8-checksumBits))))

	// peel 11-bit groups off the tail, most significant group first
	numWords := (entropyBits + checksumBits) / bitsPerWord
	words := make([]string, numWords)
	index := new(big.Int)
	for i := numWords - 1; i >= 0; i-- {
		index.And(combined, lastWordMask)
		words[i] = wordlist[index.Int64()]
		combined.Rsh(combined, bitsPerWord)
	}

	return words, nil
}

// IsMnemonicValid returns whether every word of the mnemonic belongs to the
// vocabulary and the embedded checksum matches the recomputed one.
func IsMnemonicValid(mnemonic []string, wordlist []string) bool {
	_, err := EntropyFromMnemonic(mnemonic, wordlist)
	return err == nil
}

// EntropyFromMnemonic reverses EntropyToMnemonic, failing with
// ErrInvalidMnemonic if a word is unknown or the checksum does not hold.
func EntropyFromMnemonic(mnemonic []string, wordlist []string) ([]byte, error) {
	if len(wordlist) != wordlistSize {
		return nil, ErrInvalidWordlist
	}
	if len(mnemonic) == 0 || len(mnemonic)%3 != 0 {
		return nil, ErrInvalidMnemonic
	}

	totalBits := len(mnemonic) * bitsPerWord
	entropyBits := totalBits * 32 / 33
	checksumBits := totalBits - entropyBits
	if validateEntropySize(entropyBits) != nil {
		return nil, ErrInvalidMnemonic
	}

	indexes := make(map[string]int64, wordlistSize)
	for i, word := range wordlist {
		indexes[word] = int64(i)
	}

	combined := new(big.Int)
	for _, word := range mnemonic {
		index, ok := indexes[word]
		if !ok {
			return nil, ErrInvalidMnemonic
		}
		combined.Lsh(combined, bitsPerWord)
		combined.Or(combined, big.NewInt(index))
	}

	checksum := new(big.Int).And(
		combined,
		big.NewInt(int64(1<<checksumBits)-1),
	)
	entropyInt := new(big.Int).Rsh(combined, uint(checksumBits))

	entropy := entropyInt.FillBytes(make([]byte, entropyBits/8))
	hash := sha256.Sum256(entropy)
	if checksum.Int64() != int64(hash[0]>>(8-checksumBits)) {
		return nil, ErrInvalidMnemonic
	}

	return entropy, nil
}

// MnemonicToSeed stretches the mnemonic into a 64-byte seed with
// PBKDF2-HMAC-SHA512 over 2048 rounds, salted by "mnemonic"+passphrase.
func MnemonicToSeed(mnemonic []string, passphrase string) []byte {
	password := []byte(strings.Join(mnemonic, " "))
	salt := []byte(mnemonicSaltTag + passphrase)
	return pbkdf2.Key(password, salt, seedIterations, seedKeyLen, sha512.New)
}

func validateEntropySize(strengthBits int) error {
	switch strengthBits {
	case 128, 160, 192, 224, 256:
		return nil
	default:
		return ErrInvalidEntropySize
	}
}
