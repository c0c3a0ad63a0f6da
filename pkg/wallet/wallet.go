package wallet

import (
	"crypto/ed25519"
	"errors"
)

var (
	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New(
		"entropy size must be one of 128, 160, 192, 224, 256 bits",
	)
	// ErrInvalidWordlist ...
	ErrInvalidWordlist = errors.New("wordlist must contain exactly 2048 words")
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic is null")
	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrNullSeed ...
	ErrNullSeed = errors.New("seed must not be null")
	// ErrNullExtendedKey ...
	ErrNullExtendedKey = errors.New("extended key must not be null")
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must not start or end with a '/' and " +
			"can optionally start with 'm/' for absolute paths",
	)
	// ErrInvalidDerivationPath ...
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	// ErrNullPublicKey ...
	ErrNullPublicKey = errors.New("public key must not be null")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New(
		"address must start with 'oct' followed by base58 characters",
	)
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a positive decimal number")
	// ErrNullPrivateKey ...
	ErrNullPrivateKey = errors.New("private key must not be null")
)

// Wallet holds the recovery mnemonic along with the seed and the master
// extended key derived from it. Signing keys for any account of the tree are
// derived on demand from the seed.
type Wallet struct {
	mnemonic []string
	seed     []byte
	master   *ExtendedKey
}

// NewWalletOpts is the struct given to the NewWallet method
type NewWalletOpts struct {
	EntropySize int
	Passphrase  string
}

func (o NewWalletOpts) validate() error {
	if o.EntropySize == 0 {
		return nil
	}
	return validateEntropySize(o.EntropySize)
}

// NewWallet creates a new wallet with a freshly generated mnemonic of the
// given entropy size (128 bits if none is given)
func NewWallet(opts NewWalletOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	entropySize := opts.EntropySize
	if entropySize == 0 {
		entropySize = 128
	}

	entropy, err := NewEntropy(entropySize)
	if err != nil {
		return nil, err
	}
	mnemonic, err := EntropyToMnemonic(entropy, DefaultWordlist())
	if err != nil {
		return nil, err
	}

	return newWalletFromMnemonic(mnemonic, opts.Passphrase)
}

// NewWalletFromMnemonicOpts is the struct given to the NewWalletFromMnemonic
// method
type NewWalletFromMnemonicOpts struct {
	Mnemonic   []string
	Passphrase string
}

func (o NewWalletFromMnemonicOpts) validate() error {
	if len(o.Mnemonic) <= 0 {
		return ErrNullMnemonic
	}
	if !IsMnemonicValid(o.Mnemonic, DefaultWordlist()) {
		return ErrInvalidMnemonic
	}
	return nil
}

// NewWalletFromMnemonic restores a wallet from an existing mnemonic
func NewWalletFromMnemonic(opts NewWalletFromMnemonicOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return newWalletFromMnemonic(opts.Mnemonic, opts.Passphrase)
}

func newWalletFromMnemonic(mnemonic []string, passphrase string) (*Wallet, error) {
	seed := MnemonicToSeed(mnemonic, passphrase)
	master, err := MasterFromSeed(seed)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		mnemonic: mnemonic,
		seed:     seed,
		master:   master,
	}, nil
}

func (w *Wallet) validate() error {
	if len(w.seed) <= 0 {
		return ErrNullSeed
	}
	if len(w.mnemonic) <= 0 {
		return ErrNullMnemonic
	}
	if w.master == nil {
		return ErrNullExtendedKey
	}
	return nil
}

// Mnemonic is getter for the recovery mnemonic
func (w *Wallet) Mnemonic() ([]string, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	return w.mnemonic, nil
}

// Seed is getter for the wallet seed
func (w *Wallet) Seed() ([]byte, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	return w.seed, nil
}

// MasterKey returns the master extended key of the derivation tree
func (w *Wallet) MasterKey() (*ExtendedKey, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	return w.master, nil
}

// Keypair returns the signing and verifying keys of the master account
func (w *Wallet) Keypair() (ed25519.PrivateKey, ed25519.PublicKey, error) {
	if err := w.validate(); err != nil {
		return nil, nil, err
	}
	return w.master.Keypair()
}

// Address returns the account identifier of the master public key
func (w *Wallet) Address() (string, error) {
	if err := w.validate(); err != nil {
		return "", err
	}
	return NewAddress(w.master.PublicKey())
}
