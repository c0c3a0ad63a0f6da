// Package walletfile loads and stores the JSON identity file holding the
// wallet's signing key and address.
package walletfile

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/octra-network/octra-daemon/pkg/wallet"
)

var (
	// ErrInvalidWalletFile ...
	ErrInvalidWalletFile = errors.New("wallet file is missing or malformed")
	// ErrKeyAddressMismatch ...
	ErrKeyAddressMismatch = errors.New("private key does not match address")
)

// WalletFile is the on-disk identity of a wallet. Priv is the base64 of
// either the 32-byte seed or the full 64-byte expanded key.
type WalletFile struct {
	Priv string `json:"priv"`
	Addr string `json:"addr"`
	RPC  string `json:"rpc,omitempty"`
}

// Identity is the decoded, validated form of a wallet file.
type Identity struct {
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
	Address    string
	RPC        string
}

// Load reads the wallet file at the given path, decodes the signing key and
// checks that it actually controls the declared address.
func Load(path string) (*Identity, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWalletFile, err)
	}
	return Parse(buf)
}

// Parse decodes a wallet file from its raw JSON bytes.
func Parse(buf []byte) (*Identity, error) {
	wf := &WalletFile{}
	if err := json.Unmarshal(buf, wf); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWalletFile, err)
	}
	if len(wf.Priv) <= 0 || len(wf.Addr) <= 0 {
		return nil, ErrInvalidWalletFile
	}

	raw, err := base64.StdEncoding.DecodeString(wf.Priv)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWalletFile, err)
	}

	var prvkey ed25519.PrivateKey
	switch len(raw) {
	case ed25519.SeedSize:
		prvkey = ed25519.NewKeyFromSeed(raw)
	case ed25519.PrivateKeySize:
		prvkey = ed25519.PrivateKey(raw)
	default:
		return nil, ErrInvalidWalletFile
	}

	pubkey := prvkey.Public().(ed25519.PublicKey)
	addr, err := wallet.NewAddress(pubkey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWalletFile, err)
	}
	if addr != wf.Addr {
		return nil, ErrKeyAddressMismatch
	}

	return &Identity{
		PrivateKey: prvkey,
		PublicKey:  pubkey,
		Address:    addr,
		RPC:        wf.RPC,
	}, nil
}

// Save writes the identity as a wallet file with owner-only permissions.
// When path is empty a timestamped name in the current directory is used.
// It returns the path actually written.
func Save(identity *Identity, path string) (string, error) {
	if identity == nil || len(identity.PrivateKey) != ed25519.PrivateKeySize {
		return "", ErrInvalidWalletFile
	}

	if len(path) <= 0 {
		path = fmt.Sprintf("octra_wallet_%d.json", time.Now().Unix())
	}

	wf := &WalletFile{
		Priv: base64.StdEncoding.EncodeToString(identity.PrivateKey.Seed()),
		Addr: identity.Address,
		RPC:  identity.RPC,
	}
	buf, err := json.MarshalIndent(wf, "", "  ")
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModeDir|0755); err != nil {
			return "", err
		}
	}
	if err := ioutil.WriteFile(path, buf, 0600); err != nil {
		return "", err
	}
	return path, nil
}
