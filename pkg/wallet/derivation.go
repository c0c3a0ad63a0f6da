package wallet

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
)

// masterHMACKey is the domain separation string keying the HMAC that turns a
// seed into the master extended key. Changing it changes every derived key.
const masterHMACKey = "Octra seed"

// PurposeIndex is the first, hardened segment of every network-scoped
// derivation path. Protocol constant.
const PurposeIndex = 345

// ExtendedKey is a private key together with the chain code used to derive
// its children deterministically.
type ExtendedKey struct {
	Key       []byte
	ChainCode []byte
}

// MasterFromSeed computes the master extended key as
// HMAC-SHA512(key="Octra seed", msg=seed); the first 32 bytes are the private
// key, the last 32 the chain code.
func MasterFromSeed(seed []byte) (*ExtendedKey, error) {
	if len(seed) <= 0 {
		return nil, ErrNullSeed
	}

	mac := hmac.New(sha512.New, []byte(masterHMACKey))
	mac.Write(seed)
	sum := mac.Sum(nil)

	return &ExtendedKey{
		Key:       sum[:32],
		ChainCode: sum[32:],
	}, nil
}

// Child derives the extended key at the given index. Hardened indexes
// (index >= 2^31) commit to the parent private key, soft ones to the parent
// public key, so hardened children cannot be reconstructed from public data.
func (k *ExtendedKey) Child(index uint32) (*ExtendedKey, error) {
	if err := k.validate(); err != nil {
		return nil, err
	}

	var data []byte
	if index >= HardenedKeyStart {
		data = make([]byte, 0, 1+len(k.Key)+4)
		data = append(data, 0x00)
		data = append(data, k.Key...)
	} else {
		pubkey := k.PublicKey()
		data = make([]byte, 0, len(pubkey)+4)
		data = append(data, pubkey...)
	}
	var indexBytes [4]byte
	binary.BigEndian.PutUint32(indexBytes[:], index)
	data = append(data, indexBytes[:]...)

	mac := hmac.New(sha512.New, k.ChainCode)
	mac.Write(data)
	sum := mac.Sum(nil)

	return &ExtendedKey{
		Key:       sum[:32],
		ChainCode: sum[32:],
	}, nil
}

// Derive folds Child over every index of the path in order.
func (k *ExtendedKey) Derive(path DerivationPath) (*ExtendedKey, error) {
	if len(path) <= 0 {
		return nil, ErrNullDerivationPath
	}

	current := k
	for _, index := range path {
		child, err := current.Child(index)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// Keypair expands the private key half into an ed25519 signing/verifying
// key pair (RFC 8032 key expansion).
func (k *ExtendedKey) Keypair() (ed25519.PrivateKey, ed25519.PublicKey, error) {
	if err := k.validate(); err != nil {
		return nil, nil, err
	}
	prvkey := ed25519.NewKeyFromSeed(k.Key)
	return prvkey, prvkey.Public().(ed25519.PublicKey), nil
}

// PublicKey returns the ed25519 public key of the private key half. This is
// the same public key the sign primitive exposes, and the one soft child
// derivation commits to.
func (k *ExtendedKey) PublicKey() []byte {
	prvkey := ed25519.NewKeyFromSeed(k.Key)
	return prvkey.Public().(ed25519.PublicKey)
}

func (k *ExtendedKey) validate() error {
	if k == nil || len(k.Key) != 32 || len(k.ChainCode) != 32 {
		return ErrNullExtendedKey
	}
	return nil
}

// DeriveFromPath derives the extended key at the given path starting from
// the master key of the given seed. Identical (seed, path) pairs always
// yield identical keys.
func DeriveFromPath(seed []byte, path DerivationPath) (*ExtendedKey, error) {
	master, err := MasterFromSeed(seed)
	if err != nil {
		return nil, err
	}
	return master.Derive(path)
}

// NetworkPathOpts is the struct given to the NetworkPath function and the
// DeriveForNetwork method
type NetworkPathOpts struct {
	NetworkType uint32
	Network     uint32
	Contract    uint32
	Account     uint32
	Token       uint32
	Subnet      uint32
	Index       uint32
}

func (o NetworkPathOpts) validate() error {
	if o.NetworkType > MaxHardenedValue || o.Network > MaxHardenedValue ||
		o.Contract > MaxHardenedValue || o.Account > MaxHardenedValue ||
		o.Token > MaxHardenedValue || o.Subnet > MaxHardenedValue {
		return ErrInvalidDerivationPath
	}
	if o.Index >= HardenedKeyStart {
		return ErrInvalidDerivationPath
	}
	return nil
}

// NetworkPath builds the 8-segment network-scoped derivation path
// purpose'/coinType'/network'/contract'/account'/token'/subnet'/index.
// The segment groups and their order are a protocol constant; only the leaf
// index is non-hardened.
func NetworkPath(opts NetworkPathOpts) (DerivationPath, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	coinType := opts.NetworkType

	basePath := DerivationPath{
		HardenedKeyStart | PurposeIndex,
		HardenedKeyStart | coinType,
		HardenedKeyStart | opts.Network,
	}
	contractPath := DerivationPath{
		HardenedKeyStart | opts.Contract,
		HardenedKeyStart | opts.Account,
	}
	optionalPath := DerivationPath{
		HardenedKeyStart | opts.Token,
		HardenedKeyStart | opts.Subnet,
	}
	finalPath := DerivationPath{opts.Index}

	path := make(DerivationPath, 0, 8)
	path = append(path, basePath...)
	path = append(path, contractPath...)
	path = append(path, optionalPath...)
	path = append(path, finalPath...)
	return path, nil
}

// NetworkAccount is the result of deriving a network-scoped account.
type NetworkAccount struct {
	ExtendedKey     *ExtendedKey
	PublicKey       []byte
	Address         string
	Path            DerivationPath
	NetworkTypeName string
}

// DeriveForNetwork derives the key, address and path of a network-scoped
// account of this wallet.
func (w *Wallet) DeriveForNetwork(opts NetworkPathOpts) (*NetworkAccount, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}

	path, err := NetworkPath(opts)
	if err != nil {
		return nil, err
	}

	derived, err := w.master.Derive(path)
	if err != nil {
		return nil, err
	}

	pubkey := derived.PublicKey()
	address, err := NewAddress(pubkey)
	if err != nil {
		return nil, err
	}

	return &NetworkAccount{
		ExtendedKey:     derived,
		PublicKey:       pubkey,
		Address:         address,
		Path:            path,
		NetworkTypeName: networkTypeName(opts.NetworkType),
	}, nil
}

func networkTypeName(networkType uint32) string {
	switch networkType {
	case 0:
		return "MainCoin"
	case 1:
		return fmt.Sprintf("SubCoin %d", networkType)
	case 2:
		return fmt.Sprintf("Contract %d", networkType)
	case 3:
		return fmt.Sprintf("Subnet %d", networkType)
	case 4:
		return fmt.Sprintf("Account %d", networkType)
	default:
		return fmt.Sprintf("Unknown %d", networkType)
	}
}
