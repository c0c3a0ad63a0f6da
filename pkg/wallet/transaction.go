package wallet

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/rand"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/octra-network/octra-daemon/pkg/mathutil"
)

// MicroUnitsPerUnit is the number of micro-units making up one whole unit.
const MicroUnitsPerUnit = 1000000

// ErrSignatureVerification ...
var ErrSignatureVerification = errors.New("transaction signature verification failed")

// feeTierThreshold is the whole-unit amount from which the higher fee tier
// applies.
var feeTierThreshold = decimal.NewFromInt(1000)

var amountRegexp = regexp.MustCompile(`^\d+(\.\d+)?$`)

// Transaction is the canonical wire record of a transfer. The struct field
// order is the serialization order and must not change: the bytes hashed and
// signed are the JSON encoding of the first six fields, and any reordering
// changes the hash. Signature and public key are attached only after hashing.
type Transaction struct {
	From      string  `json:"from"`
	To        string  `json:"to_"`
	Amount    string  `json:"amount"`
	Nonce     uint64  `json:"nonce"`
	Ou        string  `json:"ou"`
	Timestamp float64 `json:"timestamp"`
	Signature string  `json:"signature,omitempty"`
	PublicKey string  `json:"public_key,omitempty"`
}

// NewTransactionOpts is the struct given to the NewTransaction method
type NewTransactionOpts struct {
	From   string
	To     string
	Amount string
	Nonce  uint64
	// Timestamp overrides the jittered wall clock when non-zero.
	Timestamp float64
}

func (o NewTransactionOpts) validate() error {
	if !IsValidAddressFormat(o.From) || !IsValidAddressFormat(o.To) {
		return ErrInvalidAddress
	}
	if _, err := ParseAmount(o.Amount); err != nil {
		return err
	}
	return nil
}

// NewTransaction assembles an unsigned transaction. The amount is converted
// to an integer count of micro-units serialized as a decimal string, the fee
// tier is picked by the 1000-unit threshold and the timestamp gets a random
// sub-10ms jitter to keep rapid consecutive transactions distinguishable.
func NewTransaction(opts NewTransactionOpts) (*Transaction, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	amount, _ := ParseAmount(opts.Amount)
	microAmount := mathutil.ToMicro(amount)

	feeTier := "1"
	if amount.Cmp(feeTierThreshold) >= 0 {
		feeTier = "3"
	}

	timestamp := opts.Timestamp
	if timestamp == 0 {
		timestamp = float64(time.Now().UnixNano())/1e9 + rand.Float64()*0.01
	}

	return &Transaction{
		From:      opts.From,
		To:        opts.To,
		Amount:    strconv.FormatInt(microAmount, 10),
		Nonce:     opts.Nonce,
		Ou:        feeTier,
		Timestamp: timestamp,
	}, nil
}

// ParseAmount parses a whole-unit decimal amount string, failing with
// ErrInvalidAmount on malformed or non-positive values.
func ParseAmount(amount string) (decimal.Decimal, error) {
	if !amountRegexp.MatchString(amount) {
		return decimal.Zero, ErrInvalidAmount
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil || parsed.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return parsed, nil
}

// CanonicalBytes returns the byte sequence that gets hashed and signed: the
// JSON encoding of the transaction without signature and public key, with no
// insignificant whitespace.
func (t *Transaction) CanonicalBytes() ([]byte, error) {
	unsigned := *t
	unsigned.Signature = ""
	unsigned.PublicKey = ""
	return json.Marshal(&unsigned)
}

// Hash returns the hex encoded SHA-256 of the canonical bytes.
func (t *Transaction) Hash() (string, error) {
	canonical, err := t.CanonicalBytes()
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(canonical)
	return hex.EncodeToString(hash[:]), nil
}

// SignTransaction assembles and signs a transaction with the wallet's master
// key, returning the signed transaction and its hash.
func (w *Wallet) SignTransaction(opts NewTransactionOpts) (*Transaction, string, error) {
	prvkey, _, err := w.Keypair()
	if err != nil {
		return nil, "", err
	}

	tx, err := NewTransaction(opts)
	if err != nil {
		return nil, "", err
	}
	hash, err := tx.Sign(prvkey)
	if err != nil {
		return nil, "", err
	}
	return tx, hash, nil
}

// Sign signs the canonical bytes with the given key, attaches the base64
// signature and public key to the transaction and returns its hash. The hash
// is always computed over the unsigned envelope.
func (t *Transaction) Sign(prvkey ed25519.PrivateKey) (string, error) {
	if len(prvkey) != ed25519.PrivateKeySize {
		return "", ErrNullPrivateKey
	}

	canonical, err := t.CanonicalBytes()
	if err != nil {
		return "", err
	}

	signature := ed25519.Sign(prvkey, canonical)
	pubkey := prvkey.Public().(ed25519.PublicKey)
	if !ed25519.Verify(pubkey, canonical, signature) {
		return "", ErrSignatureVerification
	}

	t.Signature = base64.StdEncoding.EncodeToString(signature)
	t.PublicKey = base64.StdEncoding.EncodeToString(pubkey)

	hash := sha256.Sum256(canonical)
	return hex.EncodeToString(hash[:]), nil
}
