package ledger

import (
	"context"
	"errors"
	"os"

	"github.com/shopspring/decimal"

	"github.com/octra-network/octra-daemon/pkg/wallet"
)

var (
	// ErrAccountNotFound is returned when the ledger does not know the address
	// yet; callers treat it as a zero balance and nonce.
	ErrAccountNotFound = errors.New("account not found")
	// ErrMalformedResponse is returned when the ledger answered with a body
	// that cannot be parsed into the expected shape.
	ErrMalformedResponse = errors.New("malformed ledger response")
	// ErrNoTransactions is returned when the ledger reports an empty history
	// for the address.
	ErrNoTransactions = errors.New("no transactions")
)

// Account is the on-ledger state of an address: spendable balance in whole
// units and the last used nonce.
type Account struct {
	Balance decimal.Decimal
	Nonce   uint64
}

// StagedTransaction is an entry of the ledger's pool of not-yet-finalized
// transactions.
type StagedTransaction struct {
	Hash   string `json:"hash,omitempty"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount,omitempty"`
	Nonce  uint64 `json:"nonce"`
}

// TransactionRef points at a confirmed transaction of an address.
type TransactionRef struct {
	Hash  string
	Epoch uint64
}

// Transaction is the parsed detail of a confirmed transaction. The amount is
// expressed in whole units whatever encoding the ledger used on the wire.
type Transaction struct {
	Hash      string
	From      string
	To        string
	Amount    decimal.Decimal
	Nonce     uint64
	Timestamp float64
}

// BroadcastResult is the outcome of submitting a signed transaction. A
// rejection by the ledger is represented here, not as an error: errors are
// reserved for requests that could not be attempted at all.
type BroadcastResult struct {
	Accepted bool
	TxHash   string
	Error    string
	PoolInfo map[string]interface{}
}

// Service is the representation of a remote ledger that allows to query
// account state, the staging pool and confirmed history, and to broadcast
// signed transactions.
type Service interface {
	// GetAccount fetches balance and nonce of the given address.
	GetAccount(ctx context.Context, address string) (*Account, error)
	// GetStaged fetches the pool of not-yet-finalized transactions.
	GetStaged(ctx context.Context) ([]StagedTransaction, error)
	// GetTransactionRefs fetches up to limit references to the most recent
	// confirmed transactions of the address.
	GetTransactionRefs(ctx context.Context, address string, limit int) ([]TransactionRef, error)
	// GetTransaction fetches the detail of the tx identified by its hash.
	GetTransaction(ctx context.Context, txid string) (*Transaction, error)
	// Broadcast submits a signed transaction to the ledger.
	Broadcast(ctx context.Context, tx *wallet.Transaction) (*BroadcastResult, error)
}

// CallResult is the classified outcome of one ledger call: a timeout or
// transport failure maps to status 0, everything else keeps the real HTTP
// status with the raw body.
type CallResult struct {
	Status int
	Body   string
	Err    string
}

// ClassifyCall folds the (status, body, err) triple of an HTTP roundtrip
// into a CallResult.
func ClassifyCall(status int, body string, err error) CallResult {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			return CallResult{Status: 0, Err: "timeout"}
		}
		return CallResult{Status: 0, Err: err.Error()}
	}
	return CallResult{Status: status, Body: body}
}
