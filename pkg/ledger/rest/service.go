package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/octra-network/octra-daemon/pkg/httputil"
	"github.com/octra-network/octra-daemon/pkg/ledger"
	"github.com/octra-network/octra-daemon/pkg/mathutil"
	"github.com/octra-network/octra-daemon/pkg/wallet"
)

// rest talks to ledgers exposing the versioned REST API. Unlike the native
// API this dialect expresses every amount in micro-units, bundles full
// transaction details in the history listing and has no staging surface.
type rest struct {
	apiURL         string
	requestTimeout time.Duration

	lock    sync.RWMutex
	details map[string]*ledger.Transaction
}

// NewService returns a new client for the versioned REST ledger API as a
// ledger.Service interface
func NewService(apiURL string, requestTimeoutMs int) (ledger.Service, error) {
	if len(apiURL) <= 0 {
		return nil, fmt.Errorf("api url must not be null")
	}

	requestTimeout := httputil.DefaultTimeout
	if requestTimeoutMs > 0 {
		requestTimeout = time.Duration(requestTimeoutMs) * time.Millisecond
	}

	return &rest{
		apiURL:         strings.TrimSuffix(apiURL, "/"),
		requestTimeout: requestTimeout,
		details:        map[string]*ledger.Transaction{},
	}, nil
}

func (r *rest) GetAccount(ctx context.Context, address string) (*ledger.Account, error) {
	url := fmt.Sprintf("%s/v1/account/%s", r.apiURL, address)
	ctx, cancel := httputil.WithTimeout(ctx, r.requestTimeout)
	defer cancel()

	res := ledger.ClassifyCall(httputil.NewHTTPRequest(ctx, "GET", url, "", nil))
	if res.Status == 0 {
		return nil, fmt.Errorf("get account: %s", res.Err)
	}
	if res.Status == http.StatusNotFound {
		return nil, ledger.ErrAccountNotFound
	}
	if !is2xx(res.Status) {
		return nil, fmt.Errorf("get account: status %d: %s", res.Status, res.Body)
	}

	var payload accountPayload
	if err := json.Unmarshal([]byte(res.Body), &payload); err != nil {
		return nil, ledger.ErrMalformedResponse
	}

	balance, err := decimal.NewFromString(payload.Balance.String())
	if err != nil {
		return nil, ledger.ErrMalformedResponse
	}

	return &ledger.Account{
		Balance: mathutil.FromMicro(balance.IntPart()),
		Nonce:   payload.Nonce,
	}, nil
}

// GetStaged always reports an empty pool: the REST dialect exposes no
// staging endpoint.
func (r *rest) GetStaged(ctx context.Context) ([]ledger.StagedTransaction, error) {
	return []ledger.StagedTransaction{}, nil
}

func (r *rest) GetTransactionRefs(
	ctx context.Context, address string, limit int,
) ([]ledger.TransactionRef, error) {
	url := fmt.Sprintf("%s/v1/account/%s/transactions?limit=%d", r.apiURL, address, limit)
	ctx, cancel := httputil.WithTimeout(ctx, r.requestTimeout)
	defer cancel()

	res := ledger.ClassifyCall(httputil.NewHTTPRequest(ctx, "GET", url, "", nil))
	if res.Status == 0 {
		return nil, fmt.Errorf("get history: %s", res.Err)
	}
	if res.Status == http.StatusNotFound {
		return nil, ledger.ErrNoTransactions
	}
	if !is2xx(res.Status) {
		return nil, fmt.Errorf("get history: status %d: %s", res.Status, res.Body)
	}

	var payload transactionsPayload
	if err := json.Unmarshal([]byte(res.Body), &payload); err != nil {
		return nil, ledger.ErrMalformedResponse
	}
	if len(payload.Transactions) == 0 {
		return nil, ledger.ErrNoTransactions
	}

	// the listing already carries full details; keep them so that
	// GetTransaction resolves without another roundtrip
	refs := make([]ledger.TransactionRef, 0, len(payload.Transactions))
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, tx := range payload.Transactions {
		detail := tx.toTransaction()
		r.details[detail.Hash] = detail
		refs = append(refs, ledger.TransactionRef{Hash: detail.Hash, Epoch: tx.Epoch})
	}
	return refs, nil
}

func (r *rest) GetTransaction(ctx context.Context, txid string) (*ledger.Transaction, error) {
	r.lock.RLock()
	detail, ok := r.details[txid]
	r.lock.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown transaction %s", txid)
	}
	return detail, nil
}

func (r *rest) Broadcast(
	ctx context.Context, tx *wallet.Transaction,
) (*ledger.BroadcastResult, error) {
	body, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}
	txHash, err := tx.Hash()
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/transactions", r.apiURL)
	ctx, cancel := httputil.WithTimeout(ctx, r.requestTimeout)
	defer cancel()

	res := ledger.ClassifyCall(httputil.NewHTTPRequest(
		ctx, "POST", url, string(body),
		map[string]string{"Content-Type": "application/json"},
	))
	if !is2xx(res.Status) {
		message := res.Err
		if message == "" {
			message = res.Body
		}
		return &ledger.BroadcastResult{Accepted: false, Error: message}, nil
	}

	var payload broadcastPayload
	if err := json.Unmarshal([]byte(res.Body), &payload); err != nil {
		return nil, ledger.ErrMalformedResponse
	}
	hash := payload.Hash
	if hash == "" {
		hash = txHash
	}
	return &ledger.BroadcastResult{Accepted: true, TxHash: hash}, nil
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
