package octra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/octra-network/octra-daemon/pkg/httputil"
	"github.com/octra-network/octra-daemon/pkg/ledger"
	"github.com/octra-network/octra-daemon/pkg/wallet"
)

func (o *octra) GetTransactionRefs(
	ctx context.Context, address string, limit int,
) ([]ledger.TransactionRef, error) {
	url := fmt.Sprintf("%s/address/%s?limit=%d", o.apiURL, address, limit)
	ctx, cancel := httputil.WithTimeout(ctx, o.requestTimeout)
	defer cancel()

	res := ledger.ClassifyCall(httputil.NewHTTPRequest(ctx, "GET", url, "", nil))
	if res.Status == 0 {
		return nil, fmt.Errorf("get history: %s", res.Err)
	}
	if res.Status == http.StatusNotFound {
		return nil, ledger.ErrNoTransactions
	}
	if res.Status != http.StatusOK {
		return nil, fmt.Errorf("get history: status %d: %s", res.Status, res.Body)
	}
	if strings.Contains(strings.ToLower(res.Body), "no transactions") {
		return nil, ledger.ErrNoTransactions
	}

	var payload historyPayload
	if err := json.Unmarshal([]byte(res.Body), &payload); err != nil {
		return nil, ledger.ErrMalformedResponse
	}

	refs := make([]ledger.TransactionRef, 0, len(payload.RecentTransactions))
	for _, ref := range payload.RecentTransactions {
		epoch, _ := toUint64(ref.Epoch)
		refs = append(refs, ledger.TransactionRef{Hash: ref.Hash, Epoch: epoch})
	}
	return refs, nil
}

func (o *octra) GetTransaction(ctx context.Context, txid string) (*ledger.Transaction, error) {
	url := fmt.Sprintf("%s/tx/%s", o.apiURL, txid)
	ctx, cancel := httputil.WithTimeout(ctx, o.stagingTimeout)
	defer cancel()

	res := ledger.ClassifyCall(httputil.NewHTTPRequest(ctx, "GET", url, "", nil))
	if res.Status == 0 {
		return nil, fmt.Errorf("get transaction: %s", res.Err)
	}
	if res.Status != http.StatusOK {
		return nil, fmt.Errorf("get transaction: status %d: %s", res.Status, res.Body)
	}

	var payload txDetailPayload
	if err := json.Unmarshal([]byte(res.Body), &payload); err != nil || payload.ParsedTx == nil {
		return nil, ledger.ErrMalformedResponse
	}

	parsed := payload.ParsedTx
	nonce, _ := toUint64(parsed.Nonce)
	return &ledger.Transaction{
		Hash:      txid,
		From:      parsed.From,
		To:        parsed.To,
		Amount:    parseTxAmount(parsed),
		Nonce:     nonce,
		Timestamp: toFloat64(parsed.Timestamp),
	}, nil
}

func (o *octra) Broadcast(
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

	url := fmt.Sprintf("%s/send-tx", o.apiURL)
	ctx, cancel := httputil.WithTimeout(ctx, o.requestTimeout)
	defer cancel()

	res := ledger.ClassifyCall(httputil.NewHTTPRequest(
		ctx, "POST", url, string(body),
		map[string]string{"Content-Type": "application/json"},
	))
	if res.Status != http.StatusOK {
		message := res.Err
		if message == "" {
			message = res.Body
		}
		return &ledger.BroadcastResult{Accepted: false, Error: message}, nil
	}

	var payload broadcastPayload
	if err := json.Unmarshal([]byte(res.Body), &payload); err == nil {
		if payload.Status == "accepted" {
			hash := payload.TxHash
			if hash == "" {
				hash = txHash
			}
			return &ledger.BroadcastResult{
				Accepted: true,
				TxHash:   hash,
				PoolInfo: payload.PoolInfo,
			}, nil
		}
		return &ledger.BroadcastResult{Accepted: false, Error: res.Body}, nil
	}

	// plain text acknowledgements start with "ok", optionally followed by
	// the assigned hash
	if strings.HasPrefix(strings.ToLower(res.Body), "ok") {
		hash := txHash
		if fields := strings.Fields(res.Body); len(fields) > 1 {
			hash = fields[len(fields)-1]
		}
		return &ledger.BroadcastResult{Accepted: true, TxHash: hash}, nil
	}

	return &ledger.BroadcastResult{Accepted: false, Error: res.Body}, nil
}
