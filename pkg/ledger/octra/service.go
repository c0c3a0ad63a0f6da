package octra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/octra-network/octra-daemon/pkg/httputil"
	"github.com/octra-network/octra-daemon/pkg/ledger"
)

const defaultStagingTimeout = 5 * time.Second

type octra struct {
	apiURL         string
	requestTimeout time.Duration
	stagingTimeout time.Duration
}

// NewService returns a new client for the native ledger API as a
// ledger.Service interface
func NewService(apiURL string, requestTimeoutMs int) (ledger.Service, error) {
	if len(apiURL) <= 0 {
		return nil, fmt.Errorf("api url must not be null")
	}

	requestTimeout := httputil.DefaultTimeout
	if requestTimeoutMs > 0 {
		requestTimeout = time.Duration(requestTimeoutMs) * time.Millisecond
	}

	return &octra{
		apiURL:         strings.TrimSuffix(apiURL, "/"),
		requestTimeout: requestTimeout,
		stagingTimeout: defaultStagingTimeout,
	}, nil
}

func (o *octra) GetAccount(ctx context.Context, address string) (*ledger.Account, error) {
	url := fmt.Sprintf("%s/balance/%s", o.apiURL, address)
	ctx, cancel := httputil.WithTimeout(ctx, o.requestTimeout)
	defer cancel()

	res := ledger.ClassifyCall(httputil.NewHTTPRequest(ctx, "GET", url, "", nil))
	if res.Status == 0 {
		return nil, fmt.Errorf("get account: %s", res.Err)
	}
	if res.Status == http.StatusNotFound {
		return nil, ledger.ErrAccountNotFound
	}
	if res.Status != http.StatusOK {
		return nil, fmt.Errorf("get account: status %d: %s", res.Status, res.Body)
	}

	var payload accountPayload
	if err := json.Unmarshal([]byte(res.Body), &payload); err == nil {
		return parseAccountPayload(payload)
	}

	// legacy nodes answer with a plain "<balance> <nonce>" body
	return parsePlainAccount(res.Body)
}

func (o *octra) GetStaged(ctx context.Context) ([]ledger.StagedTransaction, error) {
	url := fmt.Sprintf("%s/staging", o.apiURL)
	ctx, cancel := httputil.WithTimeout(ctx, o.stagingTimeout)
	defer cancel()

	res := ledger.ClassifyCall(httputil.NewHTTPRequest(ctx, "GET", url, "", nil))
	if res.Status != http.StatusOK {
		// an unreachable or failing staging pool reads as empty
		return []ledger.StagedTransaction{}, nil
	}

	var payload stagingPayload
	if err := json.Unmarshal([]byte(res.Body), &payload); err != nil {
		return []ledger.StagedTransaction{}, nil
	}

	staged := make([]ledger.StagedTransaction, 0, len(payload.StagedTransactions))
	for _, tx := range payload.StagedTransactions {
		staged = append(staged, tx.toStagedTransaction())
	}
	return staged, nil
}
