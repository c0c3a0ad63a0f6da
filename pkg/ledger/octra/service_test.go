package octra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octra-network/octra-daemon/pkg/ledger"
	"github.com/octra-network/octra-daemon/pkg/wallet"
)

const testAddress = "octCRus1yKzZbQoABuUhWQzcps8KhdqqQWxPzGciLgY698h"

func newTestService(t *testing.T, handler http.HandlerFunc) ledger.Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	service, err := NewService(server.URL, 1000)
	require.NoError(t, err)
	return service
}

func TestGetAccount(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/balance/"+testAddress, r.URL.Path)
		w.Write([]byte(`{"balance":"12.5","nonce":7}`))
	})

	account, err := service.GetAccount(context.Background(), testAddress)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, uint64(7), account.Nonce)
}

func TestGetAccountNotFound(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := service.GetAccount(context.Background(), testAddress)
	assert.Equal(t, ledger.ErrAccountNotFound, err)
}

func TestGetAccountPlainText(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("3.25 42\n"))
	})

	account, err := service.GetAccount(context.Background(), testAddress)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("3.25")))
	assert.Equal(t, uint64(42), account.Nonce)
}

func TestGetAccountMalformedPlainText(t *testing.T) {
	bodies := []string{"hello world", "3.25", "abc def"}
	for _, body := range bodies {
		body := body
		service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})

		_, err := service.GetAccount(context.Background(), testAddress)
		assert.Equal(t, ledger.ErrMalformedResponse, err, body)
	}
}

func TestGetStaged(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/staging", r.URL.Path)
		w.Write([]byte(`{"staged_transactions":[
			{"hash":"aa","from":"` + testAddress + `","to":"octxyz","amount":"1000000","nonce":8},
			{"hash":"bb","from":"octother","to":"octxyz","amount":"2000000","nonce":"3"}
		]}`))
	})

	staged, err := service.GetStaged(context.Background())
	require.NoError(t, err)
	require.Len(t, staged, 2)
	assert.Equal(t, testAddress, staged[0].From)
	assert.Equal(t, uint64(8), staged[0].Nonce)
	assert.Equal(t, uint64(3), staged[1].Nonce)
}

func TestGetStagedFailureReadsAsEmpty(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	staged, err := service.GetStaged(context.Background())
	require.NoError(t, err)
	assert.Empty(t, staged)
}

func TestGetTransactionRefs(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/address/"+testAddress, r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"recent_transactions":[{"hash":"aa","epoch":12},{"hash":"bb","epoch":13}]}`))
	})

	refs, err := service.GetTransactionRefs(context.Background(), testAddress, 20)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "aa", refs[0].Hash)
	assert.Equal(t, uint64(12), refs[0].Epoch)
}

func TestGetTransactionRefsNoTransactions(t *testing.T) {
	handlers := []http.HandlerFunc{
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("No transactions for this address"))
		},
	}
	for _, handler := range handlers {
		service := newTestService(t, handler)
		_, err := service.GetTransactionRefs(context.Background(), testAddress, 20)
		assert.Equal(t, ledger.ErrNoTransactions, err)
	}
}

func TestGetTransaction(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tx/aa", r.URL.Path)
		w.Write([]byte(`{"parsed_tx":{
			"from":"octother","to":"` + testAddress + `",
			"amount_raw":"1500000","nonce":4,"timestamp":1700000000.5
		}}`))
	})

	tx, err := service.GetTransaction(context.Background(), "aa")
	require.NoError(t, err)
	assert.Equal(t, "aa", tx.Hash)
	// integer amounts on the wire count micro-units
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, uint64(4), tx.Nonce)
	assert.Equal(t, 1700000000.5, tx.Timestamp)
}

func TestBroadcast(t *testing.T) {
	tests := []struct {
		name     string
		response string
		accepted bool
		txHash   string
	}{
		{
			name:     "json accepted",
			response: `{"status":"accepted","tx_hash":"deadbeef"}`,
			accepted: true,
			txHash:   "deadbeef",
		},
		{
			name:     "plain ok with hash",
			response: "OK deadbeef",
			accepted: true,
			txHash:   "deadbeef",
		},
		{
			name:     "rejected",
			response: `{"status":"rejected","reason":"bad nonce"}`,
			accepted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/send-tx", r.URL.Path)
				assert.Equal(t, http.MethodPost, r.Method)
				w.Write([]byte(tt.response))
			})

			tx, err := wallet.NewTransaction(wallet.NewTransactionOpts{
				From:      testAddress,
				To:        "oct8tx8GhDtT7asbpwQgAuWfKDL7KDWZebdmNmPXqWeLMj",
				Amount:    "1",
				Nonce:     1,
				Timestamp: 1700000000.5,
			})
			require.NoError(t, err)

			result, err := service.Broadcast(context.Background(), tx)
			require.NoError(t, err)
			assert.Equal(t, tt.accepted, result.Accepted)
			if tt.txHash != "" {
				assert.Equal(t, tt.txHash, result.TxHash)
			}
		})
	}
}

func TestBroadcastTransportFailure(t *testing.T) {
	service, err := NewService("http://127.0.0.1:1", 100)
	require.NoError(t, err)

	tx, err := wallet.NewTransaction(wallet.NewTransactionOpts{
		From:   testAddress,
		To:     "oct8tx8GhDtT7asbpwQgAuWfKDL7KDWZebdmNmPXqWeLMj",
		Amount: "1",
		Nonce:  1,
	})
	require.NoError(t, err)

	result, err := service.Broadcast(context.Background(), tx)
	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.NotEmpty(t, result.Error)
}
