package rest

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
		assert.Equal(t, "/v1/account/"+testAddress, r.URL.Path)
		w.Write([]byte(`{"balance":12500000,"nonce":7}`))
	})

	account, err := service.GetAccount(context.Background(), testAddress)
	require.NoError(t, err)
	// micro-units on the wire
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

func TestGetStagedIsAlwaysEmpty(t *testing.T) {
	service, err := NewService("http://localhost", 1000)
	require.NoError(t, err)

	staged, err := service.GetStaged(context.Background())
	require.NoError(t, err)
	assert.Empty(t, staged)
}

func TestGetTransactionRefsAndDetails(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/account/"+testAddress+"/transactions", r.URL.Path)
		w.Write([]byte(`{"transactions":[
			{"hash":"aa","from":"octother","to":"` + testAddress + `",
			 "amount":1500000,"nonce":4,"timestamp":1700000000.5,"epoch":12}
		]}`))
	})

	refs, err := service.GetTransactionRefs(context.Background(), testAddress, 20)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "aa", refs[0].Hash)

	tx, err := service.GetTransaction(context.Background(), "aa")
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, uint64(4), tx.Nonce)
}

func TestGetTransactionRefsNoTransactions(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transactions":[]}`))
	})

	_, err := service.GetTransactionRefs(context.Background(), testAddress, 20)
	assert.Equal(t, ledger.ErrNoTransactions, err)
}

func TestBroadcast(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transactions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"hash":"deadbeef"}`))
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
	assert.True(t, result.Accepted)
	assert.Equal(t, "deadbeef", result.TxHash)
}

func TestBroadcastRejected(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad nonce"}`, http.StatusBadRequest)
	})

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
	assert.Contains(t, result.Error, "bad nonce")
}
