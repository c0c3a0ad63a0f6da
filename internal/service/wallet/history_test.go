package walletservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octra-network/octra-daemon/pkg/ledger"
)

func TestGetHistory(t *testing.T) {
	ctx := context.Background()
	node := newFundedLedger("100", 0)
	env := newTestEnv(t, node)
	self := env.service.Address()
	other := testAddress(t, 0x03)

	base := float64(env.clock.Unix())
	node.refs = []ledger.TransactionRef{
		{Hash: "aa", Epoch: 10},
		{Hash: "bb", Epoch: 11},
	}
	node.details = map[string]*ledger.Transaction{
		"aa": {
			Hash: "aa", From: self, To: other,
			Amount: decimal.NewFromInt(5), Nonce: 1, Timestamp: base - 600,
		},
		"bb": {
			Hash: "bb", From: other, To: self,
			Amount: decimal.NewFromInt(3), Nonce: 7, Timestamp: base - 60,
		},
	}

	entries, err := env.service.GetHistory(ctx, 0, false)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// newest first
	assert.Equal(t, "bb", entries[0].Hash)
	assert.False(t, entries[0].Outgoing)
	assert.Equal(t, uint64(11), entries[0].Epoch)
	assert.Equal(t, "aa", entries[1].Hash)
	assert.True(t, entries[1].Outgoing)
	assert.True(t, entries[1].Confirmed)
}

func TestGetHistoryCaching(t *testing.T) {
	ctx := context.Background()
	node := newFundedLedger("100", 0)
	env := newTestEnv(t, node)

	_, err := env.service.GetHistory(ctx, 0, false)
	require.NoError(t, err)

	// a node failure within the TTL goes unnoticed, the cache serves
	node.refsErr = errors.New("connection refused")
	env.advance(30 * time.Second)
	_, err = env.service.GetHistory(ctx, 0, false)
	require.NoError(t, err)

	// after expiry the failure surfaces
	env.advance(31 * time.Second)
	_, err = env.service.GetHistory(ctx, 0, false)
	assert.Error(t, err)
}

func TestGetHistoryNoTransactions(t *testing.T) {
	ctx := context.Background()
	node := newFundedLedger("100", 0)
	node.refsErr = ledger.ErrNoTransactions
	env := newTestEnv(t, node)

	entries, err := env.service.GetHistory(ctx, 0, false)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// the empty answer is cached too
	node.refsErr = errors.New("connection refused")
	entries, err = env.service.GetHistory(ctx, 0, false)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetHistoryMergesUnconfirmed(t *testing.T) {
	ctx := context.Background()
	node := newFundedLedger("100", 0)
	env := newTestEnv(t, node)
	other := testAddress(t, 0x04)

	recent := HistoryEntry{
		Time: env.clock.Add(-10 * time.Minute), Hash: "local-recent",
		Amount: decimal.NewFromInt(1), To: other, Outgoing: true, Nonce: 3,
	}
	stale := HistoryEntry{
		Time: env.clock.Add(-2 * time.Hour), Hash: "local-stale",
		Amount: decimal.NewFromInt(2), To: other, Outgoing: true, Nonce: 2,
	}
	env.service.history = []HistoryEntry{recent, stale}

	node.refs = []ledger.TransactionRef{{Hash: "confirmed", Epoch: 1}}
	node.details = map[string]*ledger.Transaction{
		"confirmed": {
			Hash: "confirmed", From: env.service.Address(), To: other,
			Amount: decimal.NewFromInt(9), Nonce: 1,
			Timestamp: float64(env.clock.Add(-5 * time.Minute).Unix()),
		},
	}

	entries, err := env.service.GetHistory(ctx, 0, true)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "confirmed", entries[0].Hash)
	assert.Equal(t, "local-recent", entries[1].Hash)
}

func TestGetHistoryKeepsRecentConfirmedEntries(t *testing.T) {
	ctx := context.Background()
	node := newFundedLedger("100", 0)
	env := newTestEnv(t, node)
	other := testAddress(t, 0x08)

	// a confirmed entry no longer present in the node's limited listing
	env.service.history = []HistoryEntry{{
		Time: env.clock.Add(-10 * time.Minute), Hash: "aged-out",
		Amount: decimal.NewFromInt(4), To: other, Outgoing: true,
		Nonce: 2, Epoch: 5, Confirmed: true,
	}}

	node.refs = []ledger.TransactionRef{{Hash: "fresh", Epoch: 6}}
	node.details = map[string]*ledger.Transaction{
		"fresh": {
			Hash: "fresh", From: other, To: env.service.Address(),
			Amount: decimal.NewFromInt(1), Nonce: 9,
			Timestamp: float64(env.clock.Unix()),
		},
	}

	entries, err := env.service.GetHistory(ctx, 0, true)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "fresh", entries[0].Hash)
	assert.Equal(t, "aged-out", entries[1].Hash)
	assert.True(t, entries[1].Confirmed)

	// once older than the merge window it ages out of the view too
	env.advance(55 * time.Minute)
	entries, err = env.service.GetHistory(ctx, 0, true)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fresh", entries[0].Hash)
}

func TestGetHistoryDropsLocalEntryOnceConfirmed(t *testing.T) {
	ctx := context.Background()
	node := newFundedLedger("100", 0)
	env := newTestEnv(t, node)
	other := testAddress(t, 0x05)

	env.service.history = []HistoryEntry{{
		Time: env.clock.Add(-time.Minute), Hash: "aa",
		Amount: decimal.NewFromInt(1), To: other, Outgoing: true, Nonce: 4,
	}}

	node.refs = []ledger.TransactionRef{{Hash: "aa", Epoch: 2}}
	node.details = map[string]*ledger.Transaction{
		"aa": {
			Hash: "aa", From: env.service.Address(), To: other,
			Amount: decimal.NewFromInt(1), Nonce: 4,
			Timestamp: float64(env.clock.Unix()),
		},
	}

	entries, err := env.service.GetHistory(ctx, 0, true)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Confirmed)
}

func TestGetHistorySkipsUnresolvableRefs(t *testing.T) {
	ctx := context.Background()
	node := newFundedLedger("100", 0)
	env := newTestEnv(t, node)
	other := testAddress(t, 0x06)

	node.refs = []ledger.TransactionRef{
		{Hash: "known", Epoch: 1},
		{Hash: "unknown", Epoch: 2},
	}
	node.details = map[string]*ledger.Transaction{
		"known": {
			Hash: "known", From: other, To: env.service.Address(),
			Amount: decimal.NewFromInt(1), Nonce: 1,
			Timestamp: float64(env.clock.Unix()),
		},
	}

	entries, err := env.service.GetHistory(ctx, 0, true)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "known", entries[0].Hash)
}

func TestGetHistoryTruncates(t *testing.T) {
	ctx := context.Background()
	node := newFundedLedger("100", 0)
	env := newTestEnv(t, node)
	other := testAddress(t, 0x07)

	node.details = map[string]*ledger.Transaction{}
	for i := 0; i < historyMaxEntries+10; i++ {
		hash := string(rune('a'+i%26)) + string(rune('a'+i/26))
		node.refs = append(node.refs, ledger.TransactionRef{Hash: hash, Epoch: uint64(i)})
		node.details[hash] = &ledger.Transaction{
			Hash: hash, From: other, To: env.service.Address(),
			Amount: decimal.NewFromInt(1), Nonce: uint64(i),
			Timestamp: float64(env.clock.Unix()) - float64(i),
		}
	}

	entries, err := env.service.GetHistory(ctx, len(node.refs), true)
	require.NoError(t, err)
	assert.Len(t, entries, historyMaxEntries)
}
