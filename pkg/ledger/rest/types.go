package rest

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/octra-network/octra-daemon/pkg/ledger"
	"github.com/octra-network/octra-daemon/pkg/mathutil"
)

type accountPayload struct {
	Balance json.Number `json:"balance"`
	Nonce   uint64      `json:"nonce"`
}

type transactionsPayload struct {
	Transactions []transactionPayload `json:"transactions"`
}

type transactionPayload struct {
	Hash      string      `json:"hash"`
	From      string      `json:"from"`
	To        string      `json:"to"`
	Amount    json.Number `json:"amount"`
	Nonce     uint64      `json:"nonce"`
	Timestamp float64     `json:"timestamp"`
	Epoch     uint64      `json:"epoch"`
}

func (p transactionPayload) toTransaction() *ledger.Transaction {
	amount, err := decimal.NewFromString(p.Amount.String())
	if err != nil {
		amount = decimal.Zero
	}
	return &ledger.Transaction{
		Hash:      p.Hash,
		From:      p.From,
		To:        p.To,
		Amount:    mathutil.FromMicro(amount.IntPart()),
		Nonce:     p.Nonce,
		Timestamp: p.Timestamp,
	}
}

type broadcastPayload struct {
	Hash string `json:"hash"`
}
