package octra

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/octra-network/octra-daemon/pkg/ledger"
	"github.com/octra-network/octra-daemon/pkg/mathutil"
)

// The node is not strict about numeric encodings: balances, nonces and
// amounts come back either as JSON numbers or as quoted strings depending on
// the version. Every numeric field is decoded as interface{} and coerced.

type accountPayload struct {
	Balance interface{} `json:"balance"`
	Nonce   interface{} `json:"nonce"`
}

type stagingPayload struct {
	StagedTransactions []stagedTxPayload `json:"staged_transactions"`
}

type stagedTxPayload struct {
	Hash   string      `json:"hash"`
	From   string      `json:"from"`
	To     string      `json:"to"`
	Amount interface{} `json:"amount"`
	Nonce  interface{} `json:"nonce"`
}

func (p stagedTxPayload) toStagedTransaction() ledger.StagedTransaction {
	nonce, _ := toUint64(p.Nonce)
	return ledger.StagedTransaction{
		Hash:   p.Hash,
		From:   p.From,
		To:     p.To,
		Amount: toString(p.Amount),
		Nonce:  nonce,
	}
}

type historyPayload struct {
	RecentTransactions []txRefPayload `json:"recent_transactions"`
}

type txRefPayload struct {
	Hash  string      `json:"hash"`
	Epoch interface{} `json:"epoch"`
}

type txDetailPayload struct {
	ParsedTx *parsedTxPayload `json:"parsed_tx"`
}

type parsedTxPayload struct {
	From      string      `json:"from"`
	To        string      `json:"to"`
	Amount    interface{} `json:"amount"`
	AmountRaw interface{} `json:"amount_raw"`
	Nonce     interface{} `json:"nonce"`
	Timestamp interface{} `json:"timestamp"`
}

type broadcastPayload struct {
	Status   string                 `json:"status"`
	TxHash   string                 `json:"tx_hash"`
	PoolInfo map[string]interface{} `json:"pool_info"`
}

func parseAccountPayload(payload accountPayload) (*ledger.Account, error) {
	balance, ok := toDecimal(payload.Balance)
	if !ok {
		return nil, ledger.ErrMalformedResponse
	}
	nonce, ok := toUint64(payload.Nonce)
	if !ok {
		return nil, ledger.ErrMalformedResponse
	}
	return &ledger.Account{Balance: balance, Nonce: nonce}, nil
}

func parsePlainAccount(body string) (*ledger.Account, error) {
	parts := strings.Fields(strings.TrimSpace(body))
	if len(parts) < 2 {
		return nil, ledger.ErrMalformedResponse
	}
	balance, err := decimal.NewFromString(parts[0])
	if err != nil {
		return nil, ledger.ErrMalformedResponse
	}
	nonce, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, ledger.ErrMalformedResponse
	}
	return &ledger.Account{Balance: balance, Nonce: nonce}, nil
}

// parseTxAmount converts the amount of a confirmed transaction to whole
// units: a value with a decimal point is already expressed in whole units,
// a bare integer counts micro-units.
func parseTxAmount(payload *parsedTxPayload) decimal.Decimal {
	raw := payload.AmountRaw
	if raw == nil {
		raw = payload.Amount
	}
	str := toString(raw)
	if str == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero
	}
	if strings.Contains(str, ".") {
		return amount
	}
	return mathutil.FromMicro(amount.IntPart())
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch value := v.(type) {
	case float64:
		return decimal.NewFromFloat(value), true
	case string:
		parsed, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, false
		}
		return parsed, true
	default:
		return decimal.Zero, false
	}
}

func toUint64(v interface{}) (uint64, bool) {
	switch value := v.(type) {
	case float64:
		if value < 0 {
			return 0, false
		}
		return uint64(value), true
	case string:
		parsed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func toFloat64(v interface{}) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case string:
		parsed, _ := strconv.ParseFloat(value, 64)
		return parsed
	default:
		return 0
	}
}

func toString(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return decimal.NewFromFloat(value).String()
	default:
		return ""
	}
}
