package walletservice

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/octra-network/octra-daemon/pkg/mathutil"
	"github.com/octra-network/octra-daemon/pkg/wallet"
)

// Recipient is one (address, amount) pair of a multi-send.
type Recipient struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// SendManyResult aggregates the per-recipient outcomes of a multi-send.
type SendManyResult struct {
	Total    int          `json:"total"`
	Accepted int          `json:"accepted"`
	Failed   int          `json:"failed"`
	Results  []SendResult `json:"results"`
}

// SendMany submits one transfer per recipient in fixed-size concurrent
// batches. All recipients are validated and the total is checked against
// the balance before anything is signed, so a bad entry fails the whole
// request instead of a prefix of it going through. Nonces are assigned
// up front from the refreshed base, one per recipient in order, and a
// rejected transaction does not stop the remaining ones.
func (s *Service) SendMany(ctx context.Context, recipients []Recipient) (*SendManyResult, error) {
	if len(recipients) <= 0 {
		return nil, ErrNoRecipients
	}

	amounts := make([]decimal.Decimal, len(recipients))
	for i, r := range recipients {
		if !addressRegexp.MatchString(r.To) {
			return nil, fmt.Errorf("recipient %d: %w", i, ErrInvalidAddress)
		}
		parsedAmount, err := wallet.ParseAmount(r.Amount)
		if err != nil {
			return nil, fmt.Errorf("recipient %d: %w", i, ErrInvalidAmount)
		}
		amounts[i] = parsedAmount
	}
	total := mathutil.SumDecimal(amounts...)

	status, err := s.GetStatus(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNonceUnavailable, err)
	}
	if status.Balance.LessThan(total) {
		return nil, &InsufficientBalanceError{
			Balance:   status.Balance,
			Required:  total,
			Shortfall: total.Sub(status.Balance),
		}
	}

	opID := uuid.New().String()
	baseNonce := status.Nonce
	results := make([]SendResult, len(recipients))

	for start := 0; start < len(recipients); start += s.batchSize {
		end := start + s.batchSize
		if end > len(recipients) {
			end = len(recipients)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				nonce := baseNonce + 1 + uint64(idx)
				results[idx] = *s.signAndBroadcast(
					ctx, recipients[idx].To, recipients[idx].Amount, nonce,
				)
			}(i)
		}
		wg.Wait()

		log.WithFields(log.Fields{
			"op":    opID,
			"batch": start / s.batchSize,
			"sent":  end - start,
		}).Debug("batch dispatched")
	}

	aggregate := &SendManyResult{Total: len(recipients), Results: results}
	for i := range results {
		if results[i].Ok {
			aggregate.Accepted++
			s.recordSpend(&results[i], amounts[i])
		} else {
			aggregate.Failed++
		}
	}

	log.WithFields(log.Fields{
		"op":       opID,
		"total":    aggregate.Total,
		"accepted": aggregate.Accepted,
		"failed":   aggregate.Failed,
	}).Debug("multi-send completed")

	return aggregate, nil
}
