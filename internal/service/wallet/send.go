package walletservice

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/octra-network/octra-daemon/pkg/ledger"
	"github.com/octra-network/octra-daemon/pkg/wallet"
)

// SendOne signs and submits a single transfer. The account status is
// force-refreshed right before spending so the nonce reflects both the
// confirmed account and the wallet's own staged transactions.
func (s *Service) SendOne(ctx context.Context, to string, amount string) (*SendResult, error) {
	if !addressRegexp.MatchString(to) {
		return nil, ErrInvalidAddress
	}
	parsedAmount, err := wallet.ParseAmount(amount)
	if err != nil {
		return nil, ErrInvalidAmount
	}

	status, err := s.GetStatus(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNonceUnavailable, err)
	}

	if status.Balance.LessThan(parsedAmount) {
		return nil, &InsufficientBalanceError{
			Balance:   status.Balance,
			Required:  parsedAmount,
			Shortfall: parsedAmount.Sub(status.Balance),
		}
	}

	nonce := status.Nonce + 1
	result := s.signAndBroadcast(ctx, to, amount, nonce)
	if result.Ok {
		s.recordSpend(result, parsedAmount)
	}
	return result, nil
}

// signAndBroadcast builds, signs and submits one transaction. Rejections
// and transport failures are reported in the result, not as errors.
func (s *Service) signAndBroadcast(
	ctx context.Context, to string, amount string, nonce uint64,
) *SendResult {
	result := &SendResult{To: to, Amount: amount, Nonce: nonce}

	tx, err := wallet.NewTransaction(wallet.NewTransactionOpts{
		From:   s.address,
		To:     to,
		Amount: amount,
		Nonce:  nonce,
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if _, err := tx.Sign(s.prvkey); err != nil {
		result.Error = err.Error()
		return result
	}

	if err := s.limiter.Wait(ctx); err != nil {
		result.Error = err.Error()
		return result
	}

	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.node.Broadcast(ctx, tx)
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	broadcast := res.(*ledger.BroadcastResult)
	if !broadcast.Accepted {
		result.Error = broadcast.Error
		return result
	}

	result.Ok = true
	result.Hash = broadcast.TxHash
	log.WithFields(log.Fields{
		"to":    to,
		"nonce": nonce,
		"hash":  broadcast.TxHash,
	}).Debug("transaction accepted")
	return result
}

// recordSpend appends an unconfirmed history entry for an accepted
// submission and drops the status cache so the next read refetches. The
// cached nonce is bumped so back-to-back spends stay sequential even if
// the node is slow to expose the staging pool.
func (s *Service) recordSpend(result *SendResult, amount decimal.Decimal) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.history = append([]HistoryEntry{{
		Time:      s.now().UTC(),
		Hash:      result.Hash,
		Amount:    amount,
		To:        result.To,
		Outgoing:  true,
		Nonce:     result.Nonce,
		Confirmed: false,
	}}, s.history...)
	if len(s.history) > historyMaxEntries {
		s.history = s.history[:historyMaxEntries]
	}

	if result.Nonce > s.cachedNonce {
		s.cachedNonce = result.Nonce
	}
	s.invalidateStatus()
}
