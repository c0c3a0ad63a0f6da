package walletservice

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/shopspring/decimal"

	"github.com/octra-network/octra-daemon/pkg/ledger"
)

// GetStatus returns the account's balance and next-usable nonce, serving
// the cached copy while it is fresh unless force is set. The nonce is
// reconciled against the wallet's own staged transactions so that rapid
// consecutive spends never reuse a nonce the pool already holds.
func (s *Service) GetStatus(ctx context.Context, force bool) (*Status, error) {
	s.lock.Lock()
	if !force && s.statusFresh() {
		status := s.cachedStatus()
		s.lock.Unlock()
		return status, nil
	}
	s.lock.Unlock()

	var (
		account *ledger.Account
		staged  []ledger.StagedTransaction
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		res, err := s.node.GetAccount(egCtx, s.address)
		if err != nil && !errors.Is(err, ledger.ErrAccountNotFound) {
			return err
		}
		account = res
		return nil
	})
	eg.Go(func() error {
		res, err := s.node.GetStaged(egCtx)
		if err != nil {
			log.WithError(err).Debug("staging pool unavailable, assuming empty")
			return nil
		}
		staged = res
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// an unknown account reads as balance 0, nonce 0
	balance := decimal.Zero
	var nonce uint64
	if account != nil {
		balance = account.Balance
		nonce = account.Nonce
	}

	ownStaged := 0
	for _, tx := range staged {
		if tx.From != s.address {
			continue
		}
		ownStaged++
		if tx.Nonce > nonce {
			nonce = tx.Nonce
		}
	}

	s.lock.Lock()
	s.cachedBalance = balance
	s.cachedNonce = nonce
	s.cachedStaged = ownStaged
	s.lastStatusUpdate = s.now()
	status := s.cachedStatus()
	s.lock.Unlock()

	return status, nil
}

// GetPending returns the wallet's own transactions still sitting in the
// staging pool. A pool failure reads as an empty pool.
func (s *Service) GetPending(ctx context.Context) ([]ledger.StagedTransaction, error) {
	staged, err := s.node.GetStaged(ctx)
	if err != nil {
		log.WithError(err).Debug("staging pool unavailable, assuming empty")
		return []ledger.StagedTransaction{}, nil
	}

	own := make([]ledger.StagedTransaction, 0, len(staged))
	for _, tx := range staged {
		if tx.From == s.address {
			own = append(own, tx)
		}
	}
	return own, nil
}

// callers must hold s.lock
func (s *Service) statusFresh() bool {
	return !s.lastStatusUpdate.IsZero() &&
		s.now().Sub(s.lastStatusUpdate) < s.statusCacheTTL
}

// callers must hold s.lock
func (s *Service) cachedStatus() *Status {
	return &Status{
		Address: s.address,
		Balance: s.cachedBalance,
		Nonce:   s.cachedNonce,
		Staged:  s.cachedStaged,
	}
}

// callers must hold s.lock
func (s *Service) invalidateStatus() {
	s.lastStatusUpdate = time.Time{}
}
