package walletservice

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/octra-network/octra-daemon/pkg/ledger"
)

// GetHistory returns the merged view of recent account activity, newest
// first. Each refresh merges the freshly fetched entries with every cached
// entry younger than an hour that the listing no longer carries: locally
// appended unconfirmed sends until the node starts reporting them, and
// confirmed entries that already aged out of the node's limited listing.
func (s *Service) GetHistory(ctx context.Context, limit int, force bool) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = s.historyLimit
	}

	s.lock.Lock()
	if !force && s.historyFresh() {
		entries := make([]HistoryEntry, len(s.history))
		copy(entries, s.history)
		s.lock.Unlock()
		return entries, nil
	}
	s.lock.Unlock()

	refs, err := s.node.GetTransactionRefs(ctx, s.address, limit)
	if err != nil {
		if errors.Is(err, ledger.ErrNoTransactions) {
			s.lock.Lock()
			s.history = nil
			s.lastHistoryUpdate = s.now()
			s.lock.Unlock()
			return []HistoryEntry{}, nil
		}
		return nil, err
	}

	confirmed := s.fetchDetails(ctx, refs)

	s.lock.Lock()
	defer s.lock.Unlock()

	seen := make(map[string]struct{}, len(confirmed))
	merged := make([]HistoryEntry, 0, len(confirmed)+len(s.history))
	for _, entry := range confirmed {
		seen[entry.Hash] = struct{}{}
		merged = append(merged, entry)
	}
	// keep recent cached entries the listing no longer reports, whether
	// still unconfirmed or confirmed but aged out of the node's window
	cutoff := s.now().Add(-historyMergeWindow)
	for _, entry := range s.history {
		if _, ok := seen[entry.Hash]; ok {
			continue
		}
		if entry.Time.Before(cutoff) {
			continue
		}
		merged = append(merged, entry)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Time.After(merged[j].Time)
	})
	if len(merged) > historyMaxEntries {
		merged = merged[:historyMaxEntries]
	}

	s.history = merged
	s.lastHistoryUpdate = s.now()

	entries := make([]HistoryEntry, len(merged))
	copy(entries, merged)
	return entries, nil
}

// fetchDetails resolves each transaction reference concurrently. A ref
// whose details cannot be fetched is skipped rather than failing the
// whole refresh.
func (s *Service) fetchDetails(ctx context.Context, refs []ledger.TransactionRef) []HistoryEntry {
	chEntries := make(chan HistoryEntry, len(refs))
	var wg sync.WaitGroup

	for i := range refs {
		wg.Add(1)
		go func(ref ledger.TransactionRef) {
			defer wg.Done()
			tx, err := s.node.GetTransaction(ctx, ref.Hash)
			if err != nil {
				log.WithError(err).WithField("hash", ref.Hash).
					Debug("skipping unresolvable transaction")
				return
			}
			chEntries <- s.toHistoryEntry(tx, ref.Epoch)
		}(refs[i])
	}

	wg.Wait()
	close(chEntries)

	entries := make([]HistoryEntry, 0, len(refs))
	for entry := range chEntries {
		entries = append(entries, entry)
	}
	return entries
}

func (s *Service) toHistoryEntry(tx *ledger.Transaction, epoch uint64) HistoryEntry {
	sec := int64(tx.Timestamp)
	nsec := int64((tx.Timestamp - float64(sec)) * 1e9)
	return HistoryEntry{
		Time:      time.Unix(sec, nsec).UTC(),
		Hash:      tx.Hash,
		Amount:    tx.Amount,
		To:        tx.To,
		From:      tx.From,
		Outgoing:  tx.From == s.address,
		Nonce:     tx.Nonce,
		Epoch:     epoch,
		Confirmed: true,
	}
}

// callers must hold s.lock
func (s *Service) historyFresh() bool {
	return !s.lastHistoryUpdate.IsZero() &&
		s.now().Sub(s.lastHistoryUpdate) < s.historyCacheTTL
}
