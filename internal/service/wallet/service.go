package walletservice

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/octra-network/octra-daemon/pkg/circuitbreaker"
	"github.com/octra-network/octra-daemon/pkg/ledger"
	"github.com/sony/gobreaker"
)

var (
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("address is not a valid oct address")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrNonceUnavailable ...
	ErrNonceUnavailable = errors.New("nonce could not be determined, node unreachable")
	// ErrNoRecipients ...
	ErrNoRecipients = errors.New("recipient list must not be empty")
)

// addressRegexp is the strict form enforced before spending. The looser
// structural check in pkg/wallet is used for display purposes only.
var addressRegexp = regexp.MustCompile(`^oct[1-9A-HJ-NP-Za-km-z]{44}$`)

const (
	defaultStatusCacheTTL  = 30 * time.Second
	defaultHistoryCacheTTL = 60 * time.Second
	defaultHistoryLimit    = 20
	defaultBatchSize       = 5
	historyMergeWindow     = time.Hour
	historyMaxEntries      = 50
)

// InsufficientBalanceError reports a spend attempt that exceeds the
// confirmed balance, with the exact shortfall in whole units.
type InsufficientBalanceError struct {
	Balance   decimal.Decimal
	Required  decimal.Decimal
	Shortfall decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"insufficient balance: have %s, need %s, short %s",
		e.Balance.String(), e.Required.String(), e.Shortfall.String(),
	)
}

// HistoryEntry is one row of the merged local view of the account history.
// Unconfirmed entries are appended locally right after a broadcast and age
// out of the merge window as the node starts reporting them.
type HistoryEntry struct {
	Time      time.Time       `json:"time"`
	Hash      string          `json:"hash"`
	Amount    decimal.Decimal `json:"amount"`
	To        string          `json:"to,omitempty"`
	From      string          `json:"from,omitempty"`
	Outgoing  bool            `json:"outgoing"`
	Nonce     uint64          `json:"nonce"`
	Epoch     uint64          `json:"epoch,omitempty"`
	Confirmed bool            `json:"confirmed"`
}

// Status is the cached (balance, nonce) view of the account.
type Status struct {
	Address string          `json:"address"`
	Balance decimal.Decimal `json:"balance"`
	Nonce   uint64          `json:"nonce"`
	Staged  int             `json:"staged"`
}

// SendResult reports the outcome of a single submission.
type SendResult struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
	Nonce  uint64 `json:"nonce"`
	Hash   string `json:"hash,omitempty"`
	Ok     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// ServiceOpts is the struct given to the Service constructor.
type ServiceOpts struct {
	PrivateKey ed25519.PrivateKey
	Address    string
	Ledger     ledger.Service

	StatusCacheTTL  time.Duration
	HistoryCacheTTL time.Duration
	HistoryLimit    int
	BatchSize       int
	BroadcastLimit  rate.Limit
	BroadcastBurst  int
}

func (o ServiceOpts) validate() error {
	if len(o.PrivateKey) != ed25519.PrivateKeySize {
		return errors.New("private key must be a 64-byte ed25519 key")
	}
	if !addressRegexp.MatchString(o.Address) {
		return ErrInvalidAddress
	}
	if o.Ledger == nil {
		return errors.New("ledger service must not be null")
	}
	return nil
}

// Service coordinates signing, nonce management and cached ledger access
// for a single wallet identity.
type Service struct {
	prvkey  ed25519.PrivateKey
	pubkey  ed25519.PublicKey
	address string
	node    ledger.Service
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter

	statusCacheTTL  time.Duration
	historyCacheTTL time.Duration
	historyLimit    int
	batchSize       int

	lock              sync.Mutex
	cachedBalance     decimal.Decimal
	cachedNonce       uint64
	cachedStaged      int
	lastStatusUpdate  time.Time
	history           []HistoryEntry
	lastHistoryUpdate time.Time

	now func() time.Time
}

// NewService returns a Service after validating its opts. Zero-valued
// tuning knobs fall back to their defaults.
func NewService(opts ServiceOpts) (*Service, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	statusTTL := opts.StatusCacheTTL
	if statusTTL <= 0 {
		statusTTL = defaultStatusCacheTTL
	}
	historyTTL := opts.HistoryCacheTTL
	if historyTTL <= 0 {
		historyTTL = defaultHistoryCacheTTL
	}
	historyLimit := opts.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	broadcastLimit := opts.BroadcastLimit
	if broadcastLimit <= 0 {
		broadcastLimit = rate.Inf
	}
	broadcastBurst := opts.BroadcastBurst
	if broadcastBurst <= 0 {
		broadcastBurst = 1
	}

	return &Service{
		prvkey:          opts.PrivateKey,
		pubkey:          opts.PrivateKey.Public().(ed25519.PublicKey),
		address:         opts.Address,
		node:            opts.Ledger,
		breaker:         circuitbreaker.NewCircuitBreaker(),
		limiter:         rate.NewLimiter(broadcastLimit, broadcastBurst),
		statusCacheTTL:  statusTTL,
		historyCacheTTL: historyTTL,
		historyLimit:    historyLimit,
		batchSize:       batchSize,
		now:             time.Now,
	}, nil
}

// Address returns the wallet's own address.
func (s *Service) Address() string {
	return s.address
}

// PublicKey returns the wallet's signing public key.
func (s *Service) PublicKey() ed25519.PublicKey {
	return s.pubkey
}

// IsValidAddress reports whether addr matches the strict address form
// required for spending.
func IsValidAddress(addr string) bool {
	return addressRegexp.MatchString(addr)
}
