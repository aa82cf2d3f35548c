package copier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mirrortrade/backend/internal/models"
)

// Sentinel errors returned by the engine. API handlers map these to
// HTTP status codes; everything else is treated as a store failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Ledger is the set of ledger-store operations the engine needs within
// a single transaction.
type Ledger interface {
	// TradeForUpdate loads a source trade and row-locks it, serializing
	// fan-out and reconciliation for the same trade id.
	TradeForUpdate(ctx context.Context, id string) (*models.Trade, error)

	// ActiveSubscriptionLinks returns every (subscription, trade account)
	// fan-out target for a signal account: subscriptions in one of the
	// given statuses joined to their links with is_active = true.
	ActiveSubscriptionLinks(ctx context.Context, signalAccountID string, statuses []string) ([]models.SubscriptionLink, error)

	// InsertCopiedTrade creates a copied-trade row. When a row for the
	// same (trade, subscription, trade account) already exists it reports
	// inserted=false and leaves the existing row untouched.
	InsertCopiedTrade(ctx context.Context, c *models.CopiedTrade) (created *models.CopiedTrade, inserted bool, err error)

	CloseTrade(ctx context.Context, id string, closePrice, profit float64, closedAt time.Time) (*models.Trade, error)
	CopiedTradesByTrade(ctx context.Context, tradeID string) ([]models.CopiedTrade, error)
	CloseCopiedTrade(ctx context.Context, id string, profit float64, closedAt time.Time) (*models.CopiedTrade, error)
}

// TxStore runs a function against the ledger inside one transaction.
// A returned error rolls back every write made by the function.
type TxStore interface {
	InTx(ctx context.Context, fn func(Ledger) error) error
}

// Options tunes engine behavior.
type Options struct {
	// CopyTrialSubscriptions extends fan-out eligibility to trial
	// subscriptions. Off by default: only active subscriptions copy.
	CopyTrialSubscriptions bool
}

// Engine implements trade fan-out and reconciliation against a
// transactional ledger store.
type Engine struct {
	store TxStore
	opts  Options
}

func NewEngine(store TxStore, opts Options) *Engine {
	return &Engine{store: store, opts: opts}
}

func (e *Engine) eligibleStatuses() []string {
	statuses := []string{models.SubscriptionStatusActive}
	if e.opts.CopyTrialSubscriptions {
		statuses = append(statuses, models.SubscriptionStatusTrial)
	}
	return statuses
}

// CopyTrade fans a just-persisted source trade out to every eligible
// (subscription, trade account) pair, creating one copied trade per pair
// with the lot size scaled by the subscription multiplier. The whole
// fan-out runs in one transaction; a retry for the same trade id skips
// pairs that already have a copy instead of duplicating them.
func (e *Engine) CopyTrade(ctx context.Context, tradeID string) (*models.Trade, []models.CopiedTrade, error) {
	if tradeID == "" {
		return nil, nil, fmt.Errorf("%w: trade id is required", ErrInvalidInput)
	}

	var (
		trade  *models.Trade
		copies []models.CopiedTrade
	)
	err := e.store.InTx(ctx, func(l Ledger) error {
		t, err := l.TradeForUpdate(ctx, tradeID)
		if err != nil {
			return fmt.Errorf("fetch trade %s: %w", tradeID, err)
		}

		links, err := l.ActiveSubscriptionLinks(ctx, t.SignalAccountID, e.eligibleStatuses())
		if err != nil {
			return fmt.Errorf("fetch subscriptions for account %s: %w", t.SignalAccountID, err)
		}

		// Open time is set to "now", not the source trade's open time:
		// fan-out may run after trade creation and the copies record
		// when they were actually placed.
		now := time.Now().UTC()

		for _, link := range links {
			ct := &models.CopiedTrade{
				TradeID:        t.ID,
				SubscriptionID: link.SubscriptionID,
				TradeAccountID: link.TradeAccountID,
				LotSize:        t.LotSize * link.Multiplier(),
				Status:         t.Status,
				OpenTime:       now,
			}
			created, inserted, err := l.InsertCopiedTrade(ctx, ct)
			if err != nil {
				return fmt.Errorf("create copied trade for subscription %s: %w", link.SubscriptionID, err)
			}
			if !inserted {
				continue
			}
			copies = append(copies, *created)
		}

		trade = t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return trade, copies, nil
}
