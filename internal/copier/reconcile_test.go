package copier

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/mirrortrade/backend/internal/models"
)

// Close-path methods of mockLedger (fan-out methods live in engine_test.go).

func (m *mockLedger) CloseTrade(_ context.Context, id string, closePrice, profit float64, closedAt time.Time) (*models.Trade, error) {
	t, ok := m.trades[id]
	if !ok {
		return nil, fmt.Errorf("trade %s: %w", id, ErrNotFound)
	}
	t.Status = models.TradeStatusClosed
	t.CurrentPrice = &closePrice
	t.Profit = &profit
	t.CloseTime = &closedAt
	cp := *t
	return &cp, nil
}

func (m *mockLedger) CopiedTradesByTrade(_ context.Context, tradeID string) ([]models.CopiedTrade, error) {
	var out []models.CopiedTrade
	for _, c := range m.copies {
		if c.TradeID == tradeID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockLedger) CloseCopiedTrade(_ context.Context, id string, profit float64, closedAt time.Time) (*models.CopiedTrade, error) {
	if m.closeCopiedErr != nil {
		return nil, m.closeCopiedErr
	}
	for _, c := range m.copies {
		if c.ID == id {
			c.Status = models.TradeStatusClosed
			c.Profit = &profit
			c.CloseTime = &closedAt
			cp := *c
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("copied trade %s: %w", id, ErrNotFound)
}

func seedCopies(m *mockLedger, trade *models.Trade, lots ...float64) {
	for i, lot := range lots {
		m.copies = append(m.copies, &models.CopiedTrade{
			ID:             fmt.Sprintf("copy-%d", i),
			TradeID:        trade.ID,
			SubscriptionID: fmt.Sprintf("sub-%d", i),
			TradeAccountID: fmt.Sprintf("ta-%d", i),
			LotSize:        lot,
			Status:         models.TradeStatusOpen,
		})
	}
}

// --- CloseTrade ---

func TestCloseTrade_ProportionalProfit(t *testing.T) {
	m := newMockLedger()
	trade := newMockTrade("acct-1", 0.5)
	m.trades[trade.ID] = trade
	seedCopies(m, trade, 1.0, 0.25)

	engine := NewEngine(m, Options{})
	closed, copies, err := engine.CloseTrade(context.Background(), trade.ID, 1.0910, 100)
	if err != nil {
		t.Fatalf("CloseTrade: %v", err)
	}
	if closed.Status != models.TradeStatusClosed {
		t.Fatalf("expected closed status, got %s", closed.Status)
	}
	if closed.Profit == nil || *closed.Profit != 100 {
		t.Fatalf("source profit mismatch: %v", closed.Profit)
	}
	if len(copies) != 2 {
		t.Fatalf("expected 2 closed copies, got %d", len(copies))
	}
	for _, c := range copies {
		want := 100 * (c.LotSize / 0.5)
		if c.Profit == nil || math.Abs(*c.Profit-want) > 1e-9 {
			t.Fatalf("copied profit for lot %v: got %v, want %v", c.LotSize, c.Profit, want)
		}
		if c.Status != models.TradeStatusClosed {
			t.Fatalf("expected copy closed, got %s", c.Status)
		}
		if c.CloseTime == nil {
			t.Fatal("expected close time set")
		}
	}
}

// Scenario from the product brief: copy at lot 1.0 from a 0.5-lot source
// closed with profit 100 must book 200.
func TestCloseTrade_ReconciliationScenario(t *testing.T) {
	m := newMockLedger()
	trade := newMockTrade("acct-S", 0.5)
	m.trades[trade.ID] = trade
	seedCopies(m, trade, 1.0)

	engine := NewEngine(m, Options{})
	_, copies, err := engine.CloseTrade(context.Background(), trade.ID, 1.10, 100)
	if err != nil {
		t.Fatalf("CloseTrade: %v", err)
	}
	if len(copies) != 1 {
		t.Fatalf("expected 1 copy, got %d", len(copies))
	}
	if copies[0].Profit == nil || math.Abs(*copies[0].Profit-200) > 1e-9 {
		t.Fatalf("expected profit 200, got %v", copies[0].Profit)
	}
}

func TestCloseTrade_NegativeProfitApportioned(t *testing.T) {
	m := newMockLedger()
	trade := newMockTrade("acct-1", 2.0)
	m.trades[trade.ID] = trade
	seedCopies(m, trade, 1.0)

	engine := NewEngine(m, Options{})
	_, copies, err := engine.CloseTrade(context.Background(), trade.ID, 1.05, -80)
	if err != nil {
		t.Fatalf("CloseTrade: %v", err)
	}
	if copies[0].Profit == nil || math.Abs(*copies[0].Profit-(-40)) > 1e-9 {
		t.Fatalf("expected -40, got %v", copies[0].Profit)
	}
}

func TestCloseTrade_ZeroLotGuard(t *testing.T) {
	m := newMockLedger()
	trade := newMockTrade("acct-1", 0)
	m.trades[trade.ID] = trade
	seedCopies(m, trade, 1.0)

	engine := NewEngine(m, Options{})
	_, _, err := engine.CloseTrade(context.Background(), trade.ID, 1.05, 100)
	if !isErr(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero lot size, got %v", err)
	}
	// The guard must trip before any copy is touched.
	for _, c := range m.copies {
		if c.Profit != nil && (math.IsNaN(*c.Profit) || math.IsInf(*c.Profit, 0)) {
			t.Fatalf("copy %s got non-finite profit %v", c.ID, *c.Profit)
		}
		if c.Status == models.TradeStatusClosed {
			t.Fatalf("copy %s must not be closed", c.ID)
		}
	}
}

func TestCloseTrade_NonPositiveClosePrice(t *testing.T) {
	engine := NewEngine(newMockLedger(), Options{})
	for _, price := range []float64{0, -1.5} {
		_, _, err := engine.CloseTrade(context.Background(), "trade-1", price, 10)
		if !isErr(err, ErrInvalidInput) {
			t.Fatalf("close price %v: expected ErrInvalidInput, got %v", price, err)
		}
	}
}

func TestCloseTrade_UnknownTrade(t *testing.T) {
	engine := NewEngine(newMockLedger(), Options{})
	_, _, err := engine.CloseTrade(context.Background(), "missing", 1.05, 10)
	if !isErr(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCloseTrade_EmptyID(t *testing.T) {
	engine := NewEngine(newMockLedger(), Options{})
	_, _, err := engine.CloseTrade(context.Background(), "", 1.05, 10)
	if !isErr(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCloseTrade_CopyUpdateFailureAborts(t *testing.T) {
	m := newMockLedger()
	trade := newMockTrade("acct-1", 1.0)
	m.trades[trade.ID] = trade
	seedCopies(m, trade, 1.0)
	m.closeCopiedErr = fmt.Errorf("constraint violation")

	engine := NewEngine(m, Options{})
	_, _, err := engine.CloseTrade(context.Background(), trade.ID, 1.05, 10)
	if err == nil {
		t.Fatal("expected error when a copy update fails")
	}
	t.Logf("reconciliation aborted: %v", err)
}
