package stats

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/mirrortrade/backend/internal/models"
)

type mockStore struct {
	accounts  []string
	trades    map[string][]models.Trade
	snapshots map[string]*models.PerformanceStats

	tradesErr map[string]error
	upsertErr map[string]error
}

func newMockStore() *mockStore {
	return &mockStore{
		trades:    map[string][]models.Trade{},
		snapshots: map[string]*models.PerformanceStats{},
		tradesErr: map[string]error{},
		upsertErr: map[string]error{},
	}
}

func (m *mockStore) ActiveSignalAccountIDs(_ context.Context) ([]string, error) {
	return m.accounts, nil
}

func (m *mockStore) TradesBySignalAccount(_ context.Context, id string) ([]models.Trade, error) {
	if err := m.tradesErr[id]; err != nil {
		return nil, err
	}
	return m.trades[id], nil
}

func (m *mockStore) UpsertStats(_ context.Context, s *models.PerformanceStats) error {
	if err := m.upsertErr[s.SignalAccountID]; err != nil {
		return err
	}
	cp := *s
	m.snapshots[s.SignalAccountID+"/"+s.Period] = &cp
	return nil
}

func tradeWithProfit(p *float64) models.Trade {
	status := models.TradeStatusOpen
	if p != nil {
		status = models.TradeStatusClosed
	}
	return models.Trade{Symbol: "EURUSD", Type: models.TradeTypeBuy, LotSize: 1, Status: status, Profit: p}
}

func fp(v float64) *float64 { return &v }

// Scenario from the product brief: profits [50, -20, 30, open] must
// yield 4 total, 2 winning, 1 losing, 50% win rate, return 60.
func TestAggregator_Scenario(t *testing.T) {
	m := newMockStore()
	m.accounts = []string{"acct-1"}
	m.trades["acct-1"] = []models.Trade{
		tradeWithProfit(fp(50)),
		tradeWithProfit(fp(-20)),
		tradeWithProfit(fp(30)),
		tradeWithProfit(nil),
	}

	results, err := NewAggregator(m).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 || !results[0].StatsUpdated {
		t.Fatalf("unexpected results: %+v", results)
	}

	s := m.snapshots["acct-1/all_time"]
	if s == nil {
		t.Fatal("expected snapshot written")
	}
	if s.TotalTrades != 4 || s.WinningTrades != 2 || s.LosingTrades != 1 {
		t.Fatalf("counts: total=%d win=%d lose=%d", s.TotalTrades, s.WinningTrades, s.LosingTrades)
	}
	if math.Abs(s.WinRate-50.0) > 1e-9 {
		t.Fatalf("win rate: got %v, want 50.0", s.WinRate)
	}
	if math.Abs(s.ReturnPercentage-60) > 1e-9 {
		t.Fatalf("return: got %v, want 60", s.ReturnPercentage)
	}
	if s.Drawdown != 0 {
		t.Fatalf("drawdown must stay 0, got %v", s.Drawdown)
	}
}

func TestAggregator_SkipsZeroTradeAccounts(t *testing.T) {
	m := newMockStore()
	m.accounts = []string{"empty-acct"}

	results, err := NewAggregator(m).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("zero-trade account must produce no result entry, got %+v", results)
	}
	if len(m.snapshots) != 0 {
		t.Fatalf("zero-trade account must not be written, got %d snapshots", len(m.snapshots))
	}
}

func TestAggregator_WinRateZeroWithoutProfitBearingTrades(t *testing.T) {
	m := newMockStore()
	m.accounts = []string{"acct-1"}
	m.trades["acct-1"] = []models.Trade{tradeWithProfit(nil), tradeWithProfit(nil)}

	if _, err := NewAggregator(m).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	s := m.snapshots["acct-1/all_time"]
	if s == nil {
		t.Fatal("expected snapshot written")
	}
	if s.WinRate != 0 || s.WinningTrades != 0 || s.LosingTrades != 0 {
		t.Fatalf("expected all-zero classification, got %+v", s)
	}
	if s.TotalTrades != 2 {
		t.Fatalf("open trades still count toward total, got %d", s.TotalTrades)
	}
}

func TestAggregator_RunTwiceIsIdempotent(t *testing.T) {
	m := newMockStore()
	m.accounts = []string{"acct-1"}
	m.trades["acct-1"] = []models.Trade{
		tradeWithProfit(fp(10)),
		tradeWithProfit(fp(-5)),
	}

	agg := NewAggregator(m)
	if _, err := agg.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := *m.snapshots["acct-1/all_time"]

	if _, err := agg.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second := *m.snapshots["acct-1/all_time"]

	// Ignore the recomputation timestamp; everything else must match.
	first.CalculatedAt = second.CalculatedAt
	if first != second {
		t.Fatalf("snapshots differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAggregator_IsolatesPerAccountFailures(t *testing.T) {
	m := newMockStore()
	m.accounts = []string{"bad-acct", "good-acct"}
	m.trades["good-acct"] = []models.Trade{tradeWithProfit(fp(25))}
	m.tradesErr["bad-acct"] = fmt.Errorf("relation does not exist")

	results, err := NewAggregator(m).Run(context.Background())
	if err != nil {
		t.Fatalf("Run must not abort the batch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 result entries, got %d", len(results))
	}

	byID := map[string]Result{}
	for _, r := range results {
		byID[r.SignalAccountID] = r
	}
	if byID["bad-acct"].StatsUpdated || byID["bad-acct"].Error == "" {
		t.Fatalf("bad account should report failure: %+v", byID["bad-acct"])
	}
	if !byID["good-acct"].StatsUpdated {
		t.Fatalf("good account should still update: %+v", byID["good-acct"])
	}
	if m.snapshots["good-acct/all_time"] == nil {
		t.Fatal("good account snapshot missing")
	}
}

func TestComputeAllTime_OrderIndependent(t *testing.T) {
	trades := []models.Trade{
		tradeWithProfit(fp(50)),
		tradeWithProfit(fp(-20)),
		tradeWithProfit(fp(30)),
	}
	reversed := []models.Trade{trades[2], trades[1], trades[0]}

	a := ComputeAllTime("acct", trades)
	b := ComputeAllTime("acct", reversed)
	b.CalculatedAt = a.CalculatedAt
	if *a != *b {
		t.Fatalf("order dependence detected:\n%+v\n%+v", *a, *b)
	}
}
