package api

import (
	"fmt"
	"net/http"

	"github.com/mirrortrade/backend/internal/stats"
)

type copyTradeRequest struct {
	TradeID string `json:"tradeId"`
}

type closeTradeRequest struct {
	TradeID    string  `json:"tradeId"`
	ClosePrice float64 `json:"closePrice"`
	Profit     float64 `json:"profit"`
}

// handleCopyTrade fans a persisted source trade out to all eligible
// subscriber trade accounts.
func (s *Server) handleCopyTrade(w http.ResponseWriter, r *http.Request) {
	var req copyTradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trade, copies, err := s.engine.CopyTrade(r.Context(), req.TradeID)
	if err != nil {
		fmt.Printf("[API] copy-trade %s failed: %v\n", req.TradeID, err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	if s.notify != nil && s.notify.Enabled() {
		go s.notify.Send(fmt.Sprintf("Trade %s (%s) copied to %d trade account(s)",
			trade.Symbol, trade.ID, len(copies)))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":             true,
		"trade":               trade,
		"copied_trades_count": len(copies),
	})
}

// handleCloseTrade closes a source trade and reconciles every copied
// trade derived from it with proportionally apportioned profit.
func (s *Server) handleCloseTrade(w http.ResponseWriter, r *http.Request) {
	var req closeTradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trade, copies, err := s.engine.CloseTrade(r.Context(), req.TradeID, req.ClosePrice, req.Profit)
	if err != nil {
		fmt.Printf("[API] close-trade %s failed: %v\n", req.TradeID, err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	if s.notify != nil && s.notify.Enabled() {
		go s.notify.Send(fmt.Sprintf("Trade %s (%s) closed with profit %.2f, %d copy(ies) reconciled",
			trade.Symbol, trade.ID, req.Profit, len(copies)))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"trade":         trade,
		"copied_trades": copies,
	})
}

// handleUpdatePerformanceStats runs the aggregation batch on demand.
func (s *Server) handleUpdatePerformanceStats(w http.ResponseWriter, r *http.Request) {
	results, err := s.aggregator.Run(r.Context())
	if err != nil {
		fmt.Printf("[API] update-performance-stats failed: %v\n", err)
		writeError(w, statusForError(err), err.Error())
		return
	}
	if results == nil {
		results = []stats.Result{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"results": results,
	})
}
