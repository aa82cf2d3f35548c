package api

import (
	"fmt"
	"net/http"

	"github.com/mirrortrade/backend/internal/models"
)

type createTradeRequest struct {
	SignalAccountID string   `json:"signal_account_id"`
	Symbol          string   `json:"symbol"`
	Type            string   `json:"type"`
	OpenPrice       float64  `json:"open_price"`
	StopLoss        *float64 `json:"stop_loss,omitempty"`
	TakeProfit      *float64 `json:"take_profit,omitempty"`
	LotSize         float64  `json:"lot_size"`
}

func (req *createTradeRequest) validate() error {
	if req.SignalAccountID == "" {
		return fmt.Errorf("signal_account_id is required")
	}
	if req.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if req.Type != models.TradeTypeBuy && req.Type != models.TradeTypeSell {
		return fmt.Errorf("type must be %q or %q", models.TradeTypeBuy, models.TradeTypeSell)
	}
	if req.OpenPrice <= 0 {
		return fmt.Errorf("open_price must be positive")
	}
	if req.LotSize <= 0 {
		return fmt.Errorf("lot_size must be positive")
	}
	return nil
}

// handleCreateTrade persists a new source trade and synchronously fans
// it out to subscribers.
func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	var req createTradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx := r.Context()
	trade, err := s.tradeRepo.Create(ctx, &models.Trade{
		SignalAccountID: req.SignalAccountID,
		Symbol:          req.Symbol,
		Type:            req.Type,
		OpenPrice:       req.OpenPrice,
		StopLoss:        req.StopLoss,
		TakeProfit:      req.TakeProfit,
		LotSize:         req.LotSize,
	})
	if err != nil {
		fmt.Printf("[API] create trade failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to create trade")
		return
	}

	_, copies, err := s.engine.CopyTrade(ctx, trade.ID)
	if err != nil {
		fmt.Printf("[API] fan-out for new trade %s failed: %v\n", trade.ID, err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":             true,
		"trade":               trade,
		"copied_trades_count": len(copies),
	})
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	signalAccountID := r.URL.Query().Get("signal_account_id")
	if signalAccountID == "" {
		writeError(w, http.StatusBadRequest, "signal_account_id is required")
		return
	}

	trades, err := s.tradeRepo.ListBySignalAccount(r.Context(), signalAccountID, parseLimit(r, 100))
	if err != nil {
		fmt.Printf("[API] list trades failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch trades")
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleListCopiedTrades(w http.ResponseWriter, r *http.Request) {
	subscriptionID := r.URL.Query().Get("subscription_id")
	tradeAccountID := r.URL.Query().Get("trade_account_id")

	var (
		copies []models.CopiedTrade
		err    error
	)
	switch {
	case subscriptionID != "" && tradeAccountID == "":
		copies, err = s.copiedTradeRepo.ListBySubscription(r.Context(), subscriptionID, parseLimit(r, 100))
	case tradeAccountID != "" && subscriptionID == "":
		copies, err = s.copiedTradeRepo.ListByTradeAccount(r.Context(), tradeAccountID, parseLimit(r, 100))
	default:
		writeError(w, http.StatusBadRequest, "exactly one of subscription_id or trade_account_id is required")
		return
	}
	if err != nil {
		fmt.Printf("[API] list copied trades failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch copied trades")
		return
	}
	writeJSON(w, http.StatusOK, copies)
}
