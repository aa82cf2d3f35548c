package api

import (
	"fmt"
	"net/http"

	"github.com/mirrortrade/backend/internal/models"
)

type createSignalAccountRequest struct {
	UserID        string   `json:"user_id"`
	Name          string   `json:"name"`
	Description   *string  `json:"description,omitempty"`
	Broker        *string  `json:"broker,omitempty"`
	AccountNumber *string  `json:"account_number,omitempty"`
	MonthlyFee    *float64 `json:"monthly_fee,omitempty"`
}

func (s *Server) handleCreateSignalAccount(w http.ResponseWriter, r *http.Request) {
	var req createSignalAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == "" || req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "user_id and name are required")
		return
	}

	account, err := s.signalAccountRepo.Create(r.Context(), &models.SignalAccount{
		UserID:        req.UserID,
		Name:          req.Name,
		Description:   req.Description,
		Broker:        req.Broker,
		AccountNumber: req.AccountNumber,
		MonthlyFee:    req.MonthlyFee,
	})
	if err != nil {
		fmt.Printf("[API] create signal account failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to create signal account")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "signal_account": account})
}

func (s *Server) handleListSignalAccounts(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	accounts, err := s.signalAccountRepo.ListByUser(r.Context(), userID)
	if err != nil {
		fmt.Printf("[API] list signal accounts failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch signal accounts")
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// handleListActiveSignalAccounts serves the public marketplace listing.
func (s *Server) handleListActiveSignalAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.signalAccountRepo.ListActive(r.Context())
	if err != nil {
		fmt.Printf("[API] list active signal accounts failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch signal accounts")
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

type createTradeAccountRequest struct {
	UserID        string  `json:"user_id"`
	Name          string  `json:"name"`
	Broker        *string `json:"broker,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
}

func (s *Server) handleCreateTradeAccount(w http.ResponseWriter, r *http.Request) {
	var req createTradeAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == "" || req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "user_id and name are required")
		return
	}

	account, err := s.tradeAccountRepo.Create(r.Context(), &models.TradeAccount{
		UserID:        req.UserID,
		Name:          req.Name,
		Broker:        req.Broker,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		fmt.Printf("[API] create trade account failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to create trade account")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "trade_account": account})
}

func (s *Server) handleListTradeAccounts(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	accounts, err := s.tradeAccountRepo.ListByUser(r.Context(), userID)
	if err != nil {
		fmt.Printf("[API] list trade accounts failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch trade accounts")
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}
