package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mirrortrade/backend/internal/models"
)

type createSubscriptionRequest struct {
	SubscriberID      string     `json:"subscriber_id"`
	SignalAccountID   string     `json:"signal_account_id"`
	Status            string     `json:"status,omitempty"`
	TrialEndsAt       *time.Time `json:"trial_ends_at,omitempty"`
	LotSizeMultiplier *float64   `json:"lot_size_multiplier,omitempty"`
	ReverseCopy       bool       `json:"reverse_copy,omitempty"`
	OnlySLTPTrades    bool       `json:"only_sl_tp_trades,omitempty"`
	TradeAccountIDs   []string   `json:"trade_account_ids"`
}

var subscriptionStatuses = map[string]bool{
	models.SubscriptionStatusTrial:     true,
	models.SubscriptionStatusActive:    true,
	models.SubscriptionStatusExpired:   true,
	models.SubscriptionStatusCancelled: true,
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req createSubscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SubscriberID == "" || req.SignalAccountID == "" {
		writeError(w, http.StatusUnprocessableEntity, "subscriber_id and signal_account_id are required")
		return
	}
	if len(req.TradeAccountIDs) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "at least one trade account is required")
		return
	}
	if req.Status != "" && !subscriptionStatuses[req.Status] {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid status %q", req.Status))
		return
	}
	if req.LotSizeMultiplier != nil && *req.LotSizeMultiplier <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "lot_size_multiplier must be positive")
		return
	}

	sub, err := s.subscriptionRepo.Create(r.Context(), &models.Subscription{
		SubscriberID:      req.SubscriberID,
		SignalAccountID:   req.SignalAccountID,
		Status:            req.Status,
		TrialEndsAt:       req.TrialEndsAt,
		LotSizeMultiplier: req.LotSizeMultiplier,
		ReverseCopy:       req.ReverseCopy,
		OnlySLTPTrades:    req.OnlySLTPTrades,
	}, req.TradeAccountIDs)
	if err != nil {
		fmt.Printf("[API] create subscription failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to create subscription")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "subscription": sub})
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subscriberID := r.URL.Query().Get("subscriber_id")
	if subscriberID == "" {
		writeError(w, http.StatusBadRequest, "subscriber_id is required")
		return
	}

	subs, err := s.subscriptionRepo.ListBySubscriber(r.Context(), subscriberID)
	if err != nil {
		fmt.Printf("[API] list subscriptions failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch subscriptions")
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

type updateSubscriptionRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateSubscription(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateSubscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !subscriptionStatuses[req.Status] {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid status %q", req.Status))
		return
	}

	sub, err := s.subscriptionRepo.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		fmt.Printf("[API] update subscription %s failed: %v\n", id, err)
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "subscription": sub})
}

func (s *Server) handleListSubscriptionLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.subscriptionRepo.Links(r.Context(), r.PathValue("id"))
	if err != nil {
		fmt.Printf("[API] list subscription links failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch subscription links")
		return
	}
	writeJSON(w, http.StatusOK, links)
}

type updateSubscriptionLinkRequest struct {
	IsActive *bool `json:"is_active"`
}

// handleUpdateSubscriptionLink toggles a single trade-account link
// without touching the subscription or its other links.
func (s *Server) handleUpdateSubscriptionLink(w http.ResponseWriter, r *http.Request) {
	linkID := r.PathValue("linkID")

	var req updateSubscriptionLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.IsActive == nil {
		writeError(w, http.StatusUnprocessableEntity, "is_active is required")
		return
	}

	if err := s.subscriptionRepo.SetLinkActive(r.Context(), linkID, *req.IsActive); err != nil {
		fmt.Printf("[API] update subscription link %s failed: %v\n", linkID, err)
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
