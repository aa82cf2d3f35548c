package api

import (
	"fmt"
	"net/http"
)

func (s *Server) handlePerformanceStats(w http.ResponseWriter, r *http.Request) {
	signalAccountID := r.URL.Query().Get("signal_account_id")
	if signalAccountID == "" {
		writeError(w, http.StatusBadRequest, "signal_account_id is required")
		return
	}

	snapshots, err := s.statsRepo.BySignalAccount(r.Context(), signalAccountID)
	if err != nil {
		fmt.Printf("[API] fetch performance stats failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch performance stats")
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

func (s *Server) handleTopPerformers(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.statsRepo.TopByReturn(r.Context(), parseLimit(r, 10))
	if err != nil {
		fmt.Printf("[API] fetch top performers failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch top performers")
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}
