package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mirrortrade/backend/internal/models"
)

type createCommentRequest struct {
	UserID          string `json:"user_id"`
	SignalAccountID string `json:"signal_account_id"`
	Content         string `json:"content"`
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == "" || req.SignalAccountID == "" {
		writeError(w, http.StatusUnprocessableEntity, "user_id and signal_account_id are required")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusUnprocessableEntity, "content is required")
		return
	}

	comment, err := s.commentRepo.Create(r.Context(), &models.Comment{
		UserID:          req.UserID,
		SignalAccountID: req.SignalAccountID,
		Content:         req.Content,
	})
	if err != nil {
		fmt.Printf("[API] create comment failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "comment": comment})
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	signalAccountID := r.URL.Query().Get("signal_account_id")
	if signalAccountID == "" {
		writeError(w, http.StatusBadRequest, "signal_account_id is required")
		return
	}

	comments, err := s.commentRepo.ListBySignalAccount(r.Context(), signalAccountID, parseLimit(r, 50))
	if err != nil {
		fmt.Printf("[API] list comments failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch comments")
		return
	}
	writeJSON(w, http.StatusOK, comments)
}
