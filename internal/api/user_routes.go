package api

import (
	"fmt"
	"net/http"

	"github.com/mirrortrade/backend/internal/models"
)

type createUserRequest struct {
	Email     *string `json:"email,omitempty"`
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Role      *string `json:"role,omitempty"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Role != nil && *req.Role != models.RoleProvider && *req.Role != models.RoleSubscriber {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("role must be %q or %q", models.RoleProvider, models.RoleSubscriber))
		return
	}

	user, err := s.userRepo.Create(r.Context(), &models.User{
		Email:     req.Email,
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Role:      req.Role,
	})
	if err != nil {
		fmt.Printf("[API] create user failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	user, err := s.userRepo.GetByID(r.Context(), id)
	if err != nil {
		fmt.Printf("[API] fetch user %s failed: %v\n", id, err)
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, user)
}
