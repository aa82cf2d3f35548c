package api

import (
	"net/http"
	"testing"
)

func TestHandleCreateUser_InvalidRole(t *testing.T) {
	rr := serveRequest(t, http.MethodPost, "/v1/users", `{"role":"admin"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown role, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleCreateUser_BadJSON(t *testing.T) {
	rr := serveRequest(t, http.MethodPost, "/v1/users", `{"email":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rr.Code)
	}
}
