package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// serveRequest pushes a request through the full middleware + mux chain
// so route registration itself is under test. Handlers must reject the
// request before any repository access.
func serveRequest(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	s := NewServer(nil, 0, "", "", nil, nil, nil)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHandleCreateSubscription_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing ids", `{"trade_account_ids":["ta-1"]}`},
		{"no trade accounts", `{"subscriber_id":"u-1","signal_account_id":"acct-1"}`},
		{"invalid status", `{"subscriber_id":"u-1","signal_account_id":"acct-1","status":"paused","trade_account_ids":["ta-1"]}`},
		{"non-positive multiplier", `{"subscriber_id":"u-1","signal_account_id":"acct-1","lot_size_multiplier":0,"trade_account_ids":["ta-1"]}`},
	}

	for _, tc := range cases {
		rr := serveRequest(t, http.MethodPost, "/v1/subscriptions", tc.body)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d: %s", tc.name, rr.Code, rr.Body.String())
		}
	}
}

func TestCreateSubscriptionRequest_CopyPreferenceFlags(t *testing.T) {
	var req createSubscriptionRequest
	body := `{"subscriber_id":"u-1","signal_account_id":"acct-1",
		"reverse_copy":true,"only_sl_tp_trades":true,"trade_account_ids":["ta-1"]}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !req.ReverseCopy || !req.OnlySLTPTrades {
		t.Fatalf("copy preference flags not decoded: %+v", req)
	}
}

func TestUpdateSubscriptionLinkRoute_BadJSON(t *testing.T) {
	rr := serveRequest(t, http.MethodPatch, "/v1/subscriptions/sub-1/links/link-1", `{"is_active":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestUpdateSubscriptionLinkRoute_MissingIsActive(t *testing.T) {
	rr := serveRequest(t, http.MethodPatch, "/v1/subscriptions/sub-1/links/link-1", `{}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 when is_active is absent, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if resp["error"] == "" {
		t.Fatalf("expected error envelope, got %s", rr.Body.String())
	}
}
