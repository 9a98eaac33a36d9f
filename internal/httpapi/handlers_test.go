package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medibill/backend/internal/domain"
	"medibill/backend/internal/draft"
	"medibill/backend/internal/service"
	"medibill/backend/internal/store/memory"
)

// newTestAPI builds a full API with an in-memory store, a file draft store in
// a temp dir, real AuthManager and real Service so handler tests exercise the
// complete request path.
func newTestAPI(t *testing.T, seed []domain.LotRecord) *API {
	t.Helper()

	repo := memory.NewWith(seed)
	drafts, err := draft.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new draft store: %v", err)
	}
	svc := service.New(repo, drafts)
	auth, err := NewAuthManager("test-secret-key", time.Hour, "operator", "entry-pass")
	if err != nil {
		t.Fatalf("new auth manager: %v", err)
	}

	return New(svc, auth, "*")
}

func loginToken(t *testing.T, handler http.Handler) string {
	t.Helper()

	payload, _ := json.Marshal(map[string]string{
		"username": "operator",
		"password": "entry-pass",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}

	var resp domain.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.AccessToken
}

func authedRequest(t *testing.T, handler http.Handler, token string, method string, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	handler := newTestAPI(t, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	handler := newTestAPI(t, nil).Handler()

	payload, _ := json.Marshal(map[string]string{
		"username": "operator",
		"password": "wrongpassword",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleLogin_RateLimit(t *testing.T) {
	handler := newTestAPI(t, nil).Handler()

	payload, _ := json.Marshal(map[string]string{
		"username": "operator",
		"password": "badpass",
	})

	var lastCode int
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after 6 attempts, got %d", lastCode)
	}
}

func TestHandleCommit_RequiresAuth(t *testing.T) {
	handler := newTestAPI(t, nil).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/commit", bytes.NewReader([]byte(`{"items":[]}`)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleCommit_AddsAndMerges(t *testing.T) {
	handler := newTestAPI(t, []domain.LotRecord{
		{ItemName: "PARACETAMOL", Batch: "B1", Qty: "10", MRP: "30", AddedAt: "2024-01-01T00:00:00Z", LastUpdated: "2024-01-01T00:00:00Z"},
	}).Handler()
	token := loginToken(t, handler)

	rec := authedRequest(t, handler, token, http.MethodPost, "/api/v1/inventory/commit", domain.CommitRequest{
		Items: []domain.LineItem{
			{ItemName: "paracetamol ", Batch: " b1", Qty: "5"},
			{ItemName: "Ibuprofen", Batch: "X9", Qty: "3", MRP: "55"},
			{ItemName: "", Batch: "Z1", Qty: "1"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var result domain.CommitResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Added != 1 || result.Updated != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	// The merged lot is visible through the batches view.
	batchRec := authedRequest(t, handler, token, http.MethodGet, "/api/v1/inventory/batches?item=paracetamol", nil)
	if batchRec.Code != http.StatusOK {
		t.Fatalf("batches: expected 200, got %d", batchRec.Code)
	}
	var batches domain.BatchListResponse
	if err := json.NewDecoder(batchRec.Body).Decode(&batches); err != nil {
		t.Fatalf("decode batches: %v", err)
	}
	if len(batches.Batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches.Batches))
	}
	if batches.Batches[0].Qty != "15" {
		t.Fatalf("expected merged qty 15, got %q", batches.Batches[0].Qty)
	}
}

func TestHandleCommit_RejectsEmptyItems(t *testing.T) {
	handler := newTestAPI(t, nil).Handler()
	token := loginToken(t, handler)

	rec := authedRequest(t, handler, token, http.MethodPost, "/api/v1/inventory/commit", domain.CommitRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleNameIndex(t *testing.T) {
	handler := newTestAPI(t, []domain.LotRecord{
		{ItemName: "PARACETAMOL", Batch: "B1", MRP: "30"},
		{ItemName: "PARACETAMOL", Batch: "B2", MRP: "32"},
		{ItemName: "Ibuprofen", Batch: "X9", MRP: "55"},
	}).Handler()
	token := loginToken(t, handler)

	rec := authedRequest(t, handler, token, http.MethodGet, "/api/v1/inventory/items", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Items map[string]domain.IndexEntry `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Items) != 2 {
		t.Fatalf("expected 2 index entries, got %d", len(body.Items))
	}
	if body.Items["PARACETAMOL"].MRP != "30" {
		t.Fatalf("expected first-seen MRP 30, got %q", body.Items["PARACETAMOL"].MRP)
	}
}

func TestHandleBatches_RequiresItemParam(t *testing.T) {
	handler := newTestAPI(t, nil).Handler()
	token := loginToken(t, handler)

	rec := authedRequest(t, handler, token, http.MethodGet, "/api/v1/inventory/batches", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleSession_RoundTrip(t *testing.T) {
	handler := newTestAPI(t, nil).Handler()
	token := loginToken(t, handler)

	// Empty to start.
	rec := authedRequest(t, handler, token, http.MethodGet, "/api/v1/session", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var empty struct {
		Draft *domain.SessionDraft `json:"draft"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&empty); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if empty.Draft != nil {
		t.Fatalf("expected nil draft before any save, got %+v", empty.Draft)
	}

	// Save, reload, clear.
	draft := domain.SessionDraft{
		Party:   "M/s Sharma Distributors",
		BillNo:  "INV-104",
		BillDt:  "2026-01-10",
		EntryDt: "2026-01-12",
		Inventory: []domain.LineItem{
			{ItemName: "PARACETAMOL", Batch: "B1", Qty: "10", Amount: "252.00"},
		},
	}
	rec = authedRequest(t, handler, token, http.MethodPut, "/api/v1/session", draft)
	if rec.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = authedRequest(t, handler, token, http.MethodGet, "/api/v1/session", nil)
	var loaded struct {
		Draft *domain.SessionDraft `json:"draft"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&loaded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if loaded.Draft == nil || loaded.Draft.BillNo != "INV-104" || len(loaded.Draft.Inventory) != 1 {
		t.Fatalf("unexpected restored draft %+v", loaded.Draft)
	}

	rec = authedRequest(t, handler, token, http.MethodDelete, "/api/v1/session", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear: expected 200, got %d", rec.Code)
	}
	rec = authedRequest(t, handler, token, http.MethodGet, "/api/v1/session", nil)
	var cleared struct {
		Draft *domain.SessionDraft `json:"draft"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&cleared); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if cleared.Draft != nil {
		t.Fatalf("expected draft cleared, got %+v", cleared.Draft)
	}
}

func TestHandleRecalculate(t *testing.T) {
	handler := newTestAPI(t, nil).Handler()
	token := loginToken(t, handler)

	rec := authedRequest(t, handler, token, http.MethodPost, "/api/v1/items/recalculate", domain.LineItem{
		ItemName:   "PARACETAMOL",
		Qty:        "10",
		PTR:        "22.5",
		GSTPercent: "12",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var item domain.LineItem
	if err := json.NewDecoder(rec.Body).Decode(&item); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	if item.Base != "225.00" {
		t.Fatalf("expected base 225.00, got %q", item.Base)
	}
	if item.Amount != "252.00" {
		t.Fatalf("expected amount 252.00, got %q", item.Amount)
	}
}

func TestHandleValidate(t *testing.T) {
	handler := newTestAPI(t, nil).Handler()
	token := loginToken(t, handler)

	rec := authedRequest(t, handler, token, http.MethodPost, "/api/v1/items/validate", domain.LineItem{
		ItemName: "PARACETAMOL",
		Batch:    "B1",
		Qty:      "-2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var resp domain.ValidationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Valid {
		t.Fatalf("expected negative quantity to fail validation")
	}
	if resp.Problem == "" {
		t.Fatalf("expected a problem message")
	}
}

func TestHandleSession_MethodNotAllowed(t *testing.T) {
	handler := newTestAPI(t, nil).Handler()
	token := loginToken(t, handler)

	rec := authedRequest(t, handler, token, http.MethodPost, "/api/v1/session", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestAPI(t, nil).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/inventory/items", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected allow-origin *, got %q", got)
	}
}
