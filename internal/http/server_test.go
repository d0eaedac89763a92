package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/services"
	"fintrack/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	st := memory.New()
	srv := NewServer(":0",
		services.NewTransactionService(st, nil),
		services.NewBudgetService(st, nil),
		services.NewProfileService(st),
		Options{})
	t.Cleanup(func() {
		srv.rateLimiter.stop()
		srv.cacheManager.Stop()
	})
	return srv
}

func doRequest(t *testing.T, srv *Server, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(t, srv, http.MethodGet, path, "", "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, rec.Code)
		}
	}
}

func TestMissingUserReturns401(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/transactions", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/transactions", "u1",
		`{"title":"Salary","amount":"2500,00","kind":"income","occurred_at":"2025-06-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var created transactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal create response: %v", err)
	}
	if created.ID == "" {
		t.Error("created transaction has no id")
	}
	if created.Amount != 2500 {
		t.Errorf("amount = %v, want 2500", created.Amount)
	}
	if created.OccurredAt != "2025-06-01" {
		t.Errorf("occurred_at = %q, want 2025-06-01", created.OccurredAt)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions", "u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var list []transactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list has %d transactions, want 1", len(list))
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, "u1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, "u1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestCreateTransactionRejectsBadAmount(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/transactions", "u1",
		`{"title":"Broken","amount":"12..5","kind":"expense"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

func TestSummaryReflectsWrites(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/transactions", "u1",
		`{"title":"Salary","amount":"1000","kind":"income","occurred_at":"2025-06-01"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/summary", "u1", "")
	var first summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if first.TotalIncome != 1000 {
		t.Errorf("total income = %v, want 1000", first.TotalIncome)
	}

	// A write must invalidate the cached summary.
	doRequest(t, srv, http.MethodPost, "/api/transactions", "u1",
		`{"title":"Groceries","amount":"100","kind":"expense","occurred_at":"2025-06-02"}`)

	rec = doRequest(t, srv, http.MethodGet, "/api/summary", "u1", "")
	var second summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if second.TotalExpense != 100 {
		t.Errorf("total expense = %v, want 100 after cache invalidation", second.TotalExpense)
	}
	if second.Net != 900 {
		t.Errorf("net = %v, want 900", second.Net)
	}
}

func TestRecentRejectsNegativeCount(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/transactions/recent?n=-1", "u1", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestBudgetsSeedDefaultSplit(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/budgets", "u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var cats []categoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("unmarshal budgets: %v", err)
	}
	if len(cats) != 3 {
		t.Fatalf("seeded %d categories, want 3", len(cats))
	}

	want := map[string]float64{"Needs": 50, "Wants": 30, "Savings": 20}
	for _, c := range cats {
		if want[c.Name] != c.Percentage {
			t.Errorf("%s percentage = %v, want %v", c.Name, c.Percentage, want[c.Name])
		}
		if !c.Default {
			t.Errorf("%s is not marked default", c.Name)
		}
	}
}

func TestDeleteDefaultBudgetForbidden(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/budgets", "u1", "")
	var cats []categoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("unmarshal budgets: %v", err)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/budgets/"+cats[0].ID, "u1", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestPreviewSplitRescalesOthers(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/budgets", "u1", "")
	var cats []categoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("unmarshal budgets: %v", err)
	}

	var needsID string
	for _, c := range cats {
		if c.Name == "Needs" {
			needsID = c.ID
		}
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/budgets/preview", "u1",
		`{"category_id":"`+needsID+`","percentage":"70"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var preview previewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &preview); err != nil {
		t.Fatalf("unmarshal preview: %v", err)
	}
	if !preview.Savable {
		t.Errorf("preview not savable, sum = %v", preview.Sum)
	}

	got := map[string]float64{}
	for _, c := range preview.Categories {
		got[c.Name] = c.Percentage
	}
	if got["Needs"] != 70 || got["Wants"] != 18 || got["Savings"] != 12 {
		t.Errorf("preview percentages = %v, want Needs 70 Wants 18 Savings 12", got)
	}
}

func TestSaveSplitRejectsBadSum(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/budgets", "u1", "")
	var cats []categoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("unmarshal budgets: %v", err)
	}

	body := `{"items":[{"id":"` + cats[0].ID + `","percentage":90}]}`
	rec = doRequest(t, srv, http.MethodPut, "/api/budgets/split", "u1", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

func TestExportServesCSV(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/transactions", "u1",
		`{"title":"Groceries","amount":"50","kind":"expense","category_name":"Needs","occurred_at":"2025-06-01"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/export", "u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q, want text/csv", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "Transactions\n") {
		t.Errorf("export does not start with Transactions header: %q", rec.Body.String()[:30])
	}
	if !strings.Contains(rec.Body.String(), "\nBudgets\n") {
		t.Error("export is missing Budgets section")
	}
}

func TestProfileEnsuredOnFirstGet(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/profile", "u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var p profileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal profile: %v", err)
	}
	if p.Currency != "EUR" || p.Theme != "light" || !p.Notifications {
		t.Errorf("profile defaults = %+v, want EUR/light/notifications on", p)
	}
}
