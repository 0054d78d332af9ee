package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	config "github.com/alvsuut-buddy/Smart-Charity/config"
	services "github.com/alvsuut-buddy/Smart-Charity/services"
	store "github.com/alvsuut-buddy/Smart-Charity/store"
)

type testServer struct {
	ledger  *store.MemoryLedger
	history *store.MemoryHistory
	engine  *gin.Engine
}

func newTestServer(t *testing.T, appEnv string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AppName:        "smart-charity",
		AppEnv:         appEnv,
		Port:           "3000",
		StoreBackend:   config.BackendMemory,
		Location:       time.UTC,
		RequestTimeout: time.Second,
	}
	ledger, history := store.NewMemoryLedger(), store.NewMemoryHistory()
	log := zerolog.Nop()

	ingest := services.NewIngestor(ledger, history, time.Now, log)
	agg := services.NewAggregator(ledger, history, cfg.Location)
	app := &App{
		Cfg:     cfg,
		Reports: services.NewReports(ingest, agg, time.Now, log),
		Display: services.NewDisplayBoard(services.DefaultDisplayMessage),
		Health:  store.MemoryHealth{},
		Log:     log,
	}

	r := gin.New()
	r.GET("/health", Health(app))
	api := r.Group("/api")
	api.POST("/donation", CreateDonation(app))
	api.GET("/total", GetTotal(app))
	api.GET("/history", ListHistory(app))
	api.GET("/daily-stats", GetDailyStats(app))
	api.GET("/stats/:period", GetPeriodStats(app))
	api.GET("/top-donations", ListTopDonations(app))
	api.DELETE("/reset-donations", ResetDonations(app))
	api.GET("/lcd-message", GetDisplayMessage(app))
	api.POST("/lcd-message", UpdateDisplayMessage(app))
	r.NoRoute(NotFound([]string{"GET /health"}))

	return &testServer{ledger: ledger, history: history, engine: r}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func (s *testServer) donate(t *testing.T, amounts ...int) {
	t.Helper()
	for _, a := range amounts {
		w := s.do(t, http.MethodPost, "/api/donation", `{"amount":`+itoa(a)+`}`)
		if w.Code != http.StatusOK {
			t.Fatalf("donate %d: status %d body %s", a, w.Code, w.Body.String())
		}
	}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestCreateDonation(t *testing.T) {
	s := newTestServer(t, "production")

	w := s.do(t, http.MethodPost, "/api/donation", `{"amount":2000,"deviceId":"box_07"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	data, _ := body["data"].(map[string]any)
	if body["success"] != true || data["amount"] != float64(2000) || data["deviceId"] != "box_07" {
		t.Fatalf("unexpected body %v", body)
	}
	if id, _ := data["id"].(string); len(id) != 24 {
		t.Fatalf("id = %v", data["id"])
	}
}

func TestCreateDonationLegacyNominal(t *testing.T) {
	s := newTestServer(t, "production")

	w := s.do(t, http.MethodPost, "/api/donation", `{"nominal":500}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	data, _ := decode(t, w)["data"].(map[string]any)
	if data["amount"] != float64(500) || data["deviceId"] != "smart_charity_box_01" {
		t.Fatalf("unexpected data %v", data)
	}
}

func TestCreateDonationRejectsBadAmount(t *testing.T) {
	cases := map[string]string{
		"missing":  `{}`,
		"string":   `{"amount":"2000"}`,
		"zero":     `{"amount":0}`,
		"negative": `{"amount":-5}`,
		"fraction": `{"amount":1.5}`,
		"bool":     `{"amount":true}`,
		"not json": `amount=5`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t, "production")
			w := s.do(t, http.MethodPost, "/api/donation", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			if decode(t, w)["success"] != false {
				t.Fatal("success should be false")
			}
			rows, _, _ := s.ledger.FindPage(context.Background(), store.PageQuery{Limit: 10})
			if len(rows) != 0 {
				t.Fatalf("ledger has %d rows after rejected request", len(rows))
			}
		})
	}
}

func TestStorageFailureDetailOnlyInDevelopment(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			s := newTestServer(t, env)
			s.history.FailNext("insert", nil)

			w := s.do(t, http.MethodPost, "/api/donation", `{"amount":1000}`)
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d", w.Code)
			}
			_, hasDetail := decode(t, w)["error"]
			if hasDetail != (env == "development") {
				t.Fatalf("error detail present = %v in %s", hasDetail, env)
			}
		})
	}
}

func TestTotalAfterScenario(t *testing.T) {
	s := newTestServer(t, "production")
	s.donate(t, 2000, 500, 1000)

	body := decode(t, s.do(t, http.MethodGet, "/api/total", ""))
	if body["total"] != float64(3500) || body["count"] != float64(3) {
		t.Fatalf("unexpected body %v", body)
	}
	f, _ := body["formatted"].(map[string]any)
	if f["total"] != "Rp 3.500" || f["count"] != "3 donations" {
		t.Fatalf("formatted = %v", f)
	}
}

func TestHistoryPaginationAndETag(t *testing.T) {
	s := newTestServer(t, "production")
	s.donate(t, 100, 200, 300)

	w := s.do(t, http.MethodGet, "/api/history?page=2&limit=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	rows, _ := body["data"].([]any)
	p, _ := body["pagination"].(map[string]any)
	if len(rows) != 1 || p["page"] != float64(2) || p["limit"] != float64(2) || p["total"] != float64(3) || p["totalPages"] != float64(2) {
		t.Fatalf("unexpected page %v", body)
	}

	etag := w.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("ETag = %q", etag)
	}
	again := s.do(t, http.MethodGet, "/api/history?page=2&limit=2", "", "If-None-Match", etag)
	if again.Code != http.StatusNotModified {
		t.Fatalf("conditional status = %d", again.Code)
	}
}

func TestHistoryMalformedQueryUsesDefaults(t *testing.T) {
	s := newTestServer(t, "production")
	s.donate(t, 100)

	p, _ := decode(t, s.do(t, http.MethodGet, "/api/history?page=abc&limit=xyz", ""))["pagination"].(map[string]any)
	if p["page"] != float64(1) || p["limit"] != float64(10) {
		t.Fatalf("pagination = %v", p)
	}
}

func TestDailyStats(t *testing.T) {
	s := newTestServer(t, "production")
	s.donate(t, 2000, 1500)

	body := decode(t, s.do(t, http.MethodGet, "/api/daily-stats", ""))
	if body["totalToday"] != float64(3500) || body["countToday"] != float64(2) {
		t.Fatalf("unexpected body %v", body)
	}
	if body["date"] != time.Now().UTC().Format("2006-01-02") {
		t.Fatalf("date = %v", body["date"])
	}
}

func TestPeriodStats(t *testing.T) {
	s := newTestServer(t, "production")
	s.donate(t, 2000, 500, 1000)

	w := s.do(t, http.MethodGet, "/api/stats/WEEK", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	st, _ := body["stats"].(map[string]any)
	if body["period"] != "week" || st["total"] != float64(3500) || st["average"] != float64(1167) {
		t.Fatalf("unexpected body %v", body)
	}

	bad := s.do(t, http.MethodGet, "/api/stats/decade", "")
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("unknown period status = %d", bad.Code)
	}
}

func TestTopDonations(t *testing.T) {
	s := newTestServer(t, "production")
	s.donate(t, 2000, 500, 1000)

	body := decode(t, s.do(t, http.MethodGet, "/api/top-donations?limit=2", ""))
	rows, _ := body["data"].([]any)
	if len(rows) != 2 || body["message"] != "2 largest donations" {
		t.Fatalf("unexpected body %v", body)
	}
	first, _ := rows[0].(map[string]any)
	if first["amount"] != float64(2000) {
		t.Fatalf("first = %v", first)
	}
}

func TestResetIsIdempotentAndKeepsHistory(t *testing.T) {
	s := newTestServer(t, "production")
	s.donate(t, 2000, 500, 1000)

	first := decode(t, s.do(t, http.MethodDelete, "/api/reset-donations", ""))
	if first["deletedCount"] != float64(3) {
		t.Fatalf("first reset = %v", first)
	}
	second := decode(t, s.do(t, http.MethodDelete, "/api/reset-donations", ""))
	if second["deletedCount"] != float64(0) {
		t.Fatalf("second reset = %v", second)
	}

	total := decode(t, s.do(t, http.MethodGet, "/api/total", ""))
	if total["total"] != float64(0) || total["count"] != float64(0) {
		t.Fatalf("total after reset = %v", total)
	}
	p, _ := decode(t, s.do(t, http.MethodGet, "/api/history", ""))["pagination"].(map[string]any)
	if p["total"] != float64(3) {
		t.Fatalf("history after reset = %v", p)
	}
}

func TestDisplayMessage(t *testing.T) {
	s := newTestServer(t, "production")

	body := decode(t, s.do(t, http.MethodGet, "/api/lcd-message", ""))
	msg, _ := body["message"].(map[string]any)
	if msg["line1"] != "Sedekah membawa" || msg["line2"] != "berkah" {
		t.Fatalf("seed = %v", msg)
	}

	w := s.do(t, http.MethodPost, "/api/lcd-message", `{"line1":"Terima kasih banyak","line2":"ok"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	data, _ := decode(t, w)["data"].(map[string]any)
	if data["line1"] != "Terima kasih ban" || data["line2"] != "ok" {
		t.Fatalf("data = %v", data)
	}

	msg, _ = decode(t, s.do(t, http.MethodGet, "/api/lcd-message", ""))["message"].(map[string]any)
	if msg["line1"] != "Terima kasih ban" {
		t.Fatalf("stored = %v", msg)
	}
}

func TestDisplayMessageRejectsNonString(t *testing.T) {
	s := newTestServer(t, "production")
	w := s.do(t, http.MethodPost, "/api/lcd-message", `{"line1":42}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestDisplayMessageEmptyBodyClears(t *testing.T) {
	s := newTestServer(t, "production")
	w := s.do(t, http.MethodPost, "/api/lcd-message", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	data, _ := decode(t, w)["data"].(map[string]any)
	if data["line1"] != "" || data["line2"] != "" {
		t.Fatalf("data = %v", data)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "production")
	body := decode(t, s.do(t, http.MethodGet, "/health", ""))
	db, _ := body["database"].(map[string]any)
	if body["status"] != "OK" || db["status"] != "connected" || db["type"] != "memory" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, "production")
	w := s.do(t, http.MethodGet, "/api/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	eps, _ := decode(t, w)["availableEndpoints"].([]any)
	if len(eps) != 1 {
		t.Fatalf("endpoints = %v", eps)
	}
}
