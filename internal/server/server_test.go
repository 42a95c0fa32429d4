package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	mllog "github.com/msto63/minilang/foundation/core/log"
	"github.com/msto63/minilang/foundation/lang"
	"github.com/msto63/minilang/internal/history"
	"github.com/msto63/minilang/internal/report"
	"github.com/msto63/minilang/internal/runner"
	"github.com/msto63/minilang/pkg/core/cache"
	"github.com/msto63/minilang/pkg/core/health"
	"github.com/msto63/minilang/pkg/core/logging"
)

func newTestServer(t *testing.T, withHistory bool) *httptest.Server {
	t.Helper()

	logger := mllog.Discard()
	engine := lang.New(lang.Options{Logger: logger, MaxInputLength: 64})

	var store history.Store
	if withHistory {
		s, err := history.NewSQLiteStore(history.Config{Path: filepath.Join(t.TempDir(), "history.db")})
		if err != nil {
			t.Fatalf("NewSQLiteStore() error = %v", err)
		}
		t.Cleanup(func() { s.Close() })
		store = s
	}

	srv, err := New(DefaultConfig(), runner.New(engine, store, logger), logging.Wrap(logger, "test-server"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postSource(t *testing.T, url, source string) (*http.Response, *report.Document) {
	t.Helper()

	body, _ := json.Marshal(SourceRequest{Source: source, Name: "test"})
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s error = %v", url, err)
	}
	defer resp.Body.Close()

	var doc report.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	return resp, &doc
}

func TestNewRequiresRunner(t *testing.T) {
	if _, err := New(DefaultConfig(), nil, nil); err == nil {
		t.Error("expected error without runner")
	}
}

func TestCheckEndpoint(t *testing.T) {
	ts := newTestServer(t, false)

	tests := []struct {
		name       string
		source     string
		wantStatus int
		outcome    report.Outcome
		errCode    string
	}{
		{"accepted", "a, b: real;", http.StatusOK, report.OutcomeAccepted, ""},
		{"syntax error", lang.DemoSource, http.StatusUnprocessableEntity, report.OutcomeSyntax, "SYNTAX_ERROR"},
		{"lexical error", "9#;", http.StatusUnprocessableEntity, report.OutcomeLexical, "LEXICAL_ERROR"},
		{"too long", strings.Repeat("x", 65), http.StatusBadRequest, report.OutcomeRejected, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, doc := postSource(t, ts.URL+"/api/v1/check", tt.source)

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if doc.Outcome != tt.outcome {
				t.Errorf("outcome = %s, want %s", doc.Outcome, tt.outcome)
			}
			if tt.errCode == "" {
				if doc.Error != nil {
					t.Errorf("unexpected error %+v", doc.Error)
				}
				return
			}
			if doc.Error == nil || doc.Error.Code != tt.errCode {
				t.Errorf("error = %+v, want code %s", doc.Error, tt.errCode)
			}
		})
	}
}

func TestCheckEndpointSymbols(t *testing.T) {
	ts := newTestServer(t, false)

	_, doc := postSource(t, ts.URL+"/api/v1/check", "b: integer; a: real;")
	if len(doc.Symbols) != 2 || doc.Symbols[0].Name != "b" || doc.Symbols[1].Type != "real" {
		t.Errorf("symbols = %v", doc.Symbols)
	}
	if len(doc.Tokens) != 8 {
		t.Errorf("tokens = %d, want 8", len(doc.Tokens))
	}
}

func TestTokenizeEndpoint(t *testing.T) {
	ts := newTestServer(t, false)

	resp, doc := postSource(t, ts.URL+"/api/v1/tokenize", "y := 3 + 4 * 2;")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if doc.Mode != report.ModeTokenize || len(doc.Tokens) != 8 {
		t.Errorf("doc = %+v", doc)
	}
	if doc.Tokens[1].Lexeme != ":=" {
		t.Errorf("tokens[1] = %v", doc.Tokens[1])
	}
}

func TestRequestErrors(t *testing.T) {
	ts := newTestServer(t, false)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"wrong method", http.MethodGet, "/api/v1/check", "", http.StatusMethodNotAllowed},
		{"invalid json", http.MethodPost, "/api/v1/check", "{", http.StatusBadRequest},
		{"unknown path", http.MethodGet, "/api/v1/compile", "", http.StatusNotFound},
		{"history disabled", http.MethodGet, "/api/v1/history", "", http.StatusServiceUnavailable},
		{"options", http.MethodOptions, "/api/v1/check", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request error = %v", err)
			}
			resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestRootAndVersion(t *testing.T) {
	ts := newTestServer(t, false)

	for _, path := range []string{"/api/v1", "/api/v1/version"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		var body map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d", path, resp.StatusCode)
		}
		if body["version"] == nil {
			t.Errorf("GET %s body = %v, want version", path, body)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer resp.Body.Close()

	var hr health.Report
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != http.StatusOK || hr.Status != health.StatusHealthy {
		t.Errorf("status = %d/%s", resp.StatusCode, hr.Status)
	}

	names := make(map[string]health.Status)
	for _, c := range hr.Checks {
		names[c.Name] = c.Status
	}
	for _, name := range []string{"frontend", "history"} {
		if names[name] != health.StatusHealthy {
			t.Errorf("check %s = %q, want healthy", name, names[name])
		}
	}
}

func TestHistoryEndpoints(t *testing.T) {
	ts := newTestServer(t, true)

	_, first := postSource(t, ts.URL+"/api/v1/check", "x: integer;")
	postSource(t, ts.URL+"/api/v1/check", lang.DemoSource)

	resp, err := http.Get(ts.URL + "/api/v1/history?limit=10")
	if err != nil {
		t.Fatalf("GET history error = %v", err)
	}
	var page HistoryResponse
	json.NewDecoder(resp.Body).Decode(&page)
	resp.Body.Close()

	if page.Total != 2 || page.Limit != 10 {
		t.Errorf("page = %+v", page)
	}

	resp, err = http.Get(ts.URL + "/api/v1/history/" + first.RunID)
	if err != nil {
		t.Fatalf("GET run error = %v", err)
	}
	var run history.Run
	json.NewDecoder(resp.Body).Decode(&run)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK || run.Source != "x: integer;" {
		t.Errorf("run = %d %+v", resp.StatusCode, run)
	}

	resp, _ = http.Get(ts.URL + "/api/v1/history/does-not-exist")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing run status = %d, want 404", resp.StatusCode)
	}

	resp, _ = http.Get(ts.URL + "/api/v1/history/stats")
	var stats map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&stats)
	resp.Body.Close()
	if stats["total_runs"] != float64(2) {
		t.Errorf("stats = %v", stats)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/history", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE history error = %v", err)
	}
	var deleted map[string]int64
	json.NewDecoder(resp.Body).Decode(&deleted)
	resp.Body.Close()
	if deleted["deleted"] != 2 {
		t.Errorf("deleted = %v", deleted)
	}
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/check/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Errorf("handshake status = %d", resp.StatusCode)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

type wsReply struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg interface{}) wsReply {
	t.Helper()

	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	var reply wsReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return reply
}

func TestWebSocket(t *testing.T) {
	ts := newTestServer(t, false)
	conn := dialWS(t, ts)

	t.Run("ping", func(t *testing.T) {
		reply := roundTrip(t, conn, WSMessage{Type: "ping", ID: "1"})
		if reply.Type != "pong" || reply.ID != "1" {
			t.Errorf("reply = %+v", reply)
		}
	})

	t.Run("check", func(t *testing.T) {
		payload, _ := json.Marshal(SourceRequest{Source: "z := (1 + 2;"})
		reply := roundTrip(t, conn, WSMessage{Type: "check", ID: "2", Payload: payload})
		if reply.Type != "result" || reply.ID != "2" {
			t.Fatalf("reply = %+v", reply)
		}

		var doc report.Document
		if err := json.Unmarshal(reply.Payload, &doc); err != nil {
			t.Fatalf("decode document: %v", err)
		}
		if doc.Outcome != report.OutcomeSyntax || doc.SourceName != "websocket" {
			t.Errorf("doc = %+v", doc)
		}
		if !strings.Contains(doc.Error.Message, "expected CLOSE_PAREN") {
			t.Errorf("message = %q", doc.Error.Message)
		}
	})

	t.Run("tokenize", func(t *testing.T) {
		payload, _ := json.Marshal(SourceRequest{Source: "a := b ^ 2;", Name: "live"})
		reply := roundTrip(t, conn, WSMessage{Type: "tokenize", Payload: payload})

		var doc report.Document
		json.Unmarshal(reply.Payload, &doc)
		if doc.Mode != report.ModeTokenize || len(doc.Tokens) != 6 {
			t.Errorf("doc = %+v", doc)
		}
	})

	t.Run("invalid payload", func(t *testing.T) {
		reply := roundTrip(t, conn, WSMessage{Type: "check", Payload: json.RawMessage(`"oops"`)})
		if reply.Type != "error" || !strings.Contains(string(reply.Payload), "invalid_payload") {
			t.Errorf("reply = %+v", reply)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		reply := roundTrip(t, conn, WSMessage{Type: "compile"})
		if reply.Type != "error" || !strings.Contains(string(reply.Payload), "unknown_type") {
			t.Errorf("reply = %+v", reply)
		}
	})
}

func TestResponseWrapperHijack(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWrapper{ResponseWriter: rec, statusCode: http.StatusOK}

	if _, _, err := w.Hijack(); err == nil {
		t.Error("expected error from non-hijackable writer")
	}

	w.WriteHeader(http.StatusTeapot)
	if w.statusCode != http.StatusTeapot || rec.Code != http.StatusTeapot {
		t.Errorf("status = %d/%d", w.statusCode, rec.Code)
	}
	io.WriteString(w, "ok")
}

func TestHealthReportsCache(t *testing.T) {
	logger := mllog.Discard()
	resultCache := runner.NewCache(cache.DefaultConfig())
	defer resultCache.Close()

	r := runner.New(nil, nil, logger).WithCache(resultCache)
	srv, err := New(DefaultConfig(), r, logging.Wrap(logger, "test-server"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	postSource(t, ts.URL+"/api/v1/check", "x: real;")
	postSource(t, ts.URL+"/api/v1/check", "x: real;")

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer resp.Body.Close()

	var hr health.Report
	json.NewDecoder(resp.Body).Decode(&hr)
	for _, c := range hr.Checks {
		if c.Name != "frontend" {
			continue
		}
		if c.Details["cache_hits"] != float64(1) || c.Details["cache_size"] != float64(1) {
			t.Errorf("frontend details = %v", c.Details)
		}
		return
	}
	t.Error("frontend check missing")
}
