package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	mlerror "github.com/msto63/minilang/foundation/core/error"
	"github.com/msto63/minilang/internal/history"
	"github.com/msto63/minilang/internal/report"
	"github.com/msto63/minilang/internal/runner"
	"github.com/msto63/minilang/pkg/core/logging"
	"github.com/msto63/minilang/pkg/core/version"
)

// SourceRequest is the body of tokenize and check requests
type SourceRequest struct {
	Source string `json:"source"`
	Name   string `json:"name,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// HistoryResponse represents a page of recorded runs
type HistoryResponse struct {
	Runs   []*history.Run `json:"runs"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// Handler handles the REST endpoints of the check server
type Handler struct {
	runner    *runner.Runner
	logger    *logging.Logger
	startTime time.Time
}

// NewHandler creates a new API handler
func NewHandler(r *runner.Runner, logger *logging.Logger) *Handler {
	return &Handler{
		runner:    r,
		logger:    logger,
		startTime: time.Now(),
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	path = strings.Trim(path, "/")

	switch {
	case path == "":
		h.handleRoot(w, r)
	case path == "version":
		h.handleVersion(w, r)
	case path == "tokenize":
		h.handleRun(w, r, report.ModeTokenize)
	case path == "check":
		h.handleRun(w, r, report.ModeCheck)
	case path == "history":
		h.handleHistory(w, r)
	case path == "history/stats":
		h.handleHistoryStats(w, r)
	case strings.HasPrefix(path, "history/"):
		h.handleHistoryRun(w, r, strings.TrimPrefix(path, "history/"))
	default:
		h.writeError(w, http.StatusNotFound, "not_found", "Endpoint not found", "")
	}
}

// handleRoot lists the endpoints
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"service": "minic",
		"version": version.Platform,
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
		"endpoints": []string{
			"POST /api/v1/tokenize",
			"POST /api/v1/check",
			"GET  /api/v1/check/ws",
			"GET  /api/v1/history",
			"GET  /api/v1/history/{id}",
			"GET  /api/v1/version",
			"GET  /health",
		},
	}
	h.writeJSON(w, http.StatusOK, info)
}

func (h *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}
	h.writeJSON(w, http.StatusOK, version.Get())
}

// handleRun tokenizes or checks the posted source. Rejected programs are
// returned as documents with a 4xx status.
func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request, mode report.Mode) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use POST", "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, int64(2*h.runner.Engine().MaxInputLength()+4096))

	var req SourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON", err.Error())
		return
	}
	if req.Name == "" {
		req.Name = "request"
	}

	var (
		doc *report.Document
		err error
	)
	if mode == report.ModeTokenize {
		doc, err = h.runner.Tokenize(r.Context(), req.Name, req.Source)
	} else {
		doc, err = h.runner.Check(r.Context(), req.Name, req.Source)
	}

	status := http.StatusOK
	if err != nil {
		status = mlerror.GetCode(err).HTTPStatus()
	}
	h.writeJSON(w, status, doc)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	store := h.runner.History()
	if store == nil {
		h.writeError(w, http.StatusServiceUnavailable, "history_disabled", "Run history is disabled", "")
		return
	}

	switch r.Method {
	case http.MethodGet:
		limit := queryInt(r, "limit", 50)
		offset := queryInt(r, "offset", 0)

		runs, err := store.List(r.Context(), limit, offset)
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		if runs == nil {
			runs = []*history.Run{}
		}
		h.writeJSON(w, http.StatusOK, HistoryResponse{
			Runs:   runs,
			Total:  len(runs),
			Limit:  limit,
			Offset: offset,
		})

	case http.MethodDelete:
		n, err := store.Clear(r.Context())
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})

	default:
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET or DELETE", "")
	}
}

func (h *Handler) handleHistoryStats(w http.ResponseWriter, r *http.Request) {
	store := h.runner.History()
	if store == nil {
		h.writeError(w, http.StatusServiceUnavailable, "history_disabled", "Run history is disabled", "")
		return
	}

	stats, err := store.Statistics(r.Context())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleHistoryRun(w http.ResponseWriter, r *http.Request, id string) {
	store := h.runner.History()
	if store == nil {
		h.writeError(w, http.StatusServiceUnavailable, "history_disabled", "Run history is disabled", "")
		return
	}
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}

	run, err := store.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	code := mlerror.GetCode(err)
	if code.HTTPStatus() >= http.StatusInternalServerError {
		h.logger.Error("history request failed", "error", err)
	}
	h.writeError(w, code.HTTPStatus(), strings.ToLower(code.String()), err.Error(), "")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	h.writeJSON(w, status, resp)
}

func queryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
