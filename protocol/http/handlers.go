package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shipquote/database"
	ipresolver "shipquote/middleware/ip_resolver"
	"shipquote/routing"
	"shipquote/service"
)

const (
	maxBodyBytes     = 1 << 20
	defaultPageLimit = 10
	maxPageLimit     = 200
)

// errorResponse mirrors the quote response shape for requests that never
// reached the quote service.
type errorResponse struct {
	Success   bool            `json:"success"`
	Quotes    []service.Quote `json:"quotes"`
	Routing   string          `json:"routing"`
	Error     string          `json:"error"`
	RequestID string          `json:"requestId,omitempty"`
}

type quotePage struct {
	Quotes  []database.QuoteRecord `json:"quotes"`
	HasNext bool                   `json:"hasNext"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) quote(w http.ResponseWriter, r *http.Request) {
	var in service.QuoteRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		a.Log.Warn("invalid quote request body", zap.Error(err))
		writeQuoteError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in.RequestID = requestID(r.Context())
	in.ClientIP = ipresolver.UserIP(r.Context())

	ctx := r.Context()
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}
	writeJSON(w, http.StatusOK, a.Quotes.Quote(ctx, in))
}

func (a *App) getQuote(w http.ResponseWriter, r *http.Request) {
	rec, err := a.History.LoadQuoteRequest(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, database.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "quote request not found"})
		return
	}
	if err != nil {
		a.Log.Error("failed to load quote request", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load quote request"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *App) listQuotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := parseInt(q.Get("limit"), defaultPageLimit)
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	offset := max(parseInt(q.Get("offset"), 0), 0)

	records, hasNext, err := a.History.LoadQuoteRequestsPage(r.Context(),
		strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to")), limit, offset)
	if err != nil {
		a.Log.Error("failed to list quote requests", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list quote requests"})
		return
	}
	writeJSON(w, http.StatusOK, quotePage{Quotes: records, HasNext: hasNext, Limit: limit, Offset: offset})
}

func writeQuoteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, errorResponse{
		Quotes:    []service.Quote{},
		Routing:   routing.Error,
		Error:     message,
		RequestID: requestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
