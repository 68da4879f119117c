package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"shipquote/database"
	ipresolver "shipquote/middleware/ip_resolver"
	"shipquote/middleware/timer"
	"shipquote/service"
)

const (
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 128
)

// Quoter answers free-text quote requests.
type Quoter interface {
	Quote(ctx context.Context, in service.QuoteRequest) service.QuoteResponse
}

// History reads recorded quote requests.
type History interface {
	LoadQuoteRequest(ctx context.Context, id string) (database.QuoteRecord, error)
	LoadQuoteRequestsPage(ctx context.Context, fromDate, toDate string, limit, offset int) ([]database.QuoteRecord, bool, error)
}

type App struct {
	Quotes  Quoter
	History History
	Log     *zap.Logger
	Timeout time.Duration
}

// NewApp wires the handlers. A nil history disables the /api/quotes listing.
func NewApp(quotes Quoter, history History, log *zap.Logger, timeout time.Duration) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		Quotes:  quotes,
		History: history,
		Log:     log,
		Timeout: timeout,
	}
}

func (a *App) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(ipresolver.Middleware)
	r.Use(timer.Middleware(a.Log))
	r.Use(a.recoverer)

	r.Get("/healthz", a.health)
	r.Post("/api/quote", a.quote)
	if a.History != nil {
		r.Get("/api/quotes", a.listQuotes)
		r.Get("/api/quotes/{id}", a.getQuote)
	}
	return r
}

type requestIDKey struct{}

// requestIDMiddleware propagates X-Request-ID or assigns a new UUID when the
// header is missing or oversized.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, rid)
		ctx := context.WithValue(r.Context(), requestIDKey{}, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestID(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}

// recoverer turns a panic into a 500 with routing "error".
func (a *App) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			a.Log.Error("panic serving request",
				zap.Any("panic", rec),
				zap.String("path", r.URL.Path),
				zap.String("request_id", requestID(r.Context())),
				zap.Stack("stack"),
			)
			writeQuoteError(w, r, http.StatusInternalServerError, "internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
