package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shipquote/database"
	"shipquote/routing"
	"shipquote/service"
)

type fakeQuoter struct {
	got   service.QuoteRequest
	resp  service.QuoteResponse
	panic bool
}

func (f *fakeQuoter) Quote(ctx context.Context, in service.QuoteRequest) service.QuoteResponse {
	if f.panic {
		panic("boom")
	}
	f.got = in
	resp := f.resp
	resp.RequestID = in.RequestID
	return resp
}

type fakeHistory struct {
	records     map[string]database.QuoteRecord
	err         error
	from, to    string
	limit, skip int
}

func (f *fakeHistory) LoadQuoteRequest(ctx context.Context, id string) (database.QuoteRecord, error) {
	if f.err != nil {
		return database.QuoteRecord{}, f.err
	}
	rec, ok := f.records[id]
	if !ok {
		return database.QuoteRecord{}, database.ErrNotFound
	}
	return rec, nil
}

func (f *fakeHistory) LoadQuoteRequestsPage(ctx context.Context, fromDate, toDate string, limit, offset int) ([]database.QuoteRecord, bool, error) {
	f.from, f.to, f.limit, f.skip = fromDate, toDate, limit, offset
	if f.err != nil {
		return nil, false, f.err
	}
	out := []database.QuoteRecord{}
	for _, rec := range f.records {
		out = append(out, rec)
	}
	return out, true, nil
}

func serve(t *testing.T, app *App, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	app.Routes().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	app := NewApp(&fakeQuoter{}, nil, zap.NewNop(), 0)
	rec := serve(t, app, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestQuote(t *testing.T) {
	quoter := &fakeQuoter{resp: service.QuoteResponse{
		Success: true,
		Quotes:  []service.Quote{{Provider: "USPS", Service: "Priority Mail", Price: 9.85, Currency: "USD"}},
		Routing: routing.ShippoOnly,
	}}
	app := NewApp(quoter, nil, zap.NewNop(), time.Second)

	rec := serve(t, app, http.MethodPost, "/api/quote",
		`{"request":"Ship a 24x10x10 box weighing 20lbs from 33142 to 90210","email":"a@b.co"}`,
		map[string]string{requestIDHeader: "rid-42", "X-Forwarded-For": "203.0.113.9"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "rid-42", rec.Header().Get(requestIDHeader))
	assert.Equal(t, "a@b.co", quoter.got.Email)
	assert.Equal(t, "rid-42", quoter.got.RequestID)
	assert.Equal(t, "203.0.113.9", quoter.got.ClientIP)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, routing.ShippoOnly, body["routing"])
	assert.Equal(t, "rid-42", body["requestId"])
	assert.Len(t, body["quotes"], 1)
}

func TestQuote_MalformedJSON(t *testing.T) {
	app := NewApp(&fakeQuoter{}, nil, zap.NewNop(), 0)
	rec := serve(t, app, http.MethodPost, "/api/quote", `{"request":`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, routing.Error, body["routing"])
	assert.Equal(t, false, body["success"])
	assert.Equal(t, []any{}, body["quotes"])
	assert.NotEmpty(t, body["error"])
}

func TestQuote_PanicBecomes500(t *testing.T) {
	app := NewApp(&fakeQuoter{panic: true}, nil, zap.NewNop(), 0)
	rec := serve(t, app, http.MethodPost, "/api/quote", `{"request":"x"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, routing.Error, decode(t, rec)["routing"])
}

func TestQuote_MethodNotAllowed(t *testing.T) {
	app := NewApp(&fakeQuoter{}, nil, zap.NewNop(), 0)
	rec := serve(t, app, http.MethodGet, "/api/quote", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHistoryRoutesDisabledWithoutStore(t *testing.T) {
	app := NewApp(&fakeQuoter{}, nil, zap.NewNop(), 0)
	rec := serve(t, app, http.MethodGet, "/api/quotes", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetQuote(t *testing.T) {
	history := &fakeHistory{records: map[string]database.QuoteRecord{
		"abc": {ID: "abc", RequestText: "Ship a pallet", Routing: routing.FreightosOnly, Parsed: json.RawMessage(`{}`), Quotes: json.RawMessage(`[]`)},
	}}
	app := NewApp(&fakeQuoter{}, history, zap.NewNop(), 0)

	rec := serve(t, app, http.MethodGet, "/api/quotes/abc", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", decode(t, rec)["id"])

	rec = serve(t, app, http.MethodGet, "/api/quotes/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	history.err = errors.New("db down")
	rec = serve(t, app, http.MethodGet, "/api/quotes/abc", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListQuotes(t *testing.T) {
	history := &fakeHistory{records: map[string]database.QuoteRecord{
		"abc": {ID: "abc", Parsed: json.RawMessage(`{}`), Quotes: json.RawMessage(`[]`)},
	}}
	app := NewApp(&fakeQuoter{}, history, zap.NewNop(), 0)

	rec := serve(t, app, http.MethodGet, "/api/quotes?from=2026-01-01&to=2026-01-31&limit=5&offset=10", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-01-01", history.from)
	assert.Equal(t, "2026-01-31", history.to)
	assert.Equal(t, 5, history.limit)
	assert.Equal(t, 10, history.skip)

	body := decode(t, rec)
	assert.Equal(t, true, body["hasNext"])
	assert.Len(t, body["quotes"], 1)

	serve(t, app, http.MethodGet, "/api/quotes?limit=9999&offset=-3", "", nil)
	assert.Equal(t, defaultPageLimit, history.limit)
	assert.Equal(t, 0, history.skip)
}

func TestRequestID_OversizedHeaderIsReplaced(t *testing.T) {
	quoter := &fakeQuoter{}
	app := NewApp(quoter, nil, zap.NewNop(), 0)
	long := strings.Repeat("x", maxRequestIDLen+1)

	rec := serve(t, app, http.MethodPost, "/api/quote", `{"request":"hi"}`, map[string]string{requestIDHeader: long})

	rid := rec.Header().Get(requestIDHeader)
	assert.NotEqual(t, long, rid)
	_, err := uuid.Parse(rid)
	assert.NoError(t, err)
	assert.Equal(t, rid, quoter.got.RequestID)
}
