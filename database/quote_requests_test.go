package database

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordColumns = []string{"id", "request_id", "request_text", "email", "phone", "client_ip", "routing", "success", "quote_count", "parsed", "quotes", "created_at"}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Store{DB: db}, mock
}

func TestSaveQuoteRequest(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quote_requests")).
		WithArgs("rec-1", "req-1", "ship a box", "a@b.co", "", "203.0.113.9", "Shippo only", true, 2,
			[]byte(`{"origin":"Miami"}`), []byte(`[]`), created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := store.SaveQuoteRequest(context.Background(), QuoteRecord{
		ID:          "rec-1",
		RequestID:   "req-1",
		RequestText: "ship a box",
		Email:       "a@b.co",
		ClientIP:    "203.0.113.9",
		Routing:     "Shippo only",
		Success:     true,
		QuoteCount:  2,
		Parsed:      json.RawMessage(`{"origin":"Miami"}`),
		CreatedAt:   created,
	})
	require.NoError(t, err)
	assert.Equal(t, "rec-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveQuoteRequest_AssignsID(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quote_requests")).
		WithArgs(sqlmock.AnyArg(), "", "text", "", "", "", "incomplete", false, 0, []byte(`{}`), []byte(`[]`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := store.SaveQuoteRequest(context.Background(), QuoteRecord{RequestText: "text", Routing: "incomplete"})
	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveQuoteRequest_Error(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quote_requests")).WillReturnError(assert.AnError)

	_, err := store.SaveQuoteRequest(context.Background(), QuoteRecord{ID: "x"})
	require.ErrorIs(t, err, assert.AnError)
}

func TestLoadQuoteRequest(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(recordColumns).
		AddRow("req-1", "rid-7", "ship a box", "", "", "198.51.100.4", "Both", true, 3, []byte(`{}`), []byte(`[{"price":1}]`), created)
	mock.ExpectQuery(regexp.QuoteMeta("FROM quote_requests WHERE id = ?")).WithArgs("req-1").WillReturnRows(rows)

	rec, err := store.LoadQuoteRequest(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, "Both", rec.Routing)
	assert.Equal(t, "rid-7", rec.RequestID)
	assert.Equal(t, "198.51.100.4", rec.ClientIP)
	assert.Equal(t, 3, rec.QuoteCount)
	assert.JSONEq(t, `[{"price":1}]`, string(rec.Quotes))
	assert.Equal(t, created, rec.CreatedAt)
}

func TestLoadQuoteRequest_NotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM quote_requests WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.LoadQuoteRequest(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.LoadQuoteRequest(context.Background(), "  ")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoadQuoteRequestsPage(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows(recordColumns).
		AddRow("a", "", "t", "", "", "", "Both", true, 1, []byte(`{}`), []byte(`[]`), now).
		AddRow("b", "", "t", "", "", "", "Both", true, 1, []byte(`{}`), []byte(`[]`), now).
		AddRow("c", "", "t", "", "", "", "Both", true, 1, []byte(`{}`), []byte(`[]`), now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM quote_requests WHERE created_at >= ? ORDER BY created_at DESC LIMIT ? OFFSET ?")).
		WithArgs("2025-01-01 00:00:00", 3, 0).
		WillReturnRows(rows)

	records, hasNext, err := store.LoadQuoteRequestsPage(context.Background(), "2025-01-01", "", 2, 0)
	require.NoError(t, err)
	assert.True(t, hasNext)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveQuoteRequest_BoundsTransportFields(t *testing.T) {
	store, mock := newMockStore(t)
	long := strings.Repeat("r", 300)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quote_requests")).
		WithArgs(sqlmock.AnyArg(), strings.Repeat("r", maxRequestIDLen), "t", "", "", "", "Both", false, 0, []byte(`{}`), []byte(`[]`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	_, err := store.SaveQuoteRequest(context.Background(), QuoteRecord{RequestID: long, RequestText: "t", Routing: "Both"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
