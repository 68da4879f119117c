package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a quote request does not exist.
var ErrNotFound = errors.New("quote request not found")

// QuoteRecord is one persisted request/response pair.
type QuoteRecord struct {
	ID          string          `json:"id"`
	RequestID   string          `json:"requestId,omitempty"`
	RequestText string          `json:"request"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	ClientIP    string          `json:"clientIp,omitempty"`
	Routing     string          `json:"routing"`
	Success     bool            `json:"success"`
	QuoteCount  int             `json:"quoteCount"`
	Parsed      json.RawMessage `json:"parsed"`
	Quotes      json.RawMessage `json:"quotes"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SaveQuoteRequest inserts a record, assigning an ID and timestamp if unset.
// The transport request ID is stored as given, bounded to its column width.
func (s *Store) SaveQuoteRequest(ctx context.Context, rec QuoteRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.RequestID = truncate(rec.RequestID, maxRequestIDLen)
	rec.ClientIP = truncate(rec.ClientIP, maxClientIPLen)
	if len(rec.Parsed) == 0 {
		rec.Parsed = json.RawMessage("{}")
	}
	if len(rec.Quotes) == 0 {
		rec.Quotes = json.RawMessage("[]")
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO quote_requests (
			id,
			request_id,
			request_text,
			email,
			phone,
			client_ip,
			routing,
			success,
			quote_count,
			parsed,
			quotes,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.RequestID, rec.RequestText, rec.Email, rec.Phone, rec.ClientIP, rec.Routing, rec.Success, rec.QuoteCount, []byte(rec.Parsed), []byte(rec.Quotes), rec.CreatedAt)
	if err != nil {
		return "", errors.Wrap(err, "save quote request")
	}
	return rec.ID, nil
}

const (
	maxRequestIDLen = 128
	maxClientIPLen  = 64
)

const quoteColumns = `id, request_id, request_text, email, phone, client_ip, routing, success, quote_count, parsed, quotes, created_at`

func (s *Store) LoadQuoteRequest(ctx context.Context, id string) (QuoteRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return QuoteRecord{}, ErrNotFound
	}
	row := s.DB.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quote_requests WHERE id = ?`, id)
	rec, err := scanQuoteRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return QuoteRecord{}, ErrNotFound
	}
	if err != nil {
		return QuoteRecord{}, errors.Wrap(err, "load quote request")
	}
	return rec, nil
}

// LoadQuoteRequestsPage lists records newest first between optional
// YYYY-MM-DD dates and reports whether another page exists.
func (s *Store) LoadQuoteRequestsPage(ctx context.Context, fromDate, toDate string, limit, offset int) ([]QuoteRecord, bool, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + quoteColumns + ` FROM quote_requests`
	args := []any{}
	clauses := []string{}
	if strings.TrimSpace(fromDate) != "" {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, fromDate+" 00:00:00")
	}
	if strings.TrimSpace(toDate) != "" {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, toDate+" 23:59:59")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit+1, offset)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, errors.Wrap(err, "list quote requests")
	}
	defer rows.Close()

	records := []QuoteRecord{}
	for rows.Next() {
		rec, err := scanQuoteRecord(rows)
		if err != nil {
			return nil, false, errors.Wrap(err, "scan quote request")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	hasNext := false
	if len(records) > limit {
		hasNext = true
		records = records[:limit]
	}
	return records, hasNext, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuoteRecord(row scanner) (QuoteRecord, error) {
	var rec QuoteRecord
	var parsed, quotes []byte
	err := row.Scan(
		&rec.ID,
		&rec.RequestID,
		&rec.RequestText,
		&rec.Email,
		&rec.Phone,
		&rec.ClientIP,
		&rec.Routing,
		&rec.Success,
		&rec.QuoteCount,
		&parsed,
		&quotes,
		&rec.CreatedAt,
	)
	if err != nil {
		return QuoteRecord{}, err
	}
	rec.Parsed = json.RawMessage(parsed)
	rec.Quotes = json.RawMessage(quotes)
	return rec, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
