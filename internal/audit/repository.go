package audit

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
)

type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Entry is one request a flow sent to the vendor API.
type Entry struct {
	SessionID string
	Flow      string
	BookingID string
	Outcome   Outcome
	Message   string
	Metadata  any
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Repository writes to vendor_flow_actions. *pgxpool.Pool satisfies execer.
type Repository struct {
	db execer
}

func NewRepository(db execer) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Record(ctx context.Context, e Entry) error {
	var meta *string
	if e.Metadata != nil {
		b, _ := json.Marshal(e.Metadata)
		s := string(b)
		meta = &s
	}
	var msg *string
	if e.Message != "" {
		msg = &e.Message
	}
	const q = `
INSERT INTO vendor_flow_actions (session_id, flow, booking_id, outcome, message, metadata)
VALUES ($1, $2, $3, $4, $5, CAST($6 AS jsonb))
`
	_, err := r.db.Exec(ctx, q, e.SessionID, e.Flow, e.BookingID, string(e.Outcome), msg, meta)
	return err
}

// Discard is the recorder used when no database is configured.
type Discard struct{}

func (Discard) Record(context.Context, Entry) error { return nil }

// Memory keeps entries in process; used by tests and the dev fake stack.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

func (m *Memory) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
