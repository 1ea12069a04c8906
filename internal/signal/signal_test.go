package signal

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"vendordesk/internal/booking"
)

type recordSink struct {
	reloads  int
	refreshs []booking.ID
}

func (r *recordSink) Reload()                  { r.reloads++ }
func (r *recordSink) RefreshOne(id booking.ID) { r.refreshs = append(r.refreshs, id) }

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return f.err
}

func TestFanout(t *testing.T) {
	a, b := &recordSink{}, &recordSink{}
	f := Fanout{a, b}
	f.Reload()
	f.RefreshOne("42")
	if a.reloads != 1 || b.reloads != 1 {
		t.Fatalf("expected both sinks reloaded")
	}
	if len(b.refreshs) != 1 || b.refreshs[0] != "42" {
		t.Fatalf("unexpected refreshes: %v", b.refreshs)
	}
}

func TestNATS_Subjects(t *testing.T) {
	c := &fakeConn{}
	n := newNATS(c, "vendordesk", nil)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return at }

	n.Reload()
	n.RefreshOne("42")

	if len(c.subjects) != 2 || c.subjects[0] != "vendordesk.bookings.reload" || c.subjects[1] != "vendordesk.bookings.refresh" {
		t.Fatalf("unexpected subjects: %v", c.subjects)
	}
	var e Event
	if err := json.Unmarshal(c.payloads[1], &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.BookingID != "42" || !e.At.Equal(at) {
		t.Fatalf("unexpected payload: %+v", e)
	}
}

func TestNATS_PublishErrorIsSwallowed(t *testing.T) {
	c := &fakeConn{err: errors.New("nats: connection closed")}
	n := newNATS(c, "", nil)
	n.Reload()
	if len(c.subjects) != 1 || c.subjects[0] != "bookings.reload" {
		t.Fatalf("unexpected subjects: %v", c.subjects)
	}
}
