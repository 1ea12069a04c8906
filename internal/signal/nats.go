package signal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"vendordesk/internal/booking"
	"vendordesk/pkg/logger"
)

const (
	SubjectReload  = "bookings.reload"
	SubjectRefresh = "bookings.refresh"
)

// Event is the JSON payload published for both subjects. BookingID is empty on reloads.
type Event struct {
	BookingID booking.ID `json:"booking_id,omitempty"`
	At        time.Time  `json:"at"`
}

type conn interface {
	Publish(subject string, data []byte) error
}

// NATS publishes signals so dashboards in other processes can re-query too.
// Publish failures are logged; signals are best effort.
type NATS struct {
	conn   conn
	nc     *nats.Conn
	prefix string
	log    *slog.Logger
	now    func() time.Time
}

func ConnectNATS(url, prefix string, log *slog.Logger) (*NATS, error) {
	nc, err := nats.Connect(url, nats.Name("vendordesk"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	n := newNATS(nc, prefix, log)
	n.nc = nc
	return n, nil
}

func newNATS(c conn, prefix string, log *slog.Logger) *NATS {
	if log == nil {
		log = logger.Discard()
	}
	return &NATS{conn: c, prefix: prefix, log: log, now: time.Now}
}

// Subject joins the configured prefix and a subject name.
func (n *NATS) Subject(name string) string {
	if n.prefix == "" {
		return name
	}
	return n.prefix + "." + name
}

func (n *NATS) Reload() {
	n.publish(SubjectReload, Event{At: n.now().UTC()})
}

func (n *NATS) RefreshOne(id booking.ID) {
	n.publish(SubjectRefresh, Event{BookingID: id, At: n.now().UTC()})
}

func (n *NATS) publish(name string, e Event) {
	subject := n.Subject(name)
	payload, err := json.Marshal(e)
	if err != nil {
		n.log.Error("marshal signal", "subject", subject, "error", err)
		return
	}
	if err := n.conn.Publish(subject, payload); err != nil {
		n.log.Warn("publish signal failed", "subject", subject, "error", err)
		return
	}
	n.log.Debug("signal published", "subject", subject, "booking_id", e.BookingID)
}

// Close flushes pending messages and closes the connection.
func (n *NATS) Close() {
	if n.nc == nil {
		return
	}
	if err := n.nc.Drain(); err != nil {
		n.nc.Close()
	}
}
