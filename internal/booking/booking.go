package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vendordesk/pkg/vendorapi"
)

type ID string

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRejected   Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusRejected:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

// Label is the human form used in menus and badges.
func (s Status) Label() string {
	return humanize(string(s))
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentPartial   PaymentStatus = "partially_paid"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentFailed    PaymentStatus = "failed"
)

func (p PaymentStatus) Label() string {
	if p == "" {
		return "Unknown"
	}
	return humanize(string(p))
}

type Type string

const (
	TypeTransportation Type = "transportation"
	TypeAccommodation  Type = "accommodation"
	TypeActivity       Type = "activity"
	TypeOther          Type = "other"
)

// ParseType never fails: anything unrecognized is TypeOther.
func ParseType(s string) Type {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeTransportation, TypeAccommodation, TypeActivity:
		return t
	default:
		return TypeOther
	}
}

type Note struct {
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type Booking struct {
	ID            ID              `json:"id"`
	Title         string          `json:"title,omitempty"`
	CustomerName  string          `json:"customer_name,omitempty"`
	Status        Status          `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Type          Type            `json:"booking_type"`
	Notes         []Note          `json:"notes"`
}

// FromAPI converts a wire record. Unknown statuses are kept verbatim so the
// transition table treats them as terminal rather than dropping the booking.
func FromAPI(r vendorapi.Booking) Booking {
	b := Booking{
		ID:            ID(r.ID),
		Title:         r.Title,
		CustomerName:  r.CustomerName,
		Status:        Status(strings.TrimSpace(r.Status)),
		PaymentStatus: PaymentStatus(strings.TrimSpace(r.PaymentStatus)),
		Amount:        r.Amount,
		Currency:      strings.ToUpper(strings.TrimSpace(r.Currency)),
		StartDate:     r.StartDate.Time,
		EndDate:       r.EndDate.Time,
		Type:          ParseType(r.BookingType),
	}
	for _, n := range r.Notes {
		b.Notes = append(b.Notes, Note{Body: n.Note, CreatedAt: n.CreatedAt})
	}
	return b
}

func humanize(s string) string {
	parts := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
