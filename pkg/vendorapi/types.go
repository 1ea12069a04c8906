package vendorapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ID is an opaque booking identifier. The API sends it as a string or a number.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("booking id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

const DateLayout = "2006-01-02"

// Date accepts either YYYY-MM-DD or RFC3339 on the wire and always encodes as YYYY-MM-DD.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		if string(bytes.TrimSpace(b)) == "null" {
			d.Time = time.Time{}
			return nil
		}
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q", s)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

type Note struct {
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

type Booking struct {
	ID            ID              `json:"id"`
	Title         string          `json:"title,omitempty"`
	CustomerName  string          `json:"customer_name,omitempty"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	StartDate     Date            `json:"start_date"`
	EndDate       Date            `json:"end_date"`
	BookingType   string          `json:"booking_type"`
	Notes         []Note          `json:"notes,omitempty"`
}

type StatusUpdate struct {
	Status             string `json:"status"`
	Notes              string `json:"notes,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

type CalendarQuery struct {
	StartDate string `url:"start_date"`
	EndDate   string `url:"end_date"`
}

type Availability struct {
	TotalDays              int     `json:"total_days"`
	BookedDays             int     `json:"booked_days"`
	AvailableDays          int     `json:"available_days"`
	AvailabilityPercentage float64 `json:"availability_percentage"`
}

type CalendarEvent struct {
	ID            ID              `json:"id"`
	Title         string          `json:"title"`
	Start         Date            `json:"start"`
	End           Date            `json:"end"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	PaymentStatus string          `json:"payment_status"`
	BookingType   string          `json:"booking_type"`
}

type Calendar struct {
	Availability Availability    `json:"availability"`
	Events       []CalendarEvent `json:"events"`
}

type PaymentDetail struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status,omitempty"`
}
