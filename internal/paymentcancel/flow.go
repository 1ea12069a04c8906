package paymentcancel

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"vendordesk/internal/booking"
	"vendordesk/internal/flow"
	"vendordesk/pkg/vendorapi"
)

type API interface {
	PaymentStatus(ctx context.Context, id string) (vendorapi.PaymentDetail, error)
	CancelPayment(ctx context.Context, id string) error
}

// Form is read-only: it only exists once the payment detail loaded in full.
type Form struct {
	BookingID booking.ID      `json:"booking_id"`
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"payment_status,omitempty"`
}

type Flow struct {
	API      API
	Bookings flow.Bookings
}

// Load is phase one. On any failure the session keeps no form, so the
// caller can discard it without a half-filled confirmation step.
func (f Flow) Load(ctx context.Context, s *flow.Session) (Form, error) {
	if _, err := f.Bookings.Booking(s.BookingID); err != nil {
		return Form{}, err
	}
	d, err := f.API.PaymentStatus(ctx, string(s.BookingID))
	if err != nil {
		return Form{}, flow.Fetch("payment status", err)
	}
	if strings.TrimSpace(d.Reference) == "" {
		return Form{}, flow.FetchError{Op: "payment status", Msg: "Payment details are incomplete"}
	}

	form := &Form{
		BookingID: s.BookingID,
		Reference: strings.TrimSpace(d.Reference),
		Amount:    d.Amount,
		Currency:  strings.ToUpper(strings.TrimSpace(d.Currency)),
		Status:    d.Status,
	}
	s.SetForm(form)
	return *form, nil
}

// Submit is phase two. Success drops the held payment detail.
func (f Flow) Submit(ctx context.Context, s *flow.Session) error {
	if _, ok := flow.FormOf[Form](s); !ok {
		return flow.ValidationError{Field: "payment", Msg: "Payment details have not been loaded"}
	}
	if err := f.API.CancelPayment(ctx, string(s.BookingID)); err != nil {
		return flow.Fetch("cancel payment", err)
	}
	s.SetForm(nil)
	return nil
}
