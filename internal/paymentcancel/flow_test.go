package paymentcancel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"vendordesk/internal/booking"
	"vendordesk/internal/flow"
	"vendordesk/pkg/vendorapi"
)

type fakeBookings map[booking.ID]booking.Booking

func (f fakeBookings) Booking(id booking.ID) (booking.Booking, error) {
	b, ok := f[id]
	if !ok {
		return booking.Booking{}, flow.FetchError{Op: "lookup", Msg: "booking not found"}
	}
	return b, nil
}

type fakeAPI struct {
	detail    vendorapi.PaymentDetail
	statusErr error
	cancelErr error
	cancels   int
}

func (f *fakeAPI) PaymentStatus(context.Context, string) (vendorapi.PaymentDetail, error) {
	return f.detail, f.statusErr
}

func (f *fakeAPI) CancelPayment(context.Context, string) error {
	f.cancels++
	return f.cancelErr
}

func newFlow(api *fakeAPI) (Flow, *flow.Session) {
	f := Flow{API: api, Bookings: fakeBookings{"7": {ID: "7"}}}
	return f, flow.NewSession(flow.KindPaymentCancel, "7", time.Now())
}

func TestLoad_FailureLeavesNoForm(t *testing.T) {
	api := &fakeAPI{statusErr: errors.New("connection refused")}
	f, s := newFlow(api)

	if _, err := f.Load(context.Background(), s); !flow.IsFetch(err) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if s.Form() != nil {
		t.Fatalf("expected no form after failed load")
	}
}

func TestLoad_IncompleteDetailLeavesNoForm(t *testing.T) {
	api := &fakeAPI{detail: vendorapi.PaymentDetail{Amount: decimal.NewFromInt(10)}}
	f, s := newFlow(api)

	if _, err := f.Load(context.Background(), s); !flow.IsFetch(err) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if s.Form() != nil {
		t.Fatalf("expected no form for detail without reference")
	}
}

func TestLoadThenSubmit(t *testing.T) {
	api := &fakeAPI{detail: vendorapi.PaymentDetail{Reference: "PAY-1", Amount: decimal.RequireFromString("50.00"), Currency: "eur"}}
	f, s := newFlow(api)

	form, err := f.Load(context.Background(), s)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if form.Reference != "PAY-1" || form.Currency != "EUR" || !form.Amount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected form %+v", form)
	}

	if err := f.Submit(context.Background(), s); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if api.cancels != 1 {
		t.Fatalf("expected one cancel request, got %d", api.cancels)
	}
	if s.Form() != nil {
		t.Fatalf("expected payment detail cleared after success")
	}
}

func TestSubmit_FailureKeepsPopulatedForm(t *testing.T) {
	api := &fakeAPI{
		detail:    vendorapi.PaymentDetail{Reference: "PAY-1", Amount: decimal.NewFromInt(5), Currency: "USD"},
		cancelErr: &vendorapi.Error{Op: "cancel payment", Message: "Payment already settled"},
	}
	f, s := newFlow(api)
	_, _ = f.Load(context.Background(), s)

	err := f.Submit(context.Background(), s)
	if !flow.IsFetch(err) || err.Error() != "Payment already settled" {
		t.Fatalf("expected server message, got %v", err)
	}
	form, ok := flow.FormOf[Form](s)
	if !ok || form.Reference != "PAY-1" {
		t.Fatalf("expected form intact after failed cancel, got %+v", form)
	}
}

func TestSubmit_WithoutLoadFailsLocally(t *testing.T) {
	api := &fakeAPI{}
	f, s := newFlow(api)
	if err := f.Submit(context.Background(), s); !flow.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if api.cancels != 0 {
		t.Fatalf("expected no request")
	}
}
