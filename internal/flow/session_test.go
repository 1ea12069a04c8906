package flow

import (
	"errors"
	"testing"
	"time"

	"vendordesk/pkg/vendorapi"
)

type testForm struct {
	Text string
}

func TestSession_SingleRequestSlot(t *testing.T) {
	s := NewSession(KindNote, "1", time.Now())
	if err := s.Begin(); err != nil {
		t.Fatalf("first begin: %v", err)
	}
	if err := s.Begin(); !errors.Is(err, ErrRequestInFlight) {
		t.Fatalf("expected ErrRequestInFlight, got %v", err)
	}
	s.End()
	if err := s.Begin(); err != nil {
		t.Fatalf("begin after end: %v", err)
	}
}

func TestSession_CloseClearsState(t *testing.T) {
	s := NewSession(KindReject, "1", time.Now())
	s.SetErr(ValidationError{Msg: "too short"})
	s.SetForm(&testForm{Text: "abc"})

	s.Close()

	if s.Err() != nil || s.Form() != nil {
		t.Fatalf("expected error and form cleared, got err=%v form=%v", s.Err(), s.Form())
	}
	if err := s.Begin(); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestUpdateAndFormOf(t *testing.T) {
	s := NewSession(KindNote, "1", time.Now())
	if _, ok := FormOf[testForm](s); ok {
		t.Fatalf("expected no form yet")
	}
	s.SetForm(&testForm{})
	Update(s, func(f *testForm) { f.Text = "hello" })

	got, ok := FormOf[testForm](s)
	if !ok || got.Text != "hello" {
		t.Fatalf("expected updated form, got %+v ok=%v", got, ok)
	}
}

func TestBackdropIsPerKind(t *testing.T) {
	s := NewSession(KindPaymentCancel, "1", time.Now())
	if s.Backdrop() != "modal-backdrop-payment_cancel" {
		t.Fatalf("unexpected backdrop %q", s.Backdrop())
	}
}

func TestFetch_UsesAPIMessage(t *testing.T) {
	err := Fetch("reject", &vendorapi.Error{Op: "reject booking", Message: "Booking already rejected"})
	if !IsFetch(err) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if err.Error() != "Booking already rejected" {
		t.Fatalf("expected API message, got %q", err.Error())
	}
	if !vendorapi.IsError(err) {
		t.Fatalf("expected wrapped vendor api error")
	}
}

func TestFetch_PassesValidationThrough(t *testing.T) {
	err := Fetch("x", ValidationError{Field: "note", Msg: "empty"})
	if !IsValidation(err) || IsFetch(err) {
		t.Fatalf("expected validation error untouched, got %T", err)
	}
}
