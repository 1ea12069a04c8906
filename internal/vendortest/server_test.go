package vendortest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"vendordesk/pkg/vendorapi"
)

func newClient(t *testing.T, s *Server) vendorapi.Client {
	t.Helper()
	ts := httptest.NewServer(s.Handler("/api/vendor"))
	t.Cleanup(ts.Close)
	return vendorapi.Client{BaseURL: ts.URL, Prefix: "/api/vendor", SigningSecret: s.Secret, Audience: s.Audience, VendorID: "v-1"}
}

func day(s string) vendorapi.Date {
	t, _ := time.Parse(vendorapi.DateLayout, s)
	return vendorapi.Date{Time: t}
}

func TestServer_RejectFlipsStatus(t *testing.T) {
	s := NewServer()
	s.Put(vendorapi.Booking{ID: "42", Status: "pending"})
	c := newClient(t, s)

	if err := c.Reject(context.Background(), "42", "not available"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	b, _ := s.Booking("42")
	if b.Status != "rejected" {
		t.Fatalf("expected rejected, got %q", b.Status)
	}
	reqs := s.Requests(http.MethodPost, "/bookings/42/reject")
	if len(reqs) != 1 || reqs[0].Body["reason"] != "not available" {
		t.Fatalf("unexpected requests: %+v", reqs)
	}
}

func TestServer_FailureIsEnvelope(t *testing.T) {
	s := NewServer()
	s.Put(vendorapi.Booking{ID: "1", Status: "confirmed"})
	s.Fail(OpNote, Failure{Success200: true, Message: "Notes are disabled"})
	c := newClient(t, s)

	err := c.AddNote(context.Background(), "1", "hello")
	if !vendorapi.IsError(err) {
		t.Fatalf("expected vendor api error, got %v", err)
	}
	if msg := err.(*vendorapi.Error).UserMessage(); msg != "Notes are disabled" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestServer_RequiresToken(t *testing.T) {
	s := NewServer()
	s.Secret = "shh"
	s.Audience = "vendor-api"
	s.Put(vendorapi.Booking{ID: "1"})

	c := newClient(t, s)
	if _, err := c.ListBookings(context.Background()); err != nil {
		t.Fatalf("signed list: %v", err)
	}
	c.SigningSecret = ""
	if _, err := c.ListBookings(context.Background()); err == nil {
		t.Fatalf("expected unsigned request rejected")
	}
}

func TestServer_CalendarSummary(t *testing.T) {
	s := NewServer()
	s.Put(vendorapi.Booking{ID: "1", Status: "confirmed", StartDate: day("2024-03-03"), EndDate: day("2024-03-04"), Amount: decimal.NewFromInt(90)})
	s.Put(vendorapi.Booking{ID: "2", Status: "rejected", StartDate: day("2024-03-05"), EndDate: day("2024-03-05")})
	c := newClient(t, s)

	cal, err := c.Calendar(context.Background(), vendorapi.CalendarQuery{StartDate: "2024-03-01", EndDate: "2024-03-10"})
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if cal.Availability.TotalDays != 10 || cal.Availability.BookedDays != 2 || cal.Availability.AvailableDays != 8 {
		t.Fatalf("unexpected availability: %+v", cal.Availability)
	}
	if cal.Availability.AvailabilityPercentage != 80 {
		t.Fatalf("expected 80%%, got %v", cal.Availability.AvailabilityPercentage)
	}
	if len(cal.Events) != 1 || cal.Events[0].ID != "1" {
		t.Fatalf("unexpected events: %+v", cal.Events)
	}
}
