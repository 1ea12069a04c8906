package vendorapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return Client{HTTPClient: srv.Client(), BaseURL: srv.URL, Prefix: "/api/vendor"}
}

func TestReject_SendsReasonAndDecodesSuccess(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = io.WriteString(w, `{"success":true,"message":"Booking rejected"}`)
	})

	if err := c.Reject(context.Background(), "42", "not available"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/vendor/bookings/42/reject" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotBody["reason"] != "not available" {
		t.Fatalf("expected reason in body, got %v", gotBody)
	}
}

func TestEnvelope_SuccessFalseIsFailureEvenOn200(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"error":"Booking already cancelled"}`)
	})

	err := c.UpdateStatus(context.Background(), "7", StatusUpdate{Status: "cancelled", CancellationReason: "x"})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Message != "Booking already cancelled" {
		t.Fatalf("expected server message, got %q", apiErr.Message)
	}
}

func TestEnvelope_MessageFallbacks(t *testing.T) {
	res, err := decodeEnvelope[json.RawMessage](500, []byte(`{"success":false,"message":"Server busy"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.IsOk() || res.Message() != "Server busy" {
		t.Fatalf("expected Err(Server busy), got ok=%v msg=%q", res.IsOk(), res.Message())
	}

	res, err = decodeEnvelope[json.RawMessage](404, []byte(`{}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Message() != "request failed (status 404)" {
		t.Fatalf("unexpected fallback message %q", res.Message())
	}
}

func TestEnvelope_NonJSONBodyIsTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := c.PaymentStatus(context.Background(), "9")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Err == nil {
		t.Fatalf("expected wrapped decode error with status, got %+v", apiErr)
	}
}

func TestCalendar_EncodesRangeAndDecodesEvents(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"success":true,"data":{
			"availability":{"total_days":30,"booked_days":3,"available_days":27,"availability_percentage":10},
			"events":[{"id":42,"title":"Airport transfer","start":"2026-10-02","end":"2026-10-04T00:00:00Z",
			           "status":"confirmed","amount":"120.50","payment_status":"paid","booking_type":"transportation"}]}}`)
	})

	cal, err := c.Calendar(context.Background(), CalendarQuery{StartDate: "2026-10-01", EndDate: "2026-10-31"})
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if gotQuery != "end_date=2026-10-31&start_date=2026-10-01" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if cal.Availability.BookedDays != 3 || len(cal.Events) != 1 {
		t.Fatalf("unexpected calendar %+v", cal)
	}
	ev := cal.Events[0]
	if ev.ID != "42" {
		t.Fatalf("expected numeric id decoded as \"42\", got %q", ev.ID)
	}
	if ev.End.Format(DateLayout) != "2026-10-04" {
		t.Fatalf("expected RFC3339 end decoded, got %s", ev.End)
	}
	if ev.Amount.String() != "120.5" {
		t.Fatalf("expected amount 120.5, got %s", ev.Amount)
	}
}

func TestRequests_CarrySignedServiceToken(t *testing.T) {
	now := time.Unix(1700000000, 0)
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
	})
	c.SigningSecret = "s3cret"
	c.VendorID = "vendor-1"
	c.Audience = "vendor-api"
	c.Now = func() time.Time { return now }

	if _, err := c.ListBookings(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.HasPrefix(auth, "Bearer ") {
		t.Fatalf("expected bearer token, got %q", auth)
	}
	claims, err := VerifyServiceToken(strings.TrimPrefix(auth, "Bearer "), "s3cret", "vendor-api", now)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.VendorID != "vendor-1" || claims.Subject != "vendor-1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestRequestTimeout_Applies(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	c.RequestTimeout = 50 * time.Millisecond

	err := c.CancelPayment(context.Background(), "1")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestMissingBaseURL(t *testing.T) {
	_, err := Client{}.GetBooking(context.Background(), "1")
	if !IsError(err) {
		t.Fatalf("expected *Error, got %v", err)
	}
}
