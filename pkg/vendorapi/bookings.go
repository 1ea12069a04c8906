package vendorapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/google/go-querystring/query"
)

func bookingPath(id string, suffix string) string {
	return "/bookings/" + url.PathEscape(id) + suffix
}

func (c Client) ListBookings(ctx context.Context) ([]Booking, error) {
	return do[[]Booking](ctx, c, "list bookings", http.MethodGet, "/bookings", nil, nil)
}

func (c Client) GetBooking(ctx context.Context, id string) (Booking, error) {
	return do[Booking](ctx, c, "get booking", http.MethodGet, bookingPath(id, ""), nil, nil)
}

func (c Client) UpdateStatus(ctx context.Context, id string, update StatusUpdate) error {
	_, err := do[json.RawMessage](ctx, c, "update status", http.MethodPut, bookingPath(id, "/status"), nil, update)
	return err
}

func (c Client) AddNote(ctx context.Context, id string, note string) error {
	_, err := do[json.RawMessage](ctx, c, "add note", http.MethodPost, bookingPath(id, "/notes"), nil, map[string]string{"note": note})
	return err
}

func (c Client) Reject(ctx context.Context, id string, reason string) error {
	_, err := do[json.RawMessage](ctx, c, "reject booking", http.MethodPost, bookingPath(id, "/reject"), nil, map[string]string{"reason": reason})
	return err
}

func (c Client) Calendar(ctx context.Context, q CalendarQuery) (Calendar, error) {
	v, err := query.Values(q)
	if err != nil {
		return Calendar{}, &Error{Op: "calendar", Message: "encode query failed", Err: err}
	}
	return do[Calendar](ctx, c, "calendar", http.MethodGet, "/bookings/calendar", v, nil)
}
