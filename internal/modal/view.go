package modal

import (
	"errors"

	"vendordesk/internal/booking"
	"vendordesk/internal/flow"
	"vendordesk/internal/note"
	"vendordesk/internal/paymentcancel"
	"vendordesk/internal/rejection"
	"vendordesk/internal/statuschange"
)

// View is what the dashboard renders for a session.
type View struct {
	SessionID  string     `json:"session_id"`
	Kind       flow.Kind  `json:"kind"`
	BookingID  booking.ID `json:"booking_id"`
	Backdrop   string     `json:"backdrop"`
	Submitting bool       `json:"submitting"`
	Closed     bool       `json:"closed"`
	Error      string     `json:"error,omitempty"`
	ErrorField string     `json:"error_field,omitempty"`
	ErrorKind  string     `json:"error_kind,omitempty"`
	Form       any        `json:"form,omitempty"`
}

func newView(s *flow.Session) View {
	v := View{
		SessionID:  s.ID,
		Kind:       s.Kind,
		BookingID:  s.BookingID,
		Backdrop:   s.Backdrop(),
		Submitting: s.InFlight(),
		Closed:     s.Closed(),
	}
	v.Form = formValue(s)
	if err := s.Err(); err != nil {
		v.Error = err.Error()
		var ve flow.ValidationError
		switch {
		case errors.As(err, &ve):
			v.ErrorKind = "validation"
			v.ErrorField = ve.Field
		case flow.IsFetch(err):
			v.ErrorKind = "fetch"
		default:
			v.ErrorKind = "state"
		}
	}
	return v
}

// formValue snapshots the typed form under the session lock so the view
// never aliases session state.
func formValue(s *flow.Session) any {
	switch s.Form().(type) {
	case *statuschange.Form:
		f, _ := flow.FormOf[statuschange.Form](s)
		return f
	case *note.Form:
		f, _ := flow.FormOf[note.Form](s)
		return f
	case *rejection.Form:
		f, _ := flow.FormOf[rejection.Form](s)
		return f
	case *paymentcancel.Form:
		f, _ := flow.FormOf[paymentcancel.Form](s)
		return f
	}
	return nil
}
