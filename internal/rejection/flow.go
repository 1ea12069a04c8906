package rejection

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"vendordesk/internal/booking"
	"vendordesk/internal/flow"
)

const MinReasonLength = 10

const (
	LabelSubmit     = "Reject Booking"
	LabelSubmitting = "Rejecting..."
)

type Stage string

const (
	StageEditing    Stage = "editing"
	StageConfirming Stage = "confirming"
	StageSubmitting Stage = "submitting"
)

type API interface {
	Reject(ctx context.Context, id string, reason string) error
}

type Form struct {
	BookingID booking.ID `json:"booking_id"`
	Reason    string     `json:"reason"`
	Count     int        `json:"count"`
	MinLength int        `json:"min_length"`
	Valid     bool       `json:"valid"`
	// Hint is the live message under the textarea; empty while the reason is
	// blank or long enough.
	Hint        string `json:"hint,omitempty"`
	Stage       Stage  `json:"stage"`
	SubmitLabel string `json:"submit_label"`
	Prompt      string `json:"prompt,omitempty"`
}

type Flow struct {
	API      API
	Bookings flow.Bookings
}

func (f Flow) Open(s *flow.Session) (Form, error) {
	b, err := f.Bookings.Booking(s.BookingID)
	if err != nil {
		return Form{}, err
	}
	form := &Form{
		BookingID:   b.ID,
		MinLength:   MinReasonLength,
		Stage:       StageEditing,
		SubmitLabel: LabelSubmit,
	}
	s.SetForm(form)
	return *form, nil
}

// Input is called on every keystroke with the full textarea value.
func (f Flow) Input(s *flow.Session, text string) (Form, error) {
	var busy bool
	form, ok := flow.Update(s, func(form *Form) {
		if form.Stage == StageSubmitting {
			busy = true
			return
		}
		form.Stage = StageEditing
		form.Prompt = ""
		setReason(form, text)
	})
	if !ok {
		return Form{}, flow.ErrSessionClosed
	}
	if busy {
		return form, flow.ErrRequestInFlight
	}
	return form, nil
}

// Submit validates the reason and asks for confirmation. No request is sent.
func (f Flow) Submit(s *flow.Session) (Form, error) {
	var verr error
	form, ok := flow.Update(s, func(form *Form) {
		switch form.Stage {
		case StageSubmitting:
			verr = flow.ErrRequestInFlight
			return
		case StageConfirming:
			return
		}
		if err := ValidateReason(form.Reason); err != nil {
			verr = err
			return
		}
		form.Stage = StageConfirming
		form.Prompt = fmt.Sprintf("Are you sure you want to reject booking #%s? This action cannot be undone.", form.BookingID)
	})
	if !ok {
		return Form{}, flow.ErrSessionClosed
	}
	return form, verr
}

// Back cancels the confirmation step and returns to editing.
func (f Flow) Back(s *flow.Session) (Form, error) {
	form, ok := flow.Update(s, func(form *Form) {
		if form.Stage == StageConfirming {
			form.Stage = StageEditing
			form.Prompt = ""
		}
	})
	if !ok {
		return Form{}, flow.ErrSessionClosed
	}
	return form, nil
}

// Confirm sends the rejection. A failure puts the form back into editing
// with the original label and the typed reason intact.
func (f Flow) Confirm(ctx context.Context, s *flow.Session) error {
	var verr error
	form, ok := flow.Update(s, func(form *Form) {
		if form.Stage != StageConfirming {
			verr = flow.ValidationError{Field: "confirmation", Msg: "Please confirm the rejection first"}
			return
		}
		form.Stage = StageSubmitting
		form.SubmitLabel = LabelSubmitting
	})
	if !ok {
		return flow.ErrSessionClosed
	}
	if verr != nil {
		return verr
	}

	err := f.API.Reject(ctx, string(s.BookingID), strings.TrimSpace(form.Reason))
	if err != nil {
		flow.Update(s, func(form *Form) {
			form.Stage = StageEditing
			form.SubmitLabel = LabelSubmit
			form.Prompt = ""
		})
		return flow.Fetch("reject booking", err)
	}
	return nil
}

func ValidateReason(reason string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(reason)); n < MinReasonLength {
		return flow.ValidationError{
			Field: "reason",
			Msg:   fmt.Sprintf("Rejection reason must be at least %d characters", MinReasonLength),
		}
	}
	return nil
}

func setReason(form *Form, text string) {
	form.Reason = text
	form.Count = utf8.RuneCountInString(text)
	trimmed := utf8.RuneCountInString(strings.TrimSpace(text))
	form.Valid = trimmed >= MinReasonLength
	switch {
	case form.Valid || trimmed == 0:
		form.Hint = ""
	default:
		form.Hint = fmt.Sprintf("%d more characters required", MinReasonLength-trimmed)
	}
}
