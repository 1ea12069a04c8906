package modal

import (
	"context"

	"vendordesk/internal/audit"
	"vendordesk/internal/booking"
	"vendordesk/internal/flow"
	"vendordesk/internal/statuschange"
)

// openWith reserves the modal slot for kind and runs the flow's open step.
// If that step fails the slot is released again.
func (o *Orchestrator) openWith(kind flow.Kind, id booking.ID, fn func(*flow.Session) error) (View, error) {
	s, err := o.open(kind, id)
	if err != nil {
		return View{}, err
	}
	if err := fn(s); err != nil {
		o.discard(s)
		return View{}, err
	}
	o.log.Debug("modal opened", "session_id", s.ID, "flow", kind, "booking_id", id)
	return newView(s), nil
}

func (o *Orchestrator) OpenStatus(id booking.ID) (View, error) {
	return o.openWith(flow.KindStatus, id, func(s *flow.Session) error {
		_, err := o.status.Open(s)
		return err
	})
}

func (o *Orchestrator) SelectStatus(status string) (View, error) {
	return o.local(flow.KindStatus, func(s *flow.Session) error {
		_, err := o.status.Select(s, status)
		return err
	})
}

func (o *Orchestrator) SubmitStatus(ctx context.Context, in statuschange.Input) (View, error) {
	return o.submit(ctx, flow.KindStatus, signalReload, func(ctx context.Context, s *flow.Session) error {
		return o.status.Submit(ctx, s, in)
	})
}

func (o *Orchestrator) OpenNote(id booking.ID) (View, error) {
	return o.openWith(flow.KindNote, id, func(s *flow.Session) error {
		_, err := o.notes.Open(s)
		return err
	})
}

func (o *Orchestrator) SubmitNote(ctx context.Context, body string) (View, error) {
	return o.submit(ctx, flow.KindNote, signalRefreshDetails, func(ctx context.Context, s *flow.Session) error {
		return o.notes.Submit(ctx, s, body)
	})
}

func (o *Orchestrator) OpenReject(id booking.ID) (View, error) {
	return o.openWith(flow.KindReject, id, func(s *flow.Session) error {
		_, err := o.rejection.Open(s)
		return err
	})
}

// InputReject is fed every keystroke of the rejection reason. The live hint
// lives on the form; a successful input clears any earlier error.
func (o *Orchestrator) InputReject(text string) (View, error) {
	return o.local(flow.KindReject, func(s *flow.Session) error {
		_, err := o.rejection.Input(s, text)
		return err
	})
}

func (o *Orchestrator) SubmitReject() (View, error) {
	return o.local(flow.KindReject, func(s *flow.Session) error {
		_, err := o.rejection.Submit(s)
		return err
	})
}

func (o *Orchestrator) BackReject() (View, error) {
	return o.local(flow.KindReject, func(s *flow.Session) error {
		_, err := o.rejection.Back(s)
		return err
	})
}

func (o *Orchestrator) ConfirmReject(ctx context.Context) (View, error) {
	return o.submit(ctx, flow.KindReject, signalReload, o.rejection.Confirm)
}

// OpenPaymentCancel runs phase one before the modal is shown. Any failure
// discards the session, so no partially filled form is ever exposed.
func (o *Orchestrator) OpenPaymentCancel(ctx context.Context, id booking.ID) (View, error) {
	s, err := o.open(flow.KindPaymentCancel, id)
	if err != nil {
		return View{}, err
	}
	if err := s.Begin(); err != nil {
		o.discard(s)
		return View{}, err
	}
	started := o.now()
	_, err = o.paymentCancel.Load(ctx, s)
	s.End()
	if err != nil {
		o.record(ctx, s, audit.OutcomeFailed, err, started)
		o.discard(s)
		return View{}, err
	}
	return newView(s), nil
}

func (o *Orchestrator) SubmitPaymentCancel(ctx context.Context) (View, error) {
	return o.submit(ctx, flow.KindPaymentCancel, signalDelayedReload, o.paymentCancel.Submit)
}
