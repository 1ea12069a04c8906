package availability

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"vendordesk/internal/flow"
	"vendordesk/pkg/vendorapi"
)

type API interface {
	Calendar(ctx context.Context, q vendorapi.CalendarQuery) (vendorapi.Calendar, error)
}

type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateEmpty     State = "empty"
	StatePopulated State = "populated"
	StateFailed    State = "failed"
)

type View struct {
	State   State    `json:"state"`
	Start   string   `json:"start_date,omitempty"`
	End     string   `json:"end_date,omitempty"`
	Summary *Summary `json:"availability,omitempty"`
	Events  []Event  `json:"events"`
	Error   string   `json:"error,omitempty"`
}

// Aggregator holds the calendar panel's current render. Every fetch replaces
// it entirely; a response from a superseded fetch is dropped.
type Aggregator struct {
	API API
	Now func() time.Time
	// Currency labels amounts whose event carries no currency of its own.
	Currency string

	mu   sync.Mutex
	gen  uint64
	view View
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Aggregator) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.view.State == "" {
		return View{State: StateIdle, Events: []Event{}}
	}
	return a.view
}

// MonthRange is the first and last calendar day of t's month.
func MonthRange(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// ParseRange applies the month defaults to unset bounds and validates the rest.
func ParseRange(start, end string, now time.Time) (time.Time, time.Time, error) {
	defStart, defEnd := MonthRange(now)
	s, err := parseBound("start_date", start, defStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := parseBound("end_date", end, defEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if s.After(e) {
		return time.Time{}, time.Time{}, flow.ValidationError{Field: "end_date", Msg: "End date must not be before start date"}
	}
	return s, e, nil
}

func parseBound(field, v string, def time.Time) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	t, err := time.Parse(vendorapi.DateLayout, v)
	if err != nil {
		return time.Time{}, flow.ValidationError{Field: field, Msg: "Please enter a valid date (YYYY-MM-DD) for " + field}
	}
	return t, nil
}

// Fetch validates the range, switches the view to loading, and issues one
// calendar request. Validation failures leave the previous view untouched.
func (a *Aggregator) Fetch(ctx context.Context, start, end string) (View, error) {
	s, e, err := ParseRange(start, end, a.now())
	if err != nil {
		return a.View(), err
	}
	q := vendorapi.CalendarQuery{StartDate: s.Format(vendorapi.DateLayout), EndDate: e.Format(vendorapi.DateLayout)}

	a.mu.Lock()
	a.gen++
	gen := a.gen
	a.view = View{State: StateLoading, Start: q.StartDate, End: q.EndDate, Events: []Event{}}
	a.mu.Unlock()

	cal, err := a.API.Calendar(ctx, q)

	next := View{Start: q.StartDate, End: q.EndDate, Events: []Event{}}
	if err != nil {
		err = flow.Fetch("calendar", err)
		next.State = StateFailed
		next.Error = err.Error()
	} else {
		next = render(q, cal, a.Currency)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return a.view, err
	}
	a.view = next
	return next, err
}

func render(q vendorapi.CalendarQuery, cal vendorapi.Calendar, fallbackCurrency string) View {
	v := View{
		Start: q.StartDate,
		End:   q.EndDate,
		Summary: &Summary{
			TotalDays:              cal.Availability.TotalDays,
			BookedDays:             cal.Availability.BookedDays,
			AvailableDays:          cal.Availability.AvailableDays,
			AvailabilityPercentage: cal.Availability.AvailabilityPercentage,
			PercentageText:         percentText(cal.Availability.AvailabilityPercentage),
		},
		Events: make([]Event, 0, len(cal.Events)),
	}
	if len(cal.Events) == 0 {
		v.State = StateEmpty
		return v
	}

	events := make([]vendorapi.CalendarEvent, len(cal.Events))
	copy(events, cal.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start.Time) })
	for _, ev := range events {
		v.Events = append(v.Events, fromAPI(ev, fallbackCurrency))
	}
	v.State = StatePopulated
	return v
}
