package signal

import (
	"vendordesk/internal/booking"
)

// Sink receives the two dashboard signals.
type Sink interface {
	Reload()
	RefreshOne(id booking.ID)
}

// Fanout forwards each signal to every sink in order.
type Fanout []Sink

func (f Fanout) Reload() {
	for _, s := range f {
		s.Reload()
	}
}

func (f Fanout) RefreshOne(id booking.ID) {
	for _, s := range f {
		s.RefreshOne(id)
	}
}
