package booking

import (
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrNotFound = errors.New("booking not found")

// Store is the in-memory cache of the dashboard's booking list. It is only
// ever replaced wholesale by the reload path; readers get copies.
type Store struct {
	mu       sync.RWMutex
	bookings map[ID]Booking
	order    []ID
	loadedAt time.Time
}

func NewStore() *Store {
	return &Store{bookings: map[ID]Booking{}}
}

func (s *Store) Get(id ID) (Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return Booking{}, ErrNotFound
	}
	return clone(b), nil
}

// List returns bookings in the order the last reload delivered them.
func (s *Store) List() []Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Booking, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, clone(s.bookings[id]))
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// LoadedAt is the time of the last Replace, zero before the first one.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Replace swaps the whole cache. Later duplicates of an id win but keep the
// position of the first occurrence.
func (s *Store) Replace(list []Booking, at time.Time) {
	m := make(map[ID]Booking, len(list))
	order := make([]ID, 0, len(list))
	for _, b := range list {
		if _, seen := m[b.ID]; !seen {
			order = append(order, b.ID)
		}
		m[b.ID] = clone(b)
	}

	s.mu.Lock()
	s.bookings = m
	s.order = order
	s.loadedAt = at
	s.mu.Unlock()
}

// CountByStatus is used by the dashboard summary.
func (s *Store) CountByStatus() map[Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[Status]int{}
	for _, b := range s.bookings {
		out[b.Status]++
	}
	return out
}

func clone(b Booking) Booking {
	if b.Notes != nil {
		notes := make([]Note, len(b.Notes))
		copy(notes, b.Notes)
		b.Notes = notes
	}
	return b
}

// SortedStatuses returns the keys of a status count map in a stable order.
func SortedStatuses(m map[Status]int) []Status {
	out := make([]Status, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
