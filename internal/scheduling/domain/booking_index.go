package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

// Booking is one committed (or about to be committed) task slot of a mechanic.
type Booking struct {
	AppointmentID uuid.UUID
	SlotID        uuid.UUID
	MechanicID    uuid.UUID
	Interval      sharedDomain.TimeRange
}

// BookingIndex answers overlap queries over one mechanic's bookings.
// Bookings are kept sorted by start with a running maximum of end times, so
// a query is a binary search followed by a backwards scan that stops as soon
// as no earlier booking can reach the candidate.
type BookingIndex struct {
	bookings []Booking
	maxEnd   []time.Time
}

// NewBookingIndex indexes bookings. The slice is copied.
func NewBookingIndex(bookings []Booking) *BookingIndex {
	sorted := append([]Booking(nil), bookings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Interval.Start.Before(sorted[j].Interval.Start)
	})
	idx := &BookingIndex{bookings: sorted, maxEnd: make([]time.Time, len(sorted))}
	idx.rebuildFrom(0)
	return idx
}

func (x *BookingIndex) Len() int { return len(x.bookings) }

// Add inserts b, keeping the index ordered.
func (x *BookingIndex) Add(b Booking) {
	pos := sort.Search(len(x.bookings), func(i int) bool {
		return x.bookings[i].Interval.Start.After(b.Interval.Start)
	})
	x.bookings = append(x.bookings, Booking{})
	copy(x.bookings[pos+1:], x.bookings[pos:])
	x.bookings[pos] = b
	x.maxEnd = append(x.maxEnd, time.Time{})
	x.rebuildFrom(pos)
}

// Overlapping returns every booking overlapping r, ordered by start.
func (x *BookingIndex) Overlapping(r sharedDomain.TimeRange) []Booking {
	var out []Booking
	x.scan(r, func(b Booking) bool {
		out = append(out, b)
		return true
	})
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// FirstConflict returns a booking overlapping r that does not belong to
// excludeSlot.
func (x *BookingIndex) FirstConflict(r sharedDomain.TimeRange, excludeSlot uuid.UUID) (Booking, bool) {
	var found Booking
	ok := false
	x.scan(r, func(b Booking) bool {
		if b.SlotID == excludeSlot {
			return true
		}
		found, ok = b, true
		return false
	})
	return found, ok
}

// scan visits overlapping bookings from the latest start backwards until
// visit returns false.
func (x *BookingIndex) scan(r sharedDomain.TimeRange, visit func(Booking) bool) {
	// Bookings at or after i start no earlier than r ends.
	i := sort.Search(len(x.bookings), func(i int) bool {
		return !x.bookings[i].Interval.Start.Before(r.End)
	})
	for j := i - 1; j >= 0 && x.maxEnd[j].After(r.Start); j-- {
		if x.bookings[j].Interval.End.After(r.Start) {
			if !visit(x.bookings[j]) {
				return
			}
		}
	}
}

func (x *BookingIndex) rebuildFrom(pos int) {
	for i := pos; i < len(x.bookings); i++ {
		end := x.bookings[i].Interval.End
		if i > 0 && x.maxEnd[i-1].After(end) {
			end = x.maxEnd[i-1]
		}
		x.maxEnd[i] = end
	}
}
