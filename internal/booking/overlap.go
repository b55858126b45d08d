package booking

import "time"

// RangesOverlap reports whether the half-open date ranges [aIn, aOut) and
// [bIn, bOut) share at least one night. A checkout and a check-in on the
// same day do not overlap.
func RangesOverlap(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// Overlaps reports whether b occupies any night of [checkIn, checkOut).
// Cancelled bookings never overlap anything.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	if b.Status == StatusCancelled {
		return false
	}
	return RangesOverlap(b.CheckIn, b.CheckOut, checkIn, checkOut)
}
