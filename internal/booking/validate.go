package booking

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Input carries the caller-supplied fields for creating or replacing a
// booking. Manual writes never set provenance; imported bookings get their
// provenance pair attached by the import path itself.
type Input struct {
	GuestName string
	Email     string
	Phone     string
	Source    Source
	Room      string
	Status    Status
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
	Price     decimal.Decimal
	Notes     string
}

// Validate checks the invariants the HTTP layer cannot express in binding
// tags. Handlers validate earlier; the service validates again so imports
// and other internal callers get the same guarantees.
func (in Input) Validate() error {
	if strings.TrimSpace(in.GuestName) == "" {
		return ErrGuestNameRequired
	}
	if strings.TrimSpace(in.Room) == "" {
		return ErrRoomRequired
	}
	if !in.CheckOut.After(in.CheckIn) {
		return ErrInvalidDateRange
	}
	if !in.Status.Valid() {
		return ErrInvalidStatus
	}
	if !in.Source.Valid() {
		return ErrInvalidSource
	}
	if in.Guests < 1 {
		return ErrInvalidGuests
	}
	if in.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// booking materializes the input as an unsaved Booking row.
func (in Input) booking() *Booking {
	return &Booking{
		GuestName: strings.TrimSpace(in.GuestName),
		Email:     in.Email,
		Phone:     in.Phone,
		Source:    in.Source,
		Room:      strings.TrimSpace(in.Room),
		Status:    in.Status,
		CheckIn:   in.CheckIn,
		CheckOut:  in.CheckOut,
		Guests:    in.Guests,
		Price:     in.Price,
		Notes:     in.Notes,
	}
}
