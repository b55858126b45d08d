package booking

import (
	"net/http"
	"time"

	"github.com/41parallelobari/agenda-prenotazioni/internal/pkg/apperror"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrGuestNameRequired = apperror.New(http.StatusBadRequest, "guest name is required")
	ErrRoomRequired      = apperror.New(http.StatusBadRequest, "room is required")
	ErrInvalidDateRange  = apperror.New(http.StatusBadRequest, "check-out must be after check-in")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrInvalidSource     = apperror.New(http.StatusBadRequest, "invalid booking source")
	ErrInvalidGuests     = apperror.New(http.StatusBadRequest, "guests must be at least 1")
	ErrNegativePrice     = apperror.New(http.StatusBadRequest, "price cannot be negative")
	ErrDuplicateImport   = apperror.New(http.StatusConflict, "booking already imported from this feed")
)

// DateLayout is the wire format for check-in and check-out dates.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// Source is the channel a booking arrived through.
type Source string

const (
	SourceDirect  Source = "direct"
	SourceBooking Source = "booking"
	SourceAirbnb  Source = "airbnb"
	SourceExpedia Source = "expedia"
	SourceOther   Source = "other"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceDirect, SourceBooking, SourceAirbnb, SourceExpedia, SourceOther:
		return true
	}
	return false
}

// Booking is a stay in a single room covering the nights from CheckIn
// (inclusive) to CheckOut (exclusive). ExternalSource and ExternalUID are
// set only on rows imported from an external feed; together they identify
// the upstream event and prevent double import.
type Booking struct {
	ID             int64
	GuestName      string
	Email          string
	Phone          string
	Source         Source
	Room           string
	Status         Status
	CheckIn        time.Time
	CheckOut       time.Time
	Guests         int
	Price          decimal.Decimal
	Notes          string
	ExternalSource *string
	ExternalUID    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Nights returns how many nights the booking occupies.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// Filter narrows List results. Fields are conjunctive; zero values are
// ignored.
type Filter struct {
	From   *time.Time // keep bookings with check-out after this date
	To     *time.Time // keep bookings with check-in before this date
	Status Status
	Room   string
	Search string // case-insensitive substring over guest name, email, phone, notes
}
