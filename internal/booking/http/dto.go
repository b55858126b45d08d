package http

import (
	"time"

	"github.com/41parallelobari/agenda-prenotazioni/internal/booking"
	"github.com/shopspring/decimal"
)

// ListBookingsRequest defines query parameters for listing bookings. The
// date window keeps any booking whose stay intersects [from, to); an
// inverted window simply matches nothing.
type ListBookingsRequest struct {
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Status string `form:"status" binding:"omitempty,oneof=confirmed pending cancelled"`
	Room   string `form:"room"`
	Search string `form:"q"`
}

// BookingRequest is the payload for creating or fully replacing a booking.
// Dates travel as YYYY-MM-DD strings; source, status and guests fall back
// to the register defaults when omitted.
type BookingRequest struct {
	GuestName string          `json:"guest_name" binding:"required"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Source    string          `json:"source" binding:"omitempty,oneof=direct booking airbnb expedia other"`
	Room      string          `json:"room" binding:"required"`
	Status    string          `json:"status" binding:"omitempty,oneof=confirmed pending cancelled"`
	CheckIn   string          `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut  string          `json:"check_out" binding:"required,datetime=2006-01-02"`
	Guests    int             `json:"guests" binding:"omitempty,min=1,max=10"`
	Price     decimal.Decimal `json:"price"`
	Notes     string          `json:"notes"`
}

// Validate performs custom validation for BookingRequest.
func (r *BookingRequest) Validate() error {
	checkIn, _ := time.Parse(booking.DateLayout, r.CheckIn)
	checkOut, _ := time.Parse(booking.DateLayout, r.CheckOut)
	if !checkOut.After(checkIn) {
		return booking.ErrInvalidDateRange
	}
	return nil
}

// toInput assumes binding has already validated the date strings.
func (r *BookingRequest) toInput() booking.Input {
	checkIn, _ := time.Parse(booking.DateLayout, r.CheckIn)
	checkOut, _ := time.Parse(booking.DateLayout, r.CheckOut)

	in := booking.Input{
		GuestName: r.GuestName,
		Email:     r.Email,
		Phone:     r.Phone,
		Source:    booking.Source(r.Source),
		Room:      r.Room,
		Status:    booking.Status(r.Status),
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    r.Guests,
		Price:     r.Price,
		Notes:     r.Notes,
	}

	if in.Source == "" {
		in.Source = booking.SourceDirect
	}
	if in.Status == "" {
		in.Status = booking.StatusConfirmed
	}
	if in.Guests == 0 {
		in.Guests = 2
	}

	return in
}

type BookingResponse struct {
	ID             int64           `json:"id"`
	GuestName      string          `json:"guest_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Source         string          `json:"source"`
	Room           string          `json:"room"`
	Status         string          `json:"status"`
	CheckIn        string          `json:"check_in"`
	CheckOut       string          `json:"check_out"`
	Nights         int             `json:"nights"`
	Guests         int             `json:"guests"`
	Price          decimal.Decimal `json:"price"`
	Notes          string          `json:"notes"`
	ExternalSource *string         `json:"external_source,omitempty"`
	ExternalUID    *string         `json:"external_uid,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:             b.ID,
		GuestName:      b.GuestName,
		Email:          b.Email,
		Phone:          b.Phone,
		Source:         string(b.Source),
		Room:           b.Room,
		Status:         string(b.Status),
		CheckIn:        b.CheckIn.Format(booking.DateLayout),
		CheckOut:       b.CheckOut.Format(booking.DateLayout),
		Nights:         b.Nights(),
		Guests:         b.Guests,
		Price:          b.Price,
		Notes:          b.Notes,
		ExternalSource: b.ExternalSource,
		ExternalUID:    b.ExternalUID,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// BookingWithConflictsResponse pairs a saved booking with the overlapping
// bookings found at write time. The conflicts are advisory: the write has
// already happened and the operator decides what to do about the overlap.
type BookingWithConflictsResponse struct {
	Booking   BookingResponse   `json:"booking"`
	Conflicts []BookingResponse `json:"conflicts"`
}

func NewBookingWithConflicts(b *booking.Booking, conflicts []*booking.Booking) BookingWithConflictsResponse {
	items := make([]BookingResponse, len(conflicts))
	for i, cb := range conflicts {
		items[i] = NewBookingResponse(cb)
	}
	return BookingWithConflictsResponse{
		Booking:   NewBookingResponse(b),
		Conflicts: items,
	}
}

// ConflictCheckRequest defines query parameters for the conflict check.
type ConflictCheckRequest struct {
	Room      string `form:"room" binding:"required"`
	CheckIn   string `form:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut  string `form:"check_out" binding:"required,datetime=2006-01-02"`
	ExcludeID int64  `form:"exclude_id" binding:"omitempty,min=1"`
}

type ConflictCheckResponse struct {
	Overlap   bool              `json:"overlap"`
	Conflicts []BookingResponse `json:"conflicts"`
}

// OccupancyRequest defines query parameters for the occupancy grid. The
// window defaults to the current month when from is omitted and to 30 days
// past from when to is omitted.
type OccupancyRequest struct {
	From  string   `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To    string   `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Rooms []string `form:"rooms"`
}

type OccupancyResponse struct {
	From  string                `json:"from"`
	To    string                `json:"to"`
	Rooms []string              `json:"rooms"`
	Grid  booking.OccupancyGrid `json:"grid"`
}
