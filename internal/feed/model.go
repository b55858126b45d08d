package feed

import (
	"fmt"
	"net/http"
	"time"

	"github.com/41parallelobari/agenda-prenotazioni/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, "no feed endpoint configured for this room")
	ErrRoomRequired = apperror.New(http.StatusBadRequest, "room is required")
	ErrInvalidURL   = apperror.New(http.StatusBadRequest, "feed url must be an absolute http(s) url")
)

// ExternalSource tags register rows imported from an OTA iCal feed and is
// the first half of their dedup key.
const ExternalSource = "booking_com_ical"

// Endpoint maps a room to the external calendar feed it syncs from. Each
// room has at most one.
type Endpoint struct {
	Room      string
	URL       string
	UpdatedAt time.Time
}

// Event is a calendar entry reduced to what the register needs.
type Event struct {
	UID     string
	Summary string
	Start   time.Time
	End     time.Time
}

// RoomResult is the outcome of one room's sync attempt.
type RoomResult struct {
	Room     string
	Imported int
	Err      error
}

// Report aggregates a sync run across all configured endpoints.
type Report struct {
	Results []RoomResult
}

// TotalImported sums the newly created bookings across all rooms.
func (r *Report) TotalImported() int {
	total := 0
	for _, res := range r.Results {
		total += res.Imported
	}
	return total
}

// FetchError reports a network, timeout or HTTP status failure while
// downloading a feed. The URL is kept out of the message since feed URLs
// embed access tokens.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("feed fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports malformed feed content.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("feed parse failed: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
