package booking_test

import (
	"testing"

	"github.com/41parallelobari/agenda-prenotazioni/internal/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectOccupancyMarksNightsNotCheckoutDay(t *testing.T) {
	bookings := []*booking.Booking{
		{Room: "Camera 1", Status: booking.StatusConfirmed, CheckIn: date(1), CheckOut: date(3)},
	}
	rooms := []string{"Camera 1", "Camera 2"}

	grid := booking.ProjectOccupancy(bookings, rooms, date(1), date(3))

	require.Len(t, grid, 3, "one row per date in the inclusive period")
	assert.Equal(t, 1, grid["2026-06-01"]["Camera 1"])
	assert.Equal(t, 1, grid["2026-06-02"]["Camera 1"])
	assert.Equal(t, 0, grid["2026-06-03"]["Camera 1"], "checkout day is not an occupied night")

	for d, row := range grid {
		assert.Equal(t, 0, row["Camera 2"], "room without bookings must stay 0 on %s", d)
	}
}

func TestProjectOccupancyZeroInitializesEveryCell(t *testing.T) {
	rooms := []string{"Camera 1", "Appartamento"}

	grid := booking.ProjectOccupancy(nil, rooms, date(10), date(12))

	require.Len(t, grid, 3)
	for d, row := range grid {
		require.Len(t, row, len(rooms), "row %s must have one cell per room", d)
		for room, cell := range row {
			assert.Equal(t, 0, cell, "cell (%s, %s)", d, room)
		}
	}
}

func TestProjectOccupancyIgnoresRoomsOutsideTheSet(t *testing.T) {
	bookings := []*booking.Booking{
		{Room: "Suite", Status: booking.StatusConfirmed, CheckIn: date(1), CheckOut: date(3)},
	}

	grid := booking.ProjectOccupancy(bookings, []string{"Camera 1"}, date(1), date(2))

	for d, row := range grid {
		assert.NotContains(t, row, "Suite", "unrequested room must not grow a column on %s", d)
		assert.Equal(t, 0, row["Camera 1"])
	}
}

func TestProjectOccupancyClipsToThePeriod(t *testing.T) {
	bookings := []*booking.Booking{
		{Room: "Camera 1", Status: booking.StatusConfirmed, CheckIn: date(1), CheckOut: date(30)},
	}

	grid := booking.ProjectOccupancy(bookings, []string{"Camera 1"}, date(10), date(12))

	require.Len(t, grid, 3, "dates outside the period must not appear")
	assert.Equal(t, 1, grid["2026-06-10"]["Camera 1"])
	assert.Equal(t, 1, grid["2026-06-11"]["Camera 1"])
	assert.Equal(t, 1, grid["2026-06-12"]["Camera 1"])
}

func TestProjectOccupancyMarksStayStartingOnFinalDate(t *testing.T) {
	bookings := []*booking.Booking{
		{Room: "Camera 1", Status: booking.StatusConfirmed, CheckIn: date(3), CheckOut: date(5)},
	}

	grid := booking.ProjectOccupancy(bookings, []string{"Camera 1"}, date(1), date(3))

	assert.Equal(t, 0, grid["2026-06-02"]["Camera 1"])
	assert.Equal(t, 1, grid["2026-06-03"]["Camera 1"], "a stay starting on the final date occupies that night")
}

func TestProjectOccupancyCountsEveryStatus(t *testing.T) {
	bookings := []*booking.Booking{
		{Room: "Camera 1", Status: booking.StatusCancelled, CheckIn: date(1), CheckOut: date(2)},
	}

	grid := booking.ProjectOccupancy(bookings, []string{"Camera 1"}, date(1), date(1))

	assert.Equal(t, 1, grid["2026-06-01"]["Camera 1"], "the calendar shows cancelled stays too")
}
