package booking

import "time"

// OccupancyGrid maps each date of a period to per-room occupancy flags.
// Dates are keyed in DateLayout form; a cell is 1 when some booking covers
// that night, else 0.
type OccupancyGrid map[string]map[string]int

// ProjectOccupancy spreads the given bookings over the nights they cover
// and marks each (date, room) cell within [from, to] inclusive. The grid
// always has one row per date in the period and one column per requested
// room; bookings for rooms outside the set are ignored. A booking covers
// the nights from check-in up to but not including check-out.
//
// Status is not consulted: cancelled stays still show on the calendar.
// Only the conflict check skips them.
func ProjectOccupancy(bookings []*Booking, rooms []string, from, to time.Time) OccupancyGrid {
	grid := make(OccupancyGrid)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		row := make(map[string]int, len(rooms))
		for _, room := range rooms {
			row[room] = 0
		}
		grid[d.Format(DateLayout)] = row
	}

	for _, b := range bookings {
		for d := b.CheckIn; d.Before(b.CheckOut); d = d.AddDate(0, 0, 1) {
			if d.Before(from) || d.After(to) {
				continue
			}
			row := grid[d.Format(DateLayout)]
			if _, ok := row[b.Room]; !ok {
				continue
			}
			row[b.Room] = 1
		}
	}

	return grid
}
