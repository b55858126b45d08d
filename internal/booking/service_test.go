package booking_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/41parallelobari/agenda-prenotazioni/internal/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory Repository with the same contract as the pgx
// implementation: sentinel errors, provenance uniqueness, ordered results.
type fakeRepo struct {
	nextID     int64
	rows       map[int64]*booking.Booking
	listFilter *booking.Filter
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[int64]*booking.Booking)}
}

func (f *fakeRepo) Create(ctx context.Context, b *booking.Booking) error {
	if b.ExternalSource != nil && b.ExternalUID != nil {
		for _, row := range f.rows {
			if row.ExternalSource != nil && row.ExternalUID != nil &&
				*row.ExternalSource == *b.ExternalSource && *row.ExternalUID == *b.ExternalUID {
				return booking.ErrDuplicateImport
			}
		}
	}

	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt

	clone := *b
	f.rows[b.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*booking.Booking, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	clone := *row
	return &clone, nil
}

func (f *fakeRepo) List(ctx context.Context, filter booking.Filter) ([]*booking.Booking, error) {
	f.listFilter = &filter

	var out []*booking.Booking
	for _, row := range f.rows {
		if filter.From != nil && !row.CheckOut.After(*filter.From) {
			continue
		}
		if filter.To != nil && !row.CheckIn.Before(*filter.To) {
			continue
		}
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if filter.Room != "" && row.Room != filter.Room {
			continue
		}
		clone := *row
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CheckIn.Equal(out[j].CheckIn) {
			return out[i].ID < out[j].ID
		}
		return out[i].CheckIn.Before(out[j].CheckIn)
	})
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, b *booking.Booking) error {
	if _, ok := f.rows[b.ID]; !ok {
		return booking.ErrNotFound
	}
	b.UpdatedAt = time.Now().UTC()
	clone := *b
	f.rows[b.ID] = &clone
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return booking.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRepo) ListRooms(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var rooms []string
	for _, row := range f.rows {
		if !seen[row.Room] {
			seen[row.Room] = true
			rooms = append(rooms, row.Room)
		}
	}
	sort.Strings(rooms)
	return rooms, nil
}

func (f *fakeRepo) FindOverlapping(ctx context.Context, room string, checkIn, checkOut time.Time, excludeID int64) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, row := range f.rows {
		if row.Room != room || row.ID == excludeID {
			continue
		}
		if !row.Overlaps(checkIn, checkOut) {
			continue
		}
		clone := *row
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) GetByExternalRef(ctx context.Context, source, uid string) (*booking.Booking, error) {
	for _, row := range f.rows {
		if row.ExternalSource != nil && row.ExternalUID != nil &&
			*row.ExternalSource == source && *row.ExternalUID == uid {
			clone := *row
			return &clone, nil
		}
	}
	return nil, booking.ErrNotFound
}

func newTestService(t *testing.T) (booking.Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	return booking.NewService(repo, []string{"Camera 1", "Camera 2", "Appartamento"}), repo
}

func stay(room string, in, out int) booking.Input {
	i := validInput()
	i.Room = room
	i.CheckIn = date(in)
	i.CheckOut = date(out)
	return i
}

func TestServiceCreateReportsConflictsWithoutBlocking(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, conflicts, err := svc.Create(ctx, stay("Camera 1", 1, 5))
	require.NoError(t, err)
	assert.Empty(t, conflicts)
	assert.Equal(t, int64(1), first.ID)

	second, conflicts, err := svc.Create(ctx, stay("Camera 1", 4, 6))
	require.NoError(t, err, "an overlap must not block the write")
	require.Len(t, conflicts, 1)
	assert.Equal(t, first.ID, conflicts[0].ID)

	saved, err := svc.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, saved.ID)
}

func TestServiceCreateRejectsInvalidInput(t *testing.T) {
	svc, repo := newTestService(t)

	in := stay("Camera 1", 1, 5)
	in.Guests = 0

	_, _, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, booking.ErrInvalidGuests)
	assert.Empty(t, repo.rows, "nothing may be written on validation failure")
}

func TestServiceCreateIgnoresCancelledBookingsInConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cancelled := stay("Camera 1", 1, 5)
	cancelled.Status = booking.StatusCancelled
	_, _, err := svc.Create(ctx, cancelled)
	require.NoError(t, err)

	_, conflicts, err := svc.Create(ctx, stay("Camera 1", 2, 4))
	require.NoError(t, err)
	assert.Empty(t, conflicts, "cancelled stays never count as conflicts")
}

func TestServiceUpdateMissingBooking(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Update(context.Background(), 99, stay("Camera 1", 1, 5))
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestServiceUpdateReplacesRowAndDetachesProvenance(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	imported, _, err := svc.Import(ctx, stay("Camera 1", 1, 5), "booking_com_ical", "evt-1")
	require.NoError(t, err)
	require.NotNil(t, imported.ExternalSource)

	edit := stay("Camera 1", 2, 6)
	edit.GuestName = "Renamed Guest"
	updated, conflicts, err := svc.Update(ctx, imported.ID, edit)
	require.NoError(t, err)

	assert.Empty(t, conflicts, "the booking must not conflict with itself")
	assert.Equal(t, "Renamed Guest", updated.GuestName)
	assert.Nil(t, updated.ExternalSource, "a manual edit detaches the feed provenance")
	assert.Nil(t, updated.ExternalUID)
	assert.Equal(t, imported.CreatedAt, updated.CreatedAt, "creation time survives the replace")

	row := repo.rows[imported.ID]
	assert.Nil(t, row.ExternalSource)
	assert.Equal(t, "Renamed Guest", row.GuestName)
}

func TestServiceDeleteIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, _, err := svc.Create(ctx, stay("Camera 1", 1, 5))
	require.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, b.ID))
	assert.NoError(t, svc.Delete(ctx, b.ID), "deleting an absent booking is not an error")
}

func TestServiceListRoomsAppendsMissingDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Create(ctx, stay("Scirocco", 1, 3))
	require.NoError(t, err)
	_, _, err = svc.Create(ctx, stay("Camera 2", 1, 3))
	require.NoError(t, err)
	_, _, err = svc.Create(ctx, stay("Camera 2", 5, 7))
	require.NoError(t, err)

	rooms, err := svc.ListRooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Camera 2", "Scirocco", "Camera 1", "Appartamento"}, rooms,
		"register rooms first, then the defaults that are missing, in configured order")
}

func TestServiceCheckOverlap(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	existing, _, err := svc.Create(ctx, stay("Camera 1", 1, 5))
	require.NoError(t, err)

	t.Run("Requires a room", func(t *testing.T) {
		_, _, err := svc.CheckOverlap(ctx, "  ", date(1), date(2), 0)
		assert.ErrorIs(t, err, booking.ErrRoomRequired)
	})

	t.Run("Requires a forward range", func(t *testing.T) {
		_, _, err := svc.CheckOverlap(ctx, "Camera 1", date(2), date(2), 0)
		assert.ErrorIs(t, err, booking.ErrInvalidDateRange)
	})

	t.Run("Reports the colliding bookings", func(t *testing.T) {
		overlap, conflicts, err := svc.CheckOverlap(ctx, "Camera 1", date(4), date(6), 0)
		require.NoError(t, err)
		assert.True(t, overlap)
		require.Len(t, conflicts, 1)
		assert.Equal(t, existing.ID, conflicts[0].ID)
	})

	t.Run("Excludes the booking being edited", func(t *testing.T) {
		overlap, conflicts, err := svc.CheckOverlap(ctx, "Camera 1", date(4), date(6), existing.ID)
		require.NoError(t, err)
		assert.False(t, overlap)
		assert.Empty(t, conflicts)
	})

	t.Run("Back to back stay is free", func(t *testing.T) {
		overlap, _, err := svc.CheckOverlap(ctx, "Camera 1", date(5), date(7), 0)
		require.NoError(t, err)
		assert.False(t, overlap)
	})
}

func TestServiceOccupancyWidensTheFetchWindow(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Create(ctx, stay("Camera 1", 3, 5))
	require.NoError(t, err)

	grid, err := svc.Occupancy(ctx, date(1), date(3), []string{"Camera 1"})
	require.NoError(t, err)

	assert.Equal(t, 1, grid["2026-06-03"]["Camera 1"],
		"a stay starting on the final date must be fetched and marked")

	require.NotNil(t, repo.listFilter)
	assert.Equal(t, date(1), *repo.listFilter.From)
	assert.Equal(t, date(4), *repo.listFilter.To, "fetch window extends one day past the grid")
}

func TestServiceOccupancyRejectsInvertedPeriod(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Occupancy(context.Background(), date(5), date(1), nil)
	assert.ErrorIs(t, err, booking.ErrInvalidDateRange)
}

func TestServiceOccupancyDefaultsToAllKnownRooms(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	grid, err := svc.Occupancy(ctx, date(1), date(1), nil)
	require.NoError(t, err)

	row := grid["2026-06-01"]
	assert.Contains(t, row, "Camera 1")
	assert.Contains(t, row, "Camera 2")
	assert.Contains(t, row, "Appartamento")
}

func TestServiceImportEnforcesProvenanceUniqueness(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, _, err := svc.Import(ctx, stay("Camera 1", 1, 5), "booking_com_ical", "evt-9")
	require.NoError(t, err)
	require.NotNil(t, b.ExternalSource)
	assert.Equal(t, "booking_com_ical", *b.ExternalSource)
	assert.Equal(t, "evt-9", *b.ExternalUID)

	found, err := svc.FindByExternalRef(ctx, "booking_com_ical", "evt-9")
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)

	_, _, err = svc.Import(ctx, stay("Camera 1", 10, 12), "booking_com_ical", "evt-9")
	assert.ErrorIs(t, err, booking.ErrDuplicateImport)
}
