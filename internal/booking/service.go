package booking

import (
	"context"
	"errors"
	"strings"
	"time"
)

type Service interface {
	// Create validates the input and persists a new booking. Overlapping
	// active bookings for the same room are returned alongside the created
	// row as a warning; they never block the write.
	Create(ctx context.Context, in Input) (*Booking, []*Booking, error)
	GetByID(ctx context.Context, id int64) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, error)
	// Update replaces every mutable field of an existing booking and clears
	// its provenance pair, detaching the row from the feed event it may
	// have been imported from. Conflict reporting matches Create.
	Update(ctx context.Context, id int64, in Input) (*Booking, []*Booking, error)
	// Delete removes a booking. Deleting an id that is already gone is not
	// an error.
	Delete(ctx context.Context, id int64) error

	// ListRooms returns every room present in the register followed by the
	// configured defaults that are not in it yet.
	ListRooms(ctx context.Context) ([]string, error)

	// ExportAll returns the full register, unfiltered, in listing order.
	ExportAll(ctx context.Context) ([]*Booking, error)

	// CheckOverlap reports whether [checkIn, checkOut) collides with any
	// non-cancelled booking for the room, and returns the colliding rows.
	CheckOverlap(ctx context.Context, room string, checkIn, checkOut time.Time, excludeID int64) (bool, []*Booking, error)

	// Occupancy projects bookings onto a per-date, per-room grid covering
	// [from, to] inclusive. An empty rooms slice means all known rooms.
	Occupancy(ctx context.Context, from, to time.Time, rooms []string) (OccupancyGrid, error)

	// Import persists a booking carrying a feed provenance pair. A pair
	// already present in the register fails with ErrDuplicateImport.
	Import(ctx context.Context, in Input, externalSource, externalUID string) (*Booking, []*Booking, error)
	FindByExternalRef(ctx context.Context, source, uid string) (*Booking, error)
}

type service struct {
	repo         Repository
	defaultRooms []string
}

func NewService(repo Repository, defaultRooms []string) Service {
	return &service{
		repo:         repo,
		defaultRooms: defaultRooms,
	}
}

func (s *service) Create(ctx context.Context, in Input) (*Booking, []*Booking, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	conflicts, err := s.repo.FindOverlapping(ctx, in.Room, in.CheckIn, in.CheckOut, 0)
	if err != nil {
		return nil, nil, err
	}

	b := in.booking()
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, nil, err
	}

	return b, conflicts, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id int64, in Input) (*Booking, []*Booking, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	// Fetch first so a missing id reports not-found instead of silently
	// updating zero rows.
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	conflicts, err := s.repo.FindOverlapping(ctx, in.Room, in.CheckIn, in.CheckOut, id)
	if err != nil {
		return nil, nil, err
	}

	// A manual edit replaces the whole row; the nil provenance pair in the
	// rebuilt booking detaches it from its upstream feed event.
	b := in.booking()
	b.ID = current.ID
	b.CreatedAt = current.CreatedAt

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, nil, err
	}

	return b, conflicts, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (s *service) ListRooms(ctx context.Context) ([]string, error) {
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	// Rooms already in the register come first, in query order; configured
	// defaults that have no bookings yet are appended after them.
	seen := make(map[string]bool, len(rooms))
	for _, room := range rooms {
		seen[room] = true
	}
	for _, room := range s.defaultRooms {
		if !seen[room] {
			rooms = append(rooms, room)
			seen[room] = true
		}
	}

	return rooms, nil
}

func (s *service) ExportAll(ctx context.Context) ([]*Booking, error) {
	return s.repo.List(ctx, Filter{})
}

func (s *service) CheckOverlap(ctx context.Context, room string, checkIn, checkOut time.Time, excludeID int64) (bool, []*Booking, error) {
	if strings.TrimSpace(room) == "" {
		return false, nil, ErrRoomRequired
	}
	if !checkOut.After(checkIn) {
		return false, nil, ErrInvalidDateRange
	}

	conflicts, err := s.repo.FindOverlapping(ctx, room, checkIn, checkOut, excludeID)
	if err != nil {
		return false, nil, err
	}
	return len(conflicts) > 0, conflicts, nil
}

func (s *service) Occupancy(ctx context.Context, from, to time.Time, rooms []string) (OccupancyGrid, error) {
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}

	// The fetch window is widened by one day so a booking starting exactly
	// on the last projected date still marks that night.
	end := to.AddDate(0, 0, 1)
	bookings, err := s.repo.List(ctx, Filter{From: &from, To: &end})
	if err != nil {
		return nil, err
	}

	if len(rooms) == 0 {
		rooms, err = s.ListRooms(ctx)
		if err != nil {
			return nil, err
		}
	}

	return ProjectOccupancy(bookings, rooms, from, to), nil
}

func (s *service) Import(ctx context.Context, in Input, externalSource, externalUID string) (*Booking, []*Booking, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	conflicts, err := s.repo.FindOverlapping(ctx, in.Room, in.CheckIn, in.CheckOut, 0)
	if err != nil {
		return nil, nil, err
	}

	b := in.booking()
	b.ExternalSource = &externalSource
	b.ExternalUID = &externalUID

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, nil, err
	}

	return b, conflicts, nil
}

func (s *service) FindByExternalRef(ctx context.Context, source, uid string) (*Booking, error) {
	return s.repo.GetByExternalRef(ctx, source, uid)
}
