package feed

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/41parallelobari/agenda-prenotazioni/internal/booking"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Service interface {
	// UpsertEndpoint registers or replaces the feed URL for a room.
	UpsertEndpoint(ctx context.Context, room, feedURL string) (*Endpoint, error)
	Endpoints(ctx context.Context) ([]*Endpoint, error)

	// SyncRoom fetches a feed and imports its events for room, returning
	// the number of bookings created. Events already present in the
	// register are skipped. A non-empty feedURL overrides the stored
	// endpoint; with an empty one the stored endpoint is used and its
	// absence is ErrNotFound.
	SyncRoom(ctx context.Context, room, feedURL string) (int, error)

	// SyncAll syncs every configured endpoint sequentially. One room's
	// failure is recorded in the report and does not stop the others.
	SyncAll(ctx context.Context) (*Report, error)
}

type service struct {
	repo     Repository
	bookings booking.Service
	fetcher  *Fetcher
	log      *logrus.Logger
}

func NewService(repo Repository, bookings booking.Service, fetcher *Fetcher, log *logrus.Logger) Service {
	return &service{
		repo:     repo,
		bookings: bookings,
		fetcher:  fetcher,
		log:      log,
	}
}

func (s *service) UpsertEndpoint(ctx context.Context, room, feedURL string) (*Endpoint, error) {
	room = strings.TrimSpace(room)
	if room == "" {
		return nil, ErrRoomRequired
	}

	if err := validateURL(feedURL); err != nil {
		return nil, err
	}

	e := &Endpoint{Room: room, URL: feedURL}
	if err := s.repo.Upsert(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Endpoints(ctx context.Context) ([]*Endpoint, error) {
	return s.repo.List(ctx)
}

// validateURL accepts absolute http(s) URLs only.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidURL
	}
	return nil
}

func (s *service) SyncRoom(ctx context.Context, room, feedURL string) (int, error) {
	room = strings.TrimSpace(room)
	if room == "" {
		return 0, ErrRoomRequired
	}

	if feedURL == "" {
		e, err := s.repo.GetByRoom(ctx, room)
		if err != nil {
			return 0, err
		}
		return s.syncEndpoint(ctx, e)
	}

	if err := validateURL(feedURL); err != nil {
		return 0, err
	}
	return s.syncEndpoint(ctx, &Endpoint{Room: room, URL: feedURL})
}

func (s *service) SyncAll(ctx context.Context) (*Report, error) {
	endpoints, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	// Rooms sync one at a time; a fetch or parse failure is recorded and
	// the remaining rooms still run.
	report := &Report{Results: make([]RoomResult, 0, len(endpoints))}
	for _, e := range endpoints {
		count, err := s.syncEndpoint(ctx, e)
		if err != nil {
			s.log.WithError(err).WithField("room", e.Room).Error("feed sync failed")
		}
		report.Results = append(report.Results, RoomResult{
			Room:     e.Room,
			Imported: count,
			Err:      err,
		})
	}

	return report, nil
}

func (s *service) syncEndpoint(ctx context.Context, e *Endpoint) (int, error) {
	body, err := s.fetcher.Fetch(ctx, e.URL)
	if err != nil {
		return 0, err
	}

	events, err := ParseEvents(body, e.URL)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, ev := range events {
		imported, err := s.importEvent(ctx, e.Room, ev)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"room": e.Room,
				"uid":  ev.UID,
			}).Warn("skipping feed event")
			continue
		}
		if imported {
			created++
		}
	}

	s.log.WithFields(logrus.Fields{
		"room":     e.Room,
		"events":   len(events),
		"imported": created,
	}).Info("feed sync completed")

	return created, nil
}

// importEvent inserts one feed event unless the register already has it,
// reporting whether a new booking was created.
func (s *service) importEvent(ctx context.Context, room string, ev Event) (bool, error) {
	uid := ev.UID
	if uid == "" {
		// Best-effort dedup key for feeds without stable UIDs.
		uid = fmt.Sprintf("%s-%s-%s", room,
			ev.Start.Format(booking.DateLayout), ev.End.Format(booking.DateLayout))
	}

	_, err := s.bookings.FindByExternalRef(ctx, ExternalSource, uid)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, booking.ErrNotFound) {
		return false, err
	}

	in := booking.Input{
		GuestName: GuestNameFromSummary(ev.Summary),
		Source:    booking.SourceBooking,
		Room:      room,
		Status:    booking.StatusConfirmed,
		CheckIn:   ev.Start,
		CheckOut:  ev.End,
		Guests:    2,
		Price:     decimal.Zero,
		Notes:     "Imported from iCal feed",
	}

	_, conflicts, err := s.bookings.Import(ctx, in, ExternalSource, uid)
	if err != nil {
		// Another sync may have inserted the same event between the lookup
		// and the write; the unique index reports that as a duplicate.
		if errors.Is(err, booking.ErrDuplicateImport) {
			return false, nil
		}
		return false, err
	}

	if len(conflicts) > 0 {
		s.log.WithFields(logrus.Fields{
			"room":      room,
			"uid":       uid,
			"conflicts": len(conflicts),
		}).Warn("imported booking overlaps existing bookings")
	}

	return true, nil
}
