package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var bookingColumns = []string{
	"id", "guest_name", "email", "phone", "source", "room", "status",
	"check_in", "check_out", "guests", "price", "notes",
	"external_source", "external_uid", "created_at", "updated_at",
}

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id int64) error

	// ListRooms returns the distinct room names present in the register.
	ListRooms(ctx context.Context) ([]string, error)

	// FindOverlapping returns the non-cancelled bookings for room whose
	// nights intersect [checkIn, checkOut), ordered by check-in.
	// excludeID skips the booking itself during updates; pass 0 to keep all.
	FindOverlapping(ctx context.Context, room string, checkIn, checkOut time.Time, excludeID int64) ([]*Booking, error)

	// GetByExternalRef looks a booking up by its feed provenance pair.
	GetByExternalRef(ctx context.Context, source, uid string) (*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.GuestName, &b.Email, &b.Phone, &b.Source, &b.Room, &b.Status,
		&b.CheckIn, &b.CheckOut, &b.Guests, &b.Price, &b.Notes,
		&b.ExternalSource, &b.ExternalUID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns(
			"guest_name", "email", "phone", "source", "room", "status",
			"check_in", "check_out", "guests", "price", "notes",
			"external_source", "external_uid",
		).
		Values(
			b.GuestName, b.Email, b.Phone, b.Source, b.Room, b.Status,
			b.CheckIn, b.CheckOut, b.Guests, b.Price, b.Notes,
			b.ExternalSource, b.ExternalUID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateImport
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns...).From("public.bookings")

	// Date window keeps any booking whose span intersects it:
	// check_out > from AND check_in < to.
	if filter.From != nil {
		query = query.Where(squirrel.Gt{"check_out": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.Lt{"check_in": *filter.To})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Room != "" {
		query = query.Where(squirrel.Eq{"room": filter.Room})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"guest_name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"phone": pattern},
			squirrel.ILike{"notes": pattern},
		})
	}

	query = query.OrderBy("check_in ASC", "id ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}

	return bookings, nil
}

// Update replaces every caller-editable field of the row matching b.ID,
// including the provenance pair, and refreshes updated_at.
func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("guest_name", b.GuestName).
		Set("email", b.Email).
		Set("phone", b.Phone).
		Set("source", b.Source).
		Set("room", b.Room).
		Set("status", b.Status).
		Set("check_in", b.CheckIn).
		Set("check_out", b.CheckOut).
		Set("guests", b.Guests).
		Set("price", b.Price).
		Set("notes", b.Notes).
		Set("external_source", b.ExternalSource).
		Set("external_uid", b.ExternalUID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const listRoomsSQL = `SELECT DISTINCT room FROM public.bookings ORDER BY room ASC`

func (r *pgxRepository) ListRooms(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, listRoomsSQL)
	if err != nil {
		return nil, fmt.Errorf("list rooms failed: %w", err)
	}
	defer rows.Close()

	var rooms []string
	for rows.Next() {
		var room string
		if err := rows.Scan(&room); err != nil {
			return nil, fmt.Errorf("scan room failed: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rooms failed: %w", err)
	}

	return rooms, nil
}

func (r *pgxRepository) FindOverlapping(ctx context.Context, room string, checkIn, checkOut time.Time, excludeID int64) ([]*Booking, error) {
	// Overlap: existing check_in < new check_out AND existing check_out >
	// new check_in. Cancelled bookings never block a room.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"room": room}).
		Where(squirrel.NotEq{"status": StatusCancelled}).
		Where(squirrel.Lt{"check_in": checkOut}).
		Where(squirrel.Gt{"check_out": checkIn}).
		OrderBy("check_in ASC", "id ASC")

	if excludeID != 0 {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find overlapping query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find overlapping bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find overlapping bookings failed: %w", err)
	}

	return bookings, nil
}

func (r *pgxRepository) GetByExternalRef(ctx context.Context, source, uid string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"external_source": source, "external_uid": uid}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking by external ref query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking by external ref failed: %w", err)
	}
	return b, nil
}
