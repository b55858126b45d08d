package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	guest_name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT 'direct',
	room TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'confirmed',
	check_in DATE NOT NULL,
	check_out DATE NOT NULL,
	guests INT NOT NULL DEFAULT 1,
	price NUMERIC(12,2) NOT NULL DEFAULT 0,
	notes TEXT NOT NULL DEFAULT '',
	external_source TEXT,
	external_uid TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Imported bookings carry a (source, uid) pair from the upstream feed.
// The partial index enforces uniqueness only for rows that have one.
const bookingsExternalRefIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS bookings_external_ref_idx
	ON bookings (external_source, external_uid)
	WHERE external_source IS NOT NULL AND external_uid IS NOT NULL`

const bookingsRoomDatesIndex = `
CREATE INDEX IF NOT EXISTS bookings_room_dates_idx
	ON bookings (room, check_in, check_out)`

const bookingsStatusIndex = `
CREATE INDEX IF NOT EXISTS bookings_status_idx
	ON bookings (status)`

const feedEndpointsTable = `
CREATE TABLE IF NOT EXISTS feed_endpoints (
	room TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the register tables and indexes if they do not
// already exist. Every statement is idempotent, so it is safe to run on
// every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		bookingsTable,
		bookingsExternalRefIndex,
		bookingsRoomDatesIndex,
		bookingsStatusIndex,
		feedEndpointsTable,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return nil
}
