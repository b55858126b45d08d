package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Upsert inserts the endpoint or replaces the URL of the room's
	// existing one.
	Upsert(ctx context.Context, e *Endpoint) error
	GetByRoom(ctx context.Context, room string) (*Endpoint, error)
	List(ctx context.Context) ([]*Endpoint, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Upsert(ctx context.Context, e *Endpoint) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.feed_endpoints").
		Columns("room", "url").
		Values(e.Room, e.URL).
		Suffix("ON CONFLICT (room) DO UPDATE SET url = EXCLUDED.url, updated_at = now()").
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert feed endpoint query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&e.UpdatedAt); err != nil {
		return fmt.Errorf("upsert feed endpoint failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByRoom(ctx context.Context, room string) (*Endpoint, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("room", "url", "updated_at").
		From("public.feed_endpoints").
		Where(squirrel.Eq{"room": room}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get feed endpoint query failed: %w", err)
	}

	var e Endpoint
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&e.Room, &e.URL, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get feed endpoint failed: %w", err)
	}
	return &e, nil
}

func (r *pgxRepository) List(ctx context.Context) ([]*Endpoint, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("room", "url", "updated_at").
		From("public.feed_endpoints").
		OrderBy("room ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list feed endpoints query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feed endpoints failed: %w", err)
	}
	defer rows.Close()

	var endpoints []*Endpoint
	for rows.Next() {
		var e Endpoint
		if err := rows.Scan(&e.Room, &e.URL, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan feed endpoint failed: %w", err)
		}
		endpoints = append(endpoints, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list feed endpoints failed: %w", err)
	}

	return endpoints, nil
}
