package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atruong7-bot/event-search/pkg/domain"
)

const pgUniqueViolation = "23505"

func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create DB pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w: %w", domain.ErrStorageUnavailable, err)
	}

	return pool, nil
}

type PostgresFavoriteRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresFavoriteRepository(ctx context.Context, pool *pgxpool.Pool) (*PostgresFavoriteRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("database pool is required")
	}

	repo := &PostgresFavoriteRepository{pool: pool}
	if err := repo.migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return repo, nil
}

func (r *PostgresFavoriteRepository) migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS favorites (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		venue TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL DEFAULT '',
		time TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		seq BIGSERIAL
	);
	CREATE INDEX IF NOT EXISTS idx_favorites_created_at ON favorites(created_at, seq);
	`)
	return err
}

func (r *PostgresFavoriteRepository) FindByEventID(ctx context.Context, eventID string) (*domain.Favorite, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, event_id, name, venue, category, image_url, date, time, created_at
		FROM favorites
		WHERE event_id = $1
	`, eventID)

	fav, err := scanPgFavorite(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFavoriteNotFound
	}
	if err != nil {
		return nil, unavailable("query favorite", err)
	}

	return fav, nil
}

func (r *PostgresFavoriteRepository) Insert(ctx context.Context, favorite *domain.Favorite) error {
	if favorite == nil {
		return fmt.Errorf("favorite cannot be nil")
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO favorites (id, event_id, name, venue, category, image_url, date, time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		favorite.ID,
		favorite.EventID,
		favorite.Name,
		favorite.Venue,
		favorite.Category,
		favorite.ImageURL,
		favorite.Date,
		favorite.Time,
		favorite.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrDuplicateFavorite
		}
		return unavailable("insert favorite", err)
	}

	return nil
}

func (r *PostgresFavoriteRepository) DeleteByEventID(ctx context.Context, eventID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE event_id = $1`, eventID)
	if err != nil {
		return false, unavailable("delete favorite", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresFavoriteRepository) ListByCreatedAt(ctx context.Context) ([]domain.Favorite, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, event_id, name, venue, category, image_url, date, time, created_at
		FROM favorites
		ORDER BY created_at ASC, seq ASC
	`)
	if err != nil {
		return nil, unavailable("list favorites", err)
	}
	defer rows.Close()

	favorites := make([]domain.Favorite, 0)
	for rows.Next() {
		fav, err := scanPgFavorite(rows)
		if err != nil {
			return nil, unavailable("scan favorite", err)
		}
		favorites = append(favorites, *fav)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate favorites", err)
	}

	return favorites, nil
}

func scanPgFavorite(row pgx.Row) (*domain.Favorite, error) {
	var fav domain.Favorite
	err := row.Scan(
		&fav.ID,
		&fav.EventID,
		&fav.Name,
		&fav.Venue,
		&fav.Category,
		&fav.ImageURL,
		&fav.Date,
		&fav.Time,
		&fav.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	fav.CreatedAt = fav.CreatedAt.UTC()
	return &fav, nil
}
