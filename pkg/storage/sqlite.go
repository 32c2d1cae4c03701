package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/atruong7-bot/event-search/pkg/domain"
)

// NewSQLiteDB opens (creating if needed) a SQLite database file.
func NewSQLiteDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single writer avoids SQLITE_BUSY under concurrent inserts.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	return db, nil
}

type SQLiteFavoriteRepository struct {
	db *sql.DB
}

func NewSQLiteFavoriteRepository(db *sql.DB) (*SQLiteFavoriteRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	repo := &SQLiteFavoriteRepository{db: db}
	if err := repo.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return repo, nil
}

func (r *SQLiteFavoriteRepository) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS favorites (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		venue TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL DEFAULT '',
		time TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_favorites_created_at ON favorites(created_at);
	`

	_, err := r.db.Exec(query)
	return err
}

func (r *SQLiteFavoriteRepository) FindByEventID(ctx context.Context, eventID string) (*domain.Favorite, error) {
	query := `
	SELECT id, event_id, name, venue, category, image_url, date, time, created_at
	FROM favorites
	WHERE event_id = ?
	`

	fav, err := scanFavorite(r.db.QueryRowContext(ctx, query, eventID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrFavoriteNotFound
	}
	if err != nil {
		return nil, unavailable("failed to get favorite", err)
	}

	return fav, nil
}

func (r *SQLiteFavoriteRepository) Insert(ctx context.Context, favorite *domain.Favorite) error {
	if favorite == nil {
		return fmt.Errorf("favorite cannot be nil")
	}

	query := `
	INSERT INTO favorites (id, event_id, name, venue, category, image_url, date, time, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		favorite.ID,
		favorite.EventID,
		favorite.Name,
		favorite.Venue,
		favorite.Category,
		favorite.ImageURL,
		favorite.Date,
		favorite.Time,
		favorite.CreatedAt.UnixNano(),
	)

	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return domain.ErrDuplicateFavorite
		}
		return unavailable("failed to insert favorite", err)
	}

	return nil
}

func (r *SQLiteFavoriteRepository) DeleteByEventID(ctx context.Context, eventID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE event_id = ?`, eventID)
	if err != nil {
		return false, unavailable("failed to delete favorite", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, unavailable("failed to get rows affected", err)
	}

	return rowsAffected > 0, nil
}

func (r *SQLiteFavoriteRepository) ListByCreatedAt(ctx context.Context) ([]domain.Favorite, error) {
	query := `
	SELECT id, event_id, name, venue, category, image_url, date, time, created_at
	FROM favorites
	ORDER BY created_at ASC, rowid ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable("failed to list favorites", err)
	}
	defer rows.Close()

	favorites := make([]domain.Favorite, 0)
	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, unavailable("failed to scan favorite", err)
		}
		favorites = append(favorites, *fav)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("failed to iterate favorites", err)
	}

	return favorites, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFavorite(row rowScanner) (*domain.Favorite, error) {
	var fav domain.Favorite
	var createdAt int64

	err := row.Scan(
		&fav.ID,
		&fav.EventID,
		&fav.Name,
		&fav.Venue,
		&fav.Category,
		&fav.ImageURL,
		&fav.Date,
		&fav.Time,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	fav.CreatedAt = time.Unix(0, createdAt).UTC()
	return &fav, nil
}

// unavailable marks a driver failure as ErrStorageUnavailable while keeping
// the driver error in the chain.
func unavailable(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, domain.ErrStorageUnavailable, err)
}
