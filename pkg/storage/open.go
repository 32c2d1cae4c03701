package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/atruong7-bot/event-search/pkg/config"
	"github.com/atruong7-bot/event-search/pkg/domain"
)

// Store is an opened favorites backend. Favorites is nil when no driver is
// configured.
type Store struct {
	Driver    string
	Favorites domain.FavoriteRepository

	ping  func(ctx context.Context) error
	close func() error
}

// Open connects to the backend selected by cfg.Driver and prepares its schema.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case "", "none":
		return &Store{Driver: "none"}, nil

	case "sqlite":
		db, err := NewSQLiteDB(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
		}
		repo, err := NewSQLiteFavoriteRepository(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return &Store{Driver: cfg.Driver, Favorites: repo, ping: db.PingContext, close: db.Close}, nil

	case "postgres":
		pool, err := NewPostgresPool(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		repo, err := NewPostgresFavoriteRepository(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Driver:    cfg.Driver,
			Favorites: repo,
			ping:      pool.Ping,
			close:     func() error { pool.Close(); return nil },
		}, nil

	case "redis":
		client, err := NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		repo, err := NewRedisFavoriteRepository(client, cfg.RedisPrefix)
		if err != nil {
			client.Close()
			return nil, err
		}
		return &Store{
			Driver:    cfg.Driver,
			Favorites: repo,
			ping:      func(ctx context.Context) error { return client.Ping(ctx).Err() },
			close:     client.Close,
		}, nil

	case "mongo":
		client, err := NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		repo, err := NewMongoFavoriteRepository(ctx, client.Database(cfg.MongoDatabase))
		if err != nil {
			client.Disconnect(context.Background())
			return nil, err
		}
		return &Store{
			Driver:    cfg.Driver,
			Favorites: repo,
			ping:      func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:     func() error { return client.Disconnect(context.Background()) },
		}, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// Ping checks the backend connection.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.ping == nil {
		return domain.ErrStorageUnavailable
	}
	if err := s.ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	err := s.close()
	s.close = nil
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close %s store: %w", s.Driver, err)
	}
	return nil
}
