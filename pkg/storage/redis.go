package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/atruong7-bot/event-search/pkg/domain"
)

// NewRedisClient accepts a redis:// URL or a bare host:port.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		// Fall back to simple connection
		opts = &redis.Options{
			Addr: url,
		}
	}

	opts.PoolSize = 20
	opts.MinIdleConns = 2
	opts.MaxRetries = 3

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w: %w", domain.ErrStorageUnavailable, err)
	}

	return client, nil
}

// RedisFavoriteRepository stores each favorite as a JSON string under
// <prefix>:favorite:<eventId> and orders them with a sorted set scored by
// creation time in milliseconds. Insert writes both in one script so a
// record never exists without its index entry.
type RedisFavoriteRepository struct {
	client redis.Cmdable
	prefix string
}

func NewRedisFavoriteRepository(client redis.Cmdable, prefix string) (*RedisFavoriteRepository, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if prefix == "" {
		prefix = "eventsearch"
	}
	return &RedisFavoriteRepository{client: client, prefix: prefix}, nil
}

// insertFavoriteScript sets KEYS[1] only if absent and indexes it in KEYS[2].
// Returns 1 when inserted and 0 when the record already exists.
var insertFavoriteScript = redis.NewScript(`
if not redis.call('SET', KEYS[1], ARGV[1], 'NX') then
	return 0
end
redis.call('ZADD', KEYS[2], ARGV[2], ARGV[3])
return 1
`)

func (r *RedisFavoriteRepository) favoriteKey(eventID string) string {
	return r.prefix + ":favorite:" + eventID
}

func (r *RedisFavoriteRepository) indexKey() string {
	return r.prefix + ":favorites"
}

func (r *RedisFavoriteRepository) FindByEventID(ctx context.Context, eventID string) (*domain.Favorite, error) {
	data, err := r.client.Get(ctx, r.favoriteKey(eventID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrFavoriteNotFound
	}
	if err != nil {
		return nil, unavailable("failed to get favorite", err)
	}

	var fav domain.Favorite
	if err := json.Unmarshal([]byte(data), &fav); err != nil {
		return nil, fmt.Errorf("failed to decode favorite %s: %w", eventID, err)
	}
	return &fav, nil
}

func (r *RedisFavoriteRepository) Insert(ctx context.Context, favorite *domain.Favorite) error {
	if favorite == nil {
		return fmt.Errorf("favorite cannot be nil")
	}

	data, err := json.Marshal(favorite)
	if err != nil {
		return fmt.Errorf("failed to encode favorite: %w", err)
	}

	keys := []string{r.favoriteKey(favorite.EventID), r.indexKey()}
	inserted, err := insertFavoriteScript.Run(ctx, r.client, keys,
		string(data), favorite.CreatedAt.UnixMilli(), favorite.EventID).Int()
	if err != nil {
		return unavailable("failed to insert favorite", err)
	}
	if inserted == 0 {
		return domain.ErrDuplicateFavorite
	}

	return nil
}

func (r *RedisFavoriteRepository) DeleteByEventID(ctx context.Context, eventID string) (bool, error) {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.favoriteKey(eventID))
		pipe.ZRem(ctx, r.indexKey(), eventID)
		return nil
	})
	if err != nil {
		return false, unavailable("failed to delete favorite", err)
	}

	return del.Val() > 0, nil
}

func (r *RedisFavoriteRepository) ListByCreatedAt(ctx context.Context) ([]domain.Favorite, error) {
	favorites := make([]domain.Favorite, 0)

	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, unavailable("failed to list favorites", err)
	}
	if len(ids) == 0 {
		return favorites, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.favoriteKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable("failed to load favorites", err)
	}

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// Index entry outlived its record.
			continue
		}
		var fav domain.Favorite
		if err := json.Unmarshal([]byte(s), &fav); err != nil {
			return nil, fmt.Errorf("failed to decode favorite %s: %w", ids[i], err)
		}
		favorites = append(favorites, fav)
	}

	return favorites, nil
}
