package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atruong7-bot/event-search/pkg/domain"
)

func setupTestRedisRepository(t *testing.T) (*RedisFavoriteRepository, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	repo, err := NewRedisFavoriteRepository(db, "test")
	require.NoError(t, err)
	return repo, mock
}

func encodeFavorite(t *testing.T, f *domain.Favorite) string {
	data, err := json.Marshal(f)
	require.NoError(t, err)
	return string(data)
}

func TestNewRedisFavoriteRepository(t *testing.T) {
	_, err := NewRedisFavoriteRepository(nil, "x")
	assert.Error(t, err)

	db, _ := redismock.NewClientMock()
	repo, err := NewRedisFavoriteRepository(db, "")
	require.NoError(t, err)
	assert.Equal(t, "eventsearch:favorites", repo.indexKey())
	assert.Equal(t, "eventsearch:favorite:abc", repo.favoriteKey("abc"))
}

func TestRedisFavoriteRepository_FindByEventID(t *testing.T) {
	ctx := context.Background()
	fav := testFavorite("e1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	t.Run("found", func(t *testing.T) {
		repo, mock := setupTestRedisRepository(t)
		mock.ExpectGet("test:favorite:e1").SetVal(encodeFavorite(t, fav))

		got, err := repo.FindByEventID(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, fav.ID, got.ID)
		assert.True(t, fav.CreatedAt.Equal(got.CreatedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := setupTestRedisRepository(t)
		mock.ExpectGet("test:favorite:e1").RedisNil()

		_, err := repo.FindByEventID(ctx, "e1")
		assert.ErrorIs(t, err, domain.ErrFavoriteNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("connection failure", func(t *testing.T) {
		repo, mock := setupTestRedisRepository(t)
		mock.ExpectGet("test:favorite:e1").SetErr(errors.New("connection refused"))

		_, err := repo.FindByEventID(ctx, "e1")
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestRedisFavoriteRepository_Insert(t *testing.T) {
	ctx := context.Background()
	fav := testFavorite("e1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	keys := []string{"test:favorite:e1", "test:favorites"}

	expectInsert := func(t *testing.T, mock redismock.ClientMock) *redismock.ExpectedCmd {
		return mock.ExpectEvalSha(insertFavoriteScript.Hash(), keys,
			encodeFavorite(t, fav), fav.CreatedAt.UnixMilli(), "e1")
	}

	t.Run("new record", func(t *testing.T) {
		repo, mock := setupTestRedisRepository(t)
		expectInsert(t, mock).SetVal(int64(1))

		assert.NoError(t, repo.Insert(ctx, fav))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing record", func(t *testing.T) {
		repo, mock := setupTestRedisRepository(t)
		expectInsert(t, mock).SetVal(int64(0))

		assert.ErrorIs(t, repo.Insert(ctx, fav), domain.ErrDuplicateFavorite)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("script failure leaves nothing to undo", func(t *testing.T) {
		repo, mock := setupTestRedisRepository(t)
		expectInsert(t, mock).SetErr(errors.New("OOM command not allowed"))

		err := repo.Insert(ctx, fav)
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
		assert.NotErrorIs(t, err, domain.ErrDuplicateFavorite)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil favorite", func(t *testing.T) {
		repo, _ := setupTestRedisRepository(t)
		assert.Error(t, repo.Insert(ctx, nil))
	})
}

func TestRedisFavoriteRepository_DeleteByEventID(t *testing.T) {
	ctx := context.Background()

	for _, tt := range []struct {
		name    string
		removed int64
		want    bool
	}{
		{"existing", 1, true},
		{"missing", 0, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupTestRedisRepository(t)
			mock.ExpectTxPipeline()
			mock.ExpectDel("test:favorite:e1").SetVal(tt.removed)
			mock.ExpectZRem("test:favorites", "e1").SetVal(tt.removed)
			mock.ExpectTxPipelineExec()

			deleted, err := repo.DeleteByEventID(ctx, "e1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, deleted)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedisFavoriteRepository_ListByCreatedAt(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first := testFavorite("a", base)
	second := testFavorite("c", base.Add(time.Minute))

	t.Run("empty", func(t *testing.T) {
		repo, mock := setupTestRedisRepository(t)
		mock.ExpectZRange("test:favorites", 0, -1).SetVal([]string{})

		list, err := repo.ListByCreatedAt(ctx)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("skips stale index entries", func(t *testing.T) {
		repo, mock := setupTestRedisRepository(t)
		mock.ExpectZRange("test:favorites", 0, -1).SetVal([]string{"a", "b", "c"})
		mock.ExpectMGet("test:favorite:a", "test:favorite:b", "test:favorite:c").
			SetVal([]interface{}{encodeFavorite(t, first), nil, encodeFavorite(t, second)})

		list, err := repo.ListByCreatedAt(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "a", list[0].EventID)
		assert.Equal(t, "c", list[1].EventID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		repo, mock := setupTestRedisRepository(t)
		mock.ExpectZRange("test:favorites", 0, -1).SetErr(errors.New("timeout"))

		_, err := repo.ListByCreatedAt(ctx)
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	})
}
