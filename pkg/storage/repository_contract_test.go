package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/atruong7-bot/event-search/pkg/domain"
)

func testFavorite(eventID string, createdAt time.Time) *domain.Favorite {
	return &domain.Favorite{
		ID:        "fav-" + eventID,
		EventID:   eventID,
		Name:      "Event " + eventID,
		Venue:     "The Venue",
		Category:  "Music",
		ImageURL:  "https://img/" + eventID + ".jpg",
		Date:      "2026-07-04",
		Time:      "20:00:00",
		CreatedAt: createdAt.UTC().Truncate(time.Millisecond),
	}
}

func sameFavorite(a, b domain.Favorite) bool {
	createdA, createdB := a.CreatedAt, b.CreatedAt
	a.CreatedAt, b.CreatedAt = time.Time{}, time.Time{}
	return a == b && createdA.Equal(createdB)
}

// runFavoriteRepositoryContract exercises behavior every backend must share.
// newRepo must return an empty repository.
func runFavoriteRepositoryContract(t *testing.T, newRepo func(t *testing.T) domain.FavoriteRepository) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("find missing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindByEventID(ctx, "nope")
		if !errors.Is(err, domain.ErrFavoriteNotFound) {
			t.Errorf("expected ErrFavoriteNotFound, got %v", err)
		}
	})

	t.Run("insert then find", func(t *testing.T) {
		repo := newRepo(t)
		want := testFavorite("e1", base)
		if err := repo.Insert(ctx, want); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.FindByEventID(ctx, "e1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !sameFavorite(*got, *want) {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("duplicate insert", func(t *testing.T) {
		repo := newRepo(t)
		if err := repo.Insert(ctx, testFavorite("dup", base)); err != nil {
			t.Fatalf("first insert: %v", err)
		}

		second := testFavorite("dup", base.Add(time.Minute))
		second.ID = "other-id"
		err := repo.Insert(ctx, second)
		if !errors.Is(err, domain.ErrDuplicateFavorite) {
			t.Errorf("expected ErrDuplicateFavorite, got %v", err)
		}

		got, _ := repo.FindByEventID(ctx, "dup")
		if got == nil || got.ID != "fav-dup" {
			t.Errorf("expected original record to survive, got %+v", got)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		repo.Insert(ctx, testFavorite("gone", base))

		deleted, err := repo.DeleteByEventID(ctx, "gone")
		if err != nil || !deleted {
			t.Fatalf("expected deleted=true, got %v, %v", deleted, err)
		}
		deleted, err = repo.DeleteByEventID(ctx, "gone")
		if err != nil || deleted {
			t.Errorf("expected deleted=false, got %v, %v", deleted, err)
		}
	})

	t.Run("list orders by creation", func(t *testing.T) {
		repo := newRepo(t)

		list, err := repo.ListByCreatedAt(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if list == nil || len(list) != 0 {
			t.Fatalf("expected empty non-nil list, got %#v", list)
		}

		repo.Insert(ctx, testFavorite("third", base.Add(2*time.Hour)))
		repo.Insert(ctx, testFavorite("first", base))
		repo.Insert(ctx, testFavorite("second", base.Add(time.Hour)))

		list, err = repo.ListByCreatedAt(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var got []string
		for _, f := range list {
			got = append(got, f.EventID)
		}
		want := []string{"first", "second", "third"}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("expected %v, got %v", want, got)
		}

		repo.DeleteByEventID(ctx, "second")
		list, _ = repo.ListByCreatedAt(ctx)
		if len(list) != 2 {
			t.Errorf("expected 2 favorites after delete, got %d", len(list))
		}
	})

	t.Run("concurrent inserts keep one record", func(t *testing.T) {
		repo := newRepo(t)

		const writers = 10
		var wg sync.WaitGroup
		var mu sync.Mutex
		successes, duplicates := 0, 0

		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				fav := testFavorite("race", base)
				fav.ID = fmt.Sprintf("race-%d", i)
				err := repo.Insert(ctx, fav)

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errors.Is(err, domain.ErrDuplicateFavorite):
					duplicates++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(i)
		}
		wg.Wait()

		if successes != 1 || duplicates != writers-1 {
			t.Errorf("expected 1 success and %d duplicates, got %d and %d", writers-1, successes, duplicates)
		}

		list, _ := repo.ListByCreatedAt(ctx)
		if len(list) != 1 {
			t.Errorf("expected exactly one record, got %d", len(list))
		}
	})
}
