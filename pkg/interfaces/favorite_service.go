package interfaces

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atruong7-bot/event-search/pkg/domain"
	"github.com/atruong7-bot/event-search/pkg/monitoring"
)

// FavoriteService keeps at most one favorite per event ID. Uniqueness is
// enforced by the repository; a lost insert race is reported as an existing
// favorite rather than an error.
type FavoriteService struct {
	repository domain.FavoriteRepository
	metrics    *monitoring.Metrics
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

type FavoriteServiceOption func(*FavoriteService)

func WithClock(now func() time.Time) FavoriteServiceOption {
	return func(s *FavoriteService) { s.now = now }
}

func WithFavoriteMetrics(m *monitoring.Metrics) FavoriteServiceOption {
	return func(s *FavoriteService) { s.metrics = m }
}

// WithFavoriteLogger ignores a nil logger.
func WithFavoriteLogger(l *slog.Logger) FavoriteServiceOption {
	return func(s *FavoriteService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFavoriteService accepts a nil repository; every call then fails with
// domain.ErrStorageUnavailable.
func NewFavoriteService(repository domain.FavoriteRepository, opts ...FavoriteServiceOption) *FavoriteService {
	s := &FavoriteService{
		repository: repository,
		logger:     slog.Default(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FavoriteService) ListFavorites(ctx context.Context) ([]domain.Favorite, error) {
	if s.repository == nil {
		return nil, domain.ErrStorageUnavailable
	}

	favorites, err := s.repository.ListByCreatedAt(ctx)
	if err != nil {
		s.metrics.TrackFavoriteOperation("list", "error")
		return nil, err
	}

	s.metrics.TrackFavoriteOperation("list", "ok")
	return favorites, nil
}

func (s *FavoriteService) AddFavorite(ctx context.Context, input domain.FavoriteInput) (*domain.AddFavoriteResult, error) {
	if s.repository == nil {
		return nil, domain.ErrStorageUnavailable
	}
	if err := input.Validate(); err != nil {
		s.metrics.TrackFavoriteOperation("add", "invalid")
		return nil, err
	}

	eventID := strings.TrimSpace(input.EventID)

	existing, err := s.repository.FindByEventID(ctx, eventID)
	if err == nil {
		s.metrics.TrackFavoriteOperation("add", "exists")
		return &domain.AddFavoriteResult{AlreadyExists: true, Favorite: *existing}, nil
	}
	if !errors.Is(err, domain.ErrFavoriteNotFound) {
		s.metrics.TrackFavoriteOperation("add", "error")
		return nil, err
	}

	candidate := input.Favorite(s.newID(), s.now().UTC().Truncate(time.Millisecond))
	err = s.repository.Insert(ctx, &candidate)
	switch {
	case err == nil:
		s.metrics.TrackFavoriteOperation("add", "created")
		return &domain.AddFavoriteResult{AlreadyExists: false, Favorite: candidate}, nil

	case errors.Is(err, domain.ErrDuplicateFavorite):
		// Another writer inserted between our lookup and insert.
		s.logger.Debug("favorite insert lost race", "eventId", eventID)
		s.metrics.TrackFavoriteOperation("add", "exists")

		winner, findErr := s.repository.FindByEventID(ctx, eventID)
		if findErr == nil {
			return &domain.AddFavoriteResult{AlreadyExists: true, Favorite: *winner}, nil
		}
		if errors.Is(findErr, domain.ErrFavoriteNotFound) {
			// The winner was removed again before we could read it.
			return &domain.AddFavoriteResult{AlreadyExists: true, Favorite: candidate}, nil
		}
		return nil, findErr

	default:
		s.metrics.TrackFavoriteOperation("add", "error")
		return nil, err
	}
}

func (s *FavoriteService) RemoveFavorite(ctx context.Context, eventID string) (*domain.RemoveFavoriteResult, error) {
	if s.repository == nil {
		return nil, domain.ErrStorageUnavailable
	}

	deleted, err := s.repository.DeleteByEventID(ctx, strings.TrimSpace(eventID))
	if err != nil {
		s.metrics.TrackFavoriteOperation("remove", "error")
		return nil, err
	}

	if deleted {
		s.metrics.TrackFavoriteOperation("remove", "deleted")
	} else {
		s.metrics.TrackFavoriteOperation("remove", "missing")
	}
	return &domain.RemoveFavoriteResult{Deleted: deleted}, nil
}

func (s *FavoriteService) IsFavorite(ctx context.Context, eventID string) (bool, error) {
	if s.repository == nil {
		return false, domain.ErrStorageUnavailable
	}

	_, err := s.repository.FindByEventID(ctx, strings.TrimSpace(eventID))
	switch {
	case err == nil:
		s.metrics.TrackFavoriteOperation("check", "found")
		return true, nil
	case errors.Is(err, domain.ErrFavoriteNotFound):
		s.metrics.TrackFavoriteOperation("check", "missing")
		return false, nil
	default:
		s.metrics.TrackFavoriteOperation("check", "error")
		return false, err
	}
}
