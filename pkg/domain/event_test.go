package domain

import (
	"testing"
)

func TestEventDetail_IsMusic(t *testing.T) {
	tests := []struct {
		name   string
		genres []string
		want   bool
	}{
		{"segment music", []string{"Music", "Rock"}, true},
		{"lowercase substring", []string{"Sports", "World music"}, true},
		{"no music", []string{"Sports", "Basketball"}, false},
		{"no genres", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail := &EventDetail{Genres: tt.genres}
			if got := detail.IsMusic(); got != tt.want {
				t.Errorf("IsMusic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvent_FavoriteInput(t *testing.T) {
	event := Event{
		ID:       "e1",
		Name:     "Lakers vs Celtics",
		Date:     "2026-01-01",
		Time:     "18:00:00",
		Venue:    "Crypto.com Arena",
		Category: "Sports",
		ImageURL: "https://example.com/img.jpg",
	}

	in := event.FavoriteInput()
	if in.EventID != "e1" || in.Category != "Sports" || in.Time != "18:00:00" {
		t.Errorf("unexpected favorite input: %+v", in)
	}
}

func TestEventDetail_FavoriteInput(t *testing.T) {
	t.Run("first genre becomes category", func(t *testing.T) {
		detail := &EventDetail{
			Event:  Event{ID: "e1", Name: "Show", ImageURL: "https://example.com/a.jpg"},
			Genres: []string{"Music", "Rock"},
		}

		in := detail.FavoriteInput()
		if in.Category != "Music" {
			t.Errorf("expected category Music, got %s", in.Category)
		}
		if in.ImageURL != "https://example.com/a.jpg" {
			t.Errorf("expected image URL kept, got %s", in.ImageURL)
		}
	})

	t.Run("no genres falls back to Event", func(t *testing.T) {
		detail := &EventDetail{
			Event: Event{ID: "e2", ImageURL: PlaceholderImageURL},
		}

		in := detail.FavoriteInput()
		if in.Category != "Event" {
			t.Errorf("expected category Event, got %s", in.Category)
		}
		if in.ImageURL != "" {
			t.Errorf("expected placeholder image dropped, got %s", in.ImageURL)
		}
	})
}
