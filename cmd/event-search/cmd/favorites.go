package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/atruong7-bot/event-search/pkg/domain"
	"github.com/atruong7-bot/event-search/pkg/interfaces"
	"github.com/atruong7-bot/event-search/pkg/storage"
)

func newFavoritesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav", "favs"},
		Short:   "Manage favorite events in the configured store",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List favorites, oldest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withFavorites(cmd, func(ctx context.Context, s *interfaces.FavoriteService) error {
					favorites, err := s.ListFavorites(ctx)
					if err != nil {
						return err
					}
					printFavorites(cmd.OutOrStdout(), favorites)
					return nil
				})
			},
		},
		newFavoritesAddCmd(a),
		&cobra.Command{
			Use:   "remove <event-id>",
			Short: "Remove an event from favorites",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withFavorites(cmd, func(ctx context.Context, s *interfaces.FavoriteService) error {
					result, err := s.RemoveFavorite(ctx, args[0])
					if err != nil {
						return err
					}
					if !result.Deleted {
						fmt.Fprintf(cmd.OutOrStdout(), "Event %s was not in favorites\n", args[0])
						return nil
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from favorites\n", args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "check <event-id>",
			Short: "Report whether an event is a favorite",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withFavorites(cmd, func(ctx context.Context, s *interfaces.FavoriteService) error {
					exists, err := s.IsFavorite(ctx, args[0])
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), exists)
					return nil
				})
			},
		},
	)

	return cmd
}

func newFavoritesAddCmd(a *app) *cobra.Command {
	var input domain.FavoriteInput
	var fromEvent string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event to favorites",
		Long: `Add an event to favorites from explicit fields, or with --from-event fetch the
event from Ticketmaster and store its normalized details.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withFavorites(cmd, func(ctx context.Context, s *interfaces.FavoriteService) error {
				in := input
				if fromEvent != "" {
					detail, err := a.eventService(nil).GetEventDetail(ctx, fromEvent)
					if err != nil {
						return fmt.Errorf("failed to fetch event %s: %w", fromEvent, err)
					}
					in = detail.FavoriteInput()
				}

				result, err := s.AddFavorite(ctx, in)
				if err != nil {
					return err
				}
				if result.AlreadyExists {
					fmt.Fprintf(cmd.OutOrStdout(), "Event %s already in favorites\n", result.Favorite.EventID)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites\n", result.Favorite.EventID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input.EventID, "event-id", "", "Ticketmaster event ID")
	cmd.Flags().StringVar(&input.Name, "name", "", "event name")
	cmd.Flags().StringVar(&input.Venue, "venue", "", "venue name")
	cmd.Flags().StringVar(&input.Category, "category", "", "category or genre")
	cmd.Flags().StringVar(&input.ImageURL, "image-url", "", "event image URL")
	cmd.Flags().StringVar(&input.Date, "date", "", "local date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&input.Time, "time", "", "local time (HH:MM:SS)")
	cmd.Flags().StringVar(&fromEvent, "from-event", "", "fetch this Ticketmaster event and favorite it")
	cmd.MarkFlagsMutuallyExclusive("from-event", "event-id")

	return cmd
}

// withFavorites opens the configured store for the duration of fn.
func (a *app) withFavorites(cmd *cobra.Command, fn func(ctx context.Context, s *interfaces.FavoriteService) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	store, err := storage.Open(ctx, a.cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	if store.Favorites == nil {
		return fmt.Errorf("no favorites store configured: %w", domain.ErrStorageUnavailable)
	}

	err = fn(ctx, interfaces.NewFavoriteService(store.Favorites, interfaces.WithFavoriteLogger(a.logger)))
	var validation domain.ValidationError
	if errors.As(err, &validation) {
		return fmt.Errorf("%s", validation.Message)
	}
	return err
}

func printFavorites(w io.Writer, favorites []domain.Favorite) {
	if len(favorites) == 0 {
		fmt.Fprintln(w, "No favorites yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EVENT ID\tNAME\tDATE\tVENUE\tADDED")
	for _, f := range favorites {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.EventID, f.Name, f.Date, f.Venue, f.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
	fmt.Fprintf(w, "Total: %d favorites\n", len(favorites))
}
