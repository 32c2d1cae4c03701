package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/atruong7-bot/event-search/pkg/config"
	"github.com/atruong7-bot/event-search/pkg/logging"
)

// app is the state shared by every subcommand once configuration is loaded.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRootCmd builds the command tree. Flags override file and environment
// settings.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "event-search",
		Short: "Search Ticketmaster events and keep a list of favorites",
		Long: `event-search proxies Ticketmaster Discovery searches, enriches music events
with Spotify artist data and stores favorite events in SQLite, PostgreSQL,
Redis or MongoDB.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./eventsearch.yaml)")
	root.PersistentFlags().String("driver", "", "favorites store: sqlite, postgres, redis, mongo or none")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "", "log format: json or text")

	a.v.BindPFlag("database.driver", root.PersistentFlags().Lookup("driver"))
	a.v.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))
	a.v.BindPFlag("logging.format", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(
		newServeCmd(a),
		newFavoritesCmd(a),
		newConfigCmd(a),
	)

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) load(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWith(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.cfg = cfg
	a.logger = logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", "path", used)
	}
	return nil
}
