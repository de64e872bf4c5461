// Package cli is the hbnb administration command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/msomdec/hbnb/internal/config"
	"github.com/msomdec/hbnb/internal/domain"
	"github.com/msomdec/hbnb/internal/repository/memory"
	"github.com/msomdec/hbnb/internal/repository/sqlite"
	"github.com/msomdec/hbnb/internal/security"
	"github.com/msomdec/hbnb/internal/service"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "hbnb",
		Short:        "hbnb marketplace administration",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file (default $"+config.ConfigEnv+")")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		migrateCmd(opts),
		createAdminCmd(opts),
		statsCmd(opts),
		checkLoginCmd(opts),
	)
	return cmd
}

// app is the wiring shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  domain.Store
	db     *sqlite.DB // nil for memory storage
	hasher domain.PasswordHasher
	facade *service.Facade
}

// openApp loads configuration, sets up logging and opens the configured
// store. SQLite stores are migrated before use.
func openApp(ctx context.Context, opts *rootOptions, logOut io.Writer) (*app, error) {
	cfg, path, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger(logOut, opts.debug)
	slog.SetDefault(logger)
	if path != "" {
		logger.Debug("config loaded", "path", path)
	}

	a := &app{cfg: cfg, logger: logger, hasher: newHasher(cfg)}
	switch cfg.Storage {
	case config.StorageMemory:
		a.store = memory.NewStore()
	case config.StorageSQLite:
		db, err := sqlite.New(cfg.DatabasePath, sqlite.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		a.db = db
		a.store = db
	}

	a.facade = service.NewFacade(a.store, a.hasher,
		service.WithLogger(logger),
		service.WithAmenityDedup(cfg.DedupeAmenities),
	)
	return a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func newHasher(cfg *config.Config) domain.PasswordHasher {
	if cfg.Hasher == config.HasherArgon2 {
		return security.NewArgon2Hasher(security.DefaultArgon2Params())
	}
	return security.NewBcryptHasher(cfg.BcryptCost)
}

// withApp opens the app for the duration of fn.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
