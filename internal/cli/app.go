// Package cli provides CLI commands using Bubble Tea TUI.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/dockwork/internal/cli/styles"
	"github.com/bnema/dockwork/internal/domain/build"
	"github.com/bnema/dockwork/internal/domain/repository"
	"github.com/bnema/dockwork/internal/infrastructure/config"
	"github.com/bnema/dockwork/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/dockwork/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	ConfigMgr *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info
	States    repository.StateRepository

	db  *sql.DB
	ctx context.Context
}

// NewApp creates a new CLI application with all dependencies.
func NewApp() (*App, error) {
	const dataDirPerm = 0o750

	cfg, cfgMgr := loadConfig()
	theme := styles.NewTheme()

	logLevel := cfg.Logging.Level
	if envLevel := os.Getenv("DOCKWORK_LOG_LEVEL"); envLevel != "" {
		logLevel = envLevel
	}
	logger := logging.NewFromConfigValues(logLevel, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)

	dbFile := cfg.Database.Path
	if dbFile == "" {
		var err error
		dbFile, err = config.GetDatabaseFile()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbFile), dataDirPerm); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	// Database open (migrations included) and schema file generation are
	// independent; run them concurrently.
	var db *sql.DB
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		db, err = sqlite.NewConnection(gctx, dbFile)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := config.GenerateSchemaFile(); err != nil {
			// Schema file is a convenience, not a requirement.
			logging.FromContext(gctx).Warn().Err(err).Msg("failed to write config schema file")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	logger.Debug().Str("db_path", dbFile).Msg("database connected")

	return &App{
		Config:    cfg,
		ConfigMgr: cfgMgr,
		Theme:     theme,
		States:    sqlite.NewStateRepository(db),
		db:        db,
		ctx:       ctx,
	}, nil
}

// Close releases all resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// loadConfig loads configuration from standard locations. The manager is nil
// when loading fell back to defaults; callers that want live reloads must
// check for that.
func loadConfig() (*config.Config, *config.Manager) {
	mgr, err := config.NewManager()
	if err != nil {
		return config.DefaultConfig(), nil
	}

	if err := mgr.Load(); err != nil {
		return config.DefaultConfig(), nil
	}

	return mgr.Get(), mgr
}
