package main

import (
	"database/sql"
	"fmt"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/mrmelon54/mc-launcher-core"
	"github.com/mrmelon54/mc-launcher-core/database"
	"github.com/mrmelon54/mc-launcher-core/downloader"
	"github.com/mrmelon54/mc-launcher-core/instance"
	"github.com/mrmelon54/mc-launcher-core/manifest"
	"github.com/mrmelon54/mc-launcher-core/rules"
	"go.uber.org/zap"
	"net/http"
	"os"
	"sync/atomic"
	"time"
)

// launcher holds everything the subcommands share.
type launcher struct {
	conf    *atomic.Pointer[mc_launcher_core.LauncherConfig]
	logger  *zap.Logger
	db      *sql.DB
	queries *database.Queries
	cache   *manifest.Cache
	orch    *instance.Orchestrator
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// readConfig loads the config file and fills in defaults.
func readConfig(ptr *atomic.Pointer[mc_launcher_core.LauncherConfig]) error {
	if err := loadConfig[mc_launcher_core.LauncherConfig](ptr, configPath); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	conf, err := ptr.Load().WithDefaults()
	if err != nil {
		return fmt.Errorf("config defaults: %w", err)
	}
	ptr.Store(&conf)
	return nil
}

func openLauncher() (*launcher, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	confPtr := new(atomic.Pointer[mc_launcher_core.LauncherConfig])
	if err := readConfig(confPtr); err != nil {
		return nil, err
	}
	conf := confPtr.Load()

	if err := os.MkdirAll(conf.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := database.Open(conf.DatabasePath())
	if err != nil {
		return nil, err
	}

	root := osfs.New(conf.DataDir)
	d := downloader.New(&http.Client{Timeout: 5 * time.Minute}, conf.UserAgent, logger)
	client := manifest.NewClient(d, root, conf.Endpoints, logger)
	cache := manifest.NewCache(client, conf.ManifestTTL, logger)
	queries := database.New(db)
	orch := instance.New(root, d, client, cache, queries, instance.Config{
		Platform:                rules.Current(),
		LauncherName:            conf.LauncherName,
		LauncherVersion:         conf.LauncherVersion,
		PreferCompressedRuntime: conf.PreferCompressedRuntime,
	}, logger)

	logger.Debug("Opened launcher", zap.String("data", conf.DataDir), zap.Any("platform", rules.Current()))
	return &launcher{
		conf:    confPtr,
		logger:  logger,
		db:      db,
		queries: queries,
		cache:   cache,
		orch:    orch,
	}, nil
}

func (l *launcher) Close() {
	if err := l.db.Close(); err != nil {
		l.logger.Warn("Failed to close database", zap.Error(err))
	}
	_ = l.logger.Sync()
}
