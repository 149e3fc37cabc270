package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	exitReload "github.com/MrMelon54/exit-reload"
	"github.com/google/subcommands"
	"github.com/mrmelon54/mc-launcher-core"
	"github.com/mrmelon54/mc-launcher-core/cmd/mc-launcher/routes"
	"go.uber.org/zap"
	"net/http"
	"time"
)

type ServeCommand struct{}

func (*ServeCommand) Name() string     { return "serve" }
func (*ServeCommand) Synopsis() string { return "serve the instance control api" }
func (*ServeCommand) Usage() string {
	return `Usage: mc-launcher serve

	Serves the HTTP control api on the configured listen address. SIGHUP
	reloads the config file. Only resolution takes effect on reload, every
	other field needs a restart.
`
}

func (cmd *ServeCommand) SetFlags(fs *flag.FlagSet) {}

func (cmd *ServeCommand) Execute(ctx context.Context, fs *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	l, err := openLauncher()
	if err != nil {
		fmt.Println("Failed to start:", err)
		return subcommands.ExitFailure
	}
	defer l.Close()

	listen := l.conf.Load().Listen
	if listen == "" {
		listen = "127.0.0.1:8080"
	}
	l.logger.Info("Starting MC Launcher", zap.String("listen", listen))

	srv := &http.Server{
		Addr:              listen,
		Handler:           routes.Router(l.orch, l.queries, l.cache, l.conf, l.logger),
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: time.Minute,
		IdleTimeout:       time.Minute,
		MaxHeaderBytes:    5000,
	}
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.logger.Error("Serve HTTP Error", zap.Error(err))
		}
	}()
	go l.cache.Ensure()

	exitReload.ExitReload("MC Launcher", func() {
		old := *l.conf.Load()
		if err := readConfig(l.conf); err != nil {
			l.logger.Error("Failed to reload config", zap.Error(err))
			return
		}
		if fields := restartRequired(old, *l.conf.Load()); len(fields) > 0 {
			l.logger.Warn("Config changes need a restart", zap.Strings("fields", fields))
		}
	}, func() {
		if err := srv.Close(); err != nil {
			l.logger.Error("Failed to close server", zap.Error(err))
		}
	})
	return subcommands.ExitSuccess
}

// restartRequired lists the fields that differ between old and next but are
// baked into the running components.
func restartRequired(old, next mc_launcher_core.LauncherConfig) []string {
	var a []string
	check := func(name string, changed bool) {
		if changed {
			a = append(a, name)
		}
	}
	check("dataDir", old.DataDir != next.DataDir)
	check("listen", old.Listen != next.Listen)
	check("launcherName", old.LauncherName != next.LauncherName)
	check("launcherVersion", old.LauncherVersion != next.LauncherVersion)
	check("userAgent", old.UserAgent != next.UserAgent)
	check("manifestTTL", old.ManifestTTL != next.ManifestTTL)
	check("preferCompressedRuntime", old.PreferCompressedRuntime != next.PreferCompressedRuntime)
	check("endpoints", old.Endpoints != next.Endpoints)
	return a
}
