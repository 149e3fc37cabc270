package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type VersionsCommand struct {
	Snapshots bool
}

func (*VersionsCommand) Name() string     { return "versions" }
func (*VersionsCommand) Synopsis() string { return "list installable game versions" }
func (*VersionsCommand) Usage() string {
	return `Usage: mc-launcher versions [-snapshots]

	Lists the version ids in the version manifest, newest first.

Flags:
`
}

func (cmd *VersionsCommand) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.Snapshots, "snapshots", false, "include snapshots and old betas")
}

func (cmd *VersionsCommand) Execute(ctx context.Context, fs *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	l, err := openLauncher()
	if err != nil {
		fmt.Println("Failed to start:", err)
		return subcommands.ExitFailure
	}
	defer l.Close()

	if err := l.cache.Refresh(ctx); err != nil {
		l.logger.Error("Failed to load version manifest", zap.Error(err))
		return subcommands.ExitFailure
	}
	ids, err := l.cache.Versions(cmd.Snapshots)
	if err != nil {
		l.logger.Error("Failed to list versions", zap.Error(err))
		return subcommands.ExitFailure
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return subcommands.ExitSuccess
}
