package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type CreateCommand struct{}

func (*CreateCommand) Name() string     { return "create" }
func (*CreateCommand) Synopsis() string { return "download a version and create an instance" }
func (*CreateCommand) Usage() string {
	return `Usage: mc-launcher create <version> <name>

	Downloads everything <version> needs and stores the instance <name>.
	<version> is an exact id, latest, latest-snapshot or a semver constraint
	such as 1.20.x.
`
}

func (cmd *CreateCommand) SetFlags(fs *flag.FlagSet) {}

func (cmd *CreateCommand) Execute(ctx context.Context, fs *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if fs.NArg() != 2 {
		fmt.Print(cmd.Usage())
		return subcommands.ExitUsageError
	}
	l, err := openLauncher()
	if err != nil {
		fmt.Println("Failed to start:", err)
		return subcommands.ExitFailure
	}
	defer l.Close()

	conf, err := l.orch.CreateInstance(ctx, fs.Arg(0), fs.Arg(1))
	if err != nil {
		l.logger.Error("Failed to create instance", zap.String("name", fs.Arg(1)), zap.Error(err))
		return subcommands.ExitFailure
	}
	fmt.Printf("Created %s (%s)\njava: %s\n", conf.Name, conf.Version, conf.RuntimePath)
	return subcommands.ExitSuccess
}
