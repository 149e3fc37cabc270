package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/google/subcommands"
	launch_args "github.com/mrmelon54/mc-launcher-core/launch-args"
	"go.uber.org/zap"
	"os"
	"os/exec"
)

type LaunchCommand struct {
	Username string
	Exec     bool
}

func (*LaunchCommand) Name() string     { return "launch" }
func (*LaunchCommand) Synopsis() string { return "print or run an instance's command line" }
func (*LaunchCommand) Usage() string {
	return `Usage: mc-launcher launch [-username name] [-exec] <name>

	Binds an offline account to the stored arguments of instance <name> and
	prints the command line, or runs it with -exec.

Flags:
`
}

func (cmd *LaunchCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&cmd.Username, "username", "Player", "offline player name")
	fs.BoolVar(&cmd.Exec, "exec", false, "run the game instead of printing the command")
}

func (cmd *LaunchCommand) Execute(ctx context.Context, fs *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if fs.NArg() != 1 {
		fmt.Print(cmd.Usage())
		return subcommands.ExitUsageError
	}
	name := fs.Arg(0)
	l, err := openLauncher()
	if err != nil {
		fmt.Println("Failed to start:", err)
		return subcommands.ExitFailure
	}
	defer l.Close()

	line, err := l.orch.LaunchArguments(ctx, name, launch_args.OfflineAccount(cmd.Username), l.conf.Load().GameResolution())
	if err != nil {
		l.logger.Error("Failed to load instance", zap.String("name", name), zap.Error(err))
		return subcommands.ExitFailure
	}
	if !cmd.Exec {
		for _, a := range line {
			fmt.Println(a)
		}
		return subcommands.ExitSuccess
	}

	c := exec.CommandContext(ctx, line[0], line[1:]...)
	c.Dir = l.orch.InstanceDir(name)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	l.logger.Info("Launching instance", zap.String("name", name), zap.String("java", line[0]))
	if err := c.Run(); err != nil {
		l.logger.Error("Game exited", zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
