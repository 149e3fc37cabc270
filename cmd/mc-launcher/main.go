package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/google/subcommands"
	"os"
)

const programName = "mc-launcher"

var (
	configPath string
	verbose    bool
)

func main() {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.StringVar(&configPath, "conf", "", "Path to the config file (.yml or .toml)")
	fs.BoolVar(&verbose, "v", false, "Enable development logging")

	cdr := subcommands.NewCommander(fs, programName)
	cdr.Register(&VersionsCommand{}, "")
	cdr.Register(&CreateCommand{}, "")
	cdr.Register(&LaunchCommand{}, "")
	cdr.Register(&ServeCommand{}, "")
	cdr.Register(cdr.HelpCommand(), "help")
	cdr.Register(cdr.FlagsCommand(), "help")
	cdr.Register(cdr.CommandsCommand(), "help")

	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	switch cdr.Execute(context.Background()) {
	case subcommands.ExitFailure:
		os.Exit(1)
	case subcommands.ExitUsageError:
		os.Exit(2)
	}
}
