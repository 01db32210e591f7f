package main

import (
	"io"
	"os"

	"hadydotai/intcode/logging"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	LogLevel logging.LogLevel `short:"l" long:"loglevel" env:"INTCODE_LOGLEVEL" description:"Set the level of logging" choice:"none" choice:"info" choice:"debug" default:"info"`
}

var (
	opts        Options
	flagsparser = flags.NewParser(&opts, flags.Default)

	// stdout is where commands write their answers; logs go to stderr.
	stdout io.Writer = os.Stdout
)

func main() {
	flagsparser.CommandHandler = func(command flags.Commander, args []string) error {
		logging.Setup(opts.LogLevel, os.Stderr)
		return command.Execute(args)
	}

	if _, err := flagsparser.Parse(); err != nil {
		switch flagsErr := err.(type) {
		case *flags.Error:
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(1)
		default:
			os.Exit(1)
		}
	}
}
