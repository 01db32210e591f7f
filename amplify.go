package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"hadydotai/intcode/intcode"
	"hadydotai/intcode/puzzle"
)

type AmplifyCommand struct {
	Phases   []int64 `long:"phase" value-name:"N" description:"Phase setting to permute, repeat for more" default:"0" default:"1" default:"2" default:"3" default:"4"`
	Sequence []int64 `short:"s" long:"sequence" value-name:"N" description:"Run this exact phase order instead of searching, repeat for more"`
	Args     struct {
		ProgramFile string `positional-arg-name:"PROGRAM" required:"yes"`
	} `positional-args:"yes"`
}

var amplifyCommand AmplifyCommand

func (cmd *AmplifyCommand) Execute(args []string) error {
	program, err := intcode.ParseFile(cmd.Args.ProgramFile)
	if err != nil {
		return err
	}

	if len(cmd.Sequence) > 0 {
		out, err := puzzle.RunChain(program, cmd.Sequence)
		if err != nil {
			return fmt.Errorf("failed to run amplifier chain: %w", err)
		}
		fmt.Fprintln(stdout, out)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	thrust, phases, err := puzzle.MaxThrust(ctx, program, cmd.Phases)
	if err != nil {
		return fmt.Errorf("failed to search phase settings: %w", err)
	}
	fmt.Fprintf(stdout, "%d %v\n", thrust, phases)
	return nil
}

func init() {
	flagsparser.AddCommand(
		"amplify",
		"Find the highest thruster signal of an amplifier chain",
		"Runs one copy of the program per phase setting in series and tries every ordering of the phases",
		&amplifyCommand,
	)
}
