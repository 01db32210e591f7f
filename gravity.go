package main

import (
	"fmt"

	"hadydotai/intcode/intcode"
	"hadydotai/intcode/puzzle"
)

type GravityCommand struct {
	Noun   int64 `long:"noun" description:"Value written to address 1" default:"12"`
	Verb   int64 `long:"verb" description:"Value written to address 2" default:"2"`
	Search bool  `long:"search" description:"Search for the noun and verb that produce --target"`
	Target int64 `long:"target" description:"Value address 0 must hold when searching" default:"19690720"`
	Args   struct {
		ProgramFile string `positional-arg-name:"PROGRAM" required:"yes"`
	} `positional-args:"yes"`
}

var gravityCommand GravityCommand

func (cmd *GravityCommand) Execute(args []string) error {
	program, err := intcode.ParseFile(cmd.Args.ProgramFile)
	if err != nil {
		return err
	}

	if !cmd.Search {
		v, err := puzzle.RestoreGravityAssist(program, cmd.Noun, cmd.Verb)
		if err != nil {
			return fmt.Errorf("failed to run with noun=%d verb=%d: %w", cmd.Noun, cmd.Verb, err)
		}
		fmt.Fprintln(stdout, v)
		return nil
	}

	noun, verb, err := puzzle.FindNounVerb(program, cmd.Target)
	if err != nil {
		return fmt.Errorf("failed to find noun and verb for %d: %w", cmd.Target, err)
	}
	fmt.Fprintln(stdout, 100*noun+verb)
	return nil
}

func init() {
	flagsparser.AddCommand(
		"gravity",
		"Restore the gravity assist program",
		"Patches a noun and verb into addresses 1 and 2, runs the program and prints address 0, or searches for the pair producing a target",
		&gravityCommand,
	)
}
