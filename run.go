package main

import (
	"fmt"
	"strconv"
	"strings"

	"hadydotai/intcode/intcode"
	"hadydotai/intcode/logging"

	"github.com/alecthomas/repr"
)

// Patch is an ADDR=VALUE memory write applied after loading.
type Patch struct {
	Addr  int64
	Value int64
}

func (p *Patch) UnmarshalFlag(value string) error {
	addr, val, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("patch %q is not in ADDR=VALUE form", value)
	}
	var err error
	if p.Addr, err = strconv.ParseInt(strings.TrimSpace(addr), 10, 64); err != nil {
		return fmt.Errorf("patch %q has a bad address: %w", value, err)
	}
	if p.Value, err = strconv.ParseInt(strings.TrimSpace(val), 10, 64); err != nil {
		return fmt.Errorf("patch %q has a bad value: %w", value, err)
	}
	return nil
}

type RunCommand struct {
	Inputs  []int64 `short:"i" long:"input" description:"Queue an input value, repeat for more"`
	Patches []Patch `short:"p" long:"patch" value-name:"ADDR=VALUE" description:"Overwrite a memory cell before running, repeat for more"`
	Peek    []int64 `long:"peek" value-name:"ADDR" description:"Print a memory cell after the run, repeat for more"`
	Dump    bool    `short:"d" long:"dump" description:"Dump the final machine state"`
	Trace   bool    `short:"t" long:"trace" description:"Log every decoded instruction (with --loglevel=debug)"`
	Args    struct {
		ProgramFile string `positional-arg-name:"PROGRAM" required:"yes"`
	} `positional-args:"yes"`
}

var runCommand RunCommand

func (cmd *RunCommand) Execute(args []string) error {
	program, err := intcode.ParseFile(cmd.Args.ProgramFile)
	if err != nil {
		return err
	}

	vm := intcode.New(intcode.WithTrace(cmd.Trace))
	vm.Load(program)
	for _, p := range cmd.Patches {
		if err := vm.WriteMemory(p.Addr, p.Value); err != nil {
			return fmt.Errorf("failed to patch address %d: %w", p.Addr, err)
		}
	}
	vm.PushInput(cmd.Inputs...)

	logging.Log(logging.LogLevelInfo, "Running program", "file", cmd.Args.ProgramFile, "cells", len(program), "inputs", len(cmd.Inputs))
	_, _, runErr := vm.Run()

	// Outputs produced before a fault are still worth seeing.
	for _, out := range vm.Outputs() {
		fmt.Fprintln(stdout, out)
	}
	if runErr != nil {
		return fmt.Errorf("failed to run %s: %w", cmd.Args.ProgramFile, runErr)
	}

	for _, addr := range cmd.Peek {
		v, err := vm.ReadMemory(addr)
		if err != nil {
			return fmt.Errorf("failed to peek address %d: %w", addr, err)
		}
		fmt.Fprintf(stdout, "[%d] = %d\n", addr, v)
	}

	if cmd.Dump {
		fmt.Fprintln(stdout, repr.String(vm.Snapshot(), repr.Indent("  ")))
	}
	return nil
}

func init() {
	flagsparser.AddCommand(
		"run",
		"Run an Intcode program",
		"Loads the program, queues the given inputs, runs it until it halts and prints every output on its own line",
		&runCommand,
	)
}
