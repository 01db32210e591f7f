package main

import (
	"hadydotai/intcode/intcode"
	"hadydotai/intcode/logging"
)

type DebugCommand struct {
	Inputs      []int64 `short:"i" long:"input" description:"Queue an input value, repeat for more"`
	Breakpoints []int   `short:"b" long:"break" value-name:"ADDR" description:"Set a breakpoint before starting, repeat for more"`
	History     string  `long:"history" description:"Debugger command history file" default:"/tmp/.intcode_debugger_history"`
	Args        struct {
		ProgramFile string `positional-arg-name:"PROGRAM" required:"yes"`
	} `positional-args:"yes"`
}

var debugCommand DebugCommand

func (cmd *DebugCommand) Execute(args []string) error {
	program, err := intcode.ParseFile(cmd.Args.ProgramFile)
	if err != nil {
		return err
	}

	logging.Log(logging.LogLevelDebug, "Starting debugger", "file", cmd.Args.ProgramFile, "breakpoints", cmd.Breakpoints)
	repl := NewREPL(cmd.Args.ProgramFile, program, cmd.Inputs)
	for _, addr := range cmd.Breakpoints {
		repl.breakpoints[addr] = true
	}
	return repl.Start(cmd.History)
}

func init() {
	flagsparser.AddCommand(
		"debug",
		"Step through an Intcode program",
		"Starts an interactive debugger with stepping, stepping back, breakpoints and memory inspection",
		&debugCommand,
	)
}
