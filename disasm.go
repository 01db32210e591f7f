package main

import (
	"fmt"

	"hadydotai/intcode/intcode"
)

type DisasmCommand struct {
	NoColor bool `long:"no-color" description:"Disable ANSI colors"`
	Args    struct {
		ProgramFile string `positional-arg-name:"PROGRAM" required:"yes"`
	} `positional-args:"yes"`
}

var disasmCommand DisasmCommand

func (cmd *DisasmCommand) Execute(args []string) error {
	program, err := intcode.ParseFile(cmd.Args.ProgramFile)
	if err != nil {
		return err
	}
	printListing(program, !cmd.NoColor)
	return nil
}

func printListing(program []int64, color bool) {
	addrFmt, opFmt, dataFmt := "%04d: ", "%-5v", "%-5s %d"
	if color {
		addrFmt = "\033[90m%04d:\033[0m "
		opFmt = "\033[1;33m%-5v\033[0m"
		dataFmt = "\033[90m%-5s %d\033[0m"
	}

	for _, line := range intcode.Disassemble(program) {
		fmt.Fprintf(stdout, addrFmt, line.Addr)
		if line.Data {
			fmt.Fprintf(stdout, dataFmt, "DATA", line.Raw)
			fmt.Fprintln(stdout)
			continue
		}
		fmt.Fprintf(stdout, opFmt, line.Op)
		for i, v := range line.Operands {
			if line.Modes[i] == intcode.ModeImmediate {
				fmt.Fprintf(stdout, " #%d", v)
			} else {
				fmt.Fprintf(stdout, " [%d]", v)
			}
		}
		fmt.Fprintln(stdout)
	}
}

func init() {
	flagsparser.AddCommand(
		"disasm",
		"Disassemble an Intcode program",
		"Prints a linear listing of the program; cells that do not decode are shown as DATA",
		&disasmCommand,
	)
}
