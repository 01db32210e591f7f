package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"hadydotai/intcode/intcode"
	"hadydotai/intcode/logging"

	"github.com/alecthomas/repr"
	"github.com/chzyer/readline"
)

// maxHistory bounds the snapshots kept for "back".
const maxHistory = 4096

type REPL struct {
	vm          *intcode.Machine
	program     []int64
	inputs      []int64
	sourceFile  string
	breakpoints map[int]bool
	history     []*intcode.Snapshot
	rl          *readline.Instance
	out         io.Writer
}

func NewREPL(sourceFile string, program []int64, inputs []int64) *REPL {
	r := &REPL{
		program:     program,
		inputs:      inputs,
		sourceFile:  sourceFile,
		breakpoints: make(map[int]bool),
		out:         stdout,
	}
	r.restartVM()
	return r
}

// completer implements readline.AutoCompleter
type completer struct{}

func (c completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	commands := []string{
		"step", "s", "n",
		"back", "b",
		"continue", "c",
		"break",
		"mem",
		"regs", "pc",
		"input",
		"out",
		"list", "l",
		"state",
		"restart", "r",
		"load",
		"quit", "q",
		"help", "h",
	}

	input := string(line[:pos])
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, input) {
			newLine = append(newLine, []rune(cmd[len(input):]))
		}
	}
	return newLine, len(input)
}

func (r *REPL) printHelp() {
	help := `
Available Commands:
  step, s, n [N]     Execute the next N instructions (default 1)
  back, b            Step back to the previous state
  continue, c        Run until a breakpoint, halt or fault
  break [addr]       Toggle a breakpoint at addr, or list breakpoints
  mem [addr [n]]     Show n memory cells from addr (default: 8 from PC)
  regs, pc           Show the register block
  input <v>...       Queue input values
  out                Show every output so far
  list, l [addr [n]] Disassemble n instructions from addr (default: 10 from PC)
  state              Dump the full machine state
  restart, r         Reload the program and its initial inputs
  load <file>        Load another program file
  help, h            Show this help message
  quit, q            Exit debugger

Tips:
  - Use Tab for command completion
  - Use Up/Down arrows for command history
`
	fmt.Fprintln(r.out, help)
}

func (r *REPL) Start(historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32m⟩\033[0m ",
		HistoryFile:     historyFile,
		HistoryLimit:    1000,
		AutoComplete:    completer{},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to start debugger prompt: %w", err)
	}
	r.rl = rl
	defer func() {
		logging.LogErr(r.rl.Close(), "failed to close debugger prompt")
	}()

	fmt.Fprintln(r.out, "\033[1;36mIntcode Debugger REPL v0.1\033[0m")
	fmt.Fprintln(r.out, "Type 'help' or 'h' for available commands")
	fmt.Fprintf(r.out, "Program: %s (%d cells)\n\n", r.sourceFile, len(r.program))
	r.printState()

	for {
		line, err := r.rl.Readline()
		if err != nil { // io.EOF, readline.ErrInterrupt
			return nil
		}
		if r.exec(line) {
			return nil
		}
	}
}

// exec runs one debugger command and reports whether the session should end.
func (r *REPL) exec(line string) bool {
	args := strings.Fields(strings.TrimSpace(line))
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "help", "h":
		r.printHelp()

	case "step", "s", "n":
		n := 1
		if len(args) > 1 {
			v, err := strconv.Atoi(args[1])
			if err != nil || v < 1 {
				fmt.Fprintf(r.out, "Invalid step count: %s\n", args[1])
				return false
			}
			n = v
		}
		for i := 0; i < n; i++ {
			if !r.step() {
				break
			}
		}
		r.printState()

	case "back", "b":
		if len(r.history) == 0 {
			fmt.Fprintln(r.out, "\033[31mNo earlier state\033[0m")
			return false
		}
		r.vm.Restore(r.history[len(r.history)-1])
		r.history = r.history[:len(r.history)-1]
		r.printState()

	case "continue", "c":
		r.cont()
		r.printState()

	case "break":
		if len(args) < 2 {
			r.listBreakpoints()
			return false
		}
		addr, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(r.out, "Invalid address: %s\n", args[1])
			return false
		}
		if r.breakpoints[addr] {
			delete(r.breakpoints, addr)
			fmt.Fprintf(r.out, "Breakpoint cleared at %d\n", addr)
		} else {
			r.breakpoints[addr] = true
			fmt.Fprintf(r.out, "Breakpoint set at %d\n", addr)
		}

	case "mem":
		from, n, ok := r.rangeArgs(args[1:], 8)
		if ok {
			r.printMemory(from, n)
		}

	case "regs", "pc":
		reg := r.vm.Register()
		fmt.Fprintf(r.out, "PC: %d  Status: %s  Halt: %t  Jump: %t  Carry: %t  Sign: %t\n",
			reg.PC, r.vm.Status(), reg.Halt, reg.Jump, reg.Carry, reg.Sign)
		fmt.Fprintf(r.out, "Inputs: %s\n", formatCells(reg.Inputs))

	case "input":
		if len(args) < 2 {
			fmt.Fprintln(r.out, "Usage: input <value>...")
			return false
		}
		for _, a := range args[1:] {
			v, err := strconv.ParseInt(a, 10, 64)
			if err != nil {
				fmt.Fprintf(r.out, "Invalid input value: %s\n", a)
				return false
			}
			r.vm.PushInput(v)
		}
		fmt.Fprintf(r.out, "Inputs: %s\n", formatCells(r.vm.Register().Inputs))

	case "out":
		fmt.Fprintf(r.out, "Outputs: %s\n", formatCells(r.vm.Outputs()))

	case "list", "l":
		from, n, ok := r.rangeArgs(args[1:], 10)
		if ok {
			r.printListing(from, n)
		}

	case "state":
		fmt.Fprintln(r.out, repr.String(r.vm.Snapshot(), repr.Indent("  ")))

	case "restart", "r":
		r.restartVM()
		fmt.Fprintln(r.out, "Program restarted")
		r.printState()

	case "load":
		if len(args) < 2 {
			fmt.Fprintln(r.out, "Usage: load <filename>")
			return false
		}
		if err := r.loadFile(args[1]); err != nil {
			fmt.Fprintf(r.out, "\033[31mError loading file: %v\033[0m\n", err)
			return false
		}
		fmt.Fprintf(r.out, "\033[32mLoaded file: %s\033[0m\n", args[1])
		r.printState()

	case "quit", "q":
		fmt.Fprintln(r.out, "\033[32mGoodbye!\033[0m")
		return true

	default:
		fmt.Fprintf(r.out, "\033[31mUnknown command: %s\033[0m\n", args[0])
	}
	return false
}

// step runs one cycle, keeping the prior state for "back". It reports whether
// the machine can keep going.
func (r *REPL) step() bool {
	if r.vm.Status() != intcode.StatusRunning {
		return false
	}

	r.history = append(r.history, r.vm.Snapshot())
	if len(r.history) > maxHistory {
		r.history = r.history[1:]
	}

	status, err := r.vm.Step()
	if err != nil {
		// Faults are reported by printState.
		if r.vm.Status() != intcode.StatusFaulted {
			fmt.Fprintf(r.out, "\033[31mExecution error: %v\033[0m\n", err)
		}
		return false
	}
	return status == intcode.StatusRunning
}

func (r *REPL) cont() {
	for r.step() {
		if pc := r.vm.PC(); r.breakpoints[pc] {
			fmt.Fprintf(r.out, "\033[1;31mBreakpoint hit at %d\033[0m\n", pc)
			return
		}
	}
}

func (r *REPL) restartVM() {
	r.vm = intcode.New()
	r.vm.Load(r.program)
	r.vm.PushInput(r.inputs...)
	r.history = nil
}

func (r *REPL) loadFile(filename string) error {
	program, err := intcode.ParseFile(filename)
	if err != nil {
		return err
	}
	r.program = program
	r.sourceFile = filename
	r.restartVM()
	return nil
}

func (r *REPL) printState() {
	switch r.vm.Status() {
	case intcode.StatusHalted:
		fmt.Fprintf(r.out, "\033[32mProgram halted\033[0m, outputs: %s\n", formatCells(r.vm.Outputs()))
		return
	case intcode.StatusFaulted:
		fmt.Fprintf(r.out, "\033[31mProgram faulted: %v\033[0m\n", r.vm.Err())
		return
	}

	pc := r.vm.PC()
	instr := "<off tape>"
	if line, ok := intcode.DisassembleAt(r.vm.Memory(), pc); ok {
		instr = line.String()
	}
	fmt.Fprintf(r.out, "\033[1;35mPC: %d\033[0m (\033[1;33mInstruction: %s\033[0m)\n", pc, instr)
	fmt.Fprintf(r.out, "\033[1;32mInputs:\033[0m %s\n", formatCells(r.vm.Register().Inputs))
	fmt.Fprintf(r.out, "\033[1;36mOutputs:\033[0m %s\n", formatCells(r.vm.Outputs()))
}

func (r *REPL) printMemory(from, n int) {
	mem := r.vm.Memory()
	for addr := from; addr < from+n && addr < len(mem); addr++ {
		marker := "  "
		if addr == r.vm.PC() {
			marker = "=>"
		}
		fmt.Fprintf(r.out, "%s \033[90m%04d:\033[0m %d\n", marker, addr, mem[addr])
	}
}

func (r *REPL) printListing(from, n int) {
	mem := r.vm.Memory()
	addr := from
	for i := 0; i < n; i++ {
		line, ok := intcode.DisassembleAt(mem, addr)
		if !ok {
			return
		}
		marker := "  "
		switch {
		case addr == r.vm.PC():
			marker = "=>"
		case r.breakpoints[addr]:
			marker = "\033[31m●\033[0m "
		}
		fmt.Fprintf(r.out, "%s \033[90m%04d:\033[0m %s\n", marker, addr, line)
		addr += line.Width()
	}
}

func (r *REPL) listBreakpoints() {
	if len(r.breakpoints) == 0 {
		fmt.Fprintln(r.out, "No breakpoints")
		return
	}
	addrs := make([]int, 0, len(r.breakpoints))
	for addr := range r.breakpoints {
		addrs = append(addrs, addr)
	}
	slices.Sort(addrs)
	for _, addr := range addrs {
		fmt.Fprintf(r.out, "Breakpoint at %d\n", addr)
	}
}

// rangeArgs reads the optional [addr [count]] arguments shared by mem and list.
func (r *REPL) rangeArgs(args []string, defaultCount int) (int, int, bool) {
	from, n := r.vm.PC(), defaultCount
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			fmt.Fprintf(r.out, "Invalid address: %s\n", args[0])
			return 0, 0, false
		}
		from = v
	}
	if len(args) > 1 {
		v, err := strconv.Atoi(args[1])
		if err != nil || v < 1 {
			fmt.Fprintf(r.out, "Invalid count: %s\n", args[1])
			return 0, 0, false
		}
		n = v
	}
	return from, n, true
}

func formatCells(cells []int64) string {
	values := make([]string, len(cells))
	for i, v := range cells {
		values[i] = strconv.FormatInt(v, 10)
	}
	return "[" + strings.Join(values, ", ") + "]"
}
