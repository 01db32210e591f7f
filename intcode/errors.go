package intcode

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

var (
	ErrOutOfBounds        = errors.New("memory access out of bounds")
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrInputExhausted     = errors.New("no input available")
	ErrProgramNotHalted   = errors.New("program did not halt")
	ErrNoProgram          = errors.New("no program loaded")
)

type FaultKind int

const (
	FaultOutOfBounds FaultKind = iota
	FaultUnknownInstruction
	FaultInputExhausted
	FaultProgramNotHalted
)

func (k FaultKind) String() string {
	switch k {
	case FaultOutOfBounds:
		return "out-of-bounds access"
	case FaultUnknownInstruction:
		return "unknown instruction"
	case FaultInputExhausted:
		return "input exhausted"
	case FaultProgramNotHalted:
		return "program not halted"
	default:
		return "unknown fault"
	}
}

// Fault is an unrecoverable run-time error. It terminates the current run and
// sticks to the machine until the next Load.
type Fault struct {
	Kind FaultKind
	// PC is the instruction pointer of the cycle that faulted, -1 outside a run.
	PC int
	// Opcode is the raw instruction cell, when one could be read.
	Opcode int64
	// Addr is the offending address for memory faults.
	Addr int64
}

func (f *Fault) Error() string {
	where := "fault"
	if f.PC >= 0 {
		where = fmt.Sprintf("fault at pc=%d", f.PC)
	}
	switch f.Kind {
	case FaultOutOfBounds:
		return fmt.Sprintf("%s: %s: address %d", where, f.Kind, f.Addr)
	case FaultUnknownInstruction:
		return fmt.Sprintf("%s: %s: %d", where, f.Kind, f.Opcode)
	case FaultProgramNotHalted:
		return fmt.Sprintf("%s: %s: pointer left the tape", where, f.Kind)
	default:
		return fmt.Sprintf("%s: %s", where, f.Kind)
	}
}

// Unwrap lets errors.Is match the sentinel for the fault kind. A pointer that
// walked off the tape is also an out-of-bounds access.
func (f *Fault) Unwrap() []error {
	switch f.Kind {
	case FaultOutOfBounds:
		return []error{ErrOutOfBounds}
	case FaultUnknownInstruction:
		return []error{ErrUnknownInstruction}
	case FaultInputExhausted:
		return []error{ErrInputExhausted}
	case FaultProgramNotHalted:
		return []error{ErrProgramNotHalted, ErrOutOfBounds}
	}
	return nil
}

type ParseError struct {
	Message string
	Pos     lexer.Position
	Source  string
	Snippet string // The offending token, if known
}

func (e *ParseError) Error() string {
	return formatParseError(e)
}

// formatParseError renders the message followed by the offending line with a
// caret under the bad token.
func formatParseError(err *ParseError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\x1b[1;31mparse error\x1b[0m: %s\n", err.Message)

	lines := strings.Split(err.Source, "\n")
	if err.Pos.Line > 0 && err.Pos.Line <= len(lines) {
		line := lines[err.Pos.Line-1]
		fmt.Fprintf(&b, "\x1b[1;34m-->\x1b[0m %s:%d:%d\n", err.Pos.Filename, err.Pos.Line, err.Pos.Column)

		// Intcode programs tend to be one very long line; show a window around the column.
		start, end := 0, len(line)
		if err.Pos.Column > 40 {
			start = err.Pos.Column - 40
		}
		if start > end {
			start = end
		}
		if end-start > 80 {
			end = start + 80
		}
		fmt.Fprintf(&b, "%4d | %s\n", err.Pos.Line, line[start:end])

		col := err.Pos.Column - start
		if col < 1 {
			col = 1
		}
		pointer := strings.Repeat(" ", col-1) + "\x1b[1;31m^"
		if n := utf8.RuneCountInString(err.Snippet); n > 1 {
			pointer += strings.Repeat("~", n-1)
		}
		fmt.Fprintf(&b, "     | %s\x1b[0m\n", pointer)
	}

	return b.String()
}
