package intcode

import (
	"fmt"
	"strings"
)

// Line is one entry of a static listing. Cells that do not decode into a
// complete instruction are listed one at a time as data.
type Line struct {
	Addr     int
	Data     bool
	Op       Operation
	Modes    []Mode
	Operands []int64 // raw operand cells, not resolved
	Raw      int64
}

func (l Line) Width() int {
	if l.Data {
		return 1
	}
	return 1 + len(l.Operands)
}

func (l Line) String() string {
	if l.Data {
		return fmt.Sprintf("DATA %d", l.Raw)
	}

	var b strings.Builder
	b.WriteString(l.Op.String())
	for i, v := range l.Operands {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		if l.Modes[i] == ModeImmediate {
			fmt.Fprintf(&b, "#%d", v)
		} else {
			fmt.Fprintf(&b, "[%d]", v)
		}
	}
	return b.String()
}

// Disassemble walks program linearly from address 0. Self-modifying code and
// data interleaved with code make this a best-effort view.
func Disassemble(program []int64) []Line {
	var lines []Line
	for addr := 0; addr < len(program); {
		line, _ := DisassembleAt(program, addr)
		lines = append(lines, line)
		addr += line.Width()
	}
	return lines
}

// DisassembleAt decodes the single entry at addr. It reports false when addr
// is not on the tape.
func DisassembleAt(program []int64, addr int) (Line, bool) {
	if addr < 0 || addr >= len(program) {
		return Line{Addr: addr, Data: true}, false
	}
	cell := program[addr]
	data := Line{Addr: addr, Data: true, Raw: cell}

	op, modes, ok := splitOpcode(cell)
	if !ok || addr+len(modes) >= len(program) {
		return data, true
	}

	operands := make([]int64, len(modes))
	copy(operands, program[addr+1:addr+1+len(modes)])
	return Line{Addr: addr, Op: op, Modes: modes, Operands: operands, Raw: cell}, true
}
