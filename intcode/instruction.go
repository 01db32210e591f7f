package intcode

import (
	"fmt"
	"strings"
)

// Operation is both the operation tag and its numeric opcode.
type Operation int64

const (
	OpAdd         Operation = 1
	OpMultiply    Operation = 2
	OpInput       Operation = 3
	OpOutput      Operation = 4
	OpJumpIfTrue  Operation = 5
	OpJumpIfFalse Operation = 6
	OpLessThan    Operation = 7
	OpEquals      Operation = 8
	OpHalt        Operation = 99
)

func (op Operation) String() string {
	switch op {
	case OpAdd:
		return "ADD"
	case OpMultiply:
		return "MUL"
	case OpInput:
		return "IN"
	case OpOutput:
		return "OUT"
	case OpJumpIfTrue:
		return "JIT"
	case OpJumpIfFalse:
		return "JIF"
	case OpLessThan:
		return "LT"
	case OpEquals:
		return "EQ"
	case OpHalt:
		return "HALT"
	default:
		return "UNKNOWN"
	}
}

// Arity is the number of operand cells following the opcode cell. It returns
// -1 for codes outside the instruction set.
func (op Operation) Arity() int {
	switch op {
	case OpAdd, OpMultiply, OpLessThan, OpEquals:
		return 3
	case OpJumpIfTrue, OpJumpIfFalse:
		return 2
	case OpInput, OpOutput:
		return 1
	case OpHalt:
		return 0
	default:
		return -1
	}
}

func (op Operation) Valid() bool {
	return op.Arity() >= 0
}

type Mode int

const (
	ModePosition  Mode = 0
	ModeImmediate Mode = 1
)

func (m Mode) String() string {
	switch m {
	case ModePosition:
		return "pos"
	case ModeImmediate:
		return "imm"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Instruction is the decoded view of the cell at PC. Args hold resolved
// addresses, never values.
type Instruction struct {
	PC    int
	Raw   int64
	Op    Operation
	Modes []Mode
	Args  []int64
}

// Width is the number of cells the instruction occupies.
func (ins Instruction) Width() int {
	return 1 + len(ins.Args)
}

func (ins Instruction) String() string {
	var b strings.Builder
	b.WriteString(ins.Op.String())
	for i, arg := range ins.Args {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "[%d]", arg)
	}
	return b.String()
}

// splitOpcode breaks an instruction cell into its operation and the mode of
// each of its arguments, least significant mode digit first.
func splitOpcode(cell int64) (Operation, []Mode, bool) {
	op := Operation(cell % 100)
	arity := op.Arity()
	if cell < 0 || arity < 0 {
		return op, nil, false
	}

	modes := make([]Mode, arity)
	digits := cell / 100
	for i := range modes {
		switch digits % 10 {
		case 0:
			modes[i] = ModePosition
		case 1:
			modes[i] = ModeImmediate
		default:
			return op, nil, false
		}
		digits /= 10
	}
	return op, modes, true
}

// Decode reads the instruction at pc, resolving each argument to the address
// it refers to.
func Decode(mem *Memory, pc int) (Instruction, error) {
	cell, err := mem.Read(int64(pc))
	if err != nil {
		return Instruction{}, err
	}

	op, modes, ok := splitOpcode(cell)
	if !ok {
		return Instruction{}, &Fault{Kind: FaultUnknownInstruction, PC: pc, Opcode: cell}
	}

	args := make([]int64, len(modes))
	for i, mode := range modes {
		addr, err := mem.ResolveOperandAddress(pc, i+1, mode)
		if err != nil {
			return Instruction{}, err
		}
		args[i] = addr
	}

	return Instruction{PC: pc, Raw: cell, Op: op, Modes: modes, Args: args}, nil
}
