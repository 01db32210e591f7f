package intcode

import (
	"errors"
	"math"

	"hadydotai/intcode/logging"
)

type Status int

const (
	StatusRunning Status = iota
	StatusHalted
	StatusFaulted
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusHalted:
		return "halted"
	case StatusFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

type Option func(*Machine)

// WithTrace logs every decoded instruction at debug level.
func WithTrace(enabled bool) Option {
	return func(m *Machine) {
		m.trace = enabled
	}
}

// Machine owns one tape and one register block. It is not safe for concurrent
// use; run separate machines on separate goroutines instead.
type Machine struct {
	memory   Memory
	register Register
	status   Status
	fault    error
	outputs  []int64
	trace    bool
}

func New(opts ...Option) *Machine {
	m := &Machine{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the tape with a copy of program and resets the control state,
// including any queued input.
func (m *Machine) Load(program []int64) {
	m.memory.Init(program)
	m.register.Reset()
	m.status = StatusRunning
	m.fault = nil
	m.outputs = nil
}

// PushInput queues values for future Input instructions.
func (m *Machine) PushInput(values ...int64) {
	m.register.PushInput(values...)
}

// Run executes until the program halts or faults. It returns the last value
// output during this call and whether there was one.
func (m *Machine) Run() (int64, bool, error) {
	var (
		last     int64
		produced bool
	)

	for {
		n := len(m.outputs)
		status, err := m.Step()
		if len(m.outputs) > n {
			last = m.outputs[len(m.outputs)-1]
			produced = true
		}
		if err != nil {
			return last, produced, err
		}
		if status == StatusHalted {
			return last, produced, nil
		}
	}
}

// Step runs a single fetch-decode-execute cycle. A halted machine stays
// halted and a faulted one keeps returning its fault until the next Load.
func (m *Machine) Step() (Status, error) {
	switch m.status {
	case StatusHalted:
		return m.status, nil
	case StatusFaulted:
		return m.status, m.fault
	}

	if m.memory.Len() == 0 {
		return m.status, ErrNoProgram
	}

	pc := m.register.PC
	if pc < 0 || pc >= m.memory.Len() {
		return m.fail(&Fault{Kind: FaultProgramNotHalted, PC: pc})
	}

	ins, err := Decode(&m.memory, pc)
	if err != nil {
		return m.fail(err)
	}

	if m.trace {
		logging.Log(logging.LogLevelDebug, "decoded", "pc", pc, "op", ins.Op, "modes", ins.Modes, "args", ins.Args)
	}

	if err := m.execute(ins); err != nil {
		return m.fail(err)
	}

	switch {
	case m.register.Halt:
		m.status = StatusHalted
	case m.register.Jump:
		m.register.Jump = false
	default:
		m.register.PC += ins.Width()
	}
	return m.status, nil
}

func (m *Machine) fail(err error) (Status, error) {
	var f *Fault
	if errors.As(err, &f) && f.PC < 0 {
		f.PC = m.register.PC
	}
	m.status = StatusFaulted
	m.fault = err
	logging.Log(logging.LogLevelDebug, "machine faulted", "pc", m.register.PC, "error", err)
	return m.status, err
}

func (m *Machine) execute(ins Instruction) error {
	switch ins.Op {
	case OpAdd:
		return m.executeAdd(ins)
	case OpMultiply:
		return m.executeMul(ins)
	case OpInput:
		return m.executeInput(ins)
	case OpOutput:
		return m.executeOutput(ins)
	case OpJumpIfTrue:
		return m.executeJump(ins, true)
	case OpJumpIfFalse:
		return m.executeJump(ins, false)
	case OpLessThan:
		return m.executeCompare(ins, func(a, b int64) bool { return a < b })
	case OpEquals:
		return m.executeCompare(ins, func(a, b int64) bool { return a == b })
	case OpHalt:
		m.register.Halt = true
		return nil
	default:
		return &Fault{Kind: FaultUnknownInstruction, PC: ins.PC, Opcode: ins.Raw}
	}
}

func (m *Machine) operands(ins Instruction, n int) ([]int64, error) {
	vals := make([]int64, n)
	for i := range vals {
		v, err := m.memory.Read(ins.Args[i])
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (m *Machine) executeAdd(ins Instruction) error {
	vals, err := m.operands(ins, 2)
	if err != nil {
		return err
	}
	a, b := vals[0], vals[1]
	res := a + b
	if (a >= 0) == (b >= 0) && (res >= 0) != (a >= 0) {
		m.wrapped(ins, res)
	}
	return m.memory.Write(ins.Args[2], res)
}

func (m *Machine) executeMul(ins Instruction) error {
	vals, err := m.operands(ins, 2)
	if err != nil {
		return err
	}
	a, b := vals[0], vals[1]
	res := a * b
	if a != 0 && b != 0 && (res/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64)) {
		m.wrapped(ins, res)
	}
	return m.memory.Write(ins.Args[2], res)
}

func (m *Machine) wrapped(ins Instruction, res int64) {
	m.register.Carry = true
	m.register.Sign = res < 0
	logging.Log(logging.LogLevelDebug, "arithmetic wrapped", "pc", ins.PC, "op", ins.Op, "result", res)
}

func (m *Machine) executeInput(ins Instruction) error {
	v, ok := m.register.PopInput()
	if !ok {
		return &Fault{Kind: FaultInputExhausted, PC: ins.PC, Opcode: ins.Raw}
	}
	return m.memory.Write(ins.Args[0], v)
}

func (m *Machine) executeOutput(ins Instruction) error {
	v, err := m.memory.Read(ins.Args[0])
	if err != nil {
		return err
	}
	m.outputs = append(m.outputs, v)
	logging.Log(logging.LogLevelDebug, "output", "pc", ins.PC, "value", v)
	return nil
}

func (m *Machine) executeJump(ins Instruction, whenNonZero bool) error {
	vals, err := m.operands(ins, 2)
	if err != nil {
		return err
	}
	if (vals[0] != 0) == whenNonZero {
		m.register.JumpTo(int(vals[1]))
	}
	return nil
}

func (m *Machine) executeCompare(ins Instruction, cmp func(a, b int64) bool) error {
	vals, err := m.operands(ins, 2)
	if err != nil {
		return err
	}
	var res int64
	if cmp(vals[0], vals[1]) {
		res = 1
	}
	return m.memory.Write(ins.Args[2], res)
}

func (m *Machine) ReadMemory(addr int64) (int64, error) {
	return m.memory.Read(addr)
}

func (m *Machine) WriteMemory(addr int64, value int64) error {
	return m.memory.Write(addr, value)
}

// Memory returns a copy of the tape.
func (m *Machine) Memory() []int64 {
	return m.memory.Cells()
}

// Outputs returns every value output since the last Load.
func (m *Machine) Outputs() []int64 {
	return append([]int64(nil), m.outputs...)
}

func (m *Machine) Status() Status {
	return m.status
}

// Err returns the fault that stopped the machine, if any.
func (m *Machine) Err() error {
	return m.fault
}

func (m *Machine) PC() int {
	return m.register.PC
}

func (m *Machine) Register() Register {
	return m.register.clone()
}

// Snapshot is a deep copy of everything Load resets.
type Snapshot struct {
	Memory   []int64
	Register Register
	Status   Status
	Outputs  []int64
	Fault    error
}

func (m *Machine) Snapshot() *Snapshot {
	return &Snapshot{
		Memory:   m.memory.Cells(),
		Register: m.register.clone(),
		Status:   m.status,
		Outputs:  append([]int64(nil), m.outputs...),
		Fault:    m.fault,
	}
}

func (m *Machine) Restore(s *Snapshot) {
	m.memory.Init(s.Memory)
	m.register = s.Register.clone()
	m.status = s.Status
	m.outputs = append([]int64(nil), s.Outputs...)
	m.fault = s.Fault
}
