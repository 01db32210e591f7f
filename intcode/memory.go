package intcode

// Memory is the tape: code and data share one flat address space.
type Memory struct {
	raw []int64
}

// Init replaces the tape with a copy of program.
func (m *Memory) Init(program []int64) {
	m.raw = make([]int64, len(program))
	copy(m.raw, program)
}

func (m *Memory) Len() int {
	return len(m.raw)
}

func (m *Memory) inBounds(addr int64) bool {
	return addr >= 0 && addr < int64(len(m.raw))
}

func (m *Memory) Read(addr int64) (int64, error) {
	if !m.inBounds(addr) {
		return 0, &Fault{Kind: FaultOutOfBounds, PC: -1, Addr: addr}
	}
	return m.raw[addr], nil
}

func (m *Memory) Write(addr int64, value int64) error {
	if !m.inBounds(addr) {
		return &Fault{Kind: FaultOutOfBounds, PC: -1, Addr: addr}
	}
	m.raw[addr] = value
	return nil
}

// ResolveOperandAddress returns the address argument offset (1-based) of the
// instruction at pc refers to. In immediate mode that is the operand cell
// itself, in position mode it is the address stored in the operand cell.
func (m *Memory) ResolveOperandAddress(pc int, offset int, mode Mode) (int64, error) {
	loc := int64(pc) + int64(offset)
	if mode == ModeImmediate {
		return loc, nil
	}
	return m.Read(loc)
}

// Cells returns a copy of the whole tape.
func (m *Memory) Cells() []int64 {
	cells := make([]int64, len(m.raw))
	copy(cells, m.raw)
	return cells
}
