package intcode

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWith(t *testing.T, program []int64, inputs ...int64) (*Machine, int64, bool) {
	t.Helper()
	m := New()
	m.Load(program)
	m.PushInput(inputs...)
	out, ok, err := m.Run()
	require.NoError(t, err)
	return m, out, ok
}

func TestHaltOnly(t *testing.T) {
	m, _, ok := runWith(t, []int64{99})
	assert.False(t, ok)
	assert.Equal(t, StatusHalted, m.Status())
	assert.Equal(t, []int64{99}, m.Memory())
	assert.Empty(t, m.Outputs())
}

func TestEcho(t *testing.T) {
	m, out, ok := runWith(t, []int64{3, 0, 4, 0, 99}, 1337)
	require.True(t, ok)
	assert.Equal(t, int64(1337), out)

	v, err := m.ReadMemory(0)
	require.NoError(t, err)
	assert.Equal(t, int64(1337), v)
}

func TestFinalTape(t *testing.T) {
	tests := []struct {
		program []int64
		want    []int64
	}{
		{[]int64{1, 0, 0, 0, 99}, []int64{2, 0, 0, 0, 99}},
		{[]int64{2, 3, 0, 3, 99}, []int64{2, 3, 0, 6, 99}},
		{[]int64{2, 4, 4, 5, 99, 0}, []int64{2, 4, 4, 5, 99, 9801}},
		{[]int64{1, 1, 1, 4, 99, 5, 6, 0, 99}, []int64{30, 1, 1, 4, 2, 5, 6, 0, 99}},
		{[]int64{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50}, []int64{3500, 9, 10, 70, 2, 3, 11, 0, 99, 30, 40, 50}},
		{[]int64{1002, 4, 3, 4, 33}, []int64{1002, 4, 3, 4, 99}},
		{[]int64{1101, 100, -1, 4, 0}, []int64{1101, 100, -1, 4, 99}},
	}

	for _, tt := range tests {
		m, _, _ := runWith(t, tt.program)
		if diff := cmp.Diff(tt.want, m.Memory()); diff != "" {
			t.Errorf("program %v: tape mismatch (-want +got):\n%s", tt.program, diff)
		}
	}
}

func TestComparisons(t *testing.T) {
	equalPos := []int64{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8}
	lessPos := []int64{3, 9, 7, 9, 10, 9, 4, 9, 99, -1, 8}
	equalImm := []int64{3, 3, 1108, -1, 8, 3, 4, 3, 99}
	lessImm := []int64{3, 3, 1107, -1, 8, 3, 4, 3, 99}

	tests := []struct {
		name    string
		program []int64
		input   int64
		want    int64
	}{
		{"equal position hit", equalPos, 8, 1},
		{"equal position miss", equalPos, 1337, 0},
		{"less position hit", lessPos, 7, 1},
		{"less position miss", lessPos, 9, 0},
		{"equal immediate hit", equalImm, 8, 1},
		{"equal immediate miss", equalImm, 1337, 0},
		{"less immediate hit", lessImm, 7, 1},
		{"less immediate miss", lessImm, 9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, ok := runWith(t, tt.program, tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestJumps(t *testing.T) {
	position := []int64{3, 12, 6, 12, 15, 1, 13, 14, 13, 4, 13, 99, -1, 0, 1, 9}
	immediate := []int64{3, 3, 1105, -1, 9, 1101, 0, 0, 12, 4, 12, 99, 1}

	for _, program := range [][]int64{position, immediate} {
		_, out, ok := runWith(t, program, 0)
		require.True(t, ok)
		assert.Equal(t, int64(0), out)

		for _, in := range []int64{1, -5, 1337} {
			_, out, ok := runWith(t, program, in)
			require.True(t, ok)
			assert.Equal(t, int64(1), out, "input %d", in)
		}
	}
}

func TestThreeWayBranch(t *testing.T) {
	program := []int64{
		3, 21, 1008, 21, 8, 20, 1005, 20, 22, 107, 8, 21, 20, 1006, 20, 31, 1106, 0, 36, 98, 0, 0,
		1002, 21, 125, 20, 4, 20, 1105, 1, 46, 104, 999, 1105, 1, 46, 1101, 1000, 1, 20, 4, 20,
		1105, 1, 46, 98, 99,
	}

	for in, want := range map[int64]int64{7: 999, 8: 1000, 9: 1001, -100: 999, 100: 1001} {
		_, out, ok := runWith(t, program, in)
		require.True(t, ok)
		assert.Equal(t, want, out, "input %d", in)
	}
}

func TestOutputsKeepsEveryValue(t *testing.T) {
	m, out, ok := runWith(t, []int64{104, 1, 104, -2, 4, 0, 99})
	require.True(t, ok)
	assert.Equal(t, int64(104), out)
	assert.Equal(t, []int64{1, -2, 104}, m.Outputs())
}

func TestLoadResetsEverything(t *testing.T) {
	program := []int64{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8}

	fresh := New()
	fresh.Load(program)
	fresh.PushInput(8)
	wantOut, wantOK, err := fresh.Run()
	require.NoError(t, err)

	m := New()
	m.Load([]int64{3, 0, 99})
	_, _, err = m.Run()
	require.ErrorIs(t, err, ErrInputExhausted)

	m.Load(program)
	m.PushInput(1337)
	m.Load(program)
	m.PushInput(8)
	out, ok, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, wantOut, out)
	assert.Equal(t, wantOK, ok)
	assert.Equal(t, fresh.Memory(), m.Memory())
	assert.Equal(t, Register{PC: 8, Halt: true}, m.Register())
}

func TestLoadCopiesProgram(t *testing.T) {
	program := []int64{1, 0, 0, 0, 99}
	m := New()
	m.Load(program)
	program[0] = 99

	_, _, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 0, 0, 0, 99}, m.Memory())
	assert.Equal(t, []int64{99, 0, 0, 0, 99}, program)
}

func TestFaults(t *testing.T) {
	tests := []struct {
		name    string
		program []int64
		inputs  []int64
		kind    FaultKind
		is      []error
		pc      int
	}{
		{
			name:    "walks off the tape",
			program: []int64{1, 0, 0, 0},
			kind:    FaultProgramNotHalted,
			is:      []error{ErrProgramNotHalted, ErrOutOfBounds},
			pc:      4,
		},
		{
			name:    "jumps off the tape",
			program: []int64{1105, 1, -3, 99},
			kind:    FaultProgramNotHalted,
			is:      []error{ErrProgramNotHalted, ErrOutOfBounds},
			pc:      -3,
		},
		{
			name:    "reads past the end",
			program: []int64{1, 100, 0, 0, 99},
			kind:    FaultOutOfBounds,
			is:      []error{ErrOutOfBounds},
			pc:      0,
		},
		{
			name:    "writes to a negative address",
			program: []int64{1101, 1, 1, -1, 99},
			kind:    FaultOutOfBounds,
			is:      []error{ErrOutOfBounds},
			pc:      0,
		},
		{
			name:    "operands run past the end",
			program: []int64{1101, 1},
			kind:    FaultOutOfBounds,
			is:      []error{ErrOutOfBounds},
			pc:      0,
		},
		{
			name:    "unknown opcode",
			program: []int64{1105, 1, 4, 99, 42},
			kind:    FaultUnknownInstruction,
			is:      []error{ErrUnknownInstruction},
			pc:      4,
		},
		{
			name:    "unknown parameter mode",
			program: []int64{201, 0, 0, 0, 99},
			kind:    FaultUnknownInstruction,
			is:      []error{ErrUnknownInstruction},
			pc:      0,
		},
		{
			name:    "negative opcode",
			program: []int64{-1},
			kind:    FaultUnknownInstruction,
			is:      []error{ErrUnknownInstruction},
			pc:      0,
		},
		{
			name:    "no input",
			program: []int64{3, 0, 3, 0, 99},
			inputs:  []int64{5},
			kind:    FaultInputExhausted,
			is:      []error{ErrInputExhausted},
			pc:      2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			m.Load(tt.program)
			m.PushInput(tt.inputs...)
			_, _, err := m.Run()
			require.Error(t, err)

			for _, target := range tt.is {
				assert.ErrorIs(t, err, target)
			}
			var fault *Fault
			require.True(t, errors.As(err, &fault))
			assert.Equal(t, tt.kind, fault.Kind)
			assert.Equal(t, tt.pc, fault.PC)
			assert.Equal(t, StatusFaulted, m.Status())

			// The fault sticks until the next Load.
			_, _, again := m.Run()
			assert.Equal(t, err, again)
			status, stepErr := m.Step()
			assert.Equal(t, StatusFaulted, status)
			assert.Equal(t, err, stepErr)
		})
	}
}

func TestOutputBeforeFaultIsReported(t *testing.T) {
	m := New()
	m.Load([]int64{104, 7, 3, 0})
	out, ok, err := m.Run()
	require.ErrorIs(t, err, ErrInputExhausted)
	assert.True(t, ok)
	assert.Equal(t, int64(7), out)
}

func TestNoProgram(t *testing.T) {
	m := New()
	_, _, err := m.Run()
	assert.ErrorIs(t, err, ErrNoProgram)

	m.Load(nil)
	_, _, err = m.Run()
	assert.ErrorIs(t, err, ErrNoProgram)
}

func TestArithmeticWraps(t *testing.T) {
	m, _, _ := runWith(t, []int64{1, 5, 6, 0, 99, math.MaxInt64, 1})
	v, err := m.ReadMemory(0)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), v)
	assert.True(t, m.Register().Carry)
	assert.True(t, m.Register().Sign)

	m, _, _ = runWith(t, []int64{2, 5, 6, 0, 99, 1 << 62, 4})
	v, err = m.ReadMemory(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)
	assert.True(t, m.Register().Carry)
	assert.False(t, m.Register().Sign)

	m, _, _ = runWith(t, []int64{2, 5, 6, 0, 99, math.MinInt64, -1})
	assert.True(t, m.Register().Carry)

	m, _, _ = runWith(t, []int64{1, 5, 6, 0, 99, -3, 2})
	assert.False(t, m.Register().Carry)
}

func TestStep(t *testing.T) {
	m := New()
	m.Load([]int64{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50})

	status, err := m.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, status)
	assert.Equal(t, 4, m.PC())

	status, err = m.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, status)
	assert.Equal(t, 8, m.PC())

	status, err = m.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusHalted, status)

	// Halted is terminal.
	status, err = m.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusHalted, status)
	assert.Equal(t, 8, m.PC())

	_, ok, err := m.Run()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJumpDoesNotAdvance(t *testing.T) {
	m := New()
	m.Load([]int64{1105, 1, 7, 104, 1, 99, 0, 104, 2, 99})
	_, err := m.Step()
	require.NoError(t, err)
	assert.Equal(t, 7, m.PC())
	assert.False(t, m.Register().Jump)

	out, _, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(2), out)
}

func TestSnapshotRestore(t *testing.T) {
	m := New()
	m.Load([]int64{3, 0, 4, 0, 99})
	m.PushInput(11)

	before := m.Snapshot()
	_, _, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, []int64{11}, m.Outputs())

	m.Restore(before)
	assert.Equal(t, StatusRunning, m.Status())
	assert.Equal(t, []int64{3, 0, 4, 0, 99}, m.Memory())
	assert.Equal(t, []int64{11}, m.Register().Inputs)
	assert.Empty(t, m.Outputs())

	// Snapshots are deep copies.
	out, _, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(11), out)
	assert.Equal(t, []int64{3, 0, 4, 0, 99}, before.Memory)
	assert.Equal(t, []int64{11}, before.Register.Inputs)
}

func TestWriteMemory(t *testing.T) {
	m := New()
	m.Load([]int64{1, 0, 0, 0, 99})
	require.NoError(t, m.WriteMemory(1, 4))
	require.ErrorIs(t, m.WriteMemory(5, 1), ErrOutOfBounds)

	_, _, err := m.Run()
	require.NoError(t, err)
	v, err := m.ReadMemory(0)
	require.NoError(t, err)
	assert.Equal(t, int64(100), v)

	_, err = m.ReadMemory(-1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}
