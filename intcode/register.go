package intcode

// Register is the control state of a machine. It is reset on every Load.
type Register struct {
	PC   int
	Halt bool
	Jump bool
	// Carry and Sign record the last wrapped Add/Multiply. Wrapping is not a fault.
	Carry bool
	Sign  bool
	// Inputs is consumed front first.
	Inputs []int64
}

func (r *Register) Reset() {
	*r = Register{}
}

func (r *Register) PushInput(values ...int64) {
	r.Inputs = append(r.Inputs, values...)
}

func (r *Register) PopInput() (int64, bool) {
	if len(r.Inputs) == 0 {
		return 0, false
	}
	v := r.Inputs[0]
	r.Inputs = r.Inputs[1:]
	return v, true
}

func (r *Register) JumpTo(pc int) {
	r.PC = pc
	r.Jump = true
}

// clone deep-copies the input queue so snapshots don't share it.
func (r Register) clone() Register {
	c := r
	c.Inputs = append([]int64(nil), r.Inputs...)
	return c
}
