package puzzle

import (
	"errors"
	"fmt"

	"hadydotai/intcode/intcode"
	"hadydotai/intcode/logging"
)

const (
	nounAddr = 1
	verbAddr = 2
	// Nouns and verbs are each searched in [0, searchLimit).
	searchLimit = 100
)

var ErrNoSolution = errors.New("no noun/verb pair produces the target")

// RestoreGravityAssist patches noun and verb into a copy of program, runs it
// and returns address 0.
func RestoreGravityAssist(program []int64, noun, verb int64) (int64, error) {
	m := intcode.New()
	return restore(m, program, noun, verb)
}

func restore(m *intcode.Machine, program []int64, noun, verb int64) (int64, error) {
	m.Load(program)
	if err := m.WriteMemory(nounAddr, noun); err != nil {
		return 0, fmt.Errorf("failed to patch noun: %w", err)
	}
	if err := m.WriteMemory(verbAddr, verb); err != nil {
		return 0, fmt.Errorf("failed to patch verb: %w", err)
	}
	if _, _, err := m.Run(); err != nil {
		return 0, err
	}
	return m.ReadMemory(0)
}

// FindNounVerb returns the first pair, noun-major, for which address 0 ends up
// holding target. Pairs whose run faults are skipped.
func FindNounVerb(program []int64, target int64) (int64, int64, error) {
	m := intcode.New()
	for noun := int64(0); noun < searchLimit; noun++ {
		for verb := int64(0); verb < searchLimit; verb++ {
			got, err := restore(m, program, noun, verb)
			if err != nil {
				continue
			}
			if got == target {
				logging.Log(logging.LogLevelInfo, "found noun/verb", "noun", noun, "verb", verb)
				return noun, verb, nil
			}
		}
	}
	return 0, 0, ErrNoSolution
}
