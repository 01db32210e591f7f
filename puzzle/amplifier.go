package puzzle

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"hadydotai/intcode/intcode"
	"hadydotai/intcode/logging"
)

// RunChain runs one amplifier per phase setting in series. Each amplifier gets
// its phase then the previous amplifier's signal; the first gets signal 0.
func RunChain(program []int64, phases []int64) (int64, error) {
	var signal int64
	m := intcode.New()
	for i, phase := range phases {
		m.Load(program)
		m.PushInput(phase, signal)
		out, ok, err := m.Run()
		if err != nil {
			return 0, fmt.Errorf("amplifier %d (phase %d): %w", i, phase, err)
		}
		if !ok {
			return 0, fmt.Errorf("amplifier %d (phase %d) produced no output", i, phase)
		}
		signal = out
	}
	return signal, nil
}

// Permutations returns every ordering of values. The order is deterministic:
// positions are permuted lexicographically by index.
func Permutations(values []int64) [][]int64 {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	var perms [][]int64
	for {
		perm := make([]int64, n)
		for i, j := range idx {
			perm[i] = values[j]
		}
		perms = append(perms, perm)

		// next lexicographic permutation of idx
		i := n - 2
		for i >= 0 && idx[i] >= idx[i+1] {
			i--
		}
		if i < 0 {
			return perms
		}
		j := n - 1
		for idx[j] <= idx[i] {
			j--
		}
		idx[i], idx[j] = idx[j], idx[i]
		for l, r := i+1, n-1; l < r; l, r = l+1, r-1 {
			idx[l], idx[r] = idx[r], idx[l]
		}
	}
}

// MaxThrust tries every ordering of phases and returns the highest final
// signal with the ordering that produced it. Orderings are evaluated
// concurrently, each on its own machines. Ties go to the earliest ordering.
func MaxThrust(ctx context.Context, program []int64, phases []int64) (int64, []int64, error) {
	perms := Permutations(phases)
	signals := make([]int64, len(perms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, perm := range perms {
		if gctx.Err() != nil {
			break
		}
		i, perm := i, perm
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			signal, err := RunChain(program, perm)
			if err != nil {
				return fmt.Errorf("phases %v: %w", perm, err)
			}
			signals[i] = signal
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, nil, err
	}
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	best := 0
	for i := range signals {
		if signals[i] > signals[best] {
			best = i
		}
	}
	logging.Log(logging.LogLevelInfo, "thrust search finished", "orderings", len(perms), "signal", signals[best], "phases", perms[best])
	return signals[best], perms[best], nil
}
