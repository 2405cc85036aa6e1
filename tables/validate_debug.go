//go:build debug

package tables

import "fmt"

// validateDebug runs the sampled-triple associativity check and the identity
// check, both scoped to debug builds since Build already guarantees them by
// construction on a freshly built table.
func validateDebug(t Tables) error {
	for _, x := range []int{0, t.M - 1} {
		if mergeLookup(t, 0, x) != x || mergeLookup(t, x, 0) != x {
			return fmt.Errorf("%w: identity invariant violated at id %d", ErrInvalidTable, x)
		}
	}

	for _, tri := range sampleTriples(t.M, 64) {
		a, b, c := tri[0], tri[1], tri[2]
		left := mergeLookup(t, mergeLookup(t, a, b), c)
		right := mergeLookup(t, a, mergeLookup(t, b, c))
		if left != right {
			return fmt.Errorf("%w: merge not associative for (%d,%d,%d): (a∘b)∘c=%d, a∘(b∘c)=%d", ErrInvalidTable, a, b, c, left, right)
		}
	}
	return nil
}
