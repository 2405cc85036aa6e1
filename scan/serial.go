package scan

import (
	"fmt"

	"github.com/Andrewp2/laniusc/lexerr"
	"github.com/Andrewp2/laniusc/tables"
	"github.com/Andrewp2/laniusc/token"
	"github.com/Andrewp2/laniusc/utf"
)

// EvaluateSerial computes the same Result as Evaluate but as a single
// sequential pass with no goroutine fan-out. It exists as the reference
// implementation the parallel evaluator's output is checked for equivalence
// against, and as a debugging aid when a parallel run's output looks wrong.
func EvaluateSerial(t tables.Tables, input []byte) (Result, error) {
	n := len(input)
	if n == 0 {
		return Result{}, nil
	}

	F := make([]int, n)
	acc := 0 // identity
	for i, b := range input {
		acc = mergeLookup(t, acc, utf.IDOf(t.CharToFunc[b]))
		F[i] = acc
	}

	nextEmitAt := func(id int) utf.NextEmitEntry {
		return utf.UnpackNextEmit(t.NextEmit[id])
	}

	allEnd := make([]bool, n)
	keepEnd := make([]bool, n)
	kindAt := make([]token.Kind, n)
	for i := 0; i < n; i++ {
		cur := nextEmitAt(F[i])
		if !cur.Emit {
			continue
		}
		// Emit is one byte late: byte i is the restart edge that starts the
		// next token, so it closes the token that actually ended at i-1.
		prevID := 0
		if i > 0 {
			prevID = F[i-1]
		}
		kind := nextEmitAt(prevID).Kind
		pos := i - 1
		if pos < 0 {
			pos = i
		}
		allEnd[pos] = true
		keepEnd[pos] = !t.FilterMask[kind]
		kindAt[pos] = kind
	}

	// Whatever token is in progress since the last boundary always needs
	// closing at EOF, regardless of whether the final byte was itself a
	// restart edge closing an earlier token one byte short of it.
	last := n - 1
	state := nextEmitAt(F[last]).State
	kind := t.TokenMap[state]
	if kind == token.None {
		return Result{}, fmt.Errorf("%w: final DFA state %d accepts no token", lexerr.UnterminatedInput, state)
	}
	allEnd[last] = true
	keepEnd[last] = !t.FilterMask[kind]
	kindAt[last] = kind

	var all, kept []token.Token
	var lastAllEnd int = -1
	for i := 0; i < n; i++ {
		if allEnd[i] {
			start := uint32(lastAllEnd + 1)
			all = append(all, token.Token{Kind: kindAt[i], Start: start, Length: uint32(i) - start + 1})
			if keepEnd[i] {
				kept = append(kept, token.Token{Kind: kindAt[i], Start: start, Length: uint32(i) - start + 1})
			}
			lastAllEnd = i
		}
	}

	return Result{Kept: kept, All: all}, nil
}
