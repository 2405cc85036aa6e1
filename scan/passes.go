package scan

import (
	"context"
	"fmt"

	"github.com/Andrewp2/laniusc/lexerr"
	"github.com/Andrewp2/laniusc/tables"
	"github.com/Andrewp2/laniusc/token"
	"github.com/Andrewp2/laniusc/utf"
)

// mapPass computes f[i] = char_to_func[input[i]] for every position.
func mapPass(e *Engine, ctx context.Context, t tables.Tables, input []byte) ([]uint16, error) {
	n := len(input)
	f := make([]uint16, n)
	err := e.forEachBlock(ctx, n, func(_ int, start, end int) error {
		for i := start; i < end; i++ {
			f[i] = t.CharToFunc[input[i]]
		}
		return nil
	})
	return f, err
}

func mergeLookup(t tables.Tables, left, right int) int {
	return utf.IDOf(t.Merge[left*t.M+right])
}

// blockScanPass runs the three-phase block-scoped DFA scan (in-block
// inclusive scan, block-summary scan, downsweep), producing the global
// prefix UTF id F[i] for every position.
//
// The in-block combine is done as a straight O(W) sequential accumulation
// rather than a literal Hillis-Steele step sequence: both produce the same
// result because merge is associative, and the unit of real concurrency in
// this goroutine-based simulation is the workgroup (one goroutine per
// block), not the lane — see DESIGN.md.
func blockScanPass(e *Engine, ctx context.Context, t tables.Tables, f []uint16) ([]int, error) {
	n := len(f)
	w := e.Workgroup
	numBlocks := (n + w - 1) / w

	localPrefix := make([]int, n)
	blockSummary := make([]int, numBlocks)

	err := e.forEachBlock(ctx, n, func(b int, start, end int) error {
		acc := utf.IDOf(f[start])
		localPrefix[start] = acc
		for i := start + 1; i < end; i++ {
			acc = mergeLookup(t, acc, utf.IDOf(f[i]))
			localPrefix[i] = acc
		}
		blockSummary[b] = acc
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Block-summary scan: a single exclusive scan across the (short) array
	// of block summaries, run serially since the block count is small enough
	// that a serial pass dominates any benefit from parallelizing it.
	carry := make([]int, numBlocks)
	running := 0 // identity
	for b := 1; b < numBlocks; b++ {
		running = mergeLookup(t, running, blockSummary[b-1])
		carry[b] = running
	}

	F := make([]int, n)
	err = e.forEachBlock(ctx, n, func(b int, start, end int) error {
		for i := start; i < end; i++ {
			F[i] = mergeLookup(t, carry[b], localPrefix[i])
		}
		return nil
	})
	return F, err
}

// boundarySeedPass derives, for every position, whether it ends a token
// (all_end), whether that token is kept (keep_end), and the kind the
// boundary completes.
func boundarySeedPass(e *Engine, ctx context.Context, t tables.Tables, F []int, n int) (allEnd, keepEnd []bool, kindAt []token.Kind, err error) {
	allEnd = make([]bool, n)
	keepEnd = make([]bool, n)
	kindAt = make([]token.Kind, n)

	nextEmitAt := func(id int) utf.NextEmitEntry {
		return utf.UnpackNextEmit(t.NextEmit[id])
	}

	runErr := e.forEachBlock(ctx, n, func(_ int, start, end int) error {
		for i := start; i < end; i++ {
			cur := nextEmitAt(F[i])
			if !cur.Emit {
				continue
			}
			// Emit is one byte late: byte i is the restart edge that
			// starts the next token, so it closes the token that actually
			// ended at i-1, with the kind the prefix up to i-1 had reached.
			var prevID int
			if i == 0 {
				prevID = 0 // identity
			} else {
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
		return nil
	})
	if runErr != nil {
		return nil, nil, nil, runErr
	}

	// Whatever token is in progress since the last boundary always needs
	// closing at EOF, regardless of whether the final byte was itself a
	// restart edge closing an earlier token one byte short of it: a final
	// DFA state that accepts no token means the input ended mid-match.
	last := n - 1
	state := nextEmitAt(F[last]).State
	kind := t.TokenMap[state]
	if kind == token.None {
		return nil, nil, nil, fmt.Errorf("%w: final DFA state %d accepts no token", lexerr.UnterminatedInput, state)
	}
	allEnd[last] = true
	keepEnd[last] = !t.FilterMask[kind]
	kindAt[last] = kind

	return allEnd, keepEnd, kindAt, nil
}

// twoLaneSumScanPass computes an inclusive prefix sum over the pair
// (all_end, keep_end), scanned together using the same three-phase
// block-scan template with operator = integer add.
func twoLaneSumScanPass(e *Engine, ctx context.Context, allEnd, keepEnd []bool) (sAll, sKeep []int, err error) {
	n := len(allEnd)
	w := e.Workgroup
	numBlocks := (n + w - 1) / w

	localAll := make([]int, n)
	localKeep := make([]int, n)
	sumAll := make([]int, numBlocks)
	sumKeep := make([]int, numBlocks)

	runErr := e.forEachBlock(ctx, n, func(b int, start, end int) error {
		var a, k int
		for i := start; i < end; i++ {
			if allEnd[i] {
				a++
			}
			if keepEnd[i] {
				k++
			}
			localAll[i] = a
			localKeep[i] = k
		}
		sumAll[b] = a
		sumKeep[b] = k
		return nil
	})
	if runErr != nil {
		return nil, nil, runErr
	}

	carryAll := make([]int, numBlocks)
	carryKeep := make([]int, numBlocks)
	var ra, rk int
	for b := 1; b < numBlocks; b++ {
		ra += sumAll[b-1]
		rk += sumKeep[b-1]
		carryAll[b] = ra
		carryKeep[b] = rk
	}

	sAll = make([]int, n)
	sKeep = make([]int, n)
	runErr = e.forEachBlock(ctx, n, func(b int, start, end int) error {
		for i := start; i < end; i++ {
			sAll[i] = carryAll[b] + localAll[i]
			sKeep[i] = carryKeep[b] + localKeep[i]
		}
		return nil
	})
	return sAll, sKeep, runErr
}

// compactPass runs two stream-compaction passes that scatter end positions
// into dense arrays using the prefix sums as destination indices.
func compactPass(e *Engine, ctx context.Context, allEnd, keepEnd []bool, sAll, sKeep []int) (endsAll, endsKeep []int, err error) {
	n := len(allEnd)
	nAll, nKeep := 0, 0
	if n > 0 {
		nAll, nKeep = sAll[n-1], sKeep[n-1]
	}
	endsAll = make([]int, nAll)
	endsKeep = make([]int, nKeep)

	runErr := e.forEachBlock(ctx, n, func(_ int, start, end int) error {
		for i := start; i < end; i++ {
			if allEnd[i] {
				endsAll[sAll[i]-1] = i
			}
			if keepEnd[i] {
				endsKeep[sKeep[i]-1] = i
			}
		}
		return nil
	})
	return endsAll, endsKeep, runErr
}

// tokenBuildPass pairs each end-of-token index with the previous all-end
// index to recover (kind, start, length), scattering results into a dense,
// already globally-indexed token array.
//
// Building the "all" stream: pass endsAll as ends, with nil for both the
// reference array and sAll — a token's predecessor is simply the previous
// entry of the same stream.
//
// Building the "kept" stream: pass endsKeep as ends, endsAll as the
// reference array, and sAll (the per-position inclusive count of all-ends)
// so each kept token's start can be traced back to the nearest preceding
// all-boundary even when the tokens between them were filtered out.
func tokenBuildPass(e *Engine, ctx context.Context, ends, endsAll, sAll []int, kindAt []token.Kind) ([]token.Token, error) {
	out := make([]token.Token, len(ends))
	err := e.forEachBlock(ctx, len(ends), func(_ int, start, end int) error {
		for k := start; k < end; k++ {
			endPos := ends[k]
			var tokStart uint32
			if sAll == nil {
				if k == 0 {
					tokStart = 0
				} else {
					tokStart = uint32(ends[k-1] + 1)
				}
			} else {
				rank := sAll[endPos] // 1-based count of all-ends at/before endPos
				if rank >= 2 {
					tokStart = uint32(endsAll[rank-2] + 1)
				}
			}
			out[k] = token.Token{Kind: kindAt[endPos], Start: tokStart, Length: uint32(endPos) - tokStart + 1}
		}
		return nil
	})
	return out, err
}
