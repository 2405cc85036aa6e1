// Package utf enumerates the unary transition functions (UTFs) reachable
// over a streaming DFA and emits the three dense runtime tables: char_to_func,
// merge, and next_emit.
package utf

import (
	"fmt"

	"github.com/Andrewp2/laniusc/automaton"
	"github.com/Andrewp2/laniusc/lexerr"
	"github.com/Andrewp2/laniusc/token"
)

// DefaultMaxFunctions is the closure size cap used when BuildOptions.MaxFunctions
// is zero. Reachable-id counts for mainstream-language grammars stay in the
// low thousands; 4096 gives headroom without risking a pathological grammar
// silently running for a long time.
const DefaultMaxFunctions = 4096

// maxPackedID is the largest value a 15-bit UTF id can hold.
const maxPackedID = 1<<15 - 1

// ErrTableCapacityExceeded is returned when UTF closure does not reach a
// fixpoint within BuildOptions.MaxFunctions.
var ErrTableCapacityExceeded = fmt.Errorf("utf: closure exceeded the configured function cap: %w", lexerr.TableCapacityExceeded)

// BuildOptions configures closure enumeration.
type BuildOptions struct {
	// MaxFunctions caps the number of distinct UTFs the closure may
	// discover before construction fails. Zero means DefaultMaxFunctions.
	MaxFunctions int
}

// vector is a UTF's full state→state map plus, for each possible starting
// state, whether the function's last transition from that state was
// emitting. This is the representation the closure needs internally to
// compose UTFs starting from any state, not just the DFA's start state.
type vector struct {
	next [automaton.MaxStates]uint8
	emit uint64 // bit q set iff starting from state q, the last transition emitted.
}

func identityVector(numStates int) vector {
	var v vector
	for q := 0; q < numStates; q++ {
		v.next[q] = uint8(q)
	}
	return v
}

func symbolVector(d *automaton.DFA, b byte) vector {
	var v vector
	for q := 0; q < d.NumStates; q++ {
		v.next[q] = uint8(d.Trans[q][b])
		if d.Emit[q][b] {
			v.emit |= 1 << uint(q)
		}
	}
	return v
}

// composeIDs returns right ∘ left: apply left first, then right, where left
// and right are looked up by id in vectors.
//
// Id 0 (identity) consumes no symbols, so it is special-cased: composing
// with it must return the other operand completely unchanged, including its
// emit pattern (merge[id_0, x] = merge[x, id_0] = x). The general formula
// below is only valid when both operands correspond to
// a run of at least one real symbol, because it attributes the combined
// function's emit bit entirely to the right-hand operand (the last symbol
// consumed); an identity right-hand side has no symbol to attribute it to.
func composeIDs(vectors []vector, left, right, numStates int) vector {
	if left == 0 {
		return vectors[right]
	}
	if right == 0 {
		return vectors[left]
	}
	return compose(vectors[left], vectors[right], numStates)
}

func compose(left, right vector, numStates int) vector {
	var v vector
	for q := 0; q < numStates; q++ {
		mid := left.next[q]
		v.next[q] = right.next[mid]
		if right.emit&(1<<uint(mid)) != 0 {
			v.emit |= 1 << uint(q)
		}
	}
	return v
}

// VectorEntry is one row of VectorForm: the full per-state behavior of a
// single UTF id. It is kept in memory only; it is not serialized, and the
// scan package combines ids through the merge table alone.
type VectorEntry struct {
	Next [automaton.MaxStates]uint8
	Emit uint64
}

// NextEmitEntry is the decoded form of one next_emit row.
type NextEmitEntry struct {
	State uint16
	Emit  bool
	Kind  token.Kind
}

// Tables holds the three dense UTF tables plus the vector form auxiliary
// structure.
type Tables struct {
	M           int
	CharToFunc  [256]uint16
	Merge       []uint16 // length M*M, Merge[left*M+right]
	NextEmit    []NextEmitEntry
	VectorForm  []VectorEntry
}

// packID packs a plain 15-bit id with an emit flag into the 16-bit packed
// UTF id form.
func packID(id int, emit bool) uint16 {
	p := uint16(id)
	if emit {
		p |= 1 << 15
	}
	return p
}

// PackNextEmit packs a state/emit/kind triple into the 32-bit next_emit
// wire record: low 15 bits state, bit 15 emit, high 8 bits kind.
func PackNextEmit(e NextEmitEntry) uint32 {
	v := uint32(e.State) & 0x7FFF
	if e.Emit {
		v |= 1 << 15
	}
	v |= uint32(e.Kind) << 24
	return v
}

// UnpackNextEmit is PackNextEmit's inverse.
func UnpackNextEmit(v uint32) NextEmitEntry {
	return NextEmitEntry{
		State: uint16(v & 0x7FFF),
		Emit:  v&(1<<15) != 0,
		Kind:  token.Kind(v >> 24),
	}
}

// Build enumerates the UTF closure reachable from d's symbol functions and
// emits char_to_func, merge, and next_emit.
func Build(d *automaton.DFA, opts BuildOptions) (*Tables, error) {
	maxFn := opts.MaxFunctions
	if maxFn == 0 {
		maxFn = DefaultMaxFunctions
	}
	if maxFn > maxPackedID {
		maxFn = maxPackedID
	}

	vectors := []vector{identityVector(d.NumStates)}
	key := func(v vector) [automaton.MaxStates + 1]uint64 {
		var k [automaton.MaxStates + 1]uint64
		for i := 0; i < automaton.MaxStates; i++ {
			k[i] = uint64(v.next[i])
		}
		k[automaton.MaxStates] = v.emit
		return k
	}
	index := map[[automaton.MaxStates + 1]uint64]int{key(vectors[0]): 0}

	charToFunc := [256]uint16{}
	for b := 0; b < 256; b++ {
		sv := symbolVector(d, byte(b))
		k := key(sv)
		id, ok := index[k]
		if !ok {
			id = len(vectors)
			if id >= maxFn {
				return nil, ErrTableCapacityExceeded
			}
			vectors = append(vectors, sv)
			index[k] = id
		}
		charToFunc[b] = packID(id, sv.emit&1 != 0)
	}

	// Closure: grow the known set in rounds; each round composes every
	// newly discovered id against every previously-known id (both orders),
	// until no new id is found. Ids found in the same round are not composed
	// with each other directly; since every symbol id stays in the known
	// set, each product of symbols is still reached one symbol at a time.
	known := make([]int, len(vectors))
	for i := range known {
		known[i] = i
	}
	frontier := append([]int(nil), known...)

	for len(frontier) > 0 {
		var nextFrontier []int
		considerPair := func(l, r int) error {
			combined := composeIDs(vectors, l, r, d.NumStates)
			k := key(combined)
			if _, ok := index[k]; ok {
				return nil
			}
			id := len(vectors)
			if id >= maxFn {
				return ErrTableCapacityExceeded
			}
			vectors = append(vectors, combined)
			index[k] = id
			nextFrontier = append(nextFrontier, id)
			return nil
		}

		for _, l := range known {
			for _, r := range frontier {
				if err := considerPair(l, r); err != nil {
					return nil, err
				}
			}
		}
		for _, l := range frontier {
			for _, r := range known {
				if err := considerPair(l, r); err != nil {
					return nil, err
				}
			}
		}

		known = append(known, frontier...)
		frontier = nextFrontier
	}

	m := len(vectors)
	merge := make([]uint16, m*m)
	nextEmit := make([]NextEmitEntry, m)
	vectorForm := make([]VectorEntry, m)

	for id, v := range vectors {
		state := v.next[0]
		emit := v.emit&1 != 0
		// Kind is the token_map of the state reached, regardless of emit:
		// boundarySeedPass looks this id up as the *prior* prefix of an
		// emitting edge, so the kind it needs is whatever state that prefix
		// left the DFA in, not whether the prefix itself happened to emit.
		kind := d.TokenMap[state]
		nextEmit[id] = NextEmitEntry{State: uint16(state), Emit: emit, Kind: kind}
		vectorForm[id] = VectorEntry{Next: v.next, Emit: v.emit}
	}

	for l := 0; l < m; l++ {
		for r := 0; r < m; r++ {
			combined := composeIDs(vectors, l, r, d.NumStates)
			id, ok := index[key(combined)]
			if !ok {
				// Closure guarantees every pairwise composition of
				// reachable ids is itself reachable: merge is closed under
				// the set of reachable ids.
				return nil, fmt.Errorf("utf: internal error: merge[%d][%d] not in closure", l, r)
			}
			merge[l*m+r] = packID(id, combined.emit&1 != 0)
		}
	}

	return &Tables{
		M:          m,
		CharToFunc: charToFunc,
		Merge:      merge,
		NextEmit:   nextEmit,
		VectorForm: vectorForm,
	}, nil
}

// IDOf strips the emit flag from a packed 16-bit UTF id.
func IDOf(packed uint16) int { return int(packed & 0x7FFF) }

// EmitOf reports the emit flag of a packed 16-bit UTF id.
func EmitOf(packed uint16) bool { return packed&(1<<15) != 0 }
