package automaton

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/Andrewp2/laniusc/lexerr"
	"github.com/Andrewp2/laniusc/token"
)

// MaxStates is the hard ceiling on the number of DFA states (≤ 64), chosen
// so a UTF's per-state emit flags fit in one uint64 bitset (see package utf).
const MaxStates = 64

// ErrTooManyStates is returned by Build when subset construction would
// exceed MaxStates.
var ErrTooManyStates = fmt.Errorf("automaton: DFA exceeds the %d-state ceiling: %w", MaxStates, lexerr.TableCapacityExceeded)

// DFA is a deterministic automaton over the byte alphabet, subset-constructed
// from an nfa and then transformed into a streaming (token-emitting) DFA by
// Build.
type DFA struct {
	// NumStates is the number of states, always including the Reject state.
	NumStates int
	// Start is the start state (always 0).
	Start int
	// Reject is the distinguished reject state: self-loops on every symbol,
	// no token kind.
	Reject int
	// Trans[state][byte] is the target state; every entry is populated
	// (undefined transitions route to Reject).
	Trans [][256]int
	// Emit[state][byte] is true when Trans[state][byte] is a streaming-DFA
	// emitting edge.
	Emit [][256]bool
	// TokenMap[state] is the kind accepted at state, or token.None.
	TokenMap []token.Kind
}

// epsilonClosure computes the set of NFA states reachable from states by
// epsilon transitions alone, returned as a sorted, deduplicated slice so
// that its string key (and hence DFA state numbering) is deterministic
// regardless of map iteration order.
func epsilonClosure(n *nfa, states []stateID) []stateID {
	seen := make(map[stateID]bool, len(states))
	stack := append([]stateID(nil), states...)
	for _, s := range states {
		seen[s] = true
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range n.eps[s] {
			if !seen[t] {
				seen[t] = true
				stack = append(stack, t)
			}
		}
	}
	out := maps.Keys(seen)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func closureKey(states []stateID) string {
	return fmt.Sprint(states)
}

// subsetConstruct runs subset construction over n starting from start,
// numbering DFA states in BFS discovery order for reproducibility. It does
// not yet add the streaming transform or the reject state; buildStreamingDFA
// (in streaming.go) does that.
func subsetConstruct(n *nfa, start stateID) (*plainDFA, error) {
	startSet := epsilonClosure(n, []stateID{start})
	order := []string{closureKey(startSet)}
	sets := map[string][]stateID{closureKey(startSet): startSet}
	index := map[string]int{closureKey(startSet): 0}

	trans := [][256]int{}
	trans = append(trans, [256]int{})
	for i := range trans[0] {
		trans[0][i] = -1
	}

	queue := []string{closureKey(startSet)}
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		cur := sets[key]
		curIdx := index[key]

		var targets [256][]stateID
		for _, s := range cur {
			for b := 0; b < 256; b++ {
				targets[b] = append(targets[b], n.trans[s][b]...)
			}
		}
		for b := 0; b < 256; b++ {
			if len(targets[b]) == 0 {
				continue
			}
			closure := epsilonClosure(n, targets[b])
			ckey := closureKey(closure)
			idx, ok := index[ckey]
			if !ok {
				idx = len(order)
				if idx >= MaxStates {
					return nil, ErrTooManyStates
				}
				order = append(order, ckey)
				sets[ckey] = closure
				index[ckey] = idx
				trans = append(trans, [256]int{})
				for i := range trans[idx] {
					trans[idx][i] = -1
				}
				queue = append(queue, ckey)
			}
			trans[curIdx][b] = idx
		}
	}

	tokenMap := make([]token.Kind, len(order))
	for i, key := range order {
		tokenMap[i] = resolveAccept(n, sets[key])
	}

	return &plainDFA{trans: trans, tokenMap: tokenMap}, nil
}

// plainDFA is the ordinary (non-streaming) DFA that subsetConstruct
// produces; -1 in trans means "no edge" (not yet "route to reject").
type plainDFA struct {
	trans    [][256]int
	tokenMap []token.Kind
}

// resolveAccept picks the highest-priority token kind among the NFA accept
// states in a DFA state's subset. Lower Priority numbers win, e.g. a
// keyword rule at priority 0 beats an identifier rule at priority 10 over
// the same matched text.
func resolveAccept(n *nfa, set []stateID) token.Kind {
	best := -1
	kind := token.None
	for _, s := range set {
		if acc, ok := n.accept[s]; ok {
			if best == -1 || acc.priority < best {
				best = acc.priority
				kind = acc.kind
			}
		}
	}
	return kind
}
