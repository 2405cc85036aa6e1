package automaton

import "github.com/Andrewp2/laniusc/token"

// buildStreamingDFA applies the streaming transform to a plain
// subset-constructed DFA, then adds the reject state.
//
// The transform: for every accepting state q and every symbol a that the
// start state q0 has an edge on, if q has no edge of its own on a, q gets a
// copy of q0's edge on a, marked emitting with q's own kind ("continuation
// beats emission" is automatic here, since we only fill in edges q does not
// already have).
func buildStreamingDFA(d *plainDFA) (*DFA, error) {
	n := len(d.trans)
	if n+1 > MaxStates {
		return nil, ErrTooManyStates
	}
	reject := n

	trans := make([][256]int, n+1)
	emit := make([][256]bool, n+1)
	for s := 0; s < n; s++ {
		trans[s] = d.trans[s]
	}

	for q := 0; q < n; q++ {
		if d.tokenMap[q] == token.None {
			continue
		}
		for a := 0; a < 256; a++ {
			startEdge := d.trans[0][a]
			if startEdge == -1 {
				continue
			}
			if trans[q][a] == -1 {
				trans[q][a] = startEdge
				emit[q][a] = true
			}
		}
	}

	// Step 4: reject absorbs every undefined transition and self-loops.
	for s := 0; s <= n; s++ {
		for a := 0; a < 256; a++ {
			if trans[s][a] == -1 {
				trans[s][a] = reject
			}
		}
	}
	for a := 0; a < 256; a++ {
		trans[reject][a] = reject
		emit[reject][a] = false
	}

	tokenMap := make([]token.Kind, n+1)
	copy(tokenMap, d.tokenMap)
	tokenMap[reject] = token.None

	return &DFA{
		NumStates: n + 1,
		Start:     0,
		Reject:    reject,
		Trans:     trans,
		Emit:      emit,
		TokenMap:  tokenMap,
	}, nil
}
