package automaton

import "github.com/Andrewp2/laniusc/token"

// stateID indexes into an nfa's state slice.
type stateID int

// accept records the priority and kind an NFA accepting state was tagged
// with when its fragment was joined into the combined machine.
type accept struct {
	priority int
	kind     token.Kind
}

// nfa is a Thompson-constructed nondeterministic automaton over the byte
// alphabet (a fixed set of byte values, 0..255). Transitions are stored per
// state as 256 adjacency lists plus a separate epsilon list, which is simple
// to build incrementally and cheap enough for offline construction.
type nfa struct {
	trans  [][256][]stateID
	eps    [][]stateID
	accept map[stateID]accept
}

func newNFA() *nfa {
	return &nfa{accept: make(map[stateID]accept)}
}

func (n *nfa) addState() stateID {
	n.trans = append(n.trans, [256][]stateID{})
	n.eps = append(n.eps, nil)
	return stateID(len(n.trans) - 1)
}

func (n *nfa) addByte(from stateID, b byte, to stateID) {
	n.trans[from][b] = append(n.trans[from][b], to)
}

func (n *nfa) addRange(from stateID, lo, hi byte, to stateID) {
	for b := int(lo); b <= int(hi); b++ {
		n.addByte(from, byte(b), to)
	}
}

func (n *nfa) addEps(from, to stateID) {
	n.eps[from] = append(n.eps[from], to)
}

// frag is a fragment of the automaton under construction: an entry and an
// exit state, with no transitions yet connecting the exit onward. Thompson
// construction builds every regex operator by wiring fragments together.
type frag struct {
	start, accept stateID
}
