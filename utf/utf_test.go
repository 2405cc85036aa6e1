package utf_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andrewp2/laniusc/automaton"
	"github.com/Andrewp2/laniusc/grammar"
	"github.com/Andrewp2/laniusc/utf"
)

func buildDFA(t *testing.T) *automaton.DFA {
	t.Helper()
	s, err := grammar.LoadSpec(strings.NewReader(`
rules:
  - name: LET
    pattern: "let"
    priority: 0
  - name: IDENT
    pattern: "[a-zA-Z_][a-zA-Z0-9_]*"
    priority: 10
  - name: NUMBER
    pattern: "[0-9]+"
    priority: 10
  - name: WS
    pattern: "[ ]+"
    priority: 10
    filtered: true
`))
	require.NoError(t, err)
	dfa, err := automaton.Build(s)
	require.NoError(t, err)
	return dfa
}

func TestBuildIdentityIsID0(t *testing.T) {
	dfa := buildDFA(t)
	tbl, err := utf.Build(dfa, utf.BuildOptions{})
	require.NoError(t, err)

	for id := 0; id < tbl.M; id++ {
		combined := tbl.Merge[0*tbl.M+id]
		assert.Equal(t, id, utf.IDOf(combined), "merge[0][%d] must equal %d", id, id)
		combined2 := tbl.Merge[id*tbl.M+0]
		assert.Equal(t, id, utf.IDOf(combined2), "merge[%d][0] must equal %d", id, id)
	}
}

func TestMergeAssociative(t *testing.T) {
	dfa := buildDFA(t)
	tbl, err := utf.Build(dfa, utf.BuildOptions{})
	require.NoError(t, err)

	lookup := func(l, r int) int { return utf.IDOf(tbl.Merge[l*tbl.M+r]) }

	ids := []int{0, 1}
	if tbl.M > 2 {
		ids = append(ids, tbl.M-1)
	}
	for _, a := range ids {
		for _, b := range ids {
			for _, c := range ids {
				left := lookup(lookup(a, b), c)
				right := lookup(a, lookup(b, c))
				assert.Equal(t, right, left, "associativity failed for (%d,%d,%d)", a, b, c)
			}
		}
	}
}

func TestCharToFuncCoversAlphabet(t *testing.T) {
	dfa := buildDFA(t)
	tbl, err := utf.Build(dfa, utf.BuildOptions{})
	require.NoError(t, err)

	for b := 0; b < 256; b++ {
		id := utf.IDOf(tbl.CharToFunc[b])
		assert.GreaterOrEqual(t, id, 0)
		assert.Less(t, id, tbl.M)
	}
}

func TestBuildFailsWhenClosureExceedsCap(t *testing.T) {
	dfa := buildDFA(t)
	_, err := utf.Build(dfa, utf.BuildOptions{MaxFunctions: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, utf.ErrTableCapacityExceeded)
}

func TestPackNextEmitRoundTrip(t *testing.T) {
	e := utf.NextEmitEntry{State: 12, Emit: true, Kind: 7}
	packed := utf.PackNextEmit(e)
	got := utf.UnpackNextEmit(packed)
	assert.Equal(t, e, got)
}
