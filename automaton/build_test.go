package automaton_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andrewp2/laniusc/automaton"
	"github.com/Andrewp2/laniusc/grammar"
)

func mustSpec(t *testing.T, yaml string) grammar.Spec {
	t.Helper()
	s, err := grammar.LoadSpec(strings.NewReader(yaml))
	require.NoError(t, err)
	return s
}

func TestBuildBasicGrammar(t *testing.T) {
	s := mustSpec(t, `
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
`)
	dfa, err := automaton.Build(s)
	require.NoError(t, err)
	assert.Equal(t, 0, dfa.Start)
	assert.Less(t, dfa.NumStates, automaton.MaxStates+1)

	// Every state has a defined (non -1) transition on every byte after the
	// streaming + reject transform.
	for st := 0; st < dfa.NumStates; st++ {
		for b := 0; b < 256; b++ {
			assert.GreaterOrEqual(t, dfa.Trans[st][b], 0)
		}
	}

	// The reject state self-loops and accepts nothing.
	for b := 0; b < 256; b++ {
		assert.Equal(t, dfa.Reject, dfa.Trans[dfa.Reject][b])
		assert.False(t, dfa.Emit[dfa.Reject][b])
	}
}

func TestKeywordDisjointnessCaughtOnDuplicateLiteral(t *testing.T) {
	// Two rules assigned the exact same literal text is a copy-paste
	// authoring bug: LOOP (priority 20) can never win resolveAccept's
	// tie-break over WHILE (priority 0) on the shared literal "while", so
	// it would be permanently dead.
	s := mustSpec(t, `
rules:
  - name: WHILE
    pattern: "while"
    priority: 0
  - name: LOOP
    pattern: "while"
    priority: 20
  - name: IDENT
    pattern: "[a-z]+"
    priority: 10
`)
	_, err := automaton.Build(s)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "shadowed")
}

func TestKeywordDisjointnessAllowsOverlappingButDistinctLiterals(t *testing.T) {
	// "in" is a substring of "int" but they are distinct literal tokens;
	// the DFA's own longest-match behavior (not priority) decides between
	// them on any given input, so this is not an authoring mistake.
	s := mustSpec(t, `
rules:
  - name: IN
    pattern: "in"
    priority: 0
  - name: INT
    pattern: "int"
    priority: 0
  - name: IDENT
    pattern: "[a-z]+"
    priority: 10
`)
	_, err := automaton.Build(s)
	assert.NoError(t, err)
}

func TestBuildRejectsTooManyStates(t *testing.T) {
	// A ladder of same-priority literals "a", "aa", "aaa", ... forces
	// subset construction to track one DFA state per run length reached so
	// far, overrunning automaton.MaxStates well before the ladder's top.
	var b strings.Builder
	b.WriteString("rules:\n")
	for i := 1; i <= 70; i++ {
		b.WriteString("  - name: R")
		b.WriteString(string(rune('a'+i%26)) + string(rune('A'+i/26)))
		b.WriteString("\n    pattern: \"")
		b.WriteString(strings.Repeat("a", i))
		b.WriteString("\"\n    priority: 0\n")
	}
	s := mustSpec(t, b.String())
	_, err := automaton.Build(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, automaton.ErrTooManyStates)
}
