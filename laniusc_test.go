package laniusc_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	laniusc "github.com/Andrewp2/laniusc"
	"github.com/Andrewp2/laniusc/grammar"
	"github.com/Andrewp2/laniusc/retag"
	"github.com/Andrewp2/laniusc/tables"
	"github.com/Andrewp2/laniusc/token"
	"github.com/Andrewp2/laniusc/utf"
)

func retagConfigFor(s grammar.Spec) retag.Config {
	return retag.Config{
		Rules:       retag.CanonicalRules(s.KindOf),
		EndsPrimary: map[token.Kind]bool{mustKind(s, "IDENT"): true, mustKind(s, "NUMBER"): true, mustKind(s, "RPAREN"): true},
	}
}

func mustKind(s grammar.Spec, name string) token.Kind {
	k, _ := s.KindOf(name)
	return k
}

const testGrammar = `
rules:
  - name: IDENT
    pattern: "[a-zA-Z_][a-zA-Z0-9_]*"
    priority: 10
  - name: NUMBER
    pattern: "[0-9]+"
    priority: 10
  - name: LPAREN
    pattern: '\('
    priority: 0
  - name: RPAREN
    pattern: '\)'
    priority: 0
  - name: WS
    pattern: "[ ]+"
    priority: 10
    filtered: true
`

func buildHandle(t *testing.T, opts laniusc.Options) (*laniusc.Handle, grammar.Spec) {
	t.Helper()
	s, err := grammar.LoadSpec(strings.NewReader(testGrammar))
	require.NoError(t, err)
	tbl, err := tables.Build(s, utf.BuildOptions{})
	require.NoError(t, err)
	h, err := laniusc.Construct(context.Background(), tbl, opts)
	require.NoError(t, err)
	return h, s
}

func TestConstructRejectsInvalidTables(t *testing.T) {
	_, err := laniusc.Construct(context.Background(), tables.Tables{}, laniusc.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, laniusc.ErrInvalidTable))
}

func TestLexReturnsKeptStream(t *testing.T) {
	h, s := buildHandle(t, laniusc.Options{})
	toks, err := h.Lex(context.Background(), []byte("foo bar"))
	require.NoError(t, err)

	ident, _ := s.KindOf("IDENT")
	require.Len(t, toks, 2)
	assert.Equal(t, ident, toks[0].Kind)
	assert.Equal(t, ident, toks[1].Kind)
}

func TestLexAllIncludesFilteredTokens(t *testing.T) {
	h, s := buildHandle(t, laniusc.Options{})
	kept, all, err := h.LexAll(context.Background(), []byte("foo bar"))
	require.NoError(t, err)

	ws, _ := s.KindOf("WS")
	require.Len(t, kept, 2)
	require.Len(t, all, 3)
	assert.Equal(t, ws, all[1].Kind)
}

func TestLexAppliesRetag(t *testing.T) {
	s, err := grammar.LoadSpec(strings.NewReader(testGrammar))
	require.NoError(t, err)
	tbl, err := tables.Build(s, utf.BuildOptions{})
	require.NoError(t, err)

	ident, _ := s.KindOf("IDENT")
	opts := laniusc.Options{
		Retag: retagConfigFor(s),
	}
	h, err := laniusc.Construct(context.Background(), tbl, opts)
	require.NoError(t, err)

	toks, err := h.Lex(context.Background(), []byte("foo(bar)"))
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, ident, toks[0].Kind)
	assert.Equal(t, token.CallLParen, toks[1].Kind)
	assert.Equal(t, ident, toks[2].Kind)
	rparen, _ := s.KindOf("RPAREN")
	// The closing ")" is the restart edge that closes "bar" one byte
	// earlier; it must still surface as its own trailing token ending
	// exactly at EOF, not be absorbed or dropped.
	require.Equal(t, rparen, toks[3].Kind)
	assert.EqualValues(t, 7, toks[3].Start)
	assert.EqualValues(t, 1, toks[3].Length)
}

func TestLexEmptyInput(t *testing.T) {
	h, _ := buildHandle(t, laniusc.Options{})
	toks, err := h.Lex(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, toks)
}

func TestNMaxIsMaxInt32(t *testing.T) {
	assert.Equal(t, math.MaxInt32, laniusc.NMax)
}
