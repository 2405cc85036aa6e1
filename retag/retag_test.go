package retag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Andrewp2/laniusc/retag"
	"github.com/Andrewp2/laniusc/token"
)

const (
	kindIdent token.Kind = iota + 1
	kindNumber
	kindLParen
	kindRParen
	kindLBracket
	kindRBracket
	kindPlus
)

func kindOf(name string) (token.Kind, bool) {
	switch name {
	case "LPAREN":
		return kindLParen, true
	case "LBRACKET":
		return kindLBracket, true
	}
	return token.None, false
}

func testConfig() retag.Config {
	return retag.Config{
		Rules:       retag.CanonicalRules(kindOf),
		EndsPrimary: map[token.Kind]bool{kindIdent: true, kindNumber: true, kindRParen: true, kindRBracket: true},
	}
}

func tok(kind token.Kind, start, length uint32) token.Token {
	return token.Token{Kind: kind, Start: start, Length: length}
}

func TestCanonicalRulesSkipsMissingNames(t *testing.T) {
	rules := retag.CanonicalRules(func(string) (token.Kind, bool) { return token.None, false })
	assert.Empty(t, rules)
}

func TestApplyCallVsGroup(t *testing.T) {
	// f(x) — LPAREN follows an identifier, a primary expression: call.
	call := []token.Token{tok(kindIdent, 0, 1), tok(kindLParen, 1, 1), tok(kindIdent, 2, 1), tok(kindRParen, 3, 1)}
	got := retag.Apply(call, testConfig())
	assert.Equal(t, token.CallLParen, got[1].Kind)

	// (x + y) — LPAREN at the start of input, not following a primary: group.
	group := []token.Token{tok(kindLParen, 0, 1), tok(kindIdent, 1, 1), tok(kindPlus, 2, 1), tok(kindIdent, 3, 1), tok(kindRParen, 4, 1)}
	got = retag.Apply(group, testConfig())
	assert.Equal(t, token.GroupLParen, got[0].Kind)
}

func TestApplyArrayVsIndex(t *testing.T) {
	// a[0] — LBRACKET follows an identifier: index.
	index := []token.Token{tok(kindIdent, 0, 1), tok(kindLBracket, 1, 1), tok(kindNumber, 2, 1), tok(kindRBracket, 3, 1)}
	got := retag.Apply(index, testConfig())
	assert.Equal(t, token.IndexLBracket, got[1].Kind)

	// [1, 2] — LBRACKET at the start of input: array literal.
	array := []token.Token{tok(kindLBracket, 0, 1), tok(kindNumber, 1, 1), tok(kindRBracket, 2, 1)}
	got = retag.Apply(array, testConfig())
	assert.Equal(t, token.ArrayLBracket, got[0].Kind)
}

func TestApplyLeavesUnmatchedKindsAlone(t *testing.T) {
	toks := []token.Token{tok(kindIdent, 0, 1), tok(kindPlus, 1, 1), tok(kindNumber, 2, 1)}
	got := retag.Apply(toks, testConfig())
	assert.Equal(t, toks, got)
}

func TestApplyIgnoresNonSignificantLookback(t *testing.T) {
	// A whitespace/comment token sitting between an identifier and the
	// following LPAREN must not hide the identifier from the lookback scan.
	const kindWS token.Kind = 100
	toks := []token.Token{tok(kindIdent, 0, 1), tok(kindWS, 1, 1), tok(kindLParen, 2, 1)}
	cfg := testConfig()
	cfg.Significant = func(k token.Kind) bool { return k != kindWS }
	got := retag.Apply(toks, cfg)
	assert.Equal(t, token.CallLParen, got[2].Kind)
}

func TestApplyIsDeterministic(t *testing.T) {
	toks := []token.Token{tok(kindIdent, 0, 1), tok(kindLParen, 1, 1), tok(kindRParen, 2, 1), tok(kindLBracket, 3, 1), tok(kindNumber, 4, 1), tok(kindRBracket, 5, 1)}
	cfg := testConfig()
	first := retag.Apply(toks, cfg)
	second := retag.Apply(toks, cfg)
	assert.Equal(t, first, second)
	// Apply must not mutate its input.
	assert.Equal(t, token.Kind(kindLParen), toks[1].Kind)
}
