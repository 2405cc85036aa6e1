// Package retag implements the post-lex retagging pass: a small prefix-max
// scan that rewrites LPAREN/LBRACKET tokens into their call/group and
// index/array variants based on the kind of the previous significant token.
package retag

import "github.com/Andrewp2/laniusc/token"

// Rule rewrites Source into New whenever the previous significant token's
// kind is in EndsPrimary (or isn't, when Negate is set) — the canonical
// four rules each cover one branch of the call-vs-group, index-vs-array
// decision table.
type Rule struct {
	Source token.Kind
	New    token.Kind
	Negate bool // New applies when prev kind is NOT in EndsPrimary.
}

// Config configures one run of Apply. EndsPrimary and Significant are two
// policy knobs left to the caller: the correct ENDS_PRIMARY membership is a
// surface-language decision, and Apply never guesses at it.
type Config struct {
	Rules       []Rule
	EndsPrimary map[token.Kind]bool

	// Significant reports whether a token counts as a look-back target.
	// A nil Significant treats every token as significant, which is
	// correct whenever the caller already filtered its kept stream down
	// to tokens it wants retag to see.
	Significant func(token.Kind) bool
}

// CanonicalRules returns the four canonical call/group and index/array
// rules, resolving LPAREN/LBRACKET rule names against a grammar via kindOf
// (typically grammar.Spec.KindOf). Rule names not found in the grammar are
// skipped.
func CanonicalRules(kindOf func(name string) (token.Kind, bool)) []Rule {
	var rules []Rule
	if lparen, ok := kindOf("LPAREN"); ok {
		rules = append(rules,
			Rule{Source: lparen, New: token.CallLParen},
			Rule{Source: lparen, New: token.GroupLParen, Negate: true},
		)
	}
	if lbracket, ok := kindOf("LBRACKET"); ok {
		rules = append(rules,
			Rule{Source: lbracket, New: token.IndexLBracket},
			Rule{Source: lbracket, New: token.ArrayLBracket, Negate: true},
		)
	}
	return rules
}

// Apply rewrites a copy of tokens in place of the kinds Config.Rules names,
// leaving every other token untouched. tokens is assumed already in
// left-to-right source order (the order scan.Evaluate's Kept stream is in).
func Apply(tokens []token.Token, cfg Config) []token.Token {
	out := make([]token.Token, len(tokens))
	copy(out, tokens)

	bySource := make(map[token.Kind][2]*Rule, len(cfg.Rules))
	for i := range cfg.Rules {
		r := &cfg.Rules[i]
		pair := bySource[r.Source]
		if r.Negate {
			pair[1] = r
		} else {
			pair[0] = r
		}
		bySource[r.Source] = pair
	}
	if len(bySource) == 0 {
		return out
	}

	prevSigIdx := prefixMaxSignificant(out, cfg.Significant)

	for i, tok := range out {
		pair, ok := bySource[tok.Kind]
		if !ok {
			continue
		}
		inPrimary := false
		if p := prevSigIdx[i]; p >= 0 {
			inPrimary = cfg.EndsPrimary[out[p].Kind]
		}
		var rule *Rule
		if inPrimary {
			rule = pair[0]
		} else {
			rule = pair[1]
		}
		if rule != nil {
			out[i].Kind = rule.New
		}
	}
	return out
}

// prefixMaxSignificant computes idx[i] = i when token i is significant,
// else -1, followed by an exclusive running-max scan. Run here as a single
// serial pass since retag operates on an already-compacted, typically small
// token stream; see DESIGN.md.
func prefixMaxSignificant(tokens []token.Token, significant func(token.Kind) bool) []int {
	prev := make([]int, len(tokens))
	running := -1
	for i, tok := range tokens {
		prev[i] = running
		if significant == nil || significant(tok.Kind) {
			running = i
		}
	}
	return prev
}
