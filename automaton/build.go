// Package automaton implements the offline table builder half of the
// lexer: Thompson construction of a combined NFA from a grammar.Spec,
// subset construction to a DFA, and the streaming-DFA transform that lets
// a single forward pass recover both token boundaries and kinds.
package automaton

import (
	"fmt"

	"github.com/coregx/ahocorasick"

	"github.com/Andrewp2/laniusc/grammar"
)

// Build compiles spec into a streaming DFA.
func Build(spec grammar.Spec) (*DFA, error) {
	if err := checkKeywordDisjointness(spec); err != nil {
		return nil, err
	}

	n := newnfaJoined(spec)
	plain, err := subsetConstruct(n.machine, n.start)
	if err != nil {
		return nil, err
	}
	return buildStreamingDFA(plain)
}

type joined struct {
	machine *nfa
	start   stateID
}

// newnfaJoined builds per-token NFAs and joins them through a fresh start
// state via epsilon transitions, tagging each accept with its rule's
// priority and kind.
func newnfaJoined(spec grammar.Spec) joined {
	n := newNFA()
	start := n.addState()
	for _, rule := range spec.Rules {
		node, err := parseRegex(rule.Pattern)
		if err != nil {
			// Patterns are validated host-side before table building; a
			// parse failure here is a grammar authoring bug, not a runtime
			// condition callers recover from.
			panic(fmt.Sprintf("automaton: rule %q: %v", rule.Name, err))
		}
		f := compileRegex(n, node)
		n.addEps(start, f.start)
		n.accept[f.accept] = accept{priority: rule.Priority, kind: rule.Kind}
	}
	return joined{machine: n, start: start}
}

// checkKeywordDisjointness guards against a common grammar authoring
// mistake: two literal keyword rules (patterns with no regex metacharacters,
// e.g. "let") assigned the exact same literal text under different names, a
// copy-paste slip that leaves the lower-priority one permanently shadowed by
// resolveAccept's tie-break and therefore dead. An Aho-Corasick automaton
// over every literal rule's text is used to find, for each keyword, any
// other literal rule whose text matches it exactly — catching the mistake
// at build time instead of silently dropping a rule.
func checkKeywordDisjointness(spec grammar.Spec) error {
	var literalNames []string
	var literalText []string
	builder := ahocorasick.NewBuilder()
	haveLiteral := false
	for _, rule := range spec.Rules {
		lit, ok := literalPattern(rule.Pattern)
		if !ok {
			continue
		}
		builder.AddPattern([]byte(lit))
		literalNames = append(literalNames, rule.Name)
		literalText = append(literalText, lit)
		haveLiteral = true
	}
	if !haveLiteral {
		return nil
	}
	auto, err := builder.Build()
	if err != nil {
		return fmt.Errorf("automaton: building keyword-disjointness check: %w", err)
	}

	byPriority := make(map[string]int, len(spec.Rules))
	for _, rule := range spec.Rules {
		byPriority[rule.Name] = rule.Priority
	}

	for _, rule := range spec.Rules {
		lit, ok := literalPattern(rule.Pattern)
		if !ok {
			continue
		}
		matches := auto.FindAll([]byte(lit))
		for _, m := range matches {
			other := literalNames[m.Pattern]
			if other == rule.Name || literalText[m.Pattern] != lit {
				continue
			}
			if byPriority[other] < byPriority[rule.Name] {
				return fmt.Errorf("automaton: keyword rule %q is shadowed by rule %q sharing the same literal %q at higher priority", rule.Name, other, lit)
			}
		}
	}
	return nil
}

// literalPattern reports whether pattern is a plain literal (no regex
// metacharacters), returning the literal text if so.
func literalPattern(pattern string) (string, bool) {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '|', '(', ')', '[', ']', '*', '+', '?', '.', '\\':
			return "", false
		}
	}
	return pattern, pattern != ""
}
