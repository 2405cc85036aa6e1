// Package grammar holds the host-side, load-once description of a language's
// token grammar: the priority-ordered regex+kind list that automaton.Build
// consumes, plus the small set of policy knobs (filtered kinds,
// ENDS_PRIMARY) that the streaming DFA and retag pass need but that are left
// to the caller to decide.
package grammar

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Andrewp2/laniusc/token"
)

// Rule is one priority-ordered token definition: match Pattern, emit Kind,
// optionally marking it Filtered (recognized but dropped from the kept
// stream, e.g. whitespace and comments).
type Rule struct {
	Name     string     `yaml:"name"`
	Kind     token.Kind `yaml:"-"`
	Pattern  string     `yaml:"pattern"`
	Priority int        `yaml:"priority"`
	Filtered bool       `yaml:"filtered"`
}

// Spec is a complete grammar: its rules plus the kinds that end a "primary"
// expression, used by the retag pass.
type Spec struct {
	Rules       []Rule       `yaml:"rules"`
	EndsPrimary []string     `yaml:"ends_primary"`
	kindByName  map[string]token.Kind
}

// specFile is the on-disk YAML shape; Kind is assigned during decode since
// ids must be dense, byte-sized, and disjoint from the reserved retag kinds.
type specFile struct {
	Rules       []Rule   `yaml:"rules"`
	EndsPrimary []string `yaml:"ends_primary"`
}

// LoadSpec decodes a grammar from YAML, assigning kind ids in ascending
// Priority order (lowest Priority number lexes first), with declaration
// order breaking ties between equal priorities.
func LoadSpec(r io.Reader) (Spec, error) {
	var raw specFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return Spec{}, fmt.Errorf("grammar: decode: %w", err)
	}
	return newSpec(raw)
}

func newSpec(raw specFile) (Spec, error) {
	if len(raw.Rules) == 0 {
		return Spec{}, fmt.Errorf("grammar: spec has no rules")
	}
	if len(raw.Rules) > token.MaxGrammarKind {
		return Spec{}, fmt.Errorf("grammar: %d rules exceeds the %d kinds available below the reserved retag range", len(raw.Rules), token.MaxGrammarKind)
	}

	rules := make([]Rule, len(raw.Rules))
	copy(rules, raw.Rules)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Priority < rules[j].Priority })

	kindByName := make(map[string]token.Kind, len(rules))
	for i := range rules {
		if rules[i].Name == "" {
			return Spec{}, fmt.Errorf("grammar: rule %d has no name", i)
		}
		if _, dup := kindByName[rules[i].Name]; dup {
			return Spec{}, fmt.Errorf("grammar: duplicate rule name %q", rules[i].Name)
		}
		rules[i].Kind = token.Kind(i + 1) // kind 0 is reserved for token.None
		kindByName[rules[i].Name] = rules[i].Kind
	}

	s := Spec{Rules: rules, EndsPrimary: raw.EndsPrimary, kindByName: kindByName}
	for _, name := range raw.EndsPrimary {
		if _, ok := kindByName[name]; !ok {
			return Spec{}, fmt.Errorf("grammar: ends_primary references unknown rule %q", name)
		}
	}
	return s, nil
}

// KindOf returns the kind assigned to the rule named name, and whether it
// exists.
func (s Spec) KindOf(name string) (token.Kind, bool) {
	k, ok := s.kindByName[name]
	return k, ok
}

// EndsPrimaryKinds resolves the Spec's EndsPrimary names to kinds.
func (s Spec) EndsPrimaryKinds() []token.Kind {
	kinds := make([]token.Kind, 0, len(s.EndsPrimary))
	for _, name := range s.EndsPrimary {
		kinds = append(kinds, s.kindByName[name])
	}
	return kinds
}

// FilterMask builds the dense filter_mask table, indexed by kind.
func (s Spec) FilterMask() []bool {
	n := 0
	for _, r := range s.Rules {
		if int(r.Kind) >= n {
			n = int(r.Kind) + 1
		}
	}
	mask := make([]bool, n)
	for _, r := range s.Rules {
		mask[r.Kind] = r.Filtered
	}
	return mask
}
