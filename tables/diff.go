package tables

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// summaryLines renders a Tables value as one line per table, for diffing.
func summaryLines(t Tables) []string {
	return []string{
		fmt.Sprintf("n_states=%d", t.NStates),
		fmt.Sprintf("m=%d", t.M),
		fmt.Sprintf("n_kinds=%d", t.NKinds),
		fmt.Sprintf("char_to_func=%v", t.CharToFunc),
		fmt.Sprintf("merge=%v", t.Merge),
		fmt.Sprintf("next_emit=%v", t.NextEmit),
		fmt.Sprintf("token_map=%v", t.TokenMap),
		fmt.Sprintf("filter_mask=%v", t.FilterMask),
	}
}

// Diff renders a unified diff between two tables' structural summaries. It
// is used by round-trip tests to show a readable failure instead of a raw
// struct dump; Validate and Decode do not call it.
func Diff(want, got Tables) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        want.summaryLinesNewline(),
		B:        got.summaryLinesNewline(),
		FromFile: "want",
		ToFile:   "got",
		Context:  1,
	}
	return difflib.GetUnifiedDiffString(diff)
}

func (t Tables) summaryLinesNewline() []string {
	lines := summaryLines(t)
	for i := range lines {
		lines[i] += "\n"
	}
	return lines
}
