// Package token defines the token-kind and token-record types shared by the
// table builder and the evaluator.
package token

import "fmt"

// Kind identifies what kind of token a [Token] is. Kind 0 is reserved for
// NONE ("no token"); grammar-defined kinds start at 1.
//
// Kinds fit in a byte: next_emit's packed 32-bit record reserves its top 8
// bits for the kind (see utf.PackNextEmit).
type Kind uint8

// None is the distinguished "no token" kind, produced mid-match and never
// present on a completed token.
const None Kind = 0

// The four retag-synthesized kinds occupy reserved ids at the top of the
// byte range so that grammar-assigned kinds never collide with them. A
// grammar compiled with fewer than CallLParen-16 kinds leaves room between
// its own highest id and these; LoadSpec rejects a grammar that would run
// into them.
const (
	CallLParen     Kind = 255 - iota // LPAREN following a primary expression.
	GroupLParen                     // LPAREN elsewhere.
	IndexLBracket                   // LBRACKET following a primary expression.
	ArrayLBracket                   // LBRACKET elsewhere.
)

// reservedFloor is the lowest kind id a grammar may assign; ids at or above
// it are reserved for retag synthesis.
const reservedFloor = ArrayLBracket

// Reserved reports whether k is one of the four retag-synthesized kinds.
func (k Kind) Reserved() bool {
	return k >= reservedFloor && k != None
}

// MaxGrammarKind is the highest kind id a grammar may assign; ids above it
// are reserved for retag synthesis (CallLParen, GroupLParen, IndexLBracket,
// ArrayLBracket).
const MaxGrammarKind = reservedFloor - 1

// String implements fmt.Stringer. Grammar-defined kinds outside the four
// reserved ids print numerically; printing a grammar's own kind mnemonics
// needs a name table the caller builds from its own rule list.
func (k Kind) String() string {
	switch k {
	case None:
		return "None"
	case CallLParen:
		return "CallLParen"
	case GroupLParen:
		return "GroupLParen"
	case IndexLBracket:
		return "IndexLBracket"
	case ArrayLBracket:
		return "ArrayLBracket"
	default:
		return fmt.Sprintf("token.Kind(%d)", uint8(k))
	}
}
