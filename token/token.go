package token

import "fmt"

// Token is a single lexed record: a kind plus the half-open byte range
// [Start, Start+Length) it spans in the original input.
type Token struct {
	Kind   Kind
	Start  uint32
	Length uint32
}

// End returns the index one past the token's last byte.
func (t Token) End() uint32 {
	return t.Start + t.Length
}

// String implements fmt.Stringer in the "kind@start:len" form.
func (t Token) String() string {
	return fmt.Sprintf("%s@%d:%d", t.Kind, t.Start, t.Length)
}

// Text returns the token's lexeme, sliced out of src. The caller must pass
// the same bytes that were lexed.
func (t Token) Text(src []byte) []byte {
	return src[t.Start:t.End()]
}
