// Package tables implements the binary table file format: the fixed header
// plus the five dense tables (char_to_func, merge, next_emit, token_map,
// filter_mask) that the offline builder emits and the evaluator loads.
package tables

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Andrewp2/laniusc/automaton"
	"github.com/Andrewp2/laniusc/grammar"
	"github.com/Andrewp2/laniusc/token"
	"github.com/Andrewp2/laniusc/utf"
)

// Magic identifies a laniusc table file.
const Magic uint32 = 0x4C414E58 // "LANX"

// Version is bumped on any layout change.
const Version uint32 = 1

// Header is the fixed on-disk header preceding the five table buffers.
type Header struct {
	Magic    uint32
	Version  uint32
	NStates  uint32
	M        uint32
	NKinds   uint32
	_        uint32 // reserved, kept for 8-byte alignment of the header.
}

// Tables is the complete, in-memory form of a table file: the header's
// implied dimensions plus the five tables it precedes.
type Tables struct {
	NStates    int
	M          int
	NKinds     int
	CharToFunc [256]uint16
	Merge      []uint16 // length M*M
	NextEmit   []uint32 // length M, packed per utf.PackNextEmit
	TokenMap   []token.Kind
	FilterMask []bool
}

// FromComponents assembles Tables from the automaton/utf/grammar build
// products, which is how Build produces what Encode serializes.
func FromComponents(d *automaton.DFA, u *utf.Tables, spec grammar.Spec) Tables {
	nextEmit := make([]uint32, u.M)
	for i, e := range u.NextEmit {
		nextEmit[i] = utf.PackNextEmit(e)
	}
	mask := spec.FilterMask()
	for len(mask) < 256 {
		mask = append(mask, false)
	}
	return Tables{
		NStates:    d.NumStates,
		M:          u.M,
		NKinds:     len(mask),
		CharToFunc: u.CharToFunc,
		Merge:      u.Merge,
		NextEmit:   nextEmit,
		TokenMap:   append([]token.Kind(nil), d.TokenMap...),
		FilterMask: mask,
	}
}

// Build runs the whole offline half of the pipeline from a grammar.Spec down
// to serializable Tables.
func Build(spec grammar.Spec, opts utf.BuildOptions) (Tables, error) {
	dfa, err := automaton.Build(spec)
	if err != nil {
		return Tables{}, fmt.Errorf("tables: %w", err)
	}
	u, err := utf.Build(dfa, opts)
	if err != nil {
		return Tables{}, fmt.Errorf("tables: %w", err)
	}
	return FromComponents(dfa, u, spec), nil
}

// Encode writes t in the little-endian wire format.
func Encode(w io.Writer, t Tables) error {
	if err := Validate(t); err != nil {
		return fmt.Errorf("tables: refusing to encode invalid tables: %w", err)
	}
	h := Header{
		Magic:   Magic,
		Version: Version,
		NStates: uint32(t.NStates),
		M:       uint32(t.M),
		NKinds:  uint32(t.NKinds),
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("tables: writing header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.CharToFunc); err != nil {
		return fmt.Errorf("tables: writing char_to_func: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.Merge); err != nil {
		return fmt.Errorf("tables: writing merge: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.NextEmit); err != nil {
		return fmt.Errorf("tables: writing next_emit: %w", err)
	}
	tokenMap := make([]byte, len(t.TokenMap))
	for i, k := range t.TokenMap {
		tokenMap[i] = byte(k)
	}
	if _, err := w.Write(tokenMap); err != nil {
		return fmt.Errorf("tables: writing token_map: %w", err)
	}
	filterMask := make([]byte, len(t.FilterMask))
	for i, f := range t.FilterMask {
		if f {
			filterMask[i] = 1
		}
	}
	if _, err := w.Write(filterMask); err != nil {
		return fmt.Errorf("tables: writing filter_mask: %w", err)
	}
	return nil
}

// Decode reads a table file written by Encode.
func Decode(r io.Reader) (Tables, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Tables{}, fmt.Errorf("%w: reading header: %v", ErrInvalidTable, err)
	}
	if h.Magic != Magic {
		return Tables{}, fmt.Errorf("%w: bad magic %#x", ErrInvalidTable, h.Magic)
	}
	if h.Version != Version {
		return Tables{}, fmt.Errorf("%w: unsupported version %d (want %d)", ErrInvalidTable, h.Version, Version)
	}

	t := Tables{NStates: int(h.NStates), M: int(h.M), NKinds: int(h.NKinds)}
	if err := binary.Read(r, binary.LittleEndian, &t.CharToFunc); err != nil {
		return Tables{}, fmt.Errorf("%w: reading char_to_func: %v", ErrInvalidTable, err)
	}
	t.Merge = make([]uint16, t.M*t.M)
	if err := binary.Read(r, binary.LittleEndian, t.Merge); err != nil {
		return Tables{}, fmt.Errorf("%w: reading merge: %v", ErrInvalidTable, err)
	}
	t.NextEmit = make([]uint32, t.M)
	if err := binary.Read(r, binary.LittleEndian, t.NextEmit); err != nil {
		return Tables{}, fmt.Errorf("%w: reading next_emit: %v", ErrInvalidTable, err)
	}
	tokenMap := make([]byte, t.NStates)
	if _, err := io.ReadFull(r, tokenMap); err != nil {
		return Tables{}, fmt.Errorf("%w: reading token_map: %v", ErrInvalidTable, err)
	}
	t.TokenMap = make([]token.Kind, t.NStates)
	for i, b := range tokenMap {
		t.TokenMap[i] = token.Kind(b)
	}
	filterMask := make([]byte, t.NKinds)
	if _, err := io.ReadFull(r, filterMask); err != nil {
		return Tables{}, fmt.Errorf("%w: reading filter_mask: %v", ErrInvalidTable, err)
	}
	t.FilterMask = make([]bool, t.NKinds)
	for i, b := range filterMask {
		t.FilterMask[i] = b != 0
	}

	if err := Validate(t); err != nil {
		return Tables{}, err
	}
	return t, nil
}

// RoundTrip is a test/debug helper that encodes then decodes t, returning
// the result (used by the table round-trip tests).
func RoundTrip(t Tables) (Tables, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, t); err != nil {
		return Tables{}, err
	}
	return Decode(&buf)
}
