// Package laniusc is a data-parallel streaming-DFA lexer: an offline table
// builder (packages grammar, automaton, utf, tables) produces a compact set
// of lookup tables from a token grammar, and an online evaluator (packages
// scan, retag) turns a byte stream into a compacted token list using only
// table lookups and prefix scans, simulated here over goroutines rather
// than GPU compute kernels.
//
// Construct a Handle once per grammar and reuse it across Lex calls; tables
// are read-only after construction and safe for concurrent use.
package laniusc

import "math"

// NMax is the largest input length Lex accepts before returning
// InputTooLarge, chosen as the largest value that can't overflow a signed
// 32-bit token length when paired with a zero start offset.
const NMax = math.MaxInt32
