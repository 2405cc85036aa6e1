package laniusc

import (
	"context"
	"fmt"

	"github.com/Andrewp2/laniusc/lexerr"
	"github.com/Andrewp2/laniusc/retag"
	"github.com/Andrewp2/laniusc/scan"
	"github.com/Andrewp2/laniusc/tables"
	"github.com/Andrewp2/laniusc/token"
)

// Handle is the constructed, reusable lexer: tables plus the retag policy
// resolved at construction time. It holds no per-input state and is safe
// for concurrent Lex/LexAll calls.
type Handle struct {
	tables tables.Tables
	engine *scan.Engine
	retag  retag.Config
}

// Options configures Construct beyond the bare tables.
type Options struct {
	// Workgroup is the block size W used by the block-scoped scan passes;
	// zero uses scan.DefaultWorkgroup.
	Workgroup int
	// MaxParallel bounds concurrently running simulated workgroups; zero uses GOMAXPROCS.
	MaxParallel int
	// Retag configures the post-lex retagging pass. A zero value disables
	// retagging (Lex and LexAll return kinds exactly as the streaming DFA
	// produced them).
	Retag retag.Config
}

// Construct builds a Handle from a table set. Tables are validated; an
// invalid table is rejected with ErrInvalidTable rather than surfacing a
// less specific failure later during Lex.
func Construct(ctx context.Context, t tables.Tables, opts Options) (*Handle, error) {
	if err := tables.Validate(t); err != nil {
		return nil, err
	}
	return &Handle{
		tables: t,
		engine: scan.NewEngine(opts.Workgroup, opts.MaxParallel),
		retag:  opts.Retag,
	}, nil
}

// Lex runs the streaming-DFA evaluator and retag pass over input, returning
// the kept token stream.
func (h *Handle) Lex(ctx context.Context, input []byte) ([]token.Token, error) {
	kept, _, err := h.LexAll(ctx, input)
	return kept, err
}

// LexAll runs the same pipeline as Lex but also returns the full all-token
// stream, including filtered tokens, recovered from the compaction pass's
// end_positions_all. Retagging is applied only to the kept stream, since the
// previous-significant-token lookback it performs is defined over kept
// tokens.
func (h *Handle) LexAll(ctx context.Context, input []byte) (kept, all []token.Token, err error) {
	if len(input) == 0 {
		return nil, nil, nil
	}
	if len(input) > NMax {
		return nil, nil, fmt.Errorf("%w: n=%d exceeds N_MAX=%d", lexerr.InputTooLarge, len(input), NMax)
	}

	result, err := scan.Evaluate(ctx, h.engine, h.tables, input)
	if err != nil {
		return nil, nil, err
	}

	kept = retag.Apply(result.Kept, h.retag)
	return kept, result.All, nil
}
