// Package scan implements the online evaluator half of the lexer: a
// nine-pass pipeline run as a host-orchestrated simulation of a GPU
// compute-kernel execution model. Each pass fans out one goroutine per
// simulated workgroup, bounded to a configurable number of concurrently
// running workgroups, and later passes never start until the prior pass's
// fan-out has fully joined — the goroutine analogue of a pipeline barrier.
package scan

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/Andrewp2/laniusc/lexerr"
	"github.com/Andrewp2/laniusc/tables"
	"github.com/Andrewp2/laniusc/token"
)

// DefaultWorkgroup is the default block size used to partition input across
// simulated workgroups.
const DefaultWorkgroup = 256

// Engine runs the evaluator pipeline over uploaded tables.
//
// Workgroup is the block size; MaxParallel bounds how many simulated
// workgroups run at once, using golang.org/x/sync/semaphore to bound
// concurrent goroutine fan-out.
type Engine struct {
	Workgroup   int
	MaxParallel int

	sema *semaphore.Weighted
}

// NewEngine constructs an Engine. A zero Workgroup defaults to
// DefaultWorkgroup; a zero or negative MaxParallel defaults to GOMAXPROCS.
func NewEngine(workgroup, maxParallel int) *Engine {
	if workgroup <= 0 {
		workgroup = DefaultWorkgroup
	}
	if maxParallel <= 0 {
		maxParallel = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		Workgroup:   workgroup,
		MaxParallel: maxParallel,
		sema:        semaphore.NewWeighted(int64(maxParallel)),
	}
}

// forEachBlock partitions [0, n) into Workgroup-sized blocks and runs fn
// once per block, bounded to e.MaxParallel concurrent blocks and returning
// the first error any block reports; no pass starts the next one until this
// returns, acting as a pipeline barrier.
func (e *Engine) forEachBlock(ctx context.Context, n int, fn func(blockIdx, start, end int) error) error {
	if n == 0 {
		return nil
	}
	w := e.Workgroup
	numBlocks := (n + w - 1) / w

	g, gctx := errgroup.WithContext(ctx)
	for b := 0; b < numBlocks; b++ {
		b := b
		start := b * w
		end := start + w
		if end > n {
			end = n
		}
		if err := e.sema.Acquire(gctx, 1); err != nil {
			return fmt.Errorf("%w: %v", lexerr.DeviceFailure, err)
		}
		g.Go(func() error {
			defer e.sema.Release(1)
			return fn(b, start, end)
		})
	}
	return g.Wait()
}

// Result is the complete output of one Evaluate call: the kept-token stream
// plus the full all-token stream (including filtered tokens), recovered from
// end_positions_all as an additional, non-narrowing capability.
type Result struct {
	Kept []token.Token
	All  []token.Token
}

// Evaluate runs the map, block-scan, boundary/seed, two-lane-scan, compact,
// and token-build passes over input using t. It does not run the retag
// pass; callers needing retagged tokens apply package retag to Result.Kept.
func Evaluate(ctx context.Context, e *Engine, t tables.Tables, input []byte) (Result, error) {
	n := len(input)
	if n == 0 {
		return Result{}, nil
	}

	f, err := mapPass(e, ctx, t, input)
	if err != nil {
		return Result{}, err
	}

	F, err := blockScanPass(e, ctx, t, f)
	if err != nil {
		return Result{}, err
	}

	allEnd, keepEnd, kindAt, err := boundarySeedPass(e, ctx, t, F, n)
	if err != nil {
		return Result{}, err
	}

	sAll, sKeep, err := twoLaneSumScanPass(e, ctx, allEnd, keepEnd)
	if err != nil {
		return Result{}, err
	}

	endsAll, endsKeep, err := compactPass(e, ctx, allEnd, keepEnd, sAll, sKeep)
	if err != nil {
		return Result{}, err
	}

	all, err := tokenBuildPass(e, ctx, endsAll, nil, nil, kindAt)
	if err != nil {
		return Result{}, err
	}
	kept, err := tokenBuildPass(e, ctx, endsKeep, endsAll, sAll, kindAt)
	if err != nil {
		return Result{}, err
	}

	return Result{Kept: kept, All: all}, nil
}
