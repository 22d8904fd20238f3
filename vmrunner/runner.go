// Copyright 2025 the libevm authors.
//
// The libevm additions to go-ethereum are free software: you can redistribute
// them and/or modify them under the terms of the GNU Lesser General Public License
// as published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// The libevm additions are distributed in the hope that they will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser
// General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see
// <http://www.gnu.org/licenses/>.

package vmrunner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matter-labs/vm-runner/log"
	"github.com/matter-labs/vm-runner/outputhandler"
)

// A BatchSource discovers which L2 blocks belong to the next batch ready to
// be run. It is this module's stand-in for the original's Postgres-backed
// discovery of unprocessed batches (VmRunnerStorage), trimmed to the single
// method Runner actually needs.
type BatchSource interface {
	// NextBatch returns the L2 block numbers belonging to the batch
	// immediately after the one last returned, blocking until either that
	// batch becomes available, ctx is done, or stop fires. ok is false if
	// NextBatch returned because stop fired rather than because a batch
	// became available.
	NextBatch(ctx context.Context, stop <-chan struct{}) (batch outputhandler.BatchNumber, blocks []uint64, ok bool, err error)
}

// A BlockExecutor runs a single L2 block, folding its effect into updates.
// It is called once per block number returned by a BatchSource, in block
// order, the way the original's MainBatchExecutor is driven one L2 block at
// a time within a batch.
type BlockExecutor[U any] interface {
	ExecuteL2Block(ctx context.Context, blockNumber uint64, updates *U) error
}

// Hooks are optional callbacks a Runner invokes at points of interest. They
// let a caller feed a metrics.Collector or a statusserver.Server without
// this package importing either. A zero Hooks value calls nothing.
type Hooks struct {
	// OnBatchDiscovered is called as soon as a batch is returned by the
	// BatchSource, before its blocks are executed.
	OnBatchDiscovered func(batch outputhandler.BatchNumber)
	// OnBatchDuration is called after a batch's handler has successfully
	// completed HandleL1Batch, with the wall-clock time taken to execute
	// and hand off the whole batch.
	OnBatchDuration func(batch outputhandler.BatchNumber, d time.Duration)
	// OnStageError is called whenever batch processing aborts due to an
	// error, naming the stage that failed (e.g. "discover", "execute").
	OnStageError func(stage string)
}

// Runner ties an IoSink, a BatchSource, a BlockExecutor and a
// ConcurrentOutputHandlerFactory's WatermarkTask together into a single
// runnable process, mirroring the original's VmRunner: discover the next
// batch, run its blocks through the executor, hand the accumulated updates
// to the output handler, and repeat, while the watermark task independently
// drains completions in order. Each batch's execution and handler run on
// their own goroutine, so batch N+1 can be discovered and run while batch
// N's handler is still in flight; the watermark task alone decides when a
// batch's effects are safe to consider durable.
type Runner[U any] struct {
	source   BatchSource
	exec     BlockExecutor[U]
	factory  *outputhandler.ConcurrentOutputHandlerFactory[U]
	task     *outputhandler.WatermarkTask
	newBatch func(batch outputhandler.BatchNumber) *U

	// Hooks is optional and may be set any time before Run is called.
	Hooks Hooks
}

// NewRunner constructs a Runner. newBatch builds the zero-value *U for a
// newly discovered batch, e.g. populating its batch-number field; it may be
// nil, in which case new(U) is used directly.
func NewRunner[U any](source BatchSource, exec BlockExecutor[U], factory *outputhandler.ConcurrentOutputHandlerFactory[U], task *outputhandler.WatermarkTask, newBatch func(outputhandler.BatchNumber) *U) *Runner[U] {
	return &Runner[U]{
		source:   source,
		exec:     exec,
		factory:  factory,
		task:     task,
		newBatch: newBatch,
	}
}

// Run drives batch discovery and execution until stop fires or an
// unrecoverable error occurs, concurrently with the WatermarkTask. It
// returns the first error from either. An error cancels the errgroup-derived
// context seen by batch discovery and execution, but the WatermarkTask
// watches only stop, so Run does not return until stop is closed.
func (r *Runner[U]) Run(ctx context.Context, stop <-chan struct{}) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.task.Run(stop)
	})
	g.Go(func() error {
		return r.runLoop(ctx, stop, g)
	})

	return g.Wait()
}

// runLoop discovers batches one at a time and hands each off to its own
// goroutine via g, so discovery of batch N+1 is never blocked on batch N's
// handler completing; only CreateHandler (cheap: it just registers a
// completion signal) happens on this loop's own goroutine, preserving the
// order batches are registered in.
func (r *Runner[U]) runLoop(ctx context.Context, stop <-chan struct{}, g *errgroup.Group) error {
	for {
		select {
		case <-stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch, blocks, ok, err := r.source.NextBatch(ctx, stop)
		if err != nil {
			log.Error("BatchSource failed to discover next batch", "err", err)
			r.reportStageError("discover")
			return err
		}
		if !ok {
			return nil
		}
		r.reportBatchDiscovered(batch)

		handler, err := r.factory.CreateHandler(ctx, batch)
		if err != nil {
			log.Error("Failed to create output handler", "batch", log.Batch(uint32(batch)), "err", err)
			r.reportStageError("create_handler")
			return err
		}

		var updates *U
		if r.newBatch != nil {
			updates = r.newBatch(batch)
		} else {
			updates = new(U)
		}

		g.Go(func() error {
			return r.runBatch(ctx, batch, blocks, handler, updates)
		})
	}
}

// runBatch executes one batch's blocks and hands the result to its handler.
// It runs on its own goroutine so it can overlap with the next batch's
// discovery and execution; the watermark task is solely responsible for
// serializing the order in which batches are considered durable.
func (r *Runner[U]) runBatch(ctx context.Context, batch outputhandler.BatchNumber, blocks []uint64, handler outputhandler.Handler[U], updates *U) error {
	start := time.Now()
	for _, blockNumber := range blocks {
		if err := r.exec.ExecuteL2Block(ctx, blockNumber, updates); err != nil {
			log.Error("Block execution failed", "batch", log.Batch(uint32(batch)), "block", blockNumber, "err", err)
			r.reportStageError("execute")
			return err
		}
		if err := handler.HandleL2Block(ctx, updates); err != nil {
			log.Error("HandleL2Block failed", "batch", log.Batch(uint32(batch)), "block", blockNumber, "err", err)
			r.reportStageError("handle_l2_block")
			return err
		}
	}
	if err := handler.HandleL1Batch(ctx, updates); err != nil {
		log.Error("HandleL1Batch failed", "batch", log.Batch(uint32(batch)), "err", err)
		r.reportStageError("handle_l1_batch")
		return err
	}
	duration := time.Since(start)
	log.Info("Batch executed", "batch", log.Batch(uint32(batch)), "blocks", len(blocks), "duration", duration)
	r.reportBatchDuration(batch, duration)
	return nil
}

func (r *Runner[U]) reportBatchDiscovered(n outputhandler.BatchNumber) {
	if r.Hooks.OnBatchDiscovered != nil {
		r.Hooks.OnBatchDiscovered(n)
	}
}

func (r *Runner[U]) reportBatchDuration(n outputhandler.BatchNumber, d time.Duration) {
	if r.Hooks.OnBatchDuration != nil {
		r.Hooks.OnBatchDuration(n, d)
	}
}

func (r *Runner[U]) reportStageError(stage string) {
	if r.Hooks.OnStageError != nil {
		r.Hooks.OnStageError(stage)
	}
}
