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

// Package executor provides an embarrassingly-parallel L2-block runner. The
// real VM batch executor lives elsewhere; this package only needs to
// produce the vmrunner.Updates a ConcurrentOutputHandlerFactory-created
// Handler consumes, on its own worker pool, so that the output-handling
// core can be exercised end to end.
package executor

import (
	"sync"
)

// A BlockRunner processes a batch's L2 blocks in two phases, prefetch then
// process, in the same split the teacher's precompile Handler used for
// transactions: Prefetch MUST NOT perform meaningful computation beyond
// what Process needs, so that cheap I/O-bound prefetching for block N+1 can
// overlap with CPU-bound processing of block N.
type BlockRunner[Data, Result any] interface {
	// Prefetch is called once per L2 block, in no particular order among
	// blocks in the same batch.
	Prefetch(index int, blockNumber uint64) Data
	// Process is called once per L2 block, after the respective Prefetch
	// call, in no particular order among blocks in the same batch.
	Process(index int, blockNumber uint64, data Data) Result
}

// An Executor dispatches a batch's L2 block numbers to a BlockRunner across
// a fixed pool of prefetch/process workers, the way the teacher's
// Processor[D,R] dispatched transactions. Close must be called after the
// final call to FinishBatch to avoid leaking the worker goroutines.
type Executor[D, R any] struct {
	runner            BlockRunner[D, R]
	workers           sync.WaitGroup
	prefetch, process chan *blockJob
	data              [](chan D)
	results           [](chan R)
}

type blockJob struct {
	index       int
	blockNumber uint64
}

// New constructs an Executor with the given number of concurrent prefetch
// and process workers.
func New[D, R any](runner BlockRunner[D, R], prefetchers, processors int) *Executor[D, R] {
	prefetchers = max(prefetchers, 1)
	processors = max(processors, 1)

	e := &Executor[D, R]{
		runner:   runner,
		prefetch: make(chan *blockJob),
		process:  make(chan *blockJob),
	}

	e.workers.Add(prefetchers + processors)
	for range prefetchers {
		go e.worker(e.prefetch, nil)
	}
	for range processors {
		go e.worker(nil, e.process)
	}
	return e
}

func (e *Executor[D, R]) worker(prefetch, process chan *blockJob) {
	defer e.workers.Done()
	for {
		select {
		case job, ok := <-prefetch:
			if !ok {
				return
			}
			e.data[job.index] <- e.runner.Prefetch(job.index, job.blockNumber)

		case job, ok := <-process:
			if !ok {
				return
			}
			e.results[job.index] <- e.runner.Process(job.index, job.blockNumber, <-e.data[job.index])
		}
	}
}

// Close shuts down the Executor, after which it can no longer be used.
func (e *Executor[D, R]) Close() {
	close(e.prefetch)
	close(e.process)
	e.workers.Wait()
}

// StartBatch dispatches blockNumbers to the BlockRunner and returns
// immediately. It MUST be paired with a call to FinishBatch, without
// overlap of batches.
func (e *Executor[D, R]) StartBatch(blockNumbers []uint64) {
	e.data = make([]chan D, len(blockNumbers))
	e.results = make([]chan R, len(blockNumbers))
	jobs := make([]*blockJob, len(blockNumbers))
	for i, n := range blockNumbers {
		e.data[i] = make(chan D, 1)
		e.results[i] = make(chan R, 1)
		jobs[i] = &blockJob{index: i, blockNumber: n}
	}

	// The first goroutine pipelines into the second, which has its results
	// emptied by FinishBatch. The return of that function therefore
	// guarantees that we haven't leaked either of these.
	go func() {
		for _, j := range jobs {
			e.prefetch <- j
		}
	}()
	go func() {
		for _, j := range jobs {
			e.process <- j
		}
	}()
}

// FinishBatch blocks until every block dispatched by the last call to
// StartBatch has been processed, and returns their results in the same
// order the block numbers were given.
func (e *Executor[D, R]) FinishBatch() []R {
	out := make([]R, len(e.results))
	for i, ch := range e.results {
		out[i] = <-ch
	}
	return out
}
