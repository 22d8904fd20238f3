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

package demo

import (
	"context"
	"sync"
	"time"

	"github.com/matter-labs/vm-runner/outputhandler"
	"github.com/matter-labs/vm-runner/vmrunner"
	"github.com/matter-labs/vm-runner/vmrunner/executor"
)

// SequentialSource is a vmrunner.BatchSource that manufactures an endless
// sequence of batches, each with a fixed number of L2 blocks, pacing itself
// with a small delay so that `vmrunnerd --demo` produces an observable
// trickle of batches rather than a tight spin.
type SequentialSource struct {
	BlocksPerBatch int
	Pace           time.Duration

	next outputhandler.BatchNumber
}

var _ vmrunner.BatchSource = (*SequentialSource)(nil)

// NewSequentialSource returns a SequentialSource starting at batch 1.
func NewSequentialSource(blocksPerBatch int, pace time.Duration) *SequentialSource {
	return &SequentialSource{BlocksPerBatch: blocksPerBatch, Pace: pace, next: 1}
}

// NextBatch implements vmrunner.BatchSource.
func (s *SequentialSource) NextBatch(ctx context.Context, stop <-chan struct{}) (outputhandler.BatchNumber, []uint64, bool, error) {
	if s.Pace > 0 {
		t := time.NewTimer(s.Pace)
		defer t.Stop()
		select {
		case <-t.C:
		case <-stop:
			return 0, nil, false, nil
		case <-ctx.Done():
			return 0, nil, false, ctx.Err()
		}
	}

	n := s.next
	s.next++

	blocks := make([]uint64, s.BlocksPerBatch)
	for i := range blocks {
		blocks[i] = uint64(n-1)*uint64(s.BlocksPerBatch) + uint64(i) + 1
	}
	return n, blocks, true, nil
}

// NoopExecutor is a vmrunner.BlockExecutor[vmrunner.Updates] that records
// block numbers into Updates.L2Blocks without doing any real execution.
type NoopExecutor struct{}

func (NoopExecutor) ExecuteL2Block(_ context.Context, blockNumber uint64, updates *vmrunner.Updates) error {
	updates.L2Blocks = append(updates.L2Blocks, vmrunner.L2BlockUpdate{Number: blockNumber})
	return nil
}

// blockEcho is a trivial executor.BlockRunner: Prefetch hands the block
// number straight through as Data, Process turns it into the
// vmrunner.L2BlockUpdate that ParallelExecutor records. It exists only to
// give ParallelExecutor a runner to drive its prefetch/process pool with.
type blockEcho struct{}

func (blockEcho) Prefetch(_ int, blockNumber uint64) uint64 { return blockNumber }

func (blockEcho) Process(_ int, blockNumber uint64, data uint64) vmrunner.L2BlockUpdate {
	return vmrunner.L2BlockUpdate{Number: data}
}

// ParallelExecutor is a vmrunner.BlockExecutor[vmrunner.Updates] that routes
// every block through an executor.Executor's prefetch/process worker pool
// instead of running it inline, demonstrating the pool driving real
// production traffic (`vmrunnerd run --demo --parallel`) rather than only
// the synthetic batches in executor_test.go.
type ParallelExecutor struct {
	mu   sync.Mutex
	pool *executor.Executor[uint64, vmrunner.L2BlockUpdate]
}

var _ vmrunner.BlockExecutor[vmrunner.Updates] = (*ParallelExecutor)(nil)

// NewParallelExecutor returns a ParallelExecutor backed by an executor.Executor
// with the given number of prefetch and process workers.
func NewParallelExecutor(prefetchers, processors int) *ParallelExecutor {
	return &ParallelExecutor{pool: executor.New[uint64, vmrunner.L2BlockUpdate](blockEcho{}, prefetchers, processors)}
}

// ExecuteL2Block implements vmrunner.BlockExecutor by running blockNumber
// through the pool as a singleton batch. Runner calls this once per block,
// so the pool can't parallelize within a single call; it still exercises
// the same StartBatch/FinishBatch path a batch-sized caller would use.
// Runner may call it from several batches' goroutines at once, so calls
// are serialized: the pool runs one StartBatch/FinishBatch pair at a time.
func (p *ParallelExecutor) ExecuteL2Block(_ context.Context, blockNumber uint64, updates *vmrunner.Updates) error {
	p.mu.Lock()
	p.pool.StartBatch([]uint64{blockNumber})
	results := p.pool.FinishBatch()
	p.mu.Unlock()
	updates.L2Blocks = append(updates.L2Blocks, results[0])
	return nil
}

// Close shuts down the underlying worker pool.
func (p *ParallelExecutor) Close() { p.pool.Close() }
