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

package vmrunner_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matter-labs/vm-runner/iosink/memsink"
	"github.com/matter-labs/vm-runner/outputhandler"
	"github.com/matter-labs/vm-runner/vmrunner"
	"github.com/matter-labs/vm-runner/vmrunner/demo"
)

// fixedBatchSource hands out a fixed sequence of batches, one per call to
// NextBatch, then blocks until stop fires.
type fixedBatchSource struct {
	mu      sync.Mutex
	batches []struct {
		n      outputhandler.BatchNumber
		blocks []uint64
	}
	next int
}

func (s *fixedBatchSource) NextBatch(_ context.Context, stop <-chan struct{}) (outputhandler.BatchNumber, []uint64, bool, error) {
	s.mu.Lock()
	if s.next < len(s.batches) {
		b := s.batches[s.next]
		s.next++
		s.mu.Unlock()
		return b.n, b.blocks, true, nil
	}
	s.mu.Unlock()

	<-stop
	return 0, nil, false, nil
}

// countingExecutor counts how many blocks it was asked to run.
type countingExecutor struct {
	mu          sync.Mutex
	blocksTotal int
}

func (e *countingExecutor) ExecuteL2Block(_ context.Context, _ uint64, _ *vmrunner.Updates) error {
	e.mu.Lock()
	e.blocksTotal++
	e.mu.Unlock()
	return nil
}

func TestRunnerProcessesBatchesInOrder(t *testing.T) {
	io := memsink.New(0, 10)
	factory, task := outputhandler.New[vmrunner.Updates](io, demo.NewFactory(nil))

	source := &fixedBatchSource{
		batches: []struct {
			n      outputhandler.BatchNumber
			blocks []uint64
		}{
			{1, []uint64{101, 102}},
			{2, []uint64{201}},
			{3, nil},
		},
	}
	exec := &countingExecutor{}
	r := vmrunner.NewRunner[vmrunner.Updates](source, exec, factory, task, func(n outputhandler.BatchNumber) *vmrunner.Updates {
		return &vmrunner.Updates{Batch: vmrunner.BatchRef(n)}
	})

	stop := make(chan struct{})
	runErr := make(chan error, 1)
	go func() { runErr <- r.Run(context.Background(), stop) }()

	require.Eventually(t, func() bool {
		return io.Current() == 3
	}, time.Second, 5*time.Millisecond)

	exec.mu.Lock()
	require.Equal(t, 3, exec.blocksTotal)
	exec.mu.Unlock()

	close(stop)
	select {
	case err := <-runErr:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Runner.Run did not return after stop")
	}
}

func TestRunnerHooksObserveDiscoveryAndDuration(t *testing.T) {
	io := memsink.New(0, 10)
	factory, task := outputhandler.New[vmrunner.Updates](io, demo.NewFactory(nil))

	source := &fixedBatchSource{
		batches: []struct {
			n      outputhandler.BatchNumber
			blocks []uint64
		}{
			{1, []uint64{1}},
			{2, []uint64{2}},
		},
	}
	exec := &countingExecutor{}
	r := vmrunner.NewRunner[vmrunner.Updates](source, exec, factory, task, func(n outputhandler.BatchNumber) *vmrunner.Updates {
		return &vmrunner.Updates{Batch: vmrunner.BatchRef(n)}
	})

	var mu sync.Mutex
	var discovered []outputhandler.BatchNumber
	var durations int
	r.Hooks = vmrunner.Hooks{
		OnBatchDiscovered: func(n outputhandler.BatchNumber) {
			mu.Lock()
			discovered = append(discovered, n)
			mu.Unlock()
		},
		OnBatchDuration: func(outputhandler.BatchNumber, time.Duration) {
			mu.Lock()
			durations++
			mu.Unlock()
		},
	}

	stop := make(chan struct{})
	runErr := make(chan error, 1)
	go func() { runErr <- r.Run(context.Background(), stop) }()

	require.Eventually(t, func() bool {
		return io.Current() == 2
	}, time.Second, 5*time.Millisecond)

	close(stop)
	select {
	case err := <-runErr:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Runner.Run did not return after stop")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []outputhandler.BatchNumber{1, 2}, discovered)
	require.Equal(t, 2, durations)
}

// erroringExecutor fails ExecuteL2Block for one specific block number, so
// tests can exercise Hooks.OnStageError without depending on real failure
// conditions deeper in the stack.
type erroringExecutor struct {
	failBlock uint64
}

func (e *erroringExecutor) ExecuteL2Block(_ context.Context, blockNumber uint64, _ *vmrunner.Updates) error {
	if blockNumber == e.failBlock {
		return errExecutorFailed
	}
	return nil
}

var errExecutorFailed = errors.New("simulated block execution failure")

func TestRunnerHooksReportStageError(t *testing.T) {
	io := memsink.New(0, 10)
	factory, task := outputhandler.New[vmrunner.Updates](io, demo.NewFactory(nil))

	source := &fixedBatchSource{
		batches: []struct {
			n      outputhandler.BatchNumber
			blocks []uint64
		}{
			{1, []uint64{1}},
		},
	}
	exec := &erroringExecutor{failBlock: 1}
	r := vmrunner.NewRunner[vmrunner.Updates](source, exec, factory, task, func(n outputhandler.BatchNumber) *vmrunner.Updates {
		return &vmrunner.Updates{Batch: vmrunner.BatchRef(n)}
	})

	stageErrs := make(chan string, 1)
	r.Hooks = vmrunner.Hooks{
		OnStageError: func(stage string) { stageErrs <- stage },
	}

	stop := make(chan struct{})
	runErr := make(chan error, 1)
	go func() { runErr <- r.Run(context.Background(), stop) }()

	select {
	case stage := <-stageErrs:
		require.Equal(t, "execute", stage)
	case <-time.After(time.Second):
		t.Fatal("OnStageError was never called")
	}

	// Batch 1 never resolves its completion signal (ExecuteL2Block failed
	// before HandleL1Batch could run), so the watermark task would
	// otherwise block forever; closing stop lets it, and the whole Runner,
	// return.
	close(stop)

	select {
	case err := <-runErr:
		require.ErrorIs(t, err, errExecutorFailed)
	case <-time.After(time.Second):
		t.Fatal("Runner.Run did not return after batch error")
	}
}
