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

package executor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreCurrent())
}

// doubler is a trivial BlockRunner: Prefetch reports the block number it
// was given, Process doubles it.
type doubler struct{}

func (doubler) Prefetch(_ int, blockNumber uint64) uint64 { return blockNumber }
func (doubler) Process(_ int, _ uint64, data uint64) uint64 {
	return data * 2
}

func TestExecutorOrdersResultsByIndexNotCompletionOrder(t *testing.T) {
	e := New[uint64, uint64](doubler{}, 4, 4)
	t.Cleanup(e.Close)

	blocks := []uint64{10, 20, 30, 40, 50}
	e.StartBatch(blocks)
	got := e.FinishBatch()

	want := []uint64{20, 40, 60, 80, 100}
	require.Equal(t, want, got)
}

func TestExecutorReusableAcrossBatches(t *testing.T) {
	e := New[uint64, uint64](doubler{}, 2, 2)
	t.Cleanup(e.Close)

	for _, blocks := range [][]uint64{{1, 2, 3}, {4}, {}, {5, 6}} {
		e.StartBatch(blocks)
		got := e.FinishBatch()
		require.Len(t, got, len(blocks))
		for i, b := range blocks {
			require.Equal(t, b*2, got[i])
		}
	}
}

type recordingRunner struct {
	calls chan int
}

func (r *recordingRunner) Prefetch(index int, _ uint64) int {
	r.calls <- index
	return index
}

func (r *recordingRunner) Process(_ int, _ uint64, data int) int {
	return data
}

func TestExecutorSingleWorkerProcessesAllBlocks(t *testing.T) {
	r := &recordingRunner{calls: make(chan int, 3)}
	e := New[int, int](r, 1, 1)
	t.Cleanup(e.Close)

	e.StartBatch([]uint64{100, 200, 300})
	got := e.FinishBatch()
	require.Len(t, got, 3)
	close(r.calls)

	seen := map[int]bool{}
	for idx := range r.calls {
		seen[idx] = true
	}
	require.Len(t, seen, 3)
}
