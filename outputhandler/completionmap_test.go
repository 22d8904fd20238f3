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

package outputhandler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreCurrent())
}

func TestCompletionMapInsertDuplicatePanics(t *testing.T) {
	m := newCompletionMap()
	m.insert(5)
	require.Panics(t, func() { m.insert(5) })
}

func TestCompletionMapWaitForBlocksUntilInsert(t *testing.T) {
	m := newCompletionMap()
	stop := make(chan struct{})

	done := make(chan *completionSignal, 1)
	go func() {
		sig, ok := m.waitFor(1, stop)
		require.True(t, ok)
		done <- sig
	}()

	select {
	case <-done:
		t.Fatal("waitFor returned before batch 1 was inserted")
	case <-time.After(20 * time.Millisecond):
	}

	inserted := m.insert(1)
	select {
	case sig := <-done:
		require.Same(t, inserted, sig)
	case <-time.After(time.Second):
		t.Fatal("waitFor did not wake up after insert")
	}
}

func TestCompletionMapWaitForUnblocksOnStop(t *testing.T) {
	m := newCompletionMap()
	stop := make(chan struct{})

	done := make(chan bool, 1)
	go func() {
		_, ok := m.waitFor(1, stop)
		done <- ok
	}()

	close(stop)
	select {
	case ok := <-done:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("waitFor did not unblock on stop")
	}
}

func TestCompletionMapRemove(t *testing.T) {
	m := newCompletionMap()
	m.insert(1)
	m.remove(1)
	_, ok := m.entries[1]
	require.False(t, ok)
}

func TestCompletionSignalResolved(t *testing.T) {
	sig := newCompletionSignal()
	require.False(t, sig.resolved())
	sig.resolve()
	require.True(t, sig.resolved())
}
