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

import "sync"

// completionMap is the concurrent BatchNumber -> *completionSignal mapping
// shared between CreateHandler and the WatermarkTask. A single mutex is
// sufficient given the low contention (inserts from CreateHandler, one
// remove per watermark advance, reads from the single WatermarkTask).
//
// A condition variable attached to the map's mutex is notified on every
// insertion, which is the only event that can make waitFor's "does the key
// exist yet" predicate become true. Once a waiter has the signal itself, it
// no longer needs the map's cond: closing a completionSignal's done channel
// is itself a broadcast wake-up, so waitFor blocks on that channel directly
// for the "has it resolved" half, rather than looping back through the
// map's cond on every resolution as well.
type completionMap struct {
	mu      sync.Mutex
	cond    sync.Cond
	entries map[BatchNumber]*completionSignal
}

func newCompletionMap() *completionMap {
	m := &completionMap{entries: make(map[BatchNumber]*completionSignal)}
	m.cond.L = &m.mu
	return m
}

// insert adds a fresh, pending signal for n. It panics with a
// duplicateBatchPanic if n is already present: a duplicate CreateHandler(n)
// is a programmer bug in the caller.
func (m *completionMap) insert(n BatchNumber) *completionSignal {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[n]; ok {
		panic(duplicateBatchPanic{n})
	}
	sig := newCompletionSignal()
	m.entries[n] = sig
	m.cond.Broadcast()
	return sig
}

// remove deletes n from the map. Called only by the WatermarkTask, after it
// has advanced the IoSink past n.
func (m *completionMap) remove(n BatchNumber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, n)
}

// waitFor blocks until n exists in the map and then returns its signal,
// still possibly unresolved. It unblocks early, returning ok=false, if stop
// is closed first. Callers must separately wait on the returned signal's
// done channel (or stop) to learn of resolution.
func (m *completionMap) waitFor(n BatchNumber, stop <-chan struct{}) (sig *completionSignal, ok bool) {
	woken := make(chan struct{})
	go func() {
		select {
		case <-stop:
			m.mu.Lock()
			m.cond.Broadcast()
			m.mu.Unlock()
		case <-woken:
		}
	}()
	defer close(woken)

	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		if sig, ok := m.entries[n]; ok {
			return sig, true
		}
		select {
		case <-stop:
			return nil, false
		default:
		}
		m.cond.Wait()
	}
}
