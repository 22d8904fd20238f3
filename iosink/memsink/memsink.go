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

// Package memsink provides an in-memory outputhandler.IoSink, a direct port
// of the original Rust test suite's IoMock: a mutex-guarded pair of
// (current, max) batch numbers with no persistence whatsoever. It exists to
// make outputhandler's own tests, and any caller's integration tests, cheap
// to write.
package memsink

import (
	"sync"

	"github.com/matter-labs/vm-runner/outputhandler"
)

// Sink is a mutex-guarded, in-memory outputhandler.IoSink.
type Sink struct {
	mu      sync.RWMutex
	current outputhandler.BatchNumber
	max     outputhandler.BatchNumber
}

// New returns a Sink with the given initial watermark and last-considered
// (max) batch number.
func New(initial, max outputhandler.BatchNumber) *Sink {
	return &Sink{current: initial, max: max}
}

// Current implements outputhandler.IoSink.
func (s *Sink) Current() outputhandler.BatchNumber {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// LastConsidered implements outputhandler.IoSink.
func (s *Sink) LastConsidered() outputhandler.BatchNumber {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.max
}

// MarkProcessed implements outputhandler.IoSink.
func (s *Sink) MarkProcessed(n outputhandler.BatchNumber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n != s.current+1 {
		return outputhandler.ErrNonConsecutiveAdvance
	}
	s.current = n
	return nil
}

// SetLastConsidered updates the last-considered (max) batch number, e.g.
// when the runner learns of new batches to submit.
func (s *Sink) SetLastConsidered(max outputhandler.BatchNumber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.max = max
}
