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

// completionSignal is a single-shot signal: pending, then resolved, never
// un-resolved. There is exactly one producer (the wrappingHandler for its
// batch) and any number of observers. Resolution is modelled as closing
// done, following the same quit-channel idiom used elsewhere in this
// codebase for broadcast, close-once notifications: any number of
// goroutines can receive from (or select on) a closed channel without
// blocking, indefinitely.
type completionSignal struct {
	done chan struct{}
}

func newCompletionSignal() *completionSignal {
	return &completionSignal{done: make(chan struct{})}
}

// resolve marks the signal resolved. It must be called at most once, and
// only after the inner handler's HandleL1Batch has returned successfully:
// a failing inner handler must leave the signal pending forever, so there
// is no "resolve with error" path.
func (s *completionSignal) resolve() {
	close(s.done)
}

// resolved reports whether resolve has already been called.
func (s *completionSignal) resolved() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
