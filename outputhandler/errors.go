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

import "errors"

// ErrNonConsecutiveAdvance is returned by an IoSink implementation's
// MarkProcessed when called with anything other than current()+1. This is a
// precondition violation: an internal bug in the caller, not a user-facing
// error.
var ErrNonConsecutiveAdvance = errors.New("outputhandler: MarkProcessed called out of sequence")

// duplicateBatchPanic is raised by CreateHandler when asked for a batch
// number that already has a live entry in the completion map: a duplicate
// CreateHandler call is a precondition violation (the caller, the VM
// runner, duplicated a batch number) and not a recoverable error.
type duplicateBatchPanic struct {
	batch BatchNumber
}

func (p duplicateBatchPanic) Error() string {
	return "outputhandler: duplicate CreateHandler(" + p.batch.String() + "): batch already requested"
}
