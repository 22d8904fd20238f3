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

// Package vmrunner wires a BatchSource standing in for the out-of-scope
// batch discovery, a BlockExecutor standing in for the out-of-scope VM
// executor, and an outputhandler.ConcurrentOutputHandlerFactory (with its
// IoSink-backed WatermarkTask) together into a single
// runnable process, the way the original's VmRunner ties its own storage,
// executor and output factory together.
package vmrunner

import "github.com/matter-labs/vm-runner/pubdata"

// Updates is this module's concrete stand-in for the original's opaque
// UpdatesManager: the execution trace threaded through both phases of an
// outputhandler.Handler. The real VM executor that actually populates one
// lives elsewhere; here it carries just enough for handlers and tests to
// observe which batch/blocks they were given.
type Updates struct {
	Batch       BatchRef
	L2Blocks    []L2BlockUpdate
	DataAvail   pubdata.Mode
	L1BatchDone bool
}

// BatchRef identifies the batch an Updates value belongs to. Kept distinct
// from outputhandler.BatchNumber so that packages building Updates values
// don't need to import outputhandler purely for this field's type; the two
// are interconvertible via uint32.
type BatchRef uint32

// L2BlockUpdate is one L2 block's worth of progress within a batch.
type L2BlockUpdate struct {
	Number  uint64
	NumTxs  int
	GasUsed uint64
}
