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

import "context"

// Handler is the two-phase output contract a per-batch handler must
// implement. U is the (opaque to this package) execution-trace type
// threaded through both phases, analogous to the original's
// UpdatesManager.
//
// For a given batch, HandleL2Block is called zero or more times (once per
// L2 block in the batch), in order, each call potentially suspending on
// downstream I/O. HandleL1Batch is then called exactly once, after the last
// HandleL2Block call, to finalize the batch; after it returns successfully
// the Handler is discarded. Implementations may retain batch-scoped state
// between calls.
//
// U is passed by pointer throughout. During HandleL1Batch the updates are
// conceptually shared/read-only (other, concurrently-running handlers for
// other batches may be reading their own copies at the same time); an
// implementation that needs exclusive mutation of U during HandleL1Batch
// must clone it first.
type Handler[U any] interface {
	HandleL2Block(ctx context.Context, updates *U) error
	HandleL1Batch(ctx context.Context, updates *U) error
}

// InnerHandlerFactory manufactures a raw Handler for a given batch number.
// CreateInner may perform blocking I/O (e.g. database reads) and may fail;
// failures propagate synchronously to the caller of
// ConcurrentOutputHandlerFactory.CreateHandler.
type InnerHandlerFactory[U any] interface {
	CreateInner(ctx context.Context, n BatchNumber) (Handler[U], error)
}
