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
	"context"

	"github.com/matter-labs/vm-runner/log"
)

// wrappingHandler decorates an inner Handler, resolving its batch's
// completion signal when HandleL1Batch succeeds. If the inner handler
// fails, the signal is deliberately left unresolved and the error is
// propagated: this intentionally stalls the watermark at n-1.
type wrappingHandler[U any] struct {
	n     BatchNumber
	inner Handler[U]
	sig   *completionSignal
}

var _ Handler[struct{}] = (*wrappingHandler[struct{}])(nil)

// HandleL2Block forwards unchanged to the inner handler.
func (w *wrappingHandler[U]) HandleL2Block(ctx context.Context, updates *U) error {
	return w.inner.HandleL2Block(ctx, updates)
}

// HandleL1Batch forwards to the inner handler and, on success, resolves
// this batch's completion signal.
func (w *wrappingHandler[U]) HandleL1Batch(ctx context.Context, updates *U) error {
	if err := w.inner.HandleL1Batch(ctx, updates); err != nil {
		log.Error("Inner handler failed to finalize batch; watermark will stall",
			"batch", log.Batch(uint32(w.n)), "handler", log.TypeOf(w.inner), "err", err)
		return err
	}
	w.sig.resolve()
	log.Debug("Batch finalized", "batch", log.Batch(uint32(w.n)))
	return nil
}
