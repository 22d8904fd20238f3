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
	"github.com/matter-labs/vm-runner/log"
)

// WatermarkTask is the single long-running background task that folds
// per-batch completion signals into a monotonically non-decreasing
// watermark. There is exactly one WatermarkTask per
// ConcurrentOutputHandlerFactory; it is the sole serialization point for
// watermark advancement.
//
// A WatermarkTask is only ever constructed by New; the zero value is not
// usable.
type WatermarkTask struct {
	io IoSink
	m  *completionMap

	// OnAdvance, if set, is called after each successful watermark
	// advance, with the batch number just marked processed. It may be set
	// any time before Run is called, e.g. to feed a metrics.Collector or a
	// statusserver.Server without this package importing either.
	OnAdvance func(BatchNumber)
}

// Run consumes completion signals strictly in batch order, starting at
// io.Current()+1, advancing the IoSink one batch at a time. It blocks until
// stop is closed (in which case it returns nil) or until the IoSink's
// MarkProcessed call fails (in which case that error is returned: a fatal
// condition for this task).
//
// Inflight handler goroutines are not cancelled by Run when stop fires;
// cancelling them is the caller's responsibility, cooperatively, via the
// same stop signal.
func (t *WatermarkTask) Run(stop <-chan struct{}) error {
	next := t.io.Current() + 1

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		sig, ok := t.m.waitFor(next, stop)
		if !ok {
			// stop fired while waiting for `next` to even be requested.
			return nil
		}

		select {
		case <-sig.done:
		case <-stop:
			return nil
		}

		if err := t.io.MarkProcessed(next); err != nil {
			log.Error("IO sink rejected watermark advance; stopping watermark task",
				"batch", log.Batch(uint32(next)), "err", err)
			return err
		}
		t.m.remove(next)
		log.Info("Watermark advanced", "batch", log.Batch(uint32(next)))
		if t.OnAdvance != nil {
			t.OnAdvance(next)
		}
		next++
	}
}
