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

// ConcurrentOutputHandlerFactory is the public entry point of the output
// pipeline: it issues wrapping handlers and registers their completion
// signals. Handler requests for distinct batches are independent; issuing
// one never awaits another.
type ConcurrentOutputHandlerFactory[U any] struct {
	inner InnerHandlerFactory[U]
	io    IoSink
	m     *completionMap
}

// New constructs a ConcurrentOutputHandlerFactory and its companion
// WatermarkTask, sharing a single completion map between them. The task is
// returned uninstantiated: the caller is responsible for running it (in its
// own goroutine) and for eventually closing a stop channel passed to Run.
func New[U any](io IoSink, inner InnerHandlerFactory[U]) (*ConcurrentOutputHandlerFactory[U], *WatermarkTask) {
	m := newCompletionMap()
	f := &ConcurrentOutputHandlerFactory[U]{
		inner: inner,
		io:    io,
		m:     m,
	}
	t := &WatermarkTask{
		io: io,
		m:  m,
	}
	return f, t
}

// CreateHandler asks the inner factory for a raw handler for batch n, then
// registers a fresh completion signal for n and returns a wrapping handler
// bound to both. It is cheap and never awaits completion of any other
// batch.
//
// If inner.CreateInner fails, the error is returned unchanged and the
// completion map is left untouched (no signal is created). If n has
// already been requested (and not yet forgotten by the watermark task),
// CreateHandler panics: this is a precondition violation, not a
// recoverable error.
//
// CreateHandler may still be called after the WatermarkTask has returned
// (e.g. after its stop channel was closed): the factory has no way to observe the task's
// lifecycle. The registered signal will simply never be drained; callers
// that keep submitting batches after stopping the task are responsible for
// bounding how many they submit.
func (f *ConcurrentOutputHandlerFactory[U]) CreateHandler(ctx context.Context, n BatchNumber) (Handler[U], error) {
	inner, err := f.inner.CreateInner(ctx, n)
	if err != nil {
		log.Error("Inner factory failed to construct handler",
			"batch", log.Batch(uint32(n)), "factory", log.TypeOf(f.inner), "err", err)
		return nil, err
	}

	sig := f.m.insert(n)
	log.Debug("Output handler requested", "batch", log.Batch(uint32(n)))

	return &wrappingHandler[U]{
		n:     n,
		inner: inner,
		sig:   sig,
	}, nil
}
