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

// Package demo is a direct port of the original test suite's
// TestOutputFactory/TestOutputHandler: an InnerHandlerFactory whose
// handlers do nothing but optionally sleep in HandleL1Batch, for a
// configurable duration per batch. It backs both this module's own seed
// tests and `vmrunnerd run --demo`.
package demo

import (
	"context"
	"sync"
	"time"

	"github.com/matter-labs/vm-runner/outputhandler"
	"github.com/matter-labs/vm-runner/vmrunner"
)

// Factory hands out handlers whose HandleL1Batch sleeps for the configured
// per-batch Delays entry, if any, before returning successfully.
type Factory struct {
	mu     sync.Mutex
	Delays map[outputhandler.BatchNumber]time.Duration
}

var _ outputhandler.InnerHandlerFactory[vmrunner.Updates] = (*Factory)(nil)

// NewFactory returns a Factory with the given per-batch delays. A nil map
// is treated as "no delays".
func NewFactory(delays map[outputhandler.BatchNumber]time.Duration) *Factory {
	if delays == nil {
		delays = make(map[outputhandler.BatchNumber]time.Duration)
	}
	return &Factory{Delays: delays}
}

// CreateInner implements outputhandler.InnerHandlerFactory.
func (f *Factory) CreateInner(_ context.Context, n outputhandler.BatchNumber) (outputhandler.Handler[vmrunner.Updates], error) {
	f.mu.Lock()
	delay, ok := f.Delays[n]
	f.mu.Unlock()
	if !ok {
		delay = 0
	}
	return &handler{delay: delay}, nil
}

type handler struct {
	delay time.Duration
}

var _ outputhandler.Handler[vmrunner.Updates] = (*handler)(nil)

// HandleL2Block implements outputhandler.Handler. It is a no-op, matching
// the original TestOutputHandler.
func (h *handler) HandleL2Block(_ context.Context, _ *vmrunner.Updates) error {
	return nil
}

// HandleL1Batch implements outputhandler.Handler: it sleeps for the
// configured delay, honouring ctx cancellation, then returns nil.
func (h *handler) HandleL1Batch(ctx context.Context, _ *vmrunner.Updates) error {
	if h.delay <= 0 {
		return nil
	}
	t := time.NewTimer(h.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
