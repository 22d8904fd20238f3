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

package log

import "golang.org/x/exp/slog"

// Batch returns a LogValuer that renders a batch number as an unsigned
// integer structured field. It takes a plain uint32, so callers holding an
// outputhandler.BatchNumber convert it explicitly (log.Batch(uint32(n))).
func Batch(n uint32) slog.LogValuer {
	return batchValue(n)
}

type batchValue uint32

func (v batchValue) LogValue() slog.Value {
	return slog.Uint64Value(uint64(v))
}
