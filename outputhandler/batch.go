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

// Package outputhandler is the concurrency core of the VM runner output
// pipeline: it drives per-batch output handlers in parallel and out of
// order, while advancing a single last-processed watermark strictly in
// order and without gaps.
package outputhandler

import (
	"strconv"
)

// BatchNumber identifies an L1 batch. Batches are dense and totally ordered;
// the zero value is a valid batch number (the genesis batch).
type BatchNumber uint32

// String renders n as a decimal L1BatchNumber(n), matching the Debug output
// of the original Rust L1BatchNumber newtype.
func (n BatchNumber) String() string {
	return "L1BatchNumber(" + strconv.FormatUint(uint64(n), 10) + ")"
}

// MarshalText renders n as a 0x-prefixed hex quantity, the same wire
// convention go-ethereum uses for block/batch numbers (see
// common/hexutil's Uint-family MarshalText methods).
func (n BatchNumber) MarshalText() ([]byte, error) {
	buf := make([]byte, 2, 10)
	copy(buf, "0x")
	return strconv.AppendUint(buf, uint64(n), 16), nil
}

// UnmarshalText parses the 0x-prefixed hex quantity produced by MarshalText.
func (n *BatchNumber) UnmarshalText(text []byte) error {
	s := string(text)
	s, ok := trimHexPrefix(s)
	if !ok {
		return strconv.ErrSyntax
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return err
	}
	*n = BatchNumber(v)
	return nil
}

func trimHexPrefix(s string) (string, bool) {
	if len(s) < 2 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return "", false
	}
	return s[2:], true
}
