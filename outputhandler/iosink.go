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

// IoSink is the abstract source and sink of the watermark: the greatest
// batch number such that every batch in [first, N] has been fully handled.
//
// Current and LastConsidered may be called from any goroutine at any time.
// MarkProcessed is called only by a WatermarkTask's Run loop, strictly in
// increasing, consecutive order starting at Current()+1 at the time Run was
// entered; implementations must serialize their own internal state but need
// not guard against concurrent callers of MarkProcessed, since there is
// exactly one.
type IoSink interface {
	// Current returns the last watermark this sink has recorded.
	Current() BatchNumber

	// LastConsidered returns the greatest batch number the runner plans to
	// submit. It is advisory: WatermarkTask.Run does not read it, and
	// advances the watermark as completions arrive whether or not they lie
	// beyond LastConsidered.
	LastConsidered() BatchNumber

	// MarkProcessed advances the watermark to n. The caller (a
	// WatermarkTask) guarantees n == Current()+1; implementations that
	// detect a violation of this must return ErrNonConsecutiveAdvance
	// rather than silently accepting an out-of-order advance.
	MarkProcessed(n BatchNumber) error
}
