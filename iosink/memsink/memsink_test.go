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

package memsink_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matter-labs/vm-runner/iosink/memsink"
	"github.com/matter-labs/vm-runner/outputhandler"
)

func TestNewReportsInitialValues(t *testing.T) {
	s := memsink.New(3, 9)
	require.EqualValues(t, 3, s.Current())
	require.EqualValues(t, 9, s.LastConsidered())
}

func TestMarkProcessedAdvancesByOne(t *testing.T) {
	s := memsink.New(0, 5)
	require.NoError(t, s.MarkProcessed(1))
	require.EqualValues(t, 1, s.Current())
}

func TestMarkProcessedRejectsGap(t *testing.T) {
	s := memsink.New(0, 5)
	err := s.MarkProcessed(2)
	require.True(t, errors.Is(err, outputhandler.ErrNonConsecutiveAdvance))
	require.EqualValues(t, 0, s.Current())
}

func TestMarkProcessedRejectsRepeat(t *testing.T) {
	s := memsink.New(0, 5)
	require.NoError(t, s.MarkProcessed(1))
	err := s.MarkProcessed(1)
	require.True(t, errors.Is(err, outputhandler.ErrNonConsecutiveAdvance))
}

func TestSetLastConsidered(t *testing.T) {
	s := memsink.New(0, 5)
	s.SetLastConsidered(20)
	require.EqualValues(t, 20, s.LastConsidered())
}
