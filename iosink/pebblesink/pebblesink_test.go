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

package pebblesink_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matter-labs/vm-runner/iosink/pebblesink"
	"github.com/matter-labs/vm-runner/outputhandler"
)

func openTestSink(t *testing.T) *pebblesink.Sink {
	t.Helper()
	s, err := pebblesink.Open(t.TempDir(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func TestPebbleSinkInitialWatermark(t *testing.T) {
	s := openTestSink(t)
	require.EqualValues(t, 0, s.Current())
	require.EqualValues(t, 0, s.LastConsidered())
}

func TestPebbleSinkMarkProcessedAdvancesSequentially(t *testing.T) {
	s := openTestSink(t)
	require.NoError(t, s.MarkProcessed(1))
	require.EqualValues(t, 1, s.Current())
	require.NoError(t, s.MarkProcessed(2))
	require.EqualValues(t, 2, s.Current())
}

func TestPebbleSinkMarkProcessedRejectsNonConsecutive(t *testing.T) {
	s := openTestSink(t)
	err := s.MarkProcessed(2)
	require.Error(t, err)
	require.True(t, errors.Is(err, outputhandler.ErrNonConsecutiveAdvance))
	require.EqualValues(t, 0, s.Current())
}

func TestPebbleSinkSetLastConsidered(t *testing.T) {
	s := openTestSink(t)
	require.NoError(t, s.SetLastConsidered(5))
	require.EqualValues(t, 5, s.LastConsidered())
}

func TestPebbleSinkPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := pebblesink.Open(dir, 0)
	require.NoError(t, err)
	require.NoError(t, s.MarkProcessed(1))
	require.NoError(t, s.SetLastConsidered(3))
	require.NoError(t, s.Close())

	reopened, err := pebblesink.Open(dir, 0)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, reopened.Close()) })

	require.EqualValues(t, 1, reopened.Current())
	require.EqualValues(t, 3, reopened.LastConsidered())
}
