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

// Package pebblesink is a persistent outputhandler.IoSink backed by Pebble,
// a reference implementation of durable watermark storage (the original's
// Postgres/RocksDB-backed VmRunnerStorage), without reproducing that
// storage layer's full batch-discovery responsibilities, which are
// explicitly out of scope here.
package pebblesink

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/matter-labs/vm-runner/outputhandler"
)

var (
	keyCurrent        = []byte("vmrunner/current")
	keyLastConsidered = []byte("vmrunner/last_considered")
)

// Sink is a pebble-backed outputhandler.IoSink. The zero value is not
// usable; construct one with Open.
type Sink struct {
	mu sync.Mutex
	db *pebble.DB
}

// Open opens (creating if necessary) a Pebble database at dir and wraps it
// as a Sink. If the database has no recorded watermark, Current starts at
// initial and LastConsidered at initial as well.
func Open(dir string, initial outputhandler.BatchNumber) (*Sink, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebblesink: opening %q: %w", dir, err)
	}
	s := &Sink{db: db}

	if _, err := s.readOrInit(keyCurrent, initial); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := s.readOrInit(keyLastConsidered, initial); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying Pebble database.
func (s *Sink) Close() error {
	return s.db.Close()
}

func (s *Sink) readOrInit(key []byte, initial outputhandler.BatchNumber) (outputhandler.BatchNumber, error) {
	v, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		if err := s.put(key, initial); err != nil {
			return 0, err
		}
		return initial, nil
	}
	if err != nil {
		return 0, fmt.Errorf("pebblesink: reading %q: %w", key, err)
	}
	n := decode(v)
	if cerr := closer.Close(); cerr != nil {
		return 0, fmt.Errorf("pebblesink: closing reader for %q: %w", key, cerr)
	}
	return n, nil
}

func (s *Sink) put(key []byte, n outputhandler.BatchNumber) error {
	if err := s.db.Set(key, encode(n), pebble.Sync); err != nil {
		return fmt.Errorf("pebblesink: writing %q: %w", key, err)
	}
	return nil
}

func (s *Sink) get(key []byte) outputhandler.BatchNumber {
	v, closer, err := s.db.Get(key)
	if err != nil {
		// Only reachable if readOrInit's invariant (key always present
		// after Open) was violated, which would be a bug in this package.
		panic(fmt.Sprintf("pebblesink: missing key %q after Open: %v", key, err))
	}
	n := decode(v)
	closer.Close()
	return n
}

func encode(n outputhandler.BatchNumber) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(n))
	return b[:]
}

func decode(v []byte) outputhandler.BatchNumber {
	return outputhandler.BatchNumber(binary.BigEndian.Uint32(v))
}

// Current implements outputhandler.IoSink.
func (s *Sink) Current() outputhandler.BatchNumber {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(keyCurrent)
}

// LastConsidered implements outputhandler.IoSink.
func (s *Sink) LastConsidered() outputhandler.BatchNumber {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(keyLastConsidered)
}

// SetLastConsidered persistently records the highest batch number the
// caller has committed to eventually processing, mirroring
// memsink.Sink.SetLastConsidered.
func (s *Sink) SetLastConsidered(n outputhandler.BatchNumber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(keyLastConsidered, n)
}

// MarkProcessed implements outputhandler.IoSink.
func (s *Sink) MarkProcessed(n outputhandler.BatchNumber) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.get(keyCurrent)
	if n != current+1 {
		return fmt.Errorf("%w: MarkProcessed(%d) called with current watermark at %d", outputhandler.ErrNonConsecutiveAdvance, n, current)
	}
	return s.put(keyCurrent, n)
}
