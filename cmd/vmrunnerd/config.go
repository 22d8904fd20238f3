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

package main

import (
	"fmt"
	"os"

	"github.com/naoina/toml"
)

// Config is vmrunnerd's TOML configuration file, paired with naoina/toml
// the way go-ethereum's cmd/geth pairs its own Config struct with the same
// library.
type Config struct {
	// Demo runs against an in-memory IoSink instead of the pebble-backed
	// one, for smoke-testing the scheduler without any real storage.
	Demo bool

	// PebbleDir is the directory for the persistent IoSink. Ignored if
	// Demo is true.
	PebbleDir string

	// StatusAddr, if non-empty, serves the websocket status push on this
	// address (e.g. ":8546").
	StatusAddr string

	// MetricsAddr, if non-empty, serves Prometheus metrics on this
	// address (e.g. ":6060").
	MetricsAddr string

	// Prefetchers and Processors size the executor's worker pool.
	Prefetchers int
	Processors  int
}

func defaultConfig() Config {
	return Config{
		PebbleDir:   "vmrunnerd-data",
		Prefetchers: 4,
		Processors:  4,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("opening config file %q: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return cfg, nil
}
