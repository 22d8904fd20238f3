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

// Package pubdata carries the data-availability mode that accompanies a
// batch's Updates, reproduced as a fixed-code mapping from the original
// PubdataDA enum rather than re-derived.
package pubdata

import (
	"encoding/json"
	"fmt"
)

// Mode identifies which data-availability layer a batch's pubdata was, or
// will be, published to. The numeric codes match the original enum's
// #[repr(u8)] discriminants exactly and must not be reordered.
type Mode uint8

const (
	Calldata Mode = iota
	Blobs
	NoDA
	GCS
	Celestia
	EigenDA
	Avail
)

var modeNames = [...]string{
	Calldata: "Calldata",
	Blobs:    "Blobs",
	NoDA:     "NoDA",
	GCS:      "GCS",
	Celestia: "Celestia",
	EigenDA:  "EigenDA",
	Avail:    "Avail",
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// MarshalJSON implements json.Marshaler, encoding m as its name rather than
// its bare numeric code.
func (m Mode) MarshalJSON() ([]byte, error) {
	if int(m) >= len(modeNames) {
		return nil, fmt.Errorf("pubdata: invalid Mode %d", uint8(m))
	}
	return json.Marshal(modeNames[m])
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for code, n := range modeNames {
		if n == name {
			*m = Mode(code)
			return nil
		}
	}
	return fmt.Errorf("pubdata: unknown Mode name %q", name)
}

// SendingMode is the upstream configuration value that selects which DA
// layer a batch's pubdata is sent to. It mirrors the original
// PubdataSendingMode enum's variant set one-to-one.
type SendingMode uint8

const (
	SendingCalldata SendingMode = iota
	SendingBlobs
	SendingNoDA
	SendingGCS
	SendingCelestia
	SendingEigenDA
	SendingAvail
)

// FromSendingMode converts a configured SendingMode into the Mode recorded
// against a batch, mirroring the original's `impl From<PubdataSendingMode>
// for PubdataDA`: a direct one-to-one mapping with no lossy cases.
func FromSendingMode(s SendingMode) Mode {
	switch s {
	case SendingCalldata:
		return Calldata
	case SendingBlobs:
		return Blobs
	case SendingNoDA:
		return NoDA
	case SendingGCS:
		return GCS
	case SendingCelestia:
		return Celestia
	case SendingEigenDA:
		return EigenDA
	case SendingAvail:
		return Avail
	default:
		panic(fmt.Sprintf("pubdata: unhandled SendingMode %d", uint8(s)))
	}
}
