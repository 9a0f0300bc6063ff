// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package encoding

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/lassandro/go6809/pkg/assembler"
)

const SRECORD_DATA_SIZE = 16

// The count byte covers the address, data and checksum
const SRECORD_MAX_DATA = 0xFF - 3

// WriteBinary writes the span from the first region to the end of the last
// as a flat image, filling gaps between regions. It returns the load
// address of the first byte written.
func WriteBinary(w io.Writer, regions []assembler.Region, fill byte) (uint16, error) {
	if len(regions) == 0 {
		return 0, nil
	}

	start := int(regions[0].Start)
	end := regions[len(regions)-1].End()

	buffer := make([]byte, end-start)

	for i := range buffer {
		buffer[i] = fill
	}

	for _, region := range regions {
		copy(buffer[int(region.Start)-start:], region.Data)
	}

	_, err := w.Write(buffer)

	return uint16(start), err
}

// WriteSRecord writes the regions as Motorola S19 records: an S0 header, S1
// data records, an S5 record count and an S9 entry point.
func WriteSRecord(w io.Writer, regions []assembler.Region, header string, entry uint16) error {
	bw := bufio.NewWriter(w)
	count := 0

	if len(header) > SRECORD_MAX_DATA {
		header = header[:SRECORD_MAX_DATA]
	}

	writeRecord(bw, '0', 0, []byte(header))

	for _, region := range regions {
		for offset := 0; offset < len(region.Data); offset += SRECORD_DATA_SIZE {
			end := offset + SRECORD_DATA_SIZE

			if end > len(region.Data) {
				end = len(region.Data)
			}

			writeRecord(
				bw, '1', region.Start+uint16(offset), region.Data[offset:end],
			)

			count++
		}
	}

	if count <= 0xFFFF {
		writeRecord(bw, '5', uint16(count), nil)
	}

	writeRecord(bw, '9', entry, nil)

	return bw.Flush()
}

func writeRecord(w *bufio.Writer, kind byte, addr uint16, data []byte) {
	length := byte(len(data) + 3)
	sum := length + byte(addr>>8) + byte(addr)

	for _, b := range data {
		sum += b
	}

	fmt.Fprintf(
		w, "S%c%02X%04X%s%02X\n",
		kind, length, addr, strings.ToUpper(hex.EncodeToString(data)), ^sum,
	)
}

type SRecordError struct {
	Line   int
	Reason string
}

func (err *SRecordError) Error() string {
	return fmt.Sprintf("line %d: %s", err.Line, err.Reason)
}

// ReadSRecord parses S19 records into an image, returning it together with
// the S9 entry point.
func ReadSRecord(r io.Reader) (*assembler.Image, uint16, error) {
	image := assembler.NewImage()
	scanner := bufio.NewScanner(r)
	entry := uint16(0)

	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())

		if text == "" {
			continue
		}

		if len(text) < 4 || text[0] != 'S' {
			return nil, 0, &SRecordError{line, "missing record type"}
		}

		raw, err := hex.DecodeString(text[2:])

		if err != nil {
			return nil, 0, &SRecordError{line, err.Error()}
		}

		if len(raw) < 4 || int(raw[0]) != len(raw)-1 {
			return nil, 0, &SRecordError{line, "length mismatch"}
		}

		var sum byte

		for _, b := range raw[:len(raw)-1] {
			sum += b
		}

		if ^sum != raw[len(raw)-1] {
			return nil, 0, &SRecordError{line, "checksum mismatch"}
		}

		addr := uint16(raw[1])<<8 | uint16(raw[2])
		data := raw[3 : len(raw)-1]

		switch text[1] {
		case '0', '5':
		case '1':
			pos := assembler.Position{Index: line}

			if err := image.Write(pos, addr, data); err != nil {
				return nil, 0, &SRecordError{line, err.Error()}
			}
		case '9':
			entry = addr
		default:
			return nil, 0, &SRecordError{
				line, fmt.Sprintf("unsupported record type S%c", text[1]),
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}

	return image, entry, nil
}
