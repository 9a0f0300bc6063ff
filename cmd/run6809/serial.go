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

package main

import (
	"fmt"

	"go.bug.st/serial"
)

// openPort opens a host serial line with the 6850's 7E1 framing.
func openPort(name string, baud int) (serial.Port, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 7,
		Parity:   serial.EvenParity,
		StopBits: serial.OneStopBit,
	})

	if err != nil {
		return nil, fmt.Errorf("run6809: failed to open %s: %w", name, err)
	}

	if err := port.SetDTR(true); err != nil {
		port.Close()
		return nil, fmt.Errorf("run6809: failed to set DTR on %s: %w", name, err)
	}

	return port, nil
}

// readPort feeds the ACIA receive channel until the port fails.
func readPort(port serial.Port, receive chan<- byte) {
	defer close(receive)

	buffer := make([]byte, 64)

	for {
		n, err := port.Read(buffer)

		for _, b := range buffer[:n] {
			receive <- b
		}

		if err != nil {
			return
		}
	}
}
