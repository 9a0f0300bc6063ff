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

package machine

import (
	"io"
)

// ACIA is a 6850 serial interface mapped at Base (control/status) and
// Base+1 (transmit/receive data). Received bytes arrive on Receive and are
// latched one at a time; transmitted bytes are written to Transmit as soon
// as they are stored, so the transmitter is always empty.
type ACIA struct {
	Base     uint16
	Receive  <-chan byte
	Transmit io.Writer

	control uint8
	data    uint8
	full    bool
	err     error
}

// NewACIA returns an ACIA held in master reset, as it is after power-on.
func NewACIA(base uint16, receive <-chan byte, transmit io.Writer) *ACIA {
	return &ACIA{
		Base:     base,
		Receive:  receive,
		Transmit: transmit,
		control:  ACIA_CR_MASTER_RESET,
	}
}

func (acia *ACIA) Maps(addr uint16) bool {
	return addr == acia.Base || addr == acia.Base+1
}

// Err returns the first error from Transmit; later output is dropped.
func (acia *ACIA) Err() error {
	return acia.err
}

func (acia *ACIA) inReset() bool {
	return acia.control&ACIA_CR_MASTER_RESET == ACIA_CR_MASTER_RESET
}

func (acia *ACIA) poll() {
	if acia.full || acia.Receive == nil || acia.inReset() {
		return
	}

	select {
	case value, ok := <-acia.Receive:
		if ok {
			acia.data = value
			acia.full = true
		}
	default:
	}
}

// Pending reports whether the receiver is requesting an interrupt.
func (acia *ACIA) Pending() bool {
	acia.poll()
	return acia.full && acia.control&ACIA_CR_RIE != 0 && !acia.inReset()
}

func (acia *ACIA) Status() uint8 {
	if acia.inReset() {
		return 0
	}

	status := ACIA_SR_TDRE

	if acia.Pending() {
		status |= ACIA_SR_IRQ
	}

	if acia.full {
		status |= ACIA_SR_RDRF
	}

	return status
}

func (acia *ACIA) read(addr uint16) uint8 {
	if addr == acia.Base {
		return acia.Status()
	}

	acia.poll()
	acia.full = false

	return acia.data
}

func (acia *ACIA) write(addr uint16, value uint8) {
	if addr == acia.Base {
		acia.control = value

		if acia.inReset() {
			acia.full = false
		}

		return
	}

	if acia.inReset() || acia.Transmit == nil || acia.err != nil {
		return
	}

	_, acia.err = acia.Transmit.Write([]byte{value})
}
