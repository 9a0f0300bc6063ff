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

// Package bootmon builds the serial boot monitor ROM: it resets a 6850 ACIA,
// selects 7E1 at a /64 clock divide and transmits a continuous stream of one
// character.
package bootmon

import (
	"github.com/lassandro/go6809/pkg/assembler"
	"github.com/lassandro/go6809/pkg/m6809"
)

const (
	ROM_BASE = 0xC000

	// The 6809 stack pointer addresses the last occupied byte, so the stack
	// base is one past the top of the stack page.
	STACK_PAGE = 0x01
	STACK_BASE = STACK_PAGE<<8 + 0x100

	ACIA_BASE = 0xA000

	ACIA_MASTER_RESET = 0b00000011
	ACIA_MODE_7E1_64  = 0b00001010
	ACIA_TDRE         = 0b00000010
	MODE_NATIVE_6309  = 0b00000001

	// Vector slots with no handler of their own
	UNUSED_VECTOR = ROM_BASE
)

type Config struct {
	ACIA      uint16
	StackBase uint16
	Char      byte

	// Runs once after a successful assembly, at the address following the
	// transmit loop
	Diagnose assembler.DiagnosticFunc
}

func DefaultConfig() Config {
	return Config{
		ACIA:      ACIA_BASE,
		StackBase: STACK_BASE,
		Char:      'h',
	}
}

func New(config Config) *assembler.Program {
	p := assembler.NewProgram(m6809.Set())

	control := assembler.Literal(config.ACIA)
	status := assembler.Literal(config.ACIA)
	data := assembler.Literal(config.ACIA + 1)

	aciaReset := p.Label("ACIA_RESET")
	aciaMode := p.Label("ACIA_MODE")
	reset := p.Label("RESET")
	send := p.Label("SEND")
	waitr := p.Label("WAITR")
	end := p.Label("END")
	irq := p.Label("IRQ")
	trap := p.Label("TRAP")

	p.Org(ROM_BASE, assembler.Comment("Bottom of the top 16K ROM"))

	p.Emit(
		m6809.LDA, assembler.Imm(assembler.Literal(ACIA_MASTER_RESET)),
		assembler.Labels(aciaReset), assembler.Comment("Master reset ACIA"),
	)
	p.Emit(m6809.STA, assembler.Ext(control))
	p.Emit(m6809.RTS, nil)

	p.Emit(
		m6809.LDA, assembler.Imm(assembler.Literal(ACIA_MODE_7E1_64)),
		assembler.Labels(aciaMode), assembler.Comment("7E1, divide by 64"),
	)
	p.Emit(m6809.STA, assembler.Ext(control))
	p.Emit(m6809.RTS, nil)

	p.Emit(
		m6809.LDMD, assembler.Imm(assembler.Literal(MODE_NATIVE_6309)),
		assembler.Labels(reset), assembler.Comment("Enter native 6309 mode"),
	)
	p.Emit(
		m6809.LDS, assembler.Imm(assembler.Literal(config.StackBase)),
		assembler.Comment("Set up system stack"),
	)
	p.Emit(m6809.NOP, nil)
	p.Emit(m6809.JSR, assembler.Ext(aciaReset))
	p.Emit(m6809.JSR, assembler.Ext(aciaMode))

	p.Emit(
		m6809.LDA, assembler.Imm(assembler.Literal(ACIA_TDRE)),
		assembler.Labels(send), assembler.Comment("Transmitter empty flag"),
	)
	p.Emit(m6809.BITA, assembler.Ext(status), assembler.Labels(waitr))
	p.Emit(
		m6809.BEQ, assembler.Rel(waitr),
		assembler.Comment("Wait until the transmitter is empty"),
	)
	p.Emit(m6809.LDA, assembler.Imm(assembler.Literal(config.Char)))
	p.Emit(
		m6809.STA, assembler.Ext(data), assembler.Comment("Transmit"),
	)
	p.Emit(m6809.JMP, assembler.Ext(send))
	p.Emit(m6809.JMP, assembler.Ext(reset), assembler.Labels(end))

	if config.Diagnose != nil {
		p.Diagnose(config.Diagnose)
	}

	p.Emit(m6809.RTI, nil, assembler.Labels(irq))
	p.Emit(m6809.JMP, assembler.Ext(reset), assembler.Labels(trap))

	m6809.Vectors{
		Trap:  trap,
		SWI3:  assembler.Literal(UNUSED_VECTOR),
		SWI2:  assembler.Literal(UNUSED_VECTOR),
		FIRQ:  assembler.Literal(UNUSED_VECTOR),
		IRQ:   irq,
		SWI:   assembler.Literal(UNUSED_VECTOR),
		NMI:   assembler.Literal(UNUSED_VECTOR),
		Reset: reset,
	}.Emit(p)

	return p
}
