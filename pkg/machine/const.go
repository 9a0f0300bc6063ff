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

// Condition code register
const (
	FLAG_CARRY    uint8 = 1 << 0
	FLAG_OVERFLOW uint8 = 1 << 1
	FLAG_ZERO     uint8 = 1 << 2
	FLAG_NEG      uint8 = 1 << 3
	FLAG_IRQ      uint8 = 1 << 4
	FLAG_HALF     uint8 = 1 << 5
	FLAG_FIRQ     uint8 = 1 << 6
	FLAG_ENTIRE   uint8 = 1 << 7
)

// 6309 mode register
const (
	MD_NATIVE  uint8 = 1 << 0
	MD_FIRQ    uint8 = 1 << 1
	MD_ILLEGAL uint8 = 1 << 6
	MD_DIVZERO uint8 = 1 << 7

	MD_WRITABLE = MD_NATIVE | MD_FIRQ
)

// 6850 ACIA
const (
	ACIA_DEFAULT_BASE uint16 = 0xA000

	ACIA_CR_MASTER_RESET uint8 = 0b00000011
	ACIA_CR_RIE          uint8 = 1 << 7

	ACIA_SR_RDRF uint8 = 1 << 0
	ACIA_SR_TDRE uint8 = 1 << 1
	ACIA_SR_IRQ  uint8 = 1 << 7
)

const (
	OP_PAGE2 uint8 = 0x10
	OP_PAGE3 uint8 = 0x11

	OP_NOP   uint8 = 0x12
	OP_LBRA  uint8 = 0x16
	OP_LBSR  uint8 = 0x17
	OP_ORCC  uint8 = 0x1A
	OP_ANDCC uint8 = 0x1C
	OP_SEX   uint8 = 0x1D
	OP_EXG   uint8 = 0x1E
	OP_TFR   uint8 = 0x1F
	OP_LEAX  uint8 = 0x30
	OP_LEAY  uint8 = 0x31
	OP_LEAS  uint8 = 0x32
	OP_LEAU  uint8 = 0x33
	OP_PSHS  uint8 = 0x34
	OP_PULS  uint8 = 0x35
	OP_PSHU  uint8 = 0x36
	OP_PULU  uint8 = 0x37
	OP_RTS   uint8 = 0x39
	OP_ABX   uint8 = 0x3A
	OP_RTI   uint8 = 0x3B
	OP_MUL   uint8 = 0x3D
	OP_SWI   uint8 = 0x3F

	// Page 2 and 3 second bytes
	OP_SWI2 uint8 = 0x3F
	OP_SWI3 uint8 = 0x3F
	OP_LDMD uint8 = 0x3D
)

// Read-modify-write operations, by low opcode nibble
const (
	RMW_NEG uint8 = 0x0
	RMW_COM uint8 = 0x3
	RMW_LSR uint8 = 0x4
	RMW_ROR uint8 = 0x6
	RMW_ASR uint8 = 0x7
	RMW_ASL uint8 = 0x8
	RMW_ROL uint8 = 0x9
	RMW_DEC uint8 = 0xA
	RMW_INC uint8 = 0xC
	RMW_TST uint8 = 0xD
	RMW_JMP uint8 = 0xE
	RMW_CLR uint8 = 0xF
)

// Operand addressing, by bits 4-5 of opcodes 0x80-0xFF
const (
	ADDR_IMMEDIATE uint8 = 0
	ADDR_DIRECT    uint8 = 1
	ADDR_INDEXED   uint8 = 2
	ADDR_EXTENDED  uint8 = 3
)

// PSH/PUL postbyte
const (
	STACK_CC uint8 = 1 << 0
	STACK_A  uint8 = 1 << 1
	STACK_B  uint8 = 1 << 2
	STACK_DP uint8 = 1 << 3
	STACK_X  uint8 = 1 << 4
	STACK_Y  uint8 = 1 << 5
	STACK_US uint8 = 1 << 6
	STACK_PC uint8 = 1 << 7

	STACK_ENTIRE uint8 = 0xFF
)
