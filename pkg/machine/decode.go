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
	"github.com/lassandro/go6809/pkg/encoding"
	"github.com/lassandro/go6809/pkg/m6809"
)

func (mc *Machine) page1(op uint8) {
	st := &mc.State

	switch {
	// NEG..CLR |0000|op  | direct
	//          |0100|op  | A
	//          |0101|op  | B
	//          |0110|op  | indexed
	//          |0111|op  | extended
	case op < 0x10 || (op >= 0x40 && op < 0x80):
		mc.modify(op)
		return

	// Bcc      |0010|cond| offset8
	case op >= 0x20 && op < 0x30:
		offset := encoding.SignExtend(uint16(mc.fetch8()), 8)

		if mc.condition(op & 0x0F) {
			st.PC += offset
		}
		return

	case op >= 0x80:
		mc.arithmetic(op)
		return
	}

	switch op {
	case OP_NOP:

	case OP_LBRA:
		offset := mc.fetch16()
		st.PC += offset

	case OP_LBSR:
		offset := mc.fetch16()
		mc.push16(&st.S, st.PC)
		st.PC += offset

	case OP_ORCC:
		st.CC |= mc.fetch8()

	case OP_ANDCC:
		st.CC &= mc.fetch8()

	case OP_SEX:
		if st.B&0x80 != 0 {
			st.A = 0xFF
		} else {
			st.A = 0x00
		}
		mc.setNZ16(st.D())

	case OP_EXG:
		pair := mc.fetch8()
		src, dst := pair>>4, pair&0x0F
		a, b := mc.register(src), mc.register(dst)
		mc.setRegister(src, b)
		mc.setRegister(dst, a)

	case OP_TFR:
		pair := mc.fetch8()
		mc.setRegister(pair&0x0F, mc.register(pair>>4))

	case OP_LEAX:
		st.X = mc.indexed()
		mc.setFlag(FLAG_ZERO, st.X == 0)

	case OP_LEAY:
		st.Y = mc.indexed()
		mc.setFlag(FLAG_ZERO, st.Y == 0)

	case OP_LEAS:
		st.S = mc.indexed()

	case OP_LEAU:
		st.U = mc.indexed()

	case OP_PSHS:
		mask := mc.fetch8()
		mc.pushRegisters(&st.S, st.U, mask)

	case OP_PULS:
		mask := mc.fetch8()
		mc.pullRegisters(&st.S, &st.U, mask)

	case OP_PSHU:
		mask := mc.fetch8()
		mc.pushRegisters(&st.U, st.S, mask)

	case OP_PULU:
		mask := mc.fetch8()
		mc.pullRegisters(&st.U, &st.S, mask)

	case OP_RTS:
		st.PC = mc.pull16(&st.S)

	case OP_ABX:
		st.X += uint16(st.B)

	case OP_RTI:
		mc.returnFromInterrupt()

	case OP_MUL:
		st.SetD(uint16(st.A) * uint16(st.B))
		mc.setFlag(FLAG_ZERO, st.D() == 0)
		mc.setFlag(FLAG_CARRY, st.B&0x80 != 0)

	case OP_SWI:
		mc.raiseException(m6809.VECTOR_SWI, FLAG_IRQ|FLAG_FIRQ)

	default:
		mc.illegal()
	}
}

func (mc *Machine) page2(op uint8) {
	st := &mc.State

	// LBcc     |0001 0000|0010|cond| offset16
	if op > 0x20 && op < 0x30 {
		offset := mc.fetch16()

		if mc.condition(op & 0x0F) {
			st.PC += offset
		}
		return
	}

	if op == OP_SWI2 {
		mc.raiseException(m6809.VECTOR_SWI2, 0)
		return
	}

	if op < 0x80 {
		mc.illegal()
		return
	}

	mode := (op >> 4) & 0x3

	switch op & 0xCF {
	case 0x83: // CMPD
		mc.sub16(st.D(), mc.operand16(mode))
	case 0x8C: // CMPY
		mc.sub16(st.Y, mc.operand16(mode))
	case 0x8E: // LDY
		st.Y = mc.load16(mc.operand16(mode))
	case 0x8F: // STY
		mc.store16(mode, st.Y)
	case 0xCE: // LDS
		st.S = mc.load16(mc.operand16(mode))
	case 0xCF: // STS
		mc.store16(mode, st.S)
	default:
		mc.illegal()
	}
}

func (mc *Machine) page3(op uint8) {
	st := &mc.State

	switch op {
	case OP_SWI3:
		mc.raiseException(m6809.VECTOR_SWI3, 0)
		return
	case OP_LDMD:
		st.MD = st.MD&^MD_WRITABLE | mc.fetch8()&MD_WRITABLE
		return
	}

	if op < 0x80 {
		mc.illegal()
		return
	}

	mode := (op >> 4) & 0x3

	switch op & 0xCF {
	case 0x83: // CMPU
		mc.sub16(st.U, mc.operand16(mode))
	case 0x8C: // CMPS
		mc.sub16(st.S, mc.operand16(mode))
	default:
		mc.illegal()
	}
}

// modify executes the read-modify-write group on an accumulator or memory.
func (mc *Machine) modify(op uint8) {
	st := &mc.State
	kind := op & 0x0F
	target := op >> 4

	switch kind {
	case 0x1, 0x2, 0x5, 0xB:
		mc.illegal()
		return
	case RMW_JMP:
		if target == 0x4 || target == 0x5 {
			mc.illegal()
			return
		}
	}

	var addr uint16
	var value uint8

	switch target {
	case 0x4:
		value = st.A
	case 0x5:
		value = st.B
	case 0x0:
		addr = mc.address(ADDR_DIRECT)
	case 0x6:
		addr = mc.address(ADDR_INDEXED)
	case 0x7:
		addr = mc.address(ADDR_EXTENDED)
	}

	if kind == RMW_JMP {
		st.PC = addr
		return
	}

	if target != 0x4 && target != 0x5 {
		value = mc.read(addr)
	}

	result, store := mc.alter(kind, value)

	if !store {
		return
	}

	switch target {
	case 0x4:
		st.A = result
	case 0x5:
		st.B = result
	default:
		mc.write(addr, result)
	}
}

// arithmetic executes opcodes 0x80-0xFF. Bit 6 selects accumulator A or B,
// bits 4-5 the addressing mode and the low nibble the operation.
func (mc *Machine) arithmetic(op uint8) {
	st := &mc.State
	mode := (op >> 4) & 0x3
	acc := &st.A

	if op&0x40 != 0 {
		acc = &st.B
	}

	switch op & 0x0F {
	case 0x0: // SUB
		*acc = mc.sub8(*acc, mc.operand8(mode), 0)
	case 0x1: // CMP
		mc.sub8(*acc, mc.operand8(mode), 0)
	case 0x2: // SBC
		*acc = mc.sub8(*acc, mc.operand8(mode), st.CC&FLAG_CARRY)
	case 0x4: // AND
		*acc = mc.logic8(*acc & mc.operand8(mode))
	case 0x5: // BIT
		mc.logic8(*acc & mc.operand8(mode))
	case 0x6: // LD
		*acc = mc.logic8(mc.operand8(mode))
	case 0x7: // ST
		mc.store8(mode, *acc)
	case 0x8: // EOR
		*acc = mc.logic8(*acc ^ mc.operand8(mode))
	case 0x9: // ADC
		*acc = mc.add8(*acc, mc.operand8(mode), st.CC&FLAG_CARRY)
	case 0xA: // OR
		*acc = mc.logic8(*acc | mc.operand8(mode))
	case 0xB: // ADD
		*acc = mc.add8(*acc, mc.operand8(mode), 0)
	default:
		if op&0x40 == 0 {
			mc.arithmeticX(op, mode)
		} else {
			mc.arithmeticD(op, mode)
		}
	}
}

// 16-bit operations in the A column
func (mc *Machine) arithmeticX(op uint8, mode uint8) {
	st := &mc.State

	switch op & 0x0F {
	case 0x3: // SUBD
		st.SetD(mc.sub16(st.D(), mc.operand16(mode)))
	case 0xC: // CMPX
		mc.sub16(st.X, mc.operand16(mode))
	case 0xD: // BSR, JSR
		if mode == ADDR_IMMEDIATE {
			offset := encoding.SignExtend(uint16(mc.fetch8()), 8)
			mc.push16(&st.S, st.PC)
			st.PC += offset
		} else {
			addr := mc.address(mode)
			mc.push16(&st.S, st.PC)
			st.PC = addr
		}
	case 0xE: // LDX
		st.X = mc.load16(mc.operand16(mode))
	case 0xF: // STX
		mc.store16(mode, st.X)
	}
}

// 16-bit operations in the B column
func (mc *Machine) arithmeticD(op uint8, mode uint8) {
	st := &mc.State

	switch op & 0x0F {
	case 0x3: // ADDD
		st.SetD(mc.add16(st.D(), mc.operand16(mode)))
	case 0xC: // LDD
		st.SetD(mc.load16(mc.operand16(mode)))
	case 0xD: // STD
		mc.store16(mode, st.D())
	case 0xE: // LDU
		st.U = mc.load16(mc.operand16(mode))
	case 0xF: // STU
		mc.store16(mode, st.U)
	}
}

func (mc *Machine) condition(cond uint8) bool {
	cc := mc.State.CC
	c := cc&FLAG_CARRY != 0
	v := cc&FLAG_OVERFLOW != 0
	z := cc&FLAG_ZERO != 0
	n := cc&FLAG_NEG != 0

	switch cond {
	case 0x0: // BRA
		return true
	case 0x1: // BRN
		return false
	case 0x2: // BHI
		return !c && !z
	case 0x3: // BLS
		return c || z
	case 0x4: // BCC
		return !c
	case 0x5: // BCS
		return c
	case 0x6: // BNE
		return !z
	case 0x7: // BEQ
		return z
	case 0x8: // BVC
		return !v
	case 0x9: // BVS
		return v
	case 0xA: // BPL
		return !n
	case 0xB: // BMI
		return n
	case 0xC: // BGE
		return n == v
	case 0xD: // BLT
		return n != v
	case 0xE: // BGT
		return !z && n == v
	}

	// BLE
	return z || n != v
}

func (mc *Machine) address(mode uint8) uint16 {
	switch mode {
	case ADDR_DIRECT:
		return uint16(mc.State.DP)<<8 | uint16(mc.fetch8())
	case ADDR_INDEXED:
		return mc.indexed()
	}

	return mc.fetch16()
}

func (mc *Machine) operand8(mode uint8) uint8 {
	if mode == ADDR_IMMEDIATE {
		return mc.fetch8()
	}

	return mc.read(mc.address(mode))
}

func (mc *Machine) operand16(mode uint8) uint16 {
	if mode == ADDR_IMMEDIATE {
		return mc.fetch16()
	}

	return mc.read16(mc.address(mode))
}

func (mc *Machine) store8(mode uint8, value uint8) {
	if mode == ADDR_IMMEDIATE {
		mc.illegal()
		return
	}

	mc.write(mc.address(mode), mc.logic8(value))
}

func (mc *Machine) store16(mode uint8, value uint16) {
	if mode == ADDR_IMMEDIATE {
		mc.illegal()
		return
	}

	mc.write16(mc.address(mode), mc.load16(value))
}

// indexed decodes an indexed-mode postbyte and returns the effective address.
//
//	0RRnnnnn   n5,R       1RR00110   A,R
//	1RRi0000   ,R+        1RRi1000   n8,R
//	1RRi0001   ,R++       1RRi1001   n16,R
//	1RRi0010   ,-R        1RRi1011   D,R
//	1RRi0011   ,--R       1xxi1100   n8,PC
//	1RRi0100   ,R         1xxi1101   n16,PC
//	1RRi0101   B,R        10011111   [n16]
func (mc *Machine) indexed() uint16 {
	st := &mc.State
	postbyte := mc.fetch8()

	var reg *uint16

	switch (postbyte >> 5) & 0x3 {
	case 0:
		reg = &st.X
	case 1:
		reg = &st.Y
	case 2:
		reg = &st.U
	default:
		reg = &st.S
	}

	if postbyte&0x80 == 0 {
		return *reg + encoding.SignExtend(uint16(postbyte&0x1F), 5)
	}

	var addr uint16

	switch postbyte & 0x0F {
	case 0x0:
		addr = *reg
		*reg++
	case 0x1:
		addr = *reg
		*reg += 2
	case 0x2:
		*reg--
		addr = *reg
	case 0x3:
		*reg -= 2
		addr = *reg
	case 0x5:
		addr = *reg + encoding.SignExtend(uint16(st.B), 8)
	case 0x6:
		addr = *reg + encoding.SignExtend(uint16(st.A), 8)
	case 0x8:
		addr = *reg + encoding.SignExtend(uint16(mc.fetch8()), 8)
	case 0x9:
		addr = *reg + mc.fetch16()
	case 0xB:
		addr = *reg + st.D()
	case 0xC:
		offset := encoding.SignExtend(uint16(mc.fetch8()), 8)
		addr = st.PC + offset
	case 0xD:
		offset := mc.fetch16()
		addr = st.PC + offset
	case 0xF:
		addr = mc.fetch16()
	default:
		addr = *reg
	}

	if postbyte&0x10 != 0 {
		addr = mc.read16(addr)
	}

	return addr
}

// register returns a TFR/EXG register; 8-bit registers read as $FFxx.
func (mc *Machine) register(code uint8) uint16 {
	st := &mc.State

	switch code {
	case 0x0:
		return st.D()
	case 0x1:
		return st.X
	case 0x2:
		return st.Y
	case 0x3:
		return st.U
	case 0x4:
		return st.S
	case 0x5:
		return st.PC
	case 0x8:
		return 0xFF00 | uint16(st.A)
	case 0x9:
		return 0xFF00 | uint16(st.B)
	case 0xA:
		return 0xFF00 | uint16(st.CC)
	case 0xB:
		return 0xFF00 | uint16(st.DP)
	}

	return 0xFFFF
}

func (mc *Machine) setRegister(code uint8, value uint16) {
	st := &mc.State

	switch code {
	case 0x0:
		st.SetD(value)
	case 0x1:
		st.X = value
	case 0x2:
		st.Y = value
	case 0x3:
		st.U = value
	case 0x4:
		st.S = value
	case 0x5:
		st.PC = value
	case 0x8:
		st.A = uint8(value)
	case 0x9:
		st.B = uint8(value)
	case 0xA:
		st.CC = uint8(value)
	case 0xB:
		st.DP = uint8(value)
	}
}
