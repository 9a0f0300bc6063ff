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

func (mc *Machine) setFlag(flag uint8, set bool) {
	if set {
		mc.State.CC |= flag
	} else {
		mc.State.CC &^= flag
	}
}

func (mc *Machine) setNZ8(value uint8) {
	mc.setFlag(FLAG_NEG, value&0x80 != 0)
	mc.setFlag(FLAG_ZERO, value == 0)
}

func (mc *Machine) setNZ16(value uint16) {
	mc.setFlag(FLAG_NEG, value&0x8000 != 0)
	mc.setFlag(FLAG_ZERO, value == 0)
}

// logic8 sets N and Z from value and clears V.
func (mc *Machine) logic8(value uint8) uint8 {
	mc.setNZ8(value)
	mc.setFlag(FLAG_OVERFLOW, false)
	return value
}

func (mc *Machine) load16(value uint16) uint16 {
	mc.setNZ16(value)
	mc.setFlag(FLAG_OVERFLOW, false)
	return value
}

func (mc *Machine) add8(a, b, carry uint8) uint8 {
	sum := uint16(a) + uint16(b) + uint16(carry)
	result := uint8(sum)

	mc.setFlag(FLAG_HALF, (a&0x0F)+(b&0x0F)+carry > 0x0F)
	mc.setFlag(FLAG_OVERFLOW, ^(a^b)&(a^result)&0x80 != 0)
	mc.setFlag(FLAG_CARRY, sum > 0xFF)
	mc.setNZ8(result)

	return result
}

func (mc *Machine) sub8(a, b, borrow uint8) uint8 {
	diff := int(a) - int(b) - int(borrow)
	result := uint8(diff)

	mc.setFlag(FLAG_OVERFLOW, (a^b)&(a^result)&0x80 != 0)
	mc.setFlag(FLAG_CARRY, diff < 0)
	mc.setNZ8(result)

	return result
}

func (mc *Machine) add16(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	result := uint16(sum)

	mc.setFlag(FLAG_OVERFLOW, ^(a^b)&(a^result)&0x8000 != 0)
	mc.setFlag(FLAG_CARRY, sum > 0xFFFF)
	mc.setNZ16(result)

	return result
}

func (mc *Machine) sub16(a, b uint16) uint16 {
	diff := int(a) - int(b)
	result := uint16(diff)

	mc.setFlag(FLAG_OVERFLOW, (a^b)&(a^result)&0x8000 != 0)
	mc.setFlag(FLAG_CARRY, diff < 0)
	mc.setNZ16(result)

	return result
}

// alter applies a read-modify-write operation, reporting whether the result
// is stored back.
func (mc *Machine) alter(kind uint8, value uint8) (uint8, bool) {
	carry := mc.State.CC & FLAG_CARRY
	var result uint8

	switch kind {
	case RMW_NEG:
		result = mc.sub8(0, value, 0)

	case RMW_COM:
		result = mc.logic8(^value)
		mc.setFlag(FLAG_CARRY, true)

	case RMW_LSR:
		result = value >> 1
		mc.setFlag(FLAG_CARRY, value&0x01 != 0)
		mc.setNZ8(result)

	case RMW_ROR:
		result = value>>1 | carry<<7
		mc.setFlag(FLAG_CARRY, value&0x01 != 0)
		mc.setNZ8(result)

	case RMW_ASR:
		result = value>>1 | value&0x80
		mc.setFlag(FLAG_CARRY, value&0x01 != 0)
		mc.setNZ8(result)

	case RMW_ASL:
		result = value << 1
		mc.setFlag(FLAG_CARRY, value&0x80 != 0)
		mc.setFlag(FLAG_OVERFLOW, (value^value<<1)&0x80 != 0)
		mc.setNZ8(result)

	case RMW_ROL:
		result = value<<1 | carry
		mc.setFlag(FLAG_CARRY, value&0x80 != 0)
		mc.setFlag(FLAG_OVERFLOW, (value^value<<1)&0x80 != 0)
		mc.setNZ8(result)

	case RMW_DEC:
		result = value - 1
		mc.setFlag(FLAG_OVERFLOW, value == 0x80)
		mc.setNZ8(result)

	case RMW_INC:
		result = value + 1
		mc.setFlag(FLAG_OVERFLOW, value == 0x7F)
		mc.setNZ8(result)

	case RMW_TST:
		mc.logic8(value)
		return value, false

	case RMW_CLR:
		result = mc.logic8(0)
		mc.setFlag(FLAG_CARRY, false)
	}

	return result, true
}
