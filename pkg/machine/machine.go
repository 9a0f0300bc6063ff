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
	"errors"
	"io"

	"github.com/lassandro/go6809/pkg/assembler"
	"github.com/lassandro/go6809/pkg/m6809"
)

func (mc *MachineState) Reset() {
	*mc = MachineState{}

	// Interrupts are masked until the program unmasks them
	mc.CC = FLAG_IRQ | FLAG_FIRQ
}

func (mc *MachineState) D() uint16 {
	return uint16(mc.A)<<8 | uint16(mc.B)
}

func (mc *MachineState) SetD(value uint16) {
	mc.A = uint8(value >> 8)
	mc.B = uint8(value)
}

// Boot starts execution at the reset vector.
func (mc *Machine) Boot() {
	mc.State.DP = 0x00
	mc.State.MD = 0x00
	mc.State.CC = FLAG_IRQ | FLAG_FIRQ
	mc.State.PC = mc.peek16(m6809.VECTOR_RESET)
}

// LoadImage clears the machine, copies an assembled image into memory and
// boots it.
func (mc *Machine) LoadImage(image *assembler.Image) {
	mc.State.Reset()

	for _, region := range image.Regions() {
		copy(mc.State.Memory[region.Start:], region.Data)
	}

	mc.Boot()
}

// LoadBin clears the machine, copies a flat binary to base and boots it.
func (mc *Machine) LoadBin(reader io.Reader, base uint16) error {
	mc.State.Reset()

	n, err := io.ReadFull(reader, mc.State.Memory[base:])

	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}

	if n == len(mc.State.Memory)-int(base) {
		scratch := make([]byte, 1)

		if extra, _ := reader.Read(scratch); extra > 0 {
			return errors.New("Binary exceeds the address space")
		}
	}

	mc.Boot()

	return nil
}

func (mc *Machine) acia() *ACIA {
	if mc.Devices == nil {
		return nil
	}

	return mc.Devices.ACIA
}

func (mc *Machine) read(addr uint16) uint8 {
	var value uint8

	if acia := mc.acia(); acia != nil && acia.Maps(addr) {
		value = acia.read(addr)
	} else {
		value = mc.State.Memory[addr]
	}

	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return value
}

func (mc *Machine) write(addr uint16, value uint8) {
	if acia := mc.acia(); acia != nil && acia.Maps(addr) {
		acia.write(addr, value)
	} else {
		mc.State.Memory[addr] = value
	}

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}
}

func (mc *Machine) read16(addr uint16) uint16 {
	return uint16(mc.read(addr))<<8 | uint16(mc.read(addr+1))
}

func (mc *Machine) write16(addr uint16, value uint16) {
	mc.write(addr, uint8(value>>8))
	mc.write(addr+1, uint8(value))
}

// peek16 reads memory without side effects on devices or the debugger
func (mc *Machine) peek16(addr uint16) uint16 {
	return uint16(mc.State.Memory[addr])<<8 | uint16(mc.State.Memory[addr+1])
}

func (mc *Machine) fetch8() uint8 {
	value := mc.read(mc.State.PC)
	mc.State.PC++
	return value
}

func (mc *Machine) fetch16() uint16 {
	value := mc.read16(mc.State.PC)
	mc.State.PC += 2
	return value
}

func (mc *Machine) push8(sp *uint16, value uint8) {
	*sp--
	mc.write(*sp, value)
}

func (mc *Machine) push16(sp *uint16, value uint16) {
	mc.push8(sp, uint8(value))
	mc.push8(sp, uint8(value>>8))
}

func (mc *Machine) pull8(sp *uint16) uint8 {
	value := mc.read(*sp)
	*sp++
	return value
}

func (mc *Machine) pull16(sp *uint16) uint16 {
	hi := mc.pull8(sp)
	lo := mc.pull8(sp)
	return uint16(hi)<<8 | uint16(lo)
}

// pushRegisters stacks the registers selected by mask on sp; other is the
// opposite stack pointer.
func (mc *Machine) pushRegisters(sp *uint16, other uint16, mask uint8) {
	st := &mc.State

	if mask&STACK_PC != 0 {
		mc.push16(sp, st.PC)
	}
	if mask&STACK_US != 0 {
		mc.push16(sp, other)
	}
	if mask&STACK_Y != 0 {
		mc.push16(sp, st.Y)
	}
	if mask&STACK_X != 0 {
		mc.push16(sp, st.X)
	}
	if mask&STACK_DP != 0 {
		mc.push8(sp, st.DP)
	}
	if mask&STACK_B != 0 {
		mc.push8(sp, st.B)
	}
	if mask&STACK_A != 0 {
		mc.push8(sp, st.A)
	}
	if mask&STACK_CC != 0 {
		mc.push8(sp, st.CC)
	}
}

func (mc *Machine) pullRegisters(sp *uint16, other *uint16, mask uint8) {
	st := &mc.State

	if mask&STACK_CC != 0 {
		st.CC = mc.pull8(sp)
	}
	if mask&STACK_A != 0 {
		st.A = mc.pull8(sp)
	}
	if mask&STACK_B != 0 {
		st.B = mc.pull8(sp)
	}
	if mask&STACK_DP != 0 {
		st.DP = mc.pull8(sp)
	}
	if mask&STACK_X != 0 {
		st.X = mc.pull16(sp)
	}
	if mask&STACK_Y != 0 {
		st.Y = mc.pull16(sp)
	}
	if mask&STACK_US != 0 {
		*other = mc.pull16(sp)
	}
	if mask&STACK_PC != 0 {
		st.PC = mc.pull16(sp)
	}
}

// raiseException stacks the entire machine state on S, applies the
// interrupt mask and jumps through the vector.
func (mc *Machine) raiseException(vector uint16, mask uint8) {
	mc.State.CC |= FLAG_ENTIRE
	mc.pushRegisters(&mc.State.S, mc.State.U, STACK_ENTIRE)
	mc.State.CC |= mask
	mc.State.PC = mc.read16(vector)
}

// illegal raises the 6309 illegal instruction trap.
func (mc *Machine) illegal() {
	mc.State.MD |= MD_ILLEGAL
	mc.raiseException(m6809.VECTOR_TRAP, FLAG_IRQ|FLAG_FIRQ)
}

func (mc *Machine) returnFromInterrupt() {
	mc.pullRegisters(&mc.State.S, &mc.State.U, STACK_CC)

	if mc.State.CC&FLAG_ENTIRE != 0 {
		mc.pullRegisters(&mc.State.S, &mc.State.U, STACK_ENTIRE&^STACK_CC)
	} else {
		mc.pullRegisters(&mc.State.S, &mc.State.U, STACK_PC)
	}
}

func (mc *Machine) interrupt() {
	acia := mc.acia()

	if acia == nil || mc.State.CC&FLAG_IRQ != 0 {
		return
	}

	if acia.Pending() {
		mc.raiseException(m6809.VECTOR_IRQ, FLAG_IRQ)
	}
}

// Step executes one instruction, then services a pending interrupt.
func (mc *Machine) Step() {
	opcode := mc.fetch8()

	switch opcode {
	case OP_PAGE2:
		mc.page2(mc.fetch8())
	case OP_PAGE3:
		mc.page3(mc.fetch8())
	default:
		mc.page1(opcode)
	}

	mc.interrupt()

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}
}
