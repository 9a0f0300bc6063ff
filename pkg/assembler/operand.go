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

package assembler

// Value is either a Literal or a label Handle.
type Value interface {
	value()
}

// Literal is an integer constant; character codes are written Literal('h').
type Literal int

func (Literal) value() {}
func (Handle) value()  {}

// Operand is one of None, Immediate, Direct, Extended, Relative, Indexed or
// Registers.
type Operand interface {
	operand()
}

type None struct{}

// #value
type Immediate struct {
	Value Value
}

// <address, an 8-bit address within the direct page
type Direct struct {
	Value Value
}

// >address, a full 16-bit address
type Extended struct {
	Value Value
}

// Branch target, encoded as a displacement from the next instruction
type Relative struct {
	Target Value
}

// Indexed addresses are computed at run time from Base plus either the
// Offset register or, when Offset is NoRegister, the constant Displacement.
type Indexed struct {
	Base         Register
	Offset       Register
	Displacement int
}

// Ordered register ids for push/pull lists and transfer pairs
type Registers []Register

func (None) operand()      {}
func (Immediate) operand() {}
func (Direct) operand()    {}
func (Extended) operand()  {}
func (Relative) operand()  {}
func (Indexed) operand()   {}
func (Registers) operand() {}

func Imm(v Value) Immediate {
	return Immediate{v}
}

func Dir(v Value) Direct {
	return Direct{v}
}

func Ext(v Value) Extended {
	return Extended{v}
}

func Rel(target Value) Relative {
	return Relative{target}
}

func AccIndexed(base, acc Register) Indexed {
	return Indexed{Base: base, Offset: acc}
}

func OffsetIndexed(base Register, displacement int) Indexed {
	return Indexed{Base: base, Offset: NoRegister, Displacement: displacement}
}

func Regs(regs ...Register) Registers {
	return Registers(regs)
}

// classify maps an operand onto the addressing mode the mnemonic supports
// for it. Register operands may be lists or pairs depending on the mnemonic.
func classify(op Operand, m *Mnemonic) (Mode, bool) {
	var mode Mode

	switch op := op.(type) {
	case nil, None:
		mode = MODE_INHERENT
	case Immediate:
		mode = MODE_IMMEDIATE
	case Direct:
		mode = MODE_DIRECT
	case Extended:
		mode = MODE_EXTENDED
	case Relative:
		mode = MODE_RELATIVE
	case Indexed:
		mode = MODE_INDEXED
	case Registers:
		if m.Supports(MODE_REGISTER_PAIR) && len(op) == 2 {
			return MODE_REGISTER_PAIR, true
		}
		mode = MODE_REGISTER_LIST
	default:
		return MODE_INHERENT, false
	}

	return mode, m.Supports(mode)
}
