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

package m6809

import "github.com/lassandro/go6809/pkg/assembler"

// Interrupt vector addresses, each holding a big-endian handler address.
const (
	VECTOR_TRAP  uint16 = 0xFFF0
	VECTOR_SWI3  uint16 = 0xFFF2
	VECTOR_SWI2  uint16 = 0xFFF4
	VECTOR_FIRQ  uint16 = 0xFFF6
	VECTOR_IRQ   uint16 = 0xFFF8
	VECTOR_SWI   uint16 = 0xFFFA
	VECTOR_NMI   uint16 = 0xFFFC
	VECTOR_RESET uint16 = 0xFFFE
)

// Vectors is the interrupt vector table at VECTOR_TRAP. Slots are ordinary
// values; a nil slot is emitted as zero.
type Vectors struct {
	Trap  assembler.Value
	SWI3  assembler.Value
	SWI2  assembler.Value
	FIRQ  assembler.Value
	IRQ   assembler.Value
	SWI   assembler.Value
	NMI   assembler.Value
	Reset assembler.Value
}

// Emit appends the table to p, repositioning the cursor to VECTOR_TRAP.
func (v Vectors) Emit(p *assembler.Program, opts ...assembler.StatementOption) {
	slots := []assembler.Value{
		v.Trap, v.SWI3, v.SWI2, v.FIRQ, v.IRQ, v.SWI, v.NMI, v.Reset,
	}

	for i, slot := range slots {
		if slot == nil {
			slots[i] = assembler.Literal(0)
		}
	}

	p.Org(VECTOR_TRAP)
	p.Words(slots, opts...)
}
