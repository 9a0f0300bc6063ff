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

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lassandro/go6809/pkg/assembler"
)

const (
	A assembler.Register = iota + 1
	B
	D
	X
	Y
	U
	S
	PC
	CC
	DP
)

var registerNames = map[assembler.Register]string{
	A:  "A",
	B:  "B",
	D:  "D",
	X:  "X",
	Y:  "Y",
	U:  "U",
	S:  "S",
	PC: "PC",
	CC: "CC",
	DP: "DP",
}

// TFR/EXG nibble codes; 16-bit registers are below 8
var transferCodes = map[assembler.Register]byte{
	D:  0x0,
	X:  0x1,
	Y:  0x2,
	U:  0x3,
	S:  0x4,
	PC: 0x5,
	A:  0x8,
	B:  0x9,
	CC: 0xA,
	DP: 0xB,
}

// PSH/PUL postbyte bits; U and S share bit 6 (the other stack)
var stackBits = map[assembler.Register]byte{
	CC: 0x01,
	A:  0x02,
	B:  0x04,
	D:  0x06,
	DP: 0x08,
	X:  0x10,
	Y:  0x20,
	U:  0x40,
	S:  0x40,
	PC: 0x80,
}

var stackOwners = map[*assembler.Mnemonic]assembler.Register{
	PSHS: S,
	PULS: S,
	PSHU: U,
	PULU: U,
}

var indexBases = map[assembler.Register]byte{
	X: 0x00,
	Y: 0x20,
	U: 0x40,
	S: 0x60,
}

var (
	errIndexBase    = errors.New("index base must be X, Y, U or S")
	errIndexOffset  = errors.New("index offset register must be A, B or D")
	errEmptyList    = errors.New("empty register list")
	errPairSize     = errors.New("register pair mixes 8-bit and 16-bit registers")
	errPairArity    = errors.New("register pair needs exactly two registers")
	errUnknownReg   = errors.New("unknown register")
	errRegisterMode = errors.New("mode takes no register operand")
)

func lookupRegister(name string) (assembler.Register, bool) {
	for reg, regName := range registerNames {
		if strings.EqualFold(name, regName) {
			return reg, true
		}
	}

	return assembler.NoRegister, false
}

func registerName(reg assembler.Register) string {
	if name, ok := registerNames[reg]; ok {
		return name
	}

	return fmt.Sprintf("R%d", reg)
}

// encodeIndexed builds the indexed-mode postbyte and any displacement bytes.
//
//	0RRnnnnn          5-bit displacement
//	1RR00100          ,R
//	1RR00101          B,R
//	1RR00110          A,R
//	1RR01000 n8       8-bit displacement
//	1RR01001 n16      16-bit displacement
//	1RR01011          D,R
func encodeIndexed(op assembler.Indexed) ([]byte, error) {
	rr, ok := indexBases[op.Base]

	if !ok {
		return nil, errIndexBase
	}

	if op.Offset != assembler.NoRegister {
		switch op.Offset {
		case A:
			return []byte{0x86 | rr}, nil
		case B:
			return []byte{0x85 | rr}, nil
		case D:
			return []byte{0x8B | rr}, nil
		}

		return nil, errIndexOffset
	}

	n := op.Displacement

	switch {
	case n == 0:
		return []byte{0x84 | rr}, nil
	case n >= -16 && n <= 15:
		return []byte{rr | byte(n&0x1F)}, nil
	case n >= -128 && n <= 127:
		return []byte{0x88 | rr, byte(int8(n))}, nil
	case n >= -32768 && n <= 32767:
		return []byte{0x89 | rr, byte(n >> 8), byte(n)}, nil
	}

	return nil, fmt.Errorf("index displacement %d exceeds 16 bits", n)
}

func encodeRegisters(m *assembler.Mnemonic, mode assembler.Mode, regs assembler.Registers) ([]byte, error) {
	switch mode {
	case assembler.MODE_REGISTER_PAIR:
		if len(regs) != 2 {
			return nil, errPairArity
		}

		src, srcOk := transferCodes[regs[0]]
		dst, dstOk := transferCodes[regs[1]]

		if !srcOk || !dstOk {
			return nil, errUnknownReg
		}

		if (src < 0x8) != (dst < 0x8) {
			return nil, errPairSize
		}

		return []byte{src<<4 | dst}, nil

	case assembler.MODE_REGISTER_LIST:
		if len(regs) == 0 {
			return nil, errEmptyList
		}

		var mask byte

		for _, reg := range regs {
			bit, ok := stackBits[reg]

			if !ok {
				return nil, errUnknownReg
			}

			// Bit 6 names the other stack pointer
			if own, ok := stackOwners[m]; ok && reg == own {
				return nil, fmt.Errorf(
					"%s cannot stack its own pointer %s",
					m.Name, registerName(reg),
				)
			}

			if mask&bit != 0 {
				return nil, fmt.Errorf("register %s listed twice", registerName(reg))
			}

			mask |= bit
		}

		return []byte{mask}, nil
	}

	return nil, errRegisterMode
}
