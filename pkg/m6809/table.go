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

var table []*assembler.Mnemonic

func define(name string, modes map[assembler.Mode]assembler.Encoding) *assembler.Mnemonic {
	m := &assembler.Mnemonic{Name: name, Modes: modes}
	table = append(table, m)
	return m
}

func opcode(prefix []byte, op byte) []byte {
	result := make([]byte, 0, len(prefix)+1)
	result = append(result, prefix...)
	return append(result, op)
}

func inherent(name string, code ...byte) *assembler.Mnemonic {
	return define(name, map[assembler.Mode]assembler.Encoding{
		assembler.MODE_INHERENT: {Opcode: code},
	})
}

// memory defines a mnemonic in the 6809 column layout: immediate at base,
// direct at base+0x10, indexed at base+0x20 and extended at base+0x30.
// A zero width omits the immediate form.
func memory(name string, prefix []byte, base byte, width int) *assembler.Mnemonic {
	modes := map[assembler.Mode]assembler.Encoding{
		assembler.MODE_DIRECT:   {Opcode: opcode(prefix, base+0x10)},
		assembler.MODE_INDEXED:  {Opcode: opcode(prefix, base+0x20)},
		assembler.MODE_EXTENDED: {Opcode: opcode(prefix, base+0x30)},
	}

	if width > 0 {
		modes[assembler.MODE_IMMEDIATE] = assembler.Encoding{Opcode: opcode(prefix, base), Width: width}
	}

	return define(name, modes)
}

// modify defines a read-modify-write mnemonic: direct at op, indexed at
// op+0x60 and extended at op+0x70.
func modify(name string, op byte) *assembler.Mnemonic {
	return define(name, map[assembler.Mode]assembler.Encoding{
		assembler.MODE_DIRECT:   {Opcode: []byte{op}},
		assembler.MODE_INDEXED:  {Opcode: []byte{op + 0x60}},
		assembler.MODE_EXTENDED: {Opcode: []byte{op + 0x70}},
	})
}

func branch(name string, width int, code ...byte) *assembler.Mnemonic {
	return define(name, map[assembler.Mode]assembler.Encoding{
		assembler.MODE_RELATIVE: {Opcode: code, Width: width},
	})
}

func immediate(name string, width int, code ...byte) *assembler.Mnemonic {
	return define(name, map[assembler.Mode]assembler.Encoding{
		assembler.MODE_IMMEDIATE: {Opcode: code, Width: width},
	})
}

func indexed(name string, op byte) *assembler.Mnemonic {
	return define(name, map[assembler.Mode]assembler.Encoding{
		assembler.MODE_INDEXED: {Opcode: []byte{op}},
	})
}

func registers(name string, mode assembler.Mode, op byte) *assembler.Mnemonic {
	return define(name, map[assembler.Mode]assembler.Encoding{
		mode: {Opcode: []byte{op}},
	})
}

var (
	page2 = []byte{0x10}
	page3 = []byte{0x11}
)

// Inherent
var (
	NOP  = inherent("NOP", 0x12)
	SEX  = inherent("SEX", 0x1D)
	ABX  = inherent("ABX", 0x3A)
	RTS  = inherent("RTS", 0x39)
	RTI  = inherent("RTI", 0x3B)
	MUL  = inherent("MUL", 0x3D)
	SWI  = inherent("SWI", 0x3F)
	SWI2 = inherent("SWI2", 0x10, 0x3F)
	SWI3 = inherent("SWI3", 0x11, 0x3F)

	NEGA = inherent("NEGA", 0x40)
	COMA = inherent("COMA", 0x43)
	LSRA = inherent("LSRA", 0x44)
	RORA = inherent("RORA", 0x46)
	ASRA = inherent("ASRA", 0x47)
	ASLA = inherent("ASLA", 0x48)
	ROLA = inherent("ROLA", 0x49)
	DECA = inherent("DECA", 0x4A)
	INCA = inherent("INCA", 0x4C)
	TSTA = inherent("TSTA", 0x4D)
	CLRA = inherent("CLRA", 0x4F)

	NEGB = inherent("NEGB", 0x50)
	COMB = inherent("COMB", 0x53)
	LSRB = inherent("LSRB", 0x54)
	RORB = inherent("RORB", 0x56)
	ASRB = inherent("ASRB", 0x57)
	ASLB = inherent("ASLB", 0x58)
	ROLB = inherent("ROLB", 0x59)
	DECB = inherent("DECB", 0x5A)
	INCB = inherent("INCB", 0x5C)
	TSTB = inherent("TSTB", 0x5D)
	CLRB = inherent("CLRB", 0x5F)
)

// Memory read-modify-write
var (
	NEG = modify("NEG", 0x00)
	COM = modify("COM", 0x03)
	LSR = modify("LSR", 0x04)
	ROR = modify("ROR", 0x06)
	ASR = modify("ASR", 0x07)
	ASL = modify("ASL", 0x08)
	ROL = modify("ROL", 0x09)
	DEC = modify("DEC", 0x0A)
	INC = modify("INC", 0x0C)
	TST = modify("TST", 0x0D)
	JMP = modify("JMP", 0x0E)
	CLR = modify("CLR", 0x0F)
)

// Accumulator A column
var (
	SUBA = memory("SUBA", nil, 0x80, assembler.WIDTH_BYTE)
	CMPA = memory("CMPA", nil, 0x81, assembler.WIDTH_BYTE)
	SBCA = memory("SBCA", nil, 0x82, assembler.WIDTH_BYTE)
	SUBD = memory("SUBD", nil, 0x83, assembler.WIDTH_WORD)
	ANDA = memory("ANDA", nil, 0x84, assembler.WIDTH_BYTE)
	BITA = memory("BITA", nil, 0x85, assembler.WIDTH_BYTE)
	LDA  = memory("LDA", nil, 0x86, assembler.WIDTH_BYTE)
	STA  = memory("STA", nil, 0x87, 0)
	EORA = memory("EORA", nil, 0x88, assembler.WIDTH_BYTE)
	ADCA = memory("ADCA", nil, 0x89, assembler.WIDTH_BYTE)
	ORA  = memory("ORA", nil, 0x8A, assembler.WIDTH_BYTE)
	ADDA = memory("ADDA", nil, 0x8B, assembler.WIDTH_BYTE)
	CMPX = memory("CMPX", nil, 0x8C, assembler.WIDTH_WORD)
	JSR  = memory("JSR", nil, 0x8D, 0)
	LDX  = memory("LDX", nil, 0x8E, assembler.WIDTH_WORD)
	STX  = memory("STX", nil, 0x8F, 0)
)

// Accumulator B column
var (
	SUBB = memory("SUBB", nil, 0xC0, assembler.WIDTH_BYTE)
	CMPB = memory("CMPB", nil, 0xC1, assembler.WIDTH_BYTE)
	SBCB = memory("SBCB", nil, 0xC2, assembler.WIDTH_BYTE)
	ADDD = memory("ADDD", nil, 0xC3, assembler.WIDTH_WORD)
	ANDB = memory("ANDB", nil, 0xC4, assembler.WIDTH_BYTE)
	BITB = memory("BITB", nil, 0xC5, assembler.WIDTH_BYTE)
	LDB  = memory("LDB", nil, 0xC6, assembler.WIDTH_BYTE)
	STB  = memory("STB", nil, 0xC7, 0)
	EORB = memory("EORB", nil, 0xC8, assembler.WIDTH_BYTE)
	ADCB = memory("ADCB", nil, 0xC9, assembler.WIDTH_BYTE)
	ORB  = memory("ORB", nil, 0xCA, assembler.WIDTH_BYTE)
	ADDB = memory("ADDB", nil, 0xCB, assembler.WIDTH_BYTE)
	LDD  = memory("LDD", nil, 0xCC, assembler.WIDTH_WORD)
	STD  = memory("STD", nil, 0xCD, 0)
	LDU  = memory("LDU", nil, 0xCE, assembler.WIDTH_WORD)
	STU  = memory("STU", nil, 0xCF, 0)
)

// Prefixed 16-bit loads, stores and compares
var (
	CMPD = memory("CMPD", page2, 0x83, assembler.WIDTH_WORD)
	CMPY = memory("CMPY", page2, 0x8C, assembler.WIDTH_WORD)
	LDY  = memory("LDY", page2, 0x8E, assembler.WIDTH_WORD)
	STY  = memory("STY", page2, 0x8F, 0)
	LDS  = memory("LDS", page2, 0xCE, assembler.WIDTH_WORD)
	STS  = memory("STS", page2, 0xCF, 0)
	CMPU = memory("CMPU", page3, 0x83, assembler.WIDTH_WORD)
	CMPS = memory("CMPS", page3, 0x8C, assembler.WIDTH_WORD)
)

// 6309 mode register
var LDMD = immediate("LDMD", assembler.WIDTH_BYTE, 0x11, 0x3D)

// Condition codes
var (
	ORCC  = immediate("ORCC", assembler.WIDTH_BYTE, 0x1A)
	ANDCC = immediate("ANDCC", assembler.WIDTH_BYTE, 0x1C)
)

// Effective address
var (
	LEAX = indexed("LEAX", 0x30)
	LEAY = indexed("LEAY", 0x31)
	LEAS = indexed("LEAS", 0x32)
	LEAU = indexed("LEAU", 0x33)
)

// Stack and transfer
var (
	PSHS = registers("PSHS", assembler.MODE_REGISTER_LIST, 0x34)
	PULS = registers("PULS", assembler.MODE_REGISTER_LIST, 0x35)
	PSHU = registers("PSHU", assembler.MODE_REGISTER_LIST, 0x36)
	PULU = registers("PULU", assembler.MODE_REGISTER_LIST, 0x37)
	EXG  = registers("EXG", assembler.MODE_REGISTER_PAIR, 0x1E)
	TFR  = registers("TFR", assembler.MODE_REGISTER_PAIR, 0x1F)
)

// Short branches
var (
	BRA = branch("BRA", assembler.WIDTH_BYTE, 0x20)
	BRN = branch("BRN", assembler.WIDTH_BYTE, 0x21)
	BHI = branch("BHI", assembler.WIDTH_BYTE, 0x22)
	BLS = branch("BLS", assembler.WIDTH_BYTE, 0x23)
	BCC = branch("BCC", assembler.WIDTH_BYTE, 0x24)
	BCS = branch("BCS", assembler.WIDTH_BYTE, 0x25)
	BNE = branch("BNE", assembler.WIDTH_BYTE, 0x26)
	BEQ = branch("BEQ", assembler.WIDTH_BYTE, 0x27)
	BVC = branch("BVC", assembler.WIDTH_BYTE, 0x28)
	BVS = branch("BVS", assembler.WIDTH_BYTE, 0x29)
	BPL = branch("BPL", assembler.WIDTH_BYTE, 0x2A)
	BMI = branch("BMI", assembler.WIDTH_BYTE, 0x2B)
	BGE = branch("BGE", assembler.WIDTH_BYTE, 0x2C)
	BLT = branch("BLT", assembler.WIDTH_BYTE, 0x2D)
	BGT = branch("BGT", assembler.WIDTH_BYTE, 0x2E)
	BLE = branch("BLE", assembler.WIDTH_BYTE, 0x2F)
	BSR = branch("BSR", assembler.WIDTH_BYTE, 0x8D)
)

// Long branches
var (
	LBRA = branch("LBRA", assembler.WIDTH_WORD, 0x16)
	LBSR = branch("LBSR", assembler.WIDTH_WORD, 0x17)
	LBRN = branch("LBRN", assembler.WIDTH_WORD, 0x10, 0x21)
	LBHI = branch("LBHI", assembler.WIDTH_WORD, 0x10, 0x22)
	LBLS = branch("LBLS", assembler.WIDTH_WORD, 0x10, 0x23)
	LBCC = branch("LBCC", assembler.WIDTH_WORD, 0x10, 0x24)
	LBCS = branch("LBCS", assembler.WIDTH_WORD, 0x10, 0x25)
	LBNE = branch("LBNE", assembler.WIDTH_WORD, 0x10, 0x26)
	LBEQ = branch("LBEQ", assembler.WIDTH_WORD, 0x10, 0x27)
	LBVC = branch("LBVC", assembler.WIDTH_WORD, 0x10, 0x28)
	LBVS = branch("LBVS", assembler.WIDTH_WORD, 0x10, 0x29)
	LBPL = branch("LBPL", assembler.WIDTH_WORD, 0x10, 0x2A)
	LBMI = branch("LBMI", assembler.WIDTH_WORD, 0x10, 0x2B)
	LBGE = branch("LBGE", assembler.WIDTH_WORD, 0x10, 0x2C)
	LBLT = branch("LBLT", assembler.WIDTH_WORD, 0x10, 0x2D)
	LBGT = branch("LBGT", assembler.WIDTH_WORD, 0x10, 0x2E)
	LBLE = branch("LBLE", assembler.WIDTH_WORD, 0x10, 0x2F)
)

// Conventional aliases
var aliases = map[string]*assembler.Mnemonic{
	"LSLA": ASLA,
	"LSLB": ASLB,
	"LSL":  ASL,
	"BHS":  BCC,
	"BLO":  BCS,
	"LBHS": LBCC,
	"LBLO": LBCS,
}
