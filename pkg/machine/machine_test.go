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

package machine_test

import (
	"bytes"
	"testing"

	"github.com/lassandro/go6809/pkg/machine"
)

type testMachineState struct {
	A  uint8
	B  uint8
	DP uint8
	CC uint8
	MD uint8
	X  uint16
	Y  uint16
	U  uint16
	S  uint16
	PC uint16

	Memory map[uint16]uint8
}

type testCase struct {
	Name     string
	Steps    uint
	Receive  string
	Transmit string
	Input    testMachineState
	Output   testMachineState
}

// program lays out code bytes from addr
func program(memory map[uint16]uint8, addr uint16, code ...uint8) map[uint16]uint8 {
	if memory == nil {
		memory = make(map[uint16]uint8)
	}

	for i, value := range code {
		memory[addr+uint16(i)] = value
	}

	return memory
}

func testMachineSuccess(t *testing.T, test *testCase) {
	if test.Input.Memory == nil {
		panic("No memory map provided")
	}

	var mc machine.Machine
	var transmitBuf bytes.Buffer

	if len(test.Receive) > 0 || len(test.Transmit) > 0 {
		receive := make(chan byte, len(test.Receive))

		for i := 0; i < len(test.Receive); i++ {
			receive <- test.Receive[i]
		}

		close(receive)

		mc.Devices = &machine.DeviceHandler{
			ACIA: machine.NewACIA(
				machine.ACIA_DEFAULT_BASE, receive, &transmitBuf,
			),
		}
	}

	mc.State.Reset()
	mc.State.A = test.Input.A
	mc.State.B = test.Input.B
	mc.State.DP = test.Input.DP
	mc.State.CC = test.Input.CC
	mc.State.MD = test.Input.MD
	mc.State.X = test.Input.X
	mc.State.Y = test.Input.Y
	mc.State.U = test.Input.U
	mc.State.S = test.Input.S
	mc.State.PC = test.Input.PC

	for addr, value := range test.Input.Memory {
		mc.State.Memory[addr] = value
	}

	if test.Steps == 0 {
		test.Steps = 1
	}

	for i := uint(0); i < test.Steps; i++ {
		mc.Step()
	}

	registers := []struct {
		Name string
		Want uint16
		Have uint16
	}{
		{"A", uint16(test.Output.A), uint16(mc.State.A)},
		{"B", uint16(test.Output.B), uint16(mc.State.B)},
		{"DP", uint16(test.Output.DP), uint16(mc.State.DP)},
		{"MD", uint16(test.Output.MD), uint16(mc.State.MD)},
		{"X", test.Output.X, mc.State.X},
		{"Y", test.Output.Y, mc.State.Y},
		{"U", test.Output.U, mc.State.U},
		{"S", test.Output.S, mc.State.S},
		{"PC", test.Output.PC, mc.State.PC},
	}

	for _, reg := range registers {
		if reg.Have != reg.Want {
			t.Errorf(
				"Register mismatch"+
					"\nwant:%#04x (test.Output.%s)\nhave:%#04x",
				reg.Want,
				reg.Name,
				reg.Have,
			)
		}
	}

	if have := mc.State.CC; have != test.Output.CC {
		t.Errorf(
			"Condition flag mismatch"+
				"\nwant:%#08b (test.Output.CC)\nhave:%#08b",
			test.Output.CC,
			have,
		)
	}

	for i, value := range mc.State.Memory {
		input, expectingInput := test.Input.Memory[uint16(i)]
		output, expectingOutput := test.Output.Memory[uint16(i)]

		if expectingOutput {
			// Value was supposed to change
			if value != output {
				t.Fatalf(
					"Memory value mismatch"+
						"\nwant:%#02x (test.Output.Memory[%#04x])\nhave:%#02x",
					output,
					i,
					value,
				)
			}
		} else if expectingInput {
			// Value was supposed to remain
			if value != input {
				t.Fatalf(
					"Memory value mismatch"+
						"\nwant:%#02x (test.Input.Memory[%#04x])\nhave:%#02x",
					input,
					i,
					value,
				)
			}
		} else if value != 0 {
			// Value was expected to remain unitialized
			t.Fatalf(
				"Memory unexpectedly changed"+
					"\nwant:0x00 (test.Output.Memory[%#04x])\nhave:%#02x",
				i,
				value,
			)
		}
	}

	if have := transmitBuf.String(); have != test.Transmit {
		t.Errorf(
			"Transmit output mismatch"+
				"\nwant:%q (test.Transmit)\nhave:%q",
			test.Transmit,
			have,
		)
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testMachineSuccess(t, &test)
			})
		}
	})
}

func TestLoadStore(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "LDA immediate",
			Input: testMachineState{
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x86, 0x80),
			},
			Output: testMachineState{
				A:  0x80,
				CC: machine.FLAG_NEG,
				PC: 0x1002,
			},
		},
		{
			Name: "STA extended",
			Input: testMachineState{
				A:      0x42,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0xB7, 0x20, 0x00),
			},
			Output: testMachineState{
				A:      0x42,
				PC:     0x1003,
				Memory: map[uint16]uint8{0x2000: 0x42},
			},
		},
		{
			Name: "LDD direct",
			Input: testMachineState{
				DP: 0x20,
				PC: 0x1000,
				Memory: program(
					program(nil, 0x1000, 0xDC, 0x10),
					0x2010, 0x12, 0x34,
				),
			},
			Output: testMachineState{
				A:  0x12,
				B:  0x34,
				DP: 0x20,
				PC: 0x1002,
			},
		},
		{
			Name: "LDX immediate zero",
			Input: testMachineState{
				X:      0xFFFF,
				CC:     machine.FLAG_OVERFLOW,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x8E, 0x00, 0x00),
			},
			Output: testMachineState{
				CC: machine.FLAG_ZERO,
				PC: 0x1003,
			},
		},
		{
			Name: "STD indexed",
			Input: testMachineState{
				A:      0xAB,
				B:      0xCD,
				X:      0x2000,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0xED, 0x84),
			},
			Output: testMachineState{
				A:      0xAB,
				B:      0xCD,
				X:      0x2000,
				CC:     machine.FLAG_NEG,
				PC:     0x1002,
				Memory: map[uint16]uint8{0x2000: 0xAB, 0x2001: 0xCD},
			},
		},
		{
			Name: "LDS prefixed",
			Input: testMachineState{
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x10, 0xCE, 0x02, 0x00),
			},
			Output: testMachineState{
				S:  0x0200,
				PC: 0x1004,
			},
		},
	})
}

func TestArithmetic(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "ADDA carry",
			Input: testMachineState{
				A:      0xFF,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x8B, 0x01),
			},
			Output: testMachineState{
				CC: machine.FLAG_HALF | machine.FLAG_ZERO | machine.FLAG_CARRY,
				PC: 0x1002,
			},
		},
		{
			Name: "ADDA overflow",
			Input: testMachineState{
				A:      0x7F,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x8B, 0x01),
			},
			Output: testMachineState{
				A:  0x80,
				CC: machine.FLAG_HALF | machine.FLAG_NEG | machine.FLAG_OVERFLOW,
				PC: 0x1002,
			},
		},
		{
			Name: "ADCA",
			Input: testMachineState{
				A:      0x01,
				CC:     machine.FLAG_CARRY,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x89, 0x01),
			},
			Output: testMachineState{
				A:  0x03,
				PC: 0x1002,
			},
		},
		{
			Name: "SUBA borrow",
			Input: testMachineState{
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x80, 0x01),
			},
			Output: testMachineState{
				A:  0xFF,
				CC: machine.FLAG_NEG | machine.FLAG_CARRY,
				PC: 0x1002,
			},
		},
		{
			Name: "CMPA equal",
			Input: testMachineState{
				A:      0x42,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x81, 0x42),
			},
			Output: testMachineState{
				A:  0x42,
				CC: machine.FLAG_ZERO,
				PC: 0x1002,
			},
		},
		{
			Name: "BITB",
			Input: testMachineState{
				B:      0x02,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0xC5, 0x01),
			},
			Output: testMachineState{
				B:  0x02,
				CC: machine.FLAG_ZERO,
				PC: 0x1002,
			},
		},
		{
			Name: "ADDD",
			Input: testMachineState{
				A:      0x12,
				B:      0xFF,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0xC3, 0x00, 0x01),
			},
			Output: testMachineState{
				A:  0x13,
				PC: 0x1003,
			},
		},
		{
			Name: "CMPX less",
			Input: testMachineState{
				X:      0x1000,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x8C, 0x20, 0x00),
			},
			Output: testMachineState{
				X:  0x1000,
				CC: machine.FLAG_NEG | machine.FLAG_CARRY,
				PC: 0x1003,
			},
		},
		{
			Name: "MUL",
			Input: testMachineState{
				A:      0x10,
				B:      0x10,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x3D),
			},
			Output: testMachineState{
				A:  0x01,
				PC: 0x1001,
			},
		},
		{
			Name: "SEX",
			Input: testMachineState{
				B:      0x80,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x1D),
			},
			Output: testMachineState{
				A:  0xFF,
				B:  0x80,
				CC: machine.FLAG_NEG,
				PC: 0x1001,
			},
		},
		{
			Name: "ABX",
			Input: testMachineState{
				B:      0xFF,
				X:      0x1000,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x3A),
			},
			Output: testMachineState{
				B:  0xFF,
				X:  0x10FF,
				PC: 0x1001,
			},
		},
	})
}

func TestModify(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "INCA overflow",
			Input: testMachineState{
				A:      0x7F,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x4C),
			},
			Output: testMachineState{
				A:  0x80,
				CC: machine.FLAG_NEG | machine.FLAG_OVERFLOW,
				PC: 0x1001,
			},
		},
		{
			Name: "CLR extended",
			Input: testMachineState{
				CC: 0x0F,
				PC: 0x1000,
				Memory: program(
					program(nil, 0x1000, 0x7F, 0x20, 0x00),
					0x2000, 0x55,
				),
			},
			Output: testMachineState{
				CC:     machine.FLAG_ZERO,
				PC:     0x1003,
				Memory: map[uint16]uint8{0x2000: 0x00},
			},
		},
		{
			Name: "ASLA",
			Input: testMachineState{
				A:      0xC0,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x48),
			},
			Output: testMachineState{
				A:  0x80,
				CC: machine.FLAG_NEG | machine.FLAG_CARRY,
				PC: 0x1001,
			},
		},
		{
			Name: "RORB",
			Input: testMachineState{
				B:      0x01,
				CC:     machine.FLAG_CARRY,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x56),
			},
			Output: testMachineState{
				B:  0x80,
				CC: machine.FLAG_NEG | machine.FLAG_CARRY,
				PC: 0x1001,
			},
		},
		{
			Name: "NEG direct",
			Input: testMachineState{
				DP: 0x20,
				PC: 0x1000,
				Memory: program(
					program(nil, 0x1000, 0x00, 0x10),
					0x2010, 0x01,
				),
			},
			Output: testMachineState{
				DP:     0x20,
				CC:     machine.FLAG_NEG | machine.FLAG_CARRY,
				PC:     0x1002,
				Memory: map[uint16]uint8{0x2010: 0xFF},
			},
		},
		{
			Name: "TSTB keeps carry",
			Input: testMachineState{
				CC:     machine.FLAG_CARRY,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x5D),
			},
			Output: testMachineState{
				CC: machine.FLAG_ZERO | machine.FLAG_CARRY,
				PC: 0x1001,
			},
		},
		{
			Name: "COMA",
			Input: testMachineState{
				A:      0x0F,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x43),
			},
			Output: testMachineState{
				A:  0xF0,
				CC: machine.FLAG_NEG | machine.FLAG_CARRY,
				PC: 0x1001,
			},
		},
		{
			Name: "JMP indexed",
			Input: testMachineState{
				X:      0x4000,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x6E, 0x84),
			},
			Output: testMachineState{
				X:  0x4000,
				PC: 0x4000,
			},
		},
	})
}

func TestBranch(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "BEQ taken",
			Input: testMachineState{
				CC:     machine.FLAG_ZERO,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x27, 0x10),
			},
			Output: testMachineState{
				CC: machine.FLAG_ZERO,
				PC: 0x1012,
			},
		},
		{
			Name: "BEQ not taken",
			Input: testMachineState{
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x27, 0x10),
			},
			Output: testMachineState{
				PC: 0x1002,
			},
		},
		{
			Name: "BRA self",
			Input: testMachineState{
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x20, 0xFE),
			},
			Output: testMachineState{
				PC: 0x1000,
			},
		},
		{
			Name: "BGT taken",
			Input: testMachineState{
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x2E, 0x02),
			},
			Output: testMachineState{
				PC: 0x1004,
			},
		},
		{
			Name: "BLT not taken",
			Input: testMachineState{
				CC:     machine.FLAG_NEG | machine.FLAG_OVERFLOW,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x2D, 0x02),
			},
			Output: testMachineState{
				CC: machine.FLAG_NEG | machine.FLAG_OVERFLOW,
				PC: 0x1002,
			},
		},
		{
			Name: "LBRA",
			Input: testMachineState{
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x16, 0x10, 0x00),
			},
			Output: testMachineState{
				PC: 0x2003,
			},
		},
		{
			Name: "LBNE taken",
			Input: testMachineState{
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x10, 0x26, 0x00, 0x10),
			},
			Output: testMachineState{
				PC: 0x1014,
			},
		},
		{
			Name: "BSR",
			Input: testMachineState{
				S:      0x0200,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x8D, 0x10),
			},
			Output: testMachineState{
				S:      0x01FE,
				PC:     0x1012,
				Memory: map[uint16]uint8{0x01FE: 0x10, 0x01FF: 0x02},
			},
		},
		{
			Name:  "JSR RTS",
			Steps: 2,
			Input: testMachineState{
				S:  0x0200,
				PC: 0x1000,
				Memory: program(
					program(nil, 0x1000, 0xBD, 0x20, 0x00),
					0x2000, 0x39,
				),
			},
			Output: testMachineState{
				S:      0x0200,
				PC:     0x1003,
				Memory: map[uint16]uint8{0x01FE: 0x10, 0x01FF: 0x03},
			},
		},
	})
}

func TestIndexed(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "5-bit offset",
			Input: testMachineState{
				X: 0x2000,
				PC: 0x1000,
				Memory: program(
					program(nil, 0x1000, 0xA6, 0x1F),
					0x1FFF, 0x33,
				),
			},
			Output: testMachineState{
				A:  0x33,
				X:  0x2000,
				PC: 0x1002,
			},
		},
		{
			Name: "Post increment",
			Input: testMachineState{
				X: 0x2000,
				PC: 0x1000,
				Memory: program(
					program(nil, 0x1000, 0xA6, 0x80),
					0x2000, 0x44,
				),
			},
			Output: testMachineState{
				A:  0x44,
				X:  0x2001,
				PC: 0x1002,
			},
		},
		{
			Name: "Accumulator offset",
			Input: testMachineState{
				B: 0x02,
				Y: 0x2000,
				PC: 0x1000,
				Memory: program(
					program(nil, 0x1000, 0xA6, 0xA5),
					0x2002, 0x77,
				),
			},
			Output: testMachineState{
				A:  0x77,
				B:  0x02,
				Y:  0x2000,
				PC: 0x1002,
			},
		},
		{
			Name: "16-bit offset",
			Input: testMachineState{
				U: 0x1F00,
				PC: 0x1000,
				Memory: program(
					program(nil, 0x1000, 0xA6, 0xC9, 0x01, 0x00),
					0x2000, 0x01,
				),
			},
			Output: testMachineState{
				A:  0x01,
				U:  0x1F00,
				PC: 0x1004,
			},
		},
		{
			Name: "Extended indirect",
			Input: testMachineState{
				PC: 0x1000,
				Memory: program(
					program(
						program(nil, 0x1000, 0xA6, 0x9F, 0x30, 0x00),
						0x3000, 0x20, 0x00,
					),
					0x2000, 0x88,
				),
			},
			Output: testMachineState{
				A:  0x88,
				CC: machine.FLAG_NEG,
				PC: 0x1004,
			},
		},
		{
			Name: "PC relative",
			Input: testMachineState{
				PC: 0x1000,
				Memory: program(
					program(nil, 0x1000, 0xA6, 0x8C, 0x10),
					0x1013, 0x05,
				),
			},
			Output: testMachineState{
				A:  0x05,
				PC: 0x1003,
			},
		},
		{
			Name: "LEAX",
			Input: testMachineState{
				X:      0x2000,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x30, 0x1F),
			},
			Output: testMachineState{
				X:  0x1FFF,
				PC: 0x1002,
			},
		},
	})
}

func TestStack(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "PSHS PULS",
			Steps: 2,
			Input: testMachineState{
				A:  0x11,
				B:  0x22,
				X:  0x3344,
				S:  0x0200,
				PC: 0x1000,
				Memory: program(nil, 0x1000,
					0x34, 0x16, // PSHS X,B,A
					0x35, 0x26, // PULS Y,B,A
				),
			},
			Output: testMachineState{
				A:  0x11,
				B:  0x22,
				X:  0x3344,
				Y:  0x3344,
				S:  0x0200,
				PC: 0x1004,
				Memory: map[uint16]uint8{
					0x01FC: 0x11,
					0x01FD: 0x22,
					0x01FE: 0x33,
					0x01FF: 0x44,
				},
			},
		},
		{
			Name: "PSHU PC",
			Input: testMachineState{
				U:      0x0300,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x36, 0x80),
			},
			Output: testMachineState{
				U:      0x02FE,
				PC:     0x1002,
				Memory: map[uint16]uint8{0x02FE: 0x10, 0x02FF: 0x02},
			},
		},
	})
}

func TestTransfer(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "TFR A,DP",
			Input: testMachineState{
				A:      0x20,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x1F, 0x8B),
			},
			Output: testMachineState{
				A:  0x20,
				DP: 0x20,
				PC: 0x1002,
			},
		},
		{
			Name: "EXG X,Y",
			Input: testMachineState{
				X:      0x0001,
				Y:      0x0002,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x1E, 0x12),
			},
			Output: testMachineState{
				X:  0x0002,
				Y:  0x0001,
				PC: 0x1002,
			},
		},
		{
			Name: "TFR D,S",
			Input: testMachineState{
				A:      0x02,
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x1F, 0x04),
			},
			Output: testMachineState{
				A:  0x02,
				S:  0x0200,
				PC: 0x1002,
			},
		},
		{
			Name: "ORCC ANDCC",
			Steps: 2,
			Input: testMachineState{
				PC: 0x1000,
				Memory: program(nil, 0x1000,
					0x1A, 0x50, // ORCC #$50
					0x1C, 0xEF, // ANDCC #$EF
				),
			},
			Output: testMachineState{
				CC: machine.FLAG_FIRQ,
				PC: 0x1004,
			},
		},
	})
}

func TestInterrupt(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "SWI",
			Input: testMachineState{
				A:  0x01,
				B:  0x02,
				DP: 0x03,
				X:  0x0405,
				Y:  0x0607,
				U:  0x0809,
				S:  0x0200,
				PC: 0x1000,
				Memory: program(
					program(nil, 0x1000, 0x3F),
					0xFFFA, 0x30, 0x00,
				),
			},
			Output: testMachineState{
				A:  0x01,
				B:  0x02,
				DP: 0x03,
				X:  0x0405,
				Y:  0x0607,
				U:  0x0809,
				S:  0x01F4,
				CC: machine.FLAG_ENTIRE | machine.FLAG_FIRQ | machine.FLAG_IRQ,
				PC: 0x3000,
				Memory: program(nil, 0x01F4,
					0x80,       // CC
					0x01,       // A
					0x02,       // B
					0x03,       // DP
					0x04, 0x05, // X
					0x06, 0x07, // Y
					0x08, 0x09, // U
					0x10, 0x01, // PC
				),
			},
		},
		{
			Name: "RTI entire",
			Input: testMachineState{
				S:  0x01F4,
				PC: 0x3000,
				Memory: program(
					program(nil, 0x01F4,
						0x80, 0x01, 0x02, 0x03,
						0x04, 0x05, 0x06, 0x07, 0x08, 0x09,
						0x10, 0x01,
					),
					0x3000, 0x3B,
				),
			},
			Output: testMachineState{
				A:  0x01,
				B:  0x02,
				DP: 0x03,
				X:  0x0405,
				Y:  0x0607,
				U:  0x0809,
				S:  0x0200,
				CC: machine.FLAG_ENTIRE,
				PC: 0x1001,
			},
		},
		{
			Name: "RTI fast",
			Input: testMachineState{
				S:  0x01FD,
				PC: 0x3000,
				Memory: program(
					program(nil, 0x01FD, 0x01, 0x20, 0x00),
					0x3000, 0x3B,
				),
			},
			Output: testMachineState{
				S:  0x0200,
				CC: machine.FLAG_CARRY,
				PC: 0x2000,
			},
		},
		{
			Name: "SWI2 unmasked",
			Input: testMachineState{
				S:  0x0200,
				PC: 0x1000,
				Memory: program(
					program(nil, 0x1000, 0x10, 0x3F),
					0xFFF4, 0x30, 0x00,
				),
			},
			Output: testMachineState{
				S:  0x01F4,
				CC: machine.FLAG_ENTIRE,
				PC: 0x3000,
				Memory: map[uint16]uint8{
					0x01F4: 0x80,
					0x01FE: 0x10,
					0x01FF: 0x02,
				},
			},
		},
		{
			Name: "Illegal instruction",
			Input: testMachineState{
				S:  0x0200,
				PC: 0x1000,
				Memory: program(
					program(nil, 0x1000, 0x01),
					0xFFF0, 0x40, 0x00,
				),
			},
			Output: testMachineState{
				MD: machine.MD_ILLEGAL,
				S:  0x01F4,
				CC: machine.FLAG_ENTIRE | machine.FLAG_FIRQ | machine.FLAG_IRQ,
				PC: 0x4000,
				Memory: map[uint16]uint8{
					0x01F4: 0x80,
					0x01FE: 0x10,
					0x01FF: 0x01,
				},
			},
		},
		{
			Name: "LDMD",
			Input: testMachineState{
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0x11, 0x3D, 0x01),
			},
			Output: testMachineState{
				MD: machine.MD_NATIVE,
				PC: 0x1003,
			},
		},
	})
}

func TestACIA(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:     "Transmit",
			Steps:    4,
			Transmit: "h",
			Input: testMachineState{
				PC: 0x1000,
				Memory: program(nil, 0x1000,
					0x86, 0x0A, // LDA #$0A
					0xB7, 0xA0, 0x00, // STA $A000
					0x86, 0x68, // LDA #'h'
					0xB7, 0xA0, 0x01, // STA $A001
				),
			},
			Output: testMachineState{
				A:  0x68,
				PC: 0x100A,
			},
		},
		{
			Name:    "Receive",
			Steps:   3,
			Receive: "x",
			Input: testMachineState{
				PC: 0x1000,
				Memory: program(nil, 0x1000,
					0x86, 0x0A, // LDA #$0A
					0xB7, 0xA0, 0x00, // STA $A000
					0xF6, 0xA0, 0x01, // LDB $A001
				),
			},
			Output: testMachineState{
				A:  0x0A,
				B:  'x',
				PC: 0x1008,
			},
		},
		{
			Name:    "Status",
			Steps:   3,
			Receive: "x",
			Input: testMachineState{
				PC: 0x1000,
				Memory: program(nil, 0x1000,
					0x86, 0x0A, // LDA #$0A
					0xB7, 0xA0, 0x00, // STA $A000
					0xF6, 0xA0, 0x00, // LDB $A000
				),
			},
			Output: testMachineState{
				A:  0x0A,
				B:  machine.ACIA_SR_TDRE | machine.ACIA_SR_RDRF,
				PC: 0x1008,
			},
		},
		{
			Name:    "Held in reset",
			Steps:   1,
			Receive: "x",
			Input: testMachineState{
				PC:     0x1000,
				Memory: program(nil, 0x1000, 0xF6, 0xA0, 0x00),
			},
			Output: testMachineState{
				CC: machine.FLAG_ZERO,
				PC: 0x1003,
			},
		},
		{
			Name:    "Receive interrupt",
			Steps:   2,
			Receive: "x",
			Input: testMachineState{
				S:  0x0200,
				PC: 0x1000,
				Memory: program(
					program(nil, 0x1000,
						0x86, 0x8A, // LDA #$8A
						0xB7, 0xA0, 0x00, // STA $A000
					),
					0xFFF8, 0x50, 0x00,
				),
			},
			Output: testMachineState{
				A:  0x8A,
				S:  0x01F4,
				CC: machine.FLAG_ENTIRE | machine.FLAG_IRQ | machine.FLAG_NEG,
				PC: 0x5000,
				Memory: map[uint16]uint8{
					0x01F4: 0x88,
					0x01F5: 0x8A,
					0x01FE: 0x10,
					0x01FF: 0x05,
				},
			},
		},
	})
}
