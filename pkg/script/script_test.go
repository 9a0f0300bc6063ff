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

package script_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lassandro/go6809/pkg/assembler"
	"github.com/lassandro/go6809/pkg/bootmon"
	"github.com/lassandro/go6809/pkg/m6809"
	"github.com/lassandro/go6809/pkg/script"
)

type testCase struct {
	Name   string
	Source string
	Output []byte
}

type failCase struct {
	Name   string
	Source string
	Error  string
}

func assemble(t *testing.T, source string) (*assembler.Result, error) {
	s := script.New(m6809.Set())
	defer s.Close()

	if err := s.DoString(source); err != nil {
		return nil, err
	}

	return s.Assemble()
}

func runTests(t *testing.T, tests []testCase) {
	for _, test := range tests {
		result, err := assemble(t, "org(0x1000)\n"+test.Source)

		if err != nil {
			t.Fatalf("%s\n%s", test.Name, err)
		}

		have := make([]byte, len(test.Output))
		result.Image.Fill(have, 0x1000)

		if !bytes.Equal(have, test.Output) || result.Image.Len() != len(test.Output) {
			t.Fatalf(
				"%s\nwant:% X\nhave:% X (%d bytes)",
				test.Name, test.Output, have, result.Image.Len(),
			)
		}
	}
}

func runFailures(t *testing.T, tests []failCase) {
	for _, test := range tests {
		_, err := assemble(t, "org(0x1000)\n"+test.Source)

		if err == nil {
			t.Fatalf("%s\nwant:%s\nhave:<nil>", test.Name, test.Error)
		}

		if !strings.Contains(err.Error(), test.Error) {
			t.Fatalf("%s\nwant:%s\nhave:%s", test.Name, test.Error, err)
		}
	}
}

func TestOperands(t *testing.T) {
	runTests(t, []testCase{
		{"Immediate", `LDA(3)`, []byte{0x86, 0x03}},
		{"Character", `LDA(imm("h"))`, []byte{0x86, 0x68}},
		{"Extended", `LDA(ext(0x2000))`, []byte{0xB6, 0x20, 0x00}},
		{"Direct", `LDA(dir(0x20))`, []byte{0x96, 0x20}},
		{"Bare extended", `JMP(0x1000)`, []byte{0x7E, 0x10, 0x00}},
		{"Accumulator offset", `LDA(idx("X", "B"))`, []byte{0xA6, 0x85}},
		{"Constant offset", `LDA(idx("x", 5))`, []byte{0xA6, 0x05}},
		{"No offset", `LDA(idx("X"))`, []byte{0xA6, 0x84}},
		{"Register list", `PSHS(regs("A", "B"))`, []byte{0x34, 0x06}},
		{"Register pair", `TFR(regs("A", "B"))`, []byte{0x1F, 0x89}},
		{"Inherent with comment", `NOP("Do nothing")`, []byte{0x12}},
		{"Inherent with short comment", `NOP("x")`, []byte{0x12}},
		{"Character with comment", `LDA("h", "load")`, []byte{0x86, 0x68}},
		{"Alias", `emit("LSLA")`, []byte{0x48}},
		{
			"Label branch",
			`local L = label("L") define(L) BRA(L)`,
			[]byte{0x20, 0xFE},
		},
		{"Address branch", `BEQ(0x1000)`, []byte{0x27, 0xFE}},
		{
			"Label operand",
			`JSR(label("SUB")) define("SUB") RTS()`,
			[]byte{0xBD, 0x10, 0x03, 0x39},
		},
	})
}

func TestDirectives(t *testing.T) {
	runTests(t, []testCase{
		{"Bytes", `fcb(1, 2, "h", "bytes")`, []byte{0x01, 0x02, 0x68}},
		{"Byte table", `fcb{0xFF, 0}`, []byte{0xFF, 0x00}},
		{"Words", `fdb{0x1234, 5}`, []byte{0x12, 0x34, 0x00, 0x05}},
		{
			"Label words",
			`local L = label("L") define(L) fdb(L, L)`,
			[]byte{0x10, 0x00, 0x10, 0x00},
		},
		{"String", `fcc("hi")`, []byte{0x68, 0x69}},
		{"Direct page", `setdp(0x10) LDA(dir(0x1020))`, []byte{0x96, 0x20}},
		{"Pad", `pad(0x1002) RTS()`, []byte{0x12, 0x12, 0x39}},
		{"Pad filler", `pad(0x1001, "SWI")`, []byte{0x3F}},
	})
}

func TestExtension(t *testing.T) {
	runTests(t, []testCase{
		{
			"Fill to address",
			`extension(function(cursor)
				if cursor >= 0x1003 then
					return true
				end
				NOP()
				return false
			end)
			RTS()`,
			[]byte{0x12, 0x12, 0x12, 0x39},
		},
		{
			"Label inside extension",
			`extension(function(cursor)
				define("INNER")
				fcb(1)
				return true
			end)
			BRA(label("INNER"))`,
			[]byte{0x01, 0x20, 0xFD},
		},
	})

	runFailures(t, []failCase{
		{
			"Directive inside extension",
			`extension(function() org(0x2000) return true end)`,
			"not allowed inside an extension",
		},
		{
			"Print inside extension",
			`extension(function(cursor) print("at", cursor) NOP() return true end)`,
			"print: not allowed inside an extension",
		},
		{
			"Lua error",
			`extension(function() error("bad cursor") end)`,
			"bad cursor",
		},
	})
}

func TestFailure(t *testing.T) {
	runFailures(t, []failCase{
		{"Syntax", `LDA(`, "<string>"},
		{"Register", `LDA(idx("Q"))`, `unknown register "Q"`},
		{"Mnemonic", `emit("FOO")`, `unknown mnemonic "FOO"`},
		{"Address", `org(0x10000)`, "out of range"},
		{"Operand", `LDA({})`, "expected an operand"},
		{"Fractional byte", `fcb(1.5)`, "expected an integer"},
		{"Fractional operand", `LDA(2.5)`, "expected an operand"},
		{"Fractional table", `fdb{0x1000, 0.25}`, "element 2 is not a value"},
		{"Fractional offset", `LDA(idx("X", 0.5))`, "an integer"},
		{"Fractional address", `org(4096.5)`, "out of range"},
		{"Undefined", `BRA(label("nowhere"))`, "Unknown label 'nowhere'"},
		{"Diagnostic", `diagnose(function() error("boom") end)`, "boom"},
	})
}

func TestExtensionOutput(t *testing.T) {
	var out bytes.Buffer

	s := script.New(m6809.Set())
	defer s.Close()

	s.Output = &out

	if err := s.DoString(`
		org(0xC000)
		extension(function(cursor)
			print(string.format("at %04X", cursor))
			NOP()
			return true
		end)
	`); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Assemble(); err == nil {
		t.Fatalf("Print inside extension\nwant:error\nhave:<nil>")
	}

	if out.Len() != 0 {
		t.Fatalf("Extension output\nwant:%q\nhave:%q", "", out.String())
	}
}

func TestBootmon(t *testing.T) {
	var out bytes.Buffer

	s := script.New(m6809.Set())
	defer s.Close()

	s.Output = &out

	if err := s.DoFile("testdata/bootmon.lua"); err != nil {
		t.Fatal(err)
	}

	have, err := s.Assemble()

	if err != nil {
		t.Fatal(err)
	}

	want, err := assembler.Assemble(bootmon.New(bootmon.DefaultConfig()))

	if err != nil {
		t.Fatal(err)
	}

	haveRegions := have.Image.Regions()
	wantRegions := want.Image.Regions()

	if len(haveRegions) != len(wantRegions) {
		t.Fatalf(
			"Region count\nwant:%d\nhave:%d", len(wantRegions), len(haveRegions),
		)
	}

	for i := range wantRegions {
		if haveRegions[i].Start != wantRegions[i].Start ||
			!bytes.Equal(haveRegions[i].Data, wantRegions[i].Data) {
			t.Fatalf(
				"Region %d\nwant:%#04x % X\nhave:%#04x % X",
				i,
				wantRegions[i].Start, wantRegions[i].Data,
				haveRegions[i].Start, haveRegions[i].Data,
			)
		}
	}

	if out.String() != "C02C\n" {
		t.Fatalf("Diagnostic output\nwant:%q\nhave:%q", "C02C\n", out.String())
	}

	if addr, ok := have.Symbols.Lookup("WAITR"); !ok || addr != 0xC01C {
		t.Fatalf("WAITR\nwant:0xc01c\nhave:%#04x", addr)
	}
}
