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
	"strings"
	"testing"

	"github.com/lassandro/go6809/pkg/assembler"
	"github.com/lassandro/go6809/pkg/bootmon"
	"github.com/lassandro/go6809/pkg/machine"
)

func TestBootmon(t *testing.T) {
	result, err := assembler.Assemble(bootmon.New(bootmon.DefaultConfig()))

	if err != nil {
		t.Fatal(err)
	}

	var transmitBuf bytes.Buffer
	var mc machine.Machine

	mc.Devices = &machine.DeviceHandler{
		ACIA: machine.NewACIA(bootmon.ACIA_BASE, nil, &transmitBuf),
	}

	mc.LoadImage(result.Image)

	if reset, _ := result.Symbols.Lookup("RESET"); mc.State.PC != reset {
		t.Fatalf(
			"Reset vector mismatch\nwant:%#04x\nhave:%#04x",
			reset,
			mc.State.PC,
		)
	}

	// Eleven instructions of setup, then six per transmitted character
	for i := 0; i < 11+6*3; i++ {
		mc.Step()
	}

	if have := transmitBuf.String(); have != "hhh" {
		t.Fatalf("Transmit output mismatch\nwant:%q\nhave:%q", "hhh", have)
	}

	if mc.State.MD != machine.MD_NATIVE {
		t.Fatalf("Mode register\nwant:%#02x\nhave:%#02x", machine.MD_NATIVE, mc.State.MD)
	}

	if mc.State.S != bootmon.STACK_BASE {
		t.Fatalf("Stack pointer\nwant:%#04x\nhave:%#04x", bootmon.STACK_BASE, mc.State.S)
	}
}

func TestLoadBin(t *testing.T) {
	var mc machine.Machine

	rom := make([]byte, 0x4000)
	copy(rom, []byte{0x12, 0x20, 0xFD})
	rom[0x3FFE] = 0xC0
	rom[0x3FFF] = 0x00

	if err := mc.LoadBin(bytes.NewReader(rom), 0xC000); err != nil {
		t.Fatal(err)
	}

	if mc.State.PC != 0xC000 {
		t.Fatalf("Reset vector mismatch\nwant:0xc000\nhave:%#04x", mc.State.PC)
	}

	mc.Step()
	mc.Step()

	if mc.State.PC != 0xC000 {
		t.Fatalf("Program counter\nwant:0xc000\nhave:%#04x", mc.State.PC)
	}

	err := mc.LoadBin(strings.NewReader(string(rom)+"x"), 0xC000)

	if err == nil {
		t.Fatal("Oversized binary loaded")
	}
}
