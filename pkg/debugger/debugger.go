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

package debugger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/lassandro/go6809/pkg/machine"
)

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.Break {
		dbg.HandleBreak(dbg, mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.PC == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Read(addr uint16, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleRead(addr, dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Write(addr uint16, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleWrite(addr, dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) output() io.Writer {
	if dbg.Output == nil {
		return os.Stdout
	}

	return dbg.Output
}

// Lookup returns the address of a label.
func (dbg *Debugger) Lookup(label string) (uint16, bool) {
	if dbg.Info == nil {
		return 0, false
	}

	for addr, names := range dbg.Info.Labels {
		for _, name := range names {
			if name == label {
				return addr, true
			}
		}
	}

	return 0, false
}

// Labels returns the labelled addresses in ascending order.
func (dbg *Debugger) Labels() []uint16 {
	if dbg.Info == nil {
		return nil
	}

	keys := make([]uint16, 0, len(dbg.Info.Labels))

	for addr := range dbg.Info.Labels {
		keys = append(keys, addr)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}

// PrintSource prints count listing lines starting at the first instruction
// at or after addr.
func (dbg *Debugger) PrintSource(addr uint16, count uint16) {
	w := dbg.output()

	if dbg.Info == nil {
		fmt.Fprintln(w, "No debug info loaded")
		return
	}

	lines := make([]uint16, 0, len(dbg.Info.Lines))

	for lineaddr := range dbg.Info.Lines {
		if lineaddr >= addr {
			lines = append(lines, lineaddr)
		}
	}

	if len(lines) == 0 {
		fmt.Fprintf(w, "No instruction found at %#04x\n", addr)
		return
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })

	for i, lineaddr := range lines {
		if i == int(count) {
			break
		}

		if labels, exists := dbg.Info.Labels[lineaddr]; exists {
			fmt.Fprintf(w, "\033[1;30m%s:\033[0m\n", strings.Join(labels, " "))
		}

		fmt.Fprintf(w, "\033[1m[%#04x]\033[0m %s\n", lineaddr, dbg.Info.Lines[lineaddr])
	}
}

func (dbg *Debugger) PrintMem(mc *machine.MachineState, addr, count uint16) {
	w := dbg.output()

	for i := uint16(0); i < count; i++ {
		at := addr + i

		if i == 0 {
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", at)
		} else if i%8 == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", at)
		}

		result := mc.Memory[at]

		if result == 0 {
			fmt.Fprintf(w, "\033[1;30m%#02x\033[0m ", result)
		} else {
			fmt.Fprintf(w, "%#02x ", result)
		}
	}

	fmt.Fprintln(w)
}

func (dbg *Debugger) PrintRegisters(mc *machine.MachineState) {
	w := dbg.output()

	fmt.Fprintf(
		w,
		"\033[1mA:\033[0m %#02x\t\033[1mB:\033[0m %#02x\t"+
			"\033[1mDP:\033[0m %#02x\t\033[1mMD:\033[0m %#02x\n",
		mc.A, mc.B, mc.DP, mc.MD,
	)

	fmt.Fprintf(
		w,
		"\033[1mX:\033[0m %#04x\t\033[1mY:\033[0m %#04x\t"+
			"\033[1mU:\033[0m %#04x\t\033[1mS:\033[0m %#04x\n",
		mc.X, mc.Y, mc.U, mc.S,
	)

	flags := []byte("EFHINZVC")

	for bit := range flags {
		if mc.CC&(0x80>>bit) == 0 {
			flags[bit] = '-'
		}
	}

	fmt.Fprintf(
		w, "\033[1mPC:\033[0m %#04x\t\033[1mCC:\033[0m %s\n", mc.PC, flags,
	)
}
