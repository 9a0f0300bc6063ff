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

package main

import (
	"bufio"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lassandro/go6809/pkg/debugger"
	"github.com/lassandro/go6809/pkg/encoding"
	"github.com/lassandro/go6809/pkg/machine"
)

var lastcmd []string

// count parses a positive line or byte count.
func count(arg string) (uint16, error) {
	value, err := encoding.DecodeInt(arg)

	if err != nil {
		return 0, err
	}

	if value <= 0 {
		return 0, fmt.Errorf("Invalid count %d", value)
	}

	return uint16(value), nil
}

// resolve accepts a label or a hex address.
func resolve(dbg *debugger.Debugger, arg string) (uint16, error) {
	if addr, ok := dbg.Lookup(arg); ok {
		return addr, nil
	}

	return encoding.DecodeHex(arg)
}

func debugBreak(dbg *debugger.Debugger, args []string) {
	const usage = "break [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [$####|label]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		addr, err := resolve(dbg, args[0])

		if err != nil {
			log.Println(err)
			return
		}

		for _, breakpoint := range dbg.Breakpoints {
			if breakpoint.Addr == addr {
				return
			}
		}

		dbg.Breakpoints = append(dbg.Breakpoints, debugger.Breakpoint{Addr: addr})
		fmt.Printf("Breakpoint added [%#04x]\n", addr)

	case "l", "ls", "list":
		if len(args) != 0 {
			log.Println("break list")
			return
		}

		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Breakpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: %%#04x\n", int64(digits)+1)
		}

		for i, breakpoint := range dbg.Breakpoints {
			fmt.Printf(fmtstring, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Breakpoints)) {
			log.Println("Invalid breakpoint number")
			return
		}

		dbg.Breakpoints = append(dbg.Breakpoints[:i], dbg.Breakpoints[i+1:]...)
		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = nil
		fmt.Println("Breakpoints reset")

	default:
		log.Printf("break: '%s' is not a valid command\n%s\n", cmd, usage)
	}
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	typenames := map[debugger.WatchpointType]string{
		debugger.ReadWatch:      "read",
		debugger.WriteWatch:     "write",
		debugger.ReadWriteWatch: "readwrite",
	}

	switch cmd {
	case "a", "add":
		const usage = "watch add [$####|label] [read|write|readwrite]"

		if len(args) != 2 {
			log.Println(usage)
			return
		}

		addr, err := resolve(dbg, args[0])

		if err != nil {
			log.Println(err)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			log.Println(usage)
			return
		}

		for _, watchpoint := range dbg.Watchpoints {
			if watchpoint.Addr == addr && watchpoint.Type == wtype {
				return
			}
		}

		dbg.Watchpoints = append(
			dbg.Watchpoints, debugger.Watchpoint{Addr: addr, Type: wtype},
		)

		fmt.Printf("Watchpoint added [%#04x] (%s)\n", addr, typenames[wtype])

	case "l", "ls", "list":
		if len(args) != 0 {
			log.Println("watch list")
			return
		}

		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Watchpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: %%#04x %%s\n", int64(digits)+1)
		}

		for i, watchpoint := range dbg.Watchpoints {
			fmt.Printf(fmtstring, i, watchpoint.Addr, typenames[watchpoint.Type])
		}

	case "r", "rm", "remove":
		const usage = "watch remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Watchpoints)) {
			log.Println("Invalid watchpoint number")
			return
		}

		dbg.Watchpoints = append(dbg.Watchpoints[:i], dbg.Watchpoints[i+1:]...)
		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = nil
		fmt.Println("Watchpoints reset")

	default:
		log.Printf("watch: '%s' is not a valid command\n%s\n", cmd, usage)
	}
}

func debugReg(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "register [A|B|D|DP|CC|MD|X|Y|U|S|PC] [$####]"

	if len(args) == 0 {
		dbg.PrintRegisters(mc)
		return
	}

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	value, err := encoding.DecodeHex(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	name := strings.ToUpper(args[0])

	bytereg := map[string]*uint8{
		"A": &mc.A, "B": &mc.B, "DP": &mc.DP, "CC": &mc.CC, "MD": &mc.MD,
	}
	wordreg := map[string]*uint16{
		"X": &mc.X, "Y": &mc.Y, "U": &mc.U, "S": &mc.S, "PC": &mc.PC,
	}

	if reg, ok := bytereg[name]; ok {
		if value > 0xFF {
			log.Printf("%s is an 8-bit register", name)
			return
		}
		*reg = uint8(value)
	} else if reg, ok := wordreg[name]; ok {
		*reg = value
	} else if name == "D" {
		mc.SetD(value)
	} else {
		log.Println("Invalid register")
		return
	}

	fmt.Printf("\033[1m%s:\033[0m %#04x\n", name, value)
}

func debugSource(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "source [$####|label] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	var addr uint16 = mc.PC
	var size uint16 = 3

	if len(args) > 0 {
		var err error

		if addr, err = resolve(dbg, args[0]); err != nil {
			value, err := count(args[0])

			if err != nil {
				log.Println(err)
				return
			}

			addr = mc.PC
			size = value
		}
	}

	if len(args) > 1 {
		value, err := count(args[1])

		if err != nil {
			log.Println(err)
			return
		}

		size = value
	}

	dbg.PrintSource(addr, size)
}

func debugLabels(dbg *debugger.Debugger, args []string) {
	if len(args) > 0 {
		fmt.Println("labels")
		return
	}

	if dbg.Info == nil {
		fmt.Println("No debug info loaded")
		return
	}

	for _, addr := range dbg.Labels() {
		fmt.Printf(
			"\033[1m[%#04x]\033[0m %s\n",
			addr, strings.Join(dbg.Info.Labels[addr], " "),
		)
	}
}

func debugJump(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "jump [$####|label]"

	if len(args) != 1 {
		fmt.Println(usage)
		return
	}

	addr, err := resolve(dbg, args[0])

	if err != nil {
		fmt.Printf("Unable to find '%s'\n", args[0])
		return
	}

	mc.PC = addr
	fmt.Printf("\033[1mPC:\033[0m %#04x\n", addr)
}

func debugMemory(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "memory [$####|label|#] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	var size uint16 = 1
	var addr uint16 = mc.PC

	if len(args) > 0 {
		var err error

		if addr, err = resolve(dbg, args[0]); err != nil {
			value, err := count(args[0])

			if err != nil {
				log.Println(err)
				return
			}

			addr = mc.PC
			size = value
		}
	}

	if len(args) > 1 {
		value, err := count(args[1])

		if err != nil {
			log.Println(err)
			return
		}

		size = value
	}

	dbg.PrintMem(mc, addr, size)
}

func debugSet(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "set [$####|label] [$##]"

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	addr, err := resolve(dbg, args[0])

	if err != nil {
		log.Println(err)
		return
	}

	value, err := encoding.DecodeHex(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	if value > 0xFF {
		log.Println("Memory holds 8-bit values")
		return
	}

	mc.Memory[addr] = uint8(value)
	dbg.PrintMem(mc, addr, 1)
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	stdinLock.Lock()
	defer stdinLock.Unlock()

	exitRawTerm()
	defer enterRawTerm()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\033[1;30m(dbg)\033[0m ")

		if !scanner.Scan() {
			fmt.Println()
			shouldexit.Store(true)
			return
		}

		args := strings.Fields(scanner.Text())

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "r", "reg", "register", "registers":
			debugReg(dbg, &mc.State, args)

		case "s", "src", "source":
			debugSource(dbg, &mc.State, args)

		case "l", "label", "labels":
			debugLabels(dbg, args)

		case "j", "jmp", "jump":
			debugJump(dbg, &mc.State, args)

		case "m", "mem", "memory":
			debugMemory(dbg, &mc.State, args)

		case "set":
			debugSet(dbg, &mc.State, args)

		case "c", "continue":
			dbg.Break = false
			return

		case "n", "next":
			dbg.Break = true
			return

		case "q", "quit", "exit":
			shouldexit.Store(true)
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		case "reset":
			if err := load(mc, imagepath); err != nil {
				log.Println(err)
			} else {
				dbg.PrintRegisters(&mc.State)
			}

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	if !dbg.Break {
		fmt.Println()
		fmt.Println("Program stopped")
		dbg.PrintSource(mc.State.PC, 8)
	}
	debugREPL(dbg, mc)
}

func handleRead(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Program stopped")
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}

func handleWrite(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Program stopped")
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}
