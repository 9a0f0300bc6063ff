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
	"encoding/gob"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/lassandro/go6809/pkg/assembler"
	"github.com/lassandro/go6809/pkg/debugger"
	"github.com/lassandro/go6809/pkg/encoding"
	"github.com/lassandro/go6809/pkg/m6809"
	"github.com/lassandro/go6809/pkg/machine"
)

var helpvar bool
var debugvar bool
var basevar string
var aciavar string
var portvar string
var baudvar int

var imagepath string
var shouldexit atomic.Bool

const usage = "run6809 [-debug] [-base $####] [-acia $####] " +
	"[-port device [-baud rate]] filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.StringVar(
		&basevar, "base", "",
		"Load address of a flat binary, by default the binary ends at $FFFF",
	)
	flag.StringVar(
		&aciavar, "acia", "$A000", "Base address of the 6850 ACIA",
	)
	flag.StringVar(
		&portvar, "port", "",
		"Connects the ACIA to a host serial port instead of the terminal",
	)
	flag.IntVar(&baudvar, "baud", 2400, "Baud rate of the host serial port")
	flag.Parse()
}

func isSRecord(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".s19", ".srec", ".mot":
		return true
	}

	return false
}

// load resets the machine with the image at path.
func load(mc *machine.Machine, path string) error {
	file, err := os.Open(path)

	if err != nil {
		return err
	}

	defer file.Close()

	if isSRecord(path) {
		image, entry, err := encoding.ReadSRecord(file)

		if err != nil {
			return err
		}

		mc.LoadImage(image)

		if _, ok := image.Read(m6809.VECTOR_RESET); !ok && entry != 0 {
			mc.State.PC = entry
		}

		return nil
	}

	var base uint16

	if basevar != "" {
		if base, err = encoding.DecodeAddress(basevar); err != nil {
			return err
		}
	} else {
		stat, err := file.Stat()

		if err != nil {
			return err
		}

		if stat.Size() > 0x10000 {
			return fmt.Errorf("%s exceeds the address space", filepath.Base(path))
		}

		base = uint16(0x10000 - stat.Size())
	}

	return mc.LoadBin(bufio.NewReader(file), base)
}

func loadDebugInfo(path string) (*assembler.DebugInfo, error) {
	filename := filepath.Join(
		filepath.Dir(path),
		strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".dbg6809",
	)

	file, err := os.Open(filename)

	if err != nil {
		return nil, err
	}

	defer file.Close()

	var info assembler.DebugInfo

	if err := gob.NewDecoder(file).Decode(&info); err != nil {
		return nil, err
	}

	return &info, nil
}

func run6809() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	imagepath = args[0]

	aciabase, err := encoding.DecodeAddress(aciavar)

	if err != nil {
		log.Println(err)
		return 1
	}

	var mc machine.Machine

	if err := load(&mc, imagepath); err != nil {
		log.Println(err)
		return 1
	}

	receive := make(chan byte, 64)
	var transmit io.Writer = os.Stdout

	defer exitRawTerm()

	if portvar != "" {
		port, err := openPort(portvar, baudvar)

		if err != nil {
			log.Println(err)
			return 1
		}

		defer port.Close()

		transmit = port
		go readPort(port, receive)
	} else {
		enterRawTerm()
		go readStdin(receive)
	}

	mc.Devices = &machine.DeviceHandler{
		ACIA: machine.NewACIA(aciabase, receive, transmit),
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer signal.Stop(c)

	if debugvar {
		var dbg debugger.Debugger
		dbg.HandleBreak = handleBreak
		dbg.HandleRead = handleRead
		dbg.HandleWrite = handleWrite
		mc.Debugger = &dbg

		if info, err := loadDebugInfo(imagepath); err == nil {
			dbg.Info = info
		} else {
			log.Println("Error loading debug info")
			log.Println(err)
		}

		go func() {
			for range c {
				fmt.Println()
				dbg.Break = true
			}
		}()

		debugREPL(&dbg, &mc)
	} else {
		go func() {
			<-c
			shouldexit.Store(true)
		}()
	}

	for !shouldexit.Load() {
		mc.Step()

		if err := mc.Devices.ACIA.Err(); err != nil {
			log.Println(err)
			return 1
		}
	}

	return 0
}

func main() {
	os.Exit(run6809())
}
