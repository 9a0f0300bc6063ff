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
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/lassandro/go6809/pkg/assembler"
	"github.com/lassandro/go6809/pkg/bootmon"
	"github.com/lassandro/go6809/pkg/encoding"
	"github.com/lassandro/go6809/pkg/m6809"
	"github.com/lassandro/go6809/pkg/script"
)

var helpvar bool
var debugvar bool
var listvar bool
var bootmonvar bool
var outvar string
var formatvar string
var fillvar string

const usage = "asm6809 [-debug] [-list] [-format bin|srec] [-out outfile] " +
	"(-bootmon | filename.lua)"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information. The labels "+
			"and listing will use the output filename with extension "+
			"'.dbg6809'",
	)
	flag.BoolVar(
		&listvar, "list", false,
		"Writes an assembly listing next to the output file with "+
			"extension '.lst'",
	)
	flag.BoolVar(
		&bootmonvar, "bootmon", false,
		"Assembles the built-in serial boot monitor instead of a script",
	)
	flag.StringVar(
		&outvar, "out", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	flag.StringVar(
		&formatvar, "format", "bin",
		"Output format: 'bin' for a flat binary from the lowest assembled "+
			"address, 'srec' for Motorola S-records",
	)
	flag.StringVar(
		&fillvar, "fill", "$FF",
		"Byte written to the gaps of a flat binary",
	)
	flag.Parse()
}

// sibling replaces the extension of path.
func sibling(path, ext string) string {
	return filepath.Join(
		filepath.Dir(path),
		strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+ext,
	)
}

func defaultExt() string {
	if formatvar == "srec" {
		return ".s19"
	}

	return ".bin"
}

// load builds and assembles the program named by the command line.
func load(args []string) (*assembler.Result, bool) {
	if bootmonvar {
		log.SetPrefix("\033[1mbootmon:\033[0m ")

		if outvar == "" {
			outvar = "bootmon" + defaultExt()
		}

		config := bootmon.DefaultConfig()
		config.Diagnose = func(d assembler.Diagnostic) {
			log.Printf("Transmit loop ends at %#04x", d.Address)
		}

		result, err := assembler.Assemble(bootmon.New(config))

		if err != nil {
			log.Println(err)
			return nil, false
		}

		return result, true
	}

	s := script.New(m6809.Set())
	defer s.Close()

	if !term.IsTerminal(int(os.Stdin.Fd())) && len(args) == 0 {
		log.SetPrefix("\033[1m<stdin>:\033[0m ")

		if outvar == "" {
			outvar = "out" + defaultExt()
		}

		source, err := io.ReadAll(os.Stdin)

		if err != nil {
			log.Println(err)
			return nil, false
		}

		if err := s.DoString(string(source)); err != nil {
			log.Println(err)
			return nil, false
		}
	} else {
		if len(args) != 1 {
			log.Println(usage)
			return nil, false
		}

		filename := filepath.Base(args[0])

		if stat, err := os.Stat(args[0]); err != nil {
			log.Println(err)
			return nil, false
		} else if stat.IsDir() {
			log.Printf("%s is not a valid Lua program", filename)
			return nil, false
		}

		log.SetPrefix(fmt.Sprintf("\033[1m%s:\033[0m ", filename))

		if outvar == "" {
			outvar = sibling(args[0], defaultExt())
		}

		if err := s.DoFile(args[0]); err != nil {
			log.Println(err)
			return nil, false
		}
	}

	result, err := s.Assemble()

	if err != nil {
		log.Println(err)
		return nil, false
	}

	return result, true
}

func writeImage(result *assembler.Result) error {
	file, err := os.Create(outvar)

	if err != nil {
		return err
	}

	defer file.Close()

	writer := bufio.NewWriter(file)
	regions := result.Image.Regions()

	switch formatvar {
	case "bin":
		fill, err := encoding.DecodeAddress(fillvar)

		if err != nil || fill > 0xFF {
			return fmt.Errorf("Invalid fill byte '%s'", fillvar)
		}

		base, err := encoding.WriteBinary(writer, regions, byte(fill))

		if err != nil {
			return err
		}

		log.Printf("Image base %#04x", base)
	case "srec":
		var entry uint16

		hi, hiok := result.Image.Read(m6809.VECTOR_RESET)
		lo, look := result.Image.Read(m6809.VECTOR_RESET + 1)

		if hiok && look {
			entry = uint16(hi)<<8 | uint16(lo)
		}

		if err := encoding.WriteSRecord(
			writer, regions, filepath.Base(outvar), entry,
		); err != nil {
			return err
		}
	default:
		return fmt.Errorf("Unknown output format '%s'", formatvar)
	}

	return writer.Flush()
}

func asm6809() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	result, ok := load(flag.Args())

	if !ok {
		return 1
	}

	if err := writeImage(result); err != nil {
		log.Println("Error writing output file")
		log.Println(err)
		return 1
	}

	if listvar {
		file, err := os.Create(sibling(outvar, ".lst"))

		if err != nil {
			log.Println("Error creating listing")
			log.Println(err)
			return 1
		}

		writer := bufio.NewWriter(file)

		err = result.WriteListing(writer)

		if err == nil {
			err = writer.Flush()
		}

		file.Close()

		if err != nil {
			log.Println("Error writing listing")
			log.Println(err)
			return 1
		}
	}

	if debugvar {
		if file, err := os.Create(sibling(outvar, ".dbg6809")); err == nil {
			if err := gob.NewEncoder(file).Encode(result.DebugInfo()); err != nil {
				log.Println("Error writing debug info")
				log.Println(err)
				file.Close()
				return 1
			}

			file.Close()
		} else {
			log.Println("Error creating debug info")
			log.Println(err)
			return 1
		}
	}

	return 0
}

func main() {
	os.Exit(asm6809())
}
