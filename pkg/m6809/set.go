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

// Package m6809 holds the Motorola 6809 opcode data, with the Hitachi 6309
// LDMD extension, for use with the assembler.
package m6809

import (
	"sort"
	"strings"
	"sync"

	"github.com/lassandro/go6809/pkg/assembler"
)

type instructionSet struct {
	once   sync.Once
	byName map[string]*assembler.Mnemonic
	sorted []*assembler.Mnemonic
}

var set = &instructionSet{}

// Set returns the 6809 instruction set.
func Set() assembler.InstructionSet {
	return set
}

func (s *instructionSet) index() {
	s.once.Do(func() {
		s.byName = make(map[string]*assembler.Mnemonic, len(table)+len(aliases))
		s.sorted = make([]*assembler.Mnemonic, len(table))

		for _, m := range table {
			s.byName[m.Name] = m
		}

		for name, m := range aliases {
			s.byName[name] = m
		}

		copy(s.sorted, table)

		sort.Slice(s.sorted, func(i, j int) bool {
			return s.sorted[i].Name < s.sorted[j].Name
		})
	})
}

func (s *instructionSet) Lookup(name string) (*assembler.Mnemonic, bool) {
	s.index()
	m, ok := s.byName[strings.ToUpper(name)]
	return m, ok
}

func (s *instructionSet) Mnemonics() []*assembler.Mnemonic {
	s.index()
	return s.sorted
}

func (s *instructionSet) LookupRegister(name string) (assembler.Register, bool) {
	return lookupRegister(name)
}

func (s *instructionSet) RegisterName(reg assembler.Register) string {
	return registerName(reg)
}

func (s *instructionSet) EncodeIndexed(op assembler.Indexed) ([]byte, error) {
	return encodeIndexed(op)
}

func (s *instructionSet) EncodeRegisters(m *assembler.Mnemonic, mode assembler.Mode, regs assembler.Registers) ([]byte, error) {
	return encodeRegisters(m, mode, regs)
}
