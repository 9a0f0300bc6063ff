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

package assembler

import (
	"sort"
)

type Symbol struct {
	Name     string
	Address  uint16
	Defined  bool
	Position Position
}

// SymTable maps label names to addresses. Entries are created on first
// reference or first definition and are addressed by Handle.
type SymTable struct {
	names   map[string]Handle
	symbols []Symbol
}

func NewSymTable() *SymTable {
	return &SymTable{
		names:   make(map[string]Handle),
		symbols: make([]Symbol, 0, 64),
	}
}

// Reference returns the handle for name, creating an undefined entry when
// the name has not been seen yet.
func (st *SymTable) Reference(name string) Handle {
	if handle, exists := st.names[name]; exists {
		return handle
	}

	st.symbols = append(st.symbols, Symbol{Name: name})
	handle := Handle(len(st.symbols))
	st.names[name] = handle

	return handle
}

func (st *SymTable) Define(handle Handle, addr uint16, pos Position) error {
	sym := st.entry(handle)

	if sym == nil {
		return &UndefinedLabelError{pos, "<invalid>"}
	}

	if sym.Defined {
		return &DuplicateLabelError{pos, sym.Name, sym.Position}
	}

	sym.Address = addr
	sym.Defined = true
	sym.Position = pos

	return nil
}

// rebind replays a definition from an earlier pass; the address must match.
func (st *SymTable) rebind(handle Handle, addr uint16, pos Position) error {
	sym := st.entry(handle)

	if sym == nil || !sym.Defined {
		return &PhaseError{pos, "label bound in the encoding pass only"}
	}

	if sym.Position != pos {
		return &DuplicateLabelError{pos, sym.Name, sym.Position}
	}

	if sym.Address != addr {
		return &PhaseError{
			pos, "label '" + sym.Name + "' moved between passes",
		}
	}

	return nil
}

func (st *SymTable) Resolve(handle Handle, pos Position) (uint16, error) {
	sym := st.entry(handle)

	if sym == nil {
		return 0, &UndefinedLabelError{pos, "<invalid>"}
	}

	if !sym.Defined {
		return 0, &UndefinedLabelError{pos, sym.Name}
	}

	return sym.Address, nil
}

func (st *SymTable) Name(handle Handle) string {
	if sym := st.entry(handle); sym != nil {
		return sym.Name
	}

	return "<invalid>"
}

func (st *SymTable) Lookup(name string) (uint16, bool) {
	handle, exists := st.names[name]

	if !exists {
		return 0, false
	}

	sym := st.entry(handle)

	return sym.Address, sym.Defined
}

// Symbols returns the defined symbols ordered by address, then name.
func (st *SymTable) Symbols() []Symbol {
	result := make([]Symbol, 0, len(st.symbols))

	for _, sym := range st.symbols {
		if sym.Defined {
			result = append(result, sym)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Address != result[j].Address {
			return result[i].Address < result[j].Address
		}
		return result[i].Name < result[j].Name
	})

	return result
}

func (st *SymTable) entry(handle Handle) *Symbol {
	if handle == 0 || int(handle) > len(st.symbols) {
		return nil
	}

	return &st.symbols[handle-1]
}

func (st *SymTable) reset() {
	for i := range st.symbols {
		st.symbols[i].Address = 0
		st.symbols[i].Defined = false
		st.symbols[i].Position = Position{}
	}
}

func (st *SymTable) clone() *SymTable {
	result := &SymTable{
		names:   make(map[string]Handle, len(st.names)),
		symbols: make([]Symbol, len(st.symbols)),
	}

	for name, handle := range st.names {
		result.names[name] = handle
	}

	copy(result.symbols, st.symbols)

	return result
}
