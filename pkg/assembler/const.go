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

const (
	MODE_INHERENT Mode = iota
	MODE_IMMEDIATE
	MODE_DIRECT
	MODE_EXTENDED
	MODE_RELATIVE
	MODE_INDEXED
	MODE_REGISTER_LIST
	MODE_REGISTER_PAIR
)

const (
	// Instruction statements carry no directive
	DIRECTIVE_NONE DirectiveType = iota
	DIRECTIVE_LABEL
	DIRECTIVE_ORG
	DIRECTIVE_SETDP
	DIRECTIVE_FCB
	DIRECTIVE_FDB
	DIRECTIVE_EXTENSION
	DIRECTIVE_DIAGNOSTIC
)

// The zero register selects a constant displacement in indexed operands
const NoRegister Register = 0

// Addresses run from 0x0000 to 0xFFFF; a span may end exactly at AddressLimit
const AddressLimit = 1 << 16

const (
	WIDTH_BYTE = 1
	WIDTH_WORD = 2
)

const maxExtensionRounds = AddressLimit
