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
	"errors"
	"fmt"
)

type Mode uint
type DirectiveType uint
type Register uint8

// Handle is an opaque token for a label. Handles are only meaningful to the
// Program that issued them; the zero Handle is never issued.
type Handle uint32

type Position struct {
	// Statement index in declaration order
	Index int

	// 1-based index of a statement synthesized by the extension at Index,
	// 0 for declared statements
	Synthetic int
}

func (pos Position) String() string {
	if pos.Synthetic > 0 {
		return fmt.Sprintf("#%03d.%d", pos.Index, pos.Synthetic)
	}

	return fmt.Sprintf("#%03d", pos.Index)
}

func (mode Mode) String() string {
	switch mode {
	case MODE_INHERENT:
		return "inherent"
	case MODE_IMMEDIATE:
		return "immediate"
	case MODE_DIRECT:
		return "direct"
	case MODE_EXTENDED:
		return "extended"
	case MODE_RELATIVE:
		return "relative"
	case MODE_INDEXED:
		return "indexed"
	case MODE_REGISTER_LIST:
		return "register list"
	case MODE_REGISTER_PAIR:
		return "register pair"
	}

	return "<invalid>"
}

// Encoding is the opcode prefix emitted for one addressing mode of a
// mnemonic. Width is the operand width in bytes for immediate and relative
// modes and is ignored otherwise.
type Encoding struct {
	Opcode []byte
	Width  int
}

type Mnemonic struct {
	Name  string
	Modes map[Mode]Encoding
}

func (m *Mnemonic) Supports(mode Mode) bool {
	_, ok := m.Modes[mode]
	return ok
}

// InstructionSet is the static opcode data for a target CPU. Indexed and
// register operands are CPU specific, so their postbytes come from the set.
type InstructionSet interface {
	Lookup(name string) (*Mnemonic, bool)
	Mnemonics() []*Mnemonic
	LookupRegister(name string) (Register, bool)
	RegisterName(reg Register) string
	EncodeIndexed(op Indexed) ([]byte, error)
	EncodeRegisters(m *Mnemonic, mode Mode, regs Registers) ([]byte, error)
}

type Statement struct {
	Labels    []Handle
	Directive DirectiveType

	Mnemonic *Mnemonic
	Operand  Operand

	// Table elements for DIRECTIVE_FCB and DIRECTIVE_FDB
	Data []Value

	// Target of DIRECTIVE_ORG, page of DIRECTIVE_SETDP
	Address uint16

	Extension  Extension
	Diagnostic DiagnosticFunc

	Comment string
}

type Diagnostic struct {
	Position Position
	Address  uint16
	Symbols  *SymTable
}

type DiagnosticFunc func(d Diagnostic)

type PositionError interface {
	error
	GetPosition() Position
}

var (
	errRunawayExtension = errors.New("extension did not complete")
	errMissingMnemonic  = errors.New("statement has no mnemonic")
	errMissingExtension = errors.New("statement has no extension")
)

type DuplicateLabelError struct {
	Position Position
	Label    string
	Previous Position
}

func (err *DuplicateLabelError) GetPosition() Position {
	return err.Position
}

func (err *DuplicateLabelError) Error() string {
	return fmt.Sprintf(
		"%s: Redeclaration of label '%s'\n\tfirst:%s",
		err.Position,
		err.Label,
		err.Previous,
	)
}

type UndefinedLabelError struct {
	Position Position
	Label    string
}

func (err *UndefinedLabelError) GetPosition() Position {
	return err.Position
}

func (err *UndefinedLabelError) Error() string {
	return fmt.Sprintf("%s: Unknown label '%s'", err.Position, err.Label)
}

type IllegalAddressingModeError struct {
	Position Position
	Mnemonic string
	Mode     Mode
}

func (err *IllegalAddressingModeError) GetPosition() Position {
	return err.Position
}

func (err *IllegalAddressingModeError) Error() string {
	return fmt.Sprintf(
		"%s: Illegal addressing mode for %s\n\thave:%s",
		err.Position,
		err.Mnemonic,
		err.Mode,
	)
}

type BranchRangeError struct {
	Position Position
	Source   uint16
	Target   uint16
	Offset   int
}

func (err *BranchRangeError) GetPosition() Position {
	return err.Position
}

func (err *BranchRangeError) Error() string {
	return fmt.Sprintf(
		"%s: Branch from %#04x to %#04x exceeds allowed distance\n\twant:-128..127\n\thave:%d",
		err.Position,
		err.Source,
		err.Target,
		err.Offset,
	)
}

type OverlapError struct {
	Position Position
	Previous Position
	Address  uint16
	Have     byte
	Want     byte
}

func (err *OverlapError) GetPosition() Position {
	return err.Position
}

func (err *OverlapError) Error() string {
	return fmt.Sprintf(
		"%s: Overlapping emission at %#04x (written by %s)\n\twant:%#02x\n\thave:%#02x",
		err.Position,
		err.Address,
		err.Previous,
		err.Want,
		err.Have,
	)
}

type OperandRangeError struct {
	Position Position
	Bits     int
	Received int
}

func (err *OperandRangeError) GetPosition() Position {
	return err.Position
}

func (err *OperandRangeError) Error() string {
	return fmt.Sprintf(
		"%s: Value exceeds allowed size\n\twant:%d bits\n\thave:%d",
		err.Position,
		err.Bits,
		err.Received,
	)
}

type InvalidOperandError struct {
	Position Position
	Mnemonic string
	Err      error
}

func (err *InvalidOperandError) GetPosition() Position {
	return err.Position
}

func (err *InvalidOperandError) Error() string {
	return fmt.Sprintf(
		"%s: Invalid operand for %s: %v", err.Position, err.Mnemonic, err.Err,
	)
}

func (err *InvalidOperandError) Unwrap() error {
	return err.Err
}

type AddressOverflowError struct {
	Position Position
	Address  int
	Size     int
}

func (err *AddressOverflowError) GetPosition() Position {
	return err.Position
}

func (err *AddressOverflowError) Error() string {
	return fmt.Sprintf(
		"%s: %d bytes at %#04x run past the end of the address space",
		err.Position,
		err.Size,
		err.Address,
	)
}

// PhaseError reports that the encoding pass did not retrace the sizing pass.
// It indicates a non-deterministic extension or an engine bug, never a
// problem with the program text itself.
type PhaseError struct {
	Position Position
	Reason   string
}

func (err *PhaseError) GetPosition() Position {
	return err.Position
}

func (err *PhaseError) Error() string {
	return fmt.Sprintf("%s: Passes disagree: %s", err.Position, err.Reason)
}

type ExtensionError struct {
	Position Position
	Err      error
}

func (err *ExtensionError) GetPosition() Position {
	return err.Position
}

func (err *ExtensionError) Error() string {
	return fmt.Sprintf("%s: Extension failed: %v", err.Position, err.Err)
}

func (err *ExtensionError) Unwrap() error {
	return err.Err
}
