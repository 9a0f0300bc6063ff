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

// Program is an ordered sequence of statements and directives. Programs are
// built once and may be assembled any number of times, but not concurrently:
// each run rebinds the program's symbol table.
type Program struct {
	set        InstructionSet
	symbols    *SymTable
	statements []Statement
}

type StatementOption func(st *Statement)

func Labels(handles ...Handle) StatementOption {
	return func(st *Statement) {
		st.Labels = append(st.Labels, handles...)
	}
}

func Comment(text string) StatementOption {
	return func(st *Statement) {
		st.Comment = text
	}
}

func NewProgram(set InstructionSet) *Program {
	return &Program{
		set:     set,
		symbols: NewSymTable(),
	}
}

func (p *Program) InstructionSet() InstructionSet {
	return p.set
}

func (p *Program) Statements() []Statement {
	return p.statements
}

func (p *Program) Len() int {
	return len(p.statements)
}

// Label returns the handle for name; it may be used before the label is
// defined.
func (p *Program) Label(name string) Handle {
	return p.symbols.Reference(name)
}

func (p *Program) LabelName(handle Handle) string {
	return p.symbols.Name(handle)
}

// Define binds the labels to the address of the next emitted byte.
func (p *Program) Define(handles ...Handle) {
	p.append(Statement{Directive: DIRECTIVE_LABEL, Labels: handles})
}

func (p *Program) Emit(m *Mnemonic, op Operand, opts ...StatementOption) {
	if op == nil {
		op = None{}
	}

	p.append(newStatement(Statement{Mnemonic: m, Operand: op}, opts))
}

func (p *Program) Org(addr uint16, opts ...StatementOption) {
	p.append(newStatement(
		Statement{Directive: DIRECTIVE_ORG, Address: addr}, opts,
	))
}

// SetDP declares the direct page assumed by subsequent Direct operands.
func (p *Program) SetDP(page uint8) {
	p.append(Statement{Directive: DIRECTIVE_SETDP, Address: uint16(page)})
}

func (p *Program) Bytes(values []Value, opts ...StatementOption) {
	p.append(newStatement(
		Statement{Directive: DIRECTIVE_FCB, Data: values}, opts,
	))
}

func (p *Program) Words(values []Value, opts ...StatementOption) {
	p.append(newStatement(
		Statement{Directive: DIRECTIVE_FDB, Data: values}, opts,
	))
}

// String emits the character codes of text as a byte table (FCC).
func (p *Program) String(text string, opts ...StatementOption) {
	p.Bytes(stringValues(text), opts...)
}

func (p *Program) Extend(ext Extension, opts ...StatementOption) {
	p.append(newStatement(
		Statement{Directive: DIRECTIVE_EXTENSION, Extension: ext}, opts,
	))
}

// Pad emits filler instructions until the cursor reaches target.
func (p *Program) Pad(target uint16, filler *Mnemonic, opts ...StatementOption) {
	p.Extend(&padExtension{target: target, filler: filler}, opts...)
}

// Diagnose registers fn to run once after a successful assembly, with the
// address this point of the program was assembled at.
func (p *Program) Diagnose(fn DiagnosticFunc) {
	p.append(Statement{Directive: DIRECTIVE_DIAGNOSTIC, Diagnostic: fn})
}

func (p *Program) append(st Statement) {
	p.statements = append(p.statements, st)
}

func newStatement(st Statement, opts []StatementOption) Statement {
	for _, opt := range opts {
		opt(&st)
	}

	return st
}

func stringValues(text string) []Value {
	values := make([]Value, len(text))

	for i := 0; i < len(text); i++ {
		values[i] = Literal(text[i])
	}

	return values
}

// Values converts integers to literal table elements.
func Values(literals ...int) []Value {
	values := make([]Value, len(literals))

	for i, literal := range literals {
		values[i] = Literal(literal)
	}

	return values
}
