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
	"fmt"
)

// Extension synthesizes statements at its position in the program. Expand is
// called until it reports done; the statements emitted by each call are
// assembled before the next call, so Cursor advances between calls.
//
// Expand runs once per pass and must emit the same statements every time it
// sees the same cursor. Side effects other than emission belong in a
// Diagnose hook.
type Extension interface {
	Expand(ctx *ExtensionContext) (done bool, err error)
}

type ExtensionFunc func(ctx *ExtensionContext) (bool, error)

func (fn ExtensionFunc) Expand(ctx *ExtensionContext) (bool, error) {
	return fn(ctx)
}

type ExtensionContext struct {
	program    *Program
	cursor     int
	statements []Statement
}

func (ctx *ExtensionContext) Cursor() uint16 {
	return uint16(ctx.cursor)
}

func (ctx *ExtensionContext) InstructionSet() InstructionSet {
	return ctx.program.set
}

func (ctx *ExtensionContext) Label(name string) Handle {
	return ctx.program.Label(name)
}

func (ctx *ExtensionContext) Define(handles ...Handle) {
	ctx.statements = append(
		ctx.statements, Statement{Directive: DIRECTIVE_LABEL, Labels: handles},
	)
}

func (ctx *ExtensionContext) Emit(m *Mnemonic, op Operand, opts ...StatementOption) {
	if op == nil {
		op = None{}
	}

	ctx.statements = append(
		ctx.statements, newStatement(Statement{Mnemonic: m, Operand: op}, opts),
	)
}

func (ctx *ExtensionContext) Bytes(values []Value, opts ...StatementOption) {
	ctx.statements = append(ctx.statements, newStatement(
		Statement{Directive: DIRECTIVE_FCB, Data: values}, opts,
	))
}

func (ctx *ExtensionContext) Words(values []Value, opts ...StatementOption) {
	ctx.statements = append(ctx.statements, newStatement(
		Statement{Directive: DIRECTIVE_FDB, Data: values}, opts,
	))
}

type padExtension struct {
	target uint16
	filler *Mnemonic
}

func (ext *padExtension) Expand(ctx *ExtensionContext) (bool, error) {
	cursor := ctx.Cursor()

	if ext.filler == nil {
		return false, fmt.Errorf("pad to %#04x has no filler", ext.target)
	}

	switch {
	case ctx.cursor > int(ext.target):
		return false, fmt.Errorf(
			"pad target %#04x is behind the cursor %#04x", ext.target, cursor,
		)
	case cursor == ext.target:
		return true, nil
	}

	ctx.Emit(ext.filler, None{})

	return false, nil
}

func (r *run) expand(st *Statement, pos Position) error {
	synthetic := 0

	for round := 0; ; round++ {
		if round > maxExtensionRounds {
			return &ExtensionError{pos, errRunawayExtension}
		}

		ctx := &ExtensionContext{program: r.program, cursor: r.cursor}

		done, err := st.Extension.Expand(ctx)

		if err != nil {
			return &ExtensionError{pos, err}
		}

		for i := range ctx.statements {
			synthetic++

			if err := r.statement(
				&ctx.statements[i], Position{pos.Index, synthetic},
			); err != nil {
				return err
			}
		}

		if done {
			return nil
		}
	}
}
