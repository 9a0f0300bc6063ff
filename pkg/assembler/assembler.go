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

type Result struct {
	Image   *Image
	Symbols *SymTable
	Listing []ListingLine
}

type traceEntry struct {
	Position Position
	Address  int
	Size     int
}

type pendingDiagnostic struct {
	fn         DiagnosticFunc
	diagnostic Diagnostic
}

// run is the state of one assembly: the cursor, the pass-1 trajectory the
// encoding pass has to retrace, and the outputs of the encoding pass.
type run struct {
	program *Program
	symbols *SymTable

	pass   int
	cursor int
	dp     uint8

	trace []traceEntry
	step  int

	image   *Image
	listing []ListingLine
	pending []pendingDiagnostic
}

// Assemble sizes every statement and binds labels in a first pass, then
// encodes in a second pass once every label is known. Either a complete image
// is returned or an error describing the first failure; diagnostics run only
// after a successful assembly.
func Assemble(p *Program) (*Result, error) {
	r := &run{program: p, symbols: p.symbols}
	r.symbols.reset()

	for pass := 1; pass <= 2; pass++ {
		r.begin(pass)

		for i := 0; i < len(p.statements); i++ {
			if err := r.statement(
				&p.statements[i], Position{Index: i},
			); err != nil {
				return nil, err
			}
		}
	}

	if r.step != len(r.trace) {
		return nil, &PhaseError{
			Position{Index: len(p.statements)},
			fmt.Sprintf(
				"encoding pass placed %d of %d statements", r.step, len(r.trace),
			),
		}
	}

	result := &Result{
		Image:   r.image,
		Symbols: r.symbols.clone(),
		Listing: r.listing,
	}

	for _, pending := range r.pending {
		pending.diagnostic.Symbols = result.Symbols
		pending.fn(pending.diagnostic)
	}

	return result, nil
}

func (r *run) begin(pass int) {
	r.pass = pass
	r.cursor = 0
	r.dp = 0
	r.step = 0

	if pass == 2 {
		r.image = NewImage()
		r.listing = nil
		r.pending = nil
	}
}

func (r *run) statement(st *Statement, pos Position) error {
	switch st.Directive {
	case DIRECTIVE_ORG:
		r.cursor = int(st.Address)

		if err := r.bind(st, pos); err != nil {
			return err
		}

		r.list(pos, st, nil)
		return nil

	case DIRECTIVE_SETDP:
		r.dp = uint8(st.Address)
		r.list(pos, st, nil)
		return nil
	}

	if err := r.bind(st, pos); err != nil {
		return err
	}

	switch st.Directive {
	case DIRECTIVE_LABEL:
		r.list(pos, st, nil)
		return nil

	case DIRECTIVE_EXTENSION:
		if st.Extension == nil {
			return &ExtensionError{pos, errMissingExtension}
		}
		return r.expand(st, pos)

	case DIRECTIVE_DIAGNOSTIC:
		if r.pass == 2 && st.Diagnostic != nil {
			r.pending = append(r.pending, pendingDiagnostic{
				st.Diagnostic,
				Diagnostic{Position: pos, Address: uint16(r.cursor)},
			})
		}
		return nil
	}

	size, err := r.size(st, pos)

	if err != nil {
		return err
	}

	if r.cursor+size > AddressLimit {
		return &AddressOverflowError{pos, r.cursor, size}
	}

	if err := r.retrace(pos, size); err != nil {
		return err
	}

	if r.pass == 2 {
		data, err := r.encode(st, pos, r.cursor, size)

		if err != nil {
			return err
		}

		if len(data) != size {
			return &PhaseError{
				pos,
				fmt.Sprintf("sized %d bytes, encoded %d", size, len(data)),
			}
		}

		if err := r.image.Write(pos, uint16(r.cursor), data); err != nil {
			return err
		}

		r.list(pos, st, data)
	}

	r.cursor += size

	return nil
}

func (r *run) bind(st *Statement, pos Position) error {
	if len(st.Labels) == 0 {
		return nil
	}

	if r.cursor >= AddressLimit {
		return &AddressOverflowError{pos, r.cursor, 0}
	}

	for _, handle := range st.Labels {
		var err error

		if r.pass == 1 {
			err = r.symbols.Define(handle, uint16(r.cursor), pos)
		} else {
			err = r.symbols.rebind(handle, uint16(r.cursor), pos)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// retrace records the cursor trajectory in the sizing pass and checks that
// the encoding pass follows it exactly.
func (r *run) retrace(pos Position, size int) error {
	entry := traceEntry{pos, r.cursor, size}

	if r.pass == 1 {
		r.trace = append(r.trace, entry)
		return nil
	}

	if r.step >= len(r.trace) {
		return &PhaseError{pos, "statement was not sized in the first pass"}
	}

	want := r.trace[r.step]
	r.step++

	if want != entry {
		return &PhaseError{
			pos,
			fmt.Sprintf(
				"sized %s at %#04x+%d, encoded at %#04x+%d",
				want.Position, want.Address, want.Size, entry.Address, entry.Size,
			),
		}
	}

	return nil
}
