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
	"io"
	"strings"
)

type ListingLine struct {
	Position Position
	Address  uint16
	Bytes    []byte
	Labels   []string
	Text     string
	Comment  string
}

// DebugInfo is the gob-encodable symbol information consumed by debuggers.
type DebugInfo struct {
	Labels map[uint16][]string
	Lines  map[uint16]string
}

func (r *run) list(pos Position, st *Statement, data []byte) {
	if r.pass != 2 {
		return
	}

	line := ListingLine{
		Position: pos,
		Address:  uint16(r.cursor),
		Bytes:    data,
		Text:     r.text(st),
		Comment:  st.Comment,
	}

	for _, handle := range st.Labels {
		line.Labels = append(line.Labels, r.symbols.Name(handle))
	}

	r.listing = append(r.listing, line)
}

func (r *run) text(st *Statement) string {
	switch st.Directive {
	case DIRECTIVE_LABEL:
		return ""
	case DIRECTIVE_ORG:
		return fmt.Sprintf("ORG $%04X", st.Address)
	case DIRECTIVE_SETDP:
		return fmt.Sprintf("SETDP $%02X", st.Address)
	case DIRECTIVE_FCB, DIRECTIVE_FDB:
		values := make([]string, len(st.Data))

		for i, v := range st.Data {
			values[i] = r.valueText(v)
		}

		keyword := "FCB"
		if st.Directive == DIRECTIVE_FDB {
			keyword = "FDB"
		}

		return keyword + " " + strings.Join(values, ",")
	}

	operand := r.operandText(st.Operand)

	if operand == "" {
		return st.Mnemonic.Name
	}

	return st.Mnemonic.Name + " " + operand
}

func (r *run) operandText(op Operand) string {
	set := r.program.set

	switch op := op.(type) {
	case Immediate:
		return "#" + r.valueText(op.Value)
	case Direct:
		return "<" + r.valueText(op.Value)
	case Extended:
		return r.valueText(op.Value)
	case Relative:
		return r.valueText(op.Target)
	case Indexed:
		if op.Offset != NoRegister {
			return set.RegisterName(op.Offset) + "," + set.RegisterName(op.Base)
		}
		if op.Displacement == 0 {
			return "," + set.RegisterName(op.Base)
		}
		return fmt.Sprintf("%d,%s", op.Displacement, set.RegisterName(op.Base))
	case Registers:
		names := make([]string, len(op))

		for i, reg := range op {
			names[i] = set.RegisterName(reg)
		}

		return strings.Join(names, ",")
	}

	return ""
}

func (r *run) valueText(v Value) string {
	switch v := v.(type) {
	case Handle:
		return r.symbols.Name(v)
	case Literal:
		switch {
		case v < 0:
			return fmt.Sprintf("%d", int(v))
		case v <= 0xFF:
			return fmt.Sprintf("$%02X", int(v))
		default:
			return fmt.Sprintf("$%04X", int(v))
		}
	}

	return "?"
}

// WriteListing writes the assembled program one line per statement:
// address, bytes, labels, statement text and comment.
func (res *Result) WriteListing(w io.Writer) error {
	for _, line := range res.Listing {
		var code strings.Builder

		for i, b := range line.Bytes {
			if i == 4 {
				code.WriteString("..")
				break
			}
			fmt.Fprintf(&code, "%02X ", b)
		}

		text := fmt.Sprintf(
			"%04X  %-12s  %-12s %-20s",
			line.Address,
			code.String(),
			strings.Join(line.Labels, " "),
			line.Text,
		)

		if line.Comment != "" {
			text += " ; " + line.Comment
		}

		if _, err := fmt.Fprintln(w, strings.TrimRight(text, " ")); err != nil {
			return err
		}
	}

	return nil
}

func (res *Result) DebugInfo() *DebugInfo {
	info := &DebugInfo{
		Labels: make(map[uint16][]string),
		Lines:  make(map[uint16]string),
	}

	for _, sym := range res.Symbols.Symbols() {
		info.Labels[sym.Address] = append(info.Labels[sym.Address], sym.Name)
	}

	for _, line := range res.Listing {
		if len(line.Bytes) == 0 {
			continue
		}

		text := line.Text

		if line.Comment != "" {
			text += " ; " + line.Comment
		}

		info.Lines[line.Address] = text
	}

	return info
}
