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

// resolve determines the addressing mode of an instruction statement and
// checks it against the mnemonic.
func (r *run) resolve(st *Statement, pos Position) (Mode, Encoding, error) {
	if st.Mnemonic == nil {
		return MODE_INHERENT, Encoding{}, &InvalidOperandError{
			pos, "<nil>", errMissingMnemonic,
		}
	}

	mode, ok := classify(st.Operand, st.Mnemonic)

	if !ok {
		return mode, Encoding{}, &IllegalAddressingModeError{
			pos, st.Mnemonic.Name, mode,
		}
	}

	return mode, st.Mnemonic.Modes[mode], nil
}

// size returns the byte length of a statement. Label values are never
// consulted, so it gives the same answer in both passes.
func (r *run) size(st *Statement, pos Position) (int, error) {
	switch st.Directive {
	case DIRECTIVE_FCB:
		return len(st.Data) * WIDTH_BYTE, nil
	case DIRECTIVE_FDB:
		return len(st.Data) * WIDTH_WORD, nil
	}

	mode, enc, err := r.resolve(st, pos)

	if err != nil {
		return 0, err
	}

	size := len(enc.Opcode)

	switch mode {
	case MODE_INHERENT:
	case MODE_IMMEDIATE, MODE_RELATIVE:
		size += enc.Width
	case MODE_DIRECT:
		size += WIDTH_BYTE
	case MODE_EXTENDED:
		size += WIDTH_WORD
	case MODE_INDEXED, MODE_REGISTER_LIST, MODE_REGISTER_PAIR:
		postbytes, err := r.postbytes(st, pos, mode)

		if err != nil {
			return 0, err
		}

		size += len(postbytes)
	}

	return size, nil
}

func (r *run) postbytes(st *Statement, pos Position, mode Mode) ([]byte, error) {
	var result []byte
	var err error

	if mode == MODE_INDEXED {
		result, err = r.program.set.EncodeIndexed(st.Operand.(Indexed))
	} else {
		result, err = r.program.set.EncodeRegisters(
			st.Mnemonic, mode, st.Operand.(Registers),
		)
	}

	if err != nil {
		return nil, &InvalidOperandError{pos, st.Mnemonic.Name, err}
	}

	return result, nil
}

// encode produces the final bytes of a statement placed at addr.
func (r *run) encode(st *Statement, pos Position, addr int, size int) ([]byte, error) {
	result := make([]byte, 0, size)

	switch st.Directive {
	case DIRECTIVE_FCB:
		for _, v := range st.Data {
			value, err := r.value(v, pos)

			if err != nil {
				return nil, err
			}

			b, err := byteValue(value, pos)

			if err != nil {
				return nil, err
			}

			result = append(result, b)
		}

		return result, nil

	case DIRECTIVE_FDB:
		for _, v := range st.Data {
			value, err := r.value(v, pos)

			if err != nil {
				return nil, err
			}

			hi, lo, err := wordValue(value, pos)

			if err != nil {
				return nil, err
			}

			result = append(result, hi, lo)
		}

		return result, nil
	}

	mode, enc, err := r.resolve(st, pos)

	if err != nil {
		return nil, err
	}

	result = append(result, enc.Opcode...)

	switch mode {
	case MODE_INHERENT:

	case MODE_IMMEDIATE:
		value, err := r.value(st.Operand.(Immediate).Value, pos)

		if err != nil {
			return nil, err
		}

		result, err = appendSized(result, value, enc.Width, pos)

		if err != nil {
			return nil, err
		}

	case MODE_DIRECT:
		value, err := r.value(st.Operand.(Direct).Value, pos)

		if err != nil {
			return nil, err
		}

		if value < 0 || (value > 0xFF && value>>8 != int(r.dp)) || value > 0xFFFF {
			return nil, &OperandRangeError{pos, 8, value}
		}

		result = append(result, byte(value))

	case MODE_EXTENDED:
		value, err := r.value(st.Operand.(Extended).Value, pos)

		if err != nil {
			return nil, err
		}

		hi, lo, err := wordValue(value, pos)

		if err != nil {
			return nil, err
		}

		result = append(result, hi, lo)

	case MODE_RELATIVE:
		target, err := r.value(st.Operand.(Relative).Target, pos)

		if err != nil {
			return nil, err
		}

		if target < 0 || target > 0xFFFF {
			return nil, &OperandRangeError{pos, 16, target}
		}

		offset := target - (addr + size)

		if enc.Width == WIDTH_BYTE {
			if offset < -128 || offset > 127 {
				return nil, &BranchRangeError{
					pos, uint16(addr), uint16(target), offset,
				}
			}

			result = append(result, byte(int8(offset)))
		} else {
			// Long displacements wrap around the 16-bit address space
			result = append(result, byte(offset>>8), byte(offset))
		}

	case MODE_INDEXED, MODE_REGISTER_LIST, MODE_REGISTER_PAIR:
		postbytes, err := r.postbytes(st, pos, mode)

		if err != nil {
			return nil, err
		}

		result = append(result, postbytes...)
	}

	return result, nil
}

func (r *run) value(v Value, pos Position) (int, error) {
	switch v := v.(type) {
	case Literal:
		return int(v), nil
	case Handle:
		addr, err := r.symbols.Resolve(v, pos)
		return int(addr), err
	}

	return 0, &UndefinedLabelError{pos, "<nil>"}
}

func byteValue(value int, pos Position) (byte, error) {
	if value < -128 || value > 0xFF {
		return 0, &OperandRangeError{pos, 8, value}
	}

	return byte(value), nil
}

// Words are emitted most significant byte first
func wordValue(value int, pos Position) (byte, byte, error) {
	if value < -32768 || value > 0xFFFF {
		return 0, 0, &OperandRangeError{pos, 16, value}
	}

	return byte(value >> 8), byte(value), nil
}

func appendSized(result []byte, value int, width int, pos Position) ([]byte, error) {
	if width == WIDTH_WORD {
		hi, lo, err := wordValue(value, pos)

		if err != nil {
			return nil, err
		}

		return append(result, hi, lo), nil
	}

	b, err := byteValue(value, pos)

	if err != nil {
		return nil, err
	}

	return append(result, b), nil
}
