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

// Package script describes 6809 programs in Lua. A script calls one global
// function per mnemonic, in program order:
//
//	org(0xC000, "Bottom of the top 16 K ROM")
//	local WAITR = label("WAITR")
//	define(WAITR)
//	BITA(ext(0xA000), "Test flag")
//	BEQ(WAITR)
//
// A bare number operand is immediate where the mnemonic has an immediate
// form and extended otherwise; a bare label is relative for branches and
// extended otherwise. A trailing string is the comment, so a character
// operand is written LDA("h", "comment") or LDA(imm("h")).
package script

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/lassandro/go6809/pkg/assembler"
	"github.com/lassandro/go6809/pkg/m6809"
)

const labelTypeName = "label"

// emitter is satisfied by both *assembler.Program and the context handed to
// an extension; mnemonics emit into whichever is current.
type emitter interface {
	Emit(m *assembler.Mnemonic, op assembler.Operand, opts ...assembler.StatementOption)
	Bytes(values []assembler.Value, opts ...assembler.StatementOption)
	Words(values []assembler.Value, opts ...assembler.StatementOption)
	Define(handles ...assembler.Handle)
}

type Script struct {
	// Destination of the Lua print function, os.Stdout when nil
	Output io.Writer

	state   *lua.LState
	program *assembler.Program
	context *assembler.ExtensionContext

	// First error raised by a Lua diagnostic during Assemble
	err error
}

var errInsideExtension = errors.New("not allowed inside an extension")

// New returns a Lua state with the program builder installed. The state must
// stay open until the program has been assembled, since extensions and
// diagnostics call back into it.
func New(set assembler.InstructionSet) *Script {
	s := &Script{
		state:   lua.NewState(),
		program: assembler.NewProgram(set),
	}

	s.install()

	return s
}

func (s *Script) Close() {
	s.state.Close()
}

func (s *Script) Program() *assembler.Program {
	return s.program
}

func (s *Script) DoFile(path string) error {
	return s.state.DoFile(path)
}

func (s *Script) DoString(source string) error {
	return s.state.DoString(source)
}

// Assemble assembles the program built so far. An error raised by a Lua
// diagnostic fails the run after all diagnostics have been called.
func (s *Script) Assemble() (*assembler.Result, error) {
	s.err = nil

	result, err := assembler.Assemble(s.program)

	if err != nil {
		return nil, err
	}

	if s.err != nil {
		return nil, s.err
	}

	return result, nil
}

func (s *Script) output() io.Writer {
	if s.Output == nil {
		return os.Stdout
	}

	return s.Output
}

func (s *Script) target() emitter {
	if s.context != nil {
		return s.context
	}

	return s.program
}

func (s *Script) install() {
	L := s.state

	mt := L.NewTypeMetatable(labelTypeName)
	L.SetField(mt, "__tostring", L.NewFunction(s.labelString))

	functions := map[string]lua.LGFunction{
		"print":     s.print,
		"org":       s.org,
		"setdp":     s.setdp,
		"label":     s.label,
		"define":    s.define,
		"emit":      s.emit,
		"imm":       s.immediate,
		"dir":       s.direct,
		"ext":       s.extended,
		"rel":       s.relative,
		"idx":       s.indexed,
		"regs":      s.registers,
		"fcb":       s.fcb,
		"fdb":       s.fdb,
		"fcc":       s.fcc,
		"pad":       s.pad,
		"vectors":   s.vectors,
		"extension": s.extension,
		"diagnose":  s.diagnose,
	}

	for name, fn := range functions {
		L.SetGlobal(name, L.NewFunction(fn))
	}

	for _, m := range s.program.InstructionSet().Mnemonics() {
		L.SetGlobal(m.Name, L.NewFunction(s.mnemonic(m)))
	}
}

// print is refused inside extensions, which run once per pass; a diagnose
// callback prints once per assembly.
func (s *Script) print(L *lua.LState) int {
	s.programOnly(L, "print")

	args := make([]string, L.GetTop())

	for i := range args {
		args[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}

	fmt.Fprintln(s.output(), strings.Join(args, "\t"))

	return 0
}

func (s *Script) programOnly(L *lua.LState, name string) {
	if s.context != nil {
		L.RaiseError("%s: %s", name, errInsideExtension)
	}
}

// comment returns the statement options for an optional trailing comment
// argument at n.
func comment(L *lua.LState, n int) []assembler.StatementOption {
	if text, ok := L.Get(n).(lua.LString); ok {
		return []assembler.StatementOption{assembler.Comment(string(text))}
	}

	if L.Get(n) != lua.LNil {
		L.ArgError(n, "comment must be a string")
	}

	return nil
}

func address(L *lua.LState, n int) uint16 {
	number := L.CheckNumber(n)

	if !integral(number) || number < 0 || number > 0xFFFF {
		L.ArgError(n, fmt.Sprintf("address %v is out of range", number))
	}

	return uint16(number)
}

func (s *Script) org(L *lua.LState) int {
	s.programOnly(L, "org")
	s.program.Org(address(L, 1), comment(L, 2)...)
	return 0
}

func (s *Script) setdp(L *lua.LState) int {
	s.programOnly(L, "setdp")

	page := L.CheckInt(1)

	if page < 0 || page > 0xFF {
		L.ArgError(1, fmt.Sprintf("direct page %#x is out of range", page))
	}

	s.program.SetDP(uint8(page))

	return 0
}

func (s *Script) newLabel(L *lua.LState, handle assembler.Handle) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = handle
	L.SetMetatable(ud, L.GetTypeMetatable(labelTypeName))
	return ud
}

func (s *Script) label(L *lua.LState) int {
	L.Push(s.newLabel(L, s.program.Label(L.CheckString(1))))
	return 1
}

func (s *Script) labelString(L *lua.LState) int {
	ud := L.CheckUserData(1)

	if handle, ok := ud.Value.(assembler.Handle); ok {
		L.Push(lua.LString(s.program.LabelName(handle)))
	} else {
		L.Push(lua.LString(labelTypeName))
	}

	return 1
}

// handle accepts a label or a label name.
func (s *Script) handle(L *lua.LState, n int) assembler.Handle {
	switch v := L.Get(n).(type) {
	case lua.LString:
		return s.program.Label(string(v))
	case *lua.LUserData:
		if handle, ok := v.Value.(assembler.Handle); ok {
			return handle
		}
	}

	L.ArgError(n, "expected a label or label name")

	return 0
}

func (s *Script) define(L *lua.LState) int {
	handles := make([]assembler.Handle, L.GetTop())

	for i := range handles {
		handles[i] = s.handle(L, i+1)
	}

	if len(handles) == 0 {
		L.RaiseError("define: no labels given")
	}

	s.target().Define(handles...)

	return 0
}

// toValue converts an integer, one-character string or label.
func toValue(lv lua.LValue) (assembler.Value, bool) {
	switch v := lv.(type) {
	case lua.LNumber:
		if !integral(v) {
			return nil, false
		}

		return assembler.Literal(int(v)), true
	case lua.LString:
		if len(v) == 1 {
			return assembler.Literal(v[0]), true
		}
	case *lua.LUserData:
		if handle, ok := v.Value.(assembler.Handle); ok {
			return handle, true
		}
	}

	return nil, false
}

func integral(v lua.LNumber) bool {
	return float64(v) == math.Trunc(float64(v))
}

func checkValue(L *lua.LState, n int) assembler.Value {
	value, ok := toValue(L.Get(n))

	if !ok {
		L.ArgError(n, "expected an integer, character or label")
	}

	return value
}

func pushOperand(L *lua.LState, op assembler.Operand) int {
	ud := L.NewUserData()
	ud.Value = op
	L.Push(ud)
	return 1
}

func (s *Script) immediate(L *lua.LState) int {
	return pushOperand(L, assembler.Imm(checkValue(L, 1)))
}

func (s *Script) direct(L *lua.LState) int {
	return pushOperand(L, assembler.Dir(checkValue(L, 1)))
}

func (s *Script) extended(L *lua.LState) int {
	return pushOperand(L, assembler.Ext(checkValue(L, 1)))
}

func (s *Script) relative(L *lua.LState) int {
	return pushOperand(L, assembler.Rel(checkValue(L, 1)))
}

func (s *Script) register(L *lua.LState, n int) assembler.Register {
	name := L.CheckString(n)
	reg, ok := s.program.InstructionSet().LookupRegister(name)

	if !ok {
		L.ArgError(n, fmt.Sprintf("unknown register %q", name))
	}

	return reg
}

// idx(base[, offset]) where offset is an accumulator name or a constant.
func (s *Script) indexed(L *lua.LState) int {
	base := s.register(L, 1)

	switch v := L.Get(2).(type) {
	case lua.LString:
		return pushOperand(L, assembler.AccIndexed(base, s.register(L, 2)))
	case lua.LNumber:
		if integral(v) {
			return pushOperand(L, assembler.OffsetIndexed(base, int(v)))
		}
	}

	if L.Get(2) != lua.LNil {
		L.ArgError(2, "offset must be a register name or an integer")
	}

	return pushOperand(L, assembler.OffsetIndexed(base, 0))
}

func (s *Script) registers(L *lua.LState) int {
	regs := make(assembler.Registers, L.GetTop())

	for i := range regs {
		regs[i] = s.register(L, i+1)
	}

	return pushOperand(L, regs)
}

// operand converts argument n for m. It reports false when the argument is
// absent or is the trailing comment.
func operand(L *lua.LState, n int, m *assembler.Mnemonic) (assembler.Operand, bool) {
	lv := L.Get(n)

	switch v := lv.(type) {
	case lua.LString:
		// A lone string is the comment
		if _, commented := L.Get(n + 1).(lua.LString); len(v) != 1 || !commented {
			return assembler.None{}, false
		}
	case *lua.LUserData:
		if op, ok := v.Value.(assembler.Operand); ok {
			return op, true
		}
	}

	if lv == lua.LNil {
		return assembler.None{}, false
	}

	value, ok := toValue(lv)

	if !ok {
		L.ArgError(n, "expected an operand")
	}

	if _, isLabel := value.(assembler.Handle); isLabel {
		if m.Supports(assembler.MODE_RELATIVE) {
			return assembler.Rel(value), true
		}
	} else if m.Supports(assembler.MODE_IMMEDIATE) {
		return assembler.Imm(value), true
	} else if m.Supports(assembler.MODE_RELATIVE) {
		return assembler.Rel(value), true
	}

	return assembler.Ext(value), true
}

func (s *Script) emitMnemonic(L *lua.LState, m *assembler.Mnemonic, n int) {
	op, ok := operand(L, n, m)

	if ok {
		n++
	}

	s.target().Emit(m, op, comment(L, n)...)
}

func (s *Script) mnemonic(m *assembler.Mnemonic) lua.LGFunction {
	return func(L *lua.LState) int {
		s.emitMnemonic(L, m, 1)
		return 0
	}
}

// emit(name, operand, comment) also accepts mnemonic aliases.
func (s *Script) emit(L *lua.LState) int {
	name := L.CheckString(1)
	m, ok := s.program.InstructionSet().Lookup(name)

	if !ok {
		L.ArgError(1, fmt.Sprintf("unknown mnemonic %q", name))
	}

	s.emitMnemonic(L, m, 2)

	return 0
}

// tableValues reads fcb/fdb arguments: either values followed by an optional
// comment, or a single table of values.
func tableValues(L *lua.LState) ([]assembler.Value, []assembler.StatementOption) {
	if tbl, ok := L.Get(1).(*lua.LTable); ok {
		values := make([]assembler.Value, tbl.Len())

		for i := range values {
			value, ok := toValue(tbl.RawGetInt(i + 1))

			if !ok {
				L.ArgError(1, fmt.Sprintf("element %d is not a value", i+1))
			}

			values[i] = value
		}

		return values, comment(L, 2)
	}

	var values []assembler.Value
	var opts []assembler.StatementOption

	for n := 1; n <= L.GetTop(); n++ {
		if text, ok := L.Get(n).(lua.LString); ok && len(text) != 1 {
			opts = comment(L, n)
			break
		}

		values = append(values, checkValue(L, n))
	}

	return values, opts
}

func (s *Script) fcb(L *lua.LState) int {
	values, opts := tableValues(L)
	s.target().Bytes(values, opts...)
	return 0
}

func (s *Script) fdb(L *lua.LState) int {
	values, opts := tableValues(L)
	s.target().Words(values, opts...)
	return 0
}

func (s *Script) fcc(L *lua.LState) int {
	text := L.CheckString(1)
	values := make([]assembler.Value, len(text))

	for i := 0; i < len(text); i++ {
		values[i] = assembler.Literal(text[i])
	}

	s.target().Bytes(values, comment(L, 2)...)

	return 0
}

// pad(target[, filler]) fills with NOP unless another mnemonic is named.
func (s *Script) pad(L *lua.LState) int {
	s.programOnly(L, "pad")

	target := address(L, 1)
	name := L.OptString(2, "NOP")
	filler, ok := s.program.InstructionSet().Lookup(name)

	if !ok {
		L.ArgError(2, fmt.Sprintf("unknown mnemonic %q", name))
	}

	s.program.Pad(target, filler, comment(L, 3)...)

	return 0
}

// vectors{trap=, swi3=, swi2=, firq=, irq=, swi=, nmi=, reset=}
func (s *Script) vectors(L *lua.LState) int {
	s.programOnly(L, "vectors")

	tbl := L.CheckTable(1)

	slot := func(key string) assembler.Value {
		lv := tbl.RawGetString(key)

		if lv == lua.LNil {
			return nil
		}

		value, ok := toValue(lv)

		if !ok {
			L.ArgError(1, fmt.Sprintf("vector %s is not a value", key))
		}

		return value
	}

	m6809.Vectors{
		Trap:  slot("trap"),
		SWI3:  slot("swi3"),
		SWI2:  slot("swi2"),
		FIRQ:  slot("firq"),
		IRQ:   slot("irq"),
		SWI:   slot("swi"),
		NMI:   slot("nmi"),
		Reset: slot("reset"),
	}.Emit(s.program, comment(L, 2)...)

	return 0
}

// extension(fn[, comment]) calls fn(cursor) until it returns true. Mnemonics
// called inside fn are emitted at the extension's position.
func (s *Script) extension(L *lua.LState) int {
	s.programOnly(L, "extension")

	fn := L.CheckFunction(1)

	s.program.Extend(assembler.ExtensionFunc(
		func(ctx *assembler.ExtensionContext) (bool, error) {
			s.context = ctx
			defer func() { s.context = nil }()

			if err := s.state.CallByParam(
				lua.P{Fn: fn, NRet: 1, Protect: true},
				lua.LNumber(ctx.Cursor()),
			); err != nil {
				return false, err
			}

			done := lua.LVAsBool(s.state.Get(-1))
			s.state.Pop(1)

			return done, nil
		},
	), comment(L, 2)...)

	return 0
}

// diagnose(fn) calls fn(address) once after a successful assembly.
func (s *Script) diagnose(L *lua.LState) int {
	s.programOnly(L, "diagnose")

	fn := L.CheckFunction(1)

	s.program.Diagnose(func(d assembler.Diagnostic) {
		if err := s.state.CallByParam(
			lua.P{Fn: fn, NRet: 0, Protect: true},
			lua.LNumber(d.Address),
		); err != nil && s.err == nil {
			s.err = err
		}
	})

	return 0
}
