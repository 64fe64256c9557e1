// Package disasm decodes and prints the Cairo bytecode of a loaded program.
package disasm

import (
	"fmt"
	"strings"

	"cairoprog/internal/cairofmt"
	"cairoprog/internal/program"
	"cairoprog/internal/relocatable"
	"cairoprog/internal/serde"
)

// Inst is one disassembled instruction, or a data word that does not
// decode (Valid is false).
type Inst struct {
	PC    int
	Size  int // 1 or 2 words
	Raw   relocatable.MaybeRelocatable
	Imm   relocatable.MaybeRelocatable // set when Size == 2
	Instr Instruction
	Valid bool
	Text  string
}

// SymbolLookup resolves a pc to a symbolic name. Returns ("", false) if unknown.
type SymbolLookup func(pc int) (name string, ok bool)

// Disassemble decodes the program data from pc 0, at most
// opts.EffectiveMaxSteps() words. Relocatable words, words wider than
// 64 bits and invalid encodings are emitted as .word entries.
func Disassemble(prog *program.Program, opts cairofmt.Options) []Inst {
	words := make([]relocatable.MaybeRelocatable, 0, prog.DataLen())
	for w := range prog.Data() {
		words = append(words, w)
	}
	return DisassembleWords(words, opts)
}

// DisassembleWords decodes a raw word slice starting at pc 0.
func DisassembleWords(words []relocatable.MaybeRelocatable, opts cairofmt.Options) []Inst {
	n := min(len(words), opts.EffectiveMaxSteps())

	result := make([]Inst, 0, n)
	for pc := 0; pc < n; {
		inst := decodeAt(words, pc)
		result = append(result, inst)
		pc += inst.Size
	}
	return result
}

func decodeAt(words []relocatable.MaybeRelocatable, pc int) Inst {
	raw := words[pc]
	data := Inst{PC: pc, Size: 1, Raw: raw, Text: ".word " + raw.String()}

	f, ok := raw.Felt()
	if !ok {
		return data
	}
	word, ok := f.Uint64()
	if !ok {
		return data
	}
	in, err := Decode(word)
	if err != nil {
		return data
	}
	inst := Inst{PC: pc, Size: in.Size(), Raw: raw, Instr: in, Valid: true}
	if in.Size() == 2 {
		if pc+1 >= len(words) {
			return data
		}
		inst.Imm = words[pc+1]
	}
	inst.Text = inst.format()
	return inst
}

// DisasmOne decodes a single word and its immediate, if any.
// Returns "" if the word does not decode.
func DisasmOne(word uint64, imm relocatable.MaybeRelocatable) string {
	in, err := Decode(word)
	if err != nil {
		return ""
	}
	inst := Inst{Size: in.Size(), Instr: in, Imm: imm, Valid: true}
	return inst.format()
}

func regOff(reg serde.Register, off int) string {
	switch {
	case off == 0:
		return reg.String()
	case off < 0:
		return fmt.Sprintf("%s + (%d)", reg, off)
	}
	return fmt.Sprintf("%s + %d", reg, off)
}

func (i Inst) dst() string { return "[" + regOff(i.Instr.DstReg, i.Instr.OffDst) + "]" }
func (i Inst) op0() string { return "[" + regOff(i.Instr.Op0Reg, i.Instr.OffOp0) + "]" }

func (i Inst) op1() string {
	in := i.Instr
	switch in.Op1Src {
	case Op1Imm:
		return immString(i.Imm)
	case Op1FP:
		return "[" + regOff(serde.FP, in.OffOp1) + "]"
	case Op1AP:
		return "[" + regOff(serde.AP, in.OffOp1) + "]"
	}
	inner := regOff(in.Op0Reg, in.OffOp0)
	switch {
	case in.OffOp1 == 0:
		return "[[" + inner + "]]"
	case in.OffOp1 < 0:
		return fmt.Sprintf("[[%s] + (%d)]", inner, in.OffOp1)
	}
	return fmt.Sprintf("[[%s] + %d]", inner, in.OffOp1)
}

func (i Inst) res() string {
	switch i.Instr.Res {
	case ResAdd:
		return i.op0() + " + " + i.op1()
	case ResMul:
		return i.op0() + " * " + i.op1()
	}
	return i.op1()
}

// immString prints small immediates in their signed form.
func immString(m relocatable.MaybeRelocatable) string {
	f, ok := m.Felt()
	if !ok {
		return m.String()
	}
	if v, ok := f.Int64(); ok && v > -1<<32 && v < 1<<32 {
		return fmt.Sprintf("%d", v)
	}
	return f.Hex()
}

func (i Inst) format() string {
	in := i.Instr
	var text string
	switch in.Opcode {
	case OpRet:
		return "ret"
	case OpCall:
		mode := "abs"
		if in.PCUpdate == PCJumpRel {
			mode = "rel"
		}
		return "call " + mode + " " + i.res()
	case OpAssertEq:
		text = i.dst() + " = " + i.res()
	default:
		switch in.PCUpdate {
		case PCJumpAbs:
			text = "jmp abs " + i.res()
		case PCJumpRel:
			text = "jmp rel " + i.res()
		case PCJnz:
			text = "jmp rel " + i.op1() + " if " + i.dst() + " != 0"
		default:
			if in.APUpdate == APAdd {
				return "ap += " + i.res()
			}
			text = "nop"
		}
	}
	switch in.APUpdate {
	case APAdd1:
		text += ", ap++"
	case APAdd:
		text += ", ap += " + i.res()
	}
	return text
}

// Format renders instructions as stable text output.
// Each line: <pc>  <word>  <disasm>  ; <comments>
// Annotators are checked in order; first non-empty result is used.
func Format(insts []Inst, lookup SymbolLookup, annotators ...Annotator) string {
	var b strings.Builder
	for _, inst := range insts {
		if lookup != nil {
			if name, ok := lookup(inst.PC); ok {
				fmt.Fprintf(&b, "%s:\n", name)
			}
		}
		fmt.Fprintf(&b, "%6d  %-20s  %s", inst.PC, wordHex(inst.Raw), inst.Text)
		for _, ann := range annotators {
			if s := ann(inst); s != "" {
				fmt.Fprintf(&b, "  ; %s", s)
				break
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func wordHex(m relocatable.MaybeRelocatable) string {
	f, ok := m.Felt()
	if !ok {
		return m.String()
	}
	if v, ok := f.Uint64(); ok {
		return fmt.Sprintf("0x%016x", v)
	}
	return "wide"
}

// PlaceholderLookup returns a SymbolLookup backed by a pc -> name map.
func PlaceholderLookup(names map[int]string) SymbolLookup {
	return func(pc int) (string, bool) {
		name, ok := names[pc]
		return name, ok
	}
}
