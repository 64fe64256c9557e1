package disasm

import (
	"fmt"
	"strings"

	"cairoprog/internal/program"
)

// Annotator returns an optional inline comment for an instruction.
// Empty string means no annotation.
type Annotator func(inst Inst) string

// HintAnnotator marks instructions that run hints, with the first line of
// the first hint's code.
func HintAnnotator(prog *program.Program) Annotator {
	return func(inst Inst) string {
		hints := prog.HintsAt(inst.PC)
		if len(hints) == 0 {
			return ""
		}
		code, _, _ := strings.Cut(hints[0].Code, "\n")
		if len(code) > 60 {
			code = code[:57] + "..."
		}
		if len(hints) == 1 {
			return "hint: " + code
		}
		return fmt.Sprintf("%d hints: %s", len(hints), code)
	}
}

// ErrorMessageAnnotator marks instructions covered by an error_message
// attribute.
func ErrorMessageAnnotator(prog *program.Program) Annotator {
	return func(inst Inst) string {
		msgs := prog.ErrorMessagesAt(inst.PC)
		if len(msgs) == 0 {
			return ""
		}
		return fmt.Sprintf("error: %q", msgs[len(msgs)-1])
	}
}

// LocationAnnotator marks instructions with their source position.
func LocationAnnotator(prog *program.Program) Annotator {
	return func(inst Inst) string {
		loc, ok := prog.InstructionLocation(inst.PC)
		if !ok {
			return ""
		}
		return loc.Inst.String()
	}
}
