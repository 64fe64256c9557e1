// Package output writes cairoprog analysis results to files.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cairoprog/internal/disasm"
)

// Summary is the program overview written to program.json.
type Summary struct {
	Path            string   `json:"path"`
	Kind            string   `json:"kind"` // "program" or "casm"
	Prime           string   `json:"prime"`
	Builtins        []string `json:"builtins"`
	DataLen         int      `json:"data_len"`
	Main            *int     `json:"main,omitempty"`
	Start           *int     `json:"start,omitempty"`
	End             *int     `json:"end,omitempty"`
	HintPCs         int      `json:"hint_pcs"`
	Hints           int      `json:"hints"`
	Identifiers     int      `json:"identifiers"`
	Constants       int      `json:"constants"`
	References      int      `json:"references"`
	ErrorMessages   int      `json:"error_messages"`
	HasDebugInfo    bool     `json:"has_debug_info"`
	CompiledSupport bool     `json:"compiled_class_support"`
}

// WriteSummaryJSON writes the program summary to program.json.
func WriteSummaryJSON(dir string, s *Summary) error {
	return WriteJSON(filepath.Join(dir, "program.json"), s)
}

// WriteASM writes disassembled instructions to asm.txt.
func WriteASM(dir string, insts []disasm.Inst, lookup disasm.SymbolLookup, annotators ...disasm.Annotator) error {
	path := filepath.Join(dir, "asm.txt")
	text := disasm.Format(insts, lookup, annotators...)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	return nil
}

// WriteDOT writes a rendered graph to <name>.dot.
func WriteDOT(dir, name, dot string) error {
	path := filepath.Join(dir, name+".dot")
	if err := os.WriteFile(path, []byte(dot), 0644); err != nil {
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	return nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("output: encode %s: %w", path, err)
	}
	return nil
}

// WriteJSONL writes one JSON record per line.
func WriteJSONL[T any](path string, records []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("output: encode %s: %w", path, err)
		}
	}
	return nil
}

// EnsureDir creates dir and its parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("output: mkdir %s: %w", dir, err)
	}
	return nil
}
