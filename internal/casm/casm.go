// Package casm reads compiled contract classes (CASM): flat bytecode plus a
// per-pc hint table whose bodies are executed by a Cairo 1 hint processor.
package casm

import (
	"encoding/json"
	"errors"
	"fmt"

	"cairoprog/internal/felt"
)

var ErrInvalidHintEntry = errors.New("casm: invalid hint table entry")

// EntryPoint is one callable entry point of the class.
type EntryPoint struct {
	Selector felt.Felt `json:"selector"`
	Offset   int       `json:"offset"`
	Builtins []string  `json:"builtins"`
}

// PCHints is the hint list registered at one pc. Hint bodies are kept
// undecoded; only the hint processor interprets them.
type PCHints struct {
	PC    int
	Hints []json.RawMessage
}

func (h *PCHints) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHintEntry, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: want [pc, hints], got %d elements", ErrInvalidHintEntry, len(pair))
	}
	if err := json.Unmarshal(pair[0], &h.PC); err != nil {
		return fmt.Errorf("%w: pc: %v", ErrInvalidHintEntry, err)
	}
	if h.PC < 0 {
		return fmt.Errorf("%w: negative pc %d", ErrInvalidHintEntry, h.PC)
	}
	if err := json.Unmarshal(pair[1], &h.Hints); err != nil {
		return fmt.Errorf("%w: hints at pc %d: %v", ErrInvalidHintEntry, h.PC, err)
	}
	return nil
}

func (h PCHints) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{h.PC, h.Hints})
}

// ContractClass is a compiled contract class.
type ContractClass struct {
	Prime             string                  `json:"prime"`
	CompilerVersion   string                  `json:"compiler_version"`
	Bytecode          []felt.Felt             `json:"bytecode"`
	Hints             []PCHints               `json:"hints"`
	EntryPointsByType map[string][]EntryPoint `json:"entry_points_by_type"`
}

// Parse decodes a contract class from JSON.
func Parse(data []byte) (*ContractClass, error) {
	var cc ContractClass
	if err := json.Unmarshal(data, &cc); err != nil {
		return nil, fmt.Errorf("casm: decode contract class: %w", err)
	}
	return &cc, nil
}
