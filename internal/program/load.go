package program

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"

	"cairoprog/internal/cairofmt"
	"cairoprog/internal/serde"
)

// FromBytes loads a compiled program from JSON. A non-empty entrypoint
// names the function under __main__ that execution starts at.
func FromBytes(data []byte, entrypoint string) (*Program, error) {
	p, _, err := Load(data, entrypoint, cairofmt.Options{Mode: cairofmt.ModeStrict})
	return p, err
}

// FromFile loads a compiled program from a JSON file. Read errors are
// wrapped, so errors.Is(err, fs.ErrNotExist) works.
func FromFile(path string, entrypoint string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("program: read %s: %w", path, err)
	}
	p, err := FromBytes(data, entrypoint)
	if err != nil {
		return nil, fmt.Errorf("program: load %s: %w", path, err)
	}
	return p, nil
}

// Load decodes and constructs a program under opts. In best-effort mode
// malformed entries that the decoder can skip are reported as diagnostics
// instead of errors.
func Load(data []byte, entrypoint string, opts cairofmt.Options) (*Program, []cairofmt.Diag, error) {
	parsed, err := serde.Parse(data, entrypoint, opts)
	if err != nil {
		return nil, nil, err
	}
	p, err := New(
		parsed.Builtins,
		parsed.Data,
		parsed.Main,
		parsed.Hints,
		parsed.ReferenceManager,
		parsed.Identifiers,
		parsed.Attributes,
		parsed.InstructionLocations,
	)
	if err != nil {
		return nil, parsed.Diags, err
	}
	log.Debug("Loaded program", "compiler", parsed.CompilerVersion, "words", p.DataLen(),
		"builtins", p.BuiltinsLen(), "hints", len(p.Hints()), "identifiers", p.IdentifiersLen(),
		"constants", p.ConstantsLen(), "references", len(p.References()), "diags", len(parsed.Diags))
	return p, parsed.Diags, nil
}
