package casm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cairoprog/internal/felt"
)

func TestParseContractClass(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "contract.casm.json"))
	if err != nil {
		t.Fatal(err)
	}
	cc, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(cc.Bytecode) != 8 {
		t.Fatalf("bytecode len = %d, want 8", len(cc.Bytecode))
	}
	if !cc.Bytecode[3].Equal(felt.FromInt64(-10)) {
		t.Errorf("bytecode[3] = %s, want -10 mod P", cc.Bytecode[3])
	}
	if len(cc.Hints) != 2 {
		t.Fatalf("hint entries = %d, want 2", len(cc.Hints))
	}
	if cc.Hints[0].PC != 0 || len(cc.Hints[0].Hints) != 1 {
		t.Errorf("hints[0] = pc %d, %d hints", cc.Hints[0].PC, len(cc.Hints[0].Hints))
	}
	if cc.Hints[1].PC != 4 || len(cc.Hints[1].Hints) != 2 {
		t.Errorf("hints[1] = pc %d, %d hints", cc.Hints[1].PC, len(cc.Hints[1].Hints))
	}
	ext := cc.EntryPointsByType["EXTERNAL"]
	if len(ext) != 1 || ext[0].Offset != 0 || ext[0].Builtins[0] != "range_check" {
		t.Errorf("external entry points = %+v", ext)
	}
}

func TestParseRejectsMalformedHintEntry(t *testing.T) {
	for _, src := range []string{
		`{"bytecode": [], "hints": [[0]]}`,
		`{"bytecode": [], "hints": [[-1, []]]}`,
		`{"bytecode": [], "hints": [["x", []]]}`,
	} {
		if _, err := Parse([]byte(src)); !errors.Is(err, ErrInvalidHintEntry) {
			t.Errorf("Parse(%s): err = %v, want ErrInvalidHintEntry", src, err)
		}
	}
}
