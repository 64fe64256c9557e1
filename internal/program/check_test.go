package program

import (
	"path/filepath"
	"testing"

	"cairoprog/internal/cairofmt"
	"cairoprog/internal/relocatable"
	"cairoprog/internal/serde"
)

func TestCheckClean(t *testing.T) {
	p, err := FromFile(filepath.Join("testdata", "program_with_hints.json"), "main")
	if err != nil {
		t.Fatal(err)
	}
	if diags := p.Check(); len(diags) != 0 {
		t.Errorf("diags = %v, want none", diags)
	}
}

func TestCheckReportsOutOfRange(t *testing.T) {
	data := []relocatable.MaybeRelocatable{
		relocatable.FromUint64(0x208b7fff7fff7ffe),
		relocatable.FromRelocatable(relocatable.Relocatable{Segment: 2, Offset: 0}),
	}
	hints := map[int][]serde.HintParams{0: {hint("a")}, 7: {hint("b")}}
	identifiers := map[string]serde.Identifier{
		"__main__.f":       {PC: intPtr(9), Type: "function"},
		"__main__.__end__": {PC: intPtr(2), Type: "label"},
	}
	p, err := New(nil, data, intPtr(5), hints, serde.ReferenceManager{}, identifiers, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	diags := p.Check()
	want := []cairofmt.Diag{
		{PC: 5, Kind: cairofmt.DiagOutOfRange},
		{PC: 7, Kind: cairofmt.DiagOutOfRange},
		{PC: 9, Kind: cairofmt.DiagOutOfRange},
		{PC: 1, Kind: cairofmt.DiagRelocatable},
	}
	if len(diags) != len(want) {
		t.Fatalf("diags = %v, want %d", diags, len(want))
	}
	for i, w := range want {
		if diags[i].PC != w.PC || diags[i].Kind != w.Kind {
			t.Errorf("diag[%d] = %v, want pc=%d kind=%s", i, diags[i], w.PC, w.Kind)
		}
	}
}
