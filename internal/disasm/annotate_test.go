package disasm

import (
	"path/filepath"
	"strings"
	"testing"

	"cairoprog/internal/cairofmt"
	"cairoprog/internal/program"
)

func loadProgram(t *testing.T) *program.Program {
	t.Helper()
	p, err := program.FromFile(filepath.Join("testdata", "program_with_hints.json"), "main")
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFunctions(t *testing.T) {
	funcs := Functions(loadProgram(t))
	want := []Function{
		{Name: "__main__.main", Start: 0, End: 6},
		{Name: "__main__.helper", Start: 6, End: 9},
	}
	if len(funcs) != len(want) {
		t.Fatalf("funcs = %+v", funcs)
	}
	for i := range want {
		if funcs[i] != want[i] {
			t.Errorf("func[%d] = %+v, want %+v", i, funcs[i], want[i])
		}
	}
	lookup := SymbolLookupFor(funcs)
	if name, ok := lookup(6); !ok || name != "__main__.helper" {
		t.Errorf("lookup(6) = %q, %v", name, ok)
	}
}

func TestAnnotators(t *testing.T) {
	p := loadProgram(t)
	insts := Disassemble(p, cairofmt.Options{})
	if len(insts) != 5 {
		t.Fatalf("got %d instructions, want 5", len(insts))
	}

	hints := HintAnnotator(p)
	if got := hints(insts[0]); got != "hint: memory[ap] = 1" {
		t.Errorf("hint(pc 0) = %q", got)
	}
	if got := hints(insts[3]); got != "2 hints: print(ids.x)" {
		t.Errorf("hint(pc 6) = %q", got)
	}
	if got := hints(insts[1]); got != "" {
		t.Errorf("hint(pc 2) = %q", got)
	}

	errs := ErrorMessageAnnotator(p)
	if got := errs(insts[1]); got != `error: "x must be positive"` {
		t.Errorf("error(pc 2) = %q", got)
	}
	if got := errs(insts[2]); got != "" {
		t.Errorf("error(pc 4) = %q", got)
	}

	locs := LocationAnnotator(p)
	if got := locs(insts[3]); got != "main.cairo:13:5" {
		t.Errorf("location(pc 6) = %q", got)
	}

	out := Format(insts, SymbolLookupFor(Functions(p)), hints, errs)
	if !strings.Contains(out, "call rel 4  ; error:") {
		t.Errorf("format:\n%s", out)
	}
}
