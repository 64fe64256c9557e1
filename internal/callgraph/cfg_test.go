package callgraph

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/zboralski/lattice/render"

	"cairoprog/internal/cairofmt"
	"cairoprog/internal/disasm"
	"cairoprog/internal/felt"
	"cairoprog/internal/program"
	"cairoprog/internal/relocatable"
)

func loadFuncs(t *testing.T) []FuncInfo {
	t.Helper()
	p, err := program.FromFile(filepath.Join("testdata", "program_with_hints.json"), "main")
	if err != nil {
		t.Fatal(err)
	}
	return Collect(p, cairofmt.Options{})
}

func TestCollect(t *testing.T) {
	funcs := loadFuncs(t)
	if len(funcs) != 2 {
		t.Fatalf("funcs = %d, want 2", len(funcs))
	}
	main := funcs[0]
	if main.Name != "__main__.main" || len(main.Insts) != 3 {
		t.Errorf("main = %s with %d insts", main.Name, len(main.Insts))
	}
	if len(main.CallEdges) != 1 || main.CallEdges[0].TargetName != "__main__.helper" {
		t.Errorf("main call edges = %+v", main.CallEdges)
	}
	if len(funcs[1].CallEdges) != 0 {
		t.Errorf("helper call edges = %+v", funcs[1].CallEdges)
	}
}

func TestBuildCallGraph_DOTOutput(t *testing.T) {
	cg := BuildCallGraph(loadFuncs(t))
	if len(cg.Nodes) != 2 {
		t.Errorf("expected 2 nodes, got %d", len(cg.Nodes))
	}
	if len(cg.Edges) != 1 || cg.Edges[0].Caller != "__main__.main" || cg.Edges[0].Callee != "__main__.helper" {
		t.Errorf("edges = %+v", cg.Edges)
	}

	dot := render.DOT(cg, "cairo call graph")
	if !strings.Contains(dot, "__main__.helper") {
		t.Errorf("DOT output missing callee:\n%s", dot)
	}
}

func TestBuildCallGraph_UnnamedTarget(t *testing.T) {
	funcs := []FuncInfo{{
		Name: "f",
		CallEdges: []disasm.CallEdge{
			{FromPC: 0, Kind: "call abs", TargetPC: 40, Resolved: true},
			{FromPC: 2, Kind: "call abs", TargetPC: 40, Resolved: true},
			{FromPC: 4, Kind: "call abs"},
		},
	}}
	cg := BuildCallGraph(funcs)
	if len(cg.Edges) == 0 {
		t.Fatal("no edges")
	}
	for _, e := range cg.Edges {
		if e.Caller != "f" || e.Callee != "pc_40" {
			t.Errorf("edge = %+v, want f -> pc_40", e)
		}
	}
}

func TestBuildCFG_DOTOutput(t *testing.T) {
	cfg := BuildCFG(loadFuncs(t))
	if len(cfg.Funcs) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(cfg.Funcs))
	}

	// main: B0 = ap += 1; call rel 4, B1 = jmp rel 0 (self loop)
	f := cfg.Funcs[0]
	if len(f.Blocks) != 2 {
		t.Fatalf("main blocks = %d, want 2", len(f.Blocks))
	}
	b0 := f.Blocks[0]
	if len(b0.Calls) != 1 || b0.Calls[0].Callee != "__main__.helper" || b0.Calls[0].Offset != 1 {
		t.Errorf("B0 calls = %+v", b0.Calls)
	}
	if len(b0.Succs) != 1 || b0.Succs[0].BlockID != 1 {
		t.Errorf("B0 succs = %+v", b0.Succs)
	}
	if b1 := f.Blocks[1]; len(b1.Succs) != 1 || b1.Succs[0].BlockID != 1 {
		t.Errorf("B1 succs = %+v", b1.Succs)
	}

	helper := cfg.Funcs[1]
	if len(helper.Blocks) != 1 || !helper.Blocks[0].Term {
		t.Errorf("helper blocks = %+v", helper.Blocks)
	}

	dot := render.DOTCFG(cfg, "cairo CFG")
	if dot == "" {
		t.Error("expected non-empty DOT output")
	}
}

func TestBuildFuncCFG_Conditional(t *testing.T) {
	w := []relocatable.MaybeRelocatable{
		relocatable.FromUint64(0xa0680017fff8000), relocatable.FromUint64(4), // jmp rel 4 if [ap] != 0, ap++
		relocatable.FromUint64(0x208b7fff7fff7ffe), // ret
		relocatable.FromUint64(0x208b7fff7fff7ffe), // ret
		relocatable.FromUint64(0x1104800180018000), relocatable.FromFelt(felt.FromInt64(-4)), // call rel -4
		relocatable.FromUint64(0x208b7fff7fff7ffe), // ret
	}
	insts := disasm.DisassembleWords(w, cairofmt.Options{})
	edges := disasm.ExtractCallEdges(insts, nil)
	lcfg, n := BuildFuncCFG("f", insts, edges)
	// B0: jnz, B1: ret, B2: ret, B3: call; ret
	if n != 4 || len(lcfg.Blocks) != 4 {
		t.Fatalf("blocks = %d, want 4", n)
	}
	succs := lcfg.Blocks[0].Succs
	if len(succs) != 2 || succs[0].Cond != "T" || succs[0].BlockID != 3 || succs[1].Cond != "F" || succs[1].BlockID != 1 {
		t.Errorf("B0 succs = %+v", succs)
	}
	calls := lcfg.Blocks[3].Calls
	if len(calls) != 1 || calls[0].Callee != "pc_0" {
		t.Errorf("B3 calls = %+v", calls)
	}
}
